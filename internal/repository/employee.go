// Package repository handles all interactions with the database.
//
// It contains raw SQL queries and methods to fetch, persist,
// or delete employees, abstracting SQL logic away from the service layer.
// Two backends implement EmployeeRepository: PostgreSQL through pgx and
// SQLite through database/sql.
package repository

import (
	"context"
	"fmt"

	"github.com/deppfellow/employes-api/internal/model"
	"github.com/pkg/errors"
)

// ErrNotFound is returned when no employee matches a lookup.
var ErrNotFound = errors.New("employee not found")

// EmployeeRepository is the persistence port of the employee API.
//
// Driver failures are returned wrapped around a *sqlerr.Error when the
// database rejected the values, and around the raw driver error otherwise.
type EmployeeRepository interface {
	FindByID(ctx context.Context, id int64) (*model.Employee, error)
	FindByMatricule(ctx context.Context, matricule string) (*model.Employee, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)
	ExistsByMatricule(ctx context.Context, matricule string) (bool, error)
	Count(ctx context.Context) (int64, error)
	FindPage(ctx context.Context, req model.PageRequest) ([]model.Employee, error)
	// Save inserts e when it has no ID and replaces the stored row otherwise.
	// Replacing a missing row returns ErrNotFound.
	Save(ctx context.Context, e model.Employee) (*model.Employee, error)
	// DeleteByID removes the row if present. A missing row is not an error.
	DeleteByID(ctx context.Context, id int64) error
}

const employeeColumns = "id, matricule, nom, prenom, salaire, date_embauche"

// sortColumns maps the sortable JSON properties onto their column.
var sortColumns = map[string]string{
	"id":           "id",
	"matricule":    "matricule",
	"nom":          "nom",
	"prenom":       "prenom",
	"salaire":      "salaire",
	"dateEmbauche": "date_embauche",
}

// orderBy renders the ORDER BY clause for req. Ties are broken by id so
// consecutive pages never overlap.
func orderBy(req model.PageRequest) (string, error) {
	column, ok := sortColumns[req.SortProperty]
	if !ok {
		return "", errors.Errorf("unsupported sort property %q", req.SortProperty)
	}

	direction := model.SortAsc
	if req.SortDirection == model.SortDesc {
		direction = model.SortDesc
	}

	if column == "id" {
		return fmt.Sprintf("ORDER BY id %s", direction), nil
	}
	return fmt.Sprintf("ORDER BY %s %s, id ASC", column, direction), nil
}
