package repository

import (
	"context"
	"time"

	"github.com/deppfellow/employes-api/internal/model"
	"github.com/deppfellow/employes-api/internal/sqlerr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// DBTX is the subset of pgx shared by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresEmployeeRepository stores employees in PostgreSQL.
type PostgresEmployeeRepository struct {
	db DBTX
}

func NewPostgresEmployeeRepository(db DBTX) *PostgresEmployeeRepository {
	return &PostgresEmployeeRepository{db: db}
}

func (r *PostgresEmployeeRepository) FindByID(ctx context.Context, id int64) (*model.Employee, error) {
	row := r.db.QueryRow(ctx, `SELECT `+employeeColumns+` FROM employes WHERE id = $1`, id)
	return r.scanOne(row, "find employee by id")
}

func (r *PostgresEmployeeRepository) FindByMatricule(ctx context.Context, matricule string) (*model.Employee, error) {
	row := r.db.QueryRow(ctx, `SELECT `+employeeColumns+` FROM employes WHERE matricule = $1`, matricule)
	return r.scanOne(row, "find employee by matricule")
}

func (r *PostgresEmployeeRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM employes WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, wrapPgError(err, "check employee id")
	}
	return exists, nil
}

func (r *PostgresEmployeeRepository) ExistsByMatricule(ctx context.Context, matricule string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM employes WHERE matricule = $1)`, matricule).Scan(&exists)
	if err != nil {
		return false, wrapPgError(err, "check employee matricule")
	}
	return exists, nil
}

func (r *PostgresEmployeeRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM employes`).Scan(&count); err != nil {
		return 0, wrapPgError(err, "count employees")
	}
	return count, nil
}

func (r *PostgresEmployeeRepository) FindPage(ctx context.Context, req model.PageRequest) ([]model.Employee, error) {
	order, err := orderBy(req)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx,
		`SELECT `+employeeColumns+` FROM employes `+order+` LIMIT $1 OFFSET $2`,
		req.Size, req.Offset(),
	)
	if err != nil {
		return nil, wrapPgError(err, "list employees")
	}

	employees, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Employee, error) {
		return scanPgEmployee(row)
	})
	if err != nil {
		return nil, wrapPgError(err, "scan employees")
	}
	return employees, nil
}

func (r *PostgresEmployeeRepository) Save(ctx context.Context, e model.Employee) (*model.Employee, error) {
	if !e.HasID() {
		row := r.db.QueryRow(ctx, `
			INSERT INTO employes (matricule, nom, prenom, salaire, date_embauche)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING `+employeeColumns,
			e.Matricule, e.Nom, e.Prenom, e.Salaire.String(), e.DateEmbauche.TimePtr(),
		)
		return r.scanOne(row, "insert employee")
	}

	row := r.db.QueryRow(ctx, `
		UPDATE employes
		SET matricule = $2, nom = $3, prenom = $4, salaire = $5, date_embauche = $6
		WHERE id = $1
		RETURNING `+employeeColumns,
		*e.ID, e.Matricule, e.Nom, e.Prenom, e.Salaire.String(), e.DateEmbauche.TimePtr(),
	)
	return r.scanOne(row, "update employee")
}

func (r *PostgresEmployeeRepository) DeleteByID(ctx context.Context, id int64) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM employes WHERE id = $1`, id); err != nil {
		return wrapPgError(err, "delete employee")
	}
	return nil
}

func (r *PostgresEmployeeRepository) scanOne(row pgx.Row, op string) (*model.Employee, error) {
	e, err := scanPgEmployee(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, wrapPgError(err, op)
	}
	return &e, nil
}

func scanPgEmployee(row pgx.Row) (model.Employee, error) {
	var (
		e            model.Employee
		id           int64
		nom, prenom  *string
		salaire      decimal.NullDecimal
		dateEmbauche *time.Time
	)

	if err := row.Scan(&id, &e.Matricule, &nom, &prenom, &salaire, &dateEmbauche); err != nil {
		return model.Employee{}, err
	}

	e.ID = &id
	if nom != nil {
		e.Nom = *nom
	}
	if prenom != nil {
		e.Prenom = *prenom
	}
	e.Salaire = salaire.Decimal
	e.DateEmbauche = model.DateFromTime(dateEmbauche)
	return e, nil
}

// wrapPgError normalizes PostgreSQL errors and adds the failed operation.
func wrapPgError(err error, op string) error {
	return errors.Wrap(sqlerr.Normalize(err), op)
}
