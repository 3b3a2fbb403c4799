package repository

import (
	"context"
	"database/sql"

	"github.com/deppfellow/employes-api/internal/model"
	"github.com/deppfellow/employes-api/internal/sqlerr"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// SQLiteEmployeeRepository stores employees in SQLite.
//
// Dates are kept as YYYY-MM-DD text; salaries use NUMERIC affinity.
type SQLiteEmployeeRepository struct {
	db *sql.DB
}

func NewSQLiteEmployeeRepository(db *sql.DB) *SQLiteEmployeeRepository {
	return &SQLiteEmployeeRepository{db: db}
}

func (r *SQLiteEmployeeRepository) FindByID(ctx context.Context, id int64) (*model.Employee, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+employeeColumns+` FROM employes WHERE id = ?`, id)
	return r.scanOne(row, "find employee by id")
}

func (r *SQLiteEmployeeRepository) FindByMatricule(ctx context.Context, matricule string) (*model.Employee, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+employeeColumns+` FROM employes WHERE matricule = ?`, matricule)
	return r.scanOne(row, "find employee by matricule")
}

func (r *SQLiteEmployeeRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM employes WHERE id = ?)`, id).Scan(&exists)
	if err != nil {
		return false, wrapSQLiteError(err, "check employee id")
	}
	return exists, nil
}

func (r *SQLiteEmployeeRepository) ExistsByMatricule(ctx context.Context, matricule string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM employes WHERE matricule = ?)`, matricule).Scan(&exists)
	if err != nil {
		return false, wrapSQLiteError(err, "check employee matricule")
	}
	return exists, nil
}

func (r *SQLiteEmployeeRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM employes`).Scan(&count); err != nil {
		return 0, wrapSQLiteError(err, "count employees")
	}
	return count, nil
}

func (r *SQLiteEmployeeRepository) FindPage(ctx context.Context, req model.PageRequest) ([]model.Employee, error) {
	order, err := orderBy(req)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+employeeColumns+` FROM employes `+order+` LIMIT ? OFFSET ?`,
		req.Size, req.Offset(),
	)
	if err != nil {
		return nil, wrapSQLiteError(err, "list employees")
	}
	defer rows.Close()

	employees := make([]model.Employee, 0, req.Size)
	for rows.Next() {
		e, err := scanSQLiteEmployee(rows)
		if err != nil {
			return nil, wrapSQLiteError(err, "scan employees")
		}
		employees = append(employees, e)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapSQLiteError(err, "list employees")
	}
	return employees, nil
}

func (r *SQLiteEmployeeRepository) Save(ctx context.Context, e model.Employee) (*model.Employee, error) {
	dateEmbauche := nullableDate(e.DateEmbauche)

	if !e.HasID() {
		row := r.db.QueryRowContext(ctx, `
			INSERT INTO employes (matricule, nom, prenom, salaire, date_embauche)
			VALUES (?, ?, ?, ?, ?)
			RETURNING `+employeeColumns,
			e.Matricule, e.Nom, e.Prenom, e.Salaire, dateEmbauche,
		)
		return r.scanOne(row, "insert employee")
	}

	row := r.db.QueryRowContext(ctx, `
		UPDATE employes
		SET matricule = ?, nom = ?, prenom = ?, salaire = ?, date_embauche = ?
		WHERE id = ?
		RETURNING `+employeeColumns,
		e.Matricule, e.Nom, e.Prenom, e.Salaire, dateEmbauche, *e.ID,
	)
	return r.scanOne(row, "update employee")
}

func (r *SQLiteEmployeeRepository) DeleteByID(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM employes WHERE id = ?`, id); err != nil {
		return wrapSQLiteError(err, "delete employee")
	}
	return nil
}

func (r *SQLiteEmployeeRepository) scanOne(row *sql.Row, op string) (*model.Employee, error) {
	e, err := scanSQLiteEmployee(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, wrapSQLiteError(err, op)
	}
	return &e, nil
}

type sqlScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteEmployee(row sqlScanner) (model.Employee, error) {
	var (
		e            model.Employee
		id           int64
		nom, prenom  sql.NullString
		salaire      decimal.NullDecimal
		dateEmbauche sql.NullString
	)

	if err := row.Scan(&id, &e.Matricule, &nom, &prenom, &salaire, &dateEmbauche); err != nil {
		return model.Employee{}, err
	}

	e.ID = &id
	e.Nom = nom.String
	e.Prenom = prenom.String
	e.Salaire = salaire.Decimal

	if dateEmbauche.Valid && dateEmbauche.String != "" {
		d, err := model.ParseDate(dateEmbauche.String)
		if err != nil {
			return model.Employee{}, err
		}
		e.DateEmbauche = d
	}
	return e, nil
}

func nullableDate(d model.Date) sql.NullString {
	if d.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: d.String(), Valid: true}
}

// wrapSQLiteError normalizes go-sqlite3 errors and adds the failed operation.
func wrapSQLiteError(err error, op string) error {
	return errors.Wrap(sqlerr.Normalize(err), op)
}
