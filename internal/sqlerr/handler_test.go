package sqlerr

import (
	"database/sql"
	"net/http"
	"testing"

	"github.com/deppfellow/employes-api/internal/errs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapCode(t *testing.T) {
	assert.Equal(t, UniqueViolation, MapCode("23505"))
	assert.Equal(t, NotNullViolation, MapCode("23502"))
	assert.Equal(t, CheckViolation, MapCode("23514"))
	assert.Equal(t, InvalidDatetimeFormat, MapCode("22008"))
	assert.Equal(t, Other, MapCode("08006"))

	assert.True(t, UniqueViolation.IsConstraint())
	assert.False(t, Other.IsConstraint())
}

func TestNormalizePgError(t *testing.T) {
	pgErr := &pgconn.PgError{
		Severity:       "ERROR",
		Code:           "23505",
		Message:        `duplicate key value violates unique constraint "employes_matricule_key"`,
		TableName:      "employes",
		ConstraintName: "employes_matricule_key",
	}

	err := errors.Wrap(Normalize(errors.Wrap(pgErr, "insert employee")), "save")

	assert.Equal(t, UniqueViolation, ErrCode(err))
	assert.True(t, IsConstraintViolation(err))

	var unwrapped *pgconn.PgError
	assert.ErrorAs(t, err, &unwrapped)
}

func TestNormalizeLeavesUnknownErrors(t *testing.T) {
	cause := errors.New("connection reset")
	assert.Equal(t, cause, Normalize(cause))
	assert.Nil(t, Normalize(nil))
	assert.Equal(t, Other, ErrCode(cause))
}

func TestHandleError(t *testing.T) {
	t.Run("unique violation is a conflict naming the column", func(t *testing.T) {
		err := HandleError(&pgconn.PgError{
			Code:           "23505",
			TableName:      "employes",
			ConstraintName: "employes_matricule_key",
		})

		var httpErr *errs.HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusConflict, httpErr.Status)
		assert.Equal(t, "EMPLOYE_ALREADY_EXISTS", httpErr.Code)
		assert.Equal(t, "A Employe with this Matricule already exists", httpErr.Message)
	})

	t.Run("not null violation is a bad request with a field error", func(t *testing.T) {
		err := HandleError(&pgconn.PgError{Code: "23502", TableName: "employes", ColumnName: "matricule"})

		var httpErr *errs.HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusBadRequest, httpErr.Status)
		assert.Equal(t, "EMPLOYE_REQUIRED", httpErr.Code)
		assert.Equal(t, []errs.FieldError{{Field: "matricule", Error: "is required"}}, httpErr.Errors)
	})

	t.Run("check violation is a bad request", func(t *testing.T) {
		err := HandleError(errors.Wrap(&Error{Code: CheckViolation, TableName: "employes", ColumnName: "nom"}, "insert"))
		assert.Equal(t, http.StatusBadRequest, errs.StatusOf(err))
	})

	t.Run("no rows is a not found", func(t *testing.T) {
		assert.Equal(t, http.StatusNotFound, errs.StatusOf(HandleError(pgx.ErrNoRows)))
		assert.Equal(t, http.StatusNotFound, errs.StatusOf(HandleError(errors.Wrap(sql.ErrNoRows, "find"))))
	})

	t.Run("storage failures are internal errors without the cause", func(t *testing.T) {
		err := HandleError(errors.New("disk I/O error"))

		var httpErr *errs.HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusInternalServerError, httpErr.Status)
		assert.Equal(t, http.StatusText(http.StatusInternalServerError), httpErr.Message)
	})

	t.Run("non constraint database errors are internal errors", func(t *testing.T) {
		err := HandleError(&pgconn.PgError{Code: "57P01", Message: "terminating connection"})
		assert.Equal(t, http.StatusInternalServerError, errs.StatusOf(err))
	})

	t.Run("HTTP errors pass through", func(t *testing.T) {
		notFound := errs.NewNotFoundError("employee 1 not found", true, nil)
		assert.Same(t, notFound, HandleError(notFound))
	})
}

func TestExtractColumnForUniqueViolation(t *testing.T) {
	assert.Equal(t, "matricule", extractColumnForUniqueViolation("employes_matricule_key"))
	assert.Equal(t, "matricule", extractColumnForUniqueViolation("unique_employes_matricule"))
	assert.Equal(t, "", extractColumnForUniqueViolation("employes_pkey"))
	assert.Equal(t, "", extractColumnForUniqueViolation(""))
}

func TestParseSQLiteConstraintTarget(t *testing.T) {
	table, column := parseSQLiteConstraintTarget("UNIQUE constraint failed: employes.matricule")
	assert.Equal(t, "employes", table)
	assert.Equal(t, "matricule", column)

	table, column = parseSQLiteConstraintTarget("UNIQUE constraint failed: employes.nom, employes.prenom")
	assert.Equal(t, "employes", table)
	assert.Equal(t, "nom", column)

	table, column = parseSQLiteConstraintTarget("database is locked")
	assert.Empty(t, table)
	assert.Empty(t, column)
}
