package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/deppfellow/employes-api/internal/database"
	"github.com/deppfellow/employes-api/internal/errs"
	"github.com/deppfellow/employes-api/internal/model"
	"github.com/deppfellow/employes-api/internal/repository"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *EmployeeService {
	t.Helper()

	logger := zerolog.Nop()
	db, err := database.OpenSQLite(context.Background(), ":memory:", &logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewEmployeeService(repository.NewEmployeeRepository(db))
}

func requireStatus(t *testing.T, err error, status int) *errs.HTTPError {
	t.Helper()

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, status, httpErr.Status)
	return httpErr
}

func ptr(id int64) *int64 {
	return &id
}

func TestCreate(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	created, err := svc.Create(ctx, model.Employee{Matricule: "M00001", Nom: "Doe"})
	require.NoError(t, err)
	require.NotNil(t, created.ID)

	t.Run("duplicate matricule is a conflict", func(t *testing.T) {
		_, err := svc.Create(ctx, model.Employee{Matricule: "M00001"})
		httpErr := requireStatus(t, err, http.StatusConflict)
		assert.Equal(t, "EMPLOYE_ALREADY_EXISTS", httpErr.Code)
	})

	t.Run("existing id is a conflict", func(t *testing.T) {
		_, err := svc.Create(ctx, model.Employee{ID: created.ID, Matricule: "M00002"})
		requireStatus(t, err, http.StatusConflict)
	})

	t.Run("unknown payload id is replaced by the generated one", func(t *testing.T) {
		other, err := svc.Create(ctx, model.Employee{ID: ptr(999), Matricule: "M00003"})
		require.NoError(t, err)
		assert.NotEqual(t, int64(999), *other.ID)
	})

	count, err := svc.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestGet(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	created, err := svc.Create(ctx, model.Employee{Matricule: "C00042"})
	require.NoError(t, err)

	byID, err := svc.GetByID(ctx, *created.ID)
	require.NoError(t, err)
	assert.Equal(t, "C00042", byID.Matricule)

	byMatricule, err := svc.GetByMatricule(ctx, "C00042")
	require.NoError(t, err)
	assert.Equal(t, *created.ID, *byMatricule.ID)

	_, err = svc.GetByID(ctx, *created.ID+1)
	httpErr := requireStatus(t, err, http.StatusNotFound)
	assert.Equal(t, "EMPLOYE_NOT_FOUND", httpErr.Code)

	_, err = svc.GetByMatricule(ctx, "C00043")
	requireStatus(t, err, http.StatusNotFound)

	_, err = svc.GetByMatricule(ctx, "X1")
	requireStatus(t, err, http.StatusBadRequest)
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	first, err := svc.Create(ctx, model.Employee{Matricule: "M00001", Nom: "Doe"})
	require.NoError(t, err)
	second, err := svc.Create(ctx, model.Employee{Matricule: "M00002"})
	require.NoError(t, err)

	t.Run("replaces the stored employee", func(t *testing.T) {
		updated, err := svc.Update(ctx, *first.ID, model.Employee{Matricule: "M00001", Nom: "Roe"})
		require.NoError(t, err)
		assert.Equal(t, *first.ID, *updated.ID)
		assert.Equal(t, "Roe", updated.Nom)
	})

	t.Run("body id must match the path id", func(t *testing.T) {
		_, err := svc.Update(ctx, *first.ID, model.Employee{ID: second.ID, Matricule: "M00001"})
		httpErr := requireStatus(t, err, http.StatusBadRequest)
		assert.Equal(t, "EMPLOYE_ID_MISMATCH", httpErr.Code)
	})

	t.Run("missing employee", func(t *testing.T) {
		_, err := svc.Update(ctx, *second.ID+10, model.Employee{Matricule: "M00009"})
		requireStatus(t, err, http.StatusNotFound)
	})

	t.Run("matricule owned by another employee", func(t *testing.T) {
		_, err := svc.Update(ctx, *first.ID, model.Employee{Matricule: "M00002"})
		requireStatus(t, err, http.StatusConflict)
	})
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	created, err := svc.Create(ctx, model.Employee{Matricule: "T00001"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, *created.ID))
	require.NoError(t, svc.Delete(ctx, *created.ID))

	_, err = svc.GetByID(ctx, *created.ID)
	requireStatus(t, err, http.StatusNotFound)
}

func TestList(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	for _, matricule := range []string{"M00003", "M00001", "M00002"} {
		_, err := svc.Create(ctx, model.Employee{Matricule: matricule})
		require.NoError(t, err)
	}

	page, err := svc.List(ctx, model.PageRequest{Page: 0, Size: 2, SortProperty: "matricule", SortDirection: model.SortAsc})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.TotalElements)
	assert.Equal(t, int64(2), page.TotalPages)
	require.Len(t, page.Content, 2)
	assert.Equal(t, "M00001", page.Content[0].Matricule)
	assert.True(t, page.First)
	assert.False(t, page.Last)

	_, err = svc.List(ctx, model.PageRequest{Page: 2, Size: 2, SortProperty: "matricule", SortDirection: model.SortAsc})
	requireStatus(t, err, http.StatusBadRequest)

	_, err = svc.List(ctx, model.PageRequest{Page: 0, Size: 51, SortProperty: "matricule", SortDirection: model.SortAsc})
	requireStatus(t, err, http.StatusBadRequest)
}

func TestListEmptyCollection(t *testing.T) {
	page, err := newTestService(t).List(context.Background(),
		model.PageRequest{Page: 0, Size: 10, SortProperty: "matricule", SortDirection: model.SortAsc})
	require.NoError(t, err)
	assert.True(t, page.Empty)
	assert.Empty(t, page.Content)
}

// failingRepository fails every call as an unreachable database would.
type failingRepository struct {
	repository.EmployeeRepository
	err error
}

func (r failingRepository) Count(context.Context) (int64, error) {
	return 0, r.err
}

func (r failingRepository) ExistsByMatricule(context.Context, string) (bool, error) {
	return false, r.err
}

func TestStorageFailuresAreNotClientErrors(t *testing.T) {
	cause := errors.New("database is closed")
	svc := NewEmployeeService(failingRepository{err: errors.Wrap(cause, "count employees")})

	_, err := svc.Count(context.Background())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, http.StatusInternalServerError, errs.StatusOf(err))

	_, err = svc.Create(context.Background(), model.Employee{Matricule: "M00001"})
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, http.StatusInternalServerError, errs.StatusOf(err))
}
