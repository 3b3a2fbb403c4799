package router

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/deppfellow/employes-api/internal/config"
	"github.com/deppfellow/employes-api/internal/database"
	"github.com/deppfellow/employes-api/internal/errs"
	"github.com/deppfellow/employes-api/internal/handler"
	"github.com/deppfellow/employes-api/internal/middleware"
	"github.com/deppfellow/employes-api/internal/model"
	"github.com/deppfellow/employes-api/internal/repository"
	"github.com/deppfellow/employes-api/internal/server"
	"github.com/deppfellow/employes-api/internal/service"
	"github.com/deppfellow/employes-api/static"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRouter(t *testing.T, configure func(cfg *config.Config)) *echo.Echo {
	t.Helper()

	cfg := config.DefaultConfig()
	if configure != nil {
		configure(cfg)
	}

	logger := zerolog.Nop()
	db, err := database.OpenSQLite(context.Background(), ":memory:", &logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	srv := &server.Server{
		Config: cfg,
		Logger: &logger,
		DB:     db,
	}

	services, err := service.NewService(srv, repository.NewRepositories(srv))
	require.NoError(t, err)

	middlewares := middleware.NewMiddlewares(srv)
	handlers := handler.NewHandlers(srv, services, middlewares.Metrics, static.FS)

	return NewRouter(srv, handlers, middlewares)
}

func doRequest(t *testing.T, e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errs.HTTPError {
	t.Helper()

	var httpErr errs.HTTPError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &httpErr), rec.Body.String())
	return httpErr
}

func createEmployee(t *testing.T, e *echo.Echo, body string) model.Employee {
	t.Helper()

	rec := doRequest(t, e, http.MethodPost, "/employes", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var employee model.Employee
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &employee))
	require.NotNil(t, employee.ID)
	return employee
}

func TestCountOnEmptyStore(t *testing.T) {
	e := setupTestRouter(t, nil)

	rec := doRequest(t, e, http.MethodGet, "/employes/count", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `0`, rec.Body.String())
}

func TestSayHello(t *testing.T) {
	e := setupTestRouter(t, nil)

	rec := doRequest(t, e, http.MethodGet, "/sayHello", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Hello", rec.Body.String())
}

func TestCreateAndFetchEmployee(t *testing.T) {
	e := setupTestRouter(t, nil)

	created := createEmployee(t, e, `{
		"matricule": "M00001",
		"nom": "Doe",
		"prenom": "John",
		"salaire": 1500.5,
		"dateEmbauche": "2020-03-01"
	}`)
	assert.Equal(t, "M00001", created.Matricule)

	t.Run("by id", func(t *testing.T) {
		rec := doRequest(t, e, http.MethodGet, fmt.Sprintf("/employes/%d", *created.ID), "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, fmt.Sprintf(`{
			"id": %d,
			"matricule": "M00001",
			"nom": "Doe",
			"prenom": "John",
			"salaire": 1500.5,
			"dateEmbauche": "2020-03-01"
		}`, *created.ID), rec.Body.String())
	})

	t.Run("by matricule", func(t *testing.T) {
		rec := doRequest(t, e, http.MethodGet, "/employes?matricule=M00001", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var found model.Employee
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &found))
		assert.Equal(t, *created.ID, *found.ID)
	})

	t.Run("count", func(t *testing.T) {
		rec := doRequest(t, e, http.MethodGet, "/employes/count", "")
		assert.JSONEq(t, `1`, rec.Body.String())
	})

	t.Run("unknown id", func(t *testing.T) {
		rec := doRequest(t, e, http.MethodGet, fmt.Sprintf("/employes/%d", *created.ID+1), "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "EMPLOYE_NOT_FOUND", decodeError(t, rec).Code)
	})

	t.Run("unknown matricule", func(t *testing.T) {
		rec := doRequest(t, e, http.MethodGet, "/employes?matricule=C12345", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestCreateDuplicateMatricule(t *testing.T) {
	e := setupTestRouter(t, nil)

	createEmployee(t, e, `{"matricule":"M00001"}`)

	rec := doRequest(t, e, http.MethodPost, "/employes", `{"matricule":"M00001","nom":"Other"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "EMPLOYE_ALREADY_EXISTS", decodeError(t, rec).Code)
}

func TestCreateRejectsInvalidPayloads(t *testing.T) {
	e := setupTestRouter(t, nil)

	tests := []struct {
		name  string
		body  string
		field string
	}{
		{name: "bad matricule", body: `{"matricule":"X1"}`, field: "matricule"},
		{name: "missing matricule", body: `{"nom":"Doe"}`, field: "matricule"},
		{name: "name too long", body: fmt.Sprintf(`{"matricule":"M00001","nom":%q}`, strings.Repeat("a", 51)), field: "nom"},
		{name: "malformed date", body: `{"matricule":"M00001","dateEmbauche":"01/03/2020"}`},
		{name: "malformed json", body: `{"matricule":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, e, http.MethodPost, "/employes", tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

			if tt.field != "" {
				httpErr := decodeError(t, rec)
				require.NotEmpty(t, httpErr.Errors)
				assert.Equal(t, tt.field, httpErr.Errors[0].Field)
			}
		})
	}

	rec := doRequest(t, e, http.MethodGet, "/employes/count", "")
	assert.JSONEq(t, `0`, rec.Body.String())
}

func TestFindByMalformedMatricule(t *testing.T) {
	e := setupTestRouter(t, nil)

	rec := doRequest(t, e, http.MethodGet, "/employes?matricule=X1", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeError(t, rec).Message, "matricule")
}

func TestNonIntegerID(t *testing.T) {
	e := setupTestRouter(t, nil)

	for _, method := range []string{http.MethodGet, http.MethodDelete} {
		rec := doRequest(t, e, method, "/employes/abc", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, method)
	}
}

func TestListEmployees(t *testing.T) {
	e := setupTestRouter(t, nil)

	for _, body := range []string{
		`{"matricule":"T00001","nom":"Claude"}`,
		`{"matricule":"M00002","nom":"Adam"}`,
		`{"matricule":"M00001","nom":"Bernard"}`,
	} {
		createEmployee(t, e, body)
	}

	t.Run("defaults", func(t *testing.T) {
		rec := doRequest(t, e, http.MethodGet, "/employes", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var page model.Page[model.Employee]
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
		assert.Equal(t, int64(3), page.TotalElements)
		assert.Equal(t, int32(10), page.Size)
		assert.Equal(t, int32(0), page.Number)
		require.Len(t, page.Content, 3)
		assert.Equal(t, "M00001", page.Content[0].Matricule)
		assert.Equal(t, model.Sort{Property: "matricule", Direction: model.SortAsc}, page.Sort)
	})

	t.Run("sorted and paged", func(t *testing.T) {
		rec := doRequest(t, e, http.MethodGet, "/employes?page=1&size=2&sortProperty=nom&sortDirection=desc", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var page model.Page[model.Employee]
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
		require.Len(t, page.Content, 1)
		assert.Equal(t, "Adam", page.Content[0].Nom)
		assert.True(t, page.Last)
	})

	t.Run("trailing slash", func(t *testing.T) {
		rec := doRequest(t, e, http.MethodGet, "/employes/", "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("page beyond the collection", func(t *testing.T) {
		rec := doRequest(t, e, http.MethodGet, "/employes?page=2&size=2", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "page number and page size are inconsistent", decodeError(t, rec).Message)
	})
}

func TestListRejectsInvalidPaging(t *testing.T) {
	e := setupTestRouter(t, nil)

	tests := []struct {
		query   string
		message string
	}{
		{query: "page=-1", message: "page and size must be positive"},
		{query: "size=0", message: "page and size must be positive"},
		{query: "size=51", message: "size must be less than or equal to 50"},
		{query: "sortProperty=foo", message: "sort property foo is incorrect"},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			rec := doRequest(t, e, http.MethodGet, "/employes?"+tt.query, "")
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.message, decodeError(t, rec).Message)
		})
	}

	for _, query := range []string{"sortDirection=up", "page=abc", "size=1.5"} {
		rec := doRequest(t, e, http.MethodGet, "/employes?"+query, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, query)
	}
}

func TestUpdateEmployee(t *testing.T) {
	e := setupTestRouter(t, nil)

	first := createEmployee(t, e, `{"matricule":"M00001","nom":"Doe"}`)
	second := createEmployee(t, e, `{"matricule":"M00002"}`)
	path := fmt.Sprintf("/employes/%d", *first.ID)

	t.Run("replaces the employee", func(t *testing.T) {
		rec := doRequest(t, e, http.MethodPut, path, `{"matricule":"M00001","nom":"Roe","salaire":2000}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var updated model.Employee
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
		assert.Equal(t, *first.ID, *updated.ID)
		assert.Equal(t, "Roe", updated.Nom)
		assert.Equal(t, "2000", updated.Salaire.String())
	})

	t.Run("body id differs from path id", func(t *testing.T) {
		body := fmt.Sprintf(`{"id":%d,"matricule":"M00001"}`, *second.ID)
		rec := doRequest(t, e, http.MethodPut, path, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("matricule of another employee", func(t *testing.T) {
		rec := doRequest(t, e, http.MethodPut, path, `{"matricule":"M00002"}`)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("unknown employee", func(t *testing.T) {
		rec := doRequest(t, e, http.MethodPut, "/employes/9999", `{"matricule":"M00009"}`)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("invalid payload", func(t *testing.T) {
		rec := doRequest(t, e, http.MethodPut, path, `{"matricule":"bad"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestDeleteIsIdempotent(t *testing.T) {
	e := setupTestRouter(t, nil)

	created := createEmployee(t, e, `{"matricule":"C00001"}`)
	path := fmt.Sprintf("/employes/%d", *created.ID)

	for i := 0; i < 2; i++ {
		rec := doRequest(t, e, http.MethodDelete, path, "")
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Body.String())
	}

	rec := doRequest(t, e, http.MethodGet, path, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(t, e, http.MethodDelete, "/employes/424242", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestUnknownRouteAndMethod(t *testing.T) {
	e := setupTestRouter(t, nil)

	rec := doRequest(t, e, http.MethodGet, "/nowhere", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", decodeError(t, rec).Code)

	rec = doRequest(t, e, http.MethodPatch, "/employes/1", `{}`)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestSystemRoutes(t *testing.T) {
	e := setupTestRouter(t, nil)

	t.Run("status", func(t *testing.T) {
		rec := doRequest(t, e, http.MethodGet, "/status", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var health handler.HealthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
		assert.Equal(t, "healthy", health.Status)
		assert.Equal(t, config.DriverSQLite, health.Driver)
		assert.Equal(t, "healthy", health.Checks["database"].Status)
		assert.NotContains(t, health.Checks, "redis")
	})

	t.Run("metrics", func(t *testing.T) {
		doRequest(t, e, http.MethodGet, "/sayHello", "")

		rec := doRequest(t, e, http.MethodGet, "/metrics", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "employes_http_requests_total")
		assert.Contains(t, rec.Body.String(), `route="/sayHello"`)
		assert.Contains(t, rec.Body.String(), `employes_health_checks_total{check="database",status="healthy"}`)
	})

	t.Run("docs", func(t *testing.T) {
		rec := doRequest(t, e, http.MethodGet, "/docs", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get(echo.HeaderContentType), echo.MIMETextHTML)

		rec = doRequest(t, e, http.MethodGet, "/static/openapi.json", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"openapi"`)
	})

	t.Run("request id is echoed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/sayHello", nil)
		req.Header.Set(middleware.RequestIDHeader, "abc-123")
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Equal(t, "abc-123", rec.Header().Get(middleware.RequestIDHeader))
	})
}

func TestHealthReportsUnreachableDatabase(t *testing.T) {
	cfg := config.DefaultConfig()
	logger := zerolog.Nop()
	db, err := database.OpenSQLite(context.Background(), ":memory:", &logger)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	srv := &server.Server{Config: cfg, Logger: &logger, DB: db}
	services, err := service.NewService(srv, repository.NewRepositories(srv))
	require.NoError(t, err)
	middlewares := middleware.NewMiddlewares(srv)
	e := NewRouter(srv, handler.NewHandlers(srv, services, middlewares.Metrics, static.FS), middlewares)

	rec := doRequest(t, e, http.MethodGet, "/status", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = doRequest(t, e, http.MethodGet, "/employes/count", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, http.StatusText(http.StatusInternalServerError), decodeError(t, rec).Message)
}

func TestRateLimit(t *testing.T) {
	e := setupTestRouter(t, func(cfg *config.Config) {
		cfg.RateLimit = config.RateLimitConfig{Enabled: true, Requests: 1, Window: time.Minute}
	})

	rec := doRequest(t, e, http.MethodGet, "/sayHello", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, e, http.MethodGet, "/sayHello", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	rec = doRequest(t, e, http.MethodGet, "/status", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}
