package handler

import (
	"net/http"

	"github.com/deppfellow/employes-api/internal/model"
	"github.com/deppfellow/employes-api/internal/server"
	"github.com/deppfellow/employes-api/internal/service"
	"github.com/labstack/echo/v4"
)

// EmployeeHandler exposes the employee CRUD endpoints.
type EmployeeHandler struct {
	Handler
	employees *service.EmployeeService

	list            echo.HandlerFunc
	findByMatricule echo.HandlerFunc
}

func NewEmployeeHandler(s *server.Server, employees *service.EmployeeService) *EmployeeHandler {
	h := &EmployeeHandler{
		Handler:   NewHandler(s),
		employees: employees,
	}
	h.list = Handle(h.Handler, h.ListEmployees, http.StatusOK, newListEmployeesRequest)
	h.findByMatricule = Handle(h.Handler, h.GetEmployeeByMatricule, http.StatusOK, newFindByMatriculeRequest)
	return h
}

// Count answers GET /employes/count.
func (h *EmployeeHandler) Count() echo.HandlerFunc {
	return Handle(h.Handler, h.CountEmployees, http.StatusOK, newEmptyRequest)
}

// GetByID answers GET /employes/:id.
func (h *EmployeeHandler) GetByID() echo.HandlerFunc {
	return Handle(h.Handler, h.GetEmployee, http.StatusOK, newEmployeeIDRequest)
}

// Query answers GET /employes: a lookup when the matricule parameter is
// present, a page otherwise.
func (h *EmployeeHandler) Query() echo.HandlerFunc {
	return func(c echo.Context) error {
		if c.QueryParams().Has("matricule") {
			return h.findByMatricule(c)
		}
		return h.list(c)
	}
}

// Create answers POST /employes.
func (h *EmployeeHandler) Create() echo.HandlerFunc {
	return Handle(h.Handler, h.CreateEmployee, http.StatusCreated, newCreateEmployeeRequest)
}

// Update answers PUT /employes/:id.
func (h *EmployeeHandler) Update() echo.HandlerFunc {
	return Handle(h.Handler, h.UpdateEmployee, http.StatusOK, newUpdateEmployeeRequest)
}

// Delete answers DELETE /employes/:id.
func (h *EmployeeHandler) Delete() echo.HandlerFunc {
	return HandleNoContent(h.Handler, h.DeleteEmployee, http.StatusNoContent, newEmployeeIDRequest)
}

func (h *EmployeeHandler) CountEmployees(c echo.Context, _ *EmptyRequest) (int64, error) {
	return h.employees.Count(c.Request().Context())
}

func (h *EmployeeHandler) GetEmployee(c echo.Context, req *EmployeeIDRequest) (*model.Employee, error) {
	return h.employees.GetByID(c.Request().Context(), req.ID)
}

func (h *EmployeeHandler) GetEmployeeByMatricule(c echo.Context, req *FindByMatriculeRequest) (*model.Employee, error) {
	return h.employees.GetByMatricule(c.Request().Context(), req.Matricule)
}

func (h *EmployeeHandler) ListEmployees(c echo.Context, req *ListEmployeesRequest) (*model.Page[model.Employee], error) {
	return h.employees.List(c.Request().Context(), req.PageRequest())
}

func (h *EmployeeHandler) CreateEmployee(c echo.Context, req *CreateEmployeeRequest) (*model.Employee, error) {
	return h.employees.Create(c.Request().Context(), req.Employee)
}

func (h *EmployeeHandler) UpdateEmployee(c echo.Context, req *UpdateEmployeeRequest) (*model.Employee, error) {
	return h.employees.Update(c.Request().Context(), req.ID, req.Employee)
}

func (h *EmployeeHandler) DeleteEmployee(c echo.Context, req *EmployeeIDRequest) error {
	return h.employees.Delete(c.Request().Context(), req.ID)
}
