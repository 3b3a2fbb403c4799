package router

import (
	"net/http"

	"github.com/deppfellow/employes-api/internal/handler"
	"github.com/labstack/echo/v4"
)

// EmployeesBasePath is where the employee API is mounted.
const EmployeesBasePath = "/employes"

// Route is one entry of a routing table.
type Route struct {
	Method  string
	Path    string
	Handler echo.HandlerFunc
}

// EmployeeRoutes is the routing table of the employee API, relative to
// EmployeesBasePath.
func EmployeeRoutes(h *handler.EmployeeHandler) []Route {
	return []Route{
		{Method: http.MethodGet, Path: "/count", Handler: h.Count()},
		{Method: http.MethodGet, Path: "/:id", Handler: h.GetByID()},
		{Method: http.MethodGet, Path: "", Handler: h.Query()},
		{Method: http.MethodPost, Path: "", Handler: h.Create()},
		{Method: http.MethodPut, Path: "/:id", Handler: h.Update()},
		{Method: http.MethodDelete, Path: "/:id", Handler: h.Delete()},
	}
}

func registerEmployeeRoutes(r *echo.Echo, h *handler.Handlers) {
	employees := r.Group(EmployeesBasePath)
	for _, route := range EmployeeRoutes(h.Employees) {
		employees.Add(route.Method, route.Path, route.Handler)
	}
}
