package handler

import (
	"io/fs"

	"github.com/deppfellow/employes-api/internal/server"
	"github.com/deppfellow/employes-api/internal/service"
)

// Handlers groups every HTTP handler so router setup passes one value around.
type Handlers struct {
	Employees *EmployeeHandler
	Health    *HealthHandler
	OpenAPI   *OpenAPIHandler
}

func NewHandlers(s *server.Server, services *service.Services, recorder HealthRecorder, assets fs.FS) *Handlers {
	return &Handlers{
		Employees: NewEmployeeHandler(s, services.Employees),
		Health:    NewHealthHandler(s, recorder),
		OpenAPI:   NewOpenAPIHandler(s, assets),
	}
}
