package service

import (
	"github.com/deppfellow/employes-api/internal/repository"
	"github.com/deppfellow/employes-api/internal/server"
)

type Services struct {
	Employees *EmployeeService
}

func NewService(s *server.Server, repos *repository.Repositories) (*Services, error) {
	return &Services{
		Employees: NewEmployeeService(repos.Employees),
	}, nil
}
