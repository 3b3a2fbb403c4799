package repository

import (
	"github.com/deppfellow/employes-api/internal/config"
	"github.com/deppfellow/employes-api/internal/database"
	"github.com/deppfellow/employes-api/internal/server"
)

// Repositories is a container for all repository instances.
type Repositories struct {
	Employees EmployeeRepository
}

// NewRepositories builds the repositories on top of the backend selected by
// the database driver.
func NewRepositories(s *server.Server) *Repositories {
	return &Repositories{
		Employees: NewEmployeeRepository(s.DB),
	}
}

// NewEmployeeRepository returns the EmployeeRepository matching db's driver.
func NewEmployeeRepository(db *database.Database) EmployeeRepository {
	if db.Driver == config.DriverSQLite {
		return NewSQLiteEmployeeRepository(db.SQL)
	}
	return NewPostgresEmployeeRepository(db.Pool)
}
