package service

import (
	"context"
	"fmt"

	"github.com/deppfellow/employes-api/internal/errs"
	"github.com/deppfellow/employes-api/internal/model"
	"github.com/deppfellow/employes-api/internal/repository"
	"github.com/deppfellow/employes-api/internal/validation"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

var (
	codeEmployeeNotFound      = "EMPLOYE_NOT_FOUND"
	codeEmployeeAlreadyExists = "EMPLOYE_ALREADY_EXISTS"
	codeEmployeeIDMismatch    = "EMPLOYE_ID_MISMATCH"
)

// EmployeeService applies the employee rules on top of an EmployeeRepository.
//
// Client mistakes come back as *errs.HTTPError. Storage failures are returned
// wrapped and left for the global error handler to classify.
type EmployeeService struct {
	repo repository.EmployeeRepository
}

func NewEmployeeService(repo repository.EmployeeRepository) *EmployeeService {
	return &EmployeeService{repo: repo}
}

func (s *EmployeeService) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

func (s *EmployeeService) GetByID(ctx context.Context, id int64) (*model.Employee, error) {
	employee, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, employeeNotFound(id)
		}
		return nil, err
	}
	return employee, nil
}

func (s *EmployeeService) GetByMatricule(ctx context.Context, matricule string) (*model.Employee, error) {
	if err := validation.ValidateMatricule(matricule); err != nil {
		return nil, err
	}

	employee, err := s.repo.FindByMatricule(ctx, matricule)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errs.NewNotFoundError(
				fmt.Sprintf("employee with matricule %s not found", matricule), true, &codeEmployeeNotFound)
		}
		return nil, err
	}
	return employee, nil
}

// List returns one page of employees. The page must start within the
// collection: page*size may not exceed the number of stored employees.
func (s *EmployeeService) List(ctx context.Context, req model.PageRequest) (*model.Page[model.Employee], error) {
	if err := validation.ValidatePageRequest(req.Page, req.Size, req.SortProperty); err != nil {
		return nil, err
	}

	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, err
	}

	if err := validation.ValidatePageWindow(req.Page, req.Size, total); err != nil {
		return nil, err
	}

	employees, err := s.repo.FindPage(ctx, req)
	if err != nil {
		return nil, err
	}

	page := model.NewPage(employees, req, total)
	return &page, nil
}

// Create stores a new employee. A payload id is only used to detect a
// duplicate; the database always assigns the id of the new row.
func (s *EmployeeService) Create(ctx context.Context, employee model.Employee) (*model.Employee, error) {
	if employee.HasID() {
		exists, err := s.repo.ExistsByID(ctx, *employee.ID)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, errs.NewConflictError(
				fmt.Sprintf("employee with id %d already exists", *employee.ID), true, &codeEmployeeAlreadyExists)
		}
	}

	exists, err := s.repo.ExistsByMatricule(ctx, employee.Matricule)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, matriculeTaken(employee.Matricule)
	}

	employee.ID = nil
	created, err := s.repo.Save(ctx, employee)
	if err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Info().
		Int64("employee_id", *created.ID).
		Str("matricule", created.Matricule).
		Msg("employee created")

	return created, nil
}

// Update replaces the employee stored under id.
//
// A body id must equal the path id, the target must exist and the
// matricule may not belong to another employee.
func (s *EmployeeService) Update(ctx context.Context, id int64, employee model.Employee) (*model.Employee, error) {
	if employee.HasID() && *employee.ID != id {
		return nil, errs.NewBadRequestError(
			fmt.Sprintf("employee id %d does not match path id %d", *employee.ID, id),
			true, &codeEmployeeIDMismatch, nil, nil)
	}

	exists, err := s.repo.ExistsByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, employeeNotFound(id)
	}

	owner, err := s.repo.FindByMatricule(ctx, employee.Matricule)
	switch {
	case err == nil:
		if *owner.ID != id {
			return nil, matriculeTaken(employee.Matricule)
		}
	case !errors.Is(err, repository.ErrNotFound):
		return nil, err
	}

	updated, err := s.repo.Save(ctx, employee.WithID(id))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, employeeNotFound(id)
		}
		return nil, err
	}

	zerolog.Ctx(ctx).Info().
		Int64("employee_id", id).
		Str("matricule", updated.Matricule).
		Msg("employee updated")

	return updated, nil
}

// Delete removes the employee if present. Deleting an unknown id succeeds.
func (s *EmployeeService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return err
	}

	zerolog.Ctx(ctx).Info().Int64("employee_id", id).Msg("employee deleted")
	return nil
}

func employeeNotFound(id int64) *errs.HTTPError {
	return errs.NewNotFoundError(fmt.Sprintf("employee %d not found", id), true, &codeEmployeeNotFound)
}

func matriculeTaken(matricule string) *errs.HTTPError {
	return errs.NewConflictError(
		fmt.Sprintf("employee with matricule %s already exists", matricule), true, &codeEmployeeAlreadyExists)
}
