package handler

import (
	"encoding/json"

	"github.com/deppfellow/employes-api/internal/model"
	"github.com/deppfellow/employes-api/internal/validation"
)

// EmptyRequest is bound by endpoints taking no input.
type EmptyRequest struct{}

func (r *EmptyRequest) Validate() error {
	return nil
}

func newEmptyRequest() *EmptyRequest {
	return &EmptyRequest{}
}

// EmployeeIDRequest carries the :id path parameter. A non-integer id fails binding.
type EmployeeIDRequest struct {
	ID int64 `param:"id"`
}

func (r *EmployeeIDRequest) Validate() error {
	return nil
}

func newEmployeeIDRequest() *EmployeeIDRequest {
	return &EmployeeIDRequest{}
}

// FindByMatriculeRequest carries the matricule query parameter.
type FindByMatriculeRequest struct {
	Matricule string `query:"matricule"`
}

func (r *FindByMatriculeRequest) Validate() error {
	return validation.ValidateMatricule(r.Matricule)
}

func newFindByMatriculeRequest() *FindByMatriculeRequest {
	return &FindByMatriculeRequest{}
}

// ListEmployeesRequest carries the paging query parameters. Absent
// parameters keep the defaults set by newListEmployeesRequest.
type ListEmployeesRequest struct {
	Page          int32  `query:"page"`
	Size          int32  `query:"size"`
	SortProperty  string `query:"sortProperty"`
	SortDirection string `query:"sortDirection"`

	direction model.SortDirection
}

func newListEmployeesRequest() *ListEmployeesRequest {
	return &ListEmployeesRequest{
		Page:          model.DefaultPage,
		Size:          model.DefaultPageSize,
		SortProperty:  model.DefaultSortProperty,
		SortDirection: string(model.DefaultSortDirection),
	}
}

func (r *ListEmployeesRequest) Validate() error {
	direction, err := validation.ParseSortDirection(r.SortDirection)
	if err != nil {
		return err
	}
	r.direction = direction

	return validation.ValidatePageRequest(r.Page, r.Size, r.SortProperty)
}

// PageRequest returns the validated paging parameters.
func (r *ListEmployeesRequest) PageRequest() model.PageRequest {
	return model.PageRequest{
		Page:          r.Page,
		Size:          r.Size,
		SortProperty:  r.SortProperty,
		SortDirection: r.direction,
	}
}

// CreateEmployeeRequest is an employee JSON body.
//
// The employee is a named field so Echo does not try to bind path or query
// parameters into it; UnmarshalJSON reads the body straight into it.
type CreateEmployeeRequest struct {
	Employee model.Employee `param:"-" query:"-"`
}

func newCreateEmployeeRequest() *CreateEmployeeRequest {
	return &CreateEmployeeRequest{}
}

func (r *CreateEmployeeRequest) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &r.Employee)
}

func (r *CreateEmployeeRequest) Validate() error {
	return validation.Struct(r.Employee)
}

// UpdateEmployeeRequest is the :id path parameter plus an employee JSON body.
type UpdateEmployeeRequest struct {
	ID       int64          `param:"id" json:"-"`
	Employee model.Employee `param:"-" query:"-"`
}

func newUpdateEmployeeRequest() *UpdateEmployeeRequest {
	return &UpdateEmployeeRequest{}
}

func (r *UpdateEmployeeRequest) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &r.Employee)
}

func (r *UpdateEmployeeRequest) Validate() error {
	return validation.Struct(r.Employee)
}
