package model

import "strings"

// SortDirection orders a page ascending or descending.
type SortDirection string

const (
	SortAsc  SortDirection = "ASC"
	SortDesc SortDirection = "DESC"
)

// ParseSortDirection accepts ASC or DESC in any letter case.
func ParseSortDirection(s string) (SortDirection, bool) {
	switch SortDirection(strings.ToUpper(strings.TrimSpace(s))) {
	case SortAsc:
		return SortAsc, true
	case SortDesc:
		return SortDesc, true
	default:
		return "", false
	}
}

// Pagination defaults applied when the client omits a parameter.
const (
	DefaultPage          int32 = 0
	DefaultPageSize      int32 = 10
	MaxPageSize          int32 = 50
	DefaultSortProperty        = "matricule"
	DefaultSortDirection       = SortAsc
)

// PageRequest describes a zero-based page of the employee collection.
type PageRequest struct {
	Page          int32
	Size          int32
	SortProperty  string
	SortDirection SortDirection
}

// Offset is the index of the first row of the page, computed in 64 bits.
func (p PageRequest) Offset() int64 {
	return int64(p.Page) * int64(p.Size)
}

// Sort echoes the ordering applied to a page.
type Sort struct {
	Property  string        `json:"property"`
	Direction SortDirection `json:"direction"`
}

// Page is one ordered slice of a collection plus the metadata a client needs
// to walk the remaining pages.
type Page[T any] struct {
	Content          []T   `json:"content"`
	TotalElements    int64 `json:"totalElements"`
	TotalPages       int64 `json:"totalPages"`
	Size             int32 `json:"size"`
	Number           int32 `json:"number"`
	NumberOfElements int   `json:"numberOfElements"`
	First            bool  `json:"first"`
	Last             bool  `json:"last"`
	Empty            bool  `json:"empty"`
	Sort             Sort  `json:"sort"`
}

// NewPage assembles a Page from the rows fetched for req and the collection total.
func NewPage[T any](content []T, req PageRequest, total int64) Page[T] {
	if content == nil {
		content = []T{}
	}

	var totalPages int64
	if req.Size > 0 {
		size := int64(req.Size)
		totalPages = (total + size - 1) / size
	}

	return Page[T]{
		Content:          content,
		TotalElements:    total,
		TotalPages:       totalPages,
		Size:             req.Size,
		Number:           req.Page,
		NumberOfElements: len(content),
		First:            req.Page == 0,
		Last:             int64(req.Page)+1 >= totalPages,
		Empty:            len(content) == 0,
		Sort: Sort{
			Property:  req.SortProperty,
			Direction: req.SortDirection,
		},
	}
}
