package validation

import (
	"fmt"
	"regexp"
	"slices"

	"github.com/deppfellow/employes-api/internal/errs"
	"github.com/deppfellow/employes-api/internal/model"
)

// MatriculeFormatMessage describes the expected matricule format.
const MatriculeFormatMessage = "matricule must be one letter M/T/C followed by 5 digits"

var matriculeRegex = regexp.MustCompile(`^[MTC][0-9]{5}$`)

// SortProperties lists the JSON field names a page may be ordered by.
var SortProperties = []string{"id", "matricule", "nom", "prenom", "salaire", "dateEmbauche"}

// IsValidMatricule reports whether s is one of M, T or C followed by exactly five ASCII digits.
func IsValidMatricule(s string) bool {
	return matriculeRegex.MatchString(s)
}

// ValidateMatricule returns a 400 error when s is not a well-formed matricule.
func ValidateMatricule(s string) error {
	if !IsValidMatricule(s) {
		return errs.NewBadRequestError(MatriculeFormatMessage, true, nil, nil, nil)
	}
	return nil
}

// IsSortProperty reports whether a page may be ordered by property.
func IsSortProperty(property string) bool {
	return slices.Contains(SortProperties, property)
}

// ParseSortDirection parses ASC or DESC in any letter case.
func ParseSortDirection(s string) (model.SortDirection, error) {
	direction, ok := model.ParseSortDirection(s)
	if !ok {
		return "", errs.NewBadRequestError(
			fmt.Sprintf("sort direction %q is incorrect, expected ASC or DESC", s), true, nil, nil, nil)
	}
	return direction, nil
}

// ValidatePageRequest checks the bounds of a page request that do not depend
// on the stored data. Checks run in order: positive bounds, sort property, size ceiling.
func ValidatePageRequest(page, size int32, sortProperty string) error {
	if page < 0 || size <= 0 {
		return errs.NewBadRequestError("page and size must be positive", true, nil, nil, nil)
	}
	if !IsSortProperty(sortProperty) {
		return errs.NewBadRequestError(
			fmt.Sprintf("sort property %s is incorrect", sortProperty), true, nil, nil, nil)
	}
	if size > model.MaxPageSize {
		return errs.NewBadRequestError(
			fmt.Sprintf("size must be less than or equal to %d", model.MaxPageSize), true, nil, nil, nil)
	}
	return nil
}

// ValidatePageWindow rejects a page starting beyond the end of a collection of
// total rows. The product is computed in 64 bits so int32 inputs cannot overflow.
func ValidatePageWindow(page, size int32, total int64) error {
	if int64(size)*int64(page) > total {
		return errs.NewBadRequestError("page number and page size are inconsistent", true, nil, nil, nil)
	}
	return nil
}
