// Package model holds the data shapes shared by the repository, service
// and handler layers. It carries no persistence or HTTP logic.
package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Salaries travel as JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Employee is one row of the employes table.
//
// ID is nil until the database assigns it. Matricule is the business
// identifier: one letter M, T or C followed by five digits.
type Employee struct {
	ID           *int64          `json:"id"`
	Matricule    string          `json:"matricule" validate:"required,matricule"`
	Nom          string          `json:"nom" validate:"max=50"`
	Prenom       string          `json:"prenom" validate:"max=50"`
	Salaire      decimal.Decimal `json:"salaire"`
	DateEmbauche Date            `json:"dateEmbauche"`
}

// HasID reports whether the employee carries an identifier.
func (e Employee) HasID() bool {
	return e.ID != nil
}

// WithID returns a copy of e carrying id.
func (e Employee) WithID(id int64) Employee {
	e.ID = &id
	return e
}

// DateLayout is the wire and storage format of Date.
const DateLayout = "2006-01-02"

// Date is a calendar day without time-of-day. The zero value encodes as JSON null.
type Date struct {
	time.Time
}

// NewDate returns the Date for the given day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("date must be formatted as YYYY-MM-DD: %w", err)
	}
	return Date{Time: t}, nil
}

// DateFromTime truncates t to its calendar day. A nil pointer yields the zero Date.
func DateFromTime(t *time.Time) Date {
	if t == nil {
		return Date{}
	}
	return NewDate(t.Year(), t.Month(), t.Day())
}

// TimePtr returns nil for the zero Date, for use as a nullable column value.
func (d Date) TimePtr() *time.Time {
	if d.IsZero() {
		return nil
	}
	t := d.Time
	return &t
}

// String formats the date as YYYY-MM-DD, empty for the zero Date.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format(DateLayout))
}

func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*d = Date{}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*d = Date{}
		return nil
	}

	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
