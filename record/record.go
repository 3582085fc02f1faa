// Package record reads and writes daily body composition records.
package record

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNoData is returned when there are no records to process
	ErrNoData = errors.New("no data")
	// ErrOutOfOrder is returned when record dates decrease
	ErrOutOfOrder = errors.New("record out of date order")
	// ErrMissingField is returned when a required field is empty or missing
	ErrMissingField = errors.New("missing required field")
)

// Record is a single day of measurements and control inputs.
type Record struct {
	// Date is the day the record was taken
	Date time.Time
	// Weight is measured weight in recorded units
	Weight float64
	// IntakeKcal is calories eaten
	IntakeKcal float64
	// Activity is exertion score or activity kcal, depending on the model
	Activity float64
	// BodyFat is measured body fat percentage, if any
	BodyFat *float64
	// Protein is protein eaten in grams, if any
	Protein *float64
}

// Day returns record date formatted as YYYY-MM-DD.
func (r Record) Day() string {
	return r.Date.Format(time.DateOnly)
}

// ParseError is returned when a record can't be parsed.
type ParseError struct {
	// Line is the 1-based input line of the record
	Line int
	// Field is the name of the offending field
	Field string
	// Err is the underlying error
	Err error
}

// Error implements error interface.
func (e *ParseError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("record on line %d: %v", e.Line, e.Err)
	}

	return fmt.Sprintf("record on line %d: field %s: %v", e.Line, e.Field, e.Err)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}
