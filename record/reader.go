package record

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"
)

// Field names
const (
	FieldDate     = "date"
	FieldWeight   = "weight"
	FieldIntake   = "intake_kcal"
	FieldActivity = "activity"
	FieldProtein  = "protein_g"
	FieldBodyFat  = "body_fat_pct"
)

// positional column order of headerless input
var positional = []string{FieldDate, FieldWeight, FieldIntake, FieldActivity, FieldProtein, FieldBodyFat}

var aliases = map[string]string{
	"date":          FieldDate,
	"day":           FieldDate,
	"weight":        FieldWeight,
	"weight_kg":     FieldWeight,
	"weight_lb":     FieldWeight,
	"intake":        FieldIntake,
	"intake_kcal":   FieldIntake,
	"calories":      FieldIntake,
	"activity":      FieldActivity,
	"activity_kcal": FieldActivity,
	"protein":       FieldProtein,
	"protein_g":     FieldProtein,
	"protien":       FieldProtein,
	"body_fat":      FieldBodyFat,
	"body_fat_pct":  FieldBodyFat,
	"bf":            FieldBodyFat,
}

// Reader reads records from CSV input.
//
// Input may start with a header row, in which case columns are matched by
// name. Otherwise columns are read in the order date, weight, intake_kcal,
// activity, protein_g, body_fat_pct; the last two are optional.
// Records must be in non-decreasing date order.
type Reader struct {
	r       *csv.Reader
	cols    map[string]int
	line    int
	started bool
	last    time.Time
}

// NewReader creates new Reader reading from r.
func NewReader(r io.Reader) *Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	return &Reader{r: cr}
}

// Read reads the next record.
// It returns io.EOF when there are no more records and *ParseError
// if the record is malformed or out of date order.
func (r *Reader) Read() (Record, error) {
	for {
		row, err := r.r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return Record{}, io.EOF
			}
			line := r.line + 1
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				line = pe.Line
			}
			return Record{}, &ParseError{Line: line, Err: err}
		}
		r.line, _ = r.r.FieldPos(0)

		if blank(row) {
			continue
		}

		if !r.started {
			r.started = true
			if r.header(row) {
				continue
			}
			r.cols = make(map[string]int, len(positional))
			for i, name := range positional {
				r.cols[name] = i
			}
		}

		return r.parse(row)
	}
}

// ReadAll reads all remaining records.
// It returns ErrNoData if there are none.
func (r *Reader) ReadAll() ([]Record, error) {
	var recs []Record
	for {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}
		recs = append(recs, rec)
	}

	if len(recs) == 0 {
		return nil, ErrNoData
	}

	return recs, nil
}

// header detects a header row and maps its columns.
func (r *Reader) header(row []string) bool {
	fields, ok := headerFields(row)
	if !ok {
		return false
	}

	r.cols = make(map[string]int, len(fields))
	for i, field := range fields {
		if field != "" {
			r.cols[field] = i
		}
	}

	return true
}

// headerFields maps header cells to field names; unknown cells map to "".
// A row is a header if any of its cells names a known column.
func headerFields(row []string) ([]string, bool) {
	fields := make([]string, len(row))
	known := false
	for i, name := range row {
		key := strings.ToLower(strings.TrimSpace(name))
		if field, ok := aliases[key]; ok {
			fields[i] = field
			known = true
		}
	}

	return fields, known
}

func (r *Reader) parse(row []string) (Record, error) {
	var rec Record

	ds, ok := r.field(row, FieldDate)
	if !ok {
		return Record{}, r.fail(FieldDate, ErrMissingField)
	}
	date, err := time.Parse(time.DateOnly, ds)
	if err != nil {
		return Record{}, r.fail(FieldDate, err)
	}
	if date.Before(r.last) {
		return Record{}, r.fail(FieldDate, fmt.Errorf("%w: %s after %s", ErrOutOfOrder, ds, r.last.Format(time.DateOnly)))
	}
	rec.Date = date

	for _, f := range []struct {
		name string
		dst  *float64
	}{
		{FieldWeight, &rec.Weight},
		{FieldIntake, &rec.IntakeKcal},
		{FieldActivity, &rec.Activity},
	} {
		v, ok, err := r.float(row, f.name)
		if err != nil {
			return Record{}, err
		}
		if !ok {
			return Record{}, r.fail(f.name, ErrMissingField)
		}
		*f.dst = v
	}

	if rec.Weight <= 0 {
		return Record{}, r.fail(FieldWeight, fmt.Errorf("weight must be positive: %v", rec.Weight))
	}

	if v, ok, err := r.float(row, FieldProtein); err != nil {
		return Record{}, err
	} else if ok {
		rec.Protein = &v
	}

	if v, ok, err := r.float(row, FieldBodyFat); err != nil {
		return Record{}, err
	} else if ok {
		if v < 0 || v > 100 {
			return Record{}, r.fail(FieldBodyFat, fmt.Errorf("body fat out of range: %v", v))
		}
		rec.BodyFat = &v
	}

	r.last = date

	return rec, nil
}

// field returns trimmed value of field name; ok is false if it is absent or empty.
func (r *Reader) field(row []string, name string) (string, bool) {
	i, ok := r.cols[name]
	if !ok || i >= len(row) {
		return "", false
	}

	v := strings.TrimSpace(row[i])

	return v, v != ""
}

func (r *Reader) float(row []string, name string) (float64, bool, error) {
	s, ok := r.field(row, name)
	if !ok {
		return 0, false, nil
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, r.fail(name, err)
	}

	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false, r.fail(name, fmt.Errorf("value not finite: %s", s))
	}

	return v, true, nil
}

func (r *Reader) fail(field string, err error) error {
	return &ParseError{Line: r.line, Field: field, Err: err}
}

func blank(row []string) bool {
	for _, f := range row {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}

	return true
}
