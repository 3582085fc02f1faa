package record

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
)

// Writer writes records without a header row.
// Columns follow the positional order unless the writer was created for
// an existing header.
type Writer struct {
	w *csv.Writer
	// cols are field names of output columns, nil for positional order
	cols []string
}

// NewWriter creates new Writer writing to w in positional column order.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: csv.NewWriter(w)}
}

// NewHeaderWriter creates new Writer writing to w in the column order of header.
// Columns with unknown names are left empty.
// It returns error if header does not name any known column.
func NewHeaderWriter(w io.Writer, header []string) (*Writer, error) {
	cols, ok := headerFields(header)
	if !ok {
		return nil, fmt.Errorf("invalid header: %v", header)
	}

	return &Writer{w: csv.NewWriter(w), cols: cols}, nil
}

// Write writes a single record and flushes it.
// It returns error wrapping ErrMissingField if the record carries a value
// the writer's header has no column for.
func (w *Writer) Write(rec Record) error {
	var row []string
	if w.cols == nil {
		row = positionalRow(rec)
	} else {
		var err error
		if row, err = w.headerRow(rec); err != nil {
			return fmt.Errorf("write record %s: %w", rec.Day(), err)
		}
	}

	if err := w.w.Write(row); err != nil {
		return fmt.Errorf("write record %s: %w", rec.Day(), err)
	}
	w.w.Flush()

	return w.w.Error()
}

func (w *Writer) headerRow(rec Record) ([]string, error) {
	vals := values(rec)

	row := make([]string, len(w.cols))
	for i, field := range w.cols {
		if v, ok := vals[field]; ok {
			row[i] = v
			delete(vals, field)
		}
	}

	for _, field := range positional {
		if _, ok := vals[field]; ok {
			return nil, fmt.Errorf("%w: no %s column", ErrMissingField, field)
		}
	}

	return row, nil
}

func positionalRow(rec Record) []string {
	row := []string{
		rec.Day(),
		formatFloat(rec.Weight),
		formatFloat(rec.IntakeKcal),
		formatFloat(rec.Activity),
	}

	switch {
	case rec.BodyFat != nil:
		protein := ""
		if rec.Protein != nil {
			protein = formatFloat(*rec.Protein)
		}
		row = append(row, protein, formatFloat(*rec.BodyFat))
	case rec.Protein != nil:
		row = append(row, formatFloat(*rec.Protein))
	}

	return row
}

// values returns formatted values of all fields rec carries.
func values(rec Record) map[string]string {
	vals := map[string]string{
		FieldDate:     rec.Day(),
		FieldWeight:   formatFloat(rec.Weight),
		FieldIntake:   formatFloat(rec.IntakeKcal),
		FieldActivity: formatFloat(rec.Activity),
	}
	if rec.Protein != nil {
		vals[FieldProtein] = formatFloat(*rec.Protein)
	}
	if rec.BodyFat != nil {
		vals[FieldBodyFat] = formatFloat(*rec.BodyFat)
	}

	return vals
}

// Append appends rec to the CSV file at path, creating the file if needed.
// If the file starts with a header row the record is written in its column
// order, otherwise in positional order.
func Append(path string, rec Record) error {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}

	w, err := appendWriter(f)
	if err != nil {
		f.Close()
		return fmt.Errorf("append %s: %w", path, err)
	}

	if err := w.Write(rec); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}

// appendWriter returns a Writer matching the layout of f positioned at its end.
func appendWriter(f *os.File) (*Writer, error) {
	info, err := f.Stat()
	if err != nil {
		return nil, err
	}

	size := info.Size()
	if size == 0 {
		return NewWriter(f), nil
	}

	first, err := firstRow(f)
	if err != nil {
		return nil, err
	}

	// the last line may lack its terminator
	last := make([]byte, 1)
	if _, err := f.ReadAt(last, size-1); err != nil {
		return nil, err
	}
	if _, err := f.Seek(0, io.SeekEnd); err != nil {
		return nil, err
	}
	if last[0] != '\n' {
		if _, err := f.Write([]byte{'\n'}); err != nil {
			return nil, err
		}
	}

	if _, ok := headerFields(first); ok {
		return NewHeaderWriter(f, first)
	}

	return NewWriter(f), nil
}

// firstRow returns the first non-blank row of r or nil if there is none.
func firstRow(r io.Reader) ([]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	for {
		row, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, nil
			}
			return nil, err
		}
		if !blank(row) {
			return row, nil
		}
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
