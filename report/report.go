// Package report renders tracker results.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/milosgajdos/go-bodycomp/config"
	"github.com/milosgajdos/go-bodycomp/estimate"
	"github.com/milosgajdos/go-bodycomp/tracker"
	"github.com/milosgajdos/go-bodycomp/trend"
)

// Format is report output format.
type Format string

const (
	// Text is line oriented human readable output
	Text Format = "text"
	// CSV is comma separated estimates, weight in kg
	CSV Format = "csv"
	// Table is a rendered text table
	Table Format = "table"
)

// ParseFormat parses report format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case Text, CSV, Table:
		return f, nil
	}

	return "", fmt.Errorf("unknown report format: %q", s)
}

// Write writes result res to w in format f.
// smoothed, if not nil, must hold one smoothed estimate per result day.
// It returns error if writing fails or smoothed does not match res.
func Write(w io.Writer, res *tracker.Result, smoothed []*estimate.Body, f Format) error {
	if smoothed != nil && len(smoothed) != len(res.Days) {
		return fmt.Errorf("smoothed estimates: expected %d, got %d", len(res.Days), len(smoothed))
	}

	switch f {
	case Text:
		return writeText(w, res, smoothed)
	case CSV:
		return writeCSV(w, res, smoothed)
	case Table:
		return writeTable(w, res, smoothed)
	}

	return fmt.Errorf("unknown report format: %q", f)
}

// Line formats a single day estimate.
func Line(e *estimate.Body) string {
	s := fmt.Sprintf("final est: %.2f lb  TDEE %.0f kcal", e.Weight()*config.LbPerKg, e.Maintenance())
	if k, ok := e.Coefficient(); ok {
		s += fmt.Sprintf("  k/RE %.1f", k)
	}
	if bf, ok := e.BodyFat(); ok {
		s += fmt.Sprintf("  BF %.1f%%", bf)
	}

	return s
}

// SummaryLines formats trend summary s.
func SummaryLines(s tracker.Summary) []string {
	d := s.Deltas
	lines := []string{
		fmt.Sprintf("7-day Kalman %s %.2flb, 14-day %s %.2flb, %%%s/week: %.3f%%",
			trend.Label(d.Week), math.Abs(d.Week*config.LbPerKg),
			trend.Label(d.Fortnight), math.Abs(d.Fortnight*config.LbPerKg),
			trend.Label(d.Fortnight), math.Abs(d.LossPerWeek*100)),
		s.Recommendation.String(),
	}

	if s.Target != nil {
		lines = append(lines, fmt.Sprintf("Target: %.0f kcal/day since %s", s.Target.Kcal, s.Target.Date))
	}

	return lines
}

func writeText(w io.Writer, res *tracker.Result, smoothed []*estimate.Body) error {
	for i, d := range res.Days {
		line := Line(d.Estimate)
		if smoothed != nil {
			line += fmt.Sprintf("  smoothed %.2f lb", smoothed[i].Weight()*config.LbPerKg)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	return writeSummary(w, res.Summary())
}

func writeSummary(w io.Writer, s tracker.Summary) error {
	for _, line := range SummaryLines(s) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	return nil
}

func header(res *tracker.Result, smoothed bool) []string {
	h := []string{"date"}

	l := res.Days[0].Estimate.Layout()
	if l.BodyFat != estimate.Absent {
		h = append(h, "bf_est")
	}
	h = append(h, "wt_est_kg", "tdee_est_kcal")
	if l.Coefficient != estimate.Absent {
		h = append(h, "coef_est")
	}
	if smoothed {
		h = append(h, "wt_smooth_kg")
	}

	return h
}

func row(d tracker.Day, smoothed *estimate.Body) []string {
	e := d.Estimate
	r := []string{d.Record.Day()}

	if bf, ok := e.BodyFat(); ok {
		r = append(r, strconv.FormatFloat(bf, 'f', 2, 64))
	}
	r = append(r,
		strconv.FormatFloat(e.Weight(), 'f', 2, 64),
		strconv.FormatFloat(e.Maintenance(), 'f', 0, 64),
	)
	if k, ok := e.Coefficient(); ok {
		r = append(r, strconv.FormatFloat(k, 'f', 1, 64))
	}
	if smoothed != nil {
		r = append(r, strconv.FormatFloat(smoothed.Weight(), 'f', 2, 64))
	}

	return r
}

func writeCSV(w io.Writer, res *tracker.Result, smoothed []*estimate.Body) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(header(res, smoothed != nil)); err != nil {
		return err
	}

	for i, d := range res.Days {
		var s *estimate.Body
		if smoothed != nil {
			s = smoothed[i]
		}
		if err := cw.Write(row(d, s)); err != nil {
			return err
		}
	}

	cw.Flush()

	return cw.Error()
}

func writeTable(w io.Writer, res *tracker.Result, smoothed []*estimate.Body) error {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	h := header(res, smoothed != nil)
	hr := make(table.Row, len(h))
	for i := range h {
		hr[i] = h[i]
	}
	t.AppendHeader(hr)

	for i, d := range res.Days {
		var s *estimate.Body
		if smoothed != nil {
			s = smoothed[i]
		}
		cells := row(d, s)
		r := make(table.Row, len(cells))
		for j := range cells {
			r[j] = cells[j]
		}
		t.AppendRow(r)
	}

	t.Render()

	return writeSummary(w, res.Summary())
}
