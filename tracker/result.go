package tracker

import (
	"fmt"

	bodycomp "github.com/milosgajdos/go-bodycomp"
	"github.com/milosgajdos/go-bodycomp/config"
	"github.com/milosgajdos/go-bodycomp/estimate"
	"github.com/milosgajdos/go-bodycomp/record"
	"github.com/milosgajdos/go-bodycomp/smooth/rts"
	"github.com/milosgajdos/go-bodycomp/trend"
	"gonum.org/v1/gonum/mat"
)

// Result is the outcome of a tracker run.
type Result struct {
	// Variant is the model variant
	Variant Variant
	// Config is the run configuration
	Config config.Config
	// Days are processed days in date order
	Days []Day

	model bodycomp.Model
	q     bodycomp.Noise
}

// Run runs a tracker of variant v over records recs and returns the result.
// It returns record.ErrNoData if recs is empty, and the first error
// encountered while processing a record otherwise.
func Run(v Variant, cfg config.Config, recs []record.Record) (*Result, error) {
	if len(recs) == 0 {
		return nil, record.ErrNoData
	}

	t, err := New(v, cfg, recs[0])
	if err != nil {
		return nil, err
	}

	res := &Result{
		Variant: v,
		Config:  cfg,
		Days:    make([]Day, 0, len(recs)),
		model:   t.Model(),
		q:       t.StateNoise(),
	}

	for _, rec := range recs {
		d, err := t.Step(rec)
		if err != nil {
			return nil, err
		}
		res.Days = append(res.Days, *d)
	}

	return res, nil
}

// Last returns the last processed day.
func (r *Result) Last() Day {
	return r.Days[len(r.Days)-1]
}

// Weights returns filtered weights in kg.
func (r *Result) Weights() []float64 {
	w := make([]float64, len(r.Days))
	for i, d := range r.Days {
		w[i] = d.Estimate.Weight()
	}

	return w
}

// Measured returns measured weights in kg.
func (r *Result) Measured() []float64 {
	w := make([]float64, len(r.Days))
	for i, d := range r.Days {
		w[i] = d.Measurement.AtVec(0)
	}

	return w
}

// Intakes returns daily calorie intakes.
func (r *Result) Intakes() []float64 {
	in := make([]float64, len(r.Days))
	for i, d := range r.Days {
		in[i] = d.Record.IntakeKcal
	}

	return in
}

// Summary is a trend summary of a run.
type Summary struct {
	// Deltas are filtered weight deltas in kg
	Deltas trend.Deltas
	// Recommendation is calorie intake advice
	Recommendation trend.Recommendation
	// Target is the configured calorie target, if any
	Target *config.Target
}

// Summary computes trend summary of filtered weights.
func (r *Result) Summary() Summary {
	d := trend.Compute(r.Weights())

	return Summary{
		Deltas:         d,
		Recommendation: trend.Recommend(d.LossPerWeek, r.Intakes(), r.Config.Policy),
		Target:         r.Config.Target,
	}
}

// Smooth returns retrospectively smoothed estimates of all days.
// Filtered estimates are left intact.
// It returns error if the smoother fails.
func (r *Result) Smooth() ([]*estimate.Body, error) {
	s, err := rts.New(r.model, r.q)
	if err != nil {
		return nil, err
	}

	est := make([]bodycomp.Estimate, len(r.Days))
	u := make([]mat.Vector, len(r.Days))
	for i, d := range r.Days {
		est[i] = d.Estimate
		u[i] = d.Input
	}

	sx, err := s.Smooth(est, u)
	if err != nil {
		return nil, fmt.Errorf("smoothing failed: %w", err)
	}

	layout := r.Days[0].Estimate.Layout()
	out := make([]*estimate.Body, len(sx))
	for i := range sx {
		b, err := estimate.NewBody(sx[i], layout)
		if err != nil {
			return nil, err
		}
		out[i] = b
	}

	return out, nil
}
