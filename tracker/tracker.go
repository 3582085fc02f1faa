// Package tracker runs body composition filters over daily records.
package tracker

import (
	"fmt"
	"time"

	bodycomp "github.com/milosgajdos/go-bodycomp"
	"github.com/milosgajdos/go-bodycomp/config"
	"github.com/milosgajdos/go-bodycomp/estimate"
	"github.com/milosgajdos/go-bodycomp/kalman"
	"github.com/milosgajdos/go-bodycomp/kalman/ekf"
	"github.com/milosgajdos/go-bodycomp/kalman/kf"
	"github.com/milosgajdos/go-bodycomp/model"
	"github.com/milosgajdos/go-bodycomp/noise"
	"github.com/milosgajdos/go-bodycomp/record"
	"github.com/milosgajdos/go-bodycomp/sim"
	"gonum.org/v1/gonum/mat"
)

// Variant is a body composition model variant.
type Variant string

const (
	// Weight estimates [weight, maintenance]
	Weight Variant = "weight"
	// Exertion estimates [weight, maintenance, kcal per activity unit]
	Exertion Variant = "exertion"
	// BodyFat estimates [weight, maintenance, body fat %]
	BodyFat Variant = "bodyfat"
)

// Variants lists all supported variants.
var Variants = []Variant{Weight, Exertion, BodyFat}

// ParseVariant parses variant name.
func ParseVariant(s string) (Variant, error) {
	for _, v := range Variants {
		if string(v) == s {
			return v, nil
		}
	}

	return "", fmt.Errorf("unknown model variant: %q", s)
}

// bodyModel is a model with a named state layout.
type bodyModel interface {
	bodycomp.Model
	Layout() estimate.Layout
}

// Day is a single processed day.
type Day struct {
	// Record is the input record as read
	Record record.Record
	// Input is the filter control input
	Input mat.Vector
	// Measurement is the filter measurement, weight in kg
	Measurement mat.Vector
	// Estimate is the posterior estimate
	Estimate *estimate.Body
}

// Tracker tracks body composition day by day.
// Tracker is not safe for concurrent use.
type Tracker struct {
	variant Variant
	cfg     config.Config
	model   bodyModel
	filter  kalman.Kalman
	q       bodycomp.Noise
	x       mat.Vector
	last    time.Time
	started bool
}

// New creates new Tracker of variant v and returns it.
// first is the first record to be processed: it provides the prior weight
// and body fat if the config leaves them unset.
// It returns error if the config is invalid or the filter can't be created.
func New(v Variant, cfg config.Config, first record.Record) (*Tracker, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	w0 := cfg.InitialWeight
	if w0 == 0 {
		w0 = cfg.ToKg(first.Weight)
	}
	if !(w0 > 0) {
		return nil, fmt.Errorf("invalid initial weight: %v", w0)
	}

	var (
		m      bodyModel
		tuning config.Tuning
		state  []float64
		err    error
	)

	switch v {
	case Weight:
		m, err = model.NewWeight(cfg.EnergyPerKg)
		tuning = cfg.Weight
		state = []float64{w0, cfg.InitialMaintenance}
	case Exertion:
		m, err = model.NewExertion(cfg.EnergyPerKg)
		tuning = cfg.Exertion
		state = []float64{w0, cfg.InitialMaintenance, cfg.InitialCoefficient}
	case BodyFat:
		bf0 := cfg.InitialBodyFat
		if bf0 == 0 {
			if first.BodyFat == nil {
				return nil, fmt.Errorf("initial body fat: %w: %s", record.ErrMissingField, record.FieldBodyFat)
			}
			bf0 = *first.BodyFat
		}
		m, err = model.NewBodyFat(cfg.EnergyPerKg)
		tuning = cfg.BodyFat
		state = []float64{w0, cfg.InitialMaintenance, bf0}
	default:
		return nil, fmt.Errorf("unknown model variant: %q", v)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create %s model: %w", v, err)
	}

	q, err := noise.NewDiag(tuning.Process)
	if err != nil {
		return nil, fmt.Errorf("invalid process noise: %w", err)
	}

	r, err := noise.NewDiag(tuning.Measurement)
	if err != nil {
		return nil, fmt.Errorf("invalid measurement noise: %w", err)
	}

	init := sim.NewDiagInitCond(state, tuning.Prior)

	var f kalman.Kalman
	if d, ok := m.(bodycomp.DiscreteModel); ok {
		f, err = kf.New(d, init, q, r)
	} else {
		f, err = ekf.New(m, init, q, r)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create %s filter: %w", v, err)
	}

	return &Tracker{
		variant: v,
		cfg:     cfg,
		model:   m,
		filter:  f,
		q:       q,
		x:       init.State(),
	}, nil
}

// Variant returns tracker model variant
func (t *Tracker) Variant() Variant {
	return t.variant
}

// Model returns tracker model
func (t *Tracker) Model() bodycomp.Model {
	return t.model
}

// StateNoise returns tracker process noise
func (t *Tracker) StateNoise() bodycomp.Noise {
	return t.q
}

// Gain returns the Kalman gain of the last update
func (t *Tracker) Gain() mat.Matrix {
	return t.filter.Gain()
}

// Step advances the tracker by one day of record rec and returns the processed day.
// Records must be passed in non-decreasing date order.
// It returns error if rec is out of order, misses a measurement required by
// the variant or the filter fails.
func (t *Tracker) Step(rec record.Record) (*Day, error) {
	if t.started && rec.Date.Before(t.last) {
		return nil, fmt.Errorf("%s: %w", rec.Day(), record.ErrOutOfOrder)
	}

	u := model.NewInput(rec.IntakeKcal, rec.Activity)

	z, err := t.measurement(rec)
	if err != nil {
		return nil, err
	}

	pred, err := t.filter.Predict(t.x, u)
	if err != nil {
		return nil, fmt.Errorf("%s: predict: %w", rec.Day(), err)
	}

	est, err := t.filter.Update(pred.Val(), u, z)
	if err != nil {
		return nil, fmt.Errorf("%s: update: %w", rec.Day(), err)
	}

	body, err := estimate.NewBody(est, t.model.Layout())
	if err != nil {
		return nil, err
	}

	t.x = est.Val()
	t.last = rec.Date
	t.started = true

	return &Day{
		Record:      rec,
		Input:       u,
		Measurement: z,
		Estimate:    body,
	}, nil
}

func (t *Tracker) measurement(rec record.Record) (mat.Vector, error) {
	w := t.cfg.ToKg(rec.Weight)

	if t.variant != BodyFat {
		return mat.NewVecDense(1, []float64{w}), nil
	}

	if rec.BodyFat == nil {
		return nil, fmt.Errorf("%s: %w: %s", rec.Day(), record.ErrMissingField, record.FieldBodyFat)
	}

	return mat.NewVecDense(2, []float64{w, *rec.BodyFat}), nil
}
