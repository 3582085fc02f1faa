package model

import (
	"github.com/milosgajdos/go-bodycomp/estimate"
	"github.com/milosgajdos/go-bodycomp/sim"
	"gonum.org/v1/gonum/mat"
)

// Weight is a linear model with state [weight, maintenance].
// Activity is ignored: intake is the only control.
type Weight struct {
	*sim.Discrete
}

// NewWeight creates new Weight model and returns it.
// It returns error if energyPerKg is not positive.
func NewWeight(energyPerKg float64) (*Weight, error) {
	if err := checkEnergy(energyPerKg); err != nil {
		return nil, err
	}

	c := energyPerKg
	A := mat.NewDense(2, 2, []float64{
		1.0, -1.0 / c,
		0.0, 1.0,
	})
	B := mat.NewDense(2, 2, []float64{
		1.0 / c, 0.0,
		0.0, 0.0,
	})
	C := mat.NewDense(1, 2, []float64{1.0, 0.0})
	D := mat.NewDense(1, 2, nil)

	d, err := sim.NewDiscrete(A, B, C, D)
	if err != nil {
		return nil, err
	}

	return &Weight{Discrete: d}, nil
}

// Propagate propagates state x to the next day given input u.
func (w *Weight) Propagate(x, u mat.Vector) (mat.Vector, error) {
	if err := checkDims(x, u, 2); err != nil {
		return nil, err
	}

	return w.Discrete.Propagate(x, u)
}

// Layout returns state layout of the model
func (w *Weight) Layout() estimate.Layout {
	return estimate.Layout{
		Weight:      0,
		Maintenance: 1,
		Coefficient: estimate.Absent,
		BodyFat:     estimate.Absent,
	}
}
