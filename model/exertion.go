package model

import (
	"github.com/milosgajdos/go-bodycomp/estimate"
	"gonum.org/v1/gonum/mat"
)

// Exertion is a model with state [weight, maintenance, coefficient] where
// coefficient is kcal burnt per unit of activity score. Both maintenance
// and coefficient are learnt from the weight measurements.
type Exertion struct {
	energyPerKg float64
}

// NewExertion creates new Exertion model and returns it.
// It returns error if energyPerKg is not positive.
func NewExertion(energyPerKg float64) (*Exertion, error) {
	if err := checkEnergy(energyPerKg); err != nil {
		return nil, err
	}

	return &Exertion{energyPerKg: energyPerKg}, nil
}

// Propagate propagates state x to the next day given input u.
func (e *Exertion) Propagate(x, u mat.Vector) (mat.Vector, error) {
	if err := checkDims(x, u, 3); err != nil {
		return nil, err
	}

	w, tdee, k := x.AtVec(0), x.AtVec(1), x.AtVec(2)
	spent := tdee + u.AtVec(Activity)*k

	return mat.NewVecDense(3, []float64{
		w + balance(u.AtVec(Intake), spent, e.energyPerKg),
		tdee,
		k,
	}), nil
}

// Observe returns measured weight of state x.
func (e *Exertion) Observe(x, u mat.Vector) (mat.Vector, error) {
	if err := checkDims(x, u, 3); err != nil {
		return nil, err
	}

	return mat.NewVecDense(1, []float64{x.AtVec(0)}), nil
}

// SystemDims returns model dimensions.
func (e *Exertion) SystemDims() (nx, nu, ny int) {
	return 3, 2, 1
}

// StateJacobian returns the state transition Jacobian at x given input u.
func (e *Exertion) StateJacobian(x, u mat.Vector) (mat.Matrix, error) {
	if err := checkDims(x, u, 3); err != nil {
		return nil, err
	}

	c := e.energyPerKg
	return mat.NewDense(3, 3, []float64{
		1.0, -1.0 / c, -u.AtVec(Activity) / c,
		0.0, 1.0, 0.0,
		0.0, 0.0, 1.0,
	}), nil
}

// OutputJacobian returns the observation Jacobian.
func (e *Exertion) OutputJacobian(x, u mat.Vector) (mat.Matrix, error) {
	return mat.NewDense(1, 3, []float64{1.0, 0.0, 0.0}), nil
}

// Layout returns state layout of the model
func (e *Exertion) Layout() estimate.Layout {
	return estimate.Layout{
		Weight:      0,
		Maintenance: 1,
		Coefficient: 2,
		BodyFat:     estimate.Absent,
	}
}
