package model

import (
	"math"

	"github.com/milosgajdos/go-bodycomp/estimate"
	"gonum.org/v1/gonum/mat"
)

// BodyFat is a model with state [weight, maintenance, body fat %] measured by
// a scale reporting both weight and body fat. Activity is given in kcal and
// all mass change is assumed to be fat mass.
//
// BodyFat provides no analytic state Jacobian: the fat mass ratio makes it
// nonlinear and filters linearize it numerically.
type BodyFat struct {
	energyPerKg float64
}

// NewBodyFat creates new BodyFat model and returns it.
// It returns error if energyPerKg is not positive.
func NewBodyFat(energyPerKg float64) (*BodyFat, error) {
	if err := checkEnergy(energyPerKg); err != nil {
		return nil, err
	}

	return &BodyFat{energyPerKg: energyPerKg}, nil
}

// Propagate propagates state x to the next day given input u.
func (b *BodyFat) Propagate(x, u mat.Vector) (mat.Vector, error) {
	if err := checkDims(x, u, 3); err != nil {
		return nil, err
	}

	w, tdee, bf := x.AtVec(0), x.AtVec(1), x.AtVec(2)
	delta := balance(u.AtVec(Intake), tdee+u.AtVec(Activity), b.energyPerKg)

	wNext := w + delta
	fat := math.Max(bf/100*w+delta, 0)
	bfNext := 100 * fat / math.Max(wNext, 1e-3)

	return mat.NewVecDense(3, []float64{
		wNext,
		tdee,
		math.Min(math.Max(bfNext, 0), 100),
	}), nil
}

// Observe returns measured weight and body fat of state x.
func (b *BodyFat) Observe(x, u mat.Vector) (mat.Vector, error) {
	if err := checkDims(x, u, 3); err != nil {
		return nil, err
	}

	return mat.NewVecDense(2, []float64{x.AtVec(0), x.AtVec(2)}), nil
}

// SystemDims returns model dimensions.
func (b *BodyFat) SystemDims() (nx, nu, ny int) {
	return 3, 2, 2
}

// OutputJacobian returns the observation Jacobian.
func (b *BodyFat) OutputJacobian(x, u mat.Vector) (mat.Matrix, error) {
	return mat.NewDense(2, 3, []float64{
		1.0, 0.0, 0.0,
		0.0, 0.0, 1.0,
	}), nil
}

// Layout returns state layout of the model
func (b *BodyFat) Layout() estimate.Layout {
	return estimate.Layout{
		Weight:      0,
		Maintenance: 1,
		Coefficient: estimate.Absent,
		BodyFat:     2,
	}
}
