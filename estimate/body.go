package estimate

import (
	"fmt"
	"math"

	bodycomp "github.com/milosgajdos/go-bodycomp"
)

// Absent marks a state component which a model does not estimate.
const Absent = -1

// Layout maps named body quantities to state vector indices.
type Layout struct {
	Weight      int
	Maintenance int
	Coefficient int
	BodyFat     int
}

// Dim returns the number of state components the layout covers.
func (l Layout) Dim() int {
	n := 0
	for _, i := range []int{l.Weight, l.Maintenance, l.Coefficient, l.BodyFat} {
		if i != Absent {
			n++
		}
	}

	return n
}

// Body is a body composition estimate: a filter estimate with named components.
type Body struct {
	bodycomp.Estimate
	layout Layout
}

// NewBody wraps estimate e using state layout l.
// It returns error if e dimension does not match the layout.
func NewBody(e bodycomp.Estimate, l Layout) (*Body, error) {
	if e == nil {
		return nil, fmt.Errorf("invalid estimate: %v", e)
	}

	if e.Val().Len() != l.Dim() {
		return nil, fmt.Errorf("estimate dimension %d does not match layout dimension %d", e.Val().Len(), l.Dim())
	}

	return &Body{Estimate: e, layout: l}, nil
}

// Layout returns estimate state layout
func (b *Body) Layout() Layout {
	return b.layout
}

// Weight returns estimated weight in kg
func (b *Body) Weight() float64 {
	return b.Val().AtVec(b.layout.Weight)
}

// WeightStdDev returns standard deviation of the weight estimate in kg
func (b *Body) WeightStdDev() float64 {
	return math.Sqrt(math.Max(b.Cov().At(b.layout.Weight, b.layout.Weight), 0))
}

// Maintenance returns estimated maintenance calories (TDEE) in kcal/day
func (b *Body) Maintenance() float64 {
	return b.Val().AtVec(b.layout.Maintenance)
}

// Coefficient returns estimated kcal per unit of exertion.
// The second return value is false if the coefficient is not estimated.
func (b *Body) Coefficient() (float64, bool) {
	if b.layout.Coefficient == Absent {
		return 0, false
	}

	return b.Val().AtVec(b.layout.Coefficient), true
}

// BodyFat returns estimated body fat percentage.
// The second return value is false if body fat is not estimated.
func (b *Body) BodyFat() (float64, bool) {
	if b.layout.BodyFat == Absent {
		return 0, false
	}

	return b.Val().AtVec(b.layout.BodyFat), true
}
