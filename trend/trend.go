// Package trend derives weight trends and calorie recommendations from
// filtered weight estimates.
//
// All functions are pure: the result depends only on the arguments.
package trend

import (
	"fmt"

	"github.com/milosgajdos/go-bodycomp/config"
	"gonum.org/v1/gonum/stat"
)

const (
	// Week is the number of observations spanned by the short delta
	Week = 7
	// Fortnight is the number of observations needed for the long delta
	Fortnight = 15
)

// Deltas are weight changes over the trailing observations.
// Weights are in the units of the input sequence.
type Deltas struct {
	// Week is the change over the last 7 observations
	Week float64
	// Fortnight is the change over the last 14 days
	Fortnight float64
	// LossPerWeek is fraction of body weight lost per week, positive is loss
	LossPerWeek float64
}

// Compute computes weight deltas of the filtered weight sequence w.
// Week is zero for fewer than 7 weights, Fortnight and LossPerWeek are zero
// for fewer than 15 weights.
func Compute(w []float64) Deltas {
	var d Deltas

	n := len(w)
	if n >= Week {
		d.Week = w[n-1] - w[n-Week]
	}

	if n >= Fortnight {
		d.Fortnight = w[n-1] - w[n-Fortnight]
		if w[n-1] != 0 {
			d.LossPerWeek = -d.Fortnight / 2 / w[n-1]
		}
	}

	return d
}

// Label returns "loss" for negative delta and "gain" otherwise.
func Label(delta float64) string {
	if delta < 0 {
		return "loss"
	}

	return "gain"
}

// Action is calorie adjustment.
type Action int

const (
	// Steady keeps intake unchanged
	Steady Action = iota
	// Decrease lowers intake by a step
	Decrease
	// Increase raises intake by a step
	Increase
)

// String implements fmt.Stringer
func (a Action) String() string {
	switch a {
	case Decrease:
		return "decrease"
	case Increase:
		return "increase"
	default:
		return "steady"
	}
}

// Recommendation is calorie intake advice.
type Recommendation struct {
	// Action is the recommended adjustment
	Action Action
	// Step is the adjustment in kcal/day
	Step float64
	// AvgIntake is the trailing average intake in kcal/day
	AvgIntake float64
	// Target is the recommended intake in kcal/day
	Target float64
}

// String returns the recommendation as a human readable message.
func (r Recommendation) String() string {
	switch r.Action {
	case Decrease:
		return fmt.Sprintf("Suggest -%.0f kcal/day T: %.0f", r.Step, r.Target)
	case Increase:
		return fmt.Sprintf("Suggest +%.0f kcal/day T: %.0f", r.Step, r.Target)
	default:
		return "Keep calories steady"
	}
}

// Recommend recommends intake adjustment given weekly loss fraction and daily intakes.
// Intake is averaged over the trailing p.Window days, or fewer if fewer are given.
func Recommend(lossPerWeek float64, intakes []float64, p config.Policy) Recommendation {
	r := Recommendation{
		Action:    Steady,
		Step:      p.Step,
		AvgIntake: AvgIntake(intakes, p.Window),
	}
	r.Target = r.AvgIntake

	switch {
	case lossPerWeek < p.Low:
		r.Action = Decrease
		r.Target = r.AvgIntake - p.Step
	case lossPerWeek > p.High:
		r.Action = Increase
		r.Target = r.AvgIntake + p.Step
	}

	return r
}

// AvgIntake returns the mean of the trailing window intakes.
// It returns 0 if intakes is empty.
func AvgIntake(intakes []float64, window int) float64 {
	if len(intakes) == 0 || window <= 0 {
		return 0
	}

	if len(intakes) > window {
		intakes = intakes[len(intakes)-window:]
	}

	return stat.Mean(intakes, nil)
}
