// Package model implements energy balance models of body composition.
//
// Every model shares the same control input vector u = [intake_kcal, activity]
// and keeps weight (kg) and maintenance calories (kcal/day) as the first two
// state components. Weight changes by the daily energy balance divided by the
// energy needed to change body mass by one kilogram:
//
//	weight' = weight + (intake - (maintenance + activity_kcal)) / energyPerKg
//
// Maintenance, and any other latent state, follows a random walk.
package model

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Control input vector indices
const (
	// Intake is the index of calories eaten
	Intake = iota
	// Activity is the index of activity
	Activity
)

// NewInput returns control input vector for a day of intake and activity.
func NewInput(intake, activity float64) *mat.VecDense {
	return mat.NewVecDense(2, []float64{intake, activity})
}

// balance returns weight change in kg given intake, expenditure and energy per kg.
func balance(intake, expenditure, energyPerKg float64) float64 {
	return (intake - expenditure) / energyPerKg
}

func checkDims(x, u mat.Vector, nx int) error {
	if x == nil || x.Len() != nx {
		return fmt.Errorf("invalid state vector")
	}

	if u == nil || u.Len() != 2 {
		return fmt.Errorf("invalid input vector")
	}

	return nil
}

func checkEnergy(energyPerKg float64) error {
	if !(energyPerKg > 0) {
		return fmt.Errorf("invalid energy per kg: %v", energyPerKg)
	}

	return nil
}
