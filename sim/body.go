package sim

import (
	"fmt"
	"math"
	"time"

	bodycomp "github.com/milosgajdos/go-bodycomp"
	"github.com/milosgajdos/go-bodycomp/noise"
	"github.com/milosgajdos/go-bodycomp/record"
	"gonum.org/v1/gonum/mat"
)

// Day holds control inputs of a single simulated day.
type Day struct {
	// IntakeKcal is calories eaten
	IntakeKcal float64
	// Activity is exertion score burning Coefficient kcal per unit
	Activity float64
}

// Body is a simulated body whose weight follows exact energy balance.
// All mass change is assumed to be fat mass.
type Body struct {
	// Weight is true weight in kg
	Weight float64
	// Maintenance is true maintenance calories
	Maintenance float64
	// Coefficient is kcal burnt per unit of activity
	Coefficient float64
	// BodyFat is true body fat percentage
	BodyFat float64
	// EnergyPerKg is kcal per kg of mass change
	EnergyPerKg float64
}

// Trajectory is the outcome of a simulation.
type Trajectory struct {
	// Records are measured daily records, weight in kg
	Records []record.Record
	// Weights are true daily weights in kg
	Weights []float64
	// BodyFat are true daily body fat percentages
	BodyFat []float64
}

// NewScale creates seeded scale noise for weight and body fat measurements
// with standard deviations weightSD and bodyFatSD and correlation corr.
// Uncorrelated noise is diagonal; correlated noise is sampled from a bivariate
// Gaussian, which requires |corr| < 1.
// It returns error if any parameter is out of range.
func NewScale(weightSD, bodyFatSD, corr float64, seed uint64) (bodycomp.Noise, error) {
	if weightSD < 0 || bodyFatSD < 0 {
		return nil, fmt.Errorf("invalid scale deviation: weight %v, body fat %v", weightSD, bodyFatSD)
	}

	if corr == 0 {
		d, err := noise.NewDiagWithSeed([]float64{weightSD * weightSD, bodyFatSD * bodyFatSD}, seed)
		if err != nil {
			return nil, err
		}
		return d, nil
	}

	if corr <= -1 || corr >= 1 {
		return nil, fmt.Errorf("invalid scale correlation: %v", corr)
	}

	c := corr * weightSD * bodyFatSD
	cov := mat.NewSymDense(2, []float64{
		weightSD * weightSD, c,
		c, bodyFatSD * bodyFatSD,
	})

	g, err := noise.NewGaussianWithSeed([]float64{0, 0}, cov, seed)
	if err != nil {
		return nil, err
	}

	return g, nil
}

// Step advances the body by one day of intake and activity.
func (b *Body) Step(d Day) {
	delta := (d.IntakeKcal - (b.Maintenance + d.Activity*b.Coefficient)) / b.EnergyPerKg

	fat := math.Max(b.BodyFat/100*b.Weight+delta, 0)
	b.Weight += delta
	b.BodyFat = math.Min(100*fat/math.Max(b.Weight, 1e-3), 100)
}

// Simulate runs the body through days starting at start and returns its trajectory.
// Scale noise, if not nil, is added to measurements: its first component to
// weight and its second component, if present, to body fat.
// Body fat is recorded only if the noise has two components or is nil.
// It returns error if the body is not valid or noise has invalid dimension.
func (b *Body) Simulate(start time.Time, days []Day, scale bodycomp.Noise) (*Trajectory, error) {
	if b.Weight <= 0 || b.EnergyPerKg <= 0 {
		return nil, fmt.Errorf("invalid body: weight %v, energy per kg %v", b.Weight, b.EnergyPerKg)
	}

	withBodyFat := true
	if scale != nil {
		switch n := len(scale.Mean()); n {
		case 1:
			withBodyFat = false
		case 2:
		default:
			return nil, fmt.Errorf("invalid scale noise dimension: %d", n)
		}
	}

	t := &Trajectory{
		Records: make([]record.Record, 0, len(days)),
		Weights: make([]float64, 0, len(days)),
		BodyFat: make([]float64, 0, len(days)),
	}

	for i, d := range days {
		b.Step(d)

		w, bf := b.Weight, b.BodyFat
		if scale != nil {
			s := scale.Sample()
			w += s.AtVec(0)
			if withBodyFat {
				bf = math.Min(math.Max(bf+s.AtVec(1), 0), 100)
			}
		}

		rec := record.Record{
			Date:       start.AddDate(0, 0, i),
			Weight:     w,
			IntakeKcal: d.IntakeKcal,
			Activity:   d.Activity,
		}
		if withBodyFat {
			rec.BodyFat = &bf
		}

		t.Records = append(t.Records, rec)
		t.Weights = append(t.Weights, b.Weight)
		t.BodyFat = append(t.BodyFat, b.BodyFat)
	}

	return t, nil
}
