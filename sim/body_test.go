package sim

import (
	"testing"
	"time"

	"github.com/milosgajdos/go-bodycomp/noise"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

var start = time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

func TestBodyStep(t *testing.T) {
	assert := assert.New(t)

	b := &Body{Weight: 100, Maintenance: 2800, Coefficient: 30, BodyFat: 25, EnergyPerKg: 7700}

	// 770 kcal deficit loses 0.1 kg of fat
	b.Step(Day{IntakeKcal: 2330, Activity: 10})
	assert.InDelta(99.9, b.Weight, 1e-12)
	assert.InDelta(100*24.9/99.9, b.BodyFat, 1e-9)

	// balance keeps everything
	w, bf := b.Weight, b.BodyFat
	b.Step(Day{IntakeKcal: 2800})
	assert.Equal(w, b.Weight)
	assert.InDelta(bf, b.BodyFat, 1e-12)

	// fat mass can't go negative
	b = &Body{Weight: 50, Maintenance: 2800, BodyFat: 0.1, EnergyPerKg: 7700}
	b.Step(Day{IntakeKcal: 0})
	assert.Equal(0.0, b.BodyFat)
}

func TestSimulate(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	days := []Day{{IntakeKcal: 2500}, {IntakeKcal: 2500}, {IntakeKcal: 2500}}

	b := &Body{Weight: 100, Maintenance: 2800, BodyFat: 25, EnergyPerKg: 7700}
	traj, err := b.Simulate(start, days, nil)
	require.NoError(err)
	require.Len(traj.Records, 3)

	for i, rec := range traj.Records {
		assert.Equal(start.AddDate(0, 0, i), rec.Date)
		assert.Equal(traj.Weights[i], rec.Weight)
		assert.Equal(2500.0, rec.IntakeKcal)
		require.NotNil(rec.BodyFat)
		assert.Equal(traj.BodyFat[i], *rec.BodyFat)
	}
	assert.InDelta(100-3*300/7700.0, traj.Weights[2], 1e-9)

	// weight only scale
	scale, err := noise.NewDiagWithSeed([]float64{0.25}, 1)
	require.NoError(err)
	b = &Body{Weight: 100, Maintenance: 2800, EnergyPerKg: 7700}
	traj, err = b.Simulate(start, days, scale)
	require.NoError(err)
	for i, rec := range traj.Records {
		assert.Nil(rec.BodyFat)
		assert.NotEqual(traj.Weights[i], rec.Weight)
	}

	// seeded noise is reproducible
	scale.Reset()
	b = &Body{Weight: 100, Maintenance: 2800, EnergyPerKg: 7700}
	again, err := b.Simulate(start, days, scale)
	require.NoError(err)
	assert.Equal(traj.Records, again.Records)

	// invalid scale noise dimension
	_scale, _ := noise.NewZero(3)
	_, err = b.Simulate(start, days, _scale)
	assert.Error(err)

	// invalid body
	b = &Body{}
	_, err = b.Simulate(start, days, nil)
	assert.Error(err)
}

func TestNewScale(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	scale, err := NewScale(0.5, 1, 0, 1)
	require.NoError(err)
	assert.IsType(&noise.Diag{}, scale)
	assert.Equal(0.0, scale.Cov().At(0, 1))

	scale, err = NewScale(0.5, 1, 0.9, 1)
	require.NoError(err)
	assert.IsType(&noise.Gaussian{}, scale)
	assert.InDelta(0.45, scale.Cov().At(0, 1), 1e-12)
	assert.Equal([]float64{0, 0}, scale.Mean())

	// body in balance keeps its true weight and body fat
	days := make([]Day, 2000)
	for i := range days {
		days[i] = Day{IntakeKcal: 2800}
	}

	b := &Body{Weight: 100, Maintenance: 2800, BodyFat: 25, EnergyPerKg: 7700}
	traj, err := b.Simulate(start, days, scale)
	require.NoError(err)

	dw := make([]float64, len(days))
	dbf := make([]float64, len(days))
	for i, rec := range traj.Records {
		require.NotNil(rec.BodyFat)
		dw[i] = rec.Weight - traj.Weights[i]
		dbf[i] = *rec.BodyFat - traj.BodyFat[i]
	}

	// scale errors move together
	assert.InDelta(0.9, stat.Correlation(dw, dbf, nil), 0.05)
	assert.InDelta(0.5, stat.StdDev(dw, nil), 0.05)
	assert.InDelta(1.0, stat.StdDev(dbf, nil), 0.1)

	// seeded noise is reproducible
	scale.Reset()
	b = &Body{Weight: 100, Maintenance: 2800, BodyFat: 25, EnergyPerKg: 7700}
	again, err := b.Simulate(start, days, scale)
	require.NoError(err)
	assert.Equal(traj.Records, again.Records)

	// invalid parameters
	for _, corr := range []float64{-1, 1, 1.5} {
		_, err = NewScale(0.5, 1, corr, 1)
		assert.Error(err)
	}
	_, err = NewScale(-0.5, 1, 0, 1)
	assert.Error(err)
	_, err = NewScale(0, 1, 0.5, 1)
	assert.Error(err)
}

func TestInitCond(t *testing.T) {
	assert := assert.New(t)

	ic := NewDiagInitCond([]float64{100, 3100}, []float64{0.25, 360000})
	assert.Equal(2, ic.State().Len())
	assert.Equal(100.0, ic.State().AtVec(0))
	assert.Equal(360000.0, ic.Cov().At(1, 1))
	assert.Equal(0.0, ic.Cov().At(0, 1))

	// returned values are copies
	s := ic.State()
	s.(*mat.VecDense).SetVec(0, 1)
	assert.Equal(100.0, ic.State().AtVec(0))
}
