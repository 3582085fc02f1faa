package kf

import (
	"os"
	"testing"

	bodycomp "github.com/milosgajdos/go-bodycomp"
	"github.com/milosgajdos/go-bodycomp/kalman"
	"github.com/milosgajdos/go-bodycomp/matrix"
	"github.com/milosgajdos/go-bodycomp/model"
	"github.com/milosgajdos/go-bodycomp/noise"
	"github.com/milosgajdos/go-bodycomp/sim"
	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

type invalidModel struct {
	bodycomp.DiscreteModel
	nx int
	nu int
	ny int
}

func (m *invalidModel) SystemDims() (nx, nu, ny int) {
	return m.nx, m.nu, m.ny
}

var (
	okModel  *model.Weight
	badModel *invalidModel
	ic       *sim.InitCond
	q        bodycomp.Noise
	r        bodycomp.Noise
	u        *mat.VecDense
	z        *mat.VecDense
)

func setup() {
	u = model.NewInput(2500, 0)
	z = mat.NewVecDense(1, []float64{101.0})

	ic = sim.NewDiagInitCond([]float64{100.0, 2500.0}, []float64{1.0, 10000.0})

	q, _ = noise.NewZero(2)
	r, _ = noise.NewDiagWithSeed([]float64{1.0}, 1)

	okModel, _ = model.NewWeight(7700)
	badModel = &invalidModel{DiscreteModel: okModel, nx: 10, ny: 10}
}

func TestMain(m *testing.M) {
	// set up tests
	setup()
	// run the tests
	retCode := m.Run()
	// call with result of m.Run()
	os.Exit(retCode)
}

func TestKFNew(t *testing.T) {
	assert := assert.New(t)

	f, err := New(okModel, ic, q, r)
	assert.NoError(err)
	assert.NotNil(f)

	// invalid model: negative dimensions
	badModel.nx, badModel.ny = -10, 20
	f, err = New(badModel, ic, q, r)
	assert.Nil(f)
	assert.Error(err)

	// invalid model: dimensions do not match matrices
	badModel.nx, badModel.ny = 3, 1
	f, err = New(badModel, ic, q, r)
	assert.Nil(f)
	assert.Error(err)

	// invalid state noise dimension
	_q, _ := noise.NewZero(20)
	f, err = New(okModel, ic, _q, r)
	assert.Nil(f)
	assert.Error(err)

	// invalid output noise dimension
	_r, _ := noise.NewDiag([]float64{1.0, 1.0})
	f, err = New(okModel, ic, q, _r)
	assert.Nil(f)
	assert.Error(err)

	// missing output noise
	f, err = New(okModel, ic, q, nil)
	assert.Nil(f)
	assert.Error(err)

	// zero output noise
	_r, _ = noise.NewDiag([]float64{0.0})
	f, err = New(okModel, ic, q, _r)
	assert.Nil(f)
	assert.ErrorIs(err, kalman.ErrSingularInnovation)

	// invalid initial condition
	_ic := sim.NewDiagInitCond([]float64{1.0}, []float64{1.0})
	f, err = New(okModel, _ic, q, r)
	assert.Nil(f)
	assert.Error(err)

	// no state noise
	f, err = New(okModel, ic, nil, r)
	assert.NotNil(f)
	assert.NoError(err)
}

func TestKFPredict(t *testing.T) {
	assert := assert.New(t)

	f, err := New(okModel, ic, q, r)
	assert.NotNil(f)
	assert.NoError(err)

	x := mat.VecDenseCopyOf(ic.State())
	est, err := f.Predict(x, u)
	assert.NotNil(est)
	assert.NoError(err)

	// intake equal to maintenance keeps weight
	assert.InDelta(100.0, est.Val().AtVec(0), 1e-9)
	assert.InDelta(2500.0, est.Val().AtVec(1), 1e-9)

	c := 7700.0
	cov := est.Cov()
	assert.InDelta(1.0+10000.0/(c*c), cov.At(0, 0), 1e-9)
	assert.InDelta(-10000.0/c, cov.At(0, 1), 1e-9)
	assert.InDelta(10000.0, cov.At(1, 1), 1e-9)

	// invalid input vector
	_u := mat.NewVecDense(3, nil)
	est, err = f.Predict(x, _u)
	assert.Nil(est)
	assert.Error(err)
}

func TestKFUpdate(t *testing.T) {
	assert := assert.New(t)

	f, err := New(okModel, ic, q, r)
	assert.NotNil(f)
	assert.NoError(err)

	x := mat.VecDenseCopyOf(ic.State())
	est, err := f.Update(x, u, z)
	assert.NotNil(est)
	assert.NoError(err)

	// P = diag(1, 10000), R = 1: gain is 0.5 on weight and zero on maintenance
	assert.InDelta(100.5, est.Val().AtVec(0), 1e-9)
	assert.InDelta(2500.0, est.Val().AtVec(1), 1e-9)
	assert.InDelta(0.5, est.Cov().At(0, 0), 1e-9)
	assert.InDelta(1.0, f.Innovation().AtVec(0), 1e-9)
	assert.InDelta(0.5, f.Gain().At(0, 0), 1e-9)

	// invalid input vector
	_u := mat.NewVecDense(3, nil)
	est, err = f.Update(x, _u, z)
	assert.Nil(est)
	assert.Error(err)

	// invalid measurement vector
	_z := mat.NewVecDense(3, nil)
	est, err = f.Update(x, u, _z)
	assert.Nil(est)
	assert.Error(err)
}

func TestKFRun(t *testing.T) {
	assert := assert.New(t)

	f, err := New(okModel, ic, q, r)
	assert.NotNil(f)
	assert.NoError(err)

	x := mat.VecDenseCopyOf(ic.State())
	est, err := f.Run(x, u, z)
	assert.NotNil(est)
	assert.NoError(err)

	c := 7700.0
	p00 := 1.0 + 10000.0/(c*c)
	p01 := -10000.0 / c
	s := p00 + 1.0
	assert.InDelta(100.0+p00/s, est.Val().AtVec(0), 1e-9)
	assert.InDelta(2500.0+p01/s, est.Val().AtVec(1), 1e-9)
	// Joseph form with scalar measurement: P00 = P00*R/S
	assert.InDelta(p00/s, est.Cov().At(0, 0), 1e-9)
	assert.True(matrix.IsPSD(est.Cov(), 1e-9))

	// invalid input vector
	_u := mat.NewVecDense(3, nil)
	est, err = f.Run(x, _u, z)
	assert.Nil(est)
	assert.Error(err)

	// invalid measurement vector
	_z := mat.NewVecDense(3, nil)
	est, err = f.Run(x, u, _z)
	assert.Nil(est)
	assert.Error(err)
}

func TestKFConverges(t *testing.T) {
	assert := assert.New(t)

	// weight held flat while eating 2400 kcal: maintenance must move towards 2400
	init := sim.NewDiagInitCond([]float64{127.0, 3100.0}, []float64{0.25, 360000.0})
	_q, _ := noise.NewDiag([]float64{0, 6400})
	_r, _ := noise.NewDiag([]float64{0.25})

	f, err := New(okModel, init, _q, _r)
	assert.NoError(err)

	x := init.State()
	in := model.NewInput(2400, 0)
	meas := mat.NewVecDense(1, []float64{127.0})
	for i := 0; i < 30; i++ {
		est, err := f.Run(x, in, meas)
		assert.NoError(err)
		assert.True(matrix.IsPSD(est.Cov(), 1e-9))
		assert.True(matrix.IsSymmetric(est.Cov(), 0))
		x = est.Val()
	}

	assert.Less(x.AtVec(1), 3100.0)
	assert.InDelta(2400.0, x.AtVec(1), 300.0)
}

func TestKFModel(t *testing.T) {
	assert := assert.New(t)

	f, err := New(okModel, ic, q, r)
	assert.NotNil(f)
	assert.NoError(err)

	m := f.Model()
	assert.NotNil(m)
}

func TestKFNoise(t *testing.T) {
	assert := assert.New(t)

	f, err := New(okModel, ic, q, r)
	assert.NotNil(f)
	assert.NoError(err)

	sn := f.StateNoise()
	assert.NotNil(sn)

	on := f.OutputNoise()
	assert.NotNil(on)
}

func TestKFCovGain(t *testing.T) {
	assert := assert.New(t)

	f, err := New(okModel, ic, q, r)
	assert.NotNil(f)
	assert.NoError(err)

	cov := f.Cov()
	assert.NotNil(cov)
	assert.Equal(2, cov.SymmetricDim())
	assert.Equal(1.0, cov.At(0, 0))

	gain := f.Gain()
	assert.NotNil(gain)
	rows, cols := gain.Dims()
	assert.Equal(2, rows)
	assert.Equal(1, cols)
}
