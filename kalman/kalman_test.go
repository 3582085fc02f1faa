package kalman

import (
	"testing"

	bodycomp "github.com/milosgajdos/go-bodycomp"
	"github.com/milosgajdos/go-bodycomp/matrix"
	"github.com/milosgajdos/go-bodycomp/model"
	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

// numeric hides analytic Jacobians of the embedded model.
type numeric struct {
	bodycomp.Model
}

func TestPropagateCov(t *testing.T) {
	assert := assert.New(t)

	f := mat.NewDense(2, 2, []float64{1, 1, 0, 1})
	p := mat.NewSymDense(2, []float64{1, 0, 0, 2})
	q := mat.NewSymDense(2, []float64{0.5, 0, 0, 0})

	cov := PropagateCov(f, p, q)
	assert.Equal(3.5, cov.At(0, 0))
	assert.Equal(2.0, cov.At(0, 1))
	assert.Equal(2.0, cov.At(1, 0))
	assert.Equal(2.0, cov.At(1, 1))

	cov = PropagateCov(f, p, nil)
	assert.Equal(3.0, cov.At(0, 0))
}

func TestCorrectScalar(t *testing.T) {
	assert := assert.New(t)

	x := mat.NewVecDense(2, []float64{1, 2})
	p := mat.NewSymDense(2, []float64{1, 0.5, 0.5, 2})
	h := mat.NewDense(1, 2, []float64{1, 0})
	r := mat.NewSymDense(1, []float64{1})
	inn := mat.NewVecDense(1, []float64{2})

	c, err := Correct(x, p, h, r, inn)
	assert.NoError(err)

	// S = 2, K = [0.5, 0.25]
	assert.InDelta(0.5, c.K.At(0, 0), 1e-12)
	assert.InDelta(0.25, c.K.At(1, 0), 1e-12)
	assert.InDelta(2.0, c.X.AtVec(0), 1e-12)
	assert.InDelta(2.5, c.X.AtVec(1), 1e-12)

	// Joseph form agrees with the simple form for the optimal gain
	assert.InDelta(0.5, c.P.At(0, 0), 1e-12)
	assert.InDelta(0.25, c.P.At(0, 1), 1e-12)
	assert.InDelta(2.0-0.125, c.P.At(1, 1), 1e-12)
	assert.True(matrix.IsPSD(c.P, 1e-12))

	// non-positive innovation covariance
	r = mat.NewSymDense(1, []float64{-1})
	c, err = Correct(x, p, h, r, inn)
	assert.Nil(c)
	assert.ErrorIs(err, ErrSingularInnovation)
}

func TestCorrectVector(t *testing.T) {
	assert := assert.New(t)

	x := mat.NewVecDense(3, []float64{80, 2500, 25})
	p := mat.NewSymDense(3, []float64{
		1, 0, 0,
		0, 400, 0,
		0, 0, 4,
	})
	h := mat.NewDense(2, 3, []float64{1, 0, 0, 0, 0, 1})
	r := mat.NewSymDense(2, []float64{1, 0, 0, 4})
	inn := mat.NewVecDense(2, []float64{1, 2})

	c, err := Correct(x, p, h, r, inn)
	assert.NoError(err)
	assert.InDelta(80.5, c.X.AtVec(0), 1e-9)
	assert.InDelta(2500.0, c.X.AtVec(1), 1e-9)
	assert.InDelta(26.0, c.X.AtVec(2), 1e-9)
	assert.InDelta(0.5, c.P.At(0, 0), 1e-9)
	assert.InDelta(400.0, c.P.At(1, 1), 1e-9)
	assert.InDelta(2.0, c.P.At(2, 2), 1e-9)

	// singular innovation covariance
	r = mat.NewSymDense(2, []float64{-1, 0, 0, -4})
	c, err = Correct(x, p, h, r, inn)
	assert.Nil(c)
	assert.ErrorIs(err, ErrSingularInnovation)
}

func TestCorrectKeepsPSD(t *testing.T) {
	assert := assert.New(t)

	// nearly deterministic measurement of a badly scaled covariance
	x := mat.NewVecDense(2, []float64{127, 3100})
	p := mat.NewSymDense(2, []float64{0.25, -40, -40, 360000})
	h := mat.NewDense(1, 2, []float64{1, 0})
	r := mat.NewSymDense(1, []float64{1e-9})
	inn := mat.NewVecDense(1, []float64{0.1})

	for i := 0; i < 50; i++ {
		c, err := Correct(x, p, h, r, inn)
		assert.NoError(err)
		assert.True(matrix.IsSymmetric(c.P, 0))
		assert.True(matrix.IsPSD(c.P, 1e-9))
		x, p = c.X, c.P
	}
}

func TestJacobian(t *testing.T) {
	assert := assert.New(t)

	m, err := model.NewExertion(7700)
	assert.NoError(err)

	x := mat.NewVecDense(3, []float64{100, 2500, 50})
	u := model.NewInput(2600, 12)

	analytic, err := StateJacobian(m, x, u)
	assert.NoError(err)
	fd, err := StateJacobian(numeric{m}, x, u)
	assert.NoError(err)
	assert.True(mat.EqualApprox(analytic, fd, 1e-6))
	assert.InDelta(-12.0/7700.0, fd.At(0, 2), 1e-6)

	analytic, err = OutputJacobian(m, x, u)
	assert.NoError(err)
	fd, err = OutputJacobian(numeric{m}, x, u)
	assert.NoError(err)
	assert.True(mat.EqualApprox(analytic, fd, 1e-6))

	// model errors are propagated
	_, err = StateJacobian(numeric{m}, x, mat.NewVecDense(1, nil))
	assert.Error(err)
	_, err = StateJacobian(numeric{m}, mat.NewVecDense(2, nil), u)
	assert.Error(err)
}

func TestBodyFatJacobian(t *testing.T) {
	assert := assert.New(t)

	m, err := model.NewBodyFat(7700)
	assert.NoError(err)

	x := mat.NewVecDense(3, []float64{80, 2500, 25})
	u := model.NewInput(2500, 0)

	f, err := StateJacobian(m, x, u)
	assert.NoError(err)

	c := 7700.0
	assert.InDelta(1.0, f.At(0, 0), 1e-6)
	assert.InDelta(-1.0/c, f.At(0, 1), 1e-6)
	// at energy balance weight does not change body fat
	assert.InDelta(0.0, f.At(2, 0), 1e-6)
	assert.InDelta(-(100.0-25.0)/80.0/c, f.At(2, 1), 1e-6)
	assert.InDelta(1.0, f.At(2, 2), 1e-6)
}
