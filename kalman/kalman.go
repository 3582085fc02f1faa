// Package kalman provides the predict and correct steps shared by the
// Kalman filters of this module.
package kalman

import (
	"errors"
	"fmt"

	bodycomp "github.com/milosgajdos/go-bodycomp"
	"github.com/milosgajdos/go-bodycomp/matrix"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/mat"
)

// ErrSingularInnovation is returned when innovation covariance is not positive definite.
// This happens only when measurement noise is not positive, which is a configuration error.
var ErrSingularInnovation = errors.New("singular innovation covariance")

// Kalman is Kalman Filter
type Kalman interface {
	// bodycomp.Filter is recursive state estimator
	bodycomp.Filter
	// Cov returns Kalman filter state covariance
	Cov() mat.Symmetric
	// Gain returns Kalman filter gain
	Gain() mat.Matrix
}

// Correction is the outcome of a measurement update.
type Correction struct {
	// X is corrected state
	X *mat.VecDense
	// P is corrected state covariance
	P *mat.SymDense
	// K is Kalman gain
	K *mat.Dense
	// Inn is innovation vector
	Inn *mat.VecDense
}

// PropagateCov propagates covariance p through transition Jacobian f and adds process noise q.
// It returns F*P*F' + Q. q may be nil.
func PropagateCov(f mat.Matrix, p, q mat.Symmetric) *mat.SymDense {
	cov := &mat.Dense{}
	cov.Product(f, p, f.T())

	if q != nil && q.SymmetricDim() > 0 {
		cov.Add(cov, q)
	}

	return matrix.Symmetrize(cov)
}

// Correct corrects state x with covariance p given observation Jacobian h,
// measurement noise covariance r and innovation inn.
// Covariance is updated in Joseph form:
//
//	P = (I-K*H)*P*(I-K*H)' + K*R*K'
//
// which keeps it symmetric and positive semi-definite.
// It returns ErrSingularInnovation if innovation covariance is not positive definite.
func Correct(x mat.Vector, p mat.Symmetric, h mat.Matrix, r mat.Symmetric, inn mat.Vector) (*Correction, error) {
	nx, ny := x.Len(), inn.Len()

	// P*H'
	pxy := mat.NewDense(nx, ny, nil)
	pxy.Mul(p, h.T())

	// H*P*H' + R
	pyy := mat.NewDense(ny, ny, nil)
	pyy.Mul(h, pxy)
	pyy.Add(pyy, r)

	gain := mat.NewDense(nx, ny, nil)
	if ny == 1 {
		s := pyy.At(0, 0)
		if !(s > 0) {
			return nil, fmt.Errorf("%w: %v", ErrSingularInnovation, s)
		}
		gain.Scale(1/s, pxy)
	} else {
		var chol mat.Cholesky
		if ok := chol.Factorize(matrix.Symmetrize(pyy)); !ok {
			return nil, ErrSingularInnovation
		}
		// S^-1 * H*P
		sInvHP := &mat.Dense{}
		if err := chol.SolveTo(sInvHP, pxy.T()); err != nil {
			var cond mat.Condition
			if !errors.As(err, &cond) {
				return nil, fmt.Errorf("%w: %v", ErrSingularInnovation, err)
			}
		}
		gain.Copy(sInvHP.T())
	}

	// update state x
	corr := mat.NewVecDense(nx, nil)
	corr.MulVec(gain, inn)
	xNext := mat.NewVecDense(nx, nil)
	xNext.AddVec(x, corr)

	// I - K*H
	a := &mat.Dense{}
	a.Mul(gain, h)
	a.Sub(matrix.Eye(nx), a)

	// (I-K*H)*P*(I-K*H)'
	apa := &mat.Dense{}
	apa.Product(a, p, a.T())

	// K*R*K'
	krk := &mat.Dense{}
	krk.Product(gain, r, gain.T())

	apa.Add(apa, krk)

	innCopy := mat.NewVecDense(ny, nil)
	innCopy.CopyVec(inn)

	return &Correction{
		X:   xNext,
		P:   matrix.Symmetrize(apa),
		K:   gain,
		Inn: innCopy,
	}, nil
}

// StateJacobian returns state transition Jacobian of model m at state x given input u.
// It uses the analytic Jacobian if m implements bodycomp.StateLinearizer and
// central finite differences otherwise.
func StateJacobian(m bodycomp.Model, x, u mat.Vector) (*mat.Dense, error) {
	if l, ok := m.(bodycomp.StateLinearizer); ok {
		f, err := l.StateJacobian(x, u)
		if err != nil {
			return nil, err
		}
		return mat.DenseCopyOf(f), nil
	}

	nx, _, _ := m.SystemDims()

	return jacobian(nx, nx, x, func(x mat.Vector) (mat.Vector, error) {
		return m.Propagate(x, u)
	})
}

// OutputJacobian returns observation Jacobian of model m at state x given input u.
// It uses the analytic Jacobian if m implements bodycomp.OutputLinearizer and
// central finite differences otherwise.
func OutputJacobian(m bodycomp.Model, x, u mat.Vector) (*mat.Dense, error) {
	if l, ok := m.(bodycomp.OutputLinearizer); ok {
		h, err := l.OutputJacobian(x, u)
		if err != nil {
			return nil, err
		}
		return mat.DenseCopyOf(h), nil
	}

	nx, _, ny := m.SystemDims()

	return jacobian(ny, nx, x, func(x mat.Vector) (mat.Vector, error) {
		return m.Observe(x, u)
	})
}

func jacobian(rows, cols int, x mat.Vector, fn func(mat.Vector) (mat.Vector, error)) (*mat.Dense, error) {
	if x.Len() != cols {
		return nil, fmt.Errorf("invalid state vector")
	}

	var fnErr error
	f := func(y, xNow []float64) {
		if fnErr != nil {
			return
		}
		out, err := fn(mat.NewVecDense(len(xNow), xNow))
		if err != nil {
			fnErr = err
			return
		}
		for i := range y {
			y[i] = out.AtVec(i)
		}
	}

	jac := mat.NewDense(rows, cols, nil)
	fd.Jacobian(jac, f, mat.Col(nil, 0, x), &fd.JacobianSettings{
		Formula: fd.Central,
	})

	if fnErr != nil {
		return nil, fmt.Errorf("failed to linearize model: %w", fnErr)
	}

	return jac, nil
}
