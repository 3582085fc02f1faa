package rts

import (
	"errors"
	"fmt"

	bodycomp "github.com/milosgajdos/go-bodycomp"
	"github.com/milosgajdos/go-bodycomp/estimate"
	"github.com/milosgajdos/go-bodycomp/kalman"
	"github.com/milosgajdos/go-bodycomp/matrix"
	"github.com/milosgajdos/go-bodycomp/noise"
	"github.com/milosgajdos/go-bodycomp/smooth"
	"gonum.org/v1/gonum/mat"
)

var _ smooth.RTS = (*RTS)(nil)

// RTS is Rauch-Tung-Striebel smoother.
// Nonlinear models are linearized around the filtered estimates.
type RTS struct {
	// m is system model
	m bodycomp.Model
	// q is state noise a.k.a. process noise
	q bodycomp.Noise
}

// New creates new RTS and returns it.
// It returns error if the model dimensions are invalid or q does not match them.
func New(m bodycomp.Model, q bodycomp.Noise) (*RTS, error) {
	nx, _, ny := m.SystemDims()
	if nx <= 0 || ny <= 0 {
		return nil, fmt.Errorf("invalid model dimensions: [%d x %d]", nx, ny)
	}

	if q != nil {
		if q.Cov().SymmetricDim() != nx {
			return nil, fmt.Errorf("invalid state noise dimension: %d", q.Cov().SymmetricDim())
		}
	} else {
		q, _ = noise.NewZero(nx)
	}

	return &RTS{
		m: m,
		q: q,
	}, nil
}

// Smooth implements Rauch-Tung-Striebel smoothing algorithm.
// est are filtered estimates in time order and u[i] is the control input
// which propagated est[i-1] to est[i]; u[0] is never used.
// It returns smoothed estimates, the last of which equals the last filtered estimate.
// It returns error if est is empty, u does not match est or smoothing could not be computed.
func (s *RTS) Smooth(est []bodycomp.Estimate, u []mat.Vector) ([]bodycomp.Estimate, error) {
	if len(est) == 0 {
		return nil, fmt.Errorf("invalid estimates size: %d", len(est))
	}

	if len(u) != len(est) {
		return nil, fmt.Errorf("invalid input vector size: %d", len(u))
	}

	n := len(est)
	sx := make([]bodycomp.Estimate, n)

	last, err := estimate.NewBaseWithCov(est[n-1].Val(), est[n-1].Cov())
	if err != nil {
		return nil, err
	}
	sx[n-1] = last

	for i := n - 2; i >= 0; i-- {
		xk, pk := est[i].Val(), est[i].Cov()

		// propagate filtered state to the next step
		xPred, err := s.m.Propagate(xk, u[i+1])
		if err != nil {
			return nil, fmt.Errorf("model state propagation failed: %w", err)
		}

		f, err := kalman.StateJacobian(s.m, xk, u[i+1])
		if err != nil {
			return nil, err
		}

		// F*P*F' + Q
		pPred := kalman.PropagateCov(f, pk, s.q.Cov())

		var chol mat.Cholesky
		if ok := chol.Factorize(pPred); !ok {
			return nil, fmt.Errorf("predicted covariance at step %d is not positive definite", i+1)
		}

		// C' = P_(k+1)^-1 * F * P_k
		fp := &mat.Dense{}
		fp.Mul(f, pk)
		ct := &mat.Dense{}
		if err := chol.SolveTo(ct, fp); err != nil {
			var cond mat.Condition
			if !errors.As(err, &cond) {
				return nil, fmt.Errorf("failed to compute smoother gain: %w", err)
			}
		}
		c := ct.T()

		// x_k + C*(xs_(k+1) - x_(k+1))
		diff := &mat.VecDense{}
		diff.SubVec(sx[i+1].Val(), xPred)
		x := &mat.VecDense{}
		x.MulVec(c, diff)
		x.AddVec(xk, x)

		// P_k + C*(Ps_(k+1) - P_(k+1))*C'
		pDiff := &mat.Dense{}
		pDiff.Sub(sx[i+1].Cov(), pPred)
		cov := &mat.Dense{}
		cov.Product(c, pDiff, ct)
		cov.Add(pk, cov)

		e, err := estimate.NewBaseWithCov(x, matrix.Symmetrize(cov))
		if err != nil {
			return nil, err
		}
		sx[i] = e
	}

	return sx, nil
}
