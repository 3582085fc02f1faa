package ekf

import (
	"fmt"

	bodycomp "github.com/milosgajdos/go-bodycomp"
	"github.com/milosgajdos/go-bodycomp/estimate"
	"github.com/milosgajdos/go-bodycomp/kalman"
	"github.com/milosgajdos/go-bodycomp/matrix"
	"github.com/milosgajdos/go-bodycomp/noise"
	"gonum.org/v1/gonum/mat"
)

// EKF is Extended Kalman Filter
type EKF struct {
	// m is EKF system model
	m bodycomp.Model
	// q is state noise a.k.a. process noise
	q bodycomp.Noise
	// r is output noise a.k.a. measurement noise
	r bodycomp.Noise
	// f is EKF propagation matrix of the last prediction
	f *mat.Dense
	// h is EKF observation matrix of the last update
	h *mat.Dense
	// p is the EKF covariance matrix
	p *mat.SymDense
	// pNext is the EKF predicted covariance matrix
	pNext *mat.SymDense
	// inn is innovation vector
	inn *mat.VecDense
	// k is Kalman gain
	k *mat.Dense
}

// New creates new EKF and returns it.
// It accepts the following parameters:
//   - m:      dynamical system model
//   - init:   initial condition of the filter
//   - q:      state a.k.a. process noise; nil means no process noise
//   - r:      output a.k.a. measurement noise
//
// Model Jacobians are taken from the model if it implements bodycomp.StateLinearizer
// or bodycomp.OutputLinearizer and computed by finite differences otherwise.
// It returns error if either of the following conditions is met:
//   - invalid model is given: model dimensions must be positive integers
//   - invalid state or output noise is given: noise covariance must match the model dimensions
//   - output noise covariance is not positive definite
func New(m bodycomp.Model, init bodycomp.InitCond, q, r bodycomp.Noise) (*EKF, error) {
	// size of the input and output vectors
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

	if r == nil || r.Cov().SymmetricDim() != ny {
		return nil, fmt.Errorf("invalid output noise: %v", r)
	}

	if min, err := matrix.MinEigen(r.Cov()); err != nil || !(min > 0) {
		return nil, fmt.Errorf("%w: output noise not positive definite", kalman.ErrSingularInnovation)
	}

	if init.Cov().SymmetricDim() != nx || init.State().Len() != nx {
		return nil, fmt.Errorf("invalid initial condition dimension: %d", init.State().Len())
	}

	// initialize covariance matrix to initial condition covariance
	p := mat.NewSymDense(nx, nil)
	p.CopySym(init.Cov())

	// predicted state covariance
	pNext := mat.NewSymDense(nx, nil)
	pNext.CopySym(init.Cov())

	return &EKF{
		m:     m,
		q:     q,
		r:     r,
		f:     matrix.Eye(nx),
		h:     mat.NewDense(ny, nx, nil),
		p:     p,
		pNext: pNext,
		inn:   mat.NewVecDense(ny, nil),
		k:     mat.NewDense(nx, ny, nil),
	}, nil
}

// Predict calculates the next system state given the state x and input u and returns its estimate.
// Covariance is propagated through the model Jacobian evaluated at x.
// It returns error if it fails to propagate or linearize the model at x.
func (k *EKF) Predict(x, u mat.Vector) (bodycomp.Estimate, error) {
	// propagate input state to the next step
	xNext, err := k.m.Propagate(x, u)
	if err != nil {
		return nil, fmt.Errorf("system state propagation failed: %w", err)
	}

	// calculate propagation Jacobian matrix
	f, err := kalman.StateJacobian(k.m, x, u)
	if err != nil {
		return nil, err
	}
	k.f = f

	// F*P*F' + Q
	k.pNext = kalman.PropagateCov(k.f, k.p, k.q.Cov())

	return estimate.NewBaseWithCov(xNext, k.pNext)
}

// Update corrects state x using the measurement z, given control input u and returns corrected estimate.
// It returns error if either invalid measurement was supplied or if it fails to calculate system output estimate.
func (k *EKF) Update(x, u, z mat.Vector) (bodycomp.Estimate, error) {
	_, _, ny := k.m.SystemDims()

	if z.Len() != ny {
		return nil, fmt.Errorf("invalid measurement supplied: %v", z)
	}

	// observe system output in the next step
	y, err := k.m.Observe(x, u)
	if err != nil {
		return nil, fmt.Errorf("failed to observe system output: %w", err)
	}

	// calculate observation Jacobian matrix
	h, err := kalman.OutputJacobian(k.m, x, u)
	if err != nil {
		return nil, err
	}
	k.h = h

	// innovation vector
	inn := &mat.VecDense{}
	inn.SubVec(z, y)

	c, err := kalman.Correct(x, k.pNext, k.h, k.r.Cov(), inn)
	if err != nil {
		return nil, err
	}

	k.inn.CopyVec(c.Inn)
	k.k.Copy(c.K)
	k.p.CopySym(c.P)
	k.pNext.CopySym(c.P)

	return estimate.NewBaseWithCov(c.X, k.p)
}

// Run runs one step of EKF for given state x, input u and measurement z.
// It corrects system state x using measurement z and returns new system estimate.
// It returns error if it either fails to propagate or correct state x.
func (k *EKF) Run(x, u, z mat.Vector) (bodycomp.Estimate, error) {
	pred, err := k.Predict(x, u)
	if err != nil {
		return nil, err
	}

	return k.Update(pred.Val(), u, z)
}

// Model returns EKF model
func (k *EKF) Model() bodycomp.Model {
	return k.m
}

// StateNoise retruns state noise
func (k *EKF) StateNoise() bodycomp.Noise {
	return k.q
}

// OutputNoise retruns output noise
func (k *EKF) OutputNoise() bodycomp.Noise {
	return k.r
}

// Cov returns EKF covariance
func (k *EKF) Cov() mat.Symmetric {
	cov := mat.NewSymDense(k.p.SymmetricDim(), nil)
	cov.CopySym(k.p)

	return cov
}

// Gain returns Kalman gain
func (k *EKF) Gain() mat.Matrix {
	gain := &mat.Dense{}
	gain.CloneFrom(k.k)

	return gain
}

// Innovation returns the innovation of the last update
func (k *EKF) Innovation() mat.Vector {
	inn := &mat.VecDense{}
	inn.CloneFromVec(k.inn)

	return inn
}
