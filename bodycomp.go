package bodycomp

import "gonum.org/v1/gonum/mat"

// Filter is a recursive state estimator.
type Filter interface {
	// Predict advances state x one day given control input u
	Predict(x, u mat.Vector) (Estimate, error)
	// Update corrects state x using measurement z
	Update(x, u, z mat.Vector) (Estimate, error)
}

// Propagator propagates internal state of the body to the next day
type Propagator interface {
	// Propagate returns the next state given state x and control input u
	Propagate(x, u mat.Vector) (mat.Vector, error)
}

// Observer observes external state (measurements) of the body
type Observer interface {
	// Observe returns the expected measurement of state x
	Observe(x, u mat.Vector) (mat.Vector, error)
}

// Model is a model of body composition dynamics
type Model interface {
	// Propagator is system propagator
	Propagator
	// Observer is system observer
	Observer
	// SystemDims returns state (nx), input (nu) and output (ny) dimensions
	SystemDims() (nx, nu, ny int)
}

// DiscreteModel is a linear model whose dynamics are given by
// static propagation and observation matrices
type DiscreteModel interface {
	// Model is a model of body composition dynamics
	Model
	// SystemMatrix returns state propagation matrix
	SystemMatrix() mat.Matrix
	// ControlMatrix returns state propagation control matrix
	ControlMatrix() mat.Matrix
	// OutputMatrix returns observation matrix
	OutputMatrix() mat.Matrix
}

// StateLinearizer is implemented by models which provide an analytic
// state transition Jacobian.
type StateLinearizer interface {
	// StateJacobian returns df/dx evaluated at x and u
	StateJacobian(x, u mat.Vector) (mat.Matrix, error)
}

// OutputLinearizer is implemented by models which provide an analytic
// observation Jacobian.
type OutputLinearizer interface {
	// OutputJacobian returns dh/dx evaluated at x and u
	OutputJacobian(x, u mat.Vector) (mat.Matrix, error)
}

// InitCond is initial state condition of the filter
type InitCond interface {
	// State returns initial filter state
	State() mat.Vector
	// Cov returns initial state covariance
	Cov() mat.Symmetric
}

// Estimate is filter estimate
type Estimate interface {
	// Val returns estimate value
	Val() mat.Vector
	// Cov returns estimate covariance
	Cov() mat.Symmetric
}

// Noise is system noise
type Noise interface {
	// Mean returns noise mean
	Mean() []float64
	// Cov returns covariance matrix of the noise
	Cov() mat.Symmetric
	// Sample returns a sample of the noise
	Sample() mat.Vector
	// Reset resets the noise
	Reset()
}

// Smoother smooths a sequence of filter estimates
type Smoother interface {
	// Smooth returns smoothed estimates given filtered estimates and inputs
	Smooth([]Estimate, []mat.Vector) ([]Estimate, error)
}
