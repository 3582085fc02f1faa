package sim

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Discrete is a basic model of a linear, discrete-time, dynamical system
type Discrete struct {
	System
}

// NewDiscrete creates a linear discrete-time model based on the control theory equations.
//
//	x[n+1] = A*x[n] + B*u[n]
//	y[n] = C*x[n] + D*u[n]
//
// It returns error if A is nil or not square, or if B, C and D do not match A.
func NewDiscrete(A, B, C, D *mat.Dense) (*Discrete, error) {
	if A == nil {
		return nil, fmt.Errorf("system matrix must be defined for a model")
	}

	nx, cols := A.Dims()
	if nx != cols {
		return nil, fmt.Errorf("invalid system matrix dimensions: [%d x %d]", nx, cols)
	}

	if B != nil {
		if rows, _ := B.Dims(); rows != nx {
			return nil, fmt.Errorf("invalid control matrix rows: %d != %d", rows, nx)
		}
	}

	if C == nil {
		return nil, fmt.Errorf("output matrix must be defined for a model")
	}
	ny, cols := C.Dims()
	if cols != nx {
		return nil, fmt.Errorf("invalid output matrix columns: %d != %d", cols, nx)
	}

	if D != nil {
		if rows, _ := D.Dims(); rows != ny {
			return nil, fmt.Errorf("invalid feedforward matrix rows: %d != %d", rows, ny)
		}
	}

	return &Discrete{System: System{A: A, B: B, C: C, D: D}}, nil
}

// Propagate returns the next internal state x
// of a linear, discrete-time system given an input vector u.
func (ct *Discrete) Propagate(x, u mat.Vector) (mat.Vector, error) {
	nx, nu, _ := ct.SystemDims()
	if u != nil && u.Len() != nu {
		return nil, fmt.Errorf("invalid input vector")
	}

	if x.Len() != nx {
		return nil, fmt.Errorf("invalid state vector")
	}

	out := new(mat.Dense)
	out.Mul(ct.A, x)
	if u != nil && ct.B != nil {
		outU := new(mat.Dense)
		outU.Mul(ct.B, u)

		out.Add(out, outU)
	}

	return out.ColView(0), nil
}

// StateJacobian returns the system matrix: a linear system is its own linearization.
func (ct *Discrete) StateJacobian(x, u mat.Vector) (mat.Matrix, error) {
	return ct.SystemMatrix(), nil
}

// OutputJacobian returns the output matrix.
func (ct *Discrete) OutputJacobian(x, u mat.Vector) (mat.Matrix, error) {
	return ct.OutputMatrix(), nil
}
