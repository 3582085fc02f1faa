package sim

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// System defines a linear model of a plant using
// traditional matrices of modern control theory.
//
// It contains the System (A), input (B), Observation/Output (C)
// and Feedthrough (D) matrices.
type System struct {
	// System/State matrix A
	A *mat.Dense
	// Control/Input Matrix B
	B *mat.Dense
	// Observation/Output Matrix C
	C *mat.Dense
	// Feedthrough matrix D
	D *mat.Dense
}

// SystemDims returns internal state length (nx), input vector length (nu)
// and external/observable/output state length (ny).
func (s System) SystemDims() (nx, nu, ny int) {
	nx, _ = s.A.Dims()
	if s.B != nil {
		_, nu = s.B.Dims()
	}
	if s.C != nil {
		ny, _ = s.C.Dims()
	}
	return nx, nu, ny
}

// SystemMatrix returns state propagation matrix `A`.
func (s System) SystemMatrix() mat.Matrix { return s.A }

// ControlMatrix returns state propagation control matrix `B`
func (s System) ControlMatrix() mat.Matrix {
	if s.B == nil {
		return nil
	}
	return s.B
}

// OutputMatrix returns observation matrix `C`
func (s System) OutputMatrix() mat.Matrix {
	if s.C == nil {
		return nil
	}
	return s.C
}

// Observe returns external/observable state given internal state x and input u.
func (s System) Observe(x, u mat.Vector) (mat.Vector, error) {
	nx, nu, _ := s.SystemDims()
	if u != nil && u.Len() != nu {
		return nil, fmt.Errorf("invalid input vector")
	}

	if x.Len() != nx {
		return nil, fmt.Errorf("invalid state vector")
	}

	out := new(mat.Dense)
	out.Mul(s.C, x)

	if u != nil && s.D != nil {
		outU := new(mat.Dense)
		outU.Mul(s.D, u)

		out.Add(out, outU)
	}

	return out.ColView(0), nil
}
