package estimate

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Base is base estimate
type Base struct {
	// val is estimated value
	val *mat.VecDense
	// cov is estimated covariance
	cov *mat.SymDense
}

// NewBase returns base estimate given val with zero covariance.
// It returns error if val is nil.
func NewBase(val mat.Vector) (*Base, error) {
	if val == nil {
		return nil, fmt.Errorf("invalid estimate value: %v", val)
	}

	v := &mat.VecDense{}
	v.CloneFromVec(val)

	return &Base{
		val: v,
		cov: mat.NewSymDense(v.Len(), nil),
	}, nil
}

// NewBaseWithCov returns base estimate given value val and covariance cov.
// It returns error if the dimensions of val and cov do not match.
func NewBaseWithCov(val mat.Vector, cov mat.Symmetric) (*Base, error) {
	if val == nil || cov == nil {
		return nil, fmt.Errorf("invalid estimate: val %v, cov %v", val, cov)
	}

	if val.Len() != cov.SymmetricDim() {
		return nil, fmt.Errorf("invalid dimensions. Val: %d, Cov: %d x %d", val.Len(), cov.SymmetricDim(), cov.SymmetricDim())
	}

	v := &mat.VecDense{}
	v.CloneFromVec(val)

	c := mat.NewSymDense(cov.SymmetricDim(), nil)
	c.CopySym(cov)

	return &Base{
		val: v,
		cov: c,
	}, nil
}

// Val returns estimated value
func (b *Base) Val() mat.Vector {
	v := &mat.VecDense{}
	v.CloneFromVec(b.val)

	return v
}

// Cov returns covariance estimate
func (b *Base) Cov() mat.Symmetric {
	cov := mat.NewSymDense(b.cov.SymmetricDim(), nil)
	cov.CopySym(b.cov)

	return cov
}
