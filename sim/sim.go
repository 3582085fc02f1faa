package sim

import "gonum.org/v1/gonum/mat"

// InitCond implements bodycomp.InitCond
type InitCond struct {
	state *mat.VecDense
	cov   *mat.SymDense
}

// NewInitCond creates new InitCond and returns it
func NewInitCond(state mat.Vector, cov mat.Symmetric) *InitCond {
	s := &mat.VecDense{}
	s.CloneFromVec(state)

	c := mat.NewSymDense(cov.SymmetricDim(), nil)
	c.CopySym(cov)

	return &InitCond{
		state: s,
		cov:   c,
	}
}

// NewDiagInitCond creates new InitCond with diagonal covariance given by variances vars.
func NewDiagInitCond(state []float64, vars []float64) *InitCond {
	cov := mat.NewSymDense(len(vars), nil)
	for i, v := range vars {
		cov.SetSym(i, i, v)
	}

	return NewInitCond(mat.NewVecDense(len(state), state), cov)
}

// State returns initial state
func (c *InitCond) State() mat.Vector {
	state := &mat.VecDense{}
	state.CloneFromVec(c.state)

	return state
}

// Cov returns initial covariance
func (c *InitCond) Cov() mat.Symmetric {
	cov := mat.NewSymDense(c.cov.SymmetricDim(), nil)
	cov.CopySym(c.cov)

	return cov
}
