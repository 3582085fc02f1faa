package noise

import (
	"fmt"
	"math"
	"time"

	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Diag is zero-mean noise with independent components.
// Unlike Gaussian it allows components with zero variance, which is how
// states without intrinsic drift are modelled.
type Diag struct {
	vars []float64
	seed uint64
	dist []distuv.Normal
}

// NewDiag creates new Diag noise with the given per-component variances
// seeded from the current time.
// It returns error if any variance is negative or not finite.
func NewDiag(vars []float64) (*Diag, error) {
	return NewDiagWithSeed(vars, uint64(time.Now().UnixNano()))
}

// NewDiagWithSeed creates new Diag noise with the given per-component variances.
// It returns error if vars is empty or any variance is negative or not finite.
func NewDiagWithSeed(vars []float64, seed uint64) (*Diag, error) {
	if len(vars) == 0 {
		return nil, fmt.Errorf("invalid noise dimension: %d", len(vars))
	}

	for i, v := range vars {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("invalid variance of component %d: %v", i, v)
		}
	}

	d := &Diag{
		vars: make([]float64, len(vars)),
		seed: seed,
	}
	copy(d.vars, vars)
	d.Reset()

	return d, nil
}

// Sample draws a sample of Diag noise.
func (d *Diag) Sample() mat.Vector {
	s := make([]float64, len(d.dist))
	for i := range d.dist {
		s[i] = d.dist[i].Rand()
	}

	return mat.NewVecDense(len(s), s)
}

// Cov returns diagonal covariance matrix of the noise.
func (d *Diag) Cov() mat.Symmetric {
	cov := mat.NewSymDense(len(d.vars), nil)
	for i, v := range d.vars {
		cov.SetSym(i, i, v)
	}

	return cov
}

// Mean returns zero mean of Diag noise.
func (d *Diag) Mean() []float64 {
	return make([]float64, len(d.vars))
}

// Reset rewinds the noise source to its seed.
func (d *Diag) Reset() {
	src := rand.NewSource(d.seed)
	d.dist = make([]distuv.Normal, len(d.vars))
	for i, v := range d.vars {
		d.dist[i] = distuv.Normal{Mu: 0, Sigma: math.Sqrt(v), Src: src}
	}
}

// String implements the Stringer interface.
func (d *Diag) String() string {
	return fmt.Sprintf("Diag{\nVar=%v\n}", d.vars)
}
