package noise

import (
	"fmt"
	"time"

	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distmv"
)

// Gaussian is gaussian noise
type Gaussian struct {
	// dist is a multivariate normal distribution
	dist *distmv.Normal
	// mean is Gaussian mean
	mean []float64
	// cov is Gaussian covariance
	cov *mat.SymDense
	// seed seeds the noise source
	seed uint64
}

// NewGaussian creates new Gaussian noise with given mean and covariance
// seeded from the current time.
// It returns error if it fails to create Gaussian.
func NewGaussian(mean []float64, cov mat.Symmetric) (*Gaussian, error) {
	return NewGaussianWithSeed(mean, cov, uint64(time.Now().UnixNano()))
}

// NewGaussianWithSeed creates new Gaussian noise with given mean and covariance.
// Noise created with the same seed produces the same sequence of samples.
// It returns error if cov is not positive definite or its size does not match mean.
func NewGaussianWithSeed(mean []float64, cov mat.Symmetric, seed uint64) (*Gaussian, error) {
	if cov == nil || cov.SymmetricDim() != len(mean) {
		return nil, fmt.Errorf("invalid gaussian noise dimensions: mean %d", len(mean))
	}

	m := make([]float64, len(mean))
	copy(m, mean)

	c := mat.NewSymDense(cov.SymmetricDim(), nil)
	c.CopySym(cov)

	dist, ok := newGaussianDist(m, c, seed)
	if !ok {
		return nil, fmt.Errorf("failed to create gaussian noise: covariance not positive definite")
	}

	return &Gaussian{
		dist: dist,
		mean: m,
		cov:  c,
		seed: seed,
	}, nil
}

// Sample generates a sample from Gaussian noise and returns it.
func (g *Gaussian) Sample() mat.Vector {
	r := g.dist.Rand(nil)
	return mat.NewVecDense(len(r), r)
}

// Cov returns covariance matrix of Gaussian noise.
func (g *Gaussian) Cov() mat.Symmetric {
	cov := mat.NewSymDense(g.cov.SymmetricDim(), nil)
	cov.CopySym(g.cov)

	return cov
}

// Mean returns Gaussian mean.
func (g *Gaussian) Mean() []float64 {
	mean := make([]float64, len(g.mean))
	copy(mean, g.mean)

	return mean
}

// Reset rewinds the noise source to its seed.
func (g *Gaussian) Reset() {
	// the covariance was already validated when g was created
	g.dist, _ = newGaussianDist(g.mean, g.cov, g.seed)
}

func newGaussianDist(mean []float64, cov mat.Symmetric, seed uint64) (*distmv.Normal, bool) {
	src := rand.New(rand.NewSource(seed))
	return distmv.NewNormal(mean, cov, src)
}

// String implements the Stringer interface.
func (g *Gaussian) String() string {
	return fmt.Sprintf("Gaussian{\nMean=%v\nCov=%v\n}", g.mean, mat.Formatted(g.cov, mat.Prefix("    "), mat.Squeeze()))
}
