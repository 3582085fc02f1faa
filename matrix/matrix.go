package matrix

import (
	"fmt"
	"math"

	gomatrix "github.com/milosgajdos/matrix"
	"gonum.org/v1/gonum/mat"
)

// Eye returns n x n identity matrix.
// It panics if n is not a positive integer.
func Eye(n int) *mat.Dense {
	eye, err := gomatrix.NewDenseValIdentity(n, 1.0)
	if err != nil {
		panic(fmt.Sprintf("invalid identity size %d: %v", n, err))
	}

	return eye
}

// Symmetrize returns a symmetric matrix built from the average of m and its transpose.
// It panics if m is not square.
func Symmetrize(m mat.Matrix) *mat.SymDense {
	r, c := m.Dims()
	if r != c {
		panic(fmt.Sprintf("matrix not square: [%d x %d]", r, c))
	}

	sym := mat.NewSymDense(r, nil)
	for i := 0; i < r; i++ {
		for j := i; j < r; j++ {
			sym.SetSym(i, j, 0.5*(m.At(i, j)+m.At(j, i)))
		}
	}

	return sym
}

// IsSymmetric returns true if m is square and m[i,j] equals m[j,i] within tol.
func IsSymmetric(m mat.Matrix, tol float64) bool {
	r, c := m.Dims()
	if r != c {
		return false
	}

	for i := 0; i < r; i++ {
		for j := i + 1; j < r; j++ {
			if math.Abs(m.At(i, j)-m.At(j, i)) > tol {
				return false
			}
		}
	}

	return true
}

// MinEigen returns the smallest eigenvalue of symmetric matrix s.
// It returns error if the eigen decomposition fails.
func MinEigen(s mat.Symmetric) (float64, error) {
	var es mat.EigenSym
	if ok := es.Factorize(s, false); !ok {
		return 0, fmt.Errorf("eigen decomposition failed")
	}

	vals := es.Values(nil)
	min := math.Inf(1)
	for _, v := range vals {
		if v < min {
			min = v
		}
	}

	return min, nil
}

// IsPSD returns true if s is positive semi-definite.
// Eigenvalues are allowed to be negative down to -tol scaled by the largest diagonal element.
func IsPSD(s mat.Symmetric, tol float64) bool {
	n := s.SymmetricDim()
	scale := 1.0
	for i := 0; i < n; i++ {
		if d := math.Abs(s.At(i, i)); d > scale {
			scale = d
		}
	}

	min, err := MinEigen(s)
	if err != nil {
		return false
	}

	return min >= -tol*scale
}
