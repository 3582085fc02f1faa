package estimate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

func TestBody(t *testing.T) {
	assert := assert.New(t)

	l := Layout{Weight: 0, Maintenance: 1, Coefficient: 2, BodyFat: Absent}
	assert.Equal(3, l.Dim())

	val := mat.NewVecDense(3, []float64{127.0, 3100.0, 70.0})
	cov := mat.NewSymDense(3, []float64{
		4.0, 0, 0,
		0, 40000.0, 0,
		0, 0, 900.0,
	})
	base, err := NewBaseWithCov(val, cov)
	assert.NoError(err)

	b, err := NewBody(base, l)
	assert.NoError(err)
	assert.NotNil(b)

	assert.Equal(127.0, b.Weight())
	assert.Equal(2.0, b.WeightStdDev())
	assert.Equal(3100.0, b.Maintenance())

	k, ok := b.Coefficient()
	assert.True(ok)
	assert.Equal(70.0, k)

	_, ok = b.BodyFat()
	assert.False(ok)

	// layout mismatch
	short := Layout{Weight: 0, Maintenance: 1, Coefficient: Absent, BodyFat: Absent}
	b, err = NewBody(base, short)
	assert.Nil(b)
	assert.Error(err)

	b, err = NewBody(nil, l)
	assert.Nil(b)
	assert.Error(err)
}
