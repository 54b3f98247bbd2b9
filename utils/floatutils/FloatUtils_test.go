package floatutils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

const eps = 1e-8

func TestLogEpsFiniteAtZero(t *testing.T) {
	assert.InDelta(t, math.Log(eps), LogEps(0, eps), 1e-12)
	assert.False(t, math.IsInf(LogEps(0, eps), -1))
}

func TestEntropy(t *testing.T) {
	tests := []struct {
		p    []float64
		want float64
	}{
		{[]float64{0.2, 0.3, 0.5}, 1.0297},
		{[]float64{0.1, 0.1, 0.8}, 0.6390},
		{[]float64{1, 0, 0}, 0},
		{[]float64{0.5, 0.5}, math.Ln2},
	}

	for _, test := range tests {
		assert.InDelta(t, test.want, Entropy(test.p, eps), 1e-4, "%v", test.p)
	}
}

func TestKL(t *testing.T) {
	p := []float64{0.2, 0.3, 0.5}
	q := []float64{0.1, 0.1, 0.8}

	assert.InDelta(t, 0, KL(p, p, eps), 1e-12)

	want := 0.2*math.Log(2) + 0.3*math.Log(3) + 0.5*math.Log(0.5/0.8)
	assert.InDelta(t, want, KL(p, q, eps), 1e-6)
	assert.Greater(t, KL(p, q, eps), 0.0)

	assert.Panics(t, func() { KL(p, q[:2], eps) })
}

func TestRatio(t *testing.T) {
	assert.Equal(t, 1.0, Ratio(0.3, 0.3, eps))
	assert.Equal(t, 1.0, Ratio(0, 0, eps))
	assert.InDelta(t, 2.0, Ratio(0.4, 0.2, eps), 1e-6)
}

func TestColProd(t *testing.T) {
	data := []float64{
		0.2, 0.3, 0.5,
		0.1, 0.1, 0.8,
	}
	dst := make([]float64, 3)
	ColProd(dst, data, 2, 3)

	assert.InDeltaSlice(t, []float64{0.02, 0.03, 0.4}, dst, 1e-12)
	assert.Equal(t, []float64{0.2, 0.3, 0.5}, data[:3], "input modified")
}

func TestArgMaxLowestIndexOnTies(t *testing.T) {
	assert.Equal(t, 1, ArgMax([]float64{0.1, 0.45, 0.45}))
	assert.Equal(t, 0, ArgMax([]float64{0.5, 0.5}))
	assert.Equal(t, 2, ArgMax([]float64{0, 0, 1}))
}
