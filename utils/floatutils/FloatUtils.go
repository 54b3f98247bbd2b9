// Package floatutils provides utilities for working with floats and
// rows of categorical probabilities
package floatutils

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// LogEps returns log(x + eps). The additive eps keeps the logarithm
// finite when x is exactly 0.
func LogEps(x, eps float64) float64 {
	return math.Log(x + eps)
}

// Entropy returns -Σ p[i] log(p[i] + eps)
func Entropy(p []float64, eps float64) float64 {
	var sum float64
	for _, pi := range p {
		sum += pi * LogEps(pi, eps)
	}
	return -sum
}

// KL returns Σ p[i] (log(p[i] + eps) - log(q[i] + eps)), the KL
// divergence from q to p. Both slices must have the same length.
func KL(p, q []float64, eps float64) float64 {
	if len(p) != len(q) {
		panic("kl: slice lengths do not match")
	}

	var sum float64
	for i := range p {
		sum += p[i] * (LogEps(p[i], eps) - LogEps(q[i], eps))
	}
	return sum
}

// Ratio returns (num + eps) / (den + eps)
func Ratio(num, den, eps float64) float64 {
	return (num + eps) / (den + eps)
}

// ColProd stores in dst the product down the columns of the row-major
// rows x cols matrix held in data, so that
// dst[c] = data[c] * data[cols+c] * ... * data[(rows-1)*cols+c].
func ColProd(dst, data []float64, rows, cols int) {
	if len(dst) != cols || len(data) != rows*cols {
		panic("colProd: slice lengths do not match")
	}

	copy(dst, data[:cols])
	for r := 1; r < rows; r++ {
		floats.Mul(dst, data[r*cols:(r+1)*cols])
	}
}

// ArgMax returns the index of the maximum value in a slice. Ties are
// broken by the lowest index.
func ArgMax(values []float64) int {
	return floats.MaxIdx(values)
}
