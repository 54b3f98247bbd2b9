package tensorutils

import (
	"github.com/ElisevanderPol/marl-homomorphic-networks/utils/errutils"
	"github.com/ElisevanderPol/marl-homomorphic-networks/utils/floatutils"
	"gorgonia.org/tensor"
)

// Encode converts a tensor of integer indices of shape S into a tensor
// of one-hot vectors of shape S + [width] and dtype dt. Every index
// must be in [0, width).
func Encode(indices *tensor.Dense, width int, dt tensor.Dtype) (*tensor.Dense,
	error) {
	if width < 1 {
		return nil, errutils.New(errutils.InvalidConfiguration, "encode",
			"width must be >= 1, have %d", width)
	}

	ints, err := Ints(indices)
	if err != nil {
		return nil, err
	}

	onehot := make([]float64, len(ints)*width)
	for i, index := range ints {
		if index < 0 || index >= width {
			return nil, errutils.New(errutils.IndexOutOfRange, "encode",
				"index %d not in [0, %d)", index, width)
		}
		onehot[i*width+index] = 1.0
	}

	shape := append(indices.Shape().Clone(), width)
	return FromFloat64s(shape, onehot, dt)
}

// Decode converts a tensor of one-hot vectors of shape S + [width] into
// a tensor of indices of shape S and dtype dt by taking the arg max of
// each vector. Ties are broken by the lowest index.
//
// Decode is lossy if its input holds probabilities instead of one-hot
// vectors. Actions should be drawn from probabilities by sampling.
func Decode(onehot *tensor.Dense, dt tensor.Dtype) (*tensor.Dense, error) {
	if onehot == nil || onehot.Dims() < 1 {
		return nil, errutils.New(errutils.Shape, "decode",
			"one-hot tensor must have rank >= 1")
	}

	shape := onehot.Shape().Clone()
	width := shape[len(shape)-1]
	if width < 1 {
		return nil, errutils.New(errutils.Shape, "decode",
			"one-hot width must be >= 1, have %d", width)
	}

	values, err := Float64s(onehot)
	if err != nil {
		return nil, err
	}

	n := len(values) / width
	indices := make([]int, n)
	for i := 0; i < n; i++ {
		indices[i] = floatutils.ArgMax(values[i*width : (i+1)*width])
	}

	return FromInts(shape[:len(shape)-1], indices, dt)
}
