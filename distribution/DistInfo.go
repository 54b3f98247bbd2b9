package distribution

import "gorgonia.org/tensor"

// DistInfo holds the parameters of a joint categorical distribution:
// a probability table of shape [..., rows, cols]. A DistInfo owns a
// copy of its table, so the output of a policy network can be
// snapshotted as the "old" policy and compared to later outputs.
type DistInfo struct {
	prob *tensor.Dense
}

// NewDistInfo returns a DistInfo holding a copy of prob
func NewDistInfo(prob *tensor.Dense) DistInfo {
	if prob == nil {
		return DistInfo{}
	}
	if prob.IsMaterializable() {
		prob = prob.Materialize().(*tensor.Dense)
	}
	return DistInfo{prob: prob.Clone().(*tensor.Dense)}
}

// Prob returns a copy of the probability table
func (d DistInfo) Prob() *tensor.Dense {
	if d.prob == nil {
		return nil
	}
	return d.prob.Clone().(*tensor.Dense)
}

// Shape returns the shape of the probability table
func (d DistInfo) Shape() tensor.Shape {
	if d.prob == nil {
		return nil
	}
	return d.prob.Shape().Clone()
}
