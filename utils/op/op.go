// Package op provides Gorgonia graph operations over joint
// categorical probability tables, so that the statistics of a
// distribution.MultiCategorical can be differentiated with respect to
// the output of a policy network.
//
// All operations reduce over the final (actions) axis of their inputs.
package op

import (
	"fmt"

	"github.com/ElisevanderPol/marl-homomorphic-networks/utils/tensorutils"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// AddEpsilon adds the constant eps to each element of n
func AddEpsilon(n *G.Node, eps float64) (*G.Node, error) {
	return G.Add(n, constant(n, eps))
}

// LogEps calculates log(n + eps) elementwise
func LogEps(n *G.Node, eps float64) *G.Node {
	return G.Must(G.Log(G.Must(AddEpsilon(n, eps))))
}

// Entropy calculates -Σ p log(p + eps) along the final axis of prob
func Entropy(prob *G.Node, eps float64) *G.Node {
	plogp := G.Must(G.HadamardProd(prob, LogEps(prob, eps)))
	sum := G.Must(G.Sum(plogp, lastAxis(prob)))
	return G.Must(G.Neg(sum))
}

// KL calculates the KL divergence
// Σ p_old (log(p_old + eps) - log(p_new + eps)) along the final axis
// of oldProb and newProb, which must have the same shape
func KL(oldProb, newProb *G.Node, eps float64) *G.Node {
	mustShapeEq("kl", oldProb, newProb)

	diff := G.Must(G.Sub(LogEps(oldProb, eps), LogEps(newProb, eps)))
	kl := G.Must(G.HadamardProd(oldProb, diff))
	return G.Must(G.Sum(kl, lastAxis(oldProb)))
}

// MeanKL calculates the mean of KL(oldProb, newProb, eps) over all rows
func MeanKL(oldProb, newProb *G.Node, eps float64) *G.Node {
	return G.Must(G.Mean(KL(oldProb, newProb, eps)))
}

// LogLikelihood calculates log(p[a] + eps) for each row of prob, where
// the action a taken in each row is given by the one-hot vectors of
// onehot, which must have the same shape as prob
func LogLikelihood(onehot, prob *G.Node, eps float64) *G.Node {
	mustShapeEq("logLikelihood", onehot, prob)

	selected := G.Must(G.HadamardProd(onehot, LogEps(prob, eps)))
	return G.Must(G.Sum(selected, lastAxis(prob)))
}

// LikelihoodRatio calculates (p_new[a] + eps) / (p_old[a] + eps) for
// each row of oldProb and newProb, where the action a taken in each
// row is given by the one-hot vectors of onehot
func LikelihoodRatio(onehot, oldProb, newProb *G.Node, eps float64) *G.Node {
	mustShapeEq("likelihoodRatio", oldProb, newProb)

	selNew := G.Must(AddEpsilon(selectAction(onehot, newProb), eps))
	selOld := G.Must(AddEpsilon(selectAction(onehot, oldProb), eps))
	return G.Must(G.HadamardDiv(selNew, selOld))
}

// selectAction calculates p[a] for each row of prob, where the action
// a taken in each row is given by the one-hot vectors of onehot
func selectAction(onehot, prob *G.Node) *G.Node {
	mustShapeEq("selectAction", onehot, prob)

	selected := G.Must(G.HadamardProd(onehot, prob))
	return G.Must(G.Sum(selected, lastAxis(prob)))
}

// Prod calculates the product of a Node along an axis. The returned
// node has the shape of input with the axis along removed.
func Prod(input *G.Node, along int) *G.Node {
	shape := input.Shape()
	if along < 0 || along >= len(shape) {
		panic(fmt.Sprintf("prod: axis %d out of range for shape %v", along,
			shape))
	}

	out := make([]int, 0, len(shape)-1)
	out = append(out, shape[:along]...)
	out = append(out, shape[along+1:]...)

	// Calculate the first slice along the axis along
	dims := make([]tensor.Slice, len(shape))
	dims[along] = tensorutils.Index(0)
	prod := reshape(G.Must(G.Slice(input, dims...)), out)

	for i := 1; i < shape[along]; i++ {
		// Calculate the slice that should be multiplied next
		dims[along] = tensorutils.Index(i)

		s := reshape(G.Must(G.Slice(input, dims...)), out)
		prod = G.Must(G.HadamardProd(prod, s))
	}
	return prod
}

// reshape reshapes n to shape if their shapes differ. Slicing a size-1
// range drops the sliced axis, which must be restored for tensors with
// other axes of length 1.
func reshape(n *G.Node, shape []int) *G.Node {
	if n.Shape().Eq(tensor.Shape(shape)) || len(shape) == 0 {
		return n
	}
	return G.Must(G.Reshape(n, shape))
}

func lastAxis(n *G.Node) int {
	return len(n.Shape()) - 1
}

func mustShapeEq(op string, a, b *G.Node) {
	if !a.Shape().Eq(b.Shape()) {
		panic(fmt.Sprintf("%v: shape mismatch %v and %v", op, a.Shape(),
			b.Shape()))
	}
}

// constant returns a scalar constant of value v with the dtype of n
func constant(n *G.Node, v float64) *G.Node {
	if n.Dtype() == G.Float32 {
		return G.NewConstant(float32(v))
	}
	return G.NewConstant(v)
}
