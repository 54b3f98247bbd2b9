package op

import (
	"math"
	"testing"

	"github.com/ElisevanderPol/marl-homomorphic-networks/distribution"
	"github.com/ElisevanderPol/marl-homomorphic-networks/spec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

const eps = distribution.DefaultEpsilon

var (
	oldProbs = []float64{0.2, 0.3, 0.5, 0.1, 0.1, 0.8, 0.6, 0.2, 0.2, 1, 0, 0}
	newProbs = []float64{0.3, 0.3, 0.4, 0.2, 0.1, 0.7, 0.5, 0.3, 0.2, 0.9, 0.1,
		0}
	actions = []int64{2, 0, 1, 0}
	shape   = []int{2, 2, 3}
)

func newDense(data []float64) *tensor.Dense {
	return tensor.New(
		tensor.WithShape(shape...),
		tensor.WithBacking(append([]float64(nil), data...)),
	)
}

func newNode(g *G.ExprGraph, name string, data []float64) *G.Node {
	return G.NewTensor(g, tensor.Float64, len(shape), G.WithShape(shape...),
		G.WithValue(newDense(data)), G.WithName(name))
}

func newMultiCategorical(t *testing.T) *distribution.MultiCategorical {
	space, err := spec.NewJointAction(2, 3, true)
	require.NoError(t, err)
	m, err := distribution.New(space, distribution.DefaultConfig())
	require.NoError(t, err)
	return m
}

func run(t *testing.T, g *G.ExprGraph) {
	vm := G.NewTapeMachine(g)
	defer vm.Close()
	require.NoError(t, vm.RunAll())
}

func TestEntropy(t *testing.T) {
	m := newMultiCategorical(t)
	want, err := m.Entropy(distribution.NewDistInfo(newDense(oldProbs)), false)
	require.NoError(t, err)

	g := G.NewGraph()
	entropy := Entropy(newNode(g, "prob", oldProbs), eps)
	run(t, g)

	assert.Equal(t, tensor.Shape{2, 2}, entropy.Shape())
	assert.InDeltaSlice(t, want.Data(), entropy.Value().Data(), 1e-12)
}

func TestKL(t *testing.T) {
	m := newMultiCategorical(t)
	old := distribution.NewDistInfo(newDense(oldProbs))
	cur := distribution.NewDistInfo(newDense(newProbs))

	wantKL, err := m.KL(old, cur)
	require.NoError(t, err)
	wantMean, err := m.MeanKL(old, cur, nil)
	require.NoError(t, err)

	g := G.NewGraph()
	oldNode := newNode(g, "old", oldProbs)
	newN := newNode(g, "new", newProbs)
	kl := KL(oldNode, newN, eps)
	mean := MeanKL(oldNode, newN, eps)
	run(t, g)

	assert.InDeltaSlice(t, wantKL.Data(), kl.Value().Data(), 1e-12)
	assert.InDelta(t, wantMean, mean.Value().Data(), 1e-12)
}

func TestLikelihood(t *testing.T) {
	m := newMultiCategorical(t)
	old := distribution.NewDistInfo(newDense(oldProbs))
	cur := distribution.NewDistInfo(newDense(newProbs))
	indices := tensor.New(tensor.WithShape(2, 2), tensor.WithBacking(actions))

	wantLL, err := m.LogLikelihood(indices, cur)
	require.NoError(t, err)
	wantRatio, err := m.LikelihoodRatio(indices, old, cur)
	require.NoError(t, err)

	onehot, err := m.ToOneHot(indices)
	require.NoError(t, err)

	g := G.NewGraph()
	a := G.NewTensor(g, tensor.Float64, 3, G.WithShape(shape...),
		G.WithValue(onehot), G.WithName("actions"))
	oldNode := newNode(g, "old", oldProbs)
	newN := newNode(g, "new", newProbs)
	ll := LogLikelihood(a, newN, eps)
	ratio := LikelihoodRatio(a, oldNode, newN, eps)
	run(t, g)

	assert.InDeltaSlice(t, wantLL.Data(), ll.Value().Data(), 1e-12)
	assert.InDeltaSlice(t, wantRatio.Data(), ratio.Value().Data(), 1e-9)
}

func TestProd(t *testing.T) {
	m := newMultiCategorical(t)
	want, err := m.Multiply(distribution.NewDistInfo(newDense(oldProbs)))
	require.NoError(t, err)

	g := G.NewGraph()
	prod := Prod(newNode(g, "prob", oldProbs), 1)
	run(t, g)

	assert.Equal(t, tensor.Shape{2, 3}, prod.Shape())
	assert.InDeltaSlice(t, want.Prob().Data(), prod.Value().Data(), 1e-12)
}

func TestProdPanics(t *testing.T) {
	g := G.NewGraph()
	assert.Panics(t, func() { Prod(newNode(g, "prob", oldProbs), 3) })
}

func TestAddEpsilon(t *testing.T) {
	g := G.NewGraph()
	zero := G.NewScalar(g, G.Float64, G.WithValue(0.0), G.WithName("zero"))
	logZero := LogEps(zero, eps)
	run(t, g)

	assert.InDelta(t, math.Log(eps), logZero.Value().Data(), 1e-9)
}

// Both log-likelihoods and the ratio built in one graph keep their own
// values
func TestStatisticsShareGraph(t *testing.T) {
	m := newMultiCategorical(t)
	old := distribution.NewDistInfo(newDense(oldProbs))
	cur := distribution.NewDistInfo(newDense(newProbs))
	indices := tensor.New(tensor.WithShape(2, 2), tensor.WithBacking(actions))

	wantOldLL, err := m.LogLikelihood(indices, old)
	require.NoError(t, err)
	wantNewLL, err := m.LogLikelihood(indices, cur)
	require.NoError(t, err)
	wantRatio, err := m.LikelihoodRatio(indices, old, cur)
	require.NoError(t, err)
	onehot, err := m.ToOneHot(indices)
	require.NoError(t, err)

	g := G.NewGraph()
	a := G.NewTensor(g, tensor.Float64, 3, G.WithShape(shape...),
		G.WithValue(onehot), G.WithName("actions"))
	oldNode := newNode(g, "old", oldProbs)
	newN := newNode(g, "new", newProbs)

	oldLL := LogLikelihood(a, oldNode, eps)
	newLL := LogLikelihood(a, newN, eps)
	ratio := LikelihoodRatio(a, oldNode, newN, eps)
	run(t, g)

	assert.InDeltaSlice(t, wantOldLL.Data(), oldLL.Value().Data(), 1e-12)
	assert.InDeltaSlice(t, wantNewLL.Data(), newLL.Value().Data(), 1e-12)
	assert.InDeltaSlice(t, wantRatio.Data(), ratio.Value().Data(), 1e-9)
}
