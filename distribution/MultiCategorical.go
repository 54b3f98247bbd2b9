// Package distribution implements joint categorical distributions over
// the discrete actions of multiple agents, together with the
// statistics needed by trust region policy gradient methods.
package distribution

import (
	"math"

	"github.com/ElisevanderPol/marl-homomorphic-networks/spec"
	"github.com/ElisevanderPol/marl-homomorphic-networks/utils/errutils"
	"github.com/ElisevanderPol/marl-homomorphic-networks/utils/floatutils"
	"github.com/ElisevanderPol/marl-homomorphic-networks/utils/matutils"
	"github.com/ElisevanderPol/marl-homomorphic-networks/utils/tensorutils"
	log "github.com/sirupsen/logrus"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/sampleuv"
	"gorgonia.org/tensor"
)

// MultiCategorical is a joint categorical distribution over the
// actions of the agents of a spec.JointAction.
//
// A probability table for a MultiCategorical has shape
// [..., rows, cols], where [rows, cols] is the trailing shape of the
// joint action space: [agents, actions] for decentralized spaces,
// with one categorical distribution per agent, and [1, actions^agents]
// for centralized spaces, with a single distribution over all joint
// actions. Leading axes index batch elements. Every operation reduces
// over the trailing cols axis only.
//
// A MultiCategorical is immutable and safe for concurrent use.
type MultiCategorical struct {
	space       *spec.JointAction
	eps         float64
	actionDtype tensor.Dtype
	probDtype   tensor.Dtype
}

// New returns a new MultiCategorical over the argument joint action
// space
func New(space *spec.JointAction, c Config) (*MultiCategorical, error) {
	if space == nil {
		return nil, errutils.New(errutils.InvalidConfiguration, "new",
			"nil joint action space")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	c = c.withDefaults()

	log.WithFields(log.Fields{
		"n_agents":      space.NAgents(),
		"n_actions":     space.NActions(),
		"decentralized": space.Decentralized(),
		"joint_dim":     space.JointDim(),
		"epsilon":       c.Epsilon,
	}).Debug("created joint categorical distribution")

	return &MultiCategorical{
		space:       space,
		eps:         c.Epsilon,
		actionDtype: c.ActionDtype,
		probDtype:   c.ProbDtype,
	}, nil
}

// Space returns the joint action space of the distribution
func (m *MultiCategorical) Space() *spec.JointAction {
	return m.space
}

// Dim returns the number of outputs a policy network must produce to
// parameterize the distribution
func (m *MultiCategorical) Dim() int {
	return m.space.JointDim()
}

// Epsilon returns the value added to probabilities before logarithms
// and ratios are taken
func (m *MultiCategorical) Epsilon() float64 {
	return m.eps
}

// ActionDtype returns the dtype of sampled actions
func (m *MultiCategorical) ActionDtype() tensor.Dtype {
	return m.actionDtype
}

// ProbDtype returns the dtype of probabilities and statistics
func (m *MultiCategorical) ProbDtype() tensor.Dtype {
	return m.probDtype
}

// ToOneHot converts a tensor of action indices into one-hot vectors
// of width Space().Cols()
func (m *MultiCategorical) ToOneHot(indices *tensor.Dense) (*tensor.Dense,
	error) {
	return tensorutils.Encode(indices, m.space.Cols(), m.probDtype)
}

// FromOneHot converts one-hot vectors back into action indices
func (m *MultiCategorical) FromOneHot(onehot *tensor.Dense) (*tensor.Dense,
	error) {
	return tensorutils.Decode(onehot, m.actionDtype)
}

// Sample draws one action per distribution row of the probability
// table. Rows are sampled independently: the table is viewed as a
// (batch * rows) x cols matrix and one categorical sample is drawn
// per matrix row, so sampling the action of one agent never reads the
// probabilities of another.
//
// The returned actions have shape [rows] if the batch holds a single
// element, and [..., rows] otherwise. Randomness is drawn from src;
// sampling with sources of equal seeds gives equal actions. A Source
// must not be shared between goroutines.
func (m *MultiCategorical) Sample(d DistInfo, src rand.Source) (*tensor.Dense,
	error) {
	const op = "sample"

	probs, lead, err := m.rows(op, d)
	if err != nil {
		return nil, err
	}
	r := nRows(probs)

	actions := make([]int, r)
	for i := 0; i < r; i++ {
		row := probs.RawRowView(i)
		for j, p := range row {
			if p < 0 || math.IsNaN(p) || math.IsInf(p, 0) {
				logInvalid(probs)
				return nil, errutils.New(errutils.InvalidProbabilities, op,
					"row %d holds probability %v at action %d", i, p, j)
			}
		}

		action, ok := sampleuv.NewWeighted(row, src).Take()
		if !ok {
			logInvalid(probs)
			return nil, errutils.New(errutils.InvalidProbabilities, op,
				"row %d has no probability mass", i)
		}
		actions[i] = action
	}

	shape := []int{m.space.Rows()}
	if tensorutils.Size(lead) != 1 {
		shape = append(lead, m.space.Rows())
	}
	return tensorutils.FromInts(shape, actions, m.actionDtype)
}

// Entropy returns -Σ p log(p + ε) over the actions of each
// distribution row, with shape [..., rows].
//
// If product is true, the rows of each batch element are first
// multiplied together elementwise and the entropy of the resulting
// product is returned, with shape [...]. For a decentralized table
// this approximates the entropy of the joint action.
func (m *MultiCategorical) Entropy(d DistInfo, product bool) (*tensor.Dense,
	error) {
	const op = "entropy"

	if product {
		prod, lead, err := m.product(op, d)
		if err != nil {
			return nil, err
		}
		entropy := rowApply(prod, func(row []float64) float64 {
			return floatutils.Entropy(row, m.eps)
		})
		return m.stats(lead, entropy)
	}

	probs, lead, err := m.rows(op, d)
	if err != nil {
		return nil, err
	}
	entropy := rowApply(probs, func(row []float64) float64 {
		return floatutils.Entropy(row, m.eps)
	})
	return m.stats(append(lead, m.space.Rows()), entropy)
}

// KL returns the KL divergence Σ p_old (log(p_old + ε) - log(p_new + ε))
// over the actions of each distribution row, with shape [..., rows].
// KL divergences are not reduced over agents.
func (m *MultiCategorical) KL(oldInfo, newInfo DistInfo) (*tensor.Dense,
	error) {
	kl, lead, err := m.kl("kl", oldInfo, newInfo)
	if err != nil {
		return nil, err
	}
	return m.stats(append(lead, m.space.Rows()), kl)
}

// MeanKL returns the mean of KL(oldInfo, newInfo) over all batch
// elements and rows. If valid is not nil, it must hold one flag per batch element,
// and only the rows of elements whose flag is true are averaged. If
// no element is valid or the batch is empty, MeanKL returns NaN.
func (m *MultiCategorical) MeanKL(oldInfo, newInfo DistInfo,
	valid []bool) (float64, error) {
	const op = "meanKL"

	values, lead, err := m.kl(op, oldInfo, newInfo)
	if err != nil {
		return 0, err
	}

	if valid == nil {
		return stat.Mean(values, nil), nil
	}

	batch := tensorutils.Size(lead)
	if len(valid) != batch {
		return 0, errutils.New(errutils.Shape, op,
			"want %d valid flags, have %d", batch, len(valid))
	}

	rows := m.space.Rows()
	weights := make([]float64, len(values))
	for i, ok := range valid {
		if !ok {
			continue
		}
		for r := 0; r < rows; r++ {
			weights[i*rows+r] = 1
		}
	}
	return stat.Mean(values, weights), nil
}

// LogLikelihood returns log(p[a] + ε) for the action a taken in each
// distribution row, with shape [..., rows]. The indices must have
// shape [..., rows]; if the batch holds a single element, indices of
// shape [rows], as returned by Sample, are accepted as well.
func (m *MultiCategorical) LogLikelihood(indices *tensor.Dense,
	d DistInfo) (*tensor.Dense, error) {
	const op = "logLikelihood"

	selected, lead, err := m.selectAt(op, indices, d)
	if err != nil {
		return nil, err
	}

	for i, p := range selected {
		selected[i] = floatutils.LogEps(p, m.eps)
	}
	return m.stats(append(lead, m.space.Rows()), selected)
}

// LikelihoodRatio returns (p_new[a] + ε) / (p_old[a] + ε) for the
// action a taken in each distribution row, with shape [..., rows].
// Indices are accepted as in LogLikelihood.
func (m *MultiCategorical) LikelihoodRatio(indices *tensor.Dense, oldInfo,
	newInfo DistInfo) (*tensor.Dense, error) {
	const op = "likelihoodRatio"

	if err := sameShape(op, oldInfo, newInfo); err != nil {
		return nil, err
	}

	den, lead, err := m.selectAt(op, indices, oldInfo)
	if err != nil {
		return nil, err
	}
	num, _, err := m.selectAt(op, indices, newInfo)
	if err != nil {
		return nil, err
	}

	ratio := make([]float64, len(num))
	for i := range num {
		ratio[i] = floatutils.Ratio(num[i], den[i], m.eps)
	}
	return m.stats(append(lead, m.space.Rows()), ratio)
}

// Multiply collapses the rows of each batch element into a single row
// by taking their elementwise product. The probability table of the
// returned DistInfo has shape [..., cols].
func (m *MultiCategorical) Multiply(d DistInfo) (DistInfo, error) {
	prod, lead, err := m.product("multiply", d)
	if err != nil {
		return DistInfo{}, err
	}

	table, err := tensorutils.FromFloat64s(append(lead, m.space.Cols()),
		rawData(prod), m.probDtype)
	if err != nil {
		return DistInfo{}, err
	}
	return DistInfo{prob: table}, nil
}

// JointActions converts joint action indices of a centralized space,
// with shape [..., 1], into the per-agent actions of each joint
// action, with shape [..., agents]. For decentralized spaces the
// indices already hold per-agent actions and a copy is returned.
func (m *MultiCategorical) JointActions(indices *tensor.Dense) (*tensor.Dense,
	error) {
	const op = "jointActions"

	ints, err := tensorutils.Ints(indices)
	if err != nil {
		return nil, err
	}
	shape := indices.Shape().Clone()

	if m.space.Decentralized() {
		return tensorutils.FromInts(shape, ints, m.actionDtype)
	}

	if len(shape) == 0 || shape[len(shape)-1] != 1 {
		return nil, errutils.New(errutils.Shape, op,
			"joint indices of shape %v must have a trailing axis of "+
				"length 1", shape)
	}

	agents := m.space.NAgents()
	actions := make([]int, 0, len(ints)*agents)
	for _, index := range ints {
		a, err := m.space.JointAction(index)
		if err != nil {
			return nil, err
		}
		actions = append(actions, a...)
	}

	shape[len(shape)-1] = agents
	return tensorutils.FromInts(shape, actions, m.actionDtype)
}

// rows validates the probability table of d and returns it as a
// (batch * rows) x cols matrix together with the leading shape. The
// matrix is nil if the batch is empty.
func (m *MultiCategorical) rows(op string, d DistInfo) (*mat.Dense, []int,
	error) {
	if d.prob == nil {
		return nil, nil, errutils.New(errutils.Shape, op,
			"empty distribution info")
	}

	shape := d.prob.Shape().Clone()
	rows, cols := m.space.Rows(), m.space.Cols()
	n := len(shape)
	if n < 2 || shape[n-2] != rows || shape[n-1] != cols {
		return nil, nil, errutils.New(errutils.Shape, op,
			"probability table of shape %v does not end in [%d %d]",
			shape, rows, cols)
	}

	lead := []int(shape[:n-2])
	if tensorutils.Size(lead) == 0 {
		return nil, lead, nil
	}

	values, err := tensorutils.Float64s(d.prob)
	if err != nil {
		return nil, nil, err
	}

	probs, err := matutils.Rows(values, tensorutils.Size(lead)*rows, cols)
	if err != nil {
		return nil, nil, errutils.New(errutils.Shape, op, "%v", err)
	}
	return probs, lead, nil
}

// product returns, for each batch element, the elementwise product of
// its rows as a batch x cols matrix, or nil if the batch is empty
func (m *MultiCategorical) product(op string, d DistInfo) (*mat.Dense, []int,
	error) {
	probs, lead, err := m.rows(op, d)
	if err != nil || probs == nil {
		return nil, lead, err
	}

	rows, cols := m.space.Rows(), m.space.Cols()
	batch := tensorutils.Size(lead)
	values := probs.RawMatrix().Data

	prod := mat.NewDense(batch, cols, nil)
	for b := 0; b < batch; b++ {
		floatutils.ColProd(prod.RawRowView(b),
			values[b*rows*cols:(b+1)*rows*cols], rows, cols)
	}
	return prod, lead, nil
}

// kl returns the KL divergence of each row of the argument tables
func (m *MultiCategorical) kl(op string, oldInfo, newInfo DistInfo) ([]float64,
	[]int, error) {
	if err := sameShape(op, oldInfo, newInfo); err != nil {
		return nil, nil, err
	}

	p, lead, err := m.rows(op, oldInfo)
	if err != nil {
		return nil, nil, err
	}
	q, _, err := m.rows(op, newInfo)
	if err != nil {
		return nil, nil, err
	}
	if p == nil {
		return []float64{}, lead, nil
	}

	kl, err := matutils.RowApply2(p, q, func(p, q []float64) float64 {
		return floatutils.KL(p, q, m.eps)
	})
	if err != nil {
		return nil, nil, errutils.New(errutils.Shape, op, "%v", err)
	}
	return kl.RawVector().Data, lead, nil
}

// selectAt returns the probability that each row of the table of d
// assigns to the action of the corresponding element of indices
func (m *MultiCategorical) selectAt(op string, indices *tensor.Dense,
	d DistInfo) ([]float64, []int, error) {
	probs, lead, err := m.rows(op, d)
	if err != nil {
		return nil, nil, err
	}
	if indices == nil {
		return nil, nil, errutils.New(errutils.Shape, op, "nil indices")
	}

	rows := m.space.Rows()
	want := append(append([]int(nil), lead...), rows)
	have := indices.Shape().Clone()
	collapsed := tensorutils.Size(lead) == 1 && equalShapes(have, []int{rows})
	if !equalShapes(have, want) && !collapsed {
		return nil, nil, errutils.New(errutils.Shape, op,
			"indices of shape %v do not match probability table rows %v",
			have, want)
	}

	ints, err := tensorutils.Ints(indices)
	if err != nil {
		return nil, nil, err
	}

	cols := m.space.Cols()
	selected := make([]float64, len(ints))
	for i, a := range ints {
		if a < 0 || a >= cols {
			return nil, nil, errutils.New(errutils.IndexOutOfRange, op,
				"action %d not in [0, %d)", a, cols)
		}
		selected[i] = probs.At(i, a)
	}
	return selected, lead, nil
}

// stats converts statistics into a tensor of the argument shape and
// the configured probability dtype
func (m *MultiCategorical) stats(shape []int, v []float64) (*tensor.Dense,
	error) {
	return tensorutils.FromFloat64s(shape, v, m.probDtype)
}

// rowApply applies fn to each row of probs. A nil matrix has no rows.
func rowApply(probs *mat.Dense, fn func(row []float64) float64) []float64 {
	if probs == nil {
		return []float64{}
	}
	return matutils.RowApply(probs, fn).RawVector().Data
}

func nRows(probs *mat.Dense) int {
	if probs == nil {
		return 0
	}
	r, _ := probs.Dims()
	return r
}

func rawData(probs *mat.Dense) []float64 {
	if probs == nil {
		return []float64{}
	}
	return probs.RawMatrix().Data
}

// logInvalid logs a probability table that cannot be sampled from
func logInvalid(probs *mat.Dense) {
	if log.IsLevelEnabled(log.DebugLevel) {
		log.WithField("table", matutils.Format(probs)).Debug(
			"cannot sample from probability table")
	}
}

// sameShape returns an error if the tables of a and b differ in shape
func sameShape(op string, a, b DistInfo) error {
	if a.prob == nil || b.prob == nil {
		return errutils.New(errutils.Shape, op, "empty distribution info")
	}
	if !a.prob.Shape().Eq(b.prob.Shape()) {
		return errutils.New(errutils.Shape, op,
			"probability tables differ in shape: %v and %v",
			a.prob.Shape(), b.prob.Shape())
	}
	return nil
}

func equalShapes(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
