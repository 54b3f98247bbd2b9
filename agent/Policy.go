package agent

import (
	"sync"

	"github.com/ElisevanderPol/marl-homomorphic-networks/distribution"
	"github.com/ElisevanderPol/marl-homomorphic-networks/spec"
	"github.com/ElisevanderPol/marl-homomorphic-networks/utils/errutils"
	"github.com/ElisevanderPol/marl-homomorphic-networks/utils/tensorutils"
	"github.com/pkg/errors"
	"golang.org/x/exp/rand"
	"gorgonia.org/tensor"
)

// Policy selects the joint actions of multiple agents from the
// probability tables output by a policy network, and evaluates
// previously selected actions under old and new tables for trust
// region policy gradient updates.
//
// Probability tables may have shape [T, B, rows, cols], [B, rows, cols]
// or [rows, cols], and every tensor a Policy returns has the same
// leading axes as its input. A Policy is safe for concurrent use,
// although concurrent calls to SelectAction draw from a single source
// in an unspecified order.
type Policy struct {
	dist *distribution.MultiCategorical

	srcLock sync.Mutex
	src     rand.Source
}

// Evaluation holds the statistics of a batch of actions under an old
// and a new probability table. Each tensor has shape [..., rows],
// where [...] are the leading axes of the inputs.
type Evaluation struct {
	LogLikelihood   *tensor.Dense // log likelihood under the new table
	LikelihoodRatio *tensor.Dense // new likelihood / old likelihood
	Entropy         *tensor.Dense // entropy of the new table
	KL              *tensor.Dense // KL(old || new)
	MeanKL          float64       // mean of KL over all rows
}

// NewPolicy returns a new Policy sampling from dist with a source
// seeded by seed
func NewPolicy(dist *distribution.MultiCategorical, seed uint64) *Policy {
	return &Policy{
		dist: dist,
		src:  rand.NewSource(seed),
	}
}

// Distribution returns the distribution the Policy samples from
func (p *Policy) Distribution() *distribution.MultiCategorical {
	return p.dist
}

// Space returns the joint action space of the Policy
func (p *Policy) Space() *spec.JointAction {
	return p.dist.Space()
}

// OutputSize returns the number of outputs a policy network must
// produce for the Policy
func (p *Policy) OutputSize() int {
	return OutputSize(p.dist.Space())
}

// SelectAction samples one action per distribution row of prob. The
// returned actions have shape [..., rows].
func (p *Policy) SelectAction(prob *tensor.Dense) (*tensor.Dense, error) {
	canonical, lead, err := tensorutils.InferLeading(prob, 2)
	if err != nil {
		return nil, errors.Wrap(err, "selectAction")
	}

	p.srcLock.Lock()
	actions, err := p.dist.Sample(distribution.NewDistInfo(canonical), p.src)
	p.srcLock.Unlock()
	if err != nil {
		return nil, errors.Wrap(err, "selectAction")
	}

	// Sample collapses a batch of one, so always restore from
	// [T*B, rows]
	actions, err = tensorutils.Reshape(actions,
		[]int{lead.Size(), p.dist.Space().Rows()})
	if err != nil {
		return nil, errors.Wrap(err, "selectAction")
	}

	restored, err := tensorutils.RestoreLeading(lead, actions)
	if err != nil {
		return nil, errors.Wrap(err, "selectAction")
	}
	return restored[0], nil
}

// Evaluate computes the statistics of actions, of shape [..., rows],
// under the probability tables oldProb and newProb, of shape
// [..., rows, cols]. All three tensors must share the same leading
// axes.
func (p *Policy) Evaluate(actions, oldProb,
	newProb *tensor.Dense) (Evaluation, error) {
	canonicalActions, lead, err := tensorutils.InferLeading(actions, 1)
	if err != nil {
		return Evaluation{}, errors.Wrap(err, "evaluate")
	}
	canonicalOld, oldLead, err := tensorutils.InferLeading(oldProb, 2)
	if err != nil {
		return Evaluation{}, errors.Wrap(err, "evaluate")
	}
	canonicalNew, newLead, err := tensorutils.InferLeading(newProb, 2)
	if err != nil {
		return Evaluation{}, errors.Wrap(err, "evaluate")
	}
	if lead != oldLead || lead != newLead {
		return Evaluation{}, errutils.New(errutils.Shape, "evaluate",
			"leading axes differ: actions %v, old %v, new %v",
			lead.Shape(), oldLead.Shape(), newLead.Shape())
	}

	oldInfo := distribution.NewDistInfo(canonicalOld)
	newInfo := distribution.NewDistInfo(canonicalNew)

	ll, err := p.dist.LogLikelihood(canonicalActions, newInfo)
	if err != nil {
		return Evaluation{}, errors.Wrap(err, "evaluate")
	}
	ratio, err := p.dist.LikelihoodRatio(canonicalActions, oldInfo, newInfo)
	if err != nil {
		return Evaluation{}, errors.Wrap(err, "evaluate")
	}
	entropy, err := p.dist.Entropy(newInfo, false)
	if err != nil {
		return Evaluation{}, errors.Wrap(err, "evaluate")
	}
	kl, err := p.dist.KL(oldInfo, newInfo)
	if err != nil {
		return Evaluation{}, errors.Wrap(err, "evaluate")
	}
	meanKL, err := p.dist.MeanKL(oldInfo, newInfo, nil)
	if err != nil {
		return Evaluation{}, errors.Wrap(err, "evaluate")
	}

	restored, err := tensorutils.RestoreLeading(lead, ll, ratio, entropy, kl)
	if err != nil {
		return Evaluation{}, errors.Wrap(err, "evaluate")
	}

	return Evaluation{
		LogLikelihood:   restored[0],
		LikelihoodRatio: restored[1],
		Entropy:         restored[2],
		KL:              restored[3],
		MeanKL:          meanKL,
	}, nil
}
