package experiment

import (
	"context"

	"github.com/ElisevanderPol/marl-homomorphic-networks/agent"
	"github.com/ElisevanderPol/marl-homomorphic-networks/distribution"
	"github.com/ElisevanderPol/marl-homomorphic-networks/experiment/tracker"
	"github.com/ElisevanderPol/marl-homomorphic-networks/utils/errutils"
	"github.com/ElisevanderPol/marl-homomorphic-networks/utils/tensorutils"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gorgonia.org/tensor"
)

// Sampling is an Experiment which repeatedly selects batches of joint
// actions from a fixed probability table using a number of workers in
// parallel, so that the empirical action frequencies can be compared
// to the table.
type Sampling struct {
	policies []*agent.Policy
	table    []float64
	prob     *tensor.Dense
	steps    int
	trackers []tracker.Tracker
}

// NewSampling creates and returns a new Sampling experiment. Each of
// the workers creates its own Policy from config, seeded with
// config.Seed plus the worker's index. Every step, one of the workers
// selects a batch of actions from table, which is the row-major
// [rows, cols] probability table of the joint action space of config,
// repeated batch times.
func NewSampling(config agent.Config, table []float64, batch, steps,
	workers int, t ...tracker.Tracker) (*Sampling, error) {
	if batch < 1 || steps < 0 || workers < 1 {
		return nil, errutils.New(errutils.InvalidConfiguration,
			"newSampling", "illegal batch (%d), steps (%d) or workers (%d)",
			batch, steps, workers)
	}

	policies := make([]*agent.Policy, workers)
	for i := range policies {
		c := config
		c.Seed += uint64(i)

		p, err := c.CreatePolicy()
		if err != nil {
			return nil, errors.Wrap(err, "newSampling")
		}
		policies[i] = p
	}

	space := policies[0].Space()
	rows, cols := space.Rows(), space.Cols()
	if len(table) == 0 {
		table = make([]float64, rows*cols)
		for i := range table {
			table[i] = 1 / float64(cols)
		}
	}
	if len(table) != rows*cols {
		return nil, errutils.New(errutils.Shape, "newSampling",
			"table of %d probabilities does not fit [%d %d]", len(table),
			rows, cols)
	}

	data := make([]float64, 0, batch*len(table))
	for b := 0; b < batch; b++ {
		data = append(data, table...)
	}
	prob, err := tensorutils.FromFloat64s([]int{batch, rows, cols}, data,
		policies[0].Distribution().ProbDtype())
	if err != nil {
		return nil, errors.Wrap(err, "newSampling")
	}

	return &Sampling{
		policies: policies,
		table:    append([]float64(nil), table...),
		prob:     prob,
		steps:    steps,
		trackers: t,
	}, nil
}

// Register registers a tracker.Tracker with the experiment
func (s *Sampling) Register(t tracker.Tracker) {
	s.trackers = append(s.trackers, t)
}

// Run runs the experiment. Worker i selects the batches of steps
// i, i + workers, i + 2*workers, and so on. Run returns the first
// error encountered by any worker.
func (s *Sampling) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	workers := len(s.policies)

	for i, p := range s.policies {
		i, p := i, p
		g.Go(func() error {
			for step := i; step < s.steps; step += workers {
				if err := ctx.Err(); err != nil {
					return err
				}

				actions, err := p.SelectAction(s.prob)
				if err != nil {
					return errors.Wrapf(err, "run: step %d", step)
				}
				for _, t := range s.trackers {
					if err := t.Track(actions); err != nil {
						return errors.Wrapf(err, "run: step %d", step)
					}
				}
			}

			log.WithFields(log.Fields{
				"worker": i,
			}).Debug("sampling worker finished")
			return nil
		})
	}

	return g.Wait()
}

// Save saves the data of all Trackers to disk
func (s *Sampling) Save() error {
	for _, t := range s.trackers {
		if err := t.Save(); err != nil {
			return err
		}
	}
	return nil
}

// Table returns the probability table that actions are selected from,
// of shape [rows, cols]
func (s *Sampling) Table() distribution.DistInfo {
	space := s.policies[0].Space()
	return distribution.NewDistInfo(tensor.New(
		tensor.WithShape(space.Rows(), space.Cols()),
		tensor.WithBacking(append([]float64(nil), s.table...)),
	))
}

// Report compares the probability table of a Sampling experiment to
// the empirical action frequencies tracked during the experiment
type Report struct {
	// Entropy of each row of the probability table
	Entropy *tensor.Dense

	// KL divergence of the empirical frequencies from each row of the
	// probability table
	KL *tensor.Dense
}

// Report returns a Report of the empirical action frequencies freq,
// such as those returned by trackers.ActionFrequency.Frequencies
func (s *Sampling) Report(freq [][]float64) (Report, error) {
	space := s.policies[0].Space()
	rows, cols := space.Rows(), space.Cols()
	if len(freq) != rows {
		return Report{}, errutils.New(errutils.Shape, "report",
			"want frequencies of %d rows, have %d", rows, len(freq))
	}

	data := make([]float64, 0, rows*cols)
	for i, row := range freq {
		if len(row) != cols {
			return Report{}, errutils.New(errutils.Shape, "report",
				"row %d: want %d frequencies, have %d", i, cols, len(row))
		}
		data = append(data, row...)
	}
	empirical := distribution.NewDistInfo(tensor.New(
		tensor.WithShape(rows, cols),
		tensor.WithBacking(data),
	))

	dist := s.policies[0].Distribution()
	table := s.Table()

	entropy, err := dist.Entropy(table, false)
	if err != nil {
		return Report{}, errors.Wrap(err, "report")
	}
	kl, err := dist.KL(table, empirical)
	if err != nil {
		return Report{}, errors.Wrap(err, "report")
	}
	return Report{Entropy: entropy, KL: kl}, nil
}
