// Package experiment implements functionality for running an experiment
package experiment

import (
	"context"
	"encoding/json"
	"os"

	"github.com/ElisevanderPol/marl-homomorphic-networks/agent"
	"github.com/ElisevanderPol/marl-homomorphic-networks/experiment/tracker"
	"github.com/ElisevanderPol/marl-homomorphic-networks/utils/errutils"
	"github.com/pkg/errors"
)

// Interface Experiment outlines structs that can run experiments.
// Experiments send the actions selected by a Policy to Trackers, which
// cache the data to later be saved to disk by Save. Run runs the
// experiment until it ends or its context is cancelled.
type Experiment interface {
	Run(ctx context.Context) error

	// Save all tracked data to disk
	Save() error

	// Adds a new tracker.Tracker to the experiment. Must not be called
	// while the experiment is running.
	Register(t tracker.Tracker)
}

// Type represents a type of experiment
type Type string

const (
	SamplingExp Type = "Sampling"
)

// Config represents a configuration of an experiment.
type Config struct {
	Type

	// Steps is the number of batches of actions selected
	Steps int

	// Workers is the number of goroutines selecting actions. Each
	// worker samples with its own Policy seeded by the Policy's
	// configured seed plus the worker's index.
	Workers int

	// Batch is the number of environments per batch of actions
	Batch int

	// Probabilities is the row-major [rows, cols] probability table
	// that every environment selects actions from. An empty table
	// selects uniform probabilities.
	Probabilities []float64

	AgentConf agent.TypedConfigList
}

// CreateExp creates the experiment described by the Config using the
// agent Config at index i of c.AgentConf
func (c Config) CreateExp(i int, t ...tracker.Tracker) (Experiment, error) {
	if c.AgentConf.ConfigList == nil {
		return nil, errutils.New(errutils.InvalidConfiguration, "createExp",
			"no agent configurations")
	}
	if i < 0 || i >= c.AgentConf.Len() {
		return nil, errutils.New(errutils.IndexOutOfRange, "createExp",
			"agent configuration %d not in [0, %d)", i, c.AgentConf.Len())
	}

	switch c.Type {
	case SamplingExp:
		return NewSampling(c.AgentConf.At(i), c.Probabilities, c.Batch,
			c.Steps, c.Workers, t...)
	}

	return nil, errutils.New(errutils.InvalidConfiguration, "createExp",
		"no such experiment type %v", c.Type)
}

// LoadConfig reads a JSON encoded experiment Config from the file at
// path
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "loadConfig: could not read %v",
			path)
	}

	var c Config
	if err := json.Unmarshal(data, &c); err != nil {
		return Config{}, errors.Wrapf(err, "loadConfig: could not decode %v",
			path)
	}
	return c, nil
}
