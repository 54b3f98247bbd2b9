// Package agent composes a joint action space, a joint categorical
// distribution, and leading dimension bookkeeping into a Policy which
// selects and evaluates the actions of multiple agents from the
// probability tables output by a policy network.
package agent

import (
	"encoding/json"
	"os"

	"github.com/ElisevanderPol/marl-homomorphic-networks/distribution"
	"github.com/ElisevanderPol/marl-homomorphic-networks/spec"
	"github.com/ElisevanderPol/marl-homomorphic-networks/utils/errutils"
	"github.com/ElisevanderPol/marl-homomorphic-networks/utils/tensorutils"
	"github.com/pkg/errors"
)

// Config represents a configuration for creating a Policy
type Config struct {
	NAgents       int
	NActions      int
	Decentralized bool

	// Epsilon is added to probabilities before logarithms and ratios
	// are taken. Zero selects distribution.DefaultEpsilon.
	Epsilon float64

	// ActionDtype and ProbDtype name the dtypes of sampled actions
	// and of probabilities, see tensorutils.ParseDtype. Empty strings
	// select "int64" and "float64".
	ActionDtype string
	ProbDtype   string

	// Seed seeds the source that actions are sampled with
	Seed uint64
}

// Validate returns an error describing whether or not the
// configuration is valid
func (c Config) Validate() error {
	if c.NAgents < 1 {
		return errutils.New(errutils.InvalidConfiguration, "validate",
			"number of agents must be >= 1, have %d", c.NAgents)
	}
	if c.NActions < 1 {
		return errutils.New(errutils.InvalidConfiguration, "validate",
			"number of actions must be >= 1, have %d", c.NActions)
	}
	if c.Epsilon < 0 {
		return errutils.New(errutils.InvalidConfiguration, "validate",
			"epsilon must be >= 0, have %v", c.Epsilon)
	}

	if _, err := c.Space(); err != nil {
		return err
	}

	distConfig, err := c.distributionConfig()
	if err != nil {
		return err
	}
	return distConfig.Validate()
}

// Space returns the joint action space described by the Config
func (c Config) Space() (*spec.JointAction, error) {
	return spec.NewJointAction(c.NAgents, c.NActions, c.Decentralized)
}

// CreatePolicy creates the Policy that the Config describes
func (c Config) CreatePolicy() (*Policy, error) {
	if err := c.Validate(); err != nil {
		return nil, errors.Wrap(err, "createPolicy")
	}

	space, err := c.Space()
	if err != nil {
		return nil, errors.Wrap(err, "createPolicy")
	}

	distConfig, err := c.distributionConfig()
	if err != nil {
		return nil, errors.Wrap(err, "createPolicy")
	}

	dist, err := distribution.New(space, distConfig)
	if err != nil {
		return nil, errors.Wrap(err, "createPolicy")
	}

	return NewPolicy(dist, c.Seed), nil
}

// distributionConfig converts c into the configuration of its
// distribution
func (c Config) distributionConfig() (distribution.Config, error) {
	config := distribution.Config{Epsilon: c.Epsilon}

	if c.ActionDtype != "" {
		dt, err := tensorutils.ParseDtype(c.ActionDtype)
		if err != nil {
			return distribution.Config{}, err
		}
		config.ActionDtype = dt
	}
	if c.ProbDtype != "" {
		dt, err := tensorutils.ParseDtype(c.ProbDtype)
		if err != nil {
			return distribution.Config{}, err
		}
		config.ProbDtype = dt
	}

	return config, nil
}

// LoadConfig reads a JSON encoded Config from the file at path
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

	if err := c.Validate(); err != nil {
		return Config{}, errors.Wrapf(err, "loadConfig: %v", path)
	}
	return c, nil
}

// OutputSize returns the number of outputs a policy network must
// produce to parameterize a joint categorical distribution over space
func OutputSize(space *spec.JointAction) int {
	return space.OutputSize()
}
