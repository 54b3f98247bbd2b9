package distribution

import (
	"github.com/ElisevanderPol/marl-homomorphic-networks/utils/errutils"
	"github.com/ElisevanderPol/marl-homomorphic-networks/utils/tensorutils"
	"gorgonia.org/tensor"
)

// DefaultEpsilon is added to every probability before a logarithm or
// a division is taken
const DefaultEpsilon = 1e-8

// Config configures a MultiCategorical distribution. Zero-valued fields
// take their values from DefaultConfig.
type Config struct {
	// Epsilon is added to probabilities before taking logarithms and
	// ratios so that neither produces non-finite values
	Epsilon float64

	// ActionDtype is the dtype of sampled actions and decoded one-hot
	// vectors: tensor.Int64, tensor.Int32, or tensor.Int
	ActionDtype tensor.Dtype

	// ProbDtype is the dtype of probability tables, statistics, and
	// one-hot vectors: tensor.Float64 or tensor.Float32
	ProbDtype tensor.Dtype
}

// DefaultConfig returns the default distribution configuration: an
// epsilon of 1e-8, tensor.Int64 actions, and tensor.Float64
// probabilities
func DefaultConfig() Config {
	return Config{
		Epsilon:     DefaultEpsilon,
		ActionDtype: tensor.Int64,
		ProbDtype:   tensor.Float64,
	}
}

// withDefaults returns a copy of c with zero-valued fields replaced
// by their defaults
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.Epsilon == 0 {
		c.Epsilon = def.Epsilon
	}
	if c.ActionDtype.Type == nil {
		c.ActionDtype = def.ActionDtype
	}
	if c.ProbDtype.Type == nil {
		c.ProbDtype = def.ProbDtype
	}
	return c
}

// Validate checks a Config to ensure it is a valid configuration
func (c Config) Validate() error {
	c = c.withDefaults()

	if !(c.Epsilon > 0) {
		return errutils.New(errutils.InvalidConfiguration, "validate",
			"epsilon must be > 0, have %v", c.Epsilon)
	}
	if !tensorutils.IsInt(c.ActionDtype) {
		return errutils.New(errutils.InvalidConfiguration, "validate",
			"action dtype must be an integer dtype, have %v", c.ActionDtype)
	}
	if !tensorutils.IsFloat(c.ProbDtype) {
		return errutils.New(errutils.InvalidConfiguration, "validate",
			"probability dtype must be a float dtype, have %v", c.ProbDtype)
	}
	return nil
}
