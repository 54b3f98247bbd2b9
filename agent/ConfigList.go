package agent

import (
	"fmt"

	"github.com/ElisevanderPol/marl-homomorphic-networks/utils/intutils"
)

// ConfigList is a list of Configs, usually the Cartesian product of a
// number of hyperparameter settings, which is swept over by an
// experiment
type ConfigList interface {
	// Type returns the Type of Policy that the Configs create
	Type() Type

	// Len returns the number of Configs in the list
	Len() int

	// At returns the Config at index i
	At(i int) Config
}

// CategoricalConfigList is a ConfigList holding every combination of
// its settings. The Config at index i takes settings from each field
// in turn, with Seed varying fastest.
type CategoricalConfigList struct {
	NAgents       []int
	NActions      []int
	Decentralized []bool
	Epsilon       []float64
	ActionDtype   []string
	ProbDtype     []string
	Seed          []uint64
}

// Type implements the ConfigList interface
func (c CategoricalConfigList) Type() Type {
	return MultiCategorical
}

// Len implements the ConfigList interface
func (c CategoricalConfigList) Len() int {
	return intutils.Prod(c.lens()...)
}

// At implements the ConfigList interface. Fields left empty take the
// zero value of their Config field.
func (c CategoricalConfigList) At(i int) Config {
	if n := c.Len(); i < 0 || i >= n {
		panic(fmt.Sprintf("at: index %d out of range [0, %d)", i, n))
	}

	lens := c.lens()
	idx := make([]int, len(lens))
	for k := len(lens) - 1; k >= 0; k-- {
		idx[k] = i % lens[k]
		i /= lens[k]
	}

	var config Config
	if len(c.NAgents) > 0 {
		config.NAgents = c.NAgents[idx[0]]
	}
	if len(c.NActions) > 0 {
		config.NActions = c.NActions[idx[1]]
	}
	if len(c.Decentralized) > 0 {
		config.Decentralized = c.Decentralized[idx[2]]
	}
	if len(c.Epsilon) > 0 {
		config.Epsilon = c.Epsilon[idx[3]]
	}
	if len(c.ActionDtype) > 0 {
		config.ActionDtype = c.ActionDtype[idx[4]]
	}
	if len(c.ProbDtype) > 0 {
		config.ProbDtype = c.ProbDtype[idx[5]]
	}
	if len(c.Seed) > 0 {
		config.Seed = c.Seed[idx[6]]
	}
	return config
}

// lens returns the number of settings of each field, counting an
// empty field as a single zero-valued setting
func (c CategoricalConfigList) lens() []int {
	lens := []int{
		len(c.NAgents),
		len(c.NActions),
		len(c.Decentralized),
		len(c.Epsilon),
		len(c.ActionDtype),
		len(c.ProbDtype),
		len(c.Seed),
	}
	for i := range lens {
		lens[i] = intutils.Max(lens[i], 1)
	}
	return lens
}
