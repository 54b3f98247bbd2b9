// Package cmd implements the command line interface for inspecting
// joint action spaces, computing distribution statistics, and running
// sampling experiments
package cmd

import (
	"github.com/ElisevanderPol/marl-homomorphic-networks/agent"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	nAgents       int
	nActions      int
	decentralized bool
	epsilon       float64
	seed          uint64
	verbose       bool
)

// GetRootCommand returns the root command with all subcommands added
func GetRootCommand() *cobra.Command {
	rootCommand := &cobra.Command{
		Use:   "marl",
		Short: "Joint categorical policies for multi-agent reinforcement learning",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				log.SetLevel(log.DebugLevel)
			} else {
				log.SetLevel(log.InfoLevel)
			}
		},
		SilenceUsage: true,
	}
	rootCommand.PersistentFlags().IntVarP(&nAgents, "agents", "n", 2, "Number of agents")
	rootCommand.PersistentFlags().IntVarP(&nActions, "actions", "a", 3, "Number of actions per agent")
	rootCommand.PersistentFlags().BoolVarP(&decentralized, "decentralized", "d", true, "Use one distribution per agent instead of one over joint actions")
	rootCommand.PersistentFlags().Float64Var(&epsilon, "epsilon", 0, "Smoothing added to probabilities, 0 selects 1e-8")
	rootCommand.PersistentFlags().Uint64Var(&seed, "seed", 0, "Seed for sampling")
	rootCommand.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output")
	// adding the subcommands here
	rootCommand.AddCommand(TableCommand())
	rootCommand.AddCommand(StatsCommand())
	rootCommand.AddCommand(SampleCommand())
	return rootCommand
}

// agentConfig returns the agent configuration described by the
// persistent flags
func agentConfig() agent.Config {
	return agent.Config{
		NAgents:       nAgents,
		NActions:      nActions,
		Decentralized: decentralized,
		Epsilon:       epsilon,
		Seed:          seed,
	}
}
