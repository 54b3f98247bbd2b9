package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ElisevanderPol/marl-homomorphic-networks/agent"
	"github.com/ElisevanderPol/marl-homomorphic-networks/experiment"
	"github.com/ElisevanderPol/marl-homomorphic-networks/experiment/trackers"
	"github.com/ElisevanderPol/marl-homomorphic-networks/utils/errutils"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// SampleCommand runs a sampling experiment and reports how closely
// the empirical action frequencies match the probability table. The
// experiment is described either by flags or by a JSON experiment
// configuration file.
func SampleCommand() *cobra.Command {
	var probs string
	var steps int
	var batch int
	var workers int
	var saveDir string
	var configFile string
	var index int
	var plotFile bool
	var progress bool

	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Sample joint actions in parallel and track their frequencies",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := experiment.Config{
				Type:      experiment.SamplingExp,
				Steps:     steps,
				Workers:   workers,
				Batch:     batch,
				AgentConf: agent.NewTypedConfigList(flagConfigList()),
			}
			if configFile != "" {
				var err error
				if config, err = experiment.LoadConfig(configFile); err != nil {
					return err
				}
			} else {
				index = 0
			}
			if config.AgentConf.ConfigList == nil || index < 0 ||
				index >= config.AgentConf.Len() {
				return errutils.New(errutils.IndexOutOfRange, "sample",
					"no agent configuration at index %d", index)
			}

			space, err := config.AgentConf.At(index).Space()
			if err != nil {
				return err
			}
			if probs != "" {
				table, err := parseTable(probs, space.Rows(), space.Cols())
				if err != nil {
					return err
				}
				config.Probabilities = table.Data().([]float64)
			}

			if err := os.MkdirAll(saveDir, 0o755); err != nil {
				return errors.Wrap(err, "sample")
			}
			dataFile := filepath.Join(saveDir, "action_frequency.bin")
			freq, err := trackers.NewActionFrequency(space.Rows(),
				space.Cols(), dataFile)
			if err != nil {
				return err
			}

			exp, err := config.CreateExp(index, freq)
			if err != nil {
				return err
			}
			if progress {
				exp.Register(trackers.NewProgress(cmd.ErrOrStderr(), 40,
					config.Steps))
			}

			log.WithFields(log.Fields{
				"steps":   config.Steps,
				"batch":   config.Batch,
				"workers": config.Workers,
				"type":    space.Type(),
			}).Info("running sampling experiment")
			if err := exp.Run(context.Background()); err != nil {
				return err
			}
			if err := exp.Save(); err != nil {
				return err
			}
			log.WithField("file", dataFile).Info("saved action frequencies")

			if sampling, ok := exp.(*experiment.Sampling); ok {
				report, err := sampling.Report(freq.Frequencies())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "table entropy: %v\n", report.Entropy.Data())
				fmt.Fprintf(out, "kl(table || empirical): %v\n",
					report.KL.Data())
			}

			if plotFile {
				png := filepath.Join(saveDir, "action_frequency.png")
				if err := trackers.Plot(dataFile, png,
					"Empirical action frequencies"); err != nil {
					return err
				}
				log.WithField("file", png).Info("saved plot")
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&probs, "probs", "p", "", "Probability table, rows separated by ';' and actions by ','")
	cmd.Flags().IntVar(&steps, "steps", 1000, "Number of batches to sample")
	cmd.Flags().IntVarP(&batch, "batch", "b", 16, "Number of environments per batch")
	cmd.Flags().IntVarP(&workers, "workers", "w", 4, "Number of parallel workers")
	cmd.Flags().StringVarP(&saveDir, "save", "s", "results", "Save the result data in the specified folder")
	cmd.Flags().StringVarP(&configFile, "config", "c", "", "JSON experiment configuration, overrides the other flags")
	cmd.Flags().IntVarP(&index, "index", "i", 0, "Index of the agent configuration to run from --config")
	cmd.Flags().BoolVar(&plotFile, "plot", false, "Plot the action frequencies")
	cmd.Flags().BoolVar(&progress, "progress", false, "Display a progress bar while sampling")
	return cmd
}

// flagConfigList returns a single agent configuration described by
// the persistent flags as a ConfigList
func flagConfigList() agent.CategoricalConfigList {
	c := agentConfig()
	return agent.CategoricalConfigList{
		NAgents:       []int{c.NAgents},
		NActions:      []int{c.NActions},
		Decentralized: []bool{c.Decentralized},
		Epsilon:       []float64{c.Epsilon},
		Seed:          []uint64{c.Seed},
	}
}
