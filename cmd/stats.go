package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ElisevanderPol/marl-homomorphic-networks/distribution"
	"github.com/ElisevanderPol/marl-homomorphic-networks/utils/errutils"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gorgonia.org/tensor"
)

// StatsCommand prints the statistics of a single probability table
// and, optionally, of actions taken under it
func StatsCommand() *cobra.Command {
	var probs string
	var actions string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Compute the statistics of a probability table",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := agentConfig().CreatePolicy()
			if err != nil {
				return err
			}
			dist := p.Distribution()
			space := dist.Space()

			table, err := parseTable(probs, space.Rows(), space.Cols())
			if err != nil {
				return err
			}
			d := distribution.NewDistInfo(table)

			out := cmd.OutOrStdout()
			entropy, err := dist.Entropy(d, false)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "entropy: %v\n", entropy.Data())

			product, err := dist.Entropy(d, true)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "product entropy: %v\n", product.Data())

			if actions == "" {
				return nil
			}
			indices, err := parseInts(actions)
			if err != nil {
				return err
			}
			ll, err := dist.LogLikelihood(tensor.New(
				tensor.WithShape(len(indices)),
				tensor.WithBacking(indices),
			), d)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "log likelihood: %v\n", ll.Data())
			return nil
		},
	}
	cmd.Flags().StringVarP(&probs, "probs", "p", "", "Probability table, rows separated by ';' and actions by ','")
	cmd.Flags().StringVar(&actions, "select", "", "Action taken in each row, separated by ','")
	return cmd
}

// parseTable parses a rows x cols probability table written as
// "p,p,...;p,p,...". An empty string gives a uniform table.
func parseTable(s string, rows, cols int) (*tensor.Dense, error) {
	data := make([]float64, 0, rows*cols)

	if s == "" {
		for i := 0; i < rows*cols; i++ {
			data = append(data, 1/float64(cols))
		}
	} else {
		for _, row := range strings.Split(s, ";") {
			for _, field := range strings.Split(row, ",") {
				p, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
				if err != nil {
					return nil, errors.Wrapf(err, "parseTable: %q", field)
				}
				data = append(data, p)
			}
		}
	}

	if len(data) != rows*cols {
		return nil, errutils.New(errutils.Shape, "parseTable",
			"%d probabilities do not fit [%d %d]", len(data), rows, cols)
	}
	return tensor.New(tensor.WithShape(rows, cols), tensor.WithBacking(data)),
		nil
}

// parseInts parses a list of integers written as "a,a,..."
func parseInts(s string) ([]int64, error) {
	var ints []int64
	for _, field := range strings.Split(s, ",") {
		i, err := strconv.ParseInt(strings.TrimSpace(field), 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "parseInts: %q", field)
		}
		ints = append(ints, i)
	}
	return ints, nil
}
