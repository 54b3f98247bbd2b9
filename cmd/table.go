package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// TableCommand prints the shape of a joint action space and, for
// centralized spaces, its joint action table
func TableCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "table",
		Short: "Print the joint action space",
		RunE: func(cmd *cobra.Command, args []string) error {
			space, err := agentConfig().Space()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "type: %v\n", space.Type())
			fmt.Fprintf(out, "output size: %d\n", space.OutputSize())
			fmt.Fprintf(out, "table shape: %v\n", space.TrailingShape())

			for i, actions := range space.JointActionTable() {
				fmt.Fprintf(out, "%d: %v\n", i, actions)
			}
			return nil
		},
	}
}
