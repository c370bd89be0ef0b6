package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *CLI) newDescribeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "describe <unit>",
		Short: "Print the module descriptor a unit is packaged with",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := c.app.Describe(cmd.Context(), options(cmd), args[0])
			if err != nil {
				return err
			}

			_, _ = fmt.Fprint(cmd.OutOrStdout(), src.Text)
			for _, svc := range src.DroppedServices {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "dropped unresolved service %s\n", svc)
			}
			return nil
		},
	}
}

func (c *CLI) newEntryPointsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "entrypoints",
		Short: "List the launchable classes of the project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			names, err := c.app.EntryPoints(cmd.Context(), options(cmd))
			if err != nil {
				return err
			}
			if len(names) == 0 {
				_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "no entry points found")
				return nil
			}
			for _, name := range names {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}
