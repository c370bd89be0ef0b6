package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.trai.ch/modpack/internal/core/domain"
)

func (c *CLI) newUnitsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "units",
		Short: "List the classified units without building",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			report, err := c.app.Units(cmd.Context(), options(cmd))
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "NAME\tVERSION\tKIND\tSTALE\tSOURCE")
			rows := report.Units
			if report.Project != nil {
				rows = append(rows[:len(rows):len(rows)], report.Project)
			}
			for _, u := range rows {
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", u.Name(), u.Version(), kind(u), yesNo(u.Stale()), u.Source())
			}
			return w.Flush()
		},
	}
}

func kind(u *domain.Unit) string {
	if u.Project() {
		return "project"
	}
	return u.Classification().String()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
