// Package commands implements the CLI commands for the modpack packaging tool.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/modpack/internal/app"
	"go.trai.ch/modpack/internal/build"
	"go.trai.ch/modpack/internal/engine/orchestrator"
	"go.trai.ch/modpack/internal/engine/synthesizer"
)

// CLI represents the command line interface for modpack.
type CLI struct {
	app     Application
	rootCmd *cobra.Command
}

// Application represents the application logic interface.
type Application interface {
	Build(ctx context.Context, opts app.Options) (*orchestrator.Result, error)
	Units(ctx context.Context, opts app.Options) (*app.UnitsReport, error)
	Describe(ctx context.Context, opts app.Options, name string) (*synthesizer.Source, error)
	EntryPoints(ctx context.Context, opts app.Options) ([]string, error)
	Clean(ctx context.Context, opts app.Options) (string, error)
	Watch(ctx context.Context, opts app.Options) error
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	rootCmd := &cobra.Command{
		Use:           "modpack",
		Short:         "Turn a classpath into modules and link a runtime image",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	flags := rootCmd.PersistentFlags()
	flags.StringP("config", "c", "", "Path to modpack.yaml (default: nearest one above the working directory)")
	flags.BoolP("verbose", "v", false, "Stream external tool output and enable debug logging")
	flags.Bool("json", false, "Emit logs as JSON")

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}

	rootCmd.AddCommand(c.newBuildCmd())
	rootCmd.AddCommand(c.newUnitsCmd())
	rootCmd.AddCommand(c.newDescribeCmd())
	rootCmd.AddCommand(c.newEntryPointsCmd())
	rootCmd.AddCommand(c.newCleanCmd())
	rootCmd.AddCommand(c.newWatchCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetLogHook sets up a PersistentPreRun function that reports the logging flags
// to fn before any command runs.
func (c *CLI) SetLogHook(fn func(verbose, json bool)) {
	c.rootCmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		verbose, err := cmd.Flags().GetBool("verbose")
		if err != nil {
			return err
		}
		json, err := cmd.Flags().GetBool("json")
		if err != nil {
			return err
		}
		fn(verbose, json)
		return nil
	}
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}

func options(cmd *cobra.Command) app.Options {
	config, _ := cmd.Flags().GetString("config")
	verbose, _ := cmd.Flags().GetBool("verbose")
	opts := app.Options{ConfigPath: config, Verbose: verbose}
	if f := cmd.Flags().Lookup("rebuild-if-newer"); f != nil {
		opts.RebuildIfNewer, _ = cmd.Flags().GetBool("rebuild-if-newer")
	}
	return opts
}
