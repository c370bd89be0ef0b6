// Package main is the entry point for the modpack packaging tool.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/grindlemire/graft"
	"go.trai.ch/modpack/cmd/modpack/commands"
	"go.trai.ch/modpack/internal/app"
	"go.trai.ch/modpack/internal/core/domain"
	_ "go.trai.ch/modpack/internal/wiring"
)

// ComponentProvider is a function that returns the application components.
type ComponentProvider func(context.Context) (*app.Components, func(), error)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr, func(ctx context.Context) (*app.Components, func(), error) {
		c, _, err := graft.ExecuteFor[*app.Components](ctx)
		return c, func() {}, err
	}))
}

func run(
	ctx context.Context,
	args []string,
	stdout, stderr io.Writer,
	provider ComponentProvider,
) int {
	// 0. Context with signal handling
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// 1. Initialize application components
	components, cleanup, err := provider(ctx)
	if err != nil {
		// Logger is not available yet if initialization failed
		_, _ = fmt.Fprintln(stderr, "Error: "+err.Error())
		return 1
	}
	defer cleanup()

	// 2. Interface - CLI
	cli := commands.New(components.App)
	cli.SetArgs(args)
	cli.SetOutput(stdout, stderr)
	cli.SetLogHook(func(verbose, json bool) {
		if verbose {
			components.Logger.SetLevel(domain.LogLevelDebug)
		}
		components.Logger.SetJSON(json)
	})

	// 3. Execution
	if err := cli.Execute(ctx); err != nil {
		for _, cause := range causes(err) {
			components.Logger.Error(cause)
		}
		return 1
	}
	return 0
}

// causes strips the build failure marker; the renderer already reported the failed stage.
func causes(err error) []error {
	if !errors.Is(err, domain.ErrBuildExecutionFailed) {
		return []error{err}
	}
	joined, ok := err.(interface{ Unwrap() []error })
	if !ok {
		return []error{err}
	}
	var out []error
	for _, e := range joined.Unwrap() {
		if e != domain.ErrBuildExecutionFailed { //nolint:errorlint // Identity check on the marker
			out = append(out, e)
		}
	}
	return out
}
