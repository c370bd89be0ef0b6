// Package app implements the application layer for modpack.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"go.trai.ch/modpack/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"go.trai.ch/modpack/internal/adapters/watcher"   //nolint:depguard // Wired in app layer
	"go.trai.ch/modpack/internal/core/domain"
	"go.trai.ch/modpack/internal/core/ports"
	"go.trai.ch/modpack/internal/engine/orchestrator"
	"go.trai.ch/modpack/internal/engine/pipeline"
	"go.trai.ch/modpack/internal/engine/progress"
	"go.trai.ch/modpack/internal/engine/synthesizer"
	"go.trai.ch/zerr"
)

// Options configures one invocation.
type Options struct {
	// ConfigPath is the configuration file. Empty means discover it from the working directory.
	ConfigPath string
	// Verbose streams external tool output.
	Verbose bool
	// RebuildIfNewer forces the mtime check on every stage regardless of the configuration.
	RebuildIfNewer bool
}

// Adapters groups the infrastructure the pipeline runs on.
type Adapters struct {
	Resolver  ports.ArtifactResolver
	Archive   ports.ArchiveService
	Walker    ports.Walker
	Types     ports.TypeLoaderFactory
	Toolchain ports.Toolchain
	Container ports.ContainerBuilder
	Store     ports.ReportStore
	Hasher    ports.Hasher
}

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	logger       ports.Logger
	renderer     ports.Renderer
	watcher      ports.Watcher
	adapters     Adapters

	// rebuild runs one build from the watch loop.
	rebuild func(ctx context.Context, opts Options) error
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	logger ports.Logger,
	renderer ports.Renderer,
	w ports.Watcher,
	adapters Adapters,
) *App {
	a := &App{
		configLoader: loader,
		logger:       logger,
		renderer:     renderer,
		watcher:      w,
		adapters:     adapters,
	}
	a.rebuild = func(ctx context.Context, opts Options) error {
		_, err := a.Build(ctx, opts)
		return err
	}
	return a
}

// UnitsReport lists the classified units of a configuration.
type UnitsReport struct {
	Units   []*domain.Unit
	Project *domain.Unit
}

func (a *App) load(opts Options) (*domain.BuildConfig, error) {
	path := opts.ConfigPath
	if path == "" {
		found, err := a.configLoader.Discover(".")
		if err != nil {
			return nil, err
		}
		path = found
	}

	cfg, err := a.configLoader.Load(path)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}
	cfg.Verbose = opts.Verbose
	if opts.RebuildIfNewer {
		cfg.RebuildIfNewer = true
	}
	return cfg, nil
}

func (a *App) pipeline(cfg *domain.BuildConfig) *pipeline.Pipeline {
	return pipeline.New(cfg, pipeline.Deps{
		Resolver:  a.adapters.Resolver,
		Archive:   a.adapters.Archive,
		Walker:    a.adapters.Walker,
		Types:     a.adapters.Types,
		Toolchain: a.adapters.Toolchain,
		Container: a.adapters.Container,
		Logger:    a.logger,
	})
}

func (a *App) prepare(ctx context.Context, opts Options) (*pipeline.Pipeline, error) {
	cfg, err := a.load(opts)
	if err != nil {
		return nil, err
	}
	p := a.pipeline(cfg)
	if err := p.Load(ctx); err != nil {
		return nil, err
	}
	return p, nil
}

// Build runs every stage the configuration enables.
func (a *App) Build(ctx context.Context, opts Options) (*orchestrator.Result, error) {
	cfg, err := a.load(opts)
	if err != nil {
		return nil, err
	}
	p := a.pipeline(cfg)
	layout := p.Layout()

	tp := telemetry.NewProvider(a.renderer)
	tracer := telemetry.NewOTelTracer(tp).WithRenderer(a.renderer)
	orch := orchestrator.New(tracer, a.logger).
		WithProgress(progress.New("build", a.renderer)).
		WithReport(a.adapters.Store, a.adapters.Hasher, layout.ReportPath())

	spanCtx, span := tracer.Start(ctx, "build", ports.WithAttribute("config", cfg.Root))
	result, runErr := orch.Run(spanCtx, p.Nodes())
	if runErr != nil {
		span.RecordError(runErr)
	}
	span.End()

	if err := a.renderer.Stop(); err != nil {
		a.logger.Warn(fmt.Sprintf("failed to flush output: %v", err))
	}
	if err := tp.Shutdown(context.WithoutCancel(ctx)); err != nil {
		a.logger.Warn(fmt.Sprintf("failed to shut down tracer: %v", err))
	}

	if runErr != nil {
		return result, errors.Join(domain.ErrBuildExecutionFailed, runErr)
	}

	a.logger.Info(summary(result))
	return result, nil
}

func summary(result *orchestrator.Result) string {
	executed := result.ExecutedCount()
	if executed == 0 {
		return fmt.Sprintf("all %d stage(s) up to date", len(result.Order))
	}
	ran := make([]string, 0, executed)
	for _, name := range result.Order {
		if result.Executed[name] {
			ran = append(ran, name)
		}
	}
	return fmt.Sprintf("executed %d of %d stage(s): %s", executed, len(result.Order), strings.Join(ran, ", "))
}

// Units resolves and classifies every dependency without building anything.
func (a *App) Units(ctx context.Context, opts Options) (*UnitsReport, error) {
	p, err := a.prepare(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &UnitsReport{Units: p.Units(), Project: p.Project()}, nil
}

// Describe synthesizes the descriptor of one unit and returns it.
func (a *App) Describe(ctx context.Context, opts Options, name string) (*synthesizer.Source, error) {
	p, err := a.prepare(ctx, opts)
	if err != nil {
		return nil, err
	}
	unit, err := p.Unit(name)
	if err != nil {
		return nil, err
	}
	return p.SynthesizeDescriptor(ctx, unit)
}

// EntryPoints lists the launchable classes of the project unit.
func (a *App) EntryPoints(ctx context.Context, opts Options) ([]string, error) {
	p, err := a.prepare(ctx, opts)
	if err != nil {
		return nil, err
	}
	return p.ResolveEntryPoints(ctx)
}

// Clean removes the working directory.
func (a *App) Clean(_ context.Context, opts Options) (string, error) {
	cfg, err := a.load(opts)
	if err != nil {
		return "", err
	}
	if err := os.RemoveAll(cfg.WorkingDir); err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to remove working directory"), "path", cfg.WorkingDir)
	}
	a.logger.Info("removed " + cfg.WorkingDir)
	return cfg.WorkingDir, nil
}

// Watch builds once, then rebuilds whenever the project classes change.
// It returns when ctx is cancelled.
func (a *App) Watch(ctx context.Context, opts Options) error {
	opts.RebuildIfNewer = true
	cfg, err := a.load(opts)
	if err != nil {
		return err
	}

	root := cfg.Project.ClassesDir
	if info, statErr := os.Stat(root); statErr != nil || !info.IsDir() {
		return zerr.With(zerr.With(domain.ErrInvalidConfig, "field", "project.classes"), "path", root)
	}

	a.runOnce(ctx, opts)

	if err := a.watcher.Start(ctx, root); err != nil {
		return zerr.Wrap(err, "failed to start watcher")
	}
	defer func() {
		if err := a.watcher.Stop(); err != nil {
			a.logger.Warn(fmt.Sprintf("failed to stop watcher: %v", err))
		}
	}()
	a.logger.Info("watching " + root)

	trigger := make(chan []string, 1)
	debouncer := watcher.NewDebouncer(watcher.DefaultDebounceWindow, func(paths []string) {
		select {
		case trigger <- paths:
		default:
		}
	})

	go func() {
		for ev := range a.watcher.Events() {
			debouncer.Add(ev.Path)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case paths := <-trigger:
			a.logger.Info(fmt.Sprintf("%d file(s) changed, rebuilding", len(paths)))
			a.runOnce(ctx, opts)
		}
	}
}

func (a *App) runOnce(ctx context.Context, opts Options) {
	if err := a.rebuild(ctx, opts); err != nil && ctx.Err() == nil {
		a.logger.Error(err)
	}
}
