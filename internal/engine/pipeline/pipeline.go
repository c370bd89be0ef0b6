// Package pipeline builds the stage graph that turns dependency artifacts and the
// project output into a runtime image and its distributions.
package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/modpack/internal/classfile"
	"go.trai.ch/modpack/internal/core/domain"
	"go.trai.ch/modpack/internal/core/ports"
	"go.trai.ch/modpack/internal/engine/classifier"
	"go.trai.ch/modpack/internal/engine/entrypoint"
	"go.trai.ch/modpack/internal/engine/orchestrator"
	"go.trai.ch/modpack/internal/engine/progress"
	"go.trai.ch/modpack/internal/engine/repackager"
	"go.trai.ch/modpack/internal/engine/synthesizer"
	"go.trai.ch/zerr"
)

// Stage names.
const (
	StageResolve    = "resolve"
	StageClassify   = "classify"
	StageSynthesize = "synthesize"
	StageRepackage  = "repackage"
	StageProject    = "compile-project-unit"
	StageRuntime    = "assemble-runtime"
	StagePackage    = "package-application"
	StageArchive    = "archive"
	StageContainer  = "containerize"
)

const (
	defaultBaseImage = "debian:bookworm-slim"
	imageInstallDir  = "/opt/app"
	dockerfileName   = "Dockerfile"
)

// Deps are the collaborators a Pipeline drives.
type Deps struct {
	Resolver  ports.ArtifactResolver
	Archive   ports.ArchiveService
	Walker    ports.Walker
	Types     ports.TypeLoaderFactory
	Toolchain ports.Toolchain
	Container ports.ContainerBuilder
	Logger    ports.Logger
}

// Pipeline holds the state of one build invocation. It is not safe for concurrent use.
type Pipeline struct {
	cfg    *domain.BuildConfig
	layout domain.Layout
	deps   Deps
	tools  ports.Toolchain

	classifier *classifier.Classifier
	repack     *repackager.Repackager
	entry      *entrypoint.Resolver

	artifacts []domain.Artifact
	units     []*domain.Unit
	project   *domain.Unit
	resolved  bool

	mainClass    string
	mainSelected bool
}

// New creates a Pipeline for cfg.
func New(cfg *domain.BuildConfig, deps Deps) *Pipeline {
	layout := cfg.Layout()
	tools := deps.Toolchain.With(ports.ToolchainOptions{JDKHome: cfg.Runtime.JDKHome, Verbose: cfg.Verbose})
	synth := synthesizer.New(tools, deps.Types, deps.Logger, synthesizer.Options{
		Layout:       layout,
		OverridesDir: cfg.OverridesDir,
		Overrides:    cfg.Overrides,
		JDKHome:      cfg.Runtime.JDKHome,
	})

	return &Pipeline{
		cfg:        cfg,
		layout:     layout,
		deps:       deps,
		tools:      tools,
		classifier: classifier.New(deps.Archive, deps.Walker, layout, cfg.RebuildIfNewer),
		repack:     repackager.New(deps.Archive, tools, synth, deps.Logger, layout),
		entry:      entrypoint.New(deps.Types, deps.Walker, deps.Logger, cfg.Runtime.JDKHome),
	}
}

// Layout returns the working directory layout.
func (p *Pipeline) Layout() domain.Layout { return p.layout }

// Load resolves and classifies every unit. It runs at most once per Pipeline.
func (p *Pipeline) Load(ctx context.Context) error {
	if err := p.resolve(ctx); err != nil {
		return err
	}
	return p.classify(ctx)
}

// Units returns the classified dependency units in configuration order.
func (p *Pipeline) Units() []*domain.Unit { return p.units }

// Project returns the project unit, or nil before Load.
func (p *Pipeline) Project() *domain.Unit { return p.project }

// Unit looks up a dependency or project unit by module name.
func (p *Pipeline) Unit(name string) (*domain.Unit, error) {
	if p.project != nil && p.project.Name() == name {
		return p.project, nil
	}
	for _, u := range p.units {
		if u.Name() == name {
			return u, nil
		}
	}
	return nil, zerr.With(domain.ErrUnitNotFound, "unit", name)
}

// Classify classifies a single artifact.
func (p *Pipeline) Classify(a domain.Artifact) (*domain.Unit, error) {
	return p.classifier.Classify(a)
}

// SynthesizeDescriptor returns the descriptor a unit has or would get. Explicit units
// yield their compiled descriptor without touching the working directory; the others
// are unpacked and described.
func (p *Pipeline) SynthesizeDescriptor(ctx context.Context, unit *domain.Unit) (*synthesizer.Source, error) {
	if unit.Classification() == domain.Explicit {
		return p.compiledDescriptor(unit)
	}
	return p.repack.Prepare(ctx, unit, p.siblings(unit))
}

// Repackage produces the conforming archive of one unit and returns its path.
func (p *Pipeline) Repackage(ctx context.Context, unit *domain.Unit) (string, error) {
	return p.repack.Repackage(ctx, unit, p.siblings(unit))
}

// ResolveEntryPoints returns the entry point candidates of the project unit.
func (p *Pipeline) ResolveEntryPoints(ctx context.Context) ([]string, error) {
	if p.project == nil {
		if err := p.Load(ctx); err != nil {
			return nil, err
		}
	}
	return p.entry.Resolve(ctx, p.project, p.units)
}

// MainClass returns the main class chosen for the project, or "" when none is wanted.
func (p *Pipeline) MainClass(ctx context.Context) (string, error) {
	if p.mainSelected {
		return p.mainClass, nil
	}

	var candidates []string
	if p.cfg.Project.MainClass == "" && p.cfg.Project.AutoMainClass {
		var err error
		if candidates, err = p.ResolveEntryPoints(ctx); err != nil {
			return "", err
		}
	}

	main, err := entrypoint.Select(p.cfg.Project.MainClass, p.cfg.Project.AutoMainClass, candidates)
	if err != nil {
		return "", err
	}
	p.mainClass, p.mainSelected = main, true
	return main, nil
}

func (p *Pipeline) requireMainClass(ctx context.Context, stage string) (string, error) {
	main, err := p.MainClass(ctx)
	if err != nil {
		return "", err
	}
	if main == "" {
		return "", zerr.With(zerr.With(domain.ErrNoEntryPoint, "stage", stage), "hint", "set project.mainClass or project.autoMainClass")
	}
	return main, nil
}

// Nodes returns the stage graph. Optional stages follow the configuration.
func (p *Pipeline) Nodes() []orchestrator.Node {
	nodes := []orchestrator.Node{
		{
			Name:    StageResolve,
			Label:   "Resolving dependencies",
			Prepare: p.resolve,
		},
		{
			Name:      StageClassify,
			Label:     "Classifying units",
			Weight:    0.05,
			DependsOn: []string{StageResolve},
			Prepare:   p.classify,
			Units:     p.allUnits,
		},
		{
			Name:      StageSynthesize,
			Label:     "Synthesizing descriptors",
			Weight:    0.35,
			DependsOn: []string{StageClassify},
			Units:     p.describedUnits,
			Execute:   p.synthesize,
		},
		{
			Name:      StageRepackage,
			Label:     "Repackaging units",
			Weight:    0.3,
			DependsOn: []string{StageSynthesize},
			Units:     p.Units,
			Outputs:   p.unitOutputs,
			Execute:   p.repackage,
		},
		{
			Name:      StageProject,
			Label:     "Packaging project",
			Weight:    0.05,
			DependsOn: []string{StageRepackage},
			Units:     func() []*domain.Unit { return []*domain.Unit{p.project} },
			Outputs:   func() []string { return []string{p.project.OutputPath()} },
			Execute:   p.packProject,
		},
		{
			Name:      StageRuntime,
			Label:     "Assembling runtime image",
			Weight:    0.15,
			DependsOn: []string{StageProject},
			Outputs:   func() []string { return []string{p.layout.ImageDir()} },
			Execute:   p.assembleRuntime,
		},
	}

	if p.cfg.Package.Enabled {
		nodes = append(nodes, orchestrator.Node{
			Name:      StagePackage,
			Label:     "Packaging application",
			Weight:    0.05,
			DependsOn: []string{StageRuntime},
			Outputs:   func() []string { return []string{p.layout.InstallerDir()} },
			Execute:   p.packageApplication,
		})
	}

	switch p.cfg.Distribution {
	case domain.DistributionArchive:
		nodes = append(nodes, orchestrator.Node{
			Name:      StageArchive,
			Label:     "Archiving runtime image",
			Weight:    0.05,
			DependsOn: []string{StageRuntime},
			Outputs:   func() []string { return []string{p.distPath()} },
			Execute:   p.archiveImage,
		})
	case domain.DistributionContainer:
		nodes = append(nodes, orchestrator.Node{
			Name:      StageContainer,
			Label:     "Building container image",
			Weight:    0.05,
			DependsOn: []string{StageRuntime},
			Outputs:   func() []string { return []string{p.layout.ContainerIDPath()} },
			Execute:   p.containerize,
		})
	case domain.DistributionNone:
	}

	return nodes
}

func (p *Pipeline) resolve(ctx context.Context) error {
	if p.resolved {
		return nil
	}
	artifacts, err := p.deps.Resolver.Resolve(ctx, p.cfg.Repository, p.cfg.Dependencies)
	if err != nil {
		return err
	}
	p.artifacts = artifacts
	p.resolved = true
	return nil
}

func (p *Pipeline) classify(ctx context.Context) error {
	if p.project != nil {
		return nil
	}

	units, err := p.classifier.ClassifyAll(ctx, p.artifacts)
	if err != nil {
		return err
	}

	project, err := p.classifier.ClassifyProject(classifier.ProjectSpec{
		ClassesDir: p.cfg.Project.ClassesDir,
		Version:    p.cfg.Project.Version,
	})
	if err != nil {
		return err
	}

	seen := map[string]string{project.Name(): p.cfg.Project.ClassesDir}
	for _, u := range units {
		if prev, ok := seen[u.Name()]; ok {
			return zerr.With(zerr.With(zerr.With(domain.ErrInvalidConfig, "reason", "duplicate module name"),
				"unit", u.Name()), "sources", prev+", "+u.Source())
		}
		seen[u.Name()] = u.Source()
	}

	p.units = units
	p.project = project
	return nil
}

func (p *Pipeline) allUnits() []*domain.Unit {
	return append(slices.Clone(p.units), p.project)
}

func (p *Pipeline) describedUnits() []*domain.Unit {
	var out []*domain.Unit
	for _, u := range p.units {
		if u.Classification().NeedsDescriptor() {
			out = append(out, u)
		}
	}
	return out
}

// pending returns the stale units that get a synthesized descriptor.
func (p *Pipeline) pending() []*domain.Unit {
	var out []*domain.Unit
	for _, u := range p.describedUnits() {
		if u.Stale() {
			out = append(out, u)
		}
	}
	return out
}

func (p *Pipeline) stale() []*domain.Unit {
	var out []*domain.Unit
	for _, u := range p.units {
		if u.Stale() {
			out = append(out, u)
		}
	}
	return out
}

func (p *Pipeline) unitOutputs() []string {
	out := make([]string, 0, len(p.units))
	for _, u := range p.units {
		out = append(out, u.OutputPath())
	}
	return out
}

func (p *Pipeline) siblings(unit *domain.Unit) []*domain.Unit {
	out := make([]*domain.Unit, 0, len(p.units))
	for _, u := range p.units {
		if u != unit {
			out = append(out, u)
		}
	}
	return out
}

// synthesize unpacks every pending unit first so analysis can see all of them on the module path.
func (p *Pipeline) synthesize(ctx context.Context, step progress.Step) error {
	pending := p.pending()
	steps := splitEven(step, pending)

	for _, u := range pending {
		if err := p.repack.Unpack(u); err != nil {
			return err
		}
	}

	for i, u := range pending {
		src, err := p.repack.Describe(ctx, u, p.siblings(u))
		if err != nil {
			return err
		}
		p.deps.Logger.Debug("described " + u.Name() + " (" + string(src.Origin) + ")")
		steps[i].Done()
	}
	return nil
}

func (p *Pipeline) repackage(ctx context.Context, step progress.Step) error {
	stale := p.stale()
	steps := splitEven(step, stale)

	if err := p.repack.CompileAll(ctx, p.pending(), p.units); err != nil {
		return err
	}

	for i, u := range stale {
		steps[i].SetLabel("Repackaging " + u.Name())
		var err error
		if u.Classification() == domain.Explicit {
			err = p.repack.CopyExplicit(u)
		} else {
			err = p.repack.Pack(u)
		}
		if err != nil {
			return err
		}
		steps[i].Done()
	}

	return p.prune()
}

// prune removes unit archives that no longer belong to any configured unit, so the
// runtime assembly never sees two versions of one module.
func (p *Pipeline) prune() error {
	keep := map[string]bool{p.project.OutputPath(): true}
	for _, u := range p.units {
		keep[u.OutputPath()] = true
	}

	entries, err := os.ReadDir(p.layout.UnitsDir())
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return zerr.With(zerr.Wrap(err, "failed to list units"), "path", p.layout.UnitsDir())
	}
	for _, e := range entries {
		path := filepath.Join(p.layout.UnitsDir(), e.Name())
		if e.IsDir() || !strings.HasSuffix(e.Name(), domain.ArchiveExt) || keep[path] {
			continue
		}
		p.deps.Logger.Debug("removing obsolete unit archive " + e.Name())
		if err := os.Remove(path); err != nil {
			return zerr.With(zerr.Wrap(err, "failed to remove obsolete unit archive"), "path", path)
		}
	}
	return nil
}

func (p *Pipeline) packProject(ctx context.Context, _ progress.Step) error {
	main, err := p.MainClass(ctx)
	if err != nil {
		return err
	}

	var attrs map[string]string
	if main != "" {
		attrs = map[string]string{domain.MainClassAttr: main}
	}
	if err := p.deps.Archive.Pack(p.project.Source(), p.project.OutputPath(), ports.PackOptions{Manifest: attrs}); err != nil {
		return zerr.With(err, "unit", p.project.Name())
	}
	return nil
}

func (p *Pipeline) assembleRuntime(ctx context.Context, _ progress.Step) error {
	image := p.layout.ImageDir()
	if err := os.RemoveAll(image); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to clean runtime image"), "path", image)
	}

	req := ports.LinkRequest{
		ModulePath: []string{p.layout.UnitsDir()},
		Modules:    append([]string{p.project.Name()}, p.cfg.Runtime.Modules...),
		Output:     image,
		Options:    p.cfg.Runtime.Options,
	}
	if p.cfg.Runtime.Launcher != "" {
		main, err := p.requireMainClass(ctx, StageRuntime)
		if err != nil {
			return err
		}
		req.Launcher = p.cfg.Runtime.Launcher + "=" + p.project.Name() + "/" + main
	}
	return p.tools.Link(ctx, req)
}

func (p *Pipeline) packageApplication(ctx context.Context, _ progress.Step) error {
	main, err := p.requireMainClass(ctx, StagePackage)
	if err != nil {
		return err
	}

	out := p.layout.InstallerDir()
	if err := os.RemoveAll(out); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to clean installer directory"), "path", out)
	}

	return p.tools.Package(ctx, ports.PackageRequest{
		Name:       p.applicationName(),
		Version:    p.project.Version(),
		Type:       p.cfg.Package.Type,
		RuntimeDir: p.layout.ImageDir(),
		Module:     p.project.Name(),
		MainClass:  main,
		Output:     out,
		Options:    p.cfg.Package.Options,
	})
}

func (p *Pipeline) archiveImage(_ context.Context, _ progress.Step) error {
	return p.deps.Archive.Pack(p.layout.ImageDir(), p.distPath(), ports.PackOptions{})
}

func (p *Pipeline) containerize(ctx context.Context, _ progress.Step) error {
	dir := p.layout.ContainerDir()
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create container directory"), "path", dir)
	}

	main, err := p.MainClass(ctx)
	if err != nil {
		return err
	}

	dockerfile := filepath.Join(dir, dockerfileName)
	if err := os.WriteFile(dockerfile, []byte(p.renderDockerfile(main)), domain.FilePerm); err != nil { //nolint:gosec // layout path
		return zerr.With(zerr.Wrap(err, "failed to write Dockerfile"), "path", dockerfile)
	}

	idFile := p.layout.ContainerIDPath()
	if err := os.Remove(idFile); err != nil && !os.IsNotExist(err) {
		return zerr.With(zerr.Wrap(err, "failed to remove previous image id"), "path", idFile)
	}

	return p.deps.Container.Build(ctx, ports.ContainerRequest{
		ContextDir: p.layout.Root,
		Dockerfile: dockerfile,
		Image:      p.imageTag(),
		IDFile:     idFile,
		Verbose:    p.cfg.Verbose,
	})
}

func (p *Pipeline) renderDockerfile(main string) string {
	base := p.cfg.Container.Base
	if base == "" {
		base = defaultBaseImage
	}

	var entry []string
	switch {
	case p.cfg.Runtime.Launcher != "":
		entry = []string{imageInstallDir + "/bin/" + p.cfg.Runtime.Launcher}
	case main != "":
		entry = []string{imageInstallDir + "/bin/java", "-m", p.project.Name() + "/" + main}
	default:
		entry = []string{imageInstallDir + "/bin/java", "-m", p.project.Name()}
	}

	quoted := make([]string, len(entry))
	for i, e := range entry {
		quoted[i] = `"` + e + `"`
	}

	var sb strings.Builder
	sb.WriteString("FROM " + base + "\n")
	sb.WriteString("COPY " + domain.ImageDirName + " " + imageInstallDir + "\n")
	sb.WriteString("ENTRYPOINT [" + strings.Join(quoted, ", ") + "]\n")
	return sb.String()
}

func (p *Pipeline) applicationName() string {
	if p.cfg.Project.Name != "" {
		return p.cfg.Project.Name
	}
	return p.project.Name()
}

func (p *Pipeline) distPath() string {
	return p.layout.DistPath(p.applicationName(), p.project.Version())
}

func (p *Pipeline) imageTag() string {
	if p.cfg.Container.Image != "" {
		return p.cfg.Container.Image
	}
	return strings.ToLower(p.applicationName()) + ":" + p.project.Version()
}

func (p *Pipeline) compiledDescriptor(unit *domain.Unit) (*synthesizer.Source, error) {
	var data []byte
	var err error
	if unit.Project() {
		data, err = os.ReadFile(filepath.Join(unit.Source(), domain.DescriptorClassName)) //nolint:gosec // configured path
	} else {
		var found bool
		data, found, err = p.deps.Archive.ReadEntry(unit.Source(), domain.DescriptorClassName)
		if err == nil && !found {
			return nil, zerr.With(domain.ErrInvalidDescriptor, "unit", unit.Name())
		}
	}
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrCorruptArtifact.Error()), "unit", unit.Name())
	}

	class, err := classfile.Parse(data)
	if err != nil {
		return nil, zerr.With(err, "unit", unit.Name())
	}
	if class.Module == nil {
		return nil, zerr.With(domain.ErrInvalidDescriptor, "unit", unit.Name())
	}
	d := class.Module.Clone()
	return &synthesizer.Source{Origin: synthesizer.OriginCompiled, Text: d.Render(), Descriptor: &d}, nil
}

// splitEven divides step into one equally weighted child per unit.
func splitEven(step progress.Step, units []*domain.Unit) []progress.Step {
	weights := make([]float64, len(units))
	labels := make([]string, len(units))
	for i, u := range units {
		weights[i] = 1
		labels[i] = u.Name()
	}
	return step.Split(weights, labels)
}
