// Package repackager turns units into conforming module archives.
package repackager

import (
	"context"
	"os"
	"strings"

	"go.trai.ch/modpack/internal/core/domain"
	"go.trai.ch/modpack/internal/core/ports"
	"go.trai.ch/modpack/internal/engine/synthesizer"
	"go.trai.ch/zerr"
)

// Repackager unpacks, describes, compiles and repacks units.
type Repackager struct {
	archive  ports.ArchiveService
	compiler ports.DescriptorCompiler
	synth    *synthesizer.Synthesizer
	logger   ports.Logger
	layout   domain.Layout
}

// New creates a Repackager.
func New(
	archive ports.ArchiveService,
	compiler ports.DescriptorCompiler,
	synth *synthesizer.Synthesizer,
	logger ports.Logger,
	layout domain.Layout,
) *Repackager {
	return &Repackager{
		archive:  archive,
		compiler: compiler,
		synth:    synth,
		logger:   logger,
		layout:   layout,
	}
}

// WebResourceRewrite returns the unpack rewrite for an artifact: entries below the shared
// web resource prefix are nested under a folder derived from the artifact name, and the bare
// prefix directory is dropped.
func WebResourceRewrite(c domain.Coordinate) ports.RewriteFunc {
	folder := domain.WebResourceFolder(c)
	return func(name string) (string, bool) {
		rest, ok := strings.CutPrefix(name, domain.WebResourcePrefix)
		if !ok {
			return name, true
		}
		if rest == "" {
			return "", false
		}
		return domain.WebResourcePrefix + folder + "/" + rest, true
	}
}

// Unpack cleans the unit's unpack directory, copies its artifact and unpacks the copy
// with web resources namespaced per artifact.
func (r *Repackager) Unpack(unit *domain.Unit) error {
	name := unit.Name()
	unpacked := r.layout.UnpackedDir(name)
	copyPath := r.layout.CopyPath(name, unit.Version())

	if err := os.RemoveAll(unpacked); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to clean unpack directory"), "path", unpacked)
	}

	if err := r.archive.Copy(unit.Source(), copyPath); err != nil {
		return zerr.With(err, "unit", name)
	}

	var rewrite ports.RewriteFunc
	if a := unit.Artifact(); a != nil {
		rewrite = WebResourceRewrite(a.Coordinate)
	}
	if err := r.archive.Unpack(copyPath, unpacked, rewrite); err != nil {
		return zerr.With(err, "unit", name)
	}
	return nil
}

// Describe writes the descriptor source of an already unpacked unit.
func (r *Repackager) Describe(ctx context.Context, unit *domain.Unit, siblings []*domain.Unit) (*synthesizer.Source, error) {
	return r.synth.Synthesize(ctx, synthesizer.Request{
		Unit:     unit,
		Copy:     r.layout.CopyPath(unit.Name(), unit.Version()),
		Unpacked: r.layout.UnpackedDir(unit.Name()),
		Siblings: siblings,
	})
}

// Prepare unpacks a unit and writes its descriptor source into the unpack root.
func (r *Repackager) Prepare(ctx context.Context, unit *domain.Unit, siblings []*domain.Unit) (*synthesizer.Source, error) {
	if err := r.Unpack(unit); err != nil {
		return nil, err
	}
	return r.Describe(ctx, unit, siblings)
}

// CompileAll compiles the pending descriptor sources of units in one batch.
// It is a no-op when units is empty.
func (r *Repackager) CompileAll(ctx context.Context, units []*domain.Unit, siblings []*domain.Unit) error {
	if len(units) == 0 {
		return nil
	}

	req := ports.CompileRequest{ModulePath: synthesizer.ModulePath(r.layout, siblings)}
	names := make([]string, 0, len(units))
	for _, u := range units {
		req.Units = append(req.Units, ports.CompileUnit{
			Name:      u.Name(),
			Version:   u.Version(),
			SourceDir: r.layout.UnpackedDir(u.Name()),
		})
		names = append(names, u.Name())
	}

	if err := r.compiler.Compile(ctx, req); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrCompileFailed.Error()), "units", strings.Join(names, ", "))
	}
	return nil
}

// Pack writes the unpack directory into the unit's output archive, leaving out the
// descriptor source, and removes the transient copy.
func (r *Repackager) Pack(unit *domain.Unit) error {
	name := unit.Name()
	err := r.archive.Pack(r.layout.UnpackedDir(name), unit.OutputPath(), ports.PackOptions{
		Exclude: []string{domain.DescriptorSourceName},
	})
	if err != nil {
		return zerr.With(err, "unit", name)
	}

	copyPath := r.layout.CopyPath(name, unit.Version())
	if err := os.Remove(copyPath); err != nil && !os.IsNotExist(err) {
		return zerr.With(zerr.Wrap(err, "failed to remove working copy"), "path", copyPath)
	}
	return nil
}

// CopyExplicit copies an explicit unit's artifact to its output path unchanged.
func (r *Repackager) CopyExplicit(unit *domain.Unit) error {
	if err := r.archive.Copy(unit.Source(), unit.OutputPath()); err != nil {
		return zerr.With(err, "unit", unit.Name())
	}
	return nil
}

// Repackage runs the whole transformation for one unit and returns its output path.
// Non-stale units are skipped.
func (r *Repackager) Repackage(ctx context.Context, unit *domain.Unit, siblings []*domain.Unit) (string, error) {
	if !unit.Stale() {
		r.logger.Debug("skipping " + unit.Name() + ": up to date")
		return unit.OutputPath(), nil
	}

	if unit.Classification() == domain.Explicit {
		return unit.OutputPath(), r.CopyExplicit(unit)
	}

	if _, err := r.Prepare(ctx, unit, siblings); err != nil {
		return "", err
	}
	if err := r.CompileAll(ctx, []*domain.Unit{unit}, siblings); err != nil {
		return "", err
	}
	if err := r.Pack(unit); err != nil {
		return "", err
	}
	return unit.OutputPath(), nil
}
