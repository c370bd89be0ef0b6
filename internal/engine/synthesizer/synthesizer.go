// Package synthesizer produces module descriptors for units that lack one.
package synthesizer

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/modpack/internal/classfile"
	"go.trai.ch/modpack/internal/core/domain"
	"go.trai.ch/modpack/internal/core/ports"
	"go.trai.ch/zerr"
)

// Origin tells where a descriptor source came from.
type Origin string

const (
	// OriginOverride marks a descriptor file supplied by the user and used verbatim.
	OriginOverride Origin = "override"
	// OriginAnalysis marks a descriptor inferred by dependency analysis.
	OriginAnalysis Origin = "analysis"
	// OriginCompiled marks a descriptor read from a unit's own module-info.class.
	OriginCompiled Origin = "compiled"
)

// Source is a descriptor ready for compilation.
type Source struct {
	Origin Origin
	Text   string
	// Path is where the source was written.
	Path string
	// Descriptor is the structured form; nil for verbatim overrides.
	Descriptor *domain.Descriptor
	// DroppedServices lists service interfaces removed because they did not resolve.
	DroppedServices []string
}

// Request describes one synthesis.
type Request struct {
	Unit *domain.Unit
	// Copy is the working copy of the unit's artifact, named after the unit.
	Copy string
	// Unpacked is the unit's unpack directory. The descriptor source is written into it.
	Unpacked string
	Siblings []*domain.Unit
}

// Options configures a Synthesizer.
type Options struct {
	Layout       domain.Layout
	OverridesDir string
	Overrides    map[string]domain.Override
	JDKHome      string
}

// Synthesizer turns analysis output and user overrides into descriptor sources.
type Synthesizer struct {
	analyzer ports.DependencyAnalyzer
	types    ports.TypeLoaderFactory
	logger   ports.Logger
	opts     Options
}

// New creates a Synthesizer.
func New(analyzer ports.DependencyAnalyzer, types ports.TypeLoaderFactory, logger ports.Logger, opts Options) *Synthesizer {
	return &Synthesizer{analyzer: analyzer, types: types, logger: logger, opts: opts}
}

// OverridePath returns where a complete descriptor override for name is looked up.
func (s *Synthesizer) OverridePath(name string) string {
	if s.opts.OverridesDir == "" {
		return ""
	}
	return filepath.Join(s.opts.OverridesDir, name, domain.DescriptorSourceName)
}

// Synthesize produces the descriptor source of an inferred or opaque unit.
// A complete override file wins unconditionally. Otherwise the analyzer runs,
// unresolvable service declarations are dropped and partial overrides are merged.
func (s *Synthesizer) Synthesize(ctx context.Context, req Request) (*Source, error) {
	name := req.Unit.Name()
	target := filepath.Join(req.Unpacked, domain.DescriptorSourceName)

	text, found, err := s.readOverride(name)
	if err != nil {
		return nil, err
	}
	if found {
		s.logger.Debug("using descriptor override for " + name)
		if err := writeSource(target, text); err != nil {
			return nil, err
		}
		return &Source{Origin: OriginOverride, Text: text, Path: target}, nil
	}

	modulePath := ModulePath(s.opts.Layout, req.Siblings)
	generated, err := s.analyzer.Analyze(ctx, ports.AnalyzeRequest{
		Archive:    req.Copy,
		ModulePath: modulePath,
		OutputDir:  s.opts.Layout.AnalysisDir(name),
		ModuleName: name,
	})
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrAnalysisFailed.Error()), "unit", name)
	}

	d, err := domain.ParseDescriptor(generated)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrAnalysisFailed.Error()), "unit", name)
	}
	d.Name = name

	d, dropped, err := s.filterServices(d, req.Unpacked, modulePath)
	if err != nil {
		return nil, err
	}

	if o, ok := s.opts.Overrides[name]; ok {
		d = domain.ApplyOverride(d, o)
	}

	text = d.Render()
	if err := writeSource(target, text); err != nil {
		return nil, err
	}
	return &Source{
		Origin:          OriginAnalysis,
		Text:            text,
		Path:            target,
		Descriptor:      &d,
		DroppedServices: dropped,
	}, nil
}

func (s *Synthesizer) readOverride(name string) (string, bool, error) {
	path := s.OverridePath(name)
	if path == "" {
		return "", false, nil
	}
	data, err := os.ReadFile(path) //nolint:gosec // path is below the configured overrides directory
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", false, nil
		}
		return "", false, zerr.With(zerr.Wrap(err, "failed to read descriptor override"), "path", path)
	}
	return string(data), true, nil
}

// filterServices drops service-provision records whose interface does not resolve
// against the unit and its siblings. Each drop is logged, never fatal.
func (s *Synthesizer) filterServices(d domain.Descriptor, unpacked string, siblings []string) (domain.Descriptor, []string, error) {
	servicesDir := filepath.Join(unpacked, filepath.FromSlash(domain.ServicesPrefix))
	entries, err := os.ReadDir(servicesDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return d, nil, nil
		}
		return d, nil, zerr.With(zerr.Wrap(err, "failed to read services directory"), "path", servicesDir)
	}

	loader, err := s.types.New(ExistingRoots(append([]string{unpacked}, siblings...)), s.opts.JDKHome)
	if err != nil {
		return d, nil, err
	}
	defer loader.Close() //nolint:errcheck // read-only

	var dropped []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		iface := e.Name()
		if loader.Has(classfile.ToInternal(iface)) {
			continue
		}

		s.logger.Warn("dropping service " + iface + " of " + d.Name + ": interface not found on the module path")
		if err := os.Remove(filepath.Join(servicesDir, iface)); err != nil {
			return d, nil, zerr.With(zerr.Wrap(err, "failed to remove service record"), "service", iface)
		}
		d = d.Without(domain.Provides, iface)
		dropped = append(dropped, iface)
	}
	return d, dropped, nil
}

func writeSource(path, text string) error {
	if err := os.MkdirAll(filepath.Dir(path), domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create directory"), "path", filepath.Dir(path))
	}
	//nolint:gosec // descriptor sources are not secret
	if err := os.WriteFile(path, []byte(text), domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to write descriptor source"), "path", path)
	}
	return nil
}

// ModulePath returns the resolution path for a set of sibling units: explicit units by
// their source, inferred and opaque units by their unpack directory, or by their output
// archive when the unpack directory does not exist.
func ModulePath(layout domain.Layout, siblings []*domain.Unit) []string {
	path := make([]string, 0, len(siblings))
	for _, u := range siblings {
		switch u.Classification() {
		case domain.Explicit:
			path = append(path, u.Source())
		default:
			dir := layout.UnpackedDir(u.Name())
			if info, err := os.Stat(dir); err == nil && info.IsDir() {
				path = append(path, dir)
			} else {
				path = append(path, u.OutputPath())
			}
		}
	}
	return path
}

// ExistingRoots filters out paths that do not exist yet.
func ExistingRoots(paths []string) []string {
	roots := make([]string, 0, len(paths))
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			roots = append(roots, p)
		}
	}
	return roots
}
