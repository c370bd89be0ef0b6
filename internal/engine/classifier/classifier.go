// Package classifier decides, per dependency artifact, how much module metadata it carries.
package classifier

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"go.trai.ch/modpack/internal/classfile"
	"go.trai.ch/modpack/internal/core/domain"
	"go.trai.ch/modpack/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Classifier inspects artifacts. It never invokes external tools.
type Classifier struct {
	archive        ports.ArchiveService
	walker         ports.Walker
	layout         domain.Layout
	rebuildIfNewer bool
}

// New creates a Classifier writing unit outputs below layout.
func New(archive ports.ArchiveService, walker ports.Walker, layout domain.Layout, rebuildIfNewer bool) *Classifier {
	return &Classifier{
		archive:        archive,
		walker:         walker,
		layout:         layout,
		rebuildIfNewer: rebuildIfNewer,
	}
}

// Classify inspects one artifact. The result depends only on the archive content,
// the artifact coordinate and the state of the unit's output.
func (c *Classifier) Classify(a domain.Artifact) (*domain.Unit, error) {
	data, found, err := c.archive.ReadEntry(a.Path, domain.DescriptorClassName)
	if err != nil {
		return nil, corrupt(err, a.Path)
	}

	spec := domain.UnitSpec{
		Source:   a.Path,
		Version:  a.Coordinate.Version,
		Artifact: &a,
	}

	switch {
	case found:
		class, err := classfile.Parse(data)
		if err != nil || class.Module == nil {
			if err == nil {
				err = zerr.With(domain.ErrInvalidClassFile, "reason", "missing Module attribute")
			}
			return nil, corrupt(err, a.Path)
		}
		spec.Classification = domain.Explicit
		spec.Name = class.Module.Name
		if class.Module.Version != "" {
			spec.Version = class.Module.Version
		}

	default:
		name, err := c.selfName(a.Path)
		if err != nil {
			return nil, err
		}
		if name != "" {
			spec.Classification = domain.Inferred
			spec.Name = name
		} else {
			spec.Classification = domain.Opaque
			spec.Name = domain.SynthesizeName(a.Coordinate)
		}
	}

	if err := domain.ValidateUnitName(spec.Name, spec.Version); err != nil {
		return nil, corrupt(err, a.Path)
	}

	spec.OutputPath = c.layout.OutputPath(spec.Name, spec.Version)
	spec.Stale = c.stale(spec.OutputPath, c.sourceModTime(a))
	return domain.NewUnit(spec), nil
}

// ClassifyAll classifies artifacts concurrently. The result preserves input order.
func (c *Classifier) ClassifyAll(ctx context.Context, artifacts []domain.Artifact) ([]*domain.Unit, error) {
	units := make([]*domain.Unit, len(artifacts))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for i, a := range artifacts {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			u, err := c.Classify(a)
			if err != nil {
				return err
			}
			units[i] = u
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return units, nil
}

// ProjectSpec describes the first-party compiled output.
type ProjectSpec struct {
	ClassesDir string
	// Version is used when the descriptor declares none.
	Version string
}

// ClassifyProject builds the project unit. The classes directory must carry a compiled descriptor.
func (c *Classifier) ClassifyProject(spec ProjectSpec) (*domain.Unit, error) {
	path := filepath.Join(spec.ClassesDir, domain.DescriptorClassName)
	data, err := os.ReadFile(path) //nolint:gosec // path is built from configuration
	if err != nil {
		if os.IsNotExist(err) {
			return nil, zerr.With(domain.ErrProjectNotModular, "classes_dir", spec.ClassesDir)
		}
		return nil, corrupt(err, path)
	}

	class, err := classfile.Parse(data)
	if err != nil {
		return nil, corrupt(err, path)
	}
	if class.Module == nil {
		return nil, zerr.With(domain.ErrProjectNotModular, "classes_dir", spec.ClassesDir)
	}

	version := spec.Version
	if class.Module.Version != "" {
		version = class.Module.Version
	}

	if err := domain.ValidateUnitName(class.Module.Name, version); err != nil {
		return nil, zerr.With(err, "classes_dir", spec.ClassesDir)
	}

	out := c.layout.OutputPath(class.Module.Name, version)
	return domain.NewUnit(domain.UnitSpec{
		Classification: domain.Explicit,
		Name:           class.Module.Name,
		Version:        version,
		Source:         spec.ClassesDir,
		OutputPath:     out,
		Stale:          c.stale(out, c.newestFile(spec.ClassesDir)),
		Project:        true,
	}), nil
}

func (c *Classifier) selfName(archive string) (string, error) {
	data, found, err := c.archive.ReadEntry(archive, domain.ManifestPath)
	if err != nil {
		return "", corrupt(err, archive)
	}
	if !found {
		return "", nil
	}
	name, _ := domain.ParseManifest(data).Get(domain.AutomaticModuleNameAttr)
	return name, nil
}

// stale reports whether output is missing or, under rebuild-if-newer, strictly older than source.
func (c *Classifier) stale(output string, source time.Time) bool {
	info, err := os.Stat(output)
	if err != nil {
		return true
	}
	return c.rebuildIfNewer && source.After(info.ModTime())
}

func (c *Classifier) sourceModTime(a domain.Artifact) time.Time {
	if !a.ModTime.IsZero() {
		return a.ModTime
	}
	info, err := os.Stat(a.Path)
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}

func (c *Classifier) newestFile(dir string) time.Time {
	var newest time.Time
	if !c.rebuildIfNewer {
		return newest
	}
	for path := range c.walker.WalkFiles(dir, nil) {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		if info.ModTime().After(newest) {
			newest = info.ModTime()
		}
	}
	return newest
}

func corrupt(err error, path string) error {
	return zerr.With(zerr.Wrap(err, domain.ErrCorruptArtifact.Error()), "artifact", path)
}
