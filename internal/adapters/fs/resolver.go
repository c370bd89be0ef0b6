package fs

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/modpack/internal/core/domain"
	"go.trai.ch/modpack/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.ArtifactResolver = (*Resolver)(nil)

// Resolver locates dependency archives in a local repository using the
// group/name/version directory layout, or at an explicitly configured path.
type Resolver struct{}

// NewResolver creates a new Resolver.
func NewResolver() *Resolver {
	return &Resolver{}
}

// Resolve returns one artifact per dependency, in order.
// An explicit path may be a glob pattern; it must match exactly one file.
func (r *Resolver) Resolve(ctx context.Context, repository string, deps []domain.Dependency) ([]domain.Artifact, error) {
	artifacts := make([]domain.Artifact, 0, len(deps))
	for _, dep := range deps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		path, err := r.locate(repository, dep)
		if err != nil {
			return nil, err
		}

		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			return nil, zerr.With(zerr.With(domain.ErrArtifactNotFound, "coordinate", dep.Coordinate.String()), "path", path)
		}

		artifacts = append(artifacts, domain.Artifact{
			Coordinate: dep.Coordinate,
			Path:       path,
			ModTime:    info.ModTime(),
		})
	}
	return artifacts, nil
}

func (r *Resolver) locate(repository string, dep domain.Dependency) (string, error) {
	if dep.Path == "" {
		return RepositoryPath(repository, dep.Coordinate), nil
	}

	matches, err := filepath.Glob(dep.Path)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to glob path"), "path", dep.Path)
	}
	switch len(matches) {
	case 0:
		return "", zerr.With(zerr.With(domain.ErrArtifactNotFound, "coordinate", dep.Coordinate.String()), "path", dep.Path)
	case 1:
		return matches[0], nil
	default:
		return "", zerr.With(zerr.With(domain.ErrInvalidConfig, "path", dep.Path), "matches", strings.Join(matches, ", "))
	}
}

// RepositoryPath returns <repository>/<group as dirs>/<name>/<version>/<name>-<version>.jar.
func RepositoryPath(repository string, c domain.Coordinate) string {
	parts := append([]string{repository}, strings.Split(c.Group, ".")...)
	parts = append(parts, c.Name, c.Version, c.Name+"-"+c.Version+domain.ArchiveExt)
	return filepath.Join(parts...)
}
