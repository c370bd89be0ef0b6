package ports

import (
	"context"

	"go.trai.ch/modpack/internal/core/domain"
)

// ArtifactResolver locates dependency artifacts on disk.
//
//go:generate go run go.uber.org/mock/mockgen -source=resolver.go -destination=mocks/mock_resolver.go -package=mocks
type ArtifactResolver interface {
	// Resolve returns one artifact per dependency, in order.
	// An explicit dependency path wins over the repository.
	Resolve(ctx context.Context, repository string, deps []domain.Dependency) ([]domain.Artifact, error)
}
