package ports

import "go.trai.ch/modpack/internal/classfile"

// TypeLoader resolves classes by internal name over a fixed set of roots.
//
//go:generate go run go.uber.org/mock/mockgen -source=types.go -destination=mocks/mock_types.go -package=mocks
type TypeLoader interface {
	// Load returns the parsed class. Missing types fail with domain.ErrTypeNotFound.
	Load(internalName string) (*classfile.Class, error)
	// Has reports whether a type is resolvable.
	Has(internalName string) bool
	// Close releases open archives.
	Close() error
}

// TypeLoaderFactory creates type loaders.
type TypeLoaderFactory interface {
	// New creates a loader over directories and archives. Platform types come from jdkHome's jmods,
	// or are assumed present for java/ names when jdkHome is empty or has no jmods.
	New(roots []string, jdkHome string) (TypeLoader, error)
}
