package ports

import "iter"

// Hasher fingerprints build outputs.
//
//go:generate go run go.uber.org/mock/mockgen -source=hasher.go -destination=mocks/mock_hasher.go -package=mocks
type Hasher interface {
	// ComputeOutputHash hashes the given files and directories.
	ComputeOutputHash(paths []string) (string, error)
}

// Walker walks directory trees.
type Walker interface {
	// WalkFiles yields every file below root, skipping names matching ignores.
	WalkFiles(root string, ignores []string) iter.Seq[string]
}
