package fs

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/modpack/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Hasher = (*Hasher)(nil)

// Hasher fingerprints stage outputs with xxhash.
type Hasher struct {
	walker *Walker
}

// NewHasher creates a new Hasher.
func NewHasher(walker *Walker) *Hasher {
	return &Hasher{walker: walker}
}

// ComputeFileHash computes the XXHash of a file's content.
func (h *Hasher) ComputeFileHash(path string) (uint64, error) {
	f, err := os.Open(path) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to open file"), "path", path)
	}
	defer f.Close() //nolint:errcheck // Best effort close in defer

	hasher := xxhash.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to hash file content"), "path", path)
	}

	return hasher.Sum64(), nil
}

// ComputeOutputHash hashes files and directory trees. Paths are visited in sorted order
// and directory contents are keyed by their path relative to the directory, so the
// fingerprint does not depend on where the working directory lives.
func (h *Hasher) ComputeOutputHash(paths []string) (string, error) {
	sorted := slices.Clone(paths)
	slices.Sort(sorted)

	hasher := xxhash.New()
	for _, path := range sorted {
		info, err := os.Stat(path)
		if err != nil {
			return "", zerr.With(zerr.Wrap(err, "failed to stat output"), "path", path)
		}

		if !info.IsDir() {
			if err := h.hashFile(hasher, filepath.Base(path), path); err != nil {
				return "", err
			}
			continue
		}

		for file := range h.walker.WalkFiles(path, nil) {
			rel, err := filepath.Rel(path, file)
			if err != nil {
				return "", zerr.With(zerr.Wrap(err, "failed to relativize output"), "path", file)
			}
			if err := h.hashFile(hasher, filepath.ToSlash(rel), file); err != nil {
				return "", err
			}
		}
	}

	return fmt.Sprintf("%016x", hasher.Sum64()), nil
}

func (h *Hasher) hashFile(digest *xxhash.Digest, key, path string) error {
	_, _ = digest.WriteString(key)
	_, _ = digest.Write([]byte{0})

	hash, err := h.ComputeFileHash(path)
	if err != nil {
		return err
	}
	if err := binary.Write(digest, binary.LittleEndian, hash); err != nil {
		return zerr.Wrap(err, "failed to write hash to digest")
	}
	return nil
}
