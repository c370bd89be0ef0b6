package fs_test

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/modpack/internal/adapters/fs"
	"go.trai.ch/modpack/internal/classfile/classfiletest"
	"go.trai.ch/modpack/internal/core/domain"
)

func TestWalker_WalkFiles(t *testing.T) {
	tmpDir := t.TempDir()
	classfiletest.WriteTree(t, tmpDir, map[string][]byte{
		".git/config":         []byte("git config"),
		"ignored/file":        []byte("ignored content"),
		"com/example/A.class": []byte("A"),
		"com/example/B.tmp":   []byte("B"),
		"module-info.class":   []byte("M"),
	})

	files := slices.Collect(fs.NewWalker().WalkFiles(tmpDir, []string{"ignored", "*.tmp"}))

	assert.Equal(t, []string{
		filepath.Join(tmpDir, "com", "example", "A.class"),
		filepath.Join(tmpDir, "module-info.class"),
	}, files)
}

func TestWalker_StopsEarly(t *testing.T) {
	tmpDir := t.TempDir()
	classfiletest.WriteTree(t, tmpDir, map[string][]byte{"a": nil, "b": nil, "c": nil})

	var seen int
	for range fs.NewWalker().WalkFiles(tmpDir, nil) {
		seen++
		break
	}
	assert.Equal(t, 1, seen)
}

func TestHasher_ComputeOutputHash(t *testing.T) {
	hasher := fs.NewHasher(fs.NewWalker())

	build := func() (string, string) {
		dir := t.TempDir()
		classfiletest.WriteTree(t, dir, map[string][]byte{
			"image/bin/java": []byte("launcher"),
			"image/release":  []byte("JAVA_VERSION=21"),
			"app.jar":        []byte("jar"),
		})
		return filepath.Join(dir, "image"), filepath.Join(dir, "app.jar")
	}

	imageA, jarA := build()
	imageB, jarB := build()

	hashA, err := hasher.ComputeOutputHash([]string{imageA, jarA})
	require.NoError(t, err)
	hashB, err := hasher.ComputeOutputHash([]string{jarB, imageB})
	require.NoError(t, err)

	assert.Len(t, hashA, 16)
	assert.Equal(t, hashA, hashB, "fingerprint must not depend on location or argument order")

	require.NoError(t, os.WriteFile(filepath.Join(imageB, "release"), []byte("JAVA_VERSION=22"), 0o600))
	hashC, err := hasher.ComputeOutputHash([]string{imageB, jarB})
	require.NoError(t, err)
	assert.NotEqual(t, hashA, hashC)
}

func TestHasher_MissingOutput(t *testing.T) {
	_, err := fs.NewHasher(fs.NewWalker()).ComputeOutputHash([]string{filepath.Join(t.TempDir(), "nope")})
	assert.Error(t, err)
}

func TestResolver_RepositoryLayout(t *testing.T) {
	repo := t.TempDir()
	coord := domain.Coordinate{Group: "org.example", Name: "lib-x", Version: "1.0"}
	path := fs.RepositoryPath(repo, coord)
	assert.Equal(t, filepath.Join(repo, "org", "example", "lib-x", "1.0", "lib-x-1.0.jar"), path)

	classfiletest.WriteTree(t, repo, map[string][]byte{"org/example/lib-x/1.0/lib-x-1.0.jar": []byte("jar")})

	artifacts, err := fs.NewResolver().Resolve(t.Context(), repo, []domain.Dependency{{Coordinate: coord}})
	require.NoError(t, err)
	require.Len(t, artifacts, 1)
	assert.Equal(t, path, artifacts[0].Path)
	assert.Equal(t, coord, artifacts[0].Coordinate)
	assert.False(t, artifacts[0].ModTime.IsZero())
}

func TestResolver_ExplicitPathWins(t *testing.T) {
	dir := t.TempDir()
	classfiletest.WriteTree(t, dir, map[string][]byte{"libs/custom-2.jar": []byte("jar")})
	coord := domain.Coordinate{Group: "g", Name: "custom", Version: "2"}

	artifacts, err := fs.NewResolver().Resolve(t.Context(), t.TempDir(), []domain.Dependency{
		{Coordinate: coord, Path: filepath.Join(dir, "libs", "custom-*.jar")},
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "libs", "custom-2.jar"), artifacts[0].Path)
}

func TestResolver_Errors(t *testing.T) {
	dir := t.TempDir()
	classfiletest.WriteTree(t, dir, map[string][]byte{"a-1.jar": nil, "a-2.jar": nil})
	coord := domain.Coordinate{Group: "g", Name: "a", Version: "1"}
	r := fs.NewResolver()

	_, err := r.Resolve(t.Context(), t.TempDir(), []domain.Dependency{{Coordinate: coord}})
	assert.ErrorContains(t, err, domain.ErrArtifactNotFound.Error())

	_, err = r.Resolve(t.Context(), dir, []domain.Dependency{{Coordinate: coord, Path: filepath.Join(dir, "a-*.jar")}})
	assert.ErrorContains(t, err, domain.ErrInvalidConfig.Error())
}
