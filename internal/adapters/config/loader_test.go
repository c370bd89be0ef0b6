package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/modpack/internal/adapters/config"
	"go.trai.ch/modpack/internal/core/domain"
	"go.trai.ch/modpack/internal/core/ports/mocks"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, domain.ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func newLoader(t *testing.T) (*config.Loader, *mocks.MockLogger) {
	t.Helper()
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	return config.NewLoader(log), log
}

func TestLoad_Full(t *testing.T) {
	t.Setenv("JAVA_HOME", "")
	dir := t.TempDir()
	path := writeConfig(t, dir, `
version: "1"
workingDir: out/modpack
repository: repo
rebuildIfNewer: true
project:
  name: app
  version: 1.2.0
  classes: build/classes
  mainClass: com.example.Main
dependencies:
  - org.slf4j:slf4j-api:2.0.9
  - coordinate: g:lib-x:1.0
    path: libs/x.jar
overrides:
  dir: overrides
  modules:
    g.lib.x:
      open: true
      directives:
        - requires: java.sql
          modifiers: [transitive]
        - exports: g.lib.x.internal
          to: [com.example.app]
        - provides: java.sql.Driver
          with: [g.lib.x.Driver]
        - uses: g.lib.x.Plugin
          remove: true
runtime:
  jdkHome: /opt/jdk
  modules: [jdk.crypto.ec]
  options: [--strip-debug]
  launcher: app
package:
  enabled: true
  type: deb
distribution: container
container:
  image: app:latest
  base: eclipse-temurin:21-jre
`)

	loader, _ := newLoader(t)
	cfg, err := loader.Load(path)
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.Root)
	assert.Equal(t, filepath.Join(dir, "out", "modpack"), cfg.WorkingDir)
	assert.Equal(t, filepath.Join(dir, "repo"), cfg.Repository)
	assert.True(t, cfg.RebuildIfNewer)

	assert.Equal(t, domain.ProjectConfig{
		Name:       "app",
		Version:    "1.2.0",
		ClassesDir: filepath.Join(dir, "build", "classes"),
		MainClass:  "com.example.Main",
	}, cfg.Project)

	assert.Equal(t, []domain.Dependency{
		{Coordinate: domain.Coordinate{Group: "org.slf4j", Name: "slf4j-api", Version: "2.0.9"}},
		{Coordinate: domain.Coordinate{Group: "g", Name: "lib-x", Version: "1.0"}, Path: filepath.Join(dir, "libs", "x.jar")},
	}, cfg.Dependencies)

	assert.Equal(t, filepath.Join(dir, "overrides"), cfg.OverridesDir)
	override, ok := cfg.OverrideFor("g.lib.x")
	require.True(t, ok)
	require.NotNil(t, override.Open)
	assert.True(t, *override.Open)
	assert.Equal(t, []domain.Directive{
		{Kind: domain.Requires, Name: "java.sql", Modifiers: []string{"transitive"}},
		{Kind: domain.Exports, Name: "g.lib.x.internal", Targets: []string{"com.example.app"}},
		{Kind: domain.Provides, Name: "java.sql.Driver", Targets: []string{"g.lib.x.Driver"}},
		{Kind: domain.Uses, Name: "g.lib.x.Plugin", Remove: true},
	}, override.Directives)

	assert.Equal(t, domain.RuntimeConfig{
		JDKHome:  "/opt/jdk",
		Modules:  []string{"jdk.crypto.ec"},
		Options:  []string{"--strip-debug"},
		Launcher: "app",
	}, cfg.Runtime)
	assert.Equal(t, domain.PackageConfig{Enabled: true, Type: "deb"}, cfg.Package)
	assert.Equal(t, domain.DistributionContainer, cfg.Distribution)
	assert.Equal(t, domain.ContainerConfig{Image: "app:latest", Base: "eclipse-temurin:21-jre"}, cfg.Container)
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JAVA_HOME", "/usr/lib/jvm/default")
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := t.TempDir()
	path := writeConfig(t, dir, "project:\n  classes: classes\n  autoMainClass: true\n")

	loader, _ := newLoader(t)
	cfg, err := loader.Load(path)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, domain.DefaultWorkingDir), cfg.WorkingDir)
	assert.Equal(t, filepath.Join(home, ".m2", "repository"), cfg.Repository)
	assert.Equal(t, "/usr/lib/jvm/default", cfg.Runtime.JDKHome)
	assert.Equal(t, domain.DistributionNone, cfg.Distribution)
	assert.True(t, cfg.Project.AutoMainClass)
	assert.Empty(t, cfg.Dependencies)
	assert.Nil(t, cfg.Overrides)
	assert.False(t, cfg.RebuildIfNewer)
}

func TestLoad_RootAndHomeExpansion(t *testing.T) {
	t.Setenv("JAVA_HOME", "")
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := t.TempDir()
	path := writeConfig(t, dir, "root: ..\nrepository: ~/m2\nproject:\n  classes: classes\n")

	loader, _ := newLoader(t)
	cfg, err := loader.Load(path)
	require.NoError(t, err)

	assert.Equal(t, filepath.Dir(dir), cfg.Root)
	assert.Equal(t, filepath.Join(filepath.Dir(dir), "classes"), cfg.Project.ClassesDir)
	assert.Equal(t, filepath.Join(home, "m2"), cfg.Repository)
}

func TestLoad_Warnings(t *testing.T) {
	t.Setenv("JAVA_HOME", "")
	dir := t.TempDir()
	path := writeConfig(t, dir, `
project:
  classes: classes
package:
  type: dmg
container:
  image: app
`)

	loader, log := newLoader(t)
	log.EXPECT().Warn("'package' settings have no effect while package.enabled is false").Times(1)
	log.EXPECT().Warn(`'container' has no effect with distribution "none"`).Times(1)

	_, err := loader.Load(path)
	require.NoError(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("JAVA_HOME", "")

	tests := []struct {
		name    string
		content string
		want    error
		meta    map[string]any
	}{
		{
			name:    "missing classes",
			content: "project:\n  name: app\n",
			want:    domain.ErrInvalidConfig,
			meta:    map[string]any{"field": "project.classes"},
		},
		{
			name:    "unsupported version",
			content: "version: \"2\"\nproject:\n  classes: c\n",
			want:    domain.ErrInvalidConfig,
			meta:    map[string]any{"version": "2"},
		},
		{
			name:    "bad coordinate",
			content: "project:\n  classes: c\ndependencies:\n  - g:n\n",
			want:    domain.ErrInvalidCoordinate,
			meta:    map[string]any{"dependency": 0},
		},
		{
			name:    "duplicate dependency",
			content: "project:\n  classes: c\ndependencies:\n  - g:n:1\n  - g:n:2\n",
			want:    domain.ErrInvalidConfig,
			meta:    map[string]any{"dependency": "g:n", "first_occurrence": 0, "duplicate_at": 1},
		},
		{
			name:    "unknown distribution",
			content: "project:\n  classes: c\ndistribution: tarball\n",
			want:    domain.ErrInvalidConfig,
			meta:    map[string]any{"distribution": "tarball"},
		},
		{
			name:    "two kinds in one directive",
			content: "project:\n  classes: c\noverrides:\n  modules:\n    m:\n      directives:\n        - requires: a\n          exports: b\n",
			want:    domain.ErrInvalidConfig,
			meta:    map[string]any{"unit": "m", "directive": 0, "kinds": 2},
		},
		{
			name:    "modifiers on exports",
			content: "project:\n  classes: c\noverrides:\n  modules:\n    m:\n      directives:\n        - exports: b\n          modifiers: [static]\n",
			want:    domain.ErrInvalidConfig,
			meta:    map[string]any{"kind": "exports"},
		},
		{
			name:    "unknown modifier",
			content: "project:\n  classes: c\noverrides:\n  modules:\n    m:\n      directives:\n        - requires: b\n          modifiers: [optional]\n",
			want:    domain.ErrInvalidConfig,
			meta:    map[string]any{"modifier": "optional"},
		},
		{
			name:    "provides without implementation",
			content: "project:\n  classes: c\noverrides:\n  modules:\n    m:\n      directives:\n        - provides: a.Service\n",
			want:    domain.ErrInvalidConfig,
			meta:    map[string]any{"service": "a.Service"},
		},
		{
			name:    "launcher with separator",
			content: "project:\n  classes: c\nruntime:\n  launcher: app=x/y\n",
			want:    domain.ErrInvalidConfig,
			meta:    map[string]any{"launcher": "app=x/y"},
		},
		{
			name:    "unknown field",
			content: "project:\n  classes: c\n  mainclass: x\n",
			want:    domain.ErrConfigParseFailed,
		},
		{
			name:    "malformed yaml",
			content: "project: [\n",
			want:    domain.ErrConfigParseFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), tt.content)
			loader, _ := newLoader(t)

			_, err := loader.Load(path)
			require.Error(t, err)
			assert.ErrorContains(t, err, tt.want.Error())

			var zErr *zerr.Error
			require.ErrorAs(t, err, &zErr)
			meta := zErr.Metadata()
			assert.Equal(t, path, meta["path"])
			for k, v := range tt.meta {
				assert.Equal(t, v, meta[k], k)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	loader, _ := newLoader(t)
	_, err := loader.Load(filepath.Join(t.TempDir(), domain.ConfigFileName))
	assert.ErrorContains(t, err, domain.ErrConfigReadFailed.Error())
}

func TestLoad_EmptyFile(t *testing.T) {
	loader, _ := newLoader(t)
	_, err := loader.Load(writeConfig(t, t.TempDir(), ""))
	assert.ErrorContains(t, err, domain.ErrInvalidConfig.Error())
}

func TestDiscover(t *testing.T) {
	root := t.TempDir()
	path := writeConfig(t, root, "project:\n  classes: c\n")
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o750))

	loader, _ := newLoader(t)

	found, err := loader.Discover(nested)
	require.NoError(t, err)
	assert.Equal(t, path, found)

	found, err = loader.Discover(root)
	require.NoError(t, err)
	assert.Equal(t, path, found)
}

func TestDiscover_NotFound(t *testing.T) {
	loader, _ := newLoader(t)
	_, err := loader.Discover(t.TempDir())
	assert.ErrorContains(t, err, domain.ErrConfigNotFound.Error())
}
