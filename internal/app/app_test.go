package app_test

import (
	"bytes"
	"context"
	"errors"
	"iter"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/modpack/internal/adapters/archive"
	"go.trai.ch/modpack/internal/adapters/cas"
	"go.trai.ch/modpack/internal/adapters/classpath"
	"go.trai.ch/modpack/internal/adapters/fs"
	"go.trai.ch/modpack/internal/adapters/linear"
	"go.trai.ch/modpack/internal/adapters/watcher"
	"go.trai.ch/modpack/internal/app"
	"go.trai.ch/modpack/internal/classfile/classfiletest"
	"go.trai.ch/modpack/internal/core/domain"
	"go.trai.ch/modpack/internal/core/ports"
	"go.trai.ch/modpack/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

const (
	configPath    = "/project/modpack.yaml"
	projectModule = "com.example.app"
)

type fixture struct {
	cfg       *domain.BuildConfig
	loader    *mocks.MockConfigLoader
	logger    *mocks.MockLogger
	toolchain *mocks.MockToolchain
	watcher   *mocks.MockWatcher
	output    *bytes.Buffer
	app       *app.App

	mu    sync.Mutex
	infos []string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	t.Setenv("NO_COLOR", "1")
	ctrl := gomock.NewController(t)
	root := t.TempDir()

	classes := filepath.Join(root, "classes")
	classfiletest.WriteTree(t, classes, map[string][]byte{
		domain.DescriptorClassName:   classfiletest.ModuleInfo(domain.Descriptor{Name: projectModule}),
		"com/example/app/Main.class": classfiletest.MainClass("com/example/app/Main"),
	})

	f := &fixture{
		cfg: &domain.BuildConfig{
			Root:       root,
			WorkingDir: filepath.Join(root, "build"),
			Project: domain.ProjectConfig{
				Version:       "1.0",
				ClassesDir:    classes,
				AutoMainClass: true,
			},
		},
		loader:    mocks.NewMockConfigLoader(ctrl),
		logger:    mocks.NewMockLogger(ctrl),
		toolchain: mocks.NewMockToolchain(ctrl),
		watcher:   mocks.NewMockWatcher(ctrl),
		output:    &bytes.Buffer{},
	}

	f.toolchain.EXPECT().With(gomock.Any()).Return(f.toolchain).AnyTimes()
	f.logger.EXPECT().Debug(gomock.Any()).AnyTimes()
	f.logger.EXPECT().Warn(gomock.Any()).AnyTimes()
	f.logger.EXPECT().Info(gomock.Any()).Do(func(msg string) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.infos = append(f.infos, msg)
	}).AnyTimes()

	walker := fs.NewWalker()
	f.app = app.New(f.loader, f.logger, linear.NewRenderer(f.output), f.watcher, app.Adapters{
		Resolver:  fs.NewResolver(),
		Archive:   archive.NewService(),
		Walker:    walker,
		Types:     classpath.NewFactory(),
		Toolchain: f.toolchain,
		Container: mocks.NewMockContainerBuilder(ctrl),
		Store:     cas.NewStore(),
		Hasher:    fs.NewHasher(walker),
	})
	return f
}

func (f *fixture) expectLoad(times int) {
	f.loader.EXPECT().Load(configPath).DoAndReturn(func(string) (*domain.BuildConfig, error) {
		cfg := *f.cfg
		return &cfg, nil
	}).Times(times)
}

func (f *fixture) expectLink(err error) {
	f.toolchain.EXPECT().Link(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req ports.LinkRequest) error {
			if err != nil {
				return err
			}
			return os.MkdirAll(filepath.Join(req.Output, "bin"), 0o750)
		})
}

func (f *fixture) lastInfo() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.infos) == 0 {
		return ""
	}
	return f.infos[len(f.infos)-1]
}

func TestApp_Build(t *testing.T) {
	f := newFixture(t)
	f.expectLoad(1)
	f.expectLink(nil)

	result, err := f.app.Build(t.Context(), app.Options{ConfigPath: configPath})
	require.NoError(t, err)

	assert.Positive(t, result.ExecutedCount())
	assert.FileExists(t, f.cfg.Layout().ReportPath())
	assert.FileExists(t, f.cfg.Layout().OutputPath(projectModule, "1.0"))
	assert.DirExists(t, f.cfg.Layout().ImageDir())
	assert.Contains(t, f.lastInfo(), "executed")

	out := f.output.String()
	assert.Contains(t, out, "[build] Starting...")
	assert.Contains(t, out, "[build] ✓ Completed")
	assert.Contains(t, out, "[resolve] ~ Up to date")
	assert.NotContains(t, out, "[resolve] ✓ Completed")
}

func TestApp_Build_SecondRunIsUpToDate(t *testing.T) {
	f := newFixture(t)
	f.expectLoad(2)
	f.expectLink(nil)

	_, err := f.app.Build(t.Context(), app.Options{ConfigPath: configPath})
	require.NoError(t, err)
	f.output.Reset()

	result, err := f.app.Build(t.Context(), app.Options{ConfigPath: configPath})
	require.NoError(t, err)

	assert.Zero(t, result.ExecutedCount())
	assert.Contains(t, f.lastInfo(), "up to date")
	out := f.output.String()
	for _, stage := range result.Order {
		assert.Contains(t, out, "["+stage+"] ~ Up to date")
	}
	assert.NotContains(t, out, "Failed")
}

func TestApp_Build_Failure(t *testing.T) {
	f := newFixture(t)
	f.expectLoad(1)
	f.expectLink(domain.ErrToolFailed)

	_, err := f.app.Build(t.Context(), app.Options{ConfigPath: configPath})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrBuildExecutionFailed)
	assert.ErrorContains(t, err, domain.ErrToolFailed.Error())
	assert.Contains(t, f.output.String(), "✗ Failed")
}

func TestApp_Build_VerboseAndRebuildOverride(t *testing.T) {
	f := newFixture(t)
	var seen *domain.BuildConfig
	f.loader.EXPECT().Load(configPath).DoAndReturn(func(string) (*domain.BuildConfig, error) {
		cfg := *f.cfg
		seen = &cfg
		return seen, nil
	})
	f.expectLink(nil)

	_, err := f.app.Build(t.Context(), app.Options{ConfigPath: configPath, Verbose: true, RebuildIfNewer: true})
	require.NoError(t, err)
	require.NotNil(t, seen)
	assert.True(t, seen.Verbose)
	assert.True(t, seen.RebuildIfNewer)
}

func TestApp_DiscoversConfig(t *testing.T) {
	f := newFixture(t)
	f.loader.EXPECT().Discover(".").Return(configPath, nil)
	f.expectLoad(1)

	report, err := f.app.Units(t.Context(), app.Options{})
	require.NoError(t, err)
	require.NotNil(t, report.Project)
	assert.Equal(t, projectModule, report.Project.Name())
	assert.Empty(t, report.Units)
}

func TestApp_DiscoverFailure(t *testing.T) {
	f := newFixture(t)
	f.loader.EXPECT().Discover(".").Return("", domain.ErrConfigNotFound)

	_, err := f.app.Units(t.Context(), app.Options{})
	assert.ErrorIs(t, err, domain.ErrConfigNotFound)
}

func TestApp_LoadFailure(t *testing.T) {
	f := newFixture(t)
	f.loader.EXPECT().Load(configPath).Return(nil, domain.ErrInvalidConfig)

	_, err := f.app.Build(t.Context(), app.Options{ConfigPath: configPath})
	assert.ErrorContains(t, err, "failed to load configuration")
	assert.ErrorContains(t, err, domain.ErrInvalidConfig.Error())
}

func TestApp_EntryPoints(t *testing.T) {
	f := newFixture(t)
	f.expectLoad(1)

	got, err := f.app.EntryPoints(t.Context(), app.Options{ConfigPath: configPath})
	require.NoError(t, err)
	assert.Equal(t, []string{"com.example.app.Main"}, got)
}

func TestApp_Describe(t *testing.T) {
	f := newFixture(t)
	f.expectLoad(2)

	src, err := f.app.Describe(t.Context(), app.Options{ConfigPath: configPath}, projectModule)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(src.Text, "module "+projectModule))

	_, err = f.app.Describe(t.Context(), app.Options{ConfigPath: configPath}, "missing.unit")
	assert.ErrorContains(t, err, domain.ErrUnitNotFound.Error())
}

func TestApp_Clean(t *testing.T) {
	f := newFixture(t)
	f.expectLoad(1)
	require.NoError(t, os.MkdirAll(f.cfg.Layout().UnitsDir(), 0o750))

	removed, err := f.app.Clean(t.Context(), app.Options{ConfigPath: configPath})
	require.NoError(t, err)
	assert.Equal(t, f.cfg.WorkingDir, removed)
	assert.NoDirExists(t, f.cfg.WorkingDir)
}

func TestApp_Watch_MissingClasses(t *testing.T) {
	f := newFixture(t)
	f.cfg.Project.ClassesDir = filepath.Join(f.cfg.Root, "absent")
	f.expectLoad(1)

	err := f.app.Watch(t.Context(), app.Options{ConfigPath: configPath})
	assert.ErrorContains(t, err, domain.ErrInvalidConfig.Error())
}

func TestApp_Watch_RebuildsOnChange(t *testing.T) {
	f := newFixture(t)
	f.expectLoad(1)
	classes := f.cfg.Project.ClassesDir

	synctest.Test(t, func(t *testing.T) {
		events := make(chan ports.WatchEvent)
		f.watcher.EXPECT().Start(gomock.Any(), classes).Return(nil)
		f.watcher.EXPECT().Events().Return(iter.Seq[ports.WatchEvent](func(yield func(ports.WatchEvent) bool) {
			for ev := range events {
				if !yield(ev) {
					return
				}
			}
		}))
		f.watcher.EXPECT().Stop().DoAndReturn(func() error {
			close(events)
			return nil
		})

		var mu sync.Mutex
		var builds []app.Options
		f.app.SetRebuild(func(_ context.Context, opts app.Options) error {
			mu.Lock()
			defer mu.Unlock()
			builds = append(builds, opts)
			return nil
		})

		ctx, cancel := context.WithCancel(t.Context())
		done := make(chan error, 1)
		go func() { done <- f.app.Watch(ctx, app.Options{ConfigPath: configPath}) }()

		synctest.Wait()
		events <- ports.WatchEvent{Path: filepath.Join(classes, "A.class"), Operation: ports.OpWrite}
		events <- ports.WatchEvent{Path: filepath.Join(classes, "B.class"), Operation: ports.OpWrite}
		time.Sleep(watcher.DefaultDebounceWindow + time.Millisecond)
		synctest.Wait()

		cancel()
		require.NoError(t, <-done)

		mu.Lock()
		defer mu.Unlock()
		require.Len(t, builds, 2)
		for _, opts := range builds {
			assert.True(t, opts.RebuildIfNewer)
		}
		assert.Equal(t, "2 file(s) changed, rebuilding", f.lastInfo())
	})
}

func TestApp_Watch_LogsBuildErrors(t *testing.T) {
	f := newFixture(t)
	f.expectLoad(1)

	synctest.Test(t, func(t *testing.T) {
		f.watcher.EXPECT().Start(gomock.Any(), gomock.Any()).Return(nil)
		f.watcher.EXPECT().Events().Return(iter.Seq[ports.WatchEvent](func(func(ports.WatchEvent) bool) {}))
		f.watcher.EXPECT().Stop().Return(nil)

		buildErr := errors.New("boom")
		f.logger.EXPECT().Error(buildErr)
		f.app.SetRebuild(func(context.Context, app.Options) error { return buildErr })

		ctx, cancel := context.WithCancel(t.Context())
		done := make(chan error, 1)
		go func() { done <- f.app.Watch(ctx, app.Options{ConfigPath: configPath}) }()

		synctest.Wait()
		cancel()
		require.NoError(t, <-done)
	})
}
