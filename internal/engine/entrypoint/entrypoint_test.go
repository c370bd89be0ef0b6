package entrypoint_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/modpack/internal/adapters/classpath"
	"go.trai.ch/modpack/internal/adapters/fs"
	"go.trai.ch/modpack/internal/classfile"
	"go.trai.ch/modpack/internal/classfile/classfiletest"
	"go.trai.ch/modpack/internal/core/domain"
	"go.trai.ch/modpack/internal/core/ports/mocks"
	"go.trai.ch/modpack/internal/engine/entrypoint"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

const publicStatic = classfile.AccPublic | classfile.AccStatic

func newResolver(t *testing.T) (*entrypoint.Resolver, *mocks.MockLogger) {
	t.Helper()
	logger := mocks.NewMockLogger(gomock.NewController(t))
	return entrypoint.New(classpath.NewFactory(), fs.NewWalker(), logger, ""), logger
}

func projectUnit(dir string) *domain.Unit {
	return domain.NewUnit(domain.UnitSpec{Classification: domain.Explicit, Name: "com.example.app", Source: dir, Project: true})
}

func TestResolve(t *testing.T) {
	classes := t.TempDir()
	lib := classfiletest.WriteJar(t, filepath.Join(t.TempDir(), "lib.jar"), map[string][]byte{
		"org/lib/Launcher.class": classfiletest.Class{
			Name:    "org/lib/Launcher",
			Methods: []classfiletest.Method{{Name: "main", Descriptor: classfiletest.MainDescriptor, Access: publicStatic}},
		}.Bytes(),
		"org/lib/Config.class": classfiletest.Class{Name: "org/lib/Config"}.Bytes(),
	})

	classfiletest.WriteTree(t, classes, map[string][]byte{
		domain.DescriptorClassName:      classfiletest.ModuleInfo(domain.Descriptor{Name: "com.example.app"}),
		"com/example/app/Main.class":    classfiletest.MainClass("com/example/app/Main"),
		"com/example/app/Tool.class":    classfiletest.MainClass("com/example/app/Tool"),
		"com/example/app/Service.class": classfiletest.Class{Name: "com/example/app/Service"}.Bytes(),
		// Inherits main from a sibling class.
		"com/example/app/Sub.class": classfiletest.Class{Name: "com/example/app/Sub", Super: "org/lib/Launcher"}.Bytes(),
		// Instance main does not qualify.
		"com/example/app/Instance.class": classfiletest.Class{
			Name:    "com/example/app/Instance",
			Methods: []classfiletest.Method{{Name: "main", Descriptor: classfiletest.MainDescriptor, Access: classfile.AccPublic}},
		}.Bytes(),
		// Public signature uses a resolvable sibling type.
		"com/example/app/Configured.class": classfiletest.Class{
			Name: "com/example/app/Configured",
			Methods: []classfiletest.Method{
				{Name: "main", Descriptor: classfiletest.MainDescriptor, Access: publicStatic},
				{Name: "configure", Descriptor: "(Lorg/lib/Config;)V", Access: classfile.AccPublic},
			},
		}.Bytes(),
		// Public signature references a type nobody provides.
		"com/example/app/Broken.class": classfiletest.Class{
			Name: "com/example/app/Broken",
			Methods: []classfiletest.Method{
				{Name: "main", Descriptor: classfiletest.MainDescriptor, Access: publicStatic},
				{Name: "plugin", Descriptor: "()Lorg/missing/Plugin;", Access: classfile.AccPublic},
			},
		}.Bytes(),
		// Superclass cannot be resolved.
		"com/example/app/Orphan.class": classfiletest.Class{Name: "com/example/app/Orphan", Super: "org/missing/Base"}.Bytes(),
		// Not a class file at all.
		"com/example/app/Garbage.class": []byte("garbage"),
	})

	r, logger := newResolver(t)
	logger.EXPECT().Debug(gomock.Any()).Times(3)

	siblings := []*domain.Unit{domain.NewUnit(domain.UnitSpec{Classification: domain.Explicit, Name: "org.lib", Source: lib})}
	got, err := r.Resolve(t.Context(), projectUnit(classes), siblings)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"com.example.app.Configured",
		"com.example.app.Main",
		"com.example.app.Sub",
		"com.example.app.Tool",
	}, got)
}

func TestResolve_Memoized(t *testing.T) {
	classes := t.TempDir()
	classfiletest.WriteTree(t, classes, map[string][]byte{"a/Main.class": classfiletest.MainClass("a/Main")})
	r, _ := newResolver(t)
	u := projectUnit(classes)

	first, err := r.Resolve(t.Context(), u, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.Main"}, first)

	classfiletest.WriteTree(t, classes, map[string][]byte{"b/Main.class": classfiletest.MainClass("b/Main")})

	second, err := r.Resolve(t.Context(), u, nil)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestResolve_Empty(t *testing.T) {
	r, _ := newResolver(t)

	got, err := r.Resolve(t.Context(), projectUnit(t.TempDir()), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDefault(t *testing.T) {
	got, err := entrypoint.Default([]string{"a.Main"})
	require.NoError(t, err)
	assert.Equal(t, "a.Main", got)

	_, err = entrypoint.Default(nil)
	require.ErrorIs(t, err, domain.ErrNoEntryPoint)

	_, err = entrypoint.Default([]string{"a.Main", "b.Main"})
	require.ErrorContains(t, err, domain.ErrAmbiguousEntryPoint.Error())
	var zErr *zerr.Error
	require.ErrorAs(t, err, &zErr)
	assert.Equal(t, "a.Main, b.Main", zErr.Metadata()["candidates"])
}

func TestSelect(t *testing.T) {
	tests := []struct {
		name       string
		configured string
		auto       bool
		candidates []string
		want       string
		wantErr    error
	}{
		{name: "configured wins", configured: "x.Main", auto: true, candidates: []string{"a.Main", "b.Main"}, want: "x.Main"},
		{name: "auto single", auto: true, candidates: []string{"a.Main"}, want: "a.Main"},
		{name: "auto ambiguous", auto: true, candidates: []string{"a.Main", "b.Main"}, wantErr: domain.ErrAmbiguousEntryPoint},
		{name: "auto none", auto: true, wantErr: domain.ErrNoEntryPoint},
		{name: "not wanted", candidates: []string{"a.Main", "b.Main"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := entrypoint.Select(tt.configured, tt.auto, tt.candidates)
			if tt.wantErr != nil {
				assert.ErrorContains(t, err, tt.wantErr.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
