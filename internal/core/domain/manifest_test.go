package domain_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/modpack/internal/core/domain"
)

func TestParseManifest(t *testing.T) {
	data := "Manifest-Version: 1.0\r\n" +
		"Automatic-Module-Name: com.example.very.long.module.name.that.needs.to.wrap.ac\r\n" +
		" ross.lines\r\n" +
		"Created-By: test\r\n" +
		"\r\n" +
		"Name: com/example/\r\n" +
		"Sealed: true\r\n"

	m := domain.ParseManifest([]byte(data))

	name, ok := m.Get(domain.AutomaticModuleNameAttr)
	require.True(t, ok)
	assert.Equal(t, "com.example.very.long.module.name.that.needs.to.wrap.across.lines", name)

	got, ok := m.Get("created-by")
	assert.True(t, ok)
	assert.Equal(t, "test", got)

	_, ok = m.Get("Sealed")
	assert.False(t, ok, "per-entry attributes stay out of the main section")
	assert.Equal(t, "Name: com/example/\r\nSealed: true\r\n", m.Sections())
}

func TestManifest_Render(t *testing.T) {
	var m domain.Manifest
	m.Set(domain.MainClassAttr, "com.example.Main")
	m.Set("X-Long", strings.Repeat("a", 150))

	out := string(m.Render())

	assert.True(t, strings.HasPrefix(out, "Manifest-Version: 1.0\r\n"))
	assert.True(t, strings.HasSuffix(out, "\r\n\r\n"))
	for _, line := range strings.Split(strings.TrimSuffix(out, "\r\n\r\n"), "\r\n") {
		assert.LessOrEqual(t, len(line), 72, line)
	}

	parsed := domain.ParseManifest([]byte(out))
	long, _ := parsed.Get("X-Long")
	assert.Equal(t, strings.Repeat("a", 150), long)
	main, _ := parsed.Get(domain.MainClassAttr)
	assert.Equal(t, "com.example.Main", main)
}

func TestManifest_SetKeepsPosition(t *testing.T) {
	m := domain.ParseManifest([]byte("Manifest-Version: 1.0\nA: 1\nB: 2\n"))
	m.Set("A", "3")

	assert.Equal(t, "Manifest-Version: 1.0\r\nA: 3\r\nB: 2\r\n\r\n", string(m.Render()))
}

func TestManifest_SetIsCaseInsensitive(t *testing.T) {
	m := domain.ParseManifest([]byte("Manifest-Version: 1.0\r\nmain-class: old.Main\r\n"))
	m.Set(domain.MainClassAttr, "new.Main")

	assert.Equal(t, "Manifest-Version: 1.0\r\nmain-class: new.Main\r\n\r\n", string(m.Render()))
}

func TestManifest_RenderKeepsSections(t *testing.T) {
	data := "Manifest-Version: 1.0\r\n" +
		"Created-By: x\r\n" +
		"\r\n" +
		"Name: a/\r\n" +
		"Sealed: true\r\n" +
		"\r\n" +
		"Name: b/B.class\r\n" +
		"SHA-256-Digest: abc=\r\n" +
		"\r\n"

	t.Run("unchanged", func(t *testing.T) {
		m := domain.ParseManifest([]byte(data))
		assert.Equal(t, data, string(m.Render()))
	})

	t.Run("with main attribute added", func(t *testing.T) {
		m := domain.ParseManifest([]byte(data))
		m.Set(domain.MainClassAttr, "com.example.Main")

		want := "Manifest-Version: 1.0\r\n" +
			"Created-By: x\r\n" +
			"Main-Class: com.example.Main\r\n" +
			"\r\n" +
			"Name: a/\r\n" +
			"Sealed: true\r\n" +
			"\r\n" +
			"Name: b/B.class\r\n" +
			"SHA-256-Digest: abc=\r\n" +
			"\r\n"
		assert.Equal(t, want, string(m.Render()))
	})
}

func TestManifest_RenderWrapsOnRuneBoundary(t *testing.T) {
	value := strings.Repeat("é", 40) + strings.Repeat("日本", 30)
	var m domain.Manifest
	m.Set("Implementation-Title", value)

	out := string(m.Render())

	lines := strings.Split(strings.TrimSuffix(out, "\r\n\r\n"), "\r\n")
	require.Greater(t, len(lines), 2)
	for _, line := range lines {
		assert.LessOrEqual(t, len(line), 72, line)
		assert.True(t, utf8.ValidString(line), "line %q splits a rune", line)
	}

	parsed := domain.ParseManifest([]byte(out))
	got, ok := parsed.Get("Implementation-Title")
	require.True(t, ok)
	assert.Equal(t, value, got)
}
