package domain

import (
	"strings"
	"unicode/utf8"
)

// AutomaticModuleNameAttr is the manifest attribute carrying a unit's self-name.
const AutomaticModuleNameAttr = "Automatic-Module-Name"

// MainClassAttr is the manifest attribute naming the launcher class.
const MainClassAttr = "Main-Class"

const manifestLineLimit = 72

// Manifest is the main section of a jar manifest, in declaration order.
// Per-entry sections are carried verbatim.
type Manifest struct {
	keys     []string
	values   map[string]string
	sections string
}

// ParseManifest parses the main section of a manifest. Continuation lines
// (starting with a single space) are joined. Everything after the blank line
// closing the main section is kept as is and written back by Render.
func ParseManifest(data []byte) Manifest {
	m := Manifest{values: make(map[string]string)}
	text := string(data)

	var lastKey string
	for text != "" {
		var line string
		line, text = nextManifestLine(text)
		if line == "" {
			if len(m.keys) > 0 {
				m.sections = text
				break
			}
			continue
		}
		if strings.HasPrefix(line, " ") {
			if lastKey != "" {
				m.values[lastKey] += line[1:]
			}
			continue
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			lastKey = ""
			continue
		}
		key = m.Set(strings.TrimSpace(key), strings.TrimPrefix(value, " "))
		lastKey = key
	}
	return m
}

// nextManifestLine splits off the first line. CRLF, CR and LF all end a line.
func nextManifestLine(s string) (line, rest string) {
	i := strings.IndexAny(s, "\r\n")
	if i < 0 {
		return s, ""
	}
	line, rest = s[:i], s[i+1:]
	if s[i] == '\r' && strings.HasPrefix(rest, "\n") {
		rest = rest[1:]
	}
	return line, rest
}

// Get returns the value of an attribute. Lookup is case-insensitive, as in the jar format.
func (m Manifest) Get(key string) (string, bool) {
	if k, ok := m.lookup(key); ok {
		return m.values[k], true
	}
	return "", false
}

func (m Manifest) lookup(key string) (string, bool) {
	if _, ok := m.values[key]; ok {
		return key, true
	}
	for _, k := range m.keys {
		if strings.EqualFold(k, key) {
			return k, true
		}
	}
	return "", false
}

// Set adds or replaces an attribute and returns the key it is stored under.
// A replaced attribute keeps its original spelling and position.
func (m *Manifest) Set(key, value string) string {
	if m.values == nil {
		m.values = make(map[string]string)
	}
	if existing, ok := m.lookup(key); ok {
		key = existing
	} else {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
	return key
}

// Sections returns the per-entry sections following the main section, unparsed.
func (m Manifest) Sections() string {
	return m.sections
}

// Render writes the manifest with 72-byte line wrapping, followed by the
// per-entry sections it was parsed with.
func (m Manifest) Render() []byte {
	var b strings.Builder
	if _, ok := m.lookup("Manifest-Version"); !ok {
		b.WriteString("Manifest-Version: 1.0\r\n")
	}
	for _, k := range m.keys {
		writeManifestLine(&b, k+": "+m.values[k])
	}
	b.WriteString("\r\n")
	b.WriteString(m.sections)
	return []byte(b.String())
}

// writeManifestLine wraps line at manifestLineLimit bytes without splitting a rune.
func writeManifestLine(b *strings.Builder, line string) {
	limit := manifestLineLimit
	for len(line) > limit {
		cut := limit
		for cut > 1 && !utf8.RuneStart(line[cut]) {
			cut--
		}
		b.WriteString(line[:cut])
		b.WriteString("\r\n ")
		line = line[cut:]
		limit = manifestLineLimit - 1
	}
	b.WriteString(line)
	b.WriteString("\r\n")
}
