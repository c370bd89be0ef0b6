package domain

import (
	"strings"
	"unicode"

	"go.trai.ch/zerr"
)

// SanitizeName turns an arbitrary string into a dotted module name.
// Runes that cannot appear in an identifier become separators, runs of
// separators collapse, and segments starting with a digit get a '_' prefix.
func SanitizeName(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			continue
		}
		b.WriteByte('.')
	}

	segments := strings.Split(b.String(), ".")
	kept := segments[:0]
	for _, seg := range segments {
		if seg == "" {
			continue
		}
		if unicode.IsDigit(rune(seg[0])) {
			seg = "_" + seg
		}
		kept = append(kept, seg)
	}
	return strings.Join(kept, ".")
}

// SynthesizeName derives the canonical name of an opaque unit from its coordinate.
func SynthesizeName(c Coordinate) string {
	return SanitizeName(c.Group + "." + c.Name)
}

// WebResourceFolder returns the folder that web resources of the artifact are nested under.
// It is the artifact name with a leading group-id prefix stripped.
func WebResourceFolder(c Coordinate) string {
	name := c.Name
	for _, sep := range []string{".", "-"} {
		if trimmed, ok := strings.CutPrefix(name, c.Group+sep); ok && trimmed != "" {
			return trimmed
		}
	}
	return name
}

// IsModuleName reports whether s is a dot-separated sequence of identifiers.
func IsModuleName(s string) bool {
	if s == "" {
		return false
	}
	for seg := range strings.SplitSeq(s, ".") {
		if !isJavaIdentifier(seg) {
			return false
		}
	}
	return true
}

func isJavaIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || r == '$' || unicode.IsLetter(r):
		case i > 0 && unicode.IsDigit(r):
		default:
			return false
		}
	}
	return true
}

// IsVersion reports whether s can be embedded in a file name below the working directory.
// An empty version is allowed.
func IsVersion(s string) bool {
	if strings.Contains(s, "..") {
		return false
	}
	return !strings.ContainsAny(s, "/\\:\x00")
}

// ValidateUnitName checks a unit name and version read from an artifact before
// they are used to build working-directory paths.
func ValidateUnitName(name, version string) error {
	if !IsModuleName(name) {
		return zerr.With(zerr.With(ErrInvalidDescriptor, "reason", "module name is not a dotted identifier"), "name", name)
	}
	if !IsVersion(version) {
		return zerr.With(zerr.With(ErrInvalidDescriptor, "reason", "version cannot be used in a file name"), "version", version)
	}
	return nil
}
