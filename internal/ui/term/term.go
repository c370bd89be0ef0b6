// Package term holds the terminal colors, icons and output setup shared by the
// log handler and the progress renderer.
package term

import (
	"io"
	"os"

	"github.com/muesli/termenv"
	xterm "golang.org/x/term"
)

// Colors, as hex strings for termenv.RGBColor.
const (
	Slate  = "#667085"
	Iris   = "#8B5CF6"
	Green  = "#22A06B"
	Red    = "#D93025"
	Yellow = "#F59E0B"
)

// Icons.
const (
	Check   = "✓"
	Cross   = "✗"
	Warning = "!"
	Tilde   = "~"
	Dot     = "●"
)

// Mode selects how output is styled.
type Mode int

const (
	// ModeColor styles output with the environment's color profile.
	ModeColor Mode = iota
	// ModePlain writes no escape codes.
	ModePlain
)

// DetectMode returns ModePlain when NO_COLOR or CI is set, or when f is not a terminal.
func DetectMode(f *os.File) Mode {
	if os.Getenv("NO_COLOR") != "" {
		return ModePlain
	}
	if ci := os.Getenv("CI"); ci == "true" || ci == "1" {
		return ModePlain
	}
	if f == nil || !xterm.IsTerminal(int(f.Fd())) { //nolint:gosec // fd fits in int
		return ModePlain
	}
	return ModeColor
}

// Profile returns the color profile for output written to f.
func Profile(f *os.File) termenv.Profile {
	if DetectMode(f) == ModePlain {
		return termenv.Ascii
	}
	return termenv.EnvColorProfile()
}

// NewOutput wraps w in a termenv output. A nil w means stderr. Writers that are
// not files are styled like stderr.
func NewOutput(w io.Writer) *termenv.Output {
	if w == nil {
		w = os.Stderr
	}
	f, ok := w.(*os.File)
	if !ok {
		f = os.Stderr
	}
	return termenv.NewOutput(w, termenv.WithProfile(Profile(f)), termenv.WithTTY(true))
}

// Paint renders s in the given hex color on out.
func Paint(out *termenv.Output, s, hex string) string {
	return out.String(s).Foreground(out.Color(hex)).String()
}
