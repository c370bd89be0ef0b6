// Package shell runs external tools as child processes.
package shell

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"go.trai.ch/modpack/internal/core/domain"
	"go.trai.ch/modpack/internal/core/ports"
	"go.trai.ch/zerr"
)

// tailLines is the number of output lines kept for failure reports.
const tailLines = 40

// Runner implements ports.ToolRunner using os/exec.
type Runner struct {
	logger ports.Logger
}

// NewRunner creates a new Runner.
func NewRunner(logger ports.Logger) *Runner {
	return &Runner{logger: logger}
}

// Run executes the tool and waits for it to finish.
//
// Without Verbose the combined output is buffered and its tail is attached to
// the failure. With Verbose every output line is logged at debug level as it
// arrives.
func (r *Runner) Run(ctx context.Context, inv ports.ToolInvocation) error {
	executable, err := r.resolve(inv)
	if err != nil {
		return r.failure(inv, err, -1, "")
	}

	cmd := exec.CommandContext(ctx, executable, inv.Args...) //nolint:gosec // tool paths come from configuration
	if len(cmd.Args) > 0 {
		cmd.Args[0] = inv.Tool
	}
	if inv.Dir != "" {
		cmd.Dir = inv.Dir
	}
	cmd.Env = os.Environ()

	var sink io.Writer
	var captured *tail
	var stream *logWriter
	if inv.Verbose {
		stream = &logWriter{logger: r.logger, prefix: inv.Tool + ": "}
		sink = stream
	} else {
		captured = &tail{}
		sink = captured
	}

	// Stdout and Stderr share the sink, so writes are serialized.
	shared := &lockedWriter{w: sink}
	cmd.Stderr = shared
	cmd.Stdout = shared
	if inv.Stdout != nil {
		cmd.Stdout = io.MultiWriter(shared, inv.Stdout)
	}

	runErr := cmd.Run()
	if stream != nil {
		stream.Flush()
	}
	if runErr == nil {
		return nil
	}

	exitCode := -1
	var exitErr *exec.ExitError
	if errors.As(runErr, &exitErr) {
		exitCode = exitErr.ExitCode()
	}
	output := ""
	if captured != nil {
		output = captured.String()
	}
	return r.failure(inv, runErr, exitCode, output)
}

func (r *Runner) resolve(inv ports.ToolInvocation) (string, error) {
	if inv.Home != "" {
		path := filepath.Join(inv.Home, "bin", inv.Tool)
		if err := findExecutable(path); err != nil {
			return "", err
		}
		return path, nil
	}
	if filepath.IsAbs(inv.Tool) {
		return inv.Tool, nil
	}
	return lookPath(inv.Tool, os.Getenv("PATH"))
}

func (r *Runner) failure(inv ports.ToolInvocation, cause error, exitCode int, output string) error {
	msg := domain.ErrToolFailed.Error()
	if !inv.Verbose {
		if output != "" {
			msg += "\n" + output
		}
		msg += "\n" + domain.VerboseHint
	}
	err := zerr.Wrap(cause, msg)
	err = zerr.With(err, "tool", inv.Tool)
	return zerr.With(err, "exit_code", exitCode)
}

// lookPath searches for an executable in the directories of a PATH list.
func lookPath(file, path string) (string, error) {
	if path == "" {
		return "", exec.ErrNotFound
	}
	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			// Unix shell semantics: path element "" means "."
			dir = "."
		}
		candidate := filepath.Join(dir, file)
		if err := findExecutable(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", zerr.With(exec.ErrNotFound, "tool", file)
}

func findExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0o111 != 0 {
		return nil
	}
	return os.ErrPermission
}

type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

// tail keeps the last tailLines lines written to it.
type tail struct {
	lines   []string
	partial bytes.Buffer
}

func (t *tail) Write(p []byte) (int, error) {
	t.partial.Write(p)
	for {
		line, err := t.partial.ReadString('\n')
		if err != nil {
			// Keep the unterminated fragment for the next write.
			t.partial.Reset()
			t.partial.WriteString(line)
			break
		}
		t.push(strings.TrimRight(line, "\r\n"))
	}
	return len(p), nil
}

func (t *tail) push(line string) {
	t.lines = append(t.lines, line)
	if len(t.lines) > tailLines {
		t.lines = t.lines[len(t.lines)-tailLines:]
	}
}

func (t *tail) String() string {
	lines := t.lines
	if t.partial.Len() > 0 {
		lines = append(lines[:len(lines):len(lines)], t.partial.String())
	}
	return strings.Join(lines, "\n")
}

// logWriter forwards complete lines to the debug log.
type logWriter struct {
	logger ports.Logger
	prefix string
	buf    bytes.Buffer
}

func (w *logWriter) Write(p []byte) (int, error) {
	w.buf.Write(p)
	for {
		line, err := w.buf.ReadString('\n')
		if err != nil {
			w.buf.Reset()
			w.buf.WriteString(line)
			break
		}
		w.logger.Debug(w.prefix + strings.TrimRight(line, "\r\n"))
	}
	return len(p), nil
}

// Flush logs any unterminated trailing output.
func (w *logWriter) Flush() {
	if w.buf.Len() > 0 {
		w.logger.Debug(w.prefix + w.buf.String())
		w.buf.Reset()
	}
}
