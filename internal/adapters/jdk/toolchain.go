// Package jdk drives the JDK command line tools.
package jdk

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/modpack/internal/core/domain"
	"go.trai.ch/modpack/internal/core/ports"
	"go.trai.ch/zerr"
)

// Tool names.
const (
	ToolJdeps    = "jdeps"
	ToolJavac    = "javac"
	ToolJlink    = "jlink"
	ToolJpackage = "jpackage"
)

// Toolchain implements ports.Toolchain on top of a ports.ToolRunner.
type Toolchain struct {
	runner ports.ToolRunner
	opts   ports.ToolchainOptions
}

// New creates a Toolchain that resolves tools through PATH.
func New(runner ports.ToolRunner) *Toolchain {
	return &Toolchain{runner: runner}
}

// With returns a copy bound to the given options.
func (t *Toolchain) With(opts ports.ToolchainOptions) ports.Toolchain {
	return &Toolchain{runner: t.runner, opts: opts}
}

func (t *Toolchain) run(ctx context.Context, tool string, args ...string) error {
	return t.runner.Run(ctx, ports.ToolInvocation{
		Tool:    tool,
		Home:    t.opts.JDKHome,
		Args:    args,
		Verbose: t.opts.Verbose,
	})
}

// Analyze runs jdeps --generate-module-info and returns the generated source.
func (t *Toolchain) Analyze(ctx context.Context, req ports.AnalyzeRequest) (string, error) {
	if err := os.RemoveAll(req.OutputDir); err != nil {
		return "", zerr.Wrap(err, "failed to clear analysis output")
	}

	args := []string{"--ignore-missing-deps", "--multi-release", "base"}
	if mp := joinPath(req.ModulePath); mp != "" {
		args = append(args, "--module-path", mp)
	}
	args = append(args, "--generate-module-info", req.OutputDir, req.Archive)
	if err := t.run(ctx, ToolJdeps, args...); err != nil {
		return "", err
	}

	path, err := generatedSource(req.OutputDir, req.ModuleName)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path) //nolint:gosec // path lies below the analysis output dir
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to read generated descriptor"), "path", path)
	}
	return string(data), nil
}

// generatedSource locates <out>/<module>/module-info.java. The analyzer derives
// the directory name itself, so a single generated descriptor under another
// name is accepted.
func generatedSource(outputDir, module string) (string, error) {
	want := filepath.Join(outputDir, module, domain.DescriptorSourceName)
	if _, err := os.Stat(want); err == nil {
		return want, nil
	}

	matches, err := filepath.Glob(filepath.Join(outputDir, "*", domain.DescriptorSourceName))
	if err != nil {
		return "", zerr.Wrap(err, "failed to scan analysis output")
	}
	// jdeps writes versioned descriptors below versions/<n>/ for multi-release jars.
	if len(matches) == 0 {
		matches, _ = filepath.Glob(filepath.Join(outputDir, "*", "versions", "*", domain.DescriptorSourceName))
	}
	if len(matches) != 1 {
		err := zerr.With(domain.ErrInvalidDescriptor, "module", module)
		return "", zerr.With(err, "generated", len(matches))
	}
	return matches[0], nil
}

// Compile runs javac once per unit, patching the descriptor into the unit's
// unpacked classes. The class file is written next to the source.
func (t *Toolchain) Compile(ctx context.Context, req ports.CompileRequest) error {
	for _, unit := range req.Units {
		args := []string{"-nowarn", "-d", unit.SourceDir}
		if unit.Version != "" {
			args = append(args, "--module-version", unit.Version)
		}
		if mp := joinPath(without(req.ModulePath, unit.SourceDir)); mp != "" {
			args = append(args, "--module-path", mp)
		}
		args = append(args,
			"--patch-module", unit.Name+"="+unit.SourceDir,
			filepath.Join(unit.SourceDir, domain.DescriptorSourceName),
		)
		if err := t.run(ctx, ToolJavac, args...); err != nil {
			return zerr.With(err, "unit", unit.Name)
		}
	}
	return nil
}

// Link runs jlink. The JDK's own jmods are appended to the module path when present.
func (t *Toolchain) Link(ctx context.Context, req ports.LinkRequest) error {
	modulePath := req.ModulePath
	if jmods := t.jmodsDir(); jmods != "" {
		modulePath = append(modulePath[:len(modulePath):len(modulePath)], jmods)
	}

	args := []string{
		"--module-path", joinPath(modulePath),
		"--add-modules", strings.Join(req.Modules, ","),
		"--output", req.Output,
	}
	if req.Launcher != "" {
		args = append(args, "--launcher", req.Launcher)
	}
	args = append(args, req.Options...)
	return t.run(ctx, ToolJlink, args...)
}

// Package runs jpackage against an assembled runtime image.
func (t *Toolchain) Package(ctx context.Context, req ports.PackageRequest) error {
	module := req.Module
	if req.MainClass != "" {
		module += "/" + req.MainClass
	}

	args := []string{"--name", req.Name}
	if req.Type != "" {
		args = append(args, "--type", req.Type)
	}
	if req.Version != "" {
		args = append(args, "--app-version", req.Version)
	}
	args = append(args,
		"--runtime-image", req.RuntimeDir,
		"--module", module,
		"--dest", req.Output,
	)
	args = append(args, req.Options...)
	return t.run(ctx, ToolJpackage, args...)
}

func (t *Toolchain) jmodsDir() string {
	if t.opts.JDKHome == "" {
		return ""
	}
	dir := filepath.Join(t.opts.JDKHome, "jmods")
	if info, err := os.Stat(dir); err == nil && info.IsDir() {
		return dir
	}
	return ""
}

func joinPath(entries []string) string {
	return strings.Join(entries, string(os.PathListSeparator))
}

func without(entries []string, drop string) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if filepath.Clean(e) != filepath.Clean(drop) {
			out = append(out, e)
		}
	}
	return out
}
