// Package container builds container images with the docker CLI.
package container

import (
	"context"

	"go.trai.ch/modpack/internal/core/ports"
	"go.trai.ch/zerr"
)

// DefaultTool is the container CLI used when none is configured.
const DefaultTool = "docker"

// Builder implements ports.ContainerBuilder.
type Builder struct {
	runner ports.ToolRunner
	tool   string
}

// NewBuilder creates a Builder invoking the docker CLI.
func NewBuilder(runner ports.ToolRunner) *Builder {
	return &Builder{runner: runner, tool: DefaultTool}
}

// Build runs "docker build" and records the image id in req.IDFile.
func (b *Builder) Build(ctx context.Context, req ports.ContainerRequest) error {
	args := []string{"build"}
	if req.Dockerfile != "" {
		args = append(args, "--file", req.Dockerfile)
	}
	if req.Image != "" {
		args = append(args, "--tag", req.Image)
	}
	if req.IDFile != "" {
		args = append(args, "--iidfile", req.IDFile)
	}
	args = append(args, req.ContextDir)

	err := b.runner.Run(ctx, ports.ToolInvocation{
		Tool:    b.tool,
		Args:    args,
		Dir:     req.ContextDir,
		Verbose: req.Verbose,
	})
	if err != nil {
		return zerr.With(err, "image", req.Image)
	}
	return nil
}
