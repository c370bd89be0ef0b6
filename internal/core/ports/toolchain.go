package ports

import (
	"context"
	"io"
)

// ToolInvocation describes one external tool run.
type ToolInvocation struct {
	// Tool is the executable name.
	Tool string
	// Home, when set, resolves the executable as <Home>/bin/<Tool> instead of through PATH.
	Home string
	Args []string
	Dir  string
	// Verbose streams the tool output to the logger instead of buffering it for error reports.
	Verbose bool
	// Stdout, when set, additionally receives the tool's standard output.
	Stdout io.Writer
}

// ToolRunner runs external tools.
//
//go:generate go run go.uber.org/mock/mockgen -source=toolchain.go -destination=mocks/mock_toolchain.go -package=mocks
type ToolRunner interface {
	// Run executes the tool and waits for it to finish.
	// A non-zero exit fails with domain.ErrToolFailed.
	Run(ctx context.Context, inv ToolInvocation) error
}

// AnalyzeRequest describes one dependency analysis.
type AnalyzeRequest struct {
	// Archive is the unit copy whose file name carries the unit name and version.
	Archive    string
	ModulePath []string
	OutputDir  string
	ModuleName string
}

// DependencyAnalyzer infers a descriptor for an archive.
type DependencyAnalyzer interface {
	// Analyze returns the generated module-info.java text.
	Analyze(ctx context.Context, req AnalyzeRequest) (string, error)
}

// CompileUnit is one descriptor to compile.
type CompileUnit struct {
	Name    string
	Version string
	// SourceDir holds the unpacked classes and module-info.java; the class file is written next to it.
	SourceDir string
}

// CompileRequest compiles several descriptors in one batch.
type CompileRequest struct {
	Units      []CompileUnit
	ModulePath []string
}

// DescriptorCompiler compiles descriptor sources against already compiled classes.
type DescriptorCompiler interface {
	Compile(ctx context.Context, req CompileRequest) error
}

// LinkRequest describes a runtime image assembly.
type LinkRequest struct {
	ModulePath []string
	Modules    []string
	Output     string
	Launcher   string
	Options    []string
}

// RuntimeLinker assembles a runtime image.
type RuntimeLinker interface {
	Link(ctx context.Context, req LinkRequest) error
}

// PackageRequest describes an installer generation.
type PackageRequest struct {
	Name       string
	Version    string
	Type       string
	RuntimeDir string
	Module     string
	MainClass  string
	Output     string
	Options    []string
}

// ApplicationPackager generates an installable package.
type ApplicationPackager interface {
	Package(ctx context.Context, req PackageRequest) error
}

// ToolchainOptions selects the JDK installation and output mode.
type ToolchainOptions struct {
	JDKHome string
	Verbose bool
}

// Toolchain groups the JDK tools.
type Toolchain interface {
	DependencyAnalyzer
	DescriptorCompiler
	RuntimeLinker
	ApplicationPackager

	// With returns a toolchain bound to the given options.
	With(opts ToolchainOptions) Toolchain
}

// ContainerRequest describes a container image build.
type ContainerRequest struct {
	ContextDir string
	Dockerfile string
	Image      string
	IDFile     string
	Verbose    bool
}

// ContainerBuilder builds container images.
type ContainerBuilder interface {
	Build(ctx context.Context, req ContainerRequest) error
}
