package domain

import "go.trai.ch/zerr"

var (
	// ErrTaskAlreadyExists is returned when attempting to add a stage with a name that already exists.
	ErrTaskAlreadyExists = zerr.New("stage already exists")

	// ErrMissingDependency is returned when a stage references a dependency that doesn't exist in the graph.
	ErrMissingDependency = zerr.New("missing dependency")

	// ErrCycleDetected is returned when a cycle is detected in the stage dependency graph.
	ErrCycleDetected = zerr.New("cycle detected")

	// ErrArtifactNotFound is returned when a dependency artifact cannot be located on disk.
	ErrArtifactNotFound = zerr.New("artifact not found")

	// ErrInvalidCoordinate is returned when a dependency coordinate is not group:name:version.
	ErrInvalidCoordinate = zerr.New("invalid coordinate, expected group:name:version")

	// ErrCorruptArtifact is returned when an artifact cannot be opened or read as an archive.
	ErrCorruptArtifact = zerr.New("unreadable or corrupt artifact")

	// ErrEntryEscapesRoot is returned when an archive entry resolves outside of its unpack root.
	ErrEntryEscapesRoot = zerr.New("archive entry escapes unpack root")

	// ErrProjectNotModular is returned when the project output carries no module descriptor.
	ErrProjectNotModular = zerr.New("project output has no module-info.class")

	// ErrInvalidDescriptor is returned when descriptor source text cannot be parsed
	// or a module name or version is unusable.
	ErrInvalidDescriptor = zerr.New("invalid module descriptor")

	// ErrInvalidClassFile is returned when class file bytes cannot be decoded.
	ErrInvalidClassFile = zerr.New("invalid class file")

	// ErrTypeNotFound is returned by type loaders when a type is absent from every root.
	ErrTypeNotFound = zerr.New("type not found")

	// ErrToolFailed is returned when an external tool exits with a non-zero status.
	ErrToolFailed = zerr.New("external tool failed")

	// ErrAnalysisFailed is returned when dependency analysis cannot infer a descriptor.
	ErrAnalysisFailed = zerr.New("dependency analysis failed")

	// ErrCompileFailed is returned when descriptor sources fail to compile.
	ErrCompileFailed = zerr.New("descriptor compilation failed")

	// ErrNoEntryPoint is returned when an entry point is required but none was found.
	ErrNoEntryPoint = zerr.New("no entry point found")

	// ErrAmbiguousEntryPoint is returned when several entry points qualify and none was configured.
	ErrAmbiguousEntryPoint = zerr.New("multiple entry points found, set project.mainClass")

	// ErrStageFailed is returned by the orchestrator when a stage fails.
	ErrStageFailed = zerr.New("stage failed")

	// ErrBuildExecutionFailed is returned when the build execution fails.
	ErrBuildExecutionFailed = zerr.New("build execution failed")

	// ErrConfigNotFound is returned when no configuration file is found in the directory tree.
	ErrConfigNotFound = zerr.New("could not find " + ConfigFileName)

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrInvalidConfig is returned when the configuration is structurally valid YAML but semantically wrong.
	ErrInvalidConfig = zerr.New("invalid configuration")

	// ErrUnitNotFound is returned when a unit name does not match any classified unit.
	ErrUnitNotFound = zerr.New("unit not found")

	// ErrStoreWriteFailed is returned when the build report cannot be written.
	ErrStoreWriteFailed = zerr.New("failed to write build report")

	// ErrStoreReadFailed is returned when the build report cannot be read.
	ErrStoreReadFailed = zerr.New("failed to read build report")
)

// VerboseHint is appended to tool failures when full tool output was suppressed.
const VerboseHint = "re-run with --verbose to see the full tool output"
