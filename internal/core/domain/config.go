package domain

// DistributionKind selects the final distribution stage.
type DistributionKind string

const (
	// DistributionNone produces no distribution after the runtime image.
	DistributionNone DistributionKind = "none"
	// DistributionArchive zips the runtime image into dist/.
	DistributionArchive DistributionKind = "archive"
	// DistributionContainer builds a container image from the runtime image.
	DistributionContainer DistributionKind = "container"
)

// Dependency is one configured third-party artifact.
// Path is optional; when empty the artifact is located in the repository.
type Dependency struct {
	Coordinate Coordinate
	Path       string
}

// ProjectConfig describes the first-party unit.
type ProjectConfig struct {
	Name          string
	Version       string
	ClassesDir    string
	MainClass     string
	AutoMainClass bool
}

// RuntimeConfig configures runtime assembly.
type RuntimeConfig struct {
	JDKHome  string
	Modules  []string
	Options  []string
	Launcher string
}

// PackageConfig configures installer generation.
type PackageConfig struct {
	Enabled bool
	Type    string
	Options []string
}

// ContainerConfig configures containerization.
type ContainerConfig struct {
	Image string
	Base  string
}

// BuildConfig is the validated build configuration.
// All paths are absolute.
type BuildConfig struct {
	Root           string
	WorkingDir     string
	RebuildIfNewer bool
	Verbose        bool
	Repository     string

	Project      ProjectConfig
	Dependencies []Dependency

	// OverridesDir holds <name>/module-info.java files used verbatim.
	OverridesDir string
	// Overrides holds partial descriptor overrides keyed by unit name.
	Overrides map[string]Override

	Runtime      RuntimeConfig
	Package      PackageConfig
	Distribution DistributionKind
	Container    ContainerConfig
}

// Layout returns the persisted-path layout of the working directory.
func (c *BuildConfig) Layout() Layout {
	return NewLayout(c.WorkingDir)
}

// OverrideFor returns the partial override for a unit, if any.
func (c *BuildConfig) OverrideFor(name string) (Override, bool) {
	o, ok := c.Overrides[name]
	return o, ok
}
