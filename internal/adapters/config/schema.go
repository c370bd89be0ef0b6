package config

// Modpackfile represents the structure of the modpack.yaml configuration file.
type Modpackfile struct {
	Version        string          `yaml:"version"`
	Root           string          `yaml:"root"`
	WorkingDir     string          `yaml:"workingDir"`
	Repository     string          `yaml:"repository"`
	RebuildIfNewer bool            `yaml:"rebuildIfNewer"`
	Project        ProjectDTO      `yaml:"project"`
	Dependencies   []DependencyDTO `yaml:"dependencies"`
	Overrides      OverridesDTO    `yaml:"overrides"`
	Runtime        RuntimeDTO      `yaml:"runtime"`
	Package        PackageDTO      `yaml:"package"`
	Distribution   string          `yaml:"distribution"`
	Container      *ContainerDTO   `yaml:"container"`
}

// ProjectDTO describes the first-party compiled output.
type ProjectDTO struct {
	Name          string `yaml:"name"`
	Version       string `yaml:"version"`
	Classes       string `yaml:"classes"`
	MainClass     string `yaml:"mainClass"`
	AutoMainClass bool   `yaml:"autoMainClass"`
}

// DependencyDTO is one dependency entry. It accepts either a bare
// "group:name:version" scalar or a mapping with an explicit path.
type DependencyDTO struct {
	Coordinate string `yaml:"coordinate"`
	Path       string `yaml:"path"`
}

// OverridesDTO holds the override directory and the partial overrides per unit.
type OverridesDTO struct {
	Dir     string                 `yaml:"dir"`
	Modules map[string]OverrideDTO `yaml:"modules"`
}

// OverrideDTO is the partial override of one unit.
type OverrideDTO struct {
	Open       *bool          `yaml:"open"`
	Directives []DirectiveDTO `yaml:"directives"`
}

// DirectiveDTO is one override directive. Exactly one of the kind fields is set.
type DirectiveDTO struct {
	Requires  string   `yaml:"requires"`
	Exports   string   `yaml:"exports"`
	Opens     string   `yaml:"opens"`
	Uses      string   `yaml:"uses"`
	Provides  string   `yaml:"provides"`
	Modifiers []string `yaml:"modifiers"`
	To        []string `yaml:"to"`
	With      []string `yaml:"with"`
	Remove    bool     `yaml:"remove"`
}

// RuntimeDTO configures runtime assembly.
type RuntimeDTO struct {
	JDKHome  string   `yaml:"jdkHome"`
	Modules  []string `yaml:"modules"`
	Options  []string `yaml:"options"`
	Launcher string   `yaml:"launcher"`
}

// PackageDTO configures installer generation.
type PackageDTO struct {
	Enabled bool     `yaml:"enabled"`
	Type    string   `yaml:"type"`
	Options []string `yaml:"options"`
}

// ContainerDTO configures containerization.
type ContainerDTO struct {
	Image string `yaml:"image"`
	Base  string `yaml:"base"`
}
