// Package config provides the configuration loader for modpack.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"go.trai.ch/modpack/internal/core/domain"
	"go.trai.ch/modpack/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// SupportedVersion is the only configuration schema version understood.
const SupportedVersion = "1"

var launcherNameRegex = regexp.MustCompile("^[a-zA-Z0-9_.-]+$")

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Discover walks up from dir until it finds a modpack.yaml.
func (l *Loader) Discover(dir string) (string, error) {
	current, err := filepath.Abs(dir)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to resolve directory"), "dir", dir)
	}
	for {
		candidate := filepath.Join(current, domain.ConfigFileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
		parent := filepath.Dir(current)
		if parent == current {
			// Reached root
			return "", zerr.With(domain.ErrConfigNotFound, "cwd", dir)
		}
		current = parent
	}
}

// Load reads, validates and converts the configuration file at path.
func (l *Loader) Load(path string) (*domain.BuildConfig, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", path)
	}

	var file Modpackfile
	if err := readAndUnmarshalYAML(absPath, &file); err != nil {
		return nil, zerr.With(err, "path", absPath)
	}

	cfg, err := l.convert(absPath, &file)
	if err != nil {
		return nil, zerr.With(err, "path", absPath)
	}
	return cfg, nil
}

func (l *Loader) convert(configPath string, file *Modpackfile) (*domain.BuildConfig, error) {
	if file.Version != "" && file.Version != SupportedVersion {
		return nil, invalid("unsupported version", "version", file.Version)
	}

	root := resolveRoot(configPath, file.Root)
	cfg := &domain.BuildConfig{
		Root:           root,
		WorkingDir:     resolvePath(root, orDefault(file.WorkingDir, domain.DefaultWorkingDir)),
		RebuildIfNewer: file.RebuildIfNewer,
	}

	repository, err := resolveRepository(root, file.Repository)
	if err != nil {
		return nil, err
	}
	cfg.Repository = repository

	if cfg.Project, err = convertProject(root, file.Project); err != nil {
		return nil, err
	}
	if cfg.Dependencies, err = convertDependencies(root, file.Dependencies); err != nil {
		return nil, err
	}
	if file.Overrides.Dir != "" {
		cfg.OverridesDir = resolvePath(root, file.Overrides.Dir)
	}
	if cfg.Overrides, err = convertOverrides(file.Overrides.Modules); err != nil {
		return nil, err
	}
	if cfg.Runtime, err = convertRuntime(root, file.Runtime); err != nil {
		return nil, err
	}
	cfg.Package = domain.PackageConfig{
		Enabled: file.Package.Enabled,
		Type:    file.Package.Type,
		Options: file.Package.Options,
	}
	if !file.Package.Enabled && (file.Package.Type != "" || len(file.Package.Options) > 0) {
		l.Logger.Warn("'package' settings have no effect while package.enabled is false")
	}

	switch kind := domain.DistributionKind(orDefault(file.Distribution, string(domain.DistributionNone))); kind {
	case domain.DistributionNone, domain.DistributionArchive, domain.DistributionContainer:
		cfg.Distribution = kind
	default:
		return nil, invalid("unknown distribution", "distribution", file.Distribution)
	}

	if file.Container != nil {
		cfg.Container = domain.ContainerConfig{Image: file.Container.Image, Base: file.Container.Base}
		if cfg.Distribution != domain.DistributionContainer {
			l.Logger.Warn(fmt.Sprintf("'container' has no effect with distribution %q", cfg.Distribution))
		}
	}

	return cfg, nil
}

func convertProject(root string, dto ProjectDTO) (domain.ProjectConfig, error) {
	if dto.Classes == "" {
		return domain.ProjectConfig{}, invalid("project.classes is required", "field", "project.classes")
	}
	return domain.ProjectConfig{
		Name:          dto.Name,
		Version:       dto.Version,
		ClassesDir:    resolvePath(root, dto.Classes),
		MainClass:     dto.MainClass,
		AutoMainClass: dto.AutoMainClass,
	}, nil
}

func convertDependencies(root string, dtos []DependencyDTO) ([]domain.Dependency, error) {
	deps := make([]domain.Dependency, 0, len(dtos))
	seen := make(map[string]int, len(dtos))
	for i, dto := range dtos {
		c, err := domain.ParseCoordinate(dto.Coordinate)
		if err != nil {
			return nil, zerr.With(err, "dependency", i)
		}
		key := c.Group + ":" + c.Name
		if first, ok := seen[key]; ok {
			err := invalid("duplicate dependency", "dependency", key)
			return nil, zerr.With(zerr.With(err, "first_occurrence", first), "duplicate_at", i)
		}
		seen[key] = i

		dep := domain.Dependency{Coordinate: c}
		if dto.Path != "" {
			dep.Path = resolvePath(root, dto.Path)
		}
		deps = append(deps, dep)
	}
	return deps, nil
}

func convertOverrides(dtos map[string]OverrideDTO) (map[string]domain.Override, error) {
	if len(dtos) == 0 {
		return nil, nil
	}
	out := make(map[string]domain.Override, len(dtos))
	for name, dto := range dtos {
		o := domain.Override{Open: dto.Open}
		for i, d := range dto.Directives {
			dir, err := convertDirective(d)
			if err != nil {
				return nil, zerr.With(zerr.With(err, "unit", name), "directive", i)
			}
			o.Directives = append(o.Directives, dir)
		}
		out[name] = o
	}
	return out, nil
}

func convertDirective(dto DirectiveDTO) (domain.Directive, error) {
	var set []domain.Directive
	for kind, name := range map[domain.DirectiveKind]string{
		domain.Requires: dto.Requires,
		domain.Exports:  dto.Exports,
		domain.Opens:    dto.Opens,
		domain.Uses:     dto.Uses,
		domain.Provides: dto.Provides,
	} {
		if name != "" {
			set = append(set, domain.Directive{Kind: kind, Name: name})
		}
	}
	if len(set) != 1 {
		return domain.Directive{}, invalid("override directive must name exactly one kind", "kinds", len(set))
	}

	dir := set[0]
	dir.Remove = dto.Remove
	if len(dto.Modifiers) > 0 {
		if dir.Kind != domain.Requires {
			return domain.Directive{}, invalid("modifiers only apply to requires", "kind", dir.Kind.String())
		}
		for _, m := range dto.Modifiers {
			if m != "transitive" && m != "static" {
				return domain.Directive{}, invalid("unknown requires modifier", "modifier", m)
			}
		}
		dir.Modifiers = dto.Modifiers
	}
	if len(dto.To) > 0 {
		if dir.Kind != domain.Exports && dir.Kind != domain.Opens {
			return domain.Directive{}, invalid("'to' only applies to exports and opens", "kind", dir.Kind.String())
		}
		dir.Targets = dto.To
	}
	if len(dto.With) > 0 {
		if dir.Kind != domain.Provides {
			return domain.Directive{}, invalid("'with' only applies to provides", "kind", dir.Kind.String())
		}
		dir.Targets = dto.With
	}
	if dir.Kind == domain.Provides && !dir.Remove && len(dir.Targets) == 0 {
		return domain.Directive{}, invalid("provides needs at least one 'with' implementation", "service", dir.Name)
	}
	return dir, nil
}

func convertRuntime(root string, dto RuntimeDTO) (domain.RuntimeConfig, error) {
	if dto.Launcher != "" && !launcherNameRegex.MatchString(dto.Launcher) {
		return domain.RuntimeConfig{}, invalid("invalid launcher name", "launcher", dto.Launcher)
	}
	home := dto.JDKHome
	if home == "" {
		home = os.Getenv("JAVA_HOME")
	}
	if home != "" {
		home = resolvePath(root, expandHome(home))
	}
	return domain.RuntimeConfig{
		JDKHome:  home,
		Modules:  dto.Modules,
		Options:  dto.Options,
		Launcher: dto.Launcher,
	}, nil
}

func resolveRepository(root, configured string) (string, error) {
	if configured != "" {
		return resolvePath(root, expandHome(configured)), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", zerr.Wrap(err, "failed to locate the local repository")
	}
	return filepath.Join(home, ".m2", "repository"), nil
}

// UnmarshalYAML accepts a bare coordinate scalar or a mapping.
func (d *DependencyDTO) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		d.Coordinate = node.Value
		return nil
	}
	type plain DependencyDTO
	return node.Decode((*plain)(d))
}

func invalid(reason, key string, value any) error {
	return zerr.With(zerr.With(domain.ErrInvalidConfig, "reason", reason), key, value)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}

func resolvePath(root, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Clean(filepath.Join(root, p))
}

func resolveRoot(configPath, configuredRoot string) string {
	configDir := filepath.Dir(configPath)
	if configuredRoot == "" {
		return filepath.Clean(configDir)
	}
	return resolvePath(configDir, configuredRoot)
}

// readAndUnmarshalYAML reads a YAML file and strictly decodes it into target.
// An empty file decodes to the zero value.
func readAndUnmarshalYAML[T any](configPath string, target *T) error {
	// #nosec G304 -- configPath is provided by the user
	f, err := os.Open(configPath)
	if err != nil {
		return zerr.Wrap(err, domain.ErrConfigReadFailed.Error())
	}
	defer func() { _ = f.Close() }()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(target); err != nil && !errors.Is(err, io.EOF) {
		return zerr.Wrap(err, domain.ErrConfigParseFailed.Error())
	}
	return nil
}
