package domain

// Classification describes how much interface metadata a unit natively carries.
// It is a closed set; downstream code switches on it instead of dispatching on types.
type Classification uint8

const (
	// Explicit units already carry a compiled module descriptor.
	Explicit Classification = iota
	// Inferred units declare only a bare self-name (Automatic-Module-Name).
	Inferred
	// Opaque units carry no interface metadata at all.
	Opaque
)

// String returns the lower-case name of the classification.
func (c Classification) String() string {
	switch c {
	case Explicit:
		return "explicit"
	case Inferred:
		return "inferred"
	case Opaque:
		return "opaque"
	default:
		return "unknown"
	}
}

// NeedsDescriptor reports whether units of this classification get a synthesized descriptor.
func (c Classification) NeedsDescriptor() bool {
	return c == Inferred || c == Opaque
}

// UnitSpec carries everything needed to construct a Unit.
type UnitSpec struct {
	Classification Classification
	Name           string
	Version        string
	Source         string
	OutputPath     string
	Stale          bool
	Project        bool
	Artifact       *Artifact
}

// Unit is one distributable component, derived either from a dependency artifact
// or from the project's compiled output directory.
// Classification and staleness are fixed at construction.
type Unit struct {
	classification Classification
	name           InternedString
	version        string
	source         string
	outputPath     string
	stale          bool
	project        bool
	artifact       *Artifact
}

// NewUnit creates a Unit from the given spec.
func NewUnit(spec UnitSpec) *Unit {
	return &Unit{
		classification: spec.Classification,
		name:           NewInternedString(spec.Name),
		version:        spec.Version,
		source:         spec.Source,
		outputPath:     spec.OutputPath,
		stale:          spec.Stale,
		project:        spec.Project,
		artifact:       spec.Artifact,
	}
}

// Classification returns the unit's classification.
func (u *Unit) Classification() Classification { return u.classification }

// Name returns the canonical module name.
func (u *Unit) Name() string { return u.name.String() }

// Version returns the canonical version.
func (u *Unit) Version() string { return u.version }

// Source returns the artifact path, or the compiled output directory for the project unit.
func (u *Unit) Source() string { return u.source }

// OutputPath returns the deterministic location of the conforming archive.
func (u *Unit) OutputPath() string { return u.outputPath }

// Stale reports whether the unit's output is missing or older than its source.
func (u *Unit) Stale() bool { return u.stale }

// Project reports whether the unit is the first-party project output.
func (u *Unit) Project() bool { return u.project }

// Artifact returns the source artifact, or nil for the project unit.
func (u *Unit) Artifact() *Artifact { return u.artifact }

// FileName returns "name-version".
func (u *Unit) FileName() string {
	return u.Name() + "-" + u.version
}
