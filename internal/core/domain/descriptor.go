package domain

import (
	"slices"
	"strings"
)

// DirectiveKind is one of the five typed directive lists of a descriptor.
type DirectiveKind uint8

const (
	// Requires declares a dependency on another module.
	Requires DirectiveKind = iota
	// Exports makes a package accessible to other modules.
	Exports
	// Opens makes a package reflectively accessible to other modules.
	Opens
	// Uses declares consumption of a service type.
	Uses
	// Provides declares implementations of a service type.
	Provides
)

// DirectiveKinds lists every kind in rendering order.
var DirectiveKinds = [...]DirectiveKind{Requires, Exports, Opens, Uses, Provides}

// String returns the keyword of the directive kind.
func (k DirectiveKind) String() string {
	switch k {
	case Requires:
		return "requires"
	case Exports:
		return "exports"
	case Opens:
		return "opens"
	case Uses:
		return "uses"
	case Provides:
		return "provides"
	default:
		return "unknown"
	}
}

// ParseDirectiveKind maps a keyword back to its kind.
func ParseDirectiveKind(s string) (DirectiveKind, bool) {
	for _, k := range DirectiveKinds {
		if k.String() == s {
			return k, true
		}
	}
	return 0, false
}

// Directive is one entry of a directive list.
// Name is the primary key: the required module, the exported/opened package or the service type.
type Directive struct {
	Kind DirectiveKind

	Name string

	// Modifiers holds "transitive" and/or "static" for requires directives.
	Modifiers []string

	// Targets holds the "to" modules of qualified exports/opens, or the "with" implementations of provides.
	Targets []string

	// Remove is only meaningful in override lists: it deletes the matching entry instead of adding.
	Remove bool
}

func (d Directive) clone() Directive {
	d.Modifiers = slices.Clone(d.Modifiers)
	d.Targets = slices.Clone(d.Targets)
	return d
}

// Descriptor is the structured form of a module descriptor.
type Descriptor struct {
	Name    string
	Open    bool
	Version string

	Requires []Directive
	Exports  []Directive
	Opens    []Directive
	Uses     []Directive
	Provides []Directive
}

// List returns the directive list of the given kind.
func (d *Descriptor) List(kind DirectiveKind) []Directive {
	switch kind {
	case Requires:
		return d.Requires
	case Exports:
		return d.Exports
	case Opens:
		return d.Opens
	case Uses:
		return d.Uses
	case Provides:
		return d.Provides
	default:
		return nil
	}
}

func (d *Descriptor) setList(kind DirectiveKind, list []Directive) {
	switch kind {
	case Requires:
		d.Requires = list
	case Exports:
		d.Exports = list
	case Opens:
		d.Opens = list
	case Uses:
		d.Uses = list
	case Provides:
		d.Provides = list
	}
}

// Add appends a directive to the list of its kind.
func (d *Descriptor) Add(dir Directive) {
	d.setList(dir.Kind, append(d.List(dir.Kind), dir))
}

// Has reports whether a directive of the given kind and name is present.
func (d Descriptor) Has(kind DirectiveKind, name string) bool {
	return slices.ContainsFunc(d.List(kind), func(x Directive) bool { return x.Name == name })
}

// Clone returns a deep copy.
func (d Descriptor) Clone() Descriptor {
	out := Descriptor{Name: d.Name, Open: d.Open, Version: d.Version}
	for _, kind := range DirectiveKinds {
		src := d.List(kind)
		if src == nil {
			continue
		}
		list := make([]Directive, len(src))
		for i, dir := range src {
			list[i] = dir.clone()
		}
		out.setList(kind, list)
	}
	return out
}

// Without returns a copy with every directive of kind named name removed.
func (d Descriptor) Without(kind DirectiveKind, name string) Descriptor {
	return Merge(d, []Directive{{Kind: kind, Name: name, Remove: true}})
}

// Merge applies override directives to base and returns the result.
// A non-remove override replaces the base entry with the same name in place, or is appended.
// A remove override deletes the matching entry and is a no-op when there is none.
// Base is never mutated.
func Merge(base Descriptor, overrides []Directive) Descriptor {
	out := base.Clone()
	for _, o := range overrides {
		list := out.List(o.Kind)
		idx := slices.IndexFunc(list, func(x Directive) bool { return x.Name == o.Name })

		if o.Remove {
			if idx >= 0 {
				list = slices.DeleteFunc(list, func(x Directive) bool { return x.Name == o.Name })
				out.setList(o.Kind, list)
			}
			continue
		}

		entry := o.clone()
		entry.Remove = false
		if idx >= 0 {
			list[idx] = entry
		} else {
			list = append(list, entry)
		}
		out.setList(o.Kind, list)
	}
	return out
}

// Override is a partial user override for one unit.
type Override struct {
	Open       *bool
	Directives []Directive
}

// ApplyOverride merges the override's directives and applies its open flag.
func ApplyOverride(base Descriptor, o Override) Descriptor {
	out := Merge(base, o.Directives)
	if o.Open != nil {
		out.Open = *o.Open
	}
	return out
}

// Render produces the deterministic module-info.java text of the descriptor.
func (d Descriptor) Render() string {
	var b strings.Builder
	if d.Open {
		b.WriteString("open ")
	}
	b.WriteString("module ")
	b.WriteString(d.Name)
	b.WriteString(" {\n")

	first := true
	for _, kind := range DirectiveKinds {
		list := d.List(kind)
		if len(list) == 0 {
			continue
		}
		if !first {
			b.WriteString("\n")
		}
		first = false
		for _, dir := range list {
			b.WriteString("    ")
			b.WriteString(renderDirective(dir))
			b.WriteString(";\n")
		}
	}

	b.WriteString("}\n")
	return b.String()
}

func renderDirective(dir Directive) string {
	parts := []string{dir.Kind.String()}
	if dir.Kind == Requires {
		parts = append(parts, dir.Modifiers...)
	}
	parts = append(parts, dir.Name)
	line := strings.Join(parts, " ")

	if len(dir.Targets) == 0 {
		return line
	}
	switch dir.Kind {
	case Exports, Opens:
		return line + " to " + strings.Join(dir.Targets, ", ")
	case Provides:
		return line + " with " + strings.Join(dir.Targets, ", ")
	default:
		return line
	}
}
