// Package entrypoint discovers launchable classes in the project output.
package entrypoint

import (
	"context"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"go.trai.ch/modpack/internal/classfile"
	"go.trai.ch/modpack/internal/core/domain"
	"go.trai.ch/modpack/internal/core/ports"
	"go.trai.ch/modpack/internal/engine/synthesizer"
	"go.trai.ch/zerr"
)

const (
	mainName       = "main"
	mainDescriptor = "([Ljava/lang/String;)V"
)

// Resolver finds classes declaring or inheriting public static void main(String[]).
// Results are memoized per unit name.
type Resolver struct {
	types   ports.TypeLoaderFactory
	walker  ports.Walker
	logger  ports.Logger
	jdkHome string

	mu   sync.Mutex
	memo map[string][]string
}

// New creates a Resolver.
func New(types ports.TypeLoaderFactory, walker ports.Walker, logger ports.Logger, jdkHome string) *Resolver {
	return &Resolver{
		types:   types,
		walker:  walker,
		logger:  logger,
		jdkHome: jdkHome,
		memo:    make(map[string][]string),
	}
}

// Resolve returns the sorted binary names of every entry point in the project unit's classes.
// Types are resolved against the project output, the siblings' sources and the platform.
// Classes that cannot be fully resolved are skipped.
func (r *Resolver) Resolve(ctx context.Context, project *domain.Unit, siblings []*domain.Unit) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cached, ok := r.memo[project.Name()]; ok {
		return cached, nil
	}

	roots := []string{project.Source()}
	for _, u := range siblings {
		roots = append(roots, u.Source())
	}
	loader, err := r.types.New(synthesizer.ExistingRoots(roots), r.jdkHome)
	if err != nil {
		return nil, err
	}
	defer loader.Close() //nolint:errcheck // read-only

	candidates := []string{}
	for path := range r.walker.WalkFiles(project.Source(), nil) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name, ok := internalName(project.Source(), path)
		if !ok {
			continue
		}
		if reason, ok := isEntryPoint(loader, name); !ok {
			if reason != "" {
				r.logger.Debug("skipping entry point candidate " + classfile.ToDotted(name) + ": " + reason)
			}
			continue
		}
		candidates = append(candidates, classfile.ToDotted(name))
	}

	slices.Sort(candidates)
	r.memo[project.Name()] = candidates
	return candidates, nil
}

// internalName maps a class file below root to its internal type name.
func internalName(root, path string) (string, bool) {
	if !strings.HasSuffix(path, ".class") || filepath.Base(path) == domain.DescriptorClassName {
		return "", false
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return "", false
	}
	return strings.TrimSuffix(filepath.ToSlash(rel), ".class"), true
}

// isEntryPoint reports whether name is an entry point. A non-empty reason explains why a
// class was skipped because it could not be resolved; an empty reason means it simply
// has no main method.
func isEntryPoint(loader ports.TypeLoader, name string) (string, bool) {
	class, err := loader.Load(name)
	if err != nil {
		return "failed to load: " + err.Error(), false
	}

	for _, m := range class.Methods {
		if !m.IsPublic() {
			continue
		}
		types, err := classfile.MethodTypes(m.Descriptor)
		if err != nil {
			return "invalid signature of " + m.Name, false
		}
		for _, t := range types {
			if !loader.Has(t) {
				return "method " + m.Name + " references missing type " + classfile.ToDotted(t), false
			}
		}
	}

	found := false
	seen := map[string]bool{}
	for c := class; c != nil; {
		if !found && declaresMain(c) {
			found = true
		}
		if c.SuperName == "" {
			break
		}
		if seen[c.SuperName] {
			return "cyclic superclass chain", false
		}
		seen[c.SuperName] = true
		super, err := loader.Load(c.SuperName)
		if err != nil {
			return "unresolvable superclass " + classfile.ToDotted(c.SuperName), false
		}
		c = super
	}

	return "", found
}

func declaresMain(c *classfile.Class) bool {
	return slices.ContainsFunc(c.Methods, func(m classfile.Method) bool {
		return m.Name == mainName && m.Descriptor == mainDescriptor && m.IsPublic() && m.IsStatic()
	})
}

// Default returns the only candidate. It fails with ErrNoEntryPoint for none and
// ErrAmbiguousEntryPoint, listing every candidate, for several.
func Default(candidates []string) (string, error) {
	switch len(candidates) {
	case 0:
		return "", domain.ErrNoEntryPoint
	case 1:
		return candidates[0], nil
	default:
		return "", zerr.With(domain.ErrAmbiguousEntryPoint, "candidates", strings.Join(candidates, ", "))
	}
}

// Select applies the main class policy: a configured class wins, otherwise with auto
// selection the sole candidate is used and several candidates are an error.
// It returns "" when no main class is wanted.
func Select(configured string, auto bool, candidates []string) (string, error) {
	if configured != "" {
		return configured, nil
	}
	if !auto {
		return "", nil
	}
	return Default(candidates)
}
