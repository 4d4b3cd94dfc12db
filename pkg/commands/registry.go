package commands

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"
)

var (
	ErrNoMatch           = errors.New("no command matched")
	ErrDuplicateCommand  = errors.New("duplicate command name")
	ErrMultipleFallbacks = errors.New("more than one fallback command")
)

// Registry is the read-only, pre-sorted set of command definitions.
// Definitions are ordered by descending name length in code points, ties
// broken by ascending code-point order, so the most specific name is
// always tried first and the empty fallback name is tried last.
type Registry struct {
	defs []Definition
}

func NewRegistry(defs []Definition) (*Registry, error) {
	sorted := make([]Definition, len(defs))
	copy(sorted, defs)

	seen := make(map[string]struct{}, len(sorted))
	for _, d := range sorted {
		if _, dup := seen[d.Name]; dup {
			if d.Name == "" {
				return nil, ErrMultipleFallbacks
			}
			return nil, fmt.Errorf("%w: %q", ErrDuplicateCommand, d.Name)
		}
		seen[d.Name] = struct{}{}
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		li := utf8.RuneCountInString(sorted[i].Name)
		lj := utf8.RuneCountInString(sorted[j].Name)
		if li != lj {
			return li > lj
		}
		return sorted[i].Name < sorted[j].Name
	})

	return &Registry{defs: sorted}, nil
}

// MustRegistry is NewRegistry for static definition tables.
func MustRegistry(defs []Definition) *Registry {
	r, err := NewRegistry(defs)
	if err != nil {
		panic(err)
	}
	return r
}

// Definitions returns the definitions in match order.
func (r *Registry) Definitions() []Definition {
	out := make([]Definition, len(r.defs))
	copy(out, r.defs)
	return out
}

// Names returns command names in match order, skipping the fallback.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.defs))
	for _, d := range r.defs {
		if d.Name != "" {
			names = append(names, d.Name)
		}
	}
	return names
}

// Match finds the first definition whose name is a literal prefix of
// message and returns it with the trimmed remainder.
func (r *Registry) Match(message string) (Definition, string, error) {
	for _, d := range r.defs {
		if strings.HasPrefix(message, d.Name) {
			return d, strings.TrimSpace(message[len(d.Name):]), nil
		}
	}
	return Definition{}, "", ErrNoMatch
}
