// schoolrank: weighted multi-criteria school ranking
// SPDX-License-Identifier: MIT
//
// Ordered, versioned registry of criteria.

package criteria

import (
	"fmt"
	"strings"
)

// RegistryVersion identifies the default criterion set.
const RegistryVersion = "2025.1"

// Registry is the fixed, ordered criterion set for a process. It is built once
// at startup and never modified.
type Registry struct {
	version  string
	criteria []Criterion
	index    map[string]int
}

// NewRegistry validates and orders criteria. Keys must be unique and non-empty;
// default weights must lie in [0,1].
func NewRegistry(version string, cs ...Criterion) (*Registry, error) {
	if len(cs) == 0 {
		return nil, fmt.Errorf("criteria: registry needs at least one criterion")
	}
	r := &Registry{version: version, index: make(map[string]int, len(cs))}
	for _, c := range cs {
		key := c.Key()
		if strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("criteria: empty criterion key")
		}
		if _, dup := r.index[key]; dup {
			return nil, fmt.Errorf("criteria: duplicate criterion key %q", key)
		}
		if w := c.DefaultWeight(); w < 0 || w > 1 {
			return nil, fmt.Errorf("criteria: default weight %.3f for %q outside [0,1]", w, key)
		}
		r.index[key] = len(r.criteria)
		r.criteria = append(r.criteria, c)
	}
	return r, nil
}

// Options parameterise the default registry.
type Options struct {
	SizePreference SizePreference
}

// Default returns the standard school criteria in display order.
func Default(opts Options) *Registry {
	pref := opts.SizePreference
	if pref == "" {
		pref = PreferMedium
	}
	r, err := NewRegistry(RegistryVersion,
		Academic{Weight: 0.30},
		Proximity{Weight: 0.20},
		ParentSatisfaction(0.15),
		StudentSatisfaction(0.10),
		Facilities{Weight: 0.10},
		SchoolSize{Preference: pref, Weight: 0.05},
		Extracurriculars{Weight: 0.05},
		SpecialPrograms{Weight: 0.05},
	)
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Registry) Version() string { return r.version }
func (r *Registry) Len() int        { return len(r.criteria) }

// Criteria returns the criteria in registry order.
func (r *Registry) Criteria() []Criterion {
	out := make([]Criterion, len(r.criteria))
	copy(out, r.criteria)
	return out
}

// Keys returns criterion keys in registry order.
func (r *Registry) Keys() []string {
	keys := make([]string, len(r.criteria))
	for i, c := range r.criteria {
		keys[i] = c.Key()
	}
	return keys
}

func (r *Registry) Lookup(key string) (Criterion, bool) {
	i, ok := r.index[key]
	if !ok {
		return nil, false
	}
	return r.criteria[i], true
}

// DefaultWeights returns the registered default weight for every criterion.
func (r *Registry) DefaultWeights() map[string]float64 {
	out := make(map[string]float64, len(r.criteria))
	for _, c := range r.criteria {
		out[c.Key()] = c.DefaultWeight()
	}
	return out
}
