// schoolrank: weighted multi-criteria school ranking
// SPDX-License-Identifier: MIT
//
// Named weight presets: built-ins plus an optional YAML file.

package presets

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"schoolrank/internal/criteria"
	"schoolrank/internal/ranking"
)

// ErrNotFound is returned for unknown preset names.
var ErrNotFound = errors.New("preset not found")

// Preset is a named weight map. It is validated like any user-supplied map.
type Preset struct {
	Name        string          `yaml:"name" json:"name"`
	Description string          `yaml:"description" json:"description"`
	Weights     ranking.Weights `yaml:"weights" json:"weights"`
}

type file struct {
	Presets []Preset `yaml:"presets"`
}

// Set is an immutable collection of validated presets.
type Set struct {
	byName map[string]Preset
	names  []string
}

// Builtin returns the presets shipped with the binary.
func Builtin(reg *criteria.Registry) []Preset {
	return []Preset{
		{
			Name:        "balanced",
			Description: "Default weights across every criterion",
			Weights:     ranking.DefaultWeights(reg),
		},
		{
			Name:        "academic_focus",
			Description: "Exam results first, with programs and facilities behind",
			Weights: ranking.Weights{
				criteria.KeyAcademic:            0.50,
				criteria.KeyProximity:           0.10,
				criteria.KeyParentSatisfaction:  0.10,
				criteria.KeyStudentSatisfaction: 0.05,
				criteria.KeyFacilities:          0.10,
				criteria.KeySpecialPrograms:     0.15,
			},
		},
		{
			Name:        "close_to_home",
			Description: "Short commutes weigh heaviest",
			Weights: ranking.Weights{
				criteria.KeyAcademic:            0.20,
				criteria.KeyProximity:           0.50,
				criteria.KeyParentSatisfaction:  0.15,
				criteria.KeyStudentSatisfaction: 0.15,
			},
		},
		{
			Name:        "wellbeing",
			Description: "Satisfaction, activities and school size",
			Weights: ranking.Weights{
				criteria.KeyAcademic:            0.10,
				criteria.KeyProximity:           0.10,
				criteria.KeyParentSatisfaction:  0.20,
				criteria.KeyStudentSatisfaction: 0.25,
				criteria.KeySchoolSize:          0.10,
				criteria.KeyExtracurriculars:    0.15,
				criteria.KeyFacilities:          0.10,
			},
		},
	}
}

// Load returns the built-in presets overlaid with those in path. An empty
// path yields the built-ins only. Every preset must normalize against reg.
func Load(reg *criteria.Registry, path string) (*Set, error) {
	all := Builtin(reg)
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading presets %q: %w", path, err)
		}
		fromFile, err := Parse(data)
		if err != nil {
			return nil, fmt.Errorf("parsing presets %q: %w", path, err)
		}
		all = append(all, fromFile...)
	}
	return NewSet(reg, all...)
}

// Parse decodes a presets document without validating weights.
func Parse(data []byte) ([]Preset, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	return f.Presets, nil
}

// NewSet validates presets. Later entries replace earlier ones of the same
// name, so file presets override built-ins.
func NewSet(reg *criteria.Registry, ps ...Preset) (*Set, error) {
	s := &Set{byName: make(map[string]Preset, len(ps))}
	for _, p := range ps {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			return nil, errors.New("preset without a name")
		}
		if _, err := ranking.Normalize(reg, p.Weights); err != nil {
			return nil, fmt.Errorf("preset %q: %w", name, err)
		}
		p.Name = name
		p.Weights = p.Weights.Clone()
		if _, seen := s.byName[name]; !seen {
			s.names = append(s.names, name)
		}
		s.byName[name] = p
	}
	sort.Strings(s.names)
	return s, nil
}

// Lookup is Get with an ErrNotFound error for unknown names.
func (s *Set) Lookup(name string) (Preset, error) {
	p, ok := s.Get(name)
	if !ok {
		return Preset{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return p, nil
}

// Get returns the preset with a copy of its weights.
func (s *Set) Get(name string) (Preset, bool) {
	p, ok := s.byName[name]
	if ok {
		p.Weights = p.Weights.Clone()
	}
	return p, ok
}

func (s *Set) Names() []string { return append([]string(nil), s.names...) }

// All returns every preset in name order.
func (s *Set) All() []Preset {
	out := make([]Preset, 0, len(s.names))
	for _, n := range s.names {
		p, _ := s.Get(n)
		out = append(out, p)
	}
	return out
}
