// schoolrank: weighted multi-criteria school ranking
// SPDX-License-Identifier: MIT
//
// Pre-ranking filters over a snapshot.

package dataset

import (
	"strings"

	"golang.org/x/text/cases"

	"schoolrank/internal/school"
)

// Filter narrows a collection before ranking. Zero fields do not filter.
type Filter struct {
	City           string   `json:"city,omitempty"`
	SchoolTypes    []string `json:"school_types,omitempty"`
	Religion       string   `json:"religious_affiliation,omitempty"`
	MaxBikeMinutes float64  `json:"max_bike_minutes,omitempty"`
}

func (f Filter) IsZero() bool {
	return f.City == "" && len(f.SchoolTypes) == 0 && f.Religion == "" && f.MaxBikeMinutes <= 0
}

// Match reports whether e passes. city is the entity's source city, used when
// the record carries no basic_info.city. Schools without bike commute data
// are kept by the commute filter.
func (f Filter) Match(e *school.Entity, city string) bool {
	fold := cases.Fold()
	rec := e.Record()
	if f.City != "" {
		c, st := rec.String(school.GroupBasicInfo, "city")
		if st != school.FieldPresent {
			c = city
		}
		if fold.String(strings.TrimSpace(c)) != fold.String(strings.TrimSpace(f.City)) {
			return false
		}
	}
	if len(f.SchoolTypes) > 0 {
		types, st := rec.Strings(school.GroupBasicInfo, "type")
		if st == school.FieldMalformed {
			if one, oneSt := rec.String(school.GroupBasicInfo, "type"); oneSt == school.FieldPresent {
				types = []string{one}
			}
		}
		if !anyFold(fold, types, f.SchoolTypes) {
			return false
		}
	}
	if f.Religion != "" {
		aff, _ := rec.String(school.GroupBasicInfo, "religious_affiliation")
		if !strings.Contains(fold.String(aff), fold.String(f.Religion)) {
			return false
		}
	}
	if f.MaxBikeMinutes > 0 {
		mins, st := rec.Float(school.GroupLocation, "bike_accessibility", "duration_minutes")
		if st == school.FieldPresent && mins > f.MaxBikeMinutes {
			return false
		}
	}
	return true
}

func anyFold(fold cases.Caser, have, want []string) bool {
	for _, w := range want {
		w = fold.String(w)
		for _, h := range have {
			if fold.String(h) == w {
				return true
			}
		}
	}
	return false
}

// Apply returns the snapshot entities passing f, in load order.
func Apply(s *Snapshot, f Filter) []*school.Entity {
	if f.IsZero() {
		return s.Entities()
	}
	out := make([]*school.Entity, 0, s.Len())
	for i, e := range s.entities {
		if f.Match(e, s.cities[i]) {
			out = append(out, e)
		}
	}
	return out
}
