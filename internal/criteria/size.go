// schoolrank: weighted multi-criteria school ranking
// SPDX-License-Identifier: MIT
//
// School size against a preferred size category.

package criteria

import (
	"fmt"
	"strings"

	"schoolrank/internal/school"
)

const KeySchoolSize = "school_size"

// SizePreference is the preferred school size category.
type SizePreference string

const (
	PreferSmall  SizePreference = "small"
	PreferMedium SizePreference = "medium"
	PreferLarge  SizePreference = "large"
	PreferAny    SizePreference = "any"
)

// ParseSizePreference validates a preference string.
func ParseSizePreference(s string) (SizePreference, error) {
	switch p := SizePreference(strings.ToLower(strings.TrimSpace(s))); p {
	case PreferSmall, PreferMedium, PreferLarge, PreferAny:
		return p, nil
	case "":
		return PreferMedium, nil
	default:
		return "", fmt.Errorf("invalid school size preference %q: must be small, medium, large, or any", s)
	}
}

const (
	sizeSmall     = "small"
	sizeMedium    = "medium"
	sizeLarge     = "large"
	sizeVeryLarge = "very_large"
)

var sizePreferenceScores = map[SizePreference]map[string]float64{
	PreferSmall:  {sizeSmall: 100, sizeMedium: 70, sizeLarge: 50, sizeVeryLarge: 30},
	PreferMedium: {sizeSmall: 70, sizeMedium: 100, sizeLarge: 80, sizeVeryLarge: 60},
	PreferLarge:  {sizeSmall: 50, sizeMedium: 80, sizeLarge: 100, sizeVeryLarge: 90},
	PreferAny:    {sizeSmall: 80, sizeMedium: 80, sizeLarge: 80, sizeVeryLarge: 80},
}

func sizeCategory(enrollment float64) string {
	switch {
	case enrollment > 1500:
		return sizeVeryLarge
	case enrollment > 1000:
		return sizeLarge
	case enrollment >= 500:
		return sizeMedium
	default:
		return sizeSmall
	}
}

// SchoolSize scores total enrollment against Preference.
type SchoolSize struct {
	Preference SizePreference
	Weight     float64
}

func (SchoolSize) Key() string   { return KeySchoolSize }
func (SchoolSize) Title() string { return "School Size" }

func (s SchoolSize) DefaultWeight() float64 { return s.Weight }

func (s SchoolSize) Score(e *school.Entity) Score {
	total, st := e.Record().Float(school.GroupBasicInfo, "enrollment", "total")
	switch {
	case st == school.FieldMalformed, st == school.FieldPresent && total <= 0:
		return missing("Enrollment data unreadable")
	case st == school.FieldAbsent:
		return missing("No enrollment data")
	}
	table, ok := sizePreferenceScores[s.Preference]
	if !ok {
		table = sizePreferenceScores[PreferAny]
	}
	category := sizeCategory(total)
	return Score{
		Value:       table[category],
		Confidence:  Complete,
		Explanation: fmt.Sprintf("%.0f students (%s)", total, strings.ReplaceAll(category, "_", " ")),
	}
}
