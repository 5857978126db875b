// schoolrank: weighted multi-criteria school ranking
// SPDX-License-Identifier: MIT
//
// Count-based criteria: extracurricular activities and special programs.

package criteria

import (
	"fmt"
	"strings"

	"schoolrank/internal/school"
)

const (
	KeyExtracurriculars = "extracurriculars"
	KeySpecialPrograms  = "special_programs"

	countBase     = 50.0
	countMaxBonus = 50.0
)

// cappedCount returns base + perItem*n with the bonus capped at countMaxBonus.
func cappedCount(n int, perItem float64) float64 {
	bonus := float64(n) * perItem
	if bonus > countMaxBonus {
		bonus = countMaxBonus
	}
	return countBase + bonus
}

// Extracurriculars counts listed activities and after-school programs, five
// points each.
type Extracurriculars struct {
	Weight float64
}

func (Extracurriculars) Key() string   { return KeyExtracurriculars }
func (Extracurriculars) Title() string { return "Extracurriculars" }

func (x Extracurriculars) DefaultWeight() float64 { return x.Weight }

func (Extracurriculars) Score(e *school.Entity) Score {
	rec := e.Record()
	activities, actSt := rec.Count(school.GroupAcademic, "extracurricular_activities")
	afterSchool, afterSt := rec.Count(school.GroupSupport, "after_school_programs")

	present := 0
	total := 0
	if actSt == school.FieldPresent {
		present++
		total += activities
	}
	if afterSt == school.FieldPresent {
		present++
		total += afterSchool
	}
	if present == 0 {
		return missing("No data on activities")
	}
	conf := Complete
	if present < 2 {
		conf = Partial
	}
	return Score{
		Value:       clamp(cappedCount(total, 5), 0, 100),
		Confidence:  conf,
		Explanation: fmt.Sprintf("%d activities listed", total),
	}
}

// SpecialPrograms counts special educational programs, ten points each.
type SpecialPrograms struct {
	Weight float64
}

func (SpecialPrograms) Key() string   { return KeySpecialPrograms }
func (SpecialPrograms) Title() string { return "Special Programs" }

func (p SpecialPrograms) DefaultWeight() float64 { return p.Weight }

func (SpecialPrograms) Score(e *school.Entity) Score {
	programs, st := e.Record().Strings(school.GroupAcademic, "special_programs")
	switch st {
	case school.FieldAbsent:
		return missing("No special programs listed")
	case school.FieldMalformed:
		return missing("Special programs unreadable")
	}
	if len(programs) == 0 {
		return Score{Value: countBase, Confidence: Complete, Explanation: "No special programs"}
	}
	shown := programs
	if len(shown) > 3 {
		shown = shown[:3]
	}
	explanation := strings.Join(shown, ", ")
	if extra := len(programs) - len(shown); extra > 0 {
		explanation += fmt.Sprintf(", +%d more", extra)
	}
	return Score{
		Value:       clamp(cappedCount(len(programs), 10), 0, 100),
		Confidence:  Complete,
		Explanation: explanation,
	}
}
