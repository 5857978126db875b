// schoolrank: weighted multi-criteria school ranking
// SPDX-License-Identifier: MIT
//
// Facilities from recorded amenities.

package criteria

import (
	"strings"

	"schoolrank/internal/school"
)

const (
	KeyFacilities = "facilities"

	facilitiesBase     = 50.0
	facilitiesMaxBonus = 50.0
	// Descriptions shorter than this are too thin to count as specialised rooms.
	minClassroomDescription = 50
)

// Facilities awards points per amenity on top of a base of 50. Points are
// scaled over the amenities the record actually describes so that a partial
// record can still reach the full range.
type Facilities struct {
	Weight float64
}

func (Facilities) Key() string   { return KeyFacilities }
func (Facilities) Title() string { return "Facilities" }

func (f Facilities) DefaultWeight() float64 { return f.Weight }

type amenity struct {
	label  string
	points float64
	// check returns whether the amenity is described and whether it earns points.
	check func(rec school.Record) (described, earned bool)
}

var amenities = []amenity{
	{"technology", 15, func(rec school.Record) (bool, bool) {
		if _, st := rec.Object(school.GroupFacilities, "technology"); st != school.FieldPresent {
			return false, false
		}
		_, st := rec.String(school.GroupFacilities, "technology", "description")
		return true, st == school.FieldPresent
	}},
	{"sports", 15, func(rec school.Record) (bool, bool) {
		n, st := rec.Count(school.GroupFacilities, "sports_facilities")
		return st == school.FieldPresent, n > 0
	}},
	{"specialized classrooms", 10, func(rec school.Record) (bool, bool) {
		s, st := rec.String(school.GroupFacilities, "classrooms_labs_quality")
		if st == school.FieldMalformed {
			return false, false
		}
		return rec.Has(school.GroupFacilities, "classrooms_labs_quality"), len(s) > minClassroomDescription
	}},
	{"library", 10, func(rec school.Record) (bool, bool) {
		n, st := rec.Object(school.GroupFacilities, "library")
		return st == school.FieldPresent, n > 0
	}},
}

func (Facilities) Score(e *school.Entity) Score {
	rec := e.Record()
	if _, st := rec.Object(school.GroupFacilities); st != school.FieldPresent {
		return missing("No facilities data")
	}

	var earned, possible float64
	described := 0
	var have []string
	for _, a := range amenities {
		ok, got := a.check(rec)
		if !ok {
			continue
		}
		described++
		possible += a.points
		if got {
			earned += a.points
			have = append(have, a.label)
		}
	}
	if described == 0 {
		return missing("No facilities data")
	}

	bonus := facilitiesMaxBonus * earned / possible
	if bonus > facilitiesMaxBonus {
		bonus = facilitiesMaxBonus
	}
	conf := Complete
	if described < len(amenities) {
		conf = Partial
	}
	explanation := "Basic facilities"
	if len(have) > 0 {
		explanation = strings.Join(have, ", ")
	}
	return Score{Value: clamp(facilitiesBase+bonus, 0, 100), Confidence: conf, Explanation: explanation}
}
