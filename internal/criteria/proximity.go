// schoolrank: weighted multi-criteria school ranking
// SPDX-License-Identifier: MIT
//
// Proximity from bike and public-transport commute times.

package criteria

import (
	"fmt"

	"schoolrank/internal/school"
)

const KeyProximity = "proximity"

// commuteBucket covers (previous upTo, upTo] minutes.
type commuteBucket struct {
	upTo   float64
	points float64
}

// Ascending commute buckets; anything beyond the last one scores 0.
var commuteBuckets = []commuteBucket{
	{10, 100},
	{15, 90},
	{20, 80},
	{25, 70},
	{30, 60},
	{40, 45},
	{50, 30},
	{60, 15},
}

// CommutePoints maps a commute duration to its bucket value. A duration equal
// to a bucket boundary belongs to the closer bucket.
func CommutePoints(minutes float64) float64 {
	for _, b := range commuteBuckets {
		if minutes <= b.upTo {
			return b.points
		}
	}
	return 0
}

// Proximity scores the bike commute, falling back to public transport when
// no bike time is recorded. A transit-only score is partial.
type Proximity struct {
	Weight float64
}

func (Proximity) Key() string   { return KeyProximity }
func (Proximity) Title() string { return "Proximity" }

func (p Proximity) DefaultWeight() float64 { return p.Weight }

func (Proximity) Score(e *school.Entity) Score {
	rec := e.Record()
	bikeMins, bikeSt := rec.Float(school.GroupLocation, "bike_accessibility", "duration_minutes")
	if bikeSt == school.FieldPresent && bikeMins < 0 {
		bikeSt = school.FieldMalformed
	}
	if bikeSt == school.FieldPresent {
		return Score{
			Value:       CommutePoints(bikeMins),
			Confidence:  Complete,
			Explanation: fmt.Sprintf("%.0f mins by bike", bikeMins),
		}
	}

	transitMins, transitSt := rec.Float(school.GroupLocation, "public_transport", "commute_from_home", "duration_minutes")
	if transitSt == school.FieldPresent && transitMins < 0 {
		transitSt = school.FieldMalformed
	}
	if transitSt == school.FieldPresent {
		return Score{
			Value:       CommutePoints(transitMins),
			Confidence:  Partial,
			Explanation: fmt.Sprintf("%.0f mins by transit (no bike data)", transitMins),
		}
	}

	if bikeSt == school.FieldMalformed || transitSt == school.FieldMalformed {
		return missing("Commute data unreadable")
	}
	return missing("No commute data")
}
