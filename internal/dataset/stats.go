// schoolrank: weighted multi-criteria school ranking
// SPDX-License-Identifier: MIT
//
// Dataset quick statistics.

package dataset

import (
	"sort"

	"schoolrank/internal/school"
)

// Quick summarises data availability across a snapshot.
type Quick struct {
	Schools           int            `json:"schools"`
	WithExamData      int            `json:"with_exam_data"`
	WithParentRatings int            `json:"with_parent_ratings"`
	WithBikeCommute   int            `json:"with_bike_commute"`
	AvgBikeMinutes    float64        `json:"avg_bike_minutes"`
	TotalEnrollment   int            `json:"total_enrollment"`
	ByCity            map[string]int `json:"by_city"`
	Cities            []string       `json:"cities"`
	Issues            int            `json:"issues"`
}

func Stats(s *Snapshot) Quick {
	q := Quick{Schools: s.Len(), ByCity: map[string]int{}, Issues: len(s.issues)}
	var bikeSum float64
	for i, e := range s.entities {
		rec := e.Record()
		if rec.Has(school.GroupAcademic, "exam_scores") {
			q.WithExamData++
		}
		if _, st := rec.Float(school.GroupReviews, "parent_reviews", "0", "overall_rating"); st == school.FieldPresent {
			q.WithParentRatings++
		}
		if mins, st := rec.Float(school.GroupLocation, "bike_accessibility", "duration_minutes"); st == school.FieldPresent {
			q.WithBikeCommute++
			bikeSum += mins
		}
		if total, st := rec.Float(school.GroupBasicInfo, "enrollment", "total"); st == school.FieldPresent && total > 0 {
			q.TotalEnrollment += int(total)
		}
		q.ByCity[s.cities[i]]++
	}
	if q.WithBikeCommute > 0 {
		q.AvgBikeMinutes = bikeSum / float64(q.WithBikeCommute)
	}
	for c := range q.ByCity {
		q.Cities = append(q.Cities, c)
	}
	sort.Strings(q.Cities)
	return q
}
