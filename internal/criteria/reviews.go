// schoolrank: weighted multi-criteria school ranking
// SPDX-License-Identifier: MIT
//
// Parent and student satisfaction from the most recent review.

package criteria

import (
	"fmt"

	"schoolrank/internal/school"
)

const (
	KeyParentSatisfaction  = "parent_satisfaction"
	KeyStudentSatisfaction = "student_satisfaction"
)

// Reviews scores the overall rating of the latest review in a review list on a
// 0-10 scale. The secondary field is reported in the explanation only.
type Reviews struct {
	key       string
	title     string
	list      string
	secondary string
	label     string
	noun      string
	weight    float64
}

// ParentSatisfaction scores reviews_reputation.parent_reviews.
func ParentSatisfaction(weight float64) Reviews {
	return Reviews{
		key:       KeyParentSatisfaction,
		title:     "Parent Satisfaction",
		list:      "parent_reviews",
		secondary: "would_recommend",
		label:     "recommend",
		noun:      "parent",
		weight:    weight,
	}
}

// StudentSatisfaction scores reviews_reputation.student_reviews.
func StudentSatisfaction(weight float64) Reviews {
	return Reviews{
		key:       KeyStudentSatisfaction,
		title:     "Student Satisfaction",
		list:      "student_reviews",
		secondary: "voice_matters",
		label:     "voice matters",
		noun:      "student",
		weight:    weight,
	}
}

func (r Reviews) Key() string            { return r.key }
func (r Reviews) Title() string          { return r.title }
func (r Reviews) DefaultWeight() float64 { return r.weight }

func (r Reviews) Score(e *school.Entity) Score {
	rec := e.Record()
	n, st := rec.Count(school.GroupReviews, r.list)
	if st != school.FieldPresent || n == 0 {
		return missing(fmt.Sprintf("No %s reviews", r.noun))
	}
	rating, ratingSt := tenPointField(rec, school.GroupReviews, r.list, "0", "overall_rating")
	second, secondSt := tenPointField(rec, school.GroupReviews, r.list, "0", r.secondary)

	if ratingSt != school.FieldPresent {
		return missing("No rating available")
	}

	explanation := fmt.Sprintf("%.1f/10 rating", rating)
	if secondSt == school.FieldPresent {
		explanation += fmt.Sprintf(", %.1f/10 %s", second, r.label)
	}
	return Score{Value: rating * 10, Confidence: Complete, Explanation: explanation}
}

// tenPointField reads a 0-10 rating; values outside the scale are malformed.
func tenPointField(rec school.Record, path ...string) (float64, school.FieldState) {
	v, st := rec.Float(path...)
	if st != school.FieldPresent {
		return 0, st
	}
	if v < 0 || v > 10 {
		return 0, school.FieldMalformed
	}
	return v, st
}
