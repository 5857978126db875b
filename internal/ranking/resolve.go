// schoolrank: weighted multi-criteria school ranking
// SPDX-License-Identifier: MIT
//
// Missing-data policy.

package ranking

import "schoolrank/internal/criteria"

// Resolver decides the value a criterion contributes to the total. Complete
// and partial scores count as computed; missing scores contribute Neutral so
// that absent data neither rewards nor penalises a school.
type Resolver struct {
	Neutral float64
}

// DefaultResolver substitutes the scale midpoint for missing data.
func DefaultResolver() Resolver {
	return Resolver{Neutral: criteria.NeutralValue}
}

func (r Resolver) Effective(s criteria.Score) float64 {
	if s.Confidence == criteria.Missing {
		return r.Neutral
	}
	return s.Value
}

// Completeness is the share of scores backed by at least some data.
func (r Resolver) Completeness(scores []criteria.Score) float64 {
	if len(scores) == 0 {
		return 0
	}
	present := 0
	for _, s := range scores {
		if s.Confidence != criteria.Missing {
			present++
		}
	}
	return float64(present) / float64(len(scores))
}
