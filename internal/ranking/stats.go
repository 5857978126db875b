// schoolrank: weighted multi-criteria school ranking
// SPDX-License-Identifier: MIT
//
// Aggregate statistics over a ranked result.

package ranking

import (
	"math"
	"sort"

	"schoolrank/internal/criteria"
)

// Stats summarises the totals of one ranking pass.
type Stats struct {
	Count            int            `json:"count"`
	Mean             float64        `json:"mean"`
	Median           float64        `json:"median"`
	Min              float64        `json:"min"`
	Max              float64        `json:"max"`
	StdDev           float64        `json:"std_dev"`
	MeanCompleteness float64        `json:"mean_completeness"`
	Coverage         map[string]int `json:"coverage"`
}

// Summarize computes Stats. Coverage counts, per criterion key, the entries
// whose score for it was backed by data.
func Summarize(keys []string, entries []RankedEntity) Stats {
	st := Stats{Count: len(entries), Coverage: make(map[string]int, len(keys))}
	for _, k := range keys {
		st.Coverage[k] = 0
	}
	if len(entries) == 0 {
		return st
	}

	totals := make([]float64, len(entries))
	var sum, completeness float64
	for i, e := range entries {
		totals[i] = e.Total
		sum += e.Total
		completeness += e.Completeness
		for _, c := range e.Breakdown {
			if c.Confidence != criteria.Missing {
				st.Coverage[c.Key]++
			}
		}
	}
	n := float64(len(entries))
	st.Mean = sum / n
	st.MeanCompleteness = completeness / n

	sort.Float64s(totals)
	st.Min = totals[0]
	st.Max = totals[len(totals)-1]
	mid := len(totals) / 2
	if len(totals)%2 == 0 {
		st.Median = (totals[mid-1] + totals[mid]) / 2
	} else {
		st.Median = totals[mid]
	}

	var sq float64
	for _, t := range totals {
		d := t - st.Mean
		sq += d * d
	}
	st.StdDev = math.Sqrt(sq / n)
	return st
}
