// schoolrank: weighted multi-criteria school ranking
// SPDX-License-Identifier: MIT
//
// Criterion contract, confidence tags and sub-metric blending.

package criteria

import (
	"schoolrank/internal/school"
)

// Confidence tags how much real data backed a criterion value.
type Confidence string

const (
	Complete Confidence = "complete"
	Partial  Confidence = "partial"
	Missing  Confidence = "missing"
)

// NeutralValue is returned by scorers that found none of their inputs.
const NeutralValue = 50.0

// Score is the weight-independent result of scoring one criterion.
type Score struct {
	Value       float64    `json:"value"`
	Confidence  Confidence `json:"confidence"`
	Explanation string     `json:"explanation"`
}

// Criterion scores one axis of evaluation. Score must be a pure function of
// the entity: no I/O, no hidden state, and no panics on absent or malformed
// fields.
type Criterion interface {
	Key() string
	Title() string
	DefaultWeight() float64
	Score(e *school.Entity) Score
}

func missing(explanation string) Score {
	return Score{Value: NeutralValue, Confidence: Missing, Explanation: explanation}
}

// part is one sub-metric of a criterion, already on the 0-100 scale.
type part struct {
	value  float64
	weight float64
	ok     bool
}

// blend averages the available parts, reweighting among themselves. ok is
// false when no part was available.
func blend(parts ...part) (value float64, conf Confidence, ok bool) {
	var sum, total float64
	present := 0
	for _, p := range parts {
		if !p.ok {
			continue
		}
		sum += p.value * p.weight
		total += p.weight
		present++
	}
	if present == 0 || total <= 0 {
		return NeutralValue, Missing, false
	}
	conf = Complete
	if present < len(parts) {
		conf = Partial
	}
	return clamp(sum/total, 0, 100), conf, true
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
