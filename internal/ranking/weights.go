// schoolrank: weighted multi-criteria school ranking
// SPDX-License-Identifier: MIT
//
// Weight validation and normalization.

package ranking

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"schoolrank/internal/criteria"
)

// SumEpsilon bounds how far normalized weights may sum from 1.
const SumEpsilon = 1e-9

// Weights maps criterion keys to non-negative weights. Values are treated as
// immutable; every change is a new map.
type Weights map[string]float64

// Clone returns an independent copy.
func (w Weights) Clone() Weights {
	out := make(Weights, len(w))
	for k, v := range w {
		out[k] = v
	}
	return out
}

// Sum adds the weights in key order so the result does not depend on map
// iteration order.
func (w Weights) Sum() float64 {
	var sum float64
	for _, k := range w.sortedKeys() {
		sum += w[k]
	}
	return sum
}

func (w Weights) sortedKeys() []string {
	keys := make([]string, 0, len(w))
	for k := range w {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ErrInvalidWeights matches every ValidationError via errors.Is.
var ErrInvalidWeights = errors.New("invalid weights")

// ValidationError describes why a weight map was rejected. Key and Weight are
// set when a single entry is at fault.
type ValidationError struct {
	Key    string
	Weight float64
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("invalid weight for %q (%v): %s", e.Key, e.Weight, e.Reason)
	}
	return "invalid weights: " + e.Reason
}

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidWeights }

// Normalize validates w against the registry and scales it to sum to 1. It
// rejects empty maps, unknown keys, negative or non-finite weights, and maps
// whose weights are all zero.
func Normalize(reg *criteria.Registry, w Weights) (Weights, error) {
	if len(w) == 0 {
		return nil, &ValidationError{Reason: "weight map is empty"}
	}
	keys := w.sortedKeys()
	for _, k := range keys {
		if _, ok := reg.Lookup(k); !ok {
			return nil, &ValidationError{Key: k, Weight: w[k], Reason: "unknown criterion"}
		}
	}
	for _, k := range keys {
		v := w[k]
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, &ValidationError{Key: k, Weight: v, Reason: "weight must be a finite number"}
		}
		if v < 0 {
			return nil, &ValidationError{Key: k, Weight: v, Reason: "weight must not be negative"}
		}
	}
	var peak float64
	for _, k := range keys {
		peak = math.Max(peak, w[k])
	}
	if peak == 0 {
		return nil, &ValidationError{Reason: "all weights are zero"}
	}
	// Divide by the largest weight first so the sum cannot overflow.
	out := make(Weights, len(w))
	var sum float64
	for _, k := range keys {
		out[k] = w[k] / peak
		sum += out[k]
	}
	for _, k := range keys {
		out[k] /= sum
	}
	return out, nil
}

// DefaultWeights returns the registry defaults as a weight map.
func DefaultWeights(reg *criteria.Registry) Weights {
	return Weights(reg.DefaultWeights())
}
