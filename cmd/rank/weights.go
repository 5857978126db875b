package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cast"

	"schoolrank/internal/ranking"
)

// parseWeights reads key=value pairs. Repeated keys keep the last value;
// validation of keys and values is left to ranking.Normalize.
func parseWeights(pairs []string) (ranking.Weights, error) {
	out := make(ranking.Weights, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("weight %q: expected key=value", p)
		}
		f, err := cast.ToFloat64E(strings.TrimSpace(v))
		if err != nil {
			return nil, fmt.Errorf("weight %q: %w", p, err)
		}
		out[k] = f
	}
	return out, nil
}
