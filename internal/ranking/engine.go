// schoolrank: weighted multi-criteria school ranking
// SPDX-License-Identifier: MIT
//
// Per-entity scoring: criterion scores, missing-data policy and weights.

package ranking

import (
	"fmt"

	"schoolrank/internal/criteria"
	"schoolrank/internal/school"
)

// ScoreCache stores weight-independent criterion scores. Implementations must
// be safe for concurrent use; the engine only reads and fills it.
type ScoreCache interface {
	Get(entityID, criterion, version string) (criteria.Score, bool)
	Set(entityID, criterion, version string, score criteria.Score)
}

// Contribution is one criterion's part of a total score.
type Contribution struct {
	Key         string              `json:"key"`
	Title       string              `json:"title"`
	Value       float64             `json:"value"`
	Confidence  criteria.Confidence `json:"confidence"`
	Explanation string              `json:"explanation"`
	Weight      float64             `json:"weight"`
	Effective   float64             `json:"effective"`
	Weighted    float64             `json:"weighted"`
}

// ScoredEntity is one school scored under one weight map.
type ScoredEntity struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Total        float64        `json:"total"`
	Completeness float64        `json:"completeness"`
	Breakdown    []Contribution `json:"breakdown"`
}

// Contribution returns the breakdown entry for key.
func (s ScoredEntity) Contribution(key string) (Contribution, bool) {
	for _, c := range s.Breakdown {
		if c.Key == key {
			return c, true
		}
	}
	return Contribution{}, false
}

// Engine scores single entities. It holds no per-pass state and is safe for
// concurrent use.
type Engine struct {
	registry *criteria.Registry
	resolver Resolver
	cache    ScoreCache
}

type EngineOption func(*Engine)

// WithCache reuses criterion scores across passes.
func WithCache(c ScoreCache) EngineOption {
	return func(e *Engine) { e.cache = c }
}

// WithResolver overrides the missing-data policy.
func WithResolver(r Resolver) EngineOption {
	return func(e *Engine) { e.resolver = r }
}

func NewEngine(reg *criteria.Registry, opts ...EngineOption) *Engine {
	e := &Engine{registry: reg, resolver: DefaultResolver()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Registry() *criteria.Registry { return e.registry }
func (e *Engine) Resolver() Resolver           { return e.resolver }

// ScoreEntity scores ent under already-normalized weights. Criteria are
// visited in registry order so floating-point accumulation is reproducible.
func (e *Engine) ScoreEntity(ent *school.Entity, normalized Weights) ScoredEntity {
	out := ScoredEntity{ID: ent.ID(), Name: ent.Name()}
	scores := make([]criteria.Score, 0, len(normalized))
	var total float64
	for _, c := range e.registry.Criteria() {
		w, ok := normalized[c.Key()]
		if !ok {
			continue
		}
		s := e.criterionScore(c, ent)
		eff := e.resolver.Effective(s)
		weighted := eff * w
		total += weighted
		scores = append(scores, s)
		out.Breakdown = append(out.Breakdown, Contribution{
			Key:         c.Key(),
			Title:       c.Title(),
			Value:       s.Value,
			Confidence:  s.Confidence,
			Explanation: s.Explanation,
			Weight:      w,
			Effective:   eff,
			Weighted:    weighted,
		})
	}
	out.Total = clampScore(total)
	out.Completeness = e.resolver.Completeness(scores)
	return out
}

func (e *Engine) criterionScore(c criteria.Criterion, ent *school.Entity) criteria.Score {
	if e.cache != nil {
		if s, ok := e.cache.Get(ent.ID(), c.Key(), ent.Version()); ok {
			return s
		}
	}
	s := safeScore(c, ent)
	s.Value = clampScore(s.Value)
	if e.cache != nil {
		e.cache.Set(ent.ID(), c.Key(), ent.Version(), s)
	}
	return s
}

// safeScore turns a scorer panic into missing data for that criterion.
func safeScore(c criteria.Criterion, ent *school.Entity) (s criteria.Score) {
	defer func() {
		if r := recover(); r != nil {
			s = criteria.Score{
				Value:       criteria.NeutralValue,
				Confidence:  criteria.Missing,
				Explanation: fmt.Sprintf("could not evaluate %s: %v", c.Key(), r),
			}
		}
	}()
	return c.Score(ent)
}

func clampScore(x float64) float64 {
	if x != x || x < 0 {
		return 0
	}
	if x > 100 {
		return 100
	}
	return x
}
