// schoolrank: weighted multi-criteria school ranking
// SPDX-License-Identifier: MIT
//
// Criterion score cache keyed by entity, criterion and data version.

package cache

import (
	"time"

	"schoolrank/internal/criteria"
)

// ScoreKey addresses one criterion score for one snapshot of an entity.
type ScoreKey struct {
	EntityID  string
	Criterion string
	Version   string
}

// Scores caches weight-independent criterion scores. A new data version never
// hits an old entry; Invalidate purges entries for entities whose data changed.
type Scores struct {
	c   *Cache[ScoreKey, criteria.Score]
	ttl time.Duration
}

func NewScores(ttl time.Duration) *Scores {
	return &Scores{c: New[ScoreKey, criteria.Score](), ttl: ttl}
}

func (s *Scores) Get(entityID, criterion, version string) (criteria.Score, bool) {
	return s.c.Get(ScoreKey{EntityID: entityID, Criterion: criterion, Version: version})
}

func (s *Scores) Set(entityID, criterion, version string, score criteria.Score) {
	s.c.Set(ScoreKey{EntityID: entityID, Criterion: criterion, Version: version}, score, s.ttl)
}

// Invalidate drops every cached score for the given entity ids.
func (s *Scores) Invalidate(entityIDs ...string) int {
	if len(entityIDs) == 0 {
		return 0
	}
	ids := make(map[string]struct{}, len(entityIDs))
	for _, id := range entityIDs {
		ids[id] = struct{}{}
	}
	return s.c.DeleteFunc(func(k ScoreKey) bool {
		_, ok := ids[k.EntityID]
		return ok
	})
}

func (s *Scores) Len() int { return s.c.Len() }

func (s *Scores) Stats() (hits, misses uint64) { return s.c.Stats() }
