// schoolrank: weighted multi-criteria school ranking
// SPDX-License-Identifier: MIT
//
// Immutable dataset snapshots and reload with cache invalidation.

package dataset

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"schoolrank/internal/school"
)

// ErrNotLoaded is returned before the first successful load.
var ErrNotLoaded = errors.New("dataset not loaded")

// Snapshot is one loaded collection. It is never modified after construction.
type Snapshot struct {
	source   string
	loadedAt time.Time
	entities []*school.Entity
	byID     map[string]int
	cities   []string
	issues   []Issue
}

func newSnapshot(source string, items []Item, issues []Issue, at time.Time) *Snapshot {
	s := &Snapshot{
		source:   source,
		loadedAt: at,
		entities: make([]*school.Entity, 0, len(items)),
		byID:     make(map[string]int, len(items)),
		issues:   issues,
	}
	for _, it := range items {
		if it.Entity == nil {
			continue
		}
		if _, dup := s.byID[it.Entity.ID()]; dup {
			s.issues = append(s.issues, Issue{Origin: it.Entity.ID(), Reason: "duplicate identifier"})
			continue
		}
		s.byID[it.Entity.ID()] = len(s.entities)
		s.entities = append(s.entities, it.Entity)
		s.cities = append(s.cities, it.City)
	}
	return s
}

// NewSnapshot builds a snapshot from already-loaded items.
func NewSnapshot(source string, items []Item) *Snapshot {
	return newSnapshot(source, items, nil, time.Now())
}

func (s *Snapshot) Source() string      { return s.source }
func (s *Snapshot) LoadedAt() time.Time { return s.loadedAt }
func (s *Snapshot) Len() int            { return len(s.entities) }
func (s *Snapshot) Issues() []Issue     { return append([]Issue(nil), s.issues...) }

// Entities returns the collection in load order.
func (s *Snapshot) Entities() []*school.Entity {
	return append([]*school.Entity(nil), s.entities...)
}

func (s *Snapshot) Get(id string) (*school.Entity, bool) {
	i, ok := s.byID[id]
	if !ok {
		return nil, false
	}
	return s.entities[i], true
}

// City is the city an entity was filed under by its source.
func (s *Snapshot) City(id string) string {
	if i, ok := s.byID[id]; ok {
		return s.cities[i]
	}
	return ""
}

// Diff lists ids whose data changed or disappeared in next, and ids new in next.
func (s *Snapshot) Diff(next *Snapshot) (changed, removed, added []string) {
	for id, i := range s.byID {
		j, ok := next.byID[id]
		switch {
		case !ok:
			removed = append(removed, id)
		case s.entities[i].Version() != next.entities[j].Version():
			changed = append(changed, id)
		}
	}
	for id := range next.byID {
		if _, ok := s.byID[id]; !ok {
			added = append(added, id)
		}
	}
	sort.Strings(changed)
	sort.Strings(removed)
	sort.Strings(added)
	return changed, removed, added
}

// Invalidator drops cached scores for entity ids.
type Invalidator interface {
	Invalidate(ids ...string) int
}

// ReloadSummary describes the effect of a reload.
type ReloadSummary struct {
	Source      string   `json:"source"`
	Schools     int      `json:"schools"`
	Issues      int      `json:"issues"`
	Added       []string `json:"added,omitempty"`
	Changed     []string `json:"changed,omitempty"`
	Removed     []string `json:"removed,omitempty"`
	Invalidated int      `json:"invalidated"`
}

// Store owns the current snapshot. Rankers take a snapshot and keep using it
// even if a reload swaps in a newer one.
type Store struct {
	src    Source
	logger *zap.Logger
	cache  Invalidator
	now    func() time.Time

	loadMu sync.Mutex
	mu     sync.RWMutex
	snap   *Snapshot
}

type StoreOption func(*Store)

func WithLogger(l *zap.Logger) StoreOption {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithInvalidator wires the criterion cache so reloads evict stale scores.
func WithInvalidator(c Invalidator) StoreOption {
	return func(s *Store) { s.cache = c }
}

func NewStore(src Source, opts ...StoreOption) *Store {
	s := &Store{src: src, logger: zap.NewNop(), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot returns the current snapshot or ErrNotLoaded.
func (s *Store) Snapshot() (*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snap == nil {
		return nil, ErrNotLoaded
	}
	return s.snap, nil
}

// Reload reads the source and swaps in the new snapshot. On error the current
// snapshot stays in place. Cached scores of changed and removed entities are
// invalidated; unchanged entities keep theirs.
func (s *Store) Reload(ctx context.Context) (ReloadSummary, error) {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	items, issues, err := s.src.Load(ctx)
	if err != nil {
		return ReloadSummary{}, fmt.Errorf("load %s: %w", s.src.Name(), err)
	}
	next := newSnapshot(s.src.Name(), items, issues, s.now())

	s.mu.Lock()
	prev := s.snap
	s.snap = next
	s.mu.Unlock()

	sum := ReloadSummary{Source: next.source, Schools: next.Len(), Issues: len(next.issues)}
	if prev == nil {
		sum.Added = make([]string, 0, next.Len())
		for _, e := range next.entities {
			sum.Added = append(sum.Added, e.ID())
		}
		sort.Strings(sum.Added)
	} else {
		sum.Changed, sum.Removed, sum.Added = prev.Diff(next)
	}
	if s.cache != nil && (len(sum.Changed) > 0 || len(sum.Removed) > 0) {
		stale := append(append([]string(nil), sum.Changed...), sum.Removed...)
		sum.Invalidated = s.cache.Invalidate(stale...)
	}

	for _, is := range next.issues {
		s.logger.Warn("skipped school record", zap.String("origin", is.Origin), zap.String("reason", is.Reason))
	}
	s.logger.Info("dataset loaded",
		zap.String("source", sum.Source),
		zap.Int("schools", sum.Schools),
		zap.Int("issues", sum.Issues),
		zap.Int("added", len(sum.Added)),
		zap.Int("changed", len(sum.Changed)),
		zap.Int("removed", len(sum.Removed)),
		zap.Int("invalidated", sum.Invalidated),
	)
	return sum, nil
}
