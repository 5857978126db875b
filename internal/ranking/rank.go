// schoolrank: weighted multi-criteria school ranking
// SPDX-License-Identifier: MIT
//
// Batch ranking with deterministic ordering and competition ranks.

package ranking

import (
	"context"
	"errors"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"schoolrank/internal/fanout"
	"schoolrank/internal/logging"
	"schoolrank/internal/school"
)

// TieEpsilon is the largest total-score difference treated as a tie.
const TieEpsilon = 1e-6

// DefaultParallelThreshold is the collection size from which scoring fans out.
const DefaultParallelThreshold = 256

// RankedEntity is a scored entity with its 1-based competition rank.
type RankedEntity struct {
	Rank int `json:"rank"`
	ScoredEntity
}

// Skipped identifies an input that could not be ranked.
type Skipped struct {
	Index  int    `json:"index"`
	ID     string `json:"id,omitempty"`
	Reason string `json:"reason"`
}

// Result is the terminal output of a ranking pass. It holds plain data only.
type Result struct {
	Entries         []RankedEntity `json:"entries"`
	Weights         Weights        `json:"weights"`
	RegistryVersion string         `json:"registry_version"`
	Skipped         []Skipped      `json:"skipped,omitempty"`
	Stats           Stats          `json:"stats"`
}

// Find returns the entry for id.
func (r *Result) Find(id string) (RankedEntity, bool) {
	for _, e := range r.Entries {
		if e.ID == id {
			return e, true
		}
	}
	return RankedEntity{}, false
}

// Observer receives per-pass measurements.
type Observer interface {
	ObserveRank(d time.Duration, ranked, skipped int)
	ObserveValidationError()
}

// Ranker scores and orders collections. A pass is a pure function of the
// entity snapshot and the weights; re-ranking after a weight change is just
// another call.
type Ranker struct {
	engine    *Engine
	logger    *zap.Logger
	observer  Observer
	threshold int
	workers   int
}

type RankerOption func(*Ranker)

func WithLogger(l *zap.Logger) RankerOption {
	return func(r *Ranker) {
		if l != nil {
			r.logger = l
		}
	}
}

func WithObserver(o Observer) RankerOption {
	return func(r *Ranker) { r.observer = o }
}

// WithParallelism scores collections of at least threshold entities with up
// to workers goroutines. threshold <= 0 disables parallel scoring; workers <= 0
// uses GOMAXPROCS.
func WithParallelism(threshold, workers int) RankerOption {
	return func(r *Ranker) {
		r.threshold = threshold
		r.workers = workers
	}
}

func NewRanker(engine *Engine, opts ...RankerOption) *Ranker {
	r := &Ranker{engine: engine, logger: zap.NewNop(), threshold: DefaultParallelThreshold}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Ranker) Engine() *Engine { return r.engine }

// Normalize validates weights against the ranker's registry.
func (r *Ranker) Normalize(w Weights) (Weights, error) {
	return Normalize(r.engine.registry, w)
}

// Rank normalizes weights once, scores every entity, and returns them in
// descending total order. Invalid weights abort the pass without a result.
// Nil entities and repeated ids are reported in Result.Skipped.
func (r *Ranker) Rank(ctx context.Context, entities []*school.Entity, w Weights) (*Result, error) {
	start := time.Now()
	normalized, err := r.Normalize(w)
	if err != nil {
		if r.observer != nil && errors.Is(err, ErrInvalidWeights) {
			r.observer.ObserveValidationError()
		}
		return nil, err
	}

	accepted, skipped := screen(entities)

	var scored []ScoredEntity
	parallel := r.threshold > 0 && len(accepted) >= r.threshold && r.workers != 1
	if parallel {
		scored, err = fanout.Map(ctx, accepted, r.workers, func(ctx context.Context, _ int, e *school.Entity) (ScoredEntity, error) {
			return r.engine.ScoreEntity(e, normalized), nil
		})
		if err != nil {
			return nil, err
		}
	} else {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		scored = make([]ScoredEntity, len(accepted))
		for i, e := range accepted {
			scored[i] = r.engine.ScoreEntity(e, normalized)
		}
	}

	entries := Order(scored)
	res := &Result{
		Entries:         entries,
		Weights:         normalized,
		RegistryVersion: r.engine.registry.Version(),
		Skipped:         skipped,
		Stats:           Summarize(r.engine.registry.Keys(), entries),
	}

	elapsed := time.Since(start)
	if r.observer != nil {
		r.observer.ObserveRank(elapsed, len(entries), len(skipped))
	}
	r.logger.Debug("ranked collection",
		zap.Int("ranked", len(entries)),
		zap.Int("skipped", len(skipped)),
		zap.Bool("parallel", parallel),
		zap.Duration("elapsed", elapsed),
		logging.FieldWeights("weights", normalized),
	)
	return res, nil
}

func screen(entities []*school.Entity) ([]*school.Entity, []Skipped) {
	accepted := make([]*school.Entity, 0, len(entities))
	var skipped []Skipped
	seen := make(map[string]struct{}, len(entities))
	for i, e := range entities {
		if e == nil || e.ID() == "" {
			skipped = append(skipped, Skipped{Index: i, Reason: "unreadable identifier"})
			continue
		}
		if _, dup := seen[e.ID()]; dup {
			skipped = append(skipped, Skipped{Index: i, ID: e.ID(), Reason: "duplicate identifier"})
			continue
		}
		seen[e.ID()] = struct{}{}
		accepted = append(accepted, e)
	}
	return accepted, skipped
}

type sortable struct {
	ScoredEntity
	folded string
}

// Order sorts scored entities by descending total, breaking ties by
// case-folded name, then name, then id, and assigns standard competition
// ranks: totals within TieEpsilon of the first entry of their run share a rank
// and the next run starts at that rank plus the run length.
func Order(scored []ScoredEntity) []RankedEntity {
	items := make([]sortable, len(scored))
	folder := cases.Fold()
	for i, s := range scored {
		items[i] = sortable{ScoredEntity: s, folded: norm.NFC.String(folder.String(s.Name))}
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Total != items[j].Total {
			return items[i].Total > items[j].Total
		}
		return byName(items[i], items[j])
	})

	out := make([]RankedEntity, 0, len(items))
	for start := 0; start < len(items); {
		end := start + 1
		for end < len(items) && math.Abs(items[start].Total-items[end].Total) <= TieEpsilon {
			end++
		}
		run := items[start:end]
		sort.SliceStable(run, func(i, j int) bool { return byName(run[i], run[j]) })
		for _, it := range run {
			out = append(out, RankedEntity{Rank: start + 1, ScoredEntity: it.ScoredEntity})
		}
		start = end
	}
	return out
}

func byName(a, b sortable) bool {
	if a.folded != b.folded {
		return a.folded < b.folded
	}
	if a.Name != b.Name {
		return a.Name < b.Name
	}
	return a.ID < b.ID
}
