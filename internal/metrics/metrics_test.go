package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRegister(t *testing.T) {
	m := New(nil)
	reg := prometheus.NewRegistry()
	if err := m.Register(reg); err != nil {
		t.Fatalf("Register() returned error: %v", err)
	}
	if err := New(nil).Register(reg); err == nil {
		t.Fatalf("expected duplicate registration to fail")
	}
}

func TestObserveRank(t *testing.T) {
	m := New(nil)
	m.ObserveRank(20*time.Millisecond, 12, 2)
	m.ObserveRank(10*time.Millisecond, 9, 0)
	m.ObserveValidationError()

	if got := testutil.ToFloat64(m.rankTotal); got != 2 {
		t.Fatalf("expected 2 passes, got %v", got)
	}
	if got := testutil.ToFloat64(m.rankSkipped); got != 2 {
		t.Fatalf("expected 2 skipped, got %v", got)
	}
	if got := testutil.ToFloat64(m.lastRankedCount); got != 9 {
		t.Fatalf("expected last count 9, got %v", got)
	}
	if got := testutil.ToFloat64(m.validationErrors); got != 1 {
		t.Fatalf("expected 1 validation error, got %v", got)
	}
}

func TestObserveReloadAndTools(t *testing.T) {
	m := New(nil)
	m.ObserveReload(40, 3, nil)
	m.ObserveReload(0, 0, errors.New("boom"))
	m.ObserveToolCall("rank_schools", "ok")
	m.ObserveToolCall("rank_schools", "INVALID_WEIGHTS")

	if got := testutil.ToFloat64(m.datasetSchools); got != 40 {
		t.Fatalf("expected 40 schools, got %v", got)
	}
	if got := testutil.ToFloat64(m.datasetReloads.WithLabelValues("error")); got != 1 {
		t.Fatalf("expected 1 failed reload, got %v", got)
	}
	if got := testutil.ToFloat64(m.invalidations); got != 3 {
		t.Fatalf("expected 3 invalidations, got %v", got)
	}
	if got := testutil.ToFloat64(m.toolCalls.WithLabelValues("rank_schools", "INVALID_WEIGHTS")); got != 1 {
		t.Fatalf("expected 1 failed tool call, got %v", got)
	}
}

func TestCacheCounters(t *testing.T) {
	m := New(func() (uint64, uint64) { return 7, 3 })
	if got := testutil.ToFloat64(m.cacheHits); got != 7 {
		t.Fatalf("expected 7 hits, got %v", got)
	}
	if got := testutil.ToFloat64(m.cacheMisses); got != 3 {
		t.Fatalf("expected 3 misses, got %v", got)
	}
}
