// schoolrank: weighted multi-criteria school ranking
// SPDX-License-Identifier: MIT
//
// Unit tests for bounded parallel map.

package fanout

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
)

func TestMapPreservesOrder(t *testing.T) {
	items := []int{5, 4, 3, 2, 1, 0}
	res, err := Map(context.Background(), items, 3, func(ctx context.Context, i int, v int) (int, error) {
		return v * 10, nil
	})
	if err != nil {
		t.Fatalf("Map error: %v", err)
	}
	for i, v := range items {
		if res[i] != v*10 {
			t.Fatalf("result %d: expected %d, got %d", i, v*10, res[i])
		}
	}
}

func TestMapRespectsLimit(t *testing.T) {
	var inFlight, peak int32
	items := make([]int, 50)
	_, err := Map(context.Background(), items, 2, func(ctx context.Context, i int, _ int) (struct{}, error) {
		n := atomic.AddInt32(&inFlight, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		atomic.AddInt32(&inFlight, -1)
		return struct{}{}, nil
	})
	if err != nil {
		t.Fatalf("Map error: %v", err)
	}
	if peak > 2 {
		t.Fatalf("expected at most 2 concurrent calls, saw %d", peak)
	}
}

func TestMapReturnsFirstError(t *testing.T) {
	boom := errors.New("boom")
	res, err := Map(context.Background(), []int{1, 2, 3}, 0, func(ctx context.Context, i int, v int) (int, error) {
		if v == 2 {
			return 0, boom
		}
		return v, nil
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if res != nil {
		t.Fatalf("expected no results on error")
	}
}

func TestMapHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Map(ctx, []int{1, 2}, 1, func(ctx context.Context, i int, v int) (int, error) {
		return v, nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
