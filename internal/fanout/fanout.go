// schoolrank: weighted multi-criteria school ranking
// SPDX-License-Identifier: MIT
//
// Bounded parallel map over independent items.

package fanout

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Map runs fn concurrently over items with at most limit goroutines and returns
// results in input order. limit <= 0 uses GOMAXPROCS. The first error cancels
// the remaining work and no results are returned.
func Map[T, R any](ctx context.Context, items []T, limit int, fn func(context.Context, int, T) (R, error)) ([]R, error) {
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	results := make([]R, len(items))
	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r, err := fn(ctx, i, item)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
