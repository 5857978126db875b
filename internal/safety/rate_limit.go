// schoolrank: weighted multi-criteria school ranking
// SPDX-License-Identifier: MIT
//
// Per-action rate limiting for expensive operations.

package safety

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter allows each action at most once per interval, with no burst.
// A zero interval disables limiting.
type Limiter struct {
	mu       sync.Mutex
	interval time.Duration
	actions  map[string]*rate.Limiter
}

func NewLimiter(interval time.Duration) *Limiter {
	return &Limiter{interval: interval, actions: map[string]*rate.Limiter{}}
}

// Allow reports whether action may run now and consumes the token if so.
func (l *Limiter) Allow(action string) bool {
	return l.AllowAt(action, time.Now())
}

// AllowAt is Allow evaluated at t.
func (l *Limiter) AllowAt(action string, t time.Time) bool {
	if l == nil || l.interval <= 0 {
		return true
	}
	l.mu.Lock()
	lim, ok := l.actions[action]
	if !ok {
		lim = rate.NewLimiter(rate.Every(l.interval), 1)
		l.actions[action] = lim
	}
	l.mu.Unlock()
	return lim.AllowN(t, 1)
}

// RetryAfter is the wait until action is allowed again.
func (l *Limiter) RetryAfter(action string) time.Duration {
	if l == nil || l.interval <= 0 {
		return 0
	}
	l.mu.Lock()
	lim, ok := l.actions[action]
	l.mu.Unlock()
	if !ok {
		return 0
	}
	r := lim.Reserve()
	d := r.Delay()
	r.Cancel()
	return d
}
