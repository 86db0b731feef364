// Package ratelimit implements a per-identity sliding-window request limiter.
//
// Each identity owns the timestamps of its admitted requests. A request is
// admitted when fewer than Max timestamps fall inside the trailing Window;
// rejected attempts are not recorded. The prune-check-append sequence runs
// under a single mutex, so concurrent callers can never push an identity past
// Max admissions in any rolling window.
//
// State is process-local and lives as long as the Limiter. Identities whose
// timestamps have all expired are swept opportunistically.
package ratelimit

import (
	"sync"
	"time"
)

const (
	// DefaultMax is the number of requests admitted per window.
	DefaultMax = 5
	// DefaultWindow is the trailing window length.
	DefaultWindow = 15 * time.Minute

	// sweepEvery is the number of Admit calls between sweeps of idle identities.
	sweepEvery = 5000
)

// Decision is the outcome of a single admission check.
type Decision struct {
	Allowed bool
	// Remaining is the number of further requests admissible right now.
	Remaining int
	// RetryAfter is how long until the oldest recorded request leaves the
	// window. Zero when Allowed.
	RetryAfter time.Duration
}

// Limiter is a sliding-window limiter keyed by identity.
// It is safe for concurrent use.
type Limiter struct {
	max    int
	window time.Duration
	now    func() time.Time

	mu      sync.Mutex
	hits    map[string][]time.Time
	lookups uint64
}

// Option customizes a Limiter.
type Option func(*Limiter)

// WithClock replaces time.Now. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) { l.now = now }
}

// New returns a Limiter admitting max requests per window.
// Non-positive arguments fall back to DefaultMax and DefaultWindow.
func New(max int, window time.Duration, opts ...Option) *Limiter {
	if max <= 0 {
		max = DefaultMax
	}
	if window <= 0 {
		window = DefaultWindow
	}
	l := &Limiter{
		max:    max,
		window: window,
		now:    time.Now,
		hits:   make(map[string][]time.Time),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Max returns the per-window request cap.
func (l *Limiter) Max() int { return l.max }

// Window returns the window length.
func (l *Limiter) Window() time.Duration { return l.window }

// Allow reports whether a request from identity is admitted, recording it if so.
func (l *Limiter) Allow(identity string) bool {
	return l.Admit(identity).Allowed
}

// Admit checks identity against its window and records the request when
// admitted.
func (l *Limiter) Admit(identity string) Decision {
	now := l.now()
	cutoff := now.Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	l.lookups++
	if l.lookups >= sweepEvery {
		l.sweep(cutoff)
		l.lookups = 0
	}

	ts := prune(l.hits[identity], cutoff)

	if len(ts) >= l.max {
		l.hits[identity] = ts
		return Decision{
			Allowed:    false,
			Remaining:  0,
			RetryAfter: ts[0].Sub(cutoff),
		}
	}

	ts = append(ts, now)
	l.hits[identity] = ts
	return Decision{Allowed: true, Remaining: l.max - len(ts)}
}

// Len returns the number of tracked identities.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.hits)
}

// prune drops timestamps at or before cutoff. ts is ordered oldest first.
func prune(ts []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for i < len(ts) && !ts[i].After(cutoff) {
		i++
	}
	if i == 0 {
		return ts
	}
	// Copy down so the backing array does not grow without bound.
	n := copy(ts, ts[i:])
	return ts[:n]
}

// sweep removes identities with no timestamps inside the window.
// Caller must hold l.mu.
func (l *Limiter) sweep(cutoff time.Time) {
	for k, ts := range l.hits {
		if len(ts) == 0 || !ts[len(ts)-1].After(cutoff) {
			delete(l.hits, k)
		}
	}
}
