// Package ratelimit is the admission-control gate applied before any
// handler work. The default implementation is a fixed-window counter
// kept in process memory: one entry per caller identifier, reset when
// the window elapses. Counters are not shared across instances; a
// multi-instance deployment needs the Redis limiter instead.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"ecommerce-edge/internal/ratelimit/config"
)

type Decision struct {
	Allowed   bool
	Remaining int
}

// Limiter decides whether a request identified by key may proceed.
type Limiter interface {
	Check(ctx context.Context, identifier string) (Decision, error)
}

type entry struct {
	count   int
	resetAt time.Time
}

type MemoryLimiter struct {
	mu      sync.Mutex
	entries map[string]*entry
	window  time.Duration
	max     int
	now     func() time.Time
}

type Option func(*MemoryLimiter)

// WithClock replaces the time source. Tests use it to move through
// windows without sleeping.
func WithClock(now func() time.Time) Option {
	return func(l *MemoryLimiter) { l.now = now }
}

func NewMemoryLimiter(cfg config.Config, opts ...Option) *MemoryLimiter {
	if cfg.Window <= 0 {
		cfg.Window = config.DefaultWindow
	}
	if cfg.MaxRequests <= 0 {
		cfg.MaxRequests = config.DefaultMaxRequests
	}
	l := &MemoryLimiter{
		entries: make(map[string]*entry),
		window:  cfg.Window,
		max:     cfg.MaxRequests,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Check counts the request against the identifier's current window.
// The window resets only when now is strictly later than resetAt: a
// request landing exactly on the boundary still belongs to the old
// window. The request that overflows the counter is the one rejected.
func (l *MemoryLimiter) Check(_ context.Context, identifier string) (Decision, error) {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[identifier]
	if !ok || now.After(e.resetAt) {
		l.entries[identifier] = &entry{count: 1, resetAt: now.Add(l.window)}
		return Decision{Allowed: true, Remaining: l.max - 1}, nil
	}

	e.count++
	if e.count > l.max {
		return Decision{Allowed: false, Remaining: 0}, nil
	}
	return Decision{Allowed: true, Remaining: l.max - e.count}, nil
}

// Cleanup drops entries whose window has already ended. Without it the
// map grows with one entry per distinct caller ever seen.
func (l *MemoryLimiter) Cleanup() {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	for k, e := range l.entries {
		if now.After(e.resetAt) {
			delete(l.entries, k)
		}
	}
}

// StartJanitor runs Cleanup on a ticker until ctx is cancelled.
func (l *MemoryLimiter) StartJanitor(ctx context.Context, every time.Duration) {
	if every <= 0 {
		return
	}
	t := time.NewTicker(every)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				l.Cleanup()
			}
		}
	}()
}
