// Package resource throttles access to resources a single scheduler core
// never contends over by itself but a host process running many workers
// does: the shared solver farm behind revival queries, and the number of
// eviction sweeps allowed to run at once.
package resource

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// Config holds the throttles a host applies across the independent search
// workers it runs, each embedding its own scheduler core.
type Config struct {
	// MaxRevivalsPerSecond caps how often any worker may issue a
	// pending-state revival query against the shared solver farm. Zero
	// means unlimited.
	MaxRevivalsPerSecond float64

	// RevivalBurst is the number of revival queries allowed to run back to
	// back before the rate limit engages. Defaults to 1 when
	// MaxRevivalsPerSecond is set and this is left zero.
	RevivalBurst int

	// MaxConcurrentEvictionSweeps bounds how many SelectForDeletion sweeps
	// may run at once across all workers. Zero means unlimited.
	MaxConcurrentEvictionSweeps int64
}

// Controller throttles solver access and eviction sweeps across a pool of
// scheduler workers that would otherwise contend for the same solver farm.
// A nil *Controller behaves as unlimited, so it can be threaded through
// optionally without a caller having to nil-check first.
type Controller struct {
	reviveLimiter *rate.Limiter
	evictSem      *semaphore.Weighted

	activeRevivals atomic.Int64
}

// NewController builds a Controller from cfg.
func NewController(cfg Config) *Controller {
	c := &Controller{}
	if cfg.MaxRevivalsPerSecond > 0 {
		burst := cfg.RevivalBurst
		if burst <= 0 {
			burst = 1
		}
		c.reviveLimiter = rate.NewLimiter(rate.Limit(cfg.MaxRevivalsPerSecond), burst)
	}
	if cfg.MaxConcurrentEvictionSweeps > 0 {
		c.evictSem = semaphore.NewWeighted(cfg.MaxConcurrentEvictionSweeps)
	}
	return c
}

// AcquireRevival blocks until the shared solver farm has room for one more
// revival query, or ctx is canceled.
func (c *Controller) AcquireRevival(ctx context.Context) error {
	if c == nil || c.reviveLimiter == nil {
		return nil
	}
	if err := c.reviveLimiter.Wait(ctx); err != nil {
		return err
	}
	c.activeRevivals.Add(1)
	return nil
}

// ReleaseRevival marks one previously-acquired revival query as finished.
func (c *Controller) ReleaseRevival() {
	if c == nil || c.reviveLimiter == nil {
		return
	}
	c.activeRevivals.Add(-1)
}

// ActiveRevivals reports how many revival queries are in flight right now
// across every worker sharing this controller. Queries are only counted
// when MaxRevivalsPerSecond is set; otherwise it always reports 0.
func (c *Controller) ActiveRevivals() int64 {
	if c == nil {
		return 0
	}
	return c.activeRevivals.Load()
}

// AcquireEvictionSweep blocks until a slot is free for a SelectForDeletion
// sweep, if MaxConcurrentEvictionSweeps is configured.
func (c *Controller) AcquireEvictionSweep(ctx context.Context) error {
	if c == nil || c.evictSem == nil {
		return nil
	}
	return c.evictSem.Acquire(ctx, 1)
}

// TryAcquireEvictionSweep reserves a sweep slot without blocking.
func (c *Controller) TryAcquireEvictionSweep() bool {
	if c == nil || c.evictSem == nil {
		return true
	}
	return c.evictSem.TryAcquire(1)
}

// ReleaseEvictionSweep releases a previously-acquired sweep slot.
func (c *Controller) ReleaseEvictionSweep() {
	if c == nil || c.evictSem == nil {
		return
	}
	c.evictSem.Release(1)
}
