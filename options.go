package sched

import "time"

// options holds the config surface shared by PendingSearcher and
// ZESTIPendingSearcher. Both accept the same functional options so a caller
// can switch strategies without renaming flags.
type options struct {
	maxReviveTime         time.Duration
	randomPendingDeletion bool
	zestiBoundMultiplier  int
	logger                *Logger
	metrics               MetricsCollector
}

// Option configures a PendingSearcher or ZESTIPendingSearcher.
type Option func(*options)

// WithMaxReviveTime bounds how long a single revival solver query is allowed
// to run before it is treated as a failure. Corresponds to the
// "max-revive-time" config entry; default 0 (unlimited).
func WithMaxReviveTime(d time.Duration) Option {
	return func(o *options) {
		o.maxReviveTime = d
	}
}

// WithRandomPendingDeletion switches select_for_deletion from the
// solver-driven kill loop to the pending base's own eviction proposals,
// topped up from the normal base, with no solver query. Corresponds to the "random-pending-deletion" config entry.
func WithRandomPendingDeletion(v bool) Option {
	return func(o *options) {
		o.randomPendingDeletion = v
	}
}

// WithZestiBoundMultiplier sets the multiplier applied to a sensitive
// depth's distance when computing a ZESTIPendingSearcher's exploration
// bound. Corresponds to the "zesti-bound-mul" config entry; default 2.
func WithZestiBoundMultiplier(m int) Option {
	return func(o *options) {
		o.zestiBoundMultiplier = m
	}
}

// WithLogger attaches a Logger. Pass nil to disable logging.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMetricsCollector attaches a MetricsCollector. Pass nil to disable
// metrics collection.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metrics = mc
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		zestiBoundMultiplier: 2,
		logger:               NoopLogger(),
		metrics:              NoopMetricsCollector{},
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.logger == nil {
		o.logger = NoopLogger()
	}
	if o.metrics == nil {
		o.metrics = NoopMetricsCollector{}
	}
	return o
}
