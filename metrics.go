package sched

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics
// from the pending-state revival protocol. Implement this to integrate with
// a monitoring system.
type MetricsCollector interface {
	// RecordRevive is called after a pending state is successfully revived.
	RecordRevive(queryTime time.Duration)

	// RecordKill is called after a pending state is killed, either because
	// its revival query proved infeasible or because the query itself
	// failed (a failure counts as infeasible during revival).
	RecordKill(queryTime time.Duration, err error)

	// RecordSelect is called at the start of every Select on a
	// PendingSearcher ("pending") or ZESTIPendingSearcher ("zesti"); other
	// searchers do not report selections.
	RecordSelect(kind string)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordRevive(time.Duration)      {}
func (NoopMetricsCollector) RecordKill(time.Duration, error) {}
func (NoopMetricsCollector) RecordSelect(string)             {}

// BasicMetricsCollector provides simple in-memory metrics collection,
// mirroring the named counters the original engine kept as statistics:
// PendingRevives, PendingKills, InfeasibleQueryTime and
// InfeasibleKillingQueryTime.
type BasicMetricsCollector struct {
	Revives        atomic.Int64
	Kills          atomic.Int64
	KillErrors     atomic.Int64
	RevivalQueryNs atomic.Int64
	KillingQueryNs atomic.Int64
	SelectCount    atomic.Int64
}

func (b *BasicMetricsCollector) RecordRevive(queryTime time.Duration) {
	b.Revives.Add(1)
	b.RevivalQueryNs.Add(queryTime.Nanoseconds())
}

func (b *BasicMetricsCollector) RecordKill(queryTime time.Duration, err error) {
	b.Kills.Add(1)
	b.KillingQueryNs.Add(queryTime.Nanoseconds())
	if err != nil {
		b.KillErrors.Add(1)
	}
}

func (b *BasicMetricsCollector) RecordSelect(string) {
	b.SelectCount.Add(1)
}

// Stats is a point-in-time snapshot of a BasicMetricsCollector.
type Stats struct {
	Revives          int64
	Kills            int64
	KillErrors       int64
	RevivalQueryTime time.Duration
	KillingQueryTime time.Duration
	Selects          int64
}

var _ MetricsCollector = (*BasicMetricsCollector)(nil)
var _ MetricsCollector = NoopMetricsCollector{}

// Snapshot returns the current values of every counter.
func (b *BasicMetricsCollector) Snapshot() Stats {
	return Stats{
		Revives:          b.Revives.Load(),
		Kills:            b.Kills.Load(),
		KillErrors:       b.KillErrors.Load(),
		RevivalQueryTime: time.Duration(b.RevivalQueryNs.Load()),
		KillingQueryTime: time.Duration(b.KillingQueryNs.Load()),
		Selects:          b.SelectCount.Load(),
	}
}
