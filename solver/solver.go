// Package solver provides a deterministic, in-memory implementation of
// sched.Solver for tests that exercise PendingSearcher or
// ZESTIPendingSearcher without a real constraint solver behind them.
//
// It is grounded on the TimingSolver contract in the original engine's
// Searcher.cpp: setTimeout followed by mayBeTrue, one query at a time.
package solver

import (
	"context"
	"sync"
	"time"

	"github.com/gosymex/sched"
)

// Stub answers MayBeTrue from a fixed script keyed by expression value,
// falling back to a configurable default when an expression has no script
// entry.
type Stub struct {
	mu      sync.Mutex
	timeout time.Duration
	script  map[sched.Expr]result
	def     result
}

type result struct {
	ok     bool
	status sched.SolverStatus
	err    error
}

// New returns a Stub that answers every unscripted query as feasible.
func New() *Stub {
	return &Stub{
		script: make(map[sched.Expr]result),
		def:    result{ok: true, status: sched.SolverAnswered},
	}
}

// Answer scripts expr to resolve with the given outcome on every future
// query, regardless of which state asks.
func (s *Stub) Answer(expr sched.Expr, ok bool, status sched.SolverStatus, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.script[expr] = result{ok: ok, status: status, err: err}
}

// AnswerDefault sets the outcome for any expression with no scripted entry.
func (s *Stub) AnswerDefault(ok bool, status sched.SolverStatus, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.def = result{ok: ok, status: status, err: err}
}

// SetTimeout records the timeout a caller configured. The stub never
// actually blocks, so the value is observable only through Timeout.
func (s *Stub) SetTimeout(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timeout = d
}

// Timeout returns the most recently configured timeout.
func (s *Stub) Timeout() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timeout
}

// MayBeTrue resolves expr against the script, or the default outcome if
// expr was never scripted. It ignores ctx and state: the stub has no notion
// of a path condition.
func (s *Stub) MayBeTrue(_ context.Context, _ *sched.ExecutionState, expr sched.Expr) (bool, sched.SolverStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.script[expr]; ok {
		return r.ok, r.status, r.err
	}
	return s.def.ok, s.def.status, s.def.err
}
