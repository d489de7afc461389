package sched

import (
	"context"
	"time"
)

// IterativeDeepeningTimeSearcher wraps a base Searcher and enforces a
// shared per-state time budget: any state that runs longer than the
// current bound without being removed is paused (pulled out of the base
// and parked) rather than allowed to keep monopolizing selection. When the
// base runs dry, the bound doubles and every paused state returns.
type IterativeDeepeningTimeSearcher struct {
	base   Searcher
	clock  func() time.Time
	logger *Logger

	bound  time.Duration
	paused map[*ExecutionState]struct{}

	selecting *ExecutionState
	startedAt time.Time
}

// NewIterativeDeepeningTimeSearcher wraps base with an initial one-second
// bound. logger receives an info event each time the bound doubles; pass
// nil to disable logging.
func NewIterativeDeepeningTimeSearcher(base Searcher, logger *Logger) *IterativeDeepeningTimeSearcher {
	if logger == nil {
		logger = NoopLogger()
	}
	return &IterativeDeepeningTimeSearcher{
		base:   base,
		clock:  time.Now,
		logger: logger,
		bound:  time.Second,
		paused: make(map[*ExecutionState]struct{}),
	}
}

// Bound returns the current deepening bound.
func (s *IterativeDeepeningTimeSearcher) Bound() time.Duration { return s.bound }

func (s *IterativeDeepeningTimeSearcher) Select() *ExecutionState {
	s.selecting = s.base.Select()
	s.startedAt = s.clock()
	return s.selecting
}

func (s *IterativeDeepeningTimeSearcher) Update(current *ExecutionState, added, removed []*ExecutionState) {
	// Split the removal list: states the base actually holds go to the
	// base; states we've paused ourselves are dropped from the pause set
	// directly, since the base never had them to begin with.
	var baseRemoved []*ExecutionState
	for _, r := range removed {
		if _, ok := s.paused[r]; ok {
			delete(s.paused, r)
			continue
		}
		baseRemoved = append(baseRemoved, r)
	}

	live := current != nil && !containsPointer(removed, current)
	elapsed := s.clock().Sub(s.startedAt)

	if live && current == s.selecting && elapsed > s.bound {
		// current ran out its budget: pause it instead of forwarding it as
		// a plain update to the base.
		baseRemoved = append(baseRemoved, current)
		s.paused[current] = struct{}{}
		current = nil
	}

	s.base.Update(current, added, baseRemoved)

	if s.base.Empty() && len(s.paused) > 0 {
		s.bound *= 2
		resumed := make([]*ExecutionState, 0, len(s.paused))
		for p := range s.paused {
			resumed = append(resumed, p)
		}
		s.paused = make(map[*ExecutionState]struct{})
		s.logger.LogDeepen(context.Background(), s.bound, len(resumed))
		s.base.Update(nil, resumed, nil)
	}
}

func (s *IterativeDeepeningTimeSearcher) Empty() bool {
	return s.base.Empty() && len(s.paused) == 0
}

func (s *IterativeDeepeningTimeSearcher) Size() int {
	return s.base.Size() + len(s.paused)
}

func (s *IterativeDeepeningTimeSearcher) SelectForDeletion(ctx context.Context, n int) []*ExecutionState {
	return s.base.SelectForDeletion(ctx, n)
}
