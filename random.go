package sched

import (
	"context"

	"github.com/gosymex/sched/rng"
)

// RandomSearcher picks a state uniformly at random on every Select. Order
// carries no meaning here, so Update removes by swapping the last element
// into the hole instead of preserving position.
type RandomSearcher struct {
	states []*ExecutionState
	rng    *rng.RNG
}

// NewRandomSearcher returns a RandomSearcher seeded with root, drawing from r.
func NewRandomSearcher(root *ExecutionState, r *rng.RNG) *RandomSearcher {
	return &RandomSearcher{states: []*ExecutionState{root}, rng: r}
}

func (s *RandomSearcher) Select() *ExecutionState {
	if len(s.states) == 0 {
		panicInvariant("RandomSearcher.Select", "called on an empty searcher")
	}
	return s.states[s.rng.Intn(len(s.states))]
}

func (s *RandomSearcher) Update(_ *ExecutionState, added, removed []*ExecutionState) {
	s.states = append(s.states, added...)
	for _, r := range removed {
		s.states = mustRemoveUnordered("RandomSearcher.Update", s.states, r)
	}
}

func (s *RandomSearcher) Empty() bool { return len(s.states) == 0 }

func (s *RandomSearcher) Size() int { return len(s.states) }

// SelectForDeletion returns up to n distinct states sampled uniformly
// without replacement.
func (s *RandomSearcher) SelectForDeletion(_ context.Context, n int) []*ExecutionState {
	if n > len(s.states) {
		n = len(s.states)
	}
	pool := append([]*ExecutionState(nil), s.states...)
	out := make([]*ExecutionState, 0, n)
	for i := 0; i < n; i++ {
		j := s.rng.Intn(len(pool))
		out = append(out, pool[j])
		last := len(pool) - 1
		pool[j] = pool[last]
		pool = pool[:last]
	}
	return out
}
