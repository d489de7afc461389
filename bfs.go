package sched

import "context"

// BFSSearcher always resumes the state that has waited longest: a FIFO
// queue. Selecting a state does not remove it — it stays at the front until
// Update reports it forked or was removed. When a selected state forks,
// Update moves it to the back of the queue and then appends its children
// behind it, so a state which just forked yields to every state already
// waiting instead of keeping the head of the queue.
type BFSSearcher struct {
	states []*ExecutionState
}

// NewBFSSearcher returns a BFSSearcher seeded with the given root state.
func NewBFSSearcher(root *ExecutionState) *BFSSearcher {
	return &BFSSearcher{states: []*ExecutionState{root}}
}

func (b *BFSSearcher) Select() *ExecutionState {
	if len(b.states) == 0 {
		panicInvariant("BFSSearcher.Select", "called on an empty searcher")
	}
	return b.states[0]
}

func (b *BFSSearcher) Update(current *ExecutionState, added, removed []*ExecutionState) {
	if len(added) > 0 && current != nil && !containsPointer(removed, current) {
		b.states = mustRemoveOrdered("BFSSearcher.Update", b.states, current)
		b.states = append(b.states, current)
	}

	b.states = append(b.states, added...)

	for _, r := range removed {
		b.states = mustRemoveOrdered("BFSSearcher.Update", b.states, r)
	}
}

func (b *BFSSearcher) Empty() bool { return len(b.states) == 0 }

func (b *BFSSearcher) Size() int { return len(b.states) }

func (b *BFSSearcher) SelectForDeletion(_ context.Context, n int) []*ExecutionState {
	return firstN(b.states, n)
}

func containsPointer(states []*ExecutionState, target *ExecutionState) bool {
	for _, s := range states {
		if s == target {
			return true
		}
	}
	return false
}
