package sched

import "context"

// DFSSearcher always resumes the most recently added state: a LIFO stack.
// It matches the original engine's DFS discipline exactly, including
// tolerating a removal request for a state it never held (the original
// scans and silently no-ops rather than asserting).
type DFSSearcher struct {
	states []*ExecutionState
}

// NewDFSSearcher returns a DFSSearcher seeded with the given root state.
func NewDFSSearcher(root *ExecutionState) *DFSSearcher {
	return &DFSSearcher{states: []*ExecutionState{root}}
}

func (d *DFSSearcher) Select() *ExecutionState {
	if len(d.states) == 0 {
		panicInvariant("DFSSearcher.Select", "called on an empty searcher")
	}
	return d.states[len(d.states)-1]
}

func (d *DFSSearcher) Update(current *ExecutionState, added, removed []*ExecutionState) {
	d.states = append(d.states, added...)
	for _, r := range removed {
		// Tolerate a removal request for a state this searcher never held:
		// mirrors the original's unchecked erase.
		d.states, _ = removeOrdered(d.states, r)
	}
}

func (d *DFSSearcher) Empty() bool { return len(d.states) == 0 }

func (d *DFSSearcher) Size() int { return len(d.states) }

func (d *DFSSearcher) SelectForDeletion(_ context.Context, n int) []*ExecutionState {
	return firstN(d.states, n)
}
