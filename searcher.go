package sched

import "context"

// Searcher decides which of a population of execution states runs next. All
// concrete strategies in this package implement it; several wrap another
// Searcher to add a policy layer (batching, deepening, merging, pending
// management) without duplicating the base selection logic.
type Searcher interface {
	// Select returns the next state to run. It must only be called when
	// Empty reports false; calling it on an empty searcher is a programmer
	// error and panics with an *InvariantViolation.
	Select() *ExecutionState

	// Update reports the outcome of the last stepped state: current is the
	// state that was just run (nil if it terminated or is otherwise gone),
	// added are new states the Engine just created (typically forks of
	// current), and removed are states the Engine has torn down.
	Update(current *ExecutionState, added, removed []*ExecutionState)

	// Empty reports whether the searcher has no state left to offer.
	Empty() bool

	// Size returns the number of states currently held. For decorators
	// whose base tracks the population, this delegates to the base.
	Size() int

	// SelectForDeletion proposes up to n states as eviction candidates
	// under memory pressure. It does not remove them: the Engine still
	// calls Update with them in removed once it acts on the proposal.
	// ctx allows the Engine to cancel a sweep that runs a solver query per
	// candidate (PendingSearcher's default policy); searchers that never
	// block ignore it.
	SelectForDeletion(ctx context.Context, n int) []*ExecutionState
}

// removeOrdered removes the first element identical to target from states,
// preserving the relative order of the rest. Containers with a positional
// discipline (DFS's stack, BFS's queue) need this so removing a state in
// the middle doesn't reshuffle who's next. It reports whether target was
// found.
func removeOrdered(states []*ExecutionState, target *ExecutionState) ([]*ExecutionState, bool) {
	for i, s := range states {
		if s == target {
			return append(states[:i:i], states[i+1:]...), true
		}
	}
	return states, false
}

// removeUnordered removes the first element identical to target from
// states in O(1) once found, by copying the last element over the hole.
// Safe for containers with no positional discipline (Random,
// WeightedRandom). It reports whether target was found.
func removeUnordered(states []*ExecutionState, target *ExecutionState) ([]*ExecutionState, bool) {
	for i, s := range states {
		if s == target {
			last := len(states) - 1
			states[i] = states[last]
			states = states[:last]
			return states, true
		}
	}
	return states, false
}

// mustRemoveOrdered removes target from states and panics if it is not
// present, for callers whose contract guarantees membership.
func mustRemoveOrdered(op string, states []*ExecutionState, target *ExecutionState) []*ExecutionState {
	next, ok := removeOrdered(states, target)
	if !ok {
		panicInvariant(op, "removed state was not present in the searcher's population")
	}
	return next
}

// mustRemoveUnordered is mustRemoveOrdered's unordered-removal counterpart.
func mustRemoveUnordered(op string, states []*ExecutionState, target *ExecutionState) []*ExecutionState {
	next, ok := removeUnordered(states, target)
	if !ok {
		panicInvariant(op, "removed state was not present in the searcher's population")
	}
	return next
}

// firstN returns up to n leading elements of states as an eviction
// proposal, without mutating states.
func firstN(states []*ExecutionState, n int) []*ExecutionState {
	if n > len(states) {
		n = len(states)
	}
	out := make([]*ExecutionState, n)
	copy(out, states[:n])
	return out
}
