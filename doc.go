// Package sched implements the state-selection core of a symbolic-execution
// engine: the subsystem that decides which of many live execution states to
// step next, and that manages a population of states whose survival may
// depend on a satisfiability query.
//
// # Overview
//
// The core exposes one abstract role, [Searcher], and a set of concrete
// strategies that compose as decorators over it:
//
//	DFSSearcher, BFSSearcher, RandomSearcher, WeightedRandomSearcher
//	RandomPathSearcher
//	BatchingSearcher, IterativeDeepeningTimeSearcher
//	InterleavedSearcher, MergingSearcher
//	PendingSearcher, ZESTIPendingSearcher
//
// An external Engine drives the core with one loop: call Select to obtain a
// state, step it, then call Update to report what was added, removed, or
// mutated. Symbolic interpretation, constraint construction, the memory
// model of states, the solver implementation, and persistence of the state
// population are all out of scope: the core only touches the small surface
// of ExecutionState described in state.go, and calls out to a [Solver] and
// an [Engine] for everything else.
//
// # Concurrency
//
// The core is single-threaded and cooperative. The Engine's step loop is the
// only caller; no searcher spawns goroutines or suspends asynchronously.
// The only synchronous suspension point is a solver query issued during
// revival (see [PendingSearcher] and [ZESTIPendingSearcher]), which is
// context-boundable like any other blocking call in this module.
package sched
