package sched

import (
	"context"
	"time"
)

// Expr is an opaque symbolic predicate. Construction, simplification and
// interpretation of expressions are entirely the Engine's concern; the core
// only ever forwards an Expr from an ExecutionState to a Solver.
type Expr any

// InstructionInfo identifies a static program instruction for the purposes
// of per-instruction statistics (WeightedRandomSearcher's InstCount weight
// keys off InstructionInfo.ID).
type InstructionInfo struct {
	ID uint64
}

// Instruction is the unit of program counter position an ExecutionState
// tracks. Only the static InstructionInfo it points to is visible to the
// core.
type Instruction struct {
	Info *InstructionInfo
}

// CallPathStatistics carries per-call-path counters the core reads for the
// CPInstCount weight: the number of instructions executed under this call
// path so far.
type CallPathStatistics struct {
	Instructions uint64
}

// CallPathNode is one entry of an ExecutionState's call stack.
type CallPathNode struct {
	Statistics *CallPathStatistics
}

// StackFrame is one frame of an ExecutionState's call stack, carrying the
// call-path node used for CPInstCount weighting and a hint the Engine
// maintains for the MinDistToUncovered weight: the shortest known distance
// to an uncovered branch reachable after this frame returns.
type StackFrame struct {
	CallPathNode               *CallPathNode
	MinDistToUncoveredOnReturn uint64
}

// ExecutionState is the small, fixed surface of a symbolic execution state
// the core is allowed to read and write. Everything else about a state —
// its memory model, path condition, register file — belongs to the Engine
// and is invisible here.
type ExecutionState struct {
	// ID uniquely identifies this state for the lifetime of a run. It is
	// used for logging, metrics and test assertions, and PendingSearcher
	// keys its pending-membership bitmap on it (as a uint32); no searcher's
	// selection order depends on it.
	ID uint64

	// Depth is the number of forks on the path from the root to this state.
	Depth uint64

	// PendingConstraint is non-nil exactly when this state is pending: it
	// has forked away from a sensitive control-flow point without being
	// proven feasible, and needs a revival query before it may run again.
	PendingConstraint Expr

	// PTreeNode is this state's leaf in the shared process tree.
	PTreeNode *Node

	// PC is the instruction this state is about to execute.
	PC *Instruction

	// Stack is the state's call stack, innermost frame last.
	Stack []StackFrame

	// QueryCost is the cumulative wall-clock time this state has spent
	// waiting on solver queries, used by the QueryCost weight.
	QueryCost time.Duration

	// InstsSinceCovNew is the number of instructions executed since this
	// state last covered a new branch, used by the CoveringNew weight.
	InstsSinceCovNew uint64
}

// topFrame returns the innermost stack frame, or the zero value if the
// stack is empty.
func (s *ExecutionState) topFrame() StackFrame {
	if len(s.Stack) == 0 {
		return StackFrame{}
	}
	return s.Stack[len(s.Stack)-1]
}

// SolverStatus classifies how a revival query resolved.
type SolverStatus int

const (
	// SolverAnswered means the query completed and returned a definite
	// true/false answer.
	SolverAnswered SolverStatus = iota
	// SolverTimedOut means the query exceeded its configured timeout.
	SolverTimedOut
	// SolverFailed means the query could not be answered for a reason other
	// than timeout.
	SolverFailed
)

// Solver is the contract the core queries during pending-state revival.
// Construction, simplification and caching of queries are entirely the
// Engine/solver implementation's concern.
type Solver interface {
	// MayBeTrue asks whether expr can be true under state's current path
	// condition. status reports how the query resolved; ok is only
	// meaningful when status is SolverAnswered.
	MayBeTrue(ctx context.Context, state *ExecutionState, expr Expr) (ok bool, status SolverStatus, err error)

	// SetTimeout bounds how long a subsequent MayBeTrue call may run.
	SetTimeout(d time.Duration)
}

// SolverFailurePolicy is a shared, mutable toggle mirroring the
// "ignore-solver-failures" config entry. It is a handle rather than a
// package-level global so multiple searchers sharing one Engine observe the
// same effective policy, including a temporary override PendingSearcher and
// ZESTIPendingSearcher install for the duration of a revival sweep.
type SolverFailurePolicy struct {
	ignore bool
}

// NewSolverFailurePolicy constructs a policy with the given default.
func NewSolverFailurePolicy(ignoreByDefault bool) *SolverFailurePolicy {
	return &SolverFailurePolicy{ignore: ignoreByDefault}
}

// Ignore reports whether solver failures currently resolve as "not
// satisfiable" (true) or should propagate to the caller (false).
func (p *SolverFailurePolicy) Ignore() bool { return p.ignore }

// Swap sets a new value and returns the previous one, so a caller can
// restore it with a single deferred call.
func (p *SolverFailurePolicy) Swap(v bool) bool {
	old := p.ignore
	p.ignore = v
	return old
}

// Reviver is the subset of Engine capabilities PendingSearcher and
// ZESTIPendingSearcher need to carry out a revival or a termination.
type Reviver interface {
	// AddConstraint asserts expr into state's path condition. Called after
	// a successful revival query, before the state is handed back to the
	// normal population.
	AddConstraint(state *ExecutionState, expr Expr)

	// TerminateState tears down a state the core has decided to kill.
	TerminateState(state *ExecutionState)
}

// HaltChecker reports whether the Engine has requested that any in-progress
// sweep stop early and return whatever partial result it has.
type HaltChecker interface {
	HaltExecution() bool
}

// CoverageOracle supplies the per-instruction and coverage-distance
// statistics WeightedRandomSearcher needs for the InstCount,
// MinDistToUncovered and CoveringNew weight types.
type CoverageOracle interface {
	// InstructionCount returns how many times the instruction identified by
	// id has executed so far.
	InstructionCount(id uint64) uint64

	// MinDistToUncovered returns the shortest known distance from pc to an
	// uncovered branch, falling back to onReturn (a stack frame's
	// MinDistToUncoveredOnReturn hint) when pc itself has no better bound.
	MinDistToUncovered(pc *Instruction, onReturn uint64) uint64
}

// InstructionCounter exposes the Engine's global executed-instruction
// counter, the snapshot source for BatchingSearcher's instruction budget.
type InstructionCounter interface {
	Instructions() uint64
}

// SensitiveDepthSource exposes the set of depths the Engine currently
// considers sensitive: points a ZESTIPendingSearcher should explore around.
type SensitiveDepthSource interface {
	SensitiveDepths() []uint64
}

// Engine is the full set of capabilities the core's more advanced searchers
// need from their host. It is never required in full: constructors accept
// only the narrower interface above that they actually use, so an Engine
// that implements Engine trivially satisfies all of them.
type Engine interface {
	Reviver
	HaltChecker
	CoverageOracle
	InstructionCounter
	SensitiveDepthSource
}

// MergeGroup is one active state-merging group a MergingSearcher may
// prioritize or release.
type MergeGroup interface {
	// HasMergedStates reports whether this group has at least one state
	// ready to resume after a merge.
	HasMergedStates() bool

	// PrioritizeState returns the state this group most wants scheduled
	// next, or nil if it has none to offer right now.
	PrioritizeState() *ExecutionState

	// Release lets go of any states this group is holding back, returning
	// them to the base searcher's population.
	Release()
}

// MergeGroupSource exposes the Engine's live list of active merge groups.
type MergeGroupSource interface {
	MergeGroups() []MergeGroup
}
