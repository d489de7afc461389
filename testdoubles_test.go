package sched

import (
	"context"
	"time"
)

// fakeSolver answers MayBeTrue deterministically from a per-state script,
// avoiding the ceremony of a full mock for the handful of call shapes the
// revival protocol actually needs.
type fakeSolver struct {
	answers map[*ExecutionState]fakeAnswer
	timeout time.Duration
	calls   int
}

type fakeAnswer struct {
	ok     bool
	status SolverStatus
	err    error
}

func newFakeSolver() *fakeSolver {
	return &fakeSolver{answers: make(map[*ExecutionState]fakeAnswer)}
}

func (f *fakeSolver) answer(s *ExecutionState, ok bool, status SolverStatus, err error) {
	f.answers[s] = fakeAnswer{ok: ok, status: status, err: err}
}

func (f *fakeSolver) MayBeTrue(_ context.Context, s *ExecutionState, _ Expr) (bool, SolverStatus, error) {
	f.calls++
	a, found := f.answers[s]
	if !found {
		return false, SolverFailed, nil
	}
	return a.ok, a.status, a.err
}

func (f *fakeSolver) SetTimeout(d time.Duration) { f.timeout = d }

// fakeEngine implements Reviver, HaltChecker, CoverageOracle,
// InstructionCounter and SensitiveDepthSource with plain recorded state.
type fakeEngine struct {
	added      []*ExecutionState
	terminated []*ExecutionState
	halt       bool
	instCounts map[uint64]uint64
	minDist    uint64
	instrTotal uint64
	sensitive  []uint64
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{instCounts: make(map[uint64]uint64)}
}

func (f *fakeEngine) AddConstraint(state *ExecutionState, _ Expr) {
	f.added = append(f.added, state)
}

func (f *fakeEngine) TerminateState(state *ExecutionState) {
	f.terminated = append(f.terminated, state)
}

func (f *fakeEngine) HaltExecution() bool { return f.halt }

func (f *fakeEngine) InstructionCount(id uint64) uint64 { return f.instCounts[id] }

func (f *fakeEngine) MinDistToUncovered(_ *Instruction, onReturn uint64) uint64 {
	if f.minDist != 0 {
		return f.minDist
	}
	return onReturn
}

func (f *fakeEngine) Instructions() uint64 { return f.instrTotal }

func (f *fakeEngine) SensitiveDepths() []uint64 { return f.sensitive }

func (f *fakeEngine) wasTerminated(s *ExecutionState) bool {
	for _, t := range f.terminated {
		if t == s {
			return true
		}
	}
	return false
}
