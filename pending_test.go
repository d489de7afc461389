package sched

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPendingSearcher(root *ExecutionState) (*PendingSearcher, *fakeSolver, *fakeEngine) {
	normal := NewDFSSearcher(root)
	pending := NewDFSSearcher(&ExecutionState{ID: 0}) // placeholder, removed immediately below
	pending.Update(nil, nil, []*ExecutionState{pending.Select()})

	solver := newFakeSolver()
	engine := newFakeEngine()
	failures := NewSolverFailurePolicy(true)
	p := NewPendingSearcher(normal, pending, solver, engine, engine, failures)
	return p, solver, engine
}

func TestPendingSearcher_RoutesByPendingness(t *testing.T) {
	root := &ExecutionState{ID: 1}
	p, _, _ := newTestPendingSearcher(root)

	pendingChild := &ExecutionState{ID: 2, PendingConstraint: "cond"}
	normalChild := &ExecutionState{ID: 3}
	p.Update(nil, []*ExecutionState{pendingChild, normalChild}, nil)

	assert.True(t, p.IsPending(2))
	assert.False(t, p.IsPending(3))
	assert.Equal(t, 3, p.Size())
}

func TestPendingSearcher_CurrentBecomingPendingMidStep(t *testing.T) {
	root := &ExecutionState{ID: 1}
	p, _, _ := newTestPendingSearcher(root)

	root.PendingConstraint = "cond"
	p.Update(root, nil, nil)

	assert.True(t, p.IsPending(1))
	assert.True(t, p.normal.Empty())
}

func TestPendingSearcher_EmptyRevivesSuccessfully(t *testing.T) {
	root := &ExecutionState{ID: 1}
	p, solver, engine := newTestPendingSearcher(root)

	pendingState := &ExecutionState{ID: 2, PendingConstraint: "cond"}
	p.Update(nil, []*ExecutionState{pendingState}, nil)
	p.Update(nil, nil, []*ExecutionState{root}) // drain normal so Empty must revive

	solver.answer(pendingState, true, SolverAnswered, nil)
	assert.False(t, p.Empty())
	assert.Nil(t, pendingState.PendingConstraint)
	assert.Contains(t, engine.added, pendingState)
	assert.False(t, p.IsPending(2))
}

func TestPendingSearcher_EmptyKillsInfeasible(t *testing.T) {
	root := &ExecutionState{ID: 1}
	p, solver, engine := newTestPendingSearcher(root)

	pendingState := &ExecutionState{ID: 2, PendingConstraint: "cond"}
	p.Update(nil, []*ExecutionState{pendingState}, nil)
	p.Update(nil, nil, []*ExecutionState{root})

	solver.answer(pendingState, false, SolverAnswered, nil)
	assert.True(t, p.Empty())
	assert.True(t, engine.wasTerminated(pendingState))
}

func TestPendingSearcher_EmptyKillsOnSolverError(t *testing.T) {
	root := &ExecutionState{ID: 1}
	p, solver, engine := newTestPendingSearcher(root)

	pendingState := &ExecutionState{ID: 2, PendingConstraint: "cond"}
	p.Update(nil, []*ExecutionState{pendingState}, nil)
	p.Update(nil, nil, []*ExecutionState{root})

	solver.answer(pendingState, false, SolverFailed, errors.New("timeout"))
	assert.True(t, p.Empty())
	assert.True(t, engine.wasTerminated(pendingState))
}

func TestPendingSearcher_ReviveRestoresSolverTimeout(t *testing.T) {
	root := &ExecutionState{ID: 1}
	normal := NewDFSSearcher(root)
	pending := NewDFSSearcher(&ExecutionState{ID: 0})
	pending.Update(nil, nil, []*ExecutionState{pending.Select()})

	solver := newFakeSolver()
	engine := newFakeEngine()
	failures := NewSolverFailurePolicy(true)
	p := NewPendingSearcher(normal, pending, solver, engine, engine, failures, WithMaxReviveTime(5))

	pendingState := &ExecutionState{ID: 2, PendingConstraint: "cond"}
	p.Update(nil, []*ExecutionState{pendingState}, nil)
	p.Update(nil, nil, []*ExecutionState{root})

	solver.answer(pendingState, true, SolverAnswered, nil)
	p.Empty()
	assert.Equal(t, time.Duration(0), solver.timeout, "the revival timeout override must not leak to later queries")
}

func TestPendingSearcher_SelectForDeletionRandomPolicy(t *testing.T) {
	root := &ExecutionState{ID: 1}
	normal := NewDFSSearcher(root)
	pending := NewDFSSearcher(&ExecutionState{ID: 2, PendingConstraint: "cond"})
	solver := newFakeSolver()
	engine := newFakeEngine()
	failures := NewSolverFailurePolicy(true)
	p := NewPendingSearcher(normal, pending, solver, engine, engine, failures, WithRandomPendingDeletion(true))

	victims := p.SelectForDeletion(context.Background(), 2)
	assert.Len(t, victims, 2)
}

func TestPendingSearcher_SelectForDeletionHaltsEarly(t *testing.T) {
	root := &ExecutionState{ID: 1}
	p, solver, engine := newTestPendingSearcher(root)

	pendingState := &ExecutionState{ID: 2, PendingConstraint: "cond"}
	p.Update(nil, []*ExecutionState{pendingState}, nil)
	solver.answer(pendingState, false, SolverAnswered, nil)
	engine.halt = true

	victims := p.SelectForDeletion(context.Background(), 5)
	assert.False(t, engine.wasTerminated(pendingState), "halt is checked before spending a query on the pending state")
	assert.Contains(t, victims, root, "the shortfall still falls back to the normal population")
}

func TestPendingSearcher_SelectForDeletionKillsWithoutProposingVictim(t *testing.T) {
	root := &ExecutionState{ID: 1}
	p, solver, engine := newTestPendingSearcher(root)

	pendingState := &ExecutionState{ID: 2, PendingConstraint: "cond"}
	p.Update(nil, []*ExecutionState{pendingState}, nil)
	solver.answer(pendingState, false, SolverAnswered, nil)

	victims := p.SelectForDeletion(context.Background(), 1)
	assert.True(t, engine.wasTerminated(pendingState), "the infeasible pending is destroyed in place")
	assert.NotContains(t, victims, pendingState, "a state already destroyed must not also be proposed for removal")
	assert.Empty(t, victims, "the kill alone satisfied the quota, leaving nothing for normal to propose")
}

func TestPendingSearcher_SelectForDeletionFallsBackToNormal(t *testing.T) {
	root := &ExecutionState{ID: 1}
	p, _, _ := newTestPendingSearcher(root)

	other := &ExecutionState{ID: 2}
	p.Update(nil, []*ExecutionState{other}, nil)

	victims := p.SelectForDeletion(context.Background(), 5)
	require.Len(t, victims, 2)
}
