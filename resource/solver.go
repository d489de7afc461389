package resource

import (
	"context"

	"github.com/gosymex/sched"
)

// ThrottledSolver decorates a sched.Solver so every revival query first
// clears the shared Controller before reaching the underlying solver farm.
type ThrottledSolver struct {
	sched.Solver
	ctrl *Controller
}

// NewThrottledSolver wraps s, gating its MayBeTrue calls through ctrl.
func NewThrottledSolver(s sched.Solver, ctrl *Controller) *ThrottledSolver {
	return &ThrottledSolver{Solver: s, ctrl: ctrl}
}

func (t *ThrottledSolver) MayBeTrue(ctx context.Context, state *sched.ExecutionState, expr sched.Expr) (bool, sched.SolverStatus, error) {
	if err := t.ctrl.AcquireRevival(ctx); err != nil {
		return false, sched.SolverFailed, err
	}
	defer t.ctrl.ReleaseRevival()
	return t.Solver.MayBeTrue(ctx, state, expr)
}
