package sched

import (
	"context"
	"time"

	roaring "github.com/RoaringBitmap/roaring/v2"
)

// isPending reports whether s carries an untested constraint: the
// interpreter forked it away from a sensitive point without proving it
// feasible, so it must be revived before it can run again.
func isPending(s *ExecutionState) bool {
	return s != nil && s.PendingConstraint != nil
}

// PendingSearcher splits its population between a normal base and a
// pending base, and revives pending states through the solver whenever the
// normal base runs dry. It and ZESTIPendingSearcher are the only Searchers
// that destroy states: once a revival query proves a pending constraint
// infeasible (or the query fails), the state is torn down entirely.
type PendingSearcher struct {
	normal, pending Searcher
	solver          Solver
	engine          Reviver
	halt            HaltChecker
	failures        *SolverFailurePolicy
	opts            options

	// pendingIDs mirrors pending's membership for O(1) lookups, instead of
	// scanning pending's population to answer "is this state pending".
	pendingIDs *roaring.Bitmap
}

// NewPendingSearcher wraps normal and pending, querying solver for
// revival and engine for the destructive teardown sequence.
func NewPendingSearcher(normal, pending Searcher, solver Solver, engine Reviver, halt HaltChecker, failures *SolverFailurePolicy, opts ...Option) *PendingSearcher {
	return &PendingSearcher{
		normal:     normal,
		pending:    pending,
		solver:     solver,
		engine:     engine,
		halt:       halt,
		failures:   failures,
		opts:       applyOptions(opts),
		pendingIDs: roaring.New(),
	}
}

func (p *PendingSearcher) Select() *ExecutionState {
	p.opts.metrics.RecordSelect("pending")
	return p.normal.Select()
}

func (p *PendingSearcher) Update(current *ExecutionState, added, removed []*ExecutionState) {
	var normalAdded, pendingAdded []*ExecutionState
	for _, a := range added {
		if isPending(a) {
			pendingAdded = append(pendingAdded, a)
			p.pendingIDs.Add(uint32(a.ID))
		} else {
			normalAdded = append(normalAdded, a)
		}
	}

	var normalRemoved, pendingRemoved []*ExecutionState
	for _, r := range removed {
		if isPending(r) {
			pendingRemoved = append(pendingRemoved, r)
			p.pendingIDs.Remove(uint32(r.ID))
		} else {
			normalRemoved = append(normalRemoved, r)
		}
	}

	normalCurrent := current
	if current != nil && isPending(current) && !containsPointer(removed, current) {
		// The interpreter set the pending flag during this step: current
		// leaves normal and joins pending, even though the Engine didn't
		// report it in either list.
		normalRemoved = append(normalRemoved, current)
		pendingAdded = append(pendingAdded, current)
		p.pendingIDs.Add(uint32(current.ID))
		normalCurrent = nil
	}

	p.normal.Update(normalCurrent, normalAdded, normalRemoved)
	p.pending.Update(nil, pendingAdded, pendingRemoved)
}

// Empty runs the revival protocol: as long as normal has nothing to offer
// and pending does, it pops one pending state and spends a solver query
// deciding whether to admit or destroy it.
func (p *PendingSearcher) Empty() bool {
	for p.normal.Empty() && !p.pending.Empty() {
		s := p.popPending()
		p.revive(context.Background(), s)
	}
	return p.normal.Empty() && p.pending.Empty()
}

func (p *PendingSearcher) Size() int {
	return p.normal.Size() + p.pending.Size()
}

// popPending removes and returns one state from the pending base, keeping
// pendingIDs in sync.
func (p *PendingSearcher) popPending() *ExecutionState {
	s := p.pending.Select()
	p.pending.Update(nil, nil, []*ExecutionState{s})
	p.pendingIDs.Remove(uint32(s.ID))
	return s
}

// revive runs one solver-backed revival query against s and either admits
// it to normal or destroys it. It reports whether s was destroyed.
func (p *PendingSearcher) revive(ctx context.Context, s *ExecutionState) bool {
	p.solver.SetTimeout(p.opts.maxReviveTime)
	defer p.solver.SetTimeout(0)
	restore := p.failures.Swap(true)
	defer p.failures.Swap(restore)

	start := time.Now()
	ok, status, err := p.solver.MayBeTrue(ctx, s, s.PendingConstraint)
	elapsed := time.Since(start)
	s.QueryCost += elapsed

	if err == nil && status == SolverAnswered && ok {
		p.engine.AddConstraint(s, s.PendingConstraint)
		s.PendingConstraint = nil
		p.normal.Update(nil, []*ExecutionState{s}, nil)
		p.opts.metrics.RecordRevive(elapsed)
		p.opts.logger.LogRevive(ctx, s.ID, elapsed)
		return false
	}

	p.opts.metrics.RecordKill(elapsed, err)
	p.opts.logger.LogKill(ctx, s.ID, elapsed, err)
	p.engine.TerminateState(s)
	return true
}

// SelectForDeletion evicts under the configured policy: by default it
// spends one solver query per popped pending until n pendings have been
// destroyed in place or pending runs out (any that revive instead just
// return to normal and don't count against n), stopping early if the
// Engine halts or ctx is done, then asks normal for whatever shortfall
// remains. A pending killed
// this way is already gone by the time this returns, so only normal's
// proposals are ever returned; SelectForDeletion still doesn't remove
// those itself. Under WithRandomPendingDeletion it skips the solver
// entirely and combines both bases' own proposals.
func (p *PendingSearcher) SelectForDeletion(ctx context.Context, n int) []*ExecutionState {
	if p.opts.randomPendingDeletion {
		victims := append([]*ExecutionState(nil), p.pending.SelectForDeletion(ctx, n)...)
		if len(victims) < n {
			victims = append(victims, p.normal.SelectForDeletion(ctx, n-len(victims))...)
		}
		return victims
	}

	killed := 0
	for killed < n && !p.pending.Empty() {
		if p.halt.HaltExecution() || ctx.Err() != nil {
			break
		}
		s := p.popPending()
		if p.revive(ctx, s) {
			killed++
		}
	}
	if killed >= n {
		return nil
	}
	return p.normal.SelectForDeletion(ctx, n-killed)
}

// IsPending reports whether the state with the given ID is currently held
// in the pending sub-population.
func (p *PendingSearcher) IsPending(id uint64) bool {
	return p.pendingIDs.Contains(uint32(id))
}
