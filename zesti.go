package sched

import (
	"context"
	"sort"
	"time"
)

// infiniteDistance marks a pending state with no sensitive depth at or
// beyond its own — there is nothing nearby for ZESTI to steer it toward.
const infiniteDistance = ^uint64(0)

// ZESTIPendingSearcher explores around a set of Engine-flagged "sensitive"
// depths: once a pending state near one of them is revived, only states
// within a bound of its depth are admitted, and anything deeper is
// terminated rather than explored. Distances from pending states to the
// nearest sensitive depth are computed once, the first time Empty runs a
// revival round; no pending state may arrive after that point.
type ZESTIPendingSearcher struct {
	normal        *DFSSearcher
	pendingStates []*ExecutionState
	distance      map[*ExecutionState]uint64
	distancesDone bool

	toDelete []*ExecutionState

	currentBaseDepth int64 // -1 means unbounded
	bound            int64

	solver   Solver
	engine   Reviver
	sensitve SensitiveDepthSource
	failures *SolverFailurePolicy
	opts     options
}

// NewZESTIPendingSearcher wraps normal (a DFS over the non-pending
// population) and drives revival from sensitve's reported depths.
func NewZESTIPendingSearcher(normal *DFSSearcher, solver Solver, engine Reviver, sensitve SensitiveDepthSource, failures *SolverFailurePolicy, opts ...Option) *ZESTIPendingSearcher {
	return &ZESTIPendingSearcher{
		normal:           normal,
		distance:         make(map[*ExecutionState]uint64),
		currentBaseDepth: -1,
		solver:           solver,
		engine:           engine,
		sensitve:         sensitve,
		failures:         failures,
		opts:             applyOptions(opts),
	}
}

func (z *ZESTIPendingSearcher) computeDistances() {
	if z.distancesDone {
		return
	}
	sensitive := z.sensitve.SensitiveDepths()
	for _, p := range z.pendingStates {
		best := infiniteDistance
		for _, d := range sensitive {
			if d < p.Depth {
				continue
			}
			if diff := d - p.Depth; diff < best {
				best = diff
			}
		}
		z.distance[p] = best
	}

	// Larger distance first; among ties, larger depth first — so the back
	// of the slice, where revival pops from, is closest-to-sensitive and,
	// within a tie, shallowest first.
	sort.SliceStable(z.pendingStates, func(i, j int) bool {
		di, dj := z.distance[z.pendingStates[i]], z.distance[z.pendingStates[j]]
		if di != dj {
			return di > dj
		}
		return z.pendingStates[i].Depth > z.pendingStates[j].Depth
	})
	z.distancesDone = true
}

func (z *ZESTIPendingSearcher) Select() *ExecutionState {
	z.opts.metrics.RecordSelect("zesti")
	for _, s := range z.toDelete {
		z.engine.TerminateState(s)
	}
	z.toDelete = nil
	return z.normal.Select()
}

// routeNonPending admits s to the normal population unless it has drifted
// past the current exploration bound, in which case it is queued for
// termination the next time Select runs.
func (z *ZESTIPendingSearcher) routeNonPending(s *ExecutionState, admit *[]*ExecutionState) {
	if z.currentBaseDepth >= 0 && int64(s.Depth) > z.currentBaseDepth+z.bound {
		z.toDelete = append(z.toDelete, s)
		return
	}
	*admit = append(*admit, s)
}

func (z *ZESTIPendingSearcher) Update(current *ExecutionState, added, removed []*ExecutionState) {
	var normalAdmit, normalRemoved []*ExecutionState

	for _, a := range added {
		if isPending(a) {
			if z.distancesDone {
				panicInvariant("ZESTIPendingSearcher.Update", "a pending state arrived after the first revival round started")
			}
			z.pendingStates = append(z.pendingStates, a)
			continue
		}
		z.routeNonPending(a, &normalAdmit)
	}

	for _, r := range removed {
		if isPending(r) {
			z.pendingStates, _ = removeUnordered(z.pendingStates, r)
			delete(z.distance, r)
		} else {
			normalRemoved = append(normalRemoved, r)
		}
	}

	normalCurrent := current
	switch {
	case current != nil && isPending(current) && !containsPointer(removed, current):
		if z.distancesDone {
			panicInvariant("ZESTIPendingSearcher.Update", "a pending state arrived after the first revival round started")
		}
		normalRemoved = append(normalRemoved, current)
		z.pendingStates = append(z.pendingStates, current)
		normalCurrent = nil
	case current != nil && !containsPointer(removed, current) &&
		z.currentBaseDepth >= 0 && int64(current.Depth) > z.currentBaseDepth+z.bound:
		// current itself has drifted past the exploration bound, the same
		// fate as any other out-of-bound non-pending state.
		z.toDelete = append(z.toDelete, current)
		normalRemoved = append(normalRemoved, current)
		normalCurrent = nil
	}

	z.normal.Update(normalCurrent, normalAdmit, normalRemoved)
}

// Empty runs a revival round: with the sensitive-explore policy disabled
// (zesti-bound-mul == 0) it passes straight through to the normal
// population, ignoring pendingStates entirely. Otherwise, while the normal
// population is dry and pending states remain, it pops the one closest to
// a sensitive depth: if revived, it rebases the exploration bound around
// it; if its distance is infinite or revival fails, it terminates it.
// Pending states not popped in this round stay pending.
func (z *ZESTIPendingSearcher) Empty() bool {
	if z.opts.zestiBoundMultiplier == 0 {
		return z.normal.Empty()
	}

	z.computeDistances()

	for z.normal.Empty() && len(z.pendingStates) > 0 {
		last := len(z.pendingStates) - 1
		p := z.pendingStates[last]
		z.pendingStates = z.pendingStates[:last]

		dist := z.distance[p]
		revived := dist != infiniteDistance && z.revive(context.Background(), p)

		if !revived {
			delete(z.distance, p)
			z.engine.TerminateState(p)
			continue
		}

		z.currentBaseDepth = int64(p.Depth)
		z.bound = int64(z.opts.zestiBoundMultiplier) * int64(dist)
		if z.bound < 1 {
			z.bound = 1
		}
		delete(z.distance, p)
		z.opts.logger.LogZestiBound(context.Background(), p.Depth, uint64(z.bound))

		var admit []*ExecutionState
		z.routeNonPending(p, &admit)
		z.normal.Update(nil, admit, nil)
	}

	return z.normal.Empty()
}

func (z *ZESTIPendingSearcher) revive(ctx context.Context, s *ExecutionState) bool {
	z.solver.SetTimeout(z.opts.maxReviveTime)
	defer z.solver.SetTimeout(0)
	restore := z.failures.Swap(true)
	defer z.failures.Swap(restore)

	start := time.Now()
	ok, status, err := z.solver.MayBeTrue(ctx, s, s.PendingConstraint)
	elapsed := time.Since(start)
	s.QueryCost += elapsed

	if err == nil && status == SolverAnswered && ok {
		z.engine.AddConstraint(s, s.PendingConstraint)
		s.PendingConstraint = nil
		z.opts.metrics.RecordRevive(elapsed)
		z.opts.logger.LogRevive(ctx, s.ID, elapsed)
		return true
	}

	z.opts.metrics.RecordKill(elapsed, err)
	z.opts.logger.LogKill(ctx, s.ID, elapsed, err)
	return false
}

func (z *ZESTIPendingSearcher) Size() int {
	return z.normal.Size() + len(z.pendingStates) + len(z.toDelete)
}

// SelectForDeletion is not given a distinct policy by the specification for
// this searcher; it delegates to the normal DFS population, which is the
// only part of ZESTIPendingSearcher's state with a defined eviction order.
func (z *ZESTIPendingSearcher) SelectForDeletion(ctx context.Context, n int) []*ExecutionState {
	return z.normal.SelectForDeletion(ctx, n)
}
