package sched

import (
	"context"
	"math"
	"time"

	"github.com/gosymex/sched/pdf"
	"github.com/gosymex/sched/rng"
)

// WeightType selects the formula WeightedRandomSearcher uses to turn a
// state into a sampling weight.
type WeightType int

const (
	// WeightDepth favors deeper states: weight equals fork depth.
	WeightDepth WeightType = iota
	// WeightRandomPath approximates RandomPathSearcher's uniform-leaf
	// sampling: weight is 2^-depth.
	WeightRandomPath
	// WeightInstCount favors states whose current instruction has executed
	// least often across the whole run.
	WeightInstCount
	// WeightCPInstCount favors states whose current call path has executed
	// the fewest instructions.
	WeightCPInstCount
	// WeightQueryCost favors states that have spent the least cumulative
	// time waiting on the solver.
	WeightQueryCost
	// WeightMinDistToUncovered favors states closest to an uncovered
	// branch.
	WeightMinDistToUncovered
	// WeightCoveringNew combines MinDistToUncovered with recency of last
	// covering a new branch.
	WeightCoveringNew
)

// staticWeight reports whether typ's weight, once computed at insertion, is
// stable for the lifetime of a state (Depth, RandomPath) or needs
// recomputation as the state executes (everything else).
func staticWeight(typ WeightType) bool {
	switch typ {
	case WeightDepth, WeightRandomPath:
		return true
	default:
		return false
	}
}

// WeightedRandomSearcher draws a state at random with probability
// proportional to a weight computed by typ. States whose weight can change
// as they execute are re-weighted every Update call; states whose weight is
// fixed at fork time (Depth, RandomPath) are not.
type WeightedRandomSearcher struct {
	typ    WeightType
	states *pdf.DiscretePDF[*ExecutionState]
	oracle CoverageOracle
	rng    *rng.RNG
}

// NewWeightedRandomSearcher returns a WeightedRandomSearcher seeded with
// root. oracle is required for WeightInstCount, WeightMinDistToUncovered
// and WeightCoveringNew; it may be nil for every other WeightType.
func NewWeightedRandomSearcher(root *ExecutionState, typ WeightType, oracle CoverageOracle, r *rng.RNG) *WeightedRandomSearcher {
	w := &WeightedRandomSearcher{
		typ:    typ,
		states: pdf.New[*ExecutionState](),
		oracle: oracle,
		rng:    r,
	}
	w.states.Insert(root, w.weight(root))
	return w
}

func (w *WeightedRandomSearcher) weight(s *ExecutionState) float64 {
	switch w.typ {
	case WeightDepth:
		return float64(s.Depth)

	case WeightRandomPath:
		return math.Pow(2, -float64(s.Depth))

	case WeightInstCount:
		w.requireOracle("WeightInstCount")
		var id uint64
		if s.PC != nil && s.PC.Info != nil {
			id = s.PC.Info.ID
		}
		count := w.oracle.InstructionCount(id)
		inv := 1.0 / math.Max(1, float64(count))
		return inv * inv

	case WeightCPInstCount:
		var count uint64
		if cp := s.topFrame().CallPathNode; cp != nil && cp.Statistics != nil {
			count = cp.Statistics.Instructions
		}
		return 1.0 / math.Max(1, float64(count))

	case WeightQueryCost:
		if s.QueryCost < 100*time.Millisecond {
			return 1
		}
		return 1.0 / s.QueryCost.Seconds()

	case WeightMinDistToUncovered:
		w.requireOracle("WeightMinDistToUncovered")
		md2u := w.oracle.MinDistToUncovered(s.PC, s.topFrame().MinDistToUncoveredOnReturn)
		inv := 1.0 / math.Max(float64(md2u), 10000)
		return inv * inv

	case WeightCoveringNew:
		w.requireOracle("WeightCoveringNew")
		md2u := w.oracle.MinDistToUncovered(s.PC, s.topFrame().MinDistToUncoveredOnReturn)
		invMD2U := 1.0 / math.Max(float64(md2u), 10000)
		var invCovNew float64
		if s.InstsSinceCovNew > 0 {
			denom := math.Max(1, float64(s.InstsSinceCovNew)-1000)
			invCovNew = 1.0 / denom
		}
		return invCovNew*invCovNew + invMD2U*invMD2U

	default:
		panicInvariant("WeightedRandomSearcher.weight", "unknown WeightType")
		return 0
	}
}

func (w *WeightedRandomSearcher) requireOracle(weightName string) {
	if w.oracle == nil {
		panicInvariant("WeightedRandomSearcher", weightName+" requires a non-nil CoverageOracle")
	}
}

func (w *WeightedRandomSearcher) Select() *ExecutionState {
	if w.states.Empty() {
		panicInvariant("WeightedRandomSearcher.Select", "called on an empty searcher")
	}
	return w.states.Choose(w.rng.Float64())
}

func (w *WeightedRandomSearcher) Update(current *ExecutionState, added, removed []*ExecutionState) {
	for _, r := range removed {
		w.states.Remove(r)
	}
	for _, a := range added {
		w.states.Insert(a, w.weight(a))
	}
	if !staticWeight(w.typ) && current != nil && !containsPointer(removed, current) {
		w.states.Update(current, w.weight(current))
	}
}

func (w *WeightedRandomSearcher) Empty() bool { return w.states.Empty() }

func (w *WeightedRandomSearcher) Size() int { return w.states.Size() }

// SelectForDeletion samples with replacement until it has collected up to n
// distinct states, matching the original's unordered_set accumulation. It
// gives up early rather than looping forever against a tiny population.
func (w *WeightedRandomSearcher) SelectForDeletion(_ context.Context, n int) []*ExecutionState {
	if w.states.Empty() || n <= 0 {
		return nil
	}
	seen := make(map[*ExecutionState]struct{}, n)
	maxAttempts := n*10 + 16
	for attempt := 0; len(seen) < n && attempt < maxAttempts; attempt++ {
		seen[w.states.Choose(w.rng.Float64())] = struct{}{}
	}
	out := make([]*ExecutionState, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	return out
}
