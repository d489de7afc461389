package sched

import (
	"context"
	"time"
)

// BatchingSearcher wraps a base Searcher and returns the same state across
// several Select calls, deferring to the base only once a time or
// instruction budget elapses. This amortizes the cost of a base searcher
// that is expensive to consult (a weighted draw, a solver-backed one) over
// several steps of the same state.
type BatchingSearcher struct {
	base    Searcher
	clock   func() time.Time
	counter InstructionCounter
	logger  *Logger

	timeBudget time.Duration
	instBudget uint64

	current    *ExecutionState
	batchStart time.Time
	batchInsts uint64
	haveBatch  bool
}

// NewBatchingSearcher wraps base with the given time and instruction
// budgets. counter supplies the global executed-instruction snapshot used
// to measure the instruction budget. logger receives a debug event
// whenever the time budget grows; pass nil to disable logging.
func NewBatchingSearcher(base Searcher, timeBudget time.Duration, instBudget uint64, counter InstructionCounter, logger *Logger) *BatchingSearcher {
	if logger == nil {
		logger = NoopLogger()
	}
	return &BatchingSearcher{
		base:       base,
		clock:      time.Now,
		counter:    counter,
		logger:     logger,
		timeBudget: timeBudget,
		instBudget: instBudget,
	}
}

func (b *BatchingSearcher) startBatch() {
	b.current = b.base.Select()
	b.batchStart = b.clock()
	if b.counter != nil {
		b.batchInsts = b.counter.Instructions()
	}
	b.haveBatch = true
}

func (b *BatchingSearcher) Select() *ExecutionState {
	if !b.haveBatch {
		b.startBatch()
		return b.current
	}

	elapsed := b.clock().Sub(b.batchStart)
	var instsUsed uint64
	if b.counter != nil {
		instsUsed = b.counter.Instructions() - b.batchInsts
	}

	// A zero budget disables that dimension rather than exhausting it
	// immediately: only a non-zero budget can end the batch.
	withinTime := b.timeBudget == 0 || elapsed < b.timeBudget
	withinInsts := b.instBudget == 0 || instsUsed < b.instBudget
	if withinTime && withinInsts {
		return b.current
	}

	// The batch ran long on time: grow the time budget adaptively so future
	// batches aren't cut short by the same margin. A disabled (zero) time
	// budget never grows: it wasn't what ended the batch.
	if b.timeBudget != 0 && elapsed > (b.timeBudget*11)/10 {
		b.timeBudget = elapsed
		b.logger.LogBatchBudget(context.Background(), b.timeBudget, b.instBudget)
	}

	b.startBatch()
	return b.current
}

func (b *BatchingSearcher) Update(current *ExecutionState, added, removed []*ExecutionState) {
	b.base.Update(current, added, removed)
	if b.haveBatch && containsPointer(removed, b.current) {
		b.haveBatch = false
		b.current = nil
	}
}

func (b *BatchingSearcher) Empty() bool { return b.base.Empty() }

func (b *BatchingSearcher) Size() int { return b.base.Size() }

func (b *BatchingSearcher) SelectForDeletion(ctx context.Context, n int) []*ExecutionState {
	return b.base.SelectForDeletion(ctx, n)
}
