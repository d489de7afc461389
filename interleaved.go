package sched

import "context"

// InterleavedSearcher round-robins over a fixed ordered list of
// sub-searchers, cycling backward starting at the last index: the first
// Select delegates to searchers[N-1], the next to searchers[N-2], and so on
// wrapping around to searchers[N-1] again after searchers[0].
type InterleavedSearcher struct {
	searchers []Searcher
	index     int // 1-based; searchers[index-1] serves the next Select
}

// NewInterleavedSearcher returns an InterleavedSearcher over searchers, in
// the given order. Panics if searchers is empty.
func NewInterleavedSearcher(searchers ...Searcher) *InterleavedSearcher {
	if len(searchers) == 0 {
		panicInvariant("NewInterleavedSearcher", "requires at least one sub-searcher")
	}
	return &InterleavedSearcher{searchers: searchers, index: 1}
}

func (i *InterleavedSearcher) Select() *ExecutionState {
	i.index--
	if i.index == 0 {
		i.index = len(i.searchers)
	}
	return i.searchers[i.index-1].Select()
}

func (i *InterleavedSearcher) Update(current *ExecutionState, added, removed []*ExecutionState) {
	for _, sub := range i.searchers {
		sub.Update(current, added, removed)
	}
}

func (i *InterleavedSearcher) Empty() bool {
	for _, sub := range i.searchers {
		if !sub.Empty() {
			return false
		}
	}
	return true
}

func (i *InterleavedSearcher) Size() int {
	total := 0
	for _, sub := range i.searchers {
		total += sub.Size()
	}
	return total
}

func (i *InterleavedSearcher) SelectForDeletion(ctx context.Context, n int) []*ExecutionState {
	var out []*ExecutionState
	for _, sub := range i.searchers {
		if len(out) >= n {
			break
		}
		out = append(out, sub.SelectForDeletion(ctx, n-len(out))...)
	}
	return out
}
