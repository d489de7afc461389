package sched

import "context"

// MergingSearcher wraps a base Searcher and gives priority to states that
// have reached a merge point. On Select, it asks each active merge group in
// turn whether it has a state ready to run; only once every group declines
// does it fall through to the base.
type MergingSearcher struct {
	base   Searcher
	groups MergeGroupSource
}

// NewMergingSearcher wraps base, consulting groups on every Select before
// falling back.
func NewMergingSearcher(base Searcher, groups MergeGroupSource) *MergingSearcher {
	return &MergingSearcher{base: base, groups: groups}
}

func (m *MergingSearcher) Select() *ExecutionState {
	for _, g := range m.groups.MergeGroups() {
		if !g.HasMergedStates() {
			continue
		}
		if s := g.PrioritizeState(); s != nil {
			return s
		}
		// This group has merged states but nothing ready yet: its deadline
		// has passed, so let go of what it's holding and move on.
		g.Release()
	}
	return m.base.Select()
}

func (m *MergingSearcher) Update(current *ExecutionState, added, removed []*ExecutionState) {
	m.base.Update(current, added, removed)
}

func (m *MergingSearcher) Empty() bool {
	for _, g := range m.groups.MergeGroups() {
		if g.HasMergedStates() {
			return false
		}
	}
	return m.base.Empty()
}

func (m *MergingSearcher) Size() int { return m.base.Size() }

func (m *MergingSearcher) SelectForDeletion(ctx context.Context, n int) []*ExecutionState {
	return m.base.SelectForDeletion(ctx, n)
}
