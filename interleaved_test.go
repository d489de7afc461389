package sched

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterleavedSearcher_CyclesBackwardFromLastIndex(t *testing.T) {
	a := &DFSSearcher{states: []*ExecutionState{{ID: 1}}}
	b := &DFSSearcher{states: []*ExecutionState{{ID: 2}}}
	c := &DFSSearcher{states: []*ExecutionState{{ID: 3}}}
	i := NewInterleavedSearcher(a, b, c)

	assert.Equal(t, uint64(3), i.Select().ID)
	assert.Equal(t, uint64(2), i.Select().ID)
	assert.Equal(t, uint64(1), i.Select().ID)
	assert.Equal(t, uint64(3), i.Select().ID, "wraps back to the last sub-searcher")
}

func TestInterleavedSearcher_EmptyRequiresAllSubsEmpty(t *testing.T) {
	a := NewDFSSearcher(&ExecutionState{ID: 1})
	b := NewDFSSearcher(&ExecutionState{ID: 2})
	i := NewInterleavedSearcher(a, b)
	assert.False(t, i.Empty())

	a.Update(nil, nil, []*ExecutionState{a.Select()})
	assert.False(t, i.Empty())

	b.Update(nil, nil, []*ExecutionState{b.Select()})
	assert.True(t, i.Empty())
}

func TestInterleavedSearcher_RequiresAtLeastOneSub(t *testing.T) {
	require.Panics(t, func() { NewInterleavedSearcher() })
}

func TestInterleavedSearcher_BroadcastsUpdate(t *testing.T) {
	a := NewDFSSearcher(&ExecutionState{ID: 1})
	b := NewDFSSearcher(&ExecutionState{ID: 2})
	i := NewInterleavedSearcher(a, b)

	fresh := &ExecutionState{ID: 3}
	i.Update(nil, []*ExecutionState{fresh}, nil)
	assert.Equal(t, 2, a.Size())
	assert.Equal(t, 2, b.Size())
	assert.Equal(t, 4, i.Size())
}
