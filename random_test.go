package sched

import (
	"context"
	"testing"

	"github.com/gosymex/sched/rng"
	"github.com/stretchr/testify/assert"
)

func TestRandomSearcher_SelectsAmongPopulation(t *testing.T) {
	root := &ExecutionState{ID: 1}
	r := NewRandomSearcher(root, rng.New(1))

	a := &ExecutionState{ID: 2}
	b := &ExecutionState{ID: 3}
	r.Update(nil, []*ExecutionState{a, b}, nil)

	seen := make(map[*ExecutionState]bool)
	for i := 0; i < 200; i++ {
		seen[r.Select()] = true
	}
	assert.True(t, seen[root])
	assert.True(t, seen[a])
	assert.True(t, seen[b])
}

func TestRandomSearcher_UnorderedRemoval(t *testing.T) {
	root := &ExecutionState{ID: 1}
	r := NewRandomSearcher(root, rng.New(1))
	a := &ExecutionState{ID: 2}
	r.Update(nil, []*ExecutionState{a}, nil)

	r.Update(nil, nil, []*ExecutionState{root})
	assert.Equal(t, 1, r.Size())
	assert.Equal(t, a, r.Select())
}

func TestRandomSearcher_SelectForDeletionDistinctAndBounded(t *testing.T) {
	root := &ExecutionState{ID: 1}
	r := NewRandomSearcher(root, rng.New(7))
	for i := 2; i <= 5; i++ {
		r.Update(nil, []*ExecutionState{{ID: uint64(i)}}, nil)
	}

	victims := r.SelectForDeletion(context.Background(), 3)
	assert.Len(t, victims, 3)
	seen := make(map[*ExecutionState]struct{})
	for _, v := range victims {
		seen[v] = struct{}{}
	}
	assert.Len(t, seen, 3, "victims must be distinct")

	all := r.SelectForDeletion(context.Background(), 100)
	assert.Len(t, all, r.Size(), "asking for more than the population caps at Size")
}
