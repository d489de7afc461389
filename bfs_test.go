package sched

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBFSSearcher_FIFO(t *testing.T) {
	root := &ExecutionState{ID: 1}
	b := NewBFSSearcher(root)
	assert.Equal(t, root, b.Select())

	x := &ExecutionState{ID: 2}
	b.Update(nil, []*ExecutionState{x}, nil)
	assert.Equal(t, root, b.Select(), "root still leads the queue until removed")

	b.Update(root, nil, []*ExecutionState{root})
	assert.Equal(t, x, b.Select())
}

func TestBFSSearcher_ForkMovesCurrentToTail(t *testing.T) {
	root := &ExecutionState{ID: 1}
	second := &ExecutionState{ID: 2}
	b := NewBFSSearcher(root)
	b.Update(nil, []*ExecutionState{second}, nil)
	// queue: [root, second]

	left := &ExecutionState{ID: 3}
	right := &ExecutionState{ID: 4}
	b.Update(root, []*ExecutionState{left, right}, nil)
	// root forked without being removed: it moves to the tail, and its
	// children are appended after it.
	// queue: [second, root, left, right]

	assert.Equal(t, second, b.Select())
	b.Update(second, nil, []*ExecutionState{second})
	assert.Equal(t, root, b.Select())
	b.Update(root, nil, []*ExecutionState{root})
	assert.Equal(t, left, b.Select())
}

func TestBFSSearcher_RemovalOfUnknownStatePanics(t *testing.T) {
	root := &ExecutionState{ID: 1}
	b := NewBFSSearcher(root)
	stray := &ExecutionState{ID: 99}
	assert.Panics(t, func() {
		b.Update(nil, nil, []*ExecutionState{stray})
	})
}
