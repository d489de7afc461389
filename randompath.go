package sched

import (
	"context"

	"github.com/gosymex/sched/rng"
)

// RandomPathSearcher samples a leaf of the shared process tree uniformly by
// walking from the root and, at every internal node, flipping a coin to
// decide which tagged child to descend into. Because the walk only ever
// follows slots tagged for this searcher's own bit, several
// RandomPathSearcher instances (up to maxRandomPathTags) can share one tree
// without interfering: each sees its own view of which subtrees are live.
type RandomPathSearcher struct {
	tree *Tree
	tag  uint8
	rng  *rng.RNG

	flips     uint32
	flipsLeft uint8
}

// NewRandomPathSearcher registers a new RandomPathSearcher against tree. It
// returns ErrTagsExhausted if tree already has maxRandomPathTags searchers
// registered.
func NewRandomPathSearcher(tree *Tree, r *rng.RNG) (*RandomPathSearcher, error) {
	tag, err := tree.allocTag()
	if err != nil {
		return nil, err
	}
	return &RandomPathSearcher{tree: tree, tag: tag, rng: r}, nil
}

// nextBit draws one random bit, refilling its 32-bit buffer whenever it
// runs dry rather than drawing a fresh random number per node descended.
func (s *RandomPathSearcher) nextBit() bool {
	if s.flipsLeft == 0 {
		s.flips = s.rng.Uint32()
		s.flipsLeft = 32
	}
	bit := s.flips&1 == 1
	s.flips >>= 1
	s.flipsLeft--
	return bit
}

func (s *RandomPathSearcher) Select() *ExecutionState {
	if !s.tree.Root.validFor(s.tag) {
		panicInvariant("RandomPathSearcher.Select", "called on an empty searcher")
	}
	node := s.tree.Root.node
	for !node.isLeaf() {
		leftValid := node.Left.validFor(s.tag)
		rightValid := node.Right.validFor(s.tag)
		switch {
		case leftValid && rightValid:
			if s.nextBit() {
				node = node.Left.node
			} else {
				node = node.Right.node
			}
		case leftValid:
			node = node.Left.node
		case rightValid:
			node = node.Right.node
		default:
			panicInvariant("RandomPathSearcher.Select", "descended into a node with no valid child for this searcher's tag")
		}
	}
	return node.Data
}

// Update ascends from every added and removed state's leaf, setting or
// clearing this searcher's tag bit along the way and pruning any ancestor
// slot that becomes invalid on both sides.
func (s *RandomPathSearcher) Update(_ *ExecutionState, added, removed []*ExecutionState) {
	for _, a := range added {
		n := a.PTreeNode
		if n == nil {
			continue
		}
		for cur := n; cur != nil; cur = cur.Parent {
			slot := s.tree.slotFor(cur)
			if slot.tag&s.tag != 0 {
				break
			}
			slot.setBit(s.tag)
		}
	}
	for _, r := range removed {
		n := r.PTreeNode
		if n == nil {
			continue
		}
		s.tree.slotFor(n).clearBit(s.tag)
		s.tree.prune(n.Parent, s.tag)
	}
}

func (s *RandomPathSearcher) Empty() bool {
	return !s.tree.Root.validFor(s.tag)
}

// Size walks the tagged subtree and counts its leaves. The process tree
// keeps no running per-tag count, so this is O(population) rather than O(1).
func (s *RandomPathSearcher) Size() int {
	return countTaggedLeaves(s.tree.Root, s.tag)
}

func countTaggedLeaves(slot ChildSlot, tag uint8) int {
	if !slot.validFor(tag) {
		return 0
	}
	n := slot.node
	if n.isLeaf() {
		return 1
	}
	return countTaggedLeaves(n.Left, tag) + countTaggedLeaves(n.Right, tag)
}

// SelectForDeletion proposes the first n tagged leaves encountered by a
// depth-first walk, mirroring the original's simplification of just taking
// states from the front of the engine's own list.
func (s *RandomPathSearcher) SelectForDeletion(_ context.Context, n int) []*ExecutionState {
	var out []*ExecutionState
	collectTaggedLeaves(s.tree.Root, s.tag, n, &out)
	return out
}

func collectTaggedLeaves(slot ChildSlot, tag uint8, n int, out *[]*ExecutionState) {
	if len(*out) >= n || !slot.validFor(tag) {
		return
	}
	node := slot.node
	if node.isLeaf() {
		*out = append(*out, node.Data)
		return
	}
	collectTaggedLeaves(node.Left, tag, n, out)
	collectTaggedLeaves(node.Right, tag, n, out)
}
