package sched

import (
	"errors"
	"fmt"
)

// ErrTagsExhausted is returned when a fourth RandomPathSearcher tries to
// register against a process tree that already has three.
var ErrTagsExhausted = errors.New("sched: process tree ownership tags exhausted")

// InvariantViolation reports a broken core invariant: a contract the Engine
// or a decorated searcher failed to uphold (an unknown state passed to
// Update, a stale ChildSlot, a leaf with no ExecutionState). These are
// programmer errors, not runtime conditions callers should recover from;
// core methods panic with this type rather than return it.
type InvariantViolation struct {
	Op    string
	Msg   string
	cause error
}

func (e *InvariantViolation) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("sched: invariant violated in %s: %s: %v", e.Op, e.Msg, e.cause)
	}
	return fmt.Sprintf("sched: invariant violated in %s: %s", e.Op, e.Msg)
}

func (e *InvariantViolation) Unwrap() error { return e.cause }

func panicInvariant(op, msg string) {
	panic(&InvariantViolation{Op: op, Msg: msg})
}
