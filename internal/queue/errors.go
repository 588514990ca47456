package queue

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCapacity is returned when a queue is constructed with a
	// capacity that cannot tell full from empty.
	ErrInvalidCapacity = errors.New("queue: capacity must be greater than 1")

	// ErrInvariantViolation marks a broken head/tail accounting invariant.
	// It is never returned; it is raised via panic wrapped in an
	// *InvariantError.
	ErrInvariantViolation = errors.New("queue: invariant violation")
)

// InvariantError describes a claimed slot found in an impossible state.
type InvariantError struct {
	Op       string // "push" or "pop"
	Cursor   uint64 // the claimed head or tail value
	Expected uint64 // slot sequence the claimant was waiting for
	Observed uint64 // slot sequence actually found
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("queue: invariant violation: %s claimed cursor %d, slot sequence %d ahead of expected %d",
		e.Op, e.Cursor, e.Observed, e.Expected)
}

func (e *InvariantError) Unwrap() error { return ErrInvariantViolation }
