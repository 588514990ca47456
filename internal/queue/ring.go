package queue

import (
	"fmt"
	"runtime"
	"sync/atomic"
)

// Ring is a lock-free bounded MPMC queue.
//
// head and tail are monotonically increasing logical cursors; the slot for a
// cursor is cursor % capacity. The queue is empty when head == tail and full
// when tail-head == capacity-1, so one slot is always kept as a guard.
//
// A successful CAS on a cursor grants exclusive use of that slot index.
// Every cell carries a sequence stamp so the winner can tell whether the
// opposite side has finished with the slot:
//
//	seq == t      slot free for the push that claimed tail t
//	seq == t+1    slot holds the value written by that push
//	seq == t+cap  slot drained by the pop that claimed head t
//
// A claimant that finds the stamp behind its expectation yields until the
// other side catches up. A stamp ahead of the expectation can only come from
// broken accounting and panics with an *InvariantError.
type Ring[T any] struct {
	cells    []cell[T]
	capacity uint64

	// Cache line padding to prevent false sharing
	_pad0 [56]byte //nolint:unused

	head atomic.Uint64 // Advanced by consumers

	_pad1 [56]byte //nolint:unused

	tail atomic.Uint64 // Advanced by producers

	_pad2 [56]byte //nolint:unused
}

type cell[T any] struct {
	seq atomic.Uint64
	val T
}

// NewRing creates a Ring holding at most capacity-1 elements.
// Returns ErrInvalidCapacity if capacity <= 1.
func NewRing[T any](capacity int) (*Ring[T], error) {
	if capacity <= 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCapacity, capacity)
	}

	r := &Ring[T]{
		cells:    make([]cell[T], capacity),
		capacity: uint64(capacity),
	}
	for i := range r.cells {
		r.cells[i].seq.Store(uint64(i))
	}
	return r, nil
}

// MustRing is like NewRing but panics on an invalid capacity.
func MustRing[T any](capacity int) *Ring[T] {
	r, err := NewRing[T](capacity)
	if err != nil {
		panic(err)
	}
	return r
}

// Push adds an item to the queue.
// Returns false if the queue is full; v is left with the caller.
//
// Safe for any number of concurrent producers. A producer that wins a slot
// yields until the consumer of that slot's previous lap has finished reading
// it, so Push can wait for as long as that consumer is descheduled.
func (r *Ring[T]) Push(v T) bool {
	tail := r.tail.Load()
	for {
		head := r.head.Load()
		if head > tail {
			// tail went stale while head was read
			tail = r.tail.Load()
			continue
		}

		// Check if full
		if tail-head >= r.capacity-1 {
			return false
		}

		if r.tail.CompareAndSwap(tail, tail+1) {
			break
		}
		tail = r.tail.Load()
	}

	c := &r.cells[tail%r.capacity]
	c.await("push", tail, tail)
	c.val = v

	// Publish to the pop that will claim this cursor
	c.seq.Store(tail + 1)

	return true
}

// Pop removes and returns an item from the queue.
// Returns false if the queue is empty.
//
// Safe for any number of concurrent consumers. A consumer that wins a slot
// yields until the producer that claimed it has finished writing, so Pop can
// wait for as long as that producer is descheduled.
func (r *Ring[T]) Pop() (T, bool) {
	head := r.head.Load()
	for {
		tail := r.tail.Load()

		// Check if empty
		if head == tail {
			var zero T
			return zero, false
		}

		if r.head.CompareAndSwap(head, head+1) {
			break
		}
		head = r.head.Load()
	}

	c := &r.cells[head%r.capacity]
	c.await("pop", head, head+1)
	v := c.val
	var zero T
	c.val = zero

	// Hand the cell to the push one lap ahead
	c.seq.Store(head + r.capacity)

	return v, true
}

// Size returns the allocated capacity, including the guard slot.
//
// Occupancy is deliberately not exposed: head and tail are read at different
// instants, so any count would already be stale.
func (r *Ring[T]) Size() int {
	return int(r.capacity)
}

// await yields until the cell reaches sequence want.
func (c *cell[T]) await(op string, cursor, want uint64) {
	for {
		seq := c.seq.Load()
		if seq == want {
			return
		}
		if seq > want {
			panic(&InvariantError{Op: op, Cursor: cursor, Expected: want, Observed: seq})
		}
		runtime.Gosched()
	}
}
