// Package queue provides bounded MPMC queue implementations used as the
// task-dispatch backbone of the worker pool.
//
// This package offers two implementations of the Queue interface:
//   - Ring: lock-free ring buffer with CAS-advanced head/tail cursors
//   - ChannelQueue: standard library baseline using a buffered channel
//
// # Capacity
//
// Both implementations reserve one guard slot: a queue constructed with
// capacity C holds at most C-1 elements. A capacity of 1 or less is rejected
// at construction with ErrInvalidCapacity.
//
// # Ordering
//
// Pops observe elements in cursor (claim) order. Pushes from one goroutine are
// committed in call order; pushes from different goroutines are ordered by
// whichever CAS commits first, not by when Push was called.
package queue

// Queue is a bounded multi-producer multi-consumer queue.
//
// Implementations are non-blocking: Push returns false if full,
// Pop returns false if empty.
type Queue[T any] interface {
	// Push adds an item to the queue.
	// Returns false if the queue is full, in which case the caller still
	// owns the item and nothing was modified.
	Push(T) bool

	// Pop removes and returns an item from the queue.
	// Returns false if the queue is empty.
	Pop() (T, bool)

	// Size returns the allocated capacity, including the guard slot.
	Size() int
}
