package queue

import "fmt"

// ChannelQueue wraps a buffered channel as a Queue.
//
// This is the standard library approach. Each Push/Pop performs
// a non-blocking channel operation via select with default.
// The channel buffer is capacity-1 so that both implementations
// share one occupancy contract.
type ChannelQueue[T any] struct {
	ch   chan T
	size int
}

// NewChannel creates a ChannelQueue holding at most capacity-1 elements.
// Returns ErrInvalidCapacity if capacity <= 1.
func NewChannel[T any](capacity int) (*ChannelQueue[T], error) {
	if capacity <= 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCapacity, capacity)
	}
	return &ChannelQueue[T]{
		ch:   make(chan T, capacity-1),
		size: capacity,
	}, nil
}

// Push adds an item to the queue.
// Returns false if the queue is full (non-blocking).
func (q *ChannelQueue[T]) Push(v T) bool {
	select {
	case q.ch <- v:
		return true
	default:
		return false
	}
}

// Pop removes and returns an item from the queue.
// Returns false if the queue is empty (non-blocking).
func (q *ChannelQueue[T]) Pop() (T, bool) {
	select {
	case v := <-q.ch:
		return v, true
	default:
		var zero T
		return zero, false
	}
}

// Size returns the capacity the queue was constructed with.
func (q *ChannelQueue[T]) Size() int {
	return q.size
}
