package cancel

import "sync/atomic"

// AtomicCanceler uses an atomic.Bool for cancellation signaling.
//
// The flag only ever moves from false to true; there is no way back.
type AtomicCanceler struct {
	done atomic.Bool
}

// NewAtomic creates a new AtomicCanceler.
func NewAtomic() *AtomicCanceler {
	return &AtomicCanceler{}
}

// Done returns true if cancellation has been triggered.
//
// This performs a single atomic load operation.
func (a *AtomicCanceler) Done() bool {
	return a.done.Load()
}

// Cancel triggers cancellation.
//
// Safe to call multiple times; subsequent calls are no-ops.
func (a *AtomicCanceler) Cancel() {
	a.done.Store(true)
}
