// Package cancel provides the shutdown flag shared by a pool and its workers.
//
// AtomicCanceler is the implementation: a single atomic.Bool. Workers poll
// Done() every time the queue comes up empty, so the check must stay a single
// load. A host context is not wired in here; the pool turns its cancellation
// into an ordinary shutdown before this flag is raised.
package cancel

// Canceler provides cancellation signaling to workers.
//
// Implementations must be safe for concurrent use:
//   - Multiple goroutines may call Done() concurrently
//   - Cancel() may be called concurrently with Done()
type Canceler interface {
	// Done returns true if cancellation has been triggered.
	Done() bool

	// Cancel triggers cancellation. Safe to call multiple times.
	Cancel()
}
