package tick

import (
	"sync/atomic"
	"time"
)

// AtomicTicker uses atomic operations and the monotonic clock for fast tick
// checks.
//
// It is safe for concurrent use; when several goroutines poll the same
// ticker, exactly one of them observes each tick.
type AtomicTicker struct {
	interval int64 // nanoseconds
	lastTick atomic.Int64
}

// NewAtomicTicker creates an AtomicTicker with the specified interval.
func NewAtomicTicker(interval time.Duration) *AtomicTicker {
	t := &AtomicTicker{
		interval: int64(interval),
	}
	t.lastTick.Store(nanotime())
	return t
}

// Tick returns true if the interval has elapsed since the last tick.
//
// Uses a compare-and-swap to prevent multiple goroutines from
// triggering the same tick.
func (a *AtomicTicker) Tick() bool {
	now := nanotime()
	last := a.lastTick.Load()

	if now-last >= a.interval {
		// CAS to prevent multiple triggers
		if a.lastTick.CompareAndSwap(last, now) {
			return true
		}
	}
	return false
}

// Reset resets the ticker to start a new interval from now.
func (a *AtomicTicker) Reset() {
	a.lastTick.Store(nanotime())
}

// Interval returns the ticker's interval.
func (a *AtomicTicker) Interval() time.Duration {
	return time.Duration(a.interval)
}
