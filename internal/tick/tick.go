// Package tick provides a periodic trigger for polling loops.
//
// AtomicTicker is checked inline from a hot loop instead of selecting on a
// time.Ticker channel, so a loop that spins on other work (such as waiting
// for a pool to drain) can emit progress at a fixed cadence for the cost of
// a clock read and an atomic load.
package tick

import "time"

// DefaultInterval is a reasonable default for progress reporting.
const DefaultInterval = time.Second

// epoch anchors the monotonic clock readings used by AtomicTicker.
var epoch = time.Now()

// nanotime returns monotonic nanoseconds since epoch.
func nanotime() int64 {
	return int64(time.Since(epoch))
}
