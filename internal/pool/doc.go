// Package pool implements a fixed-size worker pool dispatching through a
// lock-free bounded ring.
//
// Submit never blocks: it either places the task in the ring or reports
// ErrQueueFull immediately. Workers spin on the ring, yielding the processor
// when it is empty, and execute each task inline exactly once.
//
// Shutdown comes in two tiers:
//   - Join raises the shutdown flag and blocks until every worker has
//     drained the ring and exited.
//   - Close only raises the flag. Workers finish what is queued and exit on
//     their own; nothing waits for them.
//
// A panicking task is recovered so it cannot take a worker down with it.
// The failure is logged, counted, passed to the optional panic handler, and
// kept for Failures.
package pool
