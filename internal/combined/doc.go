// Package combined provides interaction benchmarks that test multiple
// components together.
//
// These benchmarks exercise the queue, the shutdown flag and the pool
// together, and compare the ring against a channel-fed pool and the sharded
// go-lock-free-ring, since isolated micro-benchmarks miss the cost of
// contention between producers and workers.
package combined
