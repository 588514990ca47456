// Command ringbench compares the lock-free Ring against a buffered channel.
//
// Usage:
//
//	go run ./cmd/ringbench -n 10000000 -size 1024 -p 4
package main

import (
	"flag"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/randomizedcoder/ringpool/internal/queue"
)

func main() {
	iterations := flag.Int("n", 10_000_000, "number of iterations")
	size := flag.Int("size", 1024, "queue capacity")
	parallel := flag.Int("p", 4, "goroutines for the contended run")
	flag.Parse()

	ch, err := queue.NewChannel[int](*size)
	if err != nil {
		fmt.Fprintln(os.Stderr, "ringbench:", err)
		os.Exit(1)
	}
	ring := queue.MustRing[int](*size)

	fmt.Printf("Benchmarking MPMC queue (%d iterations, size=%d)\n", *iterations, *size)
	fmt.Println("─────────────────────────────────────────────────")

	chDur := sequential(ch, *iterations)
	ringDur := sequential(ring, *iterations)
	report("push + pop per iteration, 1 goroutine", *iterations, chDur, ringDur)

	chDur = contended(ch, *iterations, *parallel)
	ringDur = contended(ring, *iterations, *parallel)
	report(fmt.Sprintf("push + pop per iteration, %d goroutines", *parallel), *iterations, chDur, ringDur)
}

func sequential(q queue.Queue[int], n int) time.Duration {
	start := time.Now()
	for i := 0; i < n; i++ {
		q.Push(i)
		q.Pop()
	}
	return time.Since(start)
}

// contended splits n push+pop pairs across p goroutines sharing q.
func contended(q queue.Queue[int], n, p int) time.Duration {
	if p < 1 {
		p = 1
	}
	var wg sync.WaitGroup
	start := time.Now()
	for g := 0; g < p; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < n/p; i++ {
				q.Push(i)
				q.Pop()
			}
		}()
	}
	wg.Wait()
	return time.Since(start)
}

func report(title string, n int, chDur, ringDur time.Duration) {
	chPerOp := float64(chDur.Nanoseconds()) / float64(n)
	ringPerOp := float64(ringDur.Nanoseconds()) / float64(n)

	fmt.Printf("\nResults (%s):\n", title)
	fmt.Printf("  Channel:  %v (%.2f ns/op)\n", chDur, chPerOp)
	fmt.Printf("  Ring:     %v (%.2f ns/op)\n", ringDur, ringPerOp)

	if ringPerOp < chPerOp {
		fmt.Printf("\n  Speedup:  %.2fx (Ring faster)\n", chPerOp/ringPerOp)
	} else {
		fmt.Printf("\n  Speedup:  %.2fx (Channel faster)\n", ringPerOp/chPerOp)
	}

	// Extrapolate to ops/second
	fmt.Printf("\nThroughput (theoretical max):\n")
	fmt.Printf("  Channel:  %.2f M ops/sec\n", 1000/chPerOp)
	fmt.Printf("  Ring:     %.2f M ops/sec\n", 1000/ringPerOp)
}
