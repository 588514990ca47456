package combined_test

import (
	"runtime"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/randomizedcoder/ringpool/internal/cancel"
	"github.com/randomizedcoder/ringpool/internal/pool"
	"github.com/randomizedcoder/ringpool/internal/queue"
)

// Sink variables
var sinkInt int
var sinkBool bool

// ============================================================================
// Worker hot loop (cancel check + queue pop)
// ============================================================================

// BenchmarkCombined_WorkerLoop_Idle measures one idle worker iteration:
// an empty pop followed by a shutdown-flag check.
func BenchmarkCombined_WorkerLoop_Idle(b *testing.B) {
	stop := cancel.NewAtomic()
	q := queue.MustRing[int](1024)
	b.ReportAllocs()
	b.ResetTimer()

	var ok, done bool
	for i := 0; i < b.N; i++ {
		_, ok = q.Pop()
		done = stop.Done()
	}
	sinkBool = ok || done
}

// BenchmarkCombined_WorkerLoop_Busy recycles values through a pre-filled ring.
func BenchmarkCombined_WorkerLoop_Busy(b *testing.B) {
	stop := cancel.NewAtomic()
	q := queue.MustRing[int](1024)

	// Pre-fill queue
	for i := 0; i < q.Size()-1; i++ {
		q.Push(i)
	}

	b.ReportAllocs()
	b.ResetTimer()

	var val int
	var ok, done bool
	for i := 0; i < b.N; i++ {
		done = stop.Done()
		val, ok = q.Pop()
		q.Push(val) // Recycle
	}
	sinkInt = val
	sinkBool = ok || done
}

// ============================================================================
// Dispatch benchmarks (submit to execution)
// ============================================================================

// BenchmarkDispatch_Pool submits b.N no-op tasks through the ring pool.
func BenchmarkDispatch_Pool(b *testing.B) {
	p, err := pool.New(runtime.GOMAXPROCS(0), 1024)
	if err != nil {
		b.Fatal(err)
	}
	var ran atomic.Int64
	task := func() { ran.Add(1) }

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		for p.Submit(task) != nil {
			runtime.Gosched()
		}
	}
	p.Join()

	b.StopTimer()
	if ran.Load() != int64(b.N) {
		b.Fatalf("ran %d of %d tasks", ran.Load(), b.N)
	}
}

// BenchmarkDispatch_Channel is the same workload on a buffered-channel pool.
func BenchmarkDispatch_Channel(b *testing.B) {
	tasks := make(chan func(), 1023)
	var wg sync.WaitGroup
	for w := 0; w < runtime.GOMAXPROCS(0); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range tasks {
				t()
			}
		}()
	}
	var ran atomic.Int64
	task := func() { ran.Add(1) }

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		tasks <- task
	}
	close(tasks)
	wg.Wait()

	b.StopTimer()
	if ran.Load() != int64(b.N) {
		b.Fatalf("ran %d of %d tasks", ran.Load(), b.N)
	}
}

// BenchmarkDispatch_Pool_Parallel submits from every benchmark goroutine.
func BenchmarkDispatch_Pool_Parallel(b *testing.B) {
	p, err := pool.New(runtime.GOMAXPROCS(0), 1024)
	if err != nil {
		b.Fatal(err)
	}
	defer p.Join()
	task := func() {}

	b.ReportAllocs()
	b.ResetTimer()

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			for p.Submit(task) != nil {
				runtime.Gosched()
			}
		}
	})
}
