package pool

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/randomizedcoder/ringpool/internal/cancel"
	"github.com/randomizedcoder/ringpool/internal/queue"
)

// DefaultCapacity is the queue capacity used when the host has no better
// estimate of its peak pending-task count. One slot is the guard, so at most
// DefaultCapacity-1 tasks can be pending.
const DefaultCapacity = 16

// Task is a single-invocation unit of work. It is owned by the queue while
// pending and consumed by exactly one worker.
type Task func()

// Pool runs tasks on a fixed set of worker goroutines.
//
// All methods are safe for concurrent use, except that a task must not call
// Join on the pool running it.
type Pool struct {
	queue    *queue.Ring[Task]
	stop     cancel.Canceler
	hostDone <-chan struct{} // nil without WithContext
	unhook   func() bool
	logger   zerolog.Logger
	metrics  *metrics
	failures *journal
	onPanic  func(*TaskPanic)

	closed   atomic.Bool
	inflight atomic.Int64 // Submit calls past the closed check
	alive    atomic.Int64

	workers sync.WaitGroup
	once    sync.Once
	n       int
}

// New starts a pool of threads workers sharing a queue of the given
// capacity. threads <= 0 selects runtime.GOMAXPROCS(0). A capacity <= 1
// fails with queue.ErrInvalidCapacity.
func New(threads, capacity int, opts ...Option) (*Pool, error) {
	c := defaultConfig()

	for _, o := range opts {
		o(&c)
	}

	if threads <= 0 {
		threads = runtime.GOMAXPROCS(0)
	}

	q, err := queue.NewRing[Task](capacity)
	if err != nil {
		return nil, fmt.Errorf("pool: %w", err)
	}
	m, err := newMetrics(c.registerer)
	if err != nil {
		return nil, err
	}
	j, err := newJournal()
	if err != nil {
		return nil, err
	}

	p := &Pool{
		queue:    q,
		stop:     cancel.NewAtomic(),
		logger:   c.logger,
		metrics:  m,
		failures: j,
		onPanic:  c.onPanic,
		n:        threads,
	}

	p.logger.Info().Int("workers", threads).Int("capacity", capacity).Msg("worker pool starting")

	p.workers.Add(threads)
	p.alive.Store(int64(threads))
	for i := range threads {
		go p.worker(i)
	}

	// Host cancellation goes through the same guarded shutdown as Close, so
	// a Submit that already passed the closed check finishes its push first.
	if c.ctx != nil {
		p.hostDone = c.ctx.Done()
		p.unhook = context.AfterFunc(c.ctx, p.shutdown)
	}
	return p, nil
}

// Submit queues task for execution. It never blocks.
//
// Returns ErrQueueFull if no slot is free, ErrPoolClosed after shutdown has
// begun, or ErrNilTask.
func (p *Pool) Submit(task Task) error {
	err := p.submit(task)
	if errors.Is(err, ErrQueueFull) {
		p.metrics.rejected.Inc()
	}
	return err
}

// SubmitWait retries Submit, yielding between attempts, until the task is
// queued, the pool closes, or ctx is done.
func (p *Pool) SubmitWait(ctx context.Context, task Task) error {
	for {
		err := p.submit(task)
		if !errors.Is(err, ErrQueueFull) {
			return err
		}
		select {
		case <-ctx.Done():
			p.metrics.rejected.Inc()
			return fmt.Errorf("pool: submit abandoned: %w", ctx.Err())
		default:
		}
		runtime.Gosched()
	}
}

func (p *Pool) submit(task Task) error {
	if task == nil {
		return ErrNilTask
	}

	p.inflight.Add(1)
	defer p.inflight.Add(-1)

	if p.closed.Load() || p.hostCanceled() {
		return ErrPoolClosed
	}
	if !p.queue.Push(task) {
		return ErrQueueFull
	}
	p.metrics.submitted.Inc()
	return nil
}

// Join stops accepting tasks and blocks until every worker has exited.
// Tasks queued before Join was called all run first. Calling Join again, or
// after Close, just waits for the workers.
func (p *Pool) Join() {
	p.release()
	p.shutdown()
	p.workers.Wait()
	p.logger.Info().Msg("worker pool shutdown completed")
}

// Close stops accepting tasks and signals the workers to exit once the queue
// is empty. It does not wait for them: workers may still be running, and
// still executing queued tasks, after Close returns. Use Join for that.
func (p *Pool) Close() {
	p.release()
	p.shutdown()
}

func (p *Pool) shutdown() {
	p.once.Do(func() {
		p.logger.Info().Msg("worker pool shutting down")
		p.closed.Store(true) // stop accepting.

		// Submits that passed the closed check finish their push before the
		// workers are allowed to see an empty queue as final.
		for p.inflight.Load() != 0 {
			runtime.Gosched()
		}
		p.stop.Cancel()
	})
}

func (p *Pool) release() {
	if p.unhook != nil {
		p.unhook()
	}
}

// hostCanceled refuses work as soon as the host context is done, before the
// AfterFunc goroutine gets to run shutdown.
func (p *Pool) hostCanceled() bool {
	select {
	case <-p.hostDone:
		return true
	default:
		return false
	}
}

// Failures drains and returns the panics recorded since the last call.
func (p *Pool) Failures() []*TaskPanic {
	return p.failures.drain()
}

// Workers returns the number of worker goroutines the pool started.
func (p *Pool) Workers() int {
	return p.n
}

// Capacity returns the queue capacity, including the guard slot.
func (p *Pool) Capacity() int {
	return p.queue.Size()
}

func (p *Pool) worker(id int) {
	defer func() {
		p.alive.Add(-1)
		p.workers.Done()
	}()

	for {
		if task, ok := p.queue.Pop(); ok {
			p.run(id, task)
			continue
		}
		if p.stop.Done() {
			// The flag was raised after every accepted push completed, so one
			// more pop settles whether anything is left.
			if task, ok := p.queue.Pop(); ok {
				p.run(id, task)
				continue
			}
			p.logger.Debug().Int("worker_id", id).Msg("worker stopped")
			return
		}
		runtime.Gosched()
	}
}

func (p *Pool) run(id int, task Task) {
	p.metrics.busy.Inc()
	start := time.Now()

	defer func() {
		p.metrics.duration.Observe(time.Since(start).Seconds())
		p.metrics.busy.Dec()

		if r := recover(); r != nil {
			p.recordPanic(id, r)
			return
		}
		p.metrics.completed.Inc()
	}()

	task()
}

func (p *Pool) recordPanic(id int, r any) {
	tp := &TaskPanic{Worker: id, Value: r, Stack: debug.Stack()}
	p.metrics.panicked.Inc()

	p.logger.Error().
		Int("worker_id", id).
		Interface("panic", r).
		Bytes("stack", tp.Stack).
		Msg("task panicked")

	if !p.failures.record(tp) {
		p.logger.Warn().Int("worker_id", id).Msg("failure journal full, panic report dropped")
	}
	if p.onPanic != nil {
		p.onPanic(tp)
	}
}
