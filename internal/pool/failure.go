package pool

import (
	"fmt"
	"sync"

	ring "github.com/randomizedcoder/go-lock-free-ring"
)

const (
	journalCapacity = 1024
	journalShards   = 8
)

// TaskPanic records a task that panicked on a worker.
type TaskPanic struct {
	Worker int
	Value  any
	Stack  []byte
}

func (p *TaskPanic) Error() string {
	return fmt.Sprintf("pool: task panicked on worker %d: %v", p.Worker, p.Value)
}

// Unwrap exposes the panic value when the task panicked with an error.
func (p *TaskPanic) Unwrap() error {
	if err, ok := p.Value.(error); ok {
		return err
	}
	return nil
}

// journal collects TaskPanic reports. Workers write concurrently, each into
// the shard picked by its worker id; reads are serialized because the ring
// supports a single consumer.
type journal struct {
	mu   sync.Mutex
	ring *ring.ShardedRing
}

func newJournal() (*journal, error) {
	r, err := ring.NewShardedRing(journalCapacity, journalShards)
	if err != nil {
		return nil, fmt.Errorf("pool: failure journal: %w", err)
	}
	return &journal{ring: r}, nil
}

// record reports false if the worker's shard is full and the report was dropped.
func (j *journal) record(p *TaskPanic) bool {
	return j.ring.Write(uint64(p.Worker), p)
}

func (j *journal) drain() []*TaskPanic {
	j.mu.Lock()
	defer j.mu.Unlock()

	var out []*TaskPanic
	for {
		v, ok := j.ring.TryRead()
		if !ok {
			return out
		}
		if p, ok := v.(*TaskPanic); ok {
			out = append(out, p)
		}
	}
}
