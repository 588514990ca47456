package pool

import "errors"

var (
	// ErrQueueFull is returned by Submit when every slot is taken.
	// Callers size the queue for peak pending tasks, retry (see SubmitWait),
	// or shed the task.
	ErrQueueFull = errors.New("pool: task queue is full")

	// ErrPoolClosed is returned for submissions after Join, Close, or
	// cancellation of the context given to WithContext.
	ErrPoolClosed = errors.New("pool: pool is closed")

	// ErrNilTask is returned when Submit is given a nil Task.
	ErrNilTask = errors.New("pool: nil task")
)
