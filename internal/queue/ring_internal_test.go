package queue

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recoverInvariant(t *testing.T, fn func()) (ie *InvariantError) {
	t.Helper()
	defer func() {
		r := recover()
		require.NotNil(t, r, "expected an invariant panic")
		err, ok := r.(error)
		require.True(t, ok, "panic value must be an error, got %T", r)
		require.True(t, errors.Is(err, ErrInvariantViolation))
		require.ErrorAs(t, err, &ie)
	}()
	fn()
	return nil
}

func TestRing_PopDetectsCorruptedSlot(t *testing.T) {
	r := MustRing[int](4)
	require.True(t, r.Push(1))

	// a stamp from a future lap cannot legitimately exist
	r.cells[0].seq.Store(9)

	ie := recoverInvariant(t, func() { r.Pop() })
	assert.Equal(t, "pop", ie.Op)
	assert.Equal(t, uint64(0), ie.Cursor)
	assert.Equal(t, uint64(1), ie.Expected)
	assert.Equal(t, uint64(9), ie.Observed)
}

func TestRing_PushDetectsCorruptedSlot(t *testing.T) {
	r := MustRing[int](4)
	r.cells[0].seq.Store(2)

	ie := recoverInvariant(t, func() { r.Push(1) })
	assert.Equal(t, "push", ie.Op)
	assert.Equal(t, uint64(0), ie.Expected)
	assert.Contains(t, ie.Error(), "invariant violation")
}

func TestRing_SequenceStamps(t *testing.T) {
	r := MustRing[int](3)
	for i := range r.cells {
		assert.Equal(t, uint64(i), r.cells[i].seq.Load())
	}

	require.True(t, r.Push(7))
	assert.Equal(t, uint64(1), r.cells[0].seq.Load())

	_, ok := r.Pop()
	require.True(t, ok)
	assert.Equal(t, uint64(3), r.cells[0].seq.Load(), "drained slot is stamped one lap ahead")
	assert.Equal(t, uint64(1), r.head.Load())
	assert.Equal(t, uint64(1), r.tail.Load())
}

// finishLater runs fn after a pause and reports whether the caller's
// operation returned before fn ran.
func finishLater(fn func()) (finished chan struct{}, early func() bool) {
	finished = make(chan struct{})
	go func() {
		time.Sleep(20 * time.Millisecond)
		fn()
		close(finished)
	}()
	return finished, func() bool {
		select {
		case <-finished:
			return false
		default:
			return true
		}
	}
}

func TestRing_PopWaitsForUnfinishedPush(t *testing.T) {
	r := MustRing[int](4)

	// a producer has claimed tail 0 but not yet written the slot
	r.tail.Store(1)

	finished, early := finishLater(func() {
		r.cells[0].val = 5
		r.cells[0].seq.Store(1)
	})

	v, ok := r.Pop()
	assert.False(t, early(), "Pop returned before the claimed slot was written")
	require.True(t, ok)
	assert.Equal(t, 5, v)
	<-finished
}

func TestRing_PushWaitsForUnfinishedPop(t *testing.T) {
	r := MustRing[int](2)
	require.True(t, r.Push(1))

	// a consumer has claimed head 0 but not yet read the slot
	r.head.Store(1)
	require.True(t, r.Push(2))
	v, ok := r.Pop()
	require.True(t, ok)
	require.Equal(t, 2, v)

	var got int
	finished, early := finishLater(func() {
		got = r.cells[0].val
		r.cells[0].val = 0
		r.cells[0].seq.Store(2)
	})

	require.True(t, r.Push(3))
	assert.False(t, early(), "Push overwrote a slot its consumer had not read")
	<-finished
	assert.Equal(t, 1, got)

	v, ok = r.Pop()
	require.True(t, ok)
	assert.Equal(t, 3, v)
}
