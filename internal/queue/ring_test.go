package queue_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randomizedcoder/ringpool/internal/queue"
)

func TestRing_Scenario(t *testing.T) {
	q, err := queue.NewRing[uint32](8)
	require.NoError(t, err)

	for i := uint32(0); i < 7; i++ {
		require.Truef(t, q.Push(i), "push %d", i)
	}

	v := uint32(7)
	require.False(t, q.Push(v))
	assert.Equal(t, uint32(7), v, "rejected value stays with the caller")

	for i := uint32(0); i < 4; i++ {
		got, ok := q.Pop()
		require.True(t, ok)
		assert.Equal(t, i, got)
	}

	require.True(t, q.Push(5))

	for _, want := range []uint32{4, 5, 6, 5} {
		got, ok := q.Pop()
		require.True(t, ok)
		assert.Equal(t, want, got)
	}
	_, ok := q.Pop()
	assert.False(t, ok, "fifth pop must report empty")

	// the buffer is fully reusable after wrapping
	for i := uint32(0); i < 7; i++ {
		require.True(t, q.Push(i+8))
	}
	for i := uint32(0); i < 7; i++ {
		got, ok := q.Pop()
		require.True(t, ok)
		assert.Equal(t, i+8, got)
	}
}

// Capacity 2 leaves a single usable slot, the tightest case for the guard.
func TestRing_CapacityTwo(t *testing.T) {
	q := queue.MustRing[string](2)

	for i := 0; i < 100; i++ {
		require.True(t, q.Push("a"))
		require.False(t, q.Push("b"))
		v, ok := q.Pop()
		require.True(t, ok)
		require.Equal(t, "a", v)
		_, ok = q.Pop()
		require.False(t, ok)
	}
}

func TestRing_CapacityThree(t *testing.T) {
	q := queue.MustRing[int](3)

	for lap := 0; lap < 50; lap++ {
		require.True(t, q.Push(lap))
		require.True(t, q.Push(lap+1000))
		require.False(t, q.Push(-1))

		v, ok := q.Pop()
		require.True(t, ok)
		require.Equal(t, lap, v)

		require.True(t, q.Push(lap+2000))
		require.False(t, q.Push(-1))

		for _, want := range []int{lap + 1000, lap + 2000} {
			v, ok := q.Pop()
			require.True(t, ok)
			require.Equal(t, want, v)
		}
	}
}

func TestRing_MustRingPanics(t *testing.T) {
	assert.Panics(t, func() { queue.MustRing[int](1) })
}

func TestRing_PopReleasesValue(t *testing.T) {
	q := queue.MustRing[*int](4)
	x := 42
	require.True(t, q.Push(&x))
	got, ok := q.Pop()
	require.True(t, ok)
	assert.Same(t, &x, got)
}
