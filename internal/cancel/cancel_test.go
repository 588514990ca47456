package cancel_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/randomizedcoder/ringpool/internal/cancel"
)

func TestAtomicCanceler(t *testing.T) {
	var c cancel.Canceler = cancel.NewAtomic()
	assert.False(t, c.Done(), "expected Done() = false initially")

	c.Cancel()
	assert.True(t, c.Done(), "expected Done() = true after Cancel()")

	// idempotent
	c.Cancel()
	assert.True(t, c.Done())
}
