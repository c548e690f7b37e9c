package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLimiter_HitUntilExhausted(t *testing.T) {
	l := New(3, time.Hour)
	key := "token|10.0.0.1"

	for i := 0; i < 3; i++ {
		assert.False(t, l.Exhausted(key), "attempt %d", i)
		l.Hit(key)
	}
	assert.True(t, l.Exhausted(key))

	// other keys are independent
	assert.False(t, l.Exhausted("token|10.0.0.2"))
}

func TestLimiter_Reset(t *testing.T) {
	l := New(1, time.Hour)
	l.Hit("k")
	assert.True(t, l.Exhausted("k"))

	l.Reset("k")
	assert.False(t, l.Exhausted("k"))
}

func TestLimiter_Allow(t *testing.T) {
	l := New(2, time.Hour)
	assert.True(t, l.Allow("ip"))
	assert.True(t, l.Allow("ip"))
	assert.False(t, l.Allow("ip"))
}

func TestLimiter_Cleanup(t *testing.T) {
	l := New(5, time.Millisecond)
	l.Hit("a")
	l.Hit("b")
	assert.Equal(t, 2, l.Len())

	time.Sleep(5 * time.Millisecond)
	assert.Equal(t, 2, l.Cleanup())
	assert.Equal(t, 0, l.Len())
}
