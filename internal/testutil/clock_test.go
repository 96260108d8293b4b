package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeterministicClockSequence(t *testing.T) {
	c := NewDeterministicClock()
	assert.Equal(t, int64(0), c.Current())
	assert.Equal(t, int64(1), c.Next())
	assert.Equal(t, int64(2), c.Next())
}

func TestDeterministicClockReset(t *testing.T) {
	c := NewDeterministicClock()
	c.Next()
	c.Next()
	c.Reset()
	assert.Equal(t, int64(0), c.Current())
	assert.Equal(t, int64(1), c.Next(), "sequence restarts after reset")
}
