package testutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFrozenClock_DoesNotMoveOnItsOwn(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := NewFrozenClock(base)

	assert.Equal(t, base, clock.Now())
	assert.Equal(t, base, clock.Now())
}

func TestFrozenClock_Advance(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := NewFrozenClock(base)

	clock.Advance(1500 * time.Millisecond)
	assert.Equal(t, base.Add(1500*time.Millisecond), clock.Now())

	clock.Advance(500 * time.Millisecond)
	assert.Equal(t, base.Add(2*time.Second), clock.Now())
}
