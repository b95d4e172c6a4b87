package pulse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlotSingleAssignment(t *testing.T) {
	slot := NewSlot[int]()

	_, ok := slot.Take()
	assert.False(t, ok)

	assert.True(t, slot.Succeed(42))
	assert.False(t, slot.Fail())
	assert.False(t, slot.Succeed(7))

	outcome, ok := slot.Take()
	assert.True(t, ok)
	assert.Equal(t, Outcome[int]{Value: 42, OK: true}, outcome)

	_, ok = slot.Take()
	assert.False(t, ok, "an outcome is consumed exactly once")
}

func TestSlotFailure(t *testing.T) {
	slot := NewSlot[string]()
	assert.True(t, slot.Fail())

	outcome, ok := slot.Take()
	assert.True(t, ok)
	assert.False(t, outcome.OK)
	assert.Empty(t, outcome.Value)
}
