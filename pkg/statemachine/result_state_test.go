package statemachine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResultStateMachine(t *testing.T) {
	sm := NewResultStateMachine()

	assert.True(t, sm.CanTransit(ResultPending, ResultStarted))
	assert.True(t, sm.CanTransit(ResultStarted, ResultCompleted))
	assert.True(t, sm.CanTransit(ResultStarted, ResultFailed))
	assert.True(t, sm.CanTransit(ResultStarted, ResultCancelled))

	// lease-timeout sweep and external retry
	assert.True(t, sm.CanTransit(ResultStarted, ResultPending))
	assert.True(t, sm.CanTransit(ResultFailed, ResultPending))

	// no forward transition out of a terminal result
	assert.False(t, sm.CanTransit(ResultCompleted, ResultStarted))
	assert.False(t, sm.CanTransit(ResultCompleted, ResultPending))
	assert.False(t, sm.CanTransit(ResultCancelled, ResultStarted))

	// completed is not reachable without a lease
	assert.False(t, sm.CanTransit(ResultPending, ResultCompleted))

	err := sm.Transit(ResultCompleted, ResultStarted)
	assert.Error(t, err)
	assert.NoError(t, sm.Transit(ResultPending, ResultStarted))
}

func TestResultStatusHelpers(t *testing.T) {
	assert.True(t, ResultCompleted.IsTerminal())
	assert.True(t, ResultFailed.IsTerminal())
	assert.True(t, ResultCancelled.IsTerminal())
	assert.False(t, ResultPending.IsTerminal())
	assert.False(t, ResultStarted.IsTerminal())

	assert.True(t, ResultPending.IsValid())
	assert.False(t, ResultStatus("done").IsValid())
}
