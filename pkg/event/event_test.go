package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

/**
 * @author: gagral.x@gmail.com
 * @time: 2024/9/16 12:33
 * @file: event_test.go
 * @description:
 */

type testEvent struct {
	name string
	kind string
}

func (e testEvent) EventName() string { return e.name }
func (e testEvent) EventType() string { return e.kind }

func TestNewEventBus(t *testing.T) {
	bus := NewEventBus()
	assert.NotNil(t, bus)

	var handled []string
	bus.RegisterHandler("task.completed", HandlerFunc(func(ev Event) {
		handled = append(handled, "first:"+ev.EventType())
	}))
	bus.RegisterHandler("task.completed", HandlerFunc(func(ev Event) {
		handled = append(handled, "second:"+ev.EventType())
	}))

	bus.Publish(testEvent{name: "task.completed", kind: "speech2text"})

	// handlers fire in registration order
	assert.Equal(t, []string{"first:speech2text", "second:speech2text"}, handled)
	assert.Equal(t, 2, bus.HandlerCount("task.completed"))
}

func TestPublishWithoutHandlers(t *testing.T) {
	bus := NewEventBus()
	// no handler registered, must not panic
	bus.Publish(testEvent{name: "unknown", kind: "none"})
	assert.Equal(t, 0, bus.HandlerCount("unknown"))
}
