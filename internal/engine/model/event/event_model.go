package event

import "github.com/voxflow/voxflow/internal/engine/model"

/**
 * @author: gagral.x@gmail.com
 * @time: 2025/01/18
 * @file: event_model.go
 * @description: typed engine events
 */

const (
	// TaskCompletedName generic completion event, carries the full task snapshot
	TaskCompletedName = "task.completed"

	// stepCompletedPrefix narrow per-step-type completion events
	stepCompletedPrefix = "task.completed."

	// signalPrefix in-process cluster transitions that never touch the queue
	signalPrefix = "signal."
)

// StepCompletedName returns the event name listeners subscribe to for one step type.
func StepCompletedName(stepType string) string {
	return stepCompletedPrefix + stepType
}

// SignalName returns the event name of an in-process cluster transition.
func SignalName(step string) string {
	return signalPrefix + step
}

// TaskCompleted is broadcast exactly once when a task transitions into completed.
type TaskCompleted struct {
	Task model.Task
}

func (e TaskCompleted) EventName() string { return TaskCompletedName }
func (e TaskCompleted) EventType() string { return e.Task.StepType }

// StepCompleted is the narrow re-broadcast of TaskCompleted per step type.
type StepCompleted struct {
	Task model.Task
}

func (e StepCompleted) EventName() string { return StepCompletedName(e.Task.StepType) }
func (e StepCompleted) EventType() string { return e.Task.StepType }

// SignalFired is a synchronous in-process cluster transition. It carries a
// live object reference (Payload) so listeners do not re-fetch what the
// caller just persisted.
type SignalFired struct {
	Cluster    string
	Step       string
	TrackingId string
	Sender     string
	Owner      string
	Params     map[string]any
	Payload    any
}

func (e SignalFired) EventName() string { return SignalName(e.Step) }
func (e SignalFired) EventType() string { return e.Step }
