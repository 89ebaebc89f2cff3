// Copyright 2025 Voxflow Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package service

import (
	"testing"

	"github.com/voxflow/voxflow/internal/engine/cluster"
	"github.com/voxflow/voxflow/internal/engine/model"
	evt "github.com/voxflow/voxflow/internal/engine/model/event"
	"github.com/voxflow/voxflow/internal/engine/repo"
	"github.com/voxflow/voxflow/pkg/event"
	"github.com/voxflow/voxflow/pkg/statemachine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTaskService(t *testing.T) (ITaskService, *repo.MemoryTaskRepo, *event.EventBus) {
	t.Helper()
	reg, err := cluster.NewRegistry([]cluster.Cluster{{
		Name: "demo",
		Steps: []cluster.Step{
			{Name: "a", Order: 10, Component: cluster.ComponentTask},
			{Name: "c", Order: 20, Component: cluster.ComponentTask},
		},
	}}, map[string]string{"a": "type_a", "c": "type_c"})
	require.NoError(t, err)

	taskRepo := repo.NewMemoryTaskRepo()
	bus := event.NewEventBus()
	mgr := cluster.NewManager(reg, taskRepo, bus)
	return NewTaskService(taskRepo, mgr, bus), taskRepo, bus
}

func TestEnqueueRunSharesTrackingId(t *testing.T) {
	svc, taskRepo, _ := newTestTaskService(t)

	trackingId, err := svc.EnqueueRun(model.RunPipelineReq{
		Step:       "a",
		Parameters: map[string]any{"audio": "x.wav"},
		Owner:      "u1",
	})
	require.NoError(t, err)
	require.NotEmpty(t, trackingId)

	name, err := cluster.ParseTrackingID(trackingId)
	require.NoError(t, err)
	assert.Equal(t, "demo", name)

	tasks, err := taskRepo.ListByTrackingId(trackingId)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, trackingId, tasks[0].TrackingId)
}

func TestEnqueueRunUnknownHeadStep(t *testing.T) {
	svc, _, _ := newTestTaskService(t)

	_, err := svc.EnqueueRun(model.RunPipelineReq{Step: "c"})
	assert.ErrorIs(t, err, ErrUnknownHeadStep)
}

func TestEnqueueStandaloneHasNoTrackingId(t *testing.T) {
	svc, _, _ := newTestTaskService(t)

	task, err := svc.Enqueue(model.CreateTaskReq{
		Name:       "oneoff",
		StepType:   "type_a",
		Parameters: map[string]any{"k": "v"},
	})
	require.NoError(t, err)
	assert.Empty(t, task.TrackingId)
	assert.Equal(t, string(statemachine.ResultPending), task.ResultStatus)
}

func TestLeaseNextDrainsOldestFirst(t *testing.T) {
	svc, _, _ := newTestTaskService(t)

	first, err := svc.Enqueue(model.CreateTaskReq{Name: "t1", StepType: "type_a"})
	require.NoError(t, err)
	_, err = svc.Enqueue(model.CreateTaskReq{Name: "t2", StepType: "type_a"})
	require.NoError(t, err)

	leased, err := svc.LeaseNext("type_a")
	require.NoError(t, err)
	assert.Equal(t, first.TaskId, leased.TaskId)
	assert.Equal(t, string(statemachine.ResultStarted), leased.ResultStatus)
	assert.NotNil(t, leased.StartedAt)
}

func TestLeaseNextEmptyQueue(t *testing.T) {
	svc, _, _ := newTestTaskService(t)

	_, err := svc.LeaseNext("type_a")
	assert.ErrorIs(t, err, repo.ErrNoPendingTask)
}

// The transition into completed publishes the completion event exactly
// once; a repeated report is rejected and publishes nothing.
func TestReportResultCompletionFiresOnce(t *testing.T) {
	svc, _, bus := newTestTaskService(t)

	var completions int
	bus.RegisterHandler(evt.TaskCompletedName, event.HandlerFunc(func(e event.Event) {
		completions++
	}))

	task, err := svc.Enqueue(model.CreateTaskReq{Name: "t1", StepType: "type_a"})
	require.NoError(t, err)
	_, err = svc.LeaseNext("type_a")
	require.NoError(t, err)

	report := model.ReportResultReq{
		ResultStatus:       string(statemachine.ResultCompleted),
		ResultProfile:      map[string]any{"text": "done"},
		CompletedInSeconds: 1.5,
	}
	updated, err := svc.ReportResult(task.TaskId, report)
	require.NoError(t, err)
	assert.Equal(t, string(statemachine.ResultCompleted), updated.ResultStatus)
	assert.NotNil(t, updated.CompletedAt)
	assert.Equal(t, 1, completions)

	_, err = svc.ReportResult(task.TaskId, report)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, 1, completions)
}

func TestReportResultFailureDoesNotAdvance(t *testing.T) {
	svc, taskRepo, bus := newTestTaskService(t)

	var completions int
	bus.RegisterHandler(evt.TaskCompletedName, event.HandlerFunc(func(e event.Event) {
		completions++
	}))

	trackingId, err := svc.EnqueueRun(model.RunPipelineReq{Step: "a"})
	require.NoError(t, err)
	leased, err := svc.LeaseNext("type_a")
	require.NoError(t, err)

	_, err = svc.ReportResult(leased.TaskId, model.ReportResultReq{
		ResultStatus: string(statemachine.ResultFailed),
		Description:  "model crashed",
	})
	require.NoError(t, err)
	assert.Zero(t, completions)

	tasks, err := taskRepo.ListByTrackingId(trackingId)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, string(statemachine.ResultFailed), tasks[0].ResultStatus)
	assert.Equal(t, "model crashed", tasks[0].Description)
}

func TestReportResultRejectsPendingToCompleted(t *testing.T) {
	svc, _, _ := newTestTaskService(t)

	task, err := svc.Enqueue(model.CreateTaskReq{Name: "t1", StepType: "type_a"})
	require.NoError(t, err)

	_, err = svc.ReportResult(task.TaskId, model.ReportResultReq{
		ResultStatus: string(statemachine.ResultCompleted),
	})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestReportResultRejectsUnknownStatus(t *testing.T) {
	svc, _, _ := newTestTaskService(t)

	task, err := svc.Enqueue(model.CreateTaskReq{Name: "t1", StepType: "type_a"})
	require.NoError(t, err)
	_, err = svc.LeaseNext("type_a")
	require.NoError(t, err)

	_, err = svc.ReportResult(task.TaskId, model.ReportResultReq{ResultStatus: "done"})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}
