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
	"errors"
	"fmt"
	"time"

	"github.com/voxflow/voxflow/internal/engine/cluster"
	"github.com/voxflow/voxflow/internal/engine/model"
	evt "github.com/voxflow/voxflow/internal/engine/model/event"
	"github.com/voxflow/voxflow/internal/engine/repo"
	"github.com/voxflow/voxflow/pkg/datatype"
	"github.com/voxflow/voxflow/pkg/event"
	"github.com/voxflow/voxflow/pkg/id"
	"github.com/voxflow/voxflow/pkg/log"
	"github.com/voxflow/voxflow/pkg/metrics"
	"github.com/voxflow/voxflow/pkg/statemachine"
)

var (
	// ErrUnknownHeadStep the requested step starts no registered cluster.
	ErrUnknownHeadStep = errors.New("step is not the head of any cluster")
	// ErrUnknownCluster the cluster name is not registered.
	ErrUnknownCluster = errors.New("unknown cluster")
	// ErrInvalidTransition the reported result status is not reachable
	// from the task's current status.
	ErrInvalidTransition = errors.New("invalid result status transition")
)

type ITaskService interface {
	// EnqueueRun starts a chain run at the cluster whose head step
	// carries the given name, returning the minted tracking id.
	EnqueueRun(req model.RunPipelineReq) (string, error)
	// Enqueue creates a standalone one-off task outside any chain.
	Enqueue(req model.CreateTaskReq) (*model.Task, error)
	// LeaseNext hands the oldest pending task of the step type to a worker.
	LeaseNext(stepType string) (*model.Task, error)
	// ReportResult applies a worker's result. The transition into
	// completed publishes the completion event exactly once.
	ReportResult(taskId string, req model.ReportResultReq) (*model.Task, error)
	GetTask(taskId string) (*model.Task, error)
	ListByTrackingId(trackingId string) ([]model.Task, error)
}

type TaskService struct {
	taskRepo repo.ITaskRepository
	mgr      *cluster.Manager
	bus      *event.EventBus
	fsm      *statemachine.StateMachine[statemachine.ResultStatus]
}

func NewTaskService(taskRepo repo.ITaskRepository, mgr *cluster.Manager, bus *event.EventBus) ITaskService {
	return &TaskService{
		taskRepo: taskRepo,
		mgr:      mgr,
		bus:      bus,
		fsm:      statemachine.NewResultStateMachine(),
	}
}

func (ts *TaskService) EnqueueRun(req model.RunPipelineReq) (string, error) {
	var (
		c  *cluster.Cluster
		ok bool
	)
	if req.Cluster != "" {
		if c, ok = ts.mgr.Registry().Get(req.Cluster); !ok {
			return "", fmt.Errorf("%w: %s", ErrUnknownCluster, req.Cluster)
		}
	} else if c, ok = ts.mgr.Registry().ClusterForHead(req.Step); !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownHeadStep, req.Step)
	}

	trackingId := cluster.NewTrackingID(c.Name)
	ts.mgr.Advance(cluster.AdvanceRequest{
		TrackingId: trackingId,
		Current:    cluster.InitStep,
		Params:     req.Parameters,
		Sender:     "api",
		Owner:      req.Owner,
	})
	return trackingId, nil
}

func (ts *TaskService) Enqueue(req model.CreateTaskReq) (*model.Task, error) {
	params, err := datatype.FromMap(req.Parameters)
	if err != nil {
		return nil, fmt.Errorf("encode parameters: %w", err)
	}

	task := &model.Task{
		TaskId:       id.GetUlid(),
		Name:         req.Name,
		StepType:     req.StepType,
		Parameters:   params,
		ResultStatus: string(statemachine.ResultPending),
		Owner:        req.Owner,
	}
	task.CreatedAt = time.Now()
	if err := ts.taskRepo.CreateTask(task); err != nil {
		return nil, err
	}
	metrics.TasksCreated.WithLabelValues(task.StepType).Inc()
	return task, nil
}

func (ts *TaskService) LeaseNext(stepType string) (*model.Task, error) {
	task, err := ts.taskRepo.LeaseNext(stepType)
	if err != nil {
		return nil, err
	}
	metrics.TasksLeased.WithLabelValues(task.StepType).Inc()
	log.Debugw("task leased", "taskId", task.TaskId, "stepType", task.StepType)
	return task, nil
}

func (ts *TaskService) ReportResult(taskId string, req model.ReportResultReq) (*model.Task, error) {
	task, err := ts.taskRepo.GetTaskByTaskId(taskId)
	if err != nil {
		return nil, err
	}

	from := task.Status()
	to := statemachine.ResultStatus(req.ResultStatus)
	if !to.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTransition, req.ResultStatus)
	}
	if err := ts.fsm.Transit(from, to); err != nil {
		return nil, fmt.Errorf("%w: %s → %s", ErrInvalidTransition, from, to)
	}

	profile, err := datatype.FromMap(req.ResultProfile)
	if err != nil {
		return nil, fmt.Errorf("encode result profile: %w", err)
	}
	latency, err := datatype.FromMap(req.LatencyProfile)
	if err != nil {
		return nil, fmt.Errorf("encode latency profile: %w", err)
	}

	task.ResultStatus = string(to)
	task.ResultProfile = profile
	task.LatencyProfile = latency
	task.Description = req.Description
	task.CompletedIn = req.CompletedInSeconds
	if to.IsTerminal() {
		now := time.Now()
		task.CompletedAt = &now
	}

	rows, err := ts.taskRepo.UpdateResult(task, string(from))
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		// a concurrent report won the compare-and-swap
		return nil, fmt.Errorf("%w: concurrent update on %s", ErrInvalidTransition, taskId)
	}

	metrics.TasksReported.WithLabelValues(task.StepType, task.ResultStatus).Inc()
	if req.CompletedInSeconds > 0 {
		metrics.StepLatency.WithLabelValues(task.StepType).Observe(req.CompletedInSeconds)
	}

	// the transition gate: only the move into completed broadcasts,
	// an idempotent re-save never fires twice
	if from != statemachine.ResultCompleted && to == statemachine.ResultCompleted {
		ts.bus.Publish(evt.TaskCompleted{Task: *task})
	}
	return task, nil
}

func (ts *TaskService) GetTask(taskId string) (*model.Task, error) {
	return ts.taskRepo.GetTaskByTaskId(taskId)
}

func (ts *TaskService) ListByTrackingId(trackingId string) ([]model.Task, error) {
	return ts.taskRepo.ListByTrackingId(trackingId)
}
