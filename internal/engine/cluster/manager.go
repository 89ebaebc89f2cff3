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

package cluster

import (
	"time"

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

// AdvanceRequest describes one completed step of a chain run.
type AdvanceRequest struct {
	TrackingId string
	// Current is the step name that just finished, or InitStep to
	// bootstrap the first step of the cluster.
	Current string
	Params  map[string]any
	Sender  string
	Owner   string
	// Payload optionally carries the object the sender just persisted,
	// so signal listeners can use it without a re-fetch.
	Payload any
}

// Manager advances cluster chains. Task steps are materialized as queue
// records, signal steps are published on the event bus in-process.
// Configuration errors halt the chain without surfacing to the caller,
// the step that completed stays completed.
type Manager struct {
	registry *Registry
	taskRepo repo.ITaskRepository
	bus      *event.EventBus
}

func NewManager(registry *Registry, taskRepo repo.ITaskRepository, bus *event.EventBus) *Manager {
	return &Manager{
		registry: registry,
		taskRepo: taskRepo,
		bus:      bus,
	}
}

// Registry exposes the read-only catalog the manager advances over.
func (m *Manager) Registry() *Registry {
	return m.registry
}

// Advance moves the chain identified by the tracking id one step past
// req.Current. Reaching the terminal step is a no-op.
func (m *Manager) Advance(req AdvanceRequest) {
	clusterName, err := ParseTrackingID(req.TrackingId)
	if err != nil {
		log.Warnw("chain halted: malformed tracking id",
			"trackingId", req.TrackingId, "current", req.Current)
		metrics.ChainHalted.WithLabelValues("malformed_tracking_id").Inc()
		return
	}

	c, ok := m.registry.Get(clusterName)
	if !ok {
		log.Warnw("chain halted: unknown cluster",
			"cluster", clusterName, "trackingId", req.TrackingId)
		metrics.ChainHalted.WithLabelValues("unknown_cluster").Inc()
		return
	}

	next, ok := c.NextStep(req.Current)
	if !ok {
		log.Warnw("chain halted: step not in cluster",
			"cluster", clusterName, "step", req.Current)
		metrics.ChainHalted.WithLabelValues("unknown_step").Inc()
		return
	}
	if next == nil {
		log.Infow("chain complete", "cluster", clusterName, "trackingId", req.TrackingId)
		return
	}

	params := mergeParams(req.Params, next.ExtraParams)

	switch next.Component {
	case ComponentTask:
		m.enqueueStep(c, next, req, params)
	case ComponentSignal:
		m.bus.Publish(evt.SignalFired{
			Cluster:    c.Name,
			Step:       next.Name,
			TrackingId: req.TrackingId,
			Sender:     req.Sender,
			Owner:      req.Owner,
			Params:     params,
			Payload:    req.Payload,
		})
		metrics.ChainAdvanced.WithLabelValues(c.Name).Inc()
	}
}

func (m *Manager) enqueueStep(c *Cluster, step *Step, req AdvanceRequest, params map[string]any) {
	stepType := m.registry.StepTypeOf(*step)
	if stepType == "" {
		log.Warnw("chain halted: step has no step type",
			"cluster", c.Name, "step", step.Name)
		metrics.ChainHalted.WithLabelValues("unresolved_step_type").Inc()
		return
	}

	payload, err := datatype.FromMap(params)
	if err != nil {
		log.Warnw("chain halted: parameters not serializable",
			"cluster", c.Name, "step", step.Name, "err", err)
		metrics.ChainHalted.WithLabelValues("bad_parameters").Inc()
		return
	}

	task := &model.Task{
		TaskId:       id.GetUlid(),
		Name:         step.Name,
		StepType:     stepType,
		Parameters:   payload,
		ResultStatus: string(statemachine.ResultPending),
		TrackingId:   req.TrackingId,
		ClusterName:  c.Name,
		Owner:        req.Owner,
	}
	task.CreatedAt = time.Now()
	if err := m.taskRepo.CreateTask(task); err != nil {
		log.Errorw("chain halted: task create failed",
			"cluster", c.Name, "step", step.Name, "err", err)
		metrics.ChainHalted.WithLabelValues("task_create_failed").Inc()
		return
	}

	metrics.TasksCreated.WithLabelValues(stepType).Inc()
	metrics.ChainAdvanced.WithLabelValues(c.Name).Inc()
	log.Infow("chain advanced", "cluster", c.Name, "step", step.Name,
		"stepType", stepType, "trackingId", req.TrackingId, "taskId", task.TaskId)
}

// mergeParams copies runtime params then overlays the step extras.
// Extras win on collision.
func mergeParams(runtime, extras map[string]any) map[string]any {
	merged := make(map[string]any, len(runtime)+len(extras))
	for k, v := range runtime {
		merged[k] = v
	}
	for k, v := range extras {
		merged[k] = v
	}
	return merged
}
