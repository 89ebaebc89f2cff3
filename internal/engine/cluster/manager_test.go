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
	"testing"

	evt "github.com/voxflow/voxflow/internal/engine/model/event"
	"github.com/voxflow/voxflow/internal/engine/repo"
	"github.com/voxflow/voxflow/pkg/event"
	"github.com/voxflow/voxflow/pkg/statemachine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T, clusters []Cluster) (*Manager, *repo.MemoryTaskRepo, *event.EventBus) {
	t.Helper()
	reg, err := NewRegistry(clusters, testStepTypes())
	require.NoError(t, err)

	taskRepo := repo.NewMemoryTaskRepo()
	bus := event.NewEventBus()
	return NewManager(reg, taskRepo, bus), taskRepo, bus
}

func TestAdvanceFromInitCreatesFirstTask(t *testing.T) {
	mgr, taskRepo, _ := newTestManager(t, []Cluster{{
		Name: "demo",
		Steps: []Step{
			{Name: "a", Order: 10, Component: ComponentTask},
			{Name: "c", Order: 20, Component: ComponentTask},
		},
	}})

	trackingId := NewTrackingID("demo")
	mgr.Advance(AdvanceRequest{
		TrackingId: trackingId,
		Current:    InitStep,
		Params:     map[string]any{"audio": "clip.wav"},
		Owner:      "u1",
	})

	tasks, err := taskRepo.ListByTrackingId(trackingId)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "a", tasks[0].Name)
	assert.Equal(t, "type_a", tasks[0].StepType)
	assert.Equal(t, "demo", tasks[0].ClusterName)
	assert.Equal(t, "u1", tasks[0].Owner)
	assert.Equal(t, string(statemachine.ResultPending), tasks[0].ResultStatus)
	assert.Equal(t, "clip.wav", tasks[0].Params()["audio"])
}

func TestAdvanceMergePrecedence(t *testing.T) {
	mgr, taskRepo, _ := newTestManager(t, []Cluster{{
		Name: "demo",
		Steps: []Step{
			{Name: "a", Order: 10, Component: ComponentTask},
			{Name: "c", Order: 20, Component: ComponentTask,
				ExtraParams: map[string]any{"model_name": "X"}},
		},
	}})

	trackingId := NewTrackingID("demo")
	mgr.Advance(AdvanceRequest{
		TrackingId: trackingId,
		Current:    "a",
		Params:     map[string]any{"model_name": "Y", "text": "hi"},
	})

	tasks, err := taskRepo.ListByTrackingId(trackingId)
	require.NoError(t, err)
	require.Len(t, tasks, 1)

	params := tasks[0].Params()
	assert.Equal(t, "X", params["model_name"])
	assert.Equal(t, "hi", params["text"])
}

func TestAdvancePastTerminalCreatesNothing(t *testing.T) {
	mgr, taskRepo, _ := newTestManager(t, []Cluster{{
		Name: "demo",
		Steps: []Step{
			{Name: "a", Order: 10, Component: ComponentTask},
			{Name: "c", Order: 20, Component: ComponentTask},
		},
	}})

	trackingId := NewTrackingID("demo")
	mgr.Advance(AdvanceRequest{TrackingId: trackingId, Current: "c"})

	tasks, err := taskRepo.ListByTrackingId(trackingId)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

// A task step completing advances to a signal step, which fires
// in-process without a queue record; the signal handler then advances
// to the next task step under the same tracking id.
func TestAdvanceThroughSignalStep(t *testing.T) {
	mgr, taskRepo, bus := newTestManager(t, []Cluster{{
		Name: "C",
		Steps: []Step{
			{Name: "a", Order: 0, Component: ComponentTask},
			{Name: "b", Order: 1, Component: ComponentSignal},
			{Name: "c", Order: 2, Component: ComponentTask},
		},
	}})

	var signals []evt.SignalFired
	bus.RegisterHandler(evt.SignalName("b"), event.HandlerFunc(func(e event.Event) {
		sig := e.(evt.SignalFired)
		signals = append(signals, sig)
		mgr.Advance(AdvanceRequest{
			TrackingId: sig.TrackingId,
			Current:    sig.Step,
			Params:     sig.Params,
			Owner:      sig.Owner,
		})
	}))

	mgr.Advance(AdvanceRequest{
		TrackingId: "T-C-xyz",
		Current:    "a",
		Params:     map[string]any{"text": "hello"},
	})

	require.Len(t, signals, 1)
	assert.Equal(t, "C", signals[0].Cluster)
	assert.Equal(t, "b", signals[0].Step)

	tasks, err := taskRepo.ListByTrackingId("T-C-xyz")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "c", tasks[0].Name)
	assert.Equal(t, "T-C-xyz", tasks[0].TrackingId)
	assert.Equal(t, string(statemachine.ResultPending), tasks[0].ResultStatus)
}

func TestAdvanceGarbageTrackingIdHaltsQuietly(t *testing.T) {
	mgr, taskRepo, _ := newTestManager(t, []Cluster{{
		Name: "demo",
		Steps: []Step{
			{Name: "a", Order: 10, Component: ComponentTask},
		},
	}})

	assert.NotPanics(t, func() {
		mgr.Advance(AdvanceRequest{TrackingId: "garbage", Current: "a"})
	})
	tasks, err := taskRepo.ListTracked("")
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestAdvanceUnknownClusterHaltsQuietly(t *testing.T) {
	mgr, taskRepo, _ := newTestManager(t, []Cluster{{
		Name:  "demo",
		Steps: []Step{{Name: "a", Order: 10, Component: ComponentTask}},
	}})

	mgr.Advance(AdvanceRequest{TrackingId: "T-other-abc", Current: "a"})

	tasks, err := taskRepo.ListTracked("")
	require.NoError(t, err)
	assert.Empty(t, tasks)
}
