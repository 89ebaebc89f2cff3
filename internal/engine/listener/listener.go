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

package listener

import (
	"github.com/voxflow/voxflow/internal/engine/cluster"
	"github.com/voxflow/voxflow/internal/engine/model"
	evt "github.com/voxflow/voxflow/internal/engine/model/event"
	"github.com/voxflow/voxflow/internal/engine/repo"
	"github.com/voxflow/voxflow/pkg/event"
)

// Listeners reacts to task completion and signal events, persisting the
// derived conversation records and pushing chains forward.
type Listeners struct {
	mgr     *cluster.Manager
	records repo.IRecordRepository
}

func NewListeners(mgr *cluster.Manager, records repo.IRecordRepository) *Listeners {
	return &Listeners{mgr: mgr, records: records}
}

// RegisterAll wires every listener onto the bus. The generic completion
// event is fanned out into per-step-type events first, so each handler
// below only sees its own step type.
func (l *Listeners) RegisterAll(bus *event.EventBus) {
	bus.RegisterHandler(evt.TaskCompletedName, event.HandlerFunc(func(e event.Event) {
		tc, ok := e.(evt.TaskCompleted)
		if !ok {
			return
		}
		bus.Publish(evt.StepCompleted{Task: tc.Task})
	}))

	for _, st := range []model.StepType{model.StepSpeech2Text, model.StepOpenAIS2T} {
		bus.RegisterHandler(evt.StepCompletedName(string(st)), event.HandlerFunc(l.onTranscribed))
	}
	bus.RegisterHandler(evt.StepCompletedName(string(model.StepEmotionDetection)),
		event.HandlerFunc(l.onEmotionDetected))
	for _, st := range []model.StepType{model.StepQuantizationLLM, model.StepHFLLM, model.StepOpenAILLM} {
		bus.RegisterHandler(evt.StepCompletedName(string(st)), event.HandlerFunc(l.onResponseGenerated))
	}
	for _, st := range []model.StepType{model.StepText2Speech, model.StepOpenAIT2S} {
		bus.RegisterHandler(evt.StepCompletedName(string(st)), event.HandlerFunc(l.onSynthesized))
	}

	bus.RegisterHandler(evt.SignalName("text_created"), event.HandlerFunc(l.onTextCreated))
}

// completedTask unwraps a StepCompleted event, filtering out standalone
// tasks that are not part of a chain run.
func completedTask(e event.Event) (*model.Task, bool) {
	sc, ok := e.(evt.StepCompleted)
	if !ok || sc.Task.TrackingId == "" {
		return nil, false
	}
	return &sc.Task, true
}

// profileText pulls a string field out of a decoded profile map.
func profileText(profile map[string]any, key string) (string, bool) {
	v, ok := profile[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}
