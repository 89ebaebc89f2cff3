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
	"github.com/voxflow/voxflow/pkg/event"
	"github.com/voxflow/voxflow/pkg/id"
	"github.com/voxflow/voxflow/pkg/log"
)

// onResponseGenerated logs the assistant turn produced by a language
// model step and hands the text to the synthesis step.
func (l *Listeners) onResponseGenerated(e event.Event) {
	task, ok := completedTask(e)
	if !ok {
		return
	}

	text, ok := profileText(task.Profile(), "text")
	if !ok {
		log.Warnw("llm result missing text, chain not advanced",
			"taskId", task.TaskId, "trackingId", task.TrackingId)
		return
	}

	entry := &model.ResponseEntry{
		EntryId:      id.GetUUID(),
		TrackingId:   task.TrackingId,
		Role:         "assistant",
		Text:         text,
		SourceTaskId: task.TaskId,
	}
	if err := l.records.CreateResponseEntry(entry); err != nil {
		log.Errorw("response entry persist failed", "taskId", task.TaskId, "err", err)
		return
	}

	l.mgr.Advance(cluster.AdvanceRequest{
		TrackingId: task.TrackingId,
		Current:    task.Name,
		Params:     map[string]any{"text": text},
		Sender:     task.TaskId,
		Owner:      task.Owner,
	})
}

// onSynthesized advances past the terminal synthesis step, which is a
// no-op apart from the chain completion log.
func (l *Listeners) onSynthesized(e event.Event) {
	task, ok := completedTask(e)
	if !ok {
		return
	}
	l.mgr.Advance(cluster.AdvanceRequest{
		TrackingId: task.TrackingId,
		Current:    task.Name,
		Sender:     task.TaskId,
		Owner:      task.Owner,
	})
}
