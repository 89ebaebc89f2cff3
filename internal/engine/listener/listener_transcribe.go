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

// onTranscribed persists the transcript produced by a speech-to-text
// step and advances the chain. The transcript rides the advance request
// so the text_created signal handler can link to it without a re-fetch.
func (l *Listeners) onTranscribed(e event.Event) {
	task, ok := completedTask(e)
	if !ok {
		return
	}

	text, ok := profileText(task.Profile(), "text")
	if !ok {
		log.Warnw("transcription result missing text, chain not advanced",
			"taskId", task.TaskId, "trackingId", task.TrackingId)
		return
	}
	language, _ := profileText(task.Profile(), "language")

	transcript := &model.Transcript{
		TranscriptId: id.GetUUID(),
		TrackingId:   task.TrackingId,
		Text:         text,
		Language:     language,
		SourceTaskId: task.TaskId,
		Owner:        task.Owner,
	}
	if err := l.records.CreateTranscript(transcript); err != nil {
		log.Errorw("transcript persist failed", "taskId", task.TaskId, "err", err)
		return
	}

	l.mgr.Advance(cluster.AdvanceRequest{
		TrackingId: task.TrackingId,
		Current:    task.Name,
		Params:     map[string]any{"text": text},
		Sender:     task.TaskId,
		Owner:      task.Owner,
		Payload:    transcript,
	})
}
