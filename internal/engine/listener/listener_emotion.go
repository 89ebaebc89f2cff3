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

// onEmotionDetected records the detected emotion and forwards both the
// original text and the emotion label to the next step.
func (l *Listeners) onEmotionDetected(e event.Event) {
	task, ok := completedTask(e)
	if !ok {
		return
	}

	label, ok := profileText(task.Profile(), "emotion")
	if !ok {
		log.Warnw("emotion result missing label, chain not advanced",
			"taskId", task.TaskId, "trackingId", task.TrackingId)
		return
	}
	score, _ := task.Profile()["score"].(float64)

	record := &model.EmotionRecord{
		EmotionId:    id.GetUUID(),
		TrackingId:   task.TrackingId,
		Label:        label,
		Score:        score,
		SourceTaskId: task.TaskId,
	}
	if err := l.records.CreateEmotionRecord(record); err != nil {
		log.Errorw("emotion record persist failed", "taskId", task.TaskId, "err", err)
		return
	}

	text, _ := profileText(task.Params(), "text")
	l.mgr.Advance(cluster.AdvanceRequest{
		TrackingId: task.TrackingId,
		Current:    task.Name,
		Params:     map[string]any{"text": text, "emotion": label},
		Sender:     task.TaskId,
		Owner:      task.Owner,
	})
}
