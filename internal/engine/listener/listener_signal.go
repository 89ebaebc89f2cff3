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
	"github.com/voxflow/voxflow/pkg/event"
	"github.com/voxflow/voxflow/pkg/id"
	"github.com/voxflow/voxflow/pkg/log"
)

// onTextCreated handles the in-process text_created transition. It logs
// the user turn, linked to the transcript the signal carries, and
// advances the chain on the signal's behalf.
func (l *Listeners) onTextCreated(e event.Event) {
	sig, ok := e.(evt.SignalFired)
	if !ok {
		return
	}

	text, _ := profileText(sig.Params, "text")
	entry := &model.ResponseEntry{
		EntryId:    id.GetUUID(),
		TrackingId: sig.TrackingId,
		Role:       "user",
		Text:       text,
	}
	if transcript, ok := sig.Payload.(*model.Transcript); ok && transcript != nil {
		entry.TranscriptId = transcript.TranscriptId
		entry.SourceTaskId = transcript.SourceTaskId
	}
	if err := l.records.CreateResponseEntry(entry); err != nil {
		log.Errorw("response entry persist failed", "trackingId", sig.TrackingId, "err", err)
		return
	}

	l.mgr.Advance(cluster.AdvanceRequest{
		TrackingId: sig.TrackingId,
		Current:    sig.Step,
		Params:     sig.Params,
		Sender:     sig.Sender,
		Owner:      sig.Owner,
	})
}
