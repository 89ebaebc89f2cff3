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
	"testing"

	"github.com/voxflow/voxflow/internal/engine/cluster"
	"github.com/voxflow/voxflow/internal/engine/model"
	"github.com/voxflow/voxflow/internal/engine/repo"
	"github.com/voxflow/voxflow/internal/engine/service"
	"github.com/voxflow/voxflow/pkg/event"
	"github.com/voxflow/voxflow/pkg/statemachine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chainFixture struct {
	tasks    service.ITaskService
	taskRepo *repo.MemoryTaskRepo
	records  *repo.MemoryRecordRepo
}

func newChainFixture(t *testing.T) *chainFixture {
	t.Helper()
	taskRepo := repo.NewMemoryTaskRepo()
	records := repo.NewMemoryRecordRepo()
	bus := event.NewEventBus()
	mgr := cluster.NewManager(cluster.DefaultRegistry(), taskRepo, bus)
	NewListeners(mgr, records).RegisterAll(bus)
	return &chainFixture{
		tasks:    service.NewTaskService(taskRepo, mgr, bus),
		taskRepo: taskRepo,
		records:  records,
	}
}

// completeNext leases the only pending task of the step type and
// reports it completed with the given profile.
func (f *chainFixture) completeNext(t *testing.T, stepType string, profile map[string]any) *model.Task {
	t.Helper()
	leased, err := f.tasks.LeaseNext(stepType)
	require.NoError(t, err)
	updated, err := f.tasks.ReportResult(leased.TaskId, model.ReportResultReq{
		ResultStatus:  string(statemachine.ResultCompleted),
		ResultProfile: profile,
	})
	require.NoError(t, err)
	return updated
}

// The chat cluster end to end: speech2text completes, the text_created
// signal logs the user turn, the llm step logs the assistant turn, the
// synthesis step terminates the chain. Every task shares the tracking id.
func TestChatChainEndToEnd(t *testing.T) {
	f := newChainFixture(t)

	trackingId, err := f.tasks.EnqueueRun(model.RunPipelineReq{
		Step:       "speech2text",
		Parameters: map[string]any{"audio": "clip.wav"},
		Owner:      "u1",
	})
	require.NoError(t, err)

	f.completeNext(t, string(model.StepSpeech2Text),
		map[string]any{"text": "hello there", "language": "en"})

	// transcript persisted, user turn logged, llm step enqueued
	require.Len(t, f.records.Transcripts, 1)
	assert.Equal(t, "hello there", f.records.Transcripts[0].Text)
	assert.Equal(t, trackingId, f.records.Transcripts[0].TrackingId)
	require.Len(t, f.records.Entries, 1)
	assert.Equal(t, "user", f.records.Entries[0].Role)
	assert.Equal(t, f.records.Transcripts[0].TranscriptId, f.records.Entries[0].TranscriptId)

	f.completeNext(t, string(model.StepQuantizationLLM),
		map[string]any{"text": "hi, how can I help"})

	require.Len(t, f.records.Entries, 2)
	assert.Equal(t, "assistant", f.records.Entries[1].Role)

	f.completeNext(t, string(model.StepText2Speech),
		map[string]any{"audio": "reply.wav"})

	tasks, err := f.taskRepo.ListByTrackingId(trackingId)
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	for _, task := range tasks {
		assert.Equal(t, trackingId, task.TrackingId)
		assert.Equal(t, "chat", task.ClusterName)
		assert.Equal(t, string(statemachine.ResultCompleted), task.ResultStatus)
	}
}

// The empathic chain inserts emotion detection between transcription
// and the llm, and the emotion label must reach the llm parameters.
func TestEmpathicChainCarriesEmotion(t *testing.T) {
	f := newChainFixture(t)

	trackingId, err := f.tasks.EnqueueRun(model.RunPipelineReq{
		Cluster:    "empathic_chat",
		Parameters: map[string]any{"audio": "a.wav"},
	})
	require.NoError(t, err)

	f.completeNext(t, string(model.StepSpeech2Text),
		map[string]any{"text": "I am so tired"})
	f.completeNext(t, string(model.StepEmotionDetection),
		map[string]any{"emotion": "sad", "score": 0.91})

	require.Len(t, f.records.Emotions, 1)
	assert.Equal(t, "sad", f.records.Emotions[0].Label)
	assert.InDelta(t, 0.91, f.records.Emotions[0].Score, 1e-9)

	// hf_llm task carries the text, emotion and the pinned extra param
	leased, err := f.tasks.LeaseNext(string(model.StepHFLLM))
	require.NoError(t, err)
	params := leased.Params()
	assert.Equal(t, "I am so tired", params["text"])
	assert.Equal(t, "sad", params["emotion"])
	assert.Equal(t, true, params["use_emotion"])
	assert.Equal(t, trackingId, leased.TrackingId)
}

func TestTranscriptionMissingTextHaltsChain(t *testing.T) {
	f := newChainFixture(t)

	_, err := f.tasks.EnqueueRun(model.RunPipelineReq{
		Step:       "speech2text",
		Parameters: map[string]any{"audio": "clip.wav"},
	})
	require.NoError(t, err)

	f.completeNext(t, string(model.StepSpeech2Text), map[string]any{"language": "en"})

	// no transcript, no advancement
	assert.Empty(t, f.records.Transcripts)
	_, err = f.tasks.LeaseNext(string(model.StepQuantizationLLM))
	assert.ErrorIs(t, err, repo.ErrNoPendingTask)
}

func TestStandaloneTaskCompletionDoesNotAdvance(t *testing.T) {
	f := newChainFixture(t)

	task, err := f.tasks.Enqueue(model.CreateTaskReq{
		Name:     "oneoff",
		StepType: string(model.StepSpeech2Text),
	})
	require.NoError(t, err)
	_, err = f.tasks.LeaseNext(string(model.StepSpeech2Text))
	require.NoError(t, err)
	_, err = f.tasks.ReportResult(task.TaskId, model.ReportResultReq{
		ResultStatus:  string(statemachine.ResultCompleted),
		ResultProfile: map[string]any{"text": "hi"},
	})
	require.NoError(t, err)

	assert.Empty(t, f.records.Transcripts)
	assert.Empty(t, f.records.Entries)
}
