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

package repo

import (
	"sort"
	"sync"
	"time"

	"github.com/voxflow/voxflow/internal/engine/model"
	"github.com/voxflow/voxflow/pkg/statemachine"
	"gorm.io/gorm"
)

// MemoryTaskRepo is a process-local ITaskRepository. It backs unit tests
// and single-node deployments that run without MySQL.
type MemoryTaskRepo struct {
	mu     sync.Mutex
	nextId uint64
	tasks  []*model.Task
}

func NewMemoryTaskRepo() *MemoryTaskRepo {
	return &MemoryTaskRepo{}
}

func (mr *MemoryTaskRepo) CreateTask(task *model.Task) error {
	mr.mu.Lock()
	defer mr.mu.Unlock()

	mr.nextId++
	task.ID = mr.nextId
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now()
	}
	clone := *task
	mr.tasks = append(mr.tasks, &clone)
	return nil
}

func (mr *MemoryTaskRepo) GetTaskByTaskId(taskId string) (*model.Task, error) {
	mr.mu.Lock()
	defer mr.mu.Unlock()

	for _, t := range mr.tasks {
		if t.TaskId == taskId {
			clone := *t
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (mr *MemoryTaskRepo) LeaseNext(stepType string) (*model.Task, error) {
	mr.mu.Lock()
	defer mr.mu.Unlock()

	candidates := make([]*model.Task, 0)
	for _, t := range mr.tasks {
		if t.ResultStatus != string(statemachine.ResultPending) {
			continue
		}
		if stepType != "" && stepType != string(model.StepAny) && t.StepType != stepType {
			continue
		}
		candidates = append(candidates, t)
	}
	if len(candidates) == 0 {
		return nil, ErrNoPendingTask
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].CreatedAt.Equal(candidates[j].CreatedAt) {
			return candidates[i].ID < candidates[j].ID
		}
		return candidates[i].CreatedAt.Before(candidates[j].CreatedAt)
	})

	leased := candidates[0]
	now := time.Now()
	leased.ResultStatus = string(statemachine.ResultStarted)
	leased.StartedAt = &now
	clone := *leased
	return &clone, nil
}

func (mr *MemoryTaskRepo) UpdateResult(task *model.Task, fromStatus string) (int64, error) {
	mr.mu.Lock()
	defer mr.mu.Unlock()

	for _, t := range mr.tasks {
		if t.TaskId != task.TaskId || t.ResultStatus != fromStatus {
			continue
		}
		t.ResultStatus = task.ResultStatus
		t.ResultProfile = task.ResultProfile
		t.LatencyProfile = task.LatencyProfile
		t.Description = task.Description
		t.CompletedAt = task.CompletedAt
		t.CompletedIn = task.CompletedIn
		return 1, nil
	}
	return 0, nil
}

func (mr *MemoryTaskRepo) ListByTrackingId(trackingId string) ([]model.Task, error) {
	mr.mu.Lock()
	defer mr.mu.Unlock()

	var out []model.Task
	for _, t := range mr.tasks {
		if t.TrackingId == trackingId {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (mr *MemoryTaskRepo) ListTracked(clusterName string) ([]model.Task, error) {
	mr.mu.Lock()
	defer mr.mu.Unlock()

	var out []model.Task
	for _, t := range mr.tasks {
		if t.TrackingId == "" {
			continue
		}
		if clusterName != "" && t.ClusterName != clusterName {
			continue
		}
		out = append(out, *t)
	}
	return out, nil
}

func (mr *MemoryTaskRepo) CountPendingByStepType() (map[string]int64, error) {
	mr.mu.Lock()
	defer mr.mu.Unlock()

	counts := make(map[string]int64)
	for _, t := range mr.tasks {
		if t.ResultStatus == string(statemachine.ResultPending) {
			counts[t.StepType]++
		}
	}
	return counts, nil
}

func (mr *MemoryTaskRepo) RequeueStuck(leaseTimeout time.Duration, retryLimit int) (int64, error) {
	mr.mu.Lock()
	defer mr.mu.Unlock()

	deadline := time.Now().Add(-leaseTimeout)
	var requeued int64
	for _, t := range mr.tasks {
		if t.ResultStatus != string(statemachine.ResultStarted) {
			continue
		}
		if t.StartedAt == nil || !t.StartedAt.Before(deadline) {
			continue
		}
		if t.RetryCount >= retryLimit {
			t.ResultStatus = string(statemachine.ResultFailed)
			t.Description = "lease expired, retry budget exhausted"
			continue
		}
		t.ResultStatus = string(statemachine.ResultPending)
		t.StartedAt = nil
		t.RetryCount++
		requeued++
	}
	return requeued, nil
}

// MemoryWorkerRepo is a process-local IWorkerRepository.
type MemoryWorkerRepo struct {
	mu      sync.Mutex
	nextId  uint64
	workers map[string]*model.Worker
}

func NewMemoryWorkerRepo() *MemoryWorkerRepo {
	return &MemoryWorkerRepo{workers: make(map[string]*model.Worker)}
}

func (mr *MemoryWorkerRepo) UpsertHeartbeat(worker *model.Worker) error {
	mr.mu.Lock()
	defer mr.mu.Unlock()

	if existing, ok := mr.workers[worker.WorkerId]; ok {
		existing.StepType = worker.StepType
		existing.Hostname = worker.Hostname
		existing.IP = worker.IP
		existing.MacAddress = worker.MacAddress
		existing.LastSeen = worker.LastSeen
		return nil
	}
	mr.nextId++
	worker.ID = mr.nextId
	clone := *worker
	mr.workers[worker.WorkerId] = &clone
	return nil
}

func (mr *MemoryWorkerRepo) ListWorkers() ([]model.Worker, error) {
	mr.mu.Lock()
	defer mr.mu.Unlock()

	out := make([]model.Worker, 0, len(mr.workers))
	for _, w := range mr.workers {
		out = append(out, *w)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].LastSeen.After(out[j].LastSeen)
	})
	return out, nil
}

func (mr *MemoryWorkerRepo) GetWorkerByWorkerId(workerId string) (*model.Worker, error) {
	mr.mu.Lock()
	defer mr.mu.Unlock()

	if w, ok := mr.workers[workerId]; ok {
		clone := *w
		return &clone, nil
	}
	return nil, gorm.ErrRecordNotFound
}

// MemoryRecordRepo is a process-local IRecordRepository.
type MemoryRecordRepo struct {
	mu          sync.Mutex
	nextId      uint64
	Transcripts []model.Transcript
	Entries     []model.ResponseEntry
	Emotions    []model.EmotionRecord
}

func NewMemoryRecordRepo() *MemoryRecordRepo {
	return &MemoryRecordRepo{}
}

func (mr *MemoryRecordRepo) CreateTranscript(t *model.Transcript) error {
	mr.mu.Lock()
	defer mr.mu.Unlock()
	mr.nextId++
	t.ID = mr.nextId
	mr.Transcripts = append(mr.Transcripts, *t)
	return nil
}

func (mr *MemoryRecordRepo) CreateResponseEntry(e *model.ResponseEntry) error {
	mr.mu.Lock()
	defer mr.mu.Unlock()
	mr.nextId++
	e.ID = mr.nextId
	mr.Entries = append(mr.Entries, *e)
	return nil
}

func (mr *MemoryRecordRepo) CreateEmotionRecord(r *model.EmotionRecord) error {
	mr.mu.Lock()
	defer mr.mu.Unlock()
	mr.nextId++
	r.ID = mr.nextId
	mr.Emotions = append(mr.Emotions, *r)
	return nil
}

func (mr *MemoryRecordRepo) ListResponseEntries(trackingId string) ([]model.ResponseEntry, error) {
	mr.mu.Lock()
	defer mr.mu.Unlock()

	var out []model.ResponseEntry
	for _, e := range mr.Entries {
		if e.TrackingId == trackingId {
			out = append(out, e)
		}
	}
	return out, nil
}
