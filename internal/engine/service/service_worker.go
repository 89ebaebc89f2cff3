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
	"context"
	"encoding/json"
	"time"

	"github.com/voxflow/voxflow/internal/engine/consts"
	"github.com/voxflow/voxflow/internal/engine/model"
	"github.com/voxflow/voxflow/internal/engine/repo"
	"github.com/voxflow/voxflow/pkg/cache"
	"github.com/voxflow/voxflow/pkg/log"
)

type IWorkerService interface {
	// Heartbeat upserts the worker registration and refreshes last_seen.
	Heartbeat(req model.HeartbeatReq) error
	// ListWorkers returns every registered worker with liveness inferred
	// from last_seen falling inside the alive window.
	ListWorkers() ([]model.WorkerDetail, error)
}

type WorkerService struct {
	workerRepo  repo.IWorkerRepository
	redis       cache.ICache
	aliveWindow time.Duration
}

func NewWorkerService(workerRepo repo.IWorkerRepository, redis cache.ICache, aliveWindow time.Duration) IWorkerService {
	return &WorkerService{
		workerRepo:  workerRepo,
		redis:       redis,
		aliveWindow: aliveWindow,
	}
}

func (ws *WorkerService) Heartbeat(req model.HeartbeatReq) error {
	worker := &model.Worker{
		WorkerId:   req.WorkerId,
		StepType:   req.StepType,
		Hostname:   req.Hostname,
		IP:         req.IP,
		MacAddress: req.MacAddress,
		LastSeen:   time.Now(),
	}
	if err := ws.workerRepo.UpsertHeartbeat(worker); err != nil {
		return err
	}
	ws.cacheSnapshot(worker)
	return nil
}

// cacheSnapshot mirrors the heartbeat into redis for dashboards. The
// database row stays the source of truth, a cache miss is harmless.
func (ws *WorkerService) cacheSnapshot(worker *model.Worker) {
	if ws.redis == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	payload, err := json.Marshal(worker)
	if err != nil {
		return
	}
	if err := ws.redis.HSet(ctx, consts.WorkerLiveKey, worker.WorkerId, payload).Err(); err != nil {
		log.Warnw("worker snapshot cache failed", "workerId", worker.WorkerId, "err", err)
		return
	}
	ws.redis.Expire(ctx, consts.WorkerLiveKey, consts.WorkerLiveTTL)
}

func (ws *WorkerService) ListWorkers() ([]model.WorkerDetail, error) {
	workers, err := ws.workerRepo.ListWorkers()
	if err != nil {
		return nil, err
	}

	cutoff := time.Now().Add(-ws.aliveWindow)
	details := make([]model.WorkerDetail, 0, len(workers))
	for _, w := range workers {
		details = append(details, model.WorkerDetail{
			Worker: w,
			Alive:  w.LastSeen.After(cutoff),
		})
	}
	return details, nil
}
