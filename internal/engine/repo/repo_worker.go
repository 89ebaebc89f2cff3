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
	"github.com/voxflow/voxflow/internal/engine/model"
	"github.com/voxflow/voxflow/pkg/database"
	"gorm.io/gorm/clause"
)

type IWorkerRepository interface {
	// UpsertHeartbeat inserts the worker row or refreshes its mutable
	// fields and last_seen when the worker id already exists.
	UpsertHeartbeat(worker *model.Worker) error
	ListWorkers() ([]model.Worker, error)
	GetWorkerByWorkerId(workerId string) (*model.Worker, error)
}

type WorkerRepo struct {
	database.IDatabase
}

func NewWorkerRepo(db database.IDatabase) IWorkerRepository {
	return &WorkerRepo{IDatabase: db}
}

func (wr *WorkerRepo) UpsertHeartbeat(worker *model.Worker) error {
	return wr.Database().Table(worker.TableName()).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "worker_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"step_type", "hostname", "ip", "mac_address", "last_seen",
			}),
		}).Create(worker).Error
}

func (wr *WorkerRepo) ListWorkers() ([]model.Worker, error) {
	var workers []model.Worker
	if err := wr.Database().Table(model.Worker{}.TableName()).
		Order("last_seen desc").Find(&workers).Error; err != nil {
		return nil, err
	}
	return workers, nil
}

func (wr *WorkerRepo) GetWorkerByWorkerId(workerId string) (*model.Worker, error) {
	var worker model.Worker
	if err := wr.Database().Table(worker.TableName()).
		Where("worker_id = ?", workerId).First(&worker).Error; err != nil {
		return nil, err
	}
	return &worker, nil
}
