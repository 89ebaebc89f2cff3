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
	"errors"
	"time"

	"github.com/voxflow/voxflow/internal/engine/model"
	"github.com/voxflow/voxflow/pkg/database"
	"github.com/voxflow/voxflow/pkg/statemachine"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNoPendingTask is returned by LeaseNext when the queue is drained.
var ErrNoPendingTask = errors.New("no pending task")

type ITaskRepository interface {
	CreateTask(task *model.Task) error
	GetTaskByTaskId(taskId string) (*model.Task, error)
	// LeaseNext atomically selects the oldest pending task of the given
	// step type (or any step type for the wildcard), flips it to started
	// and returns it. Returns ErrNoPendingTask when nothing is queued.
	LeaseNext(stepType string) (*model.Task, error)
	// UpdateResult persists the result fields of the task, guarded by a
	// compare-and-swap on the previous result status. Returns the number
	// of rows updated (zero means a concurrent writer won).
	UpdateResult(task *model.Task, fromStatus string) (int64, error)
	ListByTrackingId(trackingId string) ([]model.Task, error)
	// ListTracked returns every task carrying a tracking id, optionally
	// restricted to one cluster name.
	ListTracked(clusterName string) ([]model.Task, error)
	CountPendingByStepType() (map[string]int64, error)
	// RequeueStuck returns tasks leased longer than the timeout to pending,
	// failing those that exhausted the retry budget. Returns requeued count.
	RequeueStuck(leaseTimeout time.Duration, retryLimit int) (int64, error)
}

type TaskRepo struct {
	database.IDatabase
}

func NewTaskRepo(db database.IDatabase) ITaskRepository {
	return &TaskRepo{IDatabase: db}
}

func (tr *TaskRepo) CreateTask(task *model.Task) error {
	return tr.Database().Table(task.TableName()).Create(task).Error
}

func (tr *TaskRepo) GetTaskByTaskId(taskId string) (*model.Task, error) {
	var task model.Task
	if err := tr.Database().Table(task.TableName()).
		Where("task_id = ?", taskId).First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

func (tr *TaskRepo) LeaseNext(stepType string) (*model.Task, error) {
	var task model.Task

	err := tr.Database().Transaction(func(tx *gorm.DB) error {
		query := tx.Table(task.TableName()).
			Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
			Where("result_status = ?", string(statemachine.ResultPending))
		if stepType != "" && stepType != string(model.StepAny) {
			query = query.Where("step_type = ?", stepType)
		}
		if err := query.Order("created_at, id").First(&task).Error; err != nil {
			return err
		}

		now := time.Now()
		task.ResultStatus = string(statemachine.ResultStarted)
		task.StartedAt = &now
		return tx.Table(task.TableName()).
			Where("id = ?", task.ID).
			Updates(map[string]any{
				"result_status": task.ResultStatus,
				"started_at":    task.StartedAt,
			}).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoPendingTask
		}
		return nil, err
	}
	return &task, nil
}

func (tr *TaskRepo) UpdateResult(task *model.Task, fromStatus string) (int64, error) {
	res := tr.Database().Table(task.TableName()).
		Where("task_id = ? AND result_status = ?", task.TaskId, fromStatus).
		Updates(map[string]any{
			"result_status":   task.ResultStatus,
			"result_profile":  task.ResultProfile,
			"latency_profile": task.LatencyProfile,
			"description":     task.Description,
			"completed_at":    task.CompletedAt,
			"completed_in":    task.CompletedIn,
		})
	return res.RowsAffected, res.Error
}

func (tr *TaskRepo) ListByTrackingId(trackingId string) ([]model.Task, error) {
	var tasks []model.Task
	if err := tr.Database().Table(model.Task{}.TableName()).
		Where("tracking_id = ?", trackingId).
		Order("created_at, id").Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (tr *TaskRepo) ListTracked(clusterName string) ([]model.Task, error) {
	var tasks []model.Task
	query := tr.Database().Table(model.Task{}.TableName()).
		Where("tracking_id <> ''")
	if clusterName != "" {
		query = query.Where("cluster_name = ?", clusterName)
	}
	if err := query.Order("created_at, id").Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (tr *TaskRepo) CountPendingByStepType() (map[string]int64, error) {
	type row struct {
		StepType string
		N        int64
	}
	var rows []row
	if err := tr.Database().Table(model.Task{}.TableName()).
		Select("step_type, count(*) as n").
		Where("result_status = ?", string(statemachine.ResultPending)).
		Group("step_type").Scan(&rows).Error; err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.StepType] = r.N
	}
	return counts, nil
}

func (tr *TaskRepo) RequeueStuck(leaseTimeout time.Duration, retryLimit int) (int64, error) {
	deadline := time.Now().Add(-leaseTimeout)

	// exhausted retry budget: dead-letter as failed
	if err := tr.Database().Table(model.Task{}.TableName()).
		Where("result_status = ? AND started_at < ? AND retry_count >= ?",
			string(statemachine.ResultStarted), deadline, retryLimit).
		Updates(map[string]any{
			"result_status": string(statemachine.ResultFailed),
			"description":   "lease expired, retry budget exhausted",
		}).Error; err != nil {
		return 0, err
	}

	res := tr.Database().Table(model.Task{}.TableName()).
		Where("result_status = ? AND started_at < ?",
			string(statemachine.ResultStarted), deadline).
		Updates(map[string]any{
			"result_status": string(statemachine.ResultPending),
			"started_at":    nil,
			"retry_count":   gorm.Expr("retry_count + 1"),
		})
	return res.RowsAffected, res.Error
}
