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
)

type IRecordRepository interface {
	CreateTranscript(t *model.Transcript) error
	CreateResponseEntry(e *model.ResponseEntry) error
	CreateEmotionRecord(r *model.EmotionRecord) error
	ListResponseEntries(trackingId string) ([]model.ResponseEntry, error)
}

type RecordRepo struct {
	database.IDatabase
}

func NewRecordRepo(db database.IDatabase) IRecordRepository {
	return &RecordRepo{IDatabase: db}
}

func (rr *RecordRepo) CreateTranscript(t *model.Transcript) error {
	return rr.Database().Table(t.TableName()).Create(t).Error
}

func (rr *RecordRepo) CreateResponseEntry(e *model.ResponseEntry) error {
	return rr.Database().Table(e.TableName()).Create(e).Error
}

func (rr *RecordRepo) CreateEmotionRecord(r *model.EmotionRecord) error {
	return rr.Database().Table(r.TableName()).Create(r).Error
}

func (rr *RecordRepo) ListResponseEntries(trackingId string) ([]model.ResponseEntry, error) {
	var entries []model.ResponseEntry
	if err := rr.Database().Table(model.ResponseEntry{}.TableName()).
		Where("tracking_id = ?", trackingId).
		Order("created_at, id").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
