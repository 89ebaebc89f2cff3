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
	"github.com/voxflow/voxflow/internal/engine/model"
	"github.com/voxflow/voxflow/internal/engine/repo"
)

type IRecordService interface {
	// ListResponses returns the conversation log of one chain run in
	// insertion order (user and assistant turns interleaved).
	ListResponses(trackingId string) ([]model.ResponseEntry, error)
}

type RecordService struct {
	recordRepo repo.IRecordRepository
}

func NewRecordService(recordRepo repo.IRecordRepository) IRecordService {
	return &RecordService{recordRepo: recordRepo}
}

func (rs *RecordService) ListResponses(trackingId string) ([]model.ResponseEntry, error) {
	return rs.recordRepo.ListResponseEntries(trackingId)
}
