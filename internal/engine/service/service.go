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
	"time"

	"github.com/voxflow/voxflow/internal/engine/cluster"
	"github.com/voxflow/voxflow/internal/engine/consts"
	"github.com/voxflow/voxflow/internal/engine/repo"
	"github.com/voxflow/voxflow/pkg/cache"
	"github.com/voxflow/voxflow/pkg/event"
)

// Options carries the orchestrator tunables shared by the services.
type Options struct {
	LeaseTimeout time.Duration
	RetryLimit   int
	AliveWindow  time.Duration
}

func (o Options) withDefaults() Options {
	if o.LeaseTimeout <= 0 {
		o.LeaseTimeout = consts.DefaultLeaseTimeout
	}
	if o.RetryLimit <= 0 {
		o.RetryLimit = 3
	}
	if o.AliveWindow <= 0 {
		o.AliveWindow = consts.DefaultWorkerAliveWindow
	}
	return o
}

// Services 统一管理所有 service
type Services struct {
	Task      ITaskService
	Worker    IWorkerService
	Record    IRecordService
	Benchmark IBenchmarkService
}

// NewServices 初始化所有 service
func NewServices(repos *repo.Repositories, mgr *cluster.Manager, bus *event.EventBus,
	redis cache.ICache, opts Options) *Services {
	opts = opts.withDefaults()
	return &Services{
		Task:      NewTaskService(repos.Task, mgr, bus),
		Worker:    NewWorkerService(repos.Worker, redis, opts.AliveWindow),
		Record:    NewRecordService(repos.Record),
		Benchmark: NewBenchmarkService(repos.Task, mgr.Registry()),
	}
}
