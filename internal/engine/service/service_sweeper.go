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

	"github.com/robfig/cron"
	"github.com/voxflow/voxflow/internal/engine/consts"
	"github.com/voxflow/voxflow/internal/engine/repo"
	"github.com/voxflow/voxflow/pkg/log"
)

// Sweeper returns tasks stuck in started past their lease timeout to
// pending on a cron schedule. Tasks over the retry budget are failed
// instead, so a crashed worker cannot wedge a chain forever.
type Sweeper struct {
	taskRepo     repo.ITaskRepository
	schedule     string
	leaseTimeout time.Duration
	retryLimit   int
	cron         *cron.Cron
}

func NewSweeper(taskRepo repo.ITaskRepository, schedule string, opts Options) *Sweeper {
	if schedule == "" {
		schedule = consts.DefaultSweepSchedule
	}
	opts = opts.withDefaults()
	return &Sweeper{
		taskRepo:     taskRepo,
		schedule:     schedule,
		leaseTimeout: opts.LeaseTimeout,
		retryLimit:   opts.RetryLimit,
	}
}

func (s *Sweeper) Start() error {
	s.cron = cron.New()
	if err := s.cron.AddFunc(s.schedule, s.Sweep); err != nil {
		return err
	}
	s.cron.Start()
	log.Infow("lease sweeper started", "schedule", s.schedule,
		"leaseTimeout", s.leaseTimeout.String(), "retryLimit", s.retryLimit)
	return nil
}

func (s *Sweeper) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

// Sweep runs one pass. Exposed for tests and manual triggering.
func (s *Sweeper) Sweep() {
	requeued, err := s.taskRepo.RequeueStuck(s.leaseTimeout, s.retryLimit)
	if err != nil {
		log.Errorw("lease sweep failed", "err", err)
		return
	}
	if requeued > 0 {
		log.Infow("lease sweep requeued stuck tasks", "count", requeued)
	}
}
