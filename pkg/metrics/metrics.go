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

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TasksCreated counts task records created, by step type.
	TasksCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "voxflow",
		Subsystem: "queue",
		Name:      "tasks_created_total",
		Help:      "Number of task records created",
	}, []string{"step_type"})

	// TasksLeased counts tasks handed to workers, by step type.
	TasksLeased = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "voxflow",
		Subsystem: "queue",
		Name:      "tasks_leased_total",
		Help:      "Number of tasks leased to workers",
	}, []string{"step_type"})

	// TasksReported counts result reports, by step type and result status.
	TasksReported = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "voxflow",
		Subsystem: "queue",
		Name:      "tasks_reported_total",
		Help:      "Number of task results reported",
	}, []string{"step_type", "status"})

	// PendingTasks is the current pending queue depth, by step type.
	PendingTasks = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "voxflow",
		Subsystem: "queue",
		Name:      "pending_tasks",
		Help:      "Current number of pending tasks",
	}, []string{"step_type"})

	// ChainAdvanced counts cluster chain advancements, by cluster name.
	ChainAdvanced = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "voxflow",
		Subsystem: "cluster",
		Name:      "chain_advanced_total",
		Help:      "Number of chain advancement calls",
	}, []string{"cluster"})

	// ChainHalted counts chains stopped by configuration errors, by reason.
	ChainHalted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "voxflow",
		Subsystem: "cluster",
		Name:      "chain_halted_total",
		Help:      "Number of chains halted without advancing",
	}, []string{"reason"})

	// StepLatency observes the reported per-step completion latency in seconds.
	StepLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "voxflow",
		Subsystem: "queue",
		Name:      "step_latency_seconds",
		Help:      "Reported completion latency per step",
		Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
	}, []string{"step_type"})
)
