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
	"fmt"
	"strings"
	"time"

	"github.com/voxflow/voxflow/internal/engine/cluster"
	"github.com/voxflow/voxflow/internal/engine/model"
	"github.com/voxflow/voxflow/internal/engine/repo"
	"github.com/voxflow/voxflow/pkg/statemachine"
)

// AllClusters selects every cluster in the benchmark read path.
const AllClusters = "all"

// latencyTsLayout is the timestamp format workers write into
// ts_start_task / ts_end_task latency markers.
const latencyTsLayout = "2006-01-02T15:04:05.000000"

type IBenchmarkService interface {
	// Report aggregates historical chain runs of one cluster (or
	// AllClusters) into a completion and latency summary.
	Report(clusterName string) (*model.BenchmarkReport, error)
}

type BenchmarkService struct {
	taskRepo repo.ITaskRepository
	registry *cluster.Registry
}

func NewBenchmarkService(taskRepo repo.ITaskRepository, registry *cluster.Registry) IBenchmarkService {
	return &BenchmarkService{taskRepo: taskRepo, registry: registry}
}

// runStats is the per-tracking-id accumulation.
type runStats struct {
	cluster   string
	completed int
	total     int
	tasks     []model.Task
}

func (bs *BenchmarkService) Report(clusterName string) (*model.BenchmarkReport, error) {
	filter := clusterName
	if clusterName == AllClusters {
		filter = ""
	} else if _, ok := bs.registry.Get(clusterName); !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCluster, clusterName)
	}

	tasks, err := bs.taskRepo.ListTracked(filter)
	if err != nil {
		return nil, err
	}

	runs := make(map[string]*runStats)
	for _, t := range tasks {
		rs, ok := runs[t.TrackingId]
		if !ok {
			name := t.ClusterName
			if name == "" {
				// legacy rows predate the cluster_name column
				name, _ = cluster.ParseTrackingID(t.TrackingId)
			}
			rs = &runStats{cluster: name}
			runs[t.TrackingId] = rs
		}
		rs.total++
		if t.Status() == statemachine.ResultCompleted {
			rs.completed++
		}
		rs.tasks = append(rs.tasks, t)
	}

	report := &model.BenchmarkReport{
		Cluster:     clusterName,
		StepLatency: make(map[string]float64),
	}
	stepSamples := make(map[string]int)

	var modelSum, transferSum, overallSum float64
	for _, rs := range runs {
		report.TotalRuns++
		c, ok := bs.registry.Get(rs.cluster)
		if !ok || rs.completed != c.RequiredTaskCount() {
			continue
		}
		report.CompletedRuns++

		var runModel, runTransfer float64
		for _, t := range rs.tasks {
			m, tr := splitLatency(t.Latency())
			runModel += m
			runTransfer += tr
			if m+tr > 0 {
				report.StepLatency[t.Name] += m + tr
				stepSamples[t.Name]++
			}
		}
		modelSum += runModel
		transferSum += runTransfer
		overallSum += overallLatency(rs.tasks, runModel+runTransfer)
	}

	if report.TotalRuns > 0 {
		report.CompletionRatio = float64(report.CompletedRuns) / float64(report.TotalRuns)
	}
	if report.CompletedRuns > 0 {
		n := float64(report.CompletedRuns)
		report.AvgModelLatency = modelSum / n
		report.AvgTransferLatency = transferSum / n
		report.AvgOverallLatency = overallSum / n
	}
	for step, total := range report.StepLatency {
		report.StepLatency[step] = total / float64(stepSamples[step])
	}
	return report, nil
}

// splitLatency sums the model_* and transfer_* keys of one latency profile.
func splitLatency(latency map[string]any) (modelSum, transferSum float64) {
	for k, v := range latency {
		f, ok := toFloat(v)
		if !ok {
			continue
		}
		switch {
		case strings.HasPrefix(k, "model_"):
			modelSum += f
		case strings.HasPrefix(k, "transfer_"):
			transferSum += f
		}
	}
	return
}

// overallLatency derives the wall-clock duration of a run from the
// earliest ts_start_task and latest ts_end_task markers. Without a
// usable pair it falls back to the model+transfer sum.
func overallLatency(tasks []model.Task, fallback float64) float64 {
	var start, end time.Time
	for _, t := range tasks {
		latency := t.Latency()
		if s, ok := parseTs(latency["ts_start_task"]); ok && (start.IsZero() || s.Before(start)) {
			start = s
		}
		if e, ok := parseTs(latency["ts_end_task"]); ok && e.After(end) {
			end = e
		}
	}
	if start.IsZero() || end.IsZero() || !end.After(start) {
		return fallback
	}
	return end.Sub(start).Seconds()
}

func parseTs(v any) (time.Time, bool) {
	s, ok := v.(string)
	if !ok {
		return time.Time{}, false
	}
	ts, err := time.Parse(latencyTsLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
