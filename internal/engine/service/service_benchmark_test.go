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
	"testing"

	"github.com/voxflow/voxflow/internal/engine/cluster"
	"github.com/voxflow/voxflow/internal/engine/model"
	"github.com/voxflow/voxflow/internal/engine/repo"
	"github.com/voxflow/voxflow/pkg/datatype"
	"github.com/voxflow/voxflow/pkg/statemachine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBenchmarkFixture(t *testing.T) (IBenchmarkService, *repo.MemoryTaskRepo) {
	t.Helper()
	reg, err := cluster.NewRegistry([]cluster.Cluster{{
		Name: "bench",
		Steps: []cluster.Step{
			{Name: "a", Order: 10, Component: cluster.ComponentTask},
			{Name: "c", Order: 20, Component: cluster.ComponentTask},
		},
	}}, map[string]string{"a": "type_a", "c": "type_c"})
	require.NoError(t, err)

	taskRepo := repo.NewMemoryTaskRepo()
	return NewBenchmarkService(taskRepo, reg), taskRepo
}

func seedRun(t *testing.T, taskRepo *repo.MemoryTaskRepo, trackingId string,
	completed int, latencies []map[string]any) {
	t.Helper()
	for i, step := range []string{"a", "c"} {
		status := statemachine.ResultPending
		if i < completed {
			status = statemachine.ResultCompleted
		}
		var latency datatype.JSON
		if i < len(latencies) && latencies[i] != nil {
			var err error
			latency, err = datatype.FromMap(latencies[i])
			require.NoError(t, err)
		}
		require.NoError(t, taskRepo.CreateTask(&model.Task{
			TaskId:         fmt.Sprintf("%s-%s", trackingId, step),
			Name:           step,
			StepType:       "type_" + step,
			ResultStatus:   string(status),
			TrackingId:     trackingId,
			ClusterName:    "bench",
			LatencyProfile: latency,
		}))
	}
}

// Ten runs, six fully completed: ratio 6/10 and latency statistics
// computed over the six only.
func TestBenchmarkCompletionRatio(t *testing.T) {
	svc, taskRepo := newBenchmarkFixture(t)

	for i := 0; i < 6; i++ {
		seedRun(t, taskRepo, fmt.Sprintf("T-bench-c%d", i), 2, []map[string]any{
			{"model_infer": 1.0},
			{"transfer_upload": 0.5},
		})
	}
	for i := 0; i < 4; i++ {
		seedRun(t, taskRepo, fmt.Sprintf("T-bench-p%d", i), 1, []map[string]any{
			{"model_infer": 99.0},
		})
	}

	report, err := svc.Report("bench")
	require.NoError(t, err)
	assert.Equal(t, 10, report.TotalRuns)
	assert.Equal(t, 6, report.CompletedRuns)
	assert.InDelta(t, 0.6, report.CompletionRatio, 1e-9)

	// the incomplete runs' 99s latencies must not leak in
	assert.InDelta(t, 1.0, report.AvgModelLatency, 1e-9)
	assert.InDelta(t, 0.5, report.AvgTransferLatency, 1e-9)
	assert.InDelta(t, 1.5, report.AvgOverallLatency, 1e-9)
}

// Timestamp markers win over the model+transfer sum for the overall
// latency.
func TestBenchmarkOverallLatencyFromTimestamps(t *testing.T) {
	svc, taskRepo := newBenchmarkFixture(t)

	seedRun(t, taskRepo, "T-bench-ts", 2, []map[string]any{
		{
			"ts_start_task": "2024-07-01T10:00:00.000000",
			"ts_end_task":   "2024-07-01T10:00:02.500000",
			"model_infer":   1.2,
		},
		nil,
	})

	report, err := svc.Report("bench")
	require.NoError(t, err)
	require.Equal(t, 1, report.CompletedRuns)
	assert.InDelta(t, 2.5, report.AvgOverallLatency, 1e-9)
	assert.InDelta(t, 1.2, report.AvgModelLatency, 1e-9)
}

func TestBenchmarkFallsBackToSumWithoutTimestamps(t *testing.T) {
	svc, taskRepo := newBenchmarkFixture(t)

	seedRun(t, taskRepo, "T-bench-sum", 2, []map[string]any{
		{"model_infer": 1.2, "transfer_download": 0.3},
		nil,
	})

	report, err := svc.Report("bench")
	require.NoError(t, err)
	assert.InDelta(t, 1.5, report.AvgOverallLatency, 1e-9)
}

func TestBenchmarkAllClusters(t *testing.T) {
	svc, taskRepo := newBenchmarkFixture(t)

	seedRun(t, taskRepo, "T-bench-x", 2, nil)
	report, err := svc.Report(AllClusters)
	require.NoError(t, err)
	assert.Equal(t, 1, report.TotalRuns)
	assert.Equal(t, 1, report.CompletedRuns)
}

func TestBenchmarkUnknownCluster(t *testing.T) {
	svc, _ := newBenchmarkFixture(t)

	_, err := svc.Report("nope")
	assert.ErrorIs(t, err, ErrUnknownCluster)
}
