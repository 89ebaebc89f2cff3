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

package worker

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// StepResult is what a runner hands back to the harness.
type StepResult struct {
	// Status pending/completed/failed. Pending means the input is not
	// ready yet, the task will be retried on a later lease.
	Status         string
	Description    string
	ResultProfile  map[string]any
	LatencyProfile map[string]any
}

// StepRunner executes one leased task.
type StepRunner interface {
	Run(ctx context.Context, params map[string]any) (*StepResult, error)
}

// RunnerFunc adapts a plain function to the StepRunner interface.
type RunnerFunc func(ctx context.Context, params map[string]any) (*StepResult, error)

func (f RunnerFunc) Run(ctx context.Context, params map[string]any) (*StepResult, error) {
	return f(ctx, params)
}

// registry of step runners keyed by step type
var (
	runnersMu sync.RWMutex
	runners   = make(map[string]StepRunner)
)

// Register binds a runner to a step type. Later registrations replace
// earlier ones.
func Register(stepType string, r StepRunner) {
	runnersMu.Lock()
	defer runnersMu.Unlock()
	runners[stepType] = r
}

// RunnerFor looks up the runner serving a step type.
func RunnerFor(stepType string) (StepRunner, error) {
	runnersMu.RLock()
	defer runnersMu.RUnlock()
	r, ok := runners[stepType]
	if !ok {
		return nil, fmt.Errorf("no runner registered for step type %q", stepType)
	}
	return r, nil
}

// EchoRunner copies its input to its output. Useful for smoke testing a
// deployment before real runners are wired in.
type EchoRunner struct{}

func (EchoRunner) Run(_ context.Context, params map[string]any) (*StepResult, error) {
	start := time.Now()
	return &StepResult{
		Status:        "completed",
		ResultProfile: params,
		LatencyProfile: map[string]any{
			"model_echo": time.Since(start).Seconds(),
		},
	}, nil
}
