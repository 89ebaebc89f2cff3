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
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/voxflow/voxflow/internal/worker/config"
	"github.com/voxflow/voxflow/pkg/id"
	"github.com/voxflow/voxflow/pkg/log"
	"github.com/voxflow/voxflow/pkg/loop"
	"github.com/voxflow/voxflow/pkg/retry"
	"github.com/voxflow/voxflow/pkg/runner"
	"github.com/voxflow/voxflow/pkg/safe"
)

const (
	codeSuccess       = 200
	codeNoPendingTask = 4102
)

// envelope is the engine's unified response shape.
type envelope struct {
	Code   int             `json:"code"`
	Detail json.RawMessage `json:"detail"`
	Msg    string          `json:"msg"`
}

// leasedTask is the subset of the task record the harness needs.
type leasedTask struct {
	TaskId     string         `json:"taskId"`
	Name       string         `json:"name"`
	StepType   string         `json:"stepType"`
	Parameters map[string]any `json:"parameters"`
	TrackingId string         `json:"trackingId"`
}

// Harness polls the engine for tasks of one step type, runs them
// through the registered runner and reports the results back.
type Harness struct {
	cfg      *config.Config
	client   *resty.Client
	workerId string
	ip       string
	mac      string
}

func NewHarness(cfg *config.Config) *Harness {
	h := &Harness{
		cfg:      cfg,
		client:   resty.New().SetBaseURL(cfg.Endpoint).SetTimeout(30 * time.Second),
		workerId: id.GetUUIDWithoutDashes(),
	}
	h.ip, h.mac = networkIdentity()
	return h
}

// Run blocks until the context is cancelled.
func (h *Harness) Run(ctx context.Context) error {
	if _, err := RunnerFor(h.cfg.StepType); err != nil {
		return err
	}

	log.Infow("worker starting", "workerId", h.workerId,
		"stepType", h.cfg.StepType, "endpoint", h.cfg.Endpoint)

	h.heartbeat()
	safe.Go(func() {
		ticker := time.NewTicker(h.cfg.HeartbeatInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				h.heartbeat()
			case <-ctx.Done():
				return
			}
		}
	})

	l := loop.New(
		loop.WithInterval(h.cfg.PollInterval),
		loop.WithDeclineRatio(1.5),
		loop.WithDeclineLimit(30*time.Second),
		loop.WithContext(ctx),
	)
	return l.Do(func() (bool, error) {
		if err := h.pollOnce(ctx); err != nil {
			return false, err
		}
		return false, nil
	})
}

func (h *Harness) heartbeat() {
	body := map[string]string{
		"workerId":   h.workerId,
		"stepType":   h.cfg.StepType,
		"hostname":   runner.Hostname,
		"ip":         h.ip,
		"macAddress": h.mac,
	}
	resp, err := h.client.R().SetBody(body).Post("/api/v1/worker/heartbeat")
	if err != nil {
		log.Warnw("heartbeat failed", "err", err)
		return
	}
	if resp.IsError() {
		log.Warnw("heartbeat rejected", "status", resp.StatusCode())
	}
}

// pollOnce leases at most one task. An empty queue is not an error, a
// transport failure is, so the loop backs off on the latter only.
func (h *Harness) pollOnce(ctx context.Context) error {
	resp, err := h.client.R().
		SetQueryParam("stepType", h.cfg.StepType).
		Get("/api/v1/task/next")
	if err != nil {
		return fmt.Errorf("poll: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(resp.Body(), &env); err != nil {
		return fmt.Errorf("poll decode: %w", err)
	}
	if env.Code == codeNoPendingTask {
		return nil
	}
	if env.Code != codeSuccess {
		return fmt.Errorf("poll rejected: code=%d msg=%s", env.Code, env.Msg)
	}

	var task leasedTask
	if err := json.Unmarshal(env.Detail, &task); err != nil {
		return fmt.Errorf("task decode: %w", err)
	}

	h.execute(ctx, &task)
	return nil
}

func (h *Harness) execute(ctx context.Context, task *leasedTask) {
	start := time.Now()
	log.Infow("task leased", "taskId", task.TaskId, "step", task.Name)

	r, err := RunnerFor(task.StepType)
	if err != nil {
		h.report(ctx, task.TaskId, &StepResult{Status: "failed", Description: err.Error()}, start)
		return
	}

	result, err := r.Run(ctx, task.Parameters)
	if err != nil {
		result = &StepResult{Status: "failed", Description: err.Error()}
	}
	h.report(ctx, task.TaskId, result, start)
}

// report delivers the result, retrying transport failures so a brief
// engine restart does not strand a finished task in started.
func (h *Harness) report(ctx context.Context, taskId string, result *StepResult, start time.Time) {
	body := map[string]any{
		"resultStatus":       result.Status,
		"description":        result.Description,
		"resultProfile":      result.ResultProfile,
		"latencyProfile":     result.LatencyProfile,
		"completedInSeconds": time.Since(start).Seconds(),
	}

	err := retry.Do(ctx, func(ctx context.Context) error {
		resp, err := h.client.R().
			SetContext(ctx).
			SetBody(body).
			Put(fmt.Sprintf("/api/v1/task/%s/result", taskId))
		if err != nil {
			return err
		}
		var env envelope
		if err := json.Unmarshal(resp.Body(), &env); err == nil && env.Code != codeSuccess {
			log.Warnw("result report rejected", "taskId", taskId, "code", env.Code, "msg", env.Msg)
		}
		return nil
	},
		retry.WithMaxAttempts(5),
		retry.WithBackoff(retry.Exponential(500*time.Millisecond, 10*time.Second)),
		retry.WithJitter(retry.FullJitter),
	)
	if err != nil {
		log.Errorw("result report failed", "taskId", taskId, "err", err)
		return
	}
	log.Infow("task reported", "taskId", taskId, "status", result.Status)
}

// networkIdentity picks the first non-loopback interface for the
// observability fields of the heartbeat.
func networkIdentity() (ip, mac string) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return
	}
	for _, iface := range ifaces {
		if iface.Flags&net.FlagLoopback != 0 || iface.Flags&net.FlagUp == 0 {
			continue
		}
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		for _, addr := range addrs {
			ipNet, ok := addr.(*net.IPNet)
			if !ok || ipNet.IP.To4() == nil {
				continue
			}
			return ipNet.IP.String(), iface.HardwareAddr.String()
		}
	}
	return
}
