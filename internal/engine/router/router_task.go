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

package router

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/voxflow/voxflow/internal/engine/model"
	"github.com/voxflow/voxflow/internal/engine/repo"
	"github.com/voxflow/voxflow/internal/engine/service"
	httpx "github.com/voxflow/voxflow/pkg/http"
	"github.com/voxflow/voxflow/pkg/http/middleware"
	"gorm.io/gorm"
)

func (r *Router) registerTask(api fiber.Router) {
	api.Post("/pipeline/run", r.runPipeline)
	api.Get("/pipeline/:trackingId", r.listPipelineTasks)
	api.Get("/pipeline/:trackingId/responses", r.listPipelineResponses)
	api.Post("/task", r.createTask)
	api.Get("/task/next", r.leaseNext)
	api.Get("/task/:taskId", r.getTask)
	api.Put("/task/:taskId/result", r.reportResult)
}

// runPipeline enqueues the head step of the cluster starting with the
// requested step name and returns the minted tracking id.
func (r *Router) runPipeline(c *fiber.Ctx) error {
	var req model.RunPipelineReq
	if err := c.BodyParser(&req); err != nil {
		return httpx.WithRepErrMsg(c, httpx.RequestParameterParsingFailed.Code,
			httpx.RequestParameterParsingFailed.Msg, c.Path())
	}

	trackingId, err := r.svc.Task.EnqueueRun(req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnknownHeadStep):
			return httpx.WithRepErrMsg(c, httpx.UnknownStep.Code, httpx.UnknownStep.Msg, c.Path())
		case errors.Is(err, service.ErrUnknownCluster):
			return httpx.WithRepErrMsg(c, httpx.UnknownCluster.Code, httpx.UnknownCluster.Msg, c.Path())
		}
		return err
	}
	c.Locals(middleware.DETAIL, fiber.Map{"trackingId": trackingId})
	return nil
}

func (r *Router) listPipelineTasks(c *fiber.Ctx) error {
	tasks, err := r.svc.Task.ListByTrackingId(c.Params("trackingId"))
	if err != nil {
		return err
	}
	c.Locals(middleware.DETAIL, tasks)
	return nil
}

// listPipelineResponses returns the conversation log of one chain run.
func (r *Router) listPipelineResponses(c *fiber.Ctx) error {
	entries, err := r.svc.Record.ListResponses(c.Params("trackingId"))
	if err != nil {
		return err
	}
	c.Locals(middleware.DETAIL, entries)
	return nil
}

// createTask enqueues a standalone one-off task outside any chain.
func (r *Router) createTask(c *fiber.Ctx) error {
	var req model.CreateTaskReq
	if err := c.BodyParser(&req); err != nil {
		return httpx.WithRepErrMsg(c, httpx.RequestParameterParsingFailed.Code,
			httpx.RequestParameterParsingFailed.Msg, c.Path())
	}
	if req.StepType == "" {
		return httpx.WithRepErrMsg(c, httpx.BadRequest.Code, "stepType is required", c.Path())
	}

	task, err := r.svc.Task.Enqueue(req)
	if err != nil {
		return err
	}
	c.Locals(middleware.DETAIL, task)
	return nil
}

// leaseNext hands the oldest pending task of the step type to the
// polling worker.
func (r *Router) leaseNext(c *fiber.Ctx) error {
	stepType := c.Query("stepType")

	task, err := r.svc.Task.LeaseNext(stepType)
	if err != nil {
		if errors.Is(err, repo.ErrNoPendingTask) {
			return httpx.WithRepMsg(c, httpx.NoPendingTask.Code, httpx.NoPendingTask.Msg)
		}
		return err
	}
	c.Locals(middleware.DETAIL, task)
	return nil
}

func (r *Router) getTask(c *fiber.Ctx) error {
	task, err := r.svc.Task.GetTask(c.Params("taskId"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return httpx.WithRepErrMsg(c, httpx.TaskNotExist.Code, httpx.TaskNotExist.Msg, c.Path())
		}
		return err
	}
	c.Locals(middleware.DETAIL, task)
	return nil
}

// reportResult applies a worker result. Completion advances the chain
// through the event bus before the response is written.
func (r *Router) reportResult(c *fiber.Ctx) error {
	var req model.ReportResultReq
	if err := c.BodyParser(&req); err != nil {
		return httpx.WithRepErrMsg(c, httpx.RequestParameterParsingFailed.Code,
			httpx.RequestParameterParsingFailed.Msg, c.Path())
	}

	task, err := r.svc.Task.ReportResult(c.Params("taskId"), req)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return httpx.WithRepErrMsg(c, httpx.TaskNotExist.Code, httpx.TaskNotExist.Msg, c.Path())
		case errors.Is(err, service.ErrInvalidTransition):
			return httpx.WithRepErrMsg(c, httpx.InvalidResultState.Code, err.Error(), c.Path())
		}
		return err
	}
	c.Locals(middleware.DETAIL, task)
	return nil
}
