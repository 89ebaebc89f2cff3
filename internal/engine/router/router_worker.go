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
	"github.com/gofiber/fiber/v2"
	"github.com/voxflow/voxflow/internal/engine/model"
	httpx "github.com/voxflow/voxflow/pkg/http"
	"github.com/voxflow/voxflow/pkg/http/middleware"
)

func (r *Router) registerWorker(api fiber.Router) {
	api.Post("/worker/heartbeat", r.heartbeat)
	api.Get("/worker/list", r.listWorkers)
}

func (r *Router) heartbeat(c *fiber.Ctx) error {
	var req model.HeartbeatReq
	if err := c.BodyParser(&req); err != nil {
		return httpx.WithRepErrMsg(c, httpx.RequestParameterParsingFailed.Code,
			httpx.RequestParameterParsingFailed.Msg, c.Path())
	}
	if req.WorkerId == "" || req.StepType == "" {
		return httpx.WithRepErrMsg(c, httpx.BadRequest.Code, "workerId and stepType are required", c.Path())
	}

	if err := r.svc.Worker.Heartbeat(req); err != nil {
		return err
	}
	c.Locals(middleware.OPERATION, true)
	return nil
}

func (r *Router) listWorkers(c *fiber.Ctx) error {
	workers, err := r.svc.Worker.ListWorkers()
	if err != nil {
		return err
	}
	c.Locals(middleware.DETAIL, workers)
	return nil
}
