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
	"github.com/voxflow/voxflow/internal/engine/service"
	httpx "github.com/voxflow/voxflow/pkg/http"
	"github.com/voxflow/voxflow/pkg/http/middleware"
)

func (r *Router) registerBenchmark(api fiber.Router) {
	api.Get("/benchmark/:cluster", r.benchmark)
}

// benchmark aggregates historical chain runs of one cluster, or every
// cluster when the path parameter is "all".
func (r *Router) benchmark(c *fiber.Ctx) error {
	report, err := r.svc.Benchmark.Report(c.Params("cluster"))
	if err != nil {
		if errors.Is(err, service.ErrUnknownCluster) {
			return httpx.WithRepErrMsg(c, httpx.UnknownCluster.Code, httpx.UnknownCluster.Msg, c.Path())
		}
		return err
	}
	c.Locals(middleware.DETAIL, report)
	return nil
}
