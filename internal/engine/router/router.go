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
	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	fiberlog "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/voxflow/voxflow/internal/engine/service"
	"github.com/voxflow/voxflow/pkg/http/middleware"
	"github.com/voxflow/voxflow/pkg/version"
)

// Router owns the fiber app and the service handles behind it.
type Router struct {
	app *fiber.App
	svc *service.Services
}

func NewRouter(svc *service.Services) *Router {
	app := fiber.New(fiber.Config{
		AppName:               "voxflow engine",
		DisableStartupMessage: true,
	})

	app.Use(fiberlog.New())
	app.Use(middleware.ExceptionMiddleware)
	app.Use(middleware.UnifiedResponseMiddleware())

	r := &Router{app: app, svc: svc}
	r.register()
	return r
}

func (r *Router) App() *fiber.App {
	return r.app
}

func (r *Router) Listen(addr string) error {
	return r.app.Listen(addr)
}

func (r *Router) Shutdown() error {
	return r.app.Shutdown()
}

func (r *Router) register() {
	r.app.Get("/health", func(c *fiber.Ctx) error {
		c.Locals(middleware.DETAIL, fiber.Map{"status": "ok"})
		return nil
	})
	r.app.Get("/version", func(c *fiber.Ctx) error {
		c.Locals(middleware.DETAIL, version.GetVersion())
		return nil
	})
	r.app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := r.app.Group("/api/v1")
	r.registerTask(api)
	r.registerWorker(api)
	r.registerBenchmark(api)
}
