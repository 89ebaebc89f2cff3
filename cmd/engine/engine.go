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

package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/voxflow/voxflow/internal/engine/cluster"
	"github.com/voxflow/voxflow/internal/engine/conf"
	"github.com/voxflow/voxflow/internal/engine/listener"
	"github.com/voxflow/voxflow/internal/engine/model"
	"github.com/voxflow/voxflow/internal/engine/repo"
	"github.com/voxflow/voxflow/internal/engine/router"
	"github.com/voxflow/voxflow/internal/engine/service"
	"github.com/voxflow/voxflow/pkg/cache"
	"github.com/voxflow/voxflow/pkg/database"
	"github.com/voxflow/voxflow/pkg/event"
	"github.com/voxflow/voxflow/pkg/log"
	"github.com/voxflow/voxflow/pkg/metrics"
	"github.com/voxflow/voxflow/pkg/runner"
	"github.com/voxflow/voxflow/pkg/safe"
	"github.com/voxflow/voxflow/pkg/version"
)

var confFile = flag.String("conf", "conf.d/config.toml", "config file path")

func printRunner() {
	fmt.Printf("voxflow engine %s (%s)\n", version.Version, version.GitCommit)
	fmt.Printf("hostname: %s\npwd: %s\n", runner.Hostname, runner.Pwd)
}

func main() {
	flag.Parse()
	printRunner()

	cfg, err := conf.NewConfig(*confFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	if _, err := log.NewLog(&cfg.Log); err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}

	gormDB, err := database.NewDatabase(cfg.Database)
	if err != nil {
		log.Fatalf("connect database: %v", err)
	}
	if err := gormDB.AutoMigrate(
		&model.Task{}, &model.Worker{},
		&model.Transcript{}, &model.ResponseEntry{}, &model.EmotionRecord{},
	); err != nil {
		log.Fatalf("migrate schema: %v", err)
	}
	db := database.NewGormDB(gormDB)

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		log.Fatalf("connect redis: %v", err)
	}

	repos := repo.NewRepositories(db)
	bus := event.NewEventBus()
	registry := cluster.DefaultRegistry()
	mgr := cluster.NewManager(registry, repos.Task, bus)
	listener.NewListeners(mgr, repos.Record).RegisterAll(bus)

	opts := service.Options{
		LeaseTimeout: cfg.Orchestrator.LeaseTimeout,
		RetryLimit:   cfg.Orchestrator.RetryLimit,
		AliveWindow:  cfg.Orchestrator.WorkerAliveWindow,
	}
	services := service.NewServices(repos, mgr, bus, redisClient, opts)

	sweeper := service.NewSweeper(repos.Task, cfg.Orchestrator.SweepSchedule, opts)
	if err := sweeper.Start(); err != nil {
		log.Fatalf("start sweeper: %v", err)
	}
	defer sweeper.Stop()

	collector := metrics.NewQueueDepthCollector(repos.Task)
	collector.Start(cfg.Orchestrator.MetricsInterval)
	defer collector.Stop()

	r := router.NewRouter(services)
	safe.Go(func() {
		log.Infof("engine listening on %s", cfg.Http.Addr())
		if err := r.Listen(cfg.Http.Addr()); err != nil {
			log.Fatalf("listen: %v", err)
		}
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	if err := r.Shutdown(); err != nil {
		log.Errorf("shutdown: %v", err)
	}
}
