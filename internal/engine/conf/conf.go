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

package conf

import (
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"github.com/voxflow/voxflow/internal/engine/consts"
	"github.com/voxflow/voxflow/pkg/cache"
	"github.com/voxflow/voxflow/pkg/database"
	"github.com/voxflow/voxflow/pkg/log"
)

// Http engine listen settings
type Http struct {
	Host string
	Port int
}

func (h Http) Addr() string {
	return fmt.Sprintf("%s:%d", h.Host, h.Port)
}

// Orchestrator chain engine tunables
type Orchestrator struct {
	// LeaseTimeout how long a started task may go unreported
	LeaseTimeout time.Duration `mapstructure:"leaseTimeout"`
	// SweepSchedule cron spec of the lease sweep
	SweepSchedule string `mapstructure:"sweepSchedule"`
	// RetryLimit sweep requeue budget before a task is failed
	RetryLimit int `mapstructure:"retryLimit"`
	// WorkerAliveWindow liveness window for the worker list
	WorkerAliveWindow time.Duration `mapstructure:"workerAliveWindow"`
	// MetricsInterval queue depth collector period
	MetricsInterval time.Duration `mapstructure:"metricsInterval"`
}

type AppConfig struct {
	Http         Http
	Log          log.Conf
	Database     database.Database
	Redis        cache.Redis
	Orchestrator Orchestrator
}

// NewConfig loads the TOML config and watches it for changes. Reloads
// only refresh log levels, connection settings require a restart.
func NewConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.setDefaults()

	v.OnConfigChange(func(e fsnotify.Event) {
		log.Infow("config file changed", "file", e.Name)
		var next AppConfig
		if err := v.Unmarshal(&next); err != nil {
			log.Warnw("config reload failed", "err", err)
			return
		}
		next.setDefaults()
		cfg.Log = next.Log
		if _, err := log.NewLog(&cfg.Log); err != nil {
			log.Warnw("log reconfigure failed", "err", err)
		}
	})
	v.WatchConfig()

	return &cfg, nil
}

func (c *AppConfig) setDefaults() {
	if c.Http.Port == 0 {
		c.Http.Port = 8180
	}
	if c.Orchestrator.LeaseTimeout <= 0 {
		c.Orchestrator.LeaseTimeout = consts.DefaultLeaseTimeout
	}
	if c.Orchestrator.SweepSchedule == "" {
		c.Orchestrator.SweepSchedule = consts.DefaultSweepSchedule
	}
	if c.Orchestrator.RetryLimit <= 0 {
		c.Orchestrator.RetryLimit = 3
	}
	if c.Orchestrator.WorkerAliveWindow <= 0 {
		c.Orchestrator.WorkerAliveWindow = consts.DefaultWorkerAliveWindow
	}
	if c.Orchestrator.MetricsInterval <= 0 {
		c.Orchestrator.MetricsInterval = 15 * time.Second
	}
	if c.Log.Output == "" {
		c.Log = *log.SetDefaults()
	}
}
