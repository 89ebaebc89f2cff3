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

package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
	"github.com/voxflow/voxflow/pkg/log"
)

// Config worker harness settings
type Config struct {
	// Endpoint engine API base url, e.g. http://127.0.0.1:8180
	Endpoint string
	// StepType queue this worker services
	StepType string `mapstructure:"stepType"`
	// PollInterval queue poll period
	PollInterval time.Duration `mapstructure:"pollInterval"`
	// HeartbeatInterval registration refresh period
	HeartbeatInterval time.Duration `mapstructure:"heartbeatInterval"`
	Log               log.Conf
}

// Load reads the worker TOML config file.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = "http://127.0.0.1:8180"
	}
	if cfg.StepType == "" {
		return nil, fmt.Errorf("stepType is required")
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = time.Second
	}
	if cfg.HeartbeatInterval <= 0 {
		cfg.HeartbeatInterval = 30 * time.Second
	}
	if cfg.Log.Output == "" {
		cfg.Log = *log.SetDefaults()
	}
	return &cfg, nil
}
