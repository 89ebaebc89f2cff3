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
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/voxflow/voxflow/internal/worker"
	"github.com/voxflow/voxflow/internal/worker/config"
	"github.com/voxflow/voxflow/pkg/log"
	"github.com/voxflow/voxflow/pkg/version"
)

var confFile string

var rootCmd = &cobra.Command{
	Use:   "voxflow-worker",
	Short: "Voxflow step worker",
	Long:  "Polls the voxflow engine for tasks of one step type and executes them through the registered runner.",
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the worker poll loop",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(confFile)
		if err != nil {
			return err
		}
		if _, err := log.NewLog(&cfg.Log); err != nil {
			return err
		}

		// real deployments replace this at build time with runners for
		// their step type
		worker.Register(cfg.StepType, worker.EchoRunner{})

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return worker.NewHarness(cfg).Run(ctx)
	},
}

func main() {
	serveCmd.Flags().StringVarP(&confFile, "conf", "c", "conf.d/worker.toml", "config file path")
	rootCmd.AddCommand(serveCmd, version.VersionCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
