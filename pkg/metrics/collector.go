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

package metrics

import (
	"time"

	"github.com/voxflow/voxflow/pkg/log"
)

// PendingCounter reports the current pending queue depth per step type.
type PendingCounter interface {
	CountPendingByStepType() (map[string]int64, error)
}

// QueueDepthCollector periodically refreshes the pending task gauges.
type QueueDepthCollector struct {
	source PendingCounter
	stopCh chan struct{}
	doneCh chan struct{}
}

// NewQueueDepthCollector creates a new queue depth collector.
func NewQueueDepthCollector(source PendingCounter) *QueueDepthCollector {
	return &QueueDepthCollector{
		source: source,
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
}

// Start starts collecting metrics periodically
func (c *QueueDepthCollector) Start(interval time.Duration) {
	go c.collectLoop(interval)
}

// Stop stops collecting metrics
func (c *QueueDepthCollector) Stop() {
	close(c.stopCh)
	<-c.doneCh
}

func (c *QueueDepthCollector) collectLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	defer close(c.doneCh)

	// Collect immediately
	c.collect()

	for {
		select {
		case <-ticker.C:
			c.collect()
		case <-c.stopCh:
			return
		}
	}
}

func (c *QueueDepthCollector) collect() {
	counts, err := c.source.CountPendingByStepType()
	if err != nil {
		log.Warnw("failed to collect pending queue depth", "error", err)
		return
	}
	for stepType, n := range counts {
		PendingTasks.WithLabelValues(stepType).Set(float64(n))
	}
}
