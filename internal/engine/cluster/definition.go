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

package cluster

import (
	"fmt"
	"sort"
	"strings"
)

// ComponentType classifies a chain step. Task steps enqueue work for
// remote workers, signal steps complete in-process via the event bus.
type ComponentType string

const (
	ComponentTask   ComponentType = "task"
	ComponentSignal ComponentType = "signal"
)

// InitStep is the pseudo step name that bootstraps a chain: advancing
// from it yields the first real step of the cluster.
const InitStep = "init"

// Step is one link of a cluster chain.
type Step struct {
	Name      string
	Order     int
	Component ComponentType
	// StepType routes task steps to worker queues. Optional, the
	// registry falls back to the shared step name table.
	StepType string
	// ExtraParams are merged into runtime parameters when the step is
	// materialized. They win on key collision.
	ExtraParams map[string]any
}

// Cluster is an ordered chain of steps. Steps are kept sorted by Order.
type Cluster struct {
	Name  string
	Steps []Step
}

// NextStep returns the step following the named one, or nil when the
// chain is at its terminal step. Advancing from InitStep returns the
// first step. The second return is false when the name is unknown.
func (c *Cluster) NextStep(current string) (*Step, bool) {
	if current == InitStep {
		if len(c.Steps) == 0 {
			return nil, true
		}
		step := c.Steps[0]
		return &step, true
	}
	for i := range c.Steps {
		if c.Steps[i].Name != current {
			continue
		}
		if i+1 >= len(c.Steps) {
			return nil, true
		}
		step := c.Steps[i+1]
		return &step, true
	}
	return nil, false
}

// FirstStep returns the head of the chain, or nil for an empty cluster.
func (c *Cluster) FirstStep() *Step {
	if len(c.Steps) == 0 {
		return nil
	}
	step := c.Steps[0]
	return &step
}

// RequiredTaskCount is the number of task-component steps. A chain run
// is complete once this many of its tasks have completed.
func (c *Cluster) RequiredTaskCount() int {
	n := 0
	for _, s := range c.Steps {
		if s.Component == ComponentTask {
			n++
		}
	}
	return n
}

// Registry is an immutable set of cluster definitions, validated once
// at construction and shared read-only afterwards.
type Registry struct {
	clusters map[string]*Cluster
	// stepTypes maps shared step names to worker queue step types.
	stepTypes map[string]string
}

// NewRegistry validates and indexes the given clusters. Cluster names
// must not contain '-' so tracking ids stay parseable, step names must
// be unique within a cluster, and every task step must resolve to a
// step type either directly or through the shared table.
func NewRegistry(clusters []Cluster, stepTypes map[string]string) (*Registry, error) {
	reg := &Registry{
		clusters:  make(map[string]*Cluster, len(clusters)),
		stepTypes: make(map[string]string, len(stepTypes)),
	}
	for name, st := range stepTypes {
		reg.stepTypes[name] = st
	}

	for i := range clusters {
		c := clusters[i]
		if c.Name == "" {
			return nil, fmt.Errorf("cluster with empty name")
		}
		if strings.Contains(c.Name, "-") {
			return nil, fmt.Errorf("cluster %q: name must not contain '-'", c.Name)
		}
		if _, dup := reg.clusters[c.Name]; dup {
			return nil, fmt.Errorf("duplicate cluster %q", c.Name)
		}

		sort.SliceStable(c.Steps, func(i, j int) bool {
			return c.Steps[i].Order < c.Steps[j].Order
		})

		seen := make(map[string]struct{}, len(c.Steps))
		for _, s := range c.Steps {
			if s.Name == "" || s.Name == InitStep {
				return nil, fmt.Errorf("cluster %q: invalid step name %q", c.Name, s.Name)
			}
			if _, dup := seen[s.Name]; dup {
				return nil, fmt.Errorf("cluster %q: duplicate step %q", c.Name, s.Name)
			}
			seen[s.Name] = struct{}{}

			switch s.Component {
			case ComponentTask:
				if reg.stepTypeFor(s) == "" {
					return nil, fmt.Errorf("cluster %q: step %q has no step type", c.Name, s.Name)
				}
			case ComponentSignal:
			default:
				return nil, fmt.Errorf("cluster %q: step %q has unknown component %q", c.Name, s.Name, s.Component)
			}
		}
		reg.clusters[c.Name] = &c
	}
	return reg, nil
}

// Get returns the cluster by name.
func (r *Registry) Get(name string) (*Cluster, bool) {
	c, ok := r.clusters[name]
	return c, ok
}

// ClusterForHead finds the cluster whose first step carries the given
// name. Used to start a chain run from a step name alone. When several
// clusters share a head step the first by name wins, callers that need
// a specific one should mint the tracking id from the cluster name.
func (r *Registry) ClusterForHead(step string) (*Cluster, bool) {
	for _, name := range r.Names() {
		c := r.clusters[name]
		if first := c.FirstStep(); first != nil && first.Name == step {
			return c, true
		}
	}
	return nil, false
}

// Names returns the registered cluster names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.clusters))
	for name := range r.clusters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// StepTypeOf resolves the worker queue step type of a task step.
func (r *Registry) StepTypeOf(step Step) string {
	return r.stepTypeFor(step)
}

func (r *Registry) stepTypeFor(step Step) string {
	if step.StepType != "" {
		return step.StepType
	}
	return r.stepTypes[step.Name]
}
