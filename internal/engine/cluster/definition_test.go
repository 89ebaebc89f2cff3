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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStepTypes() map[string]string {
	return map[string]string{
		"a": "type_a",
		"b": "type_b",
		"c": "type_c",
	}
}

func TestNextStepWalksChainInOrder(t *testing.T) {
	reg, err := NewRegistry([]Cluster{{
		Name: "demo",
		Steps: []Step{
			{Name: "c", Order: 30, Component: ComponentTask},
			{Name: "a", Order: 10, Component: ComponentTask},
			{Name: "b", Order: 20, Component: ComponentSignal},
		},
	}}, testStepTypes())
	require.NoError(t, err)

	c, ok := reg.Get("demo")
	require.True(t, ok)

	var walked []string
	current := InitStep
	for {
		next, ok := c.NextStep(current)
		require.True(t, ok)
		if next == nil {
			break
		}
		walked = append(walked, next.Name)
		current = next.Name
	}
	assert.Equal(t, []string{"a", "b", "c"}, walked)
}

func TestNextStepTerminal(t *testing.T) {
	reg, err := NewRegistry([]Cluster{{
		Name:  "demo",
		Steps: []Step{{Name: "a", Order: 10, Component: ComponentTask}},
	}}, testStepTypes())
	require.NoError(t, err)

	c, _ := reg.Get("demo")
	next, ok := c.NextStep("a")
	assert.True(t, ok)
	assert.Nil(t, next)

	_, ok = c.NextStep("never_defined")
	assert.False(t, ok)
}

func TestRequiredTaskCountSkipsSignals(t *testing.T) {
	reg, err := NewRegistry([]Cluster{{
		Name: "demo",
		Steps: []Step{
			{Name: "a", Order: 10, Component: ComponentTask},
			{Name: "b", Order: 20, Component: ComponentSignal},
			{Name: "c", Order: 30, Component: ComponentTask},
		},
	}}, testStepTypes())
	require.NoError(t, err)

	c, _ := reg.Get("demo")
	assert.Equal(t, 2, c.RequiredTaskCount())
}

func TestRegistryRejectsDashInClusterName(t *testing.T) {
	_, err := NewRegistry([]Cluster{{
		Name:  "bad-name",
		Steps: []Step{{Name: "a", Order: 10, Component: ComponentTask}},
	}}, testStepTypes())
	assert.Error(t, err)
}

func TestRegistryRejectsUnresolvedStepType(t *testing.T) {
	_, err := NewRegistry([]Cluster{{
		Name:  "demo",
		Steps: []Step{{Name: "mystery", Order: 10, Component: ComponentTask}},
	}}, testStepTypes())
	assert.Error(t, err)
}

func TestRegistryRejectsDuplicateStep(t *testing.T) {
	_, err := NewRegistry([]Cluster{{
		Name: "demo",
		Steps: []Step{
			{Name: "a", Order: 10, Component: ComponentTask},
			{Name: "a", Order: 20, Component: ComponentTask},
		},
	}}, testStepTypes())
	assert.Error(t, err)
}

func TestStepTypeOverrideWinsOverTable(t *testing.T) {
	reg, err := NewRegistry([]Cluster{{
		Name: "demo",
		Steps: []Step{
			{Name: "a", Order: 10, Component: ComponentTask, StepType: "custom"},
		},
	}}, testStepTypes())
	require.NoError(t, err)

	c, _ := reg.Get("demo")
	assert.Equal(t, "custom", reg.StepTypeOf(c.Steps[0]))
}

func TestClusterForHead(t *testing.T) {
	reg, err := NewRegistry([]Cluster{{
		Name: "demo",
		Steps: []Step{
			{Name: "a", Order: 10, Component: ComponentTask},
			{Name: "b", Order: 20, Component: ComponentSignal},
		},
	}}, testStepTypes())
	require.NoError(t, err)

	c, ok := reg.ClusterForHead("a")
	require.True(t, ok)
	assert.Equal(t, "demo", c.Name)

	_, ok = reg.ClusterForHead("b")
	assert.False(t, ok)
}

func TestDefaultRegistryIsValid(t *testing.T) {
	reg := DefaultRegistry()
	assert.ElementsMatch(t, []string{"chat", "empathic_chat", "cloud_chat"}, reg.Names())

	chat, ok := reg.Get("chat")
	require.True(t, ok)
	assert.Equal(t, 3, chat.RequiredTaskCount())
}
