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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrackingIDRoundTrip(t *testing.T) {
	id := NewTrackingID("empathic_chat")
	assert.True(t, strings.HasPrefix(id, "T-empathic_chat-"))

	name, err := ParseTrackingID(id)
	require.NoError(t, err)
	assert.Equal(t, "empathic_chat", name)
}

func TestParseTrackingIDSuffixMayContainDash(t *testing.T) {
	name, err := ParseTrackingID("T-chat-ab-cd-ef")
	require.NoError(t, err)
	assert.Equal(t, "chat", name)
}

func TestParseTrackingIDRejectsGarbage(t *testing.T) {
	for _, bad := range []string{"garbage", "", "T-", "T-chat-", "X-chat-abc", "T--abc"} {
		_, err := ParseTrackingID(bad)
		assert.Error(t, err, "input %q", bad)
	}
}
