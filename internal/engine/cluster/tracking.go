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
	"strings"

	"github.com/voxflow/voxflow/pkg/id"
)

const trackingPrefix = "T"

// NewTrackingID mints a correlation id of the form T-{cluster}-{suffix}.
// The suffix alphabet may itself contain '-', which is why parsing
// splits at most twice and cluster names reject the character.
func NewTrackingID(clusterName string) string {
	return fmt.Sprintf("%s-%s-%s", trackingPrefix, clusterName, id.ShortId())
}

// ParseTrackingID extracts the cluster name from a tracking id.
func ParseTrackingID(trackingId string) (clusterName string, err error) {
	parts := strings.SplitN(trackingId, "-", 3)
	if len(parts) != 3 || parts[0] != trackingPrefix || parts[1] == "" || parts[2] == "" {
		return "", fmt.Errorf("malformed tracking id %q", trackingId)
	}
	return parts[1], nil
}
