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

package statemachine

type ResultStatus string

const (
	ResultPending   ResultStatus = "pending"
	ResultStarted   ResultStatus = "started"
	ResultCompleted ResultStatus = "completed"
	ResultFailed    ResultStatus = "failed"
	ResultCancelled ResultStatus = "cancelled"
)

// IsTerminal 判断是否为终止状态
func (rs ResultStatus) IsTerminal() bool {
	return rs == ResultCompleted || rs == ResultFailed || rs == ResultCancelled
}

// IsValid reports whether the value is a known status.
func (rs ResultStatus) IsValid() bool {
	switch rs {
	case ResultPending, ResultStarted, ResultCompleted, ResultFailed, ResultCancelled:
		return true
	}
	return false
}

// NewResultStateMachine 创建任务结果状态机
//
// pending → started → {completed, failed, cancelled}. The two transitions
// back to pending exist for the lease-timeout sweep and external retry only.
func NewResultStateMachine() *StateMachine[ResultStatus] {
	sm := New[ResultStatus]()

	sm.Allow(ResultPending, ResultStarted, ResultCancelled).
		Allow(ResultStarted, ResultCompleted, ResultFailed, ResultCancelled, ResultPending).
		Allow(ResultFailed, ResultPending)

	return sm
}
