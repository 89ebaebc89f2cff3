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

package http

type Code struct {
	Code int
	Msg  string
}

func failed(code int, msg string) Code {
	return Code{Code: code, Msg: msg}
}

func success(code int, msg string) Code {
	return Code{Code: code, Msg: msg}
}

var (
	Failed                        = failed(500, "Request failed")
	RequestParameterParsingFailed = failed(5001, "Request parameter parsing failed")
	InternalError                 = failed(5000, "Internal error, please contact the administrator")

	// BadRequest 400
	BadRequest = failed(4000, "Bad request")
	NotFound   = failed(4004, "Not found")

	TaskNotExist       = failed(4101, "Task does not exist")
	NoPendingTask      = failed(4102, "No pending task for step type")
	InvalidResultState = failed(4103, "Invalid result status transition")
	UnknownStep        = failed(4104, "Step is not the head of any cluster")
	UnknownCluster     = failed(4105, "Unknown cluster name")
)

var (
	Success = success(200, "Request Success")
)
