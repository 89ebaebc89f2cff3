package model

import (
	"time"

	"github.com/voxflow/voxflow/pkg/datatype"
	"github.com/voxflow/voxflow/pkg/statemachine"
)

/**
 * @author: gagral.x@gmail.com
 * @time: 2025/01/18
 * @file: model_task.go
 * @description: task model
 */

// Task 任务表
type Task struct {
	BaseModel
	TaskId         string        `gorm:"column:task_id;uniqueIndex" json:"taskId"`
	Name           string        `gorm:"column:name" json:"name"`
	StepType       string        `gorm:"column:step_type;index" json:"stepType"`
	Parameters     datatype.JSON `gorm:"column:parameters;type:json" json:"parameters"`
	ResultStatus   string        `gorm:"column:result_status;index" json:"resultStatus"` // pending/started/completed/failed/cancelled
	ResultProfile  datatype.JSON `gorm:"column:result_profile;type:json" json:"resultProfile"`
	LatencyProfile datatype.JSON `gorm:"column:latency_profile;type:json" json:"latencyProfile"`
	Description    string        `gorm:"column:description;type:text" json:"description"` // 失败时携带错误信息
	TrackingId     string        `gorm:"column:tracking_id;index" json:"trackingId"`
	ClusterName    string        `gorm:"column:cluster_name;index" json:"clusterName"`
	Owner          string        `gorm:"column:owner" json:"owner"`
	StartedAt      *time.Time    `gorm:"column:started_at" json:"startedAt"`
	CompletedAt    *time.Time    `gorm:"column:completed_at" json:"completedAt"`
	CompletedIn    float64       `gorm:"column:completed_in" json:"completedIn"` // 秒
	RetryCount     int           `gorm:"column:retry_count" json:"retryCount"`
}

func (Task) TableName() string {
	return "t_task"
}

// Status returns the typed result status.
func (t *Task) Status() statemachine.ResultStatus {
	return statemachine.ResultStatus(t.ResultStatus)
}

// Params decodes the parameters payload, never returning nil.
func (t *Task) Params() map[string]any {
	m, err := t.Parameters.Map()
	if err != nil || m == nil {
		return map[string]any{}
	}
	return m
}

// Profile decodes the result profile payload, never returning nil.
func (t *Task) Profile() map[string]any {
	m, err := t.ResultProfile.Map()
	if err != nil || m == nil {
		return map[string]any{}
	}
	return m
}

// Latency decodes the latency profile payload, never returning nil.
func (t *Task) Latency() map[string]any {
	m, err := t.LatencyProfile.Map()
	if err != nil || m == nil {
		return map[string]any{}
	}
	return m
}

// CreateTaskReq enqueue a standalone one-off task
type CreateTaskReq struct {
	Name       string         `json:"name"`
	StepType   string         `json:"stepType"`
	Parameters map[string]any `json:"parameters"`
	Owner      string         `json:"owner"`
}

// RunPipelineReq enqueue the first step of a cluster. Cluster is
// optional, without it the run is routed by head step name.
type RunPipelineReq struct {
	Cluster    string         `json:"cluster"`
	Step       string         `json:"step"`
	Parameters map[string]any `json:"parameters"`
	Owner      string         `json:"owner"`
}

// ReportResultReq worker result report
type ReportResultReq struct {
	ResultStatus       string         `json:"resultStatus"`
	Description        string         `json:"description"`
	ResultProfile      map[string]any `json:"resultProfile"`
	LatencyProfile     map[string]any `json:"latencyProfile"`
	CompletedInSeconds float64        `json:"completedInSeconds"`
}
