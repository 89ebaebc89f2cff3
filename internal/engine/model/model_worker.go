package model

import "time"

/**
 * @author: gagral.x@gmail.com
 * @time: 2025/01/18
 * @file: model_worker.go
 * @description: worker registration model
 */

// Worker 工作节点注册表
type Worker struct {
	BaseModel
	WorkerId   string    `gorm:"column:worker_id;uniqueIndex" json:"workerId"`
	StepType   string    `gorm:"column:step_type;index" json:"stepType"`
	Hostname   string    `gorm:"column:hostname" json:"hostname"`
	IP         string    `gorm:"column:ip" json:"ip"`
	MacAddress string    `gorm:"column:mac_address" json:"macAddress"`
	LastSeen   time.Time `gorm:"column:last_seen" json:"lastSeen"`
}

func (Worker) TableName() string {
	return "t_worker"
}

// HeartbeatReq worker heartbeat upsert
type HeartbeatReq struct {
	WorkerId   string `json:"workerId"`
	StepType   string `json:"stepType"`
	Hostname   string `json:"hostname"`
	IP         string `json:"ip"`
	MacAddress string `json:"macAddress"`
}

// WorkerDetail worker with liveness inferred from last_seen
type WorkerDetail struct {
	Worker
	Alive bool `json:"alive"`
}
