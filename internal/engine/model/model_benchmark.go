package model

/**
 * @author: gagral.x@gmail.com
 * @time: 2025/01/18
 * @file: model_benchmark.go
 * @description: benchmark read path report
 */

// BenchmarkReport 按 tracking_id 聚合的只读统计
type BenchmarkReport struct {
	Cluster            string             `json:"cluster"`
	TotalRuns          int                `json:"totalRuns"`
	CompletedRuns      int                `json:"completedRuns"`
	CompletionRatio    float64            `json:"completionRatio"`
	AvgModelLatency    float64            `json:"avgModelLatency"`
	AvgTransferLatency float64            `json:"avgTransferLatency"`
	AvgOverallLatency  float64            `json:"avgOverallLatency"`
	StepLatency        map[string]float64 `json:"stepLatency"`
}
