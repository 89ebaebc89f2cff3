package model

/**
 * @author: gagral.x@gmail.com
 * @time: 2025/01/18
 * @file: model_record.go
 * @description: derived conversation records
 */

// Transcript 语音转写记录
type Transcript struct {
	BaseModel
	TranscriptId string `gorm:"column:transcript_id;uniqueIndex" json:"transcriptId"`
	TrackingId   string `gorm:"column:tracking_id;index" json:"trackingId"`
	Text         string `gorm:"column:text;type:text" json:"text"`
	Language     string `gorm:"column:language" json:"language"`
	SourceTaskId string `gorm:"column:source_task_id" json:"sourceTaskId"`
	Owner        string `gorm:"column:owner" json:"owner"`
}

func (Transcript) TableName() string {
	return "t_transcript"
}

// ResponseEntry 会话上下文日志，按 tracking_id 归属一次会话
type ResponseEntry struct {
	BaseModel
	EntryId      string `gorm:"column:entry_id;uniqueIndex" json:"entryId"`
	TrackingId   string `gorm:"column:tracking_id;index" json:"trackingId"`
	Role         string `gorm:"column:role" json:"role"` // user/assistant
	Text         string `gorm:"column:text;type:text" json:"text"`
	TranscriptId string `gorm:"column:transcript_id" json:"transcriptId"`
	SourceTaskId string `gorm:"column:source_task_id" json:"sourceTaskId"`
}

func (ResponseEntry) TableName() string {
	return "t_response_entry"
}

// EmotionRecord 情绪识别记录
type EmotionRecord struct {
	BaseModel
	EmotionId    string  `gorm:"column:emotion_id;uniqueIndex" json:"emotionId"`
	TrackingId   string  `gorm:"column:tracking_id;index" json:"trackingId"`
	Label        string  `gorm:"column:label" json:"label"`
	Score        float64 `gorm:"column:score" json:"score"`
	SourceTaskId string  `gorm:"column:source_task_id" json:"sourceTaskId"`
}

func (EmotionRecord) TableName() string {
	return "t_emotion_record"
}
