package model

const (
	JobDailyPost   = "daily-post"
	JobRecordPrice = "record-price"
	JobIngestNews  = "ingest-news"
)

type JobResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

type JobOutcome struct {
	Job     string `json:"job"`
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}
