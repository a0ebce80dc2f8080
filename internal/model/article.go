package model

import "time"

const MaxSummaryChars = 500

type NewsArticle struct {
	ID             int64
	Title          string
	URL            string
	Source         string
	PublishedAt    time.Time
	Summary        string
	Embedding      []float32
	EmbeddingModel string
	CreatedAt      time.Time
}

type RetrievedArticle struct {
	Title      string
	URL        string
	Summary    string
	Similarity float64
}

type IngestionResult struct {
	TotalProcessed int      `json:"totalProcessed"`
	Saved          int      `json:"saved"`
	Skipped        int      `json:"skipped"`
	Errors         int      `json:"errors"`
	Details        []string `json:"details"`
}
