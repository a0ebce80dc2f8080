package llm

import (
	"context"
	"time"
)

type CompletionRequest struct {
	System      string
	Prompt      string
	JSON        bool
	MaxTokens   int
	Temperature float32
}

type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
	Model() string
}

// Embedder vectors are only comparable with vectors from the same Model tag.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Model() string
}

const (
	defaultMaxTokens = 1024
	callTimeout      = 30 * time.Second
)

func maxTokens(req CompletionRequest) int {
	if req.MaxTokens <= 0 {
		return defaultMaxTokens
	}
	return req.MaxTokens
}
