package llm

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

const (
	DefaultGeminiChatModel  = "gemini-flash-latest"
	DefaultGeminiEmbedModel = "gemini-embedding-001"
	DefaultEmbedDimension   = 768
)

type GeminiClient struct {
	client    *genai.Client
	chatModel string
}

func NewGeminiClient(ctx context.Context, apiKey, chatModel string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is not set")
	}
	if chatModel == "" {
		chatModel = DefaultGeminiChatModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize genai client: %w", err)
	}

	return &GeminiClient{client: client, chatModel: chatModel}, nil
}

func (c *GeminiClient) Model() string {
	return c.chatModel
}

func (c *GeminiClient) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(req.Temperature),
		MaxOutputTokens: int32(maxTokens(req)),
	}
	if req.System != "" {
		config.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}
	if req.JSON {
		// Structured calls are small verdicts or answers; thinking tokens
		// would eat the output budget before any JSON is written.
		config.ResponseMIMEType = "application/json"
		config.ThinkingConfig = &genai.ThinkingConfig{ThinkingBudget: genai.Ptr[int32](0)}
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.chatModel, genai.Text(req.Prompt), config)
	if err != nil {
		return "", fmt.Errorf("gemini API error: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("no response from gemini")
	}
	return text, nil
}

// GeminiEmbedder produces fixed-dimension vectors. Calls are throttled so a
// large ingest batch stays inside the free-tier request rate.
type GeminiEmbedder struct {
	client    *genai.Client
	model     string
	dimension int
	limiter   *rate.Limiter
}

func NewGeminiEmbedder(c *GeminiClient, model string, dimension int, rps float64) *GeminiEmbedder {
	if model == "" {
		model = DefaultGeminiEmbedModel
	}
	if dimension <= 0 {
		dimension = DefaultEmbedDimension
	}
	limit := rate.Inf
	if rps > 0 {
		limit = rate.Limit(rps)
	}
	return &GeminiEmbedder{
		client:    c.client,
		model:     model,
		dimension: dimension,
		limiter:   rate.NewLimiter(limit, 1),
	}
}

// Model is the version tag stored next to every embedding: model name plus
// output dimension.
func (e *GeminiEmbedder) Model() string {
	return fmt.Sprintf("%s@%d", e.model, e.dimension)
}

func (e *GeminiEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	outputDim := int32(e.dimension)
	result, err := e.client.Models.EmbedContent(ctx, e.model,
		[]*genai.Content{genai.NewContentFromText(text, genai.RoleUser)},
		&genai.EmbedContentConfig{OutputDimensionality: &outputDim},
	)
	if err != nil {
		return nil, fmt.Errorf("embedding generation failed: %w", err)
	}

	if result == nil || len(result.Embeddings) == 0 || result.Embeddings[0] == nil {
		return nil, fmt.Errorf("no embedding returned from API")
	}

	embedding := result.Embeddings[0].Values
	if len(embedding) != e.dimension {
		return nil, fmt.Errorf("embedding dimension mismatch: expected %d, got %d", e.dimension, len(embedding))
	}
	return embedding, nil
}
