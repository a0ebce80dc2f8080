package rag

import (
	"context"
	"log/slog"
	"sort"

	"github.com/YasirGaji/thegoldmetrics/internal/model"
	"github.com/YasirGaji/thegoldmetrics/pkg/llm"
)

const (
	DefaultMatchCount     = 3
	DefaultMatchThreshold = 0.5
)

type ArticleSearcher interface {
	MatchArticles(ctx context.Context, embedding []float32, threshold float64, count int, embeddingModel string) ([]model.RetrievedArticle, error)
}

// Retriever must share its Embedder with the ingestor, otherwise query and
// stored vectors live in different spaces.
type Retriever struct {
	embedder llm.Embedder
	searcher ArticleSearcher
}

func NewRetriever(embedder llm.Embedder, searcher ArticleSearcher) *Retriever {
	return &Retriever{embedder: embedder, searcher: searcher}
}

func (r *Retriever) Retrieve(ctx context.Context, query string, k int, threshold float64) []model.RetrievedArticle {
	if k <= 0 || query == "" {
		return []model.RetrievedArticle{}
	}

	embedding, err := r.embedder.Embed(ctx, query)
	if err != nil {
		slog.Error("query embedding failed", "error", err)
		return []model.RetrievedArticle{}
	}

	matches, err := r.searcher.MatchArticles(ctx, embedding, threshold, k, r.embedder.Model())
	if err != nil {
		slog.Error("news search failed", "error", err)
		return []model.RetrievedArticle{}
	}

	out := make([]model.RetrievedArticle, 0, len(matches))
	for _, m := range matches {
		if m.Similarity >= threshold {
			out = append(out, m)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Similarity > out[j].Similarity
	})

	if len(out) > k {
		out = out[:k]
	}

	slog.Info("news retrieved", "count", len(out))
	return out
}
