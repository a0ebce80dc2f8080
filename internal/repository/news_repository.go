package repository

import (
	"context"
	"database/sql"

	"github.com/YasirGaji/thegoldmetrics/internal/model"
	"github.com/lib/pq"
)

type NewsRepository struct {
	db *sql.DB
}

func NewNewsRepository(db *sql.DB) *NewsRepository {
	return &NewsRepository{db: db}
}

func (r *NewsRepository) ExistsByURL(ctx context.Context, url string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM news_articles WHERE url = $1)
	`, url).Scan(&exists)
	return exists, err
}

// SaveArticle inserts the article unless its URL is already stored. It reports
// false when the URL was taken.
func (r *NewsRepository) SaveArticle(ctx context.Context, a *model.NewsArticle) (bool, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO news_articles(title, url, source, published_at, summary, embedding, embedding_model)
		VALUES($1, $2, $3, $4, $5, $6::real[]::vector, $7)
		ON CONFLICT (url) DO NOTHING
		RETURNING id
	`, a.Title, a.URL, a.Source, a.PublishedAt.UTC(), a.Summary, pq.Array(a.Embedding), a.EmbeddingModel).Scan(&id)

	if err == sql.ErrNoRows {
		return false, nil
	}

	if err != nil {
		return false, err
	}

	a.ID = id
	return true, nil
}

// MatchArticles runs the store-side cosine similarity search restricted to
// embeddings produced by model.
func (r *NewsRepository) MatchArticles(ctx context.Context, embedding []float32, threshold float64, count int, embeddingModel string) ([]model.RetrievedArticle, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT title, url, summary, similarity
		FROM match_news_articles($1::real[]::vector, $2, $3, $4)
	`, pq.Array(embedding), threshold, count, embeddingModel)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var articles []model.RetrievedArticle
	for rows.Next() {
		var a model.RetrievedArticle
		if err := rows.Scan(&a.Title, &a.URL, &a.Summary, &a.Similarity); err != nil {
			return nil, err
		}
		articles = append(articles, a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return articles, nil
}
