package news

import (
	"context"
	"time"
)

type Item struct {
	Title       string
	URL         string
	Snippet     string
	PublishedAt time.Time
	Source      string
}

type Source interface {
	Fetch(ctx context.Context, limit int) ([]Item, error)
	Name() string
}
