package social

import (
	"context"
	"errors"
	"log/slog"
)

var ErrNotConfigured = errors.New("credentials missing")

type Platform interface {
	Name() string
	Configured() bool
	Publish(ctx context.Context, text string) (string, error)
}

// Broadcaster posts the same text to every platform. A platform that is not
// configured or fails is reported as a nil post id; it never stops the others.
type Broadcaster struct {
	platforms []Platform
}

func NewBroadcaster(platforms ...Platform) *Broadcaster {
	return &Broadcaster{platforms: platforms}
}

func (b *Broadcaster) Publish(ctx context.Context, text string) map[string]*string {
	ids := make(map[string]*string, len(b.platforms))
	for _, p := range b.platforms {
		ids[p.Name()] = PublishTo(ctx, p, text)
	}
	return ids
}

// PublishTo returns the external post id, or nil when the platform is disabled
// or the publish failed.
func PublishTo(ctx context.Context, p Platform, text string) *string {
	if !p.Configured() {
		slog.Warn("social platform credentials missing, skipping post", "platform", p.Name())
		return nil
	}

	id, err := p.Publish(ctx, text)
	if err != nil {
		slog.Error("social post failed", "platform", p.Name(), "error", err)
		return nil
	}

	slog.Info("posted to social platform", "platform", p.Name(), "post_id", id)
	return &id
}
