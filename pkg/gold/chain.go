package gold

import (
	"context"
	"errors"
	"log/slog"
)

// Chain tries each provider in order and returns the first report.
type Chain struct {
	providers []Provider
}

func NewChain(providers ...Provider) *Chain {
	return &Chain{providers: providers}
}

func (c *Chain) Name() string {
	return "chain"
}

func (c *Chain) Len() int {
	return len(c.providers)
}

func (c *Chain) FetchReport(ctx context.Context) (*Report, error) {
	if len(c.providers) == 0 {
		return nil, ErrNoProviders
	}

	var errs []error
	for _, p := range c.providers {
		report, err := p.FetchReport(ctx)
		if err == nil {
			return report, nil
		}
		slog.Warn("price provider failed", "provider", p.Name(), "error", err)
		errs = append(errs, err)

		if ctx.Err() != nil {
			break
		}
	}
	return nil, errors.Join(errs...)
}
