package embed

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// RateLimited wraps a Client so embedding calls respect a provider request
// budget. A nil limiter passes calls straight through.
type RateLimited struct {
	inner   Client
	limiter *rate.Limiter
}

// NewRateLimited wraps inner with the given limiter.
func NewRateLimited(inner Client, limiter *rate.Limiter) *RateLimited {
	return &RateLimited{inner: inner, limiter: limiter}
}

var _ Client = (*RateLimited)(nil)

// CreateEmbedding waits for a rate token, then delegates to the wrapped client.
func (c *RateLimited) CreateEmbedding(ctx context.Context, input string) ([]float32, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("embedding rate limit: %w", err)
		}
	}

	return c.inner.CreateEmbedding(ctx, input)
}
