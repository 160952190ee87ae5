// Package embed provides clients for generating text embeddings.
package embed

import "context"

// Client generates embedding vectors for text.
// Implemented by provider-specific clients (local HTTP service, OpenAI).
type Client interface {
	CreateEmbedding(ctx context.Context, input string) ([]float32, error)
}
