package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/steamdex/catalog/internal/embed"
	"github.com/steamdex/catalog/internal/models"
)

// SearchRepository provides the store operations the search service needs.
type SearchRepository interface {
	SearchByName(ctx context.Context, query string, limit int) ([]models.GameRecord, error)
	NearestByEmbedding(ctx context.Context, queryEmbedding []float32, limit int) ([]models.GameWithScore, error)
}

// SearchService performs substring and embedding-based search over the catalog.
type SearchService struct {
	repo            SearchRepository
	embeddingClient embed.Client
	queryCache      *lru.Cache[string, []float32]
	queryLoadGroup  singleflight.Group
	logger          *slog.Logger
}

// SearchServiceParams configures SearchService. QueryCache may be nil (no caching).
type SearchServiceParams struct {
	Repo            SearchRepository
	EmbeddingClient embed.Client
	QueryCache      *lru.Cache[string, []float32]
	Logger          *slog.Logger
}

// NewSearchService creates a SearchService.
func NewSearchService(p SearchServiceParams) *SearchService {
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &SearchService{
		repo:            p.Repo,
		embeddingClient: p.EmbeddingClient,
		queryCache:      p.QueryCache,
		logger:          logger,
	}
}

// SearchByName returns up to SearchLimit games whose name contains query,
// case-insensitively. An empty query matches everything the cap allows; the
// caller decides whether to special-case it.
func (s *SearchService) SearchByName(ctx context.Context, query string) ([]models.GameRecord, error) {
	results, err := s.repo.SearchByName(ctx, query, SearchLimit)
	if err != nil {
		return nil, fmt.Errorf("search games: %w", err)
	}

	return results, nil
}

// VectorSearch embeds the query through the embedding service and returns the
// top SearchLimit games by similarity, each with its score. A failure to
// obtain the embedding is a hard failure of the whole search.
func (s *SearchService) VectorSearch(ctx context.Context, query string) ([]models.GameWithScore, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, embed.ErrEmptyInput
	}

	var (
		embedding []float32
		err       error
	)

	if s.queryCache != nil {
		embedding, err = s.getQueryEmbeddingCached(ctx, query)
	} else {
		embedding, err = s.embeddingClient.CreateEmbedding(ctx, query)
	}

	if err != nil {
		s.logger.Error("vector search: create embedding failed", "error", err)

		return nil, fmt.Errorf("create embedding: %w", err)
	}

	results, err := s.repo.NearestByEmbedding(ctx, embedding, SearchLimit)
	if err != nil {
		s.logger.Error("vector search: nearest failed", "error", err)

		return nil, err
	}

	return results, nil
}

func (s *SearchService) getQueryEmbeddingCached(ctx context.Context, query string) ([]float32, error) {
	if vec, ok := s.queryCache.Get(query); ok {
		return vec, nil
	}

	val, err, _ := s.queryLoadGroup.Do(query, func() (any, error) {
		vec, loadErr := s.embeddingClient.CreateEmbedding(ctx, query)
		if loadErr != nil {
			return nil, fmt.Errorf("create embedding: %w", loadErr)
		}

		s.queryCache.Add(query, vec)

		return vec, nil
	})
	if err != nil {
		return nil, fmt.Errorf("query embedding: %w", err)
	}

	return val.([]float32), nil
}
