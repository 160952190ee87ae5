package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/steamdex/catalog/internal/embed"
	"github.com/steamdex/catalog/internal/models"
)

// DefaultBackfillBatchSize is how many games one backfill pass loads at a time.
const DefaultBackfillBatchSize = 100

// BackfillRepository provides the store operations the backfill needs.
type BackfillRepository interface {
	ListMissingEmbeddings(ctx context.Context, limit int) ([]models.GameRecord, error)
	SetEmbedding(ctx context.Context, id uuid.UUID, embedding []float32) error
}

// BackfillService fills in combined_embedding for games that were written
// without one, in batches, until no unembedded games remain. Records created
// through the write API start without an embedding and only become visible
// to vector search after a backfill run.
type BackfillService struct {
	repo            BackfillRepository
	embeddingClient embed.Client
	batchSize       int
	logger          *slog.Logger
}

// BackfillServiceParams configures BackfillService. BatchSize defaults to
// DefaultBackfillBatchSize when zero.
type BackfillServiceParams struct {
	Repo            BackfillRepository
	EmbeddingClient embed.Client
	BatchSize       int
	Logger          *slog.Logger
}

// NewBackfillService creates a BackfillService.
func NewBackfillService(p BackfillServiceParams) *BackfillService {
	batchSize := p.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBackfillBatchSize
	}

	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &BackfillService{
		repo:            p.Repo,
		embeddingClient: p.EmbeddingClient,
		batchSize:       batchSize,
		logger:          logger,
	}
}

// Run embeds every game without a stored embedding and returns how many were
// updated. The first embedding or store failure stops the run; completed
// updates stay in place, so a rerun resumes where it failed.
func (s *BackfillService) Run(ctx context.Context) (int, error) {
	total := 0

	for {
		games, err := s.repo.ListMissingEmbeddings(ctx, s.batchSize)
		if err != nil {
			return total, fmt.Errorf("list games missing embeddings: %w", err)
		}

		if len(games) == 0 {
			return total, nil
		}

		for _, game := range games {
			embedding, err := s.embeddingClient.CreateEmbedding(ctx, game.EmbeddingText())
			if err != nil {
				return total, fmt.Errorf("embed game %s: %w", game.ID, err)
			}

			if err := s.repo.SetEmbedding(ctx, game.ID, embedding); err != nil {
				return total, fmt.Errorf("store embedding for game %s: %w", game.ID, err)
			}

			total++
		}

		s.logger.Info("backfill batch complete", "updated", total)

		if len(games) < s.batchSize {
			return total, nil
		}
	}
}
