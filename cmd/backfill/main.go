// backfill generates combined_embedding for games that do not have one yet,
// e.g. records created through the write API. Run it after bulk imports or on
// a schedule; vector search only surfaces games with a stored embedding.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/time/rate"

	"github.com/steamdex/catalog/internal/config"
	"github.com/steamdex/catalog/internal/embed"
	"github.com/steamdex/catalog/internal/repository"
	"github.com/steamdex/catalog/internal/service"
	"github.com/steamdex/catalog/pkg/database"
)

const (
	exitSuccess = 0
	exitFailure = 1
)

func main() {
	os.Exit(run())
}

func run() int {
	batchSize := flag.Int("batch-size", service.DefaultBackfillBatchSize, "games embedded per store round-trip")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)

		return exitFailure
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPool(ctx, cfg.DatabaseURL, database.WithMaxConns(cfg.DatabaseMaxConns))
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)

		return exitFailure
	}
	defer db.Close()

	var embeddingClient embed.Client

	switch cfg.EmbeddingProvider {
	case config.EmbeddingProviderOpenAI:
		embeddingClient = embed.NewOpenAIClient(cfg.EmbeddingProviderAPIKey)
	default:
		embeddingClient = embed.NewHTTPClient(cfg.EmbedServiceURL)
	}

	if cfg.EmbeddingRateLimit > 0 {
		embeddingClient = embed.NewRateLimited(embeddingClient,
			rate.NewLimiter(rate.Limit(cfg.EmbeddingRateLimit), 1))
	}

	backfill := service.NewBackfillService(service.BackfillServiceParams{
		Repo:            repository.NewGamesRepository(db),
		EmbeddingClient: embeddingClient,
		BatchSize:       *batchSize,
	})

	updated, err := backfill.Run(ctx)
	if err != nil {
		slog.Error("Backfill failed", "updated", updated, "error", err)

		return exitFailure
	}

	slog.Info("Backfill complete", "updated", updated)

	fmt.Printf("Embedded %d game(s).\n", updated)

	return exitSuccess
}
