package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/cors"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"

	"github.com/steamdex/catalog/internal/analytics"
	"github.com/steamdex/catalog/internal/api/handlers"
	"github.com/steamdex/catalog/internal/api/middleware"
	"github.com/steamdex/catalog/internal/config"
	"github.com/steamdex/catalog/internal/embed"
	"github.com/steamdex/catalog/internal/observability"
	"github.com/steamdex/catalog/internal/repository"
	"github.com/steamdex/catalog/internal/service"
	"github.com/steamdex/catalog/pkg/database"
)

const (
	searchQueryCacheSize = 1000
	shutdownTimeout      = 10 * time.Second
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Configure slog with the log level from config
	setupLogging(cfg.LogLevel)

	// Initialize database connection
	db, err := database.NewPool(ctx, cfg.DatabaseURL, database.WithMaxConns(cfg.DatabaseMaxConns))
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Upstream HTTP client: zero timeout keeps the transport default.
	upstreamClient := http.DefaultClient
	if cfg.UpstreamTimeout > 0 {
		upstreamClient = &http.Client{Timeout: cfg.UpstreamTimeout}
	}

	var embeddingClient embed.Client

	switch cfg.EmbeddingProvider {
	case config.EmbeddingProviderOpenAI:
		embeddingClient = embed.NewOpenAIClient(cfg.EmbeddingProviderAPIKey)
		slog.Info("Embedding provider: OpenAI")
	default:
		embeddingClient = embed.NewHTTPClient(cfg.EmbedServiceURL, embed.WithHTTPClient(upstreamClient))
		slog.Info("Embedding provider: local service", "url", cfg.EmbedServiceURL)
	}

	if cfg.EmbeddingRateLimit > 0 {
		embeddingClient = embed.NewRateLimited(embeddingClient,
			rate.NewLimiter(rate.Limit(cfg.EmbeddingRateLimit), 1))
		slog.Info("Embedding calls rate limited", "requests_per_second", cfg.EmbeddingRateLimit)
	}

	queryCache, err := lru.New[string, []float32](searchQueryCacheSize)
	if err != nil {
		slog.Error("Failed to create search query cache", "error", err)
		os.Exit(1)
	}

	gamesRepo := repository.NewGamesRepository(db)

	gamesService := service.NewGamesService(gamesRepo)
	searchService := service.NewSearchService(service.SearchServiceParams{
		Repo:            gamesRepo,
		EmbeddingClient: embeddingClient,
		QueryCache:      queryCache,
		Logger:          slog.Default(),
	})
	analyticsClient := analytics.NewClient(cfg.StatsServiceURL, cfg.MLServiceURL,
		analytics.WithHTTPClient(upstreamClient))

	server := newHTTPServer(cfg,
		handlers.NewHealthHandler(),
		handlers.NewGamesHandler(gamesService),
		handlers.NewSearchHandler(searchService),
		handlers.NewAnalyticsHandler(analyticsClient),
	)

	serveErr := make(chan error, 1)

	go func() {
		slog.Info("Starting server", "port", cfg.Port)

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case err := <-serveErr:
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown failed", "error", err)
		os.Exit(1)
	}

	slog.Info("Server stopped")
}

// newHTTPServer builds the HTTP server and routes. The paths are the API
// contract the browser client depends on; /health stays outside auth.
func newHTTPServer(
	cfg *config.Config,
	health *handlers.HealthHandler,
	games *handlers.GamesHandler,
	search *handlers.SearchHandler,
	stats *handlers.AnalyticsHandler,
) *http.Server {
	public := http.NewServeMux()
	public.HandleFunc("GET /health", health.Check)

	api := http.NewServeMux()
	api.HandleFunc("GET /games", games.List)
	api.HandleFunc("POST /games", games.Create)
	api.HandleFunc("PUT /games/{id}", games.Update)
	api.HandleFunc("DELETE /games/{id}", games.Delete)

	api.HandleFunc("GET /search", search.Search)
	api.HandleFunc("GET /search/{id}", games.Get)
	api.HandleFunc("GET /vector-search", search.VectorSearch)

	api.HandleFunc("GET /statistics", stats.Statistics)
	api.HandleFunc("GET /ml/{model}", stats.ML)

	var apiHandler http.Handler = api
	apiHandler = middleware.MaxBody(cfg.MaxRequestBodyBytes)(apiHandler)
	apiHandler = middleware.Auth(cfg.APIKey)(apiHandler)

	mux := http.NewServeMux()
	mux.Handle("GET /health", public)
	mux.Handle("/", apiHandler)

	// The table, form, and statistics views run in a browser; allow
	// cross-origin calls during development.
	corsHandler := cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	})

	handler := middleware.Logging(mux)
	handler = corsHandler(handler)
	handler = middleware.RequestID(handler)

	const (
		readTimeout = 15 * time.Second
		idleTimeout = 60 * time.Second
	)

	return &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     handler,
		ReadTimeout: readTimeout,
		IdleTimeout: idleTimeout,
	}
}

func setupLogging(level string) {
	var logLevel slog.Level
	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: logLevel,
	}

	handler := slog.NewTextHandler(os.Stdout, opts)
	slog.SetDefault(slog.New(observability.NewRequestContextHandler(handler)))
}
