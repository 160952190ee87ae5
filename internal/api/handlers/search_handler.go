package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/steamdex/catalog/internal/api/response"
	"github.com/steamdex/catalog/internal/models"
)

// SearchService defines the interface for substring and vector search.
type SearchService interface {
	SearchByName(ctx context.Context, query string) ([]models.GameRecord, error)
	VectorSearch(ctx context.Context, query string) ([]models.GameWithScore, error)
}

// SearchHandler handles HTTP requests for both search modes.
type SearchHandler struct {
	service SearchService
}

// NewSearchHandler creates a new search handler.
func NewSearchHandler(service SearchService) *SearchHandler {
	return &SearchHandler{service: service}
}

// Search handles GET /search?q=. An empty query is passed through unchanged
// and matches everything up to the result cap.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	results, err := h.service.SearchByName(r.Context(), query)
	if err != nil {
		respondStoreError(w, err, "Search failed")
		return
	}

	response.RespondJSON(w, http.StatusOK, results)
}

// VectorSearch handles GET /vector-search?q=. The query is required; an
// unreachable embedding service or a malformed embedding response fails the
// whole request.
func (h *SearchHandler) VectorSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		response.RespondBadRequest(w, `Query parameter "q" is required`)
		return
	}

	slog.InfoContext(r.Context(), "vector search", "query", query)

	results, err := h.service.VectorSearch(r.Context(), query)
	if err != nil {
		respondStoreError(w, err, "Vector search failed")
		return
	}

	if results == nil {
		results = []models.GameWithScore{}
	}

	response.RespondJSON(w, http.StatusOK, results)
}
