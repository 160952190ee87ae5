package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/steamdex/catalog/internal/analytics"
	"github.com/steamdex/catalog/internal/api/response"
)

// AnalyticsClient defines the upstream calls the proxy endpoints forward to.
type AnalyticsClient interface {
	Statistics(ctx context.Context) ([]byte, error)
	MLResult(ctx context.Context, model, search string) ([]byte, error)
}

// AnalyticsHandler proxies the statistics and ML endpoints; the upstream
// bodies are relayed verbatim.
type AnalyticsHandler struct {
	client AnalyticsClient
}

// NewAnalyticsHandler creates a new analytics handler.
func NewAnalyticsHandler(client AnalyticsClient) *AnalyticsHandler {
	return &AnalyticsHandler{client: client}
}

// Statistics handles GET /statistics?variable=. The variable is accepted and
// logged but not forwarded; the upstream computes its fixed default.
func (h *AnalyticsHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	variable := r.URL.Query().Get("variable")
	if variable == "" {
		variable = "positive"
	}

	slog.InfoContext(r.Context(), "fetching statistics", "variable", variable)

	body, err := h.client.Statistics(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "statistics proxy failed", "error", err)
		response.RespondInternalServerError(w, "Failed to retrieve statistics")
		return
	}

	response.RespondRawJSON(w, http.StatusOK, body)
}

// ML handles GET /ml/{model}?search=. Unknown models are 404; the optional
// search query is forwarded upstream.
func (h *AnalyticsHandler) ML(w http.ResponseWriter, r *http.Request) {
	model := r.PathValue("model")
	if !analytics.KnownModel(model) {
		response.RespondNotFound(w, "Unknown model")
		return
	}

	search := r.URL.Query().Get("search")

	body, err := h.client.MLResult(r.Context(), model, search)
	if err != nil {
		slog.ErrorContext(r.Context(), "ml proxy failed", "model", model, "error", err)
		response.RespondInternalServerError(w, "Failed to run model")
		return
	}

	response.RespondRawJSON(w, http.StatusOK, body)
}
