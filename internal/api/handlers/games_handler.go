// Package handlers contains the HTTP handlers for the catalog API.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/steamdex/catalog/internal/api/response"
	"github.com/steamdex/catalog/internal/catalogerrors"
	"github.com/steamdex/catalog/internal/models"
)

// GamesService defines the interface for games CRUD business logic.
type GamesService interface {
	ListGames(ctx context.Context) ([]models.GameRecord, error)
	GetGame(ctx context.Context, id string) (*models.GameRecord, error)
	CreateGame(ctx context.Context, req *models.WriteGameRequest) (*models.GameRecord, error)
	UpdateGame(ctx context.Context, id string, req *models.WriteGameRequest) error
	DeleteGame(ctx context.Context, id string) error
}

// GamesHandler handles HTTP requests for game records.
type GamesHandler struct {
	service GamesService
}

// NewGamesHandler creates a new games handler.
func NewGamesHandler(service GamesService) *GamesHandler {
	return &GamesHandler{service: service}
}

// respondStoreError maps the shared failure taxonomy: store-unavailable is a
// distinct 503; everything else without a more specific mapping is a 500.
func respondStoreError(w http.ResponseWriter, err error, fallback string) {
	if errors.Is(err, catalogerrors.ErrStoreUnavailable) {
		response.RespondServiceUnavailable(w, "Database not connected")
		return
	}

	response.RespondInternalServerError(w, fallback)
}

// List handles GET /games. Returns up to 100 records in store order; the
// client sorts for display.
func (h *GamesHandler) List(w http.ResponseWriter, r *http.Request) {
	games, err := h.service.ListGames(r.Context())
	if err != nil {
		respondStoreError(w, err, "Failed to retrieve games")
		return
	}

	response.RespondJSON(w, http.StatusOK, games)
}

// Get handles GET /search/{id}.
func (h *GamesHandler) Get(w http.ResponseWriter, r *http.Request) {
	game, err := h.service.GetGame(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, catalogerrors.ErrNotFound) {
			response.RespondNotFound(w, "Game not found")
			return
		}
		respondStoreError(w, err, "Failed to retrieve game")
		return
	}

	response.RespondJSON(w, http.StatusOK, game)
}

// Create handles POST /games.
func (h *GamesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.WriteGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.RespondBadRequest(w, "Invalid request body")
		return
	}

	game, err := h.service.CreateGame(r.Context(), &req)
	if err != nil {
		if errors.Is(err, catalogerrors.ErrValidation) {
			response.RespondBadRequest(w, err.Error())
			return
		}
		respondStoreError(w, err, "Failed to create game")
		return
	}

	response.RespondJSON(w, http.StatusCreated, models.CreateGameResponse{
		Message: "Game created successfully",
		GameID:  game.ID,
		Game:    *game,
	})
}

// Update handles PUT /games/{id}. The echoed game carries the raw path
// identifier, not a store-typed one.
func (h *GamesHandler) Update(w http.ResponseWriter, r *http.Request) {
	idStr := r.PathValue("id")

	var req models.WriteGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.RespondBadRequest(w, "Invalid request body")
		return
	}

	if err := h.service.UpdateGame(r.Context(), idStr, &req); err != nil {
		if errors.Is(err, catalogerrors.ErrValidation) {
			response.RespondBadRequest(w, err.Error())
			return
		}
		if errors.Is(err, catalogerrors.ErrNotFound) {
			response.RespondNotFound(w, "Game not found")
			return
		}
		respondStoreError(w, err, "Failed to update game")
		return
	}

	response.RespondJSON(w, http.StatusOK, models.UpdateGameResponse{
		Message: "Game updated successfully",
		Game: models.UpdatedGame{
			ID:        idStr,
			Name:      req.Name,
			Developer: req.Developer,
			Positive:  req.Positive.Int(),
			Negative:  req.Negative.Int(),
		},
	})
}

// Delete handles DELETE /games/{id}.
func (h *GamesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteGame(r.Context(), r.PathValue("id")); err != nil {
		if errors.Is(err, catalogerrors.ErrNotFound) {
			response.RespondNotFound(w, "Game not found")
			return
		}
		respondStoreError(w, err, "Failed to delete game")
		return
	}

	response.RespondJSON(w, http.StatusOK, models.DeleteGameResponse{
		Message: "Game deleted successfully",
	})
}
