// Package service contains the business logic between handlers and the store.
package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/steamdex/catalog/internal/catalogerrors"
	"github.com/steamdex/catalog/internal/models"
)

// Result caps for the read endpoints.
const (
	// ListLimit caps the full catalog listing.
	ListLimit = 100
	// SearchLimit caps substring and vector search results.
	SearchLimit = 10
)

// GamesRepository provides the store operations the games service needs.
type GamesRepository interface {
	List(ctx context.Context, limit int) ([]models.GameRecord, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.GameRecord, error)
	Create(ctx context.Context, name, developer string, positive, negative int) (*models.GameRecord, error)
	Update(ctx context.Context, id uuid.UUID, name, developer string, positive, negative int) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// GamesService implements CRUD over the games store.
type GamesService struct {
	repo GamesRepository
}

// NewGamesService creates a GamesService.
func NewGamesService(repo GamesRepository) *GamesService {
	return &GamesService{repo: repo}
}

// parseGameID guards the identifier format explicitly: an identifier that is
// not a valid UUID cannot match any record, so it is reported as not found
// rather than surfacing a store error.
func parseGameID(idStr string) (uuid.UUID, error) {
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, catalogerrors.NewNotFoundError("game", "game not found")
	}

	return id, nil
}

// validateWrite checks that all four client-writable fields are present.
// Counts need only be present; their values were already coerced on decode.
func validateWrite(req *models.WriteGameRequest) error {
	if req.Name == "" {
		return catalogerrors.NewValidationError("name", "all fields are required")
	}

	if req.Developer == "" {
		return catalogerrors.NewValidationError("developer", "all fields are required")
	}

	if req.Positive == nil {
		return catalogerrors.NewValidationError("positive", "all fields are required")
	}

	if req.Negative == nil {
		return catalogerrors.NewValidationError("negative", "all fields are required")
	}

	return nil
}

// ListGames returns up to ListLimit games in store order.
func (s *GamesService) ListGames(ctx context.Context) ([]models.GameRecord, error) {
	games, err := s.repo.List(ctx, ListLimit)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}

	return games, nil
}

// GetGame returns a single game by its identifier string.
func (s *GamesService) GetGame(ctx context.Context, idStr string) (*models.GameRecord, error) {
	id, err := parseGameID(idStr)
	if err != nil {
		return nil, err
	}

	game, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return game, nil
}

// CreateGame validates the payload and inserts a new record. The store
// assigns the identifier; the echoed record carries the submitted values with
// counts coerced to integers.
func (s *GamesService) CreateGame(ctx context.Context, req *models.WriteGameRequest) (*models.GameRecord, error) {
	if err := validateWrite(req); err != nil {
		return nil, err
	}

	game, err := s.repo.Create(ctx, req.Name, req.Developer, req.Positive.Int(), req.Negative.Int())
	if err != nil {
		return nil, err
	}

	return game, nil
}

// UpdateGame validates the payload and replaces the four writable fields of
// the identified record.
func (s *GamesService) UpdateGame(ctx context.Context, idStr string, req *models.WriteGameRequest) error {
	if err := validateWrite(req); err != nil {
		return err
	}

	id, err := parseGameID(idStr)
	if err != nil {
		return err
	}

	return s.repo.Update(ctx, id, req.Name, req.Developer, req.Positive.Int(), req.Negative.Int())
}

// DeleteGame removes the identified record.
func (s *GamesService) DeleteGame(ctx context.Context, idStr string) error {
	id, err := parseGameID(idStr)
	if err != nil {
		return err
	}

	return s.repo.Delete(ctx, id)
}
