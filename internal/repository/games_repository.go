// Package repository provides data access for game records.
package repository

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/steamdex/catalog/internal/catalogerrors"
	"github.com/steamdex/catalog/internal/models"
)

const gameColumns = "id, name, developer, positive, negative"

// GamesRepository handles data access for the games collection.
type GamesRepository struct {
	db *pgxpool.Pool
}

// NewGamesRepository creates a new games repository.
func NewGamesRepository(db *pgxpool.Pool) *GamesRepository {
	return &GamesRepository{db: db}
}

// wrapStoreErr maps connection-level failures to the store-unavailable
// sentinel (handlers turn it into 503) and wraps everything else.
func wrapStoreErr(op string, err error) error {
	var connectErr *pgconn.ConnectError

	var netErr net.Error

	if errors.As(err, &connectErr) || errors.As(err, &netErr) {
		return catalogerrors.NewUnavailableError("database not connected")
	}

	return fmt.Errorf("%s: %w", op, err)
}

// searchPattern builds the ILIKE containment pattern for a name query.
// The query is not escaped, so SQL wildcards in it keep their meaning,
// matching the unescaped regex search this API has always exposed.
func searchPattern(query string) string {
	return "%" + query + "%"
}

// List retrieves up to limit games. No ordering is guaranteed; the client
// sorts for display.
func (r *GamesRepository) List(ctx context.Context, limit int) ([]models.GameRecord, error) {
	query := fmt.Sprintf("SELECT %s FROM games LIMIT $1", gameColumns)

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, wrapStoreErr("list games", err)
	}
	defer rows.Close()

	return scanGames(rows)
}

// SearchByName retrieves up to limit games whose name contains query,
// case-insensitively.
func (r *GamesRepository) SearchByName(ctx context.Context, query string, limit int) ([]models.GameRecord, error) {
	sql := fmt.Sprintf("SELECT %s FROM games WHERE name ILIKE $1 LIMIT $2", gameColumns)

	rows, err := r.db.Query(ctx, sql, searchPattern(query), limit)
	if err != nil {
		return nil, wrapStoreErr("search games", err)
	}
	defer rows.Close()

	return scanGames(rows)
}

// GetByID retrieves a single game by ID.
func (r *GamesRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.GameRecord, error) {
	query := fmt.Sprintf("SELECT %s FROM games WHERE id = $1", gameColumns)

	var game models.GameRecord

	err := r.db.QueryRow(ctx, query, id).Scan(
		&game.ID, &game.Name, &game.Developer, &game.Positive, &game.Negative,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalogerrors.NewNotFoundError("game", "game not found")
		}

		return nil, wrapStoreErr("get game", err)
	}

	return &game, nil
}

// Create inserts a new game. The store assigns the identifier.
func (r *GamesRepository) Create(ctx context.Context, name, developer string, positive, negative int) (*models.GameRecord, error) {
	query := fmt.Sprintf(`
		INSERT INTO games (name, developer, positive, negative)
		VALUES ($1, $2, $3, $4)
		RETURNING %s`, gameColumns)

	var game models.GameRecord

	err := r.db.QueryRow(ctx, query, name, developer, positive, negative).Scan(
		&game.ID, &game.Name, &game.Developer, &game.Positive, &game.Negative,
	)
	if err != nil {
		return nil, wrapStoreErr("create game", err)
	}

	return &game, nil
}

// Update replaces the four client-writable fields of an existing game.
func (r *GamesRepository) Update(ctx context.Context, id uuid.UUID, name, developer string, positive, negative int) error {
	result, err := r.db.Exec(ctx, `
		UPDATE games
		SET name = $1, developer = $2, positive = $3, negative = $4
		WHERE id = $5`,
		name, developer, positive, negative, id,
	)
	if err != nil {
		return wrapStoreErr("update game", err)
	}

	if result.RowsAffected() == 0 {
		return catalogerrors.NewNotFoundError("game", "game not found")
	}

	return nil
}

// Delete removes a game.
func (r *GamesRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM games WHERE id = $1`, id)
	if err != nil {
		return wrapStoreErr("delete game", err)
	}

	if result.RowsAffected() == 0 {
		return catalogerrors.NewNotFoundError("game", "game not found")
	}

	return nil
}

// NearestByEmbedding returns up to limit games ranked by cosine similarity
// between queryEmbedding and the stored combined_embedding, with
// score = 1 - distance. Games without an embedding are skipped.
func (r *GamesRepository) NearestByEmbedding(ctx context.Context, queryEmbedding []float32, limit int) ([]models.GameWithScore, error) {
	queryVec := pgvector.NewVector(queryEmbedding)

	rows, err := r.db.Query(ctx, `
		SELECT id, name, developer, positive, negative,
			(1 - (combined_embedding <=> $1)) AS score
		FROM games
		WHERE combined_embedding IS NOT NULL
		ORDER BY combined_embedding <=> $1
		LIMIT $2`, queryVec, limit)
	if err != nil {
		return nil, wrapStoreErr("vector search games", err)
	}
	defer rows.Close()

	var results []models.GameWithScore

	for rows.Next() {
		var row models.GameWithScore

		if err := rows.Scan(&row.ID, &row.Name, &row.Developer, &row.Positive, &row.Negative, &row.Score); err != nil {
			return nil, fmt.Errorf("scan game with score: %w", err)
		}

		results = append(results, row)
	}

	if err := rows.Err(); err != nil {
		return nil, wrapStoreErr("iterating vector search", err)
	}

	return results, nil
}

// ListMissingEmbeddings returns up to limit games that have no stored
// embedding yet. Rows missing either text field are skipped; there is
// nothing meaningful to embed for them.
func (r *GamesRepository) ListMissingEmbeddings(ctx context.Context, limit int) ([]models.GameRecord, error) {
	sql := fmt.Sprintf(`
		SELECT %s FROM games
		WHERE combined_embedding IS NULL AND name <> '' AND developer <> ''
		LIMIT $1`, gameColumns)

	rows, err := r.db.Query(ctx, sql, limit)
	if err != nil {
		return nil, wrapStoreErr("list games missing embeddings", err)
	}
	defer rows.Close()

	return scanGames(rows)
}

// SetEmbedding stores the combined embedding for one game.
func (r *GamesRepository) SetEmbedding(ctx context.Context, id uuid.UUID, embedding []float32) error {
	result, err := r.db.Exec(ctx,
		`UPDATE games SET combined_embedding = $1 WHERE id = $2`,
		pgvector.NewVector(embedding), id,
	)
	if err != nil {
		return wrapStoreErr("set game embedding", err)
	}

	if result.RowsAffected() == 0 {
		return catalogerrors.NewNotFoundError("game", "game not found")
	}

	return nil
}

func scanGames(rows pgx.Rows) ([]models.GameRecord, error) {
	games := []models.GameRecord{} // Initialize as empty slice, not nil

	for rows.Next() {
		var game models.GameRecord

		if err := rows.Scan(&game.ID, &game.Name, &game.Developer, &game.Positive, &game.Negative); err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}

		games = append(games, game)
	}

	if err := rows.Err(); err != nil {
		return nil, wrapStoreErr("iterating games", err)
	}

	return games, nil
}
