// Package client is the Go client for the catalog API. It also carries the
// browser-side behaviors as testable types: display sorting, autocomplete
// with request sequencing, and the view-visibility state machine.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
)

// Game is a single catalog record as returned by the API.
type Game struct {
	ID        string `json:"_id"`
	Name      string `json:"name"`
	Developer string `json:"developer"`
	Positive  int    `json:"positive"`
	Negative  int    `json:"negative"`
}

// ScoredGame is a vector search hit: the record plus its similarity score.
type ScoredGame struct {
	Game
	Score float64 `json:"score"`
}

// WriteGame carries the four writable fields for create and update.
type WriteGame struct {
	Name      string `json:"name"`
	Developer string `json:"developer"`
	Positive  int    `json:"positive"`
	Negative  int    `json:"negative"`
}

// CreateResult is the create response body.
type CreateResult struct {
	Message string `json:"message"`
	GameID  string `json:"gameId"`
	Game    Game   `json:"game"`
}

// UpdateResult is the update response body.
type UpdateResult struct {
	Message string `json:"message"`
	Game    Game   `json:"game"`
}

// SummaryStats is the descriptive-statistics block of the statistics payload.
type SummaryStats struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// Statistics is the statistics endpoint payload.
type Statistics struct {
	ImageBase64 string       `json:"image_base64"`
	Stats       SummaryStats `json:"stats"`
}

// APIError is a non-2xx response decoded from the API's error body.
type APIError struct {
	StatusCode int
	Message    string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: %d: %s", e.StatusCode, e.Message)
	}

	return fmt.Sprintf("api: unexpected status %d", e.StatusCode)
}

// Client calls the catalog API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

// WithAPIKey sends the given key as a bearer token on every request.
func WithAPIKey(key string) Option {
	return func(cl *Client) {
		cl.apiKey = key
	}
}

// New creates a client for the API at baseURL.
func New(baseURL string, opts ...Option) *Client {
	client := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: http.DefaultClient,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// ListGames fetches the full catalog listing (up to the server's cap).
// The result is in store order; use SortGamesByPositive for display.
func (c *Client) ListGames(ctx context.Context) ([]Game, error) {
	var games []Game
	if err := c.do(ctx, http.MethodGet, "/games", nil, &games); err != nil {
		return nil, err
	}

	return games, nil
}

// SearchGames performs a case-insensitive substring search on game names.
func (c *Client) SearchGames(ctx context.Context, query string) ([]Game, error) {
	var games []Game
	if err := c.do(ctx, http.MethodGet, "/search?q="+url.QueryEscape(query), nil, &games); err != nil {
		return nil, err
	}

	return games, nil
}

// VectorSearchGames performs an embedding-based search on game names.
func (c *Client) VectorSearchGames(ctx context.Context, query string) ([]ScoredGame, error) {
	var games []ScoredGame
	if err := c.do(ctx, http.MethodGet, "/vector-search?q="+url.QueryEscape(query), nil, &games); err != nil {
		return nil, err
	}

	return games, nil
}

// GetGame fetches a single game by id.
func (c *Client) GetGame(ctx context.Context, id string) (*Game, error) {
	var game Game
	if err := c.do(ctx, http.MethodGet, "/search/"+url.PathEscape(id), nil, &game); err != nil {
		return nil, err
	}

	return &game, nil
}

// CreateGame creates a new game and returns the store-assigned identifier
// along with the echoed record.
func (c *Client) CreateGame(ctx context.Context, game WriteGame) (*CreateResult, error) {
	var result CreateResult
	if err := c.do(ctx, http.MethodPost, "/games", game, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// UpdateGame replaces all four writable fields of the identified game.
func (c *Client) UpdateGame(ctx context.Context, id string, game WriteGame) (*UpdateResult, error) {
	var result UpdateResult
	if err := c.do(ctx, http.MethodPut, "/games/"+url.PathEscape(id), game, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// DeleteGame removes the identified game.
func (c *Client) DeleteGame(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/games/"+url.PathEscape(id), nil, nil)
}

// FetchStatistics fetches the default variable's chart and summary stats.
func (c *Client) FetchStatistics(ctx context.Context, variable string) (*Statistics, error) {
	path := "/statistics"
	if variable != "" {
		path += "?variable=" + url.QueryEscape(variable)
	}

	var stats Statistics
	if err := c.do(ctx, http.MethodGet, path, nil, &stats); err != nil {
		return nil, err
	}

	return &stats, nil
}

// FetchMLResult runs one of the proxied ML models, optionally scoped by a
// search query, and returns the opaque per-model payload.
func (c *Client) FetchMLResult(ctx context.Context, model, search string) (json.RawMessage, error) {
	path := "/ml/" + url.PathEscape(model)
	if search != "" {
		path += "?search=" + url.QueryEscape(search)
	}

	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, path, nil, &raw); err != nil {
		return nil, err
	}

	return raw, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody *bytes.Reader

	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}

		reqBody = bytes.NewReader(encoded)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}

		var errBody struct {
			Error string `json:"error"`
		}
		if decodeErr := json.NewDecoder(resp.Body).Decode(&errBody); decodeErr == nil {
			apiErr.Message = errBody.Error
		}

		return apiErr
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

// SortGamesByPositive returns the games sorted descending by positive review
// count. The sort is stable: ties keep their input order.
func SortGamesByPositive(games []Game) []Game {
	sorted := make([]Game, len(games))
	copy(sorted, games)

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Positive > sorted[j].Positive
	})

	return sorted
}
