package embed

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrEmptyInput is returned when CreateEmbedding is called with empty input.
	ErrEmptyInput = errors.New("embed: input text is empty")
	// ErrMalformedResponse is returned when the service response is missing
	// its embedding field or the field is not an array.
	ErrMalformedResponse = errors.New("embed: malformed embedding response")
)

// HTTPClient calls the local embedding service: POST /embed {"text": ...}.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// HTTPOption configures the HTTPClient.
type HTTPOption func(*HTTPClient)

// WithHTTPClient overrides the underlying HTTP client (e.g. to set a timeout).
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(h *HTTPClient) {
		h.httpClient = c
	}
}

// NewHTTPClient creates a client for the embedding service at baseURL.
func NewHTTPClient(baseURL string, opts ...HTTPOption) *HTTPClient {
	client := &HTTPClient{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: http.DefaultClient,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

var _ Client = (*HTTPClient)(nil)

type embedRequest struct {
	Text string `json:"text"`
}

// embedResponse decodes the embedding field as raw JSON so a missing or
// non-array value is distinguishable from an empty vector.
type embedResponse struct {
	Embedding json.RawMessage `json:"embedding"`
}

// CreateEmbedding returns the embedding vector for the given text.
// Any transport error, non-2xx status, or missing/non-array embedding field
// is a hard failure.
func (c *HTTPClient) CreateEmbedding(ctx context.Context, input string) ([]float32, error) {
	if strings.TrimSpace(input) == "" {
		return nil, ErrEmptyInput
	}

	body, err := json.Marshal(embedRequest{Text: input})
	if err != nil {
		return nil, fmt.Errorf("marshal embed request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/embed", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create embed request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call embedding service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("embedding service returned %d", resp.StatusCode)
	}

	var decoded embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode embedding response: %w", err)
	}

	if len(decoded.Embedding) == 0 {
		return nil, ErrMalformedResponse
	}

	var vector []float32
	if err := json.Unmarshal(decoded.Embedding, &vector); err != nil {
		return nil, ErrMalformedResponse
	}

	return vector, nil
}
