// Package analytics provides the HTTP client for the statistics/ML service.
// The payloads are opaque to this system; callers relay them verbatim.
package analytics

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/steamdex/catalog/internal/catalogerrors"
)

// ML model names the service exposes.
const (
	ModelRandomForest = "random-forest"
	ModelXGBoost      = "xgboost"
	ModelKMeans       = "kmeans"
	ModelAll          = "all"
)

var knownModels = map[string]struct{}{
	ModelRandomForest: {},
	ModelXGBoost:      {},
	ModelKMeans:       {},
	ModelAll:          {},
}

// KnownModel reports whether name is one of the proxied ML models.
func KnownModel(name string) bool {
	_, ok := knownModels[name]

	return ok
}

// Client fetches statistics and ML results from the analytics services.
type Client struct {
	statsBaseURL string
	mlBaseURL    string
	httpClient   *http.Client
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client (e.g. to set a timeout).
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

// NewClient creates a client for the statistics service at statsBaseURL and
// the ML service at mlBaseURL.
func NewClient(statsBaseURL, mlBaseURL string, opts ...Option) *Client {
	client := &Client{
		statsBaseURL: strings.TrimSuffix(statsBaseURL, "/"),
		mlBaseURL:    strings.TrimSuffix(mlBaseURL, "/"),
		httpClient:   http.DefaultClient,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// Statistics fetches the descriptive-statistics payload (chart image plus
// summary stats) and returns the raw body for verbatim relay. The requested
// variable is not sent upstream; the service computes its fixed default.
func (c *Client) Statistics(ctx context.Context) ([]byte, error) {
	return c.get(ctx, "statistics", c.statsBaseURL+"/statistics")
}

// MLResult fetches the result payload for one ML model. search optionally
// scopes the model run to games matching the query.
func (c *Client) MLResult(ctx context.Context, model, search string) ([]byte, error) {
	endpoint := c.mlBaseURL + "/ml/" + model
	if search != "" {
		endpoint += "?search=" + url.QueryEscape(search)
	}

	return c.get(ctx, "ml", endpoint)
}

func (c *Client) get(ctx context.Context, service, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create %s request: %w", service, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, catalogerrors.NewUpstreamError(service, fmt.Sprintf("%s service unreachable: %v", service, err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, catalogerrors.NewUpstreamError(service, fmt.Sprintf("read %s response: %v", service, err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, catalogerrors.NewUpstreamError(service, fmt.Sprintf("%s service returned %d", service, resp.StatusCode))
	}

	return body, nil
}
