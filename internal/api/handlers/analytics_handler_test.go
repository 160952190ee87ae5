package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/steamdex/catalog/internal/catalogerrors"
)

type mockAnalyticsClient struct {
	statsFunc func(ctx context.Context) ([]byte, error)
	mlFunc    func(ctx context.Context, model, search string) ([]byte, error)
}

func (m *mockAnalyticsClient) Statistics(ctx context.Context) ([]byte, error) {
	if m.statsFunc != nil {
		return m.statsFunc(ctx)
	}

	return []byte(`{}`), nil
}

func (m *mockAnalyticsClient) MLResult(ctx context.Context, model, search string) ([]byte, error) {
	if m.mlFunc != nil {
		return m.mlFunc(ctx, model, search)
	}

	return []byte(`{}`), nil
}

func TestAnalyticsHandler_Statistics(t *testing.T) {
	t.Run("relays the upstream body verbatim", func(t *testing.T) {
		upstream := `{"image_base64":"abc","stats":{"mean":42.5}}`
		mock := &mockAnalyticsClient{
			statsFunc: func(_ context.Context) ([]byte, error) {
				return []byte(upstream), nil
			},
		}

		req := httptest.NewRequest(http.MethodGet, "http://test/statistics?variable=negative", nil)
		rec := httptest.NewRecorder()

		NewAnalyticsHandler(mock).Statistics(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		assert.Equal(t, upstream, rec.Body.String())
	})

	t.Run("upstream failure returns 500", func(t *testing.T) {
		mock := &mockAnalyticsClient{
			statsFunc: func(_ context.Context) ([]byte, error) {
				return nil, catalogerrors.NewUpstreamError("statistics", "connection refused")
			},
		}

		req := httptest.NewRequest(http.MethodGet, "http://test/statistics", nil)
		rec := httptest.NewRecorder()

		NewAnalyticsHandler(mock).Statistics(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "Failed to retrieve statistics", errorBody(t, rec))
	})
}

func TestAnalyticsHandler_ML(t *testing.T) {
	t.Run("unknown model returns 404", func(t *testing.T) {
		called := false
		mock := &mockAnalyticsClient{
			mlFunc: func(_ context.Context, _, _ string) ([]byte, error) {
				called = true

				return nil, nil
			},
		}

		req := httptest.NewRequest(http.MethodGet, "http://test/ml/linear-regression", nil)
		req.SetPathValue("model", "linear-regression")
		rec := httptest.NewRecorder()

		NewAnalyticsHandler(mock).ML(rec, req)

		assert.False(t, called)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Unknown model", errorBody(t, rec))
	})

	t.Run("forwards the model and search query", func(t *testing.T) {
		mock := &mockAnalyticsClient{
			mlFunc: func(_ context.Context, model, search string) ([]byte, error) {
				assert.Equal(t, "random-forest", model)
				assert.Equal(t, "portal", search)

				return []byte(`{"accuracy":0.93}`), nil
			},
		}

		req := httptest.NewRequest(http.MethodGet, "http://test/ml/random-forest?search=portal", nil)
		req.SetPathValue("model", "random-forest")
		rec := httptest.NewRecorder()

		NewAnalyticsHandler(mock).ML(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, `{"accuracy":0.93}`, rec.Body.String())
	})

	t.Run("upstream failure returns 500", func(t *testing.T) {
		mock := &mockAnalyticsClient{
			mlFunc: func(_ context.Context, _, _ string) ([]byte, error) {
				return nil, catalogerrors.NewUpstreamError("ml", "connection refused")
			},
		}

		req := httptest.NewRequest(http.MethodGet, "http://test/ml/kmeans", nil)
		req.SetPathValue("model", "kmeans")
		rec := httptest.NewRecorder()

		NewAnalyticsHandler(mock).ML(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}
