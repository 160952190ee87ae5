package embed

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPClient_CreateEmbedding(t *testing.T) {
	t.Run("posts the text and decodes the embedding", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/embed", r.URL.Path)

			var req struct {
				Text string `json:"text"`
			}

			err := json.NewDecoder(r.Body).Decode(&req)
			require.NoError(t, err)
			assert.Equal(t, "portal", req.Text)

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"embedding":[0.1,0.2,0.3]}`))
		}))
		defer server.Close()

		client := NewHTTPClient(server.URL)

		embedding, err := client.CreateEmbedding(context.Background(), "portal")
		require.NoError(t, err)
		assert.Equal(t, []float32{0.1, 0.2, 0.3}, embedding)
	})

	t.Run("empty input is rejected without a request", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			t.Error("unexpected request")
		}))
		defer server.Close()

		client := NewHTTPClient(server.URL)

		_, err := client.CreateEmbedding(context.Background(), "   ")
		require.ErrorIs(t, err, ErrEmptyInput)
	})

	t.Run("missing embedding field is malformed", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"error":"model not loaded"}`))
		}))
		defer server.Close()

		client := NewHTTPClient(server.URL)

		_, err := client.CreateEmbedding(context.Background(), "portal")
		require.ErrorIs(t, err, ErrMalformedResponse)
	})

	t.Run("non-array embedding is malformed", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"embedding":"oops"}`))
		}))
		defer server.Close()

		client := NewHTTPClient(server.URL)

		_, err := client.CreateEmbedding(context.Background(), "portal")
		require.ErrorIs(t, err, ErrMalformedResponse)
	})

	t.Run("non-2xx status is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}))
		defer server.Close()

		client := NewHTTPClient(server.URL)

		_, err := client.CreateEmbedding(context.Background(), "portal")
		require.Error(t, err)
	})

	t.Run("unreachable service is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {}))
		server.Close()

		client := NewHTTPClient(server.URL)

		_, err := client.CreateEmbedding(context.Background(), "portal")
		require.Error(t, err)
	})
}

func TestMockClient_CreateEmbedding(t *testing.T) {
	t.Run("is deterministic per input", func(t *testing.T) {
		client := NewMockClient()

		a, err := client.CreateEmbedding(context.Background(), "portal")
		require.NoError(t, err)

		b, err := client.CreateEmbedding(context.Background(), "portal")
		require.NoError(t, err)

		assert.Equal(t, a, b)

		c, err := client.CreateEmbedding(context.Background(), "half-life")
		require.NoError(t, err)
		assert.NotEqual(t, a, c)
	})
}
