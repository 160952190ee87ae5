package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSortGamesByPositive(t *testing.T) {
	t.Run("sorts descending", func(t *testing.T) {
		games := []Game{
			{Name: "A", Positive: 5},
			{Name: "B", Positive: 20},
			{Name: "C", Positive: 1},
		}

		sorted := SortGamesByPositive(games)

		require.Len(t, sorted, 3)
		assert.Equal(t, []int{20, 5, 1}, []int{sorted[0].Positive, sorted[1].Positive, sorted[2].Positive})
	})

	t.Run("ties keep input order", func(t *testing.T) {
		games := []Game{
			{Name: "first", Positive: 10},
			{Name: "second", Positive: 10},
			{Name: "third", Positive: 10},
		}

		sorted := SortGamesByPositive(games)

		assert.Equal(t, "first", sorted[0].Name)
		assert.Equal(t, "second", sorted[1].Name)
		assert.Equal(t, "third", sorted[2].Name)
	})

	t.Run("does not mutate the input", func(t *testing.T) {
		games := []Game{{Name: "A", Positive: 1}, {Name: "B", Positive: 2}}

		_ = SortGamesByPositive(games)

		assert.Equal(t, "A", games[0].Name)
	})
}

func TestClient_Games(t *testing.T) {
	t.Run("list decodes the games array", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/games", r.URL.Path)
			assert.Equal(t, http.MethodGet, r.Method)

			_, _ = w.Write([]byte(`[{"_id":"a1","name":"Portal","developer":"Valve","positive":100,"negative":5}]`))
		}))
		defer server.Close()

		games, err := New(server.URL).ListGames(context.Background())
		require.NoError(t, err)
		require.Len(t, games, 1)
		assert.Equal(t, "Portal", games[0].Name)
	})

	t.Run("create posts the payload and returns the new id", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)

			var payload WriteGame

			err := json.NewDecoder(r.Body).Decode(&payload)
			require.NoError(t, err)
			assert.Equal(t, "Portal", payload.Name)

			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"message":"Game created successfully","gameId":"a1","game":{"name":"Portal"}}`))
		}))
		defer server.Close()

		result, err := New(server.URL).CreateGame(context.Background(), WriteGame{
			Name: "Portal", Developer: "Valve", Positive: 100, Negative: 5,
		})
		require.NoError(t, err)
		assert.Equal(t, "a1", result.GameID)
	})

	t.Run("error bodies decode into APIError", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":"Game not found"}`))
		}))
		defer server.Close()

		_, err := New(server.URL).GetGame(context.Background(), "missing")
		require.Error(t, err)

		var apiErr *APIError

		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
		assert.Equal(t, "Game not found", apiErr.Message)
	})

	t.Run("api key is sent as a bearer token", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

			_, _ = w.Write([]byte(`[]`))
		}))
		defer server.Close()

		_, err := New(server.URL, WithAPIKey("secret")).ListGames(context.Background())
		require.NoError(t, err)
	})

	t.Run("search escapes the query", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/search", r.URL.Path)
			assert.Equal(t, "half life", r.URL.Query().Get("q"))

			_, _ = w.Write([]byte(`[]`))
		}))
		defer server.Close()

		_, err := New(server.URL).SearchGames(context.Background(), "half life")
		require.NoError(t, err)
	})

	t.Run("vector search decodes scores", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/vector-search", r.URL.Path)

			_, _ = w.Write([]byte(`[{"_id":"a1","name":"Portal","score":0.91}]`))
		}))
		defer server.Close()

		hits, err := New(server.URL).VectorSearchGames(context.Background(), "puzzle")
		require.NoError(t, err)
		require.Len(t, hits, 1)
		assert.InDelta(t, 0.91, hits[0].Score, 1e-9)
	})

	t.Run("delete sends no body and tolerates an ack response", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodDelete, r.Method)
			assert.Equal(t, "/games/a1", r.URL.Path)

			_, _ = w.Write([]byte(`{"message":"Game deleted successfully"}`))
		}))
		defer server.Close()

		err := New(server.URL).DeleteGame(context.Background(), "a1")
		require.NoError(t, err)
	})
}

func TestClient_Analytics(t *testing.T) {
	t.Run("statistics forwards the variable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/statistics", r.URL.Path)
			assert.Equal(t, "negative", r.URL.Query().Get("variable"))

			_, _ = w.Write([]byte(`{"image_base64":"abc","stats":{"mean":42.5}}`))
		}))
		defer server.Close()

		stats, err := New(server.URL).FetchStatistics(context.Background(), "negative")
		require.NoError(t, err)
		assert.InDelta(t, 42.5, stats.Stats.Mean, 1e-9)
	})

	t.Run("ml result is returned raw", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/ml/all", r.URL.Path)
			assert.Equal(t, "portal", r.URL.Query().Get("search"))

			_, _ = w.Write([]byte(`{"random-forest":{"accuracy":0.93}}`))
		}))
		defer server.Close()

		raw, err := New(server.URL).FetchMLResult(context.Background(), "all", "portal")
		require.NoError(t, err)
		assert.JSONEq(t, `{"random-forest":{"accuracy":0.93}}`, string(raw))
	})
}
