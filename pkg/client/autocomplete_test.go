package client

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockSearcher struct {
	searchFunc func(ctx context.Context, query string) ([]Game, error)
	vectorFunc func(ctx context.Context, query string) ([]ScoredGame, error)
}

func (m *mockSearcher) SearchGames(ctx context.Context, query string) ([]Game, error) {
	if m.searchFunc != nil {
		return m.searchFunc(ctx, query)
	}

	return nil, nil
}

func (m *mockSearcher) VectorSearchGames(ctx context.Context, query string) ([]ScoredGame, error) {
	if m.vectorFunc != nil {
		return m.vectorFunc(ctx, query)
	}

	return nil, nil
}

func TestAutocompleter_Query(t *testing.T) {
	t.Run("short input clears suggestions without searching", func(t *testing.T) {
		called := false
		searcher := &mockSearcher{
			searchFunc: func(_ context.Context, _ string) ([]Game, error) {
				called = true

				return nil, nil
			},
		}

		ac := NewAutocompleter(searcher)

		games, err := ac.Query(context.Background(), "p")
		require.NoError(t, err)
		assert.Empty(t, games)
		assert.False(t, called)
	})

	t.Run("two characters is enough", func(t *testing.T) {
		searcher := &mockSearcher{
			searchFunc: func(_ context.Context, query string) ([]Game, error) {
				assert.Equal(t, "po", query)

				return []Game{{Name: "Portal"}}, nil
			},
		}

		ac := NewAutocompleter(searcher)

		games, err := ac.Query(context.Background(), "po")
		require.NoError(t, err)
		require.Len(t, games, 1)
	})

	t.Run("a slow early response is discarded", func(t *testing.T) {
		release := make(chan struct{})
		started := make(chan struct{})
		searcher := &mockSearcher{
			searchFunc: func(_ context.Context, query string) ([]Game, error) {
				if query == "po" {
					close(started)
					<-release
				}

				return []Game{{Name: query}}, nil
			},
		}

		ac := NewAutocompleter(searcher)

		type result struct {
			games []Game
			err   error
		}

		first := make(chan result, 1)

		go func() {
			games, err := ac.Query(context.Background(), "po")
			first <- result{games: games, err: err}
		}()

		// The second query supersedes the first while it is blocked.
		<-started
		games, err := ac.Query(context.Background(), "portal")
		require.NoError(t, err)
		require.Len(t, games, 1)
		assert.Equal(t, "portal", games[0].Name)

		close(release)

		got := <-first
		require.ErrorIs(t, got.err, ErrStale)
		assert.Nil(t, got.games)
	})

	t.Run("vector mode flattens scored hits", func(t *testing.T) {
		searcher := &mockSearcher{
			vectorFunc: func(_ context.Context, query string) ([]ScoredGame, error) {
				assert.Equal(t, "puzzle", query)

				return []ScoredGame{
					{Game: Game{Name: "Portal"}, Score: 0.91},
					{Game: Game{Name: "The Talos Principle"}, Score: 0.88},
				}, nil
			},
		}

		ac := NewAutocompleter(searcher)
		ac.SetMode(ModeVector)

		games, err := ac.Query(context.Background(), "puzzle")
		require.NoError(t, err)
		require.Len(t, games, 2)
		assert.Equal(t, "Portal", games[0].Name)
	})

	t.Run("search failure propagates", func(t *testing.T) {
		searcher := &mockSearcher{
			searchFunc: func(_ context.Context, _ string) ([]Game, error) {
				return nil, assert.AnError
			},
		}

		ac := NewAutocompleter(searcher)

		_, err := ac.Query(context.Background(), "portal")
		require.ErrorIs(t, err, assert.AnError)
	})
}

func TestAutocompleter_Mode(t *testing.T) {
	ac := NewAutocompleter(&mockSearcher{})

	assert.Equal(t, ModeSimple, ac.Mode())

	ac.SetMode(ModeVector)
	assert.Equal(t, ModeVector, ac.Mode())
}
