package client

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

// SearchMode selects the backend an Autocompleter queries.
type SearchMode string

const (
	// ModeSimple uses substring search on game names.
	ModeSimple SearchMode = "simple"
	// ModeVector uses embedding-based search on game names.
	ModeVector SearchMode = "vector"
)

// MinQueryLength is the minimum number of characters before an autocomplete
// query is issued. Shorter input clears the suggestion list instead.
const MinQueryLength = 2

// ErrStale is returned by Query when a newer query was issued while this one
// was in flight. Stale results must not be shown.
var ErrStale = errors.New("autocomplete: superseded by a newer query")

// Searcher is the subset of Client the Autocompleter needs.
type Searcher interface {
	SearchGames(ctx context.Context, query string) ([]Game, error)
	VectorSearchGames(ctx context.Context, query string) ([]ScoredGame, error)
}

// Autocompleter issues search queries as the user types and guarantees that
// only the latest query's results are ever surfaced. Each Query call takes a
// monotonically increasing token; a response whose token is no longer the
// latest is discarded, so a slow early response can never overwrite a fast
// later one.
type Autocompleter struct {
	searcher Searcher

	mu   sync.RWMutex
	mode SearchMode

	latest atomic.Uint64
}

// NewAutocompleter creates an Autocompleter in simple search mode.
func NewAutocompleter(searcher Searcher) *Autocompleter {
	return &Autocompleter{
		searcher: searcher,
		mode:     ModeSimple,
	}
}

// SetMode switches between simple and vector search for subsequent queries.
func (a *Autocompleter) SetMode(mode SearchMode) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.mode = mode
}

// Mode reports the current search mode.
func (a *Autocompleter) Mode() SearchMode {
	a.mu.RLock()
	defer a.mu.RUnlock()

	return a.mode
}

// Query runs an autocomplete lookup for the given input. It returns an empty
// result when the input is shorter than MinQueryLength, and ErrStale when a
// newer query was issued while this one was waiting on the backend.
func (a *Autocompleter) Query(ctx context.Context, input string) ([]Game, error) {
	token := a.latest.Add(1)

	if len([]rune(input)) < MinQueryLength {
		return []Game{}, nil
	}

	games, err := a.search(ctx, input)
	if err != nil {
		return nil, err
	}

	if a.latest.Load() != token {
		return nil, ErrStale
	}

	return games, nil
}

func (a *Autocompleter) search(ctx context.Context, input string) ([]Game, error) {
	if a.Mode() == ModeVector {
		scored, err := a.searcher.VectorSearchGames(ctx, input)
		if err != nil {
			return nil, err
		}

		games := make([]Game, 0, len(scored))
		for _, hit := range scored {
			games = append(games, hit.Game)
		}

		return games, nil
	}

	return a.searcher.SearchGames(ctx, input)
}
