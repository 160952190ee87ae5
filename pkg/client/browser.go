package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// View identifies one of the browser's mutually exclusive screens.
type View int

const (
	ViewHome View = iota
	ViewCreate
	ViewEdit
	ViewStatistics
	ViewML
)

// String returns the view's name.
func (v View) String() string {
	switch v {
	case ViewHome:
		return "home"
	case ViewCreate:
		return "create"
	case ViewEdit:
		return "edit"
	case ViewStatistics:
		return "statistics"
	case ViewML:
		return "ml"
	default:
		return "unknown"
	}
}

// ErrNoEdit is returned by SubmitEdit when no record is being edited.
var ErrNoEdit = errors.New("browser: no record selected for editing")

// ErrNoMatches is returned by RunModel when the scoping search query matched
// no games.
var ErrNoMatches = errors.New("browser: search query matched no games")

// Catalog is the subset of Client the Browser needs.
type Catalog interface {
	ListGames(ctx context.Context) ([]Game, error)
	GetGame(ctx context.Context, id string) (*Game, error)
	CreateGame(ctx context.Context, game WriteGame) (*CreateResult, error)
	UpdateGame(ctx context.Context, id string, game WriteGame) (*UpdateResult, error)
	DeleteGame(ctx context.Context, id string) error
	VectorSearchGames(ctx context.Context, query string) ([]ScoredGame, error)
	FetchStatistics(ctx context.Context, variable string) (*Statistics, error)
	FetchMLResult(ctx context.Context, model, search string) (json.RawMessage, error)
}

// Browser holds the catalog browser's UI state: which view is visible, the
// rows currently shown in the results table, and the in-progress edit, if
// any. Exactly one view is active at a time, and switching views discards
// any stashed edit state.
type Browser struct {
	catalog Catalog

	view   View
	table  []Game
	editID string
	edit   WriteGame
}

// NewBrowser creates a Browser showing the home view with an empty table.
func NewBrowser(catalog Catalog) *Browser {
	return &Browser{
		catalog: catalog,
		view:    ViewHome,
		table:   []Game{},
	}
}

// ActiveView reports which view is currently visible.
func (b *Browser) ActiveView() View {
	return b.view
}

// Table returns the rows currently shown in the results table.
func (b *Browser) Table() []Game {
	return b.table
}

// EditTarget reports the id of the record being edited, or "" when the edit
// form is not populated.
func (b *Browser) EditTarget() string {
	return b.editID
}

// EditForm returns the current contents of the edit form.
func (b *Browser) EditForm() WriteGame {
	return b.edit
}

// Show makes the given view the active one. Any in-progress edit is
// discarded, even when switching to the edit view itself: editing always
// starts from BeginEdit.
func (b *Browser) Show(view View) {
	b.view = view
	b.editID = ""
	b.edit = WriteGame{}
}

// Refresh re-fetches the catalog listing and replaces the table with the
// result sorted descending by positive review count.
func (b *Browser) Refresh(ctx context.Context) error {
	games, err := b.catalog.ListGames(ctx)
	if err != nil {
		return err
	}

	b.table = SortGamesByPositive(games)

	return nil
}

// ShowResult replaces the table with the single selected game, as when the
// user picks an autocomplete suggestion.
func (b *Browser) ShowResult(game Game) {
	b.table = []Game{game}
}

// BeginEdit fetches the identified record, stashes its id, pre-fills the
// edit form with its current values, and switches to the edit view.
func (b *Browser) BeginEdit(ctx context.Context, id string) error {
	game, err := b.catalog.GetGame(ctx, id)
	if err != nil {
		return err
	}

	b.view = ViewEdit
	b.editID = game.ID
	b.edit = WriteGame{
		Name:      game.Name,
		Developer: game.Developer,
		Positive:  game.Positive,
		Negative:  game.Negative,
	}

	return nil
}

// SubmitEdit sends the edited fields to the API, clears the edit state,
// returns to the home view and refreshes the table.
func (b *Browser) SubmitEdit(ctx context.Context, form WriteGame) error {
	if b.editID == "" {
		return ErrNoEdit
	}

	if _, err := b.catalog.UpdateGame(ctx, b.editID, form); err != nil {
		return err
	}

	b.Show(ViewHome)

	return b.Refresh(ctx)
}

// Create sends a new record to the API and refreshes the table so the new
// row appears without leaving the current view.
func (b *Browser) Create(ctx context.Context, form WriteGame) error {
	if _, err := b.catalog.CreateGame(ctx, form); err != nil {
		return err
	}

	return b.Refresh(ctx)
}

// Delete removes the identified record after the confirm callback approves
// it. A nil or declining callback aborts without error, so a delete can
// never happen without an explicit confirmation; the table is left
// untouched either way.
func (b *Browser) Delete(ctx context.Context, id string, confirm func() bool) error {
	if confirm == nil || !confirm() {
		return nil
	}

	if err := b.catalog.DeleteGame(ctx, id); err != nil {
		return err
	}

	return b.Refresh(ctx)
}

// StatisticsReport is the statistics view's content: the chart image plus
// human-readable interpretation lines.
type StatisticsReport struct {
	ImageBase64    string
	Stats          SummaryStats
	Interpretation []string
}

// LoadStatistics fetches statistics for the given variable and renders the
// summary numbers into interpretation lines with two decimal places.
func (b *Browser) LoadStatistics(ctx context.Context, variable string) (*StatisticsReport, error) {
	stats, err := b.catalog.FetchStatistics(ctx, variable)
	if err != nil {
		return nil, err
	}

	label := variable
	if label == "" {
		label = "positive"
	}

	return &StatisticsReport{
		ImageBase64: stats.ImageBase64,
		Stats:       stats.Stats,
		Interpretation: []string{
			fmt.Sprintf("The average number of %s reviews is %.2f.", label, stats.Stats.Mean),
			fmt.Sprintf("Half of the games have fewer than %.2f %s reviews.", stats.Stats.Median, label),
			fmt.Sprintf("The spread of %s reviews is %.2f.", label, stats.Stats.StdDev),
			fmt.Sprintf("%s reviews range from %.2f to %.2f.", label, stats.Stats.Min, stats.Stats.Max),
		},
	}, nil
}

// RunModel runs the named ML model. A non-empty search query first scopes
// the run via vector search; when the query matches nothing, ErrNoMatches is
// returned and the model is not invoked.
func (b *Browser) RunModel(ctx context.Context, model, search string) (json.RawMessage, error) {
	if search != "" {
		hits, err := b.catalog.VectorSearchGames(ctx, search)
		if err != nil {
			return nil, err
		}

		if len(hits) == 0 {
			return nil, ErrNoMatches
		}
	}

	return b.catalog.FetchMLResult(ctx, model, search)
}
