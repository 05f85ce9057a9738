// Package browse accumulates catalog pages for the storefront's
// "load more" list.
package browse

import (
	"context"
	"errors"

	"gamestore/internal/game"
)

// ErrSuperseded is returned when a response arrived after a newer filter
// change and was dropped.
var ErrSuperseded = errors.New("browse: response superseded by newer query")

// Fetcher answers one catalog page query. game.Service and the catalog API
// client both satisfy it.
type Fetcher interface {
	Query(ctx context.Context, q game.Query) (game.Page, error)
}

type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusLoaded
	StatusLoadingMore
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusLoaded:
		return "loaded"
	case StatusLoadingMore:
		return "loading_more"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// State is a snapshot of the accumulated list. Items holds every page
// fetched so far for the active genre and search.
type State struct {
	Status      Status
	Items       []game.Game
	CurrentPage int
	TotalPages  int
	HasMore     bool
	Genre       string
	Search      string
	Genres      []string

	// Err is set when the first page failed. LoadMoreErr is set when a
	// later page failed; Items are kept in that case.
	Err         error
	LoadMoreErr error
}

// Message is the text shown to the user for a failed load, or "".
func (s State) Message() string {
	if s.Err != nil || s.LoadMoreErr != nil {
		return "Failed to load games. Please try again."
	}
	return ""
}

// Empty reports a successful load with no matching games.
func (s State) Empty() bool {
	return s.Status == StatusLoaded && len(s.Items) == 0
}

func (s State) clone() State {
	items := make([]game.Game, len(s.Items))
	copy(items, s.Items)
	s.Items = items
	genres := make([]string, len(s.Genres))
	copy(genres, s.Genres)
	s.Genres = genres
	return s
}
