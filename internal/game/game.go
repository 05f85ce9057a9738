package game

import (
	"errors"
)

var (
	// ErrNotFound is returned when a game id is unknown.
	ErrNotFound = errors.New("game not found")
	// ErrLoadFailed wraps any failure to read the catalog.
	ErrLoadFailed = errors.New("failed to load games")
)

// Game is a catalog entry. It is never mutated after the catalog produces it.
type Game struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Genre       string  `json:"genre"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Image       string  `json:"image"`
	IsNew       bool    `json:"isNew"`
}

// Query is a catalog request as the storefront issues it.
type Query struct {
	Page   int    `validate:"min=0"`
	Genre  string `validate:"max=64"`
	Search string `validate:"max=128"`
}

// Filter is what a Repository receives: predicates plus a window.
type Filter struct {
	Genre  string
	Search string
	Limit  int
	Offset int
}

// Page is one page of results in the wire shape the storefront consumes.
type Page struct {
	Games            []Game   `json:"games"`
	AvailableFilters []string `json:"availableFilters"`
	TotalPages       int      `json:"totalPages"`
	CurrentPage      int      `json:"currentPage"`
}

// TotalPages returns ceil(total/pageSize), never less than 1.
func TotalPages(total, pageSize int) int {
	if pageSize <= 0 || total <= 0 {
		return 1
	}
	return (total + pageSize - 1) / pageSize
}
