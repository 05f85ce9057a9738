package game

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
)

const DefaultPageSize = 12

// Service answers storefront catalog queries.
type Service struct {
	repo     Repository
	pageSize int

	mu     sync.Mutex
	genres []string
}

// NewService creates a catalog service with a fixed page size.
func NewService(repo Repository, pageSize int) *Service {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Service{repo: repo, pageSize: pageSize}
}

// PageSize returns the number of games per page.
func (s *Service) PageSize() int {
	return s.pageSize
}

// Query returns one page of games matching the genre and search predicates.
// Every failure is reported as ErrLoadFailed; the caller decides whether to retry.
func (s *Service) Query(ctx context.Context, q Query) (Page, error) {
	page := q.Page
	if page < 1 {
		page = 1
	}

	games, total, err := s.repo.List(ctx, Filter{
		Genre:  q.Genre,
		Search: q.Search,
		Limit:  s.pageSize,
		Offset: pageOffset(page, s.pageSize),
	})
	if err != nil {
		return Page{}, fmt.Errorf("%w: %v", ErrLoadFailed, err)
	}

	genres, err := s.availableGenres(ctx)
	if err != nil {
		return Page{}, fmt.Errorf("%w: %v", ErrLoadFailed, err)
	}

	if games == nil {
		games = []Game{}
	}
	return Page{
		Games:            games,
		AvailableFilters: genres,
		TotalPages:       TotalPages(total, s.pageSize),
		CurrentPage:      page,
	}, nil
}

// pageOffset returns (page-1)*pageSize, saturating at math.MaxInt so a huge
// page number lands past the end instead of wrapping negative.
func pageOffset(page, pageSize int) int {
	if page-1 > math.MaxInt/pageSize {
		return math.MaxInt
	}
	return (page - 1) * pageSize
}

// Get returns a single game by id.
func (s *Service) Get(ctx context.Context, id string) (Game, error) {
	g, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Game{}, ErrNotFound
		}
		return Game{}, fmt.Errorf("%w: %v", ErrLoadFailed, err)
	}
	return g, nil
}

// availableGenres is computed once from the unfiltered catalog. Failures are not cached.
func (s *Service) availableGenres(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.genres == nil {
		genres, err := s.repo.Genres(ctx)
		if err != nil {
			return nil, err
		}
		if genres == nil {
			genres = []string{}
		}
		s.genres = genres
	}

	out := make([]string, len(s.genres))
	copy(out, s.genres)
	return out, nil
}
