package browse

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"gamestore/internal/game"
)

// Controller drives the browse state machine:
//
//	Idle -> Loading -> Loaded <-> LoadingMore
//	Loading -> Error
//
// Every filter change starts a new generation. A response is applied only if
// no newer generation was started while it was in flight.
type Controller struct {
	fetcher    Fetcher
	minLoading time.Duration
	logger     *slog.Logger

	mu        sync.Mutex
	state     State
	gen       uint64
	listeners map[int]func(State)
	nextID    int
}

type Option func(*Controller)

// WithMinLoading keeps the first page in Loading for at least d, so a
// placeholder does not flash. The wait overlaps the fetch.
func WithMinLoading(d time.Duration) Option {
	return func(c *Controller) {
		c.minLoading = d
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = l
	}
}

func New(f Fetcher, opts ...Option) *Controller {
	c := &Controller{
		fetcher:   f,
		logger:    slog.Default(),
		listeners: make(map[int]func(State)),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("component", "browse")
	return c
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// OnChange registers fn to run after every transition. The returned func
// unregisters it.
func (c *Controller) OnChange(fn func(State)) func() {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.listeners, id)
		c.mu.Unlock()
	}
}

// FiltersChanged discards accumulated items and loads page 1 for the new
// filters. It returns the fetch error, or ErrSuperseded if a newer filter
// change won.
func (c *Controller) FiltersChanged(ctx context.Context, genre, search string) error {
	c.mu.Lock()
	c.gen++
	gen := c.gen
	c.state = State{
		Status: StatusLoading,
		Genre:  genre,
		Search: search,
		Genres: c.state.Genres,
	}
	c.publishLocked()

	q := game.Query{Page: 1, Genre: genre, Search: search}
	page, err := c.fetchFirst(ctx, q)

	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		c.logger.Debug("dropping stale page", "genre", genre, "search", search)
		return ErrSuperseded
	}
	if err != nil {
		c.state.Status = StatusError
		c.state.Err = err
		c.publishLocked()
		c.logger.Warn("catalog load failed", "genre", genre, "search", search, "error", err)
		return err
	}
	c.state.Status = StatusLoaded
	c.state.Items = append([]game.Game{}, page.Games...)
	c.applyPageLocked(page)
	c.publishLocked()
	return nil
}

// LoadMore fetches the next page and appends it. It does nothing unless the
// list is Loaded and more pages remain, so repeated calls while a page is in
// flight are ignored.
func (c *Controller) LoadMore(ctx context.Context) error {
	c.mu.Lock()
	if c.state.Status != StatusLoaded || !c.state.HasMore {
		c.mu.Unlock()
		return nil
	}
	gen := c.gen
	c.state.Status = StatusLoadingMore
	c.state.LoadMoreErr = nil
	q := game.Query{Page: c.state.CurrentPage + 1, Genre: c.state.Genre, Search: c.state.Search}
	c.publishLocked()

	page, err := c.fetcher.Query(ctx, q)

	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		c.logger.Debug("dropping stale page", "page", q.Page)
		return ErrSuperseded
	}
	c.state.Status = StatusLoaded
	if err != nil {
		c.state.LoadMoreErr = err
		c.publishLocked()
		c.logger.Warn("loading more games failed", "page", q.Page, "error", err)
		return err
	}
	items := make([]game.Game, 0, len(c.state.Items)+len(page.Games))
	items = append(items, c.state.Items...)
	c.state.Items = append(items, page.Games...)
	c.applyPageLocked(page)
	c.publishLocked()
	return nil
}

// Retry reloads page 1 with the active filters.
func (c *Controller) Retry(ctx context.Context) error {
	c.mu.Lock()
	genre, search := c.state.Genre, c.state.Search
	c.mu.Unlock()
	return c.FiltersChanged(ctx, genre, search)
}

func (c *Controller) ClearFilters(ctx context.Context) error {
	return c.FiltersChanged(ctx, "", "")
}

func (c *Controller) fetchFirst(ctx context.Context, q game.Query) (game.Page, error) {
	if c.minLoading <= 0 {
		return c.fetcher.Query(ctx, q)
	}

	timer := time.NewTimer(c.minLoading)
	defer timer.Stop()

	page, err := c.fetcher.Query(ctx, q)
	if err != nil {
		return page, err
	}
	select {
	case <-timer.C:
		return page, nil
	case <-ctx.Done():
		return game.Page{}, ctx.Err()
	}
}

func (c *Controller) applyPageLocked(page game.Page) {
	c.state.CurrentPage = page.CurrentPage
	c.state.TotalPages = page.TotalPages
	c.state.HasMore = page.CurrentPage < page.TotalPages
	if page.AvailableFilters != nil {
		c.state.Genres = append([]string{}, page.AvailableFilters...)
	}
	c.state.Err = nil
	c.state.LoadMoreErr = nil
}

// publishLocked snapshots the state, releases c.mu and then runs listeners.
func (c *Controller) publishLocked() {
	snapshot := c.state.clone()
	listeners := make([]func(State), 0, len(c.listeners))
	for _, fn := range c.listeners {
		listeners = append(listeners, fn)
	}
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(snapshot)
	}
}
