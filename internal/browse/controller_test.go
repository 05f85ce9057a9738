package browse

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"gamestore/internal/game"
	"gamestore/internal/logger"
	"gamestore/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newCatalog(n, pageSize int) *game.Service {
	return game.NewService(game.NewMemoryRepo(testutil.Games(n, "Action")), pageSize)
}

func ids(games []game.Game) []string {
	out := make([]string, len(games))
	for i, g := range games {
		out[i] = g.ID
	}
	return out
}

func TestController_LoadMoreAccumulates(t *testing.T) {
	c := New(newCatalog(10, 8), WithLogger(logger.Discard()))
	ctx := context.Background()

	assert.Equal(t, StatusIdle, c.State().Status)

	require.NoError(t, c.FiltersChanged(ctx, "", ""))
	st := c.State()
	assert.Equal(t, StatusLoaded, st.Status)
	assert.Len(t, st.Items, 8)
	assert.Equal(t, 1, st.CurrentPage)
	assert.Equal(t, 2, st.TotalPages)
	assert.True(t, st.HasMore)
	assert.Equal(t, []string{"Action"}, st.Genres)

	require.NoError(t, c.LoadMore(ctx))
	st = c.State()
	assert.Len(t, st.Items, 10)
	assert.Equal(t, []string{"g1", "g2", "g3", "g4", "g5", "g6", "g7", "g8", "g9", "g10"}, ids(st.Items))
	assert.Equal(t, 2, st.CurrentPage)
	assert.False(t, st.HasMore)

	// No more pages: LoadMore is a no-op.
	require.NoError(t, c.LoadMore(ctx))
	assert.Len(t, c.State().Items, 10)
}

func TestController_LoadMoreIgnoredBeforeFirstLoad(t *testing.T) {
	f := newGatedFetcher()
	c := New(f, WithLogger(logger.Discard()))

	require.NoError(t, c.LoadMore(context.Background()))
	assert.Zero(t, f.calls())
	assert.Equal(t, StatusIdle, c.State().Status)
}

func TestController_FiltersChangedResets(t *testing.T) {
	games := append(testutil.Games(10, "Action"), game.Game{ID: "z", Name: "Zelda", Genre: "Adventure"})
	c := New(game.NewService(game.NewMemoryRepo(games), 8), WithLogger(logger.Discard()))
	ctx := context.Background()

	require.NoError(t, c.FiltersChanged(ctx, "", ""))
	require.NoError(t, c.LoadMore(ctx))
	require.Len(t, c.State().Items, 11)

	require.NoError(t, c.FiltersChanged(ctx, "Adventure", ""))
	st := c.State()
	assert.Equal(t, []string{"z"}, ids(st.Items))
	assert.Equal(t, 1, st.CurrentPage)
	assert.False(t, st.HasMore)
	assert.Equal(t, "Adventure", st.Genre)
	assert.Equal(t, []string{"Action", "Adventure"}, st.Genres)

	require.NoError(t, c.FiltersChanged(ctx, "", "no such game"))
	assert.True(t, c.State().Empty())

	require.NoError(t, c.ClearFilters(ctx))
	st = c.State()
	assert.Len(t, st.Items, 8)
	assert.Empty(t, st.Genre)
	assert.Empty(t, st.Search)
}

func TestController_FirstPageFailure(t *testing.T) {
	f := &flakyFetcher{Fetcher: newCatalog(3, 8), failures: 1}
	c := New(f, WithLogger(logger.Discard()))
	ctx := context.Background()

	err := c.FiltersChanged(ctx, "Action", "")
	assert.ErrorIs(t, err, game.ErrLoadFailed)
	st := c.State()
	assert.Equal(t, StatusError, st.Status)
	assert.Equal(t, "Failed to load games. Please try again.", st.Message())
	assert.Empty(t, st.Items)

	require.NoError(t, c.Retry(ctx))
	st = c.State()
	assert.Equal(t, StatusLoaded, st.Status)
	assert.Equal(t, "Action", st.Genre)
	assert.Len(t, st.Items, 3)
	assert.NoError(t, st.Err)
	assert.Empty(t, st.Message())
}

func TestController_LoadMoreFailureKeepsItems(t *testing.T) {
	f := &flakyFetcher{Fetcher: newCatalog(10, 8)}
	c := New(f, WithLogger(logger.Discard()))
	ctx := context.Background()

	require.NoError(t, c.FiltersChanged(ctx, "", ""))

	f.failures = 1
	assert.Error(t, c.LoadMore(ctx))
	st := c.State()
	assert.Equal(t, StatusLoaded, st.Status)
	assert.Len(t, st.Items, 8)
	assert.Error(t, st.LoadMoreErr)
	assert.NoError(t, st.Err)
	assert.True(t, st.HasMore)

	require.NoError(t, c.LoadMore(ctx))
	st = c.State()
	assert.Len(t, st.Items, 10)
	assert.NoError(t, st.LoadMoreErr)
}

func TestController_DuplicateLoadMoreIgnored(t *testing.T) {
	f := newGatedFetcher()
	c := New(f, WithLogger(logger.Discard()))
	ctx := context.Background()

	f.autoRelease(1)
	require.NoError(t, c.FiltersChanged(ctx, "", ""))

	done := make(chan error, 1)
	go func() { done <- c.LoadMore(ctx) }()
	require.Eventually(t, func() bool { return f.calls() == 2 }, time.Second, time.Millisecond)
	assert.Equal(t, StatusLoadingMore, c.State().Status)

	// A second call while the first is in flight must not fetch.
	require.NoError(t, c.LoadMore(ctx))
	assert.Equal(t, 2, f.calls())

	f.release(game.Query{Page: 2})
	require.NoError(t, <-done)
	assert.Len(t, c.State().Items, 16)
	assert.Equal(t, 2, f.calls())
}

func TestController_StaleFirstPageDropped(t *testing.T) {
	f := newGatedFetcher()
	c := New(f, WithLogger(logger.Discard()))
	ctx := context.Background()

	first := make(chan error, 1)
	go func() { first <- c.FiltersChanged(ctx, "Action", "") }()
	require.Eventually(t, func() bool { return f.calls() == 1 }, time.Second, time.Millisecond)

	second := make(chan error, 1)
	go func() { second <- c.FiltersChanged(ctx, "RPG", "") }()
	require.Eventually(t, func() bool { return f.calls() == 2 }, time.Second, time.Millisecond)

	// The newer query answers first, then the older one straggles in.
	f.release(game.Query{Page: 1, Genre: "RPG"})
	require.NoError(t, <-second)
	f.release(game.Query{Page: 1, Genre: "Action"})
	assert.ErrorIs(t, <-first, ErrSuperseded)

	st := c.State()
	assert.Equal(t, "RPG", st.Genre)
	require.NotEmpty(t, st.Items)
	assert.Equal(t, "RPG", st.Items[0].Genre)
}

func TestController_FiltersChangedDuringLoadMore(t *testing.T) {
	f := newGatedFetcher()
	c := New(f, WithLogger(logger.Discard()))
	ctx := context.Background()

	f.autoRelease(1)
	require.NoError(t, c.FiltersChanged(ctx, "", ""))

	more := make(chan error, 1)
	go func() { more <- c.LoadMore(ctx) }()
	require.Eventually(t, func() bool { return f.calls() == 2 }, time.Second, time.Millisecond)

	f.autoRelease(1)
	require.NoError(t, c.FiltersChanged(ctx, "Puzzle", ""))

	f.release(game.Query{Page: 2})
	assert.ErrorIs(t, <-more, ErrSuperseded)

	st := c.State()
	assert.Equal(t, StatusLoaded, st.Status)
	assert.Equal(t, 1, st.CurrentPage)
	assert.Len(t, st.Items, 8)
	assert.Equal(t, "Puzzle", st.Items[0].Genre)
}

func TestController_MinLoading(t *testing.T) {
	c := New(newCatalog(3, 8), WithLogger(logger.Discard()), WithMinLoading(50*time.Millisecond))

	var statuses []Status
	var mu sync.Mutex
	c.OnChange(func(s State) {
		mu.Lock()
		statuses = append(statuses, s.Status)
		mu.Unlock()
	})

	start := time.Now()
	require.NoError(t, c.FiltersChanged(context.Background(), "", ""))
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []Status{StatusLoading, StatusLoaded}, statuses)
}

func TestController_MinLoadingCancelled(t *testing.T) {
	c := New(newCatalog(3, 8), WithLogger(logger.Discard()), WithMinLoading(time.Hour))
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := c.FiltersChanged(ctx, "", "")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, StatusError, c.State().Status)
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "loading_more", StatusLoadingMore.String())
	assert.Equal(t, "unknown", Status(42).String())
}

// flakyFetcher fails the next `failures` queries.
type flakyFetcher struct {
	Fetcher
	failures int
}

func (f *flakyFetcher) Query(ctx context.Context, q game.Query) (game.Page, error) {
	if f.failures > 0 {
		f.failures--
		return game.Page{}, errors.Join(game.ErrLoadFailed, errors.New("connection reset"))
	}
	return f.Fetcher.Query(ctx, q)
}

// gatedFetcher serves a 20-game catalog per genre, page size 8, but holds each
// query until the test releases it.
type gatedFetcher struct {
	mu     sync.Mutex
	n      int
	gates  map[game.Query]chan struct{}
	passes int
}

func newGatedFetcher() *gatedFetcher {
	return &gatedFetcher{gates: make(map[game.Query]chan struct{})}
}

func (f *gatedFetcher) gate(q game.Query) chan struct{} {
	g, ok := f.gates[q]
	if !ok {
		g = make(chan struct{})
		f.gates[q] = g
	}
	return g
}

// autoRelease lets the next n queries through without waiting.
func (f *gatedFetcher) autoRelease(n int) {
	f.mu.Lock()
	f.passes += n
	f.mu.Unlock()
}

func (f *gatedFetcher) release(q game.Query) {
	f.mu.Lock()
	g := f.gate(q)
	f.mu.Unlock()
	close(g)
}

func (f *gatedFetcher) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.n
}

func (f *gatedFetcher) Query(ctx context.Context, q game.Query) (game.Page, error) {
	f.mu.Lock()
	f.n++
	wait := f.passes == 0
	if !wait {
		f.passes--
	}
	g := f.gate(q)
	f.mu.Unlock()

	if wait {
		select {
		case <-g:
		case <-ctx.Done():
			return game.Page{}, ctx.Err()
		}
	}

	genre := q.Genre
	if genre == "" {
		genre = "Action"
	}
	svc := game.NewService(game.NewMemoryRepo(testutil.Games(20, genre)), 8)
	return svc.Query(ctx, q)
}
