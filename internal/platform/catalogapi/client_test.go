package catalogapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"gamestore/internal/game"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCatalogServer(t *testing.T) *httptest.Server {
	t.Helper()
	h := game.NewHTTPHandler(game.NewService(game.NewMemoryRepo(game.Catalog()), 8))
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/games", h.List)
	mux.HandleFunc("GET /api/games/{id}", h.GetByID)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_Query(t *testing.T) {
	srv := newCatalogServer(t)
	c := NewClient(srv.URL+"/", "gamestore-test", 0)

	page, err := c.Query(context.Background(), game.Query{Page: 1, Genre: "Adventure", Search: "zelda"})
	require.NoError(t, err)
	require.Len(t, page.Games, 2)
	assert.Equal(t, "7", page.Games[0].ID)
	assert.Equal(t, 1, page.CurrentPage)
	assert.Equal(t, 1, page.TotalPages)
	assert.Contains(t, page.AvailableFilters, "Action")

	page, err = c.Query(context.Background(), game.Query{Page: 0})
	require.NoError(t, err)
	assert.Len(t, page.Games, 8)
	assert.Equal(t, 3, page.TotalPages)
}

func TestClient_Get(t *testing.T) {
	srv := newCatalogServer(t)
	c := NewClient(srv.URL, "gamestore-test", 0)

	g, err := c.Get(context.Background(), "2")
	require.NoError(t, err)
	assert.Equal(t, "Elden Ring", g.Name)
	assert.True(t, g.IsNew)

	_, err = c.Get(context.Background(), "404")
	assert.ErrorIs(t, err, game.ErrNotFound)
}

func TestClient_FailuresAreLoadFailed(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		switch r.URL.Query().Get("genre") {
		case "broken":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			_, _ = w.Write([]byte(`{"games": [`))
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "gamestore-test", 0)

	_, err := c.Query(context.Background(), game.Query{Genre: "broken"})
	assert.ErrorIs(t, err, ErrLoadFailed)
	assert.ErrorIs(t, err, game.ErrLoadFailed)
	assert.Equal(t, int32(1), hits.Load(), "no retry on server error")

	_, err = c.Query(context.Background(), game.Query{})
	assert.ErrorIs(t, err, ErrLoadFailed)
}

func TestClient_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, "gamestore-test", 0).Query(context.Background(), game.Query{})
	assert.ErrorIs(t, err, ErrLoadFailed)
}

func TestClient_CancelledContext(t *testing.T) {
	srv := newCatalogServer(t)
	c := NewClient(srv.URL, "gamestore-test", 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Query(ctx, game.Query{})
	assert.ErrorIs(t, err, ErrLoadFailed)
	assert.ErrorIs(t, err, context.Canceled)
}
