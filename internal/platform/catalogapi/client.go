// Package catalogapi is the HTTP client for the storefront catalog endpoint.
package catalogapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"gamestore/internal/game"

	json "github.com/goccy/go-json"
	"golang.org/x/time/rate"
)

// ErrLoadFailed covers transport failures and non-200 responses. It also
// matches game.ErrLoadFailed.
var ErrLoadFailed = fmt.Errorf("catalog api: %w", game.ErrLoadFailed)

// Client makes one attempt per call; retrying is left to the caller.
type Client struct {
	httpClient *http.Client
	userAgent  string
	baseURL    string
	limiter    *rate.Limiter
}

func NewClient(baseURL, userAgent string, rps float64) *Client {
	limit := rate.Inf
	if rps > 0 {
		limit = rate.Limit(rps)
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		userAgent: userAgent,
		baseURL:   strings.TrimRight(baseURL, "/"),
		limiter:   rate.NewLimiter(limit, 1),
	}
}

// Query fetches one catalog page.
func (c *Client) Query(ctx context.Context, q game.Query) (game.Page, error) {
	params := url.Values{}
	page := q.Page
	if page < 1 {
		page = 1
	}
	params.Set("page", strconv.Itoa(page))
	if q.Genre != "" {
		params.Set("genre", q.Genre)
	}
	if q.Search != "" {
		params.Set("search", q.Search)
	}

	var res game.Page
	if err := c.get(ctx, c.baseURL+"/api/games?"+params.Encode(), &res); err != nil {
		return game.Page{}, err
	}
	if res.Games == nil {
		res.Games = []game.Game{}
	}
	return res, nil
}

type gameEnvelope struct {
	Success bool      `json:"success"`
	Data    game.Game `json:"data"`
}

// Get fetches a single game. Unknown ids return game.ErrNotFound.
func (c *Client) Get(ctx context.Context, id string) (game.Game, error) {
	var res gameEnvelope
	if err := c.get(ctx, c.baseURL+"/api/games/"+url.PathEscape(id), &res); err != nil {
		return game.Game{}, err
	}
	return res.Data, nil
}

func (c *Client) get(ctx context.Context, u string, target any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		_, _ = io.Copy(io.Discard, resp.Body)
		return game.ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("%w: unexpected status code: %d", ErrLoadFailed, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("%w: decode: %w", ErrLoadFailed, err)
	}
	return nil
}
