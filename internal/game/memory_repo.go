package game

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

// MemoryRepo serves a fixed list of games held in memory.
type MemoryRepo struct {
	games []Game
}

// NewMemoryRepo copies games; callers may reuse the slice afterwards.
func NewMemoryRepo(games []Game) *MemoryRepo {
	cp := make([]Game, len(games))
	copy(cp, games)
	return &MemoryRepo{games: cp}
}

func (r *MemoryRepo) List(ctx context.Context, f Filter) ([]Game, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	if f.Offset < 0 || f.Limit < 0 {
		return nil, 0, fmt.Errorf("invalid window: limit %d offset %d", f.Limit, f.Offset)
	}

	// A Caser carries state and must not be shared between goroutines.
	fold := cases.Fold()
	needle := fold.String(f.Search)
	matched := make([]Game, 0, len(r.games))
	for _, g := range r.games {
		if f.Genre != "" && g.Genre != f.Genre {
			continue
		}
		if needle != "" && !strings.Contains(fold.String(g.Name), needle) {
			continue
		}
		matched = append(matched, g)
	}

	total := len(matched)
	if f.Offset >= total {
		return []Game{}, total, nil
	}
	end := total
	if f.Limit > 0 && f.Limit < total-f.Offset {
		end = f.Offset + f.Limit
	}
	return matched[f.Offset:end], total, nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Game, error) {
	if err := ctx.Err(); err != nil {
		return Game{}, err
	}
	for _, g := range r.games {
		if g.ID == id {
			return g, nil
		}
	}
	return Game{}, ErrNotFound
}

// Genres returns distinct genres in first-seen catalog order.
func (r *MemoryRepo) Genres(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var out []string
	for _, g := range r.games {
		if g.Genre == "" || seen[g.Genre] {
			continue
		}
		seen[g.Genre] = true
		out = append(out, g.Genre)
	}
	return out, nil
}
