// Package cart keeps the shopping cart as one JSON snapshot under a single
// storage key. Every operation reads the snapshot, so handles on the same
// storage never hold a private copy that can drift.
package cart

import (
	"gamestore/internal/game"

	"github.com/shopspring/decimal"
)

// DefaultKey is the storage key the storefront has always used.
const DefaultKey = "game-cart"

// Line is a game snapshot taken at first add, plus how many are in the cart.
type Line struct {
	game.Game
	Quantity int `json:"quantity"`
}

// Summary is derived from the lines on every call and never stored.
type Summary struct {
	Items      []Line  `json:"items"`
	TotalItems int     `json:"totalItems"`
	TotalPrice float64 `json:"totalPrice"`
}

// Summarize totals lines in decimal arithmetic and rounds the final sum to cents.
func Summarize(lines []Line) Summary {
	total := decimal.Zero
	items := 0
	for _, l := range lines {
		items += l.Quantity
		total = total.Add(decimal.NewFromFloat(l.Price).Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	if lines == nil {
		lines = []Line{}
	}
	return Summary{
		Items:      lines,
		TotalItems: items,
		TotalPrice: total.Round(2).InexactFloat64(),
	}
}

// normalize drops lines that could not have been written by Store and folds
// duplicate ids into the first occurrence.
func normalize(lines []Line) []Line {
	out := make([]Line, 0, len(lines))
	index := make(map[string]int, len(lines))
	for _, l := range lines {
		if l.ID == "" || l.Quantity < 1 {
			continue
		}
		if i, ok := index[l.ID]; ok {
			out[i].Quantity += l.Quantity
			continue
		}
		index[l.ID] = len(out)
		out = append(out, l)
	}
	return out
}
