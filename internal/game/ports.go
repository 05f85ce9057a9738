package game

import (
	"context"
)

//go:generate mockgen -source=ports.go -destination=mock_repository.go -package=game

// Repository defines the contract for the read-only game catalog.
type Repository interface {
	List(ctx context.Context, f Filter) ([]Game, int, error)
	GetByID(ctx context.Context, id string) (Game, error)
	Genres(ctx context.Context) ([]string, error)
}
