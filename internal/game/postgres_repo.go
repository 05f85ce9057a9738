package game

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

// escapeLike escapes ILIKE wildcards so search text is matched literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func (r *PostgresRepo) List(ctx context.Context, f Filter) ([]Game, int, error) {
	if f.Offset < 0 || f.Limit < 0 {
		return nil, 0, fmt.Errorf("invalid window: limit %d offset %d", f.Limit, f.Offset)
	}

	clauses := []string{"1=1"}
	args := []any{}
	argn := 1

	if f.Genre != "" {
		clauses = append(clauses, fmt.Sprintf("genre = $%d", argn))
		args = append(args, f.Genre)
		argn++
	}

	if f.Search != "" {
		clauses = append(clauses, fmt.Sprintf(`name ILIKE '%%' || $%d || '%%' ESCAPE '\'`, argn))
		args = append(args, escapeLike(f.Search))
		argn++
	}

	where := "WHERE " + strings.Join(clauses, " AND ")

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	countSQL := fmt.Sprintf("SELECT COUNT(*) FROM games %s", where)
	var total int
	if err := r.db.QueryRow(timeoutCtx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count games: %w", err)
	}

	limit := f.Limit
	if limit <= 0 {
		limit = total
	}

	dataSQL := fmt.Sprintf(`
		SELECT id, name, genre, description, price::float8, image, is_new
		FROM games
		%s
		ORDER BY position ASC
		LIMIT $%d OFFSET $%d`,
		where, argn, argn+1)

	argsWithPage := append([]any{}, args...)
	argsWithPage = append(argsWithPage, limit, f.Offset)
	rows, err := r.db.Query(timeoutCtx, dataSQL, argsWithPage...)
	if err != nil {
		return nil, 0, fmt.Errorf("list games: %w", err)
	}
	defer rows.Close()

	out := []Game{}
	for rows.Next() {
		var g Game
		if err := rows.Scan(&g.ID, &g.Name, &g.Genre, &g.Description, &g.Price, &g.Image, &g.IsNew); err != nil {
			return nil, 0, err
		}
		out = append(out, g)
	}
	return out, total, rows.Err()
}

func (r *PostgresRepo) GetByID(ctx context.Context, id string) (Game, error) {
	const query = `
		SELECT id, name, genre, description, price::float8, image, is_new
		FROM games
		WHERE id = $1
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	var g Game
	err := r.db.QueryRow(timeoutCtx, query, id).Scan(&g.ID, &g.Name, &g.Genre, &g.Description, &g.Price, &g.Image, &g.IsNew)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Game{}, ErrNotFound
		}
		return Game{}, err
	}
	return g, nil
}

func (r *PostgresRepo) Genres(ctx context.Context) ([]string, error) {
	const query = `
		SELECT genre
		FROM games
		WHERE genre <> ''
		GROUP BY genre
		ORDER BY MIN(position) ASC
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.Query(timeoutCtx, query)
	if err != nil {
		return nil, fmt.Errorf("list genres: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var genre string
		if err := rows.Scan(&genre); err != nil {
			return nil, err
		}
		out = append(out, genre)
	}
	return out, rows.Err()
}

// Upsert writes games in the given order, which becomes the catalog order.
func (r *PostgresRepo) Upsert(ctx context.Context, games []Game) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	const upsertSQL = `
		INSERT INTO games (id, name, genre, description, price, image, is_new, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			genre = EXCLUDED.genre,
			description = EXCLUDED.description,
			price = EXCLUDED.price,
			image = EXCLUDED.image,
			is_new = EXCLUDED.is_new,
			position = EXCLUDED.position`

	batch := &pgx.Batch{}
	for i, g := range games {
		batch.Queue(upsertSQL, g.ID, g.Name, g.Genre, g.Description, g.Price, g.Image, g.IsNew, i+1)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("upsert games: %w", err)
	}
	return tx.Commit(ctx)
}
