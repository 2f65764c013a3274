package repository

import (
	"context"
	"errors"
	"time"

	"sk8_webapp/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RateLimitRepository counts requests per key in a fixed window, using
// the same row-lock transaction discipline as the game store so
// concurrent requests for one key never undercount.
type RateLimitRepository struct {
	db *pgxpool.Pool
}

func NewRateLimitRepository(db *pgxpool.Pool) *RateLimitRepository {
	return &RateLimitRepository{db: db}
}

// Increment bumps the counter for key, resetting it when the window has
// expired, and fails resource-exhausted once the limit is reached.
func (r *RateLimitRepository) Increment(ctx context.Context, key string, limit int, window time.Duration) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	now := time.Now().UTC()
	count, windowStart := 0, now

	err = tx.QueryRow(ctx,
		`SELECT count, window_start FROM rate_limits WHERE key = $1 FOR UPDATE`,
		key,
	).Scan(&count, &windowStart)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return err
	}
	if errors.Is(err, pgx.ErrNoRows) || now.Sub(windowStart) >= window {
		count, windowStart = 0, now
	}

	if count+1 > limit {
		return domain.NewError(domain.KindResourceExhausted, "too many requests, please slow down")
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO rate_limits (key, count, window_start, updated_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (key) DO UPDATE
		 SET count = $2, window_start = $3, updated_at = $4`,
		key, count+1, windowStart, now,
	); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
