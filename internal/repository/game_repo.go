package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"sk8_webapp/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// txAttempts bounds transparent retries of a transform that lost a
// serialization conflict. The caller sees aborted after that.
const txAttempts = 3

type GameRepository struct {
	db *pgxpool.Pool
}

func NewGameRepository(db *pgxpool.Pool) *GameRepository {
	return &GameRepository{db: db}
}

func (r *GameRepository) Create(ctx context.Context, g *domain.Game) error {
	state, err := json.Marshal(g)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx,
		`INSERT INTO games (id, code, state, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		g.ID, g.Code, state, g.CreatedAt, g.UpdatedAt,
	)
	return err
}

func (r *GameRepository) GetByID(ctx context.Context, id string) (*domain.Game, error) {
	row := r.db.QueryRow(ctx,
		`SELECT state, created_at, updated_at FROM games WHERE id = $1`, id)
	return scanGame(row, id)
}

// FindIDByCode resolves a join code to a game id.
func (r *GameRepository) FindIDByCode(ctx context.Context, code string) (string, error) {
	var id string
	err := r.db.QueryRow(ctx, `SELECT id FROM games WHERE code = $1`, code).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", domain.NewError(domain.KindNotFound, "game code not found")
	}
	if err != nil {
		return "", err
	}
	return id, nil
}

func (r *GameRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM games WHERE code = $1)`, code).Scan(&exists)
	return exists, err
}

// Transform atomically applies fn to the stored aggregate: the game row
// is locked for the duration of the transaction, so two transitions
// racing on one game serialize instead of committing against a stale
// read. Domain errors from fn roll the transaction back and surface
// unmodified; conflict aborts are retried a bounded number of times.
func (r *GameRepository) Transform(ctx context.Context, id string, fn func(g *domain.Game) error) (*domain.Game, error) {
	var lastErr error
	for attempt := 0; attempt < txAttempts; attempt++ {
		g, err := r.transformOnce(ctx, id, fn)
		if err == nil {
			return g, nil
		}
		if !retryableTxError(err) {
			return nil, err
		}
		lastErr = err
	}
	return nil, domain.Errorf(domain.KindAborted, "game update conflicted, please retry: %v", lastErr)
}

func (r *GameRepository) transformOnce(ctx context.Context, id string, fn func(g *domain.Game) error) (*domain.Game, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	row := tx.QueryRow(ctx,
		`SELECT state, created_at, updated_at FROM games WHERE id = $1 FOR UPDATE`, id)
	g, err := scanGame(row, id)
	if err != nil {
		return nil, err
	}

	if err := fn(g); err != nil {
		return nil, err
	}

	g.UpdatedAt = time.Now().UTC()
	state, err := json.Marshal(g)
	if err != nil {
		return nil, err
	}
	if _, err := tx.Exec(ctx,
		`UPDATE games SET state = $1, updated_at = $2 WHERE id = $3`,
		state, g.UpdatedAt, id,
	); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return g, nil
}

// ListByUser returns games the uid participates in, newest first.
func (r *GameRepository) ListByUser(ctx context.Context, uid string) ([]*domain.Game, error) {
	rows, err := r.db.Query(ctx,
		`SELECT state, created_at, updated_at
		 FROM games
		 WHERE state->'players'->'A'->>'uid' = $1
		    OR state->'players'->'B'->>'uid' = $1
		 ORDER BY updated_at DESC
		 LIMIT 50`,
		uid,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*domain.Game
	for rows.Next() {
		var (
			state     []byte
			createdAt time.Time
			updatedAt time.Time
		)
		if err := rows.Scan(&state, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		g, err := decodeGame(state, createdAt, updatedAt)
		if err != nil {
			return nil, err
		}
		res = append(res, g)
	}
	return res, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGame(row rowScanner, id string) (*domain.Game, error) {
	var (
		state     []byte
		createdAt time.Time
		updatedAt time.Time
	)
	if err := row.Scan(&state, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewError(domain.KindNotFound, "game not found")
		}
		return nil, err
	}
	return decodeGame(state, createdAt, updatedAt)
}

func decodeGame(state []byte, createdAt, updatedAt time.Time) (*domain.Game, error) {
	var g domain.Game
	if err := json.Unmarshal(state, &g); err != nil {
		return nil, fmt.Errorf("decode game state: %w", err)
	}
	g.CreatedAt = createdAt
	g.UpdatedAt = updatedAt
	return &g, nil
}

// retryableTxError matches serialization failures and deadlocks, the
// two SQLSTATEs Postgres raises when concurrent transactions collide.
func retryableTxError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}
