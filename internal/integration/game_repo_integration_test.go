package integration

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"sk8_webapp/internal/domain"
	"sk8_webapp/internal/game"
	"sk8_webapp/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

func applyMigrations(t *testing.T, db *pgxpool.Pool) {
	t.Helper()
	migDir := filepath.Join("..", "..", "internal", "migrations")
	files, err := os.ReadDir(migDir)
	if err != nil {
		t.Fatalf("read migrations: %v", err)
	}
	for _, f := range files {
		b, err := os.ReadFile(filepath.Join(migDir, f.Name()))
		if err != nil {
			t.Fatalf("read file: %v", err)
		}
		if _, err := db.Exec(context.Background(), string(b)); err != nil {
			t.Fatalf("apply migration %s: %v", f.Name(), err)
		}
	}
}

func connectTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}
	db, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(db.Close)
	applyMigrations(t, db)
	return db
}

func TestGameRepository_RoundTrip(t *testing.T) {
	db := connectTestDB(t)
	repo := repository.NewGameRepository(db)
	ctx := context.Background()

	code, err := game.NewCode(ctx, repo.CodeExists)
	if err != nil {
		t.Fatalf("new code: %v", err)
	}
	g := game.New(uuid.NewString(), code, "uid-ann", "Ann", time.Now().UTC())
	if err := repo.Create(ctx, g); err != nil {
		t.Fatalf("create game: %v", err)
	}

	id, err := repo.FindIDByCode(ctx, code)
	if err != nil {
		t.Fatalf("find by code: %v", err)
	}
	if id != g.ID {
		t.Fatalf("FindIDByCode = %q; want %q", id, g.ID)
	}

	updated, err := repo.Transform(ctx, g.ID, func(cur *domain.Game) error {
		return game.Join(cur, "uid-bob", "Bob")
	})
	if err != nil {
		t.Fatalf("transform: %v", err)
	}
	if updated.Players[domain.SlotB].UID != "uid-bob" {
		t.Fatalf("slot B after join: %+v", updated.Players[domain.SlotB])
	}

	stored, err := repo.GetByID(ctx, g.ID)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if stored.Phase != domain.PhaseSetRecord || stored.Turn != domain.SlotA {
		t.Fatalf("phase=%s turn=%s after join", stored.Phase, stored.Turn)
	}

	mine, err := repo.ListByUser(ctx, "uid-bob")
	if err != nil {
		t.Fatalf("list by user: %v", err)
	}
	found := false
	for _, m := range mine {
		if m.ID == g.ID {
			found = true
		}
	}
	if !found {
		t.Fatalf("game %s missing from uid-bob listing", g.ID)
	}
}

func TestRateLimitRepository_Window(t *testing.T) {
	db := connectTestDB(t)
	repo := repository.NewRateLimitRepository(db)
	ctx := context.Background()

	key := "uid_test_" + uuid.NewString()
	for i := 0; i < 3; i++ {
		if err := repo.Increment(ctx, key, 3, time.Minute); err != nil {
			t.Fatalf("increment %d: %v", i, err)
		}
	}
	err := repo.Increment(ctx, key, 3, time.Minute)
	if domain.KindOf(err) != domain.KindResourceExhausted {
		t.Fatalf("err = %v; want resource exhausted", err)
	}

	// a tiny window expires immediately, resetting the count
	shortKey := key + "_short"
	for i := 0; i < 5; i++ {
		if err := repo.Increment(ctx, shortKey, 2, time.Nanosecond); err != nil {
			t.Fatalf("short-window increment %d: %v", i, err)
		}
	}
}
