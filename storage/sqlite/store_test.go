package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"gridsnake/storage"
)

func openTempStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Fatalf("close store: %v", err)
		}
	})
	return store
}

func TestOpenRequiresPath(t *testing.T) {
	t.Parallel()

	if _, err := Open("  "); err == nil {
		t.Fatal("expected empty path error")
	}
}

func TestHighScoreRoundTrip(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx := context.Background()

	score, err := store.LoadHighScore(ctx)
	if err != nil {
		t.Fatalf("load high score: %v", err)
	}
	if score != 0 {
		t.Fatalf("expected 0 before any save, got %d", score)
	}

	for _, v := range []int{40, 90} {
		if err := store.SaveHighScore(ctx, v); err != nil {
			t.Fatalf("save high score %d: %v", v, err)
		}
	}
	score, err = store.LoadHighScore(ctx)
	if err != nil {
		t.Fatalf("load high score: %v", err)
	}
	if score != 90 {
		t.Fatalf("expected 90, got %d", score)
	}
}

func TestHighScoreSurvivesReopen(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "scores.db")
	first, err := Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if err := first.SaveHighScore(context.Background(), 250); err != nil {
		t.Fatalf("save high score: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("close store: %v", err)
	}

	second, err := Open(path)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	defer second.Close()

	score, err := second.LoadHighScore(context.Background())
	if err != nil {
		t.Fatalf("load high score: %v", err)
	}
	if score != 250 {
		t.Fatalf("expected 250 after reopen, got %d", score)
	}
}

func TestRecordAndListGames(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx := context.Background()
	base := time.Date(2026, time.February, 22, 16, 40, 0, 0, time.UTC)

	for i, id := range []string{"run-a", "run-b", "run-c"} {
		record := storage.GameRecord{
			SessionID: id,
			Score:     (i + 1) * 10,
			Level:     1,
			FoodEaten: i + 1,
			Length:    4 + i,
			Outcome:   storage.OutcomeGameOver,
			StartedAt: base.Add(time.Duration(i) * time.Minute),
			EndedAt:   base.Add(time.Duration(i)*time.Minute + 30*time.Second),
		}
		if err := store.RecordGame(ctx, record); err != nil {
			t.Fatalf("record game %s: %v", id, err)
		}
	}

	got, err := store.RecentGames(ctx, 2)
	if err != nil {
		t.Fatalf("recent games: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 games, got %d", len(got))
	}
	if got[0].SessionID != "run-b" || got[1].SessionID != "run-c" {
		t.Fatalf("expected latest games oldest first, got %s, %s", got[0].SessionID, got[1].SessionID)
	}
	if got[1].Score != 30 || got[1].Length != 6 || got[1].Outcome != storage.OutcomeGameOver {
		t.Fatalf("unexpected record %+v", got[1])
	}
	if got[1].Duration() != 30*time.Second {
		t.Fatalf("expected 30s duration, got %v", got[1].Duration())
	}
}

func TestRecordGameRejectsDuplicates(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx := context.Background()
	record := storage.GameRecord{SessionID: "run-1", Outcome: storage.OutcomeWon}

	if err := store.RecordGame(ctx, record); err != nil {
		t.Fatalf("record game: %v", err)
	}
	if err := store.RecordGame(ctx, record); !errors.Is(err, storage.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
	if err := store.RecordGame(ctx, storage.GameRecord{}); err == nil {
		t.Fatal("expected missing session id error")
	}
}

func TestNilStoreIsNotConfigured(t *testing.T) {
	t.Parallel()

	var store *Store
	if _, err := store.LoadHighScore(context.Background()); !errors.Is(err, storage.ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("expected nil close on nil store, got %v", err)
	}
}

func TestCanceledContext(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := store.SaveHighScore(ctx, 10); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestApplyMigrationsIsIdempotent(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	fs := fstest.MapFS{
		"0002_extra.sql": {Data: []byte("-- +migrate Up\nCREATE TABLE extra (id INTEGER);\n-- +migrate Down\nDROP TABLE extra;\n")},
	}
	for i := 0; i < 2; i++ {
		if err := applyMigrations(context.Background(), store.sqlDB, fs); err != nil {
			t.Fatalf("apply migrations pass %d: %v", i, err)
		}
	}

	var count int
	if err := store.sqlDB.QueryRow("SELECT COUNT(*) FROM " + migrationTable).Scan(&count); err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 applied migrations, got %d", count)
	}
}

func TestExtractUpMigration(t *testing.T) {
	t.Parallel()

	got := extractUpMigration("-- +migrate Up\nSELECT 1;\n-- +migrate Down\nSELECT 2;\n")
	if got != "\nSELECT 1;\n" {
		t.Fatalf("unexpected up section %q", got)
	}
	if plain := extractUpMigration("SELECT 3;"); plain != "SELECT 3;" {
		t.Fatalf("expected whole content without markers, got %q", plain)
	}
}
