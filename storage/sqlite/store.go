// Package sqlite provides a SQLite-backed score store.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"gridsnake/storage"
	"gridsnake/storage/sqlite/migrations"
)

// Store persists the high score and finished runs in SQLite.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite score store and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(context.Background(), sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// LoadHighScore returns the saved high score, 0 when none was saved.
func (s *Store) LoadHighScore(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if s == nil || s.sqlDB == nil {
		return 0, storage.ErrNotConfigured
	}

	var score int
	err := s.sqlDB.QueryRowContext(ctx, `SELECT score FROM high_score WHERE id = 1`).Scan(&score)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("load high score: %w", err)
	}
	return score, nil
}

// SaveHighScore replaces the saved high score.
func (s *Store) SaveHighScore(ctx context.Context, score int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return storage.ErrNotConfigured
	}
	if score < 0 {
		return fmt.Errorf("high score must not be negative")
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO high_score (id, score, updated_at) VALUES (1, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET score = excluded.score, updated_at = excluded.updated_at`,
		score,
		toMillis(time.Now()),
	)
	if err != nil {
		return fmt.Errorf("save high score: %w", err)
	}
	return nil
}

// RecordGame inserts one finished run.
func (s *Store) RecordGame(ctx context.Context, record storage.GameRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return storage.ErrNotConfigured
	}
	sessionID := strings.TrimSpace(record.SessionID)
	if sessionID == "" {
		return fmt.Errorf("session id is required")
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO game_records (
		   session_id,
		   score,
		   level,
		   food_eaten,
		   length,
		   outcome,
		   started_at,
		   ended_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		sessionID,
		record.Score,
		record.Level,
		record.FoodEaten,
		record.Length,
		string(record.Outcome),
		toMillis(record.StartedAt),
		toMillis(record.EndedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("record game: %w", err)
	}
	return nil
}

// RecentGames returns up to limit of the latest runs, oldest first.
func (s *Store) RecentGames(ctx context.Context, limit int) ([]storage.GameRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, storage.ErrNotConfigured
	}
	if limit <= 0 {
		return nil, nil
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT session_id, score, level, food_eaten, length, outcome, started_at, ended_at
		 FROM (
		   SELECT rowid AS seq, * FROM game_records ORDER BY ended_at DESC, rowid DESC LIMIT ?
		 )
		 ORDER BY ended_at ASC, seq ASC`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	defer rows.Close()

	records := make([]storage.GameRecord, 0, limit)
	for rows.Next() {
		var (
			r         storage.GameRecord
			outcome   string
			startedAt int64
			endedAt   int64
		)
		if err := rows.Scan(&r.SessionID, &r.Score, &r.Level, &r.FoodEaten, &r.Length, &outcome, &startedAt, &endedAt); err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}
		r.Outcome = storage.Outcome(outcome)
		r.StartedAt = fromMillis(startedAt)
		r.EndedAt = fromMillis(endedAt)
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate games: %w", err)
	}
	return records, nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	message := strings.ToLower(err.Error())
	return strings.Contains(message, "unique constraint failed")
}

var _ storage.Store = (*Store)(nil)
