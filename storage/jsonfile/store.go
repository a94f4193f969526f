// Package jsonfile stores the high score and run history in a single JSON
// document on disk.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gridsnake/storage"
)

// DefaultPath is where the desktop frontend keeps its stats
const DefaultPath = "data/gamestats.json"

// maxGames bounds the history kept in the file
const maxGames = 500

type gameStats struct {
	HighScore int                  `json:"highScore"`
	Games     []storage.GameRecord `json:"games"`
}

// Store reads and rewrites the whole file on every call.
type Store struct {
	path  string
	mutex sync.Mutex
}

// Open prepares a store at path, creating its directory if needed. The
// file itself is created on the first write.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(cleanPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &Store{path: cleanPath}, nil
}

// Path returns the file backing the store
func (s *Store) Path() string {
	return s.path
}

func (s *Store) LoadHighScore(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if s == nil {
		return 0, storage.ErrNotConfigured
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()

	stats, err := s.load()
	if err != nil {
		return 0, err
	}
	return stats.HighScore, nil
}

func (s *Store) SaveHighScore(ctx context.Context, score int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil {
		return storage.ErrNotConfigured
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()

	stats, err := s.load()
	if err != nil {
		return err
	}
	stats.HighScore = score
	return s.save(stats)
}

func (s *Store) RecordGame(ctx context.Context, record storage.GameRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil {
		return storage.ErrNotConfigured
	}
	if strings.TrimSpace(record.SessionID) == "" {
		return fmt.Errorf("session id is required")
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()

	stats, err := s.load()
	if err != nil {
		return err
	}
	for _, g := range stats.Games {
		if g.SessionID == record.SessionID {
			return storage.ErrAlreadyExists
		}
	}
	stats.Games = append(stats.Games, record)
	if len(stats.Games) > maxGames {
		stats.Games = stats.Games[len(stats.Games)-maxGames:]
	}
	return s.save(stats)
}

// RecentGames returns up to limit of the latest runs, oldest first.
func (s *Store) RecentGames(ctx context.Context, limit int) ([]storage.GameRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil {
		return nil, storage.ErrNotConfigured
	}
	if limit <= 0 {
		return nil, nil
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()

	stats, err := s.load()
	if err != nil {
		return nil, err
	}
	games := stats.Games
	if len(games) > limit {
		games = games[len(games)-limit:]
	}
	return games, nil
}

// load reads the file; a missing file is an empty history
func (s *Store) load() (gameStats, error) {
	var stats gameStats
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return stats, nil
		}
		return stats, fmt.Errorf("failed to read stats file: %w", err)
	}
	if err := json.Unmarshal(data, &stats); err != nil {
		return stats, fmt.Errorf("failed to parse stats file: %w", err)
	}
	return stats, nil
}

// save writes to a sibling temp file and renames it over the original
func (s *Store) save(stats gameStats) error {
	data, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal stats data: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write stats file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace stats file: %w", err)
	}
	return nil
}

var _ storage.Store = (*Store)(nil)
