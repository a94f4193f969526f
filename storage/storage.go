// Package storage defines the persistence contract the game uses for its
// high score and finished-run history.
package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotConfigured is returned by stores used before Open or after Close.
var ErrNotConfigured = errors.New("storage is not configured")

// ErrAlreadyExists is returned when a run with the same session id was already recorded.
var ErrAlreadyExists = errors.New("game record already exists")

// Outcome is how a run ended.
type Outcome string

const (
	OutcomeGameOver Outcome = "game_over"
	OutcomeWon      Outcome = "won"
)

// GameRecord is one finished run.
type GameRecord struct {
	SessionID string    `json:"sessionId"`
	Score     int       `json:"score"`
	Level     int       `json:"level"`
	FoodEaten int       `json:"foodEaten"`
	Length    int       `json:"length"`
	Outcome   Outcome   `json:"outcome"`
	StartedAt time.Time `json:"startedAt"`
	EndedAt   time.Time `json:"endedAt"`
}

// Duration returns how long the run lasted.
func (r GameRecord) Duration() time.Duration {
	if r.EndedAt.Before(r.StartedAt) {
		return 0
	}
	return r.EndedAt.Sub(r.StartedAt)
}

// Store persists the high score and the history of finished runs.
type Store interface {
	LoadHighScore(ctx context.Context) (int, error)
	SaveHighScore(ctx context.Context, score int) error
	RecordGame(ctx context.Context, record GameRecord) error
	// RecentGames returns up to limit records, oldest first.
	RecentGames(ctx context.Context, limit int) ([]GameRecord, error)
}

// Nop is a Store that remembers nothing and always reports a zero high score.
type Nop struct{}

func (Nop) LoadHighScore(context.Context) (int, error)             { return 0, nil }
func (Nop) SaveHighScore(context.Context, int) error               { return nil }
func (Nop) RecordGame(context.Context, GameRecord) error           { return nil }
func (Nop) RecentGames(context.Context, int) ([]GameRecord, error) { return nil, nil }
