package manager

import (
	"context"
	"log"
	"slices"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"gridsnake/storage"
)

const (
	maxHistory   = 200 // finished runs kept in memory for the score graph
	storeTimeout = 2 * time.Second
)

// Summary aggregates the recorded run history
type Summary struct {
	Games        int
	Best         int
	MeanScore    float64
	MedianScore  float64
	MeanDuration time.Duration
}

// StateManager tracks the high score and finished runs, delegating
// persistence to a storage.Store. Store failures are logged and never
// interrupt play.
type StateManager struct {
	store     storage.Store
	logger    *log.Logger
	highScore int
	history   []storage.GameRecord
}

func NewStateManager(store storage.Store, logger *log.Logger) *StateManager {
	if store == nil {
		store = storage.Nop{}
	}
	if logger == nil {
		logger = log.Default()
	}
	return &StateManager{
		store:   store,
		logger:  logger,
		history: make([]storage.GameRecord, 0),
	}
}

// LoadStats reads the saved high score and recent history. On failure the
// high score stays 0 and the history empty.
func (sm *StateManager) LoadStats() {
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	score, err := sm.store.LoadHighScore(ctx)
	if err != nil {
		sm.logger.Printf("Warning: could not load high score: %v", err)
		score = 0
	}
	sm.highScore = score

	records, err := sm.store.RecentGames(ctx, maxHistory)
	if err != nil {
		sm.logger.Printf("Warning: could not load score history: %v", err)
		return
	}
	sm.history = records
}

// UpdateScore raises the high score when score beats it and persists the
// new value. It reports whether a new high score was set.
func (sm *StateManager) UpdateScore(score int) bool {
	if score <= sm.highScore {
		return false
	}
	sm.highScore = score

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	if err := sm.store.SaveHighScore(ctx, score); err != nil {
		sm.logger.Printf("Warning: could not save high score: %v", err)
	}
	return true
}

// AddToHistory records a finished run
func (sm *StateManager) AddToHistory(record storage.GameRecord) {
	if len(sm.history) >= maxHistory {
		sm.history = sm.history[1:]
	}
	sm.history = append(sm.history, record)

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	if err := sm.store.RecordGame(ctx, record); err != nil {
		sm.logger.Printf("Warning: could not record game %s: %v", record.SessionID, err)
	}
}

func (sm *StateManager) GetHighScore() int {
	return sm.highScore
}

// GetHistory returns a copy of the recorded runs, oldest first
func (sm *StateManager) GetHistory() []storage.GameRecord {
	return slices.Clone(sm.history)
}

// GetScoreHistory returns the scores of the recorded runs, oldest first
func (sm *StateManager) GetScoreHistory() []int {
	scores := make([]int, len(sm.history))
	for i, r := range sm.history {
		scores[i] = r.Score
	}
	return scores
}

// Summary computes mean, median and best score over the history
func (sm *StateManager) Summary() Summary {
	if len(sm.history) == 0 {
		return Summary{}
	}

	scores := make([]float64, len(sm.history))
	durations := make([]float64, len(sm.history))
	for i, r := range sm.history {
		scores[i] = float64(r.Score)
		durations[i] = r.Duration().Seconds()
	}

	sorted := slices.Clone(scores)
	slices.Sort(sorted)

	return Summary{
		Games:        len(scores),
		Best:         int(floats.Max(scores)),
		MeanScore:    stat.Mean(scores, nil),
		MedianScore:  stat.Quantile(0.5, stat.Empirical, sorted, nil),
		MeanDuration: time.Duration(stat.Mean(durations, nil) * float64(time.Second)),
	}
}
