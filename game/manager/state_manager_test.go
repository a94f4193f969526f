package manager

import (
	"bytes"
	"context"
	"errors"
	"log"
	"strings"
	"testing"
	"time"

	"golang.org/x/exp/rand"

	"gridsnake/game/clock"
	"gridsnake/game/entity"
	"gridsnake/game/types"
	"gridsnake/storage"
)

// memStore is an in-memory storage.Store that can be told to fail
type memStore struct {
	high    int
	records []storage.GameRecord
	err     error
}

func (m *memStore) LoadHighScore(context.Context) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	return m.high, nil
}

func (m *memStore) SaveHighScore(_ context.Context, score int) error {
	if m.err != nil {
		return m.err
	}
	m.high = score
	return nil
}

func (m *memStore) RecordGame(_ context.Context, r storage.GameRecord) error {
	if m.err != nil {
		return m.err
	}
	m.records = append(m.records, r)
	return nil
}

func (m *memStore) RecentGames(_ context.Context, limit int) ([]storage.GameRecord, error) {
	if m.err != nil {
		return nil, m.err
	}
	if len(m.records) > limit {
		return m.records[len(m.records)-limit:], nil
	}
	return m.records, nil
}

func record(score int, d time.Duration) storage.GameRecord {
	start := time.Date(2026, time.May, 4, 10, 0, 0, 0, time.UTC)
	return storage.GameRecord{SessionID: "run", Score: score, StartedAt: start, EndedAt: start.Add(d)}
}

func TestStateManagerLoadsAndSaves(t *testing.T) {
	store := &memStore{high: 120, records: []storage.GameRecord{record(120, time.Minute)}}
	sm := NewStateManager(store, log.New(&bytes.Buffer{}, "", 0))
	sm.LoadStats()

	if sm.GetHighScore() != 120 {
		t.Errorf("Expected high score 120, got %d", sm.GetHighScore())
	}
	if sm.UpdateScore(100) {
		t.Errorf("Expected 100 not to beat 120")
	}
	if !sm.UpdateScore(130) || store.high != 130 {
		t.Errorf("Expected 130 to be saved, store has %d", store.high)
	}

	sm.AddToHistory(record(130, 2*time.Minute))
	if got := sm.GetScoreHistory(); len(got) != 2 || got[1] != 130 {
		t.Errorf("Expected score history [120 130], got %v", got)
	}
	if len(store.records) != 2 {
		t.Errorf("Expected the run to be recorded in the store")
	}
}

func TestStateManagerToleratesStoreFailure(t *testing.T) {
	var buf bytes.Buffer
	store := &memStore{err: errors.New("disk gone")}
	sm := NewStateManager(store, log.New(&buf, "", 0))

	sm.LoadStats()
	if sm.GetHighScore() != 0 {
		t.Errorf("Expected default high score 0, got %d", sm.GetHighScore())
	}
	if !sm.UpdateScore(40) || sm.GetHighScore() != 40 {
		t.Errorf("Expected in-memory high score to advance despite store failure")
	}
	sm.AddToHistory(record(40, time.Second))
	if len(sm.GetHistory()) != 1 {
		t.Errorf("Expected history kept in memory")
	}
	if !strings.Contains(buf.String(), "disk gone") {
		t.Errorf("Expected store failures to be logged, got %q", buf.String())
	}
}

func TestStateManagerNilStore(t *testing.T) {
	sm := NewStateManager(nil, log.New(&bytes.Buffer{}, "", 0))
	sm.LoadStats()
	if sm.GetHighScore() != 0 || len(sm.GetHistory()) != 0 {
		t.Errorf("Expected empty state with the no-op store")
	}
}

func TestSummary(t *testing.T) {
	sm := NewStateManager(nil, log.New(&bytes.Buffer{}, "", 0))
	if s := sm.Summary(); s.Games != 0 {
		t.Errorf("Expected empty summary, got %+v", s)
	}

	sm.AddToHistory(record(30, 10*time.Second))
	sm.AddToHistory(record(10, 20*time.Second))
	sm.AddToHistory(record(50, 30*time.Second))

	s := sm.Summary()
	if s.Games != 3 || s.Best != 50 {
		t.Errorf("Expected 3 games best 50, got %+v", s)
	}
	if s.MeanScore != 30 || s.MedianScore != 30 {
		t.Errorf("Expected mean and median 30, got %+v", s)
	}
	if s.MeanDuration != 20*time.Second {
		t.Errorf("Expected mean duration 20s, got %v", s.MeanDuration)
	}
}

func TestHistoryIsCapped(t *testing.T) {
	sm := NewStateManager(nil, log.New(&bytes.Buffer{}, "", 0))
	for i := 0; i < maxHistory+5; i++ {
		sm.AddToHistory(record(i, time.Second))
	}
	h := sm.GetScoreHistory()
	if len(h) != maxHistory || h[0] != 5 {
		t.Errorf("Expected the oldest runs to be dropped, len=%d first=%d", len(h), h[0])
	}
}

func TestFoodManagerPlacement(t *testing.T) {
	board := NewBoard(2, rand.New(rand.NewSource(3)))
	sched := clock.NewScheduler(clock.NewMockTime(time.Unix(0, 0)))
	cfg := entity.DefaultFoodConfig()
	cfg.SpecialChance = 0
	food := entity.NewFood(cfg, sched, rand.New(rand.NewSource(3)), log.New(&bytes.Buffer{}, "", 0))
	fm := NewFoodManager(board, food, NewCollisionManager(board), log.New(&bytes.Buffer{}, "", 0))

	occupied := []types.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}}
	if !fm.GenerateFood(occupied) {
		t.Fatalf("Expected food to be placed")
	}
	if fm.GetFood().Position() != (types.Point{X: 1, Y: 1}) {
		t.Errorf("Expected food on the only free cell, got %v", fm.GetFood().Position())
	}
	if !fm.CheckFoodCollision(types.Point{X: 1, Y: 1}) || fm.CheckFoodCollision(types.Point{}) {
		t.Errorf("Expected food collision only on the food cell")
	}

	if fm.GenerateFood(append(occupied, types.Point{X: 1, Y: 1})) {
		t.Errorf("Expected no placement on a full board")
	}
	if fm.GetFood().Position() != (types.Point{X: 1, Y: 1}) {
		t.Errorf("Expected food untouched when the board is full")
	}
}
