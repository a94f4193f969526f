package game

import (
	"time"

	"gridsnake/game/types"
)

// Phase is where a run stands
type Phase int

const (
	PhaseReady Phase = iota
	PhasePlaying
	PhasePaused
	PhaseGameOver
	PhaseWon
)

func (p Phase) String() string {
	switch p {
	case PhasePlaying:
		return "playing"
	case PhasePaused:
		return "paused"
	case PhaseGameOver:
		return "gameOver"
	case PhaseWon:
		return "won"
	default:
		return "ready"
	}
}

// State is a copy of the game's state record. The three flags are derived
// from Phase: a won run is neither playing nor over.
type State struct {
	Phase      Phase
	IsPlaying  bool
	IsPaused   bool
	IsGameOver bool
	Score      int
	HighScore  int
	Level      int
	Speed      time.Duration
	FoodEaten  int
	SessionID  string
}

func (s *State) setPhase(p Phase) {
	s.Phase = p
	s.IsPlaying = p == PhasePlaying || p == PhasePaused
	s.IsPaused = p == PhasePaused
	s.IsGameOver = p == PhaseGameOver
}

// Snapshot is everything a renderer needs for one frame
type Snapshot struct {
	Board     [][]types.Cell
	Snake     []types.Point
	SnakeHead types.Point
	Food      types.Point
	FoodType  types.FoodType
	State     State
}
