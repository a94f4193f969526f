// Package game runs a single-player snake simulation on a square board.
//
// A Game owns its Board, Snake and Food and advances one cell per Update.
// It never starts timers of its own: the caller ticks Update every Speed()
// and special-food expiry is polled from inside Update. All methods must
// be called from one goroutine.
package game

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/exp/rand"

	"gridsnake/game/clock"
	"gridsnake/game/entity"
	"gridsnake/game/event"
	"gridsnake/game/manager"
	"gridsnake/game/types"
	"gridsnake/storage"
)

type Game struct {
	cfg   Config
	state State

	board        *manager.Board
	snake        *entity.Snake
	food         *entity.Food
	collisionMgr *manager.CollisionManager
	foodMgr      *manager.FoodManager
	stateMgr     *manager.StateManager

	sched     *clock.Scheduler
	rng       *rand.Rand
	logger    *log.Logger
	bus       *event.Bus
	events    Events
	subs      []event.Subscription
	startedAt time.Time
}

type options struct {
	store  storage.Store
	logger *log.Logger
	rng    *rand.Rand
	tp     clock.TimeProvider
	sink   event.ErrorSink
}

// Option customises a Game
type Option func(*options)

// WithStore persists the high score and finished runs. Without it the game
// keeps them in memory only.
func WithStore(store storage.Store) Option {
	return func(o *options) { o.store = store }
}

func WithLogger(logger *log.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithRand fixes the source used for food placement and type rolls
func WithRand(rng *rand.Rand) Option {
	return func(o *options) { o.rng = rng }
}

// WithTimeProvider sets the clock used for special-food expiry and run timestamps
func WithTimeProvider(tp clock.TimeProvider) Option {
	return func(o *options) { o.tp = tp }
}

// WithErrorSink receives panics recovered from event listeners of the game,
// its snake and its food.
func WithErrorSink(sink event.ErrorSink) Option {
	return func(o *options) { o.sink = sink }
}

// New builds a game in the ready phase with the snake centred on the board
// and the first food placed.
func New(cfg Config, opts ...Option) (*Game, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid game config: %w", err)
	}

	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = log.Default()
	}
	if o.rng == nil {
		o.rng = rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
	}

	g := &Game{
		cfg:    cfg,
		sched:  clock.NewScheduler(o.tp),
		rng:    o.rng,
		logger: o.logger,
		bus:    event.NewBus(o.logger),
	}
	g.events = newEvents(g.bus)

	g.board = manager.NewBoard(cfg.BoardSize, g.rng)
	g.collisionMgr = manager.NewCollisionManager(g.board)
	g.snake = entity.NewSnake(g.board.Center(), g.logger)
	g.food = entity.NewFood(cfg.Food, g.sched, g.rng, g.logger)
	g.foodMgr = manager.NewFoodManager(g.board, g.food, g.collisionMgr, g.logger)
	g.stateMgr = manager.NewStateManager(o.store, g.logger)

	if o.sink != nil {
		g.bus.SetErrorSink(o.sink)
		g.snake.Bus().SetErrorSink(o.sink)
		g.food.Bus().SetErrorSink(o.sink)
	}

	g.subs = append(g.subs,
		g.snake.Events().Move.On(func(e entity.MoveEvent) {
			g.events.SnakeMove.Emit(e)
		}),
		g.food.Events().SpecialExpired.On(func(e entity.ExpiredEvent) {
			g.events.FoodExpired.Emit(e)
		}),
	)

	g.stateMgr.LoadStats()
	g.state = State{
		HighScore: g.stateMgr.GetHighScore(),
		Level:     1,
		Speed:     cfg.InitialSpeed,
		SessionID: uuid.NewString(),
	}
	g.state.setPhase(PhaseReady)
	g.generateFood()

	g.events.StateChange.Emit(g.state)
	return g, nil
}

// Events exposes the game's topics
func (g *Game) Events() *Events {
	return &g.events
}

// Bus exposes the game's event bus
func (g *Game) Bus() *event.Bus {
	return g.bus
}

// Start begins play from the ready phase. A finished run is reset first;
// starting while playing or paused does nothing.
func (g *Game) Start() {
	switch g.state.Phase {
	case PhasePlaying, PhasePaused:
		g.logger.Printf("game: start ignored, already %s", g.state.Phase)
		return
	case PhaseGameOver, PhaseWon:
		g.Reset()
	}

	g.state.setPhase(PhasePlaying)
	g.startedAt = g.sched.Now()

	g.events.GameStart.Emit(g.state)
	g.events.StateChange.Emit(g.state)
}

// TogglePause switches between playing and paused. It does nothing in any
// other phase.
func (g *Game) TogglePause() {
	switch g.state.Phase {
	case PhasePlaying:
		g.state.setPhase(PhasePaused)
	case PhasePaused:
		g.state.setPhase(PhasePlaying)
	default:
		g.logger.Printf("game: pause ignored while %s", g.state.Phase)
		return
	}

	g.events.GamePause.Emit(PauseEvent{IsPaused: g.state.IsPaused})
	g.events.StateChange.Emit(g.state)
}

// Reset returns to the ready phase with a fresh snake, food and score.
// The high score survives.
func (g *Game) Reset() {
	g.state = State{
		HighScore: g.state.HighScore,
		Level:     1,
		Speed:     g.cfg.InitialSpeed,
		SessionID: uuid.NewString(),
	}
	g.state.setPhase(PhaseReady)

	g.snake.Reset(g.board.Center())
	g.generateFood()

	g.events.GameReset.Emit(g.state)
	g.events.StateChange.Emit(g.state)
}

// Update advances the game by one tick. It does nothing unless playing.
func (g *Game) Update() {
	if g.state.Phase != PhasePlaying {
		return
	}
	g.sched.RunDue()

	res := g.snake.Move(g.collisionMgr)
	if !res.Success {
		g.finish(PhaseGameOver, res.Collision)
		return
	}

	won := false
	if g.foodMgr.CheckFoodCollision(res.NewHead) {
		eaten := g.food.Consume()
		won = !g.consume()
		g.checkLevelUp()

		g.events.FoodEaten.Emit(FoodEatenEvent{
			Score:        g.state.Score,
			Level:        g.state.Level,
			FoodPosition: g.food.Position(),
			Eaten:        eaten,
		})
	} else {
		g.checkLevelUp()
	}

	if won {
		g.finish(PhaseWon, types.NoCollision)
	}
	g.events.GameUpdate.Emit(g.GetGameData())
}

// consume grows the snake, scores the food and places the next one. It
// returns false when the board has no free cell left.
func (g *Game) consume() bool {
	g.snake.Grow()
	g.state.Score += g.cfg.PointsPerFood
	g.state.FoodEaten++

	if g.stateMgr.UpdateScore(g.state.Score) {
		g.state.HighScore = g.state.Score
		g.events.NewHighScore.Emit(g.state.HighScore)
	}

	return g.generateFood()
}

// checkLevelUp keeps level at score/PointsForLevelUp + 1 and speeds up
// once per change, never below MinSpeed and never slower than before.
func (g *Game) checkLevelUp() {
	newLevel := g.state.Score/g.cfg.PointsForLevelUp + 1
	if newLevel <= g.state.Level {
		return
	}

	g.state.Level = newLevel
	g.state.Speed = min(g.state.Speed, max(g.cfg.MinSpeed, g.state.Speed-g.cfg.SpeedIncrement))

	g.logger.Printf("game: level %d, speed %v", g.state.Level, g.state.Speed)
	g.events.LevelUp.Emit(LevelUpEvent{Level: g.state.Level, Speed: g.state.Speed})
}

func (g *Game) generateFood() bool {
	return g.foodMgr.GenerateFood(g.snake.Positions())
}

func (g *Game) finish(phase Phase, collision types.CollisionType) {
	g.state.setPhase(phase)

	outcome := storage.OutcomeGameOver
	if phase == PhaseWon {
		outcome = storage.OutcomeWon
	}
	g.stateMgr.AddToHistory(storage.GameRecord{
		SessionID: g.state.SessionID,
		Score:     g.state.Score,
		Level:     g.state.Level,
		FoodEaten: g.state.FoodEaten,
		Length:    g.snake.Length(),
		Outcome:   outcome,
		StartedAt: g.startedAt,
		EndedAt:   g.sched.Now(),
	})

	payload := OutcomeEvent{
		Score:     g.state.Score,
		HighScore: g.state.HighScore,
		Level:     g.state.Level,
		Collision: collision,
	}
	if phase == PhaseWon {
		g.logger.Printf("game: board full, won with %d points", g.state.Score)
		g.events.GameWin.Emit(payload)
	} else {
		g.logger.Printf("game: %s collision, game over with %d points", collision, g.state.Score)
		g.events.GameOver.Emit(payload)
	}
	g.events.StateChange.Emit(g.state)
}

// ChangeDirection steers the snake by name ("up", "down", "left", "right").
// Unknown names are logged and ignored.
func (g *Game) ChangeDirection(direction string) {
	d, ok := types.ParseDirection(direction)
	if !ok {
		g.logger.Printf("game: ignoring unknown direction %q", direction)
		return
	}
	g.Steer(d)
}

// Steer queues d for the next tick while playing. It reports whether the
// snake accepted the turn.
func (g *Game) Steer(d types.Direction) bool {
	if g.state.Phase != PhasePlaying {
		return false
	}
	return g.snake.SetDirection(d)
}

// GetGameData returns a render snapshot of the board, snake, food and state
func (g *Game) GetGameData() Snapshot {
	grid := g.board.Grid()
	positions := g.snake.Positions()
	for i, p := range positions {
		if !g.board.IsValidPosition(p) {
			continue
		}
		if i == 0 {
			grid[p.Y][p.X] = types.CellHead
		} else {
			grid[p.Y][p.X] = types.CellSnake
		}
	}
	food := g.food.Position()
	if g.board.IsValidPosition(food) && grid[food.Y][food.X] == types.CellEmpty {
		grid[food.Y][food.X] = types.CellFood
	}

	return Snapshot{
		Board:     grid,
		Snake:     positions,
		SnakeHead: g.snake.GetHead(),
		Food:      food,
		FoodType:  g.food.Type(),
		State:     g.state,
	}
}

// State returns a copy of the state record
func (g *Game) State() State {
	return g.state
}

// Speed is the interval the caller should wait between Update calls
func (g *Game) Speed() time.Duration {
	return g.state.Speed
}

func (g *Game) Config() Config {
	return g.cfg
}

// FoodInfo describes the current food item
func (g *Game) FoodInfo() entity.FoodInfo {
	return g.food.Info()
}

// BoardStats reports how much of the board the snake covers
func (g *Game) BoardStats() manager.BoardStats {
	return g.board.Stats(g.snake.Positions())
}

// UpdateConfig applies cfg. A new board size resizes the board and resets
// the run; other settings take effect from the next food or level change.
func (g *Game) UpdateConfig(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid game config: %w", err)
	}

	resize := cfg.BoardSize != g.board.Size()
	g.cfg = cfg
	g.food.SetConfig(cfg.Food)
	if resize {
		g.board.Resize(cfg.BoardSize)
		g.Reset()
	}

	g.events.ConfigChange.Emit(g.cfg)
	return nil
}

// History returns finished runs, oldest first
func (g *Game) History() []storage.GameRecord {
	return g.stateMgr.GetHistory()
}

// Summary aggregates finished runs
func (g *Game) Summary() manager.Summary {
	return g.stateMgr.Summary()
}

// Close cancels pending timers and detaches every listener. The game must
// not be used afterwards.
func (g *Game) Close() {
	for _, sub := range g.subs {
		sub.Unsubscribe()
	}
	g.subs = nil
	g.sched.StopAll()
	g.snake.Close()
	g.food.Close()
	g.bus.RemoveAllListeners()
}
