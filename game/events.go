package game

import (
	"time"

	"gridsnake/game/entity"
	"gridsnake/game/event"
	"gridsnake/game/types"
)

// PauseEvent is the gamePause payload
type PauseEvent struct {
	IsPaused bool
}

// OutcomeEvent is the gameOver and gameWin payload
type OutcomeEvent struct {
	Score     int
	HighScore int
	Level     int
	Collision types.CollisionType
}

// FoodEatenEvent is the foodEaten payload. FoodPosition is where the next
// food was placed; it is unchanged when the board filled up.
type FoodEatenEvent struct {
	Score        int
	Level        int
	FoodPosition types.Point
	Eaten        entity.FoodInfo
}

// LevelUpEvent is the levelUp payload
type LevelUpEvent struct {
	Level int
	Speed time.Duration
}

// Events are the topics a Game publishes
type Events struct {
	StateChange  *event.Topic[State]
	GameStart    *event.Topic[State]
	GamePause    *event.Topic[PauseEvent]
	GameOver     *event.Topic[OutcomeEvent]
	GameWin      *event.Topic[OutcomeEvent]
	GameReset    *event.Topic[State]
	FoodEaten    *event.Topic[FoodEatenEvent]
	LevelUp      *event.Topic[LevelUpEvent]
	NewHighScore *event.Topic[int]
	SnakeMove    *event.Topic[entity.MoveEvent]
	GameUpdate   *event.Topic[Snapshot]
	ConfigChange *event.Topic[Config]
	FoodExpired  *event.Topic[entity.ExpiredEvent]
}

func newEvents(bus *event.Bus) Events {
	return Events{
		StateChange:  event.NewTopic[State](bus, "stateChange"),
		GameStart:    event.NewTopic[State](bus, "gameStart"),
		GamePause:    event.NewTopic[PauseEvent](bus, "gamePause"),
		GameOver:     event.NewTopic[OutcomeEvent](bus, "gameOver"),
		GameWin:      event.NewTopic[OutcomeEvent](bus, "gameWin"),
		GameReset:    event.NewTopic[State](bus, "gameReset"),
		FoodEaten:    event.NewTopic[FoodEatenEvent](bus, "foodEaten"),
		LevelUp:      event.NewTopic[LevelUpEvent](bus, "levelUp"),
		NewHighScore: event.NewTopic[int](bus, "newHighScore"),
		SnakeMove:    event.NewTopic[entity.MoveEvent](bus, "snakeMove"),
		GameUpdate:   event.NewTopic[Snapshot](bus, "gameUpdate"),
		ConfigChange: event.NewTopic[Config](bus, "configChange"),
		FoodExpired:  event.NewTopic[entity.ExpiredEvent](bus, "foodExpired"),
	}
}
