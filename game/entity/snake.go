package entity

import (
	"log"

	"gridsnake/game/event"
	"gridsnake/game/types"
)

// Bounds is the part of the board a snake needs to move
type Bounds interface {
	IsValidPosition(p types.Point) bool
}

// MoveResult is the outcome of one Move
type MoveResult struct {
	Success   bool
	Collision types.CollisionType
	NewHead   types.Point
}

// MoveEvent is emitted after every successful move
type MoveEvent struct {
	Head      types.Point
	Tail      types.Point
	Direction types.Direction
	Length    int
}

// CollisionEvent is emitted when a move is blocked
type CollisionEvent struct {
	Position types.Point
	Type     types.CollisionType
}

// GrowEvent is emitted when the snake is told to grow
type GrowEvent struct {
	NewLength int
	Head      types.Point
}

// SnakeState is a serializable copy of a snake
type SnakeState struct {
	Positions        []types.Point
	CurrentDirection types.Direction
	NextDirection    types.Direction
	JustAte          bool
}

// SnakeInfo is a read-only description of the snake
type SnakeInfo struct {
	Head             types.Point
	Tail             types.Point
	Body             []types.Point
	Positions        []types.Point
	Length           int
	CurrentDirection types.Direction
	NextDirection    types.Direction
	JustAte          bool
}

// SnakeEvents are the topics a snake publishes
type SnakeEvents struct {
	Reset           *event.Topic[[]types.Point]
	Move            *event.Topic[MoveEvent]
	Collision       *event.Topic[CollisionEvent]
	Grow            *event.Topic[GrowEvent]
	DirectionChange *event.Topic[types.Direction]
	TailRemoved     *event.Topic[types.Point]
	StateRestored   *event.Topic[SnakeInfo]
}

// Snake is an ordered body of cells, head first.
//
// Turning uses a two-field buffer: SetDirection writes next, Move commits
// next into current before stepping. A turn queued between two ticks
// therefore takes effect on the following tick, and the opposite-direction
// guard always compares against the direction of the last completed move.
type Snake struct {
	body    []types.Point
	current types.Direction
	next    types.Direction
	justAte bool
	start   types.Point

	bus    *event.Bus
	events SnakeEvents
	logger *log.Logger
}

// NewSnake creates a snake at startPos heading right
func NewSnake(startPos types.Point, logger *log.Logger) *Snake {
	if logger == nil {
		logger = log.Default()
	}
	bus := event.NewBus(logger)
	s := &Snake{
		start:  startPos,
		bus:    bus,
		logger: logger,
		events: SnakeEvents{
			Reset:           event.NewTopic[[]types.Point](bus, "reset"),
			Move:            event.NewTopic[MoveEvent](bus, "move"),
			Collision:       event.NewTopic[CollisionEvent](bus, "collision"),
			Grow:            event.NewTopic[GrowEvent](bus, "grow"),
			DirectionChange: event.NewTopic[types.Direction](bus, "directionChange"),
			TailRemoved:     event.NewTopic[types.Point](bus, "tailRemoved"),
			StateRestored:   event.NewTopic[SnakeInfo](bus, "stateRestored"),
		},
	}
	s.Reset(startPos)
	return s
}

// Events exposes the snake's topics
func (s *Snake) Events() *SnakeEvents {
	return &s.events
}

// Bus exposes the snake's event bus
func (s *Snake) Bus() *event.Bus {
	return s.bus
}

// Reset rebuilds a straight body of InitialSnakeLength cells ending at
// startPos, heading right, with no pending growth.
func (s *Snake) Reset(startPos types.Point) {
	s.start = startPos
	s.body = make([]types.Point, 0, types.InitialSnakeLength)
	for i := 0; i < types.InitialSnakeLength; i++ {
		s.body = append(s.body, types.Point{X: startPos.X - i, Y: startPos.Y})
	}
	s.current = types.RIGHT
	s.next = types.RIGHT
	s.justAte = false

	s.events.Reset.Emit(s.Positions())
}

// SetDirection queues dir for the next Move. Invalid directions and the
// exact opposite of the current direction are ignored; the result reports
// whether dir was accepted.
func (s *Snake) SetDirection(dir types.Direction) bool {
	if !dir.Valid() {
		s.logger.Printf("snake: ignoring invalid direction %d", int(dir))
		return false
	}
	if dir == s.current.Opposite() {
		return false
	}

	s.next = dir
	s.events.DirectionChange.Emit(dir)
	return true
}

// Move advances the snake one cell. On collision nothing is mutated.
func (s *Snake) Move(board Bounds) MoveResult {
	s.current = s.next

	newHead := s.GetHead().Add(s.current.ToPoint())

	if collision := s.checkCollision(newHead, board); collision != types.NoCollision {
		s.events.Collision.Emit(CollisionEvent{Position: newHead, Type: collision})
		return MoveResult{Success: false, Collision: collision, NewHead: newHead}
	}

	s.body = append(s.body, types.Point{})
	copy(s.body[1:], s.body)
	s.body[0] = newHead

	if !s.justAte {
		s.RemoveTail()
	} else {
		s.justAte = false
	}

	s.events.Move.Emit(MoveEvent{
		Head:      newHead,
		Tail:      s.GetTail(),
		Direction: s.current,
		Length:    len(s.body),
	})
	return MoveResult{Success: true, Collision: types.NoCollision, NewHead: newHead}
}

// checkCollision classifies newHead. The tail is exempt from the self check
// because it is vacated this tick, unless the snake just ate and keeps it.
func (s *Snake) checkCollision(newHead types.Point, board Bounds) types.CollisionType {
	if !board.IsValidPosition(newHead) {
		return types.WallCollision
	}

	bodyToCheck := s.body
	if !s.justAte {
		bodyToCheck = s.body[:len(s.body)-1]
	}
	for _, part := range bodyToCheck {
		if newHead == part {
			return types.SelfCollision
		}
	}
	return types.NoCollision
}

// RemoveTail drops the last segment
func (s *Snake) RemoveTail() {
	if len(s.body) == 0 {
		return
	}
	tail := s.body[len(s.body)-1]
	s.body = s.body[:len(s.body)-1]
	s.events.TailRemoved.Emit(tail)
}

// Grow makes the next Move keep its tail, adding one segment
func (s *Snake) Grow() {
	s.justAte = true
	s.events.Grow.Emit(GrowEvent{NewLength: len(s.body) + 1, Head: s.GetHead()})
}

func (s *Snake) GetHead() types.Point {
	return s.body[0]
}

func (s *Snake) GetTail() types.Point {
	return s.body[len(s.body)-1]
}

// Positions returns a copy of the body, head first
func (s *Snake) Positions() []types.Point {
	return append([]types.Point(nil), s.body...)
}

// Body returns a copy of every segment except the head
func (s *Snake) Body() []types.Point {
	return append([]types.Point(nil), s.body[1:]...)
}

func (s *Snake) Length() int {
	return len(s.body)
}

func (s *Snake) CurrentDirection() types.Direction {
	return s.current
}

func (s *Snake) NextDirection() types.Direction {
	return s.next
}

// JustAte reports whether growth is pending for the next move
func (s *Snake) JustAte() bool {
	return s.justAte
}

// Occupies reports whether any segment sits on p
func (s *Snake) Occupies(p types.Point) bool {
	for _, part := range s.body {
		if part == p {
			return true
		}
	}
	return false
}

// CanMoveIn reports whether SetDirection would accept dir
func (s *Snake) CanMoveIn(dir types.Direction) bool {
	return dir.Valid() && dir != s.current.Opposite()
}

// ValidDirections lists the directions SetDirection would accept
func (s *Snake) ValidDirections() []types.Direction {
	valid := make([]types.Direction, 0, len(types.Directions))
	for _, d := range types.Directions {
		if s.CanMoveIn(d) {
			valid = append(valid, d)
		}
	}
	return valid
}

func (s *Snake) Info() SnakeInfo {
	return SnakeInfo{
		Head:             s.GetHead(),
		Tail:             s.GetTail(),
		Body:             s.Body(),
		Positions:        s.Positions(),
		Length:           len(s.body),
		CurrentDirection: s.current,
		NextDirection:    s.next,
		JustAte:          s.justAte,
	}
}

// Serialize captures the snake's state
func (s *Snake) Serialize() SnakeState {
	return SnakeState{
		Positions:        s.Positions(),
		CurrentDirection: s.current,
		NextDirection:    s.next,
		JustAte:          s.justAte,
	}
}

// Restore replaces the snake's state with st. A body shorter than the
// initial length or an invalid current direction is ignored.
func (s *Snake) Restore(st SnakeState) {
	if len(st.Positions) < types.InitialSnakeLength {
		s.logger.Printf("snake: ignoring restore with %d-cell body", len(st.Positions))
		return
	}
	if !st.CurrentDirection.Valid() {
		s.logger.Printf("snake: ignoring restore with direction %s", st.CurrentDirection)
		return
	}
	s.body = append([]types.Point(nil), st.Positions...)
	s.current = st.CurrentDirection
	s.next = st.NextDirection
	if !s.next.Valid() {
		s.next = s.current
	}
	s.justAte = st.JustAte

	s.events.StateRestored.Emit(s.Info())
}

// Close drops every listener
func (s *Snake) Close() {
	s.bus.RemoveAllListeners()
}
