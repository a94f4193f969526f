package types

import "strings"

// Point is a cell coordinate on the board, 0-indexed from the top-left corner.
type Point struct {
	X, Y int
}

// Add returns p translated by d.
func (p Point) Add(d Point) Point {
	return Point{X: p.X + d.X, Y: p.Y + d.Y}
}

// Direction is one of the four cardinal movement directions
type Direction int

const (
	NONE  Direction = iota // 0
	UP                     // 1
	RIGHT                  // 2
	DOWN                   // 3
	LEFT                   // 4
)

// Directions lists the valid directions in clockwise order starting from UP.
var Directions = [...]Direction{UP, RIGHT, DOWN, LEFT}

// ToPoint converts a Direction into a unit movement vector
func (d Direction) ToPoint() Point {
	switch d {
	case UP:
		return Point{X: 0, Y: -1}
	case RIGHT:
		return Point{X: 1, Y: 0}
	case DOWN:
		return Point{X: 0, Y: 1}
	case LEFT:
		return Point{X: -1, Y: 0}
	default:
		return Point{X: 0, Y: 0}
	}
}

// Opposite returns the direction pointing the other way.
func (d Direction) Opposite() Direction {
	switch d {
	case UP:
		return DOWN
	case RIGHT:
		return LEFT
	case DOWN:
		return UP
	case LEFT:
		return RIGHT
	default:
		return NONE
	}
}

// Valid reports whether d is one of the four cardinal directions.
func (d Direction) Valid() bool {
	return d >= UP && d <= LEFT
}

func (d Direction) String() string {
	switch d {
	case UP:
		return "up"
	case RIGHT:
		return "right"
	case DOWN:
		return "down"
	case LEFT:
		return "left"
	default:
		return "none"
	}
}

// ParseDirection maps "up", "down", "left" or "right" (any case) to a Direction.
func ParseDirection(s string) (Direction, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up":
		return UP, true
	case "right":
		return RIGHT, true
	case "down":
		return DOWN, true
	case "left":
		return LEFT, true
	}
	return NONE, false
}

// CollisionType represents the type of collision
type CollisionType int

const (
	NoCollision CollisionType = iota
	WallCollision
	SelfCollision
)

func (c CollisionType) String() string {
	switch c {
	case WallCollision:
		return "wall"
	case SelfCollision:
		return "self"
	default:
		return "none"
	}
}

// FoodType distinguishes regular food from the time-boxed special kinds.
type FoodType int

const (
	FoodNormal FoodType = iota
	FoodGolden
	FoodBonus
)

func (f FoodType) String() string {
	switch f {
	case FoodGolden:
		return "golden"
	case FoodBonus:
		return "bonus"
	default:
		return "normal"
	}
}

// Cell is the content of one board square in a render snapshot.
type Cell int

const (
	CellEmpty Cell = iota
	CellSnake
	CellHead
	CellFood
)

func (c Cell) String() string {
	switch c {
	case CellSnake:
		return "snake"
	case CellHead:
		return "head"
	case CellFood:
		return "food"
	default:
		return "empty"
	}
}

// Game constants
const (
	InitialSnakeLength = 3
	MinBoardSize       = 4 // room for the initial body centred on the board
)
