package manager

import (
	"gridsnake/game/types"
)

// CollisionManager answers the wall and food questions the game asks each
// tick. It satisfies entity.Bounds, so the snake's wall test goes through it.
type CollisionManager struct {
	board *Board
}

func NewCollisionManager(board *Board) *CollisionManager {
	return &CollisionManager{
		board: board,
	}
}

// IsValidPosition reports whether pos is on the board
func (cm *CollisionManager) IsValidPosition(pos types.Point) bool {
	return !cm.IsWallCollision(pos)
}

// IsWallCollision checks if a position lies outside the board
func (cm *CollisionManager) IsWallCollision(pos types.Point) bool {
	return !cm.board.IsValidPosition(pos)
}

// IsFoodCollision checks if a position collides with food
func (cm *CollisionManager) IsFoodCollision(pos types.Point, food types.Point) bool {
	return pos == food
}
