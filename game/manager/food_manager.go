package manager

import (
	"log"

	"gridsnake/game/entity"
	"gridsnake/game/types"
)

// FoodManager places the single food item on free board cells
type FoodManager struct {
	board        *Board
	food         *entity.Food
	collisionMgr *CollisionManager
	logger       *log.Logger
}

func NewFoodManager(board *Board, food *entity.Food, collisionMgr *CollisionManager, logger *log.Logger) *FoodManager {
	if logger == nil {
		logger = log.Default()
	}
	return &FoodManager{
		board:        board,
		food:         food,
		collisionMgr: collisionMgr,
		logger:       logger,
	}
}

// GenerateFood moves the food to a random cell outside occupied.
// It returns false, leaving the food untouched, when no cell is free.
func (fm *FoodManager) GenerateFood(occupied []types.Point) bool {
	pos, ok := fm.board.RandomPosition(occupied)
	if !ok {
		fm.logger.Printf("food: no free cell among %d", fm.board.TotalCells())
		return false
	}

	fm.food.SetPosition(pos)
	return true
}

// CheckFoodCollision reports whether head lands on the food
func (fm *FoodManager) CheckFoodCollision(head types.Point) bool {
	return fm.collisionMgr.IsFoodCollision(head, fm.food.Position())
}

func (fm *FoodManager) GetFood() *entity.Food {
	return fm.food
}
