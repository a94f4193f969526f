package game

import (
	"errors"
	"fmt"
	"time"

	"gridsnake/game/entity"
	"gridsnake/game/types"
)

// Config holds the gameplay tunables. Tags are read by config.Load.
type Config struct {
	BoardSize        int           `env:"BOARD_SIZE" envDefault:"20"`
	InitialSpeed     time.Duration `env:"INITIAL_SPEED" envDefault:"200ms"`
	SpeedIncrement   time.Duration `env:"SPEED_INCREMENT" envDefault:"10ms"`
	MinSpeed         time.Duration `env:"MIN_SPEED" envDefault:"50ms"`
	PointsPerFood    int           `env:"POINTS_PER_FOOD" envDefault:"10"`
	PointsForLevelUp int           `env:"POINTS_FOR_LEVEL_UP" envDefault:"100"`

	Food entity.FoodConfig
}

// DefaultConfig returns the stock settings: a 20x20 board starting at one
// move every 200ms.
func DefaultConfig() Config {
	return Config{
		BoardSize:        20,
		InitialSpeed:     200 * time.Millisecond,
		SpeedIncrement:   10 * time.Millisecond,
		MinSpeed:         50 * time.Millisecond,
		PointsPerFood:    10,
		PointsForLevelUp: 100,
		Food:             entity.DefaultFoodConfig(),
	}
}

// Validate reports every setting that would break the simulation
func (c Config) Validate() error {
	var errs []error
	if c.BoardSize < types.MinBoardSize {
		errs = append(errs, fmt.Errorf("board size %d is below the minimum of %d", c.BoardSize, types.MinBoardSize))
	}
	if c.InitialSpeed <= 0 {
		errs = append(errs, fmt.Errorf("initial speed must be positive, got %v", c.InitialSpeed))
	}
	if c.SpeedIncrement < 0 {
		errs = append(errs, fmt.Errorf("speed increment must not be negative, got %v", c.SpeedIncrement))
	}
	if c.MinSpeed <= 0 {
		errs = append(errs, fmt.Errorf("minimum speed must be positive, got %v", c.MinSpeed))
	}
	if c.MinSpeed > c.InitialSpeed {
		errs = append(errs, fmt.Errorf("minimum speed %v exceeds initial speed %v", c.MinSpeed, c.InitialSpeed))
	}
	if c.PointsPerFood <= 0 {
		errs = append(errs, fmt.Errorf("points per food must be positive, got %d", c.PointsPerFood))
	}
	if c.PointsForLevelUp <= 0 {
		errs = append(errs, fmt.Errorf("points for level up must be positive, got %d", c.PointsForLevelUp))
	}
	if c.Food.NormalPoints <= 0 || c.Food.SpecialPoints <= 0 {
		errs = append(errs, fmt.Errorf("food points must be positive, got %d/%d", c.Food.NormalPoints, c.Food.SpecialPoints))
	}
	if c.Food.SpecialChance < 0 || c.Food.SpecialChance > 1 {
		errs = append(errs, fmt.Errorf("special food chance %v is outside [0,1]", c.Food.SpecialChance))
	}
	if c.Food.SpecialDuration <= 0 {
		errs = append(errs, fmt.Errorf("special food duration must be positive, got %v", c.Food.SpecialDuration))
	}
	return errors.Join(errs...)
}
