package entity

import (
	"log"
	"time"

	"golang.org/x/exp/rand"

	"gridsnake/game/clock"
	"gridsnake/game/event"
	"gridsnake/game/types"
)

// FoodConfig holds point values and special-food odds
type FoodConfig struct {
	NormalPoints    int           `env:"FOOD_NORMAL_POINTS" envDefault:"10"`
	SpecialPoints   int           `env:"FOOD_SPECIAL_POINTS" envDefault:"50"`
	SpecialChance   float64       `env:"FOOD_SPECIAL_CHANCE" envDefault:"0.1"`
	SpecialDuration time.Duration `env:"FOOD_SPECIAL_DURATION" envDefault:"5s"`
}

// DefaultFoodConfig returns the stock food settings
func DefaultFoodConfig() FoodConfig {
	return FoodConfig{
		NormalPoints:    10,
		SpecialPoints:   50,
		SpecialChance:   0.1,
		SpecialDuration: 5 * time.Second,
	}
}

// FoodInfo is a snapshot of the food item
type FoodInfo struct {
	Position      types.Point
	Type          types.FoodType
	IsSpecial     bool
	Points        int
	TimeRemaining time.Duration
}

// ExpiredEvent is emitted when special food degrades to normal
type ExpiredEvent struct {
	Position types.Point
	NewType  types.FoodType
}

// FoodEvents are the topics a food item publishes
type FoodEvents struct {
	PositionChanged *event.Topic[FoodInfo]
	SpecialExpired  *event.Topic[ExpiredEvent]
	Consumed        *event.Topic[FoodInfo]
	Reset           *event.Topic[struct{}]
}

// Food is the single food item on the board. Special food carries an
// expiry timer on the owner's scheduler; the timer is cancelled whenever
// the food is consumed, repositioned or reset.
type Food struct {
	position  types.Point
	foodType  types.FoodType
	isSpecial bool
	timer     *clock.Timer

	cfg    FoodConfig
	sched  *clock.Scheduler
	rng    *rand.Rand
	bus    *event.Bus
	events FoodEvents
	logger *log.Logger
}

// NewFood creates a normal food item at (0,0). A nil scheduler uses system
// time and a nil rng is seeded from the clock.
func NewFood(cfg FoodConfig, sched *clock.Scheduler, rng *rand.Rand, logger *log.Logger) *Food {
	if sched == nil {
		sched = clock.NewScheduler(nil)
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
	}
	if logger == nil {
		logger = log.Default()
	}
	bus := event.NewBus(logger)
	return &Food{
		foodType: types.FoodNormal,
		cfg:      cfg,
		sched:    sched,
		rng:      rng,
		bus:      bus,
		logger:   logger,
		events: FoodEvents{
			PositionChanged: event.NewTopic[FoodInfo](bus, "positionChanged"),
			SpecialExpired:  event.NewTopic[ExpiredEvent](bus, "specialExpired"),
			Consumed:        event.NewTopic[FoodInfo](bus, "consumed"),
			Reset:           event.NewTopic[struct{}](bus, "reset"),
		},
	}
}

func (f *Food) Events() *FoodEvents {
	return &f.events
}

func (f *Food) Bus() *event.Bus {
	return f.bus
}

// SetConfig replaces the food settings. The current item keeps its type.
func (f *Food) SetConfig(cfg FoodConfig) {
	f.cfg = cfg
}

// SetPosition places the food at p and rolls its type. Any pending expiry
// from the previous placement is cancelled.
func (f *Food) SetPosition(p types.Point) {
	f.position = p
	f.determineType()
	f.stopTimer()
	if f.isSpecial {
		f.timer = f.sched.AfterFunc(f.cfg.SpecialDuration, f.expireSpecial)
	}

	f.events.PositionChanged.Emit(f.Info())
}

func (f *Food) determineType() {
	if f.rng.Float64() < f.cfg.SpecialChance {
		f.isSpecial = true
		if f.rng.Float64() < 0.5 {
			f.foodType = types.FoodGolden
		} else {
			f.foodType = types.FoodBonus
		}
		return
	}
	f.isSpecial = false
	f.foodType = types.FoodNormal
}

func (f *Food) stopTimer() {
	f.timer.Stop()
	f.timer = nil
}

func (f *Food) expireSpecial() {
	f.timer = nil
	if !f.isSpecial {
		return
	}
	f.isSpecial = false
	f.foodType = types.FoodNormal

	f.events.SpecialExpired.Emit(ExpiredEvent{Position: f.position, NewType: f.foodType})
}

// ForceExpire demotes pending special food immediately
func (f *Food) ForceExpire() {
	if f.timer.Stop() {
		f.expireSpecial()
	}
}

// Points returns the value of the food by type
func (f *Food) Points() int {
	switch f.foodType {
	case types.FoodGolden:
		return f.cfg.SpecialPoints
	case types.FoodBonus:
		return f.cfg.SpecialPoints * 2
	default:
		return f.cfg.NormalPoints
	}
}

func (f *Food) Position() types.Point {
	return f.position
}

func (f *Food) Type() types.FoodType {
	return f.foodType
}

func (f *Food) IsSpecial() bool {
	return f.isSpecial
}

// IsAt reports whether the food sits on p
func (f *Food) IsAt(p types.Point) bool {
	return f.position == p
}

// TimeRemaining returns how long special food has left, zero otherwise
func (f *Food) TimeRemaining() time.Duration {
	if !f.isSpecial {
		return 0
	}
	return f.timer.Remaining()
}

func (f *Food) Info() FoodInfo {
	return FoodInfo{
		Position:      f.position,
		Type:          f.foodType,
		IsSpecial:     f.isSpecial,
		Points:        f.Points(),
		TimeRemaining: f.TimeRemaining(),
	}
}

// Consume cancels any pending expiry and returns what was eaten. Callers
// place the food again before consuming it a second time.
func (f *Food) Consume() FoodInfo {
	info := f.Info()
	f.stopTimer()

	f.events.Consumed.Emit(info)
	return info
}

// Reset puts a normal food item back at (0,0)
func (f *Food) Reset() {
	f.stopTimer()
	f.position = types.Point{}
	f.isSpecial = false
	f.foodType = types.FoodNormal

	f.events.Reset.Emit(struct{}{})
}

// Close cancels the expiry timer and drops every listener
func (f *Food) Close() {
	f.stopTimer()
	f.bus.RemoveAllListeners()
}

// ValidFoodPosition reports whether p lies on a board of the given size
func ValidFoodPosition(p types.Point, boardSize int) bool {
	return p.X >= 0 && p.X < boardSize && p.Y >= 0 && p.Y < boardSize
}

// RandomFoodPosition picks a uniform cell of a size×size board outside
// exclude. It returns false when every cell is excluded.
func RandomFoodPosition(rng *rand.Rand, boardSize int, exclude []types.Point) (types.Point, bool) {
	taken := make(map[types.Point]struct{}, len(exclude))
	for _, p := range exclude {
		taken[p] = struct{}{}
	}

	available := make([]types.Point, 0, boardSize*boardSize)
	for y := 0; y < boardSize; y++ {
		for x := 0; x < boardSize; x++ {
			p := types.Point{X: x, Y: y}
			if _, ok := taken[p]; !ok {
				available = append(available, p)
			}
		}
	}
	if len(available) == 0 {
		return types.Point{}, false
	}
	return available[rng.Intn(len(available))], true
}
