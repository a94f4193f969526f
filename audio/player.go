// Package audio plays short synthesized tones in response to game events.
package audio

import (
	"log"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"gridsnake/game"
	"gridsnake/game/entity"
	"gridsnake/game/event"
)

const sampleRate = beep.SampleRate(44100)

// Player owns the speaker and turns game events into sounds
type Player struct {
	mu          sync.Mutex
	enabled     bool
	moveSounds  bool
	volume      float64
	initialized bool
	play        func(...beep.Streamer)
	logger      *log.Logger
}

func NewPlayer(logger *log.Logger) *Player {
	if logger == nil {
		logger = log.Default()
	}
	return &Player{
		enabled: true,
		volume:  0.7,
		play:    speaker.Play,
		logger:  logger,
	}
}

// Init opens the audio device
func (p *Player) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return err
	}
	p.initialized = true
	return nil
}

// Close releases the audio device
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	speaker.Clear()
	speaker.Close()
	p.initialized = false
}

func (p *Player) SetEnabled(enabled bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.enabled = enabled
}

// Toggle flips sound on or off and returns the new setting
func (p *Player) Toggle() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.enabled = !p.enabled
	return p.enabled
}

// SetVolume sets the master volume, clamped to [0,1]
func (p *Player) SetVolume(volume float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.volume = min(1, max(0, volume))
}

// SetMoveSounds enables the per-tick move click
func (p *Player) SetMoveSounds(on bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.moveSounds = on
}

// Play queues one sound. It is a no-op while disabled or before Init.
func (p *Player) Play(sound SoundType) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.enabled || !p.initialized {
		return
	}
	if sound == SoundMove && !p.moveSounds {
		return
	}
	s := CreateSound(sound, sampleRate, p.volume)
	if s == nil {
		p.logger.Printf("audio: sound %v not found", sound)
		return
	}
	p.play(s)
}

// Attach subscribes the player to g. Unsubscribe the returned handles to
// detach it again.
func (p *Player) Attach(g *game.Game) []event.Subscription {
	ev := g.Events()
	return []event.Subscription{
		ev.GameStart.On(func(game.State) { p.Play(SoundStart) }),
		ev.FoodEaten.On(func(game.FoodEatenEvent) { p.Play(SoundEat) }),
		ev.LevelUp.On(func(game.LevelUpEvent) { p.Play(SoundLevelUp) }),
		ev.GamePause.On(func(game.PauseEvent) { p.Play(SoundPause) }),
		ev.GameOver.On(func(game.OutcomeEvent) { p.Play(SoundGameOver) }),
		ev.GameWin.On(func(game.OutcomeEvent) { p.Play(SoundWin) }),
		ev.SnakeMove.On(func(entity.MoveEvent) { p.Play(SoundMove) }),
	}
}
