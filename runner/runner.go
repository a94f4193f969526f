// Package runner drives a game.Game on its own goroutine, ticking it at the
// game's current speed and applying player commands between ticks.
package runner

import (
	"context"
	"log"
	"sync"
	"time"

	"gridsnake/game"
	"gridsnake/game/types"
)

// CommandKind selects what a Command does
type CommandKind int

const (
	CmdStart CommandKind = iota
	CmdTogglePause
	CmdReset
	CmdSteer
)

// Command is player input for the game
type Command struct {
	Kind      CommandKind
	Direction types.Direction // CmdSteer only
}

// Runner owns a Game while running. Game listeners registered before Start
// are invoked on the runner goroutine.
type Runner struct {
	game     *game.Game
	commands chan Command
	frames   chan game.Snapshot
	stop     chan struct{}
	wg       sync.WaitGroup
	mutex    sync.Mutex
	running  bool
	logger   *log.Logger
}

func New(g *game.Game, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		game:     g,
		commands: make(chan Command, 8),
		frames:   make(chan game.Snapshot, 1), // latest frame wins
		logger:   logger,
	}
}

// Frames delivers the snapshot after every tick and command. Frames that
// are not read in time are replaced by newer ones.
func (r *Runner) Frames() <-chan game.Snapshot {
	return r.frames
}

// Start launches the loop. It stops when ctx is done or Stop is called.
func (r *Runner) Start(ctx context.Context) {
	r.mutex.Lock()
	if r.running {
		r.mutex.Unlock()
		return
	}
	r.running = true
	r.stop = make(chan struct{})
	r.mutex.Unlock()

	r.wg.Add(1)
	go r.loop(ctx, r.stop)
}

// Stop ends the loop and waits for it to return
func (r *Runner) Stop() {
	r.mutex.Lock()
	if !r.running {
		r.mutex.Unlock()
		return
	}
	r.running = false
	close(r.stop)
	r.mutex.Unlock()

	r.wg.Wait()
}

// Running reports whether the loop is active
func (r *Runner) Running() bool {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return r.running
}

// Send queues cmd without blocking. It returns false when the runner is
// stopped or the queue is full.
func (r *Runner) Send(cmd Command) bool {
	if !r.Running() {
		return false
	}
	select {
	case r.commands <- cmd:
		return true
	default:
		r.logger.Printf("runner: command queue full, dropping %d", cmd.Kind)
		return false
	}
}

func (r *Runner) loop(ctx context.Context, stop <-chan struct{}) {
	defer r.wg.Done()

	timer := time.NewTimer(r.game.Speed())
	defer timer.Stop()

	r.publish(r.game.GetGameData())
	for {
		select {
		case <-ctx.Done():
			r.mutex.Lock()
			r.running = false
			r.mutex.Unlock()
			return
		case <-stop:
			return
		case cmd := <-r.commands:
			r.apply(cmd)
			r.publish(r.game.GetGameData())
		case <-timer.C:
			r.game.Update()
			r.publish(r.game.GetGameData())
			// speed changes on level up, so re-read it every tick
			timer.Reset(r.game.Speed())
		}
	}
}

func (r *Runner) apply(cmd Command) {
	switch cmd.Kind {
	case CmdStart:
		r.game.Start()
	case CmdTogglePause:
		r.game.TogglePause()
	case CmdReset:
		r.game.Reset()
	case CmdSteer:
		r.game.Steer(cmd.Direction)
	default:
		r.logger.Printf("runner: unknown command %d", cmd.Kind)
	}
}

func (r *Runner) publish(s game.Snapshot) {
	select {
	case r.frames <- s:
		return
	default:
	}
	// drop the stale frame
	select {
	case <-r.frames:
	default:
	}
	select {
	case r.frames <- s:
	default:
	}
}
