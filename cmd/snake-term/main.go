// Command snake-term plays snake in the terminal, keeping scores in SQLite.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"

	"gridsnake/audio"
	"gridsnake/config"
	"gridsnake/game"
	"gridsnake/runner"
	"gridsnake/storage/sqlite"
	"gridsnake/term"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load("snake-term", os.Args[1:], os.Stderr)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	// the terminal is owned by tcell, so logs go to a file
	logFile, err := os.OpenFile(filepath.Join(filepath.Dir(cfg.DBPath), "snake-term.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()
	logger := log.New(logFile, "snake-term ", log.LstdFlags)

	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	g, err := game.New(cfg.Game, game.WithStore(store), game.WithLogger(logger))
	if err != nil {
		return err
	}
	defer g.Close()

	player := audio.NewPlayer(logger)
	player.SetEnabled(cfg.Sound)
	if err := player.Init(); err != nil {
		// non-fatal, the game runs without sound
		logger.Printf("audio init failed: %v", err)
	}
	defer player.Close()
	player.Attach(g)

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	fini := sync.OnceFunc(screen.Fini)
	defer fini()
	renderer := term.NewRenderer(screen)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	r := runner.New(g, logger)
	r.Start(ctx)
	loop(ctx, screen, renderer, r, player, logger)
	r.Stop()
	fini()

	summarize(g)
	return nil
}

// loop draws frames and forwards keys until the player quits or ctx ends
func loop(ctx context.Context, screen tcell.Screen, renderer *term.Renderer, r *runner.Runner, player *audio.Player, logger *log.Logger) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	events := term.PollEvents(ctx, screen)

	var last game.Snapshot
	for {
		select {
		case <-ctx.Done():
			return
		case frame := <-r.Frames():
			last = frame
			renderer.Draw(last)
		case ev, ok := <-events:
			if !ok {
				return
			}
			switch ev := ev.(type) {
			case *tcell.EventResize:
				screen.Sync()
				if last.Board != nil {
					renderer.Draw(last)
				}
			case *tcell.EventKey:
				action, cmd := term.KeyAction(ev)
				switch action {
				case term.ActionQuit:
					return
				case term.ActionToggleSound:
					logger.Printf("sound enabled: %t", player.Toggle())
				case term.ActionCommand:
					r.Send(cmd)
				}
			}
		}
	}
}

// summarize prints the session summary once the runner has stopped
func summarize(g *game.Game) {
	s := g.Summary()
	if s.Games == 0 {
		return
	}
	fmt.Printf("games: %d  best: %d  mean: %.1f  median: %.1f  mean duration: %s\n",
		s.Games, s.Best, s.MeanScore, s.MedianScore, s.MeanDuration.Round(time.Second))
}
