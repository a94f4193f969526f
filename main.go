package main

import (
	"log"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"gridsnake/audio"
	"gridsnake/config"
	"gridsnake/game"
	"gridsnake/game/manager"
	"gridsnake/game/types"
	"gridsnake/storage/jsonfile"
	"gridsnake/ui"
)

var steerKeys = map[int32]types.Direction{
	rl.KeyUp:    types.UP,
	rl.KeyW:     types.UP,
	rl.KeyDown:  types.DOWN,
	rl.KeyS:     types.DOWN,
	rl.KeyLeft:  types.LEFT,
	rl.KeyA:     types.LEFT,
	rl.KeyRight: types.RIGHT,
	rl.KeyD:     types.RIGHT,
}

func main() {
	cfg, err := config.Load("snake", os.Args[1:], os.Stderr)
	if err != nil {
		log.Fatal(err)
	}

	store, err := jsonfile.Open(cfg.StatsFile)
	if err != nil {
		log.Fatal(err)
	}

	g, err := game.New(cfg.Game, game.WithStore(store))
	if err != nil {
		log.Fatal(err)
	}
	defer g.Close()

	player := audio.NewPlayer(nil)
	player.SetEnabled(cfg.Sound)
	if err := player.Init(); err != nil {
		log.Printf("Audio initialization failed: %v", err)
	}
	defer player.Close()
	player.Attach(g)

	rl.InitWindow(1280, 800, "Snake")
	rl.SetWindowState(rl.FlagWindowResizable)
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)
	rl.SetExitKey(rl.KeyQ)

	renderer := ui.NewRenderer()
	lastUpdate := time.Now()
	muted := !cfg.Sound

	// history only changes when a run ends
	scores, summary := scoreHistory(g)
	refresh := func(game.OutcomeEvent) { scores, summary = scoreHistory(g) }
	g.Events().GameOver.On(refresh)
	g.Events().GameWin.On(refresh)

	for !rl.WindowShouldClose() {
		if rl.IsWindowResized() {
			renderer.UpdateDimensions()
		}

		for key, d := range steerKeys {
			if rl.IsKeyPressed(key) {
				g.Steer(d)
			}
		}
		switch {
		case rl.IsKeyPressed(rl.KeyEnter):
			g.Start()
		case rl.IsKeyPressed(rl.KeySpace), rl.IsKeyPressed(rl.KeyP):
			g.TogglePause()
		case rl.IsKeyPressed(rl.KeyR):
			g.Reset()
		case rl.IsKeyPressed(rl.KeyM):
			muted = !player.Toggle()
		}

		// Update game state at the current speed
		if time.Since(lastUpdate) >= g.Speed() {
			g.Update()
			lastUpdate = time.Now()
		}

		renderer.Draw(ui.Frame{
			Snapshot: g.GetGameData(),
			Scores:   scores,
			Summary:  summary,
			Muted:    muted,
		})
	}
}

func scoreHistory(g *game.Game) ([]int, manager.Summary) {
	history := g.History()
	scores := make([]int, len(history))
	for i, r := range history {
		scores[i] = r.Score
	}
	return scores, g.Summary()
}
