package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"gridsnake/game"
	"gridsnake/game/manager"
	"gridsnake/game/types"
)

const (
	maxScores     = 200 // Maximum number of scores to show in graph
	borderPadding = 10  // Padding around game area
)

var (
	snakeColor = rl.Color{R: 46, G: 204, B: 113, A: 255}
	headColor  = rl.Color{R: 88, G: 255, B: 150, A: 255}
)

// Frame is everything drawn in one pass. Scores and Summary come from the
// game's run history.
type Frame struct {
	Snapshot game.Snapshot
	Scores   []int
	Summary  manager.Summary
	Muted    bool
}

type Renderer struct {
	cellSize        int32
	screenWidth     int32
	screenHeight    int32
	graphHeight     int32
	graphWidth      int32
	gameWidth       int32
	gameHeight      int32
	statsPanel      int32
	totalGridWidth  int32
	totalGridHeight int32
	offsetX         int32
	offsetY         int32
}

func NewRenderer() *Renderer {
	r := &Renderer{}
	r.UpdateDimensions()
	return r
}

func (r *Renderer) UpdateDimensions() {
	r.screenWidth = int32(rl.GetScreenWidth())
	r.screenHeight = int32(rl.GetScreenHeight())

	r.statsPanel = r.screenWidth / 5
	r.gameWidth = r.screenWidth - r.statsPanel
	r.gameHeight = r.screenHeight

	r.graphWidth = r.statsPanel - 20
	r.graphHeight = r.screenHeight / 5
}

func (r *Renderer) Draw(f Frame) {
	r.UpdateDimensions()
	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	fontSize := min(r.screenHeight/40, r.statsPanel/12)
	lineHeight := min(r.screenHeight/30, r.statsPanel/9)

	s := f.Snapshot
	size := int32(len(s.Board))
	if size == 0 {
		rl.EndDrawing()
		return
	}

	availableWidth := r.gameWidth - (borderPadding * 2)
	availableHeight := r.gameHeight - (borderPadding * 2)
	r.cellSize = max(1, min(availableWidth/size, availableHeight/size))

	r.totalGridWidth = r.cellSize * size
	r.totalGridHeight = r.cellSize * size
	r.offsetX = (r.gameWidth - r.totalGridWidth) / 2
	r.offsetY = (r.screenHeight - r.totalGridHeight) / 2

	rl.DrawRectangle(r.offsetX-1, r.offsetY-1, r.totalGridWidth+2, r.totalGridHeight+2, rl.DarkGray)
	for y := int32(0); y < size; y++ {
		for x := int32(0); x < size; x++ {
			rl.DrawRectangleLines(r.offsetX+x*r.cellSize, r.offsetY+y*r.cellSize, r.cellSize, r.cellSize, rl.Gray)
		}
	}

	// tail first so the head is drawn on top
	for i := len(s.Snake) - 1; i >= 0; i-- {
		p := s.Snake[i]
		color := snakeColor
		if i == 0 {
			color = headColor
		}
		rl.DrawRectangle(r.offsetX+int32(p.X)*r.cellSize, r.offsetY+int32(p.Y)*r.cellSize, r.cellSize, r.cellSize, color)
	}
	if len(s.Snake) > 1 {
		r.drawHeadMarker(s.Snake[0], s.Snake[1])
	}

	r.drawFood(s.Food, s.FoodType)
	r.drawStatsPanel(f, fontSize, lineHeight)
	r.drawOverlay(s.State.Phase, fontSize*2)
	rl.EndDrawing()
}

// drawHeadMarker points a triangle the way the head is moving
func (r *Renderer) drawHeadMarker(head, neck types.Point) {
	headX := float32(r.offsetX + int32(head.X)*r.cellSize)
	headY := float32(r.offsetY + int32(head.Y)*r.cellSize)
	cell := float32(r.cellSize)
	half := cell / 2

	var a, b, c rl.Vector2
	switch {
	case head.X > neck.X: // Right
		a, b, c = rl.Vector2{X: headX + cell, Y: headY + half}, rl.Vector2{X: headX + half, Y: headY}, rl.Vector2{X: headX + half, Y: headY + cell}
	case head.X < neck.X: // Left
		a, b, c = rl.Vector2{X: headX, Y: headY + half}, rl.Vector2{X: headX + half, Y: headY + cell}, rl.Vector2{X: headX + half, Y: headY}
	case head.Y > neck.Y: // Down
		a, b, c = rl.Vector2{X: headX + half, Y: headY + cell}, rl.Vector2{X: headX + cell, Y: headY + half}, rl.Vector2{X: headX, Y: headY + half}
	default: // Up
		a, b, c = rl.Vector2{X: headX + half, Y: headY}, rl.Vector2{X: headX, Y: headY + half}, rl.Vector2{X: headX + cell, Y: headY + half}
	}
	rl.DrawTriangle(a, b, c, rl.Yellow)
}

func (r *Renderer) drawFood(p types.Point, t types.FoodType) {
	color := rl.Red
	switch t {
	case types.FoodGolden:
		color = rl.Gold
	case types.FoodBonus:
		color = rl.Magenta
	}
	half := r.cellSize / 2
	rl.DrawCircle(r.offsetX+int32(p.X)*r.cellSize+half, r.offsetY+int32(p.Y)*r.cellSize+half, float32(half)*0.8, color)
}

func (r *Renderer) drawStatsPanel(f Frame, fontSize, lineHeight int32) {
	statsX := r.gameWidth + 5
	statsY := int32(10)
	st := f.Snapshot.State

	rl.DrawRectangle(statsX-5, 0, r.statsPanel+5, r.screenHeight, rl.DarkGray)

	lines := []string{
		fmt.Sprintf("Score: %d", st.Score),
		fmt.Sprintf("High Score: %d", st.HighScore),
		fmt.Sprintf("Level: %d", st.Level),
		fmt.Sprintf("Speed: %s", st.Speed),
		fmt.Sprintf("Length: %d", len(f.Snapshot.Snake)),
		fmt.Sprintf("Food: %s", f.Snapshot.FoodType),
	}
	for _, line := range lines {
		rl.DrawText(line, statsX, statsY, fontSize, rl.White)
		statsY += lineHeight
	}
	if f.Muted {
		rl.DrawText("Sound off (M)", statsX, statsY, fontSize, rl.LightGray)
		statsY += lineHeight
	}

	statsY += lineHeight / 2
	rl.DrawText("History:", statsX, statsY, fontSize, rl.White)
	statsY += lineHeight
	sum := f.Summary
	for _, line := range []string{
		fmt.Sprintf("Games: %d", sum.Games),
		fmt.Sprintf("Best: %d", sum.Best),
		fmt.Sprintf("Avg: %.2f", sum.MeanScore),
		fmt.Sprintf("Median: %.1f", sum.MedianScore),
	} {
		rl.DrawText(line, statsX+5, statsY, fontSize, rl.LightGray)
		statsY += lineHeight
	}

	r.drawPerformanceGraph(f.Scores, sum.MeanScore, statsX, fontSize)
}

func (r *Renderer) drawPerformanceGraph(scores []int, avgScore float64, graphX, fontSize int32) {
	graphHeight := r.graphHeight
	graphWidth := r.graphWidth
	graphY := r.screenHeight - graphHeight - fontSize*2

	rl.DrawRectangleLines(graphX, graphY, graphWidth, graphHeight, rl.White)
	rl.DrawText("Scores", graphX, graphY-fontSize-5, fontSize, rl.White)

	if len(scores) > maxScores {
		scores = scores[len(scores)-maxScores:]
	}
	if len(scores) < 2 {
		return
	}

	maxScore := 1
	for _, score := range scores {
		maxScore = max(maxScore, score)
	}

	for j := 1; j < len(scores); j++ {
		x1 := graphX + int32(float32(graphWidth)*float32(j-1)/float32(maxScores))
		y1 := graphY + graphHeight - int32(float32(graphHeight)*float32(scores[j-1])/float32(maxScore))
		x2 := graphX + int32(float32(graphWidth)*float32(j)/float32(maxScores))
		y2 := graphY + graphHeight - int32(float32(graphHeight)*float32(scores[j])/float32(maxScore))
		rl.DrawLine(x1, y1, x2, y2, snakeColor)
	}

	// dashed average line
	avgY := graphY + graphHeight - int32(float32(graphHeight)*float32(avgScore)/float32(maxScore))
	for x := graphX; x < graphX+graphWidth; x += 5 {
		rl.DrawLine(x, avgY, x+2, avgY, rl.Yellow)
	}
}

func (r *Renderer) drawOverlay(phase game.Phase, fontSize int32) {
	var text string
	color := rl.White
	switch phase {
	case game.PhaseReady:
		text = "Press Enter to start"
	case game.PhasePaused:
		text = "Paused"
	case game.PhaseGameOver:
		text, color = "Game Over! Enter to restart", rl.Red
	case game.PhaseWon:
		text, color = "You filled the board!", rl.Gold
	default:
		return
	}
	width := rl.MeasureText(text, fontSize)
	rl.DrawText(text, r.offsetX+(r.totalGridWidth-width)/2, r.offsetY+r.totalGridHeight/2-fontSize/2, fontSize, color)
}
