// Package term draws game snapshots on a terminal and translates key
// presses into runner commands.
package term

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"gridsnake/game"
	"gridsnake/game/types"
)

// Each board cell is two columns wide so it looks square in most fonts.
const cellWidth = 2

var (
	borderStyle = tcell.StyleDefault.Foreground(tcell.ColorGray)
	bodyStyle   = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	headStyle   = tcell.StyleDefault.Foreground(tcell.ColorLime).Bold(true)
	textStyle   = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	noticeStyle = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
)

// Renderer draws snapshots with the board's top-left border corner at (0,0)
type Renderer struct {
	screen tcell.Screen
}

func NewRenderer(screen tcell.Screen) *Renderer {
	return &Renderer{screen: screen}
}

// CellPosition returns the screen column and row of board cell p
func CellPosition(p types.Point) (x, y int) {
	return 1 + p.X*cellWidth, 1 + p.Y
}

// Draw renders one frame and shows it
func (r *Renderer) Draw(s game.Snapshot) {
	r.screen.Clear()
	size := len(s.Board)

	width, height := r.screen.Size()
	if width < size*cellWidth+2 || height < size+4 {
		r.text(0, 0, textStyle, fmt.Sprintf("terminal too small: need %dx%d", size*cellWidth+2, size+4))
		r.screen.Show()
		return
	}

	r.border(size)
	for y, row := range s.Board {
		for x, cell := range row {
			r.cell(types.Point{X: x, Y: y}, cell, s.FoodType)
		}
	}
	r.status(size, s.State)
	r.screen.Show()
}

func (r *Renderer) border(size int) {
	right := size*cellWidth + 1
	bottom := size + 1
	for x := 1; x < right; x++ {
		r.screen.SetContent(x, 0, tcell.RuneHLine, nil, borderStyle)
		r.screen.SetContent(x, bottom, tcell.RuneHLine, nil, borderStyle)
	}
	for y := 1; y < bottom; y++ {
		r.screen.SetContent(0, y, tcell.RuneVLine, nil, borderStyle)
		r.screen.SetContent(right, y, tcell.RuneVLine, nil, borderStyle)
	}
	r.screen.SetContent(0, 0, tcell.RuneULCorner, nil, borderStyle)
	r.screen.SetContent(right, 0, tcell.RuneURCorner, nil, borderStyle)
	r.screen.SetContent(0, bottom, tcell.RuneLLCorner, nil, borderStyle)
	r.screen.SetContent(right, bottom, tcell.RuneLRCorner, nil, borderStyle)
}

func (r *Renderer) cell(p types.Point, cell types.Cell, food types.FoodType) {
	x, y := CellPosition(p)
	switch cell {
	case types.CellSnake:
		r.fill(x, y, '█', bodyStyle)
	case types.CellHead:
		r.fill(x, y, '█', headStyle)
	case types.CellFood:
		ch, style := foodGlyph(food)
		r.screen.SetContent(x, y, ch, nil, style)
		r.screen.SetContent(x+1, y, ' ', nil, style)
	}
}

func (r *Renderer) fill(x, y int, ch rune, style tcell.Style) {
	for i := 0; i < cellWidth; i++ {
		r.screen.SetContent(x+i, y, ch, nil, style)
	}
}

func foodGlyph(t types.FoodType) (rune, tcell.Style) {
	switch t {
	case types.FoodGolden:
		return '$', tcell.StyleDefault.Foreground(tcell.ColorGold).Bold(true)
	case types.FoodBonus:
		return '+', tcell.StyleDefault.Foreground(tcell.ColorFuchsia).Bold(true)
	default:
		return 'o', tcell.StyleDefault.Foreground(tcell.ColorRed)
	}
}

func (r *Renderer) status(size int, st game.State) {
	row := size + 2
	r.text(0, row, textStyle, fmt.Sprintf("Score: %d  High: %d  Level: %d  Speed: %s",
		st.Score, st.HighScore, st.Level, st.Speed))
	r.text(0, row+1, noticeStyle, PhaseNotice(st.Phase))
}

// PhaseNotice is the hint line shown under the board
func PhaseNotice(p game.Phase) string {
	switch p {
	case game.PhaseReady:
		return "Press Enter to start"
	case game.PhasePaused:
		return "Paused - Space to resume"
	case game.PhaseGameOver:
		return "Game over - Enter to play again"
	case game.PhaseWon:
		return "Board cleared! Enter to play again"
	default:
		return ""
	}
}

func (r *Renderer) text(x, y int, style tcell.Style, s string) {
	for _, ch := range s {
		r.screen.SetContent(x, y, ch, nil, style)
		x++
	}
}
