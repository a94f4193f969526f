package manager

import (
	"fmt"
	"math"
	"strings"
	"time"

	"golang.org/x/exp/rand"

	"gridsnake/game/types"
)

// Board is the square spatial domain of the game. It owns no entities and
// only answers questions about coordinates.
type Board struct {
	size       int
	totalCells int
	grid       [][]types.Cell
	rng        *rand.Rand
}

// BoardStats summarises occupancy
type BoardStats struct {
	Size               int
	TotalCells         int
	Occupied           int
	Available          int
	OccupiedPercentage float64
}

// BoardInfo describes the fixed geometry of a board
type BoardInfo struct {
	Size       int
	TotalCells int
	Center     types.Point
	Corners    [4]types.Point
}

// NewBoard creates a size x size board. A nil rng gets a time-seeded source.
func NewBoard(size int, rng *rand.Rand) *Board {
	if rng == nil {
		rng = rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
	}
	b := &Board{rng: rng}
	b.Resize(size)
	return b
}

// Size returns the side length
func (b *Board) Size() int {
	return b.size
}

// TotalCells returns size*size
func (b *Board) TotalCells() int {
	return b.totalCells
}

// Resize replaces the board dimensions. Positions held by callers are not
// rechecked against the new bounds.
func (b *Board) Resize(size int) {
	b.size = size
	b.totalCells = size * size
	b.grid = make([][]types.Cell, size)
	for y := range b.grid {
		b.grid[y] = make([]types.Cell, size)
	}
}

// Grid returns a copy of the board grid, indexed [y][x]
func (b *Board) Grid() [][]types.Cell {
	out := make([][]types.Cell, len(b.grid))
	for y, row := range b.grid {
		out[y] = append([]types.Cell(nil), row...)
	}
	return out
}

// Center returns the middle cell, rounding down
func (b *Board) Center() types.Point {
	return types.Point{X: b.size / 2, Y: b.size / 2}
}

// IsValidPosition checks 0 <= x,y < size
func (b *Board) IsValidPosition(p types.Point) bool {
	return p.X >= 0 && p.X < b.size && p.Y >= 0 && p.Y < b.size
}

// IsEdgePosition reports whether p is a valid cell on the outer ring
func (b *Board) IsEdgePosition(p types.Point) bool {
	if !b.IsValidPosition(p) {
		return false
	}
	return p.X == 0 || p.X == b.size-1 || p.Y == 0 || p.Y == b.size-1
}

// IsCornerPosition reports whether p is one of the four corners
func (b *Board) IsCornerPosition(p types.Point) bool {
	if !b.IsValidPosition(p) {
		return false
	}
	return (p.X == 0 || p.X == b.size-1) && (p.Y == 0 || p.Y == b.size-1)
}

// AvailablePositions lists every valid cell not in occupied, in row-major order
func (b *Board) AvailablePositions(occupied []types.Point) []types.Point {
	taken := make(map[types.Point]struct{}, len(occupied))
	for _, p := range occupied {
		taken[p] = struct{}{}
	}

	available := make([]types.Point, 0, b.totalCells)
	for y := 0; y < b.size; y++ {
		for x := 0; x < b.size; x++ {
			p := types.Point{X: x, Y: y}
			if _, ok := taken[p]; !ok {
				available = append(available, p)
			}
		}
	}
	return available
}

// AdjacentPositions returns the in-bounds neighbours of p: N, E, S, W and,
// when includeDiagonals is set, NW, NE, SE, SW.
func (b *Board) AdjacentPositions(p types.Point, includeDiagonals bool) []types.Point {
	offsets := []types.Point{
		{X: 0, Y: -1},
		{X: 1, Y: 0},
		{X: 0, Y: 1},
		{X: -1, Y: 0},
	}
	if includeDiagonals {
		offsets = append(offsets,
			types.Point{X: -1, Y: -1},
			types.Point{X: 1, Y: -1},
			types.Point{X: 1, Y: 1},
			types.Point{X: -1, Y: 1},
		)
	}

	adjacent := make([]types.Point, 0, len(offsets))
	for _, d := range offsets {
		n := p.Add(d)
		if b.IsValidPosition(n) {
			adjacent = append(adjacent, n)
		}
	}
	return adjacent
}

// ManhattanDistance returns |dx| + |dy|
func (b *Board) ManhattanDistance(p1, p2 types.Point) int {
	return abs(p1.X-p2.X) + abs(p1.Y-p2.Y)
}

// EuclideanDistance returns the straight-line distance between cell coordinates
func (b *Board) EuclideanDistance(p1, p2 types.Point) float64 {
	dx := float64(p1.X - p2.X)
	dy := float64(p1.Y - p2.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

// PositionToIndex maps p to its row-major index y*size + x
func (b *Board) PositionToIndex(p types.Point) int {
	return p.Y*b.size + p.X
}

// IndexToPosition is the inverse of PositionToIndex
func (b *Board) IndexToPosition(index int) types.Point {
	return types.Point{X: index % b.size, Y: index / b.size}
}

// RandomPosition picks uniformly among cells not in exclude. ok is false
// when the board is full.
func (b *Board) RandomPosition(exclude []types.Point) (p types.Point, ok bool) {
	available := b.AvailablePositions(exclude)
	if len(available) == 0 {
		return types.Point{}, false
	}
	return available[b.rng.Intn(len(available))], true
}

// Perimeter returns every edge cell in row-major order
func (b *Board) Perimeter() []types.Point {
	var perimeter []types.Point
	for y := 0; y < b.size; y++ {
		for x := 0; x < b.size; x++ {
			p := types.Point{X: x, Y: y}
			if b.IsEdgePosition(p) {
				perimeter = append(perimeter, p)
			}
		}
	}
	return perimeter
}

// IsAlmostFull reports whether the occupied share reaches threshold (0..1)
func (b *Board) IsAlmostFull(occupied []types.Point, threshold float64) bool {
	if b.totalCells == 0 {
		return true
	}
	return float64(len(occupied))/float64(b.totalCells) >= threshold
}

// Stats reports occupancy for the given occupied cells
func (b *Board) Stats(occupied []types.Point) BoardStats {
	s := BoardStats{
		Size:       b.size,
		TotalCells: b.totalCells,
		Occupied:   len(occupied),
		Available:  b.totalCells - len(occupied),
	}
	if b.totalCells > 0 {
		pct := float64(len(occupied)) / float64(b.totalCells) * 100
		s.OccupiedPercentage = math.Round(pct*100) / 100
	}
	return s
}

// Info returns size, centre and corners
func (b *Board) Info() BoardInfo {
	last := b.size - 1
	return BoardInfo{
		Size:       b.size,
		TotalCells: b.totalCells,
		Center:     b.Center(),
		Corners: [4]types.Point{
			{X: 0, Y: 0},
			{X: last, Y: 0},
			{X: last, Y: last},
			{X: 0, Y: last},
		},
	}
}

// Visualize draws the board as text: '@' head, 'o' body, '*' food, '.' empty
func (b *Board) Visualize(snake []types.Point, food *types.Point) string {
	body := make(map[types.Point]bool, len(snake))
	for _, p := range snake {
		body[p] = true
	}

	var sb strings.Builder
	for y := 0; y < b.size; y++ {
		for x := 0; x < b.size; x++ {
			p := types.Point{X: x, Y: y}
			switch {
			case food != nil && *food == p:
				sb.WriteByte('*')
			case len(snake) > 0 && snake[0] == p:
				sb.WriteByte('@')
			case body[p]:
				sb.WriteByte('o')
			default:
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func (b *Board) String() string {
	return fmt.Sprintf("Board(%dx%d)", b.size, b.size)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
