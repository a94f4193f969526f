package manager

import (
	"math"
	"slices"
	"strings"
	"testing"

	"golang.org/x/exp/rand"

	"gridsnake/game/types"
)

func newTestBoard(size int) *Board {
	return NewBoard(size, rand.New(rand.NewSource(1)))
}

func TestIndexBijection(t *testing.T) {
	for _, n := range []int{4, 7, 20} {
		b := newTestBoard(n)
		seen := make(map[int]bool, n*n)
		for y := 0; y < n; y++ {
			for x := 0; x < n; x++ {
				p := types.Point{X: x, Y: y}
				idx := b.PositionToIndex(p)
				if idx < 0 || idx >= n*n {
					t.Fatalf("size %d: index %d of %v out of range", n, idx, p)
				}
				if seen[idx] {
					t.Fatalf("size %d: index %d produced twice", n, idx)
				}
				seen[idx] = true
				if back := b.IndexToPosition(idx); back != p {
					t.Fatalf("size %d: expected %v back from %d, got %v", n, p, idx, back)
				}
			}
		}
		if len(seen) != b.TotalCells() {
			t.Errorf("size %d: expected %d indices, got %d", n, b.TotalCells(), len(seen))
		}
	}
}

func TestPositionPredicates(t *testing.T) {
	b := newTestBoard(5)

	tests := []struct {
		p                   types.Point
		valid, edge, corner bool
	}{
		{types.Point{X: 0, Y: 0}, true, true, true},
		{types.Point{X: 4, Y: 4}, true, true, true},
		{types.Point{X: 2, Y: 0}, true, true, false},
		{types.Point{X: 2, Y: 2}, true, false, false},
		{types.Point{X: 5, Y: 0}, false, false, false},
		{types.Point{X: -1, Y: 3}, false, false, false},
	}
	for _, tt := range tests {
		if got := b.IsValidPosition(tt.p); got != tt.valid {
			t.Errorf("IsValidPosition(%v) = %v, want %v", tt.p, got, tt.valid)
		}
		if got := b.IsEdgePosition(tt.p); got != tt.edge {
			t.Errorf("IsEdgePosition(%v) = %v, want %v", tt.p, got, tt.edge)
		}
		if got := b.IsCornerPosition(tt.p); got != tt.corner {
			t.Errorf("IsCornerPosition(%v) = %v, want %v", tt.p, got, tt.corner)
		}
	}
}

func TestAvailablePositionsRowMajor(t *testing.T) {
	b := newTestBoard(3)
	occupied := []types.Point{{X: 1, Y: 0}, {X: 0, Y: 1}, {X: 2, Y: 2}}

	want := []types.Point{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 1}, {X: 0, Y: 2}, {X: 1, Y: 2}}
	if got := b.AvailablePositions(occupied); !slices.Equal(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestAdjacentPositions(t *testing.T) {
	b := newTestBoard(4)

	corner := b.AdjacentPositions(types.Point{X: 0, Y: 0}, false)
	if want := []types.Point{{X: 1, Y: 0}, {X: 0, Y: 1}}; !slices.Equal(corner, want) {
		t.Errorf("Expected corner neighbours %v, got %v", want, corner)
	}
	if got := len(b.AdjacentPositions(types.Point{X: 1, Y: 1}, false)); got != 4 {
		t.Errorf("Expected 4 orthogonal neighbours, got %d", got)
	}
	if got := len(b.AdjacentPositions(types.Point{X: 1, Y: 1}, true)); got != 8 {
		t.Errorf("Expected 8 neighbours with diagonals, got %d", got)
	}
	if got := len(b.AdjacentPositions(types.Point{X: 3, Y: 3}, true)); got != 3 {
		t.Errorf("Expected 3 neighbours at the far corner, got %d", got)
	}
}

func TestDistances(t *testing.T) {
	b := newTestBoard(10)
	p1, p2 := types.Point{X: 1, Y: 2}, types.Point{X: 4, Y: 6}

	if d := b.ManhattanDistance(p1, p2); d != 7 {
		t.Errorf("Expected manhattan 7, got %d", d)
	}
	if d := b.EuclideanDistance(p1, p2); math.Abs(d-5) > 1e-9 {
		t.Errorf("Expected euclidean 5, got %f", d)
	}
}

func TestRandomPosition(t *testing.T) {
	b := newTestBoard(4)
	occupied := b.AvailablePositions(nil)

	free := occupied[len(occupied)-1]
	occupied = occupied[:len(occupied)-1]
	for i := 0; i < 20; i++ {
		p, ok := b.RandomPosition(occupied)
		if !ok || p != free {
			t.Fatalf("Expected the single free cell %v, got %v %v", free, p, ok)
		}
	}

	occupied = append(occupied, free)
	if _, ok := b.RandomPosition(occupied); ok {
		t.Errorf("Expected no position on a full board")
	}
}

func TestResize(t *testing.T) {
	b := newTestBoard(4)
	b.Resize(6)

	if b.Size() != 6 || b.TotalCells() != 36 {
		t.Errorf("Expected 6x6 board, got size %d cells %d", b.Size(), b.TotalCells())
	}
	if len(b.Grid()) != 6 || len(b.Grid()[5]) != 6 {
		t.Errorf("Expected grid to follow the new size")
	}
	if !b.IsValidPosition(types.Point{X: 5, Y: 5}) {
		t.Errorf("Expected (5,5) valid after resize")
	}
}

func TestPerimeterAndStats(t *testing.T) {
	b := newTestBoard(4)

	if got := len(b.Perimeter()); got != 12 {
		t.Errorf("Expected 12 perimeter cells, got %d", got)
	}

	occupied := []types.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}}
	s := b.Stats(occupied)
	if s.Occupied != 3 || s.Available != 13 || s.OccupiedPercentage != 18.75 {
		t.Errorf("Unexpected stats %+v", s)
	}
	if b.IsAlmostFull(occupied, 0.5) {
		t.Errorf("Expected 3/16 not to be almost full")
	}
	if !b.IsAlmostFull(occupied, 0.1) {
		t.Errorf("Expected 3/16 to pass a 10%% threshold")
	}

	info := b.Info()
	if info.Center != (types.Point{X: 2, Y: 2}) || info.Corners[2] != (types.Point{X: 3, Y: 3}) {
		t.Errorf("Unexpected board info %+v", info)
	}
}

func TestVisualize(t *testing.T) {
	b := newTestBoard(4)
	food := types.Point{X: 3, Y: 3}
	snake := []types.Point{{X: 2, Y: 1}, {X: 1, Y: 1}, {X: 0, Y: 1}}

	want := strings.Join([]string{
		"....",
		"oo@.",
		"....",
		"...*",
	}, "\n") + "\n"
	if got := b.Visualize(snake, &food); got != want {
		t.Errorf("Expected\n%s\ngot\n%s", want, got)
	}
}
