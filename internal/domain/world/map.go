package world

import "github.com/andrescamacho/starport-go/internal/domain/shared"

// Map is the rectangular playfield
type Map struct {
	width  int
	height int
}

// NewMap creates a map; both dimensions must be positive
func NewMap(width, height int) (*Map, error) {
	if width <= 0 || height <= 0 {
		return nil, &ErrInvalidMap{Width: width, Height: height}
	}
	return &Map{width: width, height: height}, nil
}

func (m *Map) Width() int  { return m.width }
func (m *Map) Height() int { return m.height }

// Contains reports whether the cell lies on the map
func (m *Map) Contains(c shared.Cell) bool {
	return c.X >= 0 && c.Y >= 0 && c.X < m.width && c.Y < m.height
}

// Clamp moves a cell onto the map
func (m *Map) Clamp(c shared.Cell) shared.Cell {
	return shared.Cell{X: clamp(c.X, 0, m.width-1), Y: clamp(c.Y, 0, m.height-1)}
}

// ClosestEdgeCell returns the edge cell nearest to c. Ties prefer west, east, north, south.
func (m *Map) ClosestEdgeCell(c shared.Cell) shared.Cell {
	c = m.Clamp(c)
	candidates := []shared.Cell{
		{X: 0, Y: c.Y},
		{X: m.width - 1, Y: c.Y},
		{X: c.X, Y: 0},
		{X: c.X, Y: m.height - 1},
	}
	best := candidates[0]
	for _, cand := range candidates[1:] {
		if cand.DistanceTo(c) < best.DistanceTo(c) {
			best = cand
		}
	}
	return best
}

// Neighbours returns the on-map cells around c, clockwise from north
func (m *Map) Neighbours(c shared.Cell) []shared.Cell {
	offsets := []shared.CVec{{X: 0, Y: -1}, {X: 1, Y: -1}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}, {X: -1, Y: 1}, {X: -1, Y: 0}, {X: -1, Y: -1}}
	var out []shared.Cell
	for _, o := range offsets {
		if n := c.Add(o); m.Contains(n) {
			out = append(out, n)
		}
	}
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
