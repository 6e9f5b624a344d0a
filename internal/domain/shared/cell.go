package shared

import "fmt"

// Cell is an immutable map coordinate
type Cell struct {
	X int `json:"x" yaml:"x" mapstructure:"x"`
	Y int `json:"y" yaml:"y" mapstructure:"y"`
}

// NewCell creates a new cell
func NewCell(x, y int) Cell {
	return Cell{X: x, Y: y}
}

// Add offsets the cell by a vector
func (c Cell) Add(v CVec) Cell {
	return Cell{X: c.X + v.X, Y: c.Y + v.Y}
}

// Sub returns the vector pointing from other to c
func (c Cell) Sub(other Cell) CVec {
	return CVec{X: c.X - other.X, Y: c.Y - other.Y}
}

// DistanceTo returns the Chebyshev distance, the number of diagonal-capable steps between cells
func (c Cell) DistanceTo(other Cell) int {
	dx := abs(c.X - other.X)
	dy := abs(c.Y - other.Y)
	if dx > dy {
		return dx
	}
	return dy
}

// StepToward moves one cell toward the target along both axes
func (c Cell) StepToward(target Cell) Cell {
	return Cell{X: c.X + sign(target.X-c.X), Y: c.Y + sign(target.Y-c.Y)}
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// CVec is a cell-space offset, used for exits and landing offsets
type CVec struct {
	X int `json:"x" yaml:"x" mapstructure:"x"`
	Y int `json:"y" yaml:"y" mapstructure:"y"`
}

// IsZero reports whether the offset is empty
func (v CVec) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

// Facing is an angle in the 0..1023 range used by the simulation (256 = east)
type Facing int

// FacingUnits is the size of a full turn
const FacingUnits = 1024

// NewFacing normalizes an angle into [0, FacingUnits)
func NewFacing(v int) Facing {
	v %= FacingUnits
	if v < 0 {
		v += FacingUnits
	}
	return Facing(v)
}

// FacingBetween returns the coarse facing from one cell toward another,
// quantized to the eight compass directions
func FacingBetween(from, to Cell) Facing {
	dx := sign(to.X - from.X)
	dy := sign(to.Y - from.Y)
	switch {
	case dx == 0 && dy < 0:
		return 0
	case dx > 0 && dy < 0:
		return 128
	case dx > 0 && dy == 0:
		return 256
	case dx > 0 && dy > 0:
		return 384
	case dx == 0 && dy > 0:
		return 512
	case dx < 0 && dy > 0:
		return 640
	case dx < 0 && dy == 0:
		return 768
	case dx < 0 && dy < 0:
		return 896
	}
	return 0
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
