package world

import (
	"fmt"

	"github.com/andrescamacho/starport-go/internal/domain/shared"
)

// ErrInvalidMap is returned for non-positive map dimensions
type ErrInvalidMap struct {
	Width  int
	Height int
}

func (e *ErrInvalidMap) Error() string {
	return fmt.Sprintf("invalid map size %dx%d", e.Width, e.Height)
}

// ErrOffMap is returned when something is placed outside the map
type ErrOffMap struct {
	Cell shared.Cell
}

func (e *ErrOffMap) Error() string {
	return fmt.Sprintf("cell %s is off the map", e.Cell)
}

// ErrCellOccupied is returned when a ground unit would spawn on top of another
type ErrCellOccupied struct {
	Cell    shared.Cell
	ActorID int
}

func (e *ErrCellOccupied) Error() string {
	return fmt.Sprintf("cell %s occupied by actor %d", e.Cell, e.ActorID)
}

// ErrBuildingNotFound is returned for unknown building ids
type ErrBuildingNotFound struct {
	ID int
}

func (e *ErrBuildingNotFound) Error() string {
	return fmt.Sprintf("building %d not found", e.ID)
}
