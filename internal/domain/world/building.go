package world

import (
	"github.com/andrescamacho/starport-go/internal/domain/production"
	"github.com/andrescamacho/starport-go/internal/domain/shared"
)

// ExitSpec is a building exit relative to the building origin
type ExitSpec struct {
	Offset          shared.CVec
	Facing          shared.Facing
	ProductionTypes []string
}

// BuildingSpec describes a production building to place in the world
type BuildingSpec struct {
	Owner           shared.PlayerID
	Faction         string
	Location        shared.Cell
	ProductionTypes []string
	Exits           []ExitSpec
	RallyPoints     []shared.Cell
	Primary         bool
}

// Building is a production site
type Building struct {
	id        int
	spec      BuildingSpec
	primary   bool
	disabled  bool
	paused    bool
	alive     bool
	observers []production.DeliveryObserver
	world     *World
}

func (b *Building) ID() int                { return b.id }
func (b *Building) Owner() shared.PlayerID { return b.spec.Owner }
func (b *Building) Faction() string        { return b.spec.Faction }
func (b *Building) Location() shared.Cell  { return b.spec.Location }
func (b *Building) IsPrimary() bool        { return b.primary }
func (b *Building) IsDisabled() bool       { return b.disabled }
func (b *Building) IsPaused() bool         { return b.paused }
func (b *Building) IsAlive() bool          { return b.alive }

func (b *Building) SetPrimary(v bool)  { b.primary = v }
func (b *Building) SetDisabled(v bool) { b.disabled = v }
func (b *Building) SetPaused(v bool)   { b.paused = v }

func (b *Building) Produces(productionType string) bool {
	for _, t := range b.spec.ProductionTypes {
		if t == productionType {
			return true
		}
	}
	return false
}

func (b *Building) RallyPoints() []shared.Cell {
	return append([]shared.Cell(nil), b.spec.RallyPoints...)
}

// SetRallyPoints replaces the rally path
func (b *Building) SetRallyPoints(points []shared.Cell) {
	b.spec.RallyPoints = append([]shared.Cell(nil), points...)
}

// AddObserver registers a delivery observer
func (b *Building) AddObserver(o production.DeliveryObserver) {
	b.observers = append(b.observers, o)
}

func (b *Building) Observers() []production.DeliveryObserver {
	return append([]production.DeliveryObserver(nil), b.observers...)
}

// ListExits returns the exits usable by the production type in declaration order
func (b *Building) ListExits(productionType string) []production.Exit {
	var out []production.Exit
	for _, e := range b.spec.Exits {
		exit := production.Exit{
			Cell:            b.spec.Location.Add(e.Offset),
			Facing:          e.Facing,
			ProductionTypes: e.ProductionTypes,
		}
		if exit.Serves(productionType) {
			out = append(out, exit)
		}
	}
	return out
}

// SelectExit returns the first exit whose cell is free of ground units
func (b *Building) SelectExit(_ string, productionType string) (production.Exit, bool) {
	for _, exit := range b.ListExits(productionType) {
		if !b.world.gameMap.Contains(exit.Cell) {
			continue
		}
		if _, occupied := b.world.groundActorAt(exit.Cell); !occupied {
			return exit, true
		}
	}
	return production.Exit{}, false
}

// NotifyBlocked asks an idle ground unit standing on the cell to step aside
func (b *Building) NotifyBlocked(cell shared.Cell) {
	blocker, ok := b.world.groundActorAt(cell)
	if !ok || !blocker.IsIdle() {
		return
	}
	exits := make(map[shared.Cell]bool)
	for _, e := range b.spec.Exits {
		exits[b.spec.Location.Add(e.Offset)] = true
	}
	for _, n := range b.world.gameMap.Neighbours(cell) {
		if exits[n] || n == b.spec.Location {
			continue
		}
		if _, taken := b.world.groundActorAt(n); taken {
			continue
		}
		blocker.QueueMoveTo(n)
		return
	}
}
