package delivery

import (
	"github.com/andrescamacho/starport-go/internal/domain/production"
	"github.com/andrescamacho/starport-go/internal/domain/shared"
)

// Activity is one step of an actor's activity queue. Tick returns true when the step is over.
type Activity interface {
	Name() string
	Tick() bool
}

// Mover is any spawned actor that can be sent along a path
type Mover interface {
	ID() int
	IsDead() bool
	QueueMoveTo(cell shared.Cell)
	QueueWait(ticks int)
}

// Carrier is the vehicle that brings ground cargo to a site
type Carrier interface {
	Mover
	QueueLand(site production.Site, offset shared.CVec, facing shared.Facing)
	QueueActivity(activity Activity)
	QueueRemoveSelf()
}

// Spawner creates actors in the world. Calls must only happen from the effect flush phase.
type Spawner interface {
	SpawnCarrier(carrierType string, owner shared.PlayerID, at shared.Cell, facing shared.Facing) (Carrier, error)
	SpawnUnit(entry production.BatchEntry, at shared.Cell, facing shared.Facing) (Mover, error)
}

// Map answers the geometry questions a delivery needs
type Map interface {
	ClosestEdgeCell(cell shared.Cell) shared.Cell
}

// Notifier plays cues and shows text to a player. Fire and forget; it must never block.
type Notifier interface {
	PlayCue(owner shared.PlayerID, id string)
	ShowText(owner shared.PlayerID, id string)
}

// Listener observes delivery progress (metrics, journal)
type Listener interface {
	OnDeliveryStarted(d *Delivery)
	OnUnitUnloaded(d *Delivery, entry production.BatchEntry)
	OnExitBlocked(d *Delivery, cell shared.Cell)
	OnDeliveryCompleted(d *Delivery)
	OnDeliveryFailed(d *Delivery, err error)
}

type nopNotifier struct{}

func (nopNotifier) PlayCue(shared.PlayerID, string)  {}
func (nopNotifier) ShowText(shared.PlayerID, string) {}
