package world

import (
	"github.com/andrescamacho/starport-go/internal/domain/delivery"
	"github.com/andrescamacho/starport-go/internal/domain/production"
	"github.com/andrescamacho/starport-go/internal/domain/shared"
)

// Actor is a unit or carrier living in the world. It runs one activity at a time.
type Actor struct {
	id       int
	kind     string
	owner    shared.PlayerID
	faction  string
	location shared.Cell
	facing   shared.Facing
	airborne bool
	dead     bool
	removed  bool

	world      *World
	activities []delivery.Activity
}

func (a *Actor) ID() int                { return a.id }
func (a *Actor) Kind() string           { return a.kind }
func (a *Actor) Owner() shared.PlayerID { return a.owner }
func (a *Actor) Faction() string        { return a.faction }
func (a *Actor) Location() shared.Cell  { return a.location }
func (a *Actor) Facing() shared.Facing  { return a.facing }
func (a *Actor) IsAirborne() bool       { return a.airborne }
func (a *Actor) IsDead() bool           { return a.dead || a.removed }
func (a *Actor) IsIdle() bool           { return len(a.activities) == 0 }

// CurrentActivity returns the name of the running activity, or "idle"
func (a *Actor) CurrentActivity() string {
	if len(a.activities) == 0 {
		return "idle"
	}
	return a.activities[0].Name()
}

func (a *Actor) QueueMoveTo(cell shared.Cell) {
	a.QueueActivity(&moveActivity{actor: a, target: a.world.gameMap.Clamp(cell), ticksPerCell: a.world.cfg.MoveTicksPerCell})
}

func (a *Actor) QueueLand(site production.Site, offset shared.CVec, facing shared.Facing) {
	a.QueueActivity(&landActivity{actor: a, site: site, offset: offset, facing: facing})
}

func (a *Actor) QueueWait(ticks int) {
	if ticks <= 0 {
		return
	}
	a.QueueActivity(&waitActivity{remaining: ticks})
}

func (a *Actor) QueueActivity(activity delivery.Activity) {
	a.activities = append(a.activities, activity)
}

func (a *Actor) QueueRemoveSelf() {
	a.QueueActivity(&removeActivity{actor: a, world: a.world})
}

// tick runs the head activity once
func (a *Actor) tick() {
	if a.IsDead() || len(a.activities) == 0 {
		return
	}
	head := a.activities[0]
	if head.Tick() {
		a.activities = a.activities[1:]
	}
}
