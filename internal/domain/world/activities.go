package world

import (
	"github.com/andrescamacho/starport-go/internal/domain/production"
	"github.com/andrescamacho/starport-go/internal/domain/shared"
)

// moveActivity walks the actor toward a cell, one cell every ticksPerCell ticks
type moveActivity struct {
	actor        *Actor
	target       shared.Cell
	ticksPerCell int
	elapsed      int
}

func (a *moveActivity) Name() string { return "move" }

func (a *moveActivity) Tick() bool {
	if a.actor.location == a.target {
		return true
	}
	a.elapsed++
	if a.elapsed < a.ticksPerCell {
		return false
	}
	a.elapsed = 0
	next := a.actor.location.StepToward(a.target)
	a.actor.facing = shared.FacingBetween(a.actor.location, next)
	a.actor.location = next
	return a.actor.location == a.target
}

// landActivity puts a flying actor down on a building
type landActivity struct {
	actor  *Actor
	site   production.Site
	offset shared.CVec
	facing shared.Facing
}

func (a *landActivity) Name() string { return "land" }

func (a *landActivity) Tick() bool {
	a.actor.location = a.site.Location().Add(a.offset)
	a.actor.facing = a.facing
	return true
}

type waitActivity struct {
	remaining int
}

func (a *waitActivity) Name() string { return "wait" }

func (a *waitActivity) Tick() bool {
	a.remaining--
	return a.remaining <= 0
}

// removeActivity takes the actor out of the world in the next flush
type removeActivity struct {
	actor *Actor
	world *World
}

func (a *removeActivity) Name() string { return "remove" }

func (a *removeActivity) Tick() bool {
	id := a.actor.id
	a.world.effects.Defer("world.remove_actor", func() { a.world.removeActor(id) })
	return true
}
