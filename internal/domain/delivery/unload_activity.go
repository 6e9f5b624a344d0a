package delivery

import (
	"github.com/andrescamacho/starport-go/internal/domain/production"
	"github.com/andrescamacho/starport-go/internal/domain/shared"
)

// UnloadHooks report unload progress back to the coordinator
type UnloadHooks struct {
	OnUnloaded func(entry production.BatchEntry)
	OnBlocked  func(cell shared.Cell)
	OnComplete func()
	OnAbort    func()
}

// UnloadActivity is the per-tick unload step machine run by a landed carrier.
//
// One unit leaves per attempt, last entry first. A blocked exit leaves the entry in
// place and is retried every tick; an entry is never dropped or spawned twice.
type UnloadActivity struct {
	pending        []production.BatchEntry
	site           production.Site
	carrier        Carrier
	productionType string
	spawner        Spawner
	effects        shared.Deferrer
	stagger        int
	hooks          UnloadHooks

	wait     int
	started  bool
	finished bool
}

// NewUnloadActivity creates an activity holding the ground cargo in batch order
func NewUnloadActivity(
	entries []production.BatchEntry,
	site production.Site,
	carrier Carrier,
	productionType string,
	spawner Spawner,
	effects shared.Deferrer,
	stagger int,
	hooks UnloadHooks,
) *UnloadActivity {
	pending := make([]production.BatchEntry, len(entries))
	copy(pending, entries)
	return &UnloadActivity{
		pending:        pending,
		site:           site,
		carrier:        carrier,
		productionType: productionType,
		spawner:        spawner,
		effects:        effects,
		stagger:        stagger,
		hooks:          hooks,
	}
}

func (u *UnloadActivity) Name() string { return "unload" }

// Start arms the activity once the carrier has landed
func (u *UnloadActivity) Start() {
	if !u.finished {
		u.started = true
	}
}

// Abort stops the activity without touching the pending entries
func (u *UnloadActivity) Abort() {
	u.finished = true
}

func (u *UnloadActivity) IsStarted() bool  { return u.started }
func (u *UnloadActivity) IsFinished() bool { return u.finished }

// Pending returns the entries still on board
func (u *UnloadActivity) Pending() []production.BatchEntry {
	out := make([]production.BatchEntry, len(u.pending))
	copy(out, u.pending)
	return out
}

// Tick performs at most one unload attempt and reports whether the activity is over
func (u *UnloadActivity) Tick() bool {
	if u.finished || !u.started {
		return true
	}

	if u.carrier.IsDead() || !u.site.IsAlive() {
		u.finished = true
		if u.hooks.OnAbort != nil {
			u.hooks.OnAbort()
		}
		return true
	}

	if u.wait > 0 {
		u.wait--
		return false
	}

	if len(u.pending) == 0 {
		u.finished = true
		if u.hooks.OnComplete != nil {
			u.hooks.OnComplete()
		}
		return true
	}

	last := len(u.pending) - 1
	entry := u.pending[last]
	exit, ok := u.site.SelectExit(entry.Item.Name, u.productionType)
	if !ok {
		cell := u.blockedCell()
		u.site.NotifyBlocked(cell)
		if u.hooks.OnBlocked != nil {
			u.hooks.OnBlocked(cell)
		}
		return false
	}

	u.pending = u.pending[:last]
	u.effects.Defer("delivery.unload", func() {
		// aborted before the flush: the entry is refunded with the rest
		if u.finished {
			return
		}
		unit, err := u.spawner.SpawnUnit(entry, exit.Cell, exit.Facing)
		if err != nil {
			u.pending = append(u.pending, entry)
			return
		}
		for _, p := range u.site.RallyPoints() {
			unit.QueueMoveTo(p)
		}
		if u.hooks.OnUnloaded != nil {
			u.hooks.OnUnloaded(entry)
		}
	})
	u.wait = u.stagger
	return false
}

func (u *UnloadActivity) blockedCell() shared.Cell {
	if exits := u.site.ListExits(u.productionType); len(exits) > 0 {
		return exits[0].Cell
	}
	return u.site.Location()
}
