package world

import (
	"sort"

	"github.com/andrescamacho/starport-go/internal/domain/delivery"
	"github.com/andrescamacho/starport-go/internal/domain/production"
	"github.com/andrescamacho/starport-go/internal/domain/shared"
)

// Ticker is a system advanced once per world tick
type Ticker interface {
	Tick()
}

// Config sizes the world
type Config struct {
	Width            int
	Height           int
	MoveTicksPerCell int
}

// World is the minimal deterministic simulation hosting queues, sites and deliveries.
//
// Each Tick runs the read phase (queues, coordinator, actor activities) and then flushes
// the effect queue. Actors are only created or destroyed during the flush.
type World struct {
	cfg     Config
	gameMap *Map
	ticks   *shared.TickCounter
	effects *shared.EffectQueue
	sites   *production.SiteRegistry
	logger  shared.Logger

	nextID    int
	actors    map[int]*Actor
	buildings map[int]*Building
	queues    []Ticker
	delivery  Ticker
}

// New creates an empty world
func New(cfg Config, logger shared.Logger) (*World, error) {
	m, err := NewMap(cfg.Width, cfg.Height)
	if err != nil {
		return nil, err
	}
	if cfg.MoveTicksPerCell <= 0 {
		cfg.MoveTicksPerCell = 1
	}
	return &World{
		cfg:       cfg,
		gameMap:   m,
		ticks:     shared.NewTickCounter(),
		effects:   shared.NewEffectQueue(),
		sites:     production.NewSiteRegistry(),
		logger:    shared.LoggerOrNop(logger),
		actors:    make(map[int]*Actor),
		buildings: make(map[int]*Building),
	}, nil
}

func (w *World) Map() *Map                       { return w.gameMap }
func (w *World) Ticks() *shared.TickCounter      { return w.ticks }
func (w *World) Effects() *shared.EffectQueue    { return w.effects }
func (w *World) Sites() *production.SiteRegistry { return w.sites }
func (w *World) CurrentTick() shared.Tick        { return w.ticks.CurrentTick() }

// ClosestEdgeCell lets the world serve as the delivery map
func (w *World) ClosestEdgeCell(c shared.Cell) shared.Cell {
	return w.gameMap.ClosestEdgeCell(c)
}

// AddQueue registers a production queue ticked every step, in registration order
func (w *World) AddQueue(q Ticker) {
	w.queues = append(w.queues, q)
}

// SetCoordinator registers the delivery coordinator
func (w *World) SetCoordinator(c Ticker) {
	w.delivery = c
}

// Tick advances the simulation one step
func (w *World) Tick() shared.Tick {
	tick := w.ticks.Advance()

	for _, q := range w.queues {
		q.Tick()
	}
	if w.delivery != nil {
		w.delivery.Tick()
	}
	for _, a := range w.sortedActors() {
		a.tick()
	}

	w.effects.Flush()
	return tick
}

// AddBuilding places a production building and registers it as a site
func (w *World) AddBuilding(spec BuildingSpec) (*Building, error) {
	if !w.gameMap.Contains(spec.Location) {
		return nil, &ErrOffMap{Cell: spec.Location}
	}
	w.nextID++
	b := &Building{id: w.nextID, spec: spec, primary: spec.Primary, alive: true, world: w}
	w.buildings[b.id] = b
	w.sites.Add(b)
	return b, nil
}

// Building returns a building by id
func (w *World) Building(id int) (*Building, error) {
	b, ok := w.buildings[id]
	if !ok {
		return nil, &ErrBuildingNotFound{ID: id}
	}
	return b, nil
}

// Buildings returns every building ordered by id
func (w *World) Buildings() []*Building {
	out := make([]*Building, 0, len(w.buildings))
	for _, b := range w.buildings {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}

// DestroyBuilding kills a building and drops it from the site registry
func (w *World) DestroyBuilding(id int) error {
	b, ok := w.buildings[id]
	if !ok {
		return &ErrBuildingNotFound{ID: id}
	}
	b.alive = false
	w.sites.Remove(b)
	delete(w.buildings, id)
	w.logger.Log(shared.LevelInfo, "Building destroyed", map[string]interface{}{
		"building_id": id,
		"tick":        uint64(w.ticks.CurrentTick()),
	})
	return nil
}

// DestroyActor kills an actor; it is removed in the next flush
func (w *World) DestroyActor(id int) bool {
	a, ok := w.actors[id]
	if !ok || a.IsDead() {
		return false
	}
	a.dead = true
	w.effects.Defer("world.remove_actor", func() { w.removeActor(id) })
	return true
}

// SpawnCarrier creates a flying carrier
func (w *World) SpawnCarrier(carrierType string, owner shared.PlayerID, at shared.Cell, facing shared.Facing) (delivery.Carrier, error) {
	a, err := w.spawn(carrierType, owner, "", at, facing, true)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// SpawnUnit creates the unit described by a batch entry
func (w *World) SpawnUnit(entry production.BatchEntry, at shared.Cell, facing shared.Facing) (delivery.Mover, error) {
	a, err := w.spawn(entry.Item.Name, entry.Init.Owner, entry.Init.Faction, at, facing, entry.Item.SelfPropelled)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// PlaceUnit puts a ground unit on the map directly (scenario setup)
func (w *World) PlaceUnit(kind string, owner shared.PlayerID, at shared.Cell) (*Actor, error) {
	return w.spawn(kind, owner, "", at, 0, false)
}

func (w *World) spawn(kind string, owner shared.PlayerID, faction string, at shared.Cell, facing shared.Facing, airborne bool) (*Actor, error) {
	if !w.gameMap.Contains(at) {
		return nil, &ErrOffMap{Cell: at}
	}
	if !airborne {
		if other, taken := w.groundActorAt(at); taken {
			return nil, &ErrCellOccupied{Cell: at, ActorID: other.id}
		}
	}
	w.nextID++
	a := &Actor{
		id:       w.nextID,
		kind:     kind,
		owner:    owner,
		faction:  faction,
		location: at,
		facing:   facing,
		airborne: airborne,
		world:    w,
	}
	w.actors[a.id] = a
	return a, nil
}

// Actor returns a live actor
func (w *World) Actor(id int) (*Actor, bool) {
	a, ok := w.actors[id]
	return a, ok
}

// Actors returns live actors ordered by id
func (w *World) Actors() []*Actor {
	return w.sortedActors()
}

// CountUnits counts an owner's live actors of a kind
func (w *World) CountUnits(owner shared.PlayerID, kind string) int {
	n := 0
	for _, a := range w.actors {
		if !a.IsDead() && a.owner.Equals(owner) && a.kind == kind {
			n++
		}
	}
	return n
}

func (w *World) removeActor(id int) {
	if a, ok := w.actors[id]; ok {
		a.removed = true
		delete(w.actors, id)
	}
}

func (w *World) groundActorAt(c shared.Cell) (*Actor, bool) {
	for _, a := range w.sortedActors() {
		if !a.IsDead() && !a.airborne && a.location == c {
			return a, true
		}
	}
	return nil, false
}

func (w *World) sortedActors() []*Actor {
	out := make([]*Actor, 0, len(w.actors))
	for _, a := range w.actors {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}
