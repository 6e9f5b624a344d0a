package delivery_test

import (
	"errors"

	"github.com/andrescamacho/starport-go/internal/domain/delivery"
	"github.com/andrescamacho/starport-go/internal/domain/production"
	"github.com/andrescamacho/starport-go/internal/domain/shared"
)

var owner = shared.MustNewPlayerID(1)

type fakeSite struct {
	dead         bool
	blockFor     int
	selectCalls  int
	blockedNotes []shared.Cell
	rally        []shared.Cell
	observers    []production.DeliveryObserver
}

func (s *fakeSite) ID() int                                  { return 7 }
func (s *fakeSite) Owner() shared.PlayerID                   { return owner }
func (s *fakeSite) Faction() string                          { return "atreides" }
func (s *fakeSite) Location() shared.Cell                    { return shared.Cell{X: 20, Y: 20} }
func (s *fakeSite) Produces(string) bool                     { return true }
func (s *fakeSite) IsPrimary() bool                          { return true }
func (s *fakeSite) IsDisabled() bool                         { return false }
func (s *fakeSite) IsPaused() bool                           { return false }
func (s *fakeSite) IsAlive() bool                            { return !s.dead }
func (s *fakeSite) RallyPoints() []shared.Cell               { return s.rally }
func (s *fakeSite) Observers() []production.DeliveryObserver { return s.observers }

func (s *fakeSite) ListExits(string) []production.Exit {
	return []production.Exit{{Cell: shared.Cell{X: 21, Y: 23}}}
}

func (s *fakeSite) SelectExit(string, string) (production.Exit, bool) {
	s.selectCalls++
	if s.selectCalls <= s.blockFor {
		return production.Exit{}, false
	}
	return production.Exit{Cell: shared.Cell{X: 21, Y: 23}}, true
}

func (s *fakeSite) NotifyBlocked(cell shared.Cell) {
	s.blockedNotes = append(s.blockedNotes, cell)
}

type step struct {
	kind     string
	cell     shared.Cell
	activity delivery.Activity
}

type fakeActor struct {
	id      int
	dead    bool
	removed bool
	steps   []step
	log     []string
}

func (a *fakeActor) ID() int      { return a.id }
func (a *fakeActor) IsDead() bool { return a.dead || a.removed }

func (a *fakeActor) QueueMoveTo(cell shared.Cell) {
	a.steps = append(a.steps, step{kind: "move", cell: cell})
}

func (a *fakeActor) QueueWait(int) {
	a.steps = append(a.steps, step{kind: "wait"})
}

func (a *fakeActor) QueueLand(production.Site, shared.CVec, shared.Facing) {
	a.steps = append(a.steps, step{kind: "land"})
}

func (a *fakeActor) QueueActivity(activity delivery.Activity) {
	a.steps = append(a.steps, step{kind: activity.Name(), activity: activity})
}

func (a *fakeActor) QueueRemoveSelf() {
	a.steps = append(a.steps, step{kind: "remove"})
}

func (a *fakeActor) kinds() []string {
	out := make([]string, len(a.steps))
	for i, s := range a.steps {
		out[i] = s.kind
	}
	return out
}

// run consumes instant steps and ticks at most one activity
func (a *fakeActor) run() {
	for len(a.steps) > 0 && !a.IsDead() {
		head := a.steps[0]
		if head.activity == nil {
			if head.kind == "remove" {
				a.removed = true
			}
			a.log = append(a.log, head.kind)
			a.steps = a.steps[1:]
			continue
		}
		if head.activity.Tick() {
			a.log = append(a.log, head.kind)
			a.steps = a.steps[1:]
		}
		return
	}
}

type spawnedUnit struct {
	item    string
	at      shared.Cell
	attempt int
	actor   *fakeActor
}

type fakeSpawner struct {
	site       *fakeSite
	carrier    *fakeActor
	units      []spawnedUnit
	failUnits  int
	carrierErr error
	nextID     int
}

func (s *fakeSpawner) SpawnCarrier(string, shared.PlayerID, shared.Cell, shared.Facing) (delivery.Carrier, error) {
	if s.carrierErr != nil {
		return nil, s.carrierErr
	}
	s.nextID++
	s.carrier = &fakeActor{id: s.nextID}
	return s.carrier, nil
}

func (s *fakeSpawner) SpawnUnit(entry production.BatchEntry, at shared.Cell, _ shared.Facing) (delivery.Mover, error) {
	if s.failUnits > 0 {
		s.failUnits--
		return nil, errors.New("cell occupied")
	}
	s.nextID++
	actor := &fakeActor{id: s.nextID}
	s.units = append(s.units, spawnedUnit{item: entry.Item.Name, at: at, attempt: s.site.selectCalls, actor: actor})
	return actor, nil
}

func (s *fakeSpawner) spawnedItems() []string {
	out := make([]string, len(s.units))
	for i, u := range s.units {
		out[i] = u.item
	}
	return out
}

type fakeMap struct{}

func (fakeMap) ClosestEdgeCell(cell shared.Cell) shared.Cell { return shared.Cell{X: 0, Y: cell.Y} }

type fakeQueue struct{ finished int }

func (q *fakeQueue) DeliverFinished() { q.finished++ }

type fakeEconomy struct {
	refunds []int
}

func (e *fakeEconomy) Charge(int, *shared.OperationContext) bool { return true }
func (e *fakeEconomy) AvailableFunds() int                       { return 0 }

func (e *fakeEconomy) Refund(amount int, _ *shared.OperationContext) {
	e.refunds = append(e.refunds, amount)
}

func (e *fakeEconomy) total() int {
	sum := 0
	for _, r := range e.refunds {
		sum += r
	}
	return sum
}

type fakeObserver struct {
	incoming  int
	delivered int
}

func (o *fakeObserver) IncomingDelivery(production.Site) { o.incoming++ }
func (o *fakeObserver) Delivered(production.Site)        { o.delivered++ }

type fakeNotifier struct {
	cues  []string
	texts []string
}

func (n *fakeNotifier) PlayCue(_ shared.PlayerID, id string)  { n.cues = append(n.cues, id) }
func (n *fakeNotifier) ShowText(_ shared.PlayerID, id string) { n.texts = append(n.texts, id) }

type recordingListener struct {
	started, completed, failed, unloaded, blocked int
	lastErr                                       error
}

func (l *recordingListener) OnDeliveryStarted(*delivery.Delivery) { l.started++ }
func (l *recordingListener) OnUnitUnloaded(*delivery.Delivery, production.BatchEntry) {
	l.unloaded++
}
func (l *recordingListener) OnExitBlocked(*delivery.Delivery, shared.Cell) { l.blocked++ }
func (l *recordingListener) OnDeliveryCompleted(*delivery.Delivery)        { l.completed++ }
func (l *recordingListener) OnDeliveryFailed(_ *delivery.Delivery, err error) {
	l.failed++
	l.lastErr = err
}

func item(name string, cost int, selfPropelled bool) production.Item {
	return production.Item{Name: name, ProductionType: "Starport", Cost: cost, BuildTicks: 1, SelfPropelled: selfPropelled}
}

func entry(id string, it production.Item) production.BatchEntry {
	return production.BatchEntry{ID: id, Item: it, Init: production.InitParams{Owner: owner}, Cost: it.Cost}
}

type harness struct {
	coordinator *delivery.Coordinator
	effects     *shared.EffectQueue
	ticks       *shared.TickCounter
	site        *fakeSite
	spawner     *fakeSpawner
	queue       *fakeQueue
	economy     *fakeEconomy
	observer    *fakeObserver
	notifier    *fakeNotifier
	listener    *recordingListener
}

func newHarness(cfg delivery.Config) *harness {
	h := &harness{
		effects:  shared.NewEffectQueue(),
		ticks:    shared.NewTickCounter(),
		queue:    &fakeQueue{},
		economy:  &fakeEconomy{},
		observer: &fakeObserver{},
		notifier: &fakeNotifier{},
		listener: &recordingListener{},
	}
	h.site = &fakeSite{observers: []production.DeliveryObserver{h.observer}}
	h.spawner = &fakeSpawner{site: h.site}
	h.coordinator = delivery.NewCoordinator(cfg, fakeMap{}, h.spawner, h.effects, h.ticks, h.notifier, nil)
	h.coordinator.AddListener(h.listener)
	return h
}

func (h *harness) deliver(entries ...production.BatchEntry) error {
	return h.coordinator.Deliver(production.DeliveryRequest{
		Owner:          owner,
		Site:           h.site,
		Snapshot:       production.NewBatchSnapshot(entries),
		ProductionType: "Starport",
		Queue:          h.queue,
		Economy:        h.economy,
	})
}

// tick mirrors the world loop: coordinator, actors, then the flush phase
func (h *harness) tick(n int) {
	for i := 0; i < n; i++ {
		h.ticks.Advance()
		h.coordinator.Tick()
		if c := h.spawner.carrier; c != nil {
			c.run()
		}
		h.effects.Flush()
	}
}
