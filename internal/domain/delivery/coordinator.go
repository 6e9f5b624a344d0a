package delivery

import (
	"fmt"
	"sort"

	"github.com/andrescamacho/starport-go/internal/domain/production"
	"github.com/andrescamacho/starport-go/internal/domain/shared"
)

// SpawnMode selects where carriers and air cargo enter the map
type SpawnMode string

const (
	SpawnModeEdge  SpawnMode = "edge"
	SpawnModeFixed SpawnMode = "fixed"
)

// Config tunes the delivery choreography
type Config struct {
	CarrierType        string
	SpawnMode          SpawnMode
	FixedSpawn         shared.Cell
	Facing             shared.Facing
	LandOffset         shared.CVec
	WaitBeforeUnload   int
	WaitAfterUnload    int
	UnloadStaggerTicks int
	AirStaggerTicks    int
	ReadyAudio         string
	ReadyText          string
	HistorySize        int
}

// DefaultConfig mirrors the stock starport setup
func DefaultConfig() Config {
	return Config{
		CarrierType:     "frigate",
		SpawnMode:       SpawnModeEdge,
		Facing:          shared.NewFacing(256),
		AirStaggerTicks: 10,
		ReadyAudio:      "Reinforce",
		HistorySize:     32,
	}
}

type run struct {
	delivery *Delivery
	req      production.DeliveryRequest
	carrier  Carrier
	unload   *UnloadActivity
	finished bool
}

// Coordinator orchestrates deliveries end to end: launch, flight, unload and the single
// completion or refund per delivery.
type Coordinator struct {
	cfg       Config
	world     Map
	spawner   Spawner
	effects   shared.Deferrer
	ticks     shared.TickSource
	notifier  Notifier
	logger    shared.Logger
	listeners []Listener

	active  []*run
	history []*Delivery
}

// NewCoordinator creates a coordinator. notifier and logger may be nil.
func NewCoordinator(
	cfg Config,
	world Map,
	spawner Spawner,
	effects shared.Deferrer,
	ticks shared.TickSource,
	notifier Notifier,
	logger shared.Logger,
) *Coordinator {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	if cfg.SpawnMode == "" {
		cfg.SpawnMode = SpawnModeEdge
	}
	if cfg.HistorySize <= 0 {
		cfg.HistorySize = 32
	}
	return &Coordinator{
		cfg:      cfg,
		world:    world,
		spawner:  spawner,
		effects:  effects,
		ticks:    ticks,
		notifier: notifier,
		logger:   shared.LoggerOrNop(logger),
	}
}

// AddListener registers a progress listener
func (c *Coordinator) AddListener(l Listener) {
	c.listeners = append(c.listeners, l)
}

// Active returns deliveries that have not finished
func (c *Coordinator) Active() []*Delivery {
	out := make([]*Delivery, 0, len(c.active))
	for _, r := range c.active {
		if !r.finished {
			out = append(out, r.delivery)
		}
	}
	return out
}

// History returns the most recently finished deliveries in finishing order
func (c *Coordinator) History() []*Delivery {
	return append([]*Delivery(nil), c.history...)
}

// Deliver schedules a delivery. Observers of the site learn about it at once; the carrier is
// launched in the next effect flush.
func (c *Coordinator) Deliver(req production.DeliveryRequest) error {
	switch {
	case req.Site == nil:
		return &ErrInvalidRequest{Reason: "no site"}
	case req.Snapshot.Len() == 0:
		return &ErrInvalidRequest{Reason: "empty batch"}
	case req.Queue == nil:
		return &ErrInvalidRequest{Reason: "no queue to notify"}
	case req.Economy == nil:
		return &ErrInvalidRequest{Reason: "no economy for refunds"}
	}

	r := &run{delivery: newDelivery(req, c.ticks), req: req}
	c.active = append(c.active, r)

	for _, obs := range req.Site.Observers() {
		obs.IncomingDelivery(req.Site)
	}

	c.logger.Log(shared.LevelInfo, "Delivery scheduled", map[string]interface{}{
		"delivery_id": r.delivery.id,
		"player_id":   req.Owner.Value(),
		"site_id":     req.Site.ID(),
		"units":       req.Snapshot.Len(),
		"total_cost":  req.Snapshot.TotalCost(),
	})

	c.effects.Defer("delivery.launch", func() { c.launch(r) })
	return nil
}

// Tick aborts deliveries whose carrier was lost and forgets finished ones
func (c *Coordinator) Tick() {
	for _, r := range c.active {
		if r.finished || r.carrier == nil {
			continue
		}
		if r.carrier.IsDead() {
			c.fail(r, "carrier destroyed")
		}
	}

	kept := c.active[:0]
	for _, r := range c.active {
		if !r.finished {
			kept = append(kept, r)
		}
	}
	c.active = kept
}

func (c *Coordinator) launch(r *run) {
	d := r.delivery
	site := r.req.Site
	_ = d.lifecycle.Start()

	if !site.IsAlive() {
		c.fail(r, "site lost before launch")
		return
	}

	d.spawnPoint = c.spawnPoint(site)
	plan := c.flightPlan(site, r.req.ProductionType)
	exitCell := c.exitCell(site, r.req.ProductionType)

	for _, l := range c.listeners {
		l.OnDeliveryStarted(d)
	}

	var ground []production.BatchEntry
	air := 0
	for _, entry := range d.snapshot.Entries() {
		if !entry.Item.SelfPropelled {
			ground = append(ground, entry)
			continue
		}
		unit, err := c.spawner.SpawnUnit(entry, d.spawnPoint, shared.FacingBetween(d.spawnPoint, exitCell))
		if err != nil {
			c.logger.Log(shared.LevelWarn, "Air cargo spawn failed, loading onto carrier", map[string]interface{}{
				"delivery_id": d.id,
				"item":        entry.Item.Name,
				"error":       err.Error(),
			})
			ground = append(ground, entry)
			continue
		}
		if wait := c.cfg.AirStaggerTicks * air; wait > 0 {
			unit.QueueWait(wait)
		}
		unit.QueueMoveTo(exitCell)
		for _, p := range plan {
			unit.QueueMoveTo(p)
		}
		air++
		c.unitDelivered(r, entry)
	}

	if len(ground) == 0 {
		c.succeed(r)
		return
	}

	carrier, err := c.spawner.SpawnCarrier(c.cfg.CarrierType, d.owner, d.spawnPoint, shared.FacingBetween(d.spawnPoint, site.Location()))
	if err != nil {
		c.fail(r, fmt.Sprintf("carrier spawn failed: %v", err))
		return
	}
	r.carrier = carrier
	d.carrierID = carrier.ID()

	r.unload = NewUnloadActivity(ground, site, carrier, r.req.ProductionType, c.spawner, c.effects, c.cfg.UnloadStaggerTicks, UnloadHooks{
		OnUnloaded: func(entry production.BatchEntry) { c.unitDelivered(r, entry) },
		OnBlocked:  func(cell shared.Cell) { c.exitBlocked(r, cell) },
		OnComplete: func() { c.succeed(r) },
		OnAbort:    func() { c.fail(r, "carrier or site lost while unloading") },
	})

	carrier.QueueMoveTo(site.Location())
	carrier.QueueLand(site, c.cfg.LandOffset, c.cfg.Facing)
	if c.cfg.WaitBeforeUnload > 0 {
		carrier.QueueWait(c.cfg.WaitBeforeUnload)
	}
	carrier.QueueActivity(&callActivity{name: "landed", fn: func() { c.landed(r) }})
	carrier.QueueActivity(r.unload)
	if c.cfg.WaitAfterUnload > 0 {
		carrier.QueueWait(c.cfg.WaitAfterUnload)
	}
	carrier.QueueMoveTo(d.spawnPoint)
	carrier.QueueRemoveSelf()

	c.logger.Log(shared.LevelDebug, "Carrier launched", map[string]interface{}{
		"delivery_id": d.id,
		"carrier_id":  carrier.ID(),
		"spawn":       d.spawnPoint.String(),
		"ground":      len(ground),
		"air":         air,
	})
}

// landed is the post-landing checkpoint
func (c *Coordinator) landed(r *run) {
	if r.finished {
		return
	}
	if !r.req.Site.IsAlive() || r.carrier.IsDead() {
		c.fail(r, "site lost before unloading")
		return
	}
	r.unload.Start()
}

func (c *Coordinator) unitDelivered(r *run, entry production.BatchEntry) {
	r.delivery.markDelivered(entry)
	for _, l := range c.listeners {
		l.OnUnitUnloaded(r.delivery, entry)
	}
}

func (c *Coordinator) exitBlocked(r *run, cell shared.Cell) {
	r.delivery.blockedTicks++
	for _, l := range c.listeners {
		l.OnExitBlocked(r.delivery, cell)
	}
}

func (c *Coordinator) succeed(r *run) {
	if r.finished {
		return
	}
	r.finished = true
	d := r.delivery
	_ = d.lifecycle.Complete()
	c.archive(d)

	site := r.req.Site
	for _, obs := range site.Observers() {
		obs.Delivered(site)
	}
	if c.cfg.ReadyAudio != "" {
		c.notifier.PlayCue(d.owner, c.cfg.ReadyAudio)
	}
	if c.cfg.ReadyText != "" {
		c.notifier.ShowText(d.owner, c.cfg.ReadyText)
	}
	for _, l := range c.listeners {
		l.OnDeliveryCompleted(d)
	}

	c.logger.Log(shared.LevelInfo, "Delivery completed", map[string]interface{}{
		"delivery_id": d.id,
		"player_id":   d.owner.Value(),
		"units":       d.DeliveredCount(),
		"ticks":       uint64(d.lifecycle.Duration()),
	})
	r.req.Queue.DeliverFinished()
}

// fail refunds everything not yet in the world and releases the queue, once per delivery
func (c *Coordinator) fail(r *run, reason string) {
	if r.finished {
		return
	}
	r.finished = true
	if r.unload != nil {
		r.unload.Abort()
	}

	d := r.delivery
	err := &ErrDeliveryAborted{DeliveryID: d.id, Reason: reason}
	remaining := d.Undelivered()
	for _, e := range remaining {
		d.refunded += e.Cost
	}
	_ = d.lifecycle.Fail(err)
	c.archive(d)

	for _, l := range c.listeners {
		l.OnDeliveryFailed(d, err)
	}
	c.logger.Log(shared.LevelWarn, "Delivery aborted", map[string]interface{}{
		"delivery_id": d.id,
		"player_id":   d.owner.Value(),
		"reason":      reason,
		"refunded":    d.refunded,
		"delivered":   d.DeliveredCount(),
	})

	economy, queue := r.req.Economy, r.req.Queue
	c.effects.Defer("delivery.refund", func() {
		for _, e := range remaining {
			economy.Refund(e.Cost, d.OperationContext(e.Item.Name))
		}
		queue.DeliverFinished()
	})
}

func (c *Coordinator) archive(d *Delivery) {
	c.history = append(c.history, d)
	if over := len(c.history) - c.cfg.HistorySize; over > 0 {
		c.history = append([]*Delivery(nil), c.history[over:]...)
	}
}

func (c *Coordinator) spawnPoint(site production.Site) shared.Cell {
	if c.cfg.SpawnMode == SpawnModeFixed || c.world == nil {
		return c.cfg.FixedSpawn
	}
	return c.world.ClosestEdgeCell(site.Location())
}

func (c *Coordinator) flightPlan(site production.Site, productionType string) []shared.Cell {
	if rally := site.RallyPoints(); len(rally) > 0 {
		return append([]shared.Cell(nil), rally...)
	}
	return []shared.Cell{c.exitCell(site, productionType)}
}

func (c *Coordinator) exitCell(site production.Site, productionType string) shared.Cell {
	exits := site.ListExits(productionType)
	if len(exits) == 0 {
		return site.Location()
	}
	// closest exit to the site origin, lowest index on ties
	sort.SliceStable(exits, func(i, j int) bool {
		return exits[i].Cell.DistanceTo(site.Location()) < exits[j].Cell.DistanceTo(site.Location())
	})
	return exits[0].Cell
}

// callActivity runs a function once when it reaches the head of the activity queue
type callActivity struct {
	name string
	fn   func()
}

func (a *callActivity) Name() string { return a.name }

func (a *callActivity) Tick() bool {
	a.fn()
	return true
}
