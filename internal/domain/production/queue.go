package production

import (
	"fmt"

	"github.com/andrescamacho/starport-go/internal/domain/shared"
)

// DeliveryState tracks where the ready batch is in its lifecycle
type DeliveryState string

const (
	DeliveryStateIdle         DeliveryState = "IDLE"
	DeliveryStateAccumulating DeliveryState = "ACCUMULATING"
	DeliveryStateFull         DeliveryState = "FULL"
	DeliveryStateInTransit    DeliveryState = "IN_TRANSIT"
)

// PaymentPolicy decides when an order is charged
type PaymentPolicy string

const (
	// PaymentOnCompletion charges when the build time is used up; a failed charge stalls the order
	PaymentOnCompletion PaymentPolicy = "on_completion"
	// PaymentPrepay charges every order when it is enqueued
	PaymentPrepay PaymentPolicy = "prepay"
)

// DefaultMaxCapacity is the batch size of a queue without explicit configuration
const DefaultMaxCapacity = 3

// QueueConfig configures one order queue
type QueueConfig struct {
	Type           string
	MaxCapacity    int
	QueueLimit     int // max orders on the timeline, 0 = unlimited
	ItemLimit      int // max orders per item on the timeline, 0 = unlimited
	Payment        PaymentPolicy
	ManualDispatch bool // when false a FULL batch is dispatched automatically
	SpeedUp        bool
	SpeedUpPercent int
	StockSeed      int64
}

// QueueOption customises an OrderQueue
type QueueOption func(*OrderQueue)

func WithDispatcher(d Dispatcher) QueueOption { return func(q *OrderQueue) { q.dispatcher = d } }

func WithUnitCounter(u UnitCounter) QueueOption { return func(q *OrderQueue) { q.units = u } }

func WithLogger(l shared.Logger) QueueOption { return func(q *OrderQueue) { q.logger = shared.LoggerOrNop(l) } }

// OrderQueue accumulates completed orders of one owner into a bounded batch and hands the
// batch over for delivery.
//
// Invariants:
// - len(batch) <= MaxCapacity
// - no entry is added while IN_TRANSIT
// - every order is consumed once: as a batch entry or as a refund
// - DeliverFinished is idempotent
type OrderQueue struct {
	owner   shared.PlayerID
	cfg     QueueConfig
	catalog *Catalog
	sites   *SiteRegistry
	economy Economy

	dispatcher Dispatcher
	units      UnitCounter
	logger     shared.Logger

	timeline  *Timeline
	stock     *StockPiles
	batch     []BatchEntry
	batchCost int
	inFlight  *BatchSnapshot
	state     DeliveryState
	enabled   bool
	active    bool
}

// NewOrderQueue creates a queue in IDLE state
func NewOrderQueue(
	owner shared.PlayerID,
	cfg QueueConfig,
	catalog *Catalog,
	sites *SiteRegistry,
	economy Economy,
	opts ...QueueOption,
) *OrderQueue {
	if cfg.MaxCapacity <= 0 {
		cfg.MaxCapacity = DefaultMaxCapacity
	}
	if cfg.Payment == "" {
		cfg.Payment = PaymentOnCompletion
	}
	q := &OrderQueue{
		owner:    owner,
		cfg:      cfg,
		catalog:  catalog,
		sites:    sites,
		economy:  economy,
		logger:   shared.NopLogger{},
		timeline: NewTimeline(),
		stock:    NewStockPiles(catalog.ForType(cfg.Type), cfg.StockSeed),
		state:    DeliveryStateIdle,
	}
	for _, opt := range opts {
		opt(q)
	}
	q.refresh()
	return q
}

func (q *OrderQueue) Owner() shared.PlayerID { return q.owner }
func (q *OrderQueue) Type() string           { return q.cfg.Type }
func (q *OrderQueue) Config() QueueConfig    { return q.cfg }
func (q *OrderQueue) State() DeliveryState   { return q.state }
func (q *OrderQueue) IsEnabled() bool        { return q.enabled }
func (q *OrderQueue) IsActive() bool         { return q.active }
func (q *OrderQueue) Timeline() *Timeline    { return q.timeline }
func (q *OrderQueue) Stock() *StockPiles     { return q.stock }
func (q *OrderQueue) BatchLen() int          { return len(q.batch) }
func (q *OrderQueue) BatchCost() int         { return q.batchCost }

// Batch returns a copy of the ready batch
func (q *OrderQueue) Batch() []BatchEntry {
	out := make([]BatchEntry, len(q.batch))
	copy(out, q.batch)
	return out
}

// InFlight returns the snapshot currently being delivered
func (q *OrderQueue) InFlight() (BatchSnapshot, bool) {
	if q.inFlight == nil {
		return BatchSnapshot{}, false
	}
	return *q.inFlight, true
}

// AllItems returns every item of this queue type, or nothing while disabled
func (q *OrderQueue) AllItems() []Item {
	if !q.enabled {
		return nil
	}
	return q.catalog.ForType(q.cfg.Type)
}

// BuildableItems returns what may be ordered now: nothing while disabled, FULL or IN_TRANSIT
func (q *OrderQueue) BuildableItems() []Item {
	if !q.acceptsOrders() {
		return nil
	}
	return q.catalog.ForType(q.cfg.Type)
}

func (q *OrderQueue) acceptsOrders() bool {
	return q.enabled && q.state != DeliveryStateFull && q.state != DeliveryStateInTransit
}

// Enqueue validates a purchase and schedules up to quantity orders. It returns how many were
// created. A rejected call changes nothing.
func (q *OrderQueue) Enqueue(itemName string, quantity int, queued bool) (int, error) {
	q.refresh()

	if !q.enabled {
		return 0, shared.NewValidationError("queue", fmt.Sprintf("%s queue has no production site", q.cfg.Type))
	}
	item, ok := q.catalog.Get(itemName)
	if !ok {
		return 0, shared.NewValidationError("item", fmt.Sprintf("unknown item %q", itemName))
	}
	if item.ProductionType != q.cfg.Type {
		return 0, shared.NewValidationError("item", fmt.Sprintf("%s is not built by the %s queue", itemName, q.cfg.Type))
	}
	if !q.acceptsOrders() {
		return 0, shared.NewValidationError("item", fmt.Sprintf("%s is not buildable while %s", itemName, q.state))
	}
	if quantity <= 0 {
		return 0, shared.NewValidationError("quantity", "must be positive")
	}

	allowed := q.allowedAmount(item, quantity)
	if allowed <= 0 {
		return 0, shared.NewValidationError("quantity", fmt.Sprintf("limit reached for %s", itemName))
	}

	if q.cfg.Payment == PaymentPrepay {
		required := allowed * item.Cost
		if available := q.economy.AvailableFunds(); available < required {
			return 0, shared.NewInsufficientFundsError(required, available)
		}
	}

	orders := make([]*PurchaseOrder, 0, allowed)
	for i := 0; i < allowed; i++ {
		order := newPurchaseOrder(item, q.buildTicksFor(item))
		if q.cfg.Payment == PaymentPrepay && item.Cost > 0 {
			if !q.economy.Charge(item.Cost, q.orderContext(order)) {
				// funds were checked above; only a misbehaving economy gets here
				q.refundOrders(orders)
				return 0, shared.NewInsufficientFundsError(allowed*item.Cost, q.economy.AvailableFunds())
			}
			order.markPaid(item.Cost)
		}
		orders = append(orders, order)
	}
	q.stock.Take(item.Name, allowed)

	if queued {
		q.timeline.Append(orders...)
	} else {
		q.timeline.InsertPriority(orders...)
	}

	q.logger.Log(shared.LevelDebug, "Orders enqueued", map[string]interface{}{
		"player_id": q.owner.Value(),
		"queue":     q.cfg.Type,
		"item":      item.Name,
		"requested": quantity,
		"allowed":   allowed,
		"priority":  !queued,
	})
	return allowed, nil
}

func (q *OrderQueue) allowedAmount(item Item, quantity int) int {
	allowed := quantity
	if q.cfg.QueueLimit > 0 {
		allowed = min(allowed, q.cfg.QueueLimit-q.timeline.Len())
	}
	if q.cfg.ItemLimit > 0 {
		allowed = min(allowed, q.cfg.ItemLimit-q.timeline.CountItem(item.Name))
	}
	if item.BuildLimit > 0 {
		owned := q.timeline.CountItem(item.Name) + q.batchCount(item.Name)
		if q.units != nil {
			owned += q.units.CountUnits(q.owner, item.Name)
		}
		allowed = min(allowed, item.BuildLimit-owned)
	}
	if stock, tracked := q.stock.Available(item.Name); tracked {
		allowed = min(allowed, stock)
	}
	return allowed
}

func (q *OrderQueue) buildTicksFor(item Item) int {
	ticks := item.BuildTicks
	if !q.cfg.SpeedUp || q.cfg.SpeedUpPercent <= 0 {
		return ticks
	}
	reduction := q.cfg.SpeedUpPercent * q.batchCount(item.Name)
	if reduction >= 100 {
		return 1
	}
	return max(1, ticks*(100-reduction)/100)
}

func (q *OrderQueue) batchCount(name string) int {
	n := 0
	for _, e := range q.batch {
		if e.Item.Name == name {
			n++
		}
	}
	return n
}

// PauseProduction pauses or resumes every timeline order of the item
func (q *OrderQueue) PauseProduction(itemName string, paused bool) int {
	orders := q.timeline.ByItem(itemName)
	for _, o := range orders {
		o.paused = paused
	}
	return len(orders)
}

// CancelProduction removes up to count orders of the item, newest first, refunding what they paid
func (q *OrderQueue) CancelProduction(itemName string, count int) int {
	if count <= 0 {
		return 0
	}
	orders := q.timeline.Newest(itemName, count)
	for _, o := range orders {
		q.cancelOrder(o, "cancelled")
	}
	return len(orders)
}

// OnProductionComplete is called once for every order reaching DONE
func (q *OrderQueue) OnProductionComplete(order *PurchaseOrder) {
	q.BuildUnit(order)
}

// BuildUnit turns a finished order into a batch entry at the best eligible site.
// It returns true when the order was consumed (entry added or refunded).
func (q *OrderQueue) BuildUnit(order *PurchaseOrder) bool {
	if !order.IsDone() || q.state == DeliveryStateInTransit {
		return false
	}

	sites := q.sites.Eligible(q.owner, q.cfg.Type)
	if len(sites) == 0 {
		err := &ErrSiteUnavailable{Owner: q.owner, ProductionType: q.cfg.Type}
		q.logger.Log(shared.LevelWarn, "Order cancelled", map[string]interface{}{
			"player_id": q.owner.Value(),
			"order_id":  order.id,
			"error":     err.Error(),
		})
		q.cancelOrder(order, "no site")
		return true
	}

	for _, site := range sites {
		if site.IsPaused() {
			continue
		}

		if len(q.batch) >= q.cfg.MaxCapacity {
			err := &ErrCapacityExceeded{Capacity: q.cfg.MaxCapacity, Item: order.item.Name}
			q.logger.Log(shared.LevelInfo, "Completed order refunded", map[string]interface{}{
				"player_id": q.owner.Value(),
				"order_id":  order.id,
				"error":     err.Error(),
			})
			q.cancelOrder(order, "batch full")
			return true
		}

		entry := newBatchEntry(order, InitParams{Owner: q.owner, Faction: site.Faction()})
		q.timeline.Remove(order)
		q.batch = append(q.batch, entry)
		q.batchCost += entry.Cost
		if len(q.batch) >= q.cfg.MaxCapacity {
			q.state = DeliveryStateFull
		} else {
			q.state = DeliveryStateAccumulating
		}

		q.logger.Log(shared.LevelDebug, "Unit ready for delivery", map[string]interface{}{
			"player_id": q.owner.Value(),
			"item":      entry.Item.Name,
			"site_id":   site.ID(),
			"batch":     len(q.batch),
			"capacity":  q.cfg.MaxCapacity,
		})
		return true
	}

	// every eligible site is paused: keep the order and retry next tick
	return false
}

// StartDelivery hands the ready batch to the dispatcher. Orders still on the timeline are
// dropped with refunds.
func (q *OrderQueue) StartDelivery() error {
	if q.state != DeliveryStateAccumulating && q.state != DeliveryStateFull {
		return shared.NewInvalidStateError("start delivery", string(q.state))
	}
	if len(q.batch) == 0 {
		return shared.NewInvalidStateError("start delivery", "empty batch")
	}
	if q.dispatcher == nil {
		return &ErrNoDispatcher{}
	}
	site, ok := q.sites.FirstActive(q.owner, q.cfg.Type)
	if !ok {
		return &ErrSiteUnavailable{Owner: q.owner, ProductionType: q.cfg.Type}
	}

	snapshot := NewBatchSnapshot(q.batch)
	prevState, prevBatch, prevCost := q.state, q.batch, q.batchCost

	q.state = DeliveryStateInTransit
	q.inFlight = &snapshot
	q.batch = nil
	q.batchCost = 0

	err := q.dispatcher.Deliver(DeliveryRequest{
		Owner:          q.owner,
		Site:           site,
		Snapshot:       snapshot,
		ProductionType: q.cfg.Type,
		Queue:          q,
		Economy:        q.economy,
	})
	if err != nil {
		q.state, q.batch, q.batchCost = prevState, prevBatch, prevCost
		q.inFlight = nil
		return fmt.Errorf("dispatch delivery: %w", err)
	}

	q.clearTimeline("delivery started")

	q.logger.Log(shared.LevelInfo, "Delivery started", map[string]interface{}{
		"player_id":   q.owner.Value(),
		"site_id":     site.ID(),
		"snapshot_id": snapshot.ID(),
		"units":       snapshot.Len(),
		"total_cost":  snapshot.TotalCost(),
	})
	return nil
}

// ReturnOrder removes up to count entries of the item from the batch tail, refunding each
func (q *OrderQueue) ReturnOrder(itemName string, count int) (int, error) {
	if q.state == DeliveryStateInTransit {
		return 0, shared.NewInvalidStateError("return order", string(q.state))
	}
	if count <= 0 {
		return 0, shared.NewValidationError("count", "must be positive")
	}

	returned := 0
	for i := len(q.batch) - 1; i >= 0 && returned < count; i-- {
		entry := q.batch[i]
		if entry.Item.Name != itemName {
			continue
		}
		q.batch = append(q.batch[:i], q.batch[i+1:]...)
		q.batchCost -= entry.Cost
		q.economy.Refund(entry.Cost, entry.OperationContext(shared.OperationProduction))
		q.stock.Return(entry.Item.Name, 1)
		returned++
	}

	switch {
	case len(q.batch) == 0:
		q.state = DeliveryStateIdle
	case len(q.batch) < q.cfg.MaxCapacity:
		q.state = DeliveryStateAccumulating
	}
	return returned, nil
}

// DeliverFinished resets the queue after a delivery. Calling it outside IN_TRANSIT does nothing.
func (q *OrderQueue) DeliverFinished() {
	if q.state != DeliveryStateInTransit {
		return
	}
	q.state = DeliveryStateIdle
	q.inFlight = nil
	q.batch = nil
	q.batchCost = 0
}

// Tick runs one simulation step of the queue
func (q *OrderQueue) Tick() {
	q.refresh()
	if !q.enabled {
		q.clearTimeline("queue disabled")
	}

	q.stock.Tick()

	if q.active {
		q.advance()
	}
	for _, order := range q.timeline.Done() {
		q.OnProductionComplete(order)
	}

	if q.state == DeliveryStateFull && !q.cfg.ManualDispatch {
		if err := q.StartDelivery(); err != nil {
			q.logger.Log(shared.LevelDebug, "Automatic dispatch deferred", map[string]interface{}{
				"player_id": q.owner.Value(),
				"error":     err.Error(),
			})
		}
	}
}

func (q *OrderQueue) refresh() {
	q.enabled, q.active = false, false
	for _, s := range q.sites.Eligible(q.owner, q.cfg.Type) {
		q.enabled = true
		q.active = q.active || !s.IsPaused()
	}
}

func (q *OrderQueue) advance() {
	order := q.timeline.Current()
	if order == nil {
		return
	}
	if !order.advance() {
		return
	}
	if !order.IsFullyPaid() {
		due := order.Cost() - order.Paid()
		if !q.economy.Charge(due, q.orderContext(order)) {
			// stalled until funds arrive
			return
		}
		order.markPaid(due)
	}
	order.complete()
}

func (q *OrderQueue) cancelOrder(order *PurchaseOrder, reason string) {
	q.timeline.Remove(order)
	refund := order.cancel()
	q.economy.Refund(refund, q.orderContext(order))
	q.stock.Return(order.item.Name, 1)
	q.logger.Log(shared.LevelDebug, "Order removed", map[string]interface{}{
		"player_id": q.owner.Value(),
		"order_id":  order.id,
		"item":      order.item.Name,
		"refund":    refund,
		"reason":    reason,
	})
}

func (q *OrderQueue) refundOrders(orders []*PurchaseOrder) {
	for _, o := range orders {
		q.economy.Refund(o.cancel(), q.orderContext(o))
	}
}

func (q *OrderQueue) clearTimeline(reason string) {
	for _, o := range q.timeline.Orders() {
		q.cancelOrder(o, reason)
	}
}

func (q *OrderQueue) orderContext(order *PurchaseOrder) *shared.OperationContext {
	return shared.NewOperationContext("order", order.id, shared.OperationProduction, order.item.Name)
}
