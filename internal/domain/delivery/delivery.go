package delivery

import (
	"github.com/google/uuid"

	"github.com/andrescamacho/starport-go/internal/domain/production"
	"github.com/andrescamacho/starport-go/internal/domain/shared"
)

// Delivery is one carrier run, from scheduling to completion or abort
type Delivery struct {
	id             string
	owner          shared.PlayerID
	siteID         int
	productionType string
	snapshot       production.BatchSnapshot
	spawnPoint     shared.Cell
	carrierID      int
	delivered      map[string]bool
	deliveredOrder []string
	refunded       int
	blockedTicks   int
	lifecycle      *shared.LifecycleStateMachine
}

func newDelivery(req production.DeliveryRequest, ticks shared.TickSource) *Delivery {
	return &Delivery{
		id:             uuid.NewString(),
		owner:          req.Owner,
		siteID:         req.Site.ID(),
		productionType: req.ProductionType,
		snapshot:       req.Snapshot,
		delivered:      make(map[string]bool),
		lifecycle:      shared.NewLifecycleStateMachine(ticks),
	}
}

func (d *Delivery) ID() string                         { return d.id }
func (d *Delivery) Owner() shared.PlayerID             { return d.owner }
func (d *Delivery) SiteID() int                        { return d.siteID }
func (d *Delivery) ProductionType() string             { return d.productionType }
func (d *Delivery) Snapshot() production.BatchSnapshot { return d.snapshot }
func (d *Delivery) SpawnPoint() shared.Cell            { return d.spawnPoint }
func (d *Delivery) CarrierID() int                     { return d.carrierID }
func (d *Delivery) Refunded() int                      { return d.refunded }
func (d *Delivery) BlockedTicks() int                  { return d.blockedTicks }
func (d *Delivery) Status() shared.LifecycleStatus     { return d.lifecycle.Status() }

func (d *Delivery) Lifecycle() *shared.LifecycleStateMachine { return d.lifecycle }

// DeliveredCount is the number of units that reached the world
func (d *Delivery) DeliveredCount() int {
	return len(d.deliveredOrder)
}

// DeliveredItems lists delivered item names in the order they appeared
func (d *Delivery) DeliveredItems() []string {
	names := make([]string, 0, len(d.deliveredOrder))
	byID := make(map[string]string, d.snapshot.Len())
	for _, e := range d.snapshot.Entries() {
		byID[e.ID] = e.Item.Name
	}
	for _, id := range d.deliveredOrder {
		names = append(names, byID[id])
	}
	return names
}

// DeliveredCost is the value of the units that reached the world
func (d *Delivery) DeliveredCost() int {
	total := 0
	for _, e := range d.snapshot.Entries() {
		if d.delivered[e.ID] {
			total += e.Cost
		}
	}
	return total
}

// Undelivered returns the entries that have not reached the world, in batch order
func (d *Delivery) Undelivered() []production.BatchEntry {
	var out []production.BatchEntry
	for _, e := range d.snapshot.Entries() {
		if !d.delivered[e.ID] {
			out = append(out, e)
		}
	}
	return out
}

func (d *Delivery) markDelivered(entry production.BatchEntry) {
	if d.delivered[entry.ID] {
		return
	}
	d.delivered[entry.ID] = true
	d.deliveredOrder = append(d.deliveredOrder, entry.ID)
}

// Outstanding is the value still held by this delivery: neither delivered nor refunded
func (d *Delivery) Outstanding() int {
	if d.lifecycle.IsFinished() {
		return 0
	}
	return d.snapshot.TotalCost() - d.DeliveredCost()
}

// OperationContext links refunds to this delivery
func (d *Delivery) OperationContext(item string) *shared.OperationContext {
	return shared.NewOperationContext("delivery", d.id, shared.OperationDelivery, item)
}
