package production

import (
	"github.com/google/uuid"
)

// OrderState is the lifecycle of a purchase order on the timeline
type OrderState string

const (
	OrderStateQueued       OrderState = "QUEUED"
	OrderStateInProduction OrderState = "IN_PRODUCTION"
	OrderStateDone         OrderState = "DONE"
	OrderStateCancelled    OrderState = "CANCELLED"
)

// PurchaseOrder is one unit being produced. It is consumed exactly once: either it becomes a
// batch entry or it is cancelled with a refund of what was paid.
type PurchaseOrder struct {
	id         string
	item       Item
	buildTicks int
	remaining  int
	paid       int
	paused     bool
	state      OrderState
}

func newPurchaseOrder(item Item, buildTicks int) *PurchaseOrder {
	if buildTicks < 1 {
		buildTicks = 1
	}
	return &PurchaseOrder{
		id:         uuid.NewString(),
		item:       item,
		buildTicks: buildTicks,
		remaining:  buildTicks,
		state:      OrderStateQueued,
	}
}

func (o *PurchaseOrder) ID() string          { return o.id }
func (o *PurchaseOrder) Item() Item          { return o.item }
func (o *PurchaseOrder) Cost() int           { return o.item.Cost }
func (o *PurchaseOrder) BuildTicks() int     { return o.buildTicks }
func (o *PurchaseOrder) RemainingTicks() int { return o.remaining }
func (o *PurchaseOrder) Paid() int           { return o.paid }
func (o *PurchaseOrder) IsPaused() bool      { return o.paused }
func (o *PurchaseOrder) State() OrderState   { return o.state }
func (o *PurchaseOrder) IsDone() bool        { return o.state == OrderStateDone }

// IsFullyPaid reports whether the order's cost has been collected
func (o *PurchaseOrder) IsFullyPaid() bool {
	return o.paid >= o.item.Cost
}

// Progress returns completed build ticks
func (o *PurchaseOrder) Progress() int {
	return o.buildTicks - o.remaining
}

// advance consumes one build tick. It returns true when the build time is used up.
func (o *PurchaseOrder) advance() bool {
	if o.paused || o.state == OrderStateDone || o.state == OrderStateCancelled {
		return false
	}
	o.state = OrderStateInProduction
	if o.remaining > 0 {
		o.remaining--
	}
	return o.remaining == 0
}

func (o *PurchaseOrder) markPaid(amount int) {
	o.paid += amount
}

func (o *PurchaseOrder) complete() {
	o.state = OrderStateDone
}

// cancel marks the order cancelled and returns what must be refunded
func (o *PurchaseOrder) cancel() int {
	refund := o.paid
	o.paid = 0
	o.state = OrderStateCancelled
	return refund
}
