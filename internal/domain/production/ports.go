package production

import "github.com/andrescamacho/starport-go/internal/domain/shared"

// Economy charges and refunds the queue owner's funds
type Economy interface {
	Charge(amount int, op *shared.OperationContext) bool
	Refund(amount int, op *shared.OperationContext)
	AvailableFunds() int
}

// UnitCounter reports how many units of an item an owner has alive in the world
type UnitCounter interface {
	CountUnits(owner shared.PlayerID, item string) int
}

// Finisher receives the single completion signal of a delivery
type Finisher interface {
	DeliverFinished()
}

// DeliveryRequest hands a batch over to the delivery side
type DeliveryRequest struct {
	Owner          shared.PlayerID
	Site           Site
	Snapshot       BatchSnapshot
	ProductionType string
	Queue          Finisher
	Economy        Economy // refunds for undelivered cargo go here
}

// Dispatcher starts deliveries
type Dispatcher interface {
	Deliver(req DeliveryRequest) error
}
