package delivery

import (
	"context"
	"strings"

	"github.com/andrescamacho/starport-go/internal/domain/shared"
)

// Record is the persisted summary of a finished delivery
type Record struct {
	ID             string
	PlayerID       shared.PlayerID
	SiteID         int
	CarrierID      int
	ProductionType string
	Status         shared.LifecycleStatus
	Items          []string // batch contents in batch order
	DeliveredItems []string // in the order they reached the world
	TotalCost      int
	Refunded       int
	BlockedTicks   int
	CreatedTick    shared.Tick
	FinishedTick   shared.Tick
	Error          string
}

// NewRecord summarises a delivery. It is meant for finished deliveries but works on any.
func NewRecord(d *Delivery) Record {
	rec := Record{
		ID:             d.id,
		PlayerID:       d.owner,
		SiteID:         d.siteID,
		CarrierID:      d.carrierID,
		ProductionType: d.productionType,
		Status:         d.lifecycle.Status(),
		Items:          d.snapshot.ItemNames(),
		DeliveredItems: d.DeliveredItems(),
		TotalCost:      d.snapshot.TotalCost(),
		Refunded:       d.refunded,
		BlockedTicks:   d.blockedTicks,
		CreatedTick:    d.lifecycle.CreatedTick(),
	}
	if t := d.lifecycle.FinishedTick(); t != nil {
		rec.FinishedTick = *t
	}
	if err := d.lifecycle.LastError(); err != nil {
		rec.Error = err.Error()
	}
	return rec
}

// Succeeded reports whether the delivery completed
func (r Record) Succeeded() bool {
	return r.Status == shared.LifecycleStatusCompleted
}

func (r Record) String() string {
	return string(r.Status) + " [" + strings.Join(r.DeliveredItems, ",") + "]"
}

// RecordRepository persists delivery records
type RecordRepository interface {
	Save(ctx context.Context, record Record) error
	FindByPlayer(ctx context.Context, playerID shared.PlayerID, limit int) ([]Record, error)
}
