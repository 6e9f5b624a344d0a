package production

import (
	"github.com/google/uuid"

	"github.com/andrescamacho/starport-go/internal/domain/shared"
)

// InitParams are the values a unit is created with when it enters the world
type InitParams struct {
	Owner   shared.PlayerID
	Faction string
}

// BatchEntry is a produced unit waiting for delivery
type BatchEntry struct {
	ID      string
	Item    Item
	Init    InitParams
	Cost    int
	OrderID string
}

func newBatchEntry(order *PurchaseOrder, init InitParams) BatchEntry {
	return BatchEntry{
		ID:      uuid.NewString(),
		Item:    order.item,
		Init:    init,
		Cost:    order.paid,
		OrderID: order.id,
	}
}

// OperationContext links money movements for this entry back to it
func (e BatchEntry) OperationContext(operationType string) *shared.OperationContext {
	return shared.NewOperationContext("batch_entry", e.ID, operationType, e.Item.Name)
}

// BatchSnapshot is the immutable hand-off of a ready batch to the delivery side.
// The queue keeps no reference to the entries once the snapshot exists.
type BatchSnapshot struct {
	id        string
	entries   []BatchEntry
	totalCost int
}

// NewBatchSnapshot copies entries into a new snapshot
func NewBatchSnapshot(entries []BatchEntry) BatchSnapshot {
	copied := make([]BatchEntry, len(entries))
	copy(copied, entries)
	total := 0
	for _, e := range copied {
		total += e.Cost
	}
	return BatchSnapshot{id: uuid.NewString(), entries: copied, totalCost: total}
}

func (s BatchSnapshot) ID() string     { return s.id }
func (s BatchSnapshot) Len() int       { return len(s.entries) }
func (s BatchSnapshot) TotalCost() int { return s.totalCost }

// Entries returns a copy of the entries in the order they were produced
func (s BatchSnapshot) Entries() []BatchEntry {
	out := make([]BatchEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// ItemNames lists entry items in production order
func (s BatchSnapshot) ItemNames() []string {
	out := make([]string, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.Item.Name
	}
	return out
}
