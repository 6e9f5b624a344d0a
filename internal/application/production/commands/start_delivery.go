package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/starport-go/internal/application/common"
	appProduction "github.com/andrescamacho/starport-go/internal/application/production"
	"github.com/andrescamacho/starport-go/internal/domain/production"
)

// StartDeliveryCommand dispatches the ready batch of a queue
type StartDeliveryCommand struct {
	QueueType string
}

// PurchaseOrderCommand is the player-facing name of StartDeliveryCommand
type PurchaseOrderCommand struct {
	QueueType string
}

// StartDeliveryResponse describes the dispatched batch
type StartDeliveryResponse struct {
	SnapshotID string
	Items      []string
	TotalCost  int
}

// StartDeliveryHandler handles both StartDelivery and PurchaseOrder commands
type StartDeliveryHandler struct {
	queues appProduction.QueueLocator
}

// NewStartDeliveryHandler creates a new StartDeliveryHandler
func NewStartDeliveryHandler(queues appProduction.QueueLocator) *StartDeliveryHandler {
	return &StartDeliveryHandler{queues: queues}
}

// Handle executes the StartDelivery command
func (h *StartDeliveryHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	var queueType string
	switch cmd := request.(type) {
	case *StartDeliveryCommand:
		queueType = cmd.QueueType
	case *PurchaseOrderCommand:
		queueType = cmd.QueueType
	default:
		return nil, fmt.Errorf("invalid request type: expected *StartDeliveryCommand or *PurchaseOrderCommand")
	}

	var resp StartDeliveryResponse
	err := h.queues.WithQueue(queueType, func(q *production.OrderQueue) error {
		if err := q.StartDelivery(); err != nil {
			return err
		}
		if snap, ok := q.InFlight(); ok {
			resp.SnapshotID = snap.ID()
			resp.Items = snap.ItemNames()
			resp.TotalCost = snap.TotalCost()
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start delivery: %w", err)
	}

	common.LoggerFromContext(ctx).Log("INFO", "Delivery dispatched", map[string]interface{}{
		"queue":      queueType,
		"items":      resp.Items,
		"total_cost": resp.TotalCost,
	})
	return &resp, nil
}
