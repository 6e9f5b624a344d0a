package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/starport-go/internal/application/common"
	appProduction "github.com/andrescamacho/starport-go/internal/application/production"
	"github.com/andrescamacho/starport-go/internal/domain/production"
)

// CancelProductionCommand removes up to Count queued orders of Item, newest first, with refunds
type CancelProductionCommand struct {
	QueueType string
	Item      string
	Count     int
}

// CancelProductionResponse reports how many orders were cancelled
type CancelProductionResponse struct {
	Cancelled int
}

// CancelProductionHandler handles the CancelProduction command
type CancelProductionHandler struct {
	queues appProduction.QueueLocator
}

// NewCancelProductionHandler creates a new CancelProductionHandler
func NewCancelProductionHandler(queues appProduction.QueueLocator) *CancelProductionHandler {
	return &CancelProductionHandler{queues: queues}
}

// Handle executes the CancelProduction command
func (h *CancelProductionHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*CancelProductionCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *CancelProductionCommand")
	}
	if cmd.Count <= 0 {
		return nil, fmt.Errorf("cancel count must be positive, got %d", cmd.Count)
	}

	var cancelled int
	err := h.queues.WithQueue(cmd.QueueType, func(q *production.OrderQueue) error {
		cancelled = q.CancelProduction(cmd.Item, cmd.Count)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &CancelProductionResponse{Cancelled: cancelled}, nil
}
