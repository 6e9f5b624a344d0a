package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/starport-go/internal/application/common"
	appProduction "github.com/andrescamacho/starport-go/internal/application/production"
	"github.com/andrescamacho/starport-go/internal/domain/production"
)

// ReturnOrderCommand takes up to Count entries of Item back out of the ready batch for a refund
type ReturnOrderCommand struct {
	QueueType string
	Item      string
	Count     int
}

// ReturnOrderResponse reports how many batch entries were returned
type ReturnOrderResponse struct {
	Returned int
}

// ReturnOrderHandler handles the ReturnOrder command
type ReturnOrderHandler struct {
	queues appProduction.QueueLocator
}

// NewReturnOrderHandler creates a new ReturnOrderHandler
func NewReturnOrderHandler(queues appProduction.QueueLocator) *ReturnOrderHandler {
	return &ReturnOrderHandler{queues: queues}
}

// Handle executes the ReturnOrder command
func (h *ReturnOrderHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*ReturnOrderCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *ReturnOrderCommand")
	}

	var returned int
	err := h.queues.WithQueue(cmd.QueueType, func(q *production.OrderQueue) error {
		n, err := q.ReturnOrder(cmd.Item, cmd.Count)
		returned = n
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to return %s: %w", cmd.Item, err)
	}
	return &ReturnOrderResponse{Returned: returned}, nil
}
