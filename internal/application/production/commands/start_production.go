package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/starport-go/internal/application/common"
	appProduction "github.com/andrescamacho/starport-go/internal/application/production"
	"github.com/andrescamacho/starport-go/internal/domain/production"
)

// StartProductionCommand queues Quantity orders of Item.
// Queued=false puts the orders right behind the one in production.
type StartProductionCommand struct {
	QueueType string
	Item      string
	Quantity  int
	Queued    bool
}

// StartProductionResponse reports how many orders were accepted
type StartProductionResponse struct {
	Accepted int
}

// StartProductionHandler handles the StartProduction command
type StartProductionHandler struct {
	queues appProduction.QueueLocator
}

// NewStartProductionHandler creates a new StartProductionHandler
func NewStartProductionHandler(queues appProduction.QueueLocator) *StartProductionHandler {
	return &StartProductionHandler{queues: queues}
}

// Handle executes the StartProduction command
func (h *StartProductionHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*StartProductionCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *StartProductionCommand")
	}

	var accepted int
	err := h.queues.WithQueue(cmd.QueueType, func(q *production.OrderQueue) error {
		n, err := q.Enqueue(cmd.Item, cmd.Quantity, cmd.Queued)
		accepted = n
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start production of %s: %w", cmd.Item, err)
	}

	common.LoggerFromContext(ctx).Log("INFO", "Production started", map[string]interface{}{
		"queue":    cmd.QueueType,
		"item":     cmd.Item,
		"accepted": accepted,
		"queued":   cmd.Queued,
	})

	return &StartProductionResponse{Accepted: accepted}, nil
}
