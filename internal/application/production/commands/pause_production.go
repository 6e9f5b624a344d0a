package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/starport-go/internal/application/common"
	appProduction "github.com/andrescamacho/starport-go/internal/application/production"
	"github.com/andrescamacho/starport-go/internal/domain/production"
)

// PauseProductionCommand pauses or resumes every queued order of Item
type PauseProductionCommand struct {
	QueueType string
	Item      string
	Paused    bool
}

// PauseProductionResponse reports how many orders changed
type PauseProductionResponse struct {
	Affected int
}

// PauseProductionHandler handles the PauseProduction command
type PauseProductionHandler struct {
	queues appProduction.QueueLocator
}

// NewPauseProductionHandler creates a new PauseProductionHandler
func NewPauseProductionHandler(queues appProduction.QueueLocator) *PauseProductionHandler {
	return &PauseProductionHandler{queues: queues}
}

// Handle executes the PauseProduction command
func (h *PauseProductionHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*PauseProductionCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *PauseProductionCommand")
	}

	var affected int
	err := h.queues.WithQueue(cmd.QueueType, func(q *production.OrderQueue) error {
		affected = q.PauseProduction(cmd.Item, cmd.Paused)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &PauseProductionResponse{Affected: affected}, nil
}
