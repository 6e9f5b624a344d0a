package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/starport-go/internal/application/common"
	appDelivery "github.com/andrescamacho/starport-go/internal/application/delivery"
	"github.com/andrescamacho/starport-go/internal/domain/delivery"
)

// RecordDeliveriesCommand persists the records of finished deliveries
type RecordDeliveriesCommand struct{}

// RecordDeliveriesResponse reports how many records were written
type RecordDeliveriesResponse struct {
	Recorded int
}

// RecordDeliveriesHandler handles the RecordDeliveries command
type RecordDeliveriesHandler struct {
	recorder *appDelivery.Recorder
	repo     delivery.RecordRepository
}

// NewRecordDeliveriesHandler creates a new RecordDeliveriesHandler
func NewRecordDeliveriesHandler(recorder *appDelivery.Recorder, repo delivery.RecordRepository) *RecordDeliveriesHandler {
	return &RecordDeliveriesHandler{recorder: recorder, repo: repo}
}

// Handle executes the RecordDeliveries command
func (h *RecordDeliveriesHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	if _, ok := request.(*RecordDeliveriesCommand); !ok {
		return nil, fmt.Errorf("invalid request type: expected *RecordDeliveriesCommand")
	}

	pending := h.recorder.Drain()
	for i, rec := range pending {
		if err := h.repo.Save(ctx, rec); err != nil {
			h.recorder.Requeue(pending[i:])
			return &RecordDeliveriesResponse{Recorded: i}, fmt.Errorf("failed to persist delivery %s: %w", rec.ID, err)
		}
	}
	return &RecordDeliveriesResponse{Recorded: len(pending)}, nil
}
