package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/starport-go/internal/application/common"
	appProduction "github.com/andrescamacho/starport-go/internal/application/production"
	"github.com/andrescamacho/starport-go/internal/domain/production"
)

// GetQueueStatusQuery reads the current state of one order queue
type GetQueueStatusQuery struct {
	QueueType string
}

// OrderDTO is one order on the timeline
type OrderDTO struct {
	ID             string `json:"id"`
	Item           string `json:"item"`
	State          string `json:"state"`
	RemainingTicks int    `json:"remaining_ticks"`
	Progress       int    `json:"progress"`
	Paid           int    `json:"paid"`
	Paused         bool   `json:"paused"`
}

// QueueStatusDTO is a read-only view of an order queue
type QueueStatusDTO struct {
	Type           string     `json:"type"`
	State          string     `json:"state"`
	Enabled        bool       `json:"enabled"`
	Active         bool       `json:"active"`
	MaxCapacity    int        `json:"max_capacity"`
	Timeline       []OrderDTO `json:"timeline"`
	Batch          []string   `json:"batch"`
	BatchCost      int        `json:"batch_cost"`
	InFlight       []string   `json:"in_flight,omitempty"`
	InFlightCost   int        `json:"in_flight_cost,omitempty"`
	BuildableItems []string   `json:"buildable_items"`
}

// NewQueueStatusDTO copies the observable state of q
func NewQueueStatusDTO(q *production.OrderQueue) QueueStatusDTO {
	dto := QueueStatusDTO{
		Type:        q.Type(),
		State:       string(q.State()),
		Enabled:     q.IsEnabled(),
		Active:      q.IsActive(),
		MaxCapacity: q.Config().MaxCapacity,
		BatchCost:   q.BatchCost(),
	}
	for _, o := range q.Timeline().Orders() {
		dto.Timeline = append(dto.Timeline, OrderDTO{
			ID:             o.ID(),
			Item:           o.Item().Name,
			State:          string(o.State()),
			RemainingTicks: o.RemainingTicks(),
			Progress:       o.Progress(),
			Paid:           o.Paid(),
			Paused:         o.IsPaused(),
		})
	}
	for _, e := range q.Batch() {
		dto.Batch = append(dto.Batch, e.Item.Name)
	}
	if snap, ok := q.InFlight(); ok {
		dto.InFlight = snap.ItemNames()
		dto.InFlightCost = snap.TotalCost()
	}
	for _, item := range q.BuildableItems() {
		dto.BuildableItems = append(dto.BuildableItems, item.Name)
	}
	return dto
}

// GetQueueStatusHandler handles the GetQueueStatus query
type GetQueueStatusHandler struct {
	queues appProduction.QueueLocator
}

// NewGetQueueStatusHandler creates a new GetQueueStatusHandler
func NewGetQueueStatusHandler(queues appProduction.QueueLocator) *GetQueueStatusHandler {
	return &GetQueueStatusHandler{queues: queues}
}

// Handle executes the GetQueueStatus query
func (h *GetQueueStatusHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	query, ok := request.(*GetQueueStatusQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetQueueStatusQuery")
	}

	var dto QueueStatusDTO
	err := h.queues.WithQueue(query.QueueType, func(q *production.OrderQueue) error {
		dto = NewQueueStatusDTO(q)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto, nil
}
