package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/starport-go/internal/application/common"
	"github.com/andrescamacho/starport-go/internal/domain/delivery"
	"github.com/andrescamacho/starport-go/internal/domain/shared"
)

// GetDeliveriesQuery lists the most recent persisted deliveries of a player
type GetDeliveriesQuery struct {
	PlayerID int
	Limit    int
}

// DeliveryDTO is one persisted delivery
type DeliveryDTO struct {
	ID             string   `json:"id"`
	SiteID         int      `json:"site_id"`
	CarrierID      int      `json:"carrier_id"`
	Status         string   `json:"status"`
	Items          []string `json:"items"`
	DeliveredItems []string `json:"delivered_items"`
	TotalCost      int      `json:"total_cost"`
	Refunded       int      `json:"refunded"`
	BlockedTicks   int      `json:"blocked_ticks"`
	CreatedTick    uint64   `json:"created_tick"`
	FinishedTick   uint64   `json:"finished_tick"`
	Error          string   `json:"error,omitempty"`
}

// GetDeliveriesResponse holds the deliveries, newest first
type GetDeliveriesResponse struct {
	Deliveries []DeliveryDTO
}

// GetDeliveriesHandler handles the GetDeliveries query
type GetDeliveriesHandler struct {
	repo delivery.RecordRepository
}

// NewGetDeliveriesHandler creates a new GetDeliveriesHandler
func NewGetDeliveriesHandler(repo delivery.RecordRepository) *GetDeliveriesHandler {
	return &GetDeliveriesHandler{repo: repo}
}

// Handle executes the GetDeliveries query
func (h *GetDeliveriesHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	query, ok := request.(*GetDeliveriesQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetDeliveriesQuery")
	}

	playerID, err := shared.NewPlayerID(query.PlayerID)
	if err != nil {
		return nil, fmt.Errorf("invalid player ID: %w", err)
	}
	limit := query.Limit
	if limit <= 0 {
		limit = 20
	}

	records, err := h.repo.FindByPlayer(ctx, playerID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query deliveries: %w", err)
	}

	resp := &GetDeliveriesResponse{Deliveries: make([]DeliveryDTO, 0, len(records))}
	for _, rec := range records {
		resp.Deliveries = append(resp.Deliveries, DeliveryDTO{
			ID:             rec.ID,
			SiteID:         rec.SiteID,
			CarrierID:      rec.CarrierID,
			Status:         string(rec.Status),
			Items:          rec.Items,
			DeliveredItems: rec.DeliveredItems,
			TotalCost:      rec.TotalCost,
			Refunded:       rec.Refunded,
			BlockedTicks:   rec.BlockedTicks,
			CreatedTick:    uint64(rec.CreatedTick),
			FinishedTick:   uint64(rec.FinishedTick),
			Error:          rec.Error,
		})
	}
	return resp, nil
}
