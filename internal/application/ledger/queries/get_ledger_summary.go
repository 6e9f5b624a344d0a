package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/starport-go/internal/application/common"
	"github.com/andrescamacho/starport-go/internal/domain/ledger"
	"github.com/andrescamacho/starport-go/internal/domain/shared"
)

// GetLedgerSummaryQuery totals a player's persisted transactions per category
type GetLedgerSummaryQuery struct {
	PlayerID int
}

// GetLedgerSummaryResponse is the per-category breakdown.
// Spent is what production still holds: costs minus refunds.
type GetLedgerSummaryResponse struct {
	ByCategory map[string]int `json:"by_category"`
	Granted    int            `json:"granted"`
	Costs      int            `json:"costs"`
	Refunds    int            `json:"refunds"`
	Spent      int            `json:"spent"`
	Balance    int            `json:"balance"`
}

// GetLedgerSummaryHandler handles the GetLedgerSummary query
type GetLedgerSummaryHandler struct {
	transactionRepo ledger.TransactionRepository
}

// NewGetLedgerSummaryHandler creates a new GetLedgerSummaryHandler
func NewGetLedgerSummaryHandler(transactionRepo ledger.TransactionRepository) *GetLedgerSummaryHandler {
	return &GetLedgerSummaryHandler{transactionRepo: transactionRepo}
}

// Handle executes the GetLedgerSummary query
func (h *GetLedgerSummaryHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	query, ok := request.(*GetLedgerSummaryQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetLedgerSummaryQuery")
	}

	playerID, err := shared.NewPlayerID(query.PlayerID)
	if err != nil {
		return nil, fmt.Errorf("invalid player ID: %w", err)
	}

	sums, err := h.transactionRepo.SumByCategory(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum transactions: %w", err)
	}

	resp := &GetLedgerSummaryResponse{ByCategory: make(map[string]int, len(sums))}
	for category, amount := range sums {
		resp.ByCategory[category.String()] = amount
		resp.Balance += amount
	}
	resp.Granted = sums[ledger.CategoryGrants]
	resp.Costs = -sums[ledger.CategoryProductionCosts]
	resp.Refunds = sums[ledger.CategoryRefunds]
	resp.Spent = resp.Costs - resp.Refunds

	return resp, nil
}
