package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/starport-go/internal/adapters/metrics"
	"github.com/andrescamacho/starport-go/internal/application/common"
	appLedger "github.com/andrescamacho/starport-go/internal/application/ledger"
	"github.com/andrescamacho/starport-go/internal/domain/ledger"
)

// RecordTransactionsCommand persists every journaled transaction of the running simulation
type RecordTransactionsCommand struct{}

// RecordTransactionsResponse reports how many transactions were written
type RecordTransactionsResponse struct {
	Recorded int
}

// RecordTransactionsHandler handles the RecordTransactions command
type RecordTransactionsHandler struct {
	journal         appLedger.Journal
	transactionRepo ledger.TransactionRepository
}

// NewRecordTransactionsHandler creates a new RecordTransactionsHandler
func NewRecordTransactionsHandler(
	journal appLedger.Journal,
	transactionRepo ledger.TransactionRepository,
) *RecordTransactionsHandler {
	return &RecordTransactionsHandler{
		journal:         journal,
		transactionRepo: transactionRepo,
	}
}

// Handle executes the RecordTransactions command.
// On a repository failure the unwritten transactions go back to the journal for the next run.
func (h *RecordTransactionsHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	if _, ok := request.(*RecordTransactionsCommand); !ok {
		return nil, fmt.Errorf("invalid request type: expected *RecordTransactionsCommand")
	}

	pending := h.journal.DrainJournal()
	for i, tx := range pending {
		if err := h.transactionRepo.Create(ctx, tx); err != nil {
			h.journal.RequeueJournal(pending[i:])
			return &RecordTransactionsResponse{Recorded: i}, fmt.Errorf("failed to persist transaction %s: %w", tx.ID(), err)
		}

		metrics.RecordTransaction(
			tx.PlayerID().Value(),
			tx.TransactionType().String(),
			tx.Category().String(),
			tx.Amount(),
			tx.BalanceAfter(),
		)
	}

	if len(pending) > 0 {
		common.LoggerFromContext(ctx).Log("DEBUG", "Transactions recorded", map[string]interface{}{
			"count": len(pending),
		})
	}

	return &RecordTransactionsResponse{Recorded: len(pending)}, nil
}
