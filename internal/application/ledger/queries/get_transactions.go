package queries

import (
	"context"
	"fmt"
	"time"

	"github.com/andrescamacho/starport-go/internal/application/common"
	"github.com/andrescamacho/starport-go/internal/domain/ledger"
	"github.com/andrescamacho/starport-go/internal/domain/shared"
)

// GetTransactionsQuery represents a query to retrieve transactions
type GetTransactionsQuery struct {
	PlayerID          int
	FromTick          *uint64
	ToTick            *uint64
	Category          *string
	TransactionType   *string
	Item              *string
	RelatedEntityType *string
	RelatedEntityID   *string
	Limit             int
	Offset            int
	OrderBy           string
}

// GetTransactionsResponse represents the result of the query
type GetTransactionsResponse struct {
	Transactions []*TransactionDTO
}

// TransactionDTO represents a transaction data transfer object
type TransactionDTO struct {
	ID                string    `json:"id"`
	PlayerID          int       `json:"player_id"`
	Tick              uint64    `json:"tick"`
	Timestamp         time.Time `json:"timestamp"`
	Type              string    `json:"type"`
	Category          string    `json:"category"`
	Amount            int       `json:"amount"`
	BalanceBefore     int       `json:"balance_before"`
	BalanceAfter      int       `json:"balance_after"`
	Description       string    `json:"description"`
	Item              string    `json:"item,omitempty"`
	RelatedEntityType string    `json:"related_entity_type,omitempty"`
	RelatedEntityID   string    `json:"related_entity_id,omitempty"`
}

// GetTransactionsHandler handles the GetTransactions query
type GetTransactionsHandler struct {
	transactionRepo ledger.TransactionRepository
}

// NewGetTransactionsHandler creates a new GetTransactionsHandler
func NewGetTransactionsHandler(transactionRepo ledger.TransactionRepository) *GetTransactionsHandler {
	return &GetTransactionsHandler{
		transactionRepo: transactionRepo,
	}
}

// Handle executes the GetTransactions query
func (h *GetTransactionsHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	query, ok := request.(*GetTransactionsQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetTransactionsQuery")
	}

	playerID, err := shared.NewPlayerID(query.PlayerID)
	if err != nil {
		return nil, fmt.Errorf("invalid player ID: %w", err)
	}

	opts, err := h.buildQueryOptions(query)
	if err != nil {
		return nil, err
	}

	transactions, err := h.transactionRepo.FindByPlayer(ctx, playerID, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}

	dtos := make([]*TransactionDTO, len(transactions))
	for i, tx := range transactions {
		dtos[i] = toDTO(tx)
	}

	return &GetTransactionsResponse{Transactions: dtos}, nil
}

func (h *GetTransactionsHandler) buildQueryOptions(query *GetTransactionsQuery) (ledger.QueryOptions, error) {
	opts := ledger.DefaultQueryOptions()

	if query.FromTick != nil {
		from := shared.Tick(*query.FromTick)
		opts.FromTick = &from
	}
	if query.ToTick != nil {
		to := shared.Tick(*query.ToTick)
		opts.ToTick = &to
	}

	if query.Category != nil {
		category, err := ledger.ParseCategory(*query.Category)
		if err != nil {
			return opts, fmt.Errorf("invalid category: %w", err)
		}
		opts.Category = &category
	}

	if query.TransactionType != nil {
		txType, err := ledger.ParseTransactionType(*query.TransactionType)
		if err != nil {
			return opts, fmt.Errorf("invalid transaction type: %w", err)
		}
		opts.TransactionType = &txType
	}

	opts.Item = query.Item
	opts.RelatedEntityType = query.RelatedEntityType
	opts.RelatedEntityID = query.RelatedEntityID

	if query.Limit > 0 {
		opts.Limit = query.Limit
	}
	opts.Offset = query.Offset

	switch query.OrderBy {
	case "":
	case "tick ASC", "tick DESC":
		opts.OrderBy = query.OrderBy
	default:
		return opts, fmt.Errorf("invalid order: %q (want \"tick ASC\" or \"tick DESC\")", query.OrderBy)
	}

	return opts, nil
}

func toDTO(tx *ledger.Transaction) *TransactionDTO {
	return &TransactionDTO{
		ID:                tx.ID().String(),
		PlayerID:          tx.PlayerID().Value(),
		Tick:              uint64(tx.Tick()),
		Timestamp:         tx.Timestamp(),
		Type:              tx.TransactionType().String(),
		Category:          tx.Category().String(),
		Amount:            tx.Amount(),
		BalanceBefore:     tx.BalanceBefore(),
		BalanceAfter:      tx.BalanceAfter(),
		Description:       tx.Description(),
		Item:              tx.Item(),
		RelatedEntityType: tx.RelatedEntityType(),
		RelatedEntityID:   tx.RelatedEntityID(),
	}
}
