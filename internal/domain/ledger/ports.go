package ledger

import (
	"context"

	"github.com/andrescamacho/starport-go/internal/domain/shared"
)

// TransactionRepository defines persistence operations for the funds journal
type TransactionRepository interface {
	// Create persists a new transaction
	Create(ctx context.Context, transaction *Transaction) error

	// FindByID retrieves a transaction by its ID
	FindByID(ctx context.Context, id TransactionID, playerID shared.PlayerID) (*Transaction, error)

	// FindByPlayer retrieves transactions for a player with optional filtering
	FindByPlayer(ctx context.Context, playerID shared.PlayerID, opts QueryOptions) ([]*Transaction, error)

	// SumByCategory totals amounts per category for a player
	SumByCategory(ctx context.Context, playerID shared.PlayerID) (map[Category]int, error)
}

// QueryOptions filters and paginates transaction queries
type QueryOptions struct {
	// Tick range filtering (inclusive)
	FromTick *shared.Tick
	ToTick   *shared.Tick

	Category        *Category
	TransactionType *TransactionType
	Item            *string

	// Related entity filtering
	RelatedEntityType *string
	RelatedEntityID   *string

	Limit  int
	Offset int

	// "tick ASC" or "tick DESC" (default DESC)
	OrderBy string
}

// DefaultQueryOptions returns default query options
func DefaultQueryOptions() QueryOptions {
	return QueryOptions{
		Limit:   50,
		OrderBy: "tick DESC",
	}
}
