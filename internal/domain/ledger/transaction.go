package ledger

import (
	"fmt"
	"time"

	"github.com/andrescamacho/starport-go/internal/domain/shared"
)

// Transaction is the aggregate root representing one funds movement on a player account.
// Transactions are immutable once created and follow strict invariants.
type Transaction struct {
	id                TransactionID
	playerID          shared.PlayerID
	tick              shared.Tick
	timestamp         time.Time
	transactionType   TransactionType
	category          Category
	amount            int // Positive for income and refunds, negative for charges
	balanceBefore     int
	balanceAfter      int
	description       string
	item              string
	relatedEntityType string // "order", "batch_entry", "delivery"
	relatedEntityID   string
	operationType     string // "production" or "delivery"
}

// NewTransaction creates a new transaction with validation
func NewTransaction(
	playerID shared.PlayerID,
	tick shared.Tick,
	timestamp time.Time,
	transactionType TransactionType,
	amount int,
	balanceBefore int,
	balanceAfter int,
	description string,
	op *shared.OperationContext,
) (*Transaction, error) {
	if playerID.IsZero() {
		return nil, &ErrInvalidTransaction{
			Field:  "player_id",
			Reason: "player_id cannot be zero",
		}
	}

	if !transactionType.IsValid() {
		return nil, &ErrInvalidTransaction{
			Field:  "transaction_type",
			Reason: fmt.Sprintf("invalid transaction type: %s", transactionType),
		}
	}

	category, err := transactionType.ToCategory()
	if err != nil {
		return nil, &ErrInvalidTransaction{
			Field:  "category",
			Reason: err.Error(),
		}
	}

	t := &Transaction{
		id:              NewTransactionID(),
		playerID:        playerID,
		tick:            tick,
		timestamp:       timestamp,
		transactionType: transactionType,
		category:        category,
		amount:          amount,
		balanceBefore:   balanceBefore,
		balanceAfter:    balanceAfter,
		description:     description,
	}
	if op.IsValid() {
		t.item = op.Item
		t.relatedEntityType = op.EntityType
		t.relatedEntityID = op.EntityID
		t.operationType = op.OperationType
	}

	if err := t.Validate(); err != nil {
		return nil, err
	}

	return t, nil
}

// ReconstructTransaction reconstructs a transaction from persistence
// This bypasses validation and is used by the repository
func ReconstructTransaction(
	id TransactionID,
	playerID shared.PlayerID,
	tick shared.Tick,
	timestamp time.Time,
	transactionType TransactionType,
	category Category,
	amount int,
	balanceBefore int,
	balanceAfter int,
	description string,
	item string,
	relatedEntityType string,
	relatedEntityID string,
	operationType string,
) *Transaction {
	return &Transaction{
		id:                id,
		playerID:          playerID,
		tick:              tick,
		timestamp:         timestamp,
		transactionType:   transactionType,
		category:          category,
		amount:            amount,
		balanceBefore:     balanceBefore,
		balanceAfter:      balanceAfter,
		description:       description,
		item:              item,
		relatedEntityType: relatedEntityType,
		relatedEntityID:   relatedEntityID,
		operationType:     operationType,
	}
}

// Validate checks that the transaction satisfies all invariants
func (t *Transaction) Validate() error {
	if t.amount == 0 {
		return &ErrInvalidTransaction{
			Field:  "amount",
			Reason: "amount cannot be zero",
		}
	}

	// Charges are negative, everything else positive
	if t.transactionType == TransactionTypeProductionCharge && t.amount > 0 {
		return &ErrInvalidTransaction{
			Field:  "amount",
			Reason: "production charge must be negative",
		}
	}
	if t.transactionType != TransactionTypeProductionCharge && t.amount < 0 {
		return &ErrInvalidTransaction{
			Field:  "amount",
			Reason: fmt.Sprintf("%s must be positive", t.transactionType),
		}
	}

	// Balance invariant: balance_after must equal balance_before + amount
	expected := t.balanceBefore + t.amount
	if t.balanceAfter != expected {
		return &ErrBalanceInvariantViolation{
			BalanceBefore: t.balanceBefore,
			Amount:        t.amount,
			BalanceAfter:  t.balanceAfter,
			Expected:      expected,
		}
	}

	if t.balanceAfter < 0 {
		return &ErrInvalidTransaction{
			Field:  "balance_after",
			Reason: "balance cannot go negative",
		}
	}

	return nil
}

// Getters (all fields are immutable)

func (t *Transaction) ID() TransactionID                { return t.id }
func (t *Transaction) PlayerID() shared.PlayerID        { return t.playerID }
func (t *Transaction) Tick() shared.Tick                { return t.tick }
func (t *Transaction) Timestamp() time.Time             { return t.timestamp }
func (t *Transaction) TransactionType() TransactionType { return t.transactionType }
func (t *Transaction) Category() Category               { return t.category }
func (t *Transaction) Amount() int                      { return t.amount }
func (t *Transaction) BalanceBefore() int               { return t.balanceBefore }
func (t *Transaction) BalanceAfter() int                { return t.balanceAfter }
func (t *Transaction) Description() string              { return t.description }
func (t *Transaction) Item() string                     { return t.item }
func (t *Transaction) RelatedEntityType() string        { return t.relatedEntityType }
func (t *Transaction) RelatedEntityID() string          { return t.relatedEntityID }
func (t *Transaction) OperationType() string            { return t.operationType }

// IsRefund returns true for money flowing back to the player
func (t *Transaction) IsRefund() bool {
	return t.category == CategoryRefunds
}

func (t *Transaction) String() string {
	return fmt.Sprintf("Transaction[%s, type=%s, amount=%d, balance=%d->%d, tick=%d]",
		t.id.String(), t.transactionType, t.amount, t.balanceBefore, t.balanceAfter, t.tick)
}
