package ledger

import (
	"fmt"

	"github.com/andrescamacho/starport-go/internal/domain/shared"
)

// Account holds one player's spendable funds and journals every movement.
//
// Invariants:
// - balance never goes negative
// - refunded never exceeds charged
// - every successful Charge/Refund/Grant appends exactly one Transaction to the journal
type Account struct {
	playerID shared.PlayerID
	balance  int
	charged  int
	refunded int
	granted  int

	ticks  shared.TickSource
	clock  shared.Clock
	logger shared.Logger

	journal []*Transaction
}

// NewAccount creates an empty account. Use Grant to give it starting cash.
func NewAccount(playerID shared.PlayerID, ticks shared.TickSource, clock shared.Clock, logger shared.Logger) *Account {
	if ticks == nil {
		ticks = shared.NewTickCounter()
	}
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &Account{
		playerID: playerID,
		ticks:    ticks,
		clock:    clock,
		logger:   shared.LoggerOrNop(logger),
	}
}

func (a *Account) PlayerID() shared.PlayerID { return a.playerID }
func (a *Account) Balance() int              { return a.balance }
func (a *Account) Charged() int              { return a.charged }
func (a *Account) Refunded() int             { return a.refunded }
func (a *Account) Granted() int              { return a.granted }

// Outstanding is the net amount currently held by production: charged minus refunded
func (a *Account) Outstanding() int {
	return a.charged - a.refunded
}

// AvailableFunds returns the spendable balance
func (a *Account) AvailableFunds() int {
	return a.balance
}

// Grant adds credits from outside the production economy
func (a *Account) Grant(amount int, description string) error {
	if amount <= 0 {
		return &ErrInvalidTransaction{Field: "amount", Reason: "grant must be positive"}
	}
	tx, err := a.record(TransactionTypeGrant, amount, description, nil)
	if err != nil {
		return err
	}
	a.granted += amount
	a.apply(tx)
	return nil
}

// Charge debits amount if the balance covers it. A zero amount always succeeds without a
// journal entry.
func (a *Account) Charge(amount int, op *shared.OperationContext) bool {
	if amount < 0 {
		return false
	}
	if amount == 0 {
		return true
	}
	if a.balance < amount {
		a.logger.Log(shared.LevelDebug, "Charge rejected: insufficient funds", map[string]interface{}{
			"player_id": a.playerID.Value(),
			"required":  amount,
			"available": a.balance,
			"operation": op.String(),
		})
		return false
	}

	tx, err := a.record(TransactionTypeProductionCharge, -amount, describe("Charge", op), op)
	if err != nil {
		a.logger.Log(shared.LevelError, "Charge failed", map[string]interface{}{
			"player_id": a.playerID.Value(),
			"error":     err.Error(),
		})
		return false
	}
	a.charged += amount
	a.apply(tx)
	return true
}

// Refund credits amount back. Refunds are capped by what was charged; an excess refund is
// logged and ignored so money is never created.
func (a *Account) Refund(amount int, op *shared.OperationContext) {
	if amount <= 0 {
		return
	}
	if a.refunded+amount > a.charged {
		err := &ErrRefundExceedsCharges{Refund: amount, Refunded: a.refunded, Charged: a.charged}
		a.logger.Log(shared.LevelError, "Refund rejected", map[string]interface{}{
			"player_id": a.playerID.Value(),
			"error":     err.Error(),
			"operation": op.String(),
		})
		return
	}

	txType := TransactionTypeProductionRefund
	if op != nil && op.OperationType == shared.OperationDelivery {
		txType = TransactionTypeDeliveryRefund
	}

	tx, err := a.record(txType, amount, describe("Refund", op), op)
	if err != nil {
		a.logger.Log(shared.LevelError, "Refund failed", map[string]interface{}{
			"player_id": a.playerID.Value(),
			"error":     err.Error(),
		})
		return
	}
	a.refunded += amount
	a.apply(tx)
}

// Drain returns the journaled transactions since the last drain and empties the journal
func (a *Account) Drain() []*Transaction {
	out := a.journal
	a.journal = nil
	return out
}

// Requeue puts transactions that could not be persisted back in front of the journal
func (a *Account) Requeue(txs []*Transaction) {
	if len(txs) == 0 {
		return
	}
	a.journal = append(append([]*Transaction(nil), txs...), a.journal...)
}

// Pending returns the number of journaled transactions not yet drained
func (a *Account) Pending() int {
	return len(a.journal)
}

func (a *Account) record(txType TransactionType, amount int, description string, op *shared.OperationContext) (*Transaction, error) {
	return NewTransaction(
		a.playerID,
		a.ticks.CurrentTick(),
		a.clock.Now(),
		txType,
		amount,
		a.balance,
		a.balance+amount,
		description,
		op,
	)
}

func (a *Account) apply(tx *Transaction) {
	a.balance = tx.BalanceAfter()
	a.journal = append(a.journal, tx)
}

func describe(verb string, op *shared.OperationContext) string {
	if op == nil || op.Item == "" {
		return verb
	}
	return fmt.Sprintf("%s %s for %s %s", verb, op.Item, op.EntityType, op.EntityID)
}
