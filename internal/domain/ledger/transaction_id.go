package ledger

import (
	"fmt"

	"github.com/google/uuid"
)

// TransactionID identifies one journal entry
type TransactionID struct {
	value string
}

// NewTransactionID generates a random TransactionID
func NewTransactionID() TransactionID {
	return TransactionID{value: uuid.NewString()}
}

// ParseTransactionID rebuilds a TransactionID from its stored form
func ParseTransactionID(id string) (TransactionID, error) {
	if id == "" {
		return TransactionID{}, fmt.Errorf("transaction id is empty")
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return TransactionID{}, fmt.Errorf("transaction id %q: %w", id, err)
	}
	return TransactionID{value: parsed.String()}, nil
}

func (t TransactionID) String() string { return t.value }

func (t TransactionID) Equals(other TransactionID) bool { return t.value == other.value }

func (t TransactionID) IsZero() bool { return t.value == "" }
