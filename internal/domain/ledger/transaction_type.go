package ledger

import "fmt"

// TransactionType represents the type of funds movement
type TransactionType string

const (
	// TransactionTypeGrant represents credits granted to a player (starting cash, scripted income)
	TransactionTypeGrant TransactionType = "GRANT"

	// TransactionTypeProductionCharge represents payment for one purchase order
	TransactionTypeProductionCharge TransactionType = "PRODUCTION_CHARGE"

	// TransactionTypeProductionRefund represents money returned for a cancelled order or returned batch entry
	TransactionTypeProductionRefund TransactionType = "PRODUCTION_REFUND"

	// TransactionTypeDeliveryRefund represents money returned for cargo lost in an aborted delivery
	TransactionTypeDeliveryRefund TransactionType = "DELIVERY_REFUND"
)

// AllTransactionTypes returns all valid transaction types
func AllTransactionTypes() []TransactionType {
	return []TransactionType{
		TransactionTypeGrant,
		TransactionTypeProductionCharge,
		TransactionTypeProductionRefund,
		TransactionTypeDeliveryRefund,
	}
}

func (t TransactionType) String() string {
	return string(t)
}

// IsValid checks if the transaction type is valid
func (t TransactionType) IsValid() bool {
	_, ok := TypeToCategoryMap[t]
	return ok
}

// ToCategory maps the transaction type to its category
func (t TransactionType) ToCategory() (Category, error) {
	category, exists := TypeToCategoryMap[t]
	if !exists {
		return "", fmt.Errorf("unknown transaction type: %s", t)
	}
	return category, nil
}

// ParseTransactionType parses a string into a TransactionType
func ParseTransactionType(s string) (TransactionType, error) {
	t := TransactionType(s)
	if !t.IsValid() {
		return "", fmt.Errorf("invalid transaction type: %s", s)
	}
	return t, nil
}
