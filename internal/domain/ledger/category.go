package ledger

import "fmt"

// Category represents the cash flow category for reporting
type Category string

const (
	// CategoryGrants represents credits entering the economy from outside
	CategoryGrants Category = "GRANTS"

	// CategoryProductionCosts represents money spent on purchase orders
	CategoryProductionCosts Category = "PRODUCTION_COSTS"

	// CategoryRefunds represents money returned for cancelled, returned or lost units
	CategoryRefunds Category = "REFUNDS"
)

// AllCategories returns all valid categories
func AllCategories() []Category {
	return []Category{
		CategoryGrants,
		CategoryProductionCosts,
		CategoryRefunds,
	}
}

// TypeToCategoryMap maps transaction types to their categories
var TypeToCategoryMap = map[TransactionType]Category{
	TransactionTypeGrant:            CategoryGrants,
	TransactionTypeProductionCharge: CategoryProductionCosts,
	TransactionTypeProductionRefund: CategoryRefunds,
	TransactionTypeDeliveryRefund:   CategoryRefunds,
}

func (c Category) String() string {
	return string(c)
}

// IsValid checks if the category is valid
func (c Category) IsValid() bool {
	switch c {
	case CategoryGrants, CategoryProductionCosts, CategoryRefunds:
		return true
	default:
		return false
	}
}

// IsIncome returns true if the category adds funds
func (c Category) IsIncome() bool {
	return c == CategoryGrants || c == CategoryRefunds
}

// IsExpense returns true if the category removes funds
func (c Category) IsExpense() bool {
	return !c.IsIncome()
}

// ParseCategory parses a string into a Category
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.IsValid() {
		return "", fmt.Errorf("invalid category: %s", s)
	}
	return c, nil
}
