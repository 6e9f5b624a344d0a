package shared

// OperationContext links a funds movement back to the entity that caused it.
//
// Every charge and refund issued by the production queue or the delivery coordinator
// carries one, so the ledger can answer "which order was this money for":
//
//	SELECT SUM(amount) FROM transactions
//	WHERE related_entity_type = 'order'
//	  AND related_entity_id = '6f1c...'
type OperationContext struct {
	// EntityType is the kind of entity: "order", "batch_entry" or "delivery"
	EntityType string

	// EntityID is the identifier of that entity
	EntityID string

	// OperationType is the subsystem issuing the movement: "production" or "delivery"
	OperationType string

	// Item is the catalog item involved, if any
	Item string
}

const (
	OperationProduction = "production"
	OperationDelivery   = "delivery"
)

// NewOperationContext creates a new operation context. Returns nil for incomplete input.
func NewOperationContext(entityType, entityID, operationType, item string) *OperationContext {
	if entityType == "" || entityID == "" || operationType == "" {
		return nil
	}
	return &OperationContext{
		EntityType:    entityType,
		EntityID:      entityID,
		OperationType: operationType,
		Item:          item,
	}
}

// IsValid returns true if the context has required fields
func (c *OperationContext) IsValid() bool {
	return c != nil && c.EntityType != "" && c.EntityID != "" && c.OperationType != ""
}

// String returns a human-readable representation of the context
func (c *OperationContext) String() string {
	if c == nil {
		return "<no context>"
	}
	if c.Item != "" {
		return c.OperationType + ":" + c.EntityType + ":" + c.EntityID + ":" + c.Item
	}
	return c.OperationType + ":" + c.EntityType + ":" + c.EntityID
}
