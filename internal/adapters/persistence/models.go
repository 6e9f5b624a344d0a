package persistence

import (
	"time"
)

// TransactionModel represents the transactions table
type TransactionModel struct {
	ID                string    `gorm:"column:id;primaryKey"`
	PlayerID          int       `gorm:"column:player_id;not null;index:idx_transactions_player_tick"`
	Tick              uint64    `gorm:"column:tick;not null;index:idx_transactions_player_tick"`
	Timestamp         time.Time `gorm:"column:timestamp;not null"`
	TransactionType   string    `gorm:"column:transaction_type;not null"`
	Category          string    `gorm:"column:category;not null;index"`
	Amount            int       `gorm:"column:amount;not null"`
	BalanceBefore     int       `gorm:"column:balance_before;not null"`
	BalanceAfter      int       `gorm:"column:balance_after;not null"`
	Description       string    `gorm:"column:description;type:text"`
	Item              string    `gorm:"column:item"`
	RelatedEntityType string    `gorm:"column:related_entity_type"`
	RelatedEntityID   string    `gorm:"column:related_entity_id;index"`
	OperationType     string    `gorm:"column:operation_type"`
}

func (TransactionModel) TableName() string {
	return "transactions"
}

// DeliveryRecordModel represents the deliveries table
type DeliveryRecordModel struct {
	ID             string    `gorm:"column:id;primaryKey"`
	PlayerID       int       `gorm:"column:player_id;not null;index"`
	SiteID         int       `gorm:"column:site_id;not null"`
	CarrierID      int       `gorm:"column:carrier_id"`
	ProductionType string    `gorm:"column:production_type;not null"`
	Status         string    `gorm:"column:status;not null"`
	Items          string    `gorm:"column:items;type:text"`           // JSON array as text
	DeliveredItems string    `gorm:"column:delivered_items;type:text"` // JSON array as text
	TotalCost      int       `gorm:"column:total_cost;not null"`
	Refunded       int       `gorm:"column:refunded;not null;default:0"`
	BlockedTicks   int       `gorm:"column:blocked_ticks;not null;default:0"`
	CreatedTick    uint64    `gorm:"column:created_tick;not null"`
	FinishedTick   uint64    `gorm:"column:finished_tick;not null;index"`
	Error          string    `gorm:"column:error;type:text"`
	RecordedAt     time.Time `gorm:"column:recorded_at;not null"`
}

func (DeliveryRecordModel) TableName() string {
	return "deliveries"
}
