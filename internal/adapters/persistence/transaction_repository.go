package persistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/andrescamacho/starport-go/internal/domain/ledger"
	"github.com/andrescamacho/starport-go/internal/domain/shared"
)

// GormTransactionRepository implements TransactionRepository using GORM
type GormTransactionRepository struct {
	db *gorm.DB
}

// NewGormTransactionRepository creates a new GORM transaction repository
func NewGormTransactionRepository(db *gorm.DB) *GormTransactionRepository {
	return &GormTransactionRepository{db: db}
}

// Create persists a new transaction
func (r *GormTransactionRepository) Create(ctx context.Context, transaction *ledger.Transaction) error {
	result := r.db.WithContext(ctx).Create(transactionToModel(transaction))
	if result.Error != nil {
		return fmt.Errorf("failed to create transaction: %w", result.Error)
	}
	return nil
}

// FindByID retrieves a transaction by its ID
func (r *GormTransactionRepository) FindByID(ctx context.Context, id ledger.TransactionID, playerID shared.PlayerID) (*ledger.Transaction, error) {
	var model TransactionModel
	result := r.db.WithContext(ctx).
		Where("id = ? AND player_id = ?", id.String(), playerID.Value()).
		First(&model)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, &ledger.ErrTransactionNotFound{
				ID:       id.String(),
				PlayerID: playerID.Value(),
			}
		}
		return nil, fmt.Errorf("failed to find transaction: %w", result.Error)
	}

	return modelToTransaction(&model)
}

// FindByPlayer retrieves transactions for a player with optional filtering
func (r *GormTransactionRepository) FindByPlayer(ctx context.Context, playerID shared.PlayerID, opts ledger.QueryOptions) ([]*ledger.Transaction, error) {
	query := r.db.WithContext(ctx).Where("player_id = ?", playerID.Value())
	query = applyFilters(query, opts)

	switch opts.OrderBy {
	case "tick ASC":
		query = query.Order("tick ASC").Order("timestamp ASC")
	default:
		query = query.Order("tick DESC").Order("timestamp DESC")
	}

	if opts.Limit > 0 {
		query = query.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		query = query.Offset(opts.Offset)
	}

	var models []TransactionModel
	if result := query.Find(&models); result.Error != nil {
		return nil, fmt.Errorf("failed to find transactions: %w", result.Error)
	}

	transactions := make([]*ledger.Transaction, len(models))
	for i := range models {
		tx, err := modelToTransaction(&models[i])
		if err != nil {
			return nil, fmt.Errorf("failed to convert transaction model: %w", err)
		}
		transactions[i] = tx
	}

	return transactions, nil
}

// SumByCategory totals amounts per category for a player
func (r *GormTransactionRepository) SumByCategory(ctx context.Context, playerID shared.PlayerID) (map[ledger.Category]int, error) {
	var rows []struct {
		Category string
		Total    int
	}
	result := r.db.WithContext(ctx).
		Model(&TransactionModel{}).
		Select("category, SUM(amount) AS total").
		Where("player_id = ?", playerID.Value()).
		Group("category").
		Scan(&rows)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to sum transactions: %w", result.Error)
	}

	sums := make(map[ledger.Category]int, len(rows))
	for _, row := range rows {
		category, err := ledger.ParseCategory(row.Category)
		if err != nil {
			return nil, fmt.Errorf("invalid category in database: %w", err)
		}
		sums[category] = row.Total
	}
	return sums, nil
}

func applyFilters(query *gorm.DB, opts ledger.QueryOptions) *gorm.DB {
	if opts.FromTick != nil {
		query = query.Where("tick >= ?", uint64(*opts.FromTick))
	}
	if opts.ToTick != nil {
		query = query.Where("tick <= ?", uint64(*opts.ToTick))
	}
	if opts.Category != nil {
		query = query.Where("category = ?", opts.Category.String())
	}
	if opts.TransactionType != nil {
		query = query.Where("transaction_type = ?", opts.TransactionType.String())
	}
	if opts.Item != nil {
		query = query.Where("item = ?", *opts.Item)
	}
	if opts.RelatedEntityType != nil {
		query = query.Where("related_entity_type = ?", *opts.RelatedEntityType)
	}
	if opts.RelatedEntityID != nil {
		query = query.Where("related_entity_id = ?", *opts.RelatedEntityID)
	}
	return query
}

func modelToTransaction(model *TransactionModel) (*ledger.Transaction, error) {
	id, err := ledger.ParseTransactionID(model.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid transaction ID in database: %w", err)
	}

	playerID, err := shared.NewPlayerID(model.PlayerID)
	if err != nil {
		return nil, fmt.Errorf("invalid player ID in database: %w", err)
	}

	transactionType, err := ledger.ParseTransactionType(model.TransactionType)
	if err != nil {
		return nil, fmt.Errorf("invalid transaction type in database: %w", err)
	}

	category, err := ledger.ParseCategory(model.Category)
	if err != nil {
		return nil, fmt.Errorf("invalid category in database: %w", err)
	}

	return ledger.ReconstructTransaction(
		id,
		playerID,
		shared.Tick(model.Tick),
		model.Timestamp,
		transactionType,
		category,
		model.Amount,
		model.BalanceBefore,
		model.BalanceAfter,
		model.Description,
		model.Item,
		model.RelatedEntityType,
		model.RelatedEntityID,
		model.OperationType,
	), nil
}

func transactionToModel(tx *ledger.Transaction) *TransactionModel {
	return &TransactionModel{
		ID:                tx.ID().String(),
		PlayerID:          tx.PlayerID().Value(),
		Tick:              uint64(tx.Tick()),
		Timestamp:         tx.Timestamp(),
		TransactionType:   tx.TransactionType().String(),
		Category:          tx.Category().String(),
		Amount:            tx.Amount(),
		BalanceBefore:     tx.BalanceBefore(),
		BalanceAfter:      tx.BalanceAfter(),
		Description:       tx.Description(),
		Item:              tx.Item(),
		RelatedEntityType: tx.RelatedEntityType(),
		RelatedEntityID:   tx.RelatedEntityID(),
		OperationType:     tx.OperationType(),
	}
}
