package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/andrescamacho/starport-go/internal/domain/delivery"
	"github.com/andrescamacho/starport-go/internal/domain/shared"
)

// GormDeliveryRecordRepository implements delivery.RecordRepository using GORM
type GormDeliveryRecordRepository struct {
	db    *gorm.DB
	clock shared.Clock
}

// NewGormDeliveryRecordRepository creates a new GORM delivery record repository
func NewGormDeliveryRecordRepository(db *gorm.DB, clock shared.Clock) *GormDeliveryRecordRepository {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &GormDeliveryRecordRepository{db: db, clock: clock}
}

// Save upserts a delivery record
func (r *GormDeliveryRecordRepository) Save(ctx context.Context, record delivery.Record) error {
	model, err := r.recordToModel(record)
	if err != nil {
		return fmt.Errorf("failed to convert delivery record to model: %w", err)
	}

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(model)
	if result.Error != nil {
		return fmt.Errorf("failed to save delivery record: %w", result.Error)
	}
	return nil
}

// FindByPlayer returns the most recently finished deliveries of a player
func (r *GormDeliveryRecordRepository) FindByPlayer(ctx context.Context, playerID shared.PlayerID, limit int) ([]delivery.Record, error) {
	query := r.db.WithContext(ctx).
		Where("player_id = ?", playerID.Value()).
		Order("finished_tick DESC").
		Order("recorded_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var models []DeliveryRecordModel
	if result := query.Find(&models); result.Error != nil {
		return nil, fmt.Errorf("failed to find delivery records: %w", result.Error)
	}

	records := make([]delivery.Record, 0, len(models))
	for i := range models {
		rec, err := modelToRecord(&models[i])
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func (r *GormDeliveryRecordRepository) recordToModel(rec delivery.Record) (*DeliveryRecordModel, error) {
	items, err := json.Marshal(nonNil(rec.Items))
	if err != nil {
		return nil, err
	}
	delivered, err := json.Marshal(nonNil(rec.DeliveredItems))
	if err != nil {
		return nil, err
	}

	return &DeliveryRecordModel{
		ID:             rec.ID,
		PlayerID:       rec.PlayerID.Value(),
		SiteID:         rec.SiteID,
		CarrierID:      rec.CarrierID,
		ProductionType: rec.ProductionType,
		Status:         string(rec.Status),
		Items:          string(items),
		DeliveredItems: string(delivered),
		TotalCost:      rec.TotalCost,
		Refunded:       rec.Refunded,
		BlockedTicks:   rec.BlockedTicks,
		CreatedTick:    uint64(rec.CreatedTick),
		FinishedTick:   uint64(rec.FinishedTick),
		Error:          rec.Error,
		RecordedAt:     r.clock.Now().UTC().Truncate(time.Millisecond),
	}, nil
}

func modelToRecord(model *DeliveryRecordModel) (delivery.Record, error) {
	playerID, err := shared.NewPlayerID(model.PlayerID)
	if err != nil {
		return delivery.Record{}, fmt.Errorf("invalid player ID in database: %w", err)
	}

	rec := delivery.Record{
		ID:             model.ID,
		PlayerID:       playerID,
		SiteID:         model.SiteID,
		CarrierID:      model.CarrierID,
		ProductionType: model.ProductionType,
		Status:         shared.LifecycleStatus(model.Status),
		TotalCost:      model.TotalCost,
		Refunded:       model.Refunded,
		BlockedTicks:   model.BlockedTicks,
		CreatedTick:    shared.Tick(model.CreatedTick),
		FinishedTick:   shared.Tick(model.FinishedTick),
		Error:          model.Error,
	}
	if err := json.Unmarshal([]byte(model.Items), &rec.Items); err != nil {
		return delivery.Record{}, fmt.Errorf("invalid items for delivery %s: %w", model.ID, err)
	}
	if err := json.Unmarshal([]byte(model.DeliveredItems), &rec.DeliveredItems); err != nil {
		return delivery.Record{}, fmt.Errorf("invalid delivered items for delivery %s: %w", model.ID, err)
	}
	return rec, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
