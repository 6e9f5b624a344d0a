package config

import "github.com/andrescamacho/starport-go/internal/domain/production"

// ProductionConfig lists the production queues every session gets
type ProductionConfig struct {
	Queues []QueueConfig `mapstructure:"queues" validate:"dive"`
}

// QueueConfig tunes one bulk production queue
type QueueConfig struct {
	Type           string `mapstructure:"type" validate:"required"`
	MaxCapacity    int    `mapstructure:"max_capacity" validate:"min=1"`
	QueueLimit     int    `mapstructure:"queue_limit" validate:"min=0"`
	ItemLimit      int    `mapstructure:"item_limit" validate:"min=0"`
	Payment        string `mapstructure:"payment" validate:"omitempty,oneof=on_completion prepay"`
	ManualDispatch bool   `mapstructure:"manual_dispatch"`
	SpeedUp        bool   `mapstructure:"speed_up"`
	SpeedUpPercent int    `mapstructure:"speed_up_percent" validate:"min=0,max=100"`
	StockSeed      int64  `mapstructure:"stock_seed"`
}

// QueueConfigs converts to the production queue settings
func (c ProductionConfig) QueueConfigs() []production.QueueConfig {
	out := make([]production.QueueConfig, 0, len(c.Queues))
	for _, q := range c.Queues {
		out = append(out, production.QueueConfig{
			Type:           q.Type,
			MaxCapacity:    q.MaxCapacity,
			QueueLimit:     q.QueueLimit,
			ItemLimit:      q.ItemLimit,
			Payment:        production.PaymentPolicy(q.Payment),
			ManualDispatch: q.ManualDispatch,
			SpeedUp:        q.SpeedUp,
			SpeedUpPercent: q.SpeedUpPercent,
			StockSeed:      q.StockSeed,
		})
	}
	return out
}
