package config

import (
	"golang.org/x/time/rate"

	"github.com/andrescamacho/starport-go/internal/domain/delivery"
	"github.com/andrescamacho/starport-go/internal/domain/shared"
)

// DeliveryConfig tunes carriers and the ready notification
type DeliveryConfig struct {
	CarrierType string `mapstructure:"carrier_type" validate:"required"`
	SpawnMode   string `mapstructure:"spawn_mode" validate:"required,oneof=edge fixed"`
	FixedSpawn  Point  `mapstructure:"fixed_spawn"`

	// Landing facing in 1..1023 units, 0 selects the default
	Facing     int   `mapstructure:"facing" validate:"min=0,max=1023"`
	LandOffset Point `mapstructure:"land_offset"`

	WaitBeforeUnload   int `mapstructure:"wait_before_unload" validate:"min=0"`
	WaitAfterUnload    int `mapstructure:"wait_after_unload" validate:"min=0"`
	UnloadStaggerTicks int `mapstructure:"unload_stagger_ticks" validate:"min=0"`
	AirStaggerTicks    int `mapstructure:"air_stagger_ticks" validate:"min=0"`

	ReadyAudio  string `mapstructure:"ready_audio"`
	ReadyText   string `mapstructure:"ready_text"`
	HistorySize int    `mapstructure:"history_size" validate:"min=1"`

	// Notifications per second and burst allowance before cues are dropped
	NotifyRate  float64 `mapstructure:"notify_rate" validate:"gt=0"`
	NotifyBurst int     `mapstructure:"notify_burst" validate:"min=1"`
}

// Point is a cell or cell offset in config files
type Point struct {
	X int `mapstructure:"x" yaml:"x"`
	Y int `mapstructure:"y" yaml:"y"`
}

// ToDomain converts to the coordinator settings
func (c DeliveryConfig) ToDomain() delivery.Config {
	return delivery.Config{
		CarrierType:        c.CarrierType,
		SpawnMode:          delivery.SpawnMode(c.SpawnMode),
		FixedSpawn:         shared.NewCell(c.FixedSpawn.X, c.FixedSpawn.Y),
		Facing:             shared.NewFacing(c.Facing),
		LandOffset:         shared.CVec{X: c.LandOffset.X, Y: c.LandOffset.Y},
		WaitBeforeUnload:   c.WaitBeforeUnload,
		WaitAfterUnload:    c.WaitAfterUnload,
		UnloadStaggerTicks: c.UnloadStaggerTicks,
		AirStaggerTicks:    c.AirStaggerTicks,
		ReadyAudio:         c.ReadyAudio,
		ReadyText:          c.ReadyText,
		HistorySize:        c.HistorySize,
	}
}

// NotifyLimit is the notifier rate as a limiter setting
func (c DeliveryConfig) NotifyLimit() rate.Limit {
	return rate.Limit(c.NotifyRate)
}
