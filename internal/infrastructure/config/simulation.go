package config

import (
	"time"

	"github.com/andrescamacho/starport-go/internal/domain/world"
)

// SimulationConfig describes the world a session runs in
type SimulationConfig struct {
	PlayerID     int `mapstructure:"player_id" validate:"min=1"`
	StartingCash int `mapstructure:"starting_cash" validate:"min=0"`

	Width            int `mapstructure:"width" validate:"min=1"`
	Height           int `mapstructure:"height" validate:"min=1"`
	MoveTicksPerCell int `mapstructure:"move_ticks_per_cell" validate:"min=1"`

	// Wall-clock duration of one tick when running as a daemon
	TickInterval time.Duration `mapstructure:"tick_interval" validate:"required"`

	// Scenario file with buildings and scripted events
	ScenarioPath string `mapstructure:"scenario_path"`
}

// WorldConfig converts to the world settings
func (c SimulationConfig) WorldConfig() world.Config {
	return world.Config{
		Width:            c.Width,
		Height:           c.Height,
		MoveTicksPerCell: c.MoveTicksPerCell,
	}
}
