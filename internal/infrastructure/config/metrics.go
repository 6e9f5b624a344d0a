package config

import "time"

// MetricsConfig holds metrics collection and exposure configuration
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`

	// Path for the Prometheus endpoint on the status server
	Path string `mapstructure:"path" validate:"omitempty,startswith=/"`

	// How often the financial collector polls the ledger summary
	PollInterval time.Duration `mapstructure:"poll_interval"`
}
