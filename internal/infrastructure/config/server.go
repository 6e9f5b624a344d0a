package config

import "time"

// ServerConfig holds settings for the long-running simulation daemon
type ServerConfig struct {
	// HTTP status server address (host:port)
	HTTPAddress string `mapstructure:"http_address" validate:"required"`

	// gRPC health server address (host:port)
	GRPCAddress string `mapstructure:"grpc_address" validate:"required"`

	PIDFile string `mapstructure:"pid_file"`

	// Cron spec (with seconds) for flushing the ledger and delivery journals
	FlushSchedule string `mapstructure:"flush_schedule" validate:"required,cronspec"`

	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"required"`
}
