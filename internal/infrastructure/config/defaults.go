package config

import "time"

// SetDefaults sets default values for all configuration fields
func SetDefaults(cfg *Config) {
	// Database defaults
	if cfg.Database.Type == "" {
		cfg.Database.Type = "sqlite"
	}
	if cfg.Database.Type == "sqlite" && cfg.Database.Path == "" {
		cfg.Database.Path = "starport.db"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "starport"
	}
	if cfg.Database.Name == "" {
		cfg.Database.Name = "starport"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.Pool.MaxOpen == 0 {
		cfg.Database.Pool.MaxOpen = 25
	}
	if cfg.Database.Pool.MaxIdle == 0 {
		cfg.Database.Pool.MaxIdle = 5
	}
	if cfg.Database.Pool.MaxLifetime == 0 {
		cfg.Database.Pool.MaxLifetime = 5 * time.Minute
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}

	// Metrics defaults
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
	if cfg.Metrics.PollInterval == 0 {
		cfg.Metrics.PollInterval = 15 * time.Second
	}

	// Server defaults
	if cfg.Server.HTTPAddress == "" {
		cfg.Server.HTTPAddress = "localhost:8080"
	}
	if cfg.Server.GRPCAddress == "" {
		cfg.Server.GRPCAddress = "localhost:50052"
	}
	if cfg.Server.PIDFile == "" {
		cfg.Server.PIDFile = "/tmp/starport.pid"
	}
	if cfg.Server.FlushSchedule == "" {
		cfg.Server.FlushSchedule = "*/5 * * * * *"
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 30 * time.Second
	}

	// Simulation defaults
	if cfg.Simulation.PlayerID == 0 {
		cfg.Simulation.PlayerID = 1
	}
	if cfg.Simulation.StartingCash == 0 {
		cfg.Simulation.StartingCash = 5000
	}
	if cfg.Simulation.Width == 0 {
		cfg.Simulation.Width = 64
	}
	if cfg.Simulation.Height == 0 {
		cfg.Simulation.Height = 64
	}
	if cfg.Simulation.MoveTicksPerCell == 0 {
		cfg.Simulation.MoveTicksPerCell = 1
	}
	if cfg.Simulation.TickInterval == 0 {
		cfg.Simulation.TickInterval = 40 * time.Millisecond
	}

	// Production defaults
	if len(cfg.Production.Queues) == 0 {
		cfg.Production.Queues = []QueueConfig{{Type: "Starport"}}
	}
	for i := range cfg.Production.Queues {
		q := &cfg.Production.Queues[i]
		if q.MaxCapacity == 0 {
			q.MaxCapacity = 5
		}
		if q.Payment == "" {
			q.Payment = "on_completion"
		}
		if q.SpeedUp && q.SpeedUpPercent == 0 {
			q.SpeedUpPercent = 25
		}
	}

	// Delivery defaults
	if cfg.Delivery.CarrierType == "" {
		cfg.Delivery.CarrierType = "frigate"
	}
	if cfg.Delivery.SpawnMode == "" {
		cfg.Delivery.SpawnMode = "edge"
	}
	if cfg.Delivery.Facing == 0 {
		cfg.Delivery.Facing = 256
	}
	if cfg.Delivery.AirStaggerTicks == 0 {
		cfg.Delivery.AirStaggerTicks = 10
	}
	if cfg.Delivery.ReadyAudio == "" {
		cfg.Delivery.ReadyAudio = "Reinforce"
	}
	if cfg.Delivery.HistorySize == 0 {
		cfg.Delivery.HistorySize = 32
	}
	if cfg.Delivery.NotifyRate == 0 {
		cfg.Delivery.NotifyRate = 2
	}
	if cfg.Delivery.NotifyBurst == 0 {
		cfg.Delivery.NotifyBurst = 4
	}
}
