package cli

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/starport-go/internal/infrastructure/config"
)

// NewConfigCommand creates the config command with subcommands
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long: `Inspect the effective configuration.

Values come from, in order of priority: SP_* environment variables (and .env),
the config file (--config, or config.yaml in ., ./configs, /etc/starport),
then built-in defaults.

Examples:
  starport config show
  SP_SIMULATION_PLAYER_ID=2 starport config show`,
	}

	cmd.AddCommand(newConfigShowCommand())

	return cmd
}

// newConfigShowCommand creates the config show subcommand
func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			displayConfig(cfg)
			return nil
		},
	}
}

func displayConfig(cfg *config.Config) {
	fmt.Println("Starport Configuration")
	fmt.Println("======================")

	fmt.Println("\nDatabase:")
	fmt.Printf("  Type:             %s\n", cfg.Database.Type)
	switch {
	case cfg.Database.URL != "":
		fmt.Printf("  URL:              %s\n", maskPassword(cfg.Database.URL))
	case cfg.Database.Type == "sqlite":
		fmt.Printf("  Path:             %s\n", cfg.Database.Path)
	default:
		fmt.Printf("  Host:             %s:%d\n", cfg.Database.Host, cfg.Database.Port)
		fmt.Printf("  Database:         %s\n", cfg.Database.Name)
		fmt.Printf("  User:             %s\n", cfg.Database.User)
	}

	fmt.Println("\nSimulation:")
	fmt.Printf("  Player:           %d\n", cfg.Simulation.PlayerID)
	fmt.Printf("  Starting Cash:    %s\n", formatCredits(cfg.Simulation.StartingCash))
	fmt.Printf("  Map:              %dx%d (%d ticks per cell)\n",
		cfg.Simulation.Width, cfg.Simulation.Height, cfg.Simulation.MoveTicksPerCell)
	fmt.Printf("  Tick Interval:    %s\n", cfg.Simulation.TickInterval)
	fmt.Printf("  Scenario:         %s\n", orBuiltIn(cfg.Simulation.ScenarioPath))
	fmt.Printf("  Catalog:          %s\n", orBuiltIn(cfg.Catalog.Path))

	fmt.Println("\nProduction Queues:")
	for _, q := range cfg.Production.Queues {
		dispatch := "auto"
		if q.ManualDispatch {
			dispatch = "manual"
		}
		fmt.Printf("  %-16s  capacity %d, %s dispatch, pay %s", q.Type, q.MaxCapacity, dispatch, q.Payment)
		if q.SpeedUp {
			fmt.Printf(", speed-up %d%%", q.SpeedUpPercent)
		}
		fmt.Println()
	}

	fmt.Println("\nDelivery:")
	fmt.Printf("  Carrier:          %s\n", cfg.Delivery.CarrierType)
	fmt.Printf("  Spawn:            %s\n", cfg.Delivery.SpawnMode)
	fmt.Printf("  Ready Cue:        %s\n", cfg.Delivery.ReadyAudio)
	fmt.Printf("  Notify Rate:      %.1f/s (burst: %d)\n", cfg.Delivery.NotifyRate, cfg.Delivery.NotifyBurst)

	fmt.Println("\nServer:")
	fmt.Printf("  HTTP Address:     %s\n", cfg.Server.HTTPAddress)
	fmt.Printf("  gRPC Address:     %s\n", cfg.Server.GRPCAddress)
	fmt.Printf("  PID File:         %s\n", cfg.Server.PIDFile)
	fmt.Printf("  Flush Schedule:   %s\n", cfg.Server.FlushSchedule)

	fmt.Println("\nMetrics:")
	fmt.Printf("  Enabled:          %t\n", cfg.Metrics.Enabled)
	fmt.Printf("  Path:             %s\n", cfg.Metrics.Path)

	fmt.Println("\nLogging:")
	fmt.Printf("  Level:            %s\n", cfg.Logging.Level)
	fmt.Printf("  Format:           %s\n", cfg.Logging.Format)
	fmt.Printf("  Output:           %s\n", cfg.Logging.Output)
}

func orBuiltIn(path string) string {
	if path == "" {
		return "(built-in)"
	}
	return path
}

// maskPassword hides the password of a connection URL
func maskPassword(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	if _, ok := u.User.Password(); ok {
		u.User = url.UserPassword(u.User.Username(), "****")
	}
	return u.String()
}
