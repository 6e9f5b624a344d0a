package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	configPath string
	playerID   int
	verbose    bool
)

// NewRootCommand creates the root command for the CLI
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "starport",
		Short: "Starport - batched production queue with skylift delivery",
		Long: `Starport runs a production queue that collects finished orders into a batch
and flies the whole batch in on a carrier, refunding anything that never arrives.

Run a scripted scenario to completion, or serve an endless session as a daemon
with an HTTP status API, Prometheus metrics and a gRPC health endpoint.

Examples:
  starport simulate --scenario scenarios/destroyed_site.yaml
  starport serve
  starport ledger list --player-id 1 --category REFUNDS
  starport ledger summary
  starport deliveries list --limit 10
  starport catalog list
  starport health`,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to config.yaml (default: search ., ./configs, /etc/starport)")
	rootCmd.PersistentFlags().IntVar(&playerID, "player-id", 0,
		"Player ID (overrides simulation.player_id)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable debug logging")

	rootCmd.AddCommand(NewSimulateCommand())
	rootCmd.AddCommand(NewServeCommand())
	rootCmd.AddCommand(NewLedgerCommand())
	rootCmd.AddCommand(NewDeliveriesCommand())
	rootCmd.AddCommand(NewCatalogCommand())
	rootCmd.AddCommand(NewConfigCommand())
	rootCmd.AddCommand(NewHealthCommand())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
