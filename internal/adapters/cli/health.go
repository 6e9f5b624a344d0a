package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"

	grpcadapter "github.com/andrescamacho/starport-go/internal/adapters/grpc"
)

// NewHealthCommand creates the health command
func NewHealthCommand() *cobra.Command {
	var (
		address string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check daemon health status",
		Long: `Ask the daemon's gRPC health service whether the simulation is ticking.

Exits non-zero unless the simulation reports SERVING.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if address == "" {
				cfg, err := loadConfig()
				if err != nil {
					return err
				}
				address = cfg.Server.GRPCAddress
			}

			conn, err := grpcadapter.Dial(address)
			if err != nil {
				return fmt.Errorf("failed to connect to daemon: %w", err)
			}
			defer conn.Close()

			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()

			status, err := grpcadapter.CheckHealth(ctx, conn, grpcadapter.SimulationService)
			if err != nil {
				return fmt.Errorf("health check failed: %w", err)
			}
			if status != grpc_health_v1.HealthCheckResponse_SERVING {
				return fmt.Errorf("daemon at %s is %s", address, status)
			}

			fmt.Println("✓ Daemon is healthy")
			fmt.Printf("  Address:          %s\n", address)
			fmt.Printf("  Status:           %s\n", status)
			return nil
		},
	}

	cmd.Flags().StringVar(&address, "address", "", "Daemon gRPC address (default: server.grpc_address)")
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Second, "How long to wait for an answer")

	return cmd
}
