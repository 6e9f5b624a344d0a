package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	grpcadapter "github.com/andrescamacho/starport-go/internal/adapters/grpc"
	httpadapter "github.com/andrescamacho/starport-go/internal/adapters/http"
	"github.com/andrescamacho/starport-go/internal/adapters/metrics"
	"github.com/andrescamacho/starport-go/internal/application/jobs"
	"github.com/andrescamacho/starport-go/internal/application/simulation"
	"github.com/andrescamacho/starport-go/internal/domain/delivery"
	"github.com/andrescamacho/starport-go/internal/infrastructure/pidfile"
)

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	var scenarioPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the simulation as a daemon",
		Long: `Run a session in the background at simulation.tick_interval per tick.

The daemon exposes:
  - an HTTP API on server.http_address (/status, /queues/:type, orders,
    dispatch, /ledger/summary, /deliveries, /notifications)
  - Prometheus metrics on metrics.path when metrics.enabled is set
  - the gRPC health service on server.grpc_address

Ledger transactions and delivery records are flushed to the database on
server.flush_schedule and once more on shutdown. A scenario with a tick
limit stops the daemon when it completes; ticks: 0 runs until SIGTERM.

Examples:
  starport serve
  starport serve --scenario scenarios/endless.yaml
  SP_SERVER_HTTP_ADDRESS=:9090 starport serve`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(scenarioPath)
		},
	}

	cmd.Flags().StringVar(&scenarioPath, "scenario", "", "Scenario file (YAML)")

	return cmd
}

func runServe(scenarioPath string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if cfg.Server.PIDFile != "" {
		pf := pidfile.New(cfg.Server.PIDFile)
		if err := pf.Acquire(); err != nil {
			return err
		}
		defer func() { _ = pf.Release() }()
	}

	var (
		listeners       []delivery.Listener
		commandMetrics  *metrics.CommandMetricsCollector
		deliveryMetrics *metrics.DeliveryMetricsCollector
	)
	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
		commandMetrics = metrics.NewCommandMetricsCollector()
		if err := commandMetrics.Register(); err != nil {
			return fmt.Errorf("failed to register command metrics: %w", err)
		}
		deliveryMetrics = metrics.NewDeliveryMetricsCollector()
		if err := deliveryMetrics.Register(); err != nil {
			return fmt.Errorf("failed to register delivery metrics: %w", err)
		}
		listeners = append(listeners, deliveryMetrics)
	}

	rt, err := newRuntime(cfg, scenarioPath, listeners...)
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx, cancel := context.WithCancel(rt.context())
	defer cancel()

	if cfg.Metrics.Enabled {
		rt.mediator.Use(metrics.PrometheusMiddleware(commandMetrics))

		financial := metrics.NewFinancialMetricsCollector(rt.mediator, cfg.Simulation.PlayerID, rt.logger)
		if err := financial.Register(); err != nil {
			return fmt.Errorf("failed to register financial metrics: %w", err)
		}
		metrics.SetGlobalFinancialCollector(financial)
		financial.Start(ctx, cfg.Metrics.PollInterval)
		defer financial.Stop()

		go pollQueues(ctx, rt.session, deliveryMetrics, cfg.Metrics.PollInterval)
	}

	status := httpadapter.NewServer(
		rt.mediator,
		rt.session,
		rt.notifier,
		cfg.Simulation.PlayerID,
		metrics.GetRegistry(),
		cfg.Metrics.Path,
	)

	daemon := grpcadapter.NewDaemonServer(
		simulation.NewRunner(rt.session, rt.mediator, cfg.Simulation.TickInterval),
		rt.scenario,
		jobs.NewJobManager(rt.mediator, cfg.Server.FlushSchedule, rt.logger),
		status,
		grpcadapter.DaemonOptions{
			GRPCAddress:     cfg.Server.GRPCAddress,
			HTTPAddress:     cfg.Server.HTTPAddress,
			ShutdownTimeout: cfg.Server.ShutdownTimeout,
		},
		rt.logger,
	)

	if err := daemon.Run(ctx); err != nil {
		return err
	}
	if report := daemon.Report(); report != nil {
		displayReport(report)
	}
	return nil
}

// pollQueues publishes every queue's state and batch size until ctx ends
func pollQueues(ctx context.Context, session *simulation.Session, collector *metrics.DeliveryMetricsCollector, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		st := session.Status()
		for _, q := range st.Queues {
			collector.RecordQueue(st.PlayerID, q.Type, q.State, len(q.Batch))
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
