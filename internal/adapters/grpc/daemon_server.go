package grpc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/andrescamacho/starport-go/internal/application/common"
	"github.com/andrescamacho/starport-go/internal/application/jobs"
	"github.com/andrescamacho/starport-go/internal/application/simulation"
	"github.com/andrescamacho/starport-go/internal/domain/shared"
)

// SimulationService is the health service name reported while the simulation is ticking
const SimulationService = "starport.Simulation"

// StatusServer is the HTTP side of the daemon
type StatusServer interface {
	Start(address string) error
	Shutdown(ctx context.Context) error
}

// DaemonOptions configures the daemon listeners
type DaemonOptions struct {
	GRPCAddress     string
	HTTPAddress     string
	ShutdownTimeout time.Duration
}

// DaemonServer runs a simulation session in the background and exposes its health over gRPC.
// Shutdown stops the tick loop first, then flushes the journals once more.
type DaemonServer struct {
	runner   *simulation.Runner
	scenario simulation.Scenario
	jobs     *jobs.JobManager
	status   StatusServer
	opts     DaemonOptions
	logger   shared.Logger

	grpcServer *grpc.Server
	health     *health.Server

	mu     sync.Mutex
	report *simulation.Report
}

// NewDaemonServer creates a daemon. jobs and status may be nil.
func NewDaemonServer(
	runner *simulation.Runner,
	scenario simulation.Scenario,
	jobManager *jobs.JobManager,
	status StatusServer,
	opts DaemonOptions,
	logger shared.Logger,
) *DaemonServer {
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 30 * time.Second
	}
	grpcServer := grpc.NewServer()
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)

	return &DaemonServer{
		runner:     runner,
		scenario:   scenario,
		jobs:       jobManager,
		status:     status,
		opts:       opts,
		logger:     shared.LoggerOrNop(logger),
		grpcServer: grpcServer,
		health:     healthServer,
	}
}

// Run listens on the configured gRPC address and serves until ctx ends, a signal arrives or
// a finite scenario completes.
func (s *DaemonServer) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.opts.GRPCAddress)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.opts.GRPCAddress, err)
	}
	return s.Serve(ctx, listener)
}

// Serve is Run on an existing listener
func (s *DaemonServer) Serve(ctx context.Context, listener net.Listener) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	s.logger.Log("INFO", "Daemon listening", map[string]interface{}{
		"grpc_address": listener.Addr().String(),
		"http_address": s.opts.HTTPAddress,
	})

	errCh := make(chan error, 2)
	go func() {
		if err := s.grpcServer.Serve(listener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			errCh <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	if s.status != nil {
		go func() {
			if err := s.status.Start(s.opts.HTTPAddress); err != nil {
				errCh <- fmt.Errorf("status server error: %w", err)
			}
		}()
	}

	if s.jobs != nil {
		if err := s.jobs.StartAll(); err != nil {
			s.shutdown(nil, nil)
			return err
		}
	}

	simCtx, cancelSim := context.WithCancel(common.WithLogger(context.Background(), s.logger))
	simDone := make(chan error, 1)
	go func() {
		report, err := s.runner.Run(simCtx, s.scenario)
		s.mu.Lock()
		s.report = report
		s.mu.Unlock()
		simDone <- err
	}()

	s.health.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	s.health.SetServingStatus(SimulationService, grpc_health_v1.HealthCheckResponse_SERVING)

	var runErr error
	select {
	case <-ctx.Done():
		s.logger.Log("INFO", "Shutdown signal received, stopping daemon", nil)
	case runErr = <-errCh:
		s.logger.Log("ERROR", "Daemon listener failed", map[string]interface{}{"error": runErr.Error()})
	case runErr = <-simDone:
		simDone = nil
		s.logger.Log("INFO", "Scenario complete, stopping daemon", nil)
	}

	if err := s.shutdown(cancelSim, simDone); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}

// Report returns the scenario report once the tick loop has stopped
func (s *DaemonServer) Report() *simulation.Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.report
}

func (s *DaemonServer) shutdown(cancelSim context.CancelFunc, simDone <-chan error) error {
	s.health.SetServingStatus(SimulationService, grpc_health_v1.HealthCheckResponse_NOT_SERVING)

	if cancelSim != nil {
		cancelSim()
		if simDone != nil {
			<-simDone
		}
	}

	if s.jobs != nil {
		s.jobs.StopAll()
		s.jobs.RunAll()
	}

	var err error
	if s.status != nil {
		ctx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
		err = s.status.Shutdown(ctx)
		cancel()
	}

	s.health.Shutdown()
	s.grpcServer.GracefulStop()
	s.logger.Log("INFO", "Daemon stopped", nil)
	return err
}
