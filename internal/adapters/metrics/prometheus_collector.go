package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const (
	// Namespace for all metrics
	namespace = "starport"
	// Subsystem for simulation metrics
	subsystem = "sim"
)

var (
	// Registry is the global Prometheus registry for all metrics
	Registry *prometheus.Registry

	// globalFinancialCollector is the singleton financial metrics collector
	// Set by SetGlobalFinancialCollector() when metrics are enabled
	globalFinancialCollector FinancialMetricsRecorder
)

// FinancialMetricsRecorder defines the interface for recording financial metrics
type FinancialMetricsRecorder interface {
	RecordTransaction(playerID int, transactionType string, category string, amount int, balance int)
}

// InitRegistry initializes the Prometheus registry with the Go runtime collectors.
// Should be called once at application startup if metrics are enabled
func InitRegistry() {
	Registry = prometheus.NewRegistry()
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// GetRegistry returns the global Prometheus registry
// Returns nil if metrics are not initialized
func GetRegistry() *prometheus.Registry {
	return Registry
}

// IsEnabled returns true if metrics collection is enabled
func IsEnabled() bool {
	return Registry != nil
}

// Reset drops the registry and global collectors. Tests use it between cases.
func Reset() {
	Registry = nil
	globalFinancialCollector = nil
}

// SetGlobalFinancialCollector sets the global financial metrics collector
func SetGlobalFinancialCollector(collector FinancialMetricsRecorder) {
	globalFinancialCollector = collector
}

// RecordTransaction records a transaction event globally
func RecordTransaction(playerID int, transactionType string, category string, amount int, balance int) {
	if globalFinancialCollector != nil {
		globalFinancialCollector.RecordTransaction(playerID, transactionType, category, amount, balance)
	}
}

func register(metrics ...prometheus.Collector) error {
	if Registry == nil {
		return nil // Metrics not enabled
	}
	for _, metric := range metrics {
		if err := Registry.Register(metric); err != nil {
			return err
		}
	}
	return nil
}
