package metrics

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/andrescamacho/starport-go/internal/application/common"
	ledgerQueries "github.com/andrescamacho/starport-go/internal/application/ledger/queries"
)

// FinancialMetricsCollector handles balance, transaction and ledger total metrics
type FinancialMetricsCollector struct {
	mediator common.Mediator
	playerID int
	logger   common.Logger

	balance           *prometheus.GaugeVec
	transactionsTotal *prometheus.CounterVec
	transactionAmount *prometheus.HistogramVec
	ledgerTotals      *prometheus.GaugeVec
	productionSpent   *prometheus.GaugeVec

	ctx        context.Context
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
}

// NewFinancialMetricsCollector creates a new financial metrics collector.
// The ledger totals of playerID are polled through the mediator once started.
func NewFinancialMetricsCollector(mediator common.Mediator, playerID int, logger common.Logger) *FinancialMetricsCollector {
	if logger == nil {
		logger = common.LoggerFromContext(context.Background())
	}
	return &FinancialMetricsCollector{
		mediator: mediator,
		playerID: playerID,
		logger:   logger,

		balance: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "player_balance",
				Help:      "Balance after the last persisted transaction",
			},
			[]string{"player_id"},
		),

		transactionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "transactions_total",
				Help:      "Total number of transactions by type and category",
			},
			[]string{"player_id", "type", "category"},
		),

		transactionAmount: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "transaction_amount",
				Help:      "Transaction amount distribution (absolute value)",
				Buckets:   []float64{50, 100, 250, 500, 1000, 2500, 5000, 10000},
			},
			[]string{"player_id", "type", "category"},
		),

		ledgerTotals: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "ledger_category_total",
				Help:      "Sum of persisted transaction amounts by category",
			},
			[]string{"player_id", "category"},
		),

		productionSpent: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "production_spent",
				Help:      "Production costs minus refunds",
			},
			[]string{"player_id"},
		),
	}
}

// Register registers all financial metrics with the Prometheus registry
func (c *FinancialMetricsCollector) Register() error {
	return register(
		c.balance,
		c.transactionsTotal,
		c.transactionAmount,
		c.ledgerTotals,
		c.productionSpent,
	)
}

// Start begins the ledger polling goroutine
func (c *FinancialMetricsCollector) Start(ctx context.Context, interval time.Duration) {
	c.ctx, c.cancelFunc = context.WithCancel(ctx)

	c.wg.Add(1)
	go c.pollLedger(interval)
}

// Stop gracefully stops the financial metrics collector
func (c *FinancialMetricsCollector) Stop() {
	if c.cancelFunc != nil {
		c.cancelFunc()
	}
	c.wg.Wait()
}

func (c *FinancialMetricsCollector) pollLedger(interval time.Duration) {
	defer c.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	c.updateLedgerTotals()

	for {
		select {
		case <-c.ctx.Done():
			return
		case <-ticker.C:
			c.updateLedgerTotals()
		}
	}
}

func (c *FinancialMetricsCollector) updateLedgerTotals() {
	if c.mediator == nil {
		return
	}

	response, err := c.mediator.Send(c.ctx, &ledgerQueries.GetLedgerSummaryQuery{PlayerID: c.playerID})
	if err != nil {
		c.logger.Log("WARNING", "Failed to fetch ledger summary", map[string]interface{}{
			"player_id": c.playerID,
			"error":     err.Error(),
		})
		return
	}

	summary, ok := response.(*ledgerQueries.GetLedgerSummaryResponse)
	if !ok {
		return
	}

	playerIDStr := strconv.Itoa(c.playerID)
	for category, amount := range summary.ByCategory {
		c.ledgerTotals.WithLabelValues(playerIDStr, category).Set(float64(amount))
	}
	c.productionSpent.WithLabelValues(playerIDStr).Set(float64(summary.Spent))
}

// RecordTransaction records a transaction event
func (c *FinancialMetricsCollector) RecordTransaction(
	playerID int,
	transactionType string,
	category string,
	amount int,
	balance int,
) {
	playerIDStr := strconv.Itoa(playerID)

	c.balance.WithLabelValues(playerIDStr).Set(float64(balance))
	c.transactionsTotal.WithLabelValues(playerIDStr, transactionType, category).Inc()

	absAmount := amount
	if absAmount < 0 {
		absAmount = -absAmount
	}
	c.transactionAmount.WithLabelValues(playerIDStr, transactionType, category).Observe(float64(absAmount))
}
