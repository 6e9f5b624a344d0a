package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/andrescamacho/starport-go/internal/domain/delivery"
	"github.com/andrescamacho/starport-go/internal/domain/production"
	"github.com/andrescamacho/starport-go/internal/domain/shared"
)

// DeliveryMetricsCollector turns delivery progress into metrics. Register it as a delivery.Listener.
type DeliveryMetricsCollector struct {
	deliveriesStarted  *prometheus.CounterVec
	deliveriesFinished *prometheus.CounterVec
	unitsDelivered     *prometheus.CounterVec
	exitBlockedTicks   *prometheus.CounterVec
	refundedCredits    *prometheus.CounterVec
	deliveryDuration   *prometheus.HistogramVec
	activeDeliveries   *prometheus.GaugeVec
	batchSize          *prometheus.GaugeVec

	// launched deliveries still counted in activeDeliveries; listener calls come from the tick loop only
	launched map[string]bool
}

// NewDeliveryMetricsCollector creates a new delivery metrics collector
func NewDeliveryMetricsCollector() *DeliveryMetricsCollector {
	labels := []string{"player_id"}
	return &DeliveryMetricsCollector{
		launched: make(map[string]bool),
		deliveriesStarted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: subsystem,
			Name: "deliveries_started_total",
			Help: "Deliveries whose carrier was launched",
		}, labels),
		deliveriesFinished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: subsystem,
			Name: "deliveries_finished_total",
			Help: "Finished deliveries by outcome",
		}, []string{"player_id", "status"}),
		unitsDelivered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: subsystem,
			Name: "units_delivered_total",
			Help: "Units that reached the world by item",
		}, []string{"player_id", "item"}),
		exitBlockedTicks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: subsystem,
			Name: "exit_blocked_ticks_total",
			Help: "Ticks an unload waited for a free exit",
		}, labels),
		refundedCredits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: subsystem,
			Name: "delivery_refunded_credits_total",
			Help: "Credits refunded for cargo lost in aborted deliveries",
		}, labels),
		deliveryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: subsystem,
			Name:    "delivery_duration_ticks",
			Help:    "Ticks from launch to completion or abort",
			Buckets: []float64{10, 25, 50, 75, 100, 150, 250, 500},
		}, []string{"player_id", "status"}),
		activeDeliveries: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: subsystem,
			Name: "active_deliveries",
			Help: "Deliveries currently in flight",
		}, labels),
		batchSize: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: subsystem,
			Name: "queue_batch_size",
			Help: "Completed orders waiting in the batch",
		}, []string{"player_id", "queue", "state"}),
	}
}

// Register registers all delivery metrics with the Prometheus registry
func (c *DeliveryMetricsCollector) Register() error {
	return register(
		c.deliveriesStarted,
		c.deliveriesFinished,
		c.unitsDelivered,
		c.exitBlockedTicks,
		c.refundedCredits,
		c.deliveryDuration,
		c.activeDeliveries,
		c.batchSize,
	)
}

func (c *DeliveryMetricsCollector) OnDeliveryStarted(d *delivery.Delivery) {
	id := player(d)
	c.deliveriesStarted.WithLabelValues(id).Inc()
	c.activeDeliveries.WithLabelValues(id).Inc()
	c.launched[d.ID()] = true
}

func (c *DeliveryMetricsCollector) OnUnitUnloaded(d *delivery.Delivery, entry production.BatchEntry) {
	c.unitsDelivered.WithLabelValues(player(d), entry.Item.Name).Inc()
}

func (c *DeliveryMetricsCollector) OnExitBlocked(d *delivery.Delivery, _ shared.Cell) {
	c.exitBlockedTicks.WithLabelValues(player(d)).Inc()
}

func (c *DeliveryMetricsCollector) OnDeliveryCompleted(d *delivery.Delivery) {
	c.finished(d)
}

func (c *DeliveryMetricsCollector) OnDeliveryFailed(d *delivery.Delivery, _ error) {
	c.refundedCredits.WithLabelValues(player(d)).Add(float64(d.Refunded()))
	c.finished(d)
}

func (c *DeliveryMetricsCollector) finished(d *delivery.Delivery) {
	id, status := player(d), string(d.Status())
	c.deliveriesFinished.WithLabelValues(id, status).Inc()
	c.deliveryDuration.WithLabelValues(id, status).Observe(float64(d.Lifecycle().Duration()))
	if c.launched[d.ID()] {
		c.activeDeliveries.WithLabelValues(id).Dec()
		delete(c.launched, d.ID())
	}
}

// RecordQueue publishes the batch size of a queue in its current state
func (c *DeliveryMetricsCollector) RecordQueue(playerID int, queueType string, state string, batchLen int) {
	id := strconv.Itoa(playerID)
	for _, s := range []production.DeliveryState{
		production.DeliveryStateIdle,
		production.DeliveryStateAccumulating,
		production.DeliveryStateFull,
		production.DeliveryStateInTransit,
	} {
		v := 0.0
		if string(s) == state {
			v = float64(batchLen)
		}
		c.batchSize.WithLabelValues(id, queueType, string(s)).Set(v)
	}
}

func player(d *delivery.Delivery) string {
	return strconv.Itoa(d.Owner().Value())
}
