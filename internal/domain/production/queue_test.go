package production_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/starport-go/internal/domain/production"
	"github.com/andrescamacho/starport-go/internal/domain/shared"
)

func manualConfig(capacity int) production.QueueConfig {
	return production.QueueConfig{MaxCapacity: capacity, ManualDispatch: true}
}

func itemNames(entries []production.BatchEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Item.Name
	}
	return out
}

func orderNames(orders []*production.PurchaseOrder) []string {
	out := make([]string, len(orders))
	for i, o := range orders {
		out[i] = o.Item().Name
	}
	return out
}

func TestOrderQueue_BuildableUntilCapacityReached(t *testing.T) {
	// Arrange
	f := newQueueFixture(manualConfig(3), 1000)

	// Act + Assert
	for i := 1; i <= 3; i++ {
		n, err := f.queue.Enqueue("trike", 1, true)
		require.NoError(t, err)
		require.Equal(t, 1, n)

		f.tick(1)

		assert.Equal(t, i, f.queue.BatchLen())
		if i < 3 {
			assert.NotEmpty(t, f.queue.BuildableItems(), "after completion %d", i)
			assert.Equal(t, production.DeliveryStateAccumulating, f.queue.State())
		}
	}
	assert.Empty(t, f.queue.BuildableItems())
	assert.Equal(t, production.DeliveryStateFull, f.queue.State())

	// Act
	returned, err := f.queue.ReturnOrder("trike", 1)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 1, returned)
	assert.Equal(t, []int{100}, f.economy.refunds)
	assert.Equal(t, 2, f.queue.BatchLen())
	assert.Equal(t, production.DeliveryStateAccumulating, f.queue.State())
	assert.NotEmpty(t, f.queue.BuildableItems())
}

func TestOrderQueue_PrepayRejectsWholeCallWhenFundsShort(t *testing.T) {
	// Arrange
	f := newQueueFixture(production.QueueConfig{Payment: production.PaymentPrepay, ManualDispatch: true}, 250)

	// Act
	n, err := f.queue.Enqueue("trike", 3, true)

	// Assert
	var insufficient *shared.InsufficientFundsError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 300, insufficient.Required)
	assert.Equal(t, 250, insufficient.Available)
	assert.Zero(t, n)
	assert.Zero(t, f.queue.Timeline().Len())
	assert.Zero(t, f.economy.charged)
}

func TestOrderQueue_PrepayChargesEveryOrder(t *testing.T) {
	f := newQueueFixture(production.QueueConfig{Payment: production.PaymentPrepay, ManualDispatch: true}, 300)

	n, err := f.queue.Enqueue("trike", 3, true)

	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, 300, f.economy.charged)
	for _, o := range f.queue.Timeline().Orders() {
		assert.True(t, o.IsFullyPaid())
	}
}

func TestOrderQueue_EnqueueCapsToLimits(t *testing.T) {
	t.Run("queue limit", func(t *testing.T) {
		f := newQueueFixture(production.QueueConfig{QueueLimit: 2, ManualDispatch: true}, 1000)

		n, err := f.queue.Enqueue("trike", 5, true)

		require.NoError(t, err)
		assert.Equal(t, 2, n)
	})

	t.Run("item limit", func(t *testing.T) {
		f := newQueueFixture(production.QueueConfig{ItemLimit: 1, ManualDispatch: true}, 1000)

		n, err := f.queue.Enqueue("trike", 3, true)
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		n, err = f.queue.Enqueue("quad", 1, true)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})

	t.Run("build limit counts live units", func(t *testing.T) {
		f := newQueueFixture(manualConfig(3), 1000,
			production.WithUnitCounter(fakeUnitCounter{"harvester": 1}))

		n, err := f.queue.Enqueue("harvester", 5, true)
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		_, err = f.queue.Enqueue("harvester", 1, true)
		var validation *shared.ValidationError
		require.ErrorAs(t, err, &validation)
		assert.Equal(t, "quantity", validation.Field)
	})
}

func TestOrderQueue_EnqueueRejectsInvalidItems(t *testing.T) {
	f := newQueueFixture(manualConfig(3), 1000)

	tests := []struct {
		name     string
		item     string
		quantity int
	}{
		{name: "unknown item", item: "sandworm", quantity: 1},
		{name: "other queue type", item: "light_infantry", quantity: 1},
		{name: "zero quantity", item: "trike", quantity: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.queue.Enqueue(tt.item, tt.quantity, true)

			var validation *shared.ValidationError
			require.ErrorAs(t, err, &validation)
			assert.Zero(t, f.queue.Timeline().Len())
		})
	}
}

func TestOrderQueue_DisabledQueueRejectsOrders(t *testing.T) {
	// Arrange
	f := newQueueFixture(manualConfig(3), 1000)
	f.site.disabled = true
	f.tick(1)

	// Act
	_, err := f.queue.Enqueue("trike", 1, true)

	// Assert
	var validation *shared.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.False(t, f.queue.IsEnabled())
	assert.Empty(t, f.queue.BuildableItems())
	assert.Empty(t, f.queue.AllItems())
}

func TestOrderQueue_UnqueuedOrdersTakePriority(t *testing.T) {
	// Arrange
	f := newQueueFixture(manualConfig(3), 1000)
	_, err := f.queue.Enqueue("quad", 2, true)
	require.NoError(t, err)

	// Act
	_, err = f.queue.Enqueue("trike", 1, false)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []string{"quad", "trike", "quad"}, orderNames(f.queue.Timeline().Orders()))
}

func TestOrderQueue_BuildUnitSkipsPausedSite(t *testing.T) {
	// Arrange
	f := newQueueFixture(manualConfig(3), 1000)
	paused := newFakeSite(3, owner)
	paused.primary = true
	paused.paused = true
	paused.faction = "harkonnen"
	f.sites.Add(paused)

	_, err := f.queue.Enqueue("trike", 1, true)
	require.NoError(t, err)

	// Act
	f.tick(1)

	// Assert
	batch := f.queue.Batch()
	require.Len(t, batch, 1)
	assert.Equal(t, "atreides", batch[0].Init.Faction)
	assert.Equal(t, owner, batch[0].Init.Owner)
	assert.Equal(t, 100, batch[0].Cost)
}

func TestOrderQueue_AllSitesPausedHoldsProduction(t *testing.T) {
	// Arrange
	f := newQueueFixture(manualConfig(3), 1000)
	f.site.paused = true
	_, err := f.queue.Enqueue("trike", 1, true)
	require.NoError(t, err)

	// Act
	f.tick(3)

	// Assert
	assert.True(t, f.queue.IsEnabled())
	assert.False(t, f.queue.IsActive())
	assert.Zero(t, f.queue.BatchLen())
	assert.Equal(t, 1, f.queue.Timeline().Orders()[0].RemainingTicks())

	// Act
	f.site.paused = false
	f.tick(1)

	// Assert
	assert.Equal(t, 1, f.queue.BatchLen())
}

func TestOrderQueue_LosingEverySiteRefundsTimeline(t *testing.T) {
	// Arrange
	f := newQueueFixture(production.QueueConfig{Payment: production.PaymentPrepay, ManualDispatch: true}, 1000)
	_, err := f.queue.Enqueue("quad", 1, true)
	require.NoError(t, err)
	f.tick(1)

	// Act
	f.site.dead = true
	f.tick(1)

	// Assert
	assert.Zero(t, f.queue.Timeline().Len())
	assert.Equal(t, 150, f.economy.refunded)
	assert.Zero(t, f.economy.outstanding())
}

func TestOrderQueue_CompletionsBeyondCapacityAreRefunded(t *testing.T) {
	// Arrange
	f := newQueueFixture(manualConfig(1), 1000)
	_, err := f.queue.Enqueue("trike", 2, true)
	require.NoError(t, err)

	// Act
	f.tick(2)

	// Assert
	assert.Equal(t, 1, f.queue.BatchLen())
	assert.Zero(t, f.queue.Timeline().Len())
	assert.Equal(t, 200, f.economy.charged)
	assert.Equal(t, 100, f.economy.refunded)
	assert.Equal(t, production.DeliveryStateFull, f.queue.State())
}

func TestOrderQueue_PayOnCompletionStallsWithoutFunds(t *testing.T) {
	// Arrange
	f := newQueueFixture(manualConfig(3), 50)
	_, err := f.queue.Enqueue("trike", 1, true)
	require.NoError(t, err)

	// Act
	f.tick(2)

	// Assert
	order := f.queue.Timeline().Orders()[0]
	assert.Equal(t, production.OrderStateInProduction, order.State())
	assert.Zero(t, f.queue.BatchLen())

	// Act
	f.economy.funds = 100
	f.tick(1)

	// Assert
	assert.Equal(t, 1, f.queue.BatchLen())
	assert.Equal(t, 100, f.economy.charged)
}

func TestOrderQueue_StartDeliveryHandsOverSnapshot(t *testing.T) {
	// Arrange
	f := newQueueFixture(production.QueueConfig{Payment: production.PaymentPrepay, ManualDispatch: true}, 1000)
	_, err := f.queue.Enqueue("trike", 2, true)
	require.NoError(t, err)
	_, err = f.queue.Enqueue("quad", 1, true)
	require.NoError(t, err)
	f.tick(2)
	require.Equal(t, 2, f.queue.BatchLen())

	// Act
	err = f.queue.StartDelivery()

	// Assert
	require.NoError(t, err)
	require.Len(t, f.dispatcher.requests, 1)
	req := f.dispatcher.last()
	assert.Equal(t, 2, req.Snapshot.Len())
	assert.Equal(t, 200, req.Snapshot.TotalCost())
	assert.Equal(t, 7, req.Site.ID())
	assert.Equal(t, "Starport", req.ProductionType)

	assert.Equal(t, production.DeliveryStateInTransit, f.queue.State())
	assert.Zero(t, f.queue.BatchLen())
	assert.Zero(t, f.queue.Timeline().Len(), "pending orders are dropped")
	assert.Equal(t, 150, f.economy.refunded)
	assert.Empty(t, f.queue.BuildableItems())

	_, err = f.queue.Enqueue("trike", 1, true)
	assert.Error(t, err)
}

func TestOrderQueue_ReturnOrderRejectedInTransit(t *testing.T) {
	// Arrange
	f := newQueueFixture(manualConfig(3), 1000)
	_, err := f.queue.Enqueue("trike", 1, true)
	require.NoError(t, err)
	f.tick(1)
	require.NoError(t, f.queue.StartDelivery())

	// Act
	_, err = f.queue.ReturnOrder("trike", 1)

	// Assert
	var invalid *shared.InvalidStateError
	require.ErrorAs(t, err, &invalid)
	assert.Zero(t, f.economy.refunded)
}

func TestOrderQueue_ReturnOrderTakesFromTail(t *testing.T) {
	// Arrange
	f := newQueueFixture(manualConfig(3), 1000)
	for _, item := range []string{"trike", "quad", "trike"} {
		_, err := f.queue.Enqueue(item, 1, true)
		require.NoError(t, err)
	}
	f.tick(5)
	require.Equal(t, []string{"trike", "quad", "trike"}, itemNames(f.queue.Batch()))
	last := f.queue.Batch()[2]

	// Act
	returned, err := f.queue.ReturnOrder("trike", 1)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 1, returned)
	assert.Equal(t, []string{"trike", "quad"}, itemNames(f.queue.Batch()))
	for _, e := range f.queue.Batch() {
		assert.NotEqual(t, last.ID, e.ID)
	}
}

func TestOrderQueue_DeliverFinishedIsIdempotent(t *testing.T) {
	// Arrange
	f := newQueueFixture(manualConfig(3), 1000)
	_, err := f.queue.Enqueue("trike", 1, true)
	require.NoError(t, err)
	f.tick(1)
	require.NoError(t, f.queue.StartDelivery())

	// Act
	f.queue.DeliverFinished()
	refunded := f.economy.refunded
	f.queue.DeliverFinished()

	// Assert
	assert.Equal(t, production.DeliveryStateIdle, f.queue.State())
	assert.Equal(t, refunded, f.economy.refunded)
	_, inFlight := f.queue.InFlight()
	assert.False(t, inFlight)
	assert.NotEmpty(t, f.queue.BuildableItems())
}

func TestOrderQueue_StartDeliveryValidation(t *testing.T) {
	t.Run("empty batch", func(t *testing.T) {
		f := newQueueFixture(manualConfig(3), 1000)

		err := f.queue.StartDelivery()

		var invalid *shared.InvalidStateError
		require.ErrorAs(t, err, &invalid)
		assert.Empty(t, f.dispatcher.requests)
	})

	t.Run("every site paused", func(t *testing.T) {
		f := newQueueFixture(manualConfig(3), 1000)
		_, err := f.queue.Enqueue("trike", 1, true)
		require.NoError(t, err)
		f.tick(1)
		f.site.paused = true

		err = f.queue.StartDelivery()

		var unavailable *production.ErrSiteUnavailable
		require.ErrorAs(t, err, &unavailable)
		assert.Equal(t, production.DeliveryStateAccumulating, f.queue.State())
	})

	t.Run("dispatcher refuses", func(t *testing.T) {
		f := newQueueFixture(manualConfig(3), 1000)
		_, err := f.queue.Enqueue("trike", 1, true)
		require.NoError(t, err)
		_, err = f.queue.Enqueue("quad", 1, true)
		require.NoError(t, err)
		f.tick(1)
		f.dispatcher.err = errDispatchRefused

		err = f.queue.StartDelivery()

		require.ErrorIs(t, err, errDispatchRefused)
		assert.Equal(t, production.DeliveryStateAccumulating, f.queue.State())
		assert.Equal(t, 1, f.queue.BatchLen())
		assert.Equal(t, 1, f.queue.Timeline().Len())
	})
}

func TestOrderQueue_FullBatchDispatchesAutomatically(t *testing.T) {
	// Arrange
	f := newQueueFixture(production.QueueConfig{MaxCapacity: 2}, 1000)
	_, err := f.queue.Enqueue("trike", 2, true)
	require.NoError(t, err)

	// Act
	f.tick(2)

	// Assert
	require.Len(t, f.dispatcher.requests, 1)
	assert.Equal(t, []string{"trike", "trike"}, f.dispatcher.last().Snapshot.ItemNames())
	assert.Equal(t, production.DeliveryStateInTransit, f.queue.State())
}

func TestOrderQueue_SpeedUpShortensRepeatBuilds(t *testing.T) {
	// Arrange
	cfg := manualConfig(3)
	cfg.SpeedUp = true
	cfg.SpeedUpPercent = 50
	f := newQueueFixture(cfg, 1000)
	_, err := f.queue.Enqueue("quad", 1, true)
	require.NoError(t, err)
	assert.Equal(t, 3, f.queue.Timeline().Orders()[0].BuildTicks())
	f.tick(3)
	require.Equal(t, 1, f.queue.BatchLen())

	// Act
	_, err = f.queue.Enqueue("quad", 1, true)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 1, f.queue.Timeline().Orders()[0].BuildTicks())
}

func TestOrderQueue_StockGatesOrders(t *testing.T) {
	// Arrange
	f := newQueueFixture(manualConfig(3), 10000)

	// Act
	n, err := f.queue.Enqueue("mcv", 2, true)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	available, tracked := f.queue.Stock().Available("mcv")
	assert.True(t, tracked)
	assert.Zero(t, available)

	_, err = f.queue.Enqueue("mcv", 1, true)
	assert.Error(t, err)

	// Act
	f.tick(3)

	// Assert
	available, _ = f.queue.Stock().Available("mcv")
	assert.Equal(t, 1, available)
}

func TestOrderQueue_CancelProductionNewestFirst(t *testing.T) {
	// Arrange
	f := newQueueFixture(production.QueueConfig{Payment: production.PaymentPrepay, ManualDispatch: true}, 1000)
	for _, item := range []string{"trike", "quad", "trike"} {
		_, err := f.queue.Enqueue(item, 1, true)
		require.NoError(t, err)
	}
	first := f.queue.Timeline().Orders()[0]

	// Act
	cancelled := f.queue.CancelProduction("trike", 1)

	// Assert
	assert.Equal(t, 1, cancelled)
	orders := f.queue.Timeline().Orders()
	assert.Equal(t, []string{"trike", "quad"}, orderNames(orders))
	assert.Equal(t, first.ID(), orders[0].ID())
	assert.Equal(t, []int{100}, f.economy.refunds)
}

func TestOrderQueue_CancelProductionReturnsStock(t *testing.T) {
	f := newQueueFixture(manualConfig(3), 10000)
	_, err := f.queue.Enqueue("mcv", 1, true)
	require.NoError(t, err)

	f.queue.CancelProduction("mcv", 1)

	available, _ := f.queue.Stock().Available("mcv")
	assert.Equal(t, 1, available)
}

func TestOrderQueue_PauseProductionSkipsItem(t *testing.T) {
	// Arrange
	f := newQueueFixture(manualConfig(3), 1000)
	_, err := f.queue.Enqueue("trike", 1, true)
	require.NoError(t, err)
	_, err = f.queue.Enqueue("quad", 1, true)
	require.NoError(t, err)

	// Act
	paused := f.queue.PauseProduction("trike", true)
	f.tick(1)

	// Assert
	assert.Equal(t, 1, paused)
	orders := f.queue.Timeline().Orders()
	assert.Equal(t, 1, orders[0].RemainingTicks())
	assert.Equal(t, 2, orders[1].RemainingTicks())

	// Act
	f.queue.PauseProduction("trike", false)
	f.tick(1)

	// Assert
	assert.Equal(t, []string{"trike"}, itemNames(f.queue.Batch()))
}

func TestOrderQueue_MoneyIsConserved(t *testing.T) {
	policies := []production.PaymentPolicy{production.PaymentOnCompletion, production.PaymentPrepay}
	items := []string{"trike", "quad", "ornithopter", "harvester", "mcv", "light_infantry"}

	for _, policy := range policies {
		t.Run(string(policy), func(t *testing.T) {
			f := newQueueFixture(production.QueueConfig{Payment: policy, MaxCapacity: 3}, 5000)
			rng := rand.New(rand.NewSource(42))
			delivered := 0

			for step := 0; step < 2000; step++ {
				item := items[rng.Intn(len(items))]
				switch rng.Intn(8) {
				case 0, 1:
					_, _ = f.queue.Enqueue(item, 1+rng.Intn(3), rng.Intn(2) == 0)
				case 2:
					f.queue.CancelProduction(item, 1+rng.Intn(2))
				case 3:
					_, _ = f.queue.ReturnOrder(item, 1)
				case 4:
					_ = f.queue.StartDelivery()
				case 5:
					if snap, ok := f.queue.InFlight(); ok {
						if rng.Intn(2) == 0 {
							delivered += snap.TotalCost()
						} else {
							f.economy.Refund(snap.TotalCost(), nil)
						}
						f.queue.DeliverFinished()
					}
				case 6:
					f.site.paused = rng.Intn(4) == 0
				default:
					f.tick(1)
				}

				require.LessOrEqual(t, f.queue.BatchLen(), 3, "step %d", step)
				require.Equal(t, f.heldCost()+delivered, f.economy.outstanding(), "step %d", step)
			}
		})
	}
}
