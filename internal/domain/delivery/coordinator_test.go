package delivery_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/starport-go/internal/domain/delivery"
	"github.com/andrescamacho/starport-go/internal/domain/production"
	"github.com/andrescamacho/starport-go/internal/domain/shared"
)

var (
	trike = item("trike", 100, false)
	quad  = item("quad", 150, false)
	tank  = item("tank", 200, false)
	ornie = item("ornithopter", 250, true)
)

func groundBatch() []production.BatchEntry {
	return []production.BatchEntry{entry("a", trike), entry("b", quad), entry("c", tank)}
}

func TestCoordinator_DeliversGroundUnitsLastToFirst(t *testing.T) {
	// Arrange
	h := newHarness(delivery.DefaultConfig())
	require.NoError(t, h.deliver(groundBatch()...))
	assert.Equal(t, 1, h.observer.incoming)

	// Act
	h.tick(7)

	// Assert
	assert.Equal(t, []string{"tank", "quad", "trike"}, h.spawner.spawnedItems())
	assert.Equal(t, 1, h.queue.finished)
	assert.Equal(t, 1, h.observer.delivered)
	assert.Equal(t, []string{"Reinforce"}, h.notifier.cues)
	assert.Empty(t, h.economy.refunds)
	assert.Equal(t, 1, h.listener.completed)
	assert.Equal(t, 3, h.listener.unloaded)
	assert.True(t, h.spawner.carrier.removed)
}

func TestCoordinator_CarrierPlan(t *testing.T) {
	// Arrange
	cfg := delivery.DefaultConfig()
	cfg.WaitBeforeUnload = 5
	cfg.WaitAfterUnload = 3
	h := newHarness(cfg)
	require.NoError(t, h.deliver(entry("a", trike)))

	// Act
	h.effects.Flush()

	// Assert
	require.NotNil(t, h.spawner.carrier)
	assert.Equal(t,
		[]string{"move", "land", "wait", "landed", "unload", "wait", "move", "remove"},
		h.spawner.carrier.kinds())
	assert.Equal(t, h.site.Location(), h.spawner.carrier.steps[0].cell)
	assert.Equal(t, shared.Cell{X: 0, Y: 20}, h.spawner.carrier.steps[6].cell)
}

func TestCoordinator_SiteDestroyedBeforeLandingRefundsOnce(t *testing.T) {
	// Arrange
	h := newHarness(delivery.DefaultConfig())
	require.NoError(t, h.deliver(groundBatch()...))
	h.tick(1)
	require.NotNil(t, h.spawner.carrier)

	// Act
	h.site.dead = true
	h.tick(6)

	// Assert
	assert.Equal(t, 450, h.economy.total())
	assert.Len(t, h.economy.refunds, 3)
	assert.Equal(t, 1, h.queue.finished)
	assert.Empty(t, h.spawner.units)
	assert.Zero(t, h.observer.delivered)
	assert.Equal(t, 1, h.listener.failed)
	var aborted *delivery.ErrDeliveryAborted
	assert.True(t, errors.As(h.listener.lastErr, &aborted))
}

func TestCoordinator_SiteLostBeforeLaunch(t *testing.T) {
	// Arrange
	h := newHarness(delivery.DefaultConfig())
	require.NoError(t, h.deliver(groundBatch()...))

	// Act
	h.site.dead = true
	h.tick(2)

	// Assert
	assert.Nil(t, h.spawner.carrier)
	assert.Equal(t, 450, h.economy.total())
	assert.Equal(t, 1, h.queue.finished)
}

func TestCoordinator_CarrierDestroyedRefundsOnlyPending(t *testing.T) {
	// Arrange
	h := newHarness(delivery.DefaultConfig())
	require.NoError(t, h.deliver(groundBatch()...))
	h.tick(3)
	require.Equal(t, []string{"tank"}, h.spawner.spawnedItems())

	// Act
	h.spawner.carrier.dead = true
	h.tick(3)

	// Assert
	assert.Equal(t, 250, h.economy.total())
	assert.Equal(t, 1, h.queue.finished)
	assert.Equal(t, 1, h.listener.failed)
	assert.Equal(t, []string{"tank"}, h.spawner.spawnedItems())
}

func TestCoordinator_BlockedExitRetriesWithoutDuplicates(t *testing.T) {
	// Arrange
	h := newHarness(delivery.DefaultConfig())
	h.site.blockFor = 5
	require.NoError(t, h.deliver(entry("a", trike)))
	h.tick(2) // launch, landing

	// Act
	h.tick(5)

	// Assert
	assert.Empty(t, h.spawner.units)
	assert.Len(t, h.site.blockedNotes, 5)
	assert.Equal(t, shared.Cell{X: 21, Y: 23}, h.site.blockedNotes[0])

	// Act
	h.tick(1)

	// Assert
	require.Len(t, h.spawner.units, 1)
	assert.Equal(t, 6, h.spawner.units[0].attempt)

	// Act
	h.tick(10)

	// Assert
	assert.Len(t, h.spawner.units, 1)
	assert.Equal(t, 1, h.queue.finished)
	assert.Equal(t, 5, h.listener.blocked)
	assert.Empty(t, h.economy.refunds)
}

func TestCoordinator_SelfPropelledCargoFliesIn(t *testing.T) {
	// Arrange
	h := newHarness(delivery.DefaultConfig())
	require.NoError(t, h.deliver(entry("o1", ornie), entry("o2", ornie)))

	// Act
	h.tick(1)

	// Assert
	assert.Nil(t, h.spawner.carrier, "no ground cargo, no carrier")
	require.Len(t, h.spawner.units, 2)
	assert.Equal(t, shared.Cell{X: 0, Y: 20}, h.spawner.units[0].at)
	assert.Equal(t, []string{"move", "move"}, h.spawner.units[0].actor.kinds())
	assert.Equal(t, []string{"wait", "move", "move"}, h.spawner.units[1].actor.kinds())
	assert.Equal(t, 1, h.queue.finished)
	assert.Equal(t, 1, h.observer.delivered)
}

func TestCoordinator_MixedCargo(t *testing.T) {
	h := newHarness(delivery.DefaultConfig())
	require.NoError(t, h.deliver(entry("a", trike), entry("b", ornie), entry("c", quad)))

	h.tick(6)

	assert.Equal(t, []string{"ornithopter", "quad", "trike"}, h.spawner.spawnedItems())
	assert.Equal(t, 1, h.queue.finished)
}

func TestCoordinator_FailedSpawnIsRetried(t *testing.T) {
	// Arrange
	h := newHarness(delivery.DefaultConfig())
	h.spawner.failUnits = 1
	require.NoError(t, h.deliver(entry("a", trike)))

	// Act
	h.tick(6)

	// Assert
	assert.Equal(t, []string{"trike"}, h.spawner.spawnedItems())
	assert.Equal(t, 1, h.queue.finished)
	assert.Empty(t, h.economy.refunds)
}

func TestCoordinator_CarrierSpawnFailureRefunds(t *testing.T) {
	h := newHarness(delivery.DefaultConfig())
	h.spawner.carrierErr = errors.New("no airspace")
	require.NoError(t, h.deliver(groundBatch()...))

	h.tick(2)

	assert.Equal(t, 450, h.economy.total())
	assert.Equal(t, 1, h.queue.finished)
}

func TestCoordinator_FixedSpawnPoint(t *testing.T) {
	cfg := delivery.DefaultConfig()
	cfg.SpawnMode = delivery.SpawnModeFixed
	cfg.FixedSpawn = shared.Cell{X: 5, Y: 5}
	h := newHarness(cfg)
	require.NoError(t, h.deliver(entry("a", trike)))

	h.tick(1)

	active := h.coordinator.Active()
	require.Len(t, active, 1)
	assert.Equal(t, shared.Cell{X: 5, Y: 5}, active[0].SpawnPoint())
	assert.Equal(t, shared.LifecycleStatusRunning, active[0].Status())
}

func TestCoordinator_ArchivesFinishedDeliveries(t *testing.T) {
	h := newHarness(delivery.DefaultConfig())
	require.NoError(t, h.deliver(entry("a", trike)))

	h.tick(6)

	assert.Empty(t, h.coordinator.Active())
	history := h.coordinator.History()
	require.Len(t, history, 1)
	assert.Equal(t, shared.LifecycleStatusCompleted, history[0].Status())
	assert.Equal(t, []string{"trike"}, history[0].DeliveredItems())
	assert.Equal(t, 100, history[0].DeliveredCost())
}

func TestCoordinator_RejectsInvalidRequests(t *testing.T) {
	h := newHarness(delivery.DefaultConfig())

	err := h.deliver()

	var invalid *delivery.ErrInvalidRequest
	require.ErrorAs(t, err, &invalid)
	assert.Zero(t, h.effects.Len())
}
