package simulation_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/starport-go/internal/application/common"
	appDelivery "github.com/andrescamacho/starport-go/internal/application/delivery"
	appProduction "github.com/andrescamacho/starport-go/internal/application/production"
	"github.com/andrescamacho/starport-go/internal/application/production/commands"
	"github.com/andrescamacho/starport-go/internal/application/production/queries"
	"github.com/andrescamacho/starport-go/internal/application/simulation"
	"github.com/andrescamacho/starport-go/internal/domain/delivery"
	"github.com/andrescamacho/starport-go/internal/domain/ledger"
	"github.com/andrescamacho/starport-go/internal/domain/production"
	"github.com/andrescamacho/starport-go/internal/domain/shared"
	"github.com/andrescamacho/starport-go/internal/domain/world"
)

func newSetup(t *testing.T) simulation.Setup {
	t.Helper()
	catalog, err := production.NewCatalog([]production.Item{
		{Name: "trike", ProductionType: "Starport", Cost: 100, BuildTicks: 1},
		{Name: "quad", ProductionType: "Starport", Cost: 150, BuildTicks: 1},
		{Name: "tank", ProductionType: "Starport", Cost: 200, BuildTicks: 1},
	})
	require.NoError(t, err)

	return simulation.Setup{
		PlayerID:     1,
		StartingCash: 5000,
		World:        world.Config{Width: 32, Height: 32, MoveTicksPerCell: 1},
		Catalog:      catalog,
		Queues:       []production.QueueConfig{{Type: "Starport", MaxCapacity: 3}},
		Delivery:     delivery.DefaultConfig(),
		Buildings: []world.BuildingSpec{{
			Location:        shared.Cell{X: 10, Y: 10},
			ProductionTypes: []string{"Starport"},
			Exits:           []world.ExitSpec{{Offset: shared.CVec{X: 1, Y: 2}}},
		}},
	}
}

func newRunner(t *testing.T) (*simulation.Session, *simulation.Runner, common.Mediator) {
	t.Helper()
	session, err := simulation.NewSession(newSetup(t), nil, nil)
	require.NoError(t, err)
	m := common.NewMediator()
	require.NoError(t, simulation.RegisterProductionHandlers(m, session))
	return session, simulation.NewRunner(session, m, 0), m
}

func orderThree() []simulation.Event {
	return []simulation.Event{
		{Tick: 0, Action: simulation.ActionProduce, Queue: "Starport", Item: "trike", Quantity: 1, Queued: true},
		{Tick: 0, Action: simulation.ActionProduce, Queue: "Starport", Item: "quad", Quantity: 1, Queued: true},
		{Tick: 0, Action: simulation.ActionProduce, Queue: "Starport", Item: "tank", Quantity: 1, Queued: true},
	}
}

func TestRunner_DeliversScriptedBatch(t *testing.T) {
	// Arrange
	session, runner, _ := newRunner(t)

	// Act
	report, err := runner.Run(context.Background(), simulation.Scenario{Name: "basic", Ticks: 100, Events: orderThree()})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 100, report.Ticks)
	assert.Equal(t, 3, report.Applied)
	assert.Empty(t, report.Rejected)
	assert.Equal(t, map[string]int{"trike": 1, "quad": 1, "tank": 1}, report.Final.Units)
	assert.Equal(t, 450, report.Final.Outstanding)
	require.Len(t, report.Final.Finished, 1)
	assert.Equal(t, []string{"tank", "quad", "trike"}, report.Final.Finished[0].Delivered)

	journal := session.DrainJournal()
	require.Len(t, journal, 4)
	assert.Equal(t, ledger.TransactionTypeGrant, journal[0].TransactionType())
}

func TestRunner_SiteDestroyedRefundsBatch(t *testing.T) {
	// Arrange
	_, runner, _ := newRunner(t)
	events := append(orderThree(), simulation.Event{Tick: 5, Action: simulation.ActionDestroyBuilding, Building: 0})

	// Act
	report, err := runner.Run(context.Background(), simulation.Scenario{Name: "lost", Ticks: 60, Events: events})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 450, report.Final.Refunded)
	assert.Zero(t, report.Final.Outstanding)
	require.Len(t, report.Final.Finished, 1)
	assert.Equal(t, string(shared.LifecycleStatusFailed), report.Final.Finished[0].Status)
	assert.Equal(t, 450, report.Final.Finished[0].Refunded)
}

func TestRunner_RejectedActionsAreReported(t *testing.T) {
	// Arrange
	_, runner, _ := newRunner(t)
	events := []simulation.Event{
		{Tick: 0, Action: simulation.ActionProduce, Queue: "Starport", Item: "harvester", Quantity: 1},
		{Tick: 1, Action: simulation.ActionProduce, Queue: "Barracks", Item: "trike", Quantity: 1},
		{Tick: 2, Action: simulation.ActionDestroyCarrier},
	}

	// Act
	report, err := runner.Run(context.Background(), simulation.Scenario{Ticks: 5, Events: events})

	// Assert
	require.NoError(t, err)
	assert.Zero(t, report.Applied)
	assert.Len(t, report.Rejected, 3)
}

func TestRunner_StopsWhenContextCancelled(t *testing.T) {
	_, runner, _ := newRunner(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := runner.Run(ctx, simulation.Scenario{Ticks: 0})

	require.NoError(t, err)
	assert.Zero(t, report.Ticks)
}

func TestScenario_Validate(t *testing.T) {
	tests := []struct {
		name  string
		event simulation.Event
	}{
		{"produce without quantity", simulation.Event{Action: simulation.ActionProduce, Item: "trike"}},
		{"cancel without count", simulation.Event{Action: simulation.ActionCancel, Item: "trike"}},
		{"grant without amount", simulation.Event{Action: simulation.ActionGrant}},
		{"unknown action", simulation.Event{Action: "launch_nukes"}},
		{"past the end", simulation.Event{Tick: 10, Action: simulation.ActionDispatch}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := simulation.Scenario{Ticks: 10, Events: []simulation.Event{tt.event}}
			assert.Error(t, sc.Validate())
		})
	}
}

func TestProductionHandlers_ThroughMediator(t *testing.T) {
	// Arrange
	session, _, m := newRunner(t)
	ctx := context.Background()

	// Act
	resp, err := m.Send(ctx, &commands.StartProductionCommand{QueueType: "Starport", Item: "trike", Quantity: 2, Queued: true})
	require.NoError(t, err)
	session.Tick()
	session.Tick()

	// Assert
	assert.Equal(t, 2, resp.(*commands.StartProductionResponse).Accepted)

	status, err := m.Send(ctx, &queries.GetQueueStatusQuery{QueueType: "Starport"})
	require.NoError(t, err)
	dto := status.(*queries.QueueStatusDTO)
	assert.Equal(t, string(production.DeliveryStateAccumulating), dto.State)
	assert.Equal(t, []string{"trike", "trike"}, dto.Batch)

	// Act
	returned, err := m.Send(ctx, &commands.ReturnOrderCommand{QueueType: "Starport", Item: "trike", Count: 1})
	require.NoError(t, err)
	dispatched, err := m.Send(ctx, &commands.PurchaseOrderCommand{QueueType: "Starport"})
	require.NoError(t, err)

	// Assert
	assert.Equal(t, 1, returned.(*commands.ReturnOrderResponse).Returned)
	assert.Equal(t, []string{"trike"}, dispatched.(*commands.StartDeliveryResponse).Items)
	assert.Equal(t, 100, dispatched.(*commands.StartDeliveryResponse).TotalCost)

	// Act
	_, err = m.Send(ctx, &commands.StartDeliveryCommand{QueueType: "Starport"})

	// Assert
	var invalid *shared.InvalidStateError
	assert.ErrorAs(t, err, &invalid)

	_, err = m.Send(ctx, &commands.PauseProductionCommand{QueueType: "Naval", Item: "trike"})
	var notFound *appProduction.ErrQueueNotFound
	assert.ErrorAs(t, err, &notFound)
}

func TestSession_RecorderCollectsFinishedDeliveries(t *testing.T) {
	// Arrange
	recorder := appDelivery.NewRecorder()
	session, err := simulation.NewSession(newSetup(t), nil, nil, recorder)
	require.NoError(t, err)
	m := common.NewMediator()
	require.NoError(t, simulation.RegisterProductionHandlers(m, session))

	// Act
	_, err = simulation.NewRunner(session, m, 0).Run(context.Background(), simulation.Scenario{Ticks: 100, Events: orderThree()})

	// Assert
	require.NoError(t, err)
	records := recorder.Drain()
	require.Len(t, records, 1)
	assert.True(t, records[0].Succeeded())
	assert.Equal(t, []string{"trike", "quad", "tank"}, records[0].Items)
	assert.Equal(t, []string{"tank", "quad", "trike"}, records[0].DeliveredItems)
	assert.Equal(t, 450, records[0].TotalCost)
	assert.Equal(t, 2, records[0].BlockedTicks)
}

func TestNewSession_RejectsBadSetup(t *testing.T) {
	setup := newSetup(t)
	setup.Queues = append(setup.Queues, setup.Queues[0])

	_, err := simulation.NewSession(setup, nil, nil)
	assert.Error(t, err)

	setup = newSetup(t)
	setup.PlayerID = 0
	_, err = simulation.NewSession(setup, nil, nil)
	assert.Error(t, err)
}
