package helpers

import (
	"testing"

	"github.com/andrescamacho/starport-go/internal/application/simulation"
	"github.com/andrescamacho/starport-go/internal/domain/delivery"
	"github.com/andrescamacho/starport-go/internal/domain/production"
	"github.com/andrescamacho/starport-go/internal/domain/shared"
	"github.com/andrescamacho/starport-go/internal/domain/world"
)

// StarportItems is a small catalog of starport units, all built in one tick
func StarportItems() []production.Item {
	return []production.Item{
		{Name: "trike", ProductionType: "Starport", Cost: 100, BuildTicks: 1},
		{Name: "quad", ProductionType: "Starport", Cost: 150, BuildTicks: 1},
		{Name: "tank", ProductionType: "Starport", Cost: 200, BuildTicks: 1},
		{Name: "ornithopter", ProductionType: "Starport", Cost: 300, BuildTicks: 1, SelfPropelled: true},
	}
}

// StarportExit is the single exit cell of the fixture starport
var StarportExit = shared.Cell{X: 11, Y: 12}

// StarportSetup returns a one-player session with one starport at (10,10) whose only exit is
// StarportExit.
func StarportSetup(t testing.TB, capacity int) simulation.Setup {
	t.Helper()
	setup, err := NewStarportSetup(capacity)
	if err != nil {
		t.Fatalf("failed to build starport setup: %v", err)
	}
	return setup
}

// NewStarportSetup is StarportSetup for callers without a testing.TB
func NewStarportSetup(capacity int) (simulation.Setup, error) {
	catalog, err := production.NewCatalog(StarportItems())
	if err != nil {
		return simulation.Setup{}, err
	}
	return simulation.Setup{
		PlayerID:     1,
		StartingCash: 5000,
		World:        world.Config{Width: 32, Height: 32, MoveTicksPerCell: 1},
		Catalog:      catalog,
		Queues:       []production.QueueConfig{{Type: "Starport", MaxCapacity: capacity}},
		Delivery:     delivery.DefaultConfig(),
		Buildings: []world.BuildingSpec{{
			Location:        shared.Cell{X: 10, Y: 10},
			ProductionTypes: []string{"Starport"},
			Exits:           []world.ExitSpec{{Offset: shared.CVec{X: 1, Y: 2}}},
		}},
	}, nil
}
