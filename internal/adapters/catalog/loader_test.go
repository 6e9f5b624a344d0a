package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/starport-go/internal/adapters/catalog"
	"github.com/andrescamacho/starport-go/internal/application/simulation"
	"github.com/andrescamacho/starport-go/internal/domain/shared"
)

func TestDefault_BuiltInCatalog(t *testing.T) {
	// Act
	c, err := catalog.Default()

	// Assert
	require.NoError(t, err)
	tank, ok := c.Get("combat_tank")
	require.True(t, ok)
	assert.Equal(t, "Starport", tank.ProductionType)
	require.NotNil(t, tank.Stock)
	assert.Equal(t, 6, tank.Stock.Max)

	orni, ok := c.Get("ornithopter")
	require.True(t, ok)
	assert.True(t, orni.SelfPropelled)
}

func TestParseItems_RejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "empty", data: "items: []\n"},
		{name: "unknown key", data: "items:\n  - name: trike\n    production_type: Starport\n    cost: 1\n    build_ticks: 1\n    colour: red\n"},
		{name: "invalid item", data: "items:\n  - name: trike\n    production_type: Starport\n    cost: -5\n    build_ticks: 1\n"},
		{name: "duplicate", data: "items:\n  - {name: a, production_type: S, cost: 1, build_ticks: 1}\n  - {name: a, production_type: S, cost: 1, build_ticks: 1}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := catalog.ParseItems([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestLoadScenario(t *testing.T) {
	// Act
	sf, err := catalog.LoadScenario("testdata/destroyed_site.yaml")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "destroyed-site", sf.Scenario.Name)
	assert.Equal(t, 60, sf.Scenario.Ticks)

	require.Len(t, sf.Buildings, 1)
	b := sf.Buildings[0]
	assert.Equal(t, shared.Cell{X: 10, Y: 10}, b.Location)
	require.Len(t, b.Exits, 1)
	assert.Equal(t, shared.CVec{X: 1, Y: 2}, b.Exits[0].Offset)
	assert.Equal(t, shared.Facing(512), b.Exits[0].Facing)

	require.Len(t, sf.Scenario.Events, 4)
	first := sf.Scenario.Events[0]
	assert.Equal(t, simulation.ActionProduce, first.Action)
	assert.Equal(t, catalog.DefaultQueue, first.Queue)
	assert.True(t, first.Queued)
	assert.Equal(t, simulation.ActionDestroyBuilding, sf.Scenario.Events[3].Action)
}

func TestParseScenario_ValidatesEvents(t *testing.T) {
	_, err := catalog.ParseScenario([]byte("ticks: 10\nevents:\n  - {tick: 0, action: launch}\n"))
	assert.Error(t, err)

	_, err = catalog.ParseScenario([]byte("ticks: 10\nevents:\n  - {tick: 20, action: dispatch}\n"))
	assert.Error(t, err)

	_, err = catalog.ParseScenario([]byte("buildings:\n  - location: {x: 1, y: 1}\nevents:\n  - {tick: 1, action: destroy_building, building: 3}\n"))
	assert.Error(t, err)
}

func TestDefaultScenario_UsesBuiltInItems(t *testing.T) {
	// Arrange
	items, err := catalog.Default()
	require.NoError(t, err)

	// Act
	sf, err := catalog.LoadScenario("")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "starport-demo", sf.Scenario.Name)
	require.Len(t, sf.Buildings, 1)
	for _, e := range sf.Scenario.Events {
		if e.Item == "" {
			continue
		}
		_, ok := items.Get(e.Item)
		assert.True(t, ok, "%s is in the built-in catalog", e.Item)
	}
}
