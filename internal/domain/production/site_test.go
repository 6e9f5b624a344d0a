package production_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/starport-go/internal/domain/production"
	"github.com/andrescamacho/starport-go/internal/domain/shared"
)

func siteIDs(sites []production.Site) []int {
	out := make([]int, len(sites))
	for i, s := range sites {
		out[i] = s.ID()
	}
	return out
}

func TestSiteRegistry_EligibleOrdering(t *testing.T) {
	// Arrange
	registry := production.NewSiteRegistry()
	low := newFakeSite(3, owner)
	high := newFakeSite(9, owner)
	primary := newFakeSite(5, owner)
	primary.primary = true
	paused := newFakeSite(4, owner)
	paused.paused = true
	disabled := newFakeSite(12, owner)
	disabled.disabled = true
	barracks := newFakeSite(15, owner)
	barracks.types = []string{"Barracks"}
	foreign := newFakeSite(20, shared.MustNewPlayerID(2))

	for _, s := range []*fakeSite{low, high, primary, paused, disabled, barracks, foreign} {
		registry.Add(s)
	}

	// Act
	eligible := registry.Eligible(owner, "Starport")

	// Assert
	assert.Equal(t, []int{5, 9, 4, 3}, siteIDs(eligible))
}

func TestSiteRegistry_FirstActiveSkipsPaused(t *testing.T) {
	registry := production.NewSiteRegistry()
	primary := newFakeSite(5, owner)
	primary.primary = true
	primary.paused = true
	registry.Add(primary)
	registry.Add(newFakeSite(2, owner))

	site, ok := registry.FirstActive(owner, "Starport")

	require.True(t, ok)
	assert.Equal(t, 2, site.ID())
}

func TestSiteRegistry_RemoveDropsSite(t *testing.T) {
	registry := production.NewSiteRegistry()
	site := newFakeSite(5, owner)
	registry.Add(site)

	registry.Remove(site)

	assert.Zero(t, registry.Len(owner))
	_, ok := registry.FirstActive(owner, "Starport")
	assert.False(t, ok)
}

func TestExit_Serves(t *testing.T) {
	unrestricted := production.Exit{}
	vehicles := production.Exit{ProductionTypes: []string{"Starport"}}

	assert.True(t, unrestricted.Serves("Barracks"))
	assert.True(t, vehicles.Serves("Starport"))
	assert.False(t, vehicles.Serves("Barracks"))
}

func TestCatalog_Validation(t *testing.T) {
	tests := []struct {
		name string
		item production.Item
	}{
		{name: "missing name", item: production.Item{ProductionType: "Starport", BuildTicks: 1}},
		{name: "missing type", item: production.Item{Name: "trike", BuildTicks: 1}},
		{name: "negative cost", item: production.Item{Name: "trike", ProductionType: "Starport", Cost: -1, BuildTicks: 1}},
		{name: "zero build ticks", item: production.Item{Name: "trike", ProductionType: "Starport"}},
		{name: "bad stock chance", item: production.Item{Name: "mcv", ProductionType: "Starport", BuildTicks: 1,
			Stock: &production.StockSettings{Max: 1, ReplenishTicks: 1, Chance: 0}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := production.NewCatalog([]production.Item{tt.item})
			assert.Error(t, err)
		})
	}

	_, err := production.NewCatalog([]production.Item{
		{Name: "trike", ProductionType: "Starport", BuildTicks: 1},
		{Name: "trike", ProductionType: "Starport", BuildTicks: 1},
	})
	assert.Error(t, err, "duplicate names")
}

func TestCatalog_ForType(t *testing.T) {
	catalog := testCatalog()

	names := []string{}
	for _, item := range catalog.ForType("Starport") {
		names = append(names, item.Name)
	}

	assert.Equal(t, []string{"harvester", "mcv", "ornithopter", "quad", "trike"}, names)
	assert.Len(t, catalog.All(), 6)
}

func TestBatchSnapshot_IsACopy(t *testing.T) {
	entries := []production.BatchEntry{{ID: "a", Cost: 100}, {ID: "b", Cost: 50}}

	snapshot := production.NewBatchSnapshot(entries)
	entries[0].Cost = 999

	assert.Equal(t, 150, snapshot.TotalCost())
	assert.Equal(t, 100, snapshot.Entries()[0].Cost)
}
