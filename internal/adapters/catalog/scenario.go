package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/andrescamacho/starport-go/internal/application/simulation"
	"github.com/andrescamacho/starport-go/internal/domain/shared"
	"github.com/andrescamacho/starport-go/internal/domain/world"
)

//go:embed default_scenario.yaml
var defaultScenario []byte

// DefaultQueue is the production queue scenario events target unless they name one
const DefaultQueue = "Starport"

type scenarioFile struct {
	Name      string        `yaml:"name"`
	Ticks     int           `yaml:"ticks"`
	Buildings []buildingDef `yaml:"buildings"`
	Events    []eventDef    `yaml:"events"`
}

type buildingDef struct {
	Faction         string        `yaml:"faction"`
	Location        shared.Cell   `yaml:"location"`
	ProductionTypes []string      `yaml:"production_types"`
	Exits           []exitDef     `yaml:"exits"`
	RallyPoints     []shared.Cell `yaml:"rally_points"`
	Primary         bool          `yaml:"primary"`
}

type exitDef struct {
	Offset          shared.CVec `yaml:"offset"`
	Facing          int         `yaml:"facing"`
	ProductionTypes []string    `yaml:"production_types"`
}

type eventDef struct {
	Tick     uint64 `yaml:"tick"`
	Action   string `yaml:"action"`
	Queue    string `yaml:"queue"`
	Item     string `yaml:"item"`
	Quantity int    `yaml:"quantity"`
	Count    int    `yaml:"count"`
	Queued   *bool  `yaml:"queued"`
	Building int    `yaml:"building"`
	Amount   int    `yaml:"amount"`
}

// ScenarioFile is a decoded scenario: the buildings to place and the scripted run
type ScenarioFile struct {
	Scenario  simulation.Scenario
	Buildings []world.BuildingSpec
}

// DefaultScenario is the built-in demo: one starport, a mixed batch and a manual dispatch
func DefaultScenario() (*ScenarioFile, error) {
	return ParseScenario(defaultScenario)
}

// LoadScenario reads and validates a scenario file, or the built-in one when path is empty
func LoadScenario(path string) (*ScenarioFile, error) {
	if path == "" {
		return DefaultScenario()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario: %w", err)
	}
	sf, err := ParseScenario(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sf, nil
}

// ParseScenario decodes a YAML scenario. Events without an explicit queue go to defaultQueue;
// "queued" defaults to true.
func ParseScenario(data []byte) (*ScenarioFile, error) {
	var file scenarioFile
	if err := decodeStrict(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse scenario: %w", err)
	}

	out := &ScenarioFile{
		Scenario: simulation.Scenario{Name: file.Name, Ticks: file.Ticks},
	}
	for _, b := range file.Buildings {
		spec := world.BuildingSpec{
			Faction:         b.Faction,
			Location:        b.Location,
			ProductionTypes: b.ProductionTypes,
			RallyPoints:     b.RallyPoints,
			Primary:         b.Primary,
		}
		for _, e := range b.Exits {
			spec.Exits = append(spec.Exits, world.ExitSpec{
				Offset:          e.Offset,
				Facing:          shared.NewFacing(e.Facing),
				ProductionTypes: e.ProductionTypes,
			})
		}
		out.Buildings = append(out.Buildings, spec)
	}

	for _, e := range file.Events {
		queued := true
		if e.Queued != nil {
			queued = *e.Queued
		}
		queue := e.Queue
		if queue == "" {
			queue = DefaultQueue
		}
		out.Scenario.Events = append(out.Scenario.Events, simulation.Event{
			Tick:     e.Tick,
			Action:   simulation.Action(e.Action),
			Queue:    queue,
			Item:     e.Item,
			Quantity: e.Quantity,
			Count:    e.Count,
			Queued:   queued,
			Building: e.Building,
			Amount:   e.Amount,
		})
	}

	if err := out.Scenario.Validate(); err != nil {
		return nil, err
	}
	for _, e := range out.Scenario.Events {
		if e.Action == simulation.ActionDestroyBuilding && e.Building >= len(out.Buildings) && len(out.Buildings) > 0 {
			return nil, fmt.Errorf("event at tick %d destroys building %d but only %d are defined", e.Tick, e.Building, len(out.Buildings))
		}
	}
	return out, nil
}
