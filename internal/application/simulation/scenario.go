package simulation

import (
	"fmt"
	"sort"
)

// Action is something a scenario does at a given tick
type Action string

const (
	ActionProduce         Action = "produce"
	ActionPause           Action = "pause"
	ActionResume          Action = "resume"
	ActionCancel          Action = "cancel"
	ActionReturn          Action = "return"
	ActionDispatch        Action = "dispatch"
	ActionPurchase        Action = "purchase"
	ActionGrant           Action = "grant"
	ActionDestroyBuilding Action = "destroy_building"
	ActionDestroyCarrier  Action = "destroy_carrier"
)

// Event is one scripted action. Which fields matter depends on Action.
type Event struct {
	Tick     uint64
	Action   Action
	Queue    string
	Item     string
	Quantity int
	Count    int
	Queued   bool
	Building int // index into Setup.Buildings
	Amount   int
}

func (e Event) String() string {
	if e.Item != "" {
		return fmt.Sprintf("tick %d %s %s", e.Tick, e.Action, e.Item)
	}
	return fmt.Sprintf("tick %d %s", e.Tick, e.Action)
}

// Scenario is a scripted run. Ticks <= 0 runs until the context is cancelled.
type Scenario struct {
	Name   string
	Ticks  int
	Events []Event
}

// Validate checks every event for the fields its action needs
func (s Scenario) Validate() error {
	for i, e := range s.Events {
		switch e.Action {
		case ActionProduce:
			if e.Item == "" || e.Quantity <= 0 {
				return fmt.Errorf("event %d: produce needs an item and a positive quantity", i)
			}
		case ActionPause, ActionResume:
			if e.Item == "" {
				return fmt.Errorf("event %d: %s needs an item", i, e.Action)
			}
		case ActionCancel, ActionReturn:
			if e.Item == "" || e.Count <= 0 {
				return fmt.Errorf("event %d: %s needs an item and a positive count", i, e.Action)
			}
		case ActionGrant:
			if e.Amount <= 0 {
				return fmt.Errorf("event %d: grant needs a positive amount", i)
			}
		case ActionDestroyBuilding:
			if e.Building < 0 {
				return fmt.Errorf("event %d: building index must not be negative", i)
			}
		case ActionDispatch, ActionPurchase, ActionDestroyCarrier:
		default:
			return fmt.Errorf("event %d: unknown action %q", i, e.Action)
		}
		if s.Ticks > 0 && e.Tick >= uint64(s.Ticks) {
			return fmt.Errorf("event %d: tick %d is past the end of the scenario (%d ticks)", i, e.Tick, s.Ticks)
		}
	}
	return nil
}

// timeline returns the events grouped by tick, in script order within a tick
func (s Scenario) timeline() map[uint64][]Event {
	events := append([]Event(nil), s.Events...)
	sort.SliceStable(events, func(i, j int) bool { return events[i].Tick < events[j].Tick })
	byTick := make(map[uint64][]Event)
	for _, e := range events {
		byTick[e.Tick] = append(byTick[e.Tick], e)
	}
	return byTick
}
