package production_test

import (
	"errors"

	"github.com/andrescamacho/starport-go/internal/domain/production"
	"github.com/andrescamacho/starport-go/internal/domain/shared"
)

type fakeSite struct {
	id       int
	owner    shared.PlayerID
	faction  string
	types    []string
	primary  bool
	disabled bool
	paused   bool
	dead     bool
}

func newFakeSite(id int, owner shared.PlayerID) *fakeSite {
	return &fakeSite{id: id, owner: owner, faction: "atreides", types: []string{"Starport"}}
}

func (s *fakeSite) ID() int                                  { return s.id }
func (s *fakeSite) Owner() shared.PlayerID                   { return s.owner }
func (s *fakeSite) Faction() string                          { return s.faction }
func (s *fakeSite) Location() shared.Cell                    { return shared.Cell{X: 10, Y: 10} }
func (s *fakeSite) IsPrimary() bool                          { return s.primary }
func (s *fakeSite) IsDisabled() bool                         { return s.disabled }
func (s *fakeSite) IsPaused() bool                           { return s.paused }
func (s *fakeSite) IsAlive() bool                            { return !s.dead }
func (s *fakeSite) NotifyBlocked(shared.Cell)                {}
func (s *fakeSite) RallyPoints() []shared.Cell               { return nil }
func (s *fakeSite) Observers() []production.DeliveryObserver { return nil }

func (s *fakeSite) Produces(productionType string) bool {
	for _, t := range s.types {
		if t == productionType {
			return true
		}
	}
	return false
}

func (s *fakeSite) ListExits(string) []production.Exit {
	return []production.Exit{{Cell: shared.Cell{X: 11, Y: 12}}}
}

func (s *fakeSite) SelectExit(string, string) (production.Exit, bool) {
	return production.Exit{Cell: shared.Cell{X: 11, Y: 12}}, true
}

type fakeEconomy struct {
	funds    int
	charged  int
	refunded int
	refunds  []int
}

func (e *fakeEconomy) Charge(amount int, _ *shared.OperationContext) bool {
	if amount > e.funds {
		return false
	}
	e.funds -= amount
	e.charged += amount
	return true
}

func (e *fakeEconomy) Refund(amount int, _ *shared.OperationContext) {
	if amount <= 0 {
		return
	}
	e.funds += amount
	e.refunded += amount
	e.refunds = append(e.refunds, amount)
}

func (e *fakeEconomy) AvailableFunds() int { return e.funds }

func (e *fakeEconomy) outstanding() int { return e.charged - e.refunded }

type fakeDispatcher struct {
	requests []production.DeliveryRequest
	err      error
}

func (d *fakeDispatcher) Deliver(req production.DeliveryRequest) error {
	if d.err != nil {
		return d.err
	}
	d.requests = append(d.requests, req)
	return nil
}

func (d *fakeDispatcher) last() production.DeliveryRequest {
	return d.requests[len(d.requests)-1]
}

var errDispatchRefused = errors.New("carrier unavailable")

type fakeUnitCounter map[string]int

func (c fakeUnitCounter) CountUnits(_ shared.PlayerID, item string) int { return c[item] }

var owner = shared.MustNewPlayerID(1)

func testCatalog() *production.Catalog {
	catalog, err := production.NewCatalog([]production.Item{
		{Name: "trike", ProductionType: "Starport", Cost: 100, BuildTicks: 1},
		{Name: "quad", ProductionType: "Starport", Cost: 150, BuildTicks: 3},
		{Name: "ornithopter", ProductionType: "Starport", Cost: 200, BuildTicks: 2, SelfPropelled: true},
		{Name: "harvester", ProductionType: "Starport", Cost: 300, BuildTicks: 1, BuildLimit: 2},
		{Name: "mcv", ProductionType: "Starport", Cost: 500, BuildTicks: 1,
			Stock: &production.StockSettings{Initial: 1, Max: 2, ReplenishTicks: 3, Chance: 100}},
		{Name: "light_infantry", ProductionType: "Barracks", Cost: 50, BuildTicks: 1},
	})
	if err != nil {
		panic(err)
	}
	return catalog
}

type queueFixture struct {
	queue      *production.OrderQueue
	sites      *production.SiteRegistry
	site       *fakeSite
	economy    *fakeEconomy
	dispatcher *fakeDispatcher
}

func newQueueFixture(cfg production.QueueConfig, funds int, opts ...production.QueueOption) *queueFixture {
	if cfg.Type == "" {
		cfg.Type = "Starport"
	}
	sites := production.NewSiteRegistry()
	site := newFakeSite(7, owner)
	sites.Add(site)
	economy := &fakeEconomy{funds: funds}
	dispatcher := &fakeDispatcher{}
	opts = append([]production.QueueOption{production.WithDispatcher(dispatcher)}, opts...)
	return &queueFixture{
		queue:      production.NewOrderQueue(owner, cfg, testCatalog(), sites, economy, opts...),
		sites:      sites,
		site:       site,
		economy:    economy,
		dispatcher: dispatcher,
	}
}

func (f *queueFixture) tick(n int) {
	for i := 0; i < n; i++ {
		f.queue.Tick()
	}
}

// heldCost is money the queue side still accounts for: paid orders, the batch and the in-flight snapshot
func (f *queueFixture) heldCost() int {
	held := f.queue.Timeline().PaidTotal() + f.queue.BatchCost()
	if snap, ok := f.queue.InFlight(); ok {
		held += snap.TotalCost()
	}
	return held
}
