package simulation

import (
	"fmt"
	"sync"

	appProduction "github.com/andrescamacho/starport-go/internal/application/production"
	"github.com/andrescamacho/starport-go/internal/application/production/queries"
	"github.com/andrescamacho/starport-go/internal/domain/delivery"
	"github.com/andrescamacho/starport-go/internal/domain/ledger"
	"github.com/andrescamacho/starport-go/internal/domain/production"
	"github.com/andrescamacho/starport-go/internal/domain/shared"
	"github.com/andrescamacho/starport-go/internal/domain/world"
)

// Setup describes a session before its first tick
type Setup struct {
	PlayerID     int
	StartingCash int
	World        world.Config
	Catalog      *production.Catalog
	Queues       []production.QueueConfig
	Delivery     delivery.Config
	Buildings    []world.BuildingSpec // Owner defaults to PlayerID
}

// Session owns one running world with a single player's account, queues and deliveries.
// Every access goes through the session lock so commands only land between ticks.
type Session struct {
	mu sync.Mutex

	owner       shared.PlayerID
	world       *world.World
	account     *ledger.Account
	coordinator *delivery.Coordinator
	carrierType string
	queues      map[string]*production.OrderQueue
	queueOrder  []string
	buildingIDs []int
	logger      shared.Logger
}

// NewSession builds the world described by setup. notifier and logger may be nil.
func NewSession(setup Setup, notifier delivery.Notifier, logger shared.Logger, listeners ...delivery.Listener) (*Session, error) {
	owner, err := shared.NewPlayerID(setup.PlayerID)
	if err != nil {
		return nil, fmt.Errorf("invalid player ID: %w", err)
	}
	if setup.Catalog == nil || setup.Catalog.Len() == 0 {
		return nil, fmt.Errorf("session needs a non-empty item catalog")
	}
	if len(setup.Queues) == 0 {
		return nil, fmt.Errorf("session needs at least one production queue")
	}
	logger = shared.LoggerOrNop(logger)

	w, err := world.New(setup.World, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create world: %w", err)
	}

	account := ledger.NewAccount(owner, w.Ticks(), nil, logger)
	if setup.StartingCash > 0 {
		if err := account.Grant(setup.StartingCash, "starting cash"); err != nil {
			return nil, err
		}
	}

	coordinator := delivery.NewCoordinator(setup.Delivery, w, w, w.Effects(), w.Ticks(), notifier, logger)
	for _, l := range listeners {
		coordinator.AddListener(l)
	}
	w.SetCoordinator(coordinator)

	s := &Session{
		owner:       owner,
		world:       w,
		account:     account,
		coordinator: coordinator,
		carrierType: setup.Delivery.CarrierType,
		queues:      make(map[string]*production.OrderQueue),
		logger:      logger,
	}

	for _, spec := range setup.Buildings {
		if spec.Owner.IsZero() {
			spec.Owner = owner
		}
		b, err := w.AddBuilding(spec)
		if err != nil {
			return nil, fmt.Errorf("failed to place building at %s: %w", spec.Location, err)
		}
		s.buildingIDs = append(s.buildingIDs, b.ID())
	}

	for _, cfg := range setup.Queues {
		if _, exists := s.queues[cfg.Type]; exists {
			return nil, fmt.Errorf("duplicate production queue %q", cfg.Type)
		}
		q := production.NewOrderQueue(owner, cfg, setup.Catalog, w.Sites(), account,
			production.WithDispatcher(coordinator),
			production.WithUnitCounter(w),
			production.WithLogger(logger),
		)
		w.AddQueue(q)
		s.queues[cfg.Type] = q
		s.queueOrder = append(s.queueOrder, cfg.Type)
	}

	return s, nil
}

// Owner returns the player driving this session
func (s *Session) Owner() shared.PlayerID { return s.owner }

// WithQueue runs fn with exclusive access to the queue of the given type
func (s *Session) WithQueue(queueType string, fn func(q *production.OrderQueue) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, ok := s.queues[queueType]
	if !ok {
		return &appProduction.ErrQueueNotFound{QueueType: queueType}
	}
	return fn(q)
}

// WithWorld runs fn with exclusive access to the world
func (s *Session) WithWorld(fn func(w *world.World) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.world)
}

// Tick advances the world by one tick
func (s *Session) Tick() shared.Tick {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.world.Tick()
}

// CurrentTick returns the last completed tick
func (s *Session) CurrentTick() shared.Tick {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.world.CurrentTick()
}

// Grant adds funds to the player account
func (s *Session) Grant(amount int, description string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.account.Grant(amount, description)
}

// BuildingID maps an index into Setup.Buildings to the placed building's id
func (s *Session) BuildingID(index int) (int, error) {
	if index < 0 || index >= len(s.buildingIDs) {
		return 0, &world.ErrBuildingNotFound{ID: index}
	}
	return s.buildingIDs[index], nil
}

// DestroyBuilding destroys a building placed from Setup.Buildings
func (s *Session) DestroyBuilding(index int) error {
	id, err := s.BuildingID(index)
	if err != nil {
		return err
	}
	return s.WithWorld(func(w *world.World) error {
		return w.DestroyBuilding(id)
	})
}

// DestroyCarrier shoots down the carrier of the oldest running delivery
func (s *Session) DestroyCarrier() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.coordinator.Active() {
		if d.CarrierID() != 0 && s.world.DestroyActor(d.CarrierID()) {
			return nil
		}
	}
	return shared.NewInvalidStateError("destroy carrier", "no carrier in flight")
}

// DrainJournal returns the account transactions recorded since the last drain
func (s *Session) DrainJournal() []*ledger.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.account.Drain()
}

// RequeueJournal gives back transactions that could not be persisted
func (s *Session) RequeueJournal(txs []*ledger.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.account.Requeue(txs)
}

// DeliveryStatus is a read-only view of one delivery
type DeliveryStatus struct {
	ID           string   `json:"id"`
	Status       string   `json:"status"`
	Items        []string `json:"items"`
	Delivered    []string `json:"delivered"`
	Refunded     int      `json:"refunded"`
	BlockedTicks int      `json:"blocked_ticks"`
}

// Status is a consistent snapshot of the whole session
type Status struct {
	Tick        uint64                   `json:"tick"`
	PlayerID    int                      `json:"player_id"`
	Balance     int                      `json:"balance"`
	Charged     int                      `json:"charged"`
	Refunded    int                      `json:"refunded"`
	Outstanding int                      `json:"outstanding"`
	Queues      []queries.QueueStatusDTO `json:"queues"`
	Active      []DeliveryStatus         `json:"active_deliveries"`
	Finished    []DeliveryStatus         `json:"finished_deliveries"`
	Units       map[string]int           `json:"units"`
}

// Status takes a snapshot of the session
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Status{
		Tick:        uint64(s.world.CurrentTick()),
		PlayerID:    s.owner.Value(),
		Balance:     s.account.Balance(),
		Charged:     s.account.Charged(),
		Refunded:    s.account.Refunded(),
		Outstanding: s.account.Outstanding(),
		Units:       make(map[string]int),
	}
	for _, name := range s.queueOrder {
		st.Queues = append(st.Queues, queries.NewQueueStatusDTO(s.queues[name]))
	}
	for _, d := range s.coordinator.Active() {
		st.Active = append(st.Active, deliveryStatus(d))
	}
	for _, d := range s.coordinator.History() {
		st.Finished = append(st.Finished, deliveryStatus(d))
	}
	for _, a := range s.world.Actors() {
		if a.Kind() != s.carrierType && a.Owner().Equals(s.owner) {
			st.Units[a.Kind()]++
		}
	}
	return st
}

func deliveryStatus(d *delivery.Delivery) DeliveryStatus {
	return DeliveryStatus{
		ID:           d.ID(),
		Status:       string(d.Status()),
		Items:        d.Snapshot().ItemNames(),
		Delivered:    d.DeliveredItems(),
		Refunded:     d.Refunded(),
		BlockedTicks: d.BlockedTicks(),
	}
}
