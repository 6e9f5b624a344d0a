package steps

import (
	"fmt"
	"strings"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/starport-go/internal/domain/delivery"
	"github.com/andrescamacho/starport-go/internal/domain/ledger"
	"github.com/andrescamacho/starport-go/internal/domain/production"
	"github.com/andrescamacho/starport-go/internal/domain/shared"
	"github.com/andrescamacho/starport-go/internal/domain/world"
	"github.com/andrescamacho/starport-go/test/helpers"
)

// blockingSite reports every exit as blocked for its first blockFor exit selections
type blockingSite struct {
	production.Site
	blockFor int
	calls    int
}

func (s *blockingSite) SelectExit(item, productionType string) (production.Exit, bool) {
	s.calls++
	if s.calls <= s.blockFor {
		return production.Exit{}, false
	}
	return s.Site.SelectExit(item, productionType)
}

type finishCounter struct{ finished int }

func (f *finishCounter) DeliverFinished() { f.finished++ }

// deliveryHarness drives a coordinator over a bare world, without queues
type deliveryHarness struct {
	world       *world.World
	site        *blockingSite
	account     *ledger.Account
	coordinator *delivery.Coordinator
	queue       *finishCounter

	blockedTicks []shared.Tick
	spawnTick    shared.Tick
	spawnAttempt int
	unloaded     int
	completed    int
	failed       int
}

func (h *deliveryHarness) tick() { h.world.Tick() }

func (h *deliveryHarness) OnDeliveryStarted(*delivery.Delivery) {}

func (h *deliveryHarness) OnUnitUnloaded(*delivery.Delivery, production.BatchEntry) {
	h.unloaded++
	h.spawnTick = h.world.CurrentTick()
	h.spawnAttempt = h.site.calls
}

func (h *deliveryHarness) OnExitBlocked(*delivery.Delivery, shared.Cell) {
	h.blockedTicks = append(h.blockedTicks, h.world.CurrentTick())
}

func (h *deliveryHarness) OnDeliveryCompleted(*delivery.Delivery)    { h.completed++ }
func (h *deliveryHarness) OnDeliveryFailed(*delivery.Delivery, error) { h.failed++ }

func registerDeliverySteps(sc *godog.ScenarioContext, ctx *starportContext) {
	sc.Step(`^a starport whose exit is blocked for (\d+) attempts$`, ctx.aStarportWhoseExitIsBlocked)
	sc.Step(`^a skylift delivers a single "([^"]*)"$`, ctx.aSkyliftDeliversASingle)
	sc.Step(`^the world advances until the batch is dispatched$`, ctx.theWorldAdvancesUntilDispatched)
	sc.Step(`^the world advances until no delivery is active$`, ctx.theWorldAdvancesUntilNoDeliveryIsActive)
	sc.Step(`^the starport is destroyed$`, ctx.theStarportIsDestroyed)
	sc.Step(`^the units in the world should be "([^"]*)"$`, ctx.theUnitsInTheWorldShouldBe)
	sc.Step(`^there should be no units in the world$`, ctx.thereShouldBeNoUnitsInTheWorld)
	sc.Step(`^the last delivery should be "([^"]*)"$`, ctx.theLastDeliveryShouldBe)
	sc.Step(`^the unit should have spawned exactly once$`, ctx.theUnitShouldHaveSpawnedExactlyOnce)
	sc.Step(`^the unit should have spawned on exit attempt (\d+)$`, ctx.theUnitShouldHaveSpawnedOnAttempt)
	sc.Step(`^the exit should have been reported blocked (\d+) times$`, ctx.theExitShouldHaveBeenReportedBlocked)
	sc.Step(`^the unit should have spawned (\d+) ticks after the first blocked attempt$`, ctx.theUnitShouldHaveSpawnedTicksAfterBlock)
	sc.Step(`^the delivery should have completed$`, ctx.theDeliveryShouldHaveCompleted)
	sc.Step(`^the journal should hold (\d+) "([^"]*)" transactions$`, ctx.theJournalShouldHoldTransactions)
}

func (ctx *starportContext) aStarportWhoseExitIsBlocked(attempts int) error {
	owner := shared.MustNewPlayerID(1)
	w, err := world.New(world.Config{Width: 32, Height: 32, MoveTicksPerCell: 1}, nil)
	if err != nil {
		return err
	}
	building, err := w.AddBuilding(world.BuildingSpec{
		Owner:           owner,
		Location:        shared.Cell{X: 10, Y: 10},
		ProductionTypes: []string{queueType},
		Exits:           []world.ExitSpec{{Offset: shared.CVec{X: 1, Y: 2}}},
	})
	if err != nil {
		return err
	}

	h := &deliveryHarness{
		world:   w,
		site:    &blockingSite{Site: building, blockFor: attempts},
		account: ledger.NewAccount(owner, w.Ticks(), nil, nil),
		queue:   &finishCounter{},
	}
	h.coordinator = delivery.NewCoordinator(delivery.DefaultConfig(), w, w, w.Effects(), w.Ticks(), nil, nil)
	h.coordinator.AddListener(h)
	w.SetCoordinator(h.coordinator)
	ctx.harness = h
	return nil
}

func (ctx *starportContext) aSkyliftDeliversASingle(item string) error {
	h := ctx.harness
	if h == nil {
		return fmt.Errorf("no starport harness")
	}
	var found *production.Item
	for _, it := range helpers.StarportItems() {
		if it.Name == item {
			it := it
			found = &it
		}
	}
	if found == nil {
		return fmt.Errorf("unknown item %q", item)
	}
	owner := h.site.Owner()
	entry := production.BatchEntry{
		ID:   "entry-1",
		Item: *found,
		Init: production.InitParams{Owner: owner},
		Cost: found.Cost,
	}
	return h.coordinator.Deliver(production.DeliveryRequest{
		Owner:          owner,
		Site:           h.site,
		Snapshot:       production.NewBatchSnapshot([]production.BatchEntry{entry}),
		ProductionType: queueType,
		Queue:          h.queue,
		Economy:        h.account,
	})
}

func (ctx *starportContext) theWorldAdvancesUntilDispatched() error {
	for i := 0; i < batchWaitLimit; i++ {
		q, err := ctx.queue()
		if err != nil {
			return err
		}
		if q.State == string(production.DeliveryStateInTransit) {
			return nil
		}
		ctx.session.Tick()
	}
	return fmt.Errorf("batch was not dispatched within %d ticks", batchWaitLimit)
}

// deliveryWaitLimit covers a carrier crossing the whole map twice plus unloading
const deliveryWaitLimit = 300

func (ctx *starportContext) theWorldAdvancesUntilNoDeliveryIsActive() error {
	for i := 0; i < deliveryWaitLimit; i++ {
		if ctx.harness != nil {
			if len(ctx.harness.coordinator.Active()) == 0 && len(ctx.harness.coordinator.History()) > 0 {
				return nil
			}
			ctx.harness.tick()
			continue
		}
		st := ctx.session.Status()
		if len(st.Active) == 0 && len(st.Finished) > 0 {
			return nil
		}
		ctx.session.Tick()
	}
	return fmt.Errorf("delivery still active after %d ticks", deliveryWaitLimit)
}

func (ctx *starportContext) theStarportIsDestroyed() error {
	return ctx.session.DestroyBuilding(0)
}

func (ctx *starportContext) theUnitsInTheWorldShouldBe(list string) error {
	var want []string
	for _, k := range strings.Split(list, ",") {
		want = append(want, strings.TrimSpace(k))
	}
	got := ctx.unitKinds()
	if strings.Join(got, ",") != strings.Join(want, ",") {
		return fmt.Errorf("expected units %v, got %v", want, got)
	}
	return nil
}

func (ctx *starportContext) thereShouldBeNoUnitsInTheWorld() error {
	if got := ctx.unitKinds(); len(got) != 0 {
		return fmt.Errorf("expected no units, got %v", got)
	}
	return nil
}

func (ctx *starportContext) theLastDeliveryShouldBe(status string) error {
	finished := ctx.session.Status().Finished
	if len(finished) == 0 {
		return fmt.Errorf("no finished deliveries")
	}
	if last := finished[len(finished)-1]; last.Status != status {
		return fmt.Errorf("expected last delivery %s, got %s", status, last.Status)
	}
	return nil
}

func (ctx *starportContext) theUnitShouldHaveSpawnedExactlyOnce() error {
	if ctx.harness.unloaded != 1 {
		return fmt.Errorf("expected one spawn, got %d", ctx.harness.unloaded)
	}
	if n := ctx.harness.world.CountUnits(ctx.harness.site.Owner(), "trike"); n != 1 {
		return fmt.Errorf("expected one trike in the world, got %d", n)
	}
	return nil
}

func (ctx *starportContext) theUnitShouldHaveSpawnedOnAttempt(attempt int) error {
	if ctx.harness.spawnAttempt != attempt {
		return fmt.Errorf("expected spawn on attempt %d, got %d", attempt, ctx.harness.spawnAttempt)
	}
	return nil
}

func (ctx *starportContext) theExitShouldHaveBeenReportedBlocked(n int) error {
	if got := len(ctx.harness.blockedTicks); got != n {
		return fmt.Errorf("expected %d blocked reports, got %d", n, got)
	}
	return nil
}

func (ctx *starportContext) theUnitShouldHaveSpawnedTicksAfterBlock(n int) error {
	h := ctx.harness
	if len(h.blockedTicks) == 0 {
		return fmt.Errorf("exit was never blocked")
	}
	if gap := int(h.spawnTick - h.blockedTicks[0]); gap != n {
		return fmt.Errorf("expected spawn %d ticks after the first block, got %d", n, gap)
	}
	return nil
}

func (ctx *starportContext) theDeliveryShouldHaveCompleted() error {
	h := ctx.harness
	if h.completed != 1 || h.failed != 0 {
		return fmt.Errorf("expected one completed delivery, got %d completed and %d failed", h.completed, h.failed)
	}
	if h.queue.finished != 1 {
		return fmt.Errorf("expected the queue to be released once, got %d", h.queue.finished)
	}
	return nil
}

func (ctx *starportContext) theJournalShouldHoldTransactions(n int, txType string) error {
	count := 0
	for _, tx := range ctx.session.DrainJournal() {
		if string(tx.TransactionType()) == txType {
			count++
		}
	}
	if count != n {
		return fmt.Errorf("expected %d %s transactions, got %d", n, txType, count)
	}
	return nil
}
