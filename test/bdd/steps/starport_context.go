package steps

import (
	"context"
	"fmt"
	"strings"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/starport-go/internal/adapters/persistence"
	"github.com/andrescamacho/starport-go/internal/application/common"
	appDelivery "github.com/andrescamacho/starport-go/internal/application/delivery"
	"github.com/andrescamacho/starport-go/internal/application/production/queries"
	"github.com/andrescamacho/starport-go/internal/application/simulation"
	"github.com/andrescamacho/starport-go/internal/domain/world"
	"github.com/andrescamacho/starport-go/test/helpers"
)

const queueType = "Starport"

// starportContext holds one scenario's session, or a bare world for delivery-only scenarios
type starportContext struct {
	session  *simulation.Session
	mediator common.Mediator
	recorder *appDelivery.Recorder

	transactions *persistence.GormTransactionRepository
	deliveries   *persistence.GormDeliveryRecordRepository

	// set by the bare delivery harness instead of a session
	harness *deliveryHarness

	response common.Response
	err      error
}

func (ctx *starportContext) reset() {
	ctx.session = nil
	ctx.mediator = nil
	ctx.recorder = nil
	ctx.transactions = nil
	ctx.deliveries = nil
	ctx.harness = nil
	ctx.response = nil
	ctx.err = nil
}

// InitializeStarportScenario registers every starport step on one shared context
func InitializeStarportScenario(sc *godog.ScenarioContext) {
	ctx := &starportContext{}

	sc.Before(func(c context.Context, _ *godog.Scenario) (context.Context, error) {
		ctx.reset()
		return c, helpers.TruncateAllTables()
	})

	registerSessionSteps(sc, ctx)
	registerProductionSteps(sc, ctx)
	registerDeliverySteps(sc, ctx)
	registerJournalSteps(sc, ctx)
}

func registerSessionSteps(sc *godog.ScenarioContext, ctx *starportContext) {
	sc.Step(`^a starport session with queue capacity (\d+)$`, ctx.aStarportSessionWithQueueCapacity)
	sc.Step(`^a starport session with queue capacity (\d+) and manual dispatch$`, ctx.aStarportSessionWithManualDispatch)
	sc.Step(`^the world advances (\d+) ticks$`, ctx.theWorldAdvancesTicks)
	sc.Step(`^the command should succeed$`, ctx.theCommandShouldSucceed)
	sc.Step(`^the command should fail with "([^"]*)"$`, ctx.theCommandShouldFailWith)
}

func (ctx *starportContext) aStarportSessionWithQueueCapacity(capacity int) error {
	return ctx.newSession(capacity, false)
}

func (ctx *starportContext) aStarportSessionWithManualDispatch(capacity int) error {
	return ctx.newSession(capacity, true)
}

func (ctx *starportContext) newSession(capacity int, manual bool) error {
	setup, err := helpers.NewStarportSetup(capacity)
	if err != nil {
		return err
	}
	setup.Queues[0].ManualDispatch = manual

	ctx.recorder = appDelivery.NewRecorder()
	session, err := simulation.NewSession(setup, nil, nil, ctx.recorder)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	ctx.session = session

	ctx.transactions = persistence.NewGormTransactionRepository(helpers.SharedTestDB)
	ctx.deliveries = persistence.NewGormDeliveryRecordRepository(helpers.SharedTestDB, nil)

	ctx.mediator = common.NewMediator()
	if err := simulation.RegisterProductionHandlers(ctx.mediator, session); err != nil {
		return err
	}
	return simulation.RegisterJournalHandlers(ctx.mediator, session, ctx.transactions, ctx.recorder, ctx.deliveries)
}

func (ctx *starportContext) theWorldAdvancesTicks(n int) error {
	for i := 0; i < n; i++ {
		switch {
		case ctx.harness != nil:
			ctx.harness.tick()
		case ctx.session != nil:
			ctx.session.Tick()
		default:
			return fmt.Errorf("no world to advance")
		}
	}
	return nil
}

func (ctx *starportContext) send(request common.Request) {
	ctx.response, ctx.err = ctx.mediator.Send(context.Background(), request)
}

func (ctx *starportContext) theCommandShouldSucceed() error {
	if ctx.err != nil {
		return fmt.Errorf("expected success, got: %w", ctx.err)
	}
	return nil
}

func (ctx *starportContext) theCommandShouldFailWith(fragment string) error {
	if ctx.err == nil {
		return fmt.Errorf("expected an error containing %q, got success", fragment)
	}
	if !strings.Contains(ctx.err.Error(), fragment) {
		return fmt.Errorf("expected an error containing %q, got: %v", fragment, ctx.err)
	}
	return nil
}

// queue returns the status of the starport queue
func (ctx *starportContext) queue() (queries.QueueStatusDTO, error) {
	if ctx.session == nil {
		return queries.QueueStatusDTO{}, fmt.Errorf("no session")
	}
	for _, q := range ctx.session.Status().Queues {
		if q.Type == queueType {
			return q, nil
		}
	}
	return queries.QueueStatusDTO{}, fmt.Errorf("queue %s not found", queueType)
}

// unitKinds lists the non-carrier actors of the world in spawn order
func (ctx *starportContext) unitKinds() []string {
	var kinds []string
	collect := func(w *world.World) error {
		for _, a := range w.Actors() {
			if a.Kind() != "frigate" {
				kinds = append(kinds, a.Kind())
			}
		}
		return nil
	}
	if ctx.harness != nil {
		_ = collect(ctx.harness.world)
		return kinds
	}
	_ = ctx.session.WithWorld(collect)
	return kinds
}
