package simulation

import (
	"context"
	"fmt"
	"time"

	"github.com/andrescamacho/starport-go/internal/application/common"
	"github.com/andrescamacho/starport-go/internal/application/production/commands"
)

// Report summarises a scenario run
type Report struct {
	Scenario string
	Ticks    int
	Applied  int
	Rejected []string
	Final    Status
}

// Runner drives a session through a scenario, one tick at a time.
// Queue actions go through the mediator like any other client command.
type Runner struct {
	session  *Session
	mediator common.Mediator
	interval time.Duration
}

// NewRunner creates a runner. interval 0 runs ticks back to back.
func NewRunner(session *Session, mediator common.Mediator, interval time.Duration) *Runner {
	return &Runner{session: session, mediator: mediator, interval: interval}
}

// Run plays the scenario. Rejected actions are reported, not fatal.
// It stops early, without error, when ctx is cancelled.
func (r *Runner) Run(ctx context.Context, sc Scenario) (*Report, error) {
	if err := sc.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scenario %q: %w", sc.Name, err)
	}
	logger := common.LoggerFromContext(ctx)
	byTick := sc.timeline()
	report := &Report{Scenario: sc.Name}

	var ticker *time.Ticker
	if r.interval > 0 {
		ticker = time.NewTicker(r.interval)
		defer ticker.Stop()
	}

	logger.Log("INFO", "Scenario started", map[string]interface{}{
		"scenario": sc.Name,
		"ticks":    sc.Ticks,
		"events":   len(sc.Events),
	})

	for sc.Ticks <= 0 || report.Ticks < sc.Ticks {
		if ctx.Err() != nil {
			break
		}

		now := uint64(r.session.CurrentTick())
		for _, e := range byTick[now] {
			if err := r.apply(ctx, e); err != nil {
				report.Rejected = append(report.Rejected, fmt.Sprintf("%s: %v", e, err))
				logger.Log("WARNING", "Scenario action rejected", map[string]interface{}{
					"tick":   e.Tick,
					"action": string(e.Action),
					"item":   e.Item,
					"error":  err.Error(),
				})
				continue
			}
			report.Applied++
		}

		r.session.Tick()
		report.Ticks++

		if ticker != nil {
			select {
			case <-ctx.Done():
			case <-ticker.C:
			}
		}
	}

	report.Final = r.session.Status()
	logger.Log("INFO", "Scenario finished", map[string]interface{}{
		"scenario": sc.Name,
		"ticks":    report.Ticks,
		"applied":  report.Applied,
		"rejected": len(report.Rejected),
		"balance":  report.Final.Balance,
	})
	return report, nil
}

func (r *Runner) apply(ctx context.Context, e Event) error {
	var req common.Request
	switch e.Action {
	case ActionProduce:
		req = &commands.StartProductionCommand{QueueType: e.Queue, Item: e.Item, Quantity: e.Quantity, Queued: e.Queued}
	case ActionPause:
		req = &commands.PauseProductionCommand{QueueType: e.Queue, Item: e.Item, Paused: true}
	case ActionResume:
		req = &commands.PauseProductionCommand{QueueType: e.Queue, Item: e.Item, Paused: false}
	case ActionCancel:
		req = &commands.CancelProductionCommand{QueueType: e.Queue, Item: e.Item, Count: e.Count}
	case ActionReturn:
		req = &commands.ReturnOrderCommand{QueueType: e.Queue, Item: e.Item, Count: e.Count}
	case ActionDispatch:
		req = &commands.StartDeliveryCommand{QueueType: e.Queue}
	case ActionPurchase:
		req = &commands.PurchaseOrderCommand{QueueType: e.Queue}
	case ActionGrant:
		return r.session.Grant(e.Amount, "scenario grant")
	case ActionDestroyBuilding:
		return r.session.DestroyBuilding(e.Building)
	case ActionDestroyCarrier:
		return r.session.DestroyCarrier()
	default:
		return fmt.Errorf("unknown action %q", e.Action)
	}
	_, err := r.mediator.Send(ctx, req)
	return err
}
