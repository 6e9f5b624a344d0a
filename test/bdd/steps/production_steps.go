package steps

import (
	"fmt"
	"strconv"

	"github.com/cucumber/godog"
	messages "github.com/cucumber/messages/go/v21"

	"github.com/andrescamacho/starport-go/internal/application/production/commands"
)

// batchWaitLimit bounds how long a step waits for the batch to fill
const batchWaitLimit = 50

func registerProductionSteps(sc *godog.ScenarioContext, ctx *starportContext) {
	sc.Step(`^the player orders (\d+) "([^"]*)"$`, ctx.thePlayerOrders)
	sc.Step(`^the player tries to order (\d+) "([^"]*)"$`, ctx.thePlayerTriesToOrder)
	sc.Step(`^the player orders "([^"]*)", "([^"]*)" and "([^"]*)"$`, ctx.thePlayerOrdersThree)
	sc.Step(`^the player places these orders:$`, ctx.thePlayerPlacesTheseOrders)
	sc.Step(`^the player returns (\d+) "([^"]*)"$`, ctx.thePlayerReturns)
	sc.Step(`^the player starts the delivery$`, ctx.thePlayerStartsTheDelivery)
	sc.Step(`^the world advances until the batch holds (\d+) items?$`, ctx.theWorldAdvancesUntilTheBatchHolds)
	sc.Step(`^the batch should hold (\d+) items?$`, ctx.theBatchShouldHold)
	sc.Step(`^the queue state should be "([^"]*)"$`, ctx.theQueueStateShouldBe)
	sc.Step(`^the queue should offer buildable items$`, ctx.theQueueShouldOfferBuildableItems)
	sc.Step(`^the queue should offer no buildable items$`, ctx.theQueueShouldOfferNoBuildableItems)
	sc.Step(`^the player should have been refunded (\d+) credits$`, ctx.thePlayerShouldHaveBeenRefunded)
}

func (ctx *starportContext) thePlayerOrders(quantity int, item string) error {
	ctx.send(&commands.StartProductionCommand{
		QueueType: queueType,
		Item:      item,
		Quantity:  quantity,
		Queued:    true,
	})
	return ctx.err
}

func (ctx *starportContext) thePlayerTriesToOrder(quantity int, item string) error {
	_ = ctx.thePlayerOrders(quantity, item)
	return nil
}

func (ctx *starportContext) thePlayerOrdersThree(first, second, third string) error {
	for _, item := range []string{first, second, third} {
		if err := ctx.thePlayerOrders(1, item); err != nil {
			return fmt.Errorf("failed to order %s: %w", item, err)
		}
	}
	return nil
}

func (ctx *starportContext) thePlayerPlacesTheseOrders(table *godog.Table) error {
	for _, row := range table.Rows[1:] {
		item := cellValue(table, row, "item")
		quantity, err := strconv.Atoi(cellValue(table, row, "quantity"))
		if err != nil {
			return fmt.Errorf("bad quantity for %s: %w", item, err)
		}
		if err := ctx.thePlayerOrders(quantity, item); err != nil {
			return fmt.Errorf("failed to order %s: %w", item, err)
		}
	}
	return nil
}

// cellValue reads a cell by the column name in the header row
func cellValue(table *godog.Table, row *messages.PickleTableRow, column string) string {
	if len(table.Rows) == 0 {
		return ""
	}
	for i, header := range table.Rows[0].Cells {
		if header.Value == column && i < len(row.Cells) {
			return row.Cells[i].Value
		}
	}
	return ""
}

func (ctx *starportContext) thePlayerReturns(count int, item string) error {
	ctx.send(&commands.ReturnOrderCommand{QueueType: queueType, Item: item, Count: count})
	if ctx.err != nil {
		return nil
	}
	resp, ok := ctx.response.(*commands.ReturnOrderResponse)
	if !ok {
		return fmt.Errorf("unexpected response type %T", ctx.response)
	}
	if resp.Returned != count {
		return fmt.Errorf("expected %d returned, got %d", count, resp.Returned)
	}
	return nil
}

func (ctx *starportContext) thePlayerStartsTheDelivery() error {
	ctx.send(&commands.StartDeliveryCommand{QueueType: queueType})
	return nil
}

func (ctx *starportContext) theWorldAdvancesUntilTheBatchHolds(n int) error {
	for i := 0; i < batchWaitLimit; i++ {
		q, err := ctx.queue()
		if err != nil {
			return err
		}
		if len(q.Batch) >= n {
			return nil
		}
		ctx.session.Tick()
	}
	return fmt.Errorf("batch did not reach %d items within %d ticks", n, batchWaitLimit)
}

func (ctx *starportContext) theBatchShouldHold(n int) error {
	q, err := ctx.queue()
	if err != nil {
		return err
	}
	if len(q.Batch) != n {
		return fmt.Errorf("expected batch of %d, got %v", n, q.Batch)
	}
	return nil
}

func (ctx *starportContext) theQueueStateShouldBe(state string) error {
	q, err := ctx.queue()
	if err != nil {
		return err
	}
	if q.State != state {
		return fmt.Errorf("expected queue state %s, got %s", state, q.State)
	}
	return nil
}

func (ctx *starportContext) theQueueShouldOfferBuildableItems() error {
	q, err := ctx.queue()
	if err != nil {
		return err
	}
	if len(q.BuildableItems) == 0 {
		return fmt.Errorf("expected buildable items in state %s", q.State)
	}
	return nil
}

func (ctx *starportContext) theQueueShouldOfferNoBuildableItems() error {
	q, err := ctx.queue()
	if err != nil {
		return err
	}
	if len(q.BuildableItems) != 0 {
		return fmt.Errorf("expected no buildable items, got %v", q.BuildableItems)
	}
	return nil
}

func (ctx *starportContext) thePlayerShouldHaveBeenRefunded(amount int) error {
	var refunded int
	if ctx.harness != nil {
		refunded = ctx.harness.account.Refunded()
	} else {
		refunded = ctx.session.Status().Refunded
	}
	if refunded != amount {
		return fmt.Errorf("expected %d credits refunded, got %d", amount, refunded)
	}
	return nil
}
