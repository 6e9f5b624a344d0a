package steps

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"

	deliveryCommands "github.com/andrescamacho/starport-go/internal/application/delivery/commands"
	deliveryQueries "github.com/andrescamacho/starport-go/internal/application/delivery/queries"
	ledgerCommands "github.com/andrescamacho/starport-go/internal/application/ledger/commands"
	ledgerQueries "github.com/andrescamacho/starport-go/internal/application/ledger/queries"
)

func registerJournalSteps(sc *godog.ScenarioContext, ctx *starportContext) {
	sc.Step(`^the journals are flushed$`, ctx.theJournalsAreFlushed)
	sc.Step(`^the flush should record (\d+) transactions and (\d+) deliveries$`, ctx.theFlushShouldRecord)
	sc.Step(`^the flush should record some transactions and (\d+) deliveries?$`, ctx.theFlushShouldRecordSomeTransactions)
	sc.Step(`^the ledger summary should show (\d+) granted and (\d+) spent$`, ctx.theLedgerSummaryShouldShow)
	sc.Step(`^(\d+) delivery records? should be stored$`, ctx.deliveryRecordsShouldBeStored)
	sc.Step(`^the latest stored delivery should be "([^"]*)" with (\d+) items delivered$`, ctx.theLatestStoredDeliveryShouldBe)
}

type flushResult struct {
	transactions int
	deliveries   int
}

func (ctx *starportContext) lastFlush() (flushResult, error) {
	res, ok := ctx.response.(flushResult)
	if !ok {
		return flushResult{}, fmt.Errorf("no flush has run")
	}
	return res, nil
}

func (ctx *starportContext) theJournalsAreFlushed() error {
	c := context.Background()

	txResp, err := ctx.mediator.Send(c, &ledgerCommands.RecordTransactionsCommand{})
	if err != nil {
		return fmt.Errorf("failed to record transactions: %w", err)
	}
	deliveryResp, err := ctx.mediator.Send(c, &deliveryCommands.RecordDeliveriesCommand{})
	if err != nil {
		return fmt.Errorf("failed to record deliveries: %w", err)
	}

	ctx.response = flushResult{
		transactions: txResp.(*ledgerCommands.RecordTransactionsResponse).Recorded,
		deliveries:   deliveryResp.(*deliveryCommands.RecordDeliveriesResponse).Recorded,
	}
	return nil
}

func (ctx *starportContext) theFlushShouldRecord(transactions, deliveries int) error {
	res, err := ctx.lastFlush()
	if err != nil {
		return err
	}
	if res.transactions != transactions || res.deliveries != deliveries {
		return fmt.Errorf("expected %d transactions and %d deliveries, got %d and %d",
			transactions, deliveries, res.transactions, res.deliveries)
	}
	return nil
}

func (ctx *starportContext) theFlushShouldRecordSomeTransactions(deliveries int) error {
	res, err := ctx.lastFlush()
	if err != nil {
		return err
	}
	if res.transactions == 0 {
		return fmt.Errorf("expected transactions to be recorded")
	}
	if res.deliveries != deliveries {
		return fmt.Errorf("expected %d deliveries recorded, got %d", deliveries, res.deliveries)
	}
	return nil
}

func (ctx *starportContext) theLedgerSummaryShouldShow(granted, spent int) error {
	resp, err := ctx.mediator.Send(context.Background(), &ledgerQueries.GetLedgerSummaryQuery{
		PlayerID: ctx.session.Owner().Value(),
	})
	if err != nil {
		return err
	}
	summary := resp.(*ledgerQueries.GetLedgerSummaryResponse)
	if summary.Granted != granted || summary.Spent != spent {
		return fmt.Errorf("expected %d granted and %d spent, got %d and %d",
			granted, spent, summary.Granted, summary.Spent)
	}
	return nil
}

func (ctx *starportContext) storedDeliveries() ([]deliveryQueries.DeliveryDTO, error) {
	resp, err := ctx.mediator.Send(context.Background(), &deliveryQueries.GetDeliveriesQuery{
		PlayerID: ctx.session.Owner().Value(),
		Limit:    10,
	})
	if err != nil {
		return nil, err
	}
	return resp.(*deliveryQueries.GetDeliveriesResponse).Deliveries, nil
}

func (ctx *starportContext) deliveryRecordsShouldBeStored(n int) error {
	records, err := ctx.storedDeliveries()
	if err != nil {
		return err
	}
	if len(records) != n {
		return fmt.Errorf("expected %d stored deliveries, got %d", n, len(records))
	}
	return nil
}

func (ctx *starportContext) theLatestStoredDeliveryShouldBe(status string, delivered int) error {
	records, err := ctx.storedDeliveries()
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("no stored deliveries")
	}
	latest := records[0]
	if latest.Status != status || len(latest.DeliveredItems) != delivered {
		return fmt.Errorf("expected %s with %d delivered, got %s with %v",
			status, delivered, latest.Status, latest.DeliveredItems)
	}
	return nil
}
