package jobs

import (
	"context"

	"github.com/robfig/cron/v3"

	"github.com/andrescamacho/starport-go/internal/application/common"
	deliveryCommands "github.com/andrescamacho/starport-go/internal/application/delivery/commands"
	ledgerCommands "github.com/andrescamacho/starport-go/internal/application/ledger/commands"
	"github.com/andrescamacho/starport-go/internal/domain/shared"
)

// FlushJob periodically sends one command through the mediator
type FlushJob struct {
	name     string
	schedule string
	mediator common.Mediator
	newCmd   func() common.Request
	cron     *cron.Cron
	logger   common.Logger
}

// NewTransactionFlushJob persists the account journal on schedule
func NewTransactionFlushJob(mediator common.Mediator, schedule string, logger common.Logger) *FlushJob {
	return newFlushJob("transaction_flush", schedule, mediator, logger, func() common.Request {
		return &ledgerCommands.RecordTransactionsCommand{}
	})
}

// NewDeliveryFlushJob persists finished delivery records on schedule
func NewDeliveryFlushJob(mediator common.Mediator, schedule string, logger common.Logger) *FlushJob {
	return newFlushJob("delivery_flush", schedule, mediator, logger, func() common.Request {
		return &deliveryCommands.RecordDeliveriesCommand{}
	})
}

func newFlushJob(name, schedule string, mediator common.Mediator, logger common.Logger, newCmd func() common.Request) *FlushJob {
	return &FlushJob{
		name:     name,
		schedule: schedule,
		mediator: mediator,
		newCmd:   newCmd,
		cron:     cron.New(cron.WithSeconds()),
		logger:   shared.LoggerOrNop(logger),
	}
}

// Start schedules the job
func (j *FlushJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, j.run); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Log("INFO", "Job started", map[string]interface{}{
		"job":      j.name,
		"schedule": j.schedule,
	})
	return nil
}

// Stop stops the job and waits for a running flush to finish
func (j *FlushJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Log("INFO", "Job stopped", map[string]interface{}{"job": j.name})
}

func (j *FlushJob) run() {
	ctx := common.WithLogger(context.Background(), j.logger)
	if _, err := j.mediator.Send(ctx, j.newCmd()); err != nil {
		j.logger.Log("ERROR", "Job failed", map[string]interface{}{
			"job":   j.name,
			"error": err.Error(),
		})
	}
}
