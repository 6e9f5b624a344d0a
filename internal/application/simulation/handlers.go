package simulation

import (
	"fmt"

	"github.com/andrescamacho/starport-go/internal/application/common"
	appDelivery "github.com/andrescamacho/starport-go/internal/application/delivery"
	deliveryCommands "github.com/andrescamacho/starport-go/internal/application/delivery/commands"
	deliveryQueries "github.com/andrescamacho/starport-go/internal/application/delivery/queries"
	ledgerCommands "github.com/andrescamacho/starport-go/internal/application/ledger/commands"
	ledgerQueries "github.com/andrescamacho/starport-go/internal/application/ledger/queries"
	"github.com/andrescamacho/starport-go/internal/application/production/commands"
	"github.com/andrescamacho/starport-go/internal/application/production/queries"
	"github.com/andrescamacho/starport-go/internal/domain/delivery"
	"github.com/andrescamacho/starport-go/internal/domain/ledger"
)

// RegisterProductionHandlers wires every production command and query to the session
func RegisterProductionHandlers(m common.Mediator, s *Session) error {
	dispatch := commands.NewStartDeliveryHandler(s)
	registrations := []registration{
		{"StartProduction", func() error {
			return common.RegisterHandler[*commands.StartProductionCommand](m, commands.NewStartProductionHandler(s))
		}},
		{"PauseProduction", func() error {
			return common.RegisterHandler[*commands.PauseProductionCommand](m, commands.NewPauseProductionHandler(s))
		}},
		{"CancelProduction", func() error {
			return common.RegisterHandler[*commands.CancelProductionCommand](m, commands.NewCancelProductionHandler(s))
		}},
		{"ReturnOrder", func() error {
			return common.RegisterHandler[*commands.ReturnOrderCommand](m, commands.NewReturnOrderHandler(s))
		}},
		{"StartDelivery", func() error {
			return common.RegisterHandler[*commands.StartDeliveryCommand](m, dispatch)
		}},
		{"PurchaseOrder", func() error {
			return common.RegisterHandler[*commands.PurchaseOrderCommand](m, dispatch)
		}},
		{"GetQueueStatus", func() error {
			return common.RegisterHandler[*queries.GetQueueStatusQuery](m, queries.NewGetQueueStatusHandler(s))
		}},
	}
	return registerAll(registrations)
}

// RegisterJournalHandlers wires the journal flush commands and the persisted history queries
func RegisterJournalHandlers(
	m common.Mediator,
	s *Session,
	transactions ledger.TransactionRepository,
	recorder *appDelivery.Recorder,
	deliveries delivery.RecordRepository,
) error {
	return registerAll([]registration{
		{"RecordTransactions", func() error {
			return common.RegisterHandler[*ledgerCommands.RecordTransactionsCommand](m, ledgerCommands.NewRecordTransactionsHandler(s, transactions))
		}},
		{"GetTransactions", func() error {
			return common.RegisterHandler[*ledgerQueries.GetTransactionsQuery](m, ledgerQueries.NewGetTransactionsHandler(transactions))
		}},
		{"GetLedgerSummary", func() error {
			return common.RegisterHandler[*ledgerQueries.GetLedgerSummaryQuery](m, ledgerQueries.NewGetLedgerSummaryHandler(transactions))
		}},
		{"RecordDeliveries", func() error {
			return common.RegisterHandler[*deliveryCommands.RecordDeliveriesCommand](m, deliveryCommands.NewRecordDeliveriesHandler(recorder, deliveries))
		}},
		{"GetDeliveries", func() error {
			return common.RegisterHandler[*deliveryQueries.GetDeliveriesQuery](m, deliveryQueries.NewGetDeliveriesHandler(deliveries))
		}},
	})
}

type registration struct {
	name     string
	register func() error
}

func registerAll(registrations []registration) error {
	for _, r := range registrations {
		if err := r.register(); err != nil {
			return fmt.Errorf("failed to register %s handler: %w", r.name, err)
		}
	}
	return nil
}
