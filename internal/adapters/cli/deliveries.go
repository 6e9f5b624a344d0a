package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/starport-go/internal/adapters/persistence"
	"github.com/andrescamacho/starport-go/internal/application/delivery/queries"
	"github.com/andrescamacho/starport-go/internal/infrastructure/database"
)

// NewDeliveriesCommand creates the deliveries command
func NewDeliveriesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deliveries",
		Short: "Delivery journal operations",
		Long: `View the persisted delivery journal.

A record is written for every delivery that finished, successfully or not:
which units were in the batch, which reached the world, how much was
refunded and how many ticks the exit was blocked.

Examples:
  starport deliveries list
  starport deliveries list --player-id 2 --limit 5`,
	}

	cmd.AddCommand(newDeliveriesListCommand())

	return cmd
}

func newDeliveriesListCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List finished deliveries, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDeliveriesList(limit)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of deliveries to return")

	return cmd
}

func runDeliveriesList(limit int) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer database.Close(db)

	handler := queries.NewGetDeliveriesHandler(persistence.NewGormDeliveryRecordRepository(db, nil))
	result, err := handler.Handle(context.Background(), &queries.GetDeliveriesQuery{
		PlayerID: cfg.Simulation.PlayerID,
		Limit:    limit,
	})
	if err != nil {
		return fmt.Errorf("failed to query deliveries: %w", err)
	}

	response := result.(*queries.GetDeliveriesResponse)
	if len(response.Deliveries) == 0 {
		fmt.Println("No deliveries found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tStatus\tTicks\tItems\tDelivered\tCost\tRefunded\tBlocked")
	fmt.Fprintln(w, "──\t──────\t─────\t─────\t─────────\t────\t────────\t───────")
	for _, d := range response.Deliveries {
		fmt.Fprintf(w, "%s\t%s\t%d-%d\t%s\t%s\t%s\t%s\t%d\n",
			shortID(d.ID),
			d.Status,
			d.CreatedTick,
			d.FinishedTick,
			listOrDash(d.Items),
			listOrDash(d.DeliveredItems),
			formatCredits(d.TotalCost),
			formatCredits(d.Refunded),
			d.BlockedTicks,
		)
	}
	return w.Flush()
}
