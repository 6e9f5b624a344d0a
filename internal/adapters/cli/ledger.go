package cli

import (
	"context"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/starport-go/internal/adapters/persistence"
	"github.com/andrescamacho/starport-go/internal/application/ledger/queries"
	"github.com/andrescamacho/starport-go/internal/infrastructure/database"
)

// NewLedgerCommand creates the ledger command with subcommands
func NewLedgerCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Production ledger operations",
		Long: `View the persisted production ledger.

Every charge for a started order, every refund (cancelled orders, returned
orders, deliveries that never arrived) and every grant is journaled with the
tick it happened on and the balance before and after.

Examples:
  starport ledger list --player-id 1
  starport ledger list --category REFUNDS --limit 20
  starport ledger list --from-tick 100 --to-tick 200
  starport ledger summary`,
	}

	cmd.AddCommand(newLedgerListCommand())
	cmd.AddCommand(newLedgerSummaryCommand())

	return cmd
}

// newLedgerListCommand creates the ledger list subcommand
func newLedgerListCommand() *cobra.Command {
	var (
		fromTick int64
		toTick   int64
		category string
		txType   string
		item     string
		limit    int
		offset   int
		orderBy  string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions",
		Long: `List ledger transactions with optional filtering.

Categories:
  PRODUCTION_COSTS  - Charges for production progress
  REFUNDS           - Cancelled, returned and undelivered orders
  GRANTS            - Starting cash and scenario grants

Transaction Types:
  PRODUCTION_CHARGE   - Charge for an order
  PRODUCTION_REFUND   - Refund of a cancelled or returned order
  DELIVERY_REFUND     - Refund of a unit lost in delivery
  GRANT               - Funds added to the account

Examples:
  starport ledger list --player-id 1 --limit 10
  starport ledger list --type DELIVERY_REFUND
  starport ledger list --item combat_tank --order-by "tick ASC"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			query := &queries.GetTransactionsQuery{
				Limit:   limit,
				Offset:  offset,
				OrderBy: orderBy,
			}
			if fromTick >= 0 {
				from := uint64(fromTick)
				query.FromTick = &from
			}
			if toTick >= 0 {
				to := uint64(toTick)
				query.ToTick = &to
			}
			if category != "" {
				query.Category = &category
			}
			if txType != "" {
				query.TransactionType = &txType
			}
			if item != "" {
				query.Item = &item
			}
			return runLedgerList(query)
		},
	}

	cmd.Flags().Int64Var(&fromTick, "from-tick", -1, "First tick to include")
	cmd.Flags().Int64Var(&toTick, "to-tick", -1, "Last tick to include")
	cmd.Flags().StringVar(&category, "category", "", "Filter by category")
	cmd.Flags().StringVar(&txType, "type", "", "Filter by transaction type")
	cmd.Flags().StringVar(&item, "item", "", "Filter by item")
	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum number of transactions to return")
	cmd.Flags().IntVar(&offset, "offset", 0, "Number of transactions to skip")
	cmd.Flags().StringVar(&orderBy, "order-by", "tick DESC", "Sort order (\"tick ASC\" or \"tick DESC\")")

	return cmd
}

// newLedgerSummaryCommand creates the ledger summary subcommand
func newLedgerSummaryCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show totals per category",
		Long: `Total the persisted transactions of a player per category.

Spent is what production still holds: production costs minus refunds.

Example:
  starport ledger summary --player-id 1`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLedgerSummary()
		},
	}
}

// runLedgerList executes the ledger list command
func runLedgerList(query *queries.GetTransactionsQuery) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	query.PlayerID = cfg.Simulation.PlayerID

	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer database.Close(db)

	handler := queries.NewGetTransactionsHandler(persistence.NewGormTransactionRepository(db))
	result, err := handler.Handle(context.Background(), query)
	if err != nil {
		return fmt.Errorf("failed to query transactions: %w", err)
	}

	displayTransactionList(result.(*queries.GetTransactionsResponse))
	return nil
}

// runLedgerSummary executes the ledger summary command
func runLedgerSummary() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer database.Close(db)

	handler := queries.NewGetLedgerSummaryHandler(persistence.NewGormTransactionRepository(db))
	result, err := handler.Handle(context.Background(), &queries.GetLedgerSummaryQuery{PlayerID: cfg.Simulation.PlayerID})
	if err != nil {
		return fmt.Errorf("failed to summarize ledger: %w", err)
	}

	displayLedgerSummary(cfg.Simulation.PlayerID, result.(*queries.GetLedgerSummaryResponse))
	return nil
}

// displayTransactionList formats and displays transaction list
func displayTransactionList(response *queries.GetTransactionsResponse) {
	if len(response.Transactions) == 0 {
		fmt.Println("No transactions found")
		return
	}

	fmt.Printf("\nTRANSACTIONS (%d)\n", len(response.Transactions))
	fmt.Println("─────────────────────────────────────────────────────────────────────────────")

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "Tick\tType\tItem\tAmount\tBalance\tDescription")
	fmt.Fprintln(w, "────\t────\t────\t──────\t───────\t───────────")

	for _, tx := range response.Transactions {
		item := tx.Item
		if item == "" {
			item = "-"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			tx.Tick,
			tx.Type,
			item,
			formatAmount(tx.Amount),
			formatCredits(tx.BalanceAfter),
			tx.Description,
		)
	}

	w.Flush()
	fmt.Println("─────────────────────────────────────────────────────────────────────────────")
}

// displayLedgerSummary formats and displays the per-category totals
func displayLedgerSummary(playerID int, summary *queries.GetLedgerSummaryResponse) {
	fmt.Printf("\nLEDGER SUMMARY (player %d)\n", playerID)
	fmt.Println("─────────────────────────────────────────────────────────────────────────────")

	categories := make([]string, 0, len(summary.ByCategory))
	for category := range summary.ByCategory {
		categories = append(categories, category)
	}
	sort.Strings(categories)
	for _, category := range categories {
		fmt.Printf("  %-25s %s\n", category+":", formatAmount(summary.ByCategory[category]))
	}

	fmt.Println("                          ─────────────")
	fmt.Printf("  %-25s %s\n", "Granted:", formatCredits(summary.Granted))
	fmt.Printf("  %-25s %s\n", "Production costs:", formatCredits(summary.Costs))
	fmt.Printf("  %-25s %s\n", "Refunds:", formatCredits(summary.Refunds))
	fmt.Printf("  %-25s %s\n", "Spent:", formatCredits(summary.Spent))
	fmt.Println("─────────────────────────────────────────────────────────────────────────────")
	fmt.Printf("BALANCE:                    %s\n", formatCredits(summary.Balance))
}

// formatAmount formats an amount with +/- sign
func formatAmount(amount int) string {
	if amount >= 0 {
		return "+" + formatCredits(amount)
	}
	return formatCredits(amount)
}

// formatCredits formats credits with thousands separator
func formatCredits(credits int) string {
	if credits < 0 {
		return "-" + addThousandsSeparator(-credits)
	}
	return addThousandsSeparator(credits)
}

// addThousandsSeparator adds commas to a number (e.g., 1234567 -> "1,234,567")
func addThousandsSeparator(n int) string {
	digits := fmt.Sprintf("%d", n)
	out := make([]byte, 0, len(digits)+len(digits)/3)
	for i := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, digits[i])
	}
	return string(out)
}
