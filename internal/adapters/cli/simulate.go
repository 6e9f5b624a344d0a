package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/starport-go/internal/application/simulation"
)

// NewSimulateCommand creates the simulate command
func NewSimulateCommand() *cobra.Command {
	var (
		scenarioPath string
		ticks        int
		interval     time.Duration
		asJSON       bool
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run a scripted scenario to completion",
		Long: `Run a scenario file tick by tick and print the final state.

A scenario places the starports and schedules queue actions (produce, pause,
resume, cancel, return, dispatch, purchase) and world events (grant,
destroy_building, destroy_carrier) at given ticks. Without --scenario the
configured simulation.scenario_path is used, then the built-in demo.

The ledger and delivery journals are persisted to the configured database
when the run ends.

Examples:
  starport simulate
  starport simulate --scenario scenarios/destroyed_site.yaml
  starport simulate --scenario scenarios/blocked_exit.yaml --ticks 200 --json
  starport simulate --interval 40ms -v`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulate(scenarioPath, ticks, interval, asJSON)
		},
	}

	cmd.Flags().StringVar(&scenarioPath, "scenario", "", "Scenario file (YAML)")
	cmd.Flags().IntVar(&ticks, "ticks", 0, "Override the scenario length in ticks")
	cmd.Flags().DurationVar(&interval, "interval", 0, "Wall-clock time per tick (0 runs as fast as possible)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the report as JSON")

	return cmd
}

func runSimulate(scenarioPath string, ticks int, interval time.Duration, asJSON bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	rt, err := newRuntime(cfg, scenarioPath)
	if err != nil {
		return err
	}
	defer rt.Close()

	sc := rt.scenario
	if ticks > 0 {
		sc.Ticks = ticks
	}
	if sc.Ticks <= 0 {
		return fmt.Errorf("scenario %q has no tick limit; use --ticks or run it with 'starport serve'", sc.Name)
	}

	ctx, stop := signal.NotifyContext(rt.context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := simulation.NewRunner(rt.session, rt.mediator, interval).Run(ctx, sc)
	if err != nil {
		return err
	}

	transactions, deliveries, err := rt.flush(context.WithoutCancel(ctx))
	if err != nil {
		return err
	}

	if asJSON {
		return json.NewEncoder(os.Stdout).Encode(report)
	}
	displayReport(report)
	fmt.Printf("Persisted %d transactions and %d deliveries\n\n", transactions, deliveries)
	return nil
}

// displayReport formats and displays a scenario report
func displayReport(report *simulation.Report) {
	st := report.Final

	fmt.Printf("\nSCENARIO %s (%d ticks, %d actions applied)\n", report.Scenario, report.Ticks, report.Applied)
	fmt.Println("─────────────────────────────────────────────────────────────────────────────")
	fmt.Printf("  %-14s %s\n", "Balance:", formatCredits(st.Balance))
	fmt.Printf("  %-14s %s\n", "Charged:", formatCredits(st.Charged))
	fmt.Printf("  %-14s %s\n", "Refunded:", formatCredits(st.Refunded))
	fmt.Printf("  %-14s %s\n", "Outstanding:", formatCredits(st.Outstanding))

	if len(report.Rejected) > 0 {
		fmt.Println("\nREJECTED ACTIONS")
		for _, r := range report.Rejected {
			fmt.Printf("  %s\n", r)
		}
	}

	fmt.Println("\nQUEUES")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "Type\tState\tBatch\tBatch Cost\tOrders")
	fmt.Fprintln(w, "────\t─────\t─────\t──────────\t──────")
	for _, q := range st.Queues {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n",
			q.Type,
			q.State,
			listOrDash(q.Batch),
			formatCredits(q.BatchCost),
			len(q.Timeline),
		)
	}
	w.Flush()

	deliveries := append(append([]simulation.DeliveryStatus(nil), st.Finished...), st.Active...)
	if len(deliveries) > 0 {
		fmt.Println("\nDELIVERIES")
		w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tStatus\tDelivered\tRefunded\tBlocked")
		fmt.Fprintln(w, "──\t──────\t─────────\t────────\t───────")
		for _, d := range deliveries {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n",
				shortID(d.ID),
				d.Status,
				listOrDash(d.Delivered),
				formatCredits(d.Refunded),
				d.BlockedTicks,
			)
		}
		w.Flush()
	}

	if len(st.Units) > 0 {
		fmt.Println("\nUNITS")
		for kind, n := range st.Units {
			fmt.Printf("  %-14s %d\n", kind+":", n)
		}
	}
	fmt.Println("─────────────────────────────────────────────────────────────────────────────")
}

func listOrDash(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	return strings.Join(items, ",")
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
