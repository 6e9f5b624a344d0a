package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/starport-go/internal/adapters/catalog"
	"github.com/andrescamacho/starport-go/internal/domain/production"
)

// NewCatalogCommand creates the catalog command
func NewCatalogCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Item catalog operations",
		Long: `Inspect the items production queues can build.

The catalog comes from catalog.path, or the built-in starport catalog when
no path is configured.

Examples:
  starport catalog list
  starport catalog list --type Starport`,
	}

	cmd.AddCommand(newCatalogListCommand())

	return cmd
}

func newCatalogListCommand() *cobra.Command {
	var productionType string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog items",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			items, err := catalog.LoadItems(cfg.Catalog.Path)
			if err != nil {
				return err
			}
			list := items.All()
			if productionType != "" {
				list = items.ForType(productionType)
			}
			displayCatalog(list)
			return nil
		},
	}

	cmd.Flags().StringVar(&productionType, "type", "", "Only items built by this queue type")

	return cmd
}

func displayCatalog(items []production.Item) {
	if len(items) == 0 {
		fmt.Println("No items found")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "Name\tQueue\tCost\tBuild Ticks\tLimit\tDelivery\tStock")
	fmt.Fprintln(w, "────\t─────\t────\t───────────\t─────\t────────\t─────")
	for _, item := range items {
		limit := "-"
		if item.BuildLimit > 0 {
			limit = fmt.Sprintf("%d", item.BuildLimit)
		}
		mode := "carrier"
		if item.SelfPropelled {
			mode = "air"
		}
		stock := "-"
		if item.Stock != nil {
			stock = fmt.Sprintf("%d/%d every %d (%d%%)", item.Stock.Initial, item.Stock.Max, item.Stock.ReplenishTicks, item.Stock.Chance)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\t%s\n",
			item.Name,
			item.ProductionType,
			formatCredits(item.Cost),
			item.BuildTicks,
			limit,
			mode,
			stock,
		)
	}
	w.Flush()
}
