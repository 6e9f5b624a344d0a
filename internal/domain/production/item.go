package production

import (
	"fmt"
	"sort"
)

// StockSettings gates how many orders of an item may exist at once.
// A stock unit is consumed per order and returned when the order is refunded.
type StockSettings struct {
	Initial        int
	Max            int
	ReplenishTicks int
	Chance         int // percent, 1..100
}

// Item is one buildable catalog entry
type Item struct {
	Name           string
	ProductionType string // queue type that builds it, e.g. "Starport"
	Cost           int
	BuildTicks     int
	BuildLimit     int  // 0 means unlimited
	SelfPropelled  bool // flies in on its own instead of riding the carrier
	Stock          *StockSettings
}

// Validate checks catalog invariants for a single item
func (i Item) Validate() error {
	if i.Name == "" {
		return fmt.Errorf("item name is required")
	}
	if i.ProductionType == "" {
		return fmt.Errorf("item %s: production type is required", i.Name)
	}
	if i.Cost < 0 {
		return fmt.Errorf("item %s: cost cannot be negative", i.Name)
	}
	if i.BuildTicks < 1 {
		return fmt.Errorf("item %s: build ticks must be at least 1", i.Name)
	}
	if i.BuildLimit < 0 {
		return fmt.Errorf("item %s: build limit cannot be negative", i.Name)
	}
	if s := i.Stock; s != nil {
		if s.Max < 1 || s.Initial < 0 || s.Initial > s.Max {
			return fmt.Errorf("item %s: stock initial must be within 0..max and max at least 1", i.Name)
		}
		if s.ReplenishTicks < 1 {
			return fmt.Errorf("item %s: stock replenish ticks must be at least 1", i.Name)
		}
		if s.Chance < 1 || s.Chance > 100 {
			return fmt.Errorf("item %s: stock chance must be within 1..100", i.Name)
		}
	}
	return nil
}

// Catalog is the read-only set of items known to the simulation
type Catalog struct {
	items map[string]Item
	names []string
}

// NewCatalog validates the items and indexes them by name
func NewCatalog(items []Item) (*Catalog, error) {
	c := &Catalog{items: make(map[string]Item, len(items))}
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return nil, err
		}
		if _, dup := c.items[item.Name]; dup {
			return nil, fmt.Errorf("duplicate item %s", item.Name)
		}
		c.items[item.Name] = item
		c.names = append(c.names, item.Name)
	}
	sort.Strings(c.names)
	return c, nil
}

// Get returns the named item
func (c *Catalog) Get(name string) (Item, bool) {
	item, ok := c.items[name]
	return item, ok
}

// All returns every item sorted by name
func (c *Catalog) All() []Item {
	out := make([]Item, 0, len(c.names))
	for _, name := range c.names {
		out = append(out, c.items[name])
	}
	return out
}

// ForType returns the items built by the given production type, sorted by name
func (c *Catalog) ForType(productionType string) []Item {
	var out []Item
	for _, name := range c.names {
		if item := c.items[name]; item.ProductionType == productionType {
			out = append(out, item)
		}
	}
	return out
}

// Len returns the number of items
func (c *Catalog) Len() int {
	return len(c.items)
}
