package production

import (
	"math/rand"
	"sort"
)

type stockPile struct {
	settings  StockSettings
	available int
	countdown int
}

// StockPiles tracks per-item stock for items that declare one.
// Items without stock settings are unlimited.
type StockPiles struct {
	piles map[string]*stockPile
	rng   *rand.Rand
}

// NewStockPiles creates piles for every stocked item. The seed makes replenishment rolls
// reproducible.
func NewStockPiles(items []Item, seed int64) *StockPiles {
	s := &StockPiles{
		piles: make(map[string]*stockPile),
		rng:   rand.New(rand.NewSource(seed)),
	}
	for _, item := range items {
		if item.Stock == nil {
			continue
		}
		s.piles[item.Name] = &stockPile{
			settings:  *item.Stock,
			available: item.Stock.Initial,
			countdown: item.Stock.ReplenishTicks,
		}
	}
	return s
}

// Available returns the stock of an item; ok is false for unlimited items
func (s *StockPiles) Available(item string) (available int, ok bool) {
	p, ok := s.piles[item]
	if !ok {
		return 0, false
	}
	return p.available, true
}

// Take consumes n units, all or nothing
func (s *StockPiles) Take(item string, n int) bool {
	p, ok := s.piles[item]
	if !ok {
		return true
	}
	if p.available < n {
		return false
	}
	p.available -= n
	return true
}

// Return gives n units back, capped at the pile maximum
func (s *StockPiles) Return(item string, n int) {
	p, ok := s.piles[item]
	if !ok {
		return
	}
	p.available += n
	if p.available > p.settings.Max {
		p.available = p.settings.Max
	}
}

// Tick counts down replenishment; a due pile below max gains one unit with the configured chance
func (s *StockPiles) Tick() {
	// map order is random; roll in a stable order so the seed stays meaningful
	for _, name := range s.names() {
		p := s.piles[name]
		if p.available >= p.settings.Max {
			p.countdown = p.settings.ReplenishTicks
			continue
		}
		p.countdown--
		if p.countdown > 0 {
			continue
		}
		p.countdown = p.settings.ReplenishTicks
		if s.rng.Intn(100) < p.settings.Chance {
			p.available++
		}
	}
}

func (s *StockPiles) names() []string {
	names := make([]string, 0, len(s.piles))
	for name := range s.piles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
