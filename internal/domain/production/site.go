package production

import (
	"sort"

	"github.com/andrescamacho/starport-go/internal/domain/shared"
)

// Exit is a site-relative location where a new unit may appear
type Exit struct {
	Cell            shared.Cell // absolute world cell
	Facing          shared.Facing
	ProductionTypes []string // empty means any
}

// Serves reports whether units of the production type may use this exit
func (e Exit) Serves(productionType string) bool {
	if len(e.ProductionTypes) == 0 {
		return true
	}
	for _, t := range e.ProductionTypes {
		if t == productionType {
			return true
		}
	}
	return false
}

// DeliveryObserver is told when a delivery is scheduled to a site and when its cargo is unloaded
type DeliveryObserver interface {
	IncomingDelivery(site Site)
	Delivered(site Site)
}

// Site is a production building able to emit units into the world
type Site interface {
	ID() int
	Owner() shared.PlayerID
	Faction() string
	Location() shared.Cell

	Produces(productionType string) bool
	IsPrimary() bool
	IsDisabled() bool
	IsPaused() bool
	IsAlive() bool

	ListExits(productionType string) []Exit
	// SelectExit returns a free exit for the unit, or false when every exit is blocked
	SelectExit(item string, productionType string) (Exit, bool)
	// NotifyBlocked asks whatever occupies the cell to move away
	NotifyBlocked(cell shared.Cell)

	RallyPoints() []shared.Cell
	Observers() []DeliveryObserver
}

// SiteRegistry indexes production sites per owner so queues never scan the world.
// Sites are added and removed as buildings enter and leave the simulation.
type SiteRegistry struct {
	byOwner map[shared.PlayerID]map[int]Site
}

// NewSiteRegistry creates an empty registry
func NewSiteRegistry() *SiteRegistry {
	return &SiteRegistry{byOwner: make(map[shared.PlayerID]map[int]Site)}
}

// Add registers a site under its owner; re-adding replaces the previous entry
func (r *SiteRegistry) Add(site Site) {
	sites, ok := r.byOwner[site.Owner()]
	if !ok {
		sites = make(map[int]Site)
		r.byOwner[site.Owner()] = sites
	}
	sites[site.ID()] = site
}

// Remove unregisters a site
func (r *SiteRegistry) Remove(site Site) {
	sites, ok := r.byOwner[site.Owner()]
	if !ok {
		return
	}
	delete(sites, site.ID())
	if len(sites) == 0 {
		delete(r.byOwner, site.Owner())
	}
}

// Len returns the number of sites of an owner
func (r *SiteRegistry) Len(owner shared.PlayerID) int {
	return len(r.byOwner[owner])
}

// Eligible returns the owner's sites that are alive, not disabled and produce the type,
// ordered primary first then by descending id. Paused sites are included.
func (r *SiteRegistry) Eligible(owner shared.PlayerID, productionType string) []Site {
	var out []Site
	for _, s := range r.byOwner[owner] {
		if !s.IsAlive() || s.IsDisabled() || !s.Produces(productionType) {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].IsPrimary() != out[j].IsPrimary() {
			return out[i].IsPrimary()
		}
		return out[i].ID() > out[j].ID()
	})
	return out
}

// FirstActive returns the first eligible site that is not paused
func (r *SiteRegistry) FirstActive(owner shared.PlayerID, productionType string) (Site, bool) {
	for _, s := range r.Eligible(owner, productionType) {
		if !s.IsPaused() {
			return s, true
		}
	}
	return nil, false
}
