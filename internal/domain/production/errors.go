package production

import (
	"fmt"

	"github.com/andrescamacho/starport-go/internal/domain/shared"
)

// ErrSiteUnavailable is returned when no eligible production site exists for an owner
type ErrSiteUnavailable struct {
	Owner          shared.PlayerID
	ProductionType string
}

func (e *ErrSiteUnavailable) Error() string {
	return fmt.Sprintf("no %s production site available for player %s", e.ProductionType, e.Owner)
}

// ErrCapacityExceeded is recorded when a completed order finds the batch already full
type ErrCapacityExceeded struct {
	Capacity int
	Item     string
}

func (e *ErrCapacityExceeded) Error() string {
	return fmt.Sprintf("batch full (%d): %s refunded", e.Capacity, e.Item)
}

// ErrNoDispatcher is returned by StartDelivery on a queue without a dispatcher
type ErrNoDispatcher struct{}

func (e *ErrNoDispatcher) Error() string {
	return "no delivery dispatcher configured"
}
