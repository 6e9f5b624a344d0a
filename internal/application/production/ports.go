package production

import (
	"fmt"

	"github.com/andrescamacho/starport-go/internal/domain/production"
)

// QueueLocator gives handlers exclusive access to an order queue.
// fn runs with the simulation locked, between two ticks.
type QueueLocator interface {
	WithQueue(queueType string, fn func(q *production.OrderQueue) error) error
}

// ErrQueueNotFound is returned when no queue of the requested type exists
type ErrQueueNotFound struct {
	QueueType string
}

func (e *ErrQueueNotFound) Error() string {
	return fmt.Sprintf("no production queue of type %q", e.QueueType)
}
