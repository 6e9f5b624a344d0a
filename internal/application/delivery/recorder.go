package delivery

import (
	"sync"

	"github.com/andrescamacho/starport-go/internal/domain/delivery"
	"github.com/andrescamacho/starport-go/internal/domain/production"
	"github.com/andrescamacho/starport-go/internal/domain/shared"
)

// Recorder collects a record for every finished delivery until they are persisted.
// It is a delivery.Listener; the tick loop and the flush job may run on different goroutines.
type Recorder struct {
	mu      sync.Mutex
	pending []delivery.Record
}

// NewRecorder creates an empty recorder
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) OnDeliveryStarted(*delivery.Delivery)                     {}
func (r *Recorder) OnUnitUnloaded(*delivery.Delivery, production.BatchEntry) {}
func (r *Recorder) OnExitBlocked(*delivery.Delivery, shared.Cell)            {}
func (r *Recorder) OnDeliveryCompleted(d *delivery.Delivery)                 { r.add(d) }
func (r *Recorder) OnDeliveryFailed(d *delivery.Delivery, _ error)           { r.add(d) }

func (r *Recorder) add(d *delivery.Delivery) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pending = append(r.pending, delivery.NewRecord(d))
}

// Drain returns and forgets the collected records
func (r *Recorder) Drain() []delivery.Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.pending
	r.pending = nil
	return out
}

// Requeue gives back records that could not be persisted
func (r *Recorder) Requeue(records []delivery.Record) {
	if len(records) == 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pending = append(append([]delivery.Record(nil), records...), r.pending...)
}

// Pending returns the number of records waiting to be persisted
func (r *Recorder) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pending)
}
