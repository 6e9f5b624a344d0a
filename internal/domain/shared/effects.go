package shared

// Effect is a deferred mutation of simulation state (spawn, removal, refund)
type Effect struct {
	Name  string
	Apply func()
}

// Deferrer accepts effects to be applied after the current read phase
type Deferrer interface {
	Defer(name string, apply func())
}

// EffectQueue collects effects during a tick's read phase and applies them in a
// dedicated flush phase.
//
// Invariants:
// - Effects are applied in the order they were deferred
// - Effects deferred while a flush is running are applied by the next flush,
//   so a flush never iterates a list it is appending to
type EffectQueue struct {
	pending  []Effect
	flushing bool
}

// NewEffectQueue creates an empty queue
func NewEffectQueue() *EffectQueue {
	return &EffectQueue{}
}

// Defer schedules an effect for the next flush
func (q *EffectQueue) Defer(name string, apply func()) {
	if apply == nil {
		return
	}
	q.pending = append(q.pending, Effect{Name: name, Apply: apply})
}

// Len returns the number of effects waiting for a flush
func (q *EffectQueue) Len() int {
	return len(q.pending)
}

// Flush applies every effect deferred before the call and returns how many ran
func (q *EffectQueue) Flush() int {
	if q.flushing {
		return 0
	}
	batch := q.pending
	q.pending = nil

	q.flushing = true
	defer func() { q.flushing = false }()

	for _, e := range batch {
		e.Apply()
	}
	return len(batch)
}

// ImmediateDeferrer applies effects synchronously. Only for tests of components in isolation.
type ImmediateDeferrer struct{}

func (ImmediateDeferrer) Defer(_ string, apply func()) {
	if apply != nil {
		apply()
	}
}
