package shared

import "fmt"

// LifecycleStatus represents the state of an entity in its lifecycle
type LifecycleStatus string

const (
	// LifecycleStatusPending indicates the entity is scheduled but not started
	LifecycleStatusPending LifecycleStatus = "PENDING"

	// LifecycleStatusRunning indicates the entity is actively executing
	LifecycleStatusRunning LifecycleStatus = "RUNNING"

	// LifecycleStatusCompleted indicates the entity finished successfully
	LifecycleStatusCompleted LifecycleStatus = "COMPLETED"

	// LifecycleStatusFailed indicates the entity was aborted
	LifecycleStatusFailed LifecycleStatus = "FAILED"
)

// LifecycleStateMachine manages PENDING → RUNNING → COMPLETED/FAILED transitions,
// stamping each transition with the simulation tick it happened on.
//
// Invariants:
// - COMPLETED and FAILED are terminal
// - Ticks come from the injected TickSource
type LifecycleStateMachine struct {
	status       LifecycleStatus
	createdTick  Tick
	startedTick  *Tick
	finishedTick *Tick
	lastError    error
	ticks        TickSource
}

// NewLifecycleStateMachine creates a new lifecycle state machine in PENDING state
func NewLifecycleStateMachine(ticks TickSource) *LifecycleStateMachine {
	if ticks == nil {
		ticks = NewTickCounter()
	}
	return &LifecycleStateMachine{
		status:      LifecycleStatusPending,
		createdTick: ticks.CurrentTick(),
		ticks:       ticks,
	}
}

func (sm *LifecycleStateMachine) Status() LifecycleStatus { return sm.status }
func (sm *LifecycleStateMachine) CreatedTick() Tick       { return sm.createdTick }
func (sm *LifecycleStateMachine) StartedTick() *Tick      { return sm.startedTick }
func (sm *LifecycleStateMachine) FinishedTick() *Tick     { return sm.finishedTick }
func (sm *LifecycleStateMachine) LastError() error        { return sm.lastError }

// Start transitions from PENDING to RUNNING
func (sm *LifecycleStateMachine) Start() error {
	if sm.status != LifecycleStatusPending {
		return fmt.Errorf("cannot start from %s state", sm.status)
	}
	now := sm.ticks.CurrentTick()
	sm.status = LifecycleStatusRunning
	sm.startedTick = &now
	return nil
}

// Complete transitions from RUNNING to COMPLETED
func (sm *LifecycleStateMachine) Complete() error {
	if sm.status != LifecycleStatusRunning {
		return fmt.Errorf("cannot complete from %s state", sm.status)
	}
	now := sm.ticks.CurrentTick()
	sm.status = LifecycleStatusCompleted
	sm.finishedTick = &now
	return nil
}

// Fail transitions to FAILED from any non-terminal state
func (sm *LifecycleStateMachine) Fail(err error) error {
	if sm.IsFinished() {
		return fmt.Errorf("cannot fail from %s state", sm.status)
	}
	now := sm.ticks.CurrentTick()
	sm.status = LifecycleStatusFailed
	sm.lastError = err
	sm.finishedTick = &now
	return nil
}

func (sm *LifecycleStateMachine) IsRunning() bool { return sm.status == LifecycleStatusRunning }
func (sm *LifecycleStateMachine) IsPending() bool { return sm.status == LifecycleStatusPending }

// IsFinished returns true if the entity has completed or failed
func (sm *LifecycleStateMachine) IsFinished() bool {
	return sm.status == LifecycleStatusCompleted || sm.status == LifecycleStatusFailed
}

// Duration returns the number of ticks between start and finish (or now when still running).
// Returns 0 if not started.
func (sm *LifecycleStateMachine) Duration() Tick {
	if sm.startedTick == nil {
		return 0
	}
	end := sm.ticks.CurrentTick()
	if sm.finishedTick != nil {
		end = *sm.finishedTick
	}
	if end < *sm.startedTick {
		return 0
	}
	return end - *sm.startedTick
}
