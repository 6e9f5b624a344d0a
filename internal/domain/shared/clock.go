package shared

import "time"

// Clock is an abstraction for wall time, allowing time to be mocked in tests.
// Only ledger timestamps and persistence use wall time; simulation logic runs on ticks.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the actual system time
type RealClock struct{}

// Now returns the current system time in UTC
func (r *RealClock) Now() time.Time {
	return time.Now().UTC()
}

// MockClock implements Clock with a controllable time for testing
type MockClock struct {
	CurrentTime time.Time
}

// Now returns the mock's current time
func (m *MockClock) Now() time.Time {
	return m.CurrentTime
}

// Advance moves the mock clock forward by the given duration
func (m *MockClock) Advance(d time.Duration) {
	m.CurrentTime = m.CurrentTime.Add(d)
}

// NewMockClock creates a MockClock starting at the given time
// If zero time is provided, starts at current time
func NewMockClock(startTime time.Time) *MockClock {
	if startTime.IsZero() {
		startTime = time.Now()
	}
	return &MockClock{CurrentTime: startTime}
}

// NewRealClock creates a RealClock instance
func NewRealClock() Clock {
	return &RealClock{}
}

// Tick is one discrete step of the simulation clock
type Tick uint64

// TickSource exposes the current simulation tick
type TickSource interface {
	CurrentTick() Tick
}

// TickCounter is the simulation's logical clock. It is advanced exactly once per
// simulation step by the world loop.
type TickCounter struct {
	current Tick
}

// NewTickCounter creates a counter starting at tick zero
func NewTickCounter() *TickCounter {
	return &TickCounter{}
}

// CurrentTick returns the tick being processed
func (t *TickCounter) CurrentTick() Tick {
	return t.current
}

// Advance moves to the next tick and returns it
func (t *TickCounter) Advance() Tick {
	t.current++
	return t.current
}
