package notify

import (
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/andrescamacho/starport-go/internal/domain/shared"
)

// Kind distinguishes audio cues from text notifications
type Kind string

const (
	KindCue  Kind = "cue"
	KindText Kind = "text"
)

// Notification is one cue or text shown to a player
type Notification struct {
	PlayerID int       `json:"player_id"`
	Kind     Kind      `json:"kind"`
	ID       string    `json:"id"`
	At       time.Time `json:"at"`
}

// RateLimitedNotifier delivers player notifications on a best-effort basis.
// Each player has its own token bucket; notifications beyond the burst are dropped, never queued.
type RateLimitedNotifier struct {
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	limiters map[int]*rate.Limiter
	recent   []Notification
	keep     int
	dropped  int
	clock    shared.Clock
	logger   shared.Logger
}

// NewRateLimitedNotifier creates a notifier allowing limit notifications per second per player
func NewRateLimitedNotifier(limit rate.Limit, burst int, clock shared.Clock, logger shared.Logger) *RateLimitedNotifier {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	if burst < 1 {
		burst = 1
	}
	return &RateLimitedNotifier{
		limit:    limit,
		burst:    burst,
		limiters: make(map[int]*rate.Limiter),
		keep:     50,
		clock:    clock,
		logger:   shared.LoggerOrNop(logger),
	}
}

// PlayCue implements delivery.Notifier
func (n *RateLimitedNotifier) PlayCue(owner shared.PlayerID, id string) {
	n.notify(owner, KindCue, id)
}

// ShowText implements delivery.Notifier
func (n *RateLimitedNotifier) ShowText(owner shared.PlayerID, id string) {
	n.notify(owner, KindText, id)
}

func (n *RateLimitedNotifier) notify(owner shared.PlayerID, kind Kind, id string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	now := n.clock.Now()
	limiter, ok := n.limiters[owner.Value()]
	if !ok {
		limiter = rate.NewLimiter(n.limit, n.burst)
		n.limiters[owner.Value()] = limiter
	}

	if !limiter.AllowN(now, 1) {
		n.dropped++
		n.logger.Log(shared.LevelDebug, "Notification dropped", map[string]interface{}{
			"player_id": owner.Value(),
			"kind":      string(kind),
			"id":        id,
		})
		return
	}

	n.recent = append(n.recent, Notification{PlayerID: owner.Value(), Kind: kind, ID: id, At: now})
	if over := len(n.recent) - n.keep; over > 0 {
		n.recent = append([]Notification(nil), n.recent[over:]...)
	}
	n.logger.Log(shared.LevelInfo, "Notification", map[string]interface{}{
		"player_id": owner.Value(),
		"kind":      string(kind),
		"id":        id,
	})
}

// Recent returns the latest delivered notifications, oldest first
func (n *RateLimitedNotifier) Recent() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Notification(nil), n.recent...)
}

// Dropped returns how many notifications were suppressed
func (n *RateLimitedNotifier) Dropped() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.dropped
}
