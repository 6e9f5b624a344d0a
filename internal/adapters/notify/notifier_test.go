package notify_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/andrescamacho/starport-go/internal/adapters/notify"
	"github.com/andrescamacho/starport-go/internal/domain/shared"
)

func TestRateLimitedNotifier_DropsBurstsPerPlayer(t *testing.T) {
	// Arrange
	clock := shared.NewMockClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	n := notify.NewRateLimitedNotifier(rate.Limit(1), 2, clock, nil)
	alice, bob := shared.MustNewPlayerID(1), shared.MustNewPlayerID(2)

	// Act
	n.PlayCue(alice, "Reinforce")
	n.ShowText(alice, "ReinforcementsArrived")
	n.PlayCue(alice, "Reinforce")
	n.PlayCue(bob, "Reinforce")

	// Assert
	recent := n.Recent()
	require.Len(t, recent, 3)
	assert.Equal(t, notify.KindText, recent[1].Kind)
	assert.Equal(t, 2, recent[2].PlayerID)
	assert.Equal(t, 1, n.Dropped())
}

func TestRateLimitedNotifier_RefillsOverTime(t *testing.T) {
	// Arrange
	clock := shared.NewMockClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	n := notify.NewRateLimitedNotifier(rate.Limit(1), 1, clock, nil)
	owner := shared.MustNewPlayerID(1)
	n.PlayCue(owner, "Reinforce")
	n.PlayCue(owner, "Reinforce")

	// Act
	clock.Advance(time.Second)
	n.PlayCue(owner, "Reinforce")

	// Assert
	assert.Len(t, n.Recent(), 2)
	assert.Equal(t, 1, n.Dropped())
}
