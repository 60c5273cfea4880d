package service

import (
	"sync/atomic"

	"github.com/benbjohnson/clock"
)

// CloseCountdown is the single-use coordinator gating one close attempt.
// It announces the countdown, ticks once per second on the injected clock,
// and checks its cancellation flag at every tick before doing anything
// else. A coordinator that never finishes (process restart) leaves the
// ticket OPEN with no record change, and the close is re-initiable.
type CloseCountdown struct {
	ChannelID string
	ActorID   string

	messageID string
	seconds   int
	clock     clock.Clock
	cancelled atomic.Bool
	done      chan struct{}
}

func newCloseCountdown(channelID, actorID string, seconds int, clk clock.Clock) *CloseCountdown {
	if seconds < 2 {
		seconds = 2
	}
	return &CloseCountdown{
		ChannelID: channelID,
		ActorID:   actorID,
		seconds:   seconds,
		clock:     clk,
		done:      make(chan struct{}),
	}
}

// Cancel flips the cancellation flag. It returns true only for the first
// caller; duplicate presses are no-ops. The tick loop observes the flag
// within one tick period.
func (c *CloseCountdown) Cancel() bool {
	return c.cancelled.CompareAndSwap(false, true)
}

// Cancelled reports whether the countdown has been cancelled.
func (c *CloseCountdown) Cancelled() bool {
	return c.cancelled.Load()
}

// Done is closed once the coordinator has fully resolved, whether by
// archival or cancellation.
func (c *CloseCountdown) Done() <-chan struct{} {
	return c.done
}

// MessageID returns the id of the public countdown announcement.
func (c *CloseCountdown) MessageID() string {
	return c.messageID
}
