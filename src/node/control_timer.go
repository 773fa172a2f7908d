package node

import (
	"time"
)

// timerFactory returns a channel that fires once after the given duration.
// Tests replace it to fire timers by hand.
type timerFactory func(time.Duration) <-chan time.Time

func defaultTimerFactory(d time.Duration) <-chan time.Time {
	return time.After(d)
}

// RumorTimer is the retransmission timer of a single rumor. It belongs to the
// RumorState it was created for and is never shared between rumors. An unset
// timer has a nil channel, which blocks forever in a select.
type RumorTimer struct {
	timerFactory timerFactory
	timeout      time.Duration
	c            <-chan time.Time
	set          bool
}

// NewRumorTimer ...
func NewRumorTimer(timerFactory timerFactory, timeout time.Duration) *RumorTimer {
	return &RumorTimer{
		timerFactory: timerFactory,
		timeout:      timeout,
	}
}

// Arm (re)starts the countdown.
func (t *RumorTimer) Arm() {
	t.c = t.timerFactory(t.timeout)
	t.set = true
}

// Cancel stops the countdown. A tick that is already pending is dropped along
// with the channel.
func (t *RumorTimer) Cancel() {
	t.c = nil
	t.set = false
}

// Fired marks the countdown as elapsed. The timer must be armed again to
// fire another tick.
func (t *RumorTimer) Fired() {
	t.c = nil
	t.set = false
}

// C returns the channel of the current countdown, nil when the timer is not
// set.
func (t *RumorTimer) C() <-chan time.Time {
	if t == nil {
		return nil
	}
	return t.c
}

// IsSet ...
func (t *RumorTimer) IsSet() bool {
	return t != nil && t.set
}
