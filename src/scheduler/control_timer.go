package scheduler

import (
	"time"
)

type timerFactory func(time.Duration) <-chan time.Time

// ControlTimer paces the output loop. Unlike a free-running ticker it is
// re-armed explicitly after each tick's work, which lets the loop fire
// the next tick immediately after an overrun instead of queueing a
// backlog of missed ticks.
type ControlTimer struct {
	timerFactory timerFactory
	tickCh       chan struct{}      //sends a signal to the listening process
	resetCh      chan time.Duration //receives instruction to re-arm the timer
	shutdownCh   chan struct{}      //receives instruction to exit Run loop
}

// NewControlTimer ...
func NewControlTimer(timerFactory timerFactory) *ControlTimer {
	return &ControlTimer{
		timerFactory: timerFactory,
		tickCh:       make(chan struct{}),
		resetCh:      make(chan time.Duration),
		shutdownCh:   make(chan struct{}),
	}
}

// NewFixedControlTimer returns a ControlTimer backed by the wall clock.
func NewFixedControlTimer() *ControlTimer {
	return NewControlTimer(func(d time.Duration) <-chan time.Time {
		return time.After(d)
	})
}

// Run fires the timer until Shutdown is called. init is the delay before
// the first tick.
func (c *ControlTimer) Run(init time.Duration) {
	timer := c.timerFactory(init)
	for {
		select {
		case <-timer:
			select {
			case c.tickCh <- struct{}{}:
			case <-c.shutdownCh:
				return
			}
			timer = nil
		case t := <-c.resetCh:
			timer = c.timerFactory(t)
		case <-c.shutdownCh:
			return
		}
	}
}

// Reset re-arms the timer to fire after t. A non-positive t fires the
// next tick immediately.
func (c *ControlTimer) Reset(t time.Duration) {
	if t < 0 {
		t = 0
	}
	select {
	case c.resetCh <- t:
	case <-c.shutdownCh:
	}
}

// Shutdown ...
func (c *ControlTimer) Shutdown() {
	close(c.shutdownCh)
}
