// Package scheduler implements the fixed-cadence output loop that is the
// real-time heart of the system. Each tick reads the evaluated universe,
// encodes it into a DMX frame, and writes it to the serial transport.
package scheduler

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vulcan-lighting/vulcan/src/dmx"
	"github.com/vulcan-lighting/vulcan/src/scheduler/state"
	"github.com/vulcan-lighting/vulcan/src/transport"
)

// Scheduler emits one DMX frame per tick at a fixed cadence. It starts
// Idle, transitions to Running when Run is called, and transitions to the
// terminal Stopped state on unrecoverable transport failure or explicit
// shutdown. A silently degraded lighting output is worse than a visible
// halt, so there is no retry-to-degraded-mode.
type Scheduler struct {
	state.Manager

	universe *dmx.UniverseState
	trans    transport.Transport
	period   time.Duration

	controlTimer *ControlTimer

	frameCount uint64
	lastTick   int64 // nanoseconds of work in the last tick

	shutdownCh chan struct{}
	shutdown   sync.Once

	logger *logrus.Entry
}

// NewScheduler returns an Idle scheduler. refreshRate is the target frame
// rate in Hz; DMX convention puts it in the 30-44 range.
func NewScheduler(
	universe *dmx.UniverseState,
	trans transport.Transport,
	refreshRate int,
	logger *logrus.Entry,
) *Scheduler {
	return &Scheduler{
		universe:     universe,
		trans:        trans,
		period:       time.Second / time.Duration(refreshRate),
		controlTimer: NewFixedControlTimer(),
		shutdownCh:   make(chan struct{}),
		logger:       logger,
	}
}

// Run transitions to Running and ticks until shutdown or transport
// failure. It blocks for the life of the scheduler. It returns nil after
// an explicit Shutdown, or the transport error that halted the output.
//
// The loop targets a fixed wall-clock period. If a tick's work overruns
// the period, the next tick fires immediately; missed ticks are never
// queued, since DMX has no notion of catching up, only of the most recent
// state.
func (s *Scheduler) Run() error {
	s.SetState(state.Running)

	s.logger.WithField("period", s.period).Debug("Output scheduler running")

	go s.controlTimer.Run(s.period)
	defer s.controlTimer.Shutdown()

	for {
		select {
		case <-s.controlTimer.tickCh:
			start := time.Now()

			if err := s.tick(); err != nil {
				s.SetState(state.Stopped)
				s.logger.WithError(err).Error("DMX output halted on transport failure")
				return err
			}

			elapsed := time.Since(start)
			atomic.StoreInt64(&s.lastTick, int64(elapsed))

			s.controlTimer.Reset(s.period - elapsed)

		case <-s.shutdownCh:
			s.SetState(state.Stopped)
			s.logger.Debug("Output scheduler shutdown")
			return nil
		}
	}
}

// Shutdown stops the output loop. It is safe to call more than once and
// from any goroutine.
func (s *Scheduler) Shutdown() {
	s.shutdown.Do(func() {
		close(s.shutdownCh)
	})
}

// tick emits a single frame: evaluated universe -> frame codec -> break ->
// data bytes.
func (s *Scheduler) tick() error {
	frame := dmx.EncodeFrame(s.universe.Snapshot())

	if err := s.trans.SendBreak(); err != nil {
		return err
	}
	if err := s.trans.Write(frame); err != nil {
		return err
	}

	atomic.AddUint64(&s.frameCount, 1)

	return nil
}

// Stats ...
type Stats struct {
	State      string `json:"state"`
	FrameCount uint64 `json:"frameCount"`
	LastTick   string `json:"lastTick"`
	Period     string `json:"period"`
}

// GetStats returns a point-in-time view of the scheduler for diagnostics.
func (s *Scheduler) GetStats() Stats {
	return Stats{
		State:      s.GetState().String(),
		FrameCount: atomic.LoadUint64(&s.frameCount),
		LastTick:   time.Duration(atomic.LoadInt64(&s.lastTick)).String(),
		Period:     s.period.String(),
	}
}

// FrameCount returns the number of frames emitted since startup.
func (s *Scheduler) FrameCount() uint64 {
	return atomic.LoadUint64(&s.frameCount)
}
