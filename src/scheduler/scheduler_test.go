package scheduler

import (
	"testing"
	"time"

	"github.com/vulcan-lighting/vulcan/src/common"
	"github.com/vulcan-lighting/vulcan/src/dmx"
	"github.com/vulcan-lighting/vulcan/src/scheduler/state"
	"github.com/vulcan-lighting/vulcan/src/transport"
)

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestSchedulerEmitsFrames(t *testing.T) {
	universe := dmx.NewUniverseState()
	trans := transport.NewInmemTransport()

	sched := NewScheduler(universe, trans, 40, common.NewTestEntry(t))

	if s := sched.GetState(); s != state.Idle {
		t.Fatalf("scheduler should start Idle, not %v", s)
	}

	errCh := make(chan error, 1)
	go func() { errCh <- sched.Run() }()

	waitFor(t, "frames", func() bool { return sched.FrameCount() >= 3 })

	if s := sched.GetState(); s != state.Running {
		t.Fatalf("scheduler should be Running, not %v", s)
	}

	sched.Shutdown()

	if err := <-errCh; err != nil {
		t.Fatalf("Run should return nil on explicit shutdown, not %v", err)
	}

	if s := sched.GetState(); s != state.Stopped {
		t.Fatalf("scheduler should be Stopped after shutdown, not %v", s)
	}

	frames := trans.Frames()
	if len(frames) < 3 {
		t.Fatalf("at least 3 frames should be written, not %d", len(frames))
	}

	for i, frame := range frames {
		if len(frame) != dmx.FrameSize {
			t.Fatalf("frame %d should contain %d bytes, not %d", i, dmx.FrameSize, len(frame))
		}
		if frame[0] != dmx.StartCode {
			t.Fatalf("frame %d start code should be 0x00, not 0x%02X", i, frame[0])
		}
	}

	if trans.Breaks() < len(frames) {
		t.Fatalf("every frame should be preceded by a break: %d breaks for %d frames",
			trans.Breaks(), len(frames))
	}
}

func TestSchedulerReflectsMutations(t *testing.T) {
	universe := dmx.NewUniverseState()
	trans := transport.NewInmemTransport()

	sched := NewScheduler(universe, trans, 40, common.NewTestEntry(t))

	go sched.Run()
	defer sched.Shutdown()

	loaded := make([]byte, dmx.UniverseSize)
	loaded[41] = 200
	if err := universe.Load(loaded); err != nil {
		t.Fatal(err)
	}

	before := sched.FrameCount()
	waitFor(t, "post-load frame", func() bool { return sched.FrameCount() > before })

	frames := trans.Frames()
	last := frames[len(frames)-1]

	// frame[0] is the start code, so channel 42 is at offset 42.
	if last[42] != 200 {
		t.Fatalf("channel 42 should be 200 in the emitted frame, not %d", last[42])
	}
}

func TestSchedulerStopsOnTransportFailure(t *testing.T) {
	universe := dmx.NewUniverseState()
	trans := transport.NewInmemTransport()
	trans.FailOnWrite(2)

	sched := NewScheduler(universe, trans, 40, common.NewTestEntry(t))

	errCh := make(chan error, 1)
	go func() { errCh <- sched.Run() }()

	err := <-errCh
	if err == nil {
		t.Fatal("Run should return the transport error")
	}
	if _, ok := err.(transport.TransportErr); !ok {
		t.Fatalf("error should be a TransportErr, not %T", err)
	}

	if s := sched.GetState(); s != state.Stopped {
		t.Fatalf("scheduler should be Stopped after a write failure, not %v", s)
	}

	// Stopped is terminal; no frames may follow the failure.
	n := len(trans.Frames())
	time.Sleep(100 * time.Millisecond)
	if len(trans.Frames()) != n {
		t.Fatal("no frames should be emitted after the scheduler stopped")
	}
}
