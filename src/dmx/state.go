package dmx

import (
	"sync"
	"time"

	"github.com/vulcan-lighting/vulcan/src/common"
)

// UniverseState is the authoritative universe: the 512 channel values,
// the table of active fades, and a monotonic version counter. It is the
// only resource shared between the output scheduler, the command gateway,
// and the backup syncer, and every operation is atomic with respect to
// the others.
type UniverseState struct {
	sync.Mutex

	universe *Universe
	fades    fadeTable
	version  uint64
	dirty    bool
}

// NewUniverseState returns a universe state with all channels at zero and
// no active fades.
func NewUniverseState() *UniverseState {
	return &UniverseState{
		universe: NewUniverse(),
		fades:    fadeTable{},
	}
}

// Load replaces all 512 channel values verbatim and clears every active
// fade; a fade in progress is superseded by an explicit absolute load.
func (s *UniverseState) Load(values []byte) error {
	if len(values) != UniverseSize {
		return common.NewValidationErr("universe", len(values), common.BadLength)
	}

	s.Lock()
	defer s.Unlock()

	s.universe.SetBytes(values)
	s.fades = fadeTable{}
	s.touch()

	return nil
}

// PlayFade registers a linear fade of one channel towards a target value.
// It returns immediately; the fade completes asynchronously through
// subsequent evaluations. A fade already in flight on the same channel is
// replaced, starting from its currently interpolated value so that the
// output never jumps at the moment of replacement.
func (s *UniverseState) PlayFade(channel int, value int, duration time.Duration) error {
	if channel < 1 || channel > UniverseSize {
		return common.NewValidationErr("channel", channel, common.OutOfRange)
	}
	if value < 0 || value > 255 {
		return common.NewValidationErr("value", value, common.OutOfRange)
	}
	if duration < 0 {
		return common.NewValidationErr("duration", duration, common.Negative)
	}

	s.playFadeAt(channel, byte(value), duration, time.Now())

	return nil
}

// playFadeAt inserts a validated fade at an arbitrary instant. Split from
// PlayFade so that tests can drive the clock.
func (s *UniverseState) playFadeAt(channel int, value byte, duration time.Duration, now time.Time) {
	s.Lock()
	defer s.Unlock()

	current := s.evaluateChannel(channel, now)
	s.fades.insertOrReplace(channel, current, value, duration, now)
	s.touch()
}

// Snapshot returns the fully-evaluated current values, after applying
// fade interpolation at the current instant. This is the same computation
// used for output, exposed for backup and diagnostics.
func (s *UniverseState) Snapshot() []byte {
	return s.SnapshotAt(time.Now())
}

// SnapshotAt is Snapshot evaluated at an arbitrary instant. Completed
// fades are committed to the universe and purged from the table on the
// evaluation that observes their completion.
func (s *UniverseState) SnapshotAt(now time.Time) []byte {
	s.Lock()
	defer s.Unlock()

	for channel := range s.fades {
		s.evaluateChannel(channel, now)
	}

	return s.universe.Bytes()
}

// Get returns the evaluated value of a single 1-based channel at the
// current instant. Out-of-range channels read as zero.
func (s *UniverseState) Get(channel int) byte {
	now := time.Now()

	s.Lock()
	defer s.Unlock()

	return s.evaluateChannel(channel, now)
}

// Version returns the monotonic version counter. It increments on every
// accepted mutation.
func (s *UniverseState) Version() uint64 {
	s.Lock()
	defer s.Unlock()

	return s.version
}

// TakeDirty returns the latest snapshot and clears the dirty flag, or
// (nil, false) if no mutation was accepted since the last call. The
// backup syncer calls it at each cadence boundary, which coalesces rapid
// mutations into a single write.
func (s *UniverseState) TakeDirty() (*Snapshot, bool) {
	now := time.Now()

	s.Lock()
	defer s.Unlock()

	if !s.dirty {
		return nil, false
	}
	s.dirty = false

	for channel := range s.fades {
		s.evaluateChannel(channel, now)
	}

	return &Snapshot{
		Version: s.version,
		Values:  s.universe.Bytes(),
	}, true
}

// MarkDirty re-arms the dirty flag without touching the version. The
// backup syncer uses it after a failed push so that the next cadence
// boundary retries.
func (s *UniverseState) MarkDirty() {
	s.Lock()
	defer s.Unlock()

	s.dirty = true
}

// FadeCount returns the number of fades currently in flight.
func (s *UniverseState) FadeCount() int {
	s.Lock()
	defer s.Unlock()

	return len(s.fades)
}

// evaluateChannel returns the value of one channel at a given instant,
// applying the active fade if there is one. Every evaluation is committed
// to the universe so that snapshots read fully-evaluated values; a fade
// observed complete is additionally purged from the table. Callers must
// hold the lock.
func (s *UniverseState) evaluateChannel(channel int, now time.Time) byte {
	f, ok := s.fades[channel]
	if !ok {
		return s.universe.Get(channel)
	}

	value, done := f.valueAt(now)

	s.universe.Set(channel, value)
	if done {
		s.fades.clear(channel)
	}

	return value
}

// touch records an accepted mutation. Callers must hold the lock.
func (s *UniverseState) touch() {
	s.version++
	s.dirty = true
}
