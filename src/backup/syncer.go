package backup

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vulcan-lighting/vulcan/src/dmx"
)

// Syncer replicates universe snapshots to a SnapshotStore on a bounded
// cadence. Pushes are coalesced: if the universe is mutated faster than
// the cadence, only the latest snapshot at each cadence boundary is
// written. A push failure is logged and retried at the next boundary; it
// never blocks the output path, because the syncer runs on its own
// goroutine and reads the universe only through its mutex-guarded
// TakeDirty operation.
type Syncer struct {
	universe *dmx.UniverseState
	store    SnapshotStore
	cadence  time.Duration

	shutdownCh chan struct{}
	doneCh     chan struct{}
	shutdown   sync.Once

	logger *logrus.Entry
}

// NewSyncer ...
func NewSyncer(
	universe *dmx.UniverseState,
	store SnapshotStore,
	cadence time.Duration,
	logger *logrus.Entry,
) *Syncer {
	return &Syncer{
		universe:   universe,
		store:      store,
		cadence:    cadence,
		shutdownCh: make(chan struct{}),
		doneCh:     make(chan struct{}),
		logger:     logger,
	}
}

// Restore reads the last snapshot from the store and returns its channel
// values. It is called once, at startup, before the output scheduler
// starts. Any failure (store unreachable, no prior snapshot, malformed
// data) returns false and the universe starts all-zero; none of these is
// fatal.
func (s *Syncer) Restore() ([]byte, bool) {
	data, err := s.store.GetSnapshot()
	if err == ErrNoSnapshot {
		s.logger.Debug("No prior snapshot on backup store")
		return nil, false
	}
	if err != nil {
		s.logger.WithError(err).Error("Unable to read backup store")
		return nil, false
	}

	snapshot := &dmx.Snapshot{}
	if err := snapshot.Unmarshal(data); err != nil {
		s.logger.WithError(err).Error("Malformed snapshot on backup store")
		return nil, false
	}
	if len(snapshot.Values) != dmx.UniverseSize {
		s.logger.WithField("length", len(snapshot.Values)).Error("Malformed snapshot on backup store")
		return nil, false
	}

	s.logger.WithField("version", snapshot.Version).Warn("Detected lingering backup data. Reloading ...")

	return snapshot.Values, true
}

// Run pushes snapshots at each cadence boundary until Shutdown. It blocks
// and is meant to be launched on its own goroutine.
func (s *Syncer) Run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.cadence)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.push()
		case <-s.shutdownCh:
			// Flush whatever is pending. After a transport failure this
			// preserves the latest state for the restart.
			s.push()
			return
		}
	}
}

// Shutdown stops the sync loop and waits for it to finish. Safe to call
// more than once.
func (s *Syncer) Shutdown() {
	s.shutdown.Do(func() {
		close(s.shutdownCh)
	})
	<-s.doneCh
}

// Cleanup removes the snapshot from the store. It is called on clean
// shutdown only: a deliberately stopped controller should not resurrect
// its last universe on the next start, but a crashed one should.
func (s *Syncer) Cleanup() {
	if err := s.store.DeleteSnapshot(); err != nil {
		s.logger.WithError(err).Error("Unable to remove snapshot from backup store")
	}
}

// push writes the latest snapshot if the universe changed since the last
// boundary. On failure the dirty flag is re-armed for the next boundary.
func (s *Syncer) push() {
	snapshot, ok := s.universe.TakeDirty()
	if !ok {
		return
	}

	data, err := snapshot.Marshal()
	if err != nil {
		s.logger.WithError(err).Error("Unable to encode snapshot")
		return
	}

	if err := s.store.SetSnapshot(data); err != nil {
		s.logger.WithError(err).Error("Unable to push snapshot to backup store")
		s.universe.MarkDirty()
		return
	}

	s.logger.WithField("version", snapshot.Version).Debug("Pushed snapshot to backup store")
}
