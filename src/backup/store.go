// Package backup replicates universe snapshots to a durable store, and
// restores the last snapshot at startup. Replication is best-effort and
// never blocks or delays the output scheduler.
package backup

import "errors"

// ErrNoSnapshot is returned by GetSnapshot when the store is reachable
// but holds no prior snapshot.
var ErrNoSnapshot = errors.New("backup: no snapshot")

// SnapshotStore is an interface for snapshot store backends. The engine
// only ever writes one value under one well-known key, reads it back once
// at startup, and deletes it on clean shutdown.
type SnapshotStore interface {
	// SetSnapshot writes the encoded snapshot under the well-known key.
	SetSnapshot(data []byte) error
	// GetSnapshot reads the encoded snapshot back, or ErrNoSnapshot.
	GetSnapshot() ([]byte, error)
	// DeleteSnapshot removes the snapshot, if any.
	DeleteSnapshot() error
	// Close closes the underlying connection or database.
	Close() error
}
