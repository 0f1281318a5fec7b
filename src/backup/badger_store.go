package backup

import (
	"os"

	"github.com/dgraph-io/badger"
)

const snapshotKey = "vulcan:universe"

// BadgerStore keeps the snapshot in a local Badger database. It is the
// durable backend for deployments without a Redis server.
type BadgerStore struct {
	db   *badger.DB
	path string
}

// NewBadgerStore creates a brand new store with a new database.
func NewBadgerStore(path string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path)
	opts.SyncWrites = false
	opts.Logger = nil
	handle, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &BadgerStore{
		db:   handle,
		path: path,
	}, nil
}

// LoadOrCreateBadgerStore loads an existing database or creates a fresh
// one under path.
func LoadOrCreateBadgerStore(path string) (*BadgerStore, error) {
	if _, err := os.Stat(path); err != nil {
		if err := os.MkdirAll(path, 0700); err != nil {
			return nil, err
		}
	}
	return NewBadgerStore(path)
}

// SetSnapshot implements the SnapshotStore interface.
func (b *BadgerStore) SetSnapshot(data []byte) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(snapshotKey), data)
	})
}

// GetSnapshot implements the SnapshotStore interface.
func (b *BadgerStore) GetSnapshot() ([]byte, error) {
	var data []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(snapshotKey))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if err == badger.ErrKeyNotFound {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// DeleteSnapshot implements the SnapshotStore interface.
func (b *BadgerStore) DeleteSnapshot() error {
	return b.db.Update(func(txn *badger.Txn) error {
		err := txn.Delete([]byte(snapshotKey))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		return err
	})
}

// Close implements the SnapshotStore interface.
func (b *BadgerStore) Close() error {
	return b.db.Close()
}

// StorePath returns the filepath of the underlying database.
func (b *BadgerStore) StorePath() string {
	return b.path
}
