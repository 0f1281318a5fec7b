package backup

import (
	"errors"
	"sync"
)

// InmemStore implements the SnapshotStore interface in memory. It is used
// in tests, and can be armed to fail to exercise the retry path.
type InmemStore struct {
	sync.Mutex

	data    []byte
	sets    int
	failing bool
}

// NewInmemStore ...
func NewInmemStore() *InmemStore {
	return &InmemStore{}
}

// SetSnapshot implements the SnapshotStore interface.
func (s *InmemStore) SetSnapshot(data []byte) error {
	s.Lock()
	defer s.Unlock()

	if s.failing {
		return errors.New("injected store failure")
	}

	cp := make([]byte, len(data))
	copy(cp, data)
	s.data = cp
	s.sets++

	return nil
}

// GetSnapshot implements the SnapshotStore interface.
func (s *InmemStore) GetSnapshot() ([]byte, error) {
	s.Lock()
	defer s.Unlock()

	if s.failing {
		return nil, errors.New("injected store failure")
	}
	if s.data == nil {
		return nil, ErrNoSnapshot
	}

	cp := make([]byte, len(s.data))
	copy(cp, s.data)

	return cp, nil
}

// DeleteSnapshot implements the SnapshotStore interface.
func (s *InmemStore) DeleteSnapshot() error {
	s.Lock()
	defer s.Unlock()

	if s.failing {
		return errors.New("injected store failure")
	}
	s.data = nil

	return nil
}

// Close implements the SnapshotStore interface.
func (s *InmemStore) Close() error {
	return nil
}

// SetFailing arms or disarms injected failures.
func (s *InmemStore) SetFailing(failing bool) {
	s.Lock()
	defer s.Unlock()

	s.failing = failing
}

// Sets returns the number of successful writes.
func (s *InmemStore) Sets() int {
	s.Lock()
	defer s.Unlock()

	return s.sets
}
