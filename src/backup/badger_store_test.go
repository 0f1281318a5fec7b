package backup

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/vulcan-lighting/vulcan/src/dmx"
)

func TestBadgerStoreSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "badger_db")

	store, err := LoadOrCreateBadgerStore(path)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	if _, err := store.GetSnapshot(); err != ErrNoSnapshot {
		t.Fatalf("a fresh database should hold no snapshot, got %v", err)
	}

	snapshot := &dmx.Snapshot{
		Version: 7,
		Values:  make([]byte, dmx.UniverseSize),
	}
	snapshot.Values[0] = 255

	data, err := snapshot.Marshal()
	if err != nil {
		t.Fatal(err)
	}

	if err := store.SetSnapshot(data); err != nil {
		t.Fatal(err)
	}

	got, err := store.GetSnapshot()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, data) {
		t.Fatal("read snapshot should equal the written snapshot")
	}

	decoded := &dmx.Snapshot{}
	if err := decoded.Unmarshal(got); err != nil {
		t.Fatal(err)
	}
	if decoded.Version != 7 {
		t.Fatalf("snapshot version should be 7, not %d", decoded.Version)
	}
	if decoded.Values[0] != 255 {
		t.Fatalf("channel 1 should be 255, not %d", decoded.Values[0])
	}

	if err := store.DeleteSnapshot(); err != nil {
		t.Fatal(err)
	}
	if _, err := store.GetSnapshot(); err != ErrNoSnapshot {
		t.Fatalf("the snapshot should be gone after delete, got %v", err)
	}

	// Deleting again is a no-op, as on a clean shutdown with no backup.
	if err := store.DeleteSnapshot(); err != nil {
		t.Fatal(err)
	}
}

func TestBadgerStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "badger_db")

	store, err := LoadOrCreateBadgerStore(path)
	if err != nil {
		t.Fatal(err)
	}

	if err := store.SetSnapshot([]byte("payload")); err != nil {
		t.Fatal(err)
	}
	if err := store.Close(); err != nil {
		t.Fatal(err)
	}

	reopened, err := LoadOrCreateBadgerStore(path)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()

	got, err := reopened.GetSnapshot()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, []byte("payload")) {
		t.Fatal("snapshot should survive a database reopen")
	}
}
