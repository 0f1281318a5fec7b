package backup

import (
	"bytes"
	"testing"
	"time"

	"github.com/vulcan-lighting/vulcan/src/common"
	"github.com/vulcan-lighting/vulcan/src/dmx"
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

func TestSyncerPushAndRestore(t *testing.T) {
	universe := dmx.NewUniverseState()
	store := NewInmemStore()

	syncer := NewSyncer(universe, store, 10*time.Millisecond, common.NewTestEntry(t))

	values := make([]byte, dmx.UniverseSize)
	values[0] = 255
	values[1] = 150
	if err := universe.Load(values); err != nil {
		t.Fatal(err)
	}

	go syncer.Run()

	waitFor(t, "push", func() bool { return store.Sets() > 0 })

	syncer.Shutdown()

	// A second syncer on the same store plays the restart.
	restored := NewSyncer(dmx.NewUniverseState(), store, time.Second, common.NewTestEntry(t))

	got, ok := restored.Restore()
	if !ok {
		t.Fatal("Restore should find the pushed snapshot")
	}
	if !bytes.Equal(got, values) {
		t.Fatal("restored values should equal the pushed values")
	}
}

func TestSyncerCoalescesPushes(t *testing.T) {
	universe := dmx.NewUniverseState()
	store := NewInmemStore()

	syncer := NewSyncer(universe, store, 50*time.Millisecond, common.NewTestEntry(t))

	go syncer.Run()

	// Mutate much faster than the cadence.
	for i := 0; i < 100; i++ {
		if err := universe.PlayFade(1, i%256, 0); err != nil {
			t.Fatal(err)
		}
		time.Sleep(time.Millisecond)
	}

	syncer.Shutdown()

	// 100 mutations over ~100ms at a 50ms cadence: a handful of writes at
	// most, never one per mutation.
	if sets := store.Sets(); sets > 10 {
		t.Fatalf("pushes should be coalesced to cadence boundaries, got %d writes", sets)
	}

	if v := universe.Version(); v != 100 {
		t.Fatalf("all 100 mutations should have been accepted, version is %d", v)
	}
}

func TestSyncerRetriesAfterFailure(t *testing.T) {
	universe := dmx.NewUniverseState()
	store := NewInmemStore()
	store.SetFailing(true)

	syncer := NewSyncer(universe, store, 10*time.Millisecond, common.NewTestEntry(t))

	if err := universe.PlayFade(1, 255, 0); err != nil {
		t.Fatal(err)
	}

	go syncer.Run()

	// Let a few failing boundaries pass, then heal the store.
	time.Sleep(50 * time.Millisecond)
	if store.Sets() != 0 {
		t.Fatal("no writes should succeed while the store is failing")
	}

	store.SetFailing(false)

	waitFor(t, "retried push", func() bool { return store.Sets() > 0 })

	syncer.Shutdown()
}

func TestRestoreFailuresAreNotFatal(t *testing.T) {
	t.Run("No Snapshot", func(t *testing.T) {
		syncer := NewSyncer(dmx.NewUniverseState(), NewInmemStore(), time.Second, common.NewTestEntry(t))
		if _, ok := syncer.Restore(); ok {
			t.Fatal("Restore should report nothing on an empty store")
		}
	})

	t.Run("Unreachable Store", func(t *testing.T) {
		store := NewInmemStore()
		store.SetFailing(true)

		syncer := NewSyncer(dmx.NewUniverseState(), store, time.Second, common.NewTestEntry(t))
		if _, ok := syncer.Restore(); ok {
			t.Fatal("Restore should report nothing on an unreachable store")
		}
	})

	t.Run("Malformed Snapshot", func(t *testing.T) {
		store := NewInmemStore()
		if err := store.SetSnapshot([]byte("not a snapshot")); err != nil {
			t.Fatal(err)
		}

		syncer := NewSyncer(dmx.NewUniverseState(), store, time.Second, common.NewTestEntry(t))
		if _, ok := syncer.Restore(); ok {
			t.Fatal("Restore should report nothing on a malformed snapshot")
		}
	})
}

func TestSyncerCleanup(t *testing.T) {
	universe := dmx.NewUniverseState()
	store := NewInmemStore()

	syncer := NewSyncer(universe, store, 10*time.Millisecond, common.NewTestEntry(t))

	if err := universe.PlayFade(1, 255, 0); err != nil {
		t.Fatal(err)
	}

	go syncer.Run()
	waitFor(t, "push", func() bool { return store.Sets() > 0 })

	syncer.Shutdown()
	syncer.Cleanup()

	if _, err := store.GetSnapshot(); err != ErrNoSnapshot {
		t.Fatalf("Cleanup should remove the snapshot, got %v", err)
	}
}
