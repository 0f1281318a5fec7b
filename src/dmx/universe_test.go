package dmx

import "testing"

func TestUniverseBounds(t *testing.T) {
	u := NewUniverse()

	u.Set(1, 255)
	u.Set(512, 128)

	// Out-of-range sets are ignored, out-of-range gets read as zero.
	u.Set(0, 77)
	u.Set(513, 77)

	if v := u.Get(1); v != 255 {
		t.Fatalf("channel 1 should be 255, not %d", v)
	}
	if v := u.Get(512); v != 128 {
		t.Fatalf("channel 512 should be 128, not %d", v)
	}
	if v := u.Get(0); v != 0 {
		t.Fatalf("channel 0 should read as 0, not %d", v)
	}
	if v := u.Get(513); v != 0 {
		t.Fatalf("channel 513 should read as 0, not %d", v)
	}

	b := u.Bytes()
	if len(b) != UniverseSize {
		t.Fatalf("Bytes should contain %d values, not %d", UniverseSize, len(b))
	}
	if b[0] != 255 || b[511] != 128 {
		t.Fatal("Bytes should be in wire order, zero-indexed")
	}

	// Bytes returns a copy; mutating it must not affect the universe.
	b[0] = 0
	if v := u.Get(1); v != 255 {
		t.Fatalf("mutating the Bytes copy should not affect the universe, channel 1 became %d", v)
	}
}
