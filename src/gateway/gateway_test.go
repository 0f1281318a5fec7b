package gateway

import (
	"testing"
	"time"

	"github.com/vulcan-lighting/vulcan/src/common"
	"github.com/vulcan-lighting/vulcan/src/dmx"
)

func TestGatewayHandleFade(t *testing.T) {
	universe := dmx.NewUniverseState()
	gw := NewGateway(universe)

	if err := gw.HandleFade(1, 255, time.Second); err != nil {
		t.Fatal(err)
	}

	if n := universe.FadeCount(); n != 1 {
		t.Fatalf("one fade should be in flight, not %d", n)
	}

	cases := []struct {
		name    string
		channel int
		value   int
		dur     time.Duration
		errType common.ValidationErrType
		field   string
	}{
		{"Channel Too Low", 0, 100, 0, common.OutOfRange, "channel"},
		{"Channel Too High", 513, 100, 0, common.OutOfRange, "channel"},
		{"Value Too High", 1, 300, 0, common.OutOfRange, "value"},
		{"Value Negative", 1, -5, 0, common.OutOfRange, "value"},
		{"Duration Negative", 1, 100, -time.Second, common.Negative, "duration"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := gw.HandleFade(c.channel, c.value, c.dur)
			if !common.IsValidation(err, c.errType) {
				t.Fatalf("request should be rejected, got %v", err)
			}

			validationErr := err.(common.ValidationErr)
			if validationErr.Field() != c.field {
				t.Fatalf("offending field should be %q, not %q", c.field, validationErr.Field())
			}
		})
	}

	// Rejections must not disturb the universe.
	if n := universe.FadeCount(); n != 1 {
		t.Fatalf("rejected requests should not add fades, %d in flight", n)
	}
}

func TestGatewayHandleLoad(t *testing.T) {
	universe := dmx.NewUniverseState()
	gw := NewGateway(universe)

	if err := gw.HandleLoad(make([]byte, 42)); !common.IsValidation(err, common.BadLength) {
		t.Fatalf("a 42-byte universe should be rejected BadLength, got %v", err)
	}

	values := make([]byte, dmx.UniverseSize)
	values[7] = 100
	if err := gw.HandleLoad(values); err != nil {
		t.Fatal(err)
	}

	if v := universe.Get(8); v != 100 {
		t.Fatalf("channel 8 should be 100 after load, not %d", v)
	}
}
