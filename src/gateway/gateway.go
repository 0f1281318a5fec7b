// Package gateway translates inbound load and fade requests into universe
// mutations. It is the boundary between the network layer and the
// real-time engine: requests are validated here and either applied or
// rejected with the offending field, and they block only for the duration
// of the universe's critical section, never on I/O.
package gateway

import (
	"time"

	"github.com/vulcan-lighting/vulcan/src/dmx"
)

// Gateway wraps the universe state's mutation operations. It holds no
// state of its own.
type Gateway struct {
	universe *dmx.UniverseState
}

// NewGateway ...
func NewGateway(universe *dmx.UniverseState) *Gateway {
	return &Gateway{
		universe: universe,
	}
}

// HandleLoad replaces the full universe. It returns a ValidationErr if
// values does not contain exactly 512 bytes.
func (g *Gateway) HandleLoad(values []byte) error {
	return g.universe.Load(values)
}

// HandleFade starts a linear fade of one channel. channel and value are
// accepted as wide integers so that out-of-range inputs from the network
// layer reach validation instead of being truncated at decode time. It
// returns a ValidationErr naming the offending field on rejection.
func (g *Gateway) HandleFade(channel int, value int, duration time.Duration) error {
	return g.universe.PlayFade(channel, value, duration)
}
