package dmx

// UniverseSize is the number of channels in a DMX512 universe.
const UniverseSize = 512

// Universe holds one set of DMX channel values.
//
// NOTE: the channels are internally zero-indexed, rather than the
// one-indexed standard of DMX.
type Universe struct {
	values [UniverseSize]byte
}

// NewUniverse returns a new universe with all channels at zero.
func NewUniverse() *Universe {
	return &Universe{}
}

// Get returns the value of a particular 1-based channel. Out-of-range
// channels read as zero.
func (u *Universe) Get(channel int) byte {
	if channel < 1 || channel > UniverseSize {
		return 0
	}
	return u.values[channel-1]
}

// Set sets the value of a particular 1-based channel. Out-of-range
// channels are ignored.
func (u *Universe) Set(channel int, value byte) {
	if channel < 1 || channel > UniverseSize {
		return
	}
	u.values[channel-1] = value
}

// Bytes returns a copy of the channel values in wire order.
//
// CAUTION: these bytes are zero-indexed.
func (u *Universe) Bytes() []byte {
	out := make([]byte, UniverseSize)
	copy(out, u.values[:])
	return out
}

// SetBytes replaces all channel values verbatim. The input must contain
// exactly UniverseSize values.
func (u *Universe) SetBytes(values []byte) {
	copy(u.values[:], values)
}
