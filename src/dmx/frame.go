package dmx

import "fmt"

// StartCode is the DMX512 null start code that precedes the channel data
// in every frame.
const StartCode = 0x00

// FrameSize is the size of an encoded frame: the start code plus the 512
// channel values.
const FrameSize = UniverseSize + 1

// EncodeFrame encodes 512 channel values into the data portion of a
// DMX512 wire frame: the 0x00 start code followed by the 512 values in
// wire order. The break and mark-after-break that precede the data on the
// wire are timing properties of the transport, not bytes, and are the
// transport's responsibility.
//
// EncodeFrame panics if values does not contain exactly 512 bytes; a
// caller presenting anything else has broken the programming contract.
func EncodeFrame(values []byte) []byte {
	if len(values) != UniverseSize {
		panic(fmt.Sprintf("dmx: EncodeFrame requires %d values, got %d", UniverseSize, len(values)))
	}

	frame := make([]byte, FrameSize)
	frame[0] = StartCode
	copy(frame[1:], values)

	return frame
}

// DecodeFrame recovers the 512 channel values from an encoded frame. It
// is the inverse of EncodeFrame and is used for diagnostics and tests.
func DecodeFrame(frame []byte) ([]byte, error) {
	if len(frame) != FrameSize {
		return nil, fmt.Errorf("dmx: frame should contain %d bytes, not %d", FrameSize, len(frame))
	}
	if frame[0] != StartCode {
		return nil, fmt.Errorf("dmx: frame start code should be 0x%02X, not 0x%02X", StartCode, frame[0])
	}

	values := make([]byte, UniverseSize)
	copy(values, frame[1:])

	return values, nil
}
