// Package transport provides the serial output capability consumed by the
// output scheduler. The core treats the DMX link as a byte-stream sink
// plus a "signal break" primitive, not as a concrete device driver.
package transport

import "fmt"

// Transport is the capability the output scheduler writes DMX frames to.
//
// DMX512 framing requires each frame to be preceded by a break condition
// held for at least 88 microseconds, followed by a mark-after-break of at
// least 8 microseconds. SendBreak must honor both timings before
// returning; a transport that cannot express a break natively must emit
// whatever device-specific priming sequence achieves the same timing.
type Transport interface {

	// SendBreak signals the break and mark-after-break that precede a frame.
	SendBreak() error

	// Write sends the encoded frame bytes. Write must be bounded; an
	// unbounded hang is treated as fatal by the scheduler.
	Write(frame []byte) error

	// Close permanently closes the transport.
	Close() error
}

// TransportErr wraps a failure of the serial link. Open failures are
// fatal at startup; write or break failures are fatal for the output
// scheduler mid-run.
type TransportErr struct {
	Op  string
	Err error
}

// Error ...
func (e TransportErr) Error() string {
	return fmt.Sprintf("transport %s: %v", e.Op, e.Err)
}

// Unwrap ...
func (e TransportErr) Unwrap() error {
	return e.Err
}
