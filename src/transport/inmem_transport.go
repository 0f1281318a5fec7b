package transport

import (
	"errors"
	"sync"
)

// InmemTransport implements the Transport interface, to allow the output
// scheduler to be tested in-memory without a serial device. It records
// every frame written, and can be armed to fail.
type InmemTransport struct {
	sync.Mutex

	frames [][]byte
	breaks int
	closed bool
	failAt int // fail the Nth write (1-based); 0 means never
}

// NewInmemTransport is used to initialize a new in-memory transport.
func NewInmemTransport() *InmemTransport {
	return &InmemTransport{}
}

// SendBreak implements the Transport interface.
func (i *InmemTransport) SendBreak() error {
	i.Lock()
	defer i.Unlock()

	if i.closed {
		return TransportErr{Op: "break", Err: errors.New("transport closed")}
	}

	i.breaks++

	return nil
}

// Write implements the Transport interface.
func (i *InmemTransport) Write(frame []byte) error {
	i.Lock()
	defer i.Unlock()

	if i.closed {
		return TransportErr{Op: "write", Err: errors.New("transport closed")}
	}

	if i.failAt > 0 && len(i.frames)+1 >= i.failAt {
		return TransportErr{Op: "write", Err: errors.New("injected failure")}
	}

	cp := make([]byte, len(frame))
	copy(cp, frame)
	i.frames = append(i.frames, cp)

	return nil
}

// Close implements the Transport interface.
func (i *InmemTransport) Close() error {
	i.Lock()
	defer i.Unlock()

	i.closed = true

	return nil
}

// FailOnWrite arms the transport to fail on the nth subsequent write.
func (i *InmemTransport) FailOnWrite(n int) {
	i.Lock()
	defer i.Unlock()

	i.failAt = len(i.frames) + n
}

// Frames returns the frames written so far.
func (i *InmemTransport) Frames() [][]byte {
	i.Lock()
	defer i.Unlock()

	out := make([][]byte, len(i.frames))
	copy(out, i.frames)

	return out
}

// Breaks returns the number of breaks signalled so far.
func (i *InmemTransport) Breaks() int {
	i.Lock()
	defer i.Unlock()

	return i.breaks
}
