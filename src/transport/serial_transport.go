package transport

import (
	"time"

	"github.com/sirupsen/logrus"
	"go.bug.st/serial"
)

// DMX512 line parameters: 250kbaud, 8 data bits, no parity, 2 stop bits.
const (
	dmxBaudRate = 250000

	// breakDuration is how long the line is held in the break condition.
	// The standard requires at least 88us; most USB adapters cannot time
	// a break that short, so a comfortably longer break is used. Longer
	// breaks are valid DMX.
	breakDuration = time.Millisecond

	// markAfterBreak is the idle period between the break and the start
	// code. The standard requires at least 8us.
	markAfterBreak = 50 * time.Microsecond
)

// SerialTransport drives a USB-serial DMX adapter through a standard
// serial port device.
type SerialTransport struct {
	port   serial.Port
	device string
	logger *logrus.Entry
}

// NewSerialTransport opens the serial device at the given path with DMX
// line settings. An open failure is returned to the caller and is fatal
// at startup.
func NewSerialTransport(device string, logger *logrus.Entry) (*SerialTransport, error) {
	mode := &serial.Mode{
		BaudRate: dmxBaudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.TwoStopBits,
	}

	port, err := serial.Open(device, mode)
	if err != nil {
		return nil, TransportErr{Op: "open", Err: err}
	}

	logger.WithField("device", device).Debug("Opened DMX serial port")

	return &SerialTransport{
		port:   port,
		device: device,
		logger: logger,
	}, nil
}

// SendBreak holds the line in the break condition, then sleeps through
// the mark-after-break so the next Write starts a conformant frame.
func (t *SerialTransport) SendBreak() error {
	if err := t.port.Break(breakDuration); err != nil {
		return TransportErr{Op: "break", Err: err}
	}

	time.Sleep(markAfterBreak)

	return nil
}

// Write sends the encoded frame bytes down the wire.
func (t *SerialTransport) Write(frame []byte) error {
	if _, err := t.port.Write(frame); err != nil {
		return TransportErr{Op: "write", Err: err}
	}
	return nil
}

// Close ...
func (t *SerialTransport) Close() error {
	return t.port.Close()
}
