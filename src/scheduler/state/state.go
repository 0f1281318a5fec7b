package state

import (
	"sync/atomic"
)

// State captures the state of the output scheduler: Idle, Running, or
// Stopped.
type State uint32

const (
	// Idle is the state before the serial transport has been opened and
	// the backup restore has completed or been skipped. No frames are
	// emitted.
	Idle State = iota

	// Running is the state in which the scheduler ticks at its fixed
	// cadence and emits one frame per tick.
	Running

	// Stopped is the terminal state, entered on unrecoverable transport
	// failure or explicit shutdown. The process must be restarted to
	// resume output.
	Stopped
)

// String returns the string representation of a State
func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Running:
		return "Running"
	case Stopped:
		return "Stopped"
	default:
		return "Unknown"
	}
}

// Manager wraps a State with atomic get and set methods.
type Manager struct {
	state State
}

// GetState returns the current state.
func (m *Manager) GetState() State {
	stateAddr := (*uint32)(&m.state)
	return State(atomic.LoadUint32(stateAddr))
}

// SetState sets the state.
func (m *Manager) SetState(s State) {
	stateAddr := (*uint32)(&m.state)
	atomic.StoreUint32(stateAddr, uint32(s))
}
