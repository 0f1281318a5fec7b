package dmx

import (
	"math"
	"time"
)

// fade describes one in-flight linear transition of a single channel.
type fade struct {
	start    byte          // channel value at the moment the fade was issued
	target   byte          // final value at the end of the fade
	startAt  time.Time     // monotonic start timestamp
	duration time.Duration // zero means an immediate jump to target
}

// valueAt returns the interpolated value of the fade at a given instant,
// and whether the fade has converged on its target. Elapsed time is
// clamped to [0, duration], interpolation is linear in floating point,
// rounded to nearest.
func (f *fade) valueAt(now time.Time) (byte, bool) {
	if f.duration <= 0 {
		return f.target, true
	}

	elapsed := now.Sub(f.startAt)
	if elapsed < 0 {
		elapsed = 0
	}
	if elapsed >= f.duration {
		return f.target, true
	}

	frac := float64(elapsed) / float64(f.duration)
	v := math.Round(float64(f.start) + (float64(f.target)-float64(f.start))*frac)

	// Clamp to the valid channel range. Linear interpolation between two
	// in-range endpoints cannot escape the range, but rounding at the
	// boundaries must not be trusted blindly.
	if v < 0 {
		v = 0
	}
	if v > 255 {
		v = 255
	}

	return byte(v), false
}

// fadeTable maps 1-based channels to at most one active fade each.
type fadeTable map[int]*fade

// insertOrReplace registers a fade for a channel, superseding any fade
// already in flight. current must be the channel's interpolated value at
// time now; using it as the new start value guarantees continuity at the
// moment of replacement.
func (t fadeTable) insertOrReplace(channel int, current byte, target byte, duration time.Duration, now time.Time) {
	t[channel] = &fade{
		start:    current,
		target:   target,
		startAt:  now,
		duration: duration,
	}
}

// clear removes the active fade for a channel, if any.
func (t fadeTable) clear(channel int) {
	delete(t, channel)
}
