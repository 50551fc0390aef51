// Package timer implements the delay and sound timers.
//
// Both timers count down towards zero at a fixed 60 Hz. The rate is taken
// from wall clock time handed in by the owner, never from the number of
// instructions executed, so timing stays correct at any CPU speed.
package timer

import (
	"time"

	"github.com/hexaflex/chip8/arch"
	"github.com/hexaflex/chip8/devices"
)

// Period is the (rounded) interval between two ticks.
const Period = time.Second / arch.TimerFrequency

// maxElapsed bounds the time a single update accounts for. It holds more
// ticks than a timer byte can count, so anything longer has the same effect.
const maxElapsed = 5 * time.Second

// Device defines the timer state.
type Device struct {
	delay   byte      // Delay timer.
	sound   byte      // Sound timer.
	last    time.Time // Time of the previous update.
	acc     int64     // Elapsed time not yet turned into ticks, in ns * TimerFrequency.
	started bool      // Has last been set?
}

var _ devices.Device = &Device{}

// New creates a new device with both timers at zero.
func New() *Device {
	return &Device{}
}

// ID returns the device id.
func (d *Device) ID() devices.ID {
	return devices.NewID(0x0004)
}

// Reset zeroes both timers and forgets the reference time.
func (d *Device) Reset() {
	*d = Device{}
}

// Delay returns the delay timer value.
func (d *Device) Delay() byte { return d.delay }

// SetDelay sets the delay timer.
func (d *Device) SetDelay(v byte) { d.delay = v }

// Sound returns the sound timer value. A tone should be audible while it
// is not zero.
func (d *Device) Sound() byte { return d.sound }

// SetSound sets the sound timer.
func (d *Device) SetSound(v byte) { d.sound = v }

// Tick decrements both timers by one, stopping at zero.
func (d *Device) Tick() {
	if d.delay > 0 {
		d.delay--
	}
	if d.sound > 0 {
		d.sound--
	}
}

// Update applies one tick for every 1/60th of a second which passed since
// the previous Update or Hold. The first call after a reset only records
// the time. Returns the number of ticks applied.
func (d *Device) Update(now time.Time) int {
	if !d.started {
		d.Hold(now)
		return 0
	}

	elapsed := now.Sub(d.last)
	d.last = now
	if elapsed <= 0 {
		return 0
	}
	if elapsed > maxElapsed {
		elapsed = maxElapsed
		d.acc = 0
	}

	d.acc += int64(elapsed) * arch.TimerFrequency
	ticks := d.acc / int64(time.Second)
	d.acc %= int64(time.Second)

	// Nothing changes once both timers reach zero, which also bounds
	// the loop after long pauses.
	n := int(ticks)
	for i := 0; i < n && (d.delay > 0 || d.sound > 0); i++ {
		d.Tick()
	}
	return n
}

// Hold moves the reference time to now without ticking, discarding any
// partial tick.
func (d *Device) Hold(now time.Time) {
	d.last = now
	d.acc = 0
	d.started = true
}
