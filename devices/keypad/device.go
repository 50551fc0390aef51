// Package keypad implements the 16 key hexadecimal input matrix.
package keypad

import (
	"github.com/hexaflex/chip8/arch"
	"github.com/hexaflex/chip8/devices"
)

type state struct {
	pressed     bool
	justPressed bool
}

// Device holds the key states.
//
// Key levels are what skip-if-pressed instructions observe. Press edges
// are latched separately so that a press and release which both happen
// between two CPU steps is not lost to an instruction waiting for a key.
type Device struct {
	state [arch.KeyCount]state
}

var _ devices.Device = &Device{}

// New creates a new device with all keys released.
func New() *Device {
	return &Device{}
}

// ID returns the device id.
func (d *Device) ID() devices.ID {
	return devices.NewID(0x0003)
}

// Reset releases all keys and drops pending presses.
func (d *Device) Reset() {
	d.state = [arch.KeyCount]state{}
}

// Set sets the state of the given key. Keys outside 0-F are ignored.
func (d *Device) Set(key int, pressed bool) {
	if key < 0 || key >= arch.KeyCount {
		return
	}

	ks := &d.state[key]
	if pressed && !ks.pressed {
		ks.justPressed = true
	}
	ks.pressed = pressed
}

// Pressed returns true if the given key is currently held down.
// Only the low nibble of key is used.
func (d *Device) Pressed(key int) bool {
	return d.state[key&0xf].pressed
}

// TakePress returns the lowest numbered key which went down since the last
// call to TakePress or Flush, and clears its latch.
// Returns false if no key went down.
func (d *Device) TakePress() (int, bool) {
	for key := range d.state {
		if d.state[key].justPressed {
			d.state[key].justPressed = false
			return key, true
		}
	}
	return 0, false
}

// Flush drops all latched key presses. Keys which are currently held
// down stay down, but must be released and pressed again to register a
// new press.
func (d *Device) Flush() {
	for key := range d.state {
		d.state[key].justPressed = false
	}
}
