// Package display implements the 64x32 monochrome display.
//
// Pixels are only ever changed by Clear and Draw. Draw composes sprites
// with XOR, so drawing the same sprite twice restores what was there
// before, and reports whether any lit pixel was turned off.
package display

import (
	"math/bits"

	"github.com/pkg/errors"

	"github.com/hexaflex/chip8/arch"
	"github.com/hexaflex/chip8/devices"
)

// Display resolution.
const (
	Width  = arch.DisplayWidth
	Height = arch.DisplayHeight
)

// Frame is a snapshot of the display contents. Each element holds one
// row, with column 0 in the most significant bit.
type Frame [Height]uint64

// Pixel returns true if the pixel at the given position is lit.
// Coordinates wrap around both axes.
func (f *Frame) Pixel(x, y int) bool {
	x, y = wrap(x, Width), wrap(y, Height)
	return f[y]&columnMask(x) != 0
}

// Lit returns the number of lit pixels.
func (f *Frame) Lit() int {
	var n int
	for _, row := range f {
		n += bits.OnesCount64(row)
	}
	return n
}

// Device defines the display state.
type Device struct {
	frame Frame
	dirty bool
}

var _ devices.Device = &Device{}

// New creates a new, blank display.
func New() *Device {
	return &Device{dirty: true}
}

// ID returns the device identifier.
func (d *Device) ID() devices.ID {
	return devices.NewID(0x0002)
}

// Reset clears the display.
func (d *Device) Reset() {
	d.Clear()
}

// Clear turns off every pixel.
func (d *Device) Clear() {
	d.frame = Frame{}
	d.dirty = true
}

// Pixel returns true if the pixel at the given position is lit.
func (d *Device) Pixel(x, y int) bool {
	return d.frame.Pixel(x, y)
}

// Draw XORs an n byte sprite read from mem at addr onto the display, with
// its top left corner at (x, y). The origin and every drawn pixel wrap
// around both axes. Returns true if any lit pixel was turned off.
//
// The sprite is read completely before the display is touched, so a read
// outside of mem leaves the display unchanged.
func (d *Device) Draw(mem devices.Memory, addr, n, x, y int) (bool, error) {
	if n < 0 || n > arch.MaxSpriteRows {
		return false, errors.Errorf("invalid sprite height %d", n)
	}

	var rows [arch.MaxSpriteRows]byte
	if err := mem.Read(addr, rows[:n]); err != nil {
		return false, errors.Wrapf(err, "sprite at %04x", addr)
	}

	x, y = wrap(x, Width), wrap(y, Height)

	var collision bool
	for i, sprite := range rows[:n] {
		row := &d.frame[wrap(y+i, Height)]

		for bit := 0; bit < arch.SpriteWidth; bit++ {
			if sprite&(0x80>>bit) == 0 {
				continue
			}

			mask := columnMask(wrap(x+bit, Width))
			if *row&mask != 0 {
				collision = true
			}
			*row ^= mask
		}
	}

	if n > 0 {
		d.dirty = true
	}
	return collision, nil
}

// Swap returns a snapshot of the display and whether it changed since the
// previous call to Swap.
func (d *Device) Swap() (Frame, bool) {
	dirty := d.dirty
	d.dirty = false
	return d.frame, dirty
}

func columnMask(x int) uint64 {
	return 1 << (Width - 1 - x)
}

func wrap(v, n int) int {
	v %= n
	if v < 0 {
		v += n
	}
	return v
}
