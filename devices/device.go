// Package devices defines the peripherals which make up the machine
// alongside the CPU, and the interfaces through which they interact.
package devices

import (
	"github.com/retroenv/retrogolib/log"
)

// Device represents a peripheral device.
type Device interface {
	// ID yields the manufacturer and serial number for the device.
	ID() ID

	// Reset returns the device to its power-on state.
	Reset()
}

// Map contains a list of connected peripherals.
type Map []Device

// Connect adds the given device to the device map.
// Returns false if the device type is already present in the set.
func (dm *Map) Connect(dev Device) bool {
	if (*dm).Find(dev.ID()) > -1 {
		return false
	}

	*dm = append(*dm, dev)
	return true
}

// Reset resets every connected device in connection order.
func (dm Map) Reset(logger *log.Logger) {
	for _, dev := range dm {
		logger.Debug("Resetting device", log.String("device", dev.ID().String()))
		dev.Reset()
	}
}

// Find returns the index for the device with the given id.
// Returns -1 if it can't be found.
func (dm Map) Find(id ID) int {
	for i, dev := range dm {
		if dev.ID() == id {
			return i
		}
	}
	return -1
}
