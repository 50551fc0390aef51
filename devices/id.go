package devices

import "fmt"

// Vendor is the manufacturer id of the built-in devices.
const Vendor = 0x00c8

// ID identifies a device.
// The upper 16 bits hold the device manufacturer id.
// The lower 16 bits hold the device serial number.
type ID uint32

// NewID creates a new id for a built-in device with the given serial number.
func NewID(serial int) ID {
	return ID(Vendor)<<16 | ID(serial&0xffff)
}

// Manufacturer returns the manufacturer component of the ID.
func (id ID) Manufacturer() int {
	return int(id>>16) & 0xffff
}

// Serial returns the device serial number component of the ID.
func (id ID) Serial() int {
	return int(id) & 0xffff
}

func (id ID) String() string {
	return fmt.Sprintf("%04x:%04x", id.Manufacturer(), id.Serial())
}
