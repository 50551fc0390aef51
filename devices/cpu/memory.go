package cpu

import (
	"github.com/hexaflex/chip8/arch"
	"github.com/hexaflex/chip8/devices"
)

// Memory defines the system's memory bank.
//
// The font occupies the bottom of the bank and is read-only once the bank
// has been created. Every access is bounds checked up front, so a failed
// access never partially applies.
type Memory []byte

var _ devices.Memory = Memory{}

// NewMemory creates a memory bank with the font in place.
func NewMemory() Memory {
	m := make(Memory, arch.MemorySize)
	copy(m[arch.FontAddress:], arch.Font[:])
	return m
}

// Len returns the size of the bank in bytes.
func (m Memory) Len() int {
	return len(m)
}

// U8 returns the byte at the given address.
func (m Memory) U8(addr int) (byte, error) {
	if err := m.check(addr, 1); err != nil {
		return 0, err
	}
	return m[addr], nil
}

// U16 returns the big-endian 16-bit value at the given address.
func (m Memory) U16(addr int) (uint16, error) {
	if err := m.check(addr, 2); err != nil {
		return 0, err
	}
	return uint16(m[addr])<<8 | uint16(m[addr+1]), nil
}

// Read reads len(p) bytes from memory into p, starting at the given address.
func (m Memory) Read(addr int, p []byte) error {
	if err := m.check(addr, len(p)); err != nil {
		return err
	}
	copy(p, m[addr:])
	return nil
}

// Write writes len(p) bytes from p into memory, starting at the given address.
// Writes touching the font fail with ErrReadOnlyAddress.
func (m Memory) Write(addr int, p []byte) error {
	if len(p) == 0 {
		return nil
	}
	if err := m.check(addr, len(p)); err != nil {
		return err
	}
	if addr <= arch.FontEnd && addr+len(p) > arch.FontAddress {
		return devices.ErrReadOnlyAddress
	}
	copy(m[addr:], p)
	return nil
}

// clear zeroes everything but the font.
func (m Memory) clear() {
	for i := arch.FontEnd + 1; i < len(m); i++ {
		m[i] = 0
	}
}

// check returns ErrAddressOutOfRange if any of the n bytes starting at
// addr lies outside the bank.
func (m Memory) check(addr, n int) error {
	if addr < 0 || n < 0 || addr+n > len(m) {
		return devices.ErrAddressOutOfRange
	}
	return nil
}
