package devices

// Memory defines the system's memory bank as seen by peripherals.
// All accesses are bounds checked; an access which would touch an address
// outside the bank fails with ErrAddressOutOfRange and has no effect.
type Memory interface {
	// Len returns the size of the bank in bytes.
	Len() int

	// U8 returns the byte at the given address.
	U8(addr int) (byte, error)

	// Read reads len(p) bytes from memory into p, starting at the given address.
	Read(addr int, p []byte) error

	// Write writes len(p) bytes from p into memory, starting at the given address.
	Write(addr int, p []byte) error
}
