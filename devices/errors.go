package devices

import "github.com/pkg/errors"

// Memory access errors.
var (
	ErrAddressOutOfRange = errors.New("address out of range")
	ErrReadOnlyAddress   = errors.New("address is read-only")
)
