package cpu

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/hexaflex/chip8/arch"
	"github.com/hexaflex/chip8/devices"
)

// Known runtime errors. Use errors.Is to test for them.
var (
	ErrStackOverflow           = errors.New("stack overflow")
	ErrStackUnderflow          = errors.New("stack underflow")
	ErrUnrecognizedInstruction = errors.New("unrecognized instruction")
	ErrAddressOutOfRange       = devices.ErrAddressOutOfRange
	ErrReadOnlyAddress         = devices.ErrReadOnlyAddress
	ErrProgramTooLarge         = errors.New("program too large")
)

// Error defines a runtime error.
type Error struct {
	Address     uint16            // Address of the faulting instruction.
	Instruction *arch.Instruction // Faulting instruction; nil if it could not be fetched.
	Err         error             // Underlying cause.
}

// NewError creates a new error for the instruction at the given address.
func NewError(addr uint16, instr *arch.Instruction, err error) *Error {
	return &Error{
		Address:     addr,
		Instruction: instr,
		Err:         err,
	}
}

func (e *Error) Error() string {
	if e.Instruction == nil {
		return fmt.Sprintf("%04x: %v", e.Address, e.Err)
	}
	return fmt.Sprintf("%04x: %s: %v", e.Address, e.Instruction, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsFatal returns true if err should stop execution. Unrecognized
// instructions are skipped over and are the only non-fatal error.
func IsFatal(err error) bool {
	return err != nil && !errors.Is(err, ErrUnrecognizedInstruction)
}
