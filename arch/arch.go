// Package arch defines the CHIP-8 instruction set, the machine's memory
// layout and some related helper functions.
package arch

// Memory layout.
const (
	MemorySize     = 0x1000                         // Size of the address space in bytes.
	FontAddress    = 0x000                          // Start of the built-in font.
	ProgramStart   = 0x200                          // Load address and initial PC for programs.
	MaxProgramSize = MemorySize - ProgramStart      // Largest loadable program image.
	InstructionLen = 2                              // Width of a single instruction in bytes.
	StackSize      = 16                             // Capacity of the call stack.
	RegisterCount  = 16                             // Number of general purpose registers.
	KeyCount       = 16                             // Number of keys in the input matrix.
	DisplayWidth   = 64                             // Horizontal display resolution.
	DisplayHeight  = 32                             // Vertical display resolution.
	TimerFrequency = 60                             // Delay and sound timer rate in Hz.
	SpriteWidth    = 8                              // Sprites are always one byte wide.
	MaxSpriteRows  = 15                             // Largest sprite height a DRW can encode.
	FontEnd        = FontAddress + 16*GlyphSize - 1 // Last byte occupied by the font.
)
