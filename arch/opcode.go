package arch

import (
	"strings"

	"github.com/retroenv/retrogolib/arch/cpu/chip8"
)

// Op identifies a single instruction behaviour.
type Op int

// Known opcodes. The names spell out the operands of the canonical
// assembler form: V is a general purpose register, B an immediate byte
// (or the BCD target in LDBV), I the address register, DT and ST the
// timers, K a key and F a font glyph.
const (
	UNKNOWN Op = iota

	CLS  // 00E0  clear the display
	RET  // 00EE  return from subroutine
	JP   // 1nnn  jump to nnn
	CALL // 2nnn  call subroutine at nnn

	SEVB  // 3xkk  skip if Vx == kk
	SNEVB // 4xkk  skip if Vx != kk
	SEVV  // 5xy0  skip if Vx == Vy
	LDVB  // 6xkk  Vx = kk
	ADDVB // 7xkk  Vx += kk

	LDVV  // 8xy0  Vx = Vy
	OR    // 8xy1  Vx |= Vy
	AND   // 8xy2  Vx &= Vy
	XOR   // 8xy3  Vx ^= Vy
	ADDVV // 8xy4  Vx += Vy, VF = carry
	SUB   // 8xy5  Vx -= Vy, VF = not borrow
	SHR   // 8xy6  Vx >>= 1, VF = old low bit
	SUBN  // 8xy7  Vx = Vy - Vx, VF = not borrow
	SHL   // 8xyE  Vx <<= 1, VF = old high bit

	SNEVV // 9xy0  skip if Vx != Vy
	LDI   // Annn  I = nnn
	JPV0  // Bnnn  jump to nnn + V0
	RND   // Cxkk  Vx = rand & kk
	DRW   // Dxyn  draw n byte sprite at (Vx, Vy)
	SKP   // Ex9E  skip if key Vx is down
	SKNP  // ExA1  skip if key Vx is up

	LDVDT // Fx07  Vx = DT
	LDVK  // Fx0A  wait for key, Vx = key
	LDDTV // Fx15  DT = Vx
	LDSTV // Fx18  ST = Vx
	ADDIV // Fx1E  I += Vx
	LDFV  // Fx29  I = glyph for Vx
	LDBV  // Fx33  [I..I+2] = BCD(Vx)
	LDIV  // Fx55  [I..I+x] = V0..Vx
	LDVI  // Fx65  V0..Vx = [I..I+x]

	opCount
)

// Layout describes which operand fields an instruction word carries.
type Layout int

// Known operand layouts.
const (
	LayoutNone Layout = iota // ----
	LayoutNNN                // -nnn
	LayoutXKK                // -xkk
	LayoutXY                 // -xy-
	LayoutX                  // -x--
	LayoutXYN                // -xyn
)

// opInfo ties an opcode to its bit pattern and instruction class in the
// retrogolib CHIP-8 reference tables.
type opInfo struct {
	name   string
	code   chip8.OpcodeInfo
	layout Layout
	class  *chip8.Instruction
}

var opTable = [opCount]opInfo{
	UNKNOWN: {name: "UNKNOWN"},

	CLS:  {"CLS", chip8.Opcode00E0, LayoutNone, chip8.ClsInst},
	RET:  {"RET", chip8.Opcode00EE, LayoutNone, chip8.RetInst},
	JP:   {"JP", chip8.Opcode1000, LayoutNNN, chip8.JpInst},
	CALL: {"CALL", chip8.Opcode2000, LayoutNNN, chip8.CallInst},

	SEVB:  {"SEVB", chip8.Opcode3000, LayoutXKK, chip8.SeInst},
	SNEVB: {"SNEVB", chip8.Opcode4000, LayoutXKK, chip8.SneInst},
	SEVV:  {"SEVV", chip8.Opcode5000, LayoutXY, chip8.SeInst},
	LDVB:  {"LDVB", chip8.Opcode6000, LayoutXKK, chip8.LdInst},
	ADDVB: {"ADDVB", chip8.Opcode7000, LayoutXKK, chip8.AddInst},

	LDVV:  {"LDVV", chip8.Opcode8000, LayoutXY, chip8.LdInst},
	OR:    {"OR", chip8.Opcode8001, LayoutXY, chip8.OrInst},
	AND:   {"AND", chip8.Opcode8002, LayoutXY, chip8.AndInst},
	XOR:   {"XOR", chip8.Opcode8003, LayoutXY, chip8.XorInst},
	ADDVV: {"ADDVV", chip8.Opcode8004, LayoutXY, chip8.AddInst},
	SUB:   {"SUB", chip8.Opcode8005, LayoutXY, chip8.SubInst},
	SHR:   {"SHR", chip8.Opcode8006, LayoutXY, chip8.ShrInst},
	SUBN:  {"SUBN", chip8.Opcode8007, LayoutXY, chip8.SubnInst},
	SHL:   {"SHL", chip8.Opcode800E, LayoutXY, chip8.ShlInst},

	SNEVV: {"SNEVV", chip8.Opcode9000, LayoutXY, chip8.SneInst},
	LDI:   {"LDI", chip8.OpcodeA000, LayoutNNN, chip8.LdInst},
	JPV0:  {"JPV0", chip8.OpcodeB000, LayoutNNN, chip8.JpInst},
	RND:   {"RND", chip8.OpcodeC000, LayoutXKK, chip8.RndInst},
	DRW:   {"DRW", chip8.OpcodeD000, LayoutXYN, chip8.DrwInst},
	SKP:   {"SKP", chip8.OpcodeE09E, LayoutX, chip8.SkpInst},
	SKNP:  {"SKNP", chip8.OpcodeE0A1, LayoutX, chip8.SknpInst},

	LDVDT: {"LDVDT", chip8.OpcodeF007, LayoutX, chip8.LdInst},
	LDVK:  {"LDVK", chip8.OpcodeF00A, LayoutX, chip8.LdInst},
	LDDTV: {"LDDTV", chip8.OpcodeF015, LayoutX, chip8.LdInst},
	LDSTV: {"LDSTV", chip8.OpcodeF018, LayoutX, chip8.LdInst},
	ADDIV: {"ADDIV", chip8.OpcodeF01E, LayoutX, chip8.AddInst},
	LDFV:  {"LDFV", chip8.OpcodeF029, LayoutX, chip8.LdInst},
	LDBV:  {"LDBV", chip8.OpcodeF033, LayoutX, chip8.LdInst},
	LDIV:  {"LDIV", chip8.OpcodeF055, LayoutX, chip8.LdInst},
	LDVI:  {"LDVI", chip8.OpcodeF065, LayoutX, chip8.LdInst},
}

// Opcode returns the opcode for the given name.
// Returns false if the name is not recognized.
func Opcode(name string) (Op, bool) {
	name = strings.ToUpper(name)
	for op := CLS; op < opCount; op++ {
		if opTable[op].name == name {
			return op, true
		}
	}
	return UNKNOWN, false
}

// Name returns the name for the given opcode.
// Returns false if the opcode is not recognized.
func Name(op Op) (string, bool) {
	if op <= UNKNOWN || op >= opCount {
		return "", false
	}
	return opTable[op].name, true
}

func (op Op) String() string {
	if name, ok := Name(op); ok {
		return name
	}
	return "UNKNOWN"
}

// Layout returns the operand layout for the given opcode.
func (op Op) Layout() Layout {
	if op <= UNKNOWN || op >= opCount {
		return LayoutNone
	}
	return opTable[op].layout
}

// Class returns the instruction class the opcode belongs to, as defined by
// the retrogolib CHIP-8 reference table. Several opcodes share a class:
// all loads are "ld", both skip-equal forms are "se" and so on.
// Returns nil for UNKNOWN.
func Class(op Op) *chip8.Instruction {
	if op <= UNKNOWN || op >= opCount {
		return nil
	}
	return opTable[op].class
}

// Mnemonic returns the reference mnemonic for the given opcode.
// Returns "" for UNKNOWN.
func Mnemonic(op Op) string {
	if class := Class(op); class != nil {
		return class.Name
	}
	return ""
}
