package arch

import "strings"

// Operand defines the kind of operand an instruction form accepts.
type Operand byte

// Known operand kinds.
const (
	VX         Operand = iota // General purpose register in the x field.
	VY                        // General purpose register in the y field.
	V0                        // Register v0 only; not encoded.
	Byte                      // 8-bit immediate.
	Nibble                    // 4-bit immediate.
	Addr                      // 12-bit address.
	RegI                      // i
	DelayTimer                // dt
	SoundTimer                // st
	Key                       // k
	Glyph                     // f
	BCD                       // b
	IndirectI                 // [i]
)

// Special returns the operand kind for a special operand name like
// "dt" or "[i]". Returns false if name is not one of them.
func Special(name string) (Operand, bool) {
	switch strings.ToLower(name) {
	case "i":
		return RegI, true
	case "dt":
		return DelayTimer, true
	case "st":
		return SoundTimer, true
	case "k":
		return Key, true
	case "f":
		return Glyph, true
	case "b":
		return BCD, true
	case "[i]":
		return IndirectI, true
	}
	return 0, false
}

// IsImmediate returns true for operand kinds which take a numeric value.
func (o Operand) IsImmediate() bool {
	return o == Byte || o == Nibble || o == Addr
}

// IsRegister returns true for operand kinds which take a general
// purpose register.
func (o Operand) IsRegister() bool {
	return o == VX || o == VY || o == V0
}

// Max returns the largest value an immediate operand kind can hold.
func (o Operand) Max() int {
	switch o {
	case Byte:
		return 0xff
	case Nibble:
		return 0xf
	case Addr:
		return 0xfff
	}
	return 0
}

// Form describes one assembler spelling of an opcode.
type Form struct {
	Mnemonic string
	Operands []Operand
	Op       Op
}

// Forms lists every accepted instruction form. Where an opcode has more
// than one form, the first one is its canonical spelling.
var Forms = []Form{
	{"cls", nil, CLS},
	{"ret", nil, RET},
	{"jp", []Operand{Addr}, JP},
	{"jp", []Operand{V0, Addr}, JPV0},
	{"call", []Operand{Addr}, CALL},

	{"se", []Operand{VX, Byte}, SEVB},
	{"se", []Operand{VX, VY}, SEVV},
	{"sne", []Operand{VX, Byte}, SNEVB},
	{"sne", []Operand{VX, VY}, SNEVV},

	{"ld", []Operand{VX, Byte}, LDVB},
	{"ld", []Operand{VX, VY}, LDVV},
	{"ld", []Operand{RegI, Addr}, LDI},
	{"ld", []Operand{VX, DelayTimer}, LDVDT},
	{"ld", []Operand{VX, Key}, LDVK},
	{"ld", []Operand{DelayTimer, VX}, LDDTV},
	{"ld", []Operand{SoundTimer, VX}, LDSTV},
	{"ld", []Operand{Glyph, VX}, LDFV},
	{"ld", []Operand{BCD, VX}, LDBV},
	{"ld", []Operand{IndirectI, VX}, LDIV},
	{"ld", []Operand{VX, IndirectI}, LDVI},

	{"add", []Operand{VX, Byte}, ADDVB},
	{"add", []Operand{VX, VY}, ADDVV},
	{"add", []Operand{RegI, VX}, ADDIV},

	{"or", []Operand{VX, VY}, OR},
	{"and", []Operand{VX, VY}, AND},
	{"xor", []Operand{VX, VY}, XOR},
	{"sub", []Operand{VX, VY}, SUB},
	{"subn", []Operand{VX, VY}, SUBN},
	{"shr", []Operand{VX}, SHR},
	{"shr", []Operand{VX, VY}, SHR},
	{"shl", []Operand{VX}, SHL},
	{"shl", []Operand{VX, VY}, SHL},

	{"rnd", []Operand{VX, Byte}, RND},
	{"drw", []Operand{VX, VY, Nibble}, DRW},
	{"skp", []Operand{VX}, SKP},
	{"sknp", []Operand{VX}, SKNP},
}

// IsMnemonic returns true if name is the mnemonic of at least one form.
func IsMnemonic(name string) bool {
	name = strings.ToLower(name)
	for i := range Forms {
		if Forms[i].Mnemonic == name {
			return true
		}
	}
	return false
}

// FormsFor returns all forms with the given mnemonic.
func FormsFor(mnemonic string) []Form {
	mnemonic = strings.ToLower(mnemonic)

	var out []Form
	for _, f := range Forms {
		if f.Mnemonic == mnemonic {
			out = append(out, f)
		}
	}
	return out
}

// formFor returns the canonical form for op.
func formFor(op Op) (Form, bool) {
	for _, f := range Forms {
		if f.Op == op {
			return f, true
		}
	}
	return Form{}, false
}
