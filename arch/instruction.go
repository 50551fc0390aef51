package arch

import (
	"fmt"
	"strings"
)

// Instruction is a decoded instruction word.
type Instruction struct {
	Op   Op     // Decoded opcode; UNKNOWN if the word matches no pattern.
	Word uint16 // Raw instruction word.
}

// Decode decodes the given instruction word.
func Decode(word uint16) Instruction {
	for op := CLS; op < opCount; op++ {
		info := &opTable[op]
		if word&info.code.Mask == info.code.Value {
			return Instruction{Op: op, Word: word}
		}
	}
	return Instruction{Op: UNKNOWN, Word: word}
}

// Encode builds the instruction word for op from the given operand fields.
// Fields the opcode does not carry are ignored. Values are truncated to
// the width of their field.
func Encode(op Op, x, y, imm int) uint16 {
	if op <= UNKNOWN || op >= opCount {
		return 0
	}

	info := &opTable[op]
	w := info.code.Value

	switch info.layout {
	case LayoutNNN:
		w |= uint16(imm) & 0xfff
	case LayoutXKK:
		w |= uint16(x&0xf)<<8 | uint16(imm)&0xff
	case LayoutXY:
		w |= uint16(x&0xf)<<8 | uint16(y&0xf)<<4
	case LayoutX:
		w |= uint16(x&0xf) << 8
	case LayoutXYN:
		w |= uint16(x&0xf)<<8 | uint16(y&0xf)<<4 | uint16(imm)&0xf
	}

	return w
}

// X returns the register index in bits 8-11.
func (i Instruction) X() int { return int(i.Word>>8) & 0xf }

// Y returns the register index in bits 4-7.
func (i Instruction) Y() int { return int(i.Word>>4) & 0xf }

// N returns the low nibble.
func (i Instruction) N() int { return int(i.Word) & 0xf }

// KK returns the low byte.
func (i Instruction) KK() byte { return byte(i.Word) }

// NNN returns the low 12 bits.
func (i Instruction) NNN() uint16 { return i.Word & 0xfff }

// String returns the instruction in assembler syntax.
// Unknown words are rendered as a d16 data directive.
func (i Instruction) String() string {
	vx := RegisterName(i.X())
	vy := RegisterName(i.Y())

	var args []string
	switch i.Op {
	case UNKNOWN:
		return fmt.Sprintf("d16 0x%04x", i.Word)
	case JP, CALL, LDI:
		args = []string{fmt.Sprintf("0x%03x", i.NNN())}
	case JPV0:
		args = []string{"v0", fmt.Sprintf("0x%03x", i.NNN())}
	case SEVB, SNEVB, LDVB, ADDVB, RND:
		args = []string{vx, fmt.Sprintf("0x%02x", i.KK())}
	case SHR, SHL:
		args = []string{vx}
		if i.Y() != 0 {
			args = append(args, vy)
		}
	case SEVV, LDVV, OR, AND, XOR, ADDVV, SUB, SUBN, SNEVV:
		args = []string{vx, vy}
	case DRW:
		args = []string{vx, vy, fmt.Sprintf("%d", i.N())}
	case SKP, SKNP:
		args = []string{vx}
	case LDVDT:
		args = []string{vx, "dt"}
	case LDVK:
		args = []string{vx, "k"}
	case LDDTV:
		args = []string{"dt", vx}
	case LDSTV:
		args = []string{"st", vx}
	case ADDIV:
		args = []string{"i", vx}
	case LDFV:
		args = []string{"f", vx}
	case LDBV:
		args = []string{"b", vx}
	case LDIV:
		args = []string{"[i]", vx}
	case LDVI:
		args = []string{vx, "[i]"}
	}

	mnemonic := Mnemonic(i.Op)
	if form, ok := formFor(i.Op); ok {
		mnemonic = form.Mnemonic
	}

	if len(args) == 0 {
		return mnemonic
	}
	return mnemonic + " " + strings.Join(args, ", ")
}
