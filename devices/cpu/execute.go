package cpu

import (
	"github.com/retroenv/retrogolib/log"

	"github.com/hexaflex/chip8/arch"
)

// Execute applies a single decoded instruction to the machine, as if it
// had been fetched from the current program counter.
//
// Every fallible access is checked before any state changes, so an
// instruction either applies completely or returns an error and leaves
// the machine untouched. The one exception is an unrecognized
// instruction: it is skipped, advancing the program counter, and
// reported with ErrUnrecognizedInstruction.
//
// Flags are always computed from the operand values as they were before
// the instruction ran. When the destination is VF, the flag wins.
func (c *CPU) Execute(instr arch.Instruction) error {
	pc := c.pc
	next := pc + arch.InstructionLen

	x, y := instr.X(), instr.Y()
	vx, vy := c.v[x], c.v[y]
	kk := instr.KK()
	v := &c.v

	switch instr.Op {
	case arch.CLS:
		c.display.Clear()

	case arch.RET:
		if c.sp == 0 {
			return NewError(pc, &instr, ErrStackUnderflow)
		}
		c.sp--
		next = c.stack[c.sp]

	case arch.JP:
		next = instr.NNN()

	case arch.CALL:
		if c.sp == arch.StackSize {
			return NewError(pc, &instr, ErrStackOverflow)
		}
		c.stack[c.sp] = next
		c.sp++
		next = instr.NNN()

	case arch.SEVB:
		next = skipIf(next, vx == kk)
	case arch.SNEVB:
		next = skipIf(next, vx != kk)
	case arch.SEVV:
		next = skipIf(next, vx == vy)
	case arch.SNEVV:
		next = skipIf(next, vx != vy)

	case arch.LDVB:
		v[x] = kk
	case arch.ADDVB:
		v[x] = vx + kk
	case arch.LDVV:
		v[x] = vy
	case arch.OR:
		v[x] = vx | vy
	case arch.AND:
		v[x] = vx & vy
	case arch.XOR:
		v[x] = vx ^ vy

	case arch.ADDVV:
		sum := uint16(vx) + uint16(vy)
		v[x] = byte(sum)
		v[arch.VF] = flag(sum > 0xff)
	case arch.SUB:
		v[x] = vx - vy
		v[arch.VF] = flag(vx >= vy)
	case arch.SUBN:
		v[x] = vy - vx
		v[arch.VF] = flag(vy >= vx)
	case arch.SHR:
		v[x] = vx >> 1
		v[arch.VF] = vx & 1
	case arch.SHL:
		v[x] = vx << 1
		v[arch.VF] = vx >> 7

	case arch.LDI:
		c.i = instr.NNN()
	case arch.JPV0:
		next = instr.NNN() + uint16(v[0])
	case arch.RND:
		v[x] = byte(c.rng.Intn(0x100)) & kk

	case arch.DRW:
		collision, err := c.display.Draw(c.memory, int(c.i), instr.N(), int(vx), int(vy))
		if err != nil {
			return NewError(pc, &instr, err)
		}
		v[arch.VF] = flag(collision)

	case arch.SKP:
		next = skipIf(next, c.keypad.Pressed(int(vx)))
	case arch.SKNP:
		next = skipIf(next, !c.keypad.Pressed(int(vx)))

	case arch.LDVDT:
		v[x] = c.timer.Delay()
	case arch.LDVK:
		c.keypad.Flush()
		c.state = State{Mode: AwaitingKey, Target: x}
		c.logger.Debug("Waiting for key",
			log.Hex("address", pc),
			log.String("register", arch.RegisterName(x)))
	case arch.LDDTV:
		c.timer.SetDelay(vx)
	case arch.LDSTV:
		c.timer.SetSound(vx)

	case arch.ADDIV:
		c.i += uint16(vx)
	case arch.LDFV:
		c.i = arch.FontAddress + uint16(vx)*arch.GlyphSize

	case arch.LDBV:
		bcd := [3]byte{vx / 100, vx / 10 % 10, vx % 10}
		if err := c.memory.Write(int(c.i), bcd[:]); err != nil {
			return NewError(pc, &instr, err)
		}
	case arch.LDIV:
		if err := c.memory.Write(int(c.i), v[:x+1]); err != nil {
			return NewError(pc, &instr, err)
		}
	case arch.LDVI:
		if err := c.memory.Read(int(c.i), v[:x+1]); err != nil {
			return NewError(pc, &instr, err)
		}

	default:
		c.pc = next
		c.logger.Debug("Skipping unrecognized instruction",
			log.Hex("address", pc),
			log.Hex("word", instr.Word))
		return NewError(pc, &instr, ErrUnrecognizedInstruction)
	}

	c.pc = next
	return nil
}

// skipIf returns the address of the instruction after next if cond holds.
func skipIf(next uint16, cond bool) uint16 {
	if cond {
		return next + arch.InstructionLen
	}
	return next
}

func flag(b bool) byte {
	if b {
		return 1
	}
	return 0
}
