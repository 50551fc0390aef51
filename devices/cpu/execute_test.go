package cpu

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/retroenv/retrogolib/assert"

	"github.com/hexaflex/chip8/arch"
)

func exec(t *testing.T, c *CPU, op arch.Op, x, y, imm int) error {
	t.Helper()
	return c.Execute(arch.Decode(arch.Encode(op, x, y, imm)))
}

func TestSkips(t *testing.T) {
	tests := []struct {
		name   string
		op     arch.Op
		vx, vy byte
		imm    int
		skip   bool
	}{
		{"se byte equal", arch.SEVB, 3, 0, 3, true},
		{"se byte differ", arch.SEVB, 3, 0, 4, false},
		{"sne byte equal", arch.SNEVB, 3, 0, 3, false},
		{"sne byte differ", arch.SNEVB, 3, 0, 4, true},
		{"se reg equal", arch.SEVV, 9, 9, 0, true},
		{"se reg differ", arch.SEVV, 9, 8, 0, false},
		{"sne reg equal", arch.SNEVV, 9, 9, 0, false},
		{"sne reg differ", arch.SNEVV, 9, 8, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestCPU(t)
			c.v[1], c.v[2] = tt.vx, tt.vy

			assert.NoError(t, exec(t, c, tt.op, 1, 2, tt.imm))
			if tt.skip {
				assert.Equal(t, uint16(0x204), c.pc)
			} else {
				assert.Equal(t, uint16(0x202), c.pc)
			}
		})
	}
}

func TestKeySkips(t *testing.T) {
	c, _ := newTestCPU(t)
	c.v[4] = 0xb

	assert.NoError(t, exec(t, c, arch.SKP, 4, 0, 0))
	assert.Equal(t, uint16(0x202), c.pc)
	assert.NoError(t, exec(t, c, arch.SKNP, 4, 0, 0))
	assert.Equal(t, uint16(0x206), c.pc)

	c.SetKey(0xb, true)
	assert.NoError(t, exec(t, c, arch.SKP, 4, 0, 0))
	assert.Equal(t, uint16(0x20a), c.pc)
	assert.NoError(t, exec(t, c, arch.SKNP, 4, 0, 0))
	assert.Equal(t, uint16(0x20c), c.pc)
}

func TestJumps(t *testing.T) {
	c, _ := newTestCPU(t)

	assert.NoError(t, exec(t, c, arch.JP, 0, 0, 0x345))
	assert.Equal(t, uint16(0x345), c.pc)

	c.v[0] = 0x10
	c.v[1] = 0xff
	assert.NoError(t, exec(t, c, arch.JPV0, 0, 0, 0x300))
	assert.Equal(t, uint16(0x310), c.pc)
}

func TestLoads(t *testing.T) {
	c, _ := newTestCPU(t)

	assert.NoError(t, exec(t, c, arch.LDVB, 3, 0, 0x42))
	assert.Equal(t, byte(0x42), c.v[3])

	assert.NoError(t, exec(t, c, arch.LDVV, 4, 3, 0))
	assert.Equal(t, byte(0x42), c.v[4])

	assert.NoError(t, exec(t, c, arch.LDI, 0, 0, 0xabc))
	assert.Equal(t, uint16(0xabc), c.i)

	assert.NoError(t, exec(t, c, arch.ADDVB, 3, 0, 0xff))
	assert.Equal(t, byte(0x41), c.v[3], "add byte wraps")
	assert.Equal(t, byte(0), c.v[arch.VF], "add byte leaves the flag alone")
	assert.Equal(t, uint16(0x208), c.pc)
}

func TestBitwise(t *testing.T) {
	tests := []struct {
		op   arch.Op
		want byte
	}{
		{arch.OR, 0xfc},
		{arch.AND, 0x30},
		{arch.XOR, 0xcc},
	}

	for _, tt := range tests {
		c, _ := newTestCPU(t)
		c.v[1], c.v[2] = 0xf0, 0x3c
		c.v[arch.VF] = 7

		assert.NoError(t, exec(t, c, tt.op, 1, 2, 0))
		assert.Equal(t, tt.want, c.v[1], "%v", tt.op)
		assert.Equal(t, byte(7), c.v[arch.VF], "%v leaves the flag alone", tt.op)
	}
}

func TestAddFlagLaw(t *testing.T) {
	c, _ := newTestCPU(t)

	for a := 0; a < 0x100; a++ {
		for b := 0; b < 0x100; b++ {
			c.v[1], c.v[2] = byte(a), byte(b)
			if err := exec(t, c, arch.ADDVV, 1, 2, 0); err != nil {
				t.Fatal(err)
			}

			if c.v[1] != byte(a+b) || c.v[arch.VF] != flag(a+b > 0xff) {
				t.Fatalf("add %02x, %02x: have v1=%02x vf=%d", a, b, c.v[1], c.v[arch.VF])
			}
		}
	}
}

func TestSubFlagLaw(t *testing.T) {
	c, _ := newTestCPU(t)

	for a := 0; a < 0x100; a++ {
		for b := 0; b < 0x100; b++ {
			c.v[1], c.v[2] = byte(a), byte(b)
			if err := exec(t, c, arch.SUB, 1, 2, 0); err != nil {
				t.Fatal(err)
			}
			if c.v[1] != byte(a-b) || c.v[arch.VF] != flag(a >= b) {
				t.Fatalf("sub %02x, %02x: have v1=%02x vf=%d", a, b, c.v[1], c.v[arch.VF])
			}

			c.v[1], c.v[2] = byte(a), byte(b)
			if err := exec(t, c, arch.SUBN, 1, 2, 0); err != nil {
				t.Fatal(err)
			}
			if c.v[1] != byte(b-a) || c.v[arch.VF] != flag(b >= a) {
				t.Fatalf("subn %02x, %02x: have v1=%02x vf=%d", a, b, c.v[1], c.v[arch.VF])
			}
		}
	}
}

func TestArithmeticSameRegister(t *testing.T) {
	// Both operands name the same register: flags must come from the
	// values before the write.
	c, _ := newTestCPU(t)

	c.v[1] = 0x80
	assert.NoError(t, exec(t, c, arch.ADDVV, 1, 1, 0))
	assert.Equal(t, byte(0), c.v[1])
	assert.Equal(t, byte(1), c.v[arch.VF])

	c.v[1] = 0x05
	assert.NoError(t, exec(t, c, arch.SUB, 1, 1, 0))
	assert.Equal(t, byte(0), c.v[1])
	assert.Equal(t, byte(1), c.v[arch.VF])
}

func TestArithmeticIntoFlagRegister(t *testing.T) {
	c, _ := newTestCPU(t)

	c.v[arch.VF], c.v[2] = 0xff, 0x02
	assert.NoError(t, exec(t, c, arch.ADDVV, arch.VF, 2, 0))
	assert.Equal(t, byte(1), c.v[arch.VF], "the flag is written last")

	c.v[arch.VF], c.v[2] = 0x01, 0x02
	assert.NoError(t, exec(t, c, arch.SUB, arch.VF, 2, 0))
	assert.Equal(t, byte(0), c.v[arch.VF])

	// The flag register as second operand is read before it is overwritten.
	c.v[1], c.v[arch.VF] = 0x10, 0xf0
	assert.NoError(t, exec(t, c, arch.ADDVV, 1, arch.VF, 0))
	assert.Equal(t, byte(0), c.v[1])
	assert.Equal(t, byte(1), c.v[arch.VF])
}

func TestShifts(t *testing.T) {
	c, _ := newTestCPU(t)

	c.v[1] = 0x81
	assert.NoError(t, exec(t, c, arch.SHR, 1, 2, 0))
	assert.Equal(t, byte(0x40), c.v[1])
	assert.Equal(t, byte(1), c.v[arch.VF])

	assert.NoError(t, exec(t, c, arch.SHR, 1, 2, 0))
	assert.Equal(t, byte(0x20), c.v[1])
	assert.Equal(t, byte(0), c.v[arch.VF])

	c.v[1] = 0x81
	assert.NoError(t, exec(t, c, arch.SHL, 1, 2, 0))
	assert.Equal(t, byte(0x02), c.v[1])
	assert.Equal(t, byte(1), c.v[arch.VF])

	assert.NoError(t, exec(t, c, arch.SHL, 1, 2, 0))
	assert.Equal(t, byte(0x04), c.v[1])
	assert.Equal(t, byte(0), c.v[arch.VF])
}

func TestClearScreen(t *testing.T) {
	c, _ := newTestCPU(t)
	c.i = arch.FontAddress
	c.v[0], c.v[1] = 62, 30

	assert.NoError(t, exec(t, c, arch.DRW, 0, 1, 5))
	frame, _ := c.Frame()
	assert.True(t, frame.Lit() > 0)

	assert.NoError(t, exec(t, c, arch.CLS, 0, 0, 0))
	frame, changed := c.Frame()
	assert.True(t, changed)
	assert.Equal(t, 0, frame.Lit())
}

func TestDrawSelfErasing(t *testing.T) {
	c, _ := newTestCPU(t)
	c.i = arch.FontAddress + 8*arch.GlyphSize
	c.v[2], c.v[3] = 60, 29 // wraps on both axes

	assert.NoError(t, exec(t, c, arch.DRW, 2, 3, 5))
	assert.Equal(t, byte(0), c.v[arch.VF])
	before, _ := c.Frame()
	assert.Equal(t, 16, before.Lit()) // glyph "8"
	assert.True(t, before.Pixel(63, 29))
	assert.True(t, before.Pixel(60, 1))

	assert.NoError(t, exec(t, c, arch.DRW, 2, 3, 5))
	assert.Equal(t, byte(1), c.v[arch.VF])
	after, _ := c.Frame()
	assert.Equal(t, 0, after.Lit())
}

func TestDrawOutOfRange(t *testing.T) {
	c, _ := newTestCPU(t)
	c.i = arch.MemorySize - 2
	c.v[arch.VF] = 9

	err := exec(t, c, arch.DRW, 0, 0, 3)
	assert.True(t, errors.Is(err, ErrAddressOutOfRange))
	assert.Equal(t, uint16(0x200), c.pc)
	assert.Equal(t, byte(9), c.v[arch.VF])

	frame, _ := c.Frame()
	assert.Equal(t, 0, frame.Lit())
}

func TestTimers(t *testing.T) {
	c, _ := newTestCPU(t)
	c.v[5] = 33

	assert.NoError(t, exec(t, c, arch.LDDTV, 5, 0, 0))
	assert.NoError(t, exec(t, c, arch.LDSTV, 5, 0, 0))
	assert.Equal(t, byte(33), c.DelayTimer())
	assert.Equal(t, byte(33), c.SoundTimer())

	assert.NoError(t, exec(t, c, arch.LDVDT, 6, 0, 0))
	assert.Equal(t, byte(33), c.v[6])
}

func TestAddressRegister(t *testing.T) {
	c, _ := newTestCPU(t)

	c.i = 0xfff0
	c.v[1] = 0x20
	assert.NoError(t, exec(t, c, arch.ADDIV, 1, 0, 0))
	assert.Equal(t, uint16(0x0010), c.i, "I wraps at 16 bits")
	assert.Equal(t, byte(0), c.v[arch.VF])

	c.v[1] = 0xf
	assert.NoError(t, exec(t, c, arch.LDFV, 1, 0, 0))
	assert.Equal(t, uint16(75), c.i)
}

func TestBCD(t *testing.T) {
	tests := []struct {
		value byte
		want  [3]byte
	}{
		{0, [3]byte{0, 0, 0}},
		{7, [3]byte{0, 0, 7}},
		{42, [3]byte{0, 4, 2}},
		{100, [3]byte{1, 0, 0}},
		{255, [3]byte{2, 5, 5}},
	}

	for _, tt := range tests {
		c, _ := newTestCPU(t)
		c.i = 0x400
		c.v[7] = tt.value

		assert.NoError(t, exec(t, c, arch.LDBV, 7, 0, 0))

		var have [3]byte
		copy(have[:], c.memory[0x400:])
		assert.Equal(t, tt.want, have)
		assert.Equal(t, uint16(0x400), c.i)
	}
}

func TestBCDOutOfRange(t *testing.T) {
	c, _ := newTestCPU(t)
	c.i = arch.MemorySize - 2
	c.v[0] = 123

	err := exec(t, c, arch.LDBV, 0, 0, 0)
	assert.True(t, errors.Is(err, ErrAddressOutOfRange))
	assert.Equal(t, byte(0), c.memory[arch.MemorySize-2], "nothing is written")
	assert.Equal(t, uint16(0x200), c.pc)
}

func TestStoreLoadRegisters(t *testing.T) {
	c, _ := newTestCPU(t)
	for n := range c.v {
		c.v[n] = byte(n + 1)
	}
	c.i = 0x500

	assert.NoError(t, exec(t, c, arch.LDIV, 3, 0, 0))
	assert.Equal(t, uint16(0x500), c.i)
	for n := 0; n <= 3; n++ {
		assert.Equal(t, byte(n+1), c.memory[0x500+n])
	}
	assert.Equal(t, byte(0), c.memory[0x504], "only v0-v3 are stored")

	c.v = [arch.RegisterCount]byte{}
	assert.NoError(t, exec(t, c, arch.LDVI, 2, 0, 0))
	assert.Equal(t, byte(1), c.v[0])
	assert.Equal(t, byte(2), c.v[1])
	assert.Equal(t, byte(3), c.v[2])
	assert.Equal(t, byte(0), c.v[3], "only v0-v2 are loaded")
}

func TestStoreRegistersOutOfRange(t *testing.T) {
	c, _ := newTestCPU(t)
	c.i = arch.MemorySize - 4
	c.v[0] = 0xaa

	err := exec(t, c, arch.LDIV, arch.VF, 0, 0)
	assert.True(t, errors.Is(err, ErrAddressOutOfRange))
	assert.Equal(t, byte(0), c.memory[arch.MemorySize-4])

	c.v[0] = 0x11
	err = exec(t, c, arch.LDVI, 7, 0, 0)
	assert.True(t, errors.Is(err, ErrAddressOutOfRange))
	assert.Equal(t, byte(0x11), c.v[0])
}

func TestFontIsReadOnly(t *testing.T) {
	c, _ := newTestCPU(t)
	c.i = arch.FontEnd
	c.v[0] = 0x55

	err := exec(t, c, arch.LDIV, 1, 0, 0)
	assert.True(t, errors.Is(err, ErrReadOnlyAddress))
	assert.True(t, IsFatal(err))
	assert.Equal(t, arch.Font[arch.FontEnd], c.memory[arch.FontEnd])

	// The byte right after the font is scratch memory.
	c.i = arch.FontEnd + 1
	assert.NoError(t, exec(t, c, arch.LDIV, 0, 0, 0))
	assert.Equal(t, byte(0x55), c.memory[arch.FontEnd+1])
}

func TestRandom(t *testing.T) {
	c, _ := newTestCPU(t)

	seen := make(map[byte]bool)
	for i := 0; i < 500; i++ {
		assert.NoError(t, exec(t, c, arch.RND, 1, 0, 0x0f))
		assert.Equal(t, byte(0), c.v[1]&0xf0)
		seen[c.v[1]] = true
	}
	assert.True(t, len(seen) > 1)

	assert.NoError(t, exec(t, c, arch.RND, 1, 0, 0))
	assert.Equal(t, byte(0), c.v[1])
}
