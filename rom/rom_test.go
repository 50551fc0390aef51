package rom

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/retroenv/retrogolib/arch/cpu/chip8"
	"github.com/retroenv/retrogolib/assert"

	"github.com/hexaflex/chip8/arch"
)

func TestSaveLoad(t *testing.T) {
	file := filepath.Join(t.TempDir(), "test.ch8")
	data := []byte{0x60, 0xff, 0x12, 0x00}

	assert.NoError(t, Save(file, data))

	have, err := Load(file)
	assert.NoError(t, err)
	assert.True(t, bytes.Equal(data, have))
}

func TestReadLimit(t *testing.T) {
	data, err := Read(bytes.NewReader(make([]byte, arch.MaxProgramSize)))
	assert.NoError(t, err)
	assert.Len(t, data, arch.MaxProgramSize)

	_, err = Read(bytes.NewReader(make([]byte, arch.MaxProgramSize+1)))
	assert.True(t, errors.Is(err, ErrTooLarge))

	err = Write(&bytes.Buffer{}, make([]byte, arch.MaxProgramSize+1))
	assert.True(t, errors.Is(err, ErrTooLarge))
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.ch8"))
	assert.Error(t, err)
}

func TestDump(t *testing.T) {
	data := []byte{
		0x00, 0xe0, // cls
		0x60, 0xff, // ld v0, 0xff
		0xd0, 0x15, // drw v0, v1, 5
		0x01, 0x23, // not an instruction
		0xaa, // trailing byte
	}

	var buf bytes.Buffer
	assert.NoError(t, Dump(&buf, data))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 5)

	assert.True(t, strings.HasPrefix(lines[0], "0200  00e0"))
	assert.True(t, strings.HasSuffix(lines[0], "cls"))
	assert.Contains(t, lines[1], chip8.LdInst.Name)
	assert.True(t, strings.HasSuffix(lines[1], "ld v0, 0xff"))
	assert.True(t, strings.HasSuffix(lines[2], "drw v0, v1, 5"))
	assert.True(t, strings.HasSuffix(lines[3], "d16 0x0123"))
	assert.True(t, strings.HasPrefix(lines[4], "0208  aa"))
	assert.True(t, strings.HasSuffix(lines[4], "d8 0xaa"))
}
