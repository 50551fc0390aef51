// Package rom reads and writes raw program images and renders them as
// human-readable listings.
//
// A program image has no header or other framing: it is the exact byte
// sequence copied to arch.ProgramStart.
package rom

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/hexaflex/chip8/arch"
)

// ErrTooLarge is returned for images which do not fit in program memory.
var ErrTooLarge = errors.New("rom: image exceeds program memory")

// Read reads a program image from r.
func Read(r io.Reader) ([]byte, error) {
	// Read one byte past the limit to detect oversized images
	// without consuming an unbounded stream.
	data, err := io.ReadAll(io.LimitReader(r, arch.MaxProgramSize+1))
	if err != nil {
		return nil, errors.Wrapf(err, "rom: read")
	}

	if len(data) > arch.MaxProgramSize {
		return nil, errors.Wrapf(ErrTooLarge, "more than %d bytes", arch.MaxProgramSize)
	}

	return data, nil
}

// Load reads the program image from the given file.
func Load(file string) ([]byte, error) {
	fd, err := os.Open(file)
	if err != nil {
		return nil, errors.Wrapf(err, "rom: open")
	}
	defer fd.Close()

	data, err := Read(fd)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", file)
	}
	return data, nil
}

// Write writes the program image to w.
func Write(w io.Writer, data []byte) error {
	if len(data) > arch.MaxProgramSize {
		return errors.Wrapf(ErrTooLarge, "%d bytes", len(data))
	}

	_, err := w.Write(data)
	return errors.Wrapf(err, "rom: write")
}

// Save writes the program image to the given file.
func Save(file string, data []byte) error {
	var buf bytes.Buffer
	if err := Write(&buf, data); err != nil {
		return err
	}

	return errors.Wrapf(os.WriteFile(file, buf.Bytes(), 0o644), "rom: save %s", file)
}

// Dump writes a listing of the program image to w. Each instruction word
// is shown with its load address, its reference mnemonic and its assembler
// form. Words which are not valid instructions, usually sprite or other
// data, are listed as d16 directives. A trailing odd byte is listed as d8.
func Dump(w io.Writer, data []byte) error {
	bw := bufio.NewWriter(w)

	for i := 0; i+1 < len(data); i += arch.InstructionLen {
		addr := arch.ProgramStart + i
		instr := arch.Decode(uint16(data[i])<<8 | uint16(data[i+1]))

		fmt.Fprintf(bw, "%04x  %04x  %-4s  %s\n",
			addr, instr.Word, arch.Mnemonic(instr.Op), instr)
	}

	if len(data)%2 == 1 {
		last := len(data) - 1
		fmt.Fprintf(bw, "%04x  %02x          d8 0x%02x\n",
			arch.ProgramStart+last, data[last], data[last])
	}

	return errors.Wrapf(bw.Flush(), "rom: dump")
}
