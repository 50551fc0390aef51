package asm

import (
	"bytes"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestBuild(t *testing.T) {
	includes := []string{"../testdata/"}

	rom, err := Build("examples/count/main.c8", includes)
	assert.NoError(t, err)

	want := []byte{
		0x60, 0x00, // ld v0, 0
		0x61, 0x1e, // ld v1, X
		0x62, 0x0d, // ld v2, Y
		0x00, 0xe0, // loop: cls
		0x22, 0x12, // call show_digit
		0x70, 0x01, // add v0, 1
		0x30, 0x10, // se v0, 16
		0x12, 0x06, // jp loop
		0x12, 0x10, // halt: jp halt
		0xf0, 0x29, // show_digit: ld f, v0
		0xd1, 0x25, // drw v1, v2, 5
		0x00, 0xee, // ret
	}

	assert.True(t, bytes.Equal(want, rom), "have % x", rom)
}

func TestBuildAST(t *testing.T) {
	ast, err := BuildAST("examples/count/main.c8", []string{"../testdata/"})
	assert.NoError(t, err)
	assert.Len(t, ast.Files(), 1)
	assert.Contains(t, ast.String(), `Label("show_digit")`)
}

func TestBuildCircular(t *testing.T) {
	_, err := Build("../testdata/circular/a.c8", nil)
	assert.ErrorContains(t, err, "circular reference")
}

func TestBuildMissingFile(t *testing.T) {
	_, err := Build("../testdata/does-not-exist.c8", nil)
	assert.Error(t, err)
}
