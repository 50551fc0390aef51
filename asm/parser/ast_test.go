package parser

import (
	"strings"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func parse(t *testing.T, src string) *List {
	t.Helper()

	ast := NewAST()
	assert.NoError(t, ast.Parse(strings.NewReader(src), ""))
	return ast.Nodes()
}

// values returns the types and values of the nodes in the given expression.
func values(expr *List) []string {
	out := make([]string, 0, expr.Len())
	for _, n := range expr.Slice() {
		out = append(out, n.Type().String()+":"+n.(*Value).Value)
	}
	return out
}

func TestParseProgram(t *testing.T) {
	nodes := parse(t, `
; Draws a digit.
const X 10
:start
	ld v0, X        ; x coordinate
	ld f, v0
	drw v0, v1, 5
	jp start
`)

	assert.Equal(t, 6, nodes.Len())
	assert.Equal(t, Constant, nodes.At(0).Type())
	assert.Equal(t, Label, nodes.At(1).Type())
	assert.Equal(t, "start", nodes.At(1).(*Value).Value)

	ld := nodes.At(2).(*List)
	assert.Equal(t, Instruction, ld.Type())
	assert.Equal(t, 3, ld.Len())
	assert.Equal(t, "ld", ld.At(0).(*Value).Value)
	assert.Equal(t, "Register:v0", strings.Join(values(ld.At(1).(*List)), " "))
	assert.Equal(t, "Ident:X", strings.Join(values(ld.At(2).(*List)), " "))

	ldf := nodes.At(3).(*List)
	assert.Equal(t, "Special:f", strings.Join(values(ldf.At(1).(*List)), " "))

	drw := nodes.At(4).(*List)
	assert.Equal(t, 4, drw.Len())
	assert.Equal(t, "Number:5", strings.Join(values(drw.At(3).(*List)), " "))
}

func TestParsePosition(t *testing.T) {
	nodes := parse(t, "cls\n  ret")

	pos := nodes.At(1).Position()
	assert.Equal(t, 2, pos.Line)
	assert.Equal(t, 3, pos.Col)
}

func TestParseExpressions(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"d8 1 + 2", "Number:1 Operator:+ Number:2"},
		{"d8 (1<<4)|0x0f", "Operator:( Number:1 Operator:<< Number:4 Operator:) Operator:| Number:0x0f"},
		{"d8 -1", "Operator:- Number:1"},
		{"d8 ~0b1010", "Operator:~ Number:0b1010"},
		{"d8 16#ff", "Number:16#ff"},
		{"d8 'A'", "Number:65"},
		{`d8 "hi"`, "String:hi"},
		{"d16 $$+2", "Ident:$$ Operator:+ Number:2"},
		{"ld [I], v3", "Special:[i]"},
		{"ld DT, VA", "Special:dt"},
	}

	for _, tt := range tests {
		nodes := parse(t, tt.src)
		assert.Equal(t, 1, nodes.Len(), tt.src)

		instr := nodes.At(0).(*List)
		assert.Equal(t, tt.want, strings.Join(values(instr.At(1).(*List)), " "), tt.src)
	}
}

func TestParseOperands(t *testing.T) {
	nodes := parse(t, "d8 1, 2 , 3,4 ; trailing comment\ncls")
	assert.Equal(t, 2, nodes.Len())

	d8 := nodes.At(0).(*List)
	assert.Equal(t, 5, d8.Len())
	assert.Equal(t, "Number:4", strings.Join(values(d8.At(4).(*List)), " "))
}

func TestParseConst(t *testing.T) {
	for _, src := range []string{"const SIZE 5", "const SIZE = 5", "const SIZE, 5"} {
		nodes := parse(t, src)
		assert.Equal(t, 1, nodes.Len(), src)

		c := nodes.At(0).(*List)
		assert.Equal(t, Constant, c.Type(), src)
		assert.Equal(t, 3, c.Len(), src)
		assert.Equal(t, "Ident:SIZE", strings.Join(values(c.At(1).(*List)), " "), src)
		assert.Equal(t, "Number:5", strings.Join(values(c.At(2).(*List)), " "), src)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"ld v0,", "missing operand"},
		{"ld v0,,1", "expected operand"},
		{`d8 "abc`, "unterminated literal"},
		{"ld [j], v0", "expected [i]"},
		{"d8 12z", "in number"},
		{"123", "unexpected token"},
		{": x", "expected name"},
		{"const", "expected name"},
		{"const X", "expected value"},
		{"d8 'ab'", "invalid character literal"},
	}

	for _, tt := range tests {
		ast := NewAST()
		err := ast.Parse(strings.NewReader(tt.src), "test.c8")
		assert.Error(t, err, tt.src)
		assert.ErrorContains(t, err, tt.want, tt.src)
	}
}

func TestParseDuplicateFile(t *testing.T) {
	ast := NewAST()
	assert.NoError(t, ast.Parse(strings.NewReader("cls"), "a.c8"))
	assert.NoError(t, ast.Parse(strings.NewReader("ret"), "a.c8"))
	assert.Equal(t, 1, ast.Nodes().Len())
	assert.Len(t, ast.Files(), 1)
}

func TestNumbers(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"123", 123},
		{"0x7b", 123},
		{"0X7B", 123},
		{"0b1111_011", 123},
		{"16#7b", 123},
		{"2#1111011", 123},
		{"8#173", 123},
		{"1_000", 1000},
	}

	for _, tt := range tests {
		have, err := ParseNumber(tt.in)
		assert.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, have, tt.in)
	}

	_, err := ParseNumber("0b102")
	assert.Error(t, err)
}

func TestString(t *testing.T) {
	ast := NewAST()
	assert.NoError(t, ast.Parse(strings.NewReader("cls"), ""))
	assert.Contains(t, ast.String(), `Ident("cls")`)
}

func TestErrorPosition(t *testing.T) {
	err := NewError(Position{File: "a.c8", Line: 3, Col: 7}, "bad %s", "thing")
	assert.Equal(t, "a.c8:3:7: bad thing", err.Error())

	err = NewError(Position{Line: 2, Col: 1}, "bad")
	assert.Equal(t, "2:1: bad", err.Error())

	err = NewError(Position{}, "no context")
	assert.Equal(t, "no context", err.Error())
}
