package eval

import (
	"fmt"
	"strings"
	"testing"

	"github.com/hexaflex/chip8/asm/parser"
	"github.com/retroenv/retrogolib/assert"
)

type evalTest struct {
	A, B interface{}
	Want interface{}
}

type evalTestSet struct {
	Op   string
	list []evalTest
}

// makeTests returns tests using all possible data type combinations.
// The value in v is the answer we expect for two integer operands.
// Every combination involving a string is expected to fail.
func makeTests(v interface{}) []evalTest {
	return []evalTest{
		{int64(123), int64(456), v},
		{int64(123), "456", nil},
		{"123", int64(456), nil},
		{"123", "456", nil},
	}
}

func TestApply(t *testing.T) {
	for i, v := range []evalTestSet{
		{"+", makeTests(int64(579))},
		{"-", makeTests(int64(-333))},
		{"*", makeTests(int64(56088))},
		{"/", makeTests(int64(0))},
		{"%", makeTests(int64(123))},
		{"<<", makeTests(int64(0))},
		{">>", makeTests(int64(0))},
		{"&", makeTests(int64(72))},
		{"|", makeTests(int64(507))},
		{"^", makeTests(int64(435))},
	} {
		for ii, vv := range v.list {
			have, err := apply(v.Op, vv.A, vv.B)
			if err != nil {
				if vv.Want != nil || !equals(err, makeErr(v.Op, vv.A, vv.B)) {
					t.Fatalf("test %d/%d (%T(%v) %s %T(%v)):\nwant: %v\nhave: %v",
						i+1, ii+1, vv.A, vv.A, v.Op, vv.B, vv.B, vv.Want, err)
				}
				continue
			}

			if !equals(have, vv.Want) {
				t.Fatalf("test %d/%d (%T(%v) %s %T(%v)):\nwant: %T(%v)\nhave: %T(%v)",
					i+1, ii+1, vv.A, vv.A, v.Op, vv.B, vv.B, vv.Want, vv.Want, have, have)
			}
		}
	}
}

func TestApplyErrors(t *testing.T) {
	_, err := apply("/", int64(1), int64(0))
	assert.ErrorContains(t, err, "division by zero")

	_, err = apply("%", int64(1), int64(0))
	assert.ErrorContains(t, err, "division by zero")

	_, err = apply("<<", int64(1), int64(-1))
	assert.ErrorContains(t, err, "negative shift")
}

// expr parses src as the single operand of a d16 directive.
func expr(t *testing.T, src string) *parser.List {
	t.Helper()

	ast := parser.NewAST()
	assert.NoError(t, ast.Parse(strings.NewReader("d16 "+src), ""))
	return ast.Nodes().At(0).(*parser.List)
}

func resolver(symbols map[string]int) ReferenceFunc {
	return func(name string) (int, error) {
		if v, ok := symbols[name]; ok {
			return v, nil
		}
		return 0, fmt.Errorf("reference to undefined symbol %s", name)
	}
}

func TestEvaluate(t *testing.T) {
	symbols := map[string]int{
		"start": 0x200,
		"$$":    0x204,
	}

	tests := []struct {
		src  string
		want string
	}{
		{"1", "1"},
		{"1 + 2 * 3", "7"},
		{"(1 + 2) * 3", "9"},
		{"10 - 4 - 3", "3"},
		{"1 << 4 | 0x0f", "31"},
		{"0xff & ~1", "254"},
		{"-1", "-1"},
		{"--1", "1"},
		{"2 * -3", "-6"},
		{"+5", "5"},
		{"1 | 2 ^ 3 & 4", "3"},
		{"start + 2", "514"},
		{"START", "512"},
		{"$$ - start", "4"},
		{"0b1010 >> 1", "5"},
		{"7 % 4", "3"},
		{`"text"`, "text"},
	}

	for _, tt := range tests {
		instr := expr(t, tt.src)
		assert.NoError(t, Evaluate(instr, resolver(symbols)), tt.src)

		result := instr.At(1).(*parser.List)
		assert.Equal(t, 1, result.Len(), tt.src)
		assert.Equal(t, tt.want, result.At(0).(*parser.Value).Value, tt.src)
	}
}

func TestEvaluateKeepsRegisters(t *testing.T) {
	ast := parser.NewAST()
	assert.NoError(t, ast.Parse(strings.NewReader("ld [i], v3"), ""))

	instr := ast.Nodes().At(0).(*parser.List)
	assert.NoError(t, Evaluate(instr, resolver(nil)))
	assert.Equal(t, parser.Special, instr.At(1).(*parser.List).At(0).Type())
	assert.Equal(t, parser.Register, instr.At(2).(*parser.List).At(0).Type())
}

func TestEvaluateErrors(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"(1 + 2", "mismatched opening parenthesis"},
		{"1 + 2)", "mismatched closing parenthesis"},
		{"1 +", "missing operands"},
		{"1 ~ 2", "single operand"},
		{"*2", "missing operand"},
		{"v1 + 1", "can not be used in an expression"},
		{"missing", "undefined symbol"},
		{`"a" + 1`, "can not evaluate"},
		{"1 2", "too many results"},
		{"4 / (2 - 2)", "division by zero"},
	}

	for _, tt := range tests {
		err := Evaluate(expr(t, tt.src), resolver(nil))
		assert.ErrorContains(t, err, tt.want, tt.src)
	}
}

// makeErr construct an error for the given values.
func makeErr(op string, a, b interface{}) error {
	return fmt.Errorf("can not evaluate %T %s %T", a, op, b)
}

// equals returns true if a equals b.
// This performs typed comparisons.
func equals(a, b interface{}) bool {
	switch va := a.(type) {
	case error:
		if vb, ok := b.(error); ok {
			return va.Error() == vb.Error()
		}
	case string:
		if vb, ok := b.(string); ok {
			return va == vb
		}
	case int64:
		if vb, ok := b.(int64); ok {
			return va == vb
		}
	}
	return false
}
