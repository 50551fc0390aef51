package asm

import (
	"strings"
	"unicode/utf8"

	"github.com/hexaflex/chip8/arch"
	"github.com/hexaflex/chip8/asm/eval"
	"github.com/hexaflex/chip8/asm/parser"
	"github.com/hexaflex/chip8/asm/syntax"
	"github.com/pkg/errors"
)

// ErrProgramTooLarge is returned when the assembled program does not fit
// into the program area.
var ErrProgramTooLarge = errors.New("program too large")

// assembler holds assembler context. It turns a source AST into a ROM image.
type assembler struct {
	rom     []byte         // Assembled program.
	symbols map[string]int // Table of labels mapped to their addresses.
	address int            // Address at which next instruction is written.
}

func newAssembler() *assembler {
	return &assembler{
		symbols: make(map[string]int),
	}
}

// Assemble compiles the given source AST into a ROM image which is
// loaded at arch.ProgramStart. The AST is modified in the process.
func Assemble(ast *parser.AST) ([]byte, error) {
	return newAssembler().assemble(ast)
}

// assemble compiles the given source AST into a ROM image.
func (a *assembler) assemble(ast *parser.AST) ([]byte, error) {
	if err := syntax.Verify(ast); err != nil {
		return nil, err
	}

	if err := a.resolveLabels(ast.Nodes()); err != nil {
		return nil, err
	}

	if size := a.address - arch.ProgramStart; size > arch.MaxProgramSize {
		return nil, errors.Wrapf(ErrProgramTooLarge, "%d bytes, limit is %d", size, arch.MaxProgramSize)
	}

	if err := a.evaluateConstants(ast.Nodes()); err != nil {
		return nil, err
	}

	if err := a.evaluateInstructions(ast.Nodes()); err != nil {
		return nil, err
	}

	if err := a.compile(ast.Nodes()); err != nil {
		return nil, err
	}

	return a.rom, nil
}

// resolveLabels finds all label definitions in the given set and resolves their
// addresses. Label definitions are removed.
func (a *assembler) resolveLabels(nodes *parser.List) error {
	a.address = arch.ProgramStart

	for i := 0; i < nodes.Len(); i++ {
		n := nodes.At(i)

		if n.Type() != parser.Label {
			a.address += encodedLen(n)
			continue
		}

		lbl := n.(*parser.Value)
		key := strings.ToLower(lbl.Value)

		if _, ok := a.symbols[key]; ok {
			return parser.NewError(lbl.Position(), "duplicate definition name %q", lbl.Value)
		}

		a.symbols[key] = a.address

		nodes.Remove(i)
		i--
	}

	return nil
}

// evaluateConstants evaluates constant definitions. Their values have already
// been substituted by the syntax pass; this reports invalid definitions which
// are never referenced.
func (a *assembler) evaluateConstants(nodes *parser.List) error {
	a.address = arch.ProgramStart

	return nodes.Each(func(_ int, n parser.Node) error {
		switch n.Type() {
		case parser.Instruction:
			a.address += encodedLen(n)

		case parser.Constant:
			constant := n.Copy().(*parser.List)
			return eval.Evaluate(constant, a.resolveReference)
		}

		return nil
	})
}

// evaluateInstructions evaluates all compile-time expressions in the given node list.
func (a *assembler) evaluateInstructions(nodes *parser.List) error {
	a.address = arch.ProgramStart

	return nodes.Each(func(_ int, n parser.Node) error {
		if n.Type() != parser.Instruction {
			return nil
		}

		err := eval.Evaluate(n.(*parser.List), a.resolveReference)
		a.address += encodedLen(n)
		return err
	})
}

// resolveReference finds the address for a given label reference.
// "$$" yields the address of the current instruction.
func (a *assembler) resolveReference(name string) (int, error) {
	if name == "$$" {
		return a.address, nil
	}

	if addr, ok := a.symbols[strings.ToLower(name)]; ok {
		return addr, nil
	}

	return 0, errors.Errorf("reference to undefined symbol %s", name)
}

// compile compiles all given instructions.
func (a *assembler) compile(nodes *parser.List) error {
	a.address = arch.ProgramStart

	return nodes.Each(func(_ int, n parser.Node) error {
		if n.Type() != parser.Instruction {
			return nil
		}

		code, err := a.encode(n.(*parser.List))
		if err != nil {
			return err
		}

		a.rom = append(a.rom, code...)
		a.address += len(code)
		return nil
	})
}

// operand is an evaluated instruction operand.
type operand struct {
	pos     parser.Position
	kind    parser.Type // Register, Special or Number.
	name    string      // Register or special name.
	value   int64       // Register index or immediate value.
	special arch.Operand
}

// encode encodes the given instruction into its final binary form.
func (a *assembler) encode(instr *parser.List) ([]byte, error) {
	name := instr.At(0).(*parser.Value)

	if size, ok := syntax.IsDataDirective(name.Value); ok {
		return encodeDataDirective(instr, size)
	}

	args := make([]operand, 0, instr.Len()-1)
	for i := 1; i < instr.Len(); i++ {
		arg, err := newOperand(instr.At(i).(*parser.List))
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}

	form, ok := matchForm(name.Value, args)
	if !ok {
		return nil, parser.NewError(name.Position(), "invalid operands for instruction %q", name.Value)
	}

	var x, y, imm int
	for i, kind := range form.Operands {
		arg := args[i]

		switch kind {
		case arch.VX:
			x = int(arg.value)
		case arch.VY:
			y = int(arg.value)
		case arch.Byte:
			if arg.value < -0x80 || arg.value > 0xff {
				return nil, parser.NewError(arg.pos, "value %d out of range for byte operand", arg.value)
			}
			imm = int(arg.value) & 0xff
		case arch.Nibble, arch.Addr:
			if arg.value < 0 || arg.value > int64(kind.Max()) {
				return nil, parser.NewError(arg.pos, "value %d out of range; expected 0-%d", arg.value, kind.Max())
			}
			imm = int(arg.value)
		}
	}

	word := arch.Encode(form.Op, x, y, imm)
	return []byte{byte(word >> 8), byte(word)}, nil
}

// newOperand classifies an evaluated operand expression.
func newOperand(expr *parser.List) (operand, error) {
	n := expr.At(0).(*parser.Value)
	arg := operand{pos: n.Position(), kind: n.Type(), name: n.Value}

	switch n.Type() {
	case parser.Register:
		arg.value = int64(arch.RegisterIndex(n.Value))
	case parser.Special:
		arg.special, _ = arch.Special(n.Value)
	case parser.Number:
		arg.value, _ = parser.ParseNumber(n.Value)
	default:
		return arg, parser.NewError(n.Position(), "unexpected %s operand %q", n.Type(), n.Value)
	}

	return arg, nil
}

// matchForm finds the first form of the given mnemonic whose operand kinds
// accept args.
func matchForm(mnemonic string, args []operand) (arch.Form, bool) {
	for _, form := range arch.FormsFor(mnemonic) {
		if len(form.Operands) != len(args) {
			continue
		}

		match := true
		for i, kind := range form.Operands {
			if !accepts(kind, args[i]) {
				match = false
				break
			}
		}

		if match {
			return form, true
		}
	}
	return arch.Form{}, false
}

// accepts returns true if the operand kind can take arg.
func accepts(kind arch.Operand, arg operand) bool {
	switch {
	case kind == arch.V0:
		return arg.kind == parser.Register && arg.value == 0
	case kind.IsRegister():
		return arg.kind == parser.Register
	case kind.IsImmediate():
		return arg.kind == parser.Number
	default:
		return arg.kind == parser.Special && arg.special == kind
	}
}

// encodeDataDirective encodes the operands for the given data directive.
func encodeDataDirective(instr *parser.List, size int) ([]byte, error) {
	out := make([]byte, 0, (instr.Len()-1)*size)

	for i := 1; i < instr.Len(); i++ {
		expr := instr.At(i).(*parser.List)
		value := expr.At(0).(*parser.Value)

		switch value.Type() {
		case parser.String:
			for _, r := range value.Value {
				if err := checkData(value.Position(), int64(r), size); err != nil {
					return nil, err
				}
				out = writeData(out, int64(r), size)
			}

		case parser.Number:
			num, _ := parser.ParseNumber(value.Value)
			if err := checkData(value.Position(), num, size); err != nil {
				return nil, err
			}
			out = writeData(out, num, size)

		default:
			return nil, parser.NewError(value.Position(), "unexpected %s %q in data directive", value.Type(), value.Value)
		}
	}

	return out, nil
}

// checkData ensures v fits into a data element of the given byte size.
// Negative values are accepted down to the signed minimum.
func checkData(pos parser.Position, v int64, size int) error {
	limit := int64(1) << (8 * size)
	if v < -limit/2 || v >= limit {
		return parser.NewError(pos, "value %d out of range for %d-bit data", v, 8*size)
	}
	return nil
}

// writeData writes the given value to out as a sequence of big endian bytes
// and returns the resulting byte slice.
func writeData(out []byte, v int64, size int) []byte {
	switch size {
	case 1:
		out = append(out, byte(v))
	case 2:
		out = append(out, byte(v>>8), byte(v))
	}
	return out
}

// encodedLen returns the byte size occupied by the given node's compiled version.
func encodedLen(n parser.Node) int {
	if n.Type() != parser.Instruction {
		return 0
	}

	instr := n.(*parser.List)
	name := instr.At(0).(*parser.Value)

	if size, ok := syntax.IsDataDirective(name.Value); ok {
		return encodedDataDirectiveLen(instr, size)
	}

	return arch.InstructionLen
}

// encodedDataDirectiveLen computes the encoded length for the given data directive.
// String operands yield one element per character.
func encodedDataDirectiveLen(instr *parser.List, size int) int {
	var n int

	for i := 1; i < instr.Len(); i++ {
		expr := instr.At(i).(*parser.List)

		if expr.Len() == 1 && expr.At(0).Type() == parser.String {
			n += utf8.RuneCountInString(expr.At(0).(*parser.Value).Value) * size
		} else {
			n += size
		}
	}

	return n
}
