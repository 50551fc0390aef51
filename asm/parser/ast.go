// Package parser turns CHIP-8 assembly sources into an abstract syntax tree.
package parser

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/hexaflex/chip8/arch"
)

// AST defines an Abstract Syntax Tree for CHIP-8 sources.
type AST struct {
	files []string // Source files which were parsed into the AST.
	nodes *List    // AST node tree.
}

// NewAST creates a new, empty AST.
func NewAST() *AST {
	return &AST{
		nodes: NewList(Position{}, 0),
	}
}

// Files returns the list of file names associated with this AST.
func (a *AST) Files() []string {
	return a.files
}

// Nodes returns the top level node list.
func (a *AST) Nodes() *List {
	return a.nodes
}

// ParseFile parses the given file into the AST.
// Parsing the same file more than once is not an error and is silently ignored.
func (a *AST) ParseFile(filename string) error {
	fd, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer fd.Close()
	return a.Parse(fd, filename)
}

// Parse parses the given stream into the AST. The filename is used to provide
// source context. Parsing the same file more than once is not an error and is
// silently ignored.
func (a *AST) Parse(r io.Reader, filename string) error {
	filename, err := a.verifyFilename(filename)
	if err != nil {
		return err
	}

	if a.hasFile(filename) {
		return nil // silently ignore duplicate files.
	}

	a.files = append(a.files, filename)
	stack := []*List{a.nodes}

	return tokenize(r, filename, func(tt int, pos Position, value string) error {
		set := stack[len(stack)-1]

		switch tt {
		case tokInstructionBegin:
			ntype := Instruction
			if strings.EqualFold(value, "const") {
				ntype = Constant
			}

			n := NewList(pos, ntype)
			n.Append(NewValue(pos, Ident, value))
			set.Append(n)
			stack = append(stack, n)

		case tokExpressionBegin:
			n := NewList(pos, Expression)
			set.Append(n)
			stack = append(stack, n)

		case tokLabel:
			set.Append(NewValue(pos, Label, value))

		case tokNumber:
			set.Append(NewValue(pos, Number, value))

		case tokOperator:
			set.Append(NewValue(pos, Operator, value))

		case tokIdent:
			switch {
			case arch.IsRegister(value):
				set.Append(NewValue(pos, Register, strings.ToLower(value)))
			case isSpecial(value):
				set.Append(NewValue(pos, Special, strings.ToLower(value)))
			default:
				set.Append(NewValue(pos, Ident, value))
			}

		case tokIndirect:
			set.Append(NewValue(pos, Special, strings.ToLower(value)))

		case tokChar:
			value, err := strconv.Unquote(value)
			if err != nil {
				return NewError(pos, "invalid character literal %v", value)
			}

			r, size := utf8.DecodeRuneInString(value)
			if r == utf8.RuneError || size != len(value) {
				return NewError(pos, "invalid character literal %q", value)
			}
			set.Append(NewValue(pos, Number, strconv.Itoa(int(r))))

		case tokString:
			value, err := strconv.Unquote(value)
			if err != nil {
				return NewError(pos, "invalid string literal %v", value)
			}

			set.Append(NewValue(pos, String, value))

		case tokInstructionEnd, tokExpressionEnd:
			stack[len(stack)-1] = nil
			stack = stack[:len(stack)-1]
		}

		return nil
	})
}

// isSpecial returns true for the names of special operands like dt or k.
func isSpecial(name string) bool {
	_, ok := arch.Special(name)
	return ok
}

// verifyFilename returns filename after ensuring it is an absolute path and
// is otherwise valid. Empty file names are returned as-is.
func (a *AST) verifyFilename(filename string) (string, error) {
	if len(filename) > 0 {
		abs, err := filepath.Abs(filename)
		if err != nil {
			return filename, err
		}
		return abs, nil
	}

	return filename, nil
}

// hasFile returns true if the AST has seen the given file before.
// Sources without a name are never considered duplicates.
func (a *AST) hasFile(filename string) bool {
	if filename == "" {
		return false
	}
	for _, v := range a.files {
		if v == filename {
			return true
		}
	}
	return false
}

// String returns a human readable string representation of the node tree.
func (a *AST) String() string {
	var sb strings.Builder
	dumpNode(&sb, a.nodes, "")
	return sb.String()
}

func dumpNode(w io.Writer, n Node, indent string) {
	pos := n.Position()
	_, file := filepath.Split(pos.File)
	posStr := fmt.Sprintf("%s:%d:%d", file, pos.Line, pos.Col)

	switch t := n.(type) {
	case *Value:
		fmt.Fprintf(w, "%s%s %s(%q)\n", indent, posStr, t.Type(), t.Value)
	case *List:
		fmt.Fprintf(w, "%s%s %s {\n", indent, posStr, t.Type())

		_ = t.Each(func(i int, n Node) error {
			dumpNode(w, n, indent+"   ")
			return nil
		})

		fmt.Fprintf(w, "%s}\n", indent)
	}
}
