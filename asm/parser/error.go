package parser

import (
	"fmt"
)

// Position defines the source position for a token or AST node.
type Position struct {
	File   string // File in which token was defined.
	Line   int    // Line number at which token was defined.
	Col    int    // Column number at which token was defined.
	Offset int    // Byte offset at which token was defined.
}

// IsZero returns true for positions which carry no source context.
func (p Position) IsZero() bool {
	return p.File == "" && p.Line == 0
}

func (p Position) String() string {
	if p.File == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Col)
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Col)
}

// Error defines a source error with position context. It is used by
// every stage of the assembler.
type Error struct {
	Pos Position
	Msg string
}

// NewError creates a new, formatted error message with the given source context.
func NewError(pos Position, f string, argv ...interface{}) *Error {
	return &Error{
		Pos: pos,
		Msg: fmt.Sprintf(f, argv...),
	}
}

func (e *Error) Error() string {
	if e.Pos.IsZero() {
		return e.Msg
	}
	return e.Pos.String() + ": " + e.Msg
}
