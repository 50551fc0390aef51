package parser

import (
	"fmt"
	"io"
	"runtime"
)

// Known token types.
const (
	tokInstructionBegin = 1 + iota
	tokInstructionEnd
	tokExpressionBegin
	tokExpressionEnd
	tokLabel
	tokNumber
	tokIdent
	tokString
	tokChar
	tokOperator
	tokIndirect
)

// tokenFunc is called whenever a new token is read from source.
type tokenFunc func(typ int, pos Position, value string) error

// tokenizer defines tokenizer state.
type tokenizer struct {
	lineSizes []int
	data      []byte
	tf        tokenFunc
	start     Position
	end       Position
	atEOF     byte
}

// tokenize reads sourcecode from the given reader and turns it into a flat
// stream of tokens. Each token is passed into the given tokenFunc as it
// is read. The filename provides source context for each token.
func tokenize(r io.Reader, filename string, tf tokenFunc) (err error) {
	var tok tokenizer

	tok.data, err = io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("parse error: %v", err)
	}

	tok.data = append(tok.data, '\n')

	// The tokenizer breaks out of its loop through the use of a panic,
	// We need to catch it here and convert it to a proper error message.
	defer func() {
		x := recover()
		if x == nil || x == io.EOF {
			return
		}

		if _, ok := x.(runtime.Error); ok {
			panic(x)
		}

		err = x.(error)
	}()

	tok.tf = tf
	tok.start = Position{
		File: filename,
		Line: 1,
		Col:  1,
	}
	tok.end = tok.start
	tok.readDocument()
	return
}

// readDocument reads a source file.
func (t *tokenizer) readDocument() {
	for {
		switch {
		case t.readSpace():
		case t.readComment():
		case t.readLabel():
		case t.readConst():
		case t.readInstruction():
		default:
			t.error("unexpected token: '%c'; expected comment, label or instruction", t.read())
		}
	}
}

// readLabel reads a label definition.
func (t *tokenizer) readLabel() bool {
	if !t.readChar(':') {
		return false
	}

	t.ignore()

	if !t.readName() {
		t.error("invalid label definition; expected name")
	}

	t.emit(tokLabel)
	return true
}

// readConst reads a constant definition:
//
//    const NAME expr
//    const NAME = expr
//
func (t *tokenizer) readConst() bool {
	if !t.readUniqueWord("const") {
		return false
	}

	t.emit(tokInstructionBegin)
	defer t.emit(tokInstructionEnd)

	t.readBlank()
	t.emit(tokExpressionBegin)
	if !t.readName() {
		t.error("invalid constant definition; expected name")
	}
	t.emit(tokIdent)
	t.emit(tokExpressionEnd)

	t.readBlank()
	if t.readAny('=', ',') {
		t.ignore()
		t.readBlank()
	}

	if t.atLineEnd() {
		t.error("invalid constant definition; expected value")
	}

	t.readExpression()
	return true
}

// readInstruction reads a full instruction, including its comma
// separated operands.
func (t *tokenizer) readInstruction() bool {
	if !t.readName() {
		t.unread(-1)
		return false
	}

	t.emit(tokInstructionBegin)
	defer t.emit(tokInstructionEnd)

	t.readBlank()
	if t.atLineEnd() {
		return true
	}

	for t.readExpression() {
		t.readBlank()
	}

	return true
}

// readExpression reads a single operand expression.
// Returns true if a comma is encountered, meaning more operands follow.
func (t *tokenizer) readExpression() bool {
	t.emit(tokExpressionBegin)
	defer t.emit(tokExpressionEnd)

	var n int
	for {
		switch {
		case t.readBlank():
		case t.atLineEnd():
			if n == 0 {
				t.error("missing operand after ','")
			}
			return false
		case t.readChar(','):
			if n == 0 {
				t.error("unexpected ','; expected operand")
			}
			t.ignore()
			return true
		case t.readIndirect():
			n++
		case t.readWord("$$"):
			t.emit(tokIdent)
			n++
		case t.readOperator():
			n++
		case t.readValue():
			n++
		default:
			t.error("unexpected token '%c'; want comma, operator or value", t.read())
		}
	}
}

// readIndirect reads the "[i]" operand.
func (t *tokenizer) readIndirect() bool {
	if !t.readChar('[') {
		return false
	}

	if !t.readAny('i', 'I') || !t.readChar(']') {
		t.error("invalid indirect operand; expected [i]")
	}

	t.emit(tokIndirect)
	return true
}

// readValue reads a single expression value.
func (t *tokenizer) readValue() bool {
	return t.readNumber() || t.readIdent() || t.readCharlit() || t.readString()
}

// readOperator reads an operator in an expression.
func (t *tokenizer) readOperator() bool {
	r := t.read()
	t.read()

	// Deal with multi-byte operators seperately.
	switch t.current() {
	case ">>", "<<":
		t.emit(tokOperator)
		return true
	}

	t.unread(1)

	if isOperator(r) {
		t.emit(tokOperator)
		return true
	}

	t.unread(1)
	return false
}

// readCharlit reads a character literal. This supports escape sequences.
func (t *tokenizer) readCharlit() bool {
	return t.readQuoted('\'', tokChar)
}

// readString reads a string literal. This supports escape sequences.
func (t *tokenizer) readString() bool {
	return t.readQuoted('"', tokString)
}

func (t *tokenizer) readQuoted(quote byte, typ int) bool {
	if !t.readChar(quote) {
		return false
	}

	var escaping bool

loop:
	for {
		r := t.read()

		switch r {
		case '\n':
			t.error("unterminated literal; missing %c", quote)
		case '\\':
			escaping = !escaping
		case quote:
			if !escaping {
				break loop
			}
			escaping = false
		default:
			escaping = false
		}
	}

	t.emit(typ)
	return true
}

// readNumber reads a numeric literal.
//
// A number can take any of the forms:
//
//    123
//    0x7b
//    0b1111011
//    16#7b
//
// Where the last one is x#y with x being the base and y the digits.
// Underscores may be used to group digits.
func (t *tokenizer) readNumber() bool {
	if !t.readAny('0', '1', '2', '3', '4', '5', '6', '7', '8', '9') {
		return false
	}

	t.unread(1)

	switch {
	case t.readWord("0x"), t.readWord("0X"):
		t.readSet([]byte(`_0123456789abcdefABCDEF`)...)
	case t.readWord("0b"), t.readWord("0B"):
		t.readSet('_', '0', '1')
	default:
		t.readSet([]byte(`_0123456789`)...)
		if t.readChar('#') {
			t.readSet([]byte(`_0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ`)...)
		}
	}

	if !t.haveWordDelim() {
		t.error("unexpected token '%c' in number", t.read())
	}

	t.emit(tokNumber)
	return true
}

// readIdent reads an identifier.
func (t *tokenizer) readIdent() bool {
	if !t.readName() {
		return false
	}
	t.emit(tokIdent)
	return true
}

// readName reads a name.
func (t *tokenizer) readName() bool {
	if r := t.read(); r != '.' && r != '_' && !isAlpha(r) {
		t.unread(1)
		return false
	}

	for {
		r := t.read()
		if !(r == '_' || r == '.' || isAlpha(r) || isDigit(r)) {
			t.unread(1)
			break
		}
	}

	return true
}

// readUniqueWord does the same as readWord, except it ensures that
// the given word is immediately followed by a word boundary character.
func (t *tokenizer) readUniqueWord(str string) bool {
	if !t.readWord(str) {
		return false
	}

	if !t.haveWordDelim() {
		t.unread(-1)
		return false
	}

	return true
}

// readWord reads bytes equal to the given string.
// Returns false if there is no match.
func (t *tokenizer) readWord(str string) bool {
	for i, c := range []byte(str) {
		if !t.readChar(c) {
			t.unread(i)
			return false
		}
	}
	return true
}

// readComment reads and skips code comments.
func (t *tokenizer) readComment() bool {
	if !t.readChar(';') {
		return false
	}

	t.readUntil('\n')
	t.ignore()
	return true
}

// readSpace reads whitespace, including newlines, and skips it.
// Returns true if anything was read.
func (t *tokenizer) readSpace() bool {
	var n int

	for r := t.read(); isSpace(r); r = t.read() {
		n++
	}

	if t.atEOF == 0 {
		t.unread(1)
	}

	t.ignore()
	return n > 0
}

// readBlank reads spaces and tabs on the current line and skips them.
func (t *tokenizer) readBlank() bool {
	var n int

	for r := t.read(); isSpace(r) && r != '\n'; r = t.read() {
		n++
	}

	t.unread(1)
	t.ignore()
	return n > 0
}

// atLineEnd returns true if the next byte ends the current statement.
func (t *tokenizer) atLineEnd() bool {
	r := t.read()
	t.unread(1)
	return r == '\n' || r == ';'
}

// haveWordDelim checks if the next byte constitutes a word delimiter.
// This would typically be whitespace or a comma.
func (t *tokenizer) haveWordDelim() bool {
	r := t.read()
	defer t.unread(1)

	switch {
	case r == ',', r == ';', r == ']':
	case isOperator(r), r == '<', r == '>':
	case isSpace(r):
	default:
		return false
	}

	return true
}

// readSet reads bytes as long as they occur in set.
// Returns true if more than zero bytes have been read.
func (t *tokenizer) readSet(set ...byte) bool {
	var n int

	for inSet(set, t.read()) {
		n++
	}

	t.unread(1)
	return n > 0
}

// readUntil reads bytes until it encounters x.
// Returns true if more than zero bytes have been read.
func (t *tokenizer) readUntil(x byte) bool {
	var n int

	for t.read() != x {
		n++
	}

	t.unread(1)
	return n > 0
}

// readAny reads the next byte if it is in the given set.
func (t *tokenizer) readAny(set ...byte) bool {
	if inSet(set, t.read()) {
		return true
	}

	t.unread(1)
	return false
}

// readChar reads the next byte, only if it matches x.
func (t *tokenizer) readChar(x byte) bool {
	if t.read() == x {
		return true
	}
	t.unread(1)
	return false
}

// current returns the current read token.
func (t *tokenizer) current() string {
	end := t.end.Offset
	if end > len(t.data) {
		end = len(t.data)
	}
	if t.start.Offset >= end {
		return ""
	}
	return string(t.data[t.start.Offset:end])
}

// error aborts tokenization with the given message.
func (t *tokenizer) error(f string, argv ...interface{}) {
	panic(NewError(t.start, f, argv...))
}

// emit emits a new token of the given type, using the currently
// read buffer.
func (t *tokenizer) emit(typ int) {
	value := t.current()

	if err := t.tf(typ, t.start, value); err != nil {
		panic(err)
	}

	t.ignore()
}

// ignore skips the currently read buffer.
func (t *tokenizer) ignore() {
	t.start = t.end
}

// unread unreads the last n read bytes.
// This can not read back into the previous token.
// If n is -1, this unreads the entire token.
func (t *tokenizer) unread(n int) {
	if n == -1 {
		t.end = t.start
		return
	}

	var r byte
	for ; n > 0; n-- {
		t.end.Offset--
		if t.end.Offset >= len(t.data) {
			r = '\n'
		} else {
			r = t.data[t.end.Offset]
		}

		if r == '\n' {
			t.end.Line--
			t.end.Col = t.lineSizes[len(t.lineSizes)-1]
			t.lineSizes = t.lineSizes[:len(t.lineSizes)-1]
		} else {
			t.end.Col--
		}
	}
}

// read reads the next byte from the stream.
// Past the end of the data it yields newlines, a limited number of times.
func (t *tokenizer) read() byte {
	var r byte

	if t.end.Offset >= len(t.data) {
		if t.atEOF > 8 {
			panic(io.EOF)
		}

		t.atEOF++
		r = '\n'
	} else {
		r = t.data[t.end.Offset]
	}

	t.end.Offset++

	if r == '\n' {
		t.lineSizes = append(t.lineSizes, t.end.Col)
		t.end.Line++
		t.end.Col = 1
	} else {
		t.end.Col++
	}

	return r
}

func isAlpha(x byte) bool {
	return (x >= 'a' && x <= 'z') || (x >= 'A' && x <= 'Z')
}

func isDigit(x byte) bool {
	return x >= '0' && x <= '9'
}

func isSpace(x byte) bool {
	return x == ' ' || x == '\t' || x == '\r' || x == '\n'
}

func inSet(set []byte, x byte) bool {
	for _, v := range set {
		if x == v {
			return true
		}
	}
	return false
}

func isOperator(x byte) bool {
	switch x {
	case '+', '-', '*', '/', '%', '&', '|', '^', '~', '(', ')':
		return true
	}
	return false
}
