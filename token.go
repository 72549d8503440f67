package main

import (
	"strconv"
	"strings"
)

// Token is one parsed unit of a postfix program: an Int literal, a Command, or
// a quoted Sequence of further tokens. Tokens are immutable once parsed.
type Token interface {
	String() string
	isToken()
}

// Value is a Token that may live on the value stack: only Int and Sequence
// qualify; Commands are never data.
type Value interface {
	Token
	isValue()
}

// Int is an integer literal, and the only scalar value.
type Int int64

// Sequence is a quoted sub-program. The same type serves as pending
// instructions, once unpacked by exec, and as a value on the stack.
type Sequence []Token

func (Int) isToken()      {}
func (Command) isToken()  {}
func (Sequence) isToken() {}

func (Int) isValue()      {}
func (Sequence) isValue() {}

func (n Int) String() string { return strconv.FormatInt(int64(n), 10) }

func (seq Sequence) String() string {
	var sb strings.Builder
	seq.format(&sb)
	return sb.String()
}

func (seq Sequence) format(sb *strings.Builder) {
	sb.WriteByte('(')
	for i, tok := range seq {
		if i > 0 {
			sb.WriteByte(' ')
		}
		if sub, ok := tok.(Sequence); ok {
			sub.format(sb)
		} else {
			sb.WriteString(tok.String())
		}
	}
	sb.WriteByte(')')
}

// Program is a validated postfix program: the number of arguments it requires,
// and the body that forms its initial continuation.
type Program struct {
	Argc int
	Body Sequence
}

func (prog *Program) String() string {
	var sb strings.Builder
	sb.WriteString("(postfix ")
	sb.WriteString(strconv.Itoa(prog.Argc))
	for _, tok := range prog.Body {
		sb.WriteByte(' ')
		sb.WriteString(tok.String())
	}
	sb.WriteByte(')')
	return sb.String()
}
