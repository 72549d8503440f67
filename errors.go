package main

import (
	"errors"
	"fmt"
)

// Syntax error kinds, reported before any execution through *SyntaxError.
var (
	ErrBadHeader   = errors.New("bad header")
	ErrBadCommand  = errors.New("bad command")
	ErrUnbalanced  = errors.New("unbalanced parens")
	ErrBadArgument = errors.New("bad argument")
	ErrArgCount    = errors.New("incorrect number of arguments")
)

// Runtime error kinds, reported through *RuntimeError.
var (
	ErrArgs        = errors.New("not enough args")
	ErrNotInt      = errors.New("arg not int")
	ErrNotSequence = errors.New("arg is not executable sequence")
	ErrZero        = errors.New("illegal operation by zero")
	ErrIndex       = errors.New("bad index")
	ErrExhausted   = errors.New("stack became empty")
	ErrStepLimit   = errors.New("step limit exceeded")
)

// SyntaxError reports malformed program or argument text.
// Pos and End are byte offsets of the offending text, or -1 if the error is
// not attributable to a single lexeme.
type SyntaxError struct {
	Err   error
	Token string
	Pos   int
	End   int
}

func syntaxError(err error, lx lexeme) *SyntaxError {
	return &SyntaxError{Err: err, Token: lx.text, Pos: lx.pos, End: lx.end()}
}

func (se *SyntaxError) Error() string { return "syntax error: " + se.Message() }
func (se *SyntaxError) Unwrap() error { return se.Err }

// Message returns the error description without the "syntax error" prefix.
func (se *SyntaxError) Message() string {
	switch {
	case se.Token == "":
		return se.Err.Error()
	case errors.Is(se.Err, ErrBadArgument):
		return fmt.Sprintf("%v: %v", se.Err, se.Token)
	default:
		return fmt.Sprintf("%v %v", se.Err, se.Token)
	}
}

// RuntimeError reports the first failure of a run; Op names the command that
// failed, and is empty when the machine itself gave up.
type RuntimeError struct {
	Op  string
	Err error
}

func (re *RuntimeError) Error() string {
	if re.Op == "" {
		return fmt.Sprintf("runtime error: %v", re.Err)
	}
	return fmt.Sprintf("runtime error: %v: %v", re.Op, re.Err)
}

func (re *RuntimeError) Unwrap() error { return re.Err }

func opError(cmd Command, err error) *RuntimeError {
	return &RuntimeError{Op: cmd.String(), Err: err}
}
