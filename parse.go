package main

import (
	"strconv"
	"unicode"
	"unicode/utf8"
)

// Every program opens with this keyword, right after its first paren.
const headerKeyword = "postfix"

// lexeme is a raw token along with its byte offset in the source text.
type lexeme struct {
	text string
	pos  int
}

func (lx lexeme) end() int { return lx.pos + len(lx.text) }

// lex splits src on whitespace, with every paren standing as its own lexeme.
func lex(src string) (lxs []lexeme) {
	start := -1
	flush := func(i int) {
		if start >= 0 {
			lxs = append(lxs, lexeme{src[start:i], start})
			start = -1
		}
	}
	for i := 0; i < len(src); {
		r, n := utf8.DecodeRuneInString(src[i:])
		switch {
		case r == '(' || r == ')':
			flush(i)
			lxs = append(lxs, lexeme{src[i : i+n], i})
		case unicode.IsSpace(r):
			flush(i)
		case start < 0:
			start = i
		}
		i += n
	}
	flush(len(src))
	return lxs
}

func parseLiteral(token string) (Int, bool) {
	n, err := strconv.ParseInt(token, 10, 64)
	return Int(n), err == nil
}

func isParen(token string) bool { return token == "(" || token == ")" }

// Check validates the syntax of a program, returning the number of arguments
// that it requires.
func Check(src string) (argc int, err error) {
	return check(src, lex(src))
}

func check(src string, lxs []lexeme) (int, error) {
	// ( postfix N ... )
	if len(lxs) < 3 ||
		lxs[0].text != "(" ||
		lxs[1].text != headerKeyword ||
		lxs[len(lxs)-1].text != ")" {
		return 0, headerError(src, lxs)
	}
	argc, err := strconv.Atoi(lxs[2].text)
	if err != nil || argc < 0 {
		return 0, &SyntaxError{Err: ErrBadHeader, Pos: lxs[2].pos, End: lxs[2].end()}
	}

	for _, lx := range lxs[2:] {
		if _, isCmd := lookupCommand(lx.text); isCmd || isParen(lx.text) {
			continue
		}
		if _, isInt := parseLiteral(lx.text); !isInt {
			return 0, syntaxError(ErrBadCommand, lx)
		}
	}

	depth := 0
	var open []lexeme
	for _, lx := range lxs[2 : len(lxs)-1] {
		switch lx.text {
		case "(":
			depth++
			open = append(open, lx)
		case ")":
			depth--
			if depth < 0 {
				return 0, &SyntaxError{Err: ErrUnbalanced, Pos: lx.pos, End: lx.end()}
			}
			open = open[:len(open)-1]
		}
	}
	if depth != 0 {
		lx := open[0]
		return 0, &SyntaxError{Err: ErrUnbalanced, Pos: lx.pos, End: lx.end()}
	}

	return argc, nil
}

// headerError spans the opening "( postfix" when present, or all of src.
func headerError(src string, lxs []lexeme) *SyntaxError {
	se := &SyntaxError{Err: ErrBadHeader, Pos: 0, End: len(src)}
	if len(lxs) >= 2 {
		se.Pos, se.End = lxs[0].pos, lxs[1].end()
	}
	return se
}

// Parse validates src and builds its token tree.
func Parse(src string) (*Program, error) {
	lxs := lex(src)
	argc, err := check(src, lxs)
	if err != nil {
		return nil, err
	}
	// skip "( postfix N", group everything up to the closing paren
	body, end, err := group(lxs, 3)
	if err != nil {
		return nil, err
	}
	if end != len(lxs)-1 {
		return nil, &SyntaxError{Err: ErrUnbalanced, Pos: lxs[end].pos, End: lxs[end].end()}
	}
	return &Program{Argc: argc, Body: body}, nil
}

// MustParse is like Parse but panics on any syntax error.
func MustParse(src string) *Program {
	prog, err := Parse(src)
	if err != nil {
		panic(err)
	}
	return prog
}

// group collects tokens starting at i, just past an opening paren, up to its
// matching close paren, recursing into any nested parens. Returns the grouped
// sequence and the index of the matching close paren.
func group(lxs []lexeme, i int) (Sequence, int, error) {
	seq := Sequence{}
	for ; i < len(lxs); i++ {
		lx := lxs[i]
		switch lx.text {
		case ")":
			return seq, i, nil
		case "(":
			sub, end, err := group(lxs, i+1)
			if err != nil {
				return nil, end, err
			}
			seq = append(seq, sub)
			i = end
		default:
			tok, err := literalToken(lx)
			if err != nil {
				return nil, i, err
			}
			seq = append(seq, tok)
		}
	}
	se := &SyntaxError{Err: ErrUnbalanced, Pos: -1, End: -1}
	if n := len(lxs); n > 0 {
		se.Pos, se.End = lxs[n-1].pos, lxs[n-1].end()
	}
	return nil, len(lxs) - 1, se
}

func literalToken(lx lexeme) (Token, error) {
	if cmd, ok := lookupCommand(lx.text); ok {
		return cmd, nil
	}
	if n, ok := parseLiteral(lx.text); ok {
		return n, nil
	}
	return nil, syntaxError(ErrBadCommand, lx)
}

// ParseArgs validates argument text: whitespace separated integers, exactly
// argc of them.
func ParseArgs(src string, argc int) ([]Int, error) {
	lxs := lex(src)
	args := make([]Int, 0, len(lxs))
	for _, lx := range lxs {
		n, ok := parseLiteral(lx.text)
		if !ok {
			return nil, syntaxError(ErrBadArgument, lx)
		}
		args = append(args, n)
	}
	if len(args) != argc {
		return nil, &SyntaxError{Err: ErrArgCount, Pos: 0, End: len(src)}
	}
	return args, nil
}
