package grammar

import (
	"errors"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

type tokenType int

const (
	tEOF      tokenType = iota
	tUnion              // |
	tPlus               // +
	tLBracket           // [
	tRBracket           // ]
	tLBrace             // {
	tRBrace             // }
	tLParen             // (
	tRParen             // )
	tRef                // <ident>
	tLiteral            // "text" or 'text'
)

var tokenNames = [...]string{
	tEOF:      "end of expression",
	tUnion:    "'|'",
	tPlus:     "'+'",
	tLBracket: "'['",
	tRBracket: "']'",
	tLBrace:   "'{'",
	tRBrace:   "'}'",
	tLParen:   "'('",
	tRParen:   "')'",
	tRef:      "reference",
	tLiteral:  "literal",
}

func (t tokenType) String() string { return tokenNames[t] }

type token struct {
	typ  tokenType
	text string // decoded payload of tRef and tLiteral
	pos  int    // byte offset of the first character
}

// opensAtom reports whether t can start an atom, and so continue an
// implicit concatenation.
func (t token) opensAtom() bool {
	switch t.typ {
	case tLBracket, tLBrace, tLParen, tRef, tLiteral:
		return true
	}
	return false
}

// The DFA is built once and shared by every scanner.
var exprLexer = sync.OnceValues(newExprLexer)

func newExprLexer() (*lexmachine.Lexer, error) {
	lx := lexmachine.NewLexer()
	lx.Add([]byte(`[ \t\n\r]+`), skip)
	lx.Add([]byte(`[|]`), tokAction(tUnion))
	lx.Add([]byte(`[+]`), tokAction(tPlus))
	lx.Add([]byte(`[\[]`), tokAction(tLBracket))
	lx.Add([]byte(`[]]`), tokAction(tRBracket))
	lx.Add([]byte(`[{]`), tokAction(tLBrace))
	lx.Add([]byte(`[}]`), tokAction(tRBrace))
	lx.Add([]byte(`[(]`), tokAction(tLParen))
	lx.Add([]byte(`[)]`), tokAction(tRParen))
	lx.Add([]byte(`<`), delimited(tRef, '>'))
	lx.Add([]byte(`"`), delimited(tLiteral, '"'))
	lx.Add([]byte(`'`), delimited(tLiteral, '\''))

	if err := lx.Compile(); err != nil {
		return nil, err
	}
	return lx, nil
}

// tokenize splits expr into tokens. Every failure is reported as a
// *SyntaxError.
func tokenize(expr string) ([]token, error) {
	lx, err := exprLexer()
	if err != nil {
		return nil, err
	}
	scanner, err := lx.Scanner([]byte(expr))
	if err != nil {
		return nil, err
	}

	var toks []token
	for tok, err, eos := scanner.Next(); !eos; tok, err, eos = scanner.Next() {
		if err != nil {
			return nil, lexError(expr, err)
		}
		toks = append(toks, tok.(token))
	}
	return toks, nil
}

func lexError(expr string, err error) error {
	var se *SyntaxError
	if errors.As(err, &se) {
		return se
	}
	var ui *machines.UnconsumedInput
	if errors.As(err, &ui) && ui.StartTC < len(expr) {
		r, _ := utf8.DecodeRuneInString(expr[ui.StartTC:])
		return syntaxErrorf(ui.StartTC, "unexpected character %q", r)
	}
	return &SyntaxError{Offset: len(expr), Msg: err.Error()}
}

func skip(*lexmachine.Scanner, *machines.Match) (interface{}, error) {
	return nil, nil
}

func tokAction(typ tokenType) lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return token{typ: typ, pos: s.TC - len(m.Bytes)}, nil
	}
}

// delimited reads the payload after an opening '<' or quote up to the
// unescaped closer, and moves the scanner past it.
func delimited(typ tokenType, closer rune) lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		start := s.TC - len(m.Bytes)

		var sb strings.Builder
		tc := s.TC
		for tc < len(s.Text) {
			r, size := utf8.DecodeRune(s.Text[tc:])
			tc += size
			switch r {
			case closer:
				s.TC = tc
				return token{typ: typ, text: sb.String(), pos: start}, nil
			case '\\':
				if tc >= len(s.Text) {
					return nil, syntaxErrorf(tc, "escape at end of expression")
				}
				r, size = utf8.DecodeRune(s.Text[tc:])
				tc += size
				sb.WriteRune(unescape(r))
			default:
				sb.WriteRune(r)
			}
		}
		return nil, syntaxErrorf(start, "unterminated %s, missing %q", typ, closer)
	}
}

var controlEscapes = map[rune]rune{
	'n': '\n',
	't': '\t',
	'r': '\r',
	'f': '\f',
	'v': '\v',
	'a': '\a',
	'b': '\b',
	'0': 0,
}

// unescape maps the character after a backslash. Word characters may name a
// control character; anything else stands for itself.
func unescape(r rune) rune {
	if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) {
		if c, ok := controlEscapes[r]; ok {
			return c
		}
	}
	return r
}
