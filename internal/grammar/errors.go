package grammar

import "fmt"

// SyntaxError reports malformed expression text. Offset is the byte offset
// into the expression where the problem was detected.
type SyntaxError struct {
	Offset int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at offset %d: %s", e.Offset, e.Msg)
}

func syntaxErrorf(offset int, format string, args ...any) *SyntaxError {
	return &SyntaxError{Offset: offset, Msg: fmt.Sprintf(format, args...)}
}

// UnresolvedIdentifierError reports a reference to an identifier that has no
// rule in the grammar table.
type UnresolvedIdentifierError struct {
	Ident string
}

func (e *UnresolvedIdentifierError) Error() string {
	return fmt.Sprintf("no rule defines <%s>", e.Ident)
}

// NestingLimitError reports brackets nested deeper than the session allows.
type NestingLimitError struct {
	Limit  int
	Offset int
}

func (e *NestingLimitError) Error() string {
	return fmt.Sprintf("brackets nested deeper than %d at offset %d", e.Limit, e.Offset)
}
