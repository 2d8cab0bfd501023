package compiler

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a compilation failure.
type ErrorKind int

const (
	KindLexical ErrorKind = iota + 1
	KindSyntax
	KindSemantic
)

func (k ErrorKind) String() string {
	switch k {
	case KindLexical:
		return "lexical error"
	case KindSyntax:
		return "syntax error"
	case KindSemantic:
		return "semantic error"
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

var (
	ErrDuplicateIdentifier  = errors.New("identifier already declared")
	ErrUndeclaredIdentifier = errors.New("undeclared identifier")
	ErrIncompatibleTypes    = errors.New("incompatible types")
	ErrNotVariable          = errors.New("not a variable")
)

// Error is the single diagnostic a failed compilation produces.
type Error struct {
	Kind ErrorKind
	Line int
	Msg  string

	// Expected and Found describe the mismatch of a syntax error.
	Expected string
	Found    string

	// Err is the sentinel behind a semantic error, if any.
	Err error
}

func (e *Error) Error() string {
	if e.Kind == KindSyntax {
		return fmt.Sprintf("line %d: %s: expected %s, found %s", e.Line, e.Kind, e.Expected, e.Found)
	}
	return fmt.Sprintf("line %d: %s: %s", e.Line, e.Kind, e.Msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// describe spells a token for the "found" half of a syntax error.
func describe(tok Token) string {
	switch tok.Type {
	case EOF:
		return tok.Type.String()
	case IDENTIFIER, INTEGER, REAL, CHAR_LIT, STRING:
		return fmt.Sprintf("%s %q", tok.Type, tok.Lexeme)
	}
	return fmt.Sprintf("%q", tok.Type.String())
}

// describeType spells a token kind for the "expected" half of a syntax error.
func describeType(tt TokenType) string {
	switch tt {
	case EOF, IDENTIFIER, INTEGER, REAL, CHAR_LIT, STRING:
		return tt.String()
	}
	return fmt.Sprintf("%q", tt.String())
}
