package compiler

import "fmt"

// TokenType identifies the category of a lexed token.
type TokenType int

const (
	EOF TokenType = iota // sentinel: end of input

	// Keywords
	PRG    // "prg"
	VAR    // "var"
	SUBROT // "subrot"
	RETURN // "return"
	INT    // "int"
	FLOAT  // "float"
	BOOL   // "bool"
	CHAR   // "char"
	BEGIN  // "begin"
	END    // "end"
	WRITE  // "write"
	READ   // "read"
	IF     // "if"
	THEN   // "then"
	ELSE   // "else"
	WHILE  // "while"
	DO     // "do"
	REPEAT // "repeat"
	UNTIL  // "until"
	FOR    // "for"
	TO     // "to"
	VOID   // "void"

	// Literals
	IDENTIFIER // variable / program name
	INTEGER    // decimal integer literal
	REAL       // decimal literal with a fractional part
	CHAR_LIT   // 'c'
	STRING     // "..."

	// Relational operators
	LESS       // <
	LESS_EQ    // <=
	EQUALS     // =
	NOT_EQ     // !=
	GREATER    // >
	GREATER_EQ // >=

	// Additive operators
	PLUS  // +
	MINUS // -
	OR    // "ou"

	// Multiplicative operators
	STAR  // *
	SLASH // /
	AND   // "e"

	NOT // "nao"

	// Delimiters
	LPAREN    // (
	RPAREN    // )
	LBRACKET  // [
	RBRACKET  // ]
	DOT       // .
	COMMA     // ,
	SEMICOLON // ;
	ASSIGN    // <-
)

// tokenNames is indexed by TokenType and spells each kind the way it appears
// in diagnostics.
var tokenNames = [...]string{
	EOF:        "end of file",
	PRG:        "prg",
	VAR:        "var",
	SUBROT:     "subrot",
	RETURN:     "return",
	INT:        "int",
	FLOAT:      "float",
	BOOL:       "bool",
	CHAR:       "char",
	BEGIN:      "begin",
	END:        "end",
	WRITE:      "write",
	READ:       "read",
	IF:         "if",
	THEN:       "then",
	ELSE:       "else",
	WHILE:      "while",
	DO:         "do",
	REPEAT:     "repeat",
	UNTIL:      "until",
	FOR:        "for",
	TO:         "to",
	VOID:       "void",
	IDENTIFIER: "identifier",
	INTEGER:    "integer",
	REAL:       "real",
	CHAR_LIT:   "character",
	STRING:     "string",
	LESS:       "<",
	LESS_EQ:    "<=",
	EQUALS:     "=",
	NOT_EQ:     "!=",
	GREATER:    ">",
	GREATER_EQ: ">=",
	PLUS:       "+",
	MINUS:      "-",
	OR:         "ou",
	STAR:       "*",
	SLASH:      "/",
	AND:        "e",
	NOT:        "nao",
	LPAREN:     "(",
	RPAREN:     ")",
	LBRACKET:   "[",
	RBRACKET:   "]",
	DOT:        ".",
	COMMA:      ",",
	SEMICOLON:  ";",
	ASSIGN:     "<-",
}

// Compile-time check that every TokenType has a name.
var _ = tokenNames[ASSIGN]

func (tt TokenType) String() string {
	if int(tt) >= 0 && int(tt) < len(tokenNames) {
		return tokenNames[tt]
	}
	return fmt.Sprintf("TokenType(%d)", int(tt))
}

// Token is a single lexical unit produced by the Lexer.
type Token struct {
	Type   TokenType
	Lexeme string // the exact source text that was matched
	Line   int    // 1-based source line
}

func (t Token) String() string {
	return fmt.Sprintf("%-12s %-14q  line %d", t.Type, t.Lexeme, t.Line)
}

// TokenSource hands the parser one token at a time. After the input is
// exhausted it keeps returning an EOF token.
type TokenSource interface {
	Next() (Token, error)
}

// SliceSource replays an already scanned token stream, such as the result
// of Lex. Past the end it keeps returning an EOF token on the last line.
type SliceSource struct {
	tokens []Token
	pos    int
}

func NewSliceSource(tokens []Token) *SliceSource {
	return &SliceSource{tokens: tokens}
}

func (s *SliceSource) Next() (Token, error) {
	if s.pos < len(s.tokens) {
		tok := s.tokens[s.pos]
		s.pos++
		return tok, nil
	}
	line := 1
	if n := len(s.tokens); n > 0 {
		line = s.tokens[n-1].Line
	}
	return Token{Type: EOF, Line: line}, nil
}
