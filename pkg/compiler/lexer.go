package compiler

import (
	"fmt"
	"unicode"
)

// keywords maps source text to its keyword TokenType. The logical operators
// are spelled as words in LPD.
var keywords = map[string]TokenType{
	"prg":    PRG,
	"var":    VAR,
	"subrot": SUBROT,
	"return": RETURN,
	"int":    INT,
	"float":  FLOAT,
	"bool":   BOOL,
	"char":   CHAR,
	"begin":  BEGIN,
	"end":    END,
	"write":  WRITE,
	"read":   READ,
	"if":     IF,
	"then":   THEN,
	"else":   ELSE,
	"while":  WHILE,
	"do":     DO,
	"repeat": REPEAT,
	"until":  UNTIL,
	"for":    FOR,
	"to":     TO,
	"void":   VOID,
	"ou":     OR,
	"e":      AND,
	"nao":    NOT,
}

// Lexer holds all mutable state for a single scanning pass over src. It is a
// TokenSource: tokens are produced on demand, one per call to Next.
type Lexer struct {
	src  []rune
	pos  int // index of the next rune to consume
	line int // current 1-based source line
}

func NewLexer(src string) *Lexer {
	return &Lexer{src: []rune(src), pos: 0, line: 1}
}

func (l *Lexer) errorf(line int, format string, args ...any) error {
	return &Error{Kind: KindLexical, Line: line, Msg: fmt.Sprintf(format, args...)}
}

// peek returns the rune at the current position without advancing.
func (l *Lexer) peek() rune {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

// peek2 returns the rune one position ahead of the current position.
func (l *Lexer) peek2() rune {
	if l.pos+1 >= len(l.src) {
		return 0
	}
	return l.src[l.pos+1]
}

// advance consumes one rune and returns it.
func (l *Lexer) advance() rune {
	if l.pos >= len(l.src) {
		return 0
	}
	r := l.src[l.pos]
	l.pos++
	if r == '\n' {
		l.line++
	}
	return r
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.src) && unicode.IsSpace(l.peek()) {
		l.advance()
	}
}

// skipLineComment discards everything from the current position to end-of-line.
// The opening "//" must already have been consumed.
func (l *Lexer) skipLineComment() {
	for l.pos < len(l.src) && l.peek() != '\n' {
		l.advance()
	}
}

// skipBlockComment discards everything up to and including the closing "*/".
// The opening "/*" must already have been consumed.
func (l *Lexer) skipBlockComment() error {
	startLine := l.line
	for l.pos < len(l.src) {
		if l.peek() == '*' && l.peek2() == '/' {
			l.advance() // *
			l.advance() // /
			return nil
		}
		l.advance()
	}
	return l.errorf(startLine, "unterminated block comment")
}

// scanIdent collects a full identifier or keyword token.
// The first character (letter or '_') must still be at l.peek().
func (l *Lexer) scanIdent() Token {
	line := l.line
	start := l.pos
	for l.pos < len(l.src) {
		r := l.peek()
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			break
		}
		l.advance()
	}
	lexeme := string(l.src[start:l.pos])
	tt := IDENTIFIER
	if kw, ok := keywords[lexeme]; ok {
		tt = kw
	}
	return Token{Type: tt, Lexeme: lexeme, Line: line}
}

// scanNumber collects an integer literal, or a real literal when a '.' is
// followed by at least one digit. "1." leaves the dot for the next token.
func (l *Lexer) scanNumber() Token {
	line := l.line
	start := l.pos
	for l.pos < len(l.src) && unicode.IsDigit(l.peek()) {
		l.advance()
	}
	if l.peek() == '.' && unicode.IsDigit(l.peek2()) {
		l.advance() // consume '.'
		for l.pos < len(l.src) && unicode.IsDigit(l.peek()) {
			l.advance()
		}
		return Token{Type: REAL, Lexeme: string(l.src[start:l.pos]), Line: line}
	}
	return Token{Type: INTEGER, Lexeme: string(l.src[start:l.pos]), Line: line}
}

// scanEscape consumes the rune after a backslash.
func (l *Lexer) scanEscape(line int) (rune, error) {
	next := l.advance()
	switch next {
	case 'n':
		return '\n', nil
	case 't':
		return '\t', nil
	case '\\':
		return '\\', nil
	case '\'':
		return '\'', nil
	case '"':
		return '"', nil
	}
	return 0, l.errorf(line, "unknown escape sequence \\%c", next)
}

// scanChar collects a character literal 'c'.
func (l *Lexer) scanChar() (Token, error) {
	line := l.line
	l.advance() // consume opening '

	r := l.peek()
	if r == '\'' {
		return Token{}, l.errorf(line, "empty character literal")
	}
	if r == 0 || r == '\n' {
		return Token{}, l.errorf(line, "unterminated character literal")
	}

	var val rune
	if r == '\\' {
		l.advance()
		var err error
		if val, err = l.scanEscape(line); err != nil {
			return Token{}, err
		}
	} else {
		val = l.advance()
	}

	if l.peek() != '\'' {
		return Token{}, l.errorf(line, "unterminated character literal")
	}
	l.advance() // consume closing '

	return Token{Type: CHAR_LIT, Lexeme: string(val), Line: line}, nil
}

// scanString collects a string literal "...".
func (l *Lexer) scanString() (Token, error) {
	line := l.line
	l.advance() // consume opening "
	var val []rune

	for l.pos < len(l.src) {
		r := l.peek()
		if r == '"' {
			break
		}
		if r == '\n' {
			return Token{}, l.errorf(line, "unterminated string literal")
		}
		if r == '\\' {
			l.advance()
			esc, err := l.scanEscape(line)
			if err != nil {
				return Token{}, err
			}
			val = append(val, esc)
			continue
		}
		val = append(val, r)
		l.advance()
	}

	if l.pos >= len(l.src) {
		return Token{}, l.errorf(line, "unterminated string literal")
	}
	l.advance() // consume closing "

	return Token{Type: STRING, Lexeme: string(val), Line: line}, nil
}

// Next skips whitespace/comments and returns the next Token.
func (l *Lexer) Next() (Token, error) {
	for {
		l.skipWhitespace()
		if l.pos >= len(l.src) {
			return Token{Type: EOF, Lexeme: "", Line: l.line}, nil
		}
		if l.peek() == '/' && l.peek2() == '/' {
			l.advance()
			l.advance()
			l.skipLineComment()
			continue
		}
		if l.peek() == '/' && l.peek2() == '*' {
			l.advance()
			l.advance()
			if err := l.skipBlockComment(); err != nil {
				return Token{}, err
			}
			continue
		}
		break
	}

	ch := l.peek()
	line := l.line

	if unicode.IsLetter(ch) || ch == '_' {
		return l.scanIdent(), nil
	}
	if unicode.IsDigit(ch) {
		return l.scanNumber(), nil
	}
	if ch == '"' {
		return l.scanString()
	}
	if ch == '\'' {
		return l.scanChar()
	}

	l.advance() // consume the character before the switch
	switch ch {
	case '(':
		return Token{LPAREN, "(", line}, nil
	case ')':
		return Token{RPAREN, ")", line}, nil
	case '[':
		return Token{LBRACKET, "[", line}, nil
	case ']':
		return Token{RBRACKET, "]", line}, nil
	case '.':
		return Token{DOT, ".", line}, nil
	case ',':
		return Token{COMMA, ",", line}, nil
	case ';':
		return Token{SEMICOLON, ";", line}, nil
	case '+':
		return Token{PLUS, "+", line}, nil
	case '-':
		return Token{MINUS, "-", line}, nil
	case '*':
		return Token{STAR, "*", line}, nil
	case '/':
		return Token{SLASH, "/", line}, nil
	case '=':
		return Token{EQUALS, "=", line}, nil
	case '<':
		if l.peek() == '=' {
			l.advance()
			return Token{LESS_EQ, "<=", line}, nil
		}
		if l.peek() == '-' {
			l.advance()
			return Token{ASSIGN, "<-", line}, nil
		}
		return Token{LESS, "<", line}, nil
	case '>':
		if l.peek() == '=' {
			l.advance()
			return Token{GREATER_EQ, ">=", line}, nil
		}
		return Token{GREATER, ">", line}, nil
	case '!':
		if l.peek() == '=' {
			l.advance()
			return Token{NOT_EQ, "!=", line}, nil
		}
	}
	return Token{}, l.errorf(line, "unexpected character %q", ch)
}

// Lex tokenises src and returns all tokens including the final EOF token.
// It returns a non-nil error on the first illegal character or unterminated
// comment or literal.
func Lex(src string) ([]Token, error) {
	l := NewLexer(src)
	var tokens []Token
	for {
		tok, err := l.Next()
		if err != nil {
			return tokens, err
		}
		tokens = append(tokens, tok)
		if tok.Type == EOF {
			return tokens, nil
		}
	}
}
