package compiler

import (
	"errors"
	"reflect"
	"testing"
)

func TestLex(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []Token
	}{
		{
			name:  "Empty",
			input: "",
			expected: []Token{
				{Type: EOF, Lexeme: "", Line: 1},
			},
		},
		{
			name:  "Program Header",
			input: "prg teste; var int x;",
			expected: []Token{
				{Type: PRG, Lexeme: "prg", Line: 1},
				{Type: IDENTIFIER, Lexeme: "teste", Line: 1},
				{Type: SEMICOLON, Lexeme: ";", Line: 1},
				{Type: VAR, Lexeme: "var", Line: 1},
				{Type: INT, Lexeme: "int", Line: 1},
				{Type: IDENTIFIER, Lexeme: "x", Line: 1},
				{Type: SEMICOLON, Lexeme: ";", Line: 1},
				{Type: EOF, Lexeme: "", Line: 1},
			},
		},
		{
			name:  "Operators",
			input: "<- <= < >= > = != + - * / ( ) [ ] . ,",
			expected: []Token{
				{Type: ASSIGN, Lexeme: "<-", Line: 1},
				{Type: LESS_EQ, Lexeme: "<=", Line: 1},
				{Type: LESS, Lexeme: "<", Line: 1},
				{Type: GREATER_EQ, Lexeme: ">=", Line: 1},
				{Type: GREATER, Lexeme: ">", Line: 1},
				{Type: EQUALS, Lexeme: "=", Line: 1},
				{Type: NOT_EQ, Lexeme: "!=", Line: 1},
				{Type: PLUS, Lexeme: "+", Line: 1},
				{Type: MINUS, Lexeme: "-", Line: 1},
				{Type: STAR, Lexeme: "*", Line: 1},
				{Type: SLASH, Lexeme: "/", Line: 1},
				{Type: LPAREN, Lexeme: "(", Line: 1},
				{Type: RPAREN, Lexeme: ")", Line: 1},
				{Type: LBRACKET, Lexeme: "[", Line: 1},
				{Type: RBRACKET, Lexeme: "]", Line: 1},
				{Type: DOT, Lexeme: ".", Line: 1},
				{Type: COMMA, Lexeme: ",", Line: 1},
				{Type: EOF, Lexeme: "", Line: 1},
			},
		},
		{
			name:  "Word Operators",
			input: "a ou b e nao c",
			expected: []Token{
				{Type: IDENTIFIER, Lexeme: "a", Line: 1},
				{Type: OR, Lexeme: "ou", Line: 1},
				{Type: IDENTIFIER, Lexeme: "b", Line: 1},
				{Type: AND, Lexeme: "e", Line: 1},
				{Type: NOT, Lexeme: "nao", Line: 1},
				{Type: IDENTIFIER, Lexeme: "c", Line: 1},
				{Type: EOF, Lexeme: "", Line: 1},
			},
		},
		{
			name:  "Numbers",
			input: "12 3.14 7.",
			expected: []Token{
				{Type: INTEGER, Lexeme: "12", Line: 1},
				{Type: REAL, Lexeme: "3.14", Line: 1},
				{Type: INTEGER, Lexeme: "7", Line: 1},
				{Type: DOT, Lexeme: ".", Line: 1},
				{Type: EOF, Lexeme: "", Line: 1},
			},
		},
		{
			name:  "Assignment Without Spaces",
			input: "x<-1",
			expected: []Token{
				{Type: IDENTIFIER, Lexeme: "x", Line: 1},
				{Type: ASSIGN, Lexeme: "<-", Line: 1},
				{Type: INTEGER, Lexeme: "1", Line: 1},
				{Type: EOF, Lexeme: "", Line: 1},
			},
		},
		{
			name:  "Comments And Lines",
			input: "begin // first\n/* two\nlines */ end\n",
			expected: []Token{
				{Type: BEGIN, Lexeme: "begin", Line: 1},
				{Type: END, Lexeme: "end", Line: 3},
				{Type: EOF, Lexeme: "", Line: 4},
			},
		},
		{
			name:  "Character And String",
			input: `'a' '\n' "oi mundo"`,
			expected: []Token{
				{Type: CHAR_LIT, Lexeme: "a", Line: 1},
				{Type: CHAR_LIT, Lexeme: "\n", Line: 1},
				{Type: STRING, Lexeme: "oi mundo", Line: 1},
				{Type: EOF, Lexeme: "", Line: 1},
			},
		},
		{
			name:  "Keywords Are Case Sensitive",
			input: "Begin begin_x",
			expected: []Token{
				{Type: IDENTIFIER, Lexeme: "Begin", Line: 1},
				{Type: IDENTIFIER, Lexeme: "begin_x", Line: 1},
				{Type: EOF, Lexeme: "", Line: 1},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Lex(tt.input)
			if err != nil {
				t.Fatalf("Lex() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Lex() got = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestLexErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"Illegal Character", "x # y", `line 1: lexical error: unexpected character '#'`},
		{"Lone Bang", "\n!x", `line 2: lexical error: unexpected character '!'`},
		{"Unterminated Comment", "/* never\nclosed", "line 1: lexical error: unterminated block comment"},
		{"Unterminated Character", "'ab'", "line 1: lexical error: unterminated character literal"},
		{"Empty Character", "''", "line 1: lexical error: empty character literal"},
		{"Unterminated String", "\"abc\n\"", "line 1: lexical error: unterminated string literal"},
		{"Bad Escape", `"\q"`, `line 1: lexical error: unknown escape sequence \q`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Lex(tt.input)
			if err == nil {
				t.Fatal("expected error")
			}
			if err.Error() != tt.want {
				t.Errorf("got %q, want %q", err.Error(), tt.want)
			}
			var cerr *Error
			if !errors.As(err, &cerr) || cerr.Kind != KindLexical {
				t.Errorf("got %#v, want lexical *Error", err)
			}
		})
	}
}

func TestLexerIsLazy(t *testing.T) {
	l := NewLexer("prg p; #")
	for _, want := range []TokenType{PRG, IDENTIFIER, SEMICOLON} {
		tok, err := l.Next()
		if err != nil {
			t.Fatalf("Next() error before the bad character: %v", err)
		}
		if tok.Type != want {
			t.Fatalf("got %s, want %s", tok.Type, want)
		}
	}
	if _, err := l.Next(); err == nil {
		t.Fatal("expected error at '#'")
	}

	l = NewLexer("x")
	l.Next()
	for range 3 {
		tok, err := l.Next()
		if err != nil || tok.Type != EOF {
			t.Fatalf("got %v, %v; want EOF forever", tok, err)
		}
	}
}

func TestTokenTypeString(t *testing.T) {
	if got := ASSIGN.String(); got != "<-" {
		t.Errorf("ASSIGN = %q", got)
	}
	if got := EOF.String(); got != "end of file" {
		t.Errorf("EOF = %q", got)
	}
	if got := TokenType(999).String(); got != "TokenType(999)" {
		t.Errorf("out of range = %q", got)
	}
}
