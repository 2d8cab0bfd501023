package compiler

import (
	"fmt"
	"io"
	"strings"
)

// Category says what kind of entity an identifier names.
type Category int

const (
	CategoryProgram Category = iota
	CategoryVariable
	CategoryConstant
	CategoryFunction
	CategoryParameter
)

// categoryNames are the spellings used in the .ts dump.
var categoryNames = [...]string{
	CategoryProgram:   "programa",
	CategoryVariable:  "variável",
	CategoryConstant:  "constante",
	CategoryFunction:  "função",
	CategoryParameter: "parâmetro",
}

func (c Category) String() string {
	if int(c) >= 0 && int(c) < len(categoryNames) {
		return categoryNames[c]
	}
	return "desconhecida"
}

// NoAddress marks entries that occupy no storage, such as the program name.
const NoAddress = -1

type Symbol struct {
	Lexeme   string
	Category Category
	Type     Type
	Address  int
}

// SymbolTable is the single flat scope of an LPD program. Records keep their
// insertion order for the dump; lookups go through a lexeme index.
type SymbolTable struct {
	symbols []*Symbol
	index   map[string]int // lexeme -> position in symbols of the latest record

	// Next free variable address (monotonically increasing).
	nextAddress int
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		index: make(map[string]int),
	}
}

// Insert records a new identifier. A lexeme that is already present is a
// duplicate, except for program entries, which may be declared again.
// Declaring a variable at address a moves the free-address counter to a+1.
func (s *SymbolTable) Insert(lexeme string, cat Category, typ Type, address int) (*Symbol, error) {
	if _, exists := s.Lookup(lexeme); exists && cat != CategoryProgram {
		return nil, fmt.Errorf("%q: %w", lexeme, ErrDuplicateIdentifier)
	}

	sym := &Symbol{
		Lexeme:   lexeme,
		Category: cat,
		Type:     typ,
		Address:  address,
	}
	s.index[lexeme] = len(s.symbols)
	s.symbols = append(s.symbols, sym)

	if cat == CategoryVariable && address >= 0 {
		s.nextAddress = address + 1
	}
	return sym, nil
}

// Lookup returns the record for lexeme and whether it was found.
func (s *SymbolTable) Lookup(lexeme string) (*Symbol, bool) {
	i, ok := s.index[lexeme]
	if !ok {
		return nil, false
	}
	return s.symbols[i], true
}

// NextAddress returns the next free variable address.
func (s *SymbolTable) NextAddress() int {
	return s.nextAddress
}

// Len returns the number of records, duplicates of the program name included.
func (s *SymbolTable) Len() int {
	return len(s.symbols)
}

// Symbols returns a copy of every record in insertion order.
func (s *SymbolTable) Symbols() []Symbol {
	out := make([]Symbol, 0, len(s.symbols))
	for _, sym := range s.symbols {
		out = append(out, *sym)
	}
	return out
}

func (sym *Symbol) dumpLine() string {
	return fmt.Sprintf("TS[ lex: %s | cat: %s | tip: %s | end: %d ]\n",
		sym.Lexeme, sym.Category, sym.Type, sym.Address)
}

// Dump writes one line per record, in insertion order:
//
//	TS[ lex: <lexeme> | cat: <category> | tip: <type> | end: <address> ]
func (s *SymbolTable) Dump(w io.Writer) error {
	for _, sym := range s.symbols {
		if _, err := io.WriteString(w, sym.dumpLine()); err != nil {
			return err
		}
	}
	return nil
}

// String returns the dump as text.
func (s *SymbolTable) String() string {
	var sb strings.Builder
	for _, sym := range s.symbols {
		sb.WriteString(sym.dumpLine())
	}
	return sb.String()
}
