package compiler

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Result summarises a successful compilation.
type Result struct {
	Symbols      *SymbolTable
	Variables    int
	Instructions int // end marker excluded
	Labels       int
}

// Translate runs one compilation over tokens: MEPA instructions go to code,
// the symbol table dump goes to table. Each call uses a fresh symbol table,
// emitter and label counter. On error the partial contents of code are not a
// usable program.
func Translate(tokens TokenSource, code, table io.Writer, logger *slog.Logger) (*Result, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	syms := NewSymbolTable()
	em := NewEmitter(code)
	p := NewParser(tokens, syms, em, logger)

	if err := p.ParseProgram(); err != nil {
		return nil, err
	}
	em.Finalize()
	if err := em.Err(); err != nil {
		return nil, fmt.Errorf("write instructions: %w", err)
	}

	if table != nil {
		if err := syms.Dump(table); err != nil {
			return nil, fmt.Errorf("write symbol table: %w", err)
		}
	}

	res := &Result{
		Symbols:      syms,
		Variables:    p.Variables(),
		Instructions: em.Count(),
		Labels:       em.Labels(),
	}
	logger.Debug("translated",
		"variables", res.Variables,
		"instructions", res.Instructions,
		"labels", res.Labels,
	)
	return res, nil
}

// Compile scans src with the built-in Lexer and translates it.
func Compile(src string, code, table io.Writer, logger *slog.Logger) (*Result, error) {
	return Translate(NewLexer(src), code, table, logger)
}

// CompileString is Compile with both outputs returned as text.
func CompileString(src string) (code string, table string, err error) {
	var codeBuf, tableBuf strings.Builder
	if _, err := Compile(src, &codeBuf, &tableBuf, nil); err != nil {
		return codeBuf.String(), "", err
	}
	return codeBuf.String(), tableBuf.String(), nil
}
