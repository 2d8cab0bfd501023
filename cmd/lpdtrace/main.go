// Command lpdtrace prints every stage of one compilation: the token stream,
// the MEPA instructions and the symbol table.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/reusee/dscope"
	"github.com/reusee/e5"

	"lpdc/pkg/asm"
	"lpdc/pkg/compiler"
	"lpdc/pkg/configs"
	"lpdc/pkg/logs"
)

var wrap = e5.Wrap.With(e5.WrapStacktrace)

type Module struct {
	dscope.Module
	Logs logs.Module
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintln(stderr, "usage: lpdtrace <source-file>")
		return 1
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintln(stderr, "read error:", wrap(err))
		return 1
	}
	src := string(data)

	// Lex
	tokens, err := compiler.Lex(src)
	if err != nil {
		fmt.Fprintln(stderr, "lex error:", err)
		return 1
	}

	fmt.Fprintf(stdout, "Tokens (%d)\n", len(tokens))
	for _, tok := range tokens {
		fmt.Fprintln(stdout, " ", tok)
	}
	fmt.Fprintln(stdout)

	code := 1
	// parser decisions (declarations, labels) are logged at debug level
	dscope.New(new(Module)).Fork(
		func() logs.Writer {
			return stderr
		},
		func() configs.Settings {
			return configs.Settings{
				LogLevel: "debug",
			}
		},
	).Call(func(
		logger logs.Logger,
	) {
		// Translate
		var instrs, table strings.Builder
		res, err := compiler.Translate(compiler.NewSliceSource(tokens), &instrs, &table, logger)
		if err != nil {
			fmt.Fprint(stdout, instrs.String())
			fmt.Fprintln(stderr, "compile error:", err)
			return
		}

		fmt.Fprintf(stdout, "Instructions (%d, %d labels)\n", res.Instructions, res.Labels)
		prog, err := asm.Assemble(instrs.String())
		if err != nil {
			fmt.Fprintln(stderr, "assemble error:", wrap(err))
			return
		}
		for i, in := range prog.Instructions {
			fmt.Fprintf(stdout, "  %4d  %s\n", i, in)
		}
		fmt.Fprintln(stdout)

		fmt.Fprintf(stdout, "Symbols (%d)\n", res.Symbols.Len())
		fmt.Fprint(stdout, table.String())
		code = 0
	})
	return code
}
