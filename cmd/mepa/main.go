// Command mepa runs a MEPA program on the reference machine.
//
//	mepa [-max-steps n] [-trace] <file.mepa | file.lpd>
//
// A .lpd file is compiled in memory first. LEIT reads whitespace separated
// numbers from standard input; IMPR prints one value per line.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/reusee/dscope"

	"lpdc/pkg/asm"
	"lpdc/pkg/compiler"
	"lpdc/pkg/configs"
	"lpdc/pkg/logs"
	"lpdc/pkg/mepa"
)

type Module struct {
	dscope.Module
	Logs    logs.Module
	Configs configs.Module
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("mepa", flag.ContinueOnError)
	fs.SetOutput(stderr)
	maxSteps := fs.Int("max-steps", 0, "instruction budget (default: max_steps from lpdc.cue)")
	trace := fs.Bool("trace", false, "log every executed instruction")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "usage: mepa [-max-steps n] [-trace] <file.mepa | file.lpd>")
		return 2
	}
	path := fs.Arg(0)

	scope := dscope.New(new(Module)).Fork(
		func() logs.Writer {
			return stderr
		},
	)
	var paths configs.Paths
	scope.Call(func(p configs.Paths) {
		paths = p
	})
	settings, err := configs.LoadSettings(configs.NewLoader(paths, configs.Schema))
	if err != nil {
		fmt.Fprintf(stderr, "mepa: %v\n", err)
		return 1
	}
	if *maxSteps > 0 {
		settings.MaxSteps = *maxSteps
	}
	if *trace {
		settings.Trace = true
	}
	scope = scope.Fork(
		func() configs.Settings {
			return settings
		},
	)
	if settings.Trace {
		scope = scope.Fork(
			func() logs.Level {
				return logs.Level(slog.LevelDebug)
			},
		)
	}

	code := 1
	scope.Call(func(
		logger logs.Logger,
	) {
		prog, err := load(path)
		if err != nil {
			fmt.Fprintf(stderr, "mepa: %v\n", err)
			return
		}

		m := mepa.NewMachine(prog, stdin, stdout)
		m.MaxSteps = settings.MaxSteps
		if settings.Trace {
			m.Trace = logger
		}
		if err := m.Run(ctx); err != nil {
			fmt.Fprintf(stderr, "mepa: %s: %v\n", path, err)
			return
		}
		logger.Info("halted", "steps", m.Steps)
		code = 0
	})
	return code
}

// load assembles path, compiling it first when it holds LPD source.
func load(path string) (*mepa.Program, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	text := string(content)

	if strings.EqualFold(filepath.Ext(path), ".lpd") {
		var code strings.Builder
		if _, err := compiler.Compile(text, &code, nil, nil); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		text = code.String()
	}

	prog, err := asm.Assemble(text)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return prog, nil
}
