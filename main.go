// Command lpdc compiles one LPD source file into MEPA code.
//
// Usage:
//
//	lpdc <source-file>
//
// The instruction stream goes to <base>.mepa and the symbol table dump to
// <base>.ts, where <base> is the source file name without directory and
// extension. Both land in the working directory unless output_dir is set in
// lpdc.cue.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/reusee/dscope"

	"lpdc/pkg/compiler"
	"lpdc/pkg/configs"
	"lpdc/pkg/logs"
	"lpdc/pkg/utils"
)

type Module struct {
	dscope.Module
	Logs    logs.Module
	Configs configs.Module
}

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

// run is main without the process exit; it returns the exit code.
func run(args []string, stderr io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintln(stderr, "usage: lpdc <source-file>")
		return 1
	}

	scope := dscope.New(new(Module)).Fork(
		func() logs.Writer {
			return stderr
		},
	)

	var paths configs.Paths
	scope.Call(func(p configs.Paths) {
		paths = p
	})
	loader := configs.NewLoader(paths, configs.Schema)
	settings, err := configs.LoadSettings(loader)
	if err != nil {
		fmt.Fprintf(stderr, "lpdc: %v\n", err)
		return 1
	}
	scope = scope.Fork(
		func() configs.Settings {
			return settings
		},
	)

	code := 1
	scope.Call(func(
		logger logs.Logger,
	) {
		if files := loader.Files(); len(files) > 0 {
			logger.Debug("config loaded", "files", files)
		}
		if err := compileFile(args[0], settings.OutputDir, logger); err != nil {
			fmt.Fprintf(stderr, "lpdc: %v\n", err)
			return
		}
		code = 0
	})
	return code
}

// compileFile translates source into its .mepa and .ts files. Both outputs
// are closed on every path; after a compilation error their contents are
// not usable.
func compileFile(source, outputDir string, logger logs.Logger) (err error) {
	fullPath, _, err := utils.GetPathInfo(source)
	if err != nil {
		return err
	}
	src, err := os.ReadFile(fullPath)
	if err != nil {
		return err
	}

	if outputDir != "" {
		if err := os.MkdirAll(outputDir, 0o755); err != nil {
			return err
		}
	}
	codePath, tablePath := utils.OutputPaths(source, outputDir)

	codeFile, err := os.Create(codePath)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, codeFile.Close())
	}()
	tableFile, err := os.Create(tablePath)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, tableFile.Close())
	}()

	// The emitter writes each instruction line in a single call, so the
	// files are left unbuffered: every line emitted before an error is on disk.
	logger.Info("compiling", "source", fullPath)
	res, err := compiler.Compile(string(src), codeFile, tableFile, logger)
	if err != nil {
		return fmt.Errorf("%s: %w", source, err)
	}
	logger.Info("compiled",
		"code", codePath,
		"table", tablePath,
		"variables", res.Variables,
		"instructions", res.Instructions,
	)
	return nil
}
