package logs

import (
	"io"
	"os"

	"github.com/reusee/dscope"

	"lpdc/pkg/configs"
)

// Module provides Logger and its inputs. Commands fork a scope with their
// own Writer so diagnostics and log records share one stream.
type Module struct {
	dscope.Module
	Configs configs.Module
}

// Writer is where the text handler writes records.
type Writer io.Writer

// Writer defaults to standard error; the compiler's outputs are files, never
// standard output.
func (Module) Writer() Writer {
	return os.Stderr
}
