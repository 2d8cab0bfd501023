package logs

import (
	"bytes"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/reusee/dscope"

	"lpdc/pkg/configs"
)

func TestHandler(t *testing.T) {
	dscope.New(new(Module)).Call(func(
		logger Logger,
	) {
		logger.Info("test", "hello", "world!")
	})
}

func TestDefaultWriter(t *testing.T) {
	dscope.New(new(Module)).Call(func(
		w Writer,
	) {
		if w != Writer(os.Stderr) {
			t.Fatalf("got %T", w)
		}
	})
}

func TestLoggerLevel(t *testing.T) {
	buf := new(bytes.Buffer)
	dscope.New(new(Module)).Fork(
		func() Writer {
			return buf
		},
		func() configs.Settings {
			return configs.Settings{
				LogLevel: "warn",
			}
		},
	).Call(func(
		logger Logger,
	) {
		logger.Info("hidden")
		logger.Warn("shown", "line", 3)
	})

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info record written at warn level: %s", out)
	}
	if !strings.Contains(out, "level=WARN msg=shown line=3") {
		t.Fatalf("got %q", out)
	}
}

func TestLoggerJournal(t *testing.T) {
	buf := new(bytes.Buffer)
	dscope.New(new(Module)).Fork(
		func() Writer {
			return buf
		},
		func() configs.Settings {
			return configs.Settings{
				LogLevel: "debug",
				Journal:  true,
			}
		},
	).Call(func(
		logger Logger,
	) {
		// the journal may be unavailable; the terminal handler still works
		logger.Debug("compiled", "file", "a.lpd")
	})

	if !strings.Contains(buf.String(), "msg=compiled file=a.lpd") {
		t.Fatalf("got %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"ERROR":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for name, want := range tests {
		if got := ParseLevel(name); slog.Level(got) != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", name, slog.Level(got), want)
		}
	}
}

func TestToJournalKey(t *testing.T) {
	if got := toJournalKey("max-steps.value"); got != "MAX_STEPS_VALUE" {
		t.Fatalf("got %q", got)
	}
}
