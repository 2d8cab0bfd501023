package logs

import (
	"context"
	"log/slog"
	"os"
	"path"
	"strings"
	"time"

	slogmulti "github.com/samber/slog-multi"
	slogjournal "github.com/systemd/slog-journal"

	"lpdc/pkg/configs"
)

type Logger = *slog.Logger

func (Module) Logger(
	writer Writer,
	level Level,
	settings configs.Settings,
) Logger {
	var handlers []slog.Handler

	// a service unit already forwards stderr to the journal
	skipTerminal := false
	if settings.Journal {
		cgroupPath, err := getCgroupPath()
		if err == nil {
			skipTerminal = strings.HasSuffix(
				path.Dir(cgroupPath),
				".service",
			)
		}
	}

	// local
	var terminalHandler slog.Handler
	if !skipTerminal {
		terminalHandler = slog.NewTextHandler(
			writer,
			&slog.HandlerOptions{
				Level: slog.Level(level),
			},
		)
		handlers = append(handlers, terminalHandler)
	}

	// systemd journal
	if settings.Journal {
		journalHandler, err := slogjournal.NewHandler(&slogjournal.Options{
			Level: slog.Level(level),
			ReplaceGroup: func(key string) string {
				return toJournalKey(key)
			},
			ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
				a.Key = toJournalKey(a.Key)
				return a
			},
		})
		if err != nil {
			if terminalHandler != nil {
				record := slog.NewRecord(time.Now(), slog.LevelWarn, "new systemd journal handler", 0)
				record.Add("error", err)
				_ = terminalHandler.Handle(context.Background(), record)
			}
		} else {
			handlers = append(handlers, journalHandler)
		}
	}

	return slog.New(slogmulti.Fanout(handlers...))
}

// toJournalKey turns an attribute key into a valid journal field name.
func toJournalKey(str string) string {
	str = strings.ToUpper(str)
	str = strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' ||
			r >= '0' && r <= '9' {
			return r
		}
		return '_'
	}, str)
	return str
}

func getCgroupPath() (string, error) {
	content, err := os.ReadFile("/proc/self/cgroup")
	if err != nil {
		return "", err
	}
	parts := strings.Split(strings.TrimSpace(string(content)), ":")
	if len(parts) >= 3 {
		return parts[2], nil
	}
	return "", nil
}
