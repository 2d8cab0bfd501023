package logs

import (
	"log/slog"
	"strings"

	"lpdc/pkg/configs"
)

type Level slog.Level

// ParseLevel maps a configured level name to a slog level. Unknown names
// fall back to info.
func ParseLevel(name string) Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(name))); err != nil {
		return Level(slog.LevelInfo)
	}
	return Level(l)
}

func (Module) Level(
	settings configs.Settings,
) Level {
	return ParseLevel(settings.LogLevel)
}
