package configs

import (
	_ "embed"
	"fmt"
)

//go:embed schema.cue
var Schema string

// DefaultMaxSteps bounds the reference machine when max_steps is unset.
const DefaultMaxSteps = 10_000_000

// Settings is every configurable knob, decoded once.
type Settings struct {
	LogLevel  string
	OutputDir string
	Journal   bool
	MaxSteps  int
	Trace     bool
}

// LoadSettings reads each key with first-file-wins precedence.
func LoadSettings(loader Loader) (settings Settings, err error) {
	if err := loader.Err(); err != nil {
		return settings, fmt.Errorf("load config: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			e, ok := p.(error)
			if !ok {
				panic(p)
			}
			err = fmt.Errorf("decode config: %w", e)
		}
	}()

	settings = Settings{
		LogLevel:  First[string](loader, "log_level"),
		OutputDir: First[string](loader, "output_dir"),
		Journal:   First[bool](loader, "journal"),
		MaxSteps:  First[int](loader, "max_steps"),
		Trace:     First[bool](loader, "trace"),
	}
	if settings.LogLevel == "" {
		settings.LogLevel = "warn"
	}
	if settings.MaxSteps == 0 {
		settings.MaxSteps = DefaultMaxSteps
	}
	return settings, nil
}
