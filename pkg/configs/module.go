package configs

import (
	"os"
	"path/filepath"

	"github.com/reusee/dscope"
)

type Module struct {
	dscope.Module
}

// FileNames are the config file names looked up in every search directory.
var FileNames = []string{
	"lpdc.cue",
	".lpdc.cue",
}

// Paths lists the config files in effect, highest precedence first.
type Paths []string

// SearchPaths returns the existing config files under dirs, in order.
func SearchPaths(dirs ...string) Paths {
	var paths Paths
	for _, dir := range dirs {
		for _, filename := range FileNames {
			path := filepath.Join(dir, filename)
			if _, err := os.Stat(path); err == nil {
				paths = append(paths, path)
			}
		}
	}
	return paths
}

func (Module) Paths() Paths {
	var dirs []string

	// working directory
	if workingDir, err := os.Getwd(); err == nil {
		dirs = append(dirs, workingDir)
	}

	// user config dir
	if configDir, err := os.UserConfigDir(); err == nil {
		dirs = append(dirs, configDir)
	}

	// system wide dir
	dirs = append(dirs, "/etc")

	return SearchPaths(dirs...)
}

func (Module) Loader(
	paths Paths,
) Loader {
	return NewLoader(paths, Schema)
}

// Settings panics on an invalid config; drivers call LoadSettings first to
// report the error themselves.
func (Module) Settings(
	loader Loader,
) Settings {
	settings, err := LoadSettings(loader)
	if err != nil {
		panic(err)
	}
	return settings
}
