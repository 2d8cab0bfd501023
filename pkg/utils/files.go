package utils

import (
	"path/filepath"
	"strings"
)

func GetPathInfo(relPath string) (fullPath string, parentDir string, err error) {
	// Convert to absolute path (resolves ../../ and cleans the path)
	fullPath, err = filepath.Abs(relPath)
	if err != nil {
		return "", "", err
	}

	// Get the directory containing the file
	parentDir = filepath.Dir(fullPath)

	return fullPath, parentDir, nil
}

// BaseName strips the directory and the last extension from path:
// "src/prog.lpd" gives "prog".
func BaseName(path string) string {
	base := filepath.Base(path)
	if ext := filepath.Ext(base); ext != "" && ext != base {
		base = strings.TrimSuffix(base, ext)
	}
	return base
}

// OutputPaths returns where the instruction stream and the symbol table of
// source go: <base>.mepa and <base>.ts inside dir, or the working directory
// when dir is empty.
func OutputPaths(source, dir string) (code string, table string) {
	base := BaseName(source)
	return filepath.Join(dir, base+".mepa"), filepath.Join(dir, base+".ts")
}
