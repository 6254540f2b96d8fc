package util

import (
	"os"
	"path/filepath"
)

// LocateFile looks for name as given, then inside each of dirs.
func LocateFile(name string, dirs []string) (string, bool) {
	if name == "" {
		return "", false
	}
	if exists(name) {
		return name, true
	}
	if filepath.IsAbs(name) {
		return "", false
	}
	for _, dir := range dirs {
		candidate := filepath.Join(dir, name)
		if exists(candidate) {
			return candidate, true
		}
	}
	return "", false
}

func exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
