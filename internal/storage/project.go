package storage

import (
	"os"
	"path/filepath"
)

// FindProjectRoot walks up from start looking for a .git directory and
// returns the directory containing it.
func FindProjectRoot(start string) (string, bool) {
	dir := start
	for {
		info, err := os.Stat(filepath.Join(dir, ".git"))
		if err == nil && info.IsDir() {
			return dir, true
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// ResolveDir turns a configured task directory into an absolute path.
// Relative paths are anchored at the project root when the working directory
// is inside a git repository, and at the working directory otherwise.
func ResolveDir(dir string) (string, error) {
	if filepath.IsAbs(dir) {
		return filepath.Clean(dir), nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	base := cwd
	if root, ok := FindProjectRoot(cwd); ok {
		base = root
	}
	return filepath.Join(base, dir), nil
}
