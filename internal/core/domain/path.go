package domain

import (
	"os"
	"path/filepath"
	"strings"
)

// ResolvePath turns a document reference into a local path.
// It strips a file:// prefix and expands a leading ~ to the home directory.
// Anything else passes through unchanged.
func ResolvePath(ref string) string {
	path := strings.TrimPrefix(ref, "file://")
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}
