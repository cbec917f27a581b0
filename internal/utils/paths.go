// Package utils holds small helpers shared across gcommit packages.
package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ExpandPath resolves a leading ~ or ~/ to the user's home directory and
// returns the cleaned absolute-ish path. Paths without a tilde are returned
// cleaned but otherwise untouched.
func ExpandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}

	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		if path == "~" {
			return home, nil
		}
		return filepath.Join(home, path[2:]), nil
	}

	return filepath.Clean(path), nil
}
