// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// sourceExt is the input extension the batch operates on.
const sourceExt = ".html"

// Discover lists the HTML diagram files in sourceDir, sorted
// lexicographically by name. Subdirectories and dotfiles are ignored.
// An unreadable directory is the one fatal error of a run.
func Discover(sourceDir string) ([]string, error) {
	entries, err := os.ReadDir(sourceDir)
	if err != nil {
		return nil, fmt.Errorf("reading source directory %s: %w", sourceDir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		if !strings.EqualFold(filepath.Ext(name), sourceExt) {
			continue
		}
		files = append(files, filepath.Join(sourceDir, name))
	}
	// os.ReadDir returns entries sorted by name, so files is already in
	// lexicographic order.
	return files, nil
}
