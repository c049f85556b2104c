// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// locator abstracts binary lookup for testing.
type locator interface {
	LookPath(file string) (string, error)
	Stat(path string) error
}

// osLocator is the production locator.
type osLocator struct{}

func (o *osLocator) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osLocator) Stat(path string) error {
	_, err := os.Stat(path)
	return err
}

var defaultLocator = &osLocator{}

// candidates lists browser binaries tried in order when no renderer path
// is configured. Bare names are resolved on PATH; absolute paths are
// checked directly.
var candidates = []string{
	"google-chrome",
	"google-chrome-stable",
	"chromium",
	"chromium-browser",
	"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
	"/Applications/Chromium.app/Contents/MacOS/Chromium",
}

// Detect resolves the renderer binary. A configured path wins and is only
// verified to exist; otherwise the well-known candidates are tried in
// order.
func Detect(configured string) (string, error) {
	return detect(configured, defaultLocator)
}

func detect(configured string, loc locator) (string, error) {
	if configured != "" {
		if filepath.IsAbs(configured) {
			if err := loc.Stat(configured); err != nil {
				return "", fmt.Errorf("configured renderer %s: %w", configured, err)
			}
			return configured, nil
		}
		path, err := loc.LookPath(configured)
		if err != nil {
			return "", fmt.Errorf("configured renderer %s: %w", configured, err)
		}
		return path, nil
	}

	for _, cand := range candidates {
		if filepath.IsAbs(cand) {
			if loc.Stat(cand) == nil {
				return cand, nil
			}
			continue
		}
		if path, err := loc.LookPath(cand); err == nil {
			return path, nil
		}
	}

	return "", fmt.Errorf(
		"no renderer found: tried %s; install Chrome/Chromium or set renderer_path",
		strings.Join(candidates, ", "),
	)
}
