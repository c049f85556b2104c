// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render invokes a headless browser to screenshot rendered HTML
// documents. The browser writes the capture to a file as a side effect;
// its stdout is not part of the contract.
package render

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/pdiddy/diagram-capture/pkg/types"
)

// ErrRenderTimeout indicates the renderer did not finish within the
// configured per-item timeout.
var ErrRenderTimeout = errors.New("renderer timed out")

// Renderer produces a screenshot of a rendered HTML document.
type Renderer interface {
	// Capture renders htmlPath and writes a screenshot to outPath.
	Capture(ctx context.Context, htmlPath, outPath string) error
}

// executor abstracts command execution for testing.
type executor interface {
	RunContext(ctx context.Context, name string, args ...string) error
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) RunContext(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard
	return cmd.Run()
}

var defaultExec = &osExecutor{}

// Chrome implements Renderer by shelling out to a Chrome/Chromium binary
// in headless screenshot mode.
type Chrome struct {
	bin  string
	cfg  types.RenderConfig
	exec executor
}

// NewChrome returns a renderer using the given browser binary.
func NewChrome(bin string, cfg types.RenderConfig) *Chrome {
	return &Chrome{bin: bin, cfg: cfg, exec: defaultExec}
}

// Capture runs the browser with a bounded timeout. A deadline overrun maps
// to ErrRenderTimeout; any other non-zero exit is returned as-is, wrapped.
func (c *Chrome) Capture(ctx context.Context, htmlPath, outPath string) error {
	abs, err := filepath.Abs(htmlPath)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", htmlPath, err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	if err := c.exec.RunContext(ctx, c.bin, c.args(abs, outPath)...); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("%w after %s", ErrRenderTimeout, c.cfg.Timeout)
		}
		return fmt.Errorf("renderer %s: %w", filepath.Base(c.bin), err)
	}
	return nil
}

// args builds the headless screenshot invocation. The window is sized tall
// so scrolling content is captured in one shot; scrollbars are hidden so
// they never appear in the image.
func (c *Chrome) args(absSrc, outPath string) []string {
	return []string{
		"--headless",
		"--disable-gpu",
		"--screenshot=" + outPath,
		fmt.Sprintf("--window-size=%d,%d", c.cfg.WindowWidth, c.cfg.WindowHeight),
		fmt.Sprintf("--force-device-scale-factor=%g", c.cfg.ScaleFactor),
		"--hide-scrollbars",
		"file://" + absSrc,
	}
}

// pollInterval is how often WaitForFile re-checks the output path.
const pollInterval = 100 * time.Millisecond

// WaitForFile polls until path exists and is non-empty, or the wait budget
// is spent. The browser can exit before the screenshot hits the disk, so a
// bounded poll replaces a fixed sleep here.
func WaitForFile(path string, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for {
		if fi, err := os.Stat(path); err == nil && fi.Size() > 0 {
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(pollInterval)
	}
}
