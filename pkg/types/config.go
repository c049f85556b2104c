// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// RenderConfig holds settings for the headless-browser screenshot stage.
type RenderConfig struct {
	// RendererPath is the browser binary to invoke. Empty means autodetect
	// (google-chrome, chromium, and platform-specific install locations).
	RendererPath string `json:"renderer_path,omitempty" yaml:"renderer_path,omitempty"`

	// WindowWidth and WindowHeight are the logical capture window size in
	// pixels (default 2000x8000, tall enough for full diagram content).
	WindowWidth  int `json:"window_width" yaml:"window_width"`
	WindowHeight int `json:"window_height" yaml:"window_height"`

	// ScaleFactor is the device scale factor applied during capture
	// (default 1.5).
	ScaleFactor float64 `json:"scale_factor" yaml:"scale_factor"`

	// Timeout bounds a single renderer invocation (default 10s). Exceeding
	// it fails the item, not the batch.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// WaitTimeout bounds the post-invocation poll for the screenshot file
	// (default 2s). The renderer may flush the file after it exits.
	WaitTimeout time.Duration `json:"wait_timeout" yaml:"wait_timeout"`
}

// TranscodeConfig holds settings for the image transcode stage.
type TranscodeConfig struct {
	// Tool forces a transcoder backend: "sips" or "imagemagick".
	// Empty means autodetect (sips first, then ImageMagick).
	Tool string `json:"tool,omitempty" yaml:"tool,omitempty"`

	// Quality is the JPEG quality on a 0-100 scale (default 95).
	Quality int `json:"quality" yaml:"quality"`
}

// LedgerConfig holds settings for the optional run-history ledger.
type LedgerConfig struct {
	// Enabled turns on run recording. Off by default: a plain run leaves
	// no state behind other than the images themselves.
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Path is the SQLite database location. Empty means
	// <output_dir>/.diagram-capture.db.
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
}

// ConvertConfig groups all settings for a batch conversion run.
type ConvertConfig struct {
	// SourceDir is the directory of input HTML diagrams.
	SourceDir string `json:"source_dir" yaml:"source_dir"`

	// OutputDir is the directory JPEG images are written to (created if
	// missing).
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	Render    RenderConfig    `json:"render" yaml:"render"`
	Transcode TranscodeConfig `json:"transcode" yaml:"transcode"`
	Ledger    LedgerConfig    `json:"ledger" yaml:"ledger"`

	// SkipExisting skips items whose JPEG already exists instead of
	// overwriting it.
	SkipExisting bool `json:"skip_existing" yaml:"skip_existing"`

	// Strict makes the convert command report a non-zero exit when any
	// item failed. Default is the historical always-exit-0 behavior.
	Strict bool `json:"strict" yaml:"strict"`

	// DryRun prints what would be converted without invoking any tool.
	DryRun bool `json:"dry_run" yaml:"dry_run"`

	// Manifest writes <output_dir>/manifest.yaml describing the run.
	Manifest bool `json:"manifest" yaml:"manifest"`
}

const (
	DefaultWindowWidth  = 2000
	DefaultWindowHeight = 8000
	DefaultScaleFactor  = 1.5
	DefaultQuality      = 95
	DefaultTimeout      = 10 * time.Second
	DefaultWaitTimeout  = 2 * time.Second
)

// ApplyDefaults fills zero-valued fields with the standard capture settings.
func (c *ConvertConfig) ApplyDefaults() {
	if c.SourceDir == "" {
		c.SourceDir = "diagrams"
	}
	if c.OutputDir == "" {
		c.OutputDir = "images"
	}
	if c.Render.WindowWidth <= 0 {
		c.Render.WindowWidth = DefaultWindowWidth
	}
	if c.Render.WindowHeight <= 0 {
		c.Render.WindowHeight = DefaultWindowHeight
	}
	if c.Render.ScaleFactor <= 0 {
		c.Render.ScaleFactor = DefaultScaleFactor
	}
	if c.Render.Timeout <= 0 {
		c.Render.Timeout = DefaultTimeout
	}
	if c.Render.WaitTimeout <= 0 {
		c.Render.WaitTimeout = DefaultWaitTimeout
	}
	if c.Transcode.Quality <= 0 || c.Transcode.Quality > 100 {
		c.Transcode.Quality = DefaultQuality
	}
}

// ParseWindowSize parses a "WxH" window size (a comma separator is also
// accepted, matching the browser's own --window-size syntax).
func ParseWindowSize(s string) (width, height int, err error) {
	sep := "x"
	if strings.Contains(s, ",") {
		sep = ","
	}
	w, h, ok := strings.Cut(s, sep)
	if !ok {
		return 0, 0, fmt.Errorf("invalid window size %q (want WxH, e.g. 2000x8000)", s)
	}
	width, err = strconv.Atoi(strings.TrimSpace(w))
	if err == nil {
		height, err = strconv.Atoi(strings.TrimSpace(h))
	}
	if err != nil || width <= 0 || height <= 0 {
		return 0, 0, fmt.Errorf("invalid window size %q (want WxH, e.g. 2000x8000)", s)
	}
	return width, height, nil
}
