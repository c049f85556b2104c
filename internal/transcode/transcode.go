// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package transcode converts raster images between formats by shelling out
// to a system image utility. Two backends are supported: sips (ships with
// macOS) and ImageMagick. Both share the same logic; they differ only in
// binary name and argument shape.
package transcode

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
)

const (
	binSips       = "sips"
	binMagick     = "magick"
	binConvert    = "convert" // legacy ImageMagick 6 entry point
	toolSips      = "sips"
	toolImageMagk = "imagemagick"
)

// Transcoder converts an image file to JPEG at a given quality (0-100).
type Transcoder interface {
	// Name returns the backend name ("sips" or "imagemagick").
	Name() string

	// Transcode converts src to a JPEG at dst. It does not delete src;
	// intermediate cleanup is the caller's responsibility.
	Transcode(ctx context.Context, src, dst string, quality int) error
}

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	RunSilent(ctx context.Context, name string, args ...string) error
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) RunSilent(ctx context.Context, name string, args ...string) error {
	return exec.CommandContext(ctx, name, args...).Run()
}

var defaultExec = &osExecutor{}

// argsFunc builds the backend-specific argv for one conversion.
type argsFunc func(src, dst string, quality int) []string

// transcoder implements Transcoder for a specific binary.
type transcoder struct {
	name string
	bin  string
	args argsFunc
	exec executor
}

func (t *transcoder) Name() string { return t.name }

func (t *transcoder) Transcode(ctx context.Context, src, dst string, quality int) error {
	if err := t.exec.RunSilent(ctx, t.bin, t.args(src, dst, quality)...); err != nil {
		return fmt.Errorf("%s %s -> %s: %w", t.name, src, dst, err)
	}
	return nil
}

func sipsArgs(src, dst string, quality int) []string {
	return []string{
		"-s", "format", "jpeg",
		"-s", "formatOptions", strconv.Itoa(quality),
		src,
		"--out", dst,
	}
}

func magickArgs(src, dst string, quality int) []string {
	return []string{src, "-quality", strconv.Itoa(quality), dst}
}

func newSips(exec executor) *transcoder {
	return &transcoder{name: toolSips, bin: binSips, args: sipsArgs, exec: exec}
}

func newImageMagick(exec executor, bin string) *transcoder {
	return &transcoder{name: toolImageMagk, bin: bin, args: magickArgs, exec: exec}
}

// Detect picks a transcoder backend. When tool names a backend, only that
// backend is considered; otherwise sips is preferred (no install step on
// macOS) with ImageMagick as the fallback, trying magick before the
// legacy convert entry point.
func Detect(tool string) (Transcoder, error) {
	return detect(tool, defaultExec)
}

func detect(tool string, exec executor) (Transcoder, error) {
	lookup := func(bin string) bool {
		_, err := exec.LookPath(bin)
		return err == nil
	}

	switch tool {
	case toolSips:
		if !lookup(binSips) {
			return nil, fmt.Errorf("transcoder %s not found on PATH", binSips)
		}
		return newSips(exec), nil
	case toolImageMagk:
		for _, bin := range []string{binMagick, binConvert} {
			if lookup(bin) {
				return newImageMagick(exec, bin), nil
			}
		}
		return nil, fmt.Errorf("transcoder imagemagick not found: neither %s nor %s on PATH", binMagick, binConvert)
	case "":
		if lookup(binSips) {
			return newSips(exec), nil
		}
		for _, bin := range []string{binMagick, binConvert} {
			if lookup(bin) {
				return newImageMagick(exec, bin), nil
			}
		}
		return nil, fmt.Errorf("no transcoder available: none of %s, %s, %s found on PATH", binSips, binMagick, binConvert)
	default:
		return nil, fmt.Errorf("unknown transcoder tool %q (want %q or %q)", tool, toolSips, toolImageMagk)
	}
}
