// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package imgmeta reads pixel dimensions from finished images via an
// external probe (sips or ImageMagick identify). Probe output is advisory:
// a missing or malformed dimension degrades to the "?" placeholder and is
// never treated as an item failure by callers.
package imgmeta

import (
	"bufio"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/pdiddy/diagram-capture/pkg/types"
)

const (
	binSips     = "sips"
	binIdentify = "identify"
	binMagick   = "magick"

	keyWidth  = "pixelWidth"
	keyHeight = "pixelHeight"
)

// Prober reports the pixel dimensions of an image file.
type Prober interface {
	// Name returns the backend name.
	Name() string

	// Dimensions probes path. On error the returned dimensions are the
	// unknown placeholders, so the result is always printable.
	Dimensions(ctx context.Context, path string) (types.Dimensions, error)
}

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

var defaultExec = &osExecutor{}

// prober implements Prober for a specific binary. Both backends emit
// "pixelWidth: N" / "pixelHeight: N" lines; identify is asked to format
// its output the same way sips natively prints it.
type prober struct {
	name string
	bin  string
	args func(path string) []string
	exec executor
}

func (p *prober) Name() string { return p.name }

func (p *prober) Dimensions(ctx context.Context, path string) (types.Dimensions, error) {
	out, err := p.exec.Output(ctx, p.bin, p.args(path)...)
	if err != nil {
		return types.UnknownDimensions(), fmt.Errorf("%s probe %s: %w", p.name, path, err)
	}
	return ParseDimensions(out), nil
}

func sipsArgs(path string) []string {
	return []string{"-g", keyHeight, "-g", keyWidth, path}
}

func identifyArgs(path string) []string {
	return []string{"-format", keyWidth + ": %w\n" + keyHeight + ": %h", path}
}

func newSips(exec executor) *prober {
	return &prober{name: "sips", bin: binSips, args: sipsArgs, exec: exec}
}

func newIdentify(exec executor, bin string, prefix []string) *prober {
	args := func(path string) []string {
		return append(append([]string{}, prefix...), identifyArgs(path)...)
	}
	return &prober{name: "identify", bin: bin, args: args, exec: exec}
}

// Detect picks a probe backend with the same preference order as the
// transcoder: sips, then ImageMagick (identify, or magick identify).
func Detect() (Prober, error) {
	return detect(defaultExec)
}

func detect(exec executor) (Prober, error) {
	if _, err := exec.LookPath(binSips); err == nil {
		return newSips(exec), nil
	}
	if _, err := exec.LookPath(binIdentify); err == nil {
		return newIdentify(exec, binIdentify, nil), nil
	}
	if _, err := exec.LookPath(binMagick); err == nil {
		return newIdentify(exec, binMagick, []string{"identify"}), nil
	}
	return nil, fmt.Errorf("no metadata probe available: none of %s, %s, %s found on PATH", binSips, binIdentify, binMagick)
}

// ParseDimensions extracts pixelWidth/pixelHeight from key:value probe
// output. Exported for testing without a real probe binary. Unrecognized
// lines are ignored; missing keys yield the "?" placeholder.
func ParseDimensions(out []byte) types.Dimensions {
	dims := types.UnknownDimensions()

	sc := bufio.NewScanner(strings.NewReader(string(out)))
	for sc.Scan() {
		line := sc.Text()
		if !strings.Contains(line, keyWidth) && !strings.Contains(line, keyHeight) {
			continue
		}
		key, val, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		val = strings.TrimSpace(val)
		if val == "" {
			continue
		}
		switch key {
		case keyWidth:
			dims.Width = val
		case keyHeight:
			dims.Height = val
		}
	}
	return dims
}
