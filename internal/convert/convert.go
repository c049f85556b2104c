// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert orchestrates the batch conversion of HTML diagrams into
// JPEG images: discover inputs, screenshot each with the renderer,
// transcode the screenshot, probe dimensions, and report per-item and
// aggregate results. Items fail independently; only input discovery can
// abort a run.
package convert

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/diagram-capture/internal/imgmeta"
	"github.com/pdiddy/diagram-capture/internal/render"
	"github.com/pdiddy/diagram-capture/internal/transcode"
	"github.com/pdiddy/diagram-capture/pkg/types"
)

const (
	// intermediateExt is what the renderer natively writes. Chrome emits
	// PNG bytes regardless of the screenshot file's extension, so the
	// capture always targets a .png and the transcoder produces the .jpg.
	intermediateExt = ".png"
	outputExt       = ".jpg"
)

// Tools bundles the three external collaborators a run needs.
type Tools struct {
	Renderer   render.Renderer
	Transcoder transcode.Transcoder
	Prober     imgmeta.Prober
}

// BatchResult holds the outcome of a batch conversion run.
type BatchResult struct {
	Converted int
	Skipped   int
	Failed    int

	// Results lists the per-item outcomes in processing order, for the
	// manifest and the ledger.
	Results []types.DiagramResult
}

// Total returns the total number of diagrams processed.
func (r BatchResult) Total() int {
	return r.Converted + r.Skipped + r.Failed
}

// HasFailures reports whether any diagrams failed conversion.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// ConvertDiagram converts a single HTML diagram to a JPEG in the output
// directory, printing a progress block to w. All render and transcode
// errors are folded into the returned result; nothing propagates.
func ConvertDiagram(ctx context.Context, tools Tools, htmlPath string, cfg types.ConvertConfig, w io.Writer) types.DiagramResult {
	base := strings.TrimSuffix(filepath.Base(htmlPath), filepath.Ext(htmlPath))
	jpgPath := filepath.Join(cfg.OutputDir, base+outputExt)
	pngPath := filepath.Join(cfg.OutputDir, base+intermediateExt)

	fmt.Fprintf(w, "Converting: %s\n", base)

	if cfg.SkipExisting {
		if _, err := os.Stat(jpgPath); err == nil {
			fmt.Fprintf(w, "  - Skipped: %s (exists)\n", base)
			return types.DiagramResult{Name: base, Status: types.StatusSkipped, OutputPath: jpgPath}
		}
	}

	if cfg.DryRun {
		fmt.Fprintf(w, "  - Would create: %s\n", jpgPath)
		return types.DiagramResult{Name: base, Status: types.StatusSkipped, OutputPath: jpgPath}
	}

	if err := tools.Renderer.Capture(ctx, htmlPath, pngPath); err != nil {
		reason := fmt.Sprintf("render: %v", err)
		if errors.Is(err, render.ErrRenderTimeout) {
			reason = err.Error()
		}
		fmt.Fprintf(w, "  ✗ Error: %s - %v\n", base, err)
		return types.DiagramResult{Name: base, Status: types.StatusFailed, Reason: reason}
	}

	// The renderer may exit before its screenshot reaches the disk.
	if !render.WaitForFile(pngPath, cfg.Render.WaitTimeout) {
		fmt.Fprintf(w, "  ✗ Failed: %s\n", base)
		return types.DiagramResult{Name: base, Status: types.StatusFailed, Reason: "renderer produced no output"}
	}

	if err := tools.Transcoder.Transcode(ctx, pngPath, jpgPath, cfg.Transcode.Quality); err != nil {
		os.Remove(pngPath)
		fmt.Fprintf(w, "  ✗ Error: %s - %v\n", base, err)
		return types.DiagramResult{Name: base, Status: types.StatusFailed, Reason: fmt.Sprintf("transcode: %v", err)}
	}
	os.Remove(pngPath)

	if _, err := os.Stat(jpgPath); err != nil {
		fmt.Fprintf(w, "  ✗ Failed: %s\n", base)
		return types.DiagramResult{Name: base, Status: types.StatusFailed, Reason: "transcoder produced no output"}
	}

	// Dimensions are reporting-only; a failed probe degrades to "?".
	dims, err := tools.Prober.Dimensions(ctx, jpgPath)
	if err != nil {
		dims = types.UnknownDimensions()
	}

	fmt.Fprintf(w, "  ✓ Created: %s%s (%s)\n", base, outputExt, dims)
	return types.DiagramResult{
		Name:       base,
		Status:     types.StatusConverted,
		OutputPath: jpgPath,
		Width:      dims.Width,
		Height:     dims.Height,
	}
}

// ConvertBatch processes the given HTML files sequentially, printing
// per-item progress to w and returning a summary. A failed item never
// halts the batch.
func ConvertBatch(ctx context.Context, tools Tools, htmlFiles []string, cfg types.ConvertConfig, w io.Writer) BatchResult {
	var result BatchResult
	for _, path := range htmlFiles {
		res := ConvertDiagram(ctx, tools, path, cfg, w)
		result.Results = append(result.Results, res)
		switch res.Status {
		case types.StatusConverted:
			result.Converted++
		case types.StatusSkipped:
			result.Skipped++
		case types.StatusFailed:
			result.Failed++
		}
	}
	return result
}

// Run is the top-level batch entry point: print the header, discover
// inputs, ensure the output directory, convert everything, and print the
// summary. Discovery failure is the only error returned.
func Run(ctx context.Context, tools Tools, cfg types.ConvertConfig, w io.Writer) (BatchResult, error) {
	fmt.Fprintln(w, "Converting HTML diagrams to high-quality JPG images...")
	fmt.Fprintln(w)

	files, err := Discover(cfg.SourceDir)
	if err != nil {
		return BatchResult{}, err
	}
	fmt.Fprintf(w, "Found %d diagrams\n\n", len(files))

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return BatchResult{}, fmt.Errorf("creating output directory %s: %w", cfg.OutputDir, err)
	}

	result := ConvertBatch(ctx, tools, files, cfg, w)

	fmt.Fprintln(w)
	fmt.Fprintf(w, "✓ Successfully converted %d/%d diagrams\n", result.Converted, result.Total())
	fmt.Fprintf(w, "Images saved in: %s\n", cfg.OutputDir)
	return result, nil
}
