// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/diagram-capture/pkg/types"
)

// manifestFile is written into the output directory when manifests are
// enabled.
const manifestFile = "manifest.yaml"

// manifestSettings records the capture parameters a run used.
type manifestSettings struct {
	WindowWidth  int     `yaml:"window_width"`
	WindowHeight int     `yaml:"window_height"`
	ScaleFactor  float64 `yaml:"scale_factor"`
	Quality      int     `yaml:"quality"`
}

// manifestSummary records the aggregate counts of a run.
type manifestSummary struct {
	Total     int `yaml:"total"`
	Converted int `yaml:"converted"`
	Skipped   int `yaml:"skipped"`
	Failed    int `yaml:"failed"`
}

// Manifest describes one conversion run: when it ran, with what settings,
// and what happened to each diagram.
type Manifest struct {
	GeneratedAt string                `yaml:"generated_at"`
	SourceDir   string                `yaml:"source_dir"`
	OutputDir   string                `yaml:"output_dir"`
	Settings    manifestSettings      `yaml:"settings"`
	Summary     manifestSummary       `yaml:"summary"`
	Diagrams    []types.DiagramResult `yaml:"diagrams"`
}

// WriteManifest writes the run manifest as YAML into the output directory.
// Recording is best-effort from the caller's perspective: a manifest error
// never fails the run itself.
func WriteManifest(cfg types.ConvertConfig, result BatchResult) error {
	m := Manifest{
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		SourceDir:   cfg.SourceDir,
		OutputDir:   cfg.OutputDir,
		Settings: manifestSettings{
			WindowWidth:  cfg.Render.WindowWidth,
			WindowHeight: cfg.Render.WindowHeight,
			ScaleFactor:  cfg.Render.ScaleFactor,
			Quality:      cfg.Transcode.Quality,
		},
		Summary: manifestSummary{
			Total:     result.Total(),
			Converted: result.Converted,
			Skipped:   result.Skipped,
			Failed:    result.Failed,
		},
		Diagrams: result.Results,
	}

	data, err := yaml.Marshal(&m)
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}

	path := filepath.Join(cfg.OutputDir, manifestFile)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing manifest %s: %w", path, err)
	}
	return nil
}
