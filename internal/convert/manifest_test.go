// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"os"
	"path/filepath"
	"testing"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/diagram-capture/pkg/types"
)

func TestWriteManifest(t *testing.T) {
	cfg := types.ConvertConfig{
		SourceDir: "diagrams",
		OutputDir: t.TempDir(),
	}
	cfg.ApplyDefaults()

	result := BatchResult{
		Converted: 1,
		Failed:    1,
		Results: []types.DiagramResult{
			{Name: "flow", Status: types.StatusConverted, OutputPath: "images/flow.jpg", Width: "3000", Height: "12000"},
			{Name: "arch", Status: types.StatusFailed, Reason: "renderer produced no output"},
		},
	}

	if err := WriteManifest(cfg, result); err != nil {
		t.Fatalf("WriteManifest: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(cfg.OutputDir, "manifest.yaml"))
	if err != nil {
		t.Fatalf("reading manifest: %v", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		t.Fatalf("unmarshaling manifest: %v", err)
	}

	if m.Summary.Total != 2 || m.Summary.Converted != 1 || m.Summary.Failed != 1 {
		t.Errorf("summary = %+v, want total 2, converted 1, failed 1", m.Summary)
	}
	if m.Settings.WindowWidth != types.DefaultWindowWidth {
		t.Errorf("window width = %d, want default %d", m.Settings.WindowWidth, types.DefaultWindowWidth)
	}
	if m.GeneratedAt == "" {
		t.Error("generated_at should be set")
	}
	if len(m.Diagrams) != 2 {
		t.Fatalf("diagrams = %d, want 2", len(m.Diagrams))
	}
	if m.Diagrams[0].Name != "flow" || m.Diagrams[1].Reason == "" {
		t.Errorf("per-item results not preserved: %+v", m.Diagrams)
	}
}
