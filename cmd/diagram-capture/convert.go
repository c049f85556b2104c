// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/diagram-capture/internal/convert"
	"github.com/pdiddy/diagram-capture/internal/imgmeta"
	"github.com/pdiddy/diagram-capture/internal/ledger"
	"github.com/pdiddy/diagram-capture/internal/render"
	"github.com/pdiddy/diagram-capture/internal/transcode"
	"github.com/pdiddy/diagram-capture/pkg/types"
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert every HTML diagram in a directory to JPEG",
	Long: `Convert screenshots each HTML file in the source directory with a
headless browser, transcodes the capture to JPEG, and reports per-diagram
progress plus a final tally. A failed diagram never aborts the batch; only
an unreadable source directory does.

By default the process exits 0 even when diagrams fail, matching the
historical behavior. Pass --strict to exit non-zero on any failure.`,
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().String("source-dir", "diagrams", "directory of input HTML diagrams")
	convertCmd.Flags().String("output-dir", "images", "directory JPEG images are written to")
	convertCmd.Flags().String("renderer", "", "browser binary to use (default: autodetect Chrome/Chromium)")
	convertCmd.Flags().String("window-size", "", "capture window size as WxH (default 2000x8000)")
	convertCmd.Flags().Float64("scale-factor", types.DefaultScaleFactor, "device scale factor for capture")
	convertCmd.Flags().Duration("timeout", types.DefaultTimeout, "per-diagram renderer timeout")
	convertCmd.Flags().Duration("wait-timeout", types.DefaultWaitTimeout, "how long to wait for the screenshot file after the renderer exits")
	convertCmd.Flags().Int("quality", types.DefaultQuality, "JPEG quality (0-100)")
	convertCmd.Flags().String("transcoder", "", "transcoder backend: sips or imagemagick (default: autodetect)")
	convertCmd.Flags().Bool("skip-existing", false, "skip diagrams whose JPEG already exists")
	convertCmd.Flags().Bool("strict", false, "exit non-zero when any diagram failed")
	convertCmd.Flags().Bool("dry-run", false, "list what would be converted without invoking any tool")
	convertCmd.Flags().Bool("manifest", false, "write manifest.yaml describing the run into the output directory")
	convertCmd.Flags().Bool("ledger", false, "record the run in the SQLite run-history ledger")
	convertCmd.Flags().String("ledger-path", "", "ledger database path (default: <output-dir>/"+ledger.DefaultFile+")")

	rootCmd.AddCommand(convertCmd)
}

// convertConfig builds the run configuration: config-file/env values first,
// then explicit flag overrides, then defaults for whatever remains unset.
func convertConfig(cmd *cobra.Command) (types.ConvertConfig, error) {
	cfg := types.ConvertConfig{
		SourceDir: viper.GetString("source_dir"),
		OutputDir: viper.GetString("output_dir"),
		Render: types.RenderConfig{
			RendererPath: viper.GetString("render.renderer_path"),
			WindowWidth:  viper.GetInt("render.window_width"),
			WindowHeight: viper.GetInt("render.window_height"),
			ScaleFactor:  viper.GetFloat64("render.scale_factor"),
			Timeout:      viper.GetDuration("render.timeout"),
			WaitTimeout:  viper.GetDuration("render.wait_timeout"),
		},
		Transcode: types.TranscodeConfig{
			Tool:    viper.GetString("transcode.tool"),
			Quality: viper.GetInt("transcode.quality"),
		},
		Ledger: types.LedgerConfig{
			Enabled: viper.GetBool("ledger.enabled"),
			Path:    viper.GetString("ledger.path"),
		},
		SkipExisting: viper.GetBool("skip_existing"),
		Strict:       viper.GetBool("strict"),
	}

	flags := cmd.Flags()
	if flags.Changed("source-dir") || cfg.SourceDir == "" {
		cfg.SourceDir, _ = flags.GetString("source-dir")
	}
	if flags.Changed("output-dir") || cfg.OutputDir == "" {
		cfg.OutputDir, _ = flags.GetString("output-dir")
	}
	if flags.Changed("renderer") {
		cfg.Render.RendererPath, _ = flags.GetString("renderer")
	}
	if flags.Changed("window-size") {
		size, _ := flags.GetString("window-size")
		w, h, err := types.ParseWindowSize(size)
		if err != nil {
			return cfg, err
		}
		cfg.Render.WindowWidth, cfg.Render.WindowHeight = w, h
	}
	if flags.Changed("scale-factor") {
		cfg.Render.ScaleFactor, _ = flags.GetFloat64("scale-factor")
	}
	if flags.Changed("timeout") {
		cfg.Render.Timeout, _ = flags.GetDuration("timeout")
	}
	if flags.Changed("wait-timeout") {
		cfg.Render.WaitTimeout, _ = flags.GetDuration("wait-timeout")
	}
	if flags.Changed("quality") {
		cfg.Transcode.Quality, _ = flags.GetInt("quality")
	}
	if flags.Changed("transcoder") {
		cfg.Transcode.Tool, _ = flags.GetString("transcoder")
	}
	if flags.Changed("skip-existing") {
		cfg.SkipExisting, _ = flags.GetBool("skip-existing")
	}
	if flags.Changed("strict") {
		cfg.Strict, _ = flags.GetBool("strict")
	}
	if flags.Changed("ledger") {
		cfg.Ledger.Enabled, _ = flags.GetBool("ledger")
	}
	if flags.Changed("ledger-path") {
		cfg.Ledger.Path, _ = flags.GetString("ledger-path")
	}
	cfg.DryRun, _ = flags.GetBool("dry-run")
	cfg.Manifest, _ = flags.GetBool("manifest")

	cfg.ApplyDefaults()
	return cfg, nil
}

// buildTools resolves the external collaborators. Detection errors are
// fatal: without a renderer and a transcoder no diagram could succeed.
func buildTools(cfg types.ConvertConfig) (convert.Tools, error) {
	bin, err := render.Detect(cfg.Render.RendererPath)
	if err != nil {
		return convert.Tools{}, err
	}

	tc, err := transcode.Detect(cfg.Transcode.Tool)
	if err != nil {
		return convert.Tools{}, err
	}

	prober, err := imgmeta.Detect()
	if err != nil {
		return convert.Tools{}, err
	}

	return convert.Tools{
		Renderer:   render.NewChrome(bin, cfg.Render),
		Transcoder: tc,
		Prober:     prober,
	}, nil
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg, err := convertConfig(cmd)
	if err != nil {
		return err
	}

	var tools convert.Tools
	if !cfg.DryRun {
		tools, err = buildTools(cfg)
		if err != nil {
			return err
		}
	}

	started := time.Now()
	result, err := convert.Run(context.Background(), tools, cfg, os.Stdout)
	if err != nil {
		return err
	}

	if cfg.Manifest {
		if err := convert.WriteManifest(cfg, result); err != nil {
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		}
	}

	if cfg.Ledger.Enabled && !cfg.DryRun {
		if err := recordRun(cfg, started, result); err != nil {
			fmt.Fprintf(os.Stderr, "warning: recording run: %v\n", err)
		}
	}

	if cfg.Strict && result.HasFailures() {
		return fmt.Errorf("%d diagram(s) failed", result.Failed)
	}
	return nil
}

func recordRun(cfg types.ConvertConfig, started time.Time, result convert.BatchResult) error {
	store, err := ledger.Open(ledger.PathFor(cfg))
	if err != nil {
		return err
	}
	defer store.Close()

	_, err = store.RecordRun(context.Background(), ledger.RunRecord{
		StartedAt: started,
		SourceDir: cfg.SourceDir,
		OutputDir: cfg.OutputDir,
		Converted: result.Converted,
		Skipped:   result.Skipped,
		Failed:    result.Failed,
		Items:     result.Results,
	})
	return err
}
