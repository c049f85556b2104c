// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/diagram-capture/internal/imgmeta"
	"github.com/pdiddy/diagram-capture/internal/render"
	"github.com/pdiddy/diagram-capture/internal/transcode"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that the external tools a conversion run needs are available",
	Long: `Doctor reports which renderer, transcoder, and metadata probe binaries
were detected. It exits non-zero when a conversion run could not proceed
(renderer or transcoder missing); a missing probe is only a warning since
dimensions degrade to "?".`,
	RunE: runDoctor,
}

func init() {
	doctorCmd.Flags().String("renderer", "", "browser binary to check instead of autodetecting")
	doctorCmd.Flags().String("transcoder", "", "transcoder backend to check: sips or imagemagick")

	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, args []string) error {
	rendererPath, _ := cmd.Flags().GetString("renderer")
	if rendererPath == "" {
		rendererPath = viper.GetString("render.renderer_path")
	}
	tool, _ := cmd.Flags().GetString("transcoder")
	if tool == "" {
		tool = viper.GetString("transcode.tool")
	}

	ok := true

	if bin, err := render.Detect(rendererPath); err != nil {
		fmt.Printf("renderer:   MISSING (%v)\n", err)
		ok = false
	} else {
		fmt.Printf("renderer:   %s\n", bin)
	}

	if tc, err := transcode.Detect(tool); err != nil {
		fmt.Printf("transcoder: MISSING (%v)\n", err)
		ok = false
	} else {
		fmt.Printf("transcoder: %s\n", tc.Name())
	}

	if prober, err := imgmeta.Detect(); err != nil {
		fmt.Printf("probe:      missing (dimensions will report as \"?\")\n")
	} else {
		fmt.Printf("probe:      %s\n", prober.Name())
	}

	if !ok {
		return fmt.Errorf("conversion cannot proceed: required tools missing")
	}
	fmt.Println("ready")
	return nil
}
