// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/diagram-capture/internal/imgmeta"
)

var probeCmd = &cobra.Command{
	Use:   "probe <image>...",
	Short: "Print the pixel dimensions of finished images",
	Long: `Probe runs the metadata probe (sips or ImageMagick identify) against
image files and prints one "name: WxH" line per file. Dimensions that
cannot be read are printed as "?"; probing never fails the command.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runProbe,
}

func init() {
	rootCmd.AddCommand(probeCmd)
}

func runProbe(cmd *cobra.Command, args []string) error {
	prober, err := imgmeta.Detect()
	if err != nil {
		return err
	}

	ctx := context.Background()
	for _, path := range args {
		dims, err := prober.Dimensions(ctx, path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		}
		fmt.Printf("%s: %s\n", path, dims)
	}
	return nil
}
