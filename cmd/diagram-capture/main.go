// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the diagram-capture CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the diagram-capture CLI.
var rootCmd = &cobra.Command{
	Use:   "diagram-capture",
	Short: "Batch-convert HTML diagrams to JPEG images",
	Long: `diagram-capture converts directories of HTML diagrams (Mermaid exports,
architecture sketches, anything a browser can render) into JPEG images.
Each diagram is screenshot by a headless browser, transcoded to JPEG by a
system image utility, and measured with a metadata probe.

Rendering and transcoding are fully delegated to external tools; the CLI
orchestrates them, isolates per-diagram failures, and reports a tally.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./diagram-capture.yaml or ~/.config/diagram-capture/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("diagram-capture")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "diagram-capture"))
		}
	}

	viper.SetEnvPrefix("DIAGRAM_CAPTURE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
