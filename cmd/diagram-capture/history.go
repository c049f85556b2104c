// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/diagram-capture/internal/ledger"
	"github.com/pdiddy/diagram-capture/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List conversion runs recorded in the ledger",
	Long: `History reads the run-history ledger written by "convert --ledger" and
lists recent runs, newest first. Use --run to show the per-diagram results
of one run.`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().String("ledger-path", "", "ledger database path (default: <output-dir>/"+ledger.DefaultFile+")")
	historyCmd.Flags().String("output-dir", "images", "output directory holding the default ledger")
	historyCmd.Flags().Int("limit", 10, "maximum number of runs to list")
	historyCmd.Flags().Int64("run", 0, "show per-diagram results for this run ID")
	historyCmd.Flags().Bool("json", false, "output as JSON")

	rootCmd.AddCommand(historyCmd)
}

func historyLedgerPath(cmd *cobra.Command) string {
	path, _ := cmd.Flags().GetString("ledger-path")
	if path == "" {
		path = viper.GetString("ledger.path")
	}
	if path == "" {
		outputDir, _ := cmd.Flags().GetString("output-dir")
		if !cmd.Flags().Changed("output-dir") {
			if v := viper.GetString("output_dir"); v != "" {
				outputDir = v
			}
		}
		path = filepath.Join(outputDir, ledger.DefaultFile)
	}
	return path
}

func runHistory(cmd *cobra.Command, args []string) error {
	path := historyLedgerPath(cmd)
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("no ledger at %s (run \"convert --ledger\" first): %w", path, err)
	}

	store, err := ledger.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	jsonOutput, _ := cmd.Flags().GetBool("json")

	if runID, _ := cmd.Flags().GetInt64("run"); runID > 0 {
		items, err := store.RunItems(ctx, runID)
		if err != nil {
			return err
		}
		if jsonOutput {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(items)
		}
		for _, item := range items {
			switch item.Status {
			case types.StatusConverted:
				fmt.Printf("%-10s  %-30s  %sx%s\n", item.Status, item.Name, item.Width, item.Height)
			case types.StatusFailed:
				fmt.Printf("%-10s  %-30s  %s\n", item.Status, item.Name, item.Reason)
			default:
				fmt.Printf("%-10s  %-30s\n", item.Status, item.Name)
			}
		}
		return nil
	}

	limit, _ := cmd.Flags().GetInt("limit")
	runs, err := store.RecentRuns(ctx, limit)
	if err != nil {
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	}

	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}

	fmt.Printf("%-4s  %-20s  %-9s  %-7s  %-6s  %s\n",
		"ID", "Started", "Converted", "Skipped", "Failed", "Source")
	for _, r := range runs {
		fmt.Printf("%-4d  %-20s  %-9d  %-7d  %-6d  %s\n",
			r.ID, r.StartedAt.Local().Format(time.DateTime),
			r.Converted, r.Skipped, r.Failed, r.SourceDir)
	}
	return nil
}
