// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/arxiv-daily/internal/export"
	"github.com/pdiddy/arxiv-daily/internal/mdstore"
	"github.com/pdiddy/arxiv-daily/pkg/types"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Build the static site JSON from the markdown record store",
	Long: `Export reads the category directories under the docs dir, parses every
weekly file inside the trailing window, deduplicates and sorts the records,
and writes the aggregated JSON the site loads at runtime. Category index
metadata files are backfilled first.`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().String("docs-dir", "", "markdown store root (default docs/daily)")
	exportCmd.Flags().String("output", "", "output JSON path (default static/data/arxiv_daily.json)")
	exportCmd.Flags().Int("window-days", 0, "trailing window in days (default 90)")
	exportCmd.Flags().Int("max-items-per-cat", 0, "per-category item cap (default 256)")

	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg := buildConfig().Export

	if v, _ := cmd.Flags().GetString("docs-dir"); v != "" {
		cfg.DocsDir = v
	}
	if v, _ := cmd.Flags().GetString("output"); v != "" {
		cfg.OutputPath = v
	}
	if v, _ := cmd.Flags().GetInt("window-days"); v > 0 {
		cfg.WindowDays = v
	}
	if v, _ := cmd.Flags().GetInt("max-items-per-cat"); v > 0 {
		cfg.MaxItemsPerCategory = v
	}

	store, err := mdstore.NewStore(types.StoreConfig{DocsDir: cfg.DocsDir})
	if err != nil {
		return err
	}
	if err := store.EnsureCategoryIndices(); err != nil {
		return err
	}

	return export.BuildSite(cfg, time.Now(), os.Stdout)
}
