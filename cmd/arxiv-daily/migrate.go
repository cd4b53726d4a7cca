// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/arxiv-daily/internal/export"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate the markdown record store into the sqlite database",
	Long: `Migrate walks every weekly file under the docs dir, without the trailing
window applied to the site export, and upserts each record into the papers
table keyed by link. Re-running converges on the same rows.`,
	RunE: runMigrate,
}

func init() {
	migrateCmd.Flags().String("docs-dir", "", "markdown store root (default docs/daily)")
	migrateCmd.Flags().String("db", "", "sqlite database path (default data/papers.db)")

	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg := buildConfig().Export

	if v, _ := cmd.Flags().GetString("docs-dir"); v != "" {
		cfg.DocsDir = v
	}
	if v, _ := cmd.Flags().GetString("db"); v != "" {
		cfg.DBPath = v
	}

	return export.Migrate(context.Background(), cfg, os.Stdout)
}
