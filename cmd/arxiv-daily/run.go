// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/arxiv-daily/internal/enrich"
	"github.com/pdiddy/arxiv-daily/internal/listing"
	"github.com/pdiddy/arxiv-daily/internal/mdstore"
	"github.com/pdiddy/arxiv-daily/internal/pipeline"
	"github.com/pdiddy/arxiv-daily/internal/storage"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Fetch, enrich, and record one day's arXiv listing",
	Long: `Run fetches the cs new-submissions listing, determines the announcement
date, and processes every paper through a bounded worker pool: PDF download,
first-page text extraction, LLM enrichment, and optional thumbnail upload.
Results are merged into the weekly markdown files. Dates recorded in the
processed-dates file are skipped.`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().Bool("skip-llm", false, "skip LLM enrichment; papers degrade to minimal fields")
	runCmd.Flags().Bool("generate-thumbnails", false, "locate and upload a figure thumbnail per paper")
	runCmd.Flags().Int("max-papers", 0, "cap the number of papers processed (0 = no cap)")
	runCmd.Flags().Int("workers", 0, "worker pool size (default 2)")
	runCmd.Flags().StringSlice("include-categories", nil, "only process papers in these categories (e.g. cs.AI,cs.LG)")
	runCmd.Flags().String("html-file", "", "parse a saved listing snapshot instead of fetching")

	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg := buildConfig()

	skipLLM, _ := cmd.Flags().GetBool("skip-llm")
	thumbnails, _ := cmd.Flags().GetBool("generate-thumbnails")
	maxPapers, _ := cmd.Flags().GetInt("max-papers")
	workers, _ := cmd.Flags().GetInt("workers")
	include, _ := cmd.Flags().GetStringSlice("include-categories")
	htmlFile, _ := cmd.Flags().GetString("html-file")

	if maxPapers > 0 {
		cfg.Pipeline.MaxPapers = maxPapers
	}
	if workers > 0 {
		cfg.Pipeline.Workers = workers
	}
	if len(include) > 0 {
		cfg.Listing.IncludeCategories = include
	}
	cfg.Enrich.Enabled = !skipLLM
	cfg.Thumbnail.Enabled = thumbnails

	var backend enrich.Backend
	if cfg.Enrich.Enabled {
		if cfg.Enrich.APIKey == "" {
			return fmt.Errorf("no DeepSeek API key configured: set .secrets/deepseek-api-key, ARXIV_DAILY_ENRICH.API_KEY, or pass --skip-llm")
		}
		backend = enrich.NewBackend(cfg.Enrich, &http.Client{Timeout: cfg.Pipeline.Timeout})
	}

	var uploader pipeline.ThumbnailUploader
	if cfg.Thumbnail.Enabled {
		if !cfg.Storage.Configured() {
			fmt.Fprintln(os.Stderr, "object storage not fully configured, skipping thumbnails")
		} else {
			u, err := storage.NewUploader(cfg.Storage)
			if err != nil {
				return err
			}
			uploader = u
		}
	}

	store, err := mdstore.NewStore(cfg.Store)
	if err != nil {
		return err
	}

	runner := &pipeline.Runner{
		Config:   cfg,
		Fetcher:  listing.NewFetcher(cfg.Listing),
		Store:    store,
		Marker:   pipeline.NewMarker(cfg.Pipeline.MarkerFile),
		Backend:  backend,
		Uploader: uploader,
		Out:      os.Stdout,
		HTMLFile: htmlFile,
	}
	return runner.Run(context.Background())
}
