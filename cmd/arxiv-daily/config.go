// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/arxiv-daily/pkg/types"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "arxiv-daily/0.1"
	defaultModel     = "deepseek-chat"
	defaultDocsDir   = "docs/daily"
)

// buildConfig assembles the effective configuration from viper (config
// file and ARXIV_DAILY_* environment) with built-in defaults. Credentials
// additionally fall back to .secrets/ files.
func buildConfig() types.Config {
	cfg := types.Config{
		Listing: types.ListingConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viperDuration("listing.timeout", defaultTimeout),
				UserAgent: viperString("listing.user_agent", defaultUserAgent),
			},
			IncludeCategories: viper.GetStringSlice("listing.include_categories"),
		},
		Enrich: types.EnrichConfig{
			AIConfig: types.AIConfig{
				Model:      viperString("enrich.model", defaultModel),
				APIKey:     secretDefault("deepseek-api-key", viper.GetString("enrich.api_key")),
				MaxRetries: viperInt("enrich.max_retries", 3),
			},
			Enabled: true,
		},
		Thumbnail: types.ThumbnailConfig{
			FigureNumber:  viperInt("thumbnail.figure_number", 1),
			Width:         viperInt("thumbnail.width", 640),
			HelperCommand: viperString("thumbnail.helper_command", "pdf-helper"),
		},
		Storage: types.StorageConfig{
			Endpoint:        viper.GetString("storage.endpoint"),
			AccessKeyID:     secretDefault("r2-access-key-id", viper.GetString("storage.access_key_id")),
			SecretAccessKey: secretDefault("r2-secret-access-key", viper.GetString("storage.secret_access_key")),
			Bucket:          viper.GetString("storage.bucket"),
			PublicBaseURL:   viper.GetString("storage.public_base_url"),
		},
		Store: types.StoreConfig{
			DocsDir: viperString("store.docs_dir", defaultDocsDir),
		},
		Pipeline: types.PipelineConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viperDuration("pipeline.timeout", defaultTimeout),
				UserAgent: viperString("pipeline.user_agent", defaultUserAgent),
			},
			Workers:           viperInt("pipeline.workers", 2),
			TempDir:           viperString("pipeline.temp_dir", "temp_pdfs"),
			MarkerFile:        viperString("pipeline.marker_file", "arxiv_date.txt"),
			RequestsPerSecond: viperFloat("pipeline.requests_per_second", 2),
		},
		Export: types.ExportConfig{
			DocsDir:             viperString("export.docs_dir", defaultDocsDir),
			WindowDays:          viperInt("export.window_days", 90),
			MaxItemsPerCategory: viperInt("export.max_items_per_category", 256),
			OutputPath:          viperString("export.output_path", "static/data/arxiv_daily.json"),
			DBPath:              viperString("export.db_path", "data/papers.db"),
		},
	}
	return cfg
}

func viperString(key, fallback string) string {
	if v := viper.GetString(key); v != "" {
		return v
	}
	return fallback
}

func viperInt(key string, fallback int) int {
	if v := viper.GetInt(key); v != 0 {
		return v
	}
	return fallback
}

func viperFloat(key string, fallback float64) float64 {
	if v := viper.GetFloat64(key); v != 0 {
		return v
	}
	return fallback
}

func viperDuration(key string, fallback time.Duration) time.Duration {
	if v := viper.GetDuration(key); v != 0 {
		return v
	}
	return fallback
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as YAML",
	Long: `Config resolves the configuration from defaults, the config file, and
environment variables, and prints the result. Credential values are redacted.`,
	RunE: runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg := buildConfig()

	if cfg.Enrich.APIKey != "" {
		cfg.Enrich.APIKey = "<redacted>"
	}
	if cfg.Storage.AccessKeyID != "" {
		cfg.Storage.AccessKeyID = "<redacted>"
	}
	if cfg.Storage.SecretAccessKey != "" {
		cfg.Storage.SecretAccessKey = "<redacted>"
	}

	out, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	fmt.Fprint(cmd.OutOrStdout(), string(out))
	return nil
}
