package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "arxiv-daily/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ListingConfig holds settings for fetching the arXiv new-submissions page.
type ListingConfig struct {
	HTTPConfig `yaml:",inline"`

	// IncludeCategories optionally restricts processing to the given
	// subject codes (e.g. ["cs.AI", "cs.LG"]). Empty means no filter.
	IncludeCategories []string `json:"include_categories,omitempty" yaml:"include_categories,omitempty"`
}

// AIConfig holds shared settings for stages that call a Generative AI API.
type AIConfig struct {
	// Model is the AI model identifier (e.g. "deepseek-chat").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the AI API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxRetries is the number of retry attempts for rate-limited API calls.
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// EnrichConfig holds settings for the metadata enrichment stage.
type EnrichConfig struct {
	AIConfig `yaml:",inline"`

	// Enabled toggles LLM enrichment. When false each paper degrades to
	// minimal fields (title as summary, institution "TBD").
	Enabled bool `json:"enabled" yaml:"enabled"`
}

// ThumbnailConfig holds settings for figure location and rasterization.
type ThumbnailConfig struct {
	// Enabled toggles thumbnail generation and upload.
	Enabled bool `json:"enabled" yaml:"enabled"`

	// FigureNumber is the 1-based figure to locate (default 1).
	FigureNumber int `json:"figure_number" yaml:"figure_number"`

	// Width is the rasterization target width in pixels (default 640).
	Width int `json:"width" yaml:"width"`

	// HelperCommand is the external PDF geometry/render helper binary.
	HelperCommand string `json:"helper_command" yaml:"helper_command"`
}

// StorageConfig holds settings for the S3-compatible thumbnail bucket.
// All five values must be set for uploads to happen; otherwise the
// thumbnail step is skipped.
type StorageConfig struct {
	// Endpoint is the object-store endpoint host (no scheme).
	Endpoint string `json:"endpoint" yaml:"endpoint"`

	// AccessKeyID authenticates bucket writes.
	AccessKeyID string `json:"access_key_id,omitempty" yaml:"access_key_id,omitempty"`

	// SecretAccessKey authenticates bucket writes.
	SecretAccessKey string `json:"secret_access_key,omitempty" yaml:"secret_access_key,omitempty"`

	// Bucket is the target bucket name.
	Bucket string `json:"bucket" yaml:"bucket"`

	// PublicBaseURL prefixes uploaded keys to build the returned link.
	PublicBaseURL string `json:"public_base_url" yaml:"public_base_url"`
}

// Configured reports whether every value needed for uploads is present.
func (c StorageConfig) Configured() bool {
	return c.Endpoint != "" && c.AccessKeyID != "" && c.SecretAccessKey != "" &&
		c.Bucket != "" && c.PublicBaseURL != ""
}

// StoreConfig holds settings for the markdown record store.
type StoreConfig struct {
	// DocsDir is the root of the weekly files (e.g. "docs/daily").
	// Category subdirectories live directly under it.
	DocsDir string `json:"docs_dir" yaml:"docs_dir"`
}

// PipelineConfig holds settings for one enrichment run.
type PipelineConfig struct {
	HTTPConfig `yaml:",inline"`

	// Workers bounds the per-paper worker pool (default 2).
	Workers int `json:"workers" yaml:"workers"`

	// MaxPapers caps the number of papers processed (0 = no cap).
	MaxPapers int `json:"max_papers,omitempty" yaml:"max_papers,omitempty"`

	// TempDir holds downloaded PDFs for the duration of one worker task.
	TempDir string `json:"temp_dir" yaml:"temp_dir"`

	// MarkerFile is the append-only processed-dates file.
	MarkerFile string `json:"marker_file" yaml:"marker_file"`

	// RequestsPerSecond rate-limits downloads and LLM calls (default 2).
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second"`
}

// ExportConfig holds settings for the static export builders.
type ExportConfig struct {
	// DocsDir is the markdown store root to read back.
	DocsDir string `json:"docs_dir" yaml:"docs_dir"`

	// WindowDays is the trailing window for weekly files (default 90).
	WindowDays int `json:"window_days" yaml:"window_days"`

	// MaxItemsPerCategory caps each category's item list (default 256).
	MaxItemsPerCategory int `json:"max_items_per_category" yaml:"max_items_per_category"`

	// OutputPath is the site JSON destination.
	OutputPath string `json:"output_path" yaml:"output_path"`

	// DBPath is the sqlite database for the relational export.
	DBPath string `json:"db_path" yaml:"db_path"`
}

// Config aggregates the per-stage configuration.
type Config struct {
	Listing   ListingConfig   `json:"listing" yaml:"listing"`
	Enrich    EnrichConfig    `json:"enrich" yaml:"enrich"`
	Thumbnail ThumbnailConfig `json:"thumbnail" yaml:"thumbnail"`
	Storage   StorageConfig   `json:"storage" yaml:"storage"`
	Store     StoreConfig     `json:"store" yaml:"store"`
	Pipeline  PipelineConfig  `json:"pipeline" yaml:"pipeline"`
	Export    ExportConfig    `json:"export" yaml:"export"`
}
