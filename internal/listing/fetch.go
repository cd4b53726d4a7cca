// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package listing

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/pdiddy/arxiv-daily/pkg/types"
)

// listingURL is the daily new-submissions page. Package-level var for test
// substitution.
var listingURL = "https://arxiv.org/list/cs/new"

// Fetcher downloads the daily listing page.
type Fetcher struct {
	client    *http.Client
	userAgent string
	include   []string
}

// NewFetcher builds a fetcher from config.
func NewFetcher(cfg types.ListingConfig) *Fetcher {
	return &Fetcher{
		client:    &http.Client{Timeout: cfg.Timeout},
		userAgent: cfg.UserAgent,
		include:   cfg.IncludeCategories,
	}
}

// Fetch downloads and parses today's listing.
func (f *Fetcher) Fetch(ctx context.Context) (*Listing, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, listingURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating listing request: %w", err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching listing: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("listing page returned HTTP %d", resp.StatusCode)
	}
	return Parse(resp.Body, f.include)
}

// FetchFile parses a saved listing snapshot instead of the live page.
func (f *Fetcher) FetchFile(path string) (*Listing, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening listing file: %w", err)
	}
	defer fh.Close()
	return Parse(fh, f.include)
}
