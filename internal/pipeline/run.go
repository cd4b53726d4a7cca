// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline orchestrates one daily enrichment run: fetch the
// listing, enrich each paper through a bounded worker pool, and write the
// results into the markdown record store.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/pdiddy/arxiv-daily/internal/enrich"
	"github.com/pdiddy/arxiv-daily/internal/figure"
	"github.com/pdiddy/arxiv-daily/internal/listing"
	"github.com/pdiddy/arxiv-daily/internal/mdstore"
	"github.com/pdiddy/arxiv-daily/internal/pdftext"
	"github.com/pdiddy/arxiv-daily/pkg/types"
)

const (
	defaultWorkers = 2
	defaultRPS     = 2.0
)

// ThumbnailUploader stores an image and returns its public URL.
type ThumbnailUploader interface {
	UploadThumbnail(ctx context.Context, data []byte, ext string) (string, error)
}

// Runner holds the collaborators for one run. Backend and Uploader may be
// nil: a nil Backend degrades every paper to minimal fields, a nil
// Uploader skips thumbnails.
type Runner struct {
	Config   types.Config
	Fetcher  *listing.Fetcher
	Store    *mdstore.Store
	Marker   *Marker
	Backend  enrich.Backend
	Uploader ThumbnailUploader
	Out      io.Writer

	// HTMLFile, when set, replays a saved listing snapshot instead of
	// fetching the live page.
	HTMLFile string

	client  *http.Client
	limiter *rate.Limiter

	// openDocument is the figure geometry opener, replaceable in tests.
	openDocument func(command, pdfPath string) (figure.Document, error)
}

// Run executes one full daily pass. The processed-dates marker is checked
// before any work and written only after everything else succeeded.
func (r *Runner) Run(ctx context.Context) error {
	r.init()

	lst, err := r.fetchListing(ctx)
	if err != nil {
		return err
	}

	day := lst.Date
	if day == "" {
		day = time.Now().Format("2006-01-02")
		fmt.Fprintf(r.Out, "listing carries no date, using today: %s\n", day)
	}

	done, err := r.Marker.WasProcessed(day)
	if err != nil {
		return err
	}
	if done {
		fmt.Fprintf(r.Out, "date %s already processed, exiting\n", day)
		return nil
	}

	entries := lst.Entries
	if max := r.Config.Pipeline.MaxPapers; max > 0 && len(entries) > max {
		entries = entries[:max]
		fmt.Fprintf(r.Out, "capping run at %d papers\n", max)
	}

	if len(entries) == 0 {
		fmt.Fprintf(r.Out, "no papers for %s\n", day)
		return r.Marker.MarkProcessed(day)
	}
	fmt.Fprintf(r.Out, "processing %d papers for %s\n", len(entries), day)

	papers := r.processAll(ctx, entries)

	if err := r.writeBack(day, papers); err != nil {
		return err
	}
	return r.Marker.MarkProcessed(day)
}

func (r *Runner) init() {
	if r.Out == nil {
		r.Out = io.Discard
	}
	if r.client == nil {
		r.client = &http.Client{Timeout: r.Config.Pipeline.Timeout}
	}
	if r.limiter == nil {
		rps := r.Config.Pipeline.RequestsPerSecond
		if rps <= 0 {
			rps = defaultRPS
		}
		r.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
	if r.openDocument == nil {
		r.openDocument = func(command, pdfPath string) (figure.Document, error) {
			return figure.OpenHelper(command, pdfPath)
		}
	}
}

func (r *Runner) fetchListing(ctx context.Context) (*listing.Listing, error) {
	if r.HTMLFile != "" {
		fmt.Fprintf(r.Out, "parsing listing snapshot %s\n", r.HTMLFile)
		return r.Fetcher.FetchFile(r.HTMLFile)
	}
	return r.Fetcher.Fetch(ctx)
}

// processAll runs the per-paper workers with a bounded pool. Workers never
// return an error: a failure degrades that one paper instead of cancelling
// its siblings.
func (r *Runner) processAll(ctx context.Context, entries []types.ListingEntry) []mdstore.Paper {
	workers := r.Config.Pipeline.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}

	papers := make([]mdstore.Paper, len(entries))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, entry := range entries {
		i, entry := i, entry
		g.Go(func() error {
			p := r.processOne(ctx, entry)
			mu.Lock()
			papers[i] = p
			mu.Unlock()
			return nil
		})
	}
	g.Wait()
	return papers
}

// processOne downloads, enriches, and optionally thumbnails a single
// paper. Every failure path returns a degraded paper.
func (r *Runner) processOne(ctx context.Context, entry types.ListingEntry) mdstore.Paper {
	if entry.PDFLink == "" {
		fmt.Fprintf(r.Out, "degraded (no PDF link): %s\n", entry.Title)
		return buildPaper(entry, degradedEnrichment(entry), "")
	}

	pdfPath, err := r.downloadPDF(ctx, entry)
	if err != nil {
		fmt.Fprintf(r.Out, "degraded (download failed): %s: %v\n", entry.Title, err)
		return buildPaper(entry, degradedEnrichment(entry), "")
	}
	defer os.Remove(pdfPath)

	firstPage, err := pdftext.FirstPage(pdfPath)
	if err != nil {
		fmt.Fprintf(r.Out, "first-page text unavailable for %s: %v\n", entry.Title, err)
	}

	enrichment := degradedEnrichment(entry)
	if r.Backend != nil {
		if err := r.limiter.Wait(ctx); err == nil {
			e, err := enrich.Enrich(ctx, r.Backend, enrich.Input{
				Title:         entry.Title,
				Abstract:      entry.Abstract,
				FirstPageText: firstPage,
			})
			if err != nil {
				fmt.Fprintf(r.Out, "degraded (enrichment failed): %s: %v\n", entry.Title, err)
			} else {
				enrichment = e
			}
		}
	}

	thumbnail := r.makeThumbnail(ctx, entry, pdfPath)
	return buildPaper(entry, enrichment, thumbnail)
}

func (r *Runner) downloadPDF(ctx context.Context, entry types.ListingEntry) (string, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, entry.PDFLink, nil)
	if err != nil {
		return "", fmt.Errorf("creating PDF request: %w", err)
	}
	if ua := r.Config.Pipeline.UserAgent; ua != "" {
		req.Header.Set("User-Agent", ua)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("downloading PDF: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("PDF download returned HTTP %d", resp.StatusCode)
	}

	tempDir := r.Config.Pipeline.TempDir
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	if err := os.MkdirAll(tempDir, 0o755); err != nil {
		return "", fmt.Errorf("creating temp directory: %w", err)
	}

	path := filepath.Join(tempDir, entry.ArxivID()+".pdf")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating temp PDF: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, resp.Body); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("writing temp PDF: %w", err)
	}
	return path, nil
}

// makeThumbnail is best-effort: any failure returns an empty URL.
func (r *Runner) makeThumbnail(ctx context.Context, entry types.ListingEntry, pdfPath string) string {
	if r.Uploader == nil || !r.Config.Thumbnail.Enabled {
		return ""
	}

	doc, err := r.openDocument(r.Config.Thumbnail.HelperCommand, pdfPath)
	if err != nil {
		fmt.Fprintf(r.Out, "thumbnail skipped for %s: %v\n", entry.Title, err)
		return ""
	}

	locator := &figure.Locator{
		Doc:          doc,
		FigureNumber: r.Config.Thumbnail.FigureNumber,
		Width:        r.Config.Thumbnail.Width,
	}
	data, ext, err := locator.Thumbnail()
	if err != nil {
		fmt.Fprintf(r.Out, "thumbnail skipped for %s: %v\n", entry.Title, err)
		return ""
	}

	url, err := r.Uploader.UploadThumbnail(ctx, data, ext)
	if err != nil {
		fmt.Fprintf(r.Out, "thumbnail upload failed for %s: %v\n", entry.Title, err)
		return ""
	}
	return url
}

// writeBack updates the top-level weekly file and one weekly file per
// category seen in the batch, single-threaded after all workers finish.
func (r *Runner) writeBack(day string, papers []mdstore.Paper) error {
	if err := r.Store.WriteDay(day, papers); err != nil {
		return fmt.Errorf("writing daily section: %w", err)
	}

	categoryMap := make(map[string][]mdstore.Paper)
	var order []string
	for _, p := range papers {
		for _, cat := range p.Categories {
			if _, ok := categoryMap[cat]; !ok {
				order = append(order, cat)
			}
			categoryMap[cat] = append(categoryMap[cat], p)
		}
	}

	for _, cat := range order {
		if err := r.Store.WriteDayForCategory(day, cat, categoryMap[cat]); err != nil {
			return fmt.Errorf("writing category %s: %w", cat, err)
		}
		fmt.Fprintf(r.Out, "category %s: %d papers\n", cat, len(categoryMap[cat]))
	}
	return nil
}

// degradedEnrichment is the minimal-field fallback used when the LLM is
// disabled or a paper's processing fails.
func degradedEnrichment(entry types.ListingEntry) types.Enrichment {
	return types.Enrichment{
		Institution: "TBD",
		Summary:     entry.Title,
	}
}

func buildPaper(entry types.ListingEntry, e types.Enrichment, thumbnail string) mdstore.Paper {
	return mdstore.Paper{
		Title:         entry.Title,
		Authors:       entry.Authors,
		Abstract:      entry.Abstract,
		PDFLink:       entry.PDFLink,
		Categories:    entry.Categories,
		Tag1:          e.Tag1,
		Tag2:          e.Tag2,
		Tag3:          e.Tag3,
		Institution:   e.Institution,
		Code:          e.Code,
		Contributions: e.Contributions,
		Summary:       e.Summary,
		Mermaid:       e.Mermaid,
		Thumbnail:     thumbnail,
	}
}
