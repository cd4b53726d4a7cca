// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export reads the markdown record store back and builds the
// downstream artifacts: the static site JSON and the relational database.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"time"

	"github.com/pdiddy/arxiv-daily/internal/mdstore"
	"github.com/pdiddy/arxiv-daily/pkg/types"
)

const (
	defaultWindowDays = 90
	defaultMaxItems   = 256
)

// weekFileRe matches weekly file names like 20250804-20250810.md.
var weekFileRe = regexp.MustCompile(`^(\d{8})-(\d{8})\.md$`)

// Category is one category's slice of the site data.
type Category struct {
	Label string              `json:"label"`
	Slug  string              `json:"slug"`
	Week  string              `json:"week"`
	Items []types.PaperRecord `json:"items"`
}

// SiteData is the JSON document the site loads at runtime.
type SiteData struct {
	Categories []Category `json:"categories"`
}

// BuildSite scans the category directories under cfg.DocsDir, parses the
// weekly files inside the trailing window, and writes the aggregated JSON
// to cfg.OutputPath. Per category, records deduplicate on link (title+day
// when the link is missing), sort newest day first, and cap at
// cfg.MaxItemsPerCategory.
func BuildSite(cfg types.ExportConfig, now time.Time, w io.Writer) error {
	data, err := CollectSite(cfg, now, w)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(cfg.OutputPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}

	buf, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding site data: %w", err)
	}
	if err := os.WriteFile(cfg.OutputPath, buf, 0o644); err != nil {
		return fmt.Errorf("writing site data: %w", err)
	}

	fmt.Fprintf(w, "wrote %s (%d categories)\n", cfg.OutputPath, len(data.Categories))
	return nil
}

// CollectSite builds the site data in memory.
func CollectSite(cfg types.ExportConfig, now time.Time, w io.Writer) (*SiteData, error) {
	entries, err := os.ReadDir(cfg.DocsDir)
	if err != nil {
		return nil, fmt.Errorf("reading docs directory: %w", err)
	}

	data := &SiteData{}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		label := labelFromDir(entry.Name())
		cat := Category{
			Label: label,
			Slug:  mdstore.NormCategory(label),
		}

		files := recentWeekFiles(filepath.Join(cfg.DocsDir, entry.Name()), windowDays(cfg), now)
		var items []types.PaperRecord
		for _, path := range files {
			parsed, err := mdstore.ParseWeekFile(path, mdstore.ParseOptions{DropCategoryTag: true})
			if err != nil {
				fmt.Fprintf(w, "skipping %s: %v\n", path, err)
				continue
			}
			if parsed.Week != "" {
				cat.Week = parsed.Week
			}
			items = append(items, parsed.Items...)
		}

		items = Dedup(items)
		sortByDayDesc(items)
		if max := maxItems(cfg); len(items) > max {
			items = items[:max]
		}
		cat.Items = items
		data.Categories = append(data.Categories, cat)
	}
	return data, nil
}

// Dedup removes repeated records, keeping the first occurrence. The link is
// the identity; records without one fall back to (title, day).
func Dedup(items []types.PaperRecord) []types.PaperRecord {
	seen := make(map[string]bool, len(items))
	out := items[:0:0]
	for _, it := range items {
		key := it.Link
		if key == "" {
			key = "\x00" + it.Title + "\x00" + it.Day
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, it)
	}
	return out
}

// recentWeekFiles returns weekly file paths whose range ends inside the
// trailing window, oldest first.
func recentWeekFiles(dir string, windowDays int, now time.Time) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	cutoff := now.AddDate(0, 0, -windowDays)

	type candidate struct {
		end  time.Time
		name string
	}
	var candidates []candidate
	for _, e := range entries {
		m := weekFileRe.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		end, err := time.Parse("20060102", m[2])
		if err != nil || end.Before(cutoff) {
			continue
		}
		candidates = append(candidates, candidate{end: end, name: e.Name()})
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].end.Before(candidates[j].end) })

	paths := make([]string, 0, len(candidates))
	for _, c := range candidates {
		paths = append(paths, filepath.Join(dir, c.name))
	}
	return paths
}

func sortByDayDesc(items []types.PaperRecord) {
	sort.SliceStable(items, func(i, j int) bool {
		di, erri := time.Parse("2006-01-02", items[i].Day)
		dj, errj := time.Parse("2006-01-02", items[j].Day)
		if erri != nil {
			return false
		}
		if errj != nil {
			return true
		}
		return di.After(dj)
	})
}

// labelFromDir recovers the display label from a directory name
// (e.g. "cs_DC" to "cs.DC").
func labelFromDir(name string) string {
	out := []byte(name)
	for i := range out {
		if out[i] == '_' {
			out[i] = '.'
		}
	}
	return string(out)
}

func windowDays(cfg types.ExportConfig) int {
	if cfg.WindowDays > 0 {
		return cfg.WindowDays
	}
	return defaultWindowDays
}

func maxItems(cfg types.ExportConfig) int {
	if cfg.MaxItemsPerCategory > 0 {
		return cfg.MaxItemsPerCategory
	}
	return defaultMaxItems
}
