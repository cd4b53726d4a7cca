// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package mdstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pdiddy/arxiv-daily/pkg/types"
)

const (
	categoryDC = "cs.DC"

	rlKeyword         = "reinforcement learning"
	accelerateKeyword = "accelerat"
)

// dayHeaderRe locates day-section headers. A section spans from its header
// to the next header or end of text.
var dayHeaderRe = regexp.MustCompile(`(?m)^##\s*(\d{4}-\d{2}-\d{2})`)

// Store writes enriched papers into weekly markdown files under a docs
// root, one top-level weekly file plus one weekly file per category
// subdirectory.
type Store struct {
	docsDir string
}

// NewStore creates a store rooted at cfg.DocsDir, creating the directory
// if needed.
func NewStore(cfg types.StoreConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.DocsDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating docs directory: %w", err)
	}
	return &Store{docsDir: cfg.DocsDir}, nil
}

// DocsDir returns the store root.
func (s *Store) DocsDir() string { return s.docsDir }

// section is one day section located inside a weekly file.
type section struct {
	day        string
	start, end int
}

// scanSections finds every day section in text, in file order.
func scanSections(text string) []section {
	matches := dayHeaderRe.FindAllStringSubmatchIndex(text, -1)
	sections := make([]section, 0, len(matches))
	for i, m := range matches {
		end := len(text)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		sections = append(sections, section{
			day:   text[m[2]:m[3]],
			start: m[0],
			end:   end,
		})
	}
	return sections
}

// splice rebuilds file text with block in place of the [start, end) span.
// Surrounding newlines are normalised so the block sits one blank line
// below its predecessor.
func splice(text, block string, start, end int) string {
	var b strings.Builder
	before := strings.TrimRight(text[:start], "\n")
	if before != "" {
		b.WriteString(before)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(block)
	after := text[end:]
	if after != "" && !strings.HasPrefix(after, "\n") {
		b.WriteString("\n")
	}
	b.WriteString(strings.TrimLeft(after, "\n"))
	return b.String()
}

// UpsertDay writes block as the one section for day in the weekly file at
// path. An existing section for the day is replaced wholesale; otherwise
// the block is inserted so section days stay in ascending order (plain
// string comparison is safe for fixed-width YYYY-MM-DD). The operation is
// idempotent: repeating it with identical arguments leaves the file
// byte-identical.
func UpsertDay(path, day, block string) error {
	var text string
	if data, err := os.ReadFile(path); err == nil {
		text = string(data)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	sections := scanSections(text)

	var updated string
	switch {
	case hasDay(sections, day):
		sec := findDay(sections, day)
		updated = splice(text, block, sec.start, sec.end)
	default:
		insertAt := -1
		for _, sec := range sections {
			if sec.day > day {
				insertAt = sec.start
				break
			}
		}
		if insertAt >= 0 {
			updated = splice(text, block, insertAt, insertAt)
		} else if trimmed := strings.TrimSpace(text); trimmed != "" {
			updated = strings.TrimRight(text, " \t\n") + "\n\n" + block
		} else {
			updated = block
		}
	}

	final := strings.TrimSpace(updated) + "\n"
	if err := os.WriteFile(path, []byte(final), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func hasDay(sections []section, day string) bool {
	return findDay(sections, day) != nil
}

func findDay(sections []section, day string) *section {
	for i := range sections {
		if sections[i].day == day {
			return &sections[i]
		}
	}
	return nil
}

// renderDailySection renders the top-level day block: three labeled groups
// with count banners in fixed order. Non-DC papers matching neither
// keyword appear only in their category files.
func renderDailySection(day string, papers []Paper) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n\n", day)
	if len(papers) == 0 {
		b.WriteString("No papers today\n")
		return b.String()
	}

	var dc, others []Paper
	for _, p := range papers {
		if p.HasCategory(categoryDC) {
			dc = append(dc, p)
		} else {
			others = append(others, p)
		}
	}
	var rl, acc []Paper
	for _, p := range others {
		abs := strings.ToLower(p.Abstract)
		if strings.Contains(abs, rlKeyword) {
			rl = append(rl, p)
		}
		if strings.Contains(abs, accelerateKeyword) {
			acc = append(acc, p)
		}
	}

	fmt.Fprintf(&b, "**cs.DC total: %d**\n\n", len(dc))
	for _, p := range dc {
		b.WriteString(FormatPaper(p, day))
	}
	fmt.Fprintf(&b, "\n**cs.AI/cs.LG contains \"reinforcement learning\" total: %d**\n", len(rl))
	for _, p := range rl {
		b.WriteString(FormatPaper(p, day))
	}
	fmt.Fprintf(&b, "\n**cs.AI/cs.LG contains \"accelerate\" total: %d**\n", len(acc))
	for _, p := range acc {
		b.WriteString(FormatPaper(p, day))
	}
	return b.String()
}

// renderCategorySection renders a per-category day block: header plus
// record blocks, no group banners.
func renderCategorySection(day string, papers []Paper) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n\n", day)
	for _, p := range papers {
		b.WriteString(FormatPaper(p, day))
	}
	return b.String()
}

// WriteDay upserts the day section of the top-level weekly file.
func (s *Store) WriteDay(day string, papers []Paper) error {
	path, err := s.ensureWeeklyFile(day)
	if err != nil {
		return err
	}
	return UpsertDay(path, day, renderDailySection(day, papers))
}

// WriteDayForCategory upserts the day section of the category's weekly
// file, creating the category directory and its index metadata as needed.
func (s *Store) WriteDayForCategory(day, category string, papers []Paper) error {
	if len(papers) == 0 {
		return nil
	}
	path, err := s.ensureCategoryWeeklyFile(day, category)
	if err != nil {
		return err
	}
	return UpsertDay(path, day, renderCategorySection(day, papers))
}

// ensureWeeklyFile creates the top-level weekly file for day if missing
// and returns its path.
func (s *Store) ensureWeeklyFile(day string) (string, error) {
	week, err := WeekRange(day)
	if err != nil {
		return "", err
	}
	path := filepath.Join(s.docsDir, week+".md")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		heading := fmt.Sprintf("# %s\n\n", week)
		if err := os.WriteFile(path, []byte(heading), 0o644); err != nil {
			return "", fmt.Errorf("creating weekly file: %w", err)
		}
	}
	return path, nil
}

// ensureCategoryWeeklyFile creates the category directory, its index
// metadata, and the category weekly file for day if missing.
func (s *Store) ensureCategoryWeeklyFile(day, category string) (string, error) {
	week, err := WeekRange(day)
	if err != nil {
		return "", err
	}
	dir := filepath.Join(s.docsDir, SafeCategory(category))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating category directory: %w", err)
	}
	if err := s.ensureCategoryIndex(dir, category, 1, false); err != nil {
		return "", err
	}

	path := filepath.Join(dir, week+".md")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		content := fmt.Sprintf("---\nslug: /daily/%s/%s\n---\n# %s (%s)\n\n",
			NormCategory(category), week, week, category)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return "", fmt.Errorf("creating category weekly file: %w", err)
		}
	}
	return path, nil
}

// categoryIndex is the docusaurus sidebar metadata for one category
// directory, written once as _category_.json.
type categoryIndex struct {
	Label       string        `json:"label"`
	Position    int           `json:"position"`
	Collapsible bool          `json:"collapsible,omitempty"`
	Link        categoryILink `json:"link"`
}

type categoryILink struct {
	Type string `json:"type"`
	Slug string `json:"slug"`
}

func (s *Store) ensureCategoryIndex(dir, label string, position int, collapsible bool) error {
	metaPath := filepath.Join(dir, "_category_.json")
	if _, err := os.Stat(metaPath); err == nil {
		return nil
	}
	idx := categoryIndex{
		Label:       label,
		Position:    position,
		Collapsible: collapsible,
		Link: categoryILink{
			Type: "generated-index",
			Slug: "/daily/" + NormCategory(label),
		},
	}
	data, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling category index: %w", err)
	}
	if err := os.WriteFile(metaPath, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing category index: %w", err)
	}
	return nil
}

// EnsureCategoryIndices backfills _category_.json for category directories
// created before index metadata existed.
func (s *Store) EnsureCategoryIndices() error {
	entries, err := os.ReadDir(s.docsDir)
	if err != nil {
		return fmt.Errorf("reading docs directory: %w", err)
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(s.docsDir, entry.Name())
		label := strings.ReplaceAll(entry.Name(), "_", ".")
		if err := s.ensureCategoryIndex(dir, label, 2, true); err != nil {
			return err
		}
	}
	return nil
}

var nonAlnumRe = regexp.MustCompile(`[^a-z0-9]`)

// SafeCategory converts a category label to a directory name
// ("cs.DC" -> "cs_DC").
func SafeCategory(cat string) string {
	if cat == "" {
		cat = "unknown"
	}
	r := strings.NewReplacer(".", "_", "/", "_", " ", "_")
	return r.Replace(cat)
}

// NormCategory converts a category label to a lowercase alphanumeric URL
// slug ("cs.DC" -> "csdc").
func NormCategory(cat string) string {
	return nonAlnumRe.ReplaceAllString(strings.ToLower(cat), "")
}
