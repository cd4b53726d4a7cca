// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package listing fetches and parses the arXiv "new submissions" page for
// cs into structured paper entries. Parsing works on any reader so saved
// HTML snapshots replay identically to live fetches.
package listing

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pdiddy/arxiv-daily/pkg/types"
)

// Listing is one parsed daily page: the announcement date plus the
// surviving entries (revisions and duplicates already removed).
type Listing struct {
	// Date is the announcement date in YYYY-MM-DD form, empty when the
	// page carries no recognizable date header.
	Date string

	Entries []types.ListingEntry
}

var (
	// dateRe matches the h3 announcement text, e.g.
	// "Showing new listings for Monday, 3 November 2025".
	dateRe = regexp.MustCompile(`(?:Monday|Tuesday|Wednesday|Thursday|Friday|Saturday|Sunday),\s+(\d{1,2})\s+(January|February|March|April|May|June|July|August|September|October|November|December)\s+(\d{4})`)

	queryRe  = regexp.MustCompile(`query=([^&]+)`)
	parenRe  = regexp.MustCompile(`\(([^)]+)\)`)
	spacesRe = regexp.MustCompile(`\s+`)
)

var monthNum = map[string]string{
	"January": "01", "February": "02", "March": "03", "April": "04",
	"May": "05", "June": "06", "July": "07", "August": "08",
	"September": "09", "October": "10", "November": "11", "December": "12",
}

// Parse reads one listing page. Entries marked "(replaced)" are dropped,
// duplicates collapse on entry ID, and when include is non-empty only
// entries carrying at least one listed category survive. A malformed
// document returns an error rather than a partial listing.
func Parse(r io.Reader, include []string) (*Listing, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing listing HTML: %w", err)
	}

	out := &Listing{Date: extractDate(doc)}
	seen := make(map[string]bool)

	doc.Find("dt").Each(func(_ int, dt *goquery.Selection) {
		entry, ok := parseEntry(dt)
		if !ok || entry.Replaced || seen[entry.ID] {
			return
		}
		if len(include) > 0 && !hasAnyCategory(entry, include) {
			return
		}
		seen[entry.ID] = true
		out.Entries = append(out.Entries, entry)
	})
	return out, nil
}

// extractDate finds the "Showing new listings for ..." header and converts
// its long-form date to YYYY-MM-DD.
func extractDate(doc *goquery.Document) string {
	date := ""
	doc.Find("h3").EachWithBreak(func(_ int, h3 *goquery.Selection) bool {
		text := h3.Text()
		if !strings.Contains(text, "Showing new listings for") {
			return true
		}
		m := dateRe.FindStringSubmatch(text)
		if m == nil {
			return true
		}
		day := m[1]
		if len(day) == 1 {
			day = "0" + day
		}
		date = fmt.Sprintf("%s-%s-%s", m[3], monthNum[m[2]], day)
		return false
	})
	return date
}

// parseEntry extracts one paper from a dt element and its sibling dd.
// Entries without an abstract link are skipped.
func parseEntry(dt *goquery.Selection) (types.ListingEntry, bool) {
	var e types.ListingEntry

	dd := dt.NextFiltered("dd")
	if dd.Length() == 0 {
		return e, false
	}

	absHref, ok := firstHref(dt, "/abs/")
	if !ok {
		return e, false
	}
	if strings.HasPrefix(absHref, "http") {
		e.ID = absHref
	} else {
		e.ID = "http://arxiv.org/abs/" + lastSegment(absHref)
	}

	e.Replaced = strings.Contains(dt.Text(), "(replaced)")

	if pdfHref, ok := firstHref(dt, "/pdf/"); ok {
		if strings.HasPrefix(pdfHref, "/") {
			e.PDFLink = "https://arxiv.org" + pdfHref
		} else {
			e.PDFLink = pdfHref
		}
	}

	title := strings.TrimSpace(dd.Find("div.list-title").First().Text())
	title = strings.TrimSpace(strings.TrimPrefix(title, "Title:"))
	e.Title = spacesRe.ReplaceAllString(title, " ")

	dd.Find("div.list-authors a").Each(func(_ int, a *goquery.Selection) {
		if name := strings.TrimSpace(a.Text()); name != "" {
			e.Authors = append(e.Authors, name)
		}
	})

	e.Categories = parseCategories(dd.Find("div.list-subjects").First())
	e.Abstract = strings.TrimSpace(dd.Find("p.mathjax").First().Text())
	return e, true
}

// parseCategories prefers subject-search links and falls back to the
// parenthesized codes in the subjects text.
func parseCategories(subjects *goquery.Selection) []string {
	var cats []string
	subjects.Find("a").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if !strings.Contains(href, "searchtype=subject") {
			return
		}
		if m := queryRe.FindStringSubmatch(href); m != nil {
			cats = append(cats, m[1])
		}
	})
	if len(cats) > 0 {
		return cats
	}
	for _, m := range parenRe.FindAllStringSubmatch(subjects.Text(), -1) {
		if strings.HasPrefix(m[1], "cs.") {
			cats = append(cats, m[1])
		}
	}
	return cats
}

func firstHref(s *goquery.Selection, fragment string) (string, bool) {
	href := ""
	s.Find("a").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		h, ok := a.Attr("href")
		if ok && strings.Contains(h, fragment) {
			href = h
			return false
		}
		return true
	})
	return href, href != ""
}

func lastSegment(path string) string {
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[i+1:]
	}
	return path
}

func hasAnyCategory(e types.ListingEntry, include []string) bool {
	for _, c := range include {
		if e.HasCategory(c) {
			return true
		}
	}
	return false
}
