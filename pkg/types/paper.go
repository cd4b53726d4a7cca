// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ListingEntry holds one paper as extracted from the arXiv "new
// submissions" listing page, before enrichment.
type ListingEntry struct {
	// ID is the canonical abstract URL (e.g. "http://arxiv.org/abs/2301.07041").
	ID string `json:"id" yaml:"id"`

	// Title is the raw paper title.
	Title string `json:"title" yaml:"title"`

	// Authors lists the paper authors in source order.
	Authors []string `json:"authors" yaml:"authors"`

	// Abstract is the paper abstract as shown on the listing page.
	Abstract string `json:"abstract" yaml:"abstract"`

	// PDFLink is the absolute PDF URL, or empty when the listing has none.
	PDFLink string `json:"pdf_link" yaml:"pdf_link"`

	// Categories holds the subject codes (e.g. "cs.DC", "cs.LG").
	Categories []string `json:"categories" yaml:"categories"`

	// Replaced marks revision entries, which are excluded from processing.
	Replaced bool `json:"replaced" yaml:"replaced"`
}

// ArxivID returns the bare identifier portion of the entry ID
// (e.g. "2301.07041" from "http://arxiv.org/abs/2301.07041").
func (e ListingEntry) ArxivID() string {
	id := e.ID
	for i := len(id) - 1; i >= 0; i-- {
		if id[i] == '/' {
			return id[i+1:]
		}
	}
	return id
}

// HasCategory reports whether the entry carries the given subject code.
func (e ListingEntry) HasCategory(cat string) bool {
	for _, c := range e.Categories {
		if c == cat {
			return true
		}
	}
	return false
}

// Enrichment holds the LLM-derived metadata for one paper. Absent fields
// are empty strings; enrichment is best-effort and never blocks a run.
type Enrichment struct {
	// Tag1 is the broad category tag from a closed set (e.g. "mlsys", "ai").
	Tag1 string `json:"tag1" yaml:"tag1"`

	// Tag2 is the subfield tag (closed set when Tag1 is "mlsys").
	Tag2 string `json:"tag2" yaml:"tag2"`

	// Tag3 holds 3-5 free-text keywords.
	Tag3 []string `json:"tag3" yaml:"tag3"`

	// Institution is the inferred main research institution.
	Institution string `json:"institution" yaml:"institution"`

	// Code is the project or GitHub URL, or "None"/empty when absent.
	Code string `json:"code" yaml:"code"`

	// Contributions is the paper's key contributions as a single string.
	Contributions string `json:"contributions" yaml:"contributions"`

	// Summary is a 2-3 sentence plain-language summary.
	Summary string `json:"summary" yaml:"summary"`

	// Mermaid is the mindmap diagram source, without fences.
	Mermaid string `json:"mermaid" yaml:"mermaid"`
}

// PaperRecord is the unit of storage in the weekly markdown files and the
// unit of export downstream. Link is the deduplication key; (Title, Day)
// is the fallback identity when Link is absent.
type PaperRecord struct {
	// Title is the LaTeX-cleaned, MDX-escaped paper title.
	Title string `json:"title" yaml:"title"`

	// Authors is the comma-joined author list.
	Authors string `json:"authors" yaml:"authors"`

	// Institution is the inferred research institution.
	Institution string `json:"institution" yaml:"institution"`

	// Link is the canonical PDF URL; the deduplication key.
	Link string `json:"link" yaml:"link"`

	// Code is an optional code/project URL.
	Code string `json:"code,omitempty" yaml:"code,omitempty"`

	// Tags is the flattened tag list. In raw source form the first element
	// is the category tag itself; export views drop it.
	Tags []string `json:"tags" yaml:"tags"`

	// Day is the publication/processing date, YYYY-MM-DD. It determines
	// the weekly file the record belongs to.
	Day string `json:"day" yaml:"day"`

	// Thumbnail is an optional uploaded thumbnail URL.
	Thumbnail string `json:"thumbnail,omitempty" yaml:"thumbnail,omitempty"`

	// Contributions summarises the paper's key contributions.
	Contributions string `json:"contributions" yaml:"contributions"`

	// Summary is the short LLM summary.
	Summary string `json:"summary" yaml:"summary"`

	// Mindmap is the mermaid diagram source, without fences.
	Mindmap string `json:"mindmap,omitempty" yaml:"mindmap,omitempty"`
}
