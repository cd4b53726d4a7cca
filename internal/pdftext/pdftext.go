// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pdftext extracts plain text from PDF files for prompt
// construction.
package pdftext

import (
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// maxFirstPageChars caps the text sent to the model; the front matter
// (title, authors, affiliations) fits well inside it.
const maxFirstPageChars = 4096

// FirstPage returns the plain text of the first page of the PDF at path,
// capped at 4096 characters. An unreadable or empty first page returns an
// error so callers can degrade enrichment input to the abstract alone.
func FirstPage(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening PDF %s: %w", path, err)
	}
	defer f.Close()

	if r.NumPage() < 1 {
		return "", fmt.Errorf("PDF %s has no pages", path)
	}

	page := r.Page(1)
	if page.V.IsNull() {
		return "", fmt.Errorf("PDF %s: first page is unreadable", path)
	}

	text, err := page.GetPlainText(nil)
	if err != nil {
		return "", fmt.Errorf("extracting first-page text from %s: %w", path, err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("PDF %s: first page has no extractable text", path)
	}
	if len(text) > maxFirstPageChars {
		text = text[:maxFirstPageChars]
	}
	return text, nil
}
