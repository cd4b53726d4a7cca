// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package mdstore implements the markdown-backed record store: weekly
// files of day sections, written with idempotent whole-section replacement
// and read back into typed records.
package mdstore

import (
	"fmt"
	"time"
)

const dayLayout = "2006-01-02"

// WeekRange returns the Monday-Sunday range containing day, formatted
// "YYYYMMDD-YYYYMMDD". Weekly file names and headings use this key.
func WeekRange(day string) (string, error) {
	t, err := time.Parse(dayLayout, day)
	if err != nil {
		return "", fmt.Errorf("parsing day %q: %w", day, err)
	}
	sinceMonday := (int(t.Weekday()) + 6) % 7
	monday := t.AddDate(0, 0, -sinceMonday)
	sunday := monday.AddDate(0, 0, 6)
	return monday.Format("20060102") + "-" + sunday.Format("20060102"), nil
}

// ArxivPrefix returns the "[arXivYYMMDD]" tag for a day, or "" when the
// day does not parse.
func ArxivPrefix(day string) string {
	t, err := time.Parse(dayLayout, day)
	if err != nil {
		return ""
	}
	return t.Format("[arXiv060102]")
}
