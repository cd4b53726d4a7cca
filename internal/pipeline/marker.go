// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Marker is the append-only processed-dates file gating reruns. A date is
// recorded only after a run completes, so a crashed run leaves no marker
// and the date is retried on the next invocation.
type Marker struct {
	path string
}

// NewMarker wraps the marker file at path. The file need not exist yet.
func NewMarker(path string) *Marker {
	return &Marker{path: path}
}

// WasProcessed reports whether the given YYYY-MM-DD day is already recorded.
func (m *Marker) WasProcessed(day string) (bool, error) {
	data, err := os.ReadFile(m.path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("reading marker file: %w", err)
	}

	token := compactDay(day)
	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) == token {
			return true, nil
		}
	}
	return false, nil
}

// MarkProcessed appends the day to the marker file.
func (m *Marker) MarkProcessed(day string) error {
	if dir := filepath.Dir(m.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating marker directory: %w", err)
		}
	}

	f, err := os.OpenFile(m.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening marker file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(compactDay(day) + "\n"); err != nil {
		return fmt.Errorf("appending to marker file: %w", err)
	}
	return nil
}

func compactDay(day string) string {
	return strings.ReplaceAll(day, "-", "")
}
