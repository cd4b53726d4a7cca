package pipeline

import (
	"os"
	"path/filepath"
	"testing"
)

func TestMarkerRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arxiv_date.txt")
	m := NewMarker(path)

	done, err := m.WasProcessed("2025-11-03")
	if err != nil {
		t.Fatalf("WasProcessed: %v", err)
	}
	if done {
		t.Error("fresh marker should not report processed")
	}

	if err := m.MarkProcessed("2025-11-03"); err != nil {
		t.Fatalf("MarkProcessed: %v", err)
	}

	done, err = m.WasProcessed("2025-11-03")
	if err != nil {
		t.Fatalf("WasProcessed: %v", err)
	}
	if !done {
		t.Error("marked date should report processed")
	}

	done, err = m.WasProcessed("2025-11-04")
	if err != nil {
		t.Fatalf("WasProcessed: %v", err)
	}
	if done {
		t.Error("unmarked date reported processed")
	}
}

func TestMarkerAppendsCompactDates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arxiv_date.txt")
	m := NewMarker(path)

	for _, day := range []string{"2025-11-03", "2025-11-04"} {
		if err := m.MarkProcessed(day); err != nil {
			t.Fatalf("MarkProcessed(%s): %v", day, err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading marker: %v", err)
	}
	if string(data) != "20251103\n20251104\n" {
		t.Errorf("marker content = %q", data)
	}
}

func TestMarkerCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "arxiv_date.txt")
	m := NewMarker(path)

	if err := m.MarkProcessed("2025-11-03"); err != nil {
		t.Fatalf("MarkProcessed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("marker file missing: %v", err)
	}
}
