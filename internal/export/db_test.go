package export

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"testing"

	"github.com/pdiddy/arxiv-daily/pkg/types"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	d, err := OpenDB(filepath.Join(t.TempDir(), "papers.db"))
	if err != nil {
		t.Fatalf("OpenDB: %v", err)
	}
	t.Cleanup(func() { d.Close() })
	return d
}

func TestUpsertPapersIdempotent(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()

	items := []types.PaperRecord{
		{Link: "https://arxiv.org/pdf/1", Title: "First", Day: "2025-08-04", Tags: []string{"cs.DC", "mlsys"}},
		{Link: "https://arxiv.org/pdf/2", Title: "Second", Day: "2025-08-04"},
	}
	n, err := d.UpsertPapers(ctx, "cs_DC", items)
	if err != nil {
		t.Fatalf("UpsertPapers: %v", err)
	}
	if n != 2 {
		t.Errorf("written = %d, want 2", n)
	}

	// Re-running with an updated record keeps one row per link.
	items[0].Title = "First, revised"
	if _, err := d.UpsertPapers(ctx, "cs_DC", items); err != nil {
		t.Fatalf("second UpsertPapers: %v", err)
	}

	count, err := d.CountPapers(ctx)
	if err != nil {
		t.Fatalf("CountPapers: %v", err)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}

	var title, tags string
	err = d.db.QueryRow(`SELECT title, tags FROM papers WHERE link = ?`, "https://arxiv.org/pdf/1").
		Scan(&title, &tags)
	if err != nil {
		t.Fatalf("querying row: %v", err)
	}
	if title != "First, revised" {
		t.Errorf("title = %q", title)
	}
	if tags != `["cs.DC","mlsys"]` {
		t.Errorf("tags = %q", tags)
	}
}

func TestUpsertPapersSkipsLinkless(t *testing.T) {
	d := openTestDB(t)

	n, err := d.UpsertPapers(context.Background(), "cs_DC", []types.PaperRecord{
		{Title: "No Link", Day: "2025-08-04"},
		{Link: "https://arxiv.org/pdf/3", Title: "Has Link", Day: "2025-08-04"},
	})
	if err != nil {
		t.Fatalf("UpsertPapers: %v", err)
	}
	if n != 1 {
		t.Errorf("written = %d, want 1", n)
	}
}

func TestUpsertPapersBatches(t *testing.T) {
	d := openTestDB(t)

	var items []types.PaperRecord
	for i := 0; i < 120; i++ {
		items = append(items, types.PaperRecord{
			Link:  fmt.Sprintf("https://arxiv.org/pdf/%d", i),
			Title: fmt.Sprintf("Paper %d", i),
			Day:   "2025-08-04",
		})
	}
	n, err := d.UpsertPapers(context.Background(), "cs_DC", items)
	if err != nil {
		t.Fatalf("UpsertPapers: %v", err)
	}
	if n != 120 {
		t.Errorf("written = %d, want 120", n)
	}

	count, err := d.CountPapers(context.Background())
	if err != nil {
		t.Fatalf("CountPapers: %v", err)
	}
	if count != 120 {
		t.Errorf("count = %d, want 120", count)
	}
}

func TestMigrate(t *testing.T) {
	docs := writeFixtureTree(t)
	cfg := types.ExportConfig{
		DocsDir: docs,
		DBPath:  filepath.Join(t.TempDir(), "papers.db"),
	}

	if err := Migrate(context.Background(), cfg, io.Discard); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	d, err := OpenDB(cfg.DBPath)
	if err != nil {
		t.Fatalf("OpenDB: %v", err)
	}
	defer d.Close()

	// All weeks migrate regardless of the site window.
	count, err := d.CountPapers(context.Background())
	if err != nil {
		t.Fatalf("CountPapers: %v", err)
	}
	if count != 3 {
		t.Errorf("count = %d, want 3", count)
	}

	// The full tag list survives, category tag included.
	var tags, slug string
	err = d.db.QueryRow(`SELECT tags, category_slug FROM papers WHERE link = ?`,
		"https://arxiv.org/pdf/2508.00001").Scan(&tags, &slug)
	if err != nil {
		t.Fatalf("querying row: %v", err)
	}
	if tags != `["cs.DC","mlsys","llm training","LoRA"]` {
		t.Errorf("tags = %q", tags)
	}
	if slug != "cs_DC" {
		t.Errorf("category_slug = %q", slug)
	}
}
