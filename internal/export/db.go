// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/arxiv-daily/internal/mdstore"
	"github.com/pdiddy/arxiv-daily/pkg/types"
)

// upsertBatchSize bounds one transaction's worth of records.
const upsertBatchSize = 50

// DB is the relational papers export.
type DB struct {
	db *sql.DB
}

// OpenDB opens or creates the papers database at path.
func OpenDB(path string) (*DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	d := &DB{db: db}
	if err := d.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return d, nil
}

// Close releases the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS papers (
			link TEXT PRIMARY KEY,
			category_slug TEXT NOT NULL,
			title TEXT NOT NULL,
			published_date TEXT,
			authors TEXT,
			institution TEXT,
			code_url TEXT,
			thumbnail_url TEXT,
			summary TEXT,
			contributions TEXT,
			mindmap TEXT,
			tags TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_papers_category ON papers(category_slug)`,
		`CREATE INDEX IF NOT EXISTS idx_papers_date ON papers(published_date)`,
	}
	for _, stmt := range statements {
		if _, err := d.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

const upsertSQL = `INSERT INTO papers
	(link, category_slug, title, published_date, authors, institution,
	 code_url, thumbnail_url, summary, contributions, mindmap, tags)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(link) DO UPDATE SET
	category_slug = excluded.category_slug,
	title = excluded.title,
	published_date = excluded.published_date,
	authors = excluded.authors,
	institution = excluded.institution,
	code_url = excluded.code_url,
	thumbnail_url = excluded.thumbnail_url,
	summary = excluded.summary,
	contributions = excluded.contributions,
	mindmap = excluded.mindmap,
	tags = excluded.tags`

// UpsertPapers writes the records for one category, batched into
// transactions. Records without a link are skipped; the link is the
// conflict key, so re-running a migration is idempotent. It returns the
// number of records written.
func (d *DB) UpsertPapers(ctx context.Context, categorySlug string, items []types.PaperRecord) (int, error) {
	written := 0
	for start := 0; start < len(items); start += upsertBatchSize {
		end := start + upsertBatchSize
		if end > len(items) {
			end = len(items)
		}
		n, err := d.upsertBatch(ctx, categorySlug, items[start:end])
		if err != nil {
			return written, err
		}
		written += n
	}
	return written, nil
}

func (d *DB) upsertBatch(ctx context.Context, categorySlug string, items []types.PaperRecord) (int, error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, upsertSQL)
	if err != nil {
		return 0, fmt.Errorf("preparing upsert: %w", err)
	}
	defer stmt.Close()

	written := 0
	for _, it := range items {
		if it.Link == "" {
			continue
		}
		tags, err := json.Marshal(it.Tags)
		if err != nil {
			return written, fmt.Errorf("encoding tags for %s: %w", it.Link, err)
		}
		_, err = stmt.ExecContext(ctx,
			it.Link, categorySlug, it.Title, it.Day, it.Authors, it.Institution,
			it.Code, it.Thumbnail, it.Summary, it.Contributions, it.Mindmap, string(tags))
		if err != nil {
			return written, fmt.Errorf("upserting %s: %w", it.Link, err)
		}
		written++
	}

	if err := tx.Commit(); err != nil {
		return written, fmt.Errorf("committing batch: %w", err)
	}
	return written, nil
}

// CountPapers returns the number of rows in the papers table.
func (d *DB) CountPapers(ctx context.Context) (int, error) {
	var n int
	if err := d.db.QueryRowContext(ctx, `SELECT count(*) FROM papers`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting papers: %w", err)
	}
	return n, nil
}

// Migrate walks every category directory under cfg.DocsDir and upserts all
// weekly files into the database at cfg.DBPath. Unlike the windowed site
// export it covers the full history, and it keeps the complete tag list
// including the leading category tag.
func Migrate(ctx context.Context, cfg types.ExportConfig, w io.Writer) error {
	d, err := OpenDB(cfg.DBPath)
	if err != nil {
		return err
	}
	defer d.Close()

	entries, err := os.ReadDir(cfg.DocsDir)
	if err != nil {
		return fmt.Errorf("reading docs directory: %w", err)
	}

	total := 0
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(cfg.DocsDir, entry.Name())
		files, err := os.ReadDir(dir)
		if err != nil {
			return fmt.Errorf("reading category directory %s: %w", entry.Name(), err)
		}
		for _, f := range files {
			if weekFileRe.FindStringSubmatch(f.Name()) == nil {
				continue
			}
			path := filepath.Join(dir, f.Name())
			parsed, err := mdstore.ParseWeekFile(path, mdstore.ParseOptions{})
			if err != nil {
				fmt.Fprintf(w, "skipping %s: %v\n", path, err)
				continue
			}
			n, err := d.UpsertPapers(ctx, entry.Name(), parsed.Items)
			if err != nil {
				return fmt.Errorf("migrating %s: %w", path, err)
			}
			fmt.Fprintf(w, "%s / %s: %d papers\n", entry.Name(), f.Name(), n)
			total += n
		}
	}

	fmt.Fprintf(w, "migrated %d papers to %s\n", total, cfg.DBPath)
	return nil
}
