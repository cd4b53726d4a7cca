package listing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/pdiddy/arxiv-daily/pkg/types"
)

const listingHTML = `<html><body>
<h3>New submissions (showing 3 of 3 entries) Showing new listings for Monday, 3 November 2025</h3>
<dl>
<dt>
  <a href="/abs/2511.00001" title="Abstract">arXiv:2511.00001</a>
  [<a href="/pdf/2511.00001" title="Download PDF">pdf</a>]
</dt>
<dd>
  <div class="list-title mathjax">Title: Elastic Training at
  Scale</div>
  <div class="list-authors"><a href="#">Alice Ang</a>, <a href="#">Bob Bos</a></div>
  <div class="list-subjects"><span class="descriptor">Subjects:</span>
    <a href="/search/?searchtype=subject&amp;query=cs.DC">Distributed Computing</a>;
    <a href="/search/?searchtype=subject&amp;query=cs.LG">Machine Learning</a>
  </div>
  <p class="mathjax">We study elastic training to accelerate convergence.</p>
</dd>
<dt>
  <a href="/abs/2511.00002">arXiv:2511.00002</a> (replaced)
  [<a href="/pdf/2511.00002">pdf</a>]
</dt>
<dd>
  <div class="list-title">Title: A Revised Paper</div>
  <div class="list-authors"><a href="#">Carol Cho</a></div>
  <div class="list-subjects">Machine Learning (cs.LG)</div>
  <p class="mathjax">Revision abstract.</p>
</dd>
<dt>
  <a href="/abs/2511.00003">arXiv:2511.00003</a>
</dt>
<dd>
  <div class="list-title">Title: Plain Text Subjects</div>
  <div class="list-authors"><a href="#">Dan Deo</a></div>
  <div class="list-subjects">Machine Learning (cs.LG); Optimization (math.OC)</div>
  <p class="mathjax">An abstract about reinforcement learning.</p>
</dd>
<dt>
  <a href="/abs/2511.00003">arXiv:2511.00003</a>
</dt>
<dd>
  <div class="list-title">Title: Duplicate Of Previous</div>
  <p class="mathjax">Duplicate.</p>
</dd>
</dl>
</body></html>`

func TestParseListing(t *testing.T) {
	got, err := Parse(strings.NewReader(listingHTML), nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if got.Date != "2025-11-03" {
		t.Errorf("date = %q, want 2025-11-03", got.Date)
	}
	if len(got.Entries) != 2 {
		t.Fatalf("entries = %d, want 2 (replaced and duplicate dropped)", len(got.Entries))
	}

	first := got.Entries[0]
	if first.ID != "http://arxiv.org/abs/2511.00001" {
		t.Errorf("id = %q", first.ID)
	}
	if first.ArxivID() != "2511.00001" {
		t.Errorf("arxiv id = %q", first.ArxivID())
	}
	if first.Title != "Elastic Training at Scale" {
		t.Errorf("title = %q", first.Title)
	}
	if first.PDFLink != "https://arxiv.org/pdf/2511.00001" {
		t.Errorf("pdf link = %q", first.PDFLink)
	}
	if len(first.Authors) != 2 || first.Authors[0] != "Alice Ang" || first.Authors[1] != "Bob Bos" {
		t.Errorf("authors = %v", first.Authors)
	}
	if len(first.Categories) != 2 || first.Categories[0] != "cs.DC" || first.Categories[1] != "cs.LG" {
		t.Errorf("categories = %v", first.Categories)
	}
	if first.Abstract != "We study elastic training to accelerate convergence." {
		t.Errorf("abstract = %q", first.Abstract)
	}

	// Falls back to parenthesized codes, non-cs codes excluded.
	second := got.Entries[1]
	if second.Title != "Plain Text Subjects" {
		t.Errorf("second title = %q", second.Title)
	}
	if len(second.Categories) != 1 || second.Categories[0] != "cs.LG" {
		t.Errorf("second categories = %v", second.Categories)
	}
	if second.PDFLink != "" {
		t.Errorf("second pdf link = %q, want empty", second.PDFLink)
	}
}

func TestParseListingIncludeFilter(t *testing.T) {
	got, err := Parse(strings.NewReader(listingHTML), []string{"cs.DC"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(got.Entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(got.Entries))
	}
	if got.Entries[0].ID != "http://arxiv.org/abs/2511.00001" {
		t.Errorf("id = %q", got.Entries[0].ID)
	}
}

func TestParseListingNoDate(t *testing.T) {
	got, err := Parse(strings.NewReader("<html><body><h3>Nothing here</h3></body></html>"), nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got.Date != "" {
		t.Errorf("date = %q, want empty", got.Date)
	}
	if len(got.Entries) != 0 {
		t.Errorf("entries = %d, want 0", len(got.Entries))
	}
}

func TestFetcherFetch(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte(listingHTML))
	}))
	defer server.Close()

	oldURL := listingURL
	listingURL = server.URL
	defer func() { listingURL = oldURL }()

	f := NewFetcher(types.ListingConfig{
		HTTPConfig: types.HTTPConfig{Timeout: 5 * time.Second, UserAgent: "arxiv-daily/1.0"},
	})
	got, err := f.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if gotUA != "arxiv-daily/1.0" {
		t.Errorf("user agent = %q", gotUA)
	}
	if len(got.Entries) != 2 || got.Date != "2025-11-03" {
		t.Errorf("listing = %+v", got)
	}
}

func TestFetcherFetchHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	oldURL := listingURL
	listingURL = server.URL
	defer func() { listingURL = oldURL }()

	f := NewFetcher(types.ListingConfig{})
	if _, err := f.Fetch(context.Background()); err == nil {
		t.Fatal("expected error on HTTP 503")
	}
}
