package figure

import (
	"strings"
	"testing"
)

// mockExecutor records calls and returns canned output per subcommand.
type mockExecutor struct {
	calls    [][]string
	geometry string
	render   []byte
}

func (m *mockExecutor) Run(name string, args ...string) ([]byte, error) {
	call := append([]string{name}, args...)
	m.calls = append(m.calls, call)
	if len(args) > 0 && args[0] == "geometry" {
		return []byte(m.geometry), nil
	}
	return m.render, nil
}

const geometryJSON = `{
  "pages": [
    {
      "bounds": {"x0": 0, "y0": 0, "x1": 612, "y1": 792},
      "blocks": [
        {"x0": 50, "y0": 700, "x1": 550, "y1": 720, "text": "Figure 1: Overview."}
      ],
      "images": [
        {"x0": 100, "y0": 400, "x1": 500, "y1": 690, "pixel_width": 1280, "pixel_height": 960}
      ],
      "drawings": [
        {"x0": 90, "y0": 380, "x1": 510, "y1": 395}
      ]
    }
  ]
}`

func TestHelperDocumentGeometry(t *testing.T) {
	ex := &mockExecutor{geometry: geometryJSON}
	doc, err := openHelper("pdf-helper", "/tmp/paper.pdf", ex)
	if err != nil {
		t.Fatalf("openHelper: %v", err)
	}

	if doc.NumPages() != 1 {
		t.Fatalf("pages = %d", doc.NumPages())
	}
	if b := doc.PageBounds(0); b.X1 != 612 || b.Y1 != 792 {
		t.Errorf("bounds = %+v", b)
	}

	blocks, err := doc.TextBlocks(0)
	if err != nil || len(blocks) != 1 || blocks[0].Text != "Figure 1: Overview." {
		t.Errorf("blocks = %v, err = %v", blocks, err)
	}
	images, err := doc.Images(0)
	if err != nil || len(images) != 1 || images[0].PixelWidth != 1280 {
		t.Errorf("images = %v, err = %v", images, err)
	}
	drawings, err := doc.Drawings(0)
	if err != nil || len(drawings) != 1 {
		t.Errorf("drawings = %v, err = %v", drawings, err)
	}

	if _, err := doc.TextBlocks(3); err == nil {
		t.Error("expected error for out-of-range page")
	}
}

func TestHelperDocumentRender(t *testing.T) {
	ex := &mockExecutor{geometry: geometryJSON, render: []byte("png-bytes")}
	doc, err := openHelper("pdf-helper", "/tmp/paper.pdf", ex)
	if err != nil {
		t.Fatalf("openHelper: %v", err)
	}

	data, ext, err := doc.RenderRegion(0, Rect{X0: 85, Y0: 375, X1: 515, Y1: 702}, 640)
	if err != nil {
		t.Fatalf("RenderRegion: %v", err)
	}
	if string(data) != "png-bytes" || ext != "png" {
		t.Errorf("data = %q, ext = %q", data, ext)
	}

	last := ex.calls[len(ex.calls)-1]
	want := "pdf-helper render /tmp/paper.pdf --page 0 --width 640 --clip 85.00,375.00,515.00,702.00"
	if got := strings.Join(last, " "); got != want {
		t.Errorf("call = %q, want %q", got, want)
	}

	if _, _, err := doc.RenderPage(0, 640); err != nil {
		t.Fatalf("RenderPage: %v", err)
	}
	last = ex.calls[len(ex.calls)-1]
	if got := strings.Join(last, " "); got != "pdf-helper render /tmp/paper.pdf --page 0 --width 640" {
		t.Errorf("call = %q", got)
	}
}

func TestHelperDocumentBadGeometry(t *testing.T) {
	ex := &mockExecutor{geometry: "not json"}
	if _, err := openHelper("pdf-helper", "/tmp/paper.pdf", ex); err == nil {
		t.Fatal("expected error for malformed geometry output")
	}
}
