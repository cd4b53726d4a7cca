package mdstore

import (
	"strings"
	"testing"
)

func fullPaper() Paper {
	return Paper{
		Title:         "FlashServe: Fast LLM Inference",
		Authors:       []string{"A. Author", "B. Builder"},
		Abstract:      "We accelerate inference.",
		PDFLink:       "https://arxiv.org/pdf/2401.00001",
		Categories:    []string{"cs.DC"},
		Tag1:          "mlsys",
		Tag2:          "llm inference",
		Tag3:          []string{"KV cache", "paging"},
		Institution:   "Example University",
		Code:          "https://github.com/example/flashserve",
		Contributions: "1. A scheduler. 2. A cache. 3. An eval.",
		Summary:       "Serves LLMs faster.",
		Mermaid:       "graph LR\nA[Paper] --> B[Method]",
		Thumbnail:     "https://cdn.example.com/thumbnails/abc.png",
	}
}

func TestFormatPaperFull(t *testing.T) {
	got := FormatPaper(fullPaper(), "2024-01-02")
	want := "- **[arXiv240102] FlashServe: Fast LLM Inference**\n" +
		"  - **tags:** [mlsys], [llm inference], [KV cache, paging]\n" +
		"  - **authors:** A. Author, B. Builder\n" +
		"  - **institution:** Example University\n" +
		"  - **link:** https://arxiv.org/pdf/2401.00001\n" +
		"  - **code:** https://github.com/example/flashserve\n" +
		"  - **contributions:** 1. A scheduler. 2. A cache. 3. An eval.\n" +
		"  - **thumbnail:** https://cdn.example.com/thumbnails/abc.png\n" +
		"  - **Simple LLM Summary:** Serves LLMs faster.\n" +
		"  - **Mindmap:**\n" +
		"\n" +
		"    ```mermaid\n" +
		"    graph LR\n" +
		"    A[Paper] --> B[Method]\n" +
		"    ```\n" +
		"\n"
	if got != want {
		t.Errorf("FormatPaper mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestFormatPaperOmitsEmptyOptionals(t *testing.T) {
	p := fullPaper()
	p.Code = "None"
	p.Contributions = ""
	p.Thumbnail = ""
	p.Summary = "   "
	p.Mermaid = ""

	got := FormatPaper(p, "2024-01-02")
	for _, field := range []string{"**code:**", "**contributions:**", "**thumbnail:**", "**Simple LLM Summary:**", "**Mindmap:**"} {
		if strings.Contains(got, field) {
			t.Errorf("expected %s to be omitted, got:\n%s", field, got)
		}
	}
}

func TestFormatPaperEscapes(t *testing.T) {
	p := fullPaper()
	p.Title = `\textbf{Fast} Math {x}`
	p.Summary = "error <0.5 on {hard} sets"
	got := FormatPaper(p, "2024-01-02")

	if !strings.Contains(got, `- **[arXiv240102] **Fast** Math \{x\}**`+"\n") {
		t.Errorf("title not cleaned/escaped:\n%s", got)
	}
	if !strings.Contains(got, `  - **Simple LLM Summary:** error &lt;0.5 on \{hard\} sets`+"\n") {
		t.Errorf("summary not escaped:\n%s", got)
	}
}

func TestFormatPaperNoTags(t *testing.T) {
	p := fullPaper()
	p.Tag1, p.Tag2, p.Tag3 = "", "", nil
	if got := FormatPaper(p, "2024-01-02"); !strings.Contains(got, "  - **tags:** TBD\n") {
		t.Errorf("expected TBD tags, got:\n%s", got)
	}
}
