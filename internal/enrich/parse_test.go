package enrich

import (
	"strings"
	"testing"
)

const fullReply = `tag1: mlsys
tag2: llm inference
tag3: FlashAttention, LoRA, Ring-AllReduce
institution: Example University
code: https://github.com/example/proj
contributions: 1. A new scheduler.
2. A cache design.
3. An evaluation suite.
summary: The paper proposes a serving system.
It reduces latency by half.
mermaid:
` + "```mermaid" + `
graph LR
    A[论文/Paper] --> B[方法/Method]
    B --> C[结果/Results]
` + "```" + `
`

func TestParseReplyFull(t *testing.T) {
	e := ParseReply(fullReply)

	if e.Tag1 != "mlsys" {
		t.Errorf("tag1 = %q", e.Tag1)
	}
	if e.Tag2 != "llm inference" {
		t.Errorf("tag2 = %q", e.Tag2)
	}
	wantTags := []string{"FlashAttention", "LoRA", "Ring-AllReduce"}
	if len(e.Tag3) != len(wantTags) {
		t.Fatalf("tag3 = %v", e.Tag3)
	}
	for i := range wantTags {
		if e.Tag3[i] != wantTags[i] {
			t.Errorf("tag3[%d] = %q, want %q", i, e.Tag3[i], wantTags[i])
		}
	}
	if e.Institution != "Example University" {
		t.Errorf("institution = %q", e.Institution)
	}
	if e.Code != "https://github.com/example/proj" {
		t.Errorf("code = %q", e.Code)
	}
	if e.Contributions != "1. A new scheduler. 2. A cache design. 3. An evaluation suite." {
		t.Errorf("contributions = %q", e.Contributions)
	}
	if e.Summary != "The paper proposes a serving system. It reduces latency by half." {
		t.Errorf("summary = %q", e.Summary)
	}
	wantMermaid := "graph LR\n    A[论文/Paper] --> B[方法/Method]\n    B --> C[结果/Results]"
	if e.Mermaid != wantMermaid {
		t.Errorf("mermaid = %q, want %q", e.Mermaid, wantMermaid)
	}
}

func TestParseReplyMissingKeys(t *testing.T) {
	e := ParseReply("tag1: ai\nsummary: Just a summary.")
	if e.Code != "" || e.Institution != "" || e.Contributions != "" || e.Mermaid != "" {
		t.Errorf("missing keys should yield empty fields: %+v", e)
	}
	if len(e.Tag3) != 0 {
		t.Errorf("tag3 = %v", e.Tag3)
	}
	if e.Tag1 != "ai" || e.Summary != "Just a summary." {
		t.Errorf("present keys lost: %+v", e)
	}
}

func TestParseReplyCaseInsensitiveKeys(t *testing.T) {
	lower := ParseReply("tag1: ai\ntag2: planning\ninstitution: MIT")
	mixed := ParseReply("TAG1: ai\nTag2: planning\nINSTITUTION: MIT")
	if lower.Tag1 != mixed.Tag1 || lower.Tag2 != mixed.Tag2 || lower.Institution != mixed.Institution {
		t.Errorf("mixed-case keys parsed differently:\nlower: %+v\nmixed: %+v", lower, mixed)
	}
}

func TestParseReplyMultilineAccumulation(t *testing.T) {
	reply := "contributions: first part\n   second part   \n\nthird part\ntag1: ai"
	e := ParseReply(reply)
	if e.Contributions != "first part second part third part" {
		t.Errorf("contributions = %q", e.Contributions)
	}
	if e.Tag1 != "ai" {
		t.Errorf("tag1 = %q", e.Tag1)
	}
}

func TestParseReplyMermaidPreservesIndentation(t *testing.T) {
	reply := "mermaid:\n```mermaid\ngraph LR\n        Deep[X] --> Y\n```"
	e := ParseReply(reply)
	if !strings.Contains(e.Mermaid, "\n        Deep[X] --> Y") {
		t.Errorf("indentation lost: %q", e.Mermaid)
	}
}

func TestParseReplyEmptyReply(t *testing.T) {
	e := ParseReply("")
	if e.Tag1 != "" || e.Summary != "" || len(e.Tag3) != 0 {
		t.Errorf("empty reply should yield zero enrichment: %+v", e)
	}
}

func TestStripWrapper(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"placeholder echo", "<Example University>", "Example University"},
		{"no brackets", "Example University", "Example University"},
		{"pair closes early", "<u>styled</u> rest", "<u>styled</u> rest"},
		{"unbalanced", "<unclosed", "<unclosed"},
		{"nested pair", "<<inner>>", "<inner>"},
		{"empty", "", ""},
		{"lone angle", "<", "<"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stripWrapper(tt.in); got != tt.want {
				t.Errorf("stripWrapper(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseReplyStripsPlaceholderWrappers(t *testing.T) {
	e := ParseReply("tag1: <mlsys>\ncode: <None>\nsummary: <A summary sentence.>")
	if e.Tag1 != "mlsys" || e.Code != "None" || e.Summary != "A summary sentence." {
		t.Errorf("wrappers not stripped: %+v", e)
	}
}
