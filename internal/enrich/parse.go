// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package enrich

import (
	"strings"

	"github.com/pdiddy/arxiv-daily/pkg/types"
)

// ParseReply recovers structured fields from the model's free-text reply.
//
// The reply grammar is "key: value" lines with case-insensitive keys, plus
// one fenced mermaid block. Multi-line contributions/summary values
// accumulate across subsequent non-key lines with single-space joins.
// Mermaid body lines keep their original indentation; everything else is
// trimmed. Missing keys yield empty fields.
func ParseReply(reply string) types.Enrichment {
	var e types.Enrichment
	var tag3 string
	var mermaidLines []string

	// Accumulating state: which multi-line field absorbs bare lines.
	current := ""
	readingMermaid := false

	for _, raw := range strings.Split(reply, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" && !readingMermaid {
			continue
		}
		lower := strings.ToLower(line)

		switch {
		case strings.HasPrefix(lower, "tag1:"):
			e.Tag1 = valueAfterColon(line)
			current = "tag1"
		case strings.HasPrefix(lower, "tag2:"):
			e.Tag2 = valueAfterColon(line)
			current = "tag2"
		case strings.HasPrefix(lower, "tag3:"):
			tag3 = valueAfterColon(line)
			current = "tag3"
		case strings.HasPrefix(lower, "institution:"):
			e.Institution = valueAfterColon(line)
			current = "institution"
		case strings.HasPrefix(lower, "code:"):
			e.Code = valueAfterColon(line)
			current = "code"
		case strings.HasPrefix(lower, "contributions:"):
			e.Contributions = valueAfterColon(line)
			current = "contributions"
		case strings.HasPrefix(lower, "summary:") || strings.HasPrefix(lower, "llm_summary:"):
			e.Summary = valueAfterColon(line)
			current = "summary"
		case strings.HasPrefix(lower, "mermaid:"):
			current = "mermaid"
		case strings.HasPrefix(line, "```mermaid"):
			readingMermaid = true
			current = "mermaid-body"
		case strings.HasPrefix(line, "```") && readingMermaid:
			readingMermaid = false
			current = ""
		default:
			switch {
			case readingMermaid:
				mermaidLines = append(mermaidLines, raw)
			case current == "contributions":
				e.Contributions += " " + line
			case current == "summary":
				e.Summary += " " + line
			}
		}
	}

	if len(mermaidLines) > 0 {
		e.Mermaid = strings.Join(mermaidLines, "\n")
	}

	e.Tag1 = stripWrapper(e.Tag1)
	e.Tag2 = stripWrapper(e.Tag2)
	e.Institution = stripWrapper(e.Institution)
	e.Code = stripWrapper(e.Code)
	e.Contributions = stripWrapper(e.Contributions)
	e.Summary = stripWrapper(e.Summary)

	for _, t := range strings.Split(stripWrapper(tag3), ",") {
		if t = strings.TrimSpace(t); t != "" {
			e.Tag3 = append(e.Tag3, t)
		}
	}
	return e
}

func valueAfterColon(line string) string {
	_, v, _ := strings.Cut(line, ":")
	return strings.TrimSpace(v)
}

// stripWrapper removes one matching angle-bracket pair wrapping an entire
// value. Models occasionally echo the prompt's "<tag1>" placeholders
// around real answers; a bracket pair that closes before the end of the
// value is real content and stays.
func stripWrapper(v string) string {
	if len(v) < 2 || v[0] != '<' || v[len(v)-1] != '>' {
		return v
	}
	depth := 0
	for i := 0; i < len(v); i++ {
		switch v[i] {
		case '<':
			depth++
		case '>':
			depth--
			if depth == 0 && i != len(v)-1 {
				return v
			}
		}
	}
	if depth != 0 {
		return v
	}
	return strings.TrimSpace(v[1 : len(v)-1])
}
