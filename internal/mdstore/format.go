// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package mdstore

import (
	"fmt"
	"strings"
)

// Paper is one enriched paper as handed to the write path. Fields are raw;
// cleaning and escaping happen at render time.
type Paper struct {
	Title         string
	Authors       []string
	Abstract      string
	PDFLink       string
	Categories    []string
	Tag1          string
	Tag2          string
	Tag3          []string
	Institution   string
	Code          string
	Contributions string
	Summary       string
	Mermaid       string
	Thumbnail     string
}

// HasCategory reports whether the paper carries the given subject code.
func (p Paper) HasCategory(cat string) bool {
	for _, c := range p.Categories {
		if c == cat {
			return true
		}
	}
	return false
}

// tagGroups renders "[tag1], [tag2], [t3a, t3b]" with MDX escaping, or
// "TBD" when no tags exist.
func tagGroups(p Paper) string {
	var groups []string
	if p.Tag1 != "" {
		groups = append(groups, "["+EscapeMDX(p.Tag1)+"]")
	}
	if p.Tag2 != "" {
		groups = append(groups, "["+EscapeMDX(p.Tag2)+"]")
	}
	var kws []string
	for _, t := range p.Tag3 {
		if t = strings.TrimSpace(t); t != "" {
			kws = append(kws, EscapeMDX(t))
		}
	}
	if len(kws) > 0 {
		groups = append(groups, "["+strings.Join(kws, ", ")+"]")
	}
	if len(groups) == 0 {
		return "TBD"
	}
	return strings.Join(groups, ", ")
}

// FormatPaper renders one record block. The layout is load-bearing: the
// read path and the downstream site recover fields from exactly this shape.
func FormatPaper(p Paper, day string) string {
	title := EscapeMDX(CleanLaTeX(p.Title))
	authors := EscapeMDX(strings.Join(p.Authors, ", "))
	institution := EscapeMDX(p.Institution)

	var b strings.Builder
	fmt.Fprintf(&b, "- **%s %s**\n", ArxivPrefix(day), title)
	fmt.Fprintf(&b, "  - **tags:** %s\n", tagGroups(p))
	fmt.Fprintf(&b, "  - **authors:** %s\n", authors)
	fmt.Fprintf(&b, "  - **institution:** %s\n", institution)
	fmt.Fprintf(&b, "  - **link:** %s\n", p.PDFLink)

	if p.Code != "" && !strings.EqualFold(p.Code, "none") {
		fmt.Fprintf(&b, "  - **code:** %s\n", EscapeMDX(p.Code))
	}
	if p.Contributions != "" {
		fmt.Fprintf(&b, "  - **contributions:** %s\n", EscapeMDX(p.Contributions))
	}
	if p.Thumbnail != "" {
		fmt.Fprintf(&b, "  - **thumbnail:** %s\n", p.Thumbnail)
	}
	if s := strings.TrimSpace(p.Summary); s != "" {
		fmt.Fprintf(&b, "  - **Simple LLM Summary:** %s\n", EscapeSummary(s))
	}
	if p.Mermaid != "" {
		b.WriteString("  - **Mindmap:**\n\n")
		b.WriteString("    ```mermaid\n")
		for _, line := range strings.Split(p.Mermaid, "\n") {
			b.WriteString("    " + line + "\n")
		}
		b.WriteString("    ```\n")
	}
	b.WriteString("\n")
	return b.String()
}
