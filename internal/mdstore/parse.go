// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package mdstore

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/pdiddy/arxiv-daily/pkg/types"
)

// The read-path grammar. These patterns are the de facto schema of the
// weekly files; FormatPaper must keep producing text they recover.
var (
	weekHeadingRe = regexp.MustCompile(`(?m)^#\s*([0-9\-]+)`)
	titleRe       = regexp.MustCompile(`(?m)^-\s+\*\*\[[^\]]+\]\s*(.*?)\*\*`)
	authorsRe     = regexp.MustCompile(`(?m)^\s+-\s+\*\*authors:\*\*\s*(.+)$`)
	linkRe        = regexp.MustCompile(`(?m)^\s+-\s+\*\*link:\*\*\s*(\S+)`)
	thumbnailRe   = regexp.MustCompile(`(?m)^\s+-\s+\*\*thumbnail:\*\*\s*(\S+)`)
	codeRe        = regexp.MustCompile(`(?m)^\s+-\s+\*\*code:\*\*\s*(\S+)`)
	institutionRe = regexp.MustCompile(`(?m)^\s+-\s+\*\*institution:\*\*\s*(.+)$`)
	tagsRe        = regexp.MustCompile(`(?m)^\s+-\s+\*\*tags:\*\*\s*(.+)$`)
	contribRe     = regexp.MustCompile(`(?m)^\s+-\s+\*\*contributions:\*\*\s*(.+)$`)
	summaryRe     = regexp.MustCompile(`(?m)^\s+-\s+\*\*Simple LLM Summary:\*\*\s*(.+)$`)
	mindmapRe     = regexp.MustCompile("(?m)^\\s+-\\s+\\*\\*Mindmap:\\*\\*\\s*\n\\s*```mermaid\n([\\s\\S]+?)\n\\s*```")
)

// ParseOptions controls view-specific read behavior.
type ParseOptions struct {
	// DropCategoryTag removes the first tag of each record (the implicit
	// category tag). The site JSON view sets this; the relational
	// migration keeps all tags.
	DropCategoryTag bool
}

// WeekContents is the structured content recovered from one weekly file.
type WeekContents struct {
	// Week is the range heading ("YYYYMMDD-YYYYMMDD"), or "" when absent.
	Week string

	// Items holds every recoverable record across the file's day sections,
	// in file order. Records without a link are dropped: they cannot be
	// keyed downstream.
	Items []types.PaperRecord
}

// ParseWeekFile reads and parses one weekly markdown file.
func ParseWeekFile(path string, opts ParseOptions) (WeekContents, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return WeekContents{}, fmt.Errorf("reading %s: %w", path, err)
	}
	return ParseWeek(string(data), opts), nil
}

// ParseWeek parses weekly file content into records.
func ParseWeek(content string, opts ParseOptions) WeekContents {
	var out WeekContents
	if m := weekHeadingRe.FindStringSubmatch(content); m != nil {
		out.Week = strings.TrimSpace(m[1])
	}

	headers := dayHeaderRe.FindAllStringSubmatchIndex(content, -1)
	for i, hm := range headers {
		day := content[hm[2]:hm[3]]
		start := hm[1]
		end := len(content)
		if i+1 < len(headers) {
			end = headers[i+1][0]
		}
		out.Items = append(out.Items, parseDaySection(content[start:end], day, opts)...)
	}
	return out
}

func parseDaySection(section, day string, opts ParseOptions) []types.PaperRecord {
	titles := titleRe.FindAllStringSubmatchIndex(section, -1)
	var items []types.PaperRecord
	for i, tm := range titles {
		title := strings.TrimSpace(section[tm[2]:tm[3]])
		entryStart := tm[1]
		entryEnd := len(section)
		if i+1 < len(titles) {
			entryEnd = titles[i+1][0]
		}
		entry := section[entryStart:entryEnd]

		link := firstGroup(linkRe, entry)
		if link == "" {
			continue
		}

		rec := types.PaperRecord{
			Title:         title,
			Authors:       firstGroup(authorsRe, entry),
			Institution:   firstGroup(institutionRe, entry),
			Link:          link,
			Code:          firstGroup(codeRe, entry),
			Day:           day,
			Thumbnail:     firstGroup(thumbnailRe, entry),
			Contributions: EscapeAngleDigits(firstGroup(contribRe, entry)),
			Summary:       EscapeAngleDigits(firstGroup(summaryRe, entry)),
			Tags:          flattenTags(firstGroup(tagsRe, entry), opts.DropCategoryTag),
		}
		if mm := firstGroup(mindmapRe, entry); mm != "" {
			// Straight quotes break downstream mermaid rendering.
			rec.Mindmap = strings.ReplaceAll(mm, `"`, "”")
		}
		items = append(items, rec)
	}
	return items
}

func firstGroup(re *regexp.Regexp, text string) string {
	if m := re.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// flattenTags turns the raw "[a], [b], [c, d]" field into a flat list,
// optionally dropping the leading category tag.
func flattenTags(raw string, dropFirst bool) []string {
	if raw == "" {
		return nil
	}
	cleaned := strings.NewReplacer("[", "", "]", "").Replace(raw)
	var tags []string
	for _, t := range strings.Split(cleaned, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	if dropFirst && len(tags) > 0 {
		tags = tags[1:]
	}
	return tags
}
