// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package mdstore

import (
	"regexp"
	"strings"
)

// LaTeX commands with a Markdown/HTML equivalent. Applied before the
// generic command stripper so the intended styling survives.
var latexRules = []struct {
	re   *regexp.Regexp
	repl string
}{
	{regexp.MustCompile(`\\textit\{([^}]+)\}`), `*$1*`},
	{regexp.MustCompile(`\\textbf\{([^}]+)\}`), `**$1**`},
	{regexp.MustCompile(`\\texttt\{([^}]+)\}`), "`$1`"},
	{regexp.MustCompile(`\\emph\{([^}]+)\}`), `*$1*`},
	{regexp.MustCompile(`\\text\{([^}]+)\}`), `$1`},
	{regexp.MustCompile(`\\textsc\{([^}]+)\}`), `$1`},
	{regexp.MustCompile(`\\underline\{([^}]+)\}`), `<u>$1</u>`},
	{regexp.MustCompile(`\\uline\{([^}]+)\}`), `<u>$1</u>`},
	{regexp.MustCompile(`\\uuline\{([^}]+)\}`), `<u>$1</u>`},
	{regexp.MustCompile(`\\uwave\{([^}]+)\}`), `<u>$1</u>`},
	{regexp.MustCompile(`\\sout\{([^}]+)\}`), `~~$1~~`},
}

var (
	genericCommandRe = regexp.MustCompile(`\\[a-zA-Z]+\{([^}]+)\}`)
	bareCommandRe    = regexp.MustCompile(`\\[a-zA-Z]+\{?`)
	angleDigitRe     = regexp.MustCompile(`<(\d)`)
)

// CleanLaTeX converts LaTeX markup in a title to Markdown/HTML so MDX
// never sees a stray backslash command. Unknown \cmd{content} keeps its
// content; bare \cmd disappears.
func CleanLaTeX(title string) string {
	if title == "" {
		return title
	}
	for _, r := range latexRules {
		title = r.re.ReplaceAllString(title, r.repl)
	}
	title = genericCommandRe.ReplaceAllString(title, `$1`)
	// A trailing "{" means the command has an (unclosed) argument; leave
	// those alone, matching the lookahead in the original cleaner.
	title = bareCommandRe.ReplaceAllStringFunc(title, func(m string) string {
		if strings.HasSuffix(m, "{") {
			return m
		}
		return ""
	})
	return title
}

// EscapeMDX escapes the braces MDX would read as JSX expressions.
func EscapeMDX(text string) string {
	if text == "" {
		return text
	}
	return strings.ReplaceAll(strings.ReplaceAll(text, "{", `\{`), "}", `\}`)
}

// EscapeSummary escapes a summary for embedding in MDX: angle brackets
// become entities and braces are backslash-escaped.
func EscapeSummary(text string) string {
	text = strings.ReplaceAll(text, "<", "&lt;")
	text = strings.ReplaceAll(text, ">", "&gt;")
	return EscapeMDX(text)
}

// EscapeAngleDigits rewrites "<" followed by a digit (e.g. "<0.5") to its
// entity form. The read path applies this to recovered contributions and
// summaries so re-exported text stays MDX-safe.
func EscapeAngleDigits(text string) string {
	if text == "" {
		return text
	}
	return angleDigitRe.ReplaceAllString(text, `&lt;$1`)
}
