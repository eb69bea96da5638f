package org

import (
	"regexp"
	"strings"
)

var (
	mdHeadingPattern  = regexp.MustCompile(`^(#{1,6})\s+(.*)`)
	inlineCodePattern = regexp.MustCompile("`([^`]+)`")
	boldPattern       = regexp.MustCompile(`\*\*(.+?)\*\*`)
	imagePattern      = regexp.MustCompile(`!\[([^\]]*)\]\(([^)]+)\)`)
	mdLinkPattern     = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
	lineStarPattern   = regexp.MustCompile(`(?m)^\* `)
)

// MarkdownToOrg converts markdown-formatted text to org-mode markup.
//
// Fenced code blocks become src blocks (keeping the language tag) with their
// body untouched. Outside fences, headings nest three levels below the
// response headline, inline code becomes ~code~, bold collapses to org
// emphasis, and image/link syntax becomes the double-bracket org form.
func MarkdownToOrg(text string) string {
	lines := strings.Split(text, "\n")
	result := make([]string, 0, len(lines))
	inCodeBlock := false

	for _, line := range lines {
		stripped := strings.TrimSpace(line)
		if strings.HasPrefix(stripped, "```") {
			if inCodeBlock {
				result = append(result, "#+end_src")
				inCodeBlock = false
			} else {
				if lang := strings.TrimSpace(stripped[3:]); lang != "" {
					result = append(result, "#+begin_src "+lang)
				} else {
					result = append(result, "#+begin_src")
				}
				inCodeBlock = true
			}
			continue
		}

		if inCodeBlock {
			result = append(result, line)
			continue
		}

		if m := mdHeadingPattern.FindStringSubmatch(line); m != nil {
			result = append(result, strings.Repeat("*", len(m[1])+3)+" "+m[2])
			continue
		}

		line = inlineCodePattern.ReplaceAllString(line, "~${1}~")
		line = boldPattern.ReplaceAllString(line, "*${1}*")
		// Images before links: the link pattern would otherwise eat the
		// bracketed alt text and leave the leading bang behind.
		line = imagePattern.ReplaceAllString(line, "[[${2}]]")
		line = mdLinkPattern.ReplaceAllString(line, "[[${2}][${1}]]")

		result = append(result, line)
	}

	return strings.Join(result, "\n")
}

// EscapeHeadlines rewrites "* " at line starts to "- " so imported message
// content cannot introduce stray org headlines.
func EscapeHeadlines(text string) string {
	return lineStarPattern.ReplaceAllString(text, "- ")
}
