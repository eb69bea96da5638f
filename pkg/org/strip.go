package org

import (
	"regexp"
	"strings"
)

var (
	headlinePattern     = regexp.MustCompile(`(?m)^\*+\s+`)
	srcBlockPattern     = regexp.MustCompile(`(?is)#\+begin_src.*?#\+end_src`)
	quoteBlockPattern   = regexp.MustCompile(`(?is)#\+begin_quote.*?#\+end_quote`)
	exampleBlockPattern = regexp.MustCompile(`(?is)#\+begin_example.*?#\+end_example`)
	resultsPattern      = regexp.MustCompile(`#\+RESULTS:.*?\n`)
	orgLinkPattern      = regexp.MustCompile(`\[\[.*?\]\[?(.*?)\]?\]`)
	propBlockPattern    = regexp.MustCompile(`(?sm)^:PROPERTIES:.*?:END:\s*`)
	directivePattern    = regexp.MustCompile(`(?m)^#\+.*$`)
	roleMarkerPattern   = regexp.MustCompile(`@(user|assistant)\s*`)
	blankRunPattern     = regexp.MustCompile(`\n{3,}`)
)

// StripFormatting reduces org-mode text to plain content: headline stars,
// src/quote/example blocks, result and directive lines, property blocks and
// gptel role markers are removed, links collapse to their display text, and
// runs of blank lines shrink to a single one.
//
// This is a pure text transformation. Offsets recorded by the message
// extractor always refer to the input of this function, never its output.
func StripFormatting(text string) string {
	text = headlinePattern.ReplaceAllString(text, "")
	text = srcBlockPattern.ReplaceAllString(text, "")
	text = quoteBlockPattern.ReplaceAllString(text, "")
	text = exampleBlockPattern.ReplaceAllString(text, "")
	text = resultsPattern.ReplaceAllString(text, "")
	text = orgLinkPattern.ReplaceAllString(text, "${1}")
	text = propBlockPattern.ReplaceAllString(text, "")
	text = directivePattern.ReplaceAllString(text, "")
	text = roleMarkerPattern.ReplaceAllString(text, "")
	text = blankRunPattern.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
