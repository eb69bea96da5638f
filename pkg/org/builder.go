package org

import (
	"strings"

	"github.com/quietloop/dailies/pkg/types"
)

// DraftMessage is a role-tagged message awaiting serialization. Assistant
// content is markdown and is rendered to org markup during the build; user
// content is emitted as-is.
type DraftMessage struct {
	Role    types.MessageRole
	Content string
}

// DraftConversation groups draft messages under one top-level headline.
type DraftConversation struct {
	Topic    string
	Messages []DraftMessage
}

const (
	headingDisplayLimit = 60

	// The bounds string usually stabilizes on the second pass; extra digits
	// introduced by the shift can add at most a couple more.
	maxBoundsIterations = 10
)

// BuildDocument serializes conversations into an annotated org document.
//
// The document body carries one top-level headline per conversation with a
// GPTEL_TOPIC property. User messages become second-level headlines titled by
// their first line; assistant messages sit under a "*** Response" headline
// with their markdown rendered to org, and their body-relative offsets are
// recorded as they are written.
//
// The file-level GPTEL_BOUNDS header precedes the body, which makes the
// encoded offsets depend on the length of the header that encodes them. The
// header is resolved by fixed-point iteration: re-encode with the current
// header length (shifting to 1-based buffer positions) until the string
// stops changing, bounded by maxBoundsIterations.
//
// The second return value reports convergence. Non-convergence is not fatal;
// the last computed header is used. Documents without assistant messages get
// no header at all.
func BuildDocument(conversations []DraftConversation) (string, bool) {
	var body strings.Builder
	var bounds []Bound

	for _, conv := range conversations {
		body.WriteString("* " + conv.Topic + "\n")
		body.WriteString(":PROPERTIES:\n")
		body.WriteString(":GPTEL_TOPIC: " + conv.Topic + "\n")
		body.WriteString(":END:\n\n")

		for _, msg := range conv.Messages {
			if msg.Role != types.RoleAssistant {
				body.WriteString("** " + truncateHeading(firstLine(msg.Content)) + "\n")
				body.WriteString(msg.Content + "\n\n")
				continue
			}

			body.WriteString("*** Response\n")
			content := MarkdownToOrg(msg.Content)
			start := body.Len()
			body.WriteString(content)
			bounds = append(bounds, Bound{Start: start, End: body.Len()})
			body.WriteString("\n\n")
		}
	}

	if len(bounds) == 0 {
		return body.String(), true
	}

	encoded := EncodeBounds(nil)
	converged := false
	for i := 0; i < maxBoundsIterations; i++ {
		offset := len(headerBlock(encoded))
		shifted := make([]Bound, len(bounds))
		for j, b := range bounds {
			// Body-relative 0-based to absolute 1-based buffer positions.
			shifted[j] = Bound{Start: b.Start + offset + 1, End: b.End + offset + 1}
		}
		next := EncodeBounds(shifted)
		if next == encoded {
			converged = true
			break
		}
		encoded = next
	}

	return headerBlock(encoded) + body.String(), converged
}

// headerBlock renders the file-level properties block for an encoded bounds
// string.
func headerBlock(encoded string) string {
	return ":PROPERTIES:\n:GPTEL_BOUNDS: " + encoded + "\n:END:\n\n"
}

// firstLine returns the first line of text, trimmed.
func firstLine(text string) string {
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		text = text[:idx]
	}
	return strings.TrimSpace(text)
}

// truncateHeading limits a headline title to headingDisplayLimit characters,
// marking the cut with an ellipsis.
func truncateHeading(title string) string {
	if len(title) > headingDisplayLimit {
		return title[:headingDisplayLimit-3] + "..."
	}
	return title
}
