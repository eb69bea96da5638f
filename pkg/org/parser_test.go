package org

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quietloop/dailies/pkg/types"
)

func TestExtractMessages_AlternatingRoles(t *testing.T) {
	content := "what is a goroutine\nRESPONSE ONE here\nfollow up question\nRESPONSE TWO here\ntrailing user text"

	b1 := Bound{Start: strings.Index(content, "RESPONSE ONE"), End: strings.Index(content, "\nfollow")}
	b2 := Bound{Start: strings.Index(content, "RESPONSE TWO"), End: strings.Index(content, "\ntrailing")}

	messages := ExtractMessages(content, []Bound{b1, b2})
	require.Len(t, messages, 5)

	assert.Equal(t, types.RoleUser, messages[0].Role)
	assert.Equal(t, "what is a goroutine", messages[0].Content)
	assert.Equal(t, types.RoleAssistant, messages[1].Role)
	assert.Equal(t, "RESPONSE ONE here", messages[1].Content)
	assert.Equal(t, types.RoleUser, messages[2].Role)
	assert.Equal(t, types.RoleAssistant, messages[3].Role)
	assert.Equal(t, types.RoleUser, messages[4].Role)
	assert.Equal(t, "trailing user text", messages[4].Content)
}

func TestExtractMessages_WholeBufferBound(t *testing.T) {
	content := "the entire buffer is one response"
	messages := ExtractMessages(content, []Bound{{Start: 0, End: len(content)}})

	require.Len(t, messages, 1)
	assert.Equal(t, types.RoleAssistant, messages[0].Role)
	assert.Equal(t, 0, messages[0].CharStart)
	assert.Equal(t, len(content), messages[0].CharEnd)
}

func TestExtractMessages_NoBounds(t *testing.T) {
	assert.Nil(t, ExtractMessages("plain text with no annotations", nil))
}

func TestExtractMessages_AtMostTwoNPlusOne(t *testing.T) {
	content := strings.Repeat("u", 10) + "AAAA" + strings.Repeat("v", 10) + "BBBB" + strings.Repeat("w", 10)
	bounds := []Bound{
		{Start: 10, End: 14},
		{Start: 24, End: 28},
	}
	messages := ExtractMessages(content, bounds)
	assert.LessOrEqual(t, len(messages), 2*len(bounds)+1)
	assert.Len(t, messages, 5)
}

func TestExtractMessages_OffsetsReferenceUnstrippedInput(t *testing.T) {
	content := "#+title: noise\nreal question\nANSWER\n"
	start := strings.Index(content, "ANSWER")
	messages := ExtractMessages(content, []Bound{{Start: start, End: start + 6}})

	require.Len(t, messages, 2)
	// Stripping shortens the content but never moves the recorded span.
	assert.Equal(t, "real question", messages[0].Content)
	assert.Equal(t, 0, messages[0].CharStart)
	assert.Equal(t, start, messages[0].CharEnd)
	assert.Equal(t, start, messages[1].CharStart)
	assert.Equal(t, start+6, messages[1].CharEnd)
}

func TestExtractMessages_EmptySpansDropped(t *testing.T) {
	// The gap between the bounds is whitespace only, so no user message
	// appears between the two responses.
	content := "ONE\n\nTWO"
	messages := ExtractMessages(content, []Bound{{Start: 0, End: 3}, {Start: 5, End: 8}})

	require.Len(t, messages, 2)
	assert.Equal(t, types.RoleAssistant, messages[0].Role)
	assert.Equal(t, types.RoleAssistant, messages[1].Role)
}

func TestExtractMessages_UnsortedBounds(t *testing.T) {
	content := "aaaFIRSTbbbSECONDccc"
	bounds := []Bound{
		{Start: strings.Index(content, "SECOND"), End: strings.Index(content, "SECOND") + 6},
		{Start: 3, End: 8},
	}
	messages := ExtractMessages(content, bounds)
	require.Len(t, messages, 5)
	assert.Equal(t, "FIRST", messages[1].Content)
	assert.Equal(t, "SECOND", messages[3].Content)
}

func TestExtractMessages_BoundBeyondBuffer(t *testing.T) {
	content := "short"
	messages := ExtractMessages(content, []Bound{{Start: 0, End: 500}})
	require.Len(t, messages, 1)
	assert.Equal(t, "short", messages[0].Content)
}

func TestParseDate(t *testing.T) {
	assert.Equal(t,
		time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC),
		ParseDate("/home/me/dailies/2024-03-14.org"))

	assert.True(t, ParseDate("notes.org").IsZero())
	assert.True(t, ParseDate("2024-3-14.org").IsZero())
}

// buildTestDocument assembles an annotated document the way gptel writes
// them: bounds in the header are 1-based positions into the final file, so
// the header length is resolved by iterating until the encoding stabilizes.
// extraProps lines, if any, go into the file-level properties block.
func buildTestDocument(t *testing.T, body, extraProps string, spans []Bound) string {
	t.Helper()

	header := func(encoded string) string {
		return ":PROPERTIES:\n" + extraProps + ":GPTEL_BOUNDS: " + encoded + "\n:END:\n\n"
	}

	encoded := EncodeBounds(nil)
	for i := 0; i < 5; i++ {
		offset := len(header(encoded))
		shifted := make([]Bound, len(spans))
		for j, b := range spans {
			shifted[j] = Bound{Start: b.Start + offset + 1, End: b.End + offset + 1}
		}
		next := EncodeBounds(shifted)
		if next == encoded {
			return header(encoded) + body
		}
		encoded = next
	}
	t.Fatal("bounds encoding did not stabilize")
	return ""
}

func TestParseDocument_WholeFile(t *testing.T) {
	body := "what is the meaning of life\nFORTY TWO obviously\n"
	start := strings.Index(body, "FORTY")
	doc := buildTestDocument(t, body, "", []Bound{{Start: start, End: start + len("FORTY TWO obviously")}})

	conversations := ParseDocument("2024-03-14.org", doc)
	require.Len(t, conversations, 1)

	conv := conversations[0]
	assert.Equal(t, time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC), conv.Date)
	require.Len(t, conv.Messages, 2)
	assert.Equal(t, types.RoleUser, conv.Messages[0].Role)
	assert.Equal(t, "what is the meaning of life", conv.Messages[0].Content)
	assert.Equal(t, types.RoleAssistant, conv.Messages[1].Role)
	assert.Equal(t, "FORTY TWO obviously", conv.Messages[1].Content)
}

func TestParseDocument_NoBoundsNoConversations(t *testing.T) {
	assert.Nil(t, ParseDocument("x.org", "* Just notes\nnothing from gptel here\n"))

	noBounds := ":PROPERTIES:\n:GPTEL_MODEL: gpt-4o\n:END:\n\ntext\n"
	assert.Nil(t, ParseDocument("x.org", noBounds))
}

func TestParseDocument_SplitsSections(t *testing.T) {
	body := "* First chat\nquestion one\nANSWER ONE\n* Second chat\nquestion two\nANSWER TWO\n"
	s1 := strings.Index(body, "ANSWER ONE")
	s2 := strings.Index(body, "ANSWER TWO")
	doc := buildTestDocument(t, body, "", []Bound{
		{Start: s1, End: s1 + 10},
		{Start: s2, End: s2 + 10},
	})

	conversations := ParseDocument("2024-03-14.org", doc)
	require.Len(t, conversations, 2)

	assert.Equal(t, "First chat", conversations[0].Topic)
	assert.Equal(t, "Second chat", conversations[1].Topic)

	last := conversations[1].Messages
	require.NotEmpty(t, last)
	assert.Equal(t, "ANSWER TWO", last[len(last)-1].Content)
}

func TestParseDocument_SectionWithoutBoundsSkipped(t *testing.T) {
	body := "* Annotated\nq\nANSWER\n* Plain notes\nno responses here\n"
	s := strings.Index(body, "ANSWER")
	doc := buildTestDocument(t, body, "", []Bound{{Start: s, End: s + 6}})

	conversations := ParseDocument("x.org", doc)
	require.Len(t, conversations, 1)
	assert.Equal(t, "Annotated", conversations[0].Topic)
}

func TestParseDocument_ModelFromFileHeader(t *testing.T) {
	body := "hello\nANSWER\n"
	s := strings.Index(body, "ANSWER")
	doc := buildTestDocument(t, body, ":GPTEL_MODEL: gpt-4o\n", []Bound{{Start: s, End: s + 6}})

	conversations := ParseDocument("x.org", doc)
	require.NotEmpty(t, conversations)
	assert.Equal(t, "gpt-4o", conversations[0].Model)
}

func TestParseGlob(t *testing.T) {
	dir := t.TempDir()

	body := "hi\nRESPONSE\n"
	s := strings.Index(body, "RESPONSE")
	doc := buildTestDocument(t, body, "", []Bound{{Start: s, End: s + 8}})

	require.NoError(t, os.WriteFile(filepath.Join(dir, "2024-03-14.org"), []byte(doc), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "2024-03-15.org"), []byte(doc), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("ignored"), 0o644))

	conversations, failures, err := ParseGlob(dir, "*.org")
	require.NoError(t, err)
	assert.Empty(t, failures)
	require.Len(t, conversations, 2)

	// Filename order.
	assert.Equal(t, time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC), conversations[0].Date)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), conversations[1].Date)
}

func TestParseGlob_MissingDirectory(t *testing.T) {
	_, _, err := ParseGlob("/does/not/exist", "*.org")
	assert.Error(t, err)
}
