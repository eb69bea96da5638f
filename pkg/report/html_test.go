package report

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quietloop/dailies/pkg/types"
)

func TestExportHTML(t *testing.T) {
	conv := &types.Conversation{
		Topic: "slices & maps",
		Date:  time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC),
		Model: "gpt-4o",
		Messages: []types.Message{
			{Role: types.RoleUser, Content: "how do I copy a map?"},
			{Role: types.RoleAssistant, Content: "Loop and assign:\n#+begin_src go\ndst := make(map[string]int, len(src))\nfor k, v := range src {\n\tdst[k] = v\n}\n#+end_src\nmaps.Copy does the same since Go 1.21."},
		},
	}

	var b strings.Builder
	require.NoError(t, ExportHTML(&b, conv))
	out := b.String()

	assert.Contains(t, out, "<title>slices &amp; maps</title>")
	assert.Contains(t, out, "2024-03-14")
	assert.Contains(t, out, "model: gpt-4o")
	assert.Contains(t, out, `<div class="message user">`)
	assert.Contains(t, out, `<div class="message assistant">`)
	assert.Contains(t, out, "how do I copy a map?")

	// The src block is highlighted, not escaped into a paragraph.
	assert.Contains(t, out, "dst")
	assert.NotContains(t, out, "#+begin_src")
	assert.Contains(t, out, "maps.Copy does the same since Go 1.21.")
}

func TestExportHTML_EscapesContent(t *testing.T) {
	conv := &types.Conversation{
		Messages: []types.Message{
			{Role: types.RoleUser, Content: "<script>alert(1)</script>"},
		},
	}

	var b strings.Builder
	require.NoError(t, ExportHTML(&b, conv))
	out := b.String()

	assert.NotContains(t, out, "<script>alert(1)</script>")
	assert.Contains(t, out, "&lt;script&gt;")
	// Empty topic falls back.
	assert.Contains(t, out, "<h1>Conversation</h1>")
}

func TestWrap(t *testing.T) {
	assert.Equal(t, "aa bb\ncc", wrap("aa bb cc", 5))
	assert.Equal(t, "single", wrap("single", 80))
	assert.Equal(t, "", wrap("", 10))
}
