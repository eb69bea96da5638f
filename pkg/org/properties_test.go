package org

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleHeader = `:PROPERTIES:
:GPTEL_MODEL: gpt-4o
:GPTEL_BACKEND: ChatGPT
:GPTEL_SYSTEM: You are a helpful assistant living in Emacs.
:GPTEL_BOUNDS: ((response (30 45)))
:END:

* A conversation
`

func TestExtractProperties(t *testing.T) {
	props, end := ExtractProperties(sampleHeader, 0)

	assert.Equal(t, "gpt-4o", props.Model)
	assert.Equal(t, "ChatGPT", props.Backend)
	assert.Equal(t, "You are a helpful assistant living in Emacs.", props.System)
	require.Len(t, props.Bounds, 1)
	assert.Equal(t, Bound{Start: 30, End: 45}, props.Bounds[0])

	// end points just past :END:, before the headline.
	assert.Equal(t, ":END:", sampleHeader[end-5:end])
}

func TestExtractProperties_Topic(t *testing.T) {
	content := "* Heading\n:PROPERTIES:\n:GPTEL_TOPIC: emacs-config\n:END:\nbody"
	props, _ := ExtractProperties(content, 0)
	assert.Equal(t, "emacs-config", props.Topic)
}

func TestExtractProperties_NoBlock(t *testing.T) {
	props, end := ExtractProperties("just some text", 3)
	assert.Equal(t, 3, end)
	assert.Empty(t, props.Model)
	assert.Nil(t, props.Bounds)
}

func TestExtractProperties_StartsAfterOffset(t *testing.T) {
	content := ":PROPERTIES:\n:GPTEL_MODEL: first\n:END:\n* H\n:PROPERTIES:\n:GPTEL_TOPIC: second\n:END:\n"
	firstEnd := len(":PROPERTIES:\n:GPTEL_MODEL: first\n:END:")

	props, _ := ExtractProperties(content, firstEnd)
	assert.Equal(t, "second", props.Topic)
	assert.Empty(t, props.Model)
}

func TestPropertyValue_KeepsColonsInValue(t *testing.T) {
	line := ":GPTEL_SYSTEM: see https://example.com/path for details"
	assert.Equal(t, "see https://example.com/path for details", propertyValue(line))
}
