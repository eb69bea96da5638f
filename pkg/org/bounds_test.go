package org

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBounds_TaggedEncoding(t *testing.T) {
	bounds := ParseBounds("((response (1116 2260) (2648 3860)))")
	require.Len(t, bounds, 2)
	assert.Equal(t, Bound{Start: 1116, End: 2260}, bounds[0])
	assert.Equal(t, Bound{Start: 2648, End: 3860}, bounds[1])
}

func TestParseBounds_DottedEncoding(t *testing.T) {
	bounds := ParseBounds("((1807 . 3547) (4010 . 5200))")
	require.Len(t, bounds, 2)
	assert.Equal(t, Bound{Start: 1807, End: 3547}, bounds[0])
	assert.Equal(t, Bound{Start: 4010, End: 5200}, bounds[1])
}

func TestParseBounds_DottedWithTightSpacing(t *testing.T) {
	bounds := ParseBounds("((12. 47))")
	require.Len(t, bounds, 1)
	assert.Equal(t, Bound{Start: 12, End: 47}, bounds[0])
}

func TestParseBounds_Empty(t *testing.T) {
	assert.Nil(t, ParseBounds(""))
	assert.Nil(t, ParseBounds("((response))"))
	assert.Nil(t, ParseBounds("not bounds at all"))
}

func TestParseBounds_MalformedPairsIgnored(t *testing.T) {
	// The well-formed pair survives, the rest is ignored.
	bounds := ParseBounds("((response (100 200) (broken) (x y)))")
	require.Len(t, bounds, 1)
	assert.Equal(t, Bound{Start: 100, End: 200}, bounds[0])
}

func TestEncodeBounds(t *testing.T) {
	t.Run("tagged form", func(t *testing.T) {
		encoded := EncodeBounds([]Bound{{Start: 30, End: 45}, {Start: 60, End: 92}})
		assert.Equal(t, "((response (30 45) (60 92)))", encoded)
	})

	t.Run("empty placeholder", func(t *testing.T) {
		assert.Equal(t, "((response))", EncodeBounds(nil))
	})
}

func TestBounds_EncodeParseRoundTrip(t *testing.T) {
	original := []Bound{{Start: 30, End: 45}, {Start: 60, End: 92}, {Start: 1000, End: 2500}}
	assert.Equal(t, original, ParseBounds(EncodeBounds(original)))
}
