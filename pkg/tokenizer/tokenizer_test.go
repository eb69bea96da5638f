package tokenizer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEstimate(t *testing.T) {
	assert.Equal(t, 0, Estimate(""))
	assert.Equal(t, 1, Estimate("four"))
	assert.Equal(t, 25, Estimate(strings.Repeat("a", 100)))
}

func TestCount_NilTokenizerFallsBack(t *testing.T) {
	var tok *Tokenizer
	assert.Equal(t, Estimate("hello world, how are you"), tok.Count("hello world, how are you"))
}
