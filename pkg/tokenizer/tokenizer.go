// Package tokenizer counts tokens with the cl100k_base encoding. Counts feed
// the daily statistics; they are estimates of model usage, not billing data.
package tokenizer

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

const encodingName = "cl100k_base"

// Tokenizer wraps a tiktoken encoding.
type Tokenizer struct {
	encoding *tiktoken.Tiktoken
}

// New loads the cl100k_base encoding. Loading can fail when the embedded
// encoding data is unavailable; callers may fall back to Estimate.
func New() (*Tokenizer, error) {
	encoding, err := tiktoken.GetEncoding(encodingName)
	if err != nil {
		return nil, fmt.Errorf("load %s encoding: %w", encodingName, err)
	}
	return &Tokenizer{encoding: encoding}, nil
}

// Count returns the number of tokens in text. A nil Tokenizer degrades to
// Estimate so callers need not special-case a failed New.
func (t *Tokenizer) Count(text string) int {
	if t == nil || t.encoding == nil {
		return Estimate(text)
	}
	return len(t.encoding.Encode(text, nil, nil))
}

// Estimate is the rough chars/4 heuristic used when no encoding is available.
func Estimate(text string) int {
	return len(text) / 4
}
