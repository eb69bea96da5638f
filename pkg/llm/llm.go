// Package llm defines the small LLM surface the analyzer needs: blocking
// chat completions for extraction and summarization, and embeddings for
// semantic search.
//
// Clients are explicit, caller-owned handles passed into the operations that
// need them. Nothing in this module lazily initializes hidden process-wide
// model state.
package llm

import "context"

// Client is a blocking chat completion client.
type Client interface {
	// Complete sends a system and user prompt and returns the full response
	// text.
	Complete(ctx context.Context, system, user string) (string, error)
}

// Embedder produces embedding vectors for a batch of texts. The returned
// slice is index-aligned with the input.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float64, error)
}
