// Package embed generates conversation embeddings and answers semantic
// search queries against them.
//
// The Embedder is a caller-owned handle around an llm.Embedder and the
// store; no embedding model state lives outside it.
package embed

import (
	"context"
	"fmt"
	"strings"

	"github.com/quietloop/dailies/pkg/llm"
	"github.com/quietloop/dailies/pkg/logging"
	"github.com/quietloop/dailies/pkg/store"
)

const defaultBatchSize = 128

// Embedder embeds conversations and runs similarity queries.
type Embedder struct {
	client    llm.Embedder
	store     *store.Store
	model     string
	batchSize int
	logger    *logging.Logger
}

// New creates an Embedder. model names the embedding model for bookkeeping in
// the store.
func New(client llm.Embedder, st *store.Store, model string, logger *logging.Logger) *Embedder {
	return &Embedder{
		client:    client,
		store:     st,
		model:     model,
		batchSize: defaultBatchSize,
		logger:    logger,
	}
}

// EmbedAll embeds every conversation without a stored vector. Summary plus
// key topics is the preferred embedding text (concise and on-topic); raw
// transcripts are the fallback for unsummarized conversations. Conversations
// with no text at all are skipped.
func (e *Embedder) EmbedAll(ctx context.Context) (embedded, skipped int, err error) {
	candidates, err := e.store.UnembeddedConversations(ctx)
	if err != nil {
		return 0, 0, err
	}
	if len(candidates) == 0 {
		return 0, 0, nil
	}
	e.logger.Infof("embedding %d conversations", len(candidates))

	var texts []string
	var ids []int // indexes into candidates
	for i, cand := range candidates {
		text, err := e.embeddingText(ctx, cand)
		if err != nil {
			return embedded, skipped, err
		}
		if strings.TrimSpace(text) == "" {
			skipped++
			continue
		}
		texts = append(texts, text)
		ids = append(ids, i)
	}

	for start := 0; start < len(texts); start += e.batchSize {
		end := start + e.batchSize
		if end > len(texts) {
			end = len(texts)
		}

		vectors, err := e.client.Embed(ctx, texts[start:end])
		if err != nil {
			return embedded, skipped, fmt.Errorf("embed batch: %w", err)
		}

		for j, vector := range vectors {
			cand := candidates[ids[start+j]]
			if err := e.store.UpsertEmbedding(ctx, cand.ID, vector, e.model); err != nil {
				return embedded, skipped, err
			}
			embedded++
		}
	}

	return embedded, skipped, nil
}

// embeddingText builds the text to embed for one conversation.
func (e *Embedder) embeddingText(ctx context.Context, cand store.EmbeddingCandidate) (string, error) {
	if cand.Summary != "" {
		parts := []string{}
		if cand.Topic != "" {
			parts = append(parts, cand.Topic)
		}
		parts = append(parts, cand.Summary)
		if len(cand.KeyTopics) > 0 {
			parts = append(parts, "Topics: "+strings.Join(cand.KeyTopics, ", "))
		}
		return strings.Join(parts, ". "), nil
	}
	return e.store.ConversationText(ctx, cand.ID)
}

// Search embeds the query and returns the closest conversations.
func (e *Embedder) Search(ctx context.Context, query string, limit int) ([]store.SearchResult, error) {
	vectors, err := e.client.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("embed query: no vector returned")
	}
	return e.store.SemanticSearch(ctx, vectors[0], limit)
}
