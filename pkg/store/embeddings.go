package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EmbeddingCandidate is a conversation awaiting an embedding, together with
// the summary material preferred as embedding text.
type EmbeddingCandidate struct {
	ID        uuid.UUID
	Topic     string
	Summary   string
	KeyTopics []string
}

// UnembeddedConversations returns conversations without a stored vector,
// joined with their summaries when available.
func (s *Store) UnembeddedConversations(ctx context.Context) ([]EmbeddingCandidate, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT c.id, COALESCE(c.topic, ''), COALESCE(cs.summary, ''), COALESCE(cs.key_topics, '{}')
		FROM conversations c
		LEFT JOIN conversation_summaries cs ON cs.conversation_id = c.id
		WHERE NOT EXISTS (SELECT 1 FROM conversation_embeddings ce WHERE ce.conversation_id = c.id)
		ORDER BY c.id`)
	if err != nil {
		return nil, fmt.Errorf("list unembedded conversations: %w", err)
	}
	defer rows.Close()

	var candidates []EmbeddingCandidate
	for rows.Next() {
		var c EmbeddingCandidate
		if err := rows.Scan(&c.ID, &c.Topic, &c.Summary, &c.KeyTopics); err != nil {
			return nil, fmt.Errorf("scan embedding candidate: %w", err)
		}
		candidates = append(candidates, c)
	}
	return candidates, rows.Err()
}

// UpsertEmbedding stores or replaces a conversation's embedding vector.
func (s *Store) UpsertEmbedding(ctx context.Context, conversationID uuid.UUID, vector []float64, model string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO conversation_embeddings (conversation_id, embedding, model)
		VALUES ($1, $2::vector, $3)
		ON CONFLICT (conversation_id) DO UPDATE
		SET embedding = EXCLUDED.embedding, model = EXCLUDED.model, embedded_at = now()`,
		conversationID, pgVector(vector), model,
	)
	if err != nil {
		return fmt.Errorf("upsert embedding: %w", err)
	}
	return nil
}

// SearchResult is one semantic search hit.
type SearchResult struct {
	ID         uuid.UUID
	Topic      string
	Date       time.Time
	Model      string
	Summary    string
	KeyTopics  []string
	Sentiment  string
	Outcome    string
	Similarity float64
}

// SemanticSearch returns the conversations closest to the query vector by
// cosine similarity, best match first.
func (s *Store) SemanticSearch(ctx context.Context, queryVector []float64, limit int) ([]SearchResult, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT c.id, COALESCE(c.topic, ''), c.date, COALESCE(c.model, ''),
		       COALESCE(cs.summary, ''), COALESCE(cs.key_topics, '{}'),
		       COALESCE(cs.sentiment, ''), COALESCE(cs.outcome, ''),
		       1 - (ce.embedding <=> $1::vector) AS similarity
		FROM conversation_embeddings ce
		JOIN conversations c ON c.id = ce.conversation_id
		LEFT JOIN conversation_summaries cs ON cs.conversation_id = c.id
		ORDER BY ce.embedding <=> $1::vector
		LIMIT $2`,
		pgVector(queryVector), limit)
	if err != nil {
		return nil, fmt.Errorf("semantic search: %w", err)
	}
	defer rows.Close()

	var results []SearchResult
	for rows.Next() {
		var r SearchResult
		var date *time.Time
		err := rows.Scan(&r.ID, &r.Topic, &date, &r.Model,
			&r.Summary, &r.KeyTopics, &r.Sentiment, &r.Outcome, &r.Similarity)
		if err != nil {
			return nil, fmt.Errorf("scan search result: %w", err)
		}
		if date != nil {
			r.Date = *date
		}
		results = append(results, r)
	}
	return results, rows.Err()
}
