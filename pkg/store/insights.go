package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/quietloop/dailies/pkg/types"
)

// UnextractedConversations returns conversations that have no insights yet,
// oldest first.
func (s *Store) UnextractedConversations(ctx context.Context) ([]ConversationRow, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT c.id, c.file_path, c.date, c.topic, c.model
		FROM conversations c
		WHERE NOT EXISTS (SELECT 1 FROM insights i WHERE i.conversation_id = c.id)
		ORDER BY c.date NULLS LAST, c.id`)
	if err != nil {
		return nil, fmt.Errorf("list unextracted conversations: %w", err)
	}
	defer rows.Close()
	return scanConversationRows(rows)
}

// UnsummarizedConversations returns conversations without a stored summary.
func (s *Store) UnsummarizedConversations(ctx context.Context) ([]ConversationRow, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT c.id, c.file_path, c.date, c.topic, c.model
		FROM conversations c
		WHERE NOT EXISTS (SELECT 1 FROM conversation_summaries cs WHERE cs.conversation_id = c.id)
		ORDER BY c.date NULLS LAST, c.id`)
	if err != nil {
		return nil, fmt.Errorf("list unsummarized conversations: %w", err)
	}
	defer rows.Close()
	return scanConversationRows(rows)
}

// InsertInsights stores extracted insights for a conversation.
func (s *Store) InsertInsights(ctx context.Context, conversationID uuid.UUID, insights []types.Insight) error {
	for _, insight := range insights {
		_, err := s.pool.Exec(ctx, `
			INSERT INTO insights (conversation_id, category, title, summary, tags, confidence)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			conversationID, string(insight.Category), insight.Title, insight.Summary, insight.Tags, insight.Confidence,
		)
		if err != nil {
			return fmt.Errorf("insert insight: %w", err)
		}
	}
	return nil
}

// InsightRow is a stored insight with its conversation context.
type InsightRow struct {
	ID             int64
	ConversationID uuid.UUID
	Topic          string
	Date           time.Time
	Category       string
	Title          string
	Summary        string
	Tags           []string
	Confidence     float64
}

// ListInsights returns insights ordered by confidence, filtered by category
// when one is given. bottom flips the order to surface the weakest insights.
func (s *Store) ListInsights(ctx context.Context, category string, limit int, bottom bool) ([]InsightRow, error) {
	order := "DESC"
	if bottom {
		order = "ASC"
	}
	query := fmt.Sprintf(`
		SELECT i.id, i.conversation_id, COALESCE(c.topic, ''), c.date,
		       i.category, i.title, i.summary, COALESCE(i.tags, '{}'), COALESCE(i.confidence, 0)
		FROM insights i
		JOIN conversations c ON i.conversation_id = c.id
		WHERE ($1 = '' OR i.category = $1)
		ORDER BY i.confidence %s NULLS LAST
		LIMIT $2`, order)

	rows, err := s.pool.Query(ctx, query, category, limit)
	if err != nil {
		return nil, fmt.Errorf("list insights: %w", err)
	}
	defer rows.Close()

	var insights []InsightRow
	for rows.Next() {
		var row InsightRow
		var date *time.Time
		err := rows.Scan(&row.ID, &row.ConversationID, &row.Topic, &date,
			&row.Category, &row.Title, &row.Summary, &row.Tags, &row.Confidence)
		if err != nil {
			return nil, fmt.Errorf("scan insight: %w", err)
		}
		if date != nil {
			row.Date = *date
		}
		insights = append(insights, row)
	}
	return insights, rows.Err()
}

// UpsertSummary stores or replaces the summary of a conversation.
func (s *Store) UpsertSummary(ctx context.Context, conversationID uuid.UUID, summary types.ConversationSummary) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO conversation_summaries (conversation_id, summary, key_topics, sentiment, outcome)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (conversation_id) DO UPDATE
		SET summary = EXCLUDED.summary, key_topics = EXCLUDED.key_topics,
		    sentiment = EXCLUDED.sentiment, outcome = EXCLUDED.outcome,
		    summarized_at = now()`,
		conversationID, summary.Summary, summary.KeyTopics, summary.Sentiment, summary.Outcome,
	)
	if err != nil {
		return fmt.Errorf("upsert summary: %w", err)
	}
	return nil
}
