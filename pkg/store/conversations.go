package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/quietloop/dailies/pkg/types"
)

// ConversationRow is the stored metadata of a conversation.
type ConversationRow struct {
	ID       uuid.UUID
	FilePath string
	Date     time.Time
	Topic    string
	Model    string
}

// InsertConversations stores conversations and their messages in one
// transaction. It returns the number of messages written.
func (s *Store) InsertConversations(ctx context.Context, conversations []types.Conversation) (int, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	messageCount := 0
	for _, conv := range conversations {
		id := uuid.New()

		var date *time.Time
		if !conv.Date.IsZero() {
			date = &conv.Date
		}

		_, err := tx.Exec(ctx, `
			INSERT INTO conversations (id, file_path, date, topic, model, system_prompt)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			id, conv.FilePath, date, nullable(conv.Topic), nullable(conv.Model), nullable(conv.SystemPrompt),
		)
		if err != nil {
			return 0, fmt.Errorf("insert conversation: %w", err)
		}

		for _, msg := range conv.Messages {
			_, err := tx.Exec(ctx, `
				INSERT INTO messages (conversation_id, role, content, char_start, char_end, token_count)
				VALUES ($1, $2, $3, $4, $5, $6)`,
				id, string(msg.Role), msg.Content, msg.CharStart, msg.CharEnd, msg.TokenCount,
			)
			if err != nil {
				return 0, fmt.Errorf("insert message: %w", err)
			}
			messageCount++
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return messageCount, nil
}

// nullable maps empty strings to NULL.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// ConversationCount returns the number of stored conversations.
func (s *Store) ConversationCount(ctx context.Context) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx, `SELECT count(*) FROM conversations`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count conversations: %w", err)
	}
	return n, nil
}

// MessageCount returns the number of stored messages.
func (s *Store) MessageCount(ctx context.Context) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx, `SELECT count(*) FROM messages`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count messages: %w", err)
	}
	return n, nil
}

// Distribution is a labeled count, e.g. messages per model.
type Distribution struct {
	Label string
	Count int
}

// ModelDistribution returns message counts grouped by model, most used first.
func (s *Store) ModelDistribution(ctx context.Context) ([]Distribution, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT c.model, count(m.id)
		FROM messages m
		JOIN conversations c ON m.conversation_id = c.id
		WHERE c.model IS NOT NULL
		GROUP BY c.model
		ORDER BY count(m.id) DESC`)
	if err != nil {
		return nil, fmt.Errorf("model distribution: %w", err)
	}
	defer rows.Close()
	return scanDistributions(rows)
}

// TopicDistribution returns conversation counts grouped by topic.
func (s *Store) TopicDistribution(ctx context.Context, limit int) ([]Distribution, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT topic, count(*)
		FROM conversations
		WHERE topic IS NOT NULL
		GROUP BY topic
		ORDER BY count(*) DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("topic distribution: %w", err)
	}
	defer rows.Close()
	return scanDistributions(rows)
}

type pgxRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanDistributions(rows pgxRows) ([]Distribution, error) {
	var dist []Distribution
	for rows.Next() {
		var d Distribution
		if err := rows.Scan(&d.Label, &d.Count); err != nil {
			return nil, fmt.Errorf("scan distribution: %w", err)
		}
		dist = append(dist, d)
	}
	return dist, rows.Err()
}

// MessageStat is the slice of a message the statistics layer needs.
type MessageStat struct {
	ConversationID uuid.UUID
	Date           time.Time
	Role           string
	TokenCount     int
}

// ListMessageStats returns date, role and token count for every message with
// a dated conversation.
func (s *Store) ListMessageStats(ctx context.Context) ([]MessageStat, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT m.conversation_id, c.date, m.role, m.token_count
		FROM messages m
		JOIN conversations c ON m.conversation_id = c.id
		WHERE c.date IS NOT NULL
		ORDER BY m.id`)
	if err != nil {
		return nil, fmt.Errorf("list message stats: %w", err)
	}
	defer rows.Close()

	var stats []MessageStat
	for rows.Next() {
		var ms MessageStat
		if err := rows.Scan(&ms.ConversationID, &ms.Date, &ms.Role, &ms.TokenCount); err != nil {
			return nil, fmt.Errorf("scan message stat: %w", err)
		}
		stats = append(stats, ms)
	}
	return stats, rows.Err()
}

// ConversationText renders a conversation as a role-labeled transcript, the
// format the extraction and summarization prompts expect.
func (s *Store) ConversationText(ctx context.Context, id uuid.UUID) (string, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT role, content FROM messages
		WHERE conversation_id = $1
		ORDER BY id`, id)
	if err != nil {
		return "", fmt.Errorf("load conversation text: %w", err)
	}
	defer rows.Close()

	var lines []string
	for rows.Next() {
		var role, content string
		if err := rows.Scan(&role, &content); err != nil {
			return "", fmt.Errorf("scan message: %w", err)
		}
		label := "USER"
		if role == string(types.RoleAssistant) {
			label = "ASSISTANT"
		}
		lines = append(lines, fmt.Sprintf("[%s]\n%s\n", label, content))
	}
	if err := rows.Err(); err != nil {
		return "", err
	}
	return strings.Join(lines, "\n"), nil
}

// GetConversation loads a conversation's metadata and messages.
func (s *Store) GetConversation(ctx context.Context, id uuid.UUID) (*types.Conversation, error) {
	var conv types.Conversation
	var date *time.Time
	var topic, model, system *string
	err := s.pool.QueryRow(ctx, `
		SELECT file_path, date, topic, model, system_prompt
		FROM conversations WHERE id = $1`, id).
		Scan(&conv.FilePath, &date, &topic, &model, &system)
	if err != nil {
		return nil, fmt.Errorf("load conversation: %w", err)
	}
	if date != nil {
		conv.Date = *date
	}
	conv.Topic = deref(topic)
	conv.Model = deref(model)
	conv.SystemPrompt = deref(system)

	rows, err := s.pool.Query(ctx, `
		SELECT role, content, char_start, char_end, token_count
		FROM messages WHERE conversation_id = $1
		ORDER BY id`, id)
	if err != nil {
		return nil, fmt.Errorf("load messages: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var msg types.Message
		var role string
		if err := rows.Scan(&role, &msg.Content, &msg.CharStart, &msg.CharEnd, &msg.TokenCount); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		msg.Role = types.MessageRole(role)
		conv.Messages = append(conv.Messages, msg)
	}
	return &conv, rows.Err()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// scanConversationRows collects ConversationRow results from a query over
// (id, file_path, date, topic, model).
func scanConversationRows(rows pgxRows) ([]ConversationRow, error) {
	var result []ConversationRow
	for rows.Next() {
		var row ConversationRow
		var date *time.Time
		var topic, model *string
		if err := rows.Scan(&row.ID, &row.FilePath, &date, &topic, &model); err != nil {
			return nil, fmt.Errorf("scan conversation row: %w", err)
		}
		if date != nil {
			row.Date = *date
		}
		row.Topic = deref(topic)
		row.Model = deref(model)
		result = append(result, row)
	}
	return result, rows.Err()
}
