package store

import (
	"context"
	"fmt"

	"github.com/quietloop/dailies/pkg/types"
)

// UpsertDailyStats stores or replaces the aggregate row for one day.
func (s *Store) UpsertDailyStats(ctx context.Context, stats types.DailyStats) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO daily_stats (date, total_messages, user_messages, assistant_messages,
		                         user_tokens, assistant_tokens, conversation_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (date) DO UPDATE
		SET total_messages = EXCLUDED.total_messages,
		    user_messages = EXCLUDED.user_messages,
		    assistant_messages = EXCLUDED.assistant_messages,
		    user_tokens = EXCLUDED.user_tokens,
		    assistant_tokens = EXCLUDED.assistant_tokens,
		    conversation_count = EXCLUDED.conversation_count`,
		stats.Date, stats.TotalMessages, stats.UserMessages, stats.AssistantMessages,
		stats.UserTokens, stats.AssistantTokens, stats.ConversationCount,
	)
	if err != nil {
		return fmt.Errorf("upsert daily stats: %w", err)
	}
	return nil
}

// GetDailyStats returns every daily aggregate row in date order.
func (s *Store) GetDailyStats(ctx context.Context) ([]types.DailyStats, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT date, total_messages, user_messages, assistant_messages,
		       user_tokens, assistant_tokens, conversation_count
		FROM daily_stats
		ORDER BY date`)
	if err != nil {
		return nil, fmt.Errorf("load daily stats: %w", err)
	}
	defer rows.Close()

	var stats []types.DailyStats
	for rows.Next() {
		var ds types.DailyStats
		err := rows.Scan(&ds.Date, &ds.TotalMessages, &ds.UserMessages, &ds.AssistantMessages,
			&ds.UserTokens, &ds.AssistantTokens, &ds.ConversationCount)
		if err != nil {
			return nil, fmt.Errorf("scan daily stats: %w", err)
		}
		stats = append(stats, ds)
	}
	return stats, rows.Err()
}
