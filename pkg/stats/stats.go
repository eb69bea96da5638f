// Package stats aggregates message activity into per-day and overall
// statistics.
package stats

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/quietloop/dailies/pkg/store"
	"github.com/quietloop/dailies/pkg/types"
)

// Aggregate folds message rows into one DailyStats per calendar date,
// returned in date order.
func Aggregate(messages []store.MessageStat) []types.DailyStats {
	type bucket struct {
		stats         types.DailyStats
		conversations map[uuid.UUID]struct{}
	}

	buckets := make(map[time.Time]*bucket)
	for _, msg := range messages {
		day := msg.Date.Truncate(24 * time.Hour)
		b, ok := buckets[day]
		if !ok {
			b = &bucket{
				stats:         types.DailyStats{Date: day},
				conversations: make(map[uuid.UUID]struct{}),
			}
			buckets[day] = b
		}

		b.stats.TotalMessages++
		b.conversations[msg.ConversationID] = struct{}{}
		if msg.Role == string(types.RoleUser) {
			b.stats.UserMessages++
			b.stats.UserTokens += msg.TokenCount
		} else {
			b.stats.AssistantMessages++
			b.stats.AssistantTokens += msg.TokenCount
		}
	}

	daily := make([]types.DailyStats, 0, len(buckets))
	for _, b := range buckets {
		b.stats.ConversationCount = len(b.conversations)
		daily = append(daily, b.stats)
	}
	sort.Slice(daily, func(i, j int) bool { return daily[i].Date.Before(daily[j].Date) })
	return daily
}

// Summary is the high-level view across all days.
type Summary struct {
	TotalDays          int
	TotalMessages      int
	TotalConversations int
	UserTokens         int
	AssistantTokens    int
	FirstDate          time.Time
	LastDate           time.Time
	AvgMessagesPerDay  float64
	MostActiveDay      types.DailyStats
}

// Summarize reduces daily stats to a Summary. An empty input yields the zero
// Summary.
func Summarize(daily []types.DailyStats) Summary {
	var s Summary
	if len(daily) == 0 {
		return s
	}

	s.TotalDays = len(daily)
	s.FirstDate = daily[0].Date
	s.LastDate = daily[0].Date
	s.MostActiveDay = daily[0]

	for _, d := range daily {
		s.TotalMessages += d.TotalMessages
		s.TotalConversations += d.ConversationCount
		s.UserTokens += d.UserTokens
		s.AssistantTokens += d.AssistantTokens
		if d.Date.Before(s.FirstDate) {
			s.FirstDate = d.Date
		}
		if d.Date.After(s.LastDate) {
			s.LastDate = d.Date
		}
		if d.TotalMessages > s.MostActiveDay.TotalMessages {
			s.MostActiveDay = d
		}
	}
	s.AvgMessagesPerDay = float64(s.TotalMessages) / float64(s.TotalDays)
	return s
}

// TopDays returns the limit most active days by message count.
func TopDays(daily []types.DailyStats, limit int) []types.DailyStats {
	sorted := make([]types.DailyStats, len(daily))
	copy(sorted, daily)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TotalMessages > sorted[j].TotalMessages
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

// ComputeAndStore recomputes daily stats from the stored messages and writes
// them back.
func ComputeAndStore(ctx context.Context, s *store.Store) error {
	messages, err := s.ListMessageStats(ctx)
	if err != nil {
		return err
	}
	for _, day := range Aggregate(messages) {
		if err := s.UpsertDailyStats(ctx, day); err != nil {
			return fmt.Errorf("store stats for %s: %w", day.Date.Format("2006-01-02"), err)
		}
	}
	return nil
}
