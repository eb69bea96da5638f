package stats

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quietloop/dailies/pkg/store"
)

var (
	day1 = time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC)
	day2 = time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
)

func messageStats() []store.MessageStat {
	convA := uuid.New()
	convB := uuid.New()
	convC := uuid.New()

	return []store.MessageStat{
		{ConversationID: convA, Date: day1, Role: "user", TokenCount: 10},
		{ConversationID: convA, Date: day1, Role: "assistant", TokenCount: 50},
		{ConversationID: convB, Date: day1, Role: "user", TokenCount: 5},
		{ConversationID: convB, Date: day1, Role: "assistant", TokenCount: 30},
		{ConversationID: convC, Date: day2, Role: "user", TokenCount: 8},
		{ConversationID: convC, Date: day2, Role: "assistant", TokenCount: 40},
	}
}

func TestAggregate(t *testing.T) {
	daily := Aggregate(messageStats())
	require.Len(t, daily, 2)

	first := daily[0]
	assert.Equal(t, day1, first.Date)
	assert.Equal(t, 4, first.TotalMessages)
	assert.Equal(t, 2, first.UserMessages)
	assert.Equal(t, 2, first.AssistantMessages)
	assert.Equal(t, 15, first.UserTokens)
	assert.Equal(t, 80, first.AssistantTokens)
	assert.Equal(t, 2, first.ConversationCount)

	second := daily[1]
	assert.Equal(t, day2, second.Date)
	assert.Equal(t, 2, second.TotalMessages)
	assert.Equal(t, 1, second.ConversationCount)
}

func TestAggregate_Empty(t *testing.T) {
	assert.Empty(t, Aggregate(nil))
}

func TestSummarize(t *testing.T) {
	daily := Aggregate(messageStats())
	s := Summarize(daily)

	assert.Equal(t, 2, s.TotalDays)
	assert.Equal(t, 6, s.TotalMessages)
	assert.Equal(t, 3, s.TotalConversations)
	assert.Equal(t, 23, s.UserTokens)
	assert.Equal(t, 120, s.AssistantTokens)
	assert.Equal(t, day1, s.FirstDate)
	assert.Equal(t, day2, s.LastDate)
	assert.Equal(t, 3.0, s.AvgMessagesPerDay)
	assert.Equal(t, day1, s.MostActiveDay.Date)
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)
	assert.Zero(t, s.TotalDays)
	assert.True(t, s.FirstDate.IsZero())
}

func TestTopDays(t *testing.T) {
	daily := Aggregate(messageStats())

	top := TopDays(daily, 1)
	require.Len(t, top, 1)
	assert.Equal(t, day1, top[0].Date)

	// Limit above the input length returns everything.
	assert.Len(t, TopDays(daily, 10), 2)

	// The input slice is not reordered.
	assert.Equal(t, day1, daily[0].Date)
}
