// Package types defines the shared data model for the dailies analyzer:
// conversations and messages extracted from org-mode chat history, plus the
// derived statistics and LLM extraction records layered on top of them.
package types

import "time"

// MessageRole identifies who authored a message.
type MessageRole string

const (
	// RoleUser marks content written by the human outside any response region.
	RoleUser MessageRole = "user"

	// RoleAssistant marks content inside a gptel response region.
	RoleAssistant MessageRole = "assistant"
)

// Message is a single message in a conversation.
//
// CharStart and CharEnd are offsets into the original (pre-stripping) section
// text the message was extracted from, not into Content.
type Message struct {
	// Role indicates who authored the message.
	Role MessageRole

	// Content is the plain text of the message with org formatting stripped.
	Content string

	// CharStart is the offset where the original span began.
	CharStart int

	// CharEnd is the offset where the original span ended.
	CharEnd int

	// TokenCount is the tokenizer count for Content. Zero until computed.
	TokenCount int
}

// Conversation is a sequence of messages extracted from one org file section.
type Conversation struct {
	// FilePath is the source org file the conversation came from.
	FilePath string

	// Date is the day of the conversation, taken from the filename. Zero if
	// the filename does not encode a date.
	Date time.Time

	// Topic is the conversation topic (GPTEL_TOPIC property, falling back to
	// the section heading).
	Topic string

	// Model is the LLM model recorded in the file-level properties.
	Model string

	// SystemPrompt is the system prompt recorded in the file-level properties.
	SystemPrompt string

	// Messages are the extracted messages in buffer order.
	Messages []Message
}

// DailyStats aggregates message activity for a single day.
type DailyStats struct {
	Date              time.Time
	TotalMessages     int
	UserMessages      int
	AssistantMessages int
	UserTokens        int
	AssistantTokens   int
	ConversationCount int
}

// InsightCategory classifies an extracted insight.
type InsightCategory string

const (
	CategoryWisdom         InsightCategory = "wisdom"
	CategoryProductIdea    InsightCategory = "product_idea"
	CategoryProgrammingTip InsightCategory = "programming_tip"
	CategoryQuestion       InsightCategory = "question"
)

// Insight is a single LLM-extracted insight from a conversation.
type Insight struct {
	Category   InsightCategory `json:"category"`
	Title      string          `json:"title"`
	Summary    string          `json:"summary"`
	Tags       []string        `json:"tags"`
	Confidence float64         `json:"confidence"`
}

// ConversationSummary is the LLM-generated summary of a conversation.
type ConversationSummary struct {
	Summary   string   `json:"summary"`
	KeyTopics []string `json:"key_topics"`
	Sentiment string   `json:"sentiment"`
	Outcome   string   `json:"outcome"`
}
