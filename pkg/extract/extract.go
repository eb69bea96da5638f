// Package extract runs LLM-powered insight extraction and conversation
// summarization over stored conversations.
//
// The LLM client is an explicit handle owned by the caller; the extractor
// holds no hidden state beyond it and its logger.
package extract

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/quietloop/dailies/pkg/llm"
	"github.com/quietloop/dailies/pkg/logging"
	"github.com/quietloop/dailies/pkg/store"
	"github.com/quietloop/dailies/pkg/types"
)

const (
	// Conversations shorter than this carry nothing worth extracting.
	minTranscriptChars = 200

	// Very long transcripts are cut to keep prompts within context.
	maxTranscriptChars = 50000
)

// Extractor runs extraction and summarization against a store.
type Extractor struct {
	llm    llm.Client
	store  *store.Store
	logger *logging.Logger
}

// New creates an Extractor.
func New(client llm.Client, st *store.Store, logger *logging.Logger) *Extractor {
	return &Extractor{llm: client, store: st, logger: logger}
}

// Result tallies one batch run.
type Result struct {
	Processed int
	Skipped   int
	Failed    int
	Insights  int
}

// ExtractAll extracts insights for every conversation that has none yet.
// Failures on individual conversations are logged and skipped.
func (e *Extractor) ExtractAll(ctx context.Context) (Result, error) {
	var res Result

	conversations, err := e.store.UnextractedConversations(ctx)
	if err != nil {
		return res, err
	}
	e.logger.Infof("extracting insights from %d conversations", len(conversations))

	for _, conv := range conversations {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		insights, skipped, err := e.extractOne(ctx, conv)
		if err != nil {
			e.logger.Errorf("extraction failed for %s (%s): %v", conv.ID, conv.Topic, err)
			res.Failed++
			continue
		}
		if skipped {
			res.Skipped++
			continue
		}

		if err := e.store.InsertInsights(ctx, conv.ID, insights); err != nil {
			return res, err
		}
		res.Processed++
		res.Insights += len(insights)
	}

	return res, nil
}

func (e *Extractor) extractOne(ctx context.Context, conv store.ConversationRow) ([]types.Insight, bool, error) {
	transcript, err := e.store.ConversationText(ctx, conv.ID)
	if err != nil {
		return nil, false, err
	}
	if len(transcript) < minTranscriptChars {
		return nil, true, nil
	}
	transcript = truncate(transcript)

	prompt := fmt.Sprintf(extractionPrompt, topicOrUnknown(conv.Topic), dateOrUnknown(conv), transcript)
	raw, err := e.llm.Complete(ctx, extractionSystemPrompt, prompt)
	if err != nil {
		return nil, false, fmt.Errorf("llm extraction: %w", err)
	}

	insights, err := ParseInsights(raw)
	if err != nil {
		return nil, false, fmt.Errorf("parse extraction response: %w", err)
	}
	return insights, false, nil
}

// ParseInsights decodes the extraction response, tolerating markdown fences
// and prose around the JSON array.
func ParseInsights(raw string) ([]types.Insight, error) {
	jsonText, err := extractJSON(raw, "[", "]")
	if err != nil {
		return nil, err
	}
	var insights []types.Insight
	if err := json.Unmarshal([]byte(jsonText), &insights); err != nil {
		return nil, fmt.Errorf("decode insights: %w", err)
	}
	return insights, nil
}

// SummarizeAll generates summaries for every conversation without one.
func (e *Extractor) SummarizeAll(ctx context.Context) (Result, error) {
	var res Result

	conversations, err := e.store.UnsummarizedConversations(ctx)
	if err != nil {
		return res, err
	}
	e.logger.Infof("summarizing %d conversations", len(conversations))

	for _, conv := range conversations {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		summary, skipped, err := e.summarizeOne(ctx, conv)
		if err != nil {
			e.logger.Errorf("summarization failed for %s (%s): %v", conv.ID, conv.Topic, err)
			res.Failed++
			continue
		}
		if skipped {
			res.Skipped++
			continue
		}

		if err := e.store.UpsertSummary(ctx, conv.ID, summary); err != nil {
			return res, err
		}
		res.Processed++
	}

	return res, nil
}

func (e *Extractor) summarizeOne(ctx context.Context, conv store.ConversationRow) (types.ConversationSummary, bool, error) {
	var summary types.ConversationSummary

	transcript, err := e.store.ConversationText(ctx, conv.ID)
	if err != nil {
		return summary, false, err
	}
	if len(transcript) < minTranscriptChars {
		return summary, true, nil
	}

	full, err := e.store.GetConversation(ctx, conv.ID)
	if err != nil {
		return summary, false, err
	}
	transcript = truncate(transcript)

	prompt := fmt.Sprintf(summaryPrompt, topicOrUnknown(conv.Topic), dateOrUnknown(conv), len(full.Messages), transcript)
	raw, err := e.llm.Complete(ctx, summarySystemPrompt, prompt)
	if err != nil {
		return summary, false, fmt.Errorf("llm summarization: %w", err)
	}

	summary, err = ParseSummary(raw)
	if err != nil {
		return summary, false, fmt.Errorf("parse summary response: %w", err)
	}
	return summary, false, nil
}

// ParseSummary decodes the summarization response, tolerating markdown
// fences and prose around the JSON object.
func ParseSummary(raw string) (types.ConversationSummary, error) {
	var summary types.ConversationSummary
	jsonText, err := extractJSON(raw, "{", "}")
	if err != nil {
		return summary, err
	}
	if err := json.Unmarshal([]byte(jsonText), &summary); err != nil {
		return summary, fmt.Errorf("decode summary: %w", err)
	}
	return summary, nil
}

func truncate(transcript string) string {
	if len(transcript) > maxTranscriptChars {
		return transcript[:maxTranscriptChars] + "\n[TRUNCATED]"
	}
	return transcript
}

func topicOrUnknown(topic string) string {
	if topic == "" {
		return "Unknown"
	}
	return topic
}

func dateOrUnknown(conv store.ConversationRow) string {
	if conv.Date.IsZero() {
		return "Unknown"
	}
	return conv.Date.Format("2006-01-02")
}
