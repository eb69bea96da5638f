// Package convert turns a Claude app HistoryExport.csv into org-roam daily
// files annotated with gptel bounds, ready for ingestion by the parser.
package convert

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/quietloop/dailies/pkg/org"
	"github.com/quietloop/dailies/pkg/types"
)

// Record is one row of the history export: a timestamp and the raw
// conversation transcript.
type Record struct {
	When         time.Time
	Conversation string
}

// Export timestamps look like "1/8/25, 10:16 PM".
const exportTimeLayout = "1/2/06, 3:04 PM"

// ParseExportDate parses a history export timestamp.
func ParseExportDate(s string) (time.Time, error) {
	t, err := time.Parse(exportTimeLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("parse export date: %w", err)
	}
	return t, nil
}

// ReadHistory reads a HistoryExport.csv stream. The file must carry Date and
// Conversation columns; rows with unparseable dates are skipped and counted
// in the second return value.
func ReadHistory(r io.Reader) ([]Record, int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("read csv header: %w", err)
	}

	dateCol, convCol := -1, -1
	for i, name := range header {
		// Exports written by the app start with a UTF-8 BOM.
		switch strings.TrimPrefix(strings.TrimSpace(name), "\uFEFF") {
		case "Date":
			dateCol = i
		case "Conversation":
			convCol = i
		}
	}
	if dateCol < 0 || convCol < 0 {
		return nil, 0, fmt.Errorf("csv missing Date/Conversation columns, got %v", header)
	}

	var records []Record
	skipped := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("read csv row: %w", err)
		}
		if dateCol >= len(row) || convCol >= len(row) {
			skipped++
			continue
		}
		when, err := ParseExportDate(row[dateCol])
		if err != nil {
			skipped++
			continue
		}
		records = append(records, Record{When: when, Conversation: row[convCol]})
	}

	return records, skipped, nil
}

// Transcripts mark turns with bare "Question:" and "AI Response:" lines.
var turnMarkerPattern = regexp.MustCompile(`(?m)^(Question|AI Response):[ \t]*(?:\n|$)`)

// ParseConversation splits a transcript on its turn markers into role-tagged
// draft messages. Empty turns are dropped; content is escaped so it cannot
// introduce org headlines.
func ParseConversation(text string) []org.DraftMessage {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	locs := turnMarkerPattern.FindAllStringSubmatchIndex(text, -1)

	var messages []org.DraftMessage
	for i, loc := range locs {
		role := types.RoleUser
		if text[loc[2]:loc[3]] == "AI Response" {
			role = types.RoleAssistant
		}

		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		content := strings.TrimSpace(text[loc[1]:end])
		if content == "" {
			continue
		}

		messages = append(messages, org.DraftMessage{Role: role, Content: org.EscapeHeadlines(content)})
	}

	return messages
}

// makeTopic derives a conversation topic from the first user turn.
func makeTopic(messages []org.DraftMessage) string {
	for _, msg := range messages {
		if msg.Role != types.RoleUser {
			continue
		}
		line := msg.Content
		if idx := strings.IndexByte(line, '\n'); idx >= 0 {
			line = line[:idx]
		}
		line = strings.TrimSpace(line)
		if len(line) > 60 {
			return line[:57] + "..."
		}
		return line
	}
	return "Conversation"
}

// timedConversation keeps the original timestamp so conversations can be
// ordered within a day before serialization.
type timedConversation struct {
	when  time.Time
	draft org.DraftConversation
}

// Day is all the conversations exported for one calendar date.
type Day struct {
	Date          time.Time
	Conversations []org.DraftConversation
}

// GroupByDay buckets records per calendar date, ordering conversations within
// each day by time and days chronologically. Records whose transcript yields
// no messages are dropped.
func GroupByDay(records []Record) []Day {
	buckets := make(map[string][]timedConversation)
	for _, rec := range records {
		messages := ParseConversation(rec.Conversation)
		if len(messages) == 0 {
			continue
		}
		key := rec.When.Format("2006-01-02")
		buckets[key] = append(buckets[key], timedConversation{
			when:  rec.When,
			draft: org.DraftConversation{Topic: makeTopic(messages), Messages: messages},
		})
	}

	keys := make([]string, 0, len(buckets))
	for key := range buckets {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	days := make([]Day, 0, len(keys))
	for _, key := range keys {
		bucket := buckets[key]
		sort.SliceStable(bucket, func(i, j int) bool { return bucket[i].when.Before(bucket[j].when) })

		date, _ := time.Parse("2006-01-02", key)
		day := Day{Date: date}
		for _, tc := range bucket {
			day.Conversations = append(day.Conversations, tc.draft)
		}
		days = append(days, day)
	}

	return days
}

// WriteResult summarizes one written org file.
type WriteResult struct {
	Path          string
	Conversations int
	Converged     bool
}

// WriteOrgFiles serializes each day to <outDir>/YYYY-MM-DD.org.
func WriteOrgFiles(days []Day, outDir string) ([]WriteResult, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	results := make([]WriteResult, 0, len(days))
	for _, day := range days {
		content, converged := org.BuildDocument(day.Conversations)
		path := filepath.Join(outDir, day.Date.Format("2006-01-02")+".org")
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return results, fmt.Errorf("write %s: %w", path, err)
		}
		results = append(results, WriteResult{Path: path, Conversations: len(day.Conversations), Converged: converged})
	}

	return results, nil
}
