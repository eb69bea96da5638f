package convert

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quietloop/dailies/pkg/org"
	"github.com/quietloop/dailies/pkg/types"
)

func TestParseExportDate(t *testing.T) {
	when, err := ParseExportDate("3/14/24, 9:05 AM")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 14, 9, 5, 0, 0, time.UTC), when)

	when, err = ParseExportDate("12/1/23, 11:30 PM")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, 12, 1, 23, 30, 0, 0, time.UTC), when)

	_, err = ParseExportDate("2024-03-14")
	assert.Error(t, err)
}

func TestParseConversation(t *testing.T) {
	text := strings.Join([]string{
		"Question:",
		"How do I reverse a string in Go?",
		"AI Response:",
		"Convert to runes, swap in place, convert back.",
		"Question:",
		"What about grapheme clusters?",
		"AI Response:",
		"Those need a segmentation library.",
	}, "\n")

	messages := ParseConversation(text)
	require.Len(t, messages, 4)

	assert.Equal(t, types.RoleUser, messages[0].Role)
	assert.Equal(t, "How do I reverse a string in Go?", messages[0].Content)
	assert.Equal(t, types.RoleAssistant, messages[1].Role)
	assert.Equal(t, "Convert to runes, swap in place, convert back.", messages[1].Content)
	assert.Equal(t, types.RoleUser, messages[2].Role)
	assert.Equal(t, types.RoleAssistant, messages[3].Role)
}

func TestParseConversation_CRLF(t *testing.T) {
	text := "Question:\r\nwindows export\r\nAI Response:\r\nstill works\r\n"
	messages := ParseConversation(text)
	require.Len(t, messages, 2)
	assert.Equal(t, "windows export", messages[0].Content)
	assert.Equal(t, "still works", messages[1].Content)
}

func TestParseConversation_EmptyTurnsDropped(t *testing.T) {
	text := "Question:\nAI Response:\nonly the answer has content\n"
	messages := ParseConversation(text)
	require.Len(t, messages, 1)
	assert.Equal(t, types.RoleAssistant, messages[0].Role)
}

func TestParseConversation_EscapesHeadlines(t *testing.T) {
	text := "Question:\n* this would be a headline\nAI Response:\nok\n"
	messages := ParseConversation(text)
	require.Len(t, messages, 2)
	assert.Equal(t, "- this would be a headline", messages[0].Content)
}

func TestParseConversation_NoMarkers(t *testing.T) {
	assert.Empty(t, ParseConversation("free-form text without any markers"))
}

func TestMakeTopic(t *testing.T) {
	t.Run("first user line", func(t *testing.T) {
		messages := []org.DraftMessage{
			{Role: types.RoleAssistant, Content: "ignored"},
			{Role: types.RoleUser, Content: "short question\nwith a second line"},
		}
		assert.Equal(t, "short question", makeTopic(messages))
	})

	t.Run("long line truncated", func(t *testing.T) {
		long := strings.Repeat("q", 80)
		topic := makeTopic([]org.DraftMessage{{Role: types.RoleUser, Content: long}})
		assert.Len(t, topic, 60)
		assert.True(t, strings.HasSuffix(topic, "..."))
	})

	t.Run("fallback", func(t *testing.T) {
		assert.Equal(t, "Conversation", makeTopic(nil))
	})
}

func TestReadHistory(t *testing.T) {
	csvData := strings.Join([]string{
		`Date,Conversation`,
		`"3/14/24, 9:05 AM","Question:` + "\n" + `hello` + "\n" + `AI Response:` + "\n" + `hi there"`,
		`"not a date","Question:` + "\n" + `dropped"`,
		`"3/15/24, 1:00 PM","Question:` + "\n" + `second day"`,
	}, "\n")

	records, skipped, err := ReadHistory(strings.NewReader(csvData))
	require.NoError(t, err)
	assert.Equal(t, 1, skipped)
	require.Len(t, records, 2)

	assert.Equal(t, time.Date(2024, 3, 14, 9, 5, 0, 0, time.UTC), records[0].When)
	assert.Contains(t, records[0].Conversation, "hello")
}

func TestReadHistory_MissingColumns(t *testing.T) {
	_, _, err := ReadHistory(strings.NewReader("Time,Text\n1,2\n"))
	assert.Error(t, err)
}

func TestGroupByDay(t *testing.T) {
	mk := func(when string, text string) Record {
		ts, err := time.Parse("2006-01-02 15:04", when)
		require.NoError(t, err)
		return Record{When: ts, Conversation: text}
	}
	transcript := func(q string) string {
		return "Question:\n" + q + "\nAI Response:\nanswer\n"
	}

	days := GroupByDay([]Record{
		mk("2024-03-15 10:00", transcript("later day")),
		mk("2024-03-14 16:00", transcript("afternoon")),
		mk("2024-03-14 09:00", transcript("morning")),
		mk("2024-03-14 12:00", "no markers, dropped"),
	})

	require.Len(t, days, 2)
	assert.Equal(t, "2024-03-14", days[0].Date.Format("2006-01-02"))
	assert.Equal(t, "2024-03-15", days[1].Date.Format("2006-01-02"))

	require.Len(t, days[0].Conversations, 2)
	assert.Equal(t, "morning", days[0].Conversations[0].Topic)
	assert.Equal(t, "afternoon", days[0].Conversations[1].Topic)
}

func TestWriteOrgFiles(t *testing.T) {
	dir := t.TempDir()

	days := GroupByDay([]Record{{
		When:         time.Date(2024, 3, 14, 9, 0, 0, 0, time.UTC),
		Conversation: "Question:\nhello\nAI Response:\nhi there\n",
	}})
	require.Len(t, days, 1)

	results, err := WriteOrgFiles(days, dir)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].Converged)
	assert.Equal(t, 1, results[0].Conversations)

	path := filepath.Join(dir, "2024-03-14.org")
	assert.Equal(t, path, results[0].Path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, ":GPTEL_BOUNDS: ((response (")
	assert.Contains(t, content, "* hello\n")
	assert.Contains(t, content, "hi there")
}

func TestConvertedFilesRoundTrip(t *testing.T) {
	dir := t.TempDir()

	days := GroupByDay([]Record{{
		When:         time.Date(2024, 3, 14, 9, 0, 0, 0, time.UTC),
		Conversation: "Question:\nexplain interfaces\nAI Response:\nAn interface is a method set contract.\n",
	}})
	_, err := WriteOrgFiles(days, dir)
	require.NoError(t, err)

	conversations, failures, err := org.ParseGlob(dir, "*.org")
	require.NoError(t, err)
	assert.Empty(t, failures)
	require.Len(t, conversations, 1)

	conv := conversations[0]
	assert.Equal(t, time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC), conv.Date)

	last := conv.Messages[len(conv.Messages)-1]
	assert.Equal(t, types.RoleAssistant, last.Role)
	assert.Equal(t, "An interface is a method set contract.", last.Content)
}
