// Package report renders terminal and HTML views of stored conversation
// data.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/quietloop/dailies/pkg/stats"
	"github.com/quietloop/dailies/pkg/store"
	"github.com/quietloop/dailies/pkg/types"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99"))

	cellStyle = lipgloss.NewStyle().
			Padding(0, 1)

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

// Renderer writes reports to a single destination, usually stdout.
type Renderer struct {
	w io.Writer
}

// NewRenderer creates a Renderer writing to w.
func NewRenderer(w io.Writer) *Renderer {
	return &Renderer{w: w}
}

func (r *Renderer) title(s string) {
	fmt.Fprintln(r.w, titleStyle.Render(s))
}

func (r *Renderer) newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(mutedStyle).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle.Padding(0, 1)
			}
			return cellStyle
		}).
		Headers(headers...)
}

// Summary prints the overall usage summary and the busiest days.
func (r *Renderer) Summary(summary stats.Summary, topDays []types.DailyStats) {
	r.title("Usage summary")

	t := r.newTable("Metric", "Value")
	t.Row("Days", strconv.Itoa(summary.TotalDays))
	t.Row("Conversations", strconv.Itoa(summary.TotalConversations))
	t.Row("Messages", strconv.Itoa(summary.TotalMessages))
	t.Row("User tokens", strconv.Itoa(summary.UserTokens))
	t.Row("Assistant tokens", strconv.Itoa(summary.AssistantTokens))
	t.Row("Avg messages/day", fmt.Sprintf("%.1f", summary.AvgMessagesPerDay))
	if !summary.FirstDate.IsZero() {
		t.Row("First day", summary.FirstDate.Format("2006-01-02"))
		t.Row("Last day", summary.LastDate.Format("2006-01-02"))
	}
	if !summary.MostActiveDay.Date.IsZero() {
		t.Row("Most active day", fmt.Sprintf("%s (%d messages)",
			summary.MostActiveDay.Date.Format("2006-01-02"),
			summary.MostActiveDay.TotalMessages))
	}
	fmt.Fprintln(r.w, t)

	if len(topDays) == 0 {
		return
	}

	fmt.Fprintln(r.w)
	r.title("Busiest days")
	t = r.newTable("Date", "Conversations", "Messages", "Tokens")
	for _, day := range topDays {
		t.Row(
			day.Date.Format("2006-01-02"),
			strconv.Itoa(day.ConversationCount),
			strconv.Itoa(day.TotalMessages),
			strconv.Itoa(day.UserTokens+day.AssistantTokens),
		)
	}
	fmt.Fprintln(r.w, t)
}

// Distribution prints a labeled count table under the given title.
func (r *Renderer) Distribution(title, label string, dist []store.Distribution) {
	r.title(title)
	if len(dist) == 0 {
		fmt.Fprintln(r.w, mutedStyle.Render("no data"))
		return
	}

	t := r.newTable(label, "Count")
	for _, d := range dist {
		t.Row(d.Label, strconv.Itoa(d.Count))
	}
	fmt.Fprintln(r.w, t)
}

// Insights prints extracted insights, strongest first.
func (r *Renderer) Insights(insights []store.InsightRow) {
	r.title("Insights")
	if len(insights) == 0 {
		fmt.Fprintln(r.w, mutedStyle.Render("no insights extracted yet"))
		return
	}

	t := r.newTable("Category", "Confidence", "Title", "Summary", "Tags")
	for _, ins := range insights {
		t.Row(
			ins.Category,
			fmt.Sprintf("%.2f", ins.Confidence),
			wrap(ins.Title, 30),
			wrap(ins.Summary, 50),
			strings.Join(ins.Tags, ", "),
		)
	}
	fmt.Fprintln(r.w, t)
}

// SearchResults prints semantic search hits with their similarity scores.
func (r *Renderer) SearchResults(results []store.SearchResult) {
	r.title("Search results")
	if len(results) == 0 {
		fmt.Fprintln(r.w, mutedStyle.Render("no matches"))
		return
	}

	t := r.newTable("Score", "Date", "Topic", "Summary")
	for _, res := range results {
		date := ""
		if !res.Date.IsZero() {
			date = res.Date.Format("2006-01-02")
		}
		t.Row(
			fmt.Sprintf("%.3f", res.Similarity),
			date,
			wrap(res.Topic, 30),
			wrap(res.Summary, 50),
		)
	}
	fmt.Fprintln(r.w, t)
}

// wrap breaks s into lines of at most width characters, splitting on spaces.
func wrap(s string, width int) string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return s
	}

	var b strings.Builder
	lineLen := 0
	for i, word := range words {
		if i > 0 {
			if lineLen+1+len(word) > width {
				b.WriteByte('\n')
				lineLen = 0
			} else {
				b.WriteByte(' ')
				lineLen++
			}
		}
		b.WriteString(word)
		lineLen += len(word)
	}
	return b.String()
}
