package org

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"time"

	"github.com/gobwas/glob"

	"github.com/quietloop/dailies/pkg/types"
)

// ExtractMessages walks content left to right, alternating user spans
// (outside bounds) and assistant spans (inside bounds). Bounds are 0-based
// offsets into content, sorted by start before the sweep; overlap is not
// detected, the sweep trusts its input. Spans whose stripped text is empty
// are dropped, so at most 2N+1 messages come back for N bounds.
func ExtractMessages(content string, bounds []Bound) []types.Message {
	if len(bounds) == 0 {
		return nil
	}

	sorted := make([]Bound, len(bounds))
	copy(sorted, bounds)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	var messages []types.Message
	cursor := 0

	for _, b := range sorted {
		if b.Start > cursor {
			if text := StripFormatting(slice(content, cursor, b.Start)); text != "" {
				messages = append(messages, types.Message{
					Role:      types.RoleUser,
					Content:   text,
					CharStart: cursor,
					CharEnd:   b.Start,
				})
			}
		}

		if text := StripFormatting(slice(content, b.Start, b.End)); text != "" {
			messages = append(messages, types.Message{
				Role:      types.RoleAssistant,
				Content:   text,
				CharStart: b.Start,
				CharEnd:   b.End,
			})
		}

		cursor = b.End
	}

	if cursor < len(content) {
		if text := StripFormatting(content[cursor:]); text != "" {
			messages = append(messages, types.Message{
				Role:      types.RoleUser,
				Content:   text,
				CharStart: cursor,
				CharEnd:   len(content),
			})
		}
	}

	return messages
}

// slice indexes content with out-of-range tolerance, so bounds that overshoot
// the buffer yield short or empty spans instead of panicking.
func slice(content string, start, end int) string {
	if start < 0 {
		start = 0
	}
	if end > len(content) {
		end = len(content)
	}
	if start >= end {
		return ""
	}
	return content[start:end]
}

var dailyFilenamePattern = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})\.org$`)

// ParseDate extracts the date encoded in an org-roam daily filename
// (YYYY-MM-DD.org). The zero time is returned for other filenames.
func ParseDate(path string) time.Time {
	m := dailyFilenamePattern.FindStringSubmatch(filepath.Base(path))
	if m == nil {
		return time.Time{}
	}
	t, err := time.Parse("2006-01-02", m[1])
	if err != nil {
		return time.Time{}
	}
	return t
}

// ParseDocument extracts conversations from org file content.
//
// The file-level properties block carries the bounds for the whole file; no
// bounds means no gptel content and zero conversations. When top-level
// headlines exist, each one becomes a separate conversation holding the
// bounds fully contained in its range (rebased to section-relative offsets);
// otherwise the whole document is a single conversation.
func ParseDocument(path, content string) []types.Conversation {
	fileProps, _ := ExtractProperties(content, 0)
	if len(fileProps.Bounds) == 0 {
		return nil
	}

	// On-disk bounds are 1-based Emacs buffer positions.
	bounds := rebase(fileProps.Bounds)
	date := ParseDate(path)

	sections := FindTopLevelSections(content)
	if len(sections) == 0 {
		messages := ExtractMessages(content, bounds)
		if len(messages) == 0 {
			return nil
		}
		return []types.Conversation{{
			FilePath:     path,
			Date:         date,
			Topic:        fileProps.Topic,
			Model:        fileProps.Model,
			SystemPrompt: fileProps.System,
			Messages:     messages,
		}}
	}

	var conversations []types.Conversation
	for _, section := range sections {
		sectionBounds := FilterBoundsForSection(bounds, section.StartPos, section.EndPos)
		if len(sectionBounds) == 0 {
			continue
		}

		adjusted := make([]Bound, len(sectionBounds))
		for i, b := range sectionBounds {
			adjusted[i] = Bound{Start: b.Start - section.StartPos, End: b.End - section.StartPos}
		}

		messages := ExtractMessages(slice(content, section.StartPos, section.EndPos), adjusted)
		if len(messages) == 0 {
			continue
		}

		topic := section.Topic
		if topic == "" {
			topic = section.Title
		}

		conversations = append(conversations, types.Conversation{
			FilePath:     path,
			Date:         date,
			Topic:        topic,
			Model:        fileProps.Model,
			SystemPrompt: fileProps.System,
			Messages:     messages,
		})
	}

	return conversations
}

// rebase converts 1-based buffer positions to 0-based string offsets.
func rebase(bounds []Bound) []Bound {
	rebased := make([]Bound, len(bounds))
	for i, b := range bounds {
		start, end := b.Start-1, b.End-1
		if start < 0 {
			start = 0
		}
		if end < 0 {
			end = 0
		}
		rebased[i] = Bound{Start: start, End: end}
	}
	return rebased
}

// ParseFile reads an org file and extracts its conversations.
func ParseFile(path string) ([]types.Conversation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read org file: %w", err)
	}
	return ParseDocument(path, string(data)), nil
}

// FileError records a per-file failure during directory processing. Failures
// never abort the batch; callers decide whether to log and continue.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string { return fmt.Sprintf("parse %s: %v", e.Path, e.Err) }

func (e *FileError) Unwrap() error { return e.Err }

// ParseDirectory parses every *.org file in a directory, in filename order.
func ParseDirectory(dir string) ([]types.Conversation, []FileError, error) {
	return ParseGlob(dir, "*.org")
}

// ParseGlob parses the org files in dir whose names match pattern. Files that
// fail to parse are reported in the second return value and skipped.
func ParseGlob(dir, pattern string) ([]types.Conversation, []FileError, error) {
	matcher, err := glob.Compile(pattern)
	if err != nil {
		return nil, nil, fmt.Errorf("compile glob %q: %w", pattern, err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("read directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !matcher.Match(entry.Name()) {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	var conversations []types.Conversation
	var failures []FileError
	for _, name := range names {
		path := filepath.Join(dir, name)
		convs, err := ParseFile(path)
		if err != nil {
			failures = append(failures, FileError{Path: path, Err: err})
			continue
		}
		conversations = append(conversations, convs...)
	}

	return conversations, failures, nil
}
