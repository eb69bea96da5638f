package org

import (
	"regexp"
	"strings"
)

// Section is a contiguous [StartPos, EndPos) region of an org file owned by
// one top-level headline. Sections never overlap; the last one ends at the
// end of the file.
type Section struct {
	Title    string
	StartPos int
	EndPos   int
	Topic    string
}

// Only a single asterisk followed by a space counts as top level. Nested
// headlines use two or more asterisks and must not match.
var topLevelHeadlinePattern = regexp.MustCompile(`(?m)^\* .+$`)

// FindTopLevelSections locates every top-level headline and returns the
// sections they delimit, in order of appearance. Each section's Topic is read
// from its own properties block when present.
func FindTopLevelSections(content string) []Section {
	var sections []Section

	for _, loc := range topLevelHeadlinePattern.FindAllStringIndex(content, -1) {
		title := strings.TrimSpace(content[loc[0]+2 : loc[1]])
		sections = append(sections, Section{Title: title, StartPos: loc[0], EndPos: len(content)})
	}

	for i := 0; i < len(sections)-1; i++ {
		sections[i].EndPos = sections[i+1].StartPos
	}

	for i := range sections {
		props, _ := ExtractProperties(content[sections[i].StartPos:sections[i].EndPos], 0)
		sections[i].Topic = props.Topic
	}

	return sections
}

// FilterBoundsForSection keeps only bounds fully contained in the section
// range. A bound straddling a section boundary is excluded here and, because
// containment is exclusive, from every other section as well.
func FilterBoundsForSection(bounds []Bound, sectionStart, sectionEnd int) []Bound {
	var filtered []Bound
	for _, b := range bounds {
		if b.Start >= sectionStart && b.End <= sectionEnd {
			filtered = append(filtered, b)
		}
	}
	return filtered
}
