package org

import (
	"regexp"
	"strings"
)

// Properties holds the gptel metadata read from a :PROPERTIES: block.
type Properties struct {
	Model   string
	Backend string
	System  string
	Bounds  []Bound
	Topic   string
}

var propertiesBlockPattern = regexp.MustCompile(`(?s):PROPERTIES:\s*\n(.*?):END:`)

// ExtractProperties finds the first properties block at or after startPos and
// pulls the GPTEL_* properties out of it. It returns the properties and the
// offset just past the block; if no block exists, startPos is returned
// unchanged with zero properties.
func ExtractProperties(content string, startPos int) (Properties, int) {
	var props Properties

	loc := propertiesBlockPattern.FindStringSubmatchIndex(content[startPos:])
	if loc == nil {
		return props, startPos
	}

	body := content[startPos+loc[2] : startPos+loc[3]]
	endPos := startPos + loc[1]

	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, ":GPTEL_MODEL:"):
			props.Model = propertyValue(line)
		case strings.HasPrefix(line, ":GPTEL_BACKEND:"):
			props.Backend = propertyValue(line)
		case strings.HasPrefix(line, ":GPTEL_SYSTEM:"):
			props.System = propertyValue(line)
		case strings.HasPrefix(line, ":GPTEL_BOUNDS:"):
			props.Bounds = ParseBounds(propertyValue(line))
		case strings.HasPrefix(line, ":GPTEL_TOPIC:"):
			props.Topic = propertyValue(line)
		}
	}

	return props, endPos
}

// propertyValue returns the value part of a ":NAME: value" line.
func propertyValue(line string) string {
	parts := strings.SplitN(line, ":", 3)
	if len(parts) < 3 {
		return ""
	}
	return strings.TrimSpace(parts[2])
}
