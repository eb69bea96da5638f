// Package org parses org-mode files carrying gptel annotations into
// conversations, and serializes conversations back into annotated org
// documents.
//
// The gptel Emacs package marks assistant response regions with a
// GPTEL_BOUNDS property holding character ranges. Everything outside those
// ranges is user input. This package decodes that annotation format (both the
// legacy dotted encoding and the current tagged encoding), splits files into
// top-level sections, extracts role-tagged messages, and computes new bounds
// when building documents from scratch.
package org

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Bound is a half-open (Start, End) offset range marking a gptel response
// region. On disk the values are 1-based Emacs buffer positions; within this
// package all extraction runs over 0-based offsets.
type Bound struct {
	Start int
	End   int
}

var (
	taggedPairPattern = regexp.MustCompile(`\((\d+)\s+(\d+)\)`)
	dottedPairPattern = regexp.MustCompile(`\((\d+)\s*\.\s*(\d+)\)`)
)

// ParseBounds decodes a GPTEL_BOUNDS property value into ordered bounds.
//
// Both historical encodings are supported:
//   - tagged:  ((response (1116 2260) (2648 3860)))
//   - dotted:  ((1807 . 3547) (4010 . 5200))
//
// Malformed input is not an error; whatever pairs match the pattern are
// returned, possibly none.
func ParseBounds(raw string) []Bound {
	if raw == "" {
		return nil
	}

	pattern := dottedPairPattern
	if strings.Contains(raw, "response") {
		pattern = taggedPairPattern
	}

	var bounds []Bound
	for _, m := range pattern.FindAllStringSubmatch(raw, -1) {
		start, _ := strconv.Atoi(m[1])
		end, _ := strconv.Atoi(m[2])
		bounds = append(bounds, Bound{Start: start, End: end})
	}
	return bounds
}

// EncodeBounds renders bounds in the tagged gptel format, the form Emacs
// expects when it reloads an annotated file. An empty slice encodes as the
// bare ((response)) placeholder.
func EncodeBounds(bounds []Bound) string {
	if len(bounds) == 0 {
		return "((response))"
	}
	pairs := make([]string, len(bounds))
	for i, b := range bounds {
		pairs[i] = fmt.Sprintf("(%d %d)", b.Start, b.End)
	}
	return "((response " + strings.Join(pairs, " ") + "))"
}
