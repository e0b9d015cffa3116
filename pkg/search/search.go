// Copyright (c) 2026 Facilia. All rights reserved.
// Author: platform@facilia.app

// Package search provides case- and accent-insensitive text matching.
//
// # Usage
//
// The location picker filters the flattened location list by a free-text
// query typed on a phone keyboard. Mobile keyboards auto-capitalize and may
// insert composed accented characters, so matching must be tolerant of both.
package search

import (
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold normalizes a string for matching.
//
// # Transformation Pipeline
//
// 1. Normalizes to NFD (decomposes accented chars: é → e + combining acute).
// 2. Removes combining marks (accents).
// 3. Converts to lowercase.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn))
	result, _, err := transform.String(t, s)
	if err != nil {
		// Malformed input falls back to plain lowercasing.
		return strings.ToLower(s)
	}
	return strings.ToLower(result)
}

// Contains reports whether s contains substr under folding.
//
// An empty substr matches everything, mirroring [strings.Contains].
func Contains(s, substr string) bool {
	return strings.Contains(Fold(s), Fold(substr))
}

// isMn reports whether r is a Unicode non-spacing mark (e.g., accents).
func isMn(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}
