// Copyright (c) 2026 Facilia. All rights reserved.
// Author: platform@facilia.app

package search_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/facilia/facilia/pkg/search"
)

/*
TestFold verifies the normalization pipeline used by the location search.
*/
func TestFold(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercase_passthrough", "building a", "building a"},
		{"uppercase", "Building A", "building a"},
		{"accents_removed", "Café Corné", "cafe corne"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, search.Fold(tt.input))
		})
	}
}

/*
TestContains checks case- and accent-insensitive substring matching.
*/
func TestContains(t *testing.T) {
	tests := []struct {
		name   string
		s      string
		substr string
		want   bool
	}{
		{"exact", "Main Campus", "Main Campus", true},
		{"case_insensitive", "Main Campus", "main campus", true},
		{"partial", "Building B - Floor 2", "floor", true},
		{"accent_insensitive", "Entrepôt Nord", "entrepot", true},
		{"empty_query_matches", "Room 204", "", true},
		{"no_match", "Room 204", "warehouse", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, search.Contains(tt.s, tt.substr))
		})
	}
}
