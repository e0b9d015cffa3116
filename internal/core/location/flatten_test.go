// Copyright (c) 2026 Facilia. All rights reserved.
// Author: platform@facilia.app

package location_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facilia/facilia/internal/core/location"
)

// sampleForest mirrors a small campus: one campus, one building with two
// floors, plus a detached building.
func sampleForest() []location.Node {
	return []location.Node{
		{
			ID: "campus-1", Name: "Main Campus", Type: location.TypeCampus,
			Children: []location.Node{
				{
					ID: "bldg-a", Name: "Building A", Type: location.TypeBuilding,
					Children: []location.Node{
						{ID: "floor-1", Name: "Floor 1", Type: location.TypeFloor, Children: []location.Node{
							{ID: "room-101", Name: "Room 101", Type: location.TypeRoom},
						}},
						{ID: "floor-2", Name: "Floor 2", Type: location.TypeFloor},
					},
				},
			},
		},
		{ID: "bldg-x", Name: "Annex", Type: location.TypeBuilding},
	}
}

/*
TestFlatten_Order verifies pre-order emission and depth annotation.
*/
func TestFlatten_Order(t *testing.T) {
	flat := location.Flatten(sampleForest())

	wantIDs := []string{"campus-1", "bldg-a", "floor-1", "room-101", "floor-2", "bldg-x"}
	wantDepths := []int{0, 1, 2, 3, 2, 0}

	require.Len(t, flat, len(wantIDs))
	for i := range wantIDs {
		assert.Equal(t, wantIDs[i], flat[i].ID, "index %d", i)
		assert.Equal(t, wantDepths[i], flat[i].Depth, "index %d", i)
	}
}

/*
TestFlatten_MinimalTree encodes the canonical two-node case: a parent with
one child flattens to [parent@0, child@1].
*/
func TestFlatten_MinimalTree(t *testing.T) {
	flat := location.Flatten([]location.Node{
		{ID: "A", Name: "A", Type: location.TypeBuilding, Children: []location.Node{
			{ID: "B", Name: "B", Type: location.TypeFloor},
		}},
	})

	require.Len(t, flat, 2)
	assert.Equal(t, location.Flat{ID: "A", Name: "A", Depth: 0, Type: location.TypeBuilding}, flat[0])
	assert.Equal(t, location.Flat{ID: "B", Name: "B", Depth: 1, Type: location.TypeFloor}, flat[1])
}

/*
TestFlatten_Empty checks the empty-forest contract.
*/
func TestFlatten_Empty(t *testing.T) {
	flat := location.Flatten(nil)
	require.NotNil(t, flat)
	assert.Empty(t, flat)
}

/*
TestFlatten_DeepNesting checks there is no artificial depth limit.
*/
func TestFlatten_DeepNesting(t *testing.T) {
	const depth = 200

	node := location.Node{ID: "leaf", Name: "leaf", Type: location.TypeRoom}
	for i := depth - 1; i > 0; i-- {
		node = location.Node{ID: "n", Name: "n", Type: location.TypeFloor, Children: []location.Node{node}}
	}

	flat := location.Flatten([]location.Node{node})
	require.Len(t, flat, depth)
	assert.Equal(t, depth-1, flat[depth-1].Depth)
}

/*
TestFilter_Monotonicity checks the two filter laws: every result appears in
the unfiltered list, and every unfiltered entry not containing the query is
absent from the result.
*/
func TestFilter_Monotonicity(t *testing.T) {
	flat := location.Flatten(sampleForest())
	query := "floor"

	filtered := location.Filter(flat, query)

	index := make(map[string]location.Flat, len(flat))
	for _, entry := range flat {
		index[entry.ID] = entry
	}

	for _, entry := range filtered {
		_, present := index[entry.ID]
		assert.True(t, present, "filtered entry %s must exist in the unfiltered list", entry.ID)
		assert.Contains(t, strings.ToLower(entry.Name), query)
	}

	for _, entry := range flat {
		if !strings.Contains(strings.ToLower(entry.Name), query) {
			for _, kept := range filtered {
				assert.NotEqual(t, entry.ID, kept.ID)
			}
		}
	}
}

/*
TestFilter_Behavior covers the query-handling edge cases.
*/
func TestFilter_Behavior(t *testing.T) {
	flat := location.Flatten(sampleForest())

	t.Run("empty_query_returns_all_in_order", func(t *testing.T) {
		assert.Equal(t, flat, location.Filter(flat, ""))
	})

	t.Run("case_insensitive", func(t *testing.T) {
		result := location.Filter(flat, "ANNEX")
		require.Len(t, result, 1)
		assert.Equal(t, "bldg-x", result[0].ID)
	})

	t.Run("matches_name_only_not_id_or_type", func(t *testing.T) {
		// "campus" appears in ids and types but only one name contains it.
		result := location.Filter(flat, "campus")
		require.Len(t, result, 1)
		assert.Equal(t, "Main Campus", result[0].Name)
	})

	t.Run("no_match_yields_empty_not_nil", func(t *testing.T) {
		result := location.Filter(flat, "warehouse")
		require.NotNil(t, result)
		assert.Empty(t, result)
	})
}
