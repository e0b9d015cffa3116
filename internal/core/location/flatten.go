// Copyright (c) 2026 Facilia. All rights reserved.
// Author: platform@facilia.app

package location

import (
	"github.com/facilia/facilia/pkg/search"
	"github.com/facilia/facilia/pkg/slice"
)

// Flatten projects a forest of location nodes into a single ordered list.
//
// # Contract
//
// Pre-order traversal: each node is emitted before its children, children
// in their original order, depth incremented by one per nesting level
// (roots at depth 0). The function is pure and deterministic; it never
// fails for well-formed tree input, and an empty forest yields an empty
// (non-nil) list.
//
// Search filtering is deliberately NOT fused into this traversal — it runs
// as a separate pass over the flattened output (see [Filter]) so a changed
// query can be re-evaluated without re-walking the tree.
func Flatten(roots []Node) []Flat {
	flat := make([]Flat, 0, len(roots))
	for _, root := range roots {
		flat = appendSubtree(flat, root, 0)
	}
	return flat
}

// appendSubtree walks one subtree, emitting the node before its children.
func appendSubtree(flat []Flat, node Node, depth int) []Flat {
	flat = append(flat, Flat{
		ID:    node.ID,
		Name:  node.Name,
		Depth: depth,
		Type:  node.Type,
	})

	for _, child := range node.Children {
		flat = appendSubtree(flat, child, depth+1)
	}

	return flat
}

// Filter returns the entries whose name contains the query, case- and
// accent-insensitively. Matching considers the name only — never the type
// or the id. An empty query returns the input unchanged, preserving the
// original pre-order.
func Filter(flat []Flat, query string) []Flat {
	if query == "" {
		return flat
	}

	result := slice.Filter(flat, func(entry Flat) bool {
		return search.Contains(entry.Name, query)
	})
	if result == nil {
		return []Flat{}
	}
	return result
}
