// Copyright (c) 2026 Facilia. All rights reserved.
// Author: platform@facilia.app

/*
Package category models the issue-category taxonomy used by the wizard's
classification step.

The taxonomy is a shallow tree: top-level parents (Plumbing, Electrical, ...)
with zero or more child categories beneath them. A parent with no children is
itself a selectable terminal. Labels are localized; the upstream API serves
English and Arabic and the gateway passes both through untouched so the
client can switch locale without a refetch.
*/
package category

// Label carries the localized display names for one taxonomy node.
type Label struct {
	EN string `json:"en"`
	AR string `json:"ar"`
}

// Category is one node of the issue-category taxonomy.
type Category struct {
	ID       string     `json:"id"`
	Label    Label      `json:"label"`
	Icon     Icon       `json:"icon"`
	Color    string     `json:"color"`
	Children []Category `json:"children"`
}

// Terminal reports whether the node is directly selectable as the draft's
// final category. A parent with no children is terminal itself.
func (category Category) Terminal() bool {
	return len(category.Children) == 0
}

// Find returns the node with the given id, searching the forest depth-first.
// Returns nil when the id is not part of the taxonomy.
func Find(forest []Category, id string) *Category {
	for index := range forest {
		if forest[index].ID == id {
			return &forest[index]
		}
		if match := Find(forest[index].Children, id); match != nil {
			return match
		}
	}
	return nil
}

// IsDescendantOrSelf reports whether childID names parentID itself or one of
// its descendants. It is the invariant the wizard enforces between the
// selected parent and the selected category.
func IsDescendantOrSelf(forest []Category, parentID, childID string) bool {
	parent := Find(forest, parentID)
	if parent == nil {
		return false
	}
	if parent.ID == childID {
		return true
	}
	return Find(parent.Children, childID) != nil
}
