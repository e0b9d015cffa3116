package location

// Type classifies a node in the facility hierarchy.
type Type string

const (
	TypeCampus   Type = "campus"
	TypeBuilding Type = "building"
	TypeFloor    Type = "floor"
	TypeRoom     Type = "room"
)

// Node is one location in the facility tree as the upstream API delivers it.
//
// The hierarchy is a tree, never a graph: no node is its own ancestor.
// Depth is derived during flattening, not stored.
type Node struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Type     Type   `json:"type"`
	Children []Node `json:"children"`
}

// Flat is the projection the mobile picker consumes: the tree collapsed
// into one ordered list, each entry annotated with its nesting depth so the
// UI can indent it.
type Flat struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Depth int    `json:"depth"`
	Type  Type   `json:"type"`
}
