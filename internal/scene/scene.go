// Package scene defines the part-hierarchy model that the dispatch core
// synchronizes over. A loaded model is a tree of named nodes; every
// selection, highlight, focus and isolation operation references nodes by
// NodeID. Geometry, materials and rendering live entirely outside this
// package.
package scene

// NodeID uniquely identifies a node within a loaded model.
type NodeID string

// String returns the id as a string.
func (id NodeID) String() string {
	return string(id)
}

// Node is a single entry in a model's part hierarchy.
type Node struct {
	// ID uniquely identifies the node within its model.
	ID NodeID

	// Name is the human-readable part name shown in the tree view.
	Name string

	// Children are the node's sub-parts, in manifest order.
	Children []*Node
}

// Walk visits the node and its descendants depth-first, stopping early if
// fn returns false.
func (n *Node) Walk(fn func(*Node) bool) bool {
	if n == nil {
		return true
	}
	if !fn(n) {
		return false
	}
	for _, c := range n.Children {
		if !c.Walk(fn) {
			return false
		}
	}
	return true
}

// Find returns the node with the given id in this subtree, or nil.
func (n *Node) Find(id NodeID) *Node {
	var found *Node
	n.Walk(func(node *Node) bool {
		if node.ID == id {
			found = node
			return false
		}
		return true
	})
	return found
}

// Count returns the number of nodes in the subtree, including n itself.
func (n *Node) Count() int {
	count := 0
	n.Walk(func(*Node) bool {
		count++
		return true
	})
	return count
}

// Model is a loaded part hierarchy.
type Model struct {
	// ID identifies the model for the duration of the session.
	ID string

	// Root is the top of the part hierarchy.
	Root *Node
}

// Find returns the node with the given id, or nil.
func (m *Model) Find(id NodeID) *Node {
	if m == nil || m.Root == nil {
		return nil
	}
	return m.Root.Find(id)
}

// Contains reports whether the model has a node with the given id.
func (m *Model) Contains(id NodeID) bool {
	return m.Find(id) != nil
}

// AncestorPath returns the ids from the root down to (and including) the
// given node. The tree view uses this to expand ancestors when scrolling a
// selected row into view. Returns nil when the node is not in the model.
func (m *Model) AncestorPath(id NodeID) []NodeID {
	if m == nil || m.Root == nil {
		return nil
	}
	var path []NodeID
	var walk func(n *Node) bool
	walk = func(n *Node) bool {
		path = append(path, n.ID)
		if n.ID == id {
			return true
		}
		for _, c := range n.Children {
			if walk(c) {
				return true
			}
		}
		path = path[:len(path)-1]
		return false
	}
	if !walk(m.Root) {
		return nil
	}
	return path
}

// NodeIDs returns every node id in the model, depth-first.
func (m *Model) NodeIDs() []NodeID {
	if m == nil || m.Root == nil {
		return nil
	}
	ids := make([]NodeID, 0, m.Root.Count())
	m.Root.Walk(func(n *Node) bool {
		ids = append(ids, n.ID)
		return true
	})
	return ids
}
