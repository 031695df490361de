package ast

import "reflect"

// Tree is the arena owning the nodes of one validation run
type Tree struct {
	nodes []Node
}

// NewTree creates an empty arena
func NewTree() *Tree {
	return &Tree{}
}

// Add registers n in the arena and returns its handle. A node already owned
// by this arena keeps its handle.
func (t *Tree) Add(n Node) NodeID {
	b := n.base()
	if b.NodeID != NoNode && t.owns(b.NodeID, n) {
		return b.NodeID
	}
	t.nodes = append(t.nodes, n)
	b.NodeID = NodeID(len(t.nodes))
	return b.NodeID
}

func (t *Tree) owns(id NodeID, n Node) bool {
	idx := int(id) - 1
	return idx >= 0 && idx < len(t.nodes) && t.nodes[idx] == n
}

// Adopt records parent as the parent of every non-nil child. Children are
// registered first if needed.
func (t *Tree) Adopt(parent Node, children ...Node) {
	pid := t.Add(parent)
	for _, child := range children {
		if isNil(child) {
			continue
		}
		t.Add(child)
		child.base().ParentID = pid
	}
}

// Node resolves a handle; it returns nil for NoNode or a foreign handle
func (t *Tree) Node(id NodeID) Node {
	idx := int(id) - 1
	if idx < 0 || idx >= len(t.nodes) {
		return nil
	}
	return t.nodes[idx]
}

// Parent returns the parent node of n, or nil for a root
func (t *Tree) Parent(n Node) Node {
	return t.Node(n.Parent())
}

// Len is the number of nodes in the arena
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Ancestor walks up from n and returns the first ancestor accepted by match.
func (t *Tree) Ancestor(n Node, match func(Node) bool) Node {
	for p := t.Parent(n); p != nil; p = t.Parent(p) {
		if match(p) {
			return p
		}
	}
	return nil
}

// isNil catches typed nil pointers stored in interfaces, such as an absent else branch
func isNil(n Node) bool {
	if n == nil {
		return true
	}
	v := reflect.ValueOf(n)
	return v.Kind() == reflect.Ptr && v.IsNil()
}
