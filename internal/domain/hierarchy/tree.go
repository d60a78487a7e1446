package hierarchy

import (
	"fmt"
	"strings"
)

// NodeID is the arena handle of a node inside its tree.
type NodeID int

// noParent marks the root's parent handle.
const noParent NodeID = -1

// Node is a named vertex of the tree. Nodes are owned by their Tree; the
// parent link is a handle into the same arena, not an owning reference.
type Node struct {
	tree     *Tree
	id       NodeID
	name     string
	attrs    Attributes
	parent   NodeID
	children []NodeID
	depth    int
}

// ID returns the arena handle of the node.
func (n *Node) ID() NodeID { return n.id }

// Name returns the unique node name.
func (n *Node) Name() string { return n.name }

// Attributes returns a copy of the node's attribute vector.
func (n *Node) Attributes() Attributes { return n.attrs }

// Depth returns the number of edges between the node and the root.
func (n *Node) Depth() int { return n.depth }

// IsRoot reports whether the node has no parent.
func (n *Node) IsRoot() bool { return n.parent == noParent }

// Parent returns the parent node, or false for the root.
func (n *Node) Parent() (*Node, bool) {
	if n.parent == noParent {
		return nil, false
	}
	return n.tree.nodes[n.parent], true
}

// Children returns the child nodes in insertion order.
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	for i, id := range n.children {
		out[i] = n.tree.nodes[id]
	}
	return out
}

// Neighbors returns every node one edge away: the children followed by the
// parent when present.
func (n *Node) Neighbors() []*Node {
	out := make([]*Node, 0, len(n.children)+1)
	for _, id := range n.children {
		out = append(out, n.tree.nodes[id])
	}
	if n.parent != noParent {
		out = append(out, n.tree.nodes[n.parent])
	}
	return out
}

// Tree owns every node of the hierarchy and indexes them by name.
//
// A Tree is built once and then treated as read-only. Read methods are safe
// for concurrent use; AddChild is not safe to call alongside readers.
type Tree struct {
	nodes []*Node
	index map[string]NodeID
}

// New creates a tree holding a single root node.
func New(rootName string, attrs Attributes) (*Tree, error) {
	if strings.TrimSpace(rootName) == "" {
		return nil, fmt.Errorf("root: %w", ErrInvalidName)
	}
	t := &Tree{index: make(map[string]NodeID)}
	t.insert(rootName, attrs, noParent)
	return t, nil
}

// AddChild attaches a new node under parentName.
func (t *Tree) AddChild(parentName, name string, attrs Attributes) (*Node, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("child of %q: %w", parentName, ErrInvalidName)
	}
	if _, exists := t.index[name]; exists {
		return nil, fmt.Errorf("%q: %w", name, ErrDuplicateName)
	}
	pid, ok := t.index[parentName]
	if !ok {
		return nil, fmt.Errorf("parent %q: %w", parentName, ErrNodeNotFound)
	}
	return t.insert(name, attrs, pid), nil
}

func (t *Tree) insert(name string, attrs Attributes, parent NodeID) *Node {
	n := &Node{
		tree:   t,
		id:     NodeID(len(t.nodes)),
		name:   name,
		attrs:  attrs,
		parent: parent,
	}
	if parent != noParent {
		p := t.nodes[parent]
		p.children = append(p.children, n.id)
		n.depth = p.depth + 1
	}
	t.nodes = append(t.nodes, n)
	t.index[name] = n.id
	return n
}

// Lookup returns the node whose name equals name exactly.
func (t *Tree) Lookup(name string) (*Node, bool) {
	id, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return t.nodes[id], true
}

// Node resolves an arena handle.
func (t *Tree) Node(id NodeID) (*Node, bool) {
	if id < 0 || int(id) >= len(t.nodes) {
		return nil, false
	}
	return t.nodes[id], true
}

// Root returns the root node.
func (t *Tree) Root() *Node { return t.nodes[0] }

// Len returns the number of nodes.
func (t *Tree) Len() int { return len(t.nodes) }

// Walk visits nodes in pre-order until fn returns false.
func (t *Tree) Walk(fn func(*Node) bool) {
	stack := []NodeID{0}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := t.nodes[id]
		if !fn(n) {
			return
		}
		// push in reverse so the first child is visited first
		for i := len(n.children) - 1; i >= 0; i-- {
			stack = append(stack, n.children[i])
		}
	}
}

// Names returns all node names in pre-order.
func (t *Tree) Names() []string {
	names := make([]string, 0, len(t.nodes))
	t.Walk(func(n *Node) bool {
		names = append(names, n.name)
		return true
	})
	return names
}
