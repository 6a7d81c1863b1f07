package managedgit

import "context"

// NodeID indexes a node inside its Structure.
type NodeID int

// NoParent is the Parent of a top-level node.
const NoParent NodeID = -1

// PopulateOptions are attached to a node by a population filter.
type PopulateOptions struct {
	// Descendants requests population of the node's sub-groups.
	Descendants bool `json:"descendants,omitempty" yaml:"descendants,omitempty"`
	// Labels requests auxiliary metadata such as labels or topics.
	Labels bool `json:"labels,omitempty" yaml:"labels,omitempty"`
}

// Node is one organizational unit. Children are owned by the node; Parent
// only locates the owner in the same Structure.
type Node struct {
	ID       NodeID          `json:"id" yaml:"id"`
	Name     string          `json:"name" yaml:"name"`
	Level    int             `json:"level" yaml:"level"`
	Parent   NodeID          `json:"parent" yaml:"parent"`
	Children []NodeID        `json:"children,omitempty" yaml:"children,omitempty"`
	Options  PopulateOptions `json:"options" yaml:"options"`
}

func (n Node) IsTopLevel() bool  { return n.Level == 0 }
func (n Node) HasChildren() bool { return len(n.Children) > 0 }

// NeedsDescendants reports whether sub-groups were requested for this node
// but have not been populated.
func (n Node) NeedsDescendants() bool {
	return n.Options.Descendants && !n.HasChildren()
}

// Structure is a tree of nodes stored in insertion order. The zero value is
// an empty structure. Values are immutable; Add returns a new Structure.
type Structure struct {
	nodes      []Node
	components []NodeID
}

// Add appends a node named name under parent (NoParent for top level) and
// returns the new structure and the node's ID. An unknown parent is treated
// as NoParent, so the result is always a tree.
func (s Structure) Add(parent NodeID, name string, opts PopulateOptions) (Structure, NodeID) {
	id := NodeID(len(s.nodes))
	if !s.has(parent) {
		parent = NoParent
	}

	nodes := make([]Node, len(s.nodes), len(s.nodes)+1)
	copy(nodes, s.nodes)
	components := s.components

	level := 0
	if parent == NoParent {
		components = append(append([]NodeID(nil), s.components...), id)
	} else {
		p := nodes[parent]
		level = p.Level + 1
		p.Children = append(append([]NodeID(nil), p.Children...), id)
		nodes[parent] = p
	}

	nodes = append(nodes, Node{ID: id, Name: name, Level: level, Parent: parent, Options: opts})
	return Structure{nodes: nodes, components: components}, id
}

func (s Structure) has(id NodeID) bool {
	return id >= 0 && int(id) < len(s.nodes)
}

// Len returns the number of nodes at every level.
func (s Structure) Len() int {
	return len(s.nodes)
}

// Node returns the node with the given ID.
func (s Structure) Node(id NodeID) (Node, bool) {
	if !s.has(id) {
		return Node{}, false
	}
	return s.nodes[id], true
}

// Components returns the top-level nodes in insertion order.
func (s Structure) Components() []Node {
	return s.lookup(s.components)
}

// Children returns the direct children of id in insertion order.
func (s Structure) Children(id NodeID) []Node {
	n, ok := s.Node(id)
	if !ok {
		return nil
	}
	return s.lookup(n.Children)
}

// Parent returns the parent of id. It reports false for top-level and
// unknown nodes.
func (s Structure) Parent(id NodeID) (Node, bool) {
	n, ok := s.Node(id)
	if !ok {
		return Node{}, false
	}
	return s.Node(n.Parent)
}

// Walk visits every node depth-first in insertion order. Returning false
// from fn stops the walk.
func (s Structure) Walk(fn func(Node) bool) {
	var visit func(ids []NodeID) bool
	visit = func(ids []NodeID) bool {
		for _, id := range ids {
			n := s.nodes[id]
			if !fn(n) || !visit(n.Children) {
				return false
			}
		}
		return true
	}
	visit(s.components)
}

func (s Structure) lookup(ids []NodeID) []Node {
	out := make([]Node, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.nodes[id])
	}
	return out
}

// StructureContext locates a population pass: nodes it adds go under Parent
// at Level.
type StructureContext struct {
	Parent NodeID
	Level  int
}

// RootContext is the context for populating top-level components.
var RootContext = StructureContext{Parent: NoParent, Level: 0}

// StructurePopulator adds nodes to a structure.
type StructurePopulator = Enhancer[StructureContext, Structure]

// Populate runs populators in order starting from an empty structure at the
// root context.
func Populate(ctx context.Context, populators ...StructurePopulator) (Structure, error) {
	return Pipeline[StructureContext, Structure](populators).Enhance(ctx, RootContext, Structure{})
}
