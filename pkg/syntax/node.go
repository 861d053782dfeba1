// Package syntax parses Kotlin source into a lightweight syntax tree.
//
// The tree mirrors the tree-sitter grammar one-to-one: node kinds are the
// grammar's production names, and both named and anonymous children are
// retained so keyword-level detail (val/var, operators) stays reachable.
// All downstream analysis works on this tree; the tree-sitter runtime is
// confined to the parser.
package syntax

// Position is a 1-based line/column location in the source.
type Position struct {
	Line uint `json:"line"`
	Col  uint `json:"col"`
}

// Span is a half-open byte range [Start, End) with resolved positions.
type Span struct {
	Start    uint     `json:"start"`
	End      uint     `json:"end"`
	StartPos Position `json:"start_pos"`
	EndPos   Position `json:"end_pos"`
}

// Node is one syntax tree node.
type Node struct {
	// Kind is the tree-sitter grammar node type, e.g. "property_declaration".
	Kind string

	// Named reports whether the node is a named grammar production.
	// Anonymous nodes carry literal tokens such as "val" or "=".
	Named bool

	// Span is the node's byte range and line/column positions.
	Span Span

	// Parent is the enclosing node, nil for the root.
	Parent *Node

	// Children holds all children in source order, anonymous ones included.
	Children []*Node

	// index is the node's position within Parent.Children.
	index int
}

// Tree is a parsed source file.
type Tree struct {
	// Path is the file path the tree was parsed from ("<stdin>" for inline input).
	Path string

	// Source is the raw file content the spans index into.
	Source []byte

	// Root is the source_file node.
	Root *Node
}

// Text returns the source text covered by n.
func (t *Tree) Text(n *Node) string {
	if n == nil || n.Span.End > uint(len(t.Source)) {
		return ""
	}

	return string(t.Source[n.Span.Start:n.Span.End])
}

// NamedChildren returns the named children of n in source order.
func (n *Node) NamedChildren() []*Node {
	named := make([]*Node, 0, len(n.Children))

	for _, child := range n.Children {
		if child.Named {
			named = append(named, child)
		}
	}

	return named
}

// ChildOfKind returns the first child with the given kind, or nil.
func (n *Node) ChildOfKind(kind string) *Node {
	for _, child := range n.Children {
		if child.Kind == kind {
			return child
		}
	}

	return nil
}

// ChildrenOfKind returns all children with the given kind in source order.
func (n *Node) ChildrenOfKind(kind string) []*Node {
	var matched []*Node

	for _, child := range n.Children {
		if child.Kind == kind {
			matched = append(matched, child)
		}
	}

	return matched
}

// HasChildOfKind reports whether any direct child has the given kind.
// Anonymous keyword children ("val", "data", ...) are matched too.
func (n *Node) HasChildOfKind(kind string) bool {
	return n.ChildOfKind(kind) != nil
}

// NextSibling returns the node following n under the same parent, or nil.
func (n *Node) NextSibling() *Node {
	if n.Parent == nil || n.index+1 >= len(n.Parent.Children) {
		return nil
	}

	return n.Parent.Children[n.index+1]
}

// PrevSibling returns the node preceding n under the same parent, or nil.
func (n *Node) PrevSibling() *Node {
	if n.Parent == nil || n.index == 0 {
		return nil
	}

	return n.Parent.Children[n.index-1]
}

// Ancestor returns the nearest ancestor with the given kind, or nil.
func (n *Node) Ancestor(kind string) *Node {
	for cur := n.Parent; cur != nil; cur = cur.Parent {
		if cur.Kind == kind {
			return cur
		}
	}

	return nil
}

// Walk visits n and its subtree in depth-first source order.
// Returning false from visit skips the node's children.
func (n *Node) Walk(visit func(*Node) bool) {
	if !visit(n) {
		return
	}

	for _, child := range n.Children {
		child.Walk(visit)
	}
}

// Contains reports whether other lies within n's byte range.
func (n *Node) Contains(other *Node) bool {
	return other != nil && n.Span.Start <= other.Span.Start && other.Span.End <= n.Span.End
}

// Find returns all named descendants (including n) with the given kind.
func (n *Node) Find(kind string) []*Node {
	var found []*Node

	n.Walk(func(cur *Node) bool {
		if cur.Kind == kind {
			found = append(found, cur)
		}

		return true
	})

	return found
}

// NodeAtLine returns the smallest named node whose span covers the given
// 1-based line, or nil when the line is outside the tree.
func (t *Tree) NodeAtLine(line uint) *Node {
	var best *Node

	t.Root.Walk(func(cur *Node) bool {
		if cur.Span.StartPos.Line > line || cur.Span.EndPos.Line < line {
			return false
		}

		if cur.Named {
			best = cur
		}

		return true
	})

	return best
}
