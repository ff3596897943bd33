package parser

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Walk returns every node of the subtree rooted at node, breadth-first,
// parents before children. The root itself is included.
func Walk(node *sitter.Node) []*sitter.Node {
	return WalkFiltered(node, nil)
}

// WalkFiltered walks like Walk but drops any child (and its whole
// subtree) for which skip returns true.
func WalkFiltered(node *sitter.Node, skip func(parent, child *sitter.Node) bool) []*sitter.Node {
	if node == nil {
		return nil
	}

	nodes := []*sitter.Node{node}
	for i := 0; i < len(nodes); i++ {
		current := nodes[i]
		for j := uint(0); j < current.ChildCount(); j++ {
			child := current.Child(j)
			if child == nil {
				continue
			}
			if skip != nil && skip(current, child) {
				continue
			}
			nodes = append(nodes, child)
		}
	}

	return nodes
}

// Children returns the direct children of node.
func Children(node *sitter.Node) []*sitter.Node {
	if node == nil {
		return nil
	}
	out := make([]*sitter.Node, 0, node.ChildCount())
	for i := uint(0); i < node.ChildCount(); i++ {
		if child := node.Child(i); child != nil {
			out = append(out, child)
		}
	}
	return out
}
