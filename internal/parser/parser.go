package parser

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"

	"pyshrink/internal/errors"
)

// Parser turns Python source text into an immutable syntax tree.
type Parser struct {
	lang *sitter.Language
}

func NewParser() *Parser {
	return &Parser{
		lang: sitter.NewLanguage(tree_sitter_python.Language()),
	}
}

// Parse builds a Tree for one file. The returned Tree owns both the
// tree-sitter tree and the source bytes; callers must Close it once
// all queries against it are done.
func (p *Parser) Parse(path string, content []byte) (*Tree, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(p.lang)

	tree := parser.Parse(content, nil)
	if tree == nil {
		return nil, errors.New(errors.CodeParseFailure, "parse returned no tree")
	}

	root := tree.RootNode()
	if root.HasError() {
		tree.Close()
		return nil, errors.New(errors.CodeParseFailure, "malformed source").
			WithContext(errors.CtxPath, path)
	}

	return &Tree{Path: path, Source: content, tree: tree, root: root}, nil
}

// Tree is one parsed file. It is never mutated after Parse.
type Tree struct {
	Path   string
	Source []byte

	tree *sitter.Tree
	root *sitter.Node
}

func (t *Tree) Root() *sitter.Node {
	return t.root
}

func (t *Tree) Close() {
	if t.tree != nil {
		t.tree.Close()
		t.tree = nil
	}
}

// Text returns the literal source of the given node.
func (t *Tree) Text(node *sitter.Node) string {
	if node == nil {
		return ""
	}
	return string(t.Source[node.StartByte():node.EndByte()])
}

// Line returns the 1-based start line of the node.
func Line(node *sitter.Node) int {
	return int(node.StartPosition().Row) + 1
}

// BodyLines is the number of lines the node spans past its first one.
func BodyLines(node *sitter.Node) int {
	return int(node.EndPosition().Row) - int(node.StartPosition().Row)
}

// SameNode reports whether two node handles refer to the same tree position.
func SameNode(a, b *sitter.Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.StartByte() == b.StartByte() && a.EndByte() == b.EndByte()
}
