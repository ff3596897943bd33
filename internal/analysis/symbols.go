package analysis

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"pyshrink/internal/parser"
)

// Scope and name classification over the raw syntax tree. Names are
// compared as plain strings; there is no real lexical scoping. A local
// variable shadowing a global of the same name is indistinguishable
// here, which is a known source of false positives.

const (
	kindFunctionDef  = "function_definition"
	kindClassDef     = "class_definition"
	kindDecoratedDef = "decorated_definition"
	kindDecorator    = "decorator"
	kindAssignment   = "assignment"
	kindAugAssign    = "augmented_assignment"
	kindAttribute    = "attribute"
	kindCall         = "call"
	kindIdentifier   = "identifier"
	kindInteger      = "integer"
)

func isImportNode(node *sitter.Node) bool {
	switch node.Kind() {
	case "import_statement", "import_from_statement", "future_import_statement":
		return true
	}
	return false
}

func isFunctionNode(node *sitter.Node) bool {
	return node.Kind() == kindFunctionDef
}

// nameContext says how an identifier occurrence relates to symbol usage.
type nameContext int

const (
	ctxNone  nameContext = iota // not a symbol occurrence (attr name, parameter, import, ...)
	ctxRead                     // a load of the symbol's value
	ctxWrite                    // a store into the symbol
)

// classifyIdentifier mirrors the load/store distinction a Python AST
// would make for this identifier. Parameters, attribute names, keyword
// names, definition names and import bindings are occurrences of text,
// not of a symbol, and classify as ctxNone.
func classifyIdentifier(node *sitter.Node) nameContext {
	if node.Kind() != kindIdentifier {
		return ctxNone
	}
	if !isExpressionName(node) {
		return ctxNone
	}
	if isWriteTarget(node) {
		return ctxWrite
	}
	if underDelete(node) {
		return ctxNone
	}
	return ctxRead
}

// isExpressionName reports whether the identifier occupies an
// expression position at all.
func isExpressionName(node *sitter.Node) bool {
	p := node.Parent()
	if p == nil {
		return false
	}

	switch p.Kind() {
	case kindAttribute:
		// only the object side of a.b is a symbol occurrence
		return !parser.SameNode(p.ChildByFieldName("attribute"), node)
	case "keyword_argument":
		return !parser.SameNode(p.ChildByFieldName("name"), node)
	case kindFunctionDef, kindClassDef:
		return !parser.SameNode(p.ChildByFieldName("name"), node)
	case "typed_parameter", "parameters", "lambda_parameters",
		"list_splat_pattern", "dictionary_splat_pattern":
		return false
	case "default_parameter", "typed_default_parameter":
		return !parser.SameNode(p.ChildByFieldName("name"), node)
	case "dotted_name", "aliased_import", "relative_import", "import_prefix":
		return false
	case "global_statement", "nonlocal_statement":
		return false
	case "keyword_pattern", "dict_pattern":
		return false
	}
	return true
}

// isWriteTarget reports whether the identifier is a store target:
// assignment or augmented-assignment left side, a for/comprehension
// target, a with/except alias, or a walrus binding. Identifiers nested
// under attribute or subscript targets stay reads, same as the
// name nodes a Python AST would mark as loads there.
func isWriteTarget(node *sitter.Node) bool {
	cur := node
	p := cur.Parent()
	for p != nil {
		switch p.Kind() {
		case "pattern_list", "tuple_pattern", "list_pattern",
			"tuple", "list", "parenthesized_expression", "list_splat_pattern":
			cur = p
			p = cur.Parent()
			continue
		}
		break
	}
	if p == nil {
		return false
	}

	switch p.Kind() {
	case kindAssignment, kindAugAssign:
		return parser.SameNode(p.ChildByFieldName("left"), cur)
	case "for_statement", "for_in_clause":
		return parser.SameNode(p.ChildByFieldName("left"), cur)
	case "named_expression":
		return parser.SameNode(p.ChildByFieldName("name"), cur)
	case "as_pattern_target":
		return true
	}
	return false
}

func underDelete(node *sitter.Node) bool {
	cur := node.Parent()
	for cur != nil {
		switch cur.Kind() {
		case "delete_statement":
			return true
		case "expression_list", "tuple", "parenthesized_expression":
			cur = cur.Parent()
			continue
		}
		return false
	}
	return false
}

// isAnnotationChild reports whether child is the type-annotation part of
// parent. Walks that skip these children see the tree as if every
// annotation and return type had been stripped, without touching the
// original tree.
func isAnnotationChild(parent, child *sitter.Node) bool {
	switch parent.Kind() {
	case kindFunctionDef:
		return parser.SameNode(parent.ChildByFieldName("return_type"), child)
	case kindAssignment:
		return parser.SameNode(parent.ChildByFieldName("type"), child)
	case "typed_parameter", "typed_default_parameter":
		return parser.SameNode(parent.ChildByFieldName("type"), child)
	}
	return false
}

// walkStripped walks the subtree with every annotation expression removed.
func walkStripped(node *sitter.Node) []*sitter.Node {
	return parser.WalkFiltered(node, isAnnotationChild)
}

// importedSymbols yields the names bound by the import statements among
// the given nodes: the alias if present, otherwise the imported name
// (the full dotted path for "import a.b"). Wildcard imports bind "*".
func importedSymbols(t *parser.Tree, nodes []*sitter.Node) []string {
	var symbols []string

	for _, node := range nodes {
		switch node.Kind() {
		case "import_statement":
			for _, child := range parser.Children(node) {
				switch child.Kind() {
				case "dotted_name", kindIdentifier:
					symbols = append(symbols, t.Text(child))
				case "aliased_import":
					symbols = append(symbols, t.Text(child.ChildByFieldName("alias")))
				}
			}
		case "import_from_statement", "future_import_statement":
			afterImport := false
			for _, child := range parser.Children(node) {
				if child.Kind() == "import" {
					afterImport = true
					continue
				}
				if !afterImport {
					continue
				}
				switch child.Kind() {
				case "dotted_name", kindIdentifier:
					symbols = append(symbols, t.Text(child))
				case "aliased_import":
					symbols = append(symbols, t.Text(child.ChildByFieldName("alias")))
				case "wildcard_import":
					symbols = append(symbols, "*")
				}
			}
		}
	}

	return symbols
}

// CallName is the name of the function called by a call node: the
// attribute name for x.y(...), the identifier for y(...).
func CallName(t *parser.Tree, call *sitter.Node) string {
	fn := call.ChildByFieldName("function")
	if fn == nil {
		return "Unknown function name"
	}
	switch fn.Kind() {
	case kindAttribute:
		return t.Text(fn.ChildByFieldName("attribute"))
	case kindIdentifier:
		return t.Text(fn)
	default:
		return "Unknown function name"
	}
}

// namesInNode collects every symbol name appearing in the subtree,
// including inside subscripted generics, skipping attribute names.
func namesInNode(t *parser.Tree, node *sitter.Node) []string {
	var names []string
	for _, n := range parser.Walk(node) {
		if n.Kind() == kindIdentifier && isExpressionName(n) {
			names = append(names, t.Text(n))
		}
	}
	return names
}

func containsName(t *parser.Tree, node *sitter.Node, symbol string) bool {
	for _, name := range namesInNode(t, node) {
		if name == symbol {
			return true
		}
	}
	return false
}

// assignmentTarget is the name assigned by a plain single-target
// assignment, or "" when the left side is not a bare identifier.
func assignmentTarget(t *parser.Tree, assign *sitter.Node) string {
	left := assign.ChildByFieldName("left")
	if left == nil || left.Kind() != kindIdentifier {
		return ""
	}
	return t.Text(left)
}

// isConstAssignment checks for the `XYZ = const(x)` wrapper pattern.
func isConstAssignment(t *parser.Tree, assign *sitter.Node) bool {
	right := assign.ChildByFieldName("right")
	if right == nil || right.Kind() != kindCall {
		return false
	}
	return CallName(t, right) == "const"
}

// methodNames lists the functions defined directly in a class body.
func methodNames(t *parser.Tree, class *sitter.Node) []string {
	body := class.ChildByFieldName("body")
	if body == nil {
		return nil
	}

	var names []string
	for _, child := range parser.Children(body) {
		def := child
		if child.Kind() == kindDecoratedDef {
			def = child.ChildByFieldName("definition")
		}
		if def != nil && isFunctionNode(def) {
			names = append(names, t.Text(def.ChildByFieldName("name")))
		}
	}
	return names
}
