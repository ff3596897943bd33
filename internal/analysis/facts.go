package analysis

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"pyshrink/internal/parser"
)

// Facts holds every derived fact about one parsed file as a lazily
// computed, stored value. All facts are pure functions of the file's
// source (and, for per-function facts, of the function node), so
// strategies can query them in any order and repeatedly without
// re-traversing the tree.
//
// A Facts value is scoped to one file's analysis: construct it fresh
// per file and discard it together with the tree.
type Facts struct {
	tree *parser.Tree

	allNodes     []*sitter.Node
	haveAllNodes bool

	topLevelNodes []*sitter.Node
	haveTopLevel  bool

	functions         []Function
	haveFunctions     bool
	topFunctions      []Function
	haveTopFunctions  bool
	topAssignments    []*sitter.Node
	haveAssignments   bool
	constants         []string
	haveConstants     bool
	topImports        []string
	topImportSet      map[string]struct{}
	haveTopImports    bool
	globalSymbols     []string
	globalSymbolSet   map[string]struct{}
	haveGlobals       bool
	symbolUsages      *Counter
	nonTypeUsages     *Counter
	typeHintUsages    *Counter
	outsideNodes      []*sitter.Node
	haveOutsideNodes  bool
	callCounts        *Counter
	funcUsedSymbols   map[uint]*Counter
	funcImports       map[uint][]string
	globalAttrLookups map[bool][]AttrLookup
}

func NewFacts(tree *parser.Tree) *Facts {
	return &Facts{
		tree:              tree,
		funcUsedSymbols:   make(map[uint]*Counter),
		funcImports:       make(map[uint][]string),
		globalAttrLookups: make(map[bool][]AttrLookup),
	}
}

func (f *Facts) Tree() *parser.Tree {
	return f.tree
}

// AllNodes is every node in the file, breadth-first.
func (f *Facts) AllNodes() []*sitter.Node {
	if !f.haveAllNodes {
		f.allNodes = parser.Walk(f.tree.Root())
		f.haveAllNodes = true
	}
	return f.allNodes
}

// TopLevelNodes is the module body: direct children of the root.
func (f *Facts) TopLevelNodes() []*sitter.Node {
	if !f.haveTopLevel {
		f.topLevelNodes = parser.Children(f.tree.Root())
		f.haveTopLevel = true
	}
	return f.topLevelNodes
}

// AllFunctions is every function definition anywhere in the file,
// nested and methods included.
func (f *Facts) AllFunctions() []Function {
	if !f.haveFunctions {
		for _, node := range f.AllNodes() {
			if isFunctionNode(node) {
				f.functions = append(f.functions, functionFromNode(f.tree, node))
			}
		}
		f.haveFunctions = true
	}
	return f.functions
}

// TopLevelFunctions is only the functions defined directly in the
// module body, decorated ones included.
func (f *Facts) TopLevelFunctions() []Function {
	if !f.haveTopFunctions {
		for _, node := range f.TopLevelNodes() {
			def := node
			if node.Kind() == kindDecoratedDef {
				def = node.ChildByFieldName("definition")
			}
			if def != nil && isFunctionNode(def) {
				f.topFunctions = append(f.topFunctions, functionFromNode(f.tree, def))
			}
		}
		f.haveTopFunctions = true
	}
	return f.topFunctions
}

func (f *Facts) FunctionNames() []string {
	funcs := f.AllFunctions()
	names := make([]string, 0, len(funcs))
	for _, fn := range funcs {
		names = append(names, fn.Name)
	}
	return names
}

// TopLevelAssignments is every plain (unannotated) assignment directly
// in the module body.
func (f *Facts) TopLevelAssignments() []*sitter.Node {
	if !f.haveAssignments {
		for _, node := range f.TopLevelNodes() {
			if node.Kind() != "expression_statement" {
				continue
			}
			for _, child := range parser.Children(node) {
				if child.Kind() == kindAssignment && child.ChildByFieldName("type") == nil {
					f.topAssignments = append(f.topAssignments, child)
				}
			}
		}
		f.haveAssignments = true
	}
	return f.topAssignments
}

// Constants is the names bound by the `XYZ = const(...)` wrapper
// pattern at module top level.
func (f *Facts) Constants() []string {
	if !f.haveConstants {
		f.constants = []string{}
		for _, assign := range f.TopLevelAssignments() {
			if !isConstAssignment(f.tree, assign) {
				continue
			}
			if name := assignmentTarget(f.tree, assign); name != "" {
				f.constants = append(f.constants, name)
			}
		}
		f.haveConstants = true
	}
	return f.constants
}

// TopLevelImportedSymbols is the names bound by imports directly in the
// module body. Imports nested inside top-level conditionals do not count.
func (f *Facts) TopLevelImportedSymbols() []string {
	if !f.haveTopImports {
		f.topImports = importedSymbols(f.tree, f.TopLevelNodes())
		f.topImportSet = make(map[string]struct{}, len(f.topImports))
		for _, s := range f.topImports {
			f.topImportSet[s] = struct{}{}
		}
		f.haveTopImports = true
	}
	return f.topImports
}

func (f *Facts) IsTopLevelImport(symbol string) bool {
	f.TopLevelImportedSymbols()
	_, ok := f.topImportSet[symbol]
	return ok
}

// FunctionImportedSymbols is the names imported anywhere within the
// given function's scope.
func (f *Facts) FunctionImportedSymbols(fn Function) []string {
	key := fn.Node.StartByte()
	if cached, ok := f.funcImports[key]; ok {
		return cached
	}
	symbols := importedSymbols(f.tree, parser.Walk(fn.Node))
	f.funcImports[key] = symbols
	return symbols
}

// GlobalSymbols is the universe usage counts are attributed against:
// top-level imports, constants, and function names.
func (f *Facts) GlobalSymbols() []string {
	if !f.haveGlobals {
		f.globalSymbols = append(f.globalSymbols, f.TopLevelImportedSymbols()...)
		f.globalSymbols = append(f.globalSymbols, f.Constants()...)
		f.globalSymbols = append(f.globalSymbols, f.FunctionNames()...)
		f.globalSymbolSet = make(map[string]struct{}, len(f.globalSymbols))
		for _, s := range f.globalSymbols {
			f.globalSymbolSet[s] = struct{}{}
		}
		f.haveGlobals = true
	}
	return f.globalSymbols
}

func (f *Facts) IsGlobalSymbol(symbol string) bool {
	f.GlobalSymbols()
	_, ok := f.globalSymbolSet[symbol]
	return ok
}

// AssignmentName is the name bound by a single-target assignment node,
// or "" when the target is not a bare identifier.
func (f *Facts) AssignmentName(assign *sitter.Node) string {
	return assignmentTarget(f.tree, assign)
}

// SymbolUsages counts read-context occurrences of global symbols
// anywhere in the file, type annotations included.
func (f *Facts) SymbolUsages() *Counter {
	if f.symbolUsages == nil {
		f.symbolUsages = f.tallySymbolUsages(f.AllNodes())
	}
	return f.symbolUsages
}

// NonTypeSymbolUsages is SymbolUsages computed over the
// annotation-stripped view of the tree.
func (f *Facts) NonTypeSymbolUsages() *Counter {
	if f.nonTypeUsages == nil {
		f.nonTypeUsages = f.tallySymbolUsages(walkStripped(f.tree.Root()))
	}
	return f.nonTypeUsages
}

func (f *Facts) tallySymbolUsages(nodes []*sitter.Node) *Counter {
	counter := NewCounter()
	for _, node := range nodes {
		if classifyIdentifier(node) != ctxRead {
			continue
		}
		if name := f.tree.Text(node); f.IsGlobalSymbol(name) {
			counter.Inc(name)
		}
	}
	return counter
}

// TypeHintUsages tallies every name appearing inside parameter
// annotations, variable annotations and return types, recursing into
// the full annotation subexpression.
func (f *Facts) TypeHintUsages() *Counter {
	if f.typeHintUsages == nil {
		counter := NewCounter()
		add := func(annotation *sitter.Node) {
			if annotation == nil {
				return
			}
			for _, name := range namesInNode(f.tree, annotation) {
				counter.Inc(name)
			}
		}

		for _, node := range f.AllNodes() {
			switch node.Kind() {
			case "typed_parameter", "typed_default_parameter":
				add(node.ChildByFieldName("type"))
			case kindAssignment:
				add(node.ChildByFieldName("type"))
			case kindFunctionDef:
				add(node.ChildByFieldName("return_type"))
			}
		}
		f.typeHintUsages = counter
	}
	return f.typeHintUsages
}

// NodesOutsideFunctions is the tree minus import statements, function
// definitions and everything nested inside a function body. Top-level
// conditional bodies and class bodies stay in.
func (f *Facts) NodesOutsideFunctions() []*sitter.Node {
	if !f.haveOutsideNodes {
		skip := func(parent, child *sitter.Node) bool {
			if isImportNode(child) || isFunctionNode(child) {
				return true
			}
			if child.Kind() == kindDecoratedDef {
				def := child.ChildByFieldName("definition")
				return def != nil && isFunctionNode(def)
			}
			return false
		}
		nodes := parser.WalkFiltered(f.tree.Root(), skip)
		if len(nodes) > 0 {
			nodes = nodes[1:] // not the module itself
		}
		f.outsideNodes = nodes
		f.haveOutsideNodes = true
	}
	return f.outsideNodes
}

// UsedFunctionSymbols counts how many times each symbol is read within
// the function, disregarding type hints.
func (f *Facts) UsedFunctionSymbols(fn Function) *Counter {
	key := fn.Node.StartByte()
	if cached, ok := f.funcUsedSymbols[key]; ok {
		return cached
	}

	counter := NewCounter()
	for _, node := range walkStripped(fn.Node) {
		if classifyIdentifier(node) == ctxRead {
			counter.Inc(f.tree.Text(node))
		}
	}
	f.funcUsedSymbols[key] = counter
	return counter
}

// UsedFunctionImportSymbols filters UsedFunctionSymbols down to
// symbols imported at the module top level.
func (f *Facts) UsedFunctionImportSymbols(fn Function) *Counter {
	used := f.UsedFunctionSymbols(fn)
	filtered := NewCounter()
	for _, symbol := range used.Keys() {
		if f.IsTopLevelImport(symbol) {
			filtered.Add(symbol, used.Get(symbol))
		}
	}
	return filtered
}

// SymbolFuncUsages maps a top-level imported symbol to the functions
// using it, in first-encounter order.
type SymbolFuncUsages struct {
	Symbol string
	Usages []SymbolUsageInFunction
}

func (f *Facts) TopLevelUsagesInFunctions() []SymbolFuncUsages {
	var order []string
	bySymbol := make(map[string][]SymbolUsageInFunction)

	for _, fn := range f.AllFunctions() {
		used := f.UsedFunctionImportSymbols(fn)
		for _, symbol := range used.Keys() {
			if _, ok := bySymbol[symbol]; !ok {
				order = append(order, symbol)
			}
			bySymbol[symbol] = append(bySymbol[symbol], SymbolUsageInFunction{
				Func:   fn,
				Usages: used.Get(symbol),
			})
		}
	}

	out := make([]SymbolFuncUsages, 0, len(order))
	for _, symbol := range order {
		out = append(out, SymbolFuncUsages{Symbol: symbol, Usages: bySymbol[symbol]})
	}
	return out
}

// GlobalAttributeLookups tallies attribute accesses whose base is a
// top-level imported symbol, over the whole file.
func (f *Facts) GlobalAttributeLookups(includeTypeHints bool) []AttrLookup {
	if cached, ok := f.globalAttrLookups[includeTypeHints]; ok {
		return cached
	}

	nodes := f.AllNodes()
	if !includeTypeHints {
		nodes = walkStripped(f.tree.Root())
	}
	lookups := f.attrLookups(nodes, false)
	f.globalAttrLookups[includeTypeHints] = lookups
	return lookups
}

// FunctionLocalAttributeLookups tallies attribute accesses on
// non-imported bases within one function.
func (f *Facts) FunctionLocalAttributeLookups(fn Function) []AttrLookup {
	return f.attrLookups(parser.Walk(fn.Node), true)
}

func (f *Facts) attrLookups(nodes []*sitter.Node, local bool) []AttrLookup {
	tally := newAttrTally()
	for _, node := range nodes {
		if node.Kind() != kindAttribute {
			continue
		}
		obj := node.ChildByFieldName("object")
		if obj == nil || obj.Kind() != kindIdentifier {
			continue
		}
		base := f.tree.Text(obj)
		if f.IsTopLevelImport(base) == local {
			continue
		}
		tally.inc(base, f.tree.Text(node.ChildByFieldName("attribute")))
	}
	return tally.items()
}

// IsAttrMutated reports whether base.attr appears as a plain or
// augmented assignment target within the function.
func (f *Facts) IsAttrMutated(fn Function, base, attr string) bool {
	targetIsOurs := func(target *sitter.Node) bool {
		if target == nil || target.Kind() != kindAttribute {
			return false
		}
		obj := target.ChildByFieldName("object")
		if obj == nil || obj.Kind() != kindIdentifier {
			return false
		}
		return f.tree.Text(obj) == base && f.tree.Text(target.ChildByFieldName("attribute")) == attr
	}

	for _, node := range parser.Walk(fn.Node) {
		switch node.Kind() {
		case kindAssignment:
			if node.ChildByFieldName("type") != nil {
				continue
			}
			if targetIsOurs(node.ChildByFieldName("left")) {
				return true
			}
		case kindAugAssign:
			if targetIsOurs(node.ChildByFieldName("left")) {
				return true
			}
		}
	}
	return false
}

// IsSymbolAssigned reports whether the name is a write target anywhere
// within the function. Parameters do not count.
func (f *Facts) IsSymbolAssigned(fn Function, symbol string) bool {
	for _, node := range parser.Walk(fn.Node) {
		if classifyIdentifier(node) == ctxWrite && f.tree.Text(node) == symbol {
			return true
		}
	}
	return false
}

// FunctionCallCounts counts calls through a bare name, keyed by that
// name. Calls through attributes (method calls) are not counted.
func (f *Facts) FunctionCallCounts() *Counter {
	if f.callCounts == nil {
		counter := NewCounter()
		for _, node := range f.AllNodes() {
			if node.Kind() != kindCall {
				continue
			}
			fn := node.ChildByFieldName("function")
			if fn != nil && fn.Kind() == kindIdentifier && classifyIdentifier(fn) == ctxRead {
				counter.Inc(f.tree.Text(fn))
			}
		}
		f.callCounts = counter
	}
	return f.callCounts
}

// WriteCount counts write-context occurrences of the name anywhere in
// the file.
func (f *Facts) WriteCount(symbol string) int {
	count := 0
	for _, node := range f.AllNodes() {
		if classifyIdentifier(node) == ctxWrite && f.tree.Text(node) == symbol {
			count++
		}
	}
	return count
}

// IsReallyAConstant is the constant-ness oracle: the name is assigned
// exactly once anywhere in the file.
func (f *Facts) IsReallyAConstant(symbol string) bool {
	return f.WriteCount(symbol) == 1
}

// IsConstantNumberAssignment reports whether the top-level assignment
// binds a literal integer to a name that is never reassigned. A chain
// like `A = B = 1` counts for its first target.
func (f *Facts) IsConstantNumberAssignment(assign *sitter.Node) bool {
	right := assign.ChildByFieldName("right")
	for right != nil && right.Kind() == kindAssignment {
		right = right.ChildByFieldName("right")
	}
	if right == nil || right.Kind() != kindInteger {
		return false
	}
	name := assignmentTarget(f.tree, assign)
	if name == "" {
		return false
	}
	return f.IsReallyAConstant(name)
}

// IsUsedOutsideFunction reports whether the symbol is used outside of
// any function body, counting decorator and default-argument
// expressions as module scope since both evaluate at definition time.
func (f *Facts) IsUsedOutsideFunction(symbol string) bool {
	for _, fn := range f.AllFunctions() {
		if wrapper := fn.Node.Parent(); wrapper != nil && wrapper.Kind() == kindDecoratedDef {
			for _, child := range parser.Children(wrapper) {
				if child.Kind() == kindDecorator && containsName(f.tree, child, symbol) {
					return true
				}
			}
		}

		params := fn.Node.ChildByFieldName("parameters")
		for _, param := range parser.Children(params) {
			switch param.Kind() {
			case "default_parameter", "typed_default_parameter":
				if containsName(f.tree, param.ChildByFieldName("value"), symbol) {
					return true
				}
			}
		}
	}

	for _, node := range f.NodesOutsideFunctions() {
		if classifyIdentifier(node) == ctxRead && f.tree.Text(node) == symbol {
			return true
		}
	}

	return false
}

// IsUsedAsTypeHint reports whether the symbol's name appears anywhere
// among the type hint usages.
func (f *Facts) IsUsedAsTypeHint(symbol string) bool {
	return f.TypeHintUsages().Has(symbol)
}

// ClassInfo is a top-level class definition.
type ClassInfo struct {
	Name string
	Line int
	Node *sitter.Node
}

// TopLevelClasses is every class defined directly in the module body,
// decorated ones included.
func (f *Facts) TopLevelClasses() []ClassInfo {
	var classes []ClassInfo
	for _, node := range f.TopLevelNodes() {
		def := node
		if node.Kind() == kindDecoratedDef {
			def = node.ChildByFieldName("definition")
		}
		if def == nil || def.Kind() != kindClassDef {
			continue
		}
		classes = append(classes, ClassInfo{
			Name: f.tree.Text(def.ChildByFieldName("name")),
			Line: parser.Line(def),
			Node: def,
		})
	}
	return classes
}

// MethodNames lists the methods defined directly in the class body.
func (f *Facts) MethodNames(class ClassInfo) []string {
	return methodNames(f.tree, class.Node)
}
